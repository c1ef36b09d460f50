package project

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultTargetFiles are the template files, relative to the project root,
// that may contain placeholder tokens. Not every file holds every token.
var DefaultTargetFiles = []string{
	"source/au/audiounitconfig.h",
	"source/au/Info.plist",
	"llllpluginnamellll.rc",
	"source/version.h",
	"source/factoryDefinition.cpp",
	"CMakeLists.txt",
	"source/pluginProcessor.h",
	"source/pluginProcessor.cpp",
	"source/pluginController.h",
	"source/pluginController.cpp",
}

const (
	DefaultBuildDir   = "build"
	DefaultRecordFile = ".plugclone.yaml"
)

// Project is a plugin template directory and the files substitution touches.
type Project struct {
	Root        string
	TargetFiles []string
	BuildDir    string
	RecordFile  string
}

// New returns a Project rooted at root with the compiled-in file list.
func New(root string) Project {
	targets := make([]string, len(DefaultTargetFiles))
	copy(targets, DefaultTargetFiles)
	return Project{
		Root:        root,
		TargetFiles: targets,
		BuildDir:    DefaultBuildDir,
		RecordFile:  DefaultRecordFile,
	}
}

// Open returns a Project for an existing directory, resolving root to an
// absolute path.
func Open(root string) (Project, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return Project{}, fmt.Errorf("resolving %s: %w", root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return Project{}, fmt.Errorf("opening project %s: %w", abs, err)
	}
	if !info.IsDir() {
		return Project{}, fmt.Errorf("%s is not a directory", abs)
	}
	return New(abs), nil
}

// Path joins rel onto the project root.
func (p Project) Path(rel string) string {
	return filepath.Join(p.Root, filepath.FromSlash(rel))
}

// BuildPath returns the build output directory inside the project.
func (p Project) BuildPath() string {
	return p.Path(p.BuildDir)
}

// RecordPath returns the location of the clone record.
func (p Project) RecordPath() string {
	return p.Path(p.RecordFile)
}

// WithRoot returns a copy of p rooted elsewhere, keeping its file lists.
func (p Project) WithRoot(root string) Project {
	targets := make([]string, len(p.TargetFiles))
	copy(targets, p.TargetFiles)
	p.Root = root
	p.TargetFiles = targets
	return p
}
