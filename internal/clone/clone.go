package clone

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/pluginkit/plugclone/internal/attribute"
	"github.com/pluginkit/plugclone/internal/logging"
	"github.com/pluginkit/plugclone/internal/manifest"
	"github.com/pluginkit/plugclone/internal/platform"
	"github.com/pluginkit/plugclone/internal/project"
	"github.com/pluginkit/plugclone/internal/substitute"
	"github.com/pluginkit/plugclone/internal/uid"
	"go.uber.org/zap"
)

var (
	// ErrDestinationExists is returned when the clone target is already present.
	ErrDestinationExists = errors.New("destination already exists")
	// ErrDestinationInsideSource is returned when the clone target lies inside
	// the template being copied.
	ErrDestinationInsideSource = errors.New("destination is inside the source project")
)

// Options configures a clone.
type Options struct {
	// Template is the project to copy. Its TargetFiles, BuildDir, and
	// RecordFile carry over to the clone.
	Template        project.Project
	DestinationRoot string
	Name            string
	// Attributes are applied after the identifiers and the name, in order.
	Attributes []substitute.Job
	// Record writes a clone record into the copy. Off by default so the
	// clone holds exactly the template's files.
	Record      bool
	ToolVersion string

	// UIDGenerator overrides uid.Generate (tests).
	UIDGenerator func() (string, error)
	// Now overrides time.Now for the clone record (tests).
	Now func() time.Time
}

// Result holds the outcome of a clone.
type Result struct {
	Destination   string
	UIDs          map[attribute.Attribute]string
	BuildRemoved  bool
	Substitutions []*substitute.Result
	RecordPath    string
}

// Destination returns where a plugin called name is cloned under root.
func Destination(root, name string) string {
	return filepath.Join(root, attribute.Lower(name))
}

// Clone copies the template to Destination(DestinationRoot, Name), removes
// the copy's build directory, and assigns new identifiers, the plugin name,
// and the optional attributes. With Options.Record it also writes a clone
// record.
//
// An existing destination is an error and is left untouched, as is a
// destination that resolves, through symlinks or not, into the template. A
// failure after the copy has started leaves whatever was copied in place.
func Clone(opts Options) (*Result, error) {
	if opts.Name == "" {
		return nil, errors.New("plugin name is required")
	}
	gen := opts.UIDGenerator
	if gen == nil {
		gen = uid.Generate
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	src, err := filepath.Abs(opts.Template.Root)
	if err != nil {
		return nil, fmt.Errorf("resolving source %s: %w", opts.Template.Root, err)
	}
	root, err := filepath.Abs(opts.DestinationRoot)
	if err != nil {
		return nil, fmt.Errorf("resolving destination %s: %w", opts.DestinationRoot, err)
	}
	dst := Destination(root, opts.Name)

	if _, err := os.Lstat(dst); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrDestinationExists, dst)
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("checking destination %s: %w", dst, err)
	}
	if err := checkInsideSource(src, root, opts.Name); err != nil {
		return nil, err
	}

	log := logging.L().With(zap.String("source", src), zap.String("destination", dst))
	log.Debug("copying template")

	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("creating destination root %s: %w", root, err)
	}
	if err := copyTree(src, dst); err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("%w: %s", ErrDestinationExists, dst)
		}
		return nil, fmt.Errorf("copying %s to %s: %w", src, dst, err)
	}

	result := &Result{
		Destination: dst,
		UIDs:        make(map[attribute.Attribute]string, 2),
	}
	target := opts.Template.WithRoot(dst)

	if removed, err := removeBuildDir(target); err != nil {
		return result, err
	} else if removed {
		log.Debug("removed build directory", zap.String("dir", target.BuildPath()))
		result.BuildRemoved = true
	}

	jobs := make([]substitute.Job, 0, 3+len(opts.Attributes))
	for _, slot := range []attribute.Attribute{attribute.UIDA, attribute.UIDB} {
		id, err := gen()
		if err != nil {
			return result, err
		}
		result.UIDs[slot] = id
		jobs = append(jobs, substitute.Job{Attribute: slot, Value: id})
	}
	jobs = append(jobs, substitute.Job{Attribute: attribute.Name, Value: opts.Name})
	jobs = append(jobs, opts.Attributes...)

	subs, err := substitute.ApplyAll(target, jobs)
	result.Substitutions = subs
	if err != nil {
		return result, err
	}
	if !opts.Record {
		return result, nil
	}

	rec := &manifest.Record{
		Name:        opts.Name,
		Source:      src,
		Destination: dst,
		CreatedAt:   now().UTC(),
		ToolVersion: opts.ToolVersion,
		UIDs: map[string]string{
			string(attribute.UIDA): result.UIDs[attribute.UIDA],
			string(attribute.UIDB): result.UIDs[attribute.UIDB],
		},
	}
	if len(opts.Attributes) > 0 {
		rec.Attributes = make(map[string]string, len(opts.Attributes))
		for _, job := range opts.Attributes {
			rec.Attributes[string(job.Attribute)] = job.Value
		}
	}
	if err := manifest.WriteRecord(target.RecordPath(), rec); err != nil {
		return result, err
	}
	result.RecordPath = target.RecordPath()

	return result, nil
}

// checkInsideSource reports ErrDestinationInsideSource when the clone of
// name under root would land in src, with symlinks in both paths evaluated.
func checkInsideSource(src, root, name string) error {
	realSrc, err := resolveExisting(src)
	if err != nil {
		return fmt.Errorf("resolving source %s: %w", src, err)
	}
	realRoot, err := resolveExisting(root)
	if err != nil {
		return fmt.Errorf("resolving destination root %s: %w", root, err)
	}
	if dst := Destination(realRoot, name); within(dst, realSrc) {
		return fmt.Errorf("%w: %s is under %s", ErrDestinationInsideSource, dst, realSrc)
	}
	return nil
}

// resolveExisting evaluates symlinks in the longest existing prefix of path
// and appends the rest unchanged. path must be absolute.
func resolveExisting(path string) (string, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err == nil {
		return resolved, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return "", err
	}
	parent := filepath.Dir(path)
	if parent == path {
		return path, nil
	}
	realParent, err := resolveExisting(parent)
	if err != nil {
		return "", err
	}
	return filepath.Join(realParent, filepath.Base(path)), nil
}

// removeBuildDir deletes the project's build directory if present. A build
// symlink is removed as a link; its target is left alone.
func removeBuildDir(p project.Project) (bool, error) {
	if p.BuildDir == "" {
		return false, nil
	}
	dir := p.BuildPath()
	if platform.IsSymlink(dir) {
		if err := os.Remove(dir); err != nil {
			return false, fmt.Errorf("removing build link %s: %w", dir, err)
		}
		return true, nil
	}
	info, err := os.Lstat(dir)
	if err != nil || !info.IsDir() {
		return false, nil
	}
	if err := os.RemoveAll(dir); err != nil {
		return false, fmt.Errorf("removing build directory %s: %w", dir, err)
	}
	return true, nil
}
