package clone

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/pluginkit/plugclone/internal/attribute"
	"github.com/pluginkit/plugclone/internal/manifest"
	"github.com/pluginkit/plugclone/internal/project"
	"github.com/pluginkit/plugclone/internal/substitute"
	"github.com/pluginkit/plugclone/internal/uid"
)

var templateFiles = map[string]string{
	"CMakeLists.txt":               "project(llllpluginnamellll)\n",
	"README.md":                    "A template.\n",
	"source/version.h":             "#define stringPluginName \"llllPluginNamellll\"\n#define stringCompanyName \"llllCompanyNamellll\"\n",
	"source/pluginController.cpp":  "namespace llllpluginnamellll {\nFUID PluginController::uid(0xAAAAAAAA, 0xAAAAAAAA, 0xAAAAAAAA, 0xAAAAAAAA);\n}\n",
	"source/pluginProcessor.cpp":   "namespace llllpluginnamellll {\nFUID PluginProcessor::uid(0xBBBBBBBB, 0xBBBBBBBB, 0xBBBBBBBB, 0xBBBBBBBB);\n}\n",
	"source/au/audiounitconfig.h":  "#define kAUcomponentManufacturer1 'llllMfgrllll'\n#define kAUcomponentSubType1 'llllSubtypellll'\n",
	"resources/images/knob.png":    "\x89PNG\r\n",
	"build/CMakeCache.txt":         "stale\n",
	"build/Debug/plugin.vst3/blob": "binary\n",
}

func TestCloneCopiesTreeWithoutBuild(t *testing.T) {
	tmpl := newTemplate(t, templateFiles)
	root := filepath.Join(t.TempDir(), "plugins")

	result, err := Clone(Options{
		Template:        tmpl,
		DestinationRoot: root,
		Name:            "MySynth",
		UIDGenerator:    fixedUIDs(),
	})
	if err != nil {
		t.Fatalf("Clone() error: %v", err)
	}

	wantDest := filepath.Join(root, "mysynth")
	if result.Destination != wantDest {
		t.Errorf("Destination = %q, want %q", result.Destination, wantDest)
	}
	if !result.BuildRemoved {
		t.Error("BuildRemoved = false, want true")
	}
	if _, err := os.Stat(filepath.Join(wantDest, "build")); !os.IsNotExist(err) {
		t.Error("build directory should not exist in the clone")
	}

	// Files outside the target list are copied verbatim, and nothing is added.
	srcTree := readTree(t, tmpl.Root)
	dstTree := readTree(t, wantDest)
	for path, content := range srcTree {
		if strings.HasPrefix(path, "build/") {
			continue
		}
		if isTarget(tmpl, path) {
			if _, ok := dstTree[path]; !ok {
				t.Errorf("target file %s missing from clone", path)
			}
			continue
		}
		if got := dstTree[path]; got != content {
			t.Errorf("%s = %q, want %q", path, got, content)
		}
	}
	for path := range dstTree {
		if _, ok := srcTree[path]; !ok {
			t.Errorf("unexpected file %s in clone", path)
		}
	}

	// The template itself is untouched.
	if diff := cmp.Diff(templateFiles, srcTree); diff != "" {
		t.Errorf("template changed (-want +got):\n%s", diff)
	}
}

func TestCloneSubstitutesIdentity(t *testing.T) {
	tmpl := newTemplate(t, templateFiles)
	root := t.TempDir()

	result, err := Clone(Options{
		Template:        tmpl,
		DestinationRoot: root,
		Name:            "MySynth",
		Attributes: []substitute.Job{
			{Attribute: attribute.Company, Value: "Acme Audio"},
			{Attribute: attribute.Mfgr, Value: "Acme"},
			{Attribute: attribute.Subtype, Value: "MySy"},
		},
		UIDGenerator: fixedUIDs(),
	})
	if err != nil {
		t.Fatalf("Clone() error: %v", err)
	}

	dst := result.Destination
	assertFileContent(t, filepath.Join(dst, "CMakeLists.txt"), "project(mysynth)\n")
	assertFileContent(t, filepath.Join(dst, "source/version.h"),
		"#define stringPluginName \"MySynth\"\n#define stringCompanyName \"Acme Audio\"\n")
	assertFileContent(t, filepath.Join(dst, "source/pluginController.cpp"),
		"namespace mysynth {\nFUID PluginController::uid(0x00000001, 0x00000001, 0x00000001, 0x00000001);\n}\n")
	assertFileContent(t, filepath.Join(dst, "source/pluginProcessor.cpp"),
		"namespace mysynth {\nFUID PluginProcessor::uid(0x00000002, 0x00000002, 0x00000002, 0x00000002);\n}\n")
	assertFileContent(t, filepath.Join(dst, "source/au/audiounitconfig.h"),
		"#define kAUcomponentManufacturer1 'Acme'\n#define kAUcomponentSubType1 'MySy'\n")

	wantUIDs := map[attribute.Attribute]string{
		attribute.UIDA: "0x00000001, 0x00000001, 0x00000001, 0x00000001",
		attribute.UIDB: "0x00000002, 0x00000002, 0x00000002, 0x00000002",
	}
	if diff := cmp.Diff(wantUIDs, result.UIDs); diff != "" {
		t.Errorf("UIDs mismatch (-want +got):\n%s", diff)
	}
	if len(result.Substitutions) != 6 {
		t.Errorf("got %d substitution results, want 6", len(result.Substitutions))
	}
}

func TestCloneWritesRecord(t *testing.T) {
	tmpl := newTemplate(t, templateFiles)
	created := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

	result, err := Clone(Options{
		Template:        tmpl,
		DestinationRoot: t.TempDir(),
		Name:            "Aalto",
		Attributes:      []substitute.Job{{Attribute: attribute.URL, Value: "https://example.com"}},
		Record:          true,
		ToolVersion:     "0.3.0",
		UIDGenerator:    fixedUIDs(),
		Now:             func() time.Time { return created },
	})
	if err != nil {
		t.Fatalf("Clone() error: %v", err)
	}

	rec, err := manifest.LoadRecord(result.RecordPath)
	if err != nil {
		t.Fatalf("LoadRecord() error: %v", err)
	}
	want := &manifest.Record{
		Format:      manifest.RecordFormat,
		Name:        "Aalto",
		Source:      tmpl.Root,
		Destination: result.Destination,
		CreatedAt:   created,
		ToolVersion: "0.3.0",
		UIDs: map[string]string{
			"uida": "0x00000001, 0x00000001, 0x00000001, 0x00000001",
			"uidb": "0x00000002, 0x00000002, 0x00000002, 0x00000002",
		},
		Attributes: map[string]string{"url": "https://example.com"},
	}
	if diff := cmp.Diff(want, rec); diff != "" {
		t.Errorf("record mismatch (-want +got):\n%s", diff)
	}
}

func TestCloneWithoutRecord(t *testing.T) {
	tmpl := newTemplate(t, templateFiles)

	result, err := Clone(Options{Template: tmpl, DestinationRoot: t.TempDir(), Name: "Bare", UIDGenerator: fixedUIDs()})
	if err != nil {
		t.Fatalf("Clone() error: %v", err)
	}
	if result.RecordPath != "" {
		t.Errorf("RecordPath = %q, want empty", result.RecordPath)
	}
	if _, err := os.Lstat(filepath.Join(result.Destination, project.DefaultRecordFile)); !os.IsNotExist(err) {
		t.Errorf("%s written without Record", project.DefaultRecordFile)
	}
}

func TestCloneGeneratesFreshUIDs(t *testing.T) {
	tmpl := newTemplate(t, templateFiles)

	result, err := Clone(Options{Template: tmpl, DestinationRoot: t.TempDir(), Name: "Fresh"})
	if err != nil {
		t.Fatalf("Clone() error: %v", err)
	}

	a, b := result.UIDs[attribute.UIDA], result.UIDs[attribute.UIDB]
	if !uid.Pattern.MatchString(a) || !uid.Pattern.MatchString(b) {
		t.Errorf("UIDs %q / %q do not match the uid pattern", a, b)
	}
	if a == b {
		t.Errorf("uida and uidb are both %q", a)
	}
}

func TestCloneExistingDestination(t *testing.T) {
	tmpl := newTemplate(t, templateFiles)
	root := t.TempDir()
	existing := filepath.Join(root, "mysynth")
	if err := os.MkdirAll(existing, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(existing, "keep.txt"), []byte("mine"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Clone(Options{Template: tmpl, DestinationRoot: root, Name: "MySynth", UIDGenerator: fixedUIDs()})
	if !errors.Is(err, ErrDestinationExists) {
		t.Fatalf("error = %v, want ErrDestinationExists", err)
	}

	tree := readTree(t, existing)
	if diff := cmp.Diff(map[string]string{"keep.txt": "mine"}, tree); diff != "" {
		t.Errorf("existing destination changed (-want +got):\n%s", diff)
	}
}

func TestCloneIntoSource(t *testing.T) {
	tmpl := newTemplate(t, templateFiles)

	_, err := Clone(Options{Template: tmpl, DestinationRoot: filepath.Join(tmpl.Root, "clones"), Name: "Loop"})
	if !errors.Is(err, ErrDestinationInsideSource) {
		t.Fatalf("error = %v, want ErrDestinationInsideSource", err)
	}
	if _, err := os.Stat(filepath.Join(tmpl.Root, "clones")); !os.IsNotExist(err) {
		t.Error("nothing should be created inside the source")
	}
}

func TestCloneIntoSourceThroughSymlink(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need developer mode on Windows")
	}
	tmpl := newTemplate(t, templateFiles)
	clones := filepath.Join(tmpl.Root, "clones")
	if err := os.Mkdir(clones, 0755); err != nil {
		t.Fatal(err)
	}
	outside := t.TempDir()
	tests := []struct {
		name   string
		target string
		link   string
		root   string
	}{
		{"root is link", clones, filepath.Join(outside, "into-clones"), filepath.Join(outside, "into-clones")},
		{"root below link", tmpl.Root, filepath.Join(outside, "into-template"), filepath.Join(outside, "into-template", "nested")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := os.Symlink(tt.target, tt.link); err != nil {
				t.Fatal(err)
			}

			_, err := Clone(Options{Template: tmpl, DestinationRoot: tt.root, Name: "Loop", UIDGenerator: fixedUIDs()})
			if !errors.Is(err, ErrDestinationInsideSource) {
				t.Fatalf("error = %v, want ErrDestinationInsideSource", err)
			}
		})
	}

	entries, err := os.ReadDir(clones)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("template clones/ gained %d entries", len(entries))
	}
	if _, err := os.Stat(filepath.Join(tmpl.Root, "nested")); !os.IsNotExist(err) {
		t.Error("nested root was created inside the template")
	}
	if diff := cmp.Diff(templateFiles, readTree(t, tmpl.Root)); diff != "" {
		t.Errorf("template changed (-want +got):\n%s", diff)
	}
}

func TestCloneRemovesBuildSymlink(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need developer mode on Windows")
	}
	files := map[string]string{"README.md": "A template.\n"}
	tmpl := newTemplate(t, files)
	outputs := t.TempDir()
	if err := os.WriteFile(filepath.Join(outputs, "artifact"), []byte("keep"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(outputs, filepath.Join(tmpl.Root, "build")); err != nil {
		t.Fatal(err)
	}

	result, err := Clone(Options{Template: tmpl, DestinationRoot: t.TempDir(), Name: "Linked", UIDGenerator: fixedUIDs()})
	if err != nil {
		t.Fatalf("Clone() error: %v", err)
	}

	if !result.BuildRemoved {
		t.Error("BuildRemoved = false, want true")
	}
	if _, err := os.Lstat(filepath.Join(result.Destination, "build")); !os.IsNotExist(err) {
		t.Error("build symlink should not exist in the clone")
	}
	assertFileContent(t, filepath.Join(outputs, "artifact"), "keep")
}

func TestCloneRequiresName(t *testing.T) {
	tmpl := newTemplate(t, templateFiles)
	if _, err := Clone(Options{Template: tmpl, DestinationRoot: t.TempDir()}); err == nil {
		t.Fatal("expected error for empty name")
	}
}

func TestCloneMissingSource(t *testing.T) {
	root := t.TempDir()
	_, err := Clone(Options{
		Template:        project.New(filepath.Join(root, "nope")),
		DestinationRoot: filepath.Join(root, "out"),
		Name:            "X",
	})
	if err == nil {
		t.Fatal("expected error for missing source")
	}
}

func TestCloneStopsOnUnknownAttribute(t *testing.T) {
	tmpl := newTemplate(t, templateFiles)

	result, err := Clone(Options{
		Template:        tmpl,
		DestinationRoot: t.TempDir(),
		Name:            "Odd",
		Attributes:      []substitute.Job{{Attribute: "colour", Value: "red"}},
		Record:          true,
		UIDGenerator:    fixedUIDs(),
	})
	if !errors.Is(err, attribute.ErrUnknownAttribute) {
		t.Fatalf("error = %v, want ErrUnknownAttribute", err)
	}
	if result == nil || result.RecordPath != "" {
		t.Error("no record should be written after a failed substitution")
	}
}

func TestCloneKeepsSymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need developer mode on Windows")
	}
	tmpl := newTemplate(t, templateFiles)
	if err := os.Symlink("README.md", filepath.Join(tmpl.Root, "LATEST.md")); err != nil {
		t.Fatal(err)
	}

	result, err := Clone(Options{Template: tmpl, DestinationRoot: t.TempDir(), Name: "Linky", UIDGenerator: fixedUIDs()})
	if err != nil {
		t.Fatalf("Clone() error: %v", err)
	}

	target, err := os.Readlink(filepath.Join(result.Destination, "LATEST.md"))
	if err != nil {
		t.Fatalf("Readlink: %v", err)
	}
	if target != "README.md" {
		t.Errorf("symlink target = %q, want README.md", target)
	}
}

func TestWithin(t *testing.T) {
	base := filepath.FromSlash("/a/b")
	tests := []struct {
		path string
		want bool
	}{
		{"/a/b", true},
		{"/a/b/c", true},
		{"/a/b/c/d", true},
		{"/a/bc", false},
		{"/a", false},
		{"/x/y", false},
		{"/a/..b", false},
	}
	for _, tt := range tests {
		if got := within(filepath.FromSlash(tt.path), base); got != tt.want {
			t.Errorf("within(%q, %q) = %v, want %v", tt.path, base, got, tt.want)
		}
	}
}

func TestDestination(t *testing.T) {
	got := Destination(filepath.FromSlash("/plugins"), "MyReverb")
	want := filepath.Join(filepath.FromSlash("/plugins"), "myreverb")
	if got != want {
		t.Errorf("Destination() = %q, want %q", got, want)
	}
}

// ─── Test Helpers ──────────────────────────────────────────────────

func newTemplate(t *testing.T, files map[string]string) project.Project {
	t.Helper()
	root := filepath.Join(t.TempDir(), "template")
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return project.New(root)
}

// readTree returns every regular file under root keyed by slash path.
func readTree(t *testing.T, root string) map[string]string {
	t.Helper()
	tree := make(map[string]string)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		tree[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	if err != nil {
		t.Fatalf("walking %s: %v", root, err)
	}
	return tree
}

func isTarget(p project.Project, rel string) bool {
	for _, f := range p.TargetFiles {
		if f == rel {
			return true
		}
	}
	return false
}

// fixedUIDs returns a generator yielding 0x00000001…, 0x00000002…, and so on.
func fixedUIDs() func() (string, error) {
	n := 0
	return func() (string, error) {
		n++
		w := fmt.Sprintf("0x%08x", n)
		return strings.Join([]string{w, w, w, w}, ", "), nil
	}
}

func assertFileContent(t *testing.T, path, want string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	if string(data) != want {
		t.Errorf("%s:\n got %q\nwant %q", path, data, want)
	}
}
