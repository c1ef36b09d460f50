package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/pluginkit/plugclone/internal/attribute"
	"github.com/pluginkit/plugclone/internal/substitute"
	"go.yaml.in/yaml/v3"
)

// ParseInfo validates data against the info schema and decodes it. Schema
// violations are returned as an *InvalidError listing every issue.
func ParseInfo(data []byte) (Info, error) {
	result, err := Validate(data)
	if err != nil {
		return nil, err
	}
	if !result.Valid {
		return nil, &InvalidError{Issues: result.Issues}
	}

	var raw map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing info: %w", err)
	}

	info := make(Info, len(raw))
	for k, v := range raw {
		a, err := attribute.Parse(k)
		if err != nil {
			return nil, err
		}
		info[a] = v
	}
	return info, nil
}

// ParseInfoFile reads and parses an info file.
func ParseInfoFile(path string) (Info, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	info, err := ParseInfo(data)
	if err != nil {
		return nil, fmt.Errorf("info file %s: %w", path, err)
	}
	return info, nil
}

// Jobs returns the info's assignments in canonical attribute order.
func (i Info) Jobs() []substitute.Job {
	var jobs []substitute.Job
	for _, a := range attribute.All() {
		if v, ok := i[a]; ok {
			jobs = append(jobs, substitute.Job{Attribute: a, Value: v})
		}
	}
	return jobs
}

// InvalidError reports schema violations in an info file.
type InvalidError struct {
	Issues []ValidationIssue
}

func (e *InvalidError) Error() string {
	msgs := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		msg := issue.Message
		if issue.Path != "" {
			msg = issue.Path + ": " + msg
		}
		msgs = append(msgs, msg)
	}
	return "invalid plugin info: " + strings.Join(msgs, "; ")
}

// WriteRecord stores r as YAML at path, creating parent directories.
func WriteRecord(path string, r *Record) error {
	if r.Format == "" {
		r.Format = RecordFormat
	}
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("encoding clone record: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing clone record %s: %w", path, err)
	}
	return nil
}

// LoadRecord reads a clone record. Records written by a newer major format
// are rejected with ErrUnsupportedRecord.
func LoadRecord(path string) (*Record, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}

	var r Record
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parsing clone record %s: %w", path, err)
	}
	if err := checkFormat(r.Format); err != nil {
		return nil, fmt.Errorf("clone record %s: %w", path, err)
	}
	return &r, nil
}

// checkFormat accepts any format with the same major version as RecordFormat.
func checkFormat(format string) error {
	if format == "" {
		return fmt.Errorf("%w: missing format", ErrUnsupportedRecord)
	}
	got, err := semver.NewVersion(format)
	if err != nil {
		return fmt.Errorf("%w: format %q: %v", ErrUnsupportedRecord, format, err)
	}
	supported := semver.MustParse(RecordFormat)
	if got.Major() != supported.Major() {
		return fmt.Errorf("%w: format %s, this version reads %d.x", ErrUnsupportedRecord, got, supported.Major())
	}
	return nil
}

// readFile reads the contents of a file at the given path.
func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}
	return data, nil
}
