package manifest

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"go.yaml.in/yaml/v3"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed schema/info.schema.json
var schemaBytes []byte

const schemaURL = "info.schema.json"

// ErrUnsupportedRecord is returned for clone records this version cannot read.
var ErrUnsupportedRecord = errors.New("unsupported clone record")

var (
	infoSchema  *jsonschema.Schema
	compileOnce sync.Once
	compileErr  error
	printer     = message.NewPrinter(language.English)
)

// ValidationResult contains the outcome of a schema validation.
type ValidationResult struct {
	Valid  bool
	Issues []ValidationIssue
}

// ValidationIssue is one schema violation.
type ValidationIssue struct {
	Path    string // instance location, e.g. "/mfgr"; empty for the document root
	Message string
	Keyword string // failing schema keyword, e.g. "additionalProperties"
}

func getSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaBytes))
		if err != nil {
			compileErr = fmt.Errorf("unmarshaling schema JSON: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, doc); err != nil {
			compileErr = fmt.Errorf("adding schema resource: %w", err)
			return
		}
		infoSchema, err = c.Compile(schemaURL)
		if err != nil {
			compileErr = fmt.Errorf("compiling schema: %w", err)
		}
	})
	return infoSchema, compileErr
}

// Validate checks YAML info data against the embedded schema. A non-nil error
// means the data could not be checked at all (bad YAML, broken schema);
// schema violations are reported through the result.
func Validate(data []byte) (*ValidationResult, error) {
	schema, err := getSchema()
	if err != nil {
		return nil, fmt.Errorf("loading schema: %w", err)
	}

	inst, err := yamlToInstance(data)
	if err != nil {
		return nil, err
	}

	err = schema.Validate(inst)
	if err == nil {
		return &ValidationResult{Valid: true}, nil
	}

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return nil, fmt.Errorf("unexpected validation error type: %w", err)
	}
	return &ValidationResult{Issues: leafIssues(ve)}, nil
}

// ValidateFile reads a file and validates it against the info schema.
func ValidateFile(path string) (*ValidationResult, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return Validate(data)
}

// yamlToInstance decodes YAML and round-trips it through JSON so the
// validator sees JSON types (json.Number rather than int, string map keys).
func yamlToInstance(data []byte) (any, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}

	jsonData, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("converting to JSON: %w", err)
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("preparing JSON for validation: %w", err)
	}
	return inst, nil
}

// leafIssues flattens the error tree into its leaves, skipping wrapper
// nodes such as $ref, and drops duplicates. Issues are sorted by path.
func leafIssues(root *jsonschema.ValidationError) []ValidationIssue {
	seen := make(map[string]bool)
	var issues []ValidationIssue

	var walk func(ve *jsonschema.ValidationError)
	walk = func(ve *jsonschema.ValidationError) {
		if len(ve.Causes) > 0 {
			for _, c := range ve.Causes {
				walk(c)
			}
			return
		}
		if ve.ErrorKind == nil {
			return
		}

		kw := ve.ErrorKind.KeywordPath()
		if len(kw) == 0 || kw[len(kw)-1] == "$ref" {
			return
		}

		issue := ValidationIssue{
			Message: ve.ErrorKind.LocalizedString(printer),
			Keyword: kw[len(kw)-1],
		}
		if len(ve.InstanceLocation) > 0 {
			issue.Path = "/" + strings.Join(ve.InstanceLocation, "/")
		}

		key := issue.Path + "|" + issue.Keyword + "|" + issue.Message
		if !seen[key] {
			seen[key] = true
			issues = append(issues, issue)
		}
	}
	walk(root)

	if len(issues) == 0 {
		return []ValidationIssue{{Message: root.Error()}}
	}
	sort.SliceStable(issues, func(i, j int) bool { return issues[i].Path < issues[j].Path })
	return issues
}
