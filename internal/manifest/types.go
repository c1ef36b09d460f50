package manifest

import (
	"time"

	"github.com/pluginkit/plugclone/internal/attribute"
)

// Info is a set of attribute values read from a YAML info file.
type Info map[attribute.Attribute]string

// RecordFormat is the format version written into new clone records.
const RecordFormat = "1.0.0"

// Record describes how a project was produced by the cloner.
type Record struct {
	Format      string            `yaml:"format"`
	Name        string            `yaml:"name"`
	Source      string            `yaml:"source"`
	Destination string            `yaml:"destination"`
	CreatedAt   time.Time         `yaml:"created_at"`
	ToolVersion string            `yaml:"tool_version,omitempty"`
	UIDs        map[string]string `yaml:"uids"`
	Attributes  map[string]string `yaml:"attributes,omitempty"`
}
