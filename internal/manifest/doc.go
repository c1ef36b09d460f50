// Package manifest reads and writes the two YAML documents plugclone deals
// with. An info file lists attribute values to apply to a project and is
// checked against an embedded JSON Schema that only admits known attributes.
// A clone record is written into every cloned project and captures where it
// came from, the identifiers it was given, and the values substituted.
package manifest
