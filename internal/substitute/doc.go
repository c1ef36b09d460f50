// Package substitute rewrites a project's target files, replacing the
// placeholder tokens of one attribute with a caller-supplied value. Each file
// is read once, transformed in memory, and written back through a temporary
// file only when its content actually changes. Missing target files are
// reported in the Result and skipped.
package substitute
