// Package clone duplicates a plugin template into a new project directory.
// The copy is placed at <destination root>/<lowercased plugin name>, its build
// output is discarded, and the copy is given fresh class identifiers, the new
// plugin name, and any further attribute values before a clone record is
// written into it.
package clone
