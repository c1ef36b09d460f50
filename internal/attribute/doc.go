// Package attribute defines the closed set of plugin attributes that can be
// written into a template project and the literal placeholder tokens each one
// replaces. Some attributes also carry an all-lowercase token, which receives
// the lowercased value (used for namespaces and file names).
package attribute
