// Package platform provides the small cross-platform filesystem operations the
// cloner and the substitution engine share: permission changes, symlink
// duplication, and whole-file replacement through a temporary sibling file.
// On Windows, permission bits are ignored and symlinks that cannot be created
// fall back to a plain copy of the link's target.
package platform
