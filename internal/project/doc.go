// Package project describes a plugin template on disk: where it lives, which
// files may contain placeholders, which directory holds build output, and
// where the clone record is kept. A Project is passed explicitly to every
// operation so nothing depends on the process working directory.
package project
