// Package cli defines the Cobra command tree for the plugclone CLI. Each file
// registers one top-level command with the root command. Commands delegate to
// internal packages for the work and only handle argument parsing and
// printing progress.
//
// Problems with the user's input or project (a missing argument, an existing
// destination, an unrecognized attribute) are reported on the terminal and
// end the command without a failing exit status. Only command-line syntax
// errors from Cobra itself make the process exit non-zero, plus validate,
// whose whole job is the check.
package cli
