// Package config manages user-level defaults stored at ~/.plugclone/config.yaml.
// The file holds vendor details (company, manufacturer code, URL, email, and
// a default subtype) that the clone command applies when they are not given on
// the command line. Every key can also be set through PLUGCLONE_<KEY>
// environment variables.
package config
