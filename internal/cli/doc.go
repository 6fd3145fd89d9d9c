// Package cli is responsible for parsing command-line arguments, merging them
// over the optional config file, and mapping failures to process exit codes.
package cli
