// Package shell runs the external commands rule actions ask for.
//
// Commands run synchronously with the caller's context, inherit the caller's
// environment plus any extra variables, and write straight to the configured
// output streams. A child's non-zero exit status is reported in the Result but
// only becomes an error when the command opts in with CheckExit.
package shell
