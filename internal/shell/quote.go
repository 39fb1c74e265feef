// Package shell renders argument vectors as POSIX shell command lines.
//
// The rendering is the one printed by "p4studio profile describe" and by
// debug logging, so a user can copy a line into a terminal and get the same
// invocation p4studio would perform.
package shell

import "github.com/alessio/shellescape"

// Quote returns arg in a form the shell reads back as a single word.
//
// Words made only of safe characters are returned unchanged. Anything else is
// wrapped in single quotes, with embedded single quotes written as '"'"'.
// The empty string renders as ''.
func Quote(arg string) string {
	return shellescape.Quote(arg)
}

// Join quotes every argument and joins them with single spaces.
func Join(args []string) string {
	return shellescape.QuoteCommand(args)
}
