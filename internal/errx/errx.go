// Package errx wraps a package-level sentinel error with call-site detail
// without losing errors.Is/errors.As compatibility with the sentinel.
package errx

import "fmt"

// Wrap combines a sentinel with the underlying cause. errors.Is(result,
// sentinel) and errors.Is(result, cause) both hold.
func Wrap(sentinel, cause error) error {
	return fmt.Errorf("%w: %w", sentinel, cause)
}

// With combines a sentinel with a formatted detail string. format is
// appended directly after the sentinel's message, so callers conventionally
// start it with ": " or " " for readable output. format may itself contain
// %w verbs for further wrapped causes.
func With(sentinel error, format string, args ...interface{}) error {
	verb := make([]interface{}, 0, len(args)+1)
	verb = append(verb, sentinel)
	verb = append(verb, args...)
	return fmt.Errorf("%w"+format, verb...)
}
