package feacomposer

import "fmt"

// UsageError reports a composer call that is illegal in the composer's
// current state, e.g. a rule builder invoked while no block is open.
type UsageError struct {
	Op    string // the composer operation that was called
	Issue string // human-readable description of the misuse
}

// Error implements the error interface.
func (e UsageError) Error() string {
	return fmt.Sprintf("feacomposer: %s: %s", e.Op, e.Issue)
}

// ValidationError reports an argument that violates the FEA grammar's shape
// rules, e.g. a feature tag that is not 4 characters or an empty input
// sequence. The offending argument is identified by name.
type ValidationError struct {
	Op       string // the composer operation that was called
	Argument string // name of the offending argument
	Issue    string // human-readable description of the violation
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("feacomposer: %s: argument %q: %s", e.Op, e.Argument, e.Issue)
}

// errUsage records a composer state violation.
func errUsage(op, issue string) error {
	return UsageError{Op: op, Issue: issue}
}

// errValidation records a grammar-shape violation.
func errValidation(op, argument, issue string) error {
	return ValidationError{Op: op, Argument: argument, Issue: issue}
}
