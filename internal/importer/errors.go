package importer

import "fmt"

// Error wraps any failure raised while importing one document. It is
// the single error kind surfaced on ERRORED responses; the original
// cause is available through Unwrap.
type Error struct {
	Reference string
	Err       error
}

func (e *Error) Error() string {
	return fmt.Sprintf("import %s: %v", e.Reference, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
