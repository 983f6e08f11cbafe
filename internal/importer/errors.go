package importer

import (
	"errors"
	"fmt"
)

// ErrUnmappedAccount signals that the account mapping is configured but has
// no entry for a record's source account. The record is skipped with a
// warning; the batch keeps going.
var ErrUnmappedAccount = errors.New("no account mapping for source account")

// NormalizationError reports that one raw record could not be turned into a
// canonical transaction. Recoverable: the record is counted and skipped.
type NormalizationError struct {
	Field  string
	Reason string
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("cannot normalize field %q: %s", e.Field, e.Reason)
}
