package domain

import "errors"

// Fatal error classes. Either system being unreachable or rejecting the
// configured credentials aborts the whole run; everything else is recovered
// per record.
var (
	ErrConnection     = errors.New("service unreachable")
	ErrAuthentication = errors.New("authentication failed")
)
