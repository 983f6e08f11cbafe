package importer

import "context"

// LookupFunc reports whether the destination already holds a transaction
// with the given external ID.
type LookupFunc func(ctx context.Context, externalID string) (bool, error)

// IsDuplicate decides whether a candidate should be skipped as already
// imported. It never mutates destination state, so it is safe to invoke any
// number of times; re-running a whole batch creates nothing the second time.
func IsDuplicate(ctx context.Context, externalID string, lookup LookupFunc) (bool, error) {
	if externalID == "" {
		return false, nil
	}
	return lookup(ctx, externalID)
}
