package importer

// ResolveAccount maps a source account ID to the budget-server account ID.
// An empty mapping passes IDs through unchanged. A non-empty mapping without
// an entry for the ID returns ok=false, which the caller treats as a skip,
// not an error.
func ResolveAccount(mapping map[string]string, sourceID string) (string, bool) {
	if len(mapping) == 0 {
		return sourceID, true
	}
	dst, ok := mapping[sourceID]
	if !ok {
		return "", false
	}
	return dst, true
}
