package spotify

import "strings"

// NormalizeID strips a "spotify:<kind>:" URI wrapper from an identifier,
// returning the bare id. Anything that does not carry the expected wrapper
// is returned unchanged; malformed bare ids are passed through and left for
// the Web API to reject.
func NormalizeID(id, kind string) string {
	prefix := "spotify:" + kind + ":"
	if rest, ok := strings.CutPrefix(id, prefix); ok {
		return rest
	}
	return id
}

// NormalizeIDs applies NormalizeID to every element, returning a new slice.
func NormalizeIDs(ids []string, kind string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, NormalizeID(id, kind))
	}
	return out
}
