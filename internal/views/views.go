// Package views holds the list-screen state behind the admin UI:
// load, filter, delete, reload. Views talk to the server through
// narrow slices of the API client, so tests can fake them.
package views

import "strings"

type State int

const (
	StateLoading State = iota
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// matches is the case-insensitive substring check every list filter
// runs over its visible text fields.
func matches(filter string, fields ...string) bool {
	if filter == "" {
		return true
	}

	needle := strings.ToLower(filter)
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}
