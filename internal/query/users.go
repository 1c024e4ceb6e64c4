// Package query derives the filtered, paginated and aggregated views the
// dashboard pages render. Everything here is pure; callers fetch the input
// lists through the records service.
package query

import (
	"strings"

	"github.com/celerix-dev/drowsewatch/pkg/schema"
)

func matchUser(u schema.User, q string) bool {
	return strings.Contains(strings.ToLower(u.FullName), q) ||
		strings.Contains(strings.ToLower(u.Email), q) ||
		strings.Contains(strings.ToLower(u.Name), q)
}

// FilterUsers keeps users whose full name, email or handle contains q,
// ignoring case. An empty q keeps everything. Order is preserved.
func FilterUsers(users []schema.User, q string) []schema.User {
	q = strings.ToLower(strings.TrimSpace(q))
	out := make([]schema.User, 0, len(users))
	for _, u := range users {
		if q == "" || matchUser(u, q) {
			out = append(out, u)
		}
	}
	return out
}

// FilterArchived is FilterUsers for the archived collection.
func FilterArchived(users []schema.ArchivedUser, q string) []schema.ArchivedUser {
	q = strings.ToLower(strings.TrimSpace(q))
	out := make([]schema.ArchivedUser, 0, len(users))
	for _, u := range users {
		if q == "" || matchUser(u.User, q) {
			out = append(out, u)
		}
	}
	return out
}
