package api

import (
	"net/http"
	"strings"
)

// Authorization is a data table consulted once per request at the HTTP
// boundary; the engine itself never checks roles. The caller identity is
// pre-authenticated upstream and arrives as a plain role header.
const RoleHeader = "X-User-Role"

type Operation string

const (
	OpSubmitEvent Operation = "events:submit"
	OpReadTask    Operation = "tasks:read"
)

// RolePolicy maps a role to the set of operations it may perform.
type RolePolicy map[string]map[Operation]bool

// DefaultRolePolicy mirrors the deployment's standing roles: admins do
// everything, delivery agents submit and read, auditors read only.
func DefaultRolePolicy() RolePolicy {
	return RolePolicy{
		"admin": {
			OpSubmitEvent: true,
			OpReadTask:    true,
		},
		"delivery_agent": {
			OpSubmitEvent: true,
			OpReadTask:    true,
		},
		"auditor": {
			OpReadTask: true,
		},
	}
}

// Allows reports whether role may perform op.
func (p RolePolicy) Allows(role string, op Operation) bool {
	return p[role][op]
}

// Require gates a route on the policy table.
func Require(policy RolePolicy, op Operation) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := strings.TrimSpace(r.Header.Get(RoleHeader))
			if role == "" {
				writeAuthError(w, http.StatusUnauthorized, "missing role")
				return
			}
			if !policy.Allows(role, op) {
				writeAuthError(w, http.StatusForbidden, "role not permitted for this operation")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeAuthError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":"` + msg + `"}`))
}
