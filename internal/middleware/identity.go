package middleware

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const MemberContextKey contextKey = "memberId"

// MemberIDHeader carries the authenticated member id. The auth gateway in
// front of this service validates the caller and injects the header; the
// core trusts the value as-is and only performs authorization checks.
const MemberIDHeader = "X-Member-Id"

// GetMemberID returns the authenticated member id from the request context,
// or "" when the request did not pass through the identity middleware.
func GetMemberID(ctx context.Context) string {
	if id, ok := ctx.Value(MemberContextKey).(string); ok {
		return id
	}
	return ""
}

type IdentityMiddleware struct{}

func NewIdentityMiddleware() *IdentityMiddleware {
	return &IdentityMiddleware{}
}

func (m *IdentityMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		memberID := strings.TrimSpace(r.Header.Get(MemberIDHeader))
		if memberID == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"error": "Missing member identity",
			})
			return
		}

		ctx := context.WithValue(r.Context(), MemberContextKey, memberID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
