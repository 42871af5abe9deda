package hubtest

import (
	"context"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/campus/pkg/httpx"
	"github.com/aussiebroadwan/campus/pkg/hubsdk"
	"github.com/aussiebroadwan/campus/pkg/initdata"
	"github.com/aussiebroadwan/campus/pkg/slogx"
)

type userKey struct{}

func withUser(ctx context.Context, u hubsdk.User) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

// currentUser returns the user resolved by authenticate.
func currentUser(ctx context.Context) (hubsdk.User, bool) {
	u, ok := ctx.Value(userKey{}).(hubsdk.User)
	return u, ok
}

// public reports whether a route answers without a credential.
func public(r *http.Request) bool {
	p := r.URL.Path
	switch {
	case p == "/api/health", p == "/api/auth/telegram":
		return true
	case r.Method != http.MethodGet:
		return false
	case p == "/api/news", strings.HasPrefix(p, "/api/news/"):
		return true
	case p == "/api/hackathons":
		return true
	case strings.HasPrefix(p, "/api/hackathons/"):
		return !strings.HasSuffix(p, "/applications")
	}
	return false
}

// authenticate resolves the caller from "Authorization: tma <payload>". The
// payload must carry a valid signature and belong to a user that already went
// through the credential exchange. Public routes never fail here.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if public(r) {
			if u, err := s.resolve(r); err == nil {
				r = r.WithContext(withUser(r.Context(), u))
			}
			next.ServeHTTP(w, r)
			return
		}

		u, err := s.resolve(r)
		if err != nil {
			slogx.FromContext(r.Context()).Debug("authentication failed", "error", err.msg)
			httpx.WriteError(w, http.StatusUnauthorized, err.msg)
			return
		}

		ctx := slogx.WithUserID(r.Context(), u.ID)
		next.ServeHTTP(w, r.WithContext(withUser(ctx, u)))
	})
}

type authError struct{ msg string }

func (s *Server) resolve(r *http.Request) (hubsdk.User, *authError) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return hubsdk.User{}, &authError{"missing authorization header"}
	}

	scheme, raw, ok := strings.Cut(header, " ")
	if !ok || scheme != hubsdk.AuthScheme || raw == "" {
		return hubsdk.User{}, &authError{"invalid authorization format, expected: tma <initData>"}
	}

	if err := initdata.Validate(raw, s.botToken, s.maxAge); err != nil {
		return hubsdk.User{}, &authError{"invalid init data: " + err.Error()}
	}

	tu, err := initdata.ParseUser(raw)
	if err != nil {
		return hubsdk.User{}, &authError{"invalid init data: " + err.Error()}
	}

	u, ok := s.store.userByTelegram(tu.ID)
	if !ok {
		return hubsdk.User{}, &authError{"user not found, please authenticate first"}
	}
	return u, nil
}

// requireAdmin wraps h so only admins reach it.
func requireAdmin(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, ok := currentUser(r.Context())
		if !ok {
			httpx.WriteError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		if u.Role != hubsdk.RoleAdmin {
			httpx.WriteError(w, http.StatusForbidden, "admin access required")
			return
		}
		h(w, r)
	}
}
