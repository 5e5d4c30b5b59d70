// AngelaMos | 2026
// auth.go

package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Taslimapopi/lifelog-server/internal/core"
)

type contextKey string

const (
	IdentityKey contextKey = "identity"
	UserRoleKey contextKey = "user_role"
)

// Identity is the verified principal attached to the request context.
type Identity struct {
	UID           string
	Email         string
	EmailVerified bool
}

type IdentityVerifier interface {
	VerifyIDToken(ctx context.Context, token string) (*Identity, error)
}

// RoleResolver looks up the application role stored for a verified email.
type RoleResolver interface {
	RoleByEmail(ctx context.Context, email string) (string, error)
}

func Authenticator(verifier IdentityVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r)

			if token == "" {
				core.JSONError(w, core.UnauthorizedError(""))
				return
			}

			identity, err := verifier.VerifyIDToken(r.Context(), token)
			if err != nil {
				slog.DebugContext(r.Context(), "id token rejected",
					"error", err,
					"request_id", GetRequestID(r.Context()),
				)
				handleAuthError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), IdentityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth attaches the identity when a valid token is present and
// otherwise lets the request through untouched.
func OptionalAuth(verifier IdentityVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := ExtractToken(r); token != "" {
				identity, err := verifier.VerifyIDToken(r.Context(), token)
				if err == nil {
					ctx := context.WithValue(r.Context(), IdentityKey, identity)
					r = r.WithContext(ctx)
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole must run after Authenticator. The role is read from the
// user record matching the verified email.
func RequireRole(
	resolver RoleResolver,
	roles ...string,
) func(http.Handler) http.Handler {
	roleSet := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		roleSet[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			email := GetUserEmail(r.Context())
			if email == "" {
				core.JSONError(w, core.UnauthorizedError(""))
				return
			}

			role, err := resolver.RoleByEmail(r.Context(), email)
			if err != nil {
				if errors.Is(err, core.ErrNotFound) {
					core.JSONError(w, core.ForbiddenError(""))
					return
				}
				core.InternalServerError(w, err)
				return
			}

			if _, ok := roleSet[role]; !ok {
				core.JSONError(w, core.ForbiddenError(""))
				return
			}

			ctx := context.WithValue(r.Context(), UserRoleKey, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func ExtractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

func handleAuthError(w http.ResponseWriter, err error) {
	if core.IsAppError(err) {
		core.JSONError(w, err)
		return
	}

	if errors.Is(err, core.ErrTokenExpired) {
		core.JSONError(w, core.TokenExpiredError())
		return
	}

	core.JSONError(w, core.TokenInvalidError())
}

func GetIdentity(ctx context.Context) *Identity {
	if identity, ok := ctx.Value(IdentityKey).(*Identity); ok {
		return identity
	}
	return nil
}

func GetUserEmail(ctx context.Context) string {
	if identity := GetIdentity(ctx); identity != nil {
		return identity.Email
	}
	return ""
}

func GetUserRole(ctx context.Context) string {
	if role, ok := ctx.Value(UserRoleKey).(string); ok {
		return role
	}
	return ""
}

func IsAuthenticated(ctx context.Context) bool {
	return GetUserEmail(ctx) != ""
}

// WithIdentity returns ctx carrying identity. Used by tests and by
// internal callers that already hold a verified principal.
func WithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, identity)
}
