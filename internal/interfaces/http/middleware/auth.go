// Package middleware contains the HTTP middleware chain: authentication,
// role gates, request logging, metrics, and CORS.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/laborguard/complaint-service/pkg/errors"
	"github.com/laborguard/complaint-service/pkg/types/common"
)

// Claims are the token claims this service relies on.  The upstream auth
// service issues the tokens; sub carries the user ID.
type Claims struct {
	Role  string `json:"role"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenValidator verifies a bearer token and returns the claims.
type TokenValidator interface {
	Validate(tokenString string) (*Claims, error)
}

// JWTValidator validates HMAC-signed tokens.
type JWTValidator struct {
	secret []byte
	issuer string
}

// NewJWTValidator builds a validator for the configured signing secret.
// issuer is optional; when set, tokens from other issuers are rejected.
func NewJWTValidator(secret, issuer string) *JWTValidator {
	return &JWTValidator{secret: []byte(secret), issuer: issuer}
}

// Validate parses and verifies the token.
func (v *JWTValidator) Validate(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return nil, apperrors.Unauthenticated("invalid token").WithDetail(err.Error())
	}
	if !token.Valid {
		return nil, apperrors.Unauthenticated("invalid token")
	}
	if claims.Subject == "" {
		return nil, apperrors.Unauthenticated("token has no subject")
	}
	if !common.Role(claims.Role).Valid() {
		return nil, apperrors.Unauthenticated("token carries an unknown role")
	}
	return claims, nil
}

type contextKey string

const actorContextKey contextKey = "actor"

// ActorFromContext returns the authenticated actor, if any.
func ActorFromContext(ctx context.Context) (common.Actor, bool) {
	actor, ok := ctx.Value(actorContextKey).(common.Actor)
	return actor, ok
}

// WithActor attaches an actor to the context.  Used by AuthMiddleware and by
// handler tests that bypass token validation.
func WithActor(ctx context.Context, actor common.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey, actor)
}

// AuthMiddleware authenticates requests with a bearer token.
type AuthMiddleware struct {
	validator TokenValidator
}

// NewAuthMiddleware builds the middleware over any TokenValidator.
func NewAuthMiddleware(validator TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{validator: validator}
}

// Handler rejects unauthenticated requests and stores the actor in the
// request context.
func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			unauthorized(w, "missing bearer token")
			return
		}

		claims, err := m.validator.Validate(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			unauthorized(w, "invalid token")
			return
		}

		actor := common.Actor{
			ID:    claims.Subject,
			Role:  common.Role(claims.Role),
			Email: claims.Email,
		}
		next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
	})
}

// RequireRoles gates a route group to the given roles.  It must run after
// AuthMiddleware.
func RequireRoles(roles ...common.Role) func(http.Handler) http.Handler {
	allowed := make(map[common.Role]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFromContext(r.Context())
			if !ok {
				unauthorized(w, "missing bearer token")
				return
			}
			if _, ok := allowed[actor.Role]; !ok {
				forbidden(w, "insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func unauthorized(w http.ResponseWriter, message string) {
	writeAuthError(w, http.StatusUnauthorized, string(apperrors.ErrCodeUnauthenticated), message)
}

func forbidden(w http.ResponseWriter, message string) {
	writeAuthError(w, http.StatusForbidden, string(apperrors.ErrCodeForbidden), message)
}

func writeAuthError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"code":"` + code + `","message":"` + message + `"}`))
}
