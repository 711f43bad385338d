package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laborguard/complaint-service/pkg/types/common"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims Claims, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func workerClaims() Claims {
	return Claims{
		Role:  "worker",
		Email: "w@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "worker-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func TestJWTValidator(t *testing.T) {
	v := NewJWTValidator(testSecret, "")

	claims, err := v.Validate(signToken(t, workerClaims(), testSecret))
	require.NoError(t, err)
	assert.Equal(t, "worker-1", claims.Subject)
	assert.Equal(t, "worker", claims.Role)
}

func TestJWTValidator_Rejections(t *testing.T) {
	v := NewJWTValidator(testSecret, "laborguard-auth")

	t.Run("wrong secret", func(t *testing.T) {
		c := workerClaims()
		c.Issuer = "laborguard-auth"
		_, err := v.Validate(signToken(t, c, "other-secret"))
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		c := workerClaims()
		c.Issuer = "laborguard-auth"
		c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
		_, err := v.Validate(signToken(t, c, testSecret))
		assert.Error(t, err)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		c := workerClaims()
		c.Issuer = "someone-else"
		_, err := v.Validate(signToken(t, c, testSecret))
		assert.Error(t, err)
	})

	t.Run("unknown role", func(t *testing.T) {
		c := workerClaims()
		c.Issuer = "laborguard-auth"
		c.Role = "superuser"
		_, err := v.Validate(signToken(t, c, testSecret))
		assert.Error(t, err)
	})

	t.Run("no subject", func(t *testing.T) {
		c := workerClaims()
		c.Issuer = "laborguard-auth"
		c.Subject = ""
		_, err := v.Validate(signToken(t, c, testSecret))
		assert.Error(t, err)
	})
}

func echoActor(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := ActorFromContext(r.Context())
		require.True(t, ok)
		w.Header().Set("X-Actor", actor.ID+":"+string(actor.Role))
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware(t *testing.T) {
	mw := NewAuthMiddleware(NewJWTValidator(testSecret, ""))
	handler := mw.Handler(echoActor(t))

	t.Run("missing header", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Basic abc")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, workerClaims(), testSecret))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "worker-1:worker", rec.Header().Get("X-Actor"))
	})
}

func TestRequireRoles(t *testing.T) {
	mw := NewAuthMiddleware(NewJWTValidator(testSecret, ""))
	protected := mw.Handler(RequireRoles(common.RoleAdmin)(echoActor(t)))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, workerClaims(), testSecret))
	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	adminClaims := workerClaims()
	adminClaims.Role = "admin"
	adminClaims.Subject = "admin-1"
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, adminClaims, testSecret))
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
