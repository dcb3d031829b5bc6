package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func signToken(t *testing.T, userID, role string) string {
	t.Helper()
	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(jwtSecret())
	require.NoError(t, err)
	return token
}

func testRouter() (*gin.Engine, *Actor) {
	gin.SetMode(gin.TestMode)
	var captured Actor
	r := gin.New()
	r.GET("/protected", JWTAuthMiddleware(), func(c *gin.Context) {
		captured, _ = ActorFrom(c)
		c.Status(http.StatusOK)
	})
	r.GET("/admin", JWTAuthMiddleware(), AdminOnly(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r, &captured
}

func TestAuthRejectsMissingToken(t *testing.T) {
	r, _ := testRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRejectsMalformedHeader(t *testing.T) {
	r, _ := testRouter()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Token abc")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthResolvesMemberActor(t *testing.T) {
	r, actor := testRouter()
	userID := primitive.NewObjectID()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, userID.Hex(), RoleMember))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, userID, actor.UserID)
	assert.False(t, actor.Admin)
}

func TestAuthAcceptsQueryToken(t *testing.T) {
	r, _ := testRouter()
	userID := primitive.NewObjectID()

	req := httptest.NewRequest(http.MethodGet, "/protected?token="+signToken(t, userID.Hex(), RoleMember), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminOnlyRejectsMember(t *testing.T) {
	r, _ := testRouter()

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, primitive.NewObjectID().Hex(), RoleMember))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminOnlyAllowsAdmin(t *testing.T) {
	r, _ := testRouter()

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "", RoleAdmin))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthRejectsExpiredToken(t *testing.T) {
	r, _ := testRouter()

	claims := Claims{
		UserID: primitive.NewObjectID().Hex(),
		Role:   RoleMember,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(jwtSecret())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
