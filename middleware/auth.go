package middleware

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles carried in JWT claims.
const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

type Claims struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Actor is who a request acts as, resolved once at the auth boundary.
// The system admin is not a persisted user, so it is a tagged variant
// rather than a magic user id.
type Actor struct {
	UserID primitive.ObjectID
	Admin  bool
}

const actorKey = "actor"

// ActorFrom reads the Actor resolved by JWTAuthMiddleware.
func ActorFrom(c *gin.Context) (Actor, bool) {
	v, ok := c.Get(actorKey)
	if !ok {
		return Actor{}, false
	}
	actor, ok := v.(Actor)
	return actor, ok
}

func jwtSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "change-this-in-production"
	}
	return []byte(secret)
}

func JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Skip middleware for OPTIONS requests (CORS preflight)
		if c.Request.Method == "OPTIONS" {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			// Try to get from query parameter
			token := c.Query("token")
			if token == "" {
				c.JSON(http.StatusUnauthorized, gin.H{
					"error":   "Authentication required",
					"message": "No authorization token provided",
				})
				c.Abort()
				return
			}
			authHeader = "Bearer " + token
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Invalid authorization header",
				"message": "Format should be: Bearer <token>",
			})
			c.Abort()
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return jwtSecret(), nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Invalid token",
				"message": "Token validation failed",
			})
			c.Abort()
			return
		}

		actor := Actor{Admin: claims.Role == RoleAdmin}
		if !actor.Admin {
			userID, err := primitive.ObjectIDFromHex(claims.UserID)
			if err != nil {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token subject"})
				c.Abort()
				return
			}
			actor.UserID = userID
		}

		c.Set(actorKey, actor)
		c.Next()
	}
}

// AdminOnly gates routes behind the SystemAdmin actor. Must run after
// JWTAuthMiddleware.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := ActorFrom(c)
		if !ok || !actor.Admin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			c.Abort()
			return
		}
		c.Next()
	}
}
