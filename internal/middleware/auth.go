package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	ContextUserID   = "userID"
	ContextUserRole = "userRole"

	RoleMember = "member"
	RoleStaff  = "staff"
)

// AuthMiddleware verifies an HS256 bearer token carrying "sub" (numeric user
// id) and "role" (member or staff).
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing_authorization_header"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_authorization_header"})
			return
		}

		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenMalformed
			}
			return []byte(secret), nil
		}, jwt.WithValidMethods([]string{"HS256"}))
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token_claims"})
			return
		}

		userID, ok := claims["sub"].(float64)
		role, _ := claims["role"].(string)
		if !ok || userID <= 0 || (role != RoleMember && role != RoleStaff) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token_payload"})
			return
		}

		c.Set(ContextUserID, uint(userID))
		c.Set(ContextUserRole, role)

		c.Next()
	}
}

// RequireStaff lets only staff tokens through.
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ContextUserRole) != RoleStaff {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "staff_only"})
			return
		}
		c.Next()
	}
}

// MemberID returns the caller's id when the caller is a member.
func MemberID(c *gin.Context) (uint, bool) {
	if c.GetString(ContextUserRole) != RoleMember {
		return 0, false
	}
	id, ok := c.Get(ContextUserID)
	if !ok {
		return 0, false
	}
	return id.(uint), true
}
