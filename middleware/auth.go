package middleware

import (
	"errors"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// ValidateToken resolves the caller identity from the Authorization header.
// User tokens set "user_id" in the context, guest tokens set "session_key";
// downstream cart/order handlers build their identity from whichever is
// present.
func ValidateToken(c *gin.Context) {
	tokenString := c.GetHeader("Authorization")
	if tokenString == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is missing"})
		c.Abort()
		return
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid token signing method")
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		c.Abort()
		return
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
		c.Abort()
		return
	}

	if userID, ok := claims["user_id"].(string); ok && userID != "" {
		c.Set("user_id", userID)
	} else if sessionKey, ok := claims["session_key"].(string); ok && sessionKey != "" {
		c.Set("session_key", sessionKey)
	} else {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token carries no identity"})
		c.Abort()
		return
	}

	c.Next()
}
