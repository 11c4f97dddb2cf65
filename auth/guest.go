package auth

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	cartControllers "github.com/othmane-chaikhi/AmodgreenStore/controllers/cart"
	"github.com/othmane-chaikhi/AmodgreenStore/models"
)

const guestSessionTTL = 7 * 24 * time.Hour

// POST /auth/guest
//
// Issues a stable anonymous session key wrapped in a JWT. The key owns the
// guest's cart until the session expires.
func CreateGuestSession(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Sweep out expired sessions and their carts before minting a new one.
		if err := cartControllers.PurgeExpiredSessions(db); err != nil {
			log.Printf("⚠️ Failed to purge expired sessions: %v", err)
		}

		session := models.GuestSession{
			Key:       uuid.NewString(),
			ExpiresAt: time.Now().Add(guestSessionTTL),
		}
		if err := db.Create(&session).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
			return
		}

		token, err := issueSessionToken(session.Key, session.ExpiresAt)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Token generation failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"session_key": session.Key,
			"token":       token,
			"expires_at":  session.ExpiresAt,
		})
	}
}

func issueSessionToken(sessionKey string, expiresAt time.Time) (string, error) {
	claims := jwt.MapClaims{
		"session_key": sessionKey,
		"role":        "guest",
		"exp":         expiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}
