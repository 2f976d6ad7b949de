package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// CookieName carries the signed session token.
const CookieName = "studio_session"

const sessionKey = "sessionID"

type Claims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// GenerateToken signs a session token valid for ttl.
func GenerateToken(secret, sessionID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ValidateToken(secret, tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrSignatureInvalid
	}
	if _, err := uuid.Parse(claims.SessionID); err != nil {
		return nil, errors.New("session token carries no valid session id")
	}
	return claims, nil
}

// Middleware resolves the caller's session id from the cookie, minting a new
// session when the cookie is missing, expired or forged. The cookie is
// re-issued on every request so an active session never expires.
func Middleware(secret string, ttl time.Duration, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var sessionID string
		if raw, err := c.Cookie(CookieName); err == nil {
			if claims, err := ValidateToken(secret, raw); err == nil {
				sessionID = claims.SessionID
			}
		}
		if sessionID == "" {
			sessionID = uuid.NewString()
		}

		token, err := GenerateToken(secret, sessionID, ttl)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to issue session"})
			return
		}
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(CookieName, token, int(ttl.Seconds()), "/", "", secure, true)

		c.Set(sessionKey, sessionID)
		c.Next()
	}
}

// SessionID returns the id stored by Middleware.
func SessionID(c *gin.Context) string {
	return c.GetString(sessionKey)
}
