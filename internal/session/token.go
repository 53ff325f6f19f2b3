package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DecodeToken reads the exp and sub claims of an access token without
// verifying its signature. The server is the authority on validity; the
// client only needs the expiry to schedule refreshes and the subject for
// display.
func DecodeToken(token string) (expiresAt time.Time, subject string, err error) {
	claims := jwt.RegisteredClaims{}
	if _, _, err = jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, "", fmt.Errorf("failed to decode token: %w", err)
	}

	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	return expiresAt, claims.Subject, nil
}
