package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/igwt-platform/igwt/internal/store"
)

// Handler serves registration, login and the authenticated profile endpoint.
type Handler struct {
	store  store.Store
	secret []byte
}

func NewHandler(st store.Store, secret []byte) *Handler {
	return &Handler{store: st, secret: secret}
}

func (h *Handler) issueToken(userID, role string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     time.Now().Add(72 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(h.secret)
}
