package service

import (
	"fmt"
	"time"

	"contacts-service/internal/domain"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
)

// SessionCodec выпускает и проверяет маркер сессии.
// Значение cookie подписано (и зашифровано, если задан blockKey), поэтому
// маркер нельзя подделать, просто выставив cookie в браузере.
type SessionCodec struct {
	cookie   *securecookie.SecureCookie
	lifetime time.Duration
	now      func() time.Time
}

type markerPayload struct {
	SessionID string `json:"sid"`
	IssuedAt  int64  `json:"iat"`
}

// NewSessionCodec - hashKey обязателен, blockKey может быть пустым (16/24/32 байта для AES)
func NewSessionCodec(hashKey, blockKey []byte, lifetime time.Duration) (*SessionCodec, error) {
	if len(hashKey) == 0 {
		return nil, fmt.Errorf("cookie hash key is required")
	}
	switch len(blockKey) {
	case 0, 16, 24, 32:
	default:
		return nil, fmt.Errorf("cookie block key must be 16, 24 or 32 bytes, got %d", len(blockKey))
	}
	if len(blockKey) == 0 {
		blockKey = nil
	}

	sc := securecookie.New(hashKey, blockKey).MaxAge(int(lifetime / time.Second))
	sc.SetSerializer(securecookie.JSONEncoder{})

	return &SessionCodec{cookie: sc, lifetime: lifetime, now: time.Now}, nil
}

// Lifetime - срок жизни маркера
func (c *SessionCodec) Lifetime() time.Duration {
	return c.lifetime
}

// Issue создает новую сессию и значение cookie для нее
func (c *SessionCodec) Issue() (domain.Session, string, error) {
	sess := domain.Session{
		ID:            uuid.NewString(),
		IssuedAt:      c.now().UTC().Truncate(time.Second),
		Authenticated: true,
	}

	value, err := c.cookie.Encode(domain.SessionCookieName, markerPayload{
		SessionID: sess.ID,
		IssuedAt:  sess.IssuedAt.Unix(),
	})
	if err != nil {
		return domain.Session{}, "", fmt.Errorf("failed to encode session marker: %w", err)
	}

	return sess, value, nil
}

// Decode проверяет подпись и срок маркера
func (c *SessionCodec) Decode(value string) (domain.Session, error) {
	if value == "" {
		return domain.Session{}, domain.ErrSessionMissing
	}

	var payload markerPayload
	if err := c.cookie.Decode(domain.SessionCookieName, value, &payload); err != nil {
		return domain.Session{}, fmt.Errorf("%w: %v", domain.ErrSessionInvalid, err)
	}

	issued := time.Unix(payload.IssuedAt, 0).UTC()
	if payload.SessionID == "" || c.now().After(issued.Add(c.lifetime)) {
		return domain.Session{}, domain.ErrSessionInvalid
	}

	return domain.Session{ID: payload.SessionID, IssuedAt: issued, Authenticated: true}, nil
}

// GenerateKey - случайный ключ для подписи/шифрования cookie
func GenerateKey(length int) []byte {
	return securecookie.GenerateRandomKey(length)
}
