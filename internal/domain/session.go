package domain

import (
	"context"
	"time"
)

const (
	// SessionCookieName - имя cookie с маркером сессии
	SessionCookieName = "admin"
	// SessionLifetime - срок жизни маркера
	SessionLifetime = 24 * time.Hour
)

// Session - маркер сессии, расшифрованный из cookie.
// Не привязан к пользователю: важен только сам факт его наличия.
type Session struct {
	ID            string
	IssuedAt      time.Time
	Authenticated bool
}

// ExpiresAt - момент истечения маркера
func (s Session) ExpiresAt() time.Time {
	return s.IssuedAt.Add(SessionLifetime)
}

type sessionKey struct{}

// WithSession кладет сессию в контекст запроса
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFrom достает сессию из контекста запроса.
// ok=false если сессии нет или она не аутентифицирована.
func SessionFrom(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(Session)
	if !ok || !s.Authenticated {
		return Session{}, false
	}
	return s, true
}
