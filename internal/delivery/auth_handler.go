package delivery

import (
	"errors"
	"strings"
	"time"

	"contacts-service/internal/domain"
	"contacts-service/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// DefaultProtectedPaths - пути, закрытые маркером сессии по умолчанию
var DefaultProtectedPaths = []string{"/", "/dashboard/*"}

const sessionLocalKey = "session"

// AuthGate проверяет маркер сессии и закрывает защищенные пути
type AuthGate struct {
	sessions  *service.SessionCodec
	protected []string
	logger    *zap.Logger
}

// NewAuthGate создает gate. Пустой список путей заменяется DefaultProtectedPaths.
func NewAuthGate(sessions *service.SessionCodec, protected []string, logger *zap.Logger) *AuthGate {
	if len(protected) == 0 {
		protected = DefaultProtectedPaths
	}
	return &AuthGate{
		sessions:  sessions,
		protected: protected,
		logger:    logger,
	}
}

// Handle - middleware. Кладет сессию в контекст запроса на всех путях,
// на защищенных без валидного маркера редиректит на /login.
func (g *AuthGate) Handle(c *fiber.Ctx) error {
	sess, err := g.sessions.Decode(c.Cookies(domain.SessionCookieName))
	switch {
	case err == nil:
		c.SetUserContext(domain.WithSession(c.UserContext(), sess))
		c.Locals(sessionLocalKey, sess)
	case !errors.Is(err, domain.ErrSessionMissing):
		g.logger.Debug("Rejected session marker", zap.String("path", c.Path()), zap.Error(err))
	}

	if err != nil && MatchPath(g.protected, c.Path()) {
		return c.Redirect("/login", fiber.StatusFound)
	}

	return c.Next()
}

// MatchPath - путь совпадает с одним из шаблонов.
// Шаблон это точный путь или префикс с "/*", который покрывает сам префикс и все под ним.
// Регистр не учитывается, как и в маршрутизации fiber по умолчанию.
func MatchPath(patterns []string, path string) bool {
	path = strings.ToLower(path)
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}

	for _, p := range patterns {
		p = strings.ToLower(p)
		prefix, subtree := strings.CutSuffix(p, "/*")
		if !subtree {
			if path == p {
				return true
			}
			continue
		}
		if prefix == "" || path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

// setSessionCookie устанавливает маркер сессии
func setSessionCookie(c *fiber.Ctx, value string, maxAge int, secure bool) {
	c.Cookie(&fiber.Cookie{
		Name:     domain.SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		Secure:   secure,
		HTTPOnly: true,
		SameSite: "Lax",
	})
}

// clearSessionCookie удаляет маркер сессии
func clearSessionCookie(c *fiber.Ctx, secure bool) {
	c.Cookie(&fiber.Cookie{
		Name:     domain.SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		Secure:   secure,
		HTTPOnly: true,
		SameSite: "Lax",
	})
}
