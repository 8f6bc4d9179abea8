package delivery

import (
	"contacts-service/internal/domain"

	"github.com/gofiber/fiber/v2"
)

// SessionStatus отдает состояние маркера текущего запроса
// GET /session
func SessionStatus(c *fiber.Ctx) error {
	sess, ok := domain.SessionFrom(c.UserContext())
	if !ok {
		return respondUnauthorized(c, domain.ErrSessionMissing.Error())
	}

	return respondOK(c, domain.SessionStatusResponse{
		Authenticated: true,
		SessionID:     sess.ID,
		IssuedAt:      sess.IssuedAt.Unix(),
		ExpiresAt:     sess.ExpiresAt().Unix(),
	})
}
