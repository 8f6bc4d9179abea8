package delivery

import (
	"contacts-service/internal/domain"
	"contacts-service/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// LoginHandler обрабатывает форму входа и выход
type LoginHandler struct {
	verifier      service.CredentialVerifier
	sessions      *service.SessionCodec
	workspaces    *service.WorkspaceStore
	secureCookies bool
	logger        *zap.Logger
}

// NewLoginHandler создает login handler
func NewLoginHandler(
	verifier service.CredentialVerifier,
	sessions *service.SessionCodec,
	workspaces *service.WorkspaceStore,
	secureCookies bool,
	logger *zap.Logger,
) *LoginHandler {
	return &LoginHandler{
		verifier:      verifier,
		sessions:      sessions,
		workspaces:    workspaces,
		secureCookies: secureCookies,
		logger:        logger,
	}
}

// Form - страница входа
// GET /login
func (h *LoginHandler) Form(c *fiber.Ctx) error {
	return h.render(c, fiber.StatusOK, "", "")
}

// Submit проверяет пару логин/пароль и выдает маркер сессии
// POST /login
func (h *LoginHandler) Submit(c *fiber.Ctx) error {
	var req domain.LoginRequest

	if err := c.BodyParser(&req); err != nil {
		h.logger.Warn("Failed to parse login request", zap.Error(err))
		return respondBadRequest(c, "Invalid request body")
	}

	if !h.verifier.Verify(c.UserContext(), req.Username, req.Password) {
		h.logger.Info("Login rejected", zap.String("username", req.Username))
		if wantsJSON(c) {
			return c.Status(fiber.StatusUnauthorized).JSON(domain.LoginResponse{
				Success: false,
				Message: domain.LoginErrorMessage,
			})
		}
		return h.render(c, fiber.StatusUnauthorized, req.Username, domain.LoginErrorMessage)
	}

	sess, value, err := h.sessions.Issue()
	if err != nil {
		h.logger.Error("Failed to issue session marker", zap.Error(err))
		return respondInternalError(c, "Failed to create session", err.Error())
	}

	setSessionCookie(c, value, int(h.sessions.Lifetime().Seconds()), h.secureCookies)
	h.logger.Info("Login successful", zap.String("session_id", sess.ID))

	if wantsJSON(c) {
		return respondOK(c, domain.LoginResponse{
			Success:   true,
			SessionID: sess.ID,
			Message:   "Login successful",
		})
	}

	return c.Redirect("/", fiber.StatusFound)
}

// Logout удаляет маркер и рабочее состояние сессии
// POST /logout
func (h *LoginHandler) Logout(c *fiber.Ctx) error {
	if sess, ok := domain.SessionFrom(c.UserContext()); ok {
		h.workspaces.Drop(sess.ID)
		h.logger.Info("Logout", zap.String("session_id", sess.ID))
	}

	clearSessionCookie(c, h.secureCookies)

	if wantsJSON(c) {
		return respondOK(c, fiber.Map{"success": true})
	}
	return c.Redirect("/login", fiber.StatusFound)
}

func (h *LoginHandler) render(c *fiber.Ctx, status int, username, errMsg string) error {
	return c.Status(status).Render("login", fiber.Map{
		"Title":    "Login",
		"Username": username,
		"Error":    errMsg,
	}, "layouts/main")
}
