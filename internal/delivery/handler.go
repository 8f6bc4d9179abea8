package delivery

import (
	"errors"
	"strings"

	"contacts-service/internal/domain"
	"contacts-service/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// contactFields - поля формы в порядке ввода
var contactFields = []string{"email", "name", "phone"}

// ContactsHandler переводит HTTP действия в операции менеджера контактов сессии
type ContactsHandler struct {
	workspaces *service.WorkspaceStore
	logger     *zap.Logger
}

func NewContactsHandler(workspaces *service.WorkspaceStore, logger *zap.Logger) *ContactsHandler {
	return &ContactsHandler{
		workspaces: workspaces,
		logger:     logger,
	}
}

// Page - экран контактов
// GET /
func (h *ContactsHandler) Page(c *fiber.Ctx) error {
	m, ok := h.workspace(c)
	if !ok {
		return c.Redirect("/login", fiber.StatusFound)
	}
	h.applySearch(c, m)

	view := m.Snapshot()
	return c.Render("contacts", fiber.Map{
		"Title": "Contacts",
		"View":  view,
	}, "layouts/main")
}

// View - состояние экрана в JSON
// GET /dashboard/contacts
func (h *ContactsHandler) View(c *fiber.Ctx) error {
	m, ok := h.workspace(c)
	if !ok {
		return respondUnauthorized(c, domain.ErrSessionMissing.Error())
	}
	h.applySearch(c, m)

	return respondOK(c, m.Snapshot())
}

// New открывает пустую форму
// POST /dashboard/contacts/new
func (h *ContactsHandler) New(c *fiber.Ctx) error {
	m, ok := h.workspace(c)
	if !ok {
		return c.Redirect("/login", fiber.StatusFound)
	}

	m.OpenCreate()
	return h.done(c, m, fiber.StatusOK)
}

// Edit открывает форму редактирования
// POST /dashboard/contacts/:id/edit
func (h *ContactsHandler) Edit(c *fiber.Ctx) error {
	m, ok := h.workspace(c)
	if !ok {
		return c.Redirect("/login", fiber.StatusFound)
	}

	id := domain.ContactID(c.Params("id"))
	if err := m.OpenEdit(id); err != nil {
		if !wantsJSON(c) {
			// уведомление об ошибке уже выставлено менеджером
			return c.Redirect("/", fiber.StatusSeeOther)
		}
		if errors.Is(err, domain.ErrContactNotFound) {
			return respondNotFound(c, err.Error())
		}
		return respondInternalError(c, "Failed to open contact", err.Error())
	}

	return h.done(c, m, fiber.StatusOK)
}

// Form принимает поля формы и сохраняет контакт
// POST /dashboard/contacts/form
func (h *ContactsHandler) Form(c *fiber.Ctx) error {
	m, ok := h.workspace(c)
	if !ok {
		return c.Redirect("/login", fiber.StatusFound)
	}

	fields, err := formFields(c)
	if err != nil {
		h.logger.Warn("Failed to parse contact form", zap.Error(err))
		return respondBadRequest(c, "Invalid request body")
	}

	for _, name := range contactFields {
		if value, posted := fields[name]; posted {
			// ошибки нет: имя поля из contactFields
			_ = m.TypeField(name, value)
		}
	}

	status := fiber.StatusOK
	if err := m.Submit(c.UserContext()); err != nil {
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			status = fiber.StatusUnprocessableEntity
		} else {
			status = fiber.StatusBadGateway
		}
	}

	return h.done(c, m, status)
}

// Cancel закрывает форму
// POST /dashboard/contacts/cancel
func (h *ContactsHandler) Cancel(c *fiber.Ctx) error {
	m, ok := h.workspace(c)
	if !ok {
		return c.Redirect("/login", fiber.StatusFound)
	}

	m.CloseModal()
	return h.done(c, m, fiber.StatusOK)
}

// Delete удаляет контакт
// POST /dashboard/contacts/:id/delete
func (h *ContactsHandler) Delete(c *fiber.Ctx) error {
	m, ok := h.workspace(c)
	if !ok {
		return c.Redirect("/login", fiber.StatusFound)
	}

	status := fiber.StatusOK
	if err := m.Delete(c.UserContext(), domain.ContactID(c.Params("id"))); err != nil {
		status = fiber.StatusBadGateway
	}

	return h.done(c, m, status)
}

// workspace возвращает менеджер сессии запроса. Новый менеджер сразу загружает список.
func (h *ContactsHandler) workspace(c *fiber.Ctx) (*service.ContactManager, bool) {
	sess, ok := domain.SessionFrom(c.UserContext())
	if !ok {
		return nil, false
	}

	m, fresh := h.workspaces.Get(sess.ID)
	if fresh {
		// ошибка уже залогирована менеджером, экран показывает пустой список
		_ = m.Load(c.UserContext())
	}
	return m, true
}

func (h *ContactsHandler) applySearch(c *fiber.Ctx, m *service.ContactManager) {
	if c.Request().URI().QueryArgs().Has("q") {
		m.SetSearch(c.Query("q"))
	}
}

// done - JSON клиенту снимок состояния, браузеру редирект на экран (post/redirect/get)
func (h *ContactsHandler) done(c *fiber.Ctx, m *service.ContactManager, status int) error {
	if wantsJSON(c) {
		return respondSuccess(c, status, m.Snapshot())
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}

// formFields - отправленные поля формы (urlencoded, multipart или JSON объект строк)
func formFields(c *fiber.Ctx) (map[string]string, error) {
	fields := make(map[string]string)

	if strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEApplicationJSON) {
		if err := c.BodyParser(&fields); err != nil {
			return nil, err
		}
		return fields, nil
	}

	if strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEMultipartForm) {
		form, err := c.MultipartForm()
		if err != nil {
			return nil, err
		}
		for name, values := range form.Value {
			if len(values) > 0 {
				fields[name] = values[0]
			}
		}
		return fields, nil
	}

	c.Request().PostArgs().VisitAll(func(key, value []byte) {
		fields[string(key)] = string(value)
	})
	return fields, nil
}
