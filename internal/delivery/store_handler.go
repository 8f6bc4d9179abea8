package delivery

import (
	"errors"
	"fmt"

	"contacts-service/internal/domain"
	"contacts-service/internal/store"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// StoreHandler - REST API эталонного хранилища контактов
type StoreHandler struct {
	store  store.ContactsStore
	logger *zap.Logger
}

func NewStoreHandler(s store.ContactsStore, logger *zap.Logger) *StoreHandler {
	return &StoreHandler{
		store:  s,
		logger: logger,
	}
}

// Register монтирует маршруты коллекции на router (обычно группа /api/contacts)
func (h *StoreHandler) Register(router fiber.Router) {
	router.Get("/", h.List)
	router.Post("/", h.Create)
	router.Get("/:id", h.Get)
	router.Put("/:id", h.Update)
	router.Delete("/:id", h.Delete)
}

// List - GET /api/contacts
func (h *StoreHandler) List(c *fiber.Ctx) error {
	contacts, err := h.store.List(c.UserContext())
	if err != nil {
		h.logger.Error("Failed to list contacts", zap.Error(err))
		return respondInternalError(c, "Failed to list contacts", err.Error())
	}
	return respondOK(c, contacts)
}

// Get - GET /api/contacts/:id
func (h *StoreHandler) Get(c *fiber.Ctx) error {
	contact, err := h.store.Get(c.UserContext(), domain.ContactID(c.Params("id")))
	if err != nil {
		return h.storeError(c, err)
	}
	return respondOK(c, contact)
}

// Create - POST /api/contacts
func (h *StoreHandler) Create(c *fiber.Ctx) error {
	contact, err := parseContact(c)
	if err != nil {
		return h.badContact(c, err)
	}

	created, err := h.store.Create(c.UserContext(), contact)
	if err != nil {
		return h.storeError(c, err)
	}

	h.logger.Debug("Contact created", zap.String("id", string(created.ID)))
	return respondCreated(c, created)
}

// Update - PUT /api/contacts/:id. id из пути главнее id в теле.
func (h *StoreHandler) Update(c *fiber.Ctx) error {
	contact, err := parseContact(c)
	if err != nil {
		return h.badContact(c, err)
	}
	contact.ID = domain.ContactID(c.Params("id"))

	updated, err := h.store.Update(c.UserContext(), contact)
	if err != nil {
		return h.storeError(c, err)
	}
	return respondOK(c, updated)
}

// Delete - DELETE /api/contacts/:id
func (h *StoreHandler) Delete(c *fiber.Ctx) error {
	if err := h.store.Delete(c.UserContext(), domain.ContactID(c.Params("id"))); err != nil {
		return h.storeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// parseContact разбирает и валидирует тело запроса
func parseContact(c *fiber.Ctx) (domain.Contact, error) {
	var contact domain.Contact
	if err := c.BodyParser(&contact); err != nil {
		return contact, fmt.Errorf("failed to parse contact: %w", err)
	}
	if err := domain.ValidateContact(contact); err != nil {
		return contact, err
	}
	return contact, nil
}

func (h *StoreHandler) badContact(c *fiber.Ctx, err error) error {
	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		return respondBadRequest(c, vErr.Message, vErr.Field)
	}
	h.logger.Warn("Invalid contact payload", zap.Error(err))
	return respondBadRequest(c, "Invalid request body")
}

func (h *StoreHandler) storeError(c *fiber.Ctx, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return respondNotFound(c, domain.ErrContactNotFound.Error())
	}
	h.logger.Error("Contact store failure", zap.Error(err))
	return respondInternalError(c, "Contact store failure", err.Error())
}
