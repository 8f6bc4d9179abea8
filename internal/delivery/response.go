package delivery

import (
	"github.com/gofiber/fiber/v2"
)

// ErrorResponse - стандартный формат ошибки
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// respondWithError - вспомогательная функция для отправки ошибок
func respondWithError(c *fiber.Ctx, status int, message string, details ...string) error {
	resp := ErrorResponse{
		Error: message,
	}
	if len(details) > 0 {
		resp.Details = details[0]
	}
	return c.Status(status).JSON(resp)
}

// respondBadRequest - ошибка валидации (400)
func respondBadRequest(c *fiber.Ctx, message string, details ...string) error {
	return respondWithError(c, fiber.StatusBadRequest, message, details...)
}

// respondUnauthorized - ошибка авторизации (401)
func respondUnauthorized(c *fiber.Ctx, message string) error {
	return respondWithError(c, fiber.StatusUnauthorized, message)
}

// respondNotFound - ресурс не найден (404)
func respondNotFound(c *fiber.Ctx, message string) error {
	return respondWithError(c, fiber.StatusNotFound, message)
}

// respondInternalError - внутренняя ошибка (500)
func respondInternalError(c *fiber.Ctx, message string, details string) error {
	return respondWithError(c, fiber.StatusInternalServerError, message, details)
}

// respondSuccess - успешный ответ с данными
func respondSuccess(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(data)
}

// respondCreated - успешное создание (201)
func respondCreated(c *fiber.Ctx, data any) error {
	return respondSuccess(c, fiber.StatusCreated, data)
}

// respondOK - успешный ответ (200)
func respondOK(c *fiber.Ctx, data any) error {
	return respondSuccess(c, fiber.StatusOK, data)
}

// wantsJSON - клиент предпочитает JSON, а не HTML страницу
func wantsJSON(c *fiber.Ctx) bool {
	return c.Accepts(fiber.MIMETextHTML, fiber.MIMEApplicationJSON) == fiber.MIMEApplicationJSON
}
