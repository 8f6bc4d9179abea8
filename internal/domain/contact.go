package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// MaxNameLength - максимальная длина имени контакта
const MaxNameLength = 100

// ContactID - идентификатор, который назначает хранилище контактов.
// Разные API отдают id строкой или числом, принимаем оба варианта.
type ContactID string

// UnmarshalJSON принимает "12", 12 и null
func (id *ContactID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*id = ContactID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("contact id must be a string or a number: %w", err)
	}
	*id = ContactID(n.String())
	return nil
}

// Contact - единственная сущность предметной области
type Contact struct {
	ID    ContactID `json:"id,omitempty"`
	Email string    `json:"email" form:"email" validate:"contains=@"`
	Name  string    `json:"name" form:"name" validate:"max=100"`
	Phone string    `json:"phone" form:"phone" validate:"digits,min=6,max=15"`
}

// ValidationError - ошибка валидации конкретного поля формы
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

var fieldMessages = map[string]string{
	"email": "enter a valid email",
	"name":  "name cannot exceed 100 characters",
	"phone": "phone must be between 6 and 15 digits, numbers only",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("digits", func(fl validator.FieldLevel) bool {
		return IsDigits(fl.Field().String())
	}); err != nil {
		panic(err)
	}

	return v
}

// ValidateContact проверяет контакт и возвращает ошибку первого невалидного поля
// (порядок: email, name, phone).
func ValidateContact(c Contact) error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		field := fieldErrs[0].Field()
		return &ValidationError{Field: field, Message: fieldMessages[field]}
	}

	return fmt.Errorf("failed to validate contact: %w", err)
}

// IsDigits - непустая строка только из цифр 0-9
func IsDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
