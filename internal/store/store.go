// Package store - эталонное хранилище контактов, которое отдается по REST
// (GET/POST /api/contacts, PUT/DELETE /api/contacts/:id).
package store

import (
	"context"
	"errors"

	"contacts-service/internal/domain"
)

// ErrNotFound - контакт с таким id не найден
var ErrNotFound = errors.New("store: contact not found")

// ContactsStore - хранилище контактов. List возвращает контакты в порядке добавления.
type ContactsStore interface {
	List(ctx context.Context) ([]domain.Contact, error)
	Get(ctx context.Context, id domain.ContactID) (domain.Contact, error)
	Create(ctx context.Context, c domain.Contact) (domain.Contact, error)
	Update(ctx context.Context, c domain.Contact) (domain.Contact, error)
	Delete(ctx context.Context, id domain.ContactID) error
	Close() error
}
