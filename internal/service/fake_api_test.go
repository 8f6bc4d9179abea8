package service

import (
	"context"
	"slices"
	"strconv"
	"sync"

	"contacts-service/internal/domain"
)

// fakeAPI - хранилище в памяти с внедрением ошибок
type fakeAPI struct {
	mu       sync.Mutex
	contacts []domain.Contact
	nextID   int
	calls    []string

	listErr   error
	saveErr   error
	deleteErr error
}

func newFakeAPI(contacts ...domain.Contact) *fakeAPI {
	f := &fakeAPI{}
	for _, c := range contacts {
		f.nextID++
		if c.ID == "" {
			c.ID = domain.ContactID(strconv.Itoa(f.nextID))
		}
		f.contacts = append(f.contacts, c)
	}
	return f
}

func (f *fakeAPI) List(context.Context) ([]domain.Contact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "list")
	if f.listErr != nil {
		return nil, f.listErr
	}
	return slices.Clone(f.contacts), nil
}

func (f *fakeAPI) Create(_ context.Context, c domain.Contact) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "create")
	if f.saveErr != nil {
		return f.saveErr
	}
	f.nextID++
	c.ID = domain.ContactID(strconv.Itoa(f.nextID))
	f.contacts = append(f.contacts, c)
	return nil
}

func (f *fakeAPI) Update(_ context.Context, c domain.Contact) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "update")
	if f.saveErr != nil {
		return f.saveErr
	}
	for i := range f.contacts {
		if f.contacts[i].ID == c.ID {
			f.contacts[i] = c
			return nil
		}
	}
	return domain.ErrSaveContact
}

func (f *fakeAPI) Delete(_ context.Context, id domain.ContactID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "delete")
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.contacts = slices.DeleteFunc(f.contacts, func(c domain.Contact) bool { return c.ID == id })
	return nil
}

func (f *fakeAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.calls)
}
