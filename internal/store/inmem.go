package store

import (
	"context"
	"slices"
	"strconv"
	"sync"

	"contacts-service/internal/domain"
)

// Inmem - хранилище в памяти процесса с последовательными id
type Inmem struct {
	mu       sync.Mutex
	index    map[domain.ContactID]int
	contacts []domain.Contact
	lastID   int64
}

var _ ContactsStore = (*Inmem)(nil)

// NewInmem создает хранилище с начальными контактами (id назначаются заново)
func NewInmem(cs ...domain.Contact) *Inmem {
	s := &Inmem{index: make(map[domain.ContactID]int, len(cs))}
	for _, c := range cs {
		s.appendLocked(c)
	}
	return s
}

func (s *Inmem) List(_ context.Context) ([]domain.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Contact{}, s.contacts...), nil
}

func (s *Inmem) Get(_ context.Context, id domain.ContactID) (domain.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[id]
	if !ok {
		return domain.Contact{}, ErrNotFound
	}
	return s.contacts[i], nil
}

func (s *Inmem) Create(_ context.Context, c domain.Contact) (domain.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendLocked(c), nil
}

func (s *Inmem) Update(_ context.Context, c domain.Contact) (domain.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[c.ID]
	if !ok {
		return domain.Contact{}, ErrNotFound
	}
	s.contacts[i] = c
	return c, nil
}

func (s *Inmem) Delete(_ context.Context, id domain.ContactID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[id]
	if !ok {
		return ErrNotFound
	}
	delete(s.index, id)
	s.contacts = slices.Delete(s.contacts, i, i+1)
	for j := i; j < len(s.contacts); j++ {
		s.index[s.contacts[j].ID] = j
	}
	return nil
}

func (s *Inmem) Close() error { return nil }

func (s *Inmem) appendLocked(c domain.Contact) domain.Contact {
	s.lastID++
	c.ID = domain.ContactID(strconv.FormatInt(s.lastID, 10))
	s.index[c.ID] = len(s.contacts)
	s.contacts = append(s.contacts, c)
	return c
}
