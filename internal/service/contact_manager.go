package service

import (
	"context"
	"slices"
	"strings"
	"sync"

	"contacts-service/internal/domain"

	"go.uber.org/zap"
)

const (
	msgContactAdded   = "Contact added successfully"
	msgContactUpdated = "Contact updated successfully"
	msgContactDeleted = "Contact deleted successfully"
)

// ContactManager хранит состояние экрана контактов одной сессии:
// рабочий список, строку поиска, модальную форму и последнее уведомление.
//
// Рабочий список - кэш удаленного хранилища, после каждой мутации он
// перезапрашивается целиком. Сетевые вызовы идут без блокировки, поэтому
// при параллельных загрузках побеждает последний пришедший ответ.
type ContactManager struct {
	api    ContactsAPI
	logger *zap.Logger

	mu        sync.Mutex
	contacts  []domain.Contact
	search    string
	form      domain.Contact
	editing   bool
	modalOpen bool
	loading   bool
	notice    *domain.Notice
}

// NewContactManager создает менеджер с пустым списком
func NewContactManager(api ContactsAPI, logger *zap.Logger) *ContactManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContactManager{api: api, logger: logger}
}

// Load перезапрашивает коллекцию и кладет ее в рабочий список в обратном порядке
// (последние добавленные первыми). Ошибка только логируется, список не меняется.
func (m *ContactManager) Load(ctx context.Context) error {
	m.mu.Lock()
	m.loading = true
	m.mu.Unlock()

	contacts, err := m.api.List(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.loading = false

	if err != nil {
		m.logger.Error("Error fetching contacts", zap.Error(err))
		return err
	}

	slices.Reverse(contacts)
	m.contacts = contacts
	m.logger.Debug("Contacts loaded", zap.Int("count", len(contacts)))
	return nil
}

// SetSearch задает строку поиска
func (m *ContactManager) SetSearch(search string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.search = search
}

// Visible - рабочий список, отфильтрованный текущей строкой поиска
func (m *ContactManager) Visible() []domain.Contact {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Filter(m.contacts, m.search)
}

// OpenCreate открывает пустую форму добавления
func (m *ContactManager) OpenCreate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetFormLocked()
	m.editing = false
	m.modalOpen = true
}

// OpenEdit открывает форму, заполненную полями контакта id.
// Неизвестный id оставляет форму как есть и выставляет уведомление об ошибке.
func (m *ContactManager) OpenEdit(id domain.ContactID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := slices.IndexFunc(m.contacts, func(c domain.Contact) bool { return c.ID == id })
	if idx < 0 {
		m.notice = &domain.Notice{Kind: domain.NoticeError, Message: domain.ErrContactNotFound.Error()}
		return domain.ErrContactNotFound
	}

	m.form = m.contacts[idx]
	m.editing = true
	m.modalOpen = true
	return nil
}

// CloseModal закрывает форму и сбрасывает ее поля
func (m *ContactManager) CloseModal() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.modalOpen = false
	m.resetFormLocked()
}

// ChangeField - одно событие ввода в поле формы.
// Для phone нечисловое значение отбрасывается, поле сохраняет прежнее значение.
func (m *ContactManager) ChangeField(field, value string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.changeFieldLocked(field, value)
}

// TypeField вводит text в поле целиком. Для phone результат тот же, что при
// посимвольном вводе через ChangeField: нецифровые символы отбрасываются ("12a3" дает "123").
func (m *ContactManager) TypeField(field, text string) error {
	if field == "phone" {
		text = keepDigits(text)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.changeFieldLocked(field, text) {
		return domain.ErrUnknownContactForm
	}
	return nil
}

// keepDigits оставляет только цифры 0-9 за один проход
func keepDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func (m *ContactManager) changeFieldLocked(field, value string) bool {
	switch field {
	case "email":
		m.form.Email = value
	case "name":
		m.form.Name = value
	case "phone":
		if value != "" && !domain.IsDigits(value) {
			return false
		}
		m.form.Phone = value
	default:
		return false
	}
	return true
}

// Submit валидирует форму и отправляет POST (добавление) или PUT (редактирование).
// При успехе список перезапрашивается, форма закрывается и сбрасывается.
// При ошибке форма остается открытой с текущими значениями.
func (m *ContactManager) Submit(ctx context.Context) error {
	m.mu.Lock()
	contact := m.form
	editing := m.editing
	m.mu.Unlock()

	if err := domain.ValidateContact(contact); err != nil {
		m.notify(domain.NoticeError, err.Error())
		return err
	}

	var err error
	if editing {
		err = m.api.Update(ctx, contact)
	} else {
		contact.ID = ""
		err = m.api.Create(ctx, contact)
	}
	if err != nil {
		m.logger.Warn("Failed to save contact", zap.Bool("editing", editing), zap.Error(err))
		m.notify(domain.NoticeError, err.Error())
		return err
	}

	_ = m.Load(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	msg := msgContactAdded
	if editing {
		msg = msgContactUpdated
	}
	m.notice = &domain.Notice{Kind: domain.NoticeSuccess, Message: msg}
	m.modalOpen = false
	m.resetFormLocked()
	return nil
}

// Delete удаляет контакт и перезапрашивает список
func (m *ContactManager) Delete(ctx context.Context, id domain.ContactID) error {
	if err := m.api.Delete(ctx, id); err != nil {
		m.logger.Warn("Failed to delete contact", zap.String("id", string(id)), zap.Error(err))
		m.notify(domain.NoticeError, err.Error())
		return err
	}

	_ = m.Load(ctx)
	m.notify(domain.NoticeSuccess, msgContactDeleted)
	return nil
}

// Snapshot возвращает копию состояния для отрисовки.
// Уведомление показывается один раз: после снимка оно сбрасывается.
func (m *ContactManager) Snapshot() domain.ManagerView {
	m.mu.Lock()
	defer m.mu.Unlock()

	view := domain.ManagerView{
		Contacts:  Filter(m.contacts, m.search),
		Total:     len(m.contacts),
		Search:    m.search,
		Loading:   m.loading,
		ModalOpen: m.modalOpen,
		Editing:   m.editing,
		Form:      m.form,
		Notice:    m.notice,
	}
	m.notice = nil
	return view
}

func (m *ContactManager) notify(kind domain.NoticeKind, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notice = &domain.Notice{Kind: kind, Message: message}
}

func (m *ContactManager) resetFormLocked() {
	m.form = domain.Contact{}
	m.editing = false
}

// Filter оставляет контакты, у которых строка "email name phone" содержит search
// без учета регистра. Пустой search оставляет все.
func Filter(contacts []domain.Contact, search string) []domain.Contact {
	needle := strings.ToLower(search)
	out := make([]domain.Contact, 0, len(contacts))
	for _, c := range contacts {
		haystack := strings.ToLower(strings.Join([]string{c.Email, c.Name, c.Phone}, " "))
		if strings.Contains(haystack, needle) {
			out = append(out, c)
		}
	}
	return out
}
