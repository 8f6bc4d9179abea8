package domain

// NoticeKind - тип уведомления пользователю
type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

// Notice - уведомление о результате действия
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Message string     `json:"message"`
}

// ManagerView - снимок состояния менеджера контактов для отрисовки
type ManagerView struct {
	Contacts  []Contact `json:"contacts"`
	Total     int       `json:"total"`
	Search    string    `json:"search"`
	Loading   bool      `json:"loading"`
	ModalOpen bool      `json:"modal_open"`
	Editing   bool      `json:"editing"`
	Form      Contact   `json:"form"`
	Notice    *Notice   `json:"notice,omitempty"`
}
