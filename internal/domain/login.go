package domain

// LoginErrorMessage - фиксированное сообщение при неверной паре логин/пароль
const LoginErrorMessage = "Incorrect credentials. Please try again."

// LoginRequest - данные формы входа
type LoginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// LoginResponse - ответ на вход для JSON клиентов
type LoginResponse struct {
	Success   bool   `json:"success"`
	SessionID string `json:"session_id,omitempty"`
	Message   string `json:"message"`
}

// SessionStatusResponse - состояние сессии текущего запроса
type SessionStatusResponse struct {
	Authenticated bool   `json:"authenticated"`
	SessionID     string `json:"session_id,omitempty"`
	IssuedAt      int64  `json:"issued_at,omitempty"`
	ExpiresAt     int64  `json:"expires_at,omitempty"`
}
