package service

import (
	"context"
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// CredentialVerifier проверяет пару логин/пароль формы входа
type CredentialVerifier interface {
	Verify(ctx context.Context, username, password string) bool
}

// StaticCredentials - фиксированная пара логин/пароль.
// Только для тестов и локального запуска: пароль хранится открытым текстом.
type StaticCredentials struct {
	Username string
	Password string
}

var _ CredentialVerifier = StaticCredentials{}

// Verify сравнивает ввод с парой как есть, за постоянное время
func (s StaticCredentials) Verify(_ context.Context, username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.Password)) == 1
	return userOK && passOK
}

// BcryptCredentials - логин и bcrypt хэш пароля
type BcryptCredentials struct {
	username string
	hash     []byte
}

var _ CredentialVerifier = (*BcryptCredentials)(nil)

// NewBcryptCredentials проверяет, что hash - валидный bcrypt хэш
func NewBcryptCredentials(username, hash string) (*BcryptCredentials, error) {
	if username == "" {
		return nil, fmt.Errorf("username is required")
	}
	if _, err := bcrypt.Cost([]byte(hash)); err != nil {
		return nil, fmt.Errorf("invalid bcrypt hash: %w", err)
	}
	return &BcryptCredentials{username: username, hash: []byte(hash)}, nil
}

// Verify сравнивает логин и проверяет пароль по хэшу
func (b *BcryptCredentials) Verify(_ context.Context, username, password string) bool {
	if subtle.ConstantTimeCompare([]byte(username), []byte(b.username)) != 1 {
		return false
	}
	return bcrypt.CompareHashAndPassword(b.hash, []byte(password)) == nil
}

// HashPassword - bcrypt хэш для LOGIN_PASSWORD_HASH
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
