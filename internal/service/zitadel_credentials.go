package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/zitadel/zitadel-go/v3/pkg/client"
	"github.com/zitadel/zitadel-go/v3/pkg/client/zitadel/session/v2"
	"github.com/zitadel/zitadel-go/v3/pkg/zitadel"
	"go.uber.org/zap"
)

// ZitadelCredentials проверяет логин/пароль в Zitadel:
// создает сессию с проверками пользователя и пароля.
type ZitadelCredentials struct {
	client *client.Client
	logger *zap.Logger
}

var _ CredentialVerifier = (*ZitadelCredentials)(nil)

// NewZitadelCredentials создает клиент Zitadel для сервисного аккаунта:
// через PAT, а если его нет, через JWT key file.
func NewZitadelCredentials(ctx context.Context, zitadelDomain, pat, keyPath string, logger *zap.Logger) (*ZitadelCredentials, error) {
	if zitadelDomain == "" {
		return nil, fmt.Errorf("zitadel domain is required")
	}
	if pat == "" && keyPath == "" {
		return nil, fmt.Errorf("either zitadel PAT or key path is required")
	}

	// Для localhost используем insecure соединение
	var instance *zitadel.Zitadel
	if zitadelDomain == "localhost" || strings.HasSuffix(zitadelDomain, ".localhost") {
		instance = zitadel.New(zitadelDomain, zitadel.WithInsecure("8080"))
		logger.Info("Using insecure connection for Zitadel", zap.String("domain", zitadelDomain))
	} else {
		instance = zitadel.New(zitadelDomain)
	}

	var authOption client.Option
	if pat != "" {
		authOption = client.WithAuth(client.PAT(pat))
		logger.Info("Using Personal Access Token authentication")
	} else {
		authOption = client.WithAuth(client.DefaultServiceUserAuthentication(keyPath, client.ScopeZitadelAPI()))
		logger.Info("Using JWT key file authentication", zap.String("key_path", keyPath))
	}

	zitadelClient, err := client.New(ctx, instance, authOption)
	if err != nil {
		return nil, fmt.Errorf("failed to create zitadel client: %w", err)
	}

	logger.Info("Zitadel client initialized", zap.String("domain", zitadelDomain))

	return &ZitadelCredentials{client: zitadelClient, logger: logger}, nil
}

// Verify - любая ошибка API считается несовпадением
func (z *ZitadelCredentials) Verify(ctx context.Context, username, password string) bool {
	resp, err := z.client.SessionServiceV2().CreateSession(ctx, &session.CreateSessionRequest{
		Checks: &session.Checks{
			User: &session.CheckUser{
				Search: &session.CheckUser_LoginName{
					LoginName: username,
				},
			},
			Password: &session.CheckPassword{
				Password: password,
			},
		},
	})
	if err != nil {
		z.logger.Info("Zitadel rejected credentials", zap.String("username", username), zap.Error(err))
		return false
	}

	z.logger.Debug("Zitadel accepted credentials", zap.String("session_id", resp.GetSessionId()))
	return true
}
