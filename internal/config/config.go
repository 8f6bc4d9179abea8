// Package config читает настройки сервиса из окружения (.env подгружается в cmd).
package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

// LoginConfig - локальная проверка пары логин/пароль
type LoginConfig struct {
	Username     string
	PasswordHash string
	// Password - пароль открытым текстом, только вместе с AllowPlain
	Password   string
	AllowPlain bool
}

// ZitadelConfig - проверка пары через Zitadel
type ZitadelConfig struct {
	Domain  string
	PAT     string
	KeyPath string
}

// StoreConfig - эталонное хранилище контактов
type StoreConfig struct {
	Enabled bool
	// DSN - ":memory:" для хранения в памяти, иначе путь к файлу SQLite
	DSN string
}

type Config struct {
	ListenAddr     string
	ContactsAPI    string
	APITimeout     time.Duration
	CookieHashKey  []byte
	CookieBlockKey []byte
	SecureCookies  bool
	ProtectedPaths []string
	AllowOrigins   string
	LogLevel       string
	LogFormat      string

	Login   LoginConfig
	Zitadel ZitadelConfig
	Store   StoreConfig
}

// InMemoryDSN - DSN хранилища в памяти процесса
const InMemoryDSN = ":memory:"

// Load читает конфигурацию из переменных окружения процесса
func Load() (*Config, error) {
	return FromEnv(os.Getenv)
}

// FromEnv читает конфигурацию через getenv. Ошибки называют ключ.
func FromEnv(getenv func(string) string) (*Config, error) {
	r := reader{getenv: getenv}

	cfg := &Config{
		ListenAddr:     r.str("LISTEN_ADDR", ":3000"),
		ContactsAPI:    r.str("API_CONTACTOS", ""),
		APITimeout:     r.duration("API_TIMEOUT", 10*time.Second),
		CookieHashKey:  r.key("COOKIE_HASH_KEY"),
		CookieBlockKey: r.key("COOKIE_BLOCK_KEY"),
		SecureCookies:  r.boolean("COOKIE_SECURE", false),
		ProtectedPaths: r.list("PROTECTED_PATHS"),
		AllowOrigins:   r.str("CORS_ALLOW_ORIGINS", ""),
		LogLevel:       r.str("LOG_LEVEL", "info"),
		LogFormat:      r.str("LOG_FORMAT", "json"),
		Login: LoginConfig{
			Username:     r.str("LOGIN_USERNAME", ""),
			PasswordHash: r.str("LOGIN_PASSWORD_HASH", ""),
			Password:     r.str("LOGIN_PASSWORD", ""),
			AllowPlain:   r.boolean("ALLOW_PLAIN_PASSWORD", false),
		},
		Zitadel: ZitadelConfig{
			Domain:  r.str("ZITADEL_DOMAIN", ""),
			PAT:     r.str("ZITADEL_PAT", ""),
			KeyPath: r.str("ZITADEL_KEY_PATH", ""),
		},
		Store: StoreConfig{
			Enabled: r.boolean("STORE_ENABLED", false),
			DSN:     r.str("STORE_DSN", InMemoryDSN),
		},
	}
	if r.err != nil {
		return nil, r.err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет согласованность настроек и дополняет производные значения
func (c *Config) Validate() error {
	if c.APITimeout <= 0 {
		return errors.New("API_TIMEOUT must be positive")
	}

	if c.ContactsAPI == "" {
		if !c.Store.Enabled {
			return errors.New("API_CONTACTOS is required unless STORE_ENABLED=true")
		}
		local, err := localStoreURL(c.ListenAddr)
		if err != nil {
			return fmt.Errorf("LISTEN_ADDR: %w", err)
		}
		c.ContactsAPI = local
	}

	if c.Login.Password != "" && !c.Login.AllowPlain {
		return errors.New("LOGIN_PASSWORD requires ALLOW_PLAIN_PASSWORD=true, use LOGIN_PASSWORD_HASH instead")
	}
	if (c.Login.PasswordHash != "" || c.Login.Password != "") && c.Login.Username == "" {
		return errors.New("LOGIN_USERNAME is required with a login password")
	}
	if c.Zitadel.Domain != "" && c.Zitadel.PAT == "" && c.Zitadel.KeyPath == "" {
		return errors.New("either ZITADEL_PAT or ZITADEL_KEY_PATH must be set with ZITADEL_DOMAIN")
	}
	if c.Login.PasswordHash == "" && c.Login.Password == "" && c.Zitadel.Domain == "" {
		return errors.New("no credential verifier: set LOGIN_PASSWORD_HASH or ZITADEL_DOMAIN")
	}

	return nil
}

// localStoreURL - адрес эталонного хранилища на собственном listener
func localStoreURL(listenAddr string) (string, error) {
	host, port, err := net.SplitHostPort(listenAddr)
	if err != nil {
		return "", err
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(host, port) + "/api/contacts", nil
}

// reader запоминает первую ошибку разбора
type reader struct {
	getenv func(string) string
	err    error
}

func (r *reader) str(key, def string) string {
	if v := strings.TrimSpace(r.getenv(key)); v != "" {
		return v
	}
	return def
}

func (r *reader) boolean(key string, def bool) bool {
	v := r.str(key, "")
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		r.fail(fmt.Errorf("%s: %w", key, err))
		return def
	}
	return b
}

func (r *reader) duration(key string, def time.Duration) time.Duration {
	v := r.str(key, "")
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		r.fail(fmt.Errorf("%s: %w", key, err))
		return def
	}
	return d
}

// key - base64 ключ, пусто = nil (ключ будет сгенерирован при старте)
func (r *reader) key(key string) []byte {
	v := r.str(key, "")
	if v == "" {
		return nil
	}
	b, err := base64.StdEncoding.DecodeString(v)
	if err != nil {
		r.fail(fmt.Errorf("%s must be base64: %w", key, err))
		return nil
	}
	return b
}

func (r *reader) list(key string) []string {
	var out []string
	for _, p := range strings.Split(r.str(key, ""), ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (r *reader) fail(err error) {
	if r.err == nil {
		r.err = err
	}
}
