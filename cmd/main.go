package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"contacts-service/internal/config"
	"contacts-service/internal/delivery"
	"contacts-service/internal/domain"
	"contacts-service/internal/logging"
	"contacts-service/internal/service"
	"contacts-service/internal/store"

	"github.com/VictoriaMetrics/metrics"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	shutdownTimeout    = 10 * time.Second
	workspaceSweepTick = time.Minute
)

var (
	envFile    string
	listenAddr string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "contacts",
	Short: "Contacts manager behind a login gate",
	Long: `contacts serves a contact list (email, name, phone) behind a session marker.

Contacts live in a remote REST store (API_CONTACTOS). With STORE_ENABLED=true the
binary also serves a reference store on /api/contacts.

Run without arguments to start the server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		envErr := godotenv.Load(envFile)

		var err error
		logger, err = logging.New(envOr("LOG_LEVEL", "info"), envOr("LOG_FORMAT", logging.FormatJSON))
		if err != nil {
			return err
		}

		if envErr != nil {
			logger.Debug("Env file not loaded, using system environment variables", zap.String("file", envFile))
		} else {
			logger.Info("Environment variables loaded from env file", zap.String("file", envFile))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password [password]",
	Short: "Print a bcrypt hash for LOGIN_PASSWORD_HASH",
	Long:  "Prints a bcrypt hash of the password given as argument or read from the first line of stdin.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  hashPassword,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Env file loaded before reading configuration")
	rootCmd.PersistentFlags().StringVar(&listenAddr, "listen", "", "Listen address (overrides LISTEN_ADDR)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(hashPasswordCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	getenv := os.Getenv
	if cmd.Flags().Changed("listen") {
		getenv = func(key string) string {
			if key == "LISTEN_ADDR" {
				return listenAddr
			}
			return os.Getenv(key)
		}
	}

	cfg, err := config.FromEnv(getenv)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	verifier, err := newVerifier(ctx, cfg)
	if err != nil {
		return err
	}

	sessions, err := newSessionCodec(cfg)
	if err != nil {
		return err
	}

	set := metrics.NewSet()
	contactsClient := service.NewContactsClient(cfg.ContactsAPI, cfg.APITimeout, set)
	managerLogger := logger.Named("contacts")
	workspaces := service.NewWorkspaceStore(func() *service.ContactManager {
		return service.NewContactManager(contactsClient, managerLogger)
	}, domain.SessionLifetime, workspaceSweepTick)
	defer workspaces.Close()

	var contactsStore store.ContactsStore
	if cfg.Store.Enabled {
		contactsStore, err = openStore(ctx, cfg.Store.DSN)
		if err != nil {
			return err
		}
		defer contactsStore.Close()
	}

	app, err := delivery.NewApp(delivery.Options{
		Logger:         logger,
		Verifier:       verifier,
		Sessions:       sessions,
		Workspaces:     workspaces,
		Metrics:        set,
		ProtectedPaths: cfg.ProtectedPaths,
		Store:          contactsStore,
		SecureCookies:  cfg.SecureCookies,
		AllowOrigins:   cfg.AllowOrigins,
	})
	if err != nil {
		return fmt.Errorf("failed to build app: %w", err)
	}

	go func() {
		<-ctx.Done()
		logger.Info("Shutting down server")
		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			logger.Error("Server shutdown failed", zap.Error(err))
		}
	}()

	logger.Info("Starting server",
		zap.String("addr", cfg.ListenAddr),
		zap.String("contacts_api", cfg.ContactsAPI),
		zap.Bool("store_enabled", cfg.Store.Enabled))

	if err := app.Listen(cfg.ListenAddr); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}
	return nil
}

// newVerifier выбирает проверку пары: Zitadel, bcrypt хэш или открытый пароль
func newVerifier(ctx context.Context, cfg *config.Config) (service.CredentialVerifier, error) {
	switch {
	case cfg.Zitadel.Domain != "":
		return service.NewZitadelCredentials(ctx, cfg.Zitadel.Domain, cfg.Zitadel.PAT, cfg.Zitadel.KeyPath, logger.Named("zitadel"))
	case cfg.Login.PasswordHash != "":
		return service.NewBcryptCredentials(cfg.Login.Username, cfg.Login.PasswordHash)
	case cfg.Login.Password != "" && cfg.Login.AllowPlain:
		logger.Warn("Using plain text login password, set LOGIN_PASSWORD_HASH in production")
		return service.StaticCredentials{Username: cfg.Login.Username, Password: cfg.Login.Password}, nil
	}
	return nil, domain.ErrNoCredentials
}

// newSessionCodec - без ключей в окружении генерирует случайные, сессии не переживут рестарт
func newSessionCodec(cfg *config.Config) (*service.SessionCodec, error) {
	hashKey, blockKey := cfg.CookieHashKey, cfg.CookieBlockKey
	if hashKey == nil {
		logger.Warn("COOKIE_HASH_KEY is not set, sessions will not survive a restart")
		hashKey = service.GenerateKey(32)
	}
	if blockKey == nil {
		blockKey = service.GenerateKey(32)
	}

	codec, err := service.NewSessionCodec(hashKey, blockKey, domain.SessionLifetime)
	if err != nil {
		return nil, fmt.Errorf("failed to create session codec: %w", err)
	}
	return codec, nil
}

func openStore(ctx context.Context, dsn string) (store.ContactsStore, error) {
	if dsn == config.InMemoryDSN {
		logger.Info("Using in-memory contact store")
		return store.NewInmem(), nil
	}

	s, err := store.OpenSQLite(ctx, dsn)
	if err != nil {
		return nil, err
	}
	logger.Info("Using SQLite contact store", zap.String("dsn", dsn))
	return s, nil
}

func hashPassword(cmd *cobra.Command, args []string) error {
	var password string
	if len(args) == 1 {
		password = args[0]
	} else {
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("failed to read password: %w", err)
		}
		password = strings.TrimRight(line, "\r\n")
	}
	if password == "" {
		return errors.New("password must not be empty")
	}

	hash, err := service.HashPassword(password)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), hash)
	return nil
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
