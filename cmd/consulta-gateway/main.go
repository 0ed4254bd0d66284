// ABOUTME: Entry point for the consulta-gateway server
// ABOUTME: Serves the chat UI, JSON API, and admin panel from one binary

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fatih/color"
	"golang.org/x/crypto/bcrypt"

	"github.com/innotech/consulta-gateway/internal/api"
	"github.com/innotech/consulta-gateway/internal/auth"
	"github.com/innotech/consulta-gateway/internal/chat"
	"github.com/innotech/consulta-gateway/internal/config"
	"github.com/innotech/consulta-gateway/internal/conversation"
	"github.com/innotech/consulta-gateway/internal/llm"
	"github.com/innotech/consulta-gateway/internal/store"
	"github.com/innotech/consulta-gateway/internal/webui"
)

// Version is set by goreleaser at build time.
var version = "dev"

const banner = `
                                 _    _
  ___   ___   _ __   ___  _   _ | |  | |_   __ _
 / __| / _ \ | '_ \ / __|| | | || |  | __| / _' |
| (__ | (_) || | | |\__ \| |_| || |  | |_ | (_| |
 \___| \___/ |_| |_||___/ \__,_||_|   \__| \__,_|
`

// sessionCleanupInterval is how often expired admin sessions are purged.
const sessionCleanupInterval = time.Hour

// getConfigPath returns the path to the gateway config file.
// Priority: CONSULTA_CONFIG env var > XDG_CONFIG_HOME/consulta/gateway.yaml > ~/.config/consulta/gateway.yaml
func getConfigPath() string {
	if envPath := os.Getenv("CONSULTA_CONFIG"); envPath != "" {
		return envPath
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "gateway.yaml" // fallback
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "consulta", "gateway.yaml")
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: consulta-gateway <command>")
		fmt.Println()
		fmt.Println("Commands:")
		fmt.Println("  serve          Start the gateway server")
		fmt.Println("  init           Create a starter config file")
		fmt.Println("  hash-password  Generate a bcrypt hash for the admin password")
		fmt.Println("  health         Check gateway health")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe(ctx)
	case "init":
		err = runInit()
	case "hash-password":
		err = runHashPassword()
	case "health":
		err = runHealth(ctx)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runServe(ctx context.Context) error {
	configPath := getConfigPath()

	cyan := color.New(color.FgCyan)
	cyan.Print(banner)
	gray := color.New(color.FgHiBlack)
	gray.Printf("    version: %s\n\n", version)

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := setupLogger(cfg.Logging)

	green := color.New(color.FgGreen)
	green.Print("    ▶ ")
	fmt.Printf("Config:   %s\n", configPath)
	green.Print("    ▶ ")
	fmt.Printf("HTTP:     %s\n", cfg.Server.HTTPAddr)
	green.Print("    ▶ ")
	fmt.Printf("Database: %s\n", cfg.Database.Path)
	green.Print("    ▶ ")
	fmt.Printf("Model:    %s\n", cfg.OpenAI.Model)
	if cfg.Admin.PasswordHash == "" {
		yellow := color.New(color.FgYellow)
		yellow.Print("    ▶ ")
		fmt.Println("Admin panel disabled (no admin.password_hash)")
	}
	fmt.Println()

	logger.Info("starting consulta-gateway",
		"config", configPath,
		"http_addr", cfg.Server.HTTPAddr,
	)

	st, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	completer := llm.NewClient(cfg.OpenAI.BaseURL, cfg.OpenAI.APIKey, cfg.OpenAI.Model)
	verifier := auth.NewJWTVerifier([]byte(cfg.Auth.JWTSecret))
	chatSvc := chat.New(completer, logger)
	convSvc := conversation.New(st, logger)

	mux := http.NewServeMux()
	apiServer := api.New(api.Deps{
		Chat:               chatSvc,
		Conversations:      convSvc,
		Users:              st,
		Admin:              st,
		AdminConversations: st,
		Verifier:           verifier,
		TokenTTL:           cfg.Auth.TokenTTL,
		Logger:             logger,
	})
	apiServer.Register(mux)
	webui.New(st, cfg.Admin.PasswordHash, logger).RegisterRoutes(mux)

	// purge expired admin sessions in the background
	go func() {
		ticker := time.NewTicker(sessionCleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := st.DeleteExpiredAdminSessions(ctx); err != nil {
					logger.Warn("cleaning up admin sessions failed", "error", err)
				}
			}
		}
	}()

	server := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: mux,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down http server: %w", err)
	}
	return nil
}

const starterConfig = `server:
  http_addr: ":8080"

database:
  path: "data/consulta.db"

auth:
  jwt_secret: "${CONSULTA_JWT_SECRET}"
  token_ttl: "168h"

openai:
  api_key: "${OPENAI_API_KEY}"
  model: "gpt-4o-mini"

admin:
  # generate with: consulta-gateway hash-password
  password_hash: ""

logging:
  level: "info"
  format: "text"
`

func runInit() error {
	configPath := getConfigPath()
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config already exists at %s", configPath)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(configPath, []byte(starterConfig), 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Printf("Created %s\n", configPath)
	fmt.Println("Set CONSULTA_JWT_SECRET and OPENAI_API_KEY before running serve.")
	return nil
}

func runHashPassword() error {
	fmt.Print("Password: ")
	reader := bufio.NewReader(os.Stdin)
	password, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("reading password: %w", err)
	}
	password = strings.TrimRight(password, "\r\n")
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	fmt.Println(string(hash))
	return nil
}

func runHealth(ctx context.Context) error {
	configPath := getConfigPath()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, healthURL(cfg), nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unhealthy: status %d", resp.StatusCode)
	}

	fmt.Println("healthy")
	return nil
}

// healthURL builds the health endpoint URL. When base_url is set the
// check goes through the public address, which matters behind a proxy
// that terminates TLS; otherwise it falls back to the listen address.
func healthURL(cfg *config.Config) string {
	if base := cfg.Server.BaseURL; base != "" {
		return strings.TrimRight(base, "/") + "/health"
	}
	addr := cfg.Server.HTTPAddr
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return fmt.Sprintf("http://%s/health", addr)
}

func setupLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = &colorHandler{
			level: level,
		}
	}

	return slog.New(handler)
}

// colorHandler provides colorized log output with thread-safe writes.
type colorHandler struct {
	mu     sync.Mutex
	level  slog.Level
	attrs  []slog.Attr
	groups []string
}

func (h *colorHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *colorHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	var buf strings.Builder

	buf.WriteString(color.HiBlackString(r.Time.Format("15:04:05") + " "))

	switch r.Level {
	case slog.LevelDebug:
		buf.WriteString(color.MagentaString("DBG "))
	case slog.LevelInfo:
		buf.WriteString(color.CyanString("INF "))
	case slog.LevelWarn:
		buf.WriteString(color.YellowString("WRN "))
	case slog.LevelError:
		buf.WriteString(color.New(color.FgRed, color.Bold).Sprint("ERR "))
	default:
		buf.WriteString("??? ")
	}

	buf.WriteString(r.Message)

	// Handler-level attrs first (from WithAttrs), then record attrs
	for _, a := range h.attrs {
		buf.WriteString(color.HiBlackString(" " + a.Key + "="))
		buf.WriteString(a.Value.String())
	}
	r.Attrs(func(a slog.Attr) bool {
		buf.WriteString(color.HiBlackString(" " + a.Key + "="))
		buf.WriteString(a.Value.String())
		return true
	})

	buf.WriteString("\n")
	fmt.Print(buf.String())
	return nil
}

func (h *colorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, len(h.attrs), len(h.attrs)+len(attrs))
	copy(newAttrs, h.attrs)
	newAttrs = append(newAttrs, attrs...)
	return &colorHandler{
		level:  h.level,
		attrs:  newAttrs,
		groups: h.groups,
	}
}

func (h *colorHandler) WithGroup(name string) slog.Handler {
	newGroups := make([]string, len(h.groups), len(h.groups)+1)
	copy(newGroups, h.groups)
	newGroups = append(newGroups, name)
	return &colorHandler{
		level:  h.level,
		attrs:  h.attrs,
		groups: newGroups,
	}
}
