package main

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/sakif/online-compiler/internal/executor/host"
	"github.com/sakif/online-compiler/internal/server"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := server.Config{
		Port:               envInt("PORT", 8080),
		TemplateDir:        envString("TEMPLATE_DIR", "web/templates"),
		StaticDir:          envString("STATIC_DIR", "web/static"),
		DBPath:             envString("DB_PATH", "playground.db"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		GitHubClientID:     os.Getenv("GITHUB_CLIENT_ID"),
		GitHubClientSecret: os.Getenv("GITHUB_CLIENT_SECRET"),
		GitHubCallbackURL:  envString("GITHUB_CALLBACK_URL", "http://localhost:8080/auth/github/callback"),
	}

	if cfg.JWTSecret == "" {
		logger.Warn("JWT_SECRET not set, authentication disabled")
	}

	execCfg := host.DefaultConfig()
	execCfg.MaxConcurrent = envInt("EXEC_MAX_CONCURRENT", execCfg.MaxConcurrent)
	if limit := envInt("EXEC_TIME_LIMIT", 0); limit > 0 {
		execCfg.RunTimeout = time.Duration(limit) * time.Second
	}
	if dir := os.Getenv("EXEC_WORKSPACE_DIR"); dir != "" {
		execCfg.WorkspaceDir = dir
	}

	exec, err := host.New(execCfg, logger)
	if err != nil {
		logger.Error("failed to create executor", slog.String("error", err.Error()))
		os.Exit(1)
	}

	srv, err := server.New(cfg, logger, exec)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := srv.Start(); err != nil {
		logger.Error("server failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("invalid integer env var, using fallback",
			slog.String("key", key), slog.String("value", v))
		return fallback
	}
	return n
}
