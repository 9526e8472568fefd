package main

import (
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/seralvarez/moodpad/internal/api"
	"github.com/seralvarez/moodpad/internal/chat"
	"github.com/seralvarez/moodpad/internal/config"
	"github.com/seralvarez/moodpad/internal/db"
	"github.com/seralvarez/moodpad/internal/llm"
)

func main() {
	logger, _ := zap.NewProduction()

	cfg := config.FromEnv()

	cmd := &cobra.Command{
		Use:   "moodpad-server",
		Short: "Chat assistant with a mood-tracking journal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cfg, logger)
		},
	}
	cmd.Flags().StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	cmd.Flags().StringVar(&cfg.DatabaseURL, "database-url", cfg.DatabaseURL, "hosted postgres endpoint URL")
	cmd.Flags().StringVar(&cfg.DatabaseKey, "database-key", cfg.DatabaseKey, "hosted postgres access key")
	cmd.Flags().StringVar(&cfg.SQLitePath, "db", cfg.SQLitePath, "local sqlite file (used when no hosted database is configured)")
	cmd.Flags().StringVar(&cfg.DefaultModel, "model", cfg.DefaultModel, "default generation model")
	cmd.Flags().StringVar(&cfg.WebDir, "web", cfg.WebDir, "static files directory")

	if err := cmd.Execute(); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
	_ = logger.Sync()
}

func run(cfg config.Config, logger *zap.Logger) error {
	store, err := openStore(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	openaiClient, err := llm.NewOpenAIClient(cfg.OpenAIBaseURL, cfg.OpenAIKey, cfg.DefaultModel)
	if err != nil {
		return fmt.Errorf("failed to initialize generation client: %w", err)
	}
	hfClient := llm.NewHFClient(cfg.InferenceBaseURL, cfg.InferenceKey)
	generator := llm.NewRouter(openaiClient, hfClient)
	fallback := llm.NewFallback(rand.NewSource(time.Now().UnixNano()))

	safe := db.NewSafe(store, logger)
	orch := chat.NewOrchestrator(safe, generator, fallback, cfg.DefaultModel, logger)
	handler := api.NewHandler(safe, orch, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/message", handler.HandleMessage)
	mux.HandleFunc("/api/conversations", handler.Conversations)
	mux.HandleFunc("/api/conversations/update", handler.UpdateConversation)
	mux.HandleFunc("/api/conversations/delete", handler.DeleteConversation)
	mux.HandleFunc("/api/messages", handler.GetMessages)
	mux.HandleFunc("/api/moods", handler.ConversationMoods)
	mux.HandleFunc("/api/mood-entries", handler.MoodEntries)
	mux.HandleFunc("/api/mood-entries/today", handler.TodayMood)
	mux.HandleFunc("/api/dashboard", handler.Dashboard)
	mux.HandleFunc("/api/meta", handler.Meta)
	mux.Handle("/", http.FileServer(http.Dir(cfg.WebDir)))

	logger.Info("starting server",
		zap.String("addr", cfg.Addr),
		zap.Bool("local_mode", cfg.LocalMode()))

	serveErr := http.ListenAndServe(cfg.Addr, mux)
	return multierr.Combine(serveErr, store.Close())
}

// openStore picks the persistence mode: hosted postgres, a local sqlite
// file, or in-memory when nothing is configured. In the last case chat still
// works but nothing survives a restart.
func openStore(cfg config.Config, logger *zap.Logger) (db.Store, error) {
	switch {
	case cfg.HostedPersistence():
		logger.Info("using hosted postgres persistence")
		return db.Open("postgres", cfg.PostgresDSN())
	case cfg.SQLitePath != "":
		logger.Info("using local sqlite persistence", zap.String("path", cfg.SQLitePath))
		return db.Open("sqlite3", cfg.SQLitePath)
	default:
		logger.Warn("no database configured; running in local mode, history will not be saved")
		return db.NewMemStore(), nil
	}
}
