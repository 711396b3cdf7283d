package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"hatrean-quiz-service/internal/app"
	"hatrean-quiz-service/internal/bank"
	"hatrean-quiz-service/internal/config"
	"hatrean-quiz-service/internal/domain"
	"hatrean-quiz-service/internal/infra/memory"
	pgstore "hatrean-quiz-service/internal/infra/postgres"
	redisstore "hatrean-quiz-service/internal/infra/redis"
	transport "hatrean-quiz-service/internal/transport/http"
)

// NewServeCmd builds the CLI subcommand to start the server.
func NewServeCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log := logrus.WithField("component", "server")

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	questionBank := bank.Default()

	var store app.Store
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
		store = pgstore.NewStore(pool)
	} else {
		// Storeless demo mode: serve the static bank and keep a joinable
		// sample session so the session flow can be exercised locally.
		mem := memory.NewStoreFromBank(questionBank)
		sess := demoSession(questionBank)
		mem.SeedSession(sess)
		store = mem
		log.WithField("sessionCode", sess.Code).Info("no postgres configured, using in-memory store")
	}

	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		cacheTTL := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)
		store = redisstore.NewCachedStore(redisClient, store, cacheTTL)
	}

	service := app.NewQuizService(store, questionBank, app.Options{
		CategoryQuestionCount: cfg.Quiz.CategoryQuestionCount,
		InstantQuestionCount:  cfg.Quiz.InstantQuestionCount,
		TimeLimitSeconds:      cfg.Quiz.TimeLimitSeconds,
		Feedback:              cfg.Quiz.Feedback,
	})

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	transport.NewAPIHandler(service).Register(mux)
	mux.HandleFunc("/ws", transport.NewPlayHandler(service).ServePlay)

	server := &http.Server{
		Addr:        ":" + finalPort,
		Handler:     mux,
		ReadTimeout: 15 * time.Second,
	}

	go func() {
		log.WithField("port", finalPort).Info("starting quiz service")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("failed to start server")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info("shutting down server...")
	case <-ctx.Done():
		log.Info("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// demoSession builds a waiting session over the first five bank questions.
func demoSession(b *bank.Bank) domain.QuizSession {
	questions := b.SampleRandom(5)
	ids := make([]string, 0, len(questions))
	for _, q := range questions {
		ids = append(ids, q.ID)
	}
	return domain.QuizSession{
		Code:             memory.NewSessionCode(),
		Title:            "Demo Session",
		Status:           domain.SessionWaiting,
		TimeLimitSeconds: 20,
		QuestionIDs:      ids,
	}
}
