package integration

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"

	"hatrean-quiz-service/internal/app"
	"hatrean-quiz-service/internal/bank"
	"hatrean-quiz-service/internal/domain"
	"hatrean-quiz-service/internal/engine"
	pgstore "hatrean-quiz-service/internal/infra/postgres"
	pgmigrations "hatrean-quiz-service/internal/infra/postgres/migrations"
	redisstore "hatrean-quiz-service/internal/infra/redis"
)

func TestSessionRunEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	seedPlatform(t, ctx, pgURL)

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	store := redisstore.NewCachedStore(redisClient, pgstore.NewStore(pool), 5*time.Minute)
	service := app.NewQuizService(store, bank.Default(), app.Options{})

	// Lowercase code resolves to the seeded session with its fixed order.
	resolved, err := service.ResolveSession(ctx, "live2025", "u1")
	if err != nil {
		t.Fatalf("resolve session: %v", err)
	}
	if resolved.Title != "Launch Quiz" || len(resolved.Questions) != 2 {
		t.Fatalf("unexpected resolution: %+v", resolved)
	}
	if resolved.Questions[0].ID != "sci-1" || resolved.Questions[1].ID != "gk-1" {
		t.Fatalf("session order not preserved: %s, %s", resolved.Questions[0].ID, resolved.Questions[1].ID)
	}

	// Re-joining keeps the original registration.
	first, err := store.RegisterParticipant(ctx, resolved.Session.ID, "u1")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	second, err := store.RegisterParticipant(ctx, resolved.Session.ID, "u1")
	if err != nil {
		t.Fatalf("re-register: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("duplicate registration: %s vs %s", first.ID, second.ID)
	}

	if _, err := service.ResolveSession(ctx, "CLOSED25", "u1"); !errors.Is(err, domain.ErrSessionNotActive) {
		t.Fatalf("expected ErrSessionNotActive, got %v", err)
	}

	summary := engine.Summary{
		Score:            25,
		TotalQuestions:   2,
		CorrectCount:     2,
		Answers:          map[string]string{"sci-1": "B", "gk-1": "C"},
		TimeTakenSeconds: 18,
	}
	attempt, err := service.Finish(ctx, "u1", summary, resolved.Session)
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if attempt.ID == "" {
		t.Fatalf("no attempt id assigned")
	}

	participant, err := store.RegisterParticipant(ctx, resolved.Session.ID, "u1")
	if err != nil {
		t.Fatalf("participant lookup: %v", err)
	}
	if participant.AttemptID != attempt.ID {
		t.Fatalf("attempt not linked: %q vs %q", participant.AttemptID, attempt.ID)
	}

	entries, err := service.Leaderboard(ctx, 10)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(entries) != 1 || entries[0].TotalScore != 25 || entries[0].TotalQuizzes != 1 {
		t.Fatalf("stats not updated: %+v", entries)
	}

	// Category resolution goes through the cache on the second call.
	for i := 0; i < 2; i++ {
		resolved, err := service.ResolveCategory(ctx, "Science")
		if err != nil {
			t.Fatalf("resolve category: %v", err)
		}
		for _, q := range resolved.Questions {
			if q.Category != "Science" {
				t.Fatalf("got question from category %q", q.Category)
			}
		}
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "quiz", "POSTGRES_PASSWORD": "quizpass", "POSTGRES_DB": "quizdb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://quiz:quizpass@%s:%s/quizdb?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

// seedPlatform migrates the schema and loads a category, two questions, and
// two sessions (one joinable, one completed).
func seedPlatform(t *testing.T, ctx context.Context, dsn string) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	exec := func(query string, args ...interface{}) {
		t.Helper()
		if _, err := db.ExecContext(ctx, query, args...); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	exec(`INSERT INTO categories (id, name, description) VALUES ('cat-sci', 'Science', 'Science questions')`)
	for _, q := range []domain.Question{
		{ID: "sci-1", CategoryID: "cat-sci", Category: "Science", Text: "Which planet is known as the Red Planet?",
			Options: map[string]string{"A": "Venus", "B": "Mars", "C": "Jupiter", "D": "Saturn"}, CorrectAnswer: "B", Points: 10},
		{ID: "gk-1", CategoryID: "cat-sci", Category: "Science", Text: "What is the capital of France?",
			Options: map[string]string{"A": "London", "B": "Berlin", "C": "Paris", "D": "Madrid"}, CorrectAnswer: "C", Points: 15},
	} {
		options, err := json.Marshal(q.Options)
		if err != nil {
			t.Fatalf("marshal options: %v", err)
		}
		exec(`INSERT INTO questions (id, category_id, category, question_text, options, correct_answer, points)
		      VALUES (?, ?, ?, ?, ?::jsonb, ?, ?)`,
			q.ID, q.CategoryID, q.Category, q.Text, string(options), q.CorrectAnswer, q.Points)
	}
	exec(`INSERT INTO quiz_sessions (id, code, title, status, time_limit, question_ids)
	      VALUES ('sess-live', 'LIVE2025', 'Launch Quiz', 'active', 20, '["sci-1", "gk-1"]'::jsonb)`)
	exec(`INSERT INTO quiz_sessions (id, code, title, status, question_ids)
	      VALUES ('sess-done', 'CLOSED25', 'Old Quiz', 'completed', '["sci-1"]'::jsonb)`)
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
