package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/wordloop/wordloop-api/internal/config"
	"github.com/wordloop/wordloop-api/internal/domain/srs"
	"github.com/wordloop/wordloop-api/internal/platform/postgres"
	"github.com/wordloop/wordloop-api/internal/service/auth"
	"github.com/wordloop/wordloop-api/internal/service/progress"
	"github.com/wordloop/wordloop-api/internal/service/review"
	"github.com/wordloop/wordloop-api/internal/service/session"
	"github.com/wordloop/wordloop-api/internal/store"
)

// application holds the shared application dependencies so the router
// and server can be wired from one place.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores (interfaces, so handlers and services stay testable)
	userStore     store.UserStore
	cardStore     store.CardStore
	deckStore     store.DeckStore
	stateStore    store.ReviewStateStore
	sessionStore  store.SessionStore
	testStore     store.TestStore
	settingsStore store.StudySettingsStore

	// Services
	jwtService     auth.JWTService
	passwordHasher auth.PasswordHasher
	resolver       review.DueSetResolver
	lifecycle      session.Lifecycle
	aggregator     progress.Aggregator
}

// newApplication builds the application dependency graph from the
// loaded configuration and an open database connection.
func newApplication(
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
) (*application, error) {
	location, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		return nil, fmt.Errorf(
			"failed to load scheduler timezone %q: %w",
			cfg.Scheduler.Timezone,
			err,
		)
	}

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}

	userStore := postgres.NewPostgresUserStore(db, logger)
	cardStore := postgres.NewPostgresCardStore(db, logger)
	deckStore := postgres.NewPostgresDeckStore(db, logger)
	stateStore := postgres.NewPostgresReviewStateStore(db, logger)
	sessionStore := postgres.NewPostgresSessionStore(db, logger)
	testStore := postgres.NewPostgresTestStore(db, logger)
	settingsStore := postgres.NewPostgresStudySettingsStore(db, logger)

	scheduler := srs.NewDefaultService()

	lifecycle := session.NewLifecycle(session.Config{
		DB:            db,
		SessionStore:  sessionStore,
		TestStore:     testStore,
		CardStore:     cardStore,
		DeckStore:     deckStore,
		StateStore:    stateStore,
		SettingsStore: settingsStore,
		Scheduler:     scheduler,
		Location:      location,
		Logger:        logger,
	})

	return &application{
		config:         cfg,
		logger:         logger,
		db:             db,
		userStore:      userStore,
		cardStore:      cardStore,
		deckStore:      deckStore,
		stateStore:     stateStore,
		sessionStore:   sessionStore,
		testStore:      testStore,
		settingsStore:  settingsStore,
		jwtService:     jwtService,
		passwordHasher: auth.NewBcryptHasher(cfg.Auth.BcryptCost),
		resolver:       review.NewDueSetResolver(cardStore, deckStore, stateStore, logger),
		lifecycle:      lifecycle,
		aggregator:     progress.NewAggregator(sessionStore, settingsStore, location, logger),
	}, nil
}
