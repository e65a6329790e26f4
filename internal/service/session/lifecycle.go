package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/wordloop/wordloop-api/internal/domain"
	"github.com/wordloop/wordloop-api/internal/domain/match"
	"github.com/wordloop/wordloop-api/internal/domain/srs"
	"github.com/wordloop/wordloop-api/internal/platform/logger"
	"github.com/wordloop/wordloop-api/internal/service/review"
	"github.com/wordloop/wordloop-api/internal/store"
)

// maxConflictRetries bounds how often a grading write is retried after
// losing a concurrent-update race.
const maxConflictRetries = 3

// poolLimit bounds how many scope cards are considered when
// materializing a session's task list.
const poolLimit = 500

// Verify interface compliance at compile time
var _ Lifecycle = (*lifecycle)(nil)

type lifecycle struct {
	db            *sql.DB
	sessionStore  store.SessionStore
	testStore     store.TestStore
	cardStore     store.CardStore
	deckStore     store.DeckStore
	stateStore    store.ReviewStateStore
	settingsStore store.StudySettingsStore
	scheduler     srs.Service
	now           Clock
	location      *time.Location
	logger        *slog.Logger
}

// Config collects the lifecycle's dependencies. DB, the stores, and
// Scheduler are required; Now defaults to time.Now and Location to
// time.Local.
type Config struct {
	DB            *sql.DB
	SessionStore  store.SessionStore
	TestStore     store.TestStore
	CardStore     store.CardStore
	DeckStore     store.DeckStore
	StateStore    store.ReviewStateStore
	SettingsStore store.StudySettingsStore
	Scheduler     srs.Service
	Now           Clock
	Location      *time.Location
	Logger        *slog.Logger
}

// NewLifecycle creates a new session Lifecycle implementation.
func NewLifecycle(cfg Config) Lifecycle {
	if cfg.DB == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if cfg.SessionStore == nil || cfg.TestStore == nil || cfg.CardStore == nil ||
		cfg.DeckStore == nil || cfg.StateStore == nil || cfg.SettingsStore == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("stores cannot be nil")
	}
	if cfg.Scheduler == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("scheduler cannot be nil")
	}

	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &lifecycle{
		db:            cfg.DB,
		sessionStore:  cfg.SessionStore,
		testStore:     cfg.TestStore,
		cardStore:     cfg.CardStore,
		deckStore:     cfg.DeckStore,
		stateStore:    cfg.StateStore,
		settingsStore: cfg.SettingsStore,
		scheduler:     cfg.Scheduler,
		now:           cfg.Now,
		location:      cfg.Location,
		logger:        cfg.Logger.With(slog.String("component", "session_lifecycle")),
	}
}

// Start implements Lifecycle.Start.
func (l *lifecycle) Start(
	ctx context.Context,
	userID uuid.UUID,
	input StartInput,
) (*StartResult, error) {
	log := logger.FromContextOrDefault(ctx, l.logger)

	if !domain.IsValidSessionMode(input.Mode) {
		return nil, domain.ErrInvalidSessionMode
	}
	if input.TargetCount <= 0 {
		return nil, domain.ErrInvalidTargetCount
	}

	settings, err := l.loadSettings(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := l.now()

	var result *StartResult
	err = store.RunInTransaction(ctx, l.db, func(ctx context.Context, tx *sql.Tx) error {
		deckStore := l.deckStore.WithTx(tx)
		cardStore := l.cardStore.WithTx(tx)
		stateStore := l.stateStore.WithTx(tx)

		deckIDs, err := review.ResolveScope(ctx, deckStore, userID, input.DeckID, input.FolderID)
		if err != nil {
			return err
		}
		if input.FolderID != nil && len(deckIDs) == 0 {
			return ErrEmptyPool
		}

		selected, err := l.selectCards(ctx, cardStore, stateStore, userID, deckIDs, settings,
			input.TargetCount, now)
		if err != nil {
			return err
		}
		if len(selected.cards) == 0 {
			return ErrEmptyPool
		}

		tasks := buildTasks(selected.cards, input.Mode, settings)

		session, err := domain.NewSession(
			userID, input.DeckID, input.Mode, input.TargetCount, tasks, now)
		if err != nil {
			return err
		}

		// A card's review state is created the first time it enters a
		// session; this is what the daily new-card cap counts.
		for _, card := range selected.newCards {
			state, err := domain.NewReviewState(userID, card.ID)
			if err != nil {
				return err
			}
			if err := stateStore.Create(ctx, state); err != nil {
				return fmt.Errorf("failed to create review state: %w", err)
			}
		}

		if err := l.sessionStore.WithTx(tx).Create(ctx, session); err != nil {
			return fmt.Errorf("failed to create session: %w", err)
		}

		result = &StartResult{Session: session}

		if input.Mode == domain.SessionModeTest {
			test, err := domain.NewTest(
				userID, session.ID, input.DeckID, input.FolderID,
				len(tasks), settings.Shuffle, now)
			if err != nil {
				return err
			}
			if err := l.testStore.WithTx(tx).Create(ctx, test); err != nil {
				return fmt.Errorf("failed to create test: %w", err)
			}
			result.Test = test
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("session started",
		slog.String("user_id", userID.String()),
		slog.String("session_id", result.Session.ID.String()),
		slog.String("mode", string(input.Mode)),
		slog.Int("tasks", len(result.Session.Tasks)))

	return result, nil
}

// RecordAnswer implements Lifecycle.RecordAnswer.
func (l *lifecycle) RecordAnswer(
	ctx context.Context,
	userID, sessionID uuid.UUID,
	input AnswerInput,
) (*AnswerResult, error) {
	log := logger.FromContextOrDefault(ctx, l.logger)

	var result *AnswerResult
	var err error
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		result, err = l.recordAnswerOnce(ctx, userID, sessionID, input)
		if err == nil || !store.IsConflictError(err) {
			return result, err
		}
		log.Debug("grading write lost a race, retrying",
			slog.String("session_id", sessionID.String()),
			slog.Int("attempt", attempt+1))
	}

	log.Warn("grading write conflicted on every attempt",
		slog.String("user_id", userID.String()),
		slog.String("session_id", sessionID.String()))
	return nil, fmt.Errorf("%w: %v", ErrConflictRetriesExhausted, err)
}

func (l *lifecycle) recordAnswerOnce(
	ctx context.Context,
	userID, sessionID uuid.UUID,
	input AnswerInput,
) (*AnswerResult, error) {
	now := l.now()

	var result *AnswerResult
	err := store.RunInTransaction(ctx, l.db, func(ctx context.Context, tx *sql.Tx) error {
		sessionStore := l.sessionStore.WithTx(tx)
		stateStore := l.stateStore.WithTx(tx)

		session, err := sessionStore.GetForUpdate(ctx, sessionID)
		if err != nil {
			if errors.Is(err, store.ErrSessionNotFound) {
				return ErrSessionNotFound
			}
			return fmt.Errorf("failed to get session: %w", err)
		}
		if session.UserID != userID {
			return ErrSessionNotOwned
		}
		if session.IsEnded() {
			return ErrSessionEnded
		}
		if input.TaskIndex < 0 || input.TaskIndex >= len(session.Tasks) {
			return ErrTaskOutOfRange
		}
		task := session.Tasks[input.TaskIndex]
		if task.Completed {
			return ErrTaskAlreadyAnswered
		}

		// The card carries the accepted alternatives; the task snapshot
		// only holds the primary answer.
		card, err := l.cardStore.WithTx(tx).GetByID(ctx, task.CardID)
		if err != nil {
			if errors.Is(err, store.ErrCardNotFound) {
				return store.ErrCardNotFound
			}
			return fmt.Errorf("failed to get card: %w", err)
		}

		grade := match.Classify(input.UserAnswer, task.Answer, card.Accepted)

		state, err := stateStore.GetForUpdate(ctx, userID, task.CardID)
		created := false
		if err != nil {
			if !errors.Is(err, store.ErrReviewStateNotFound) {
				return fmt.Errorf("failed to get review state: %w", err)
			}
			state, err = domain.NewReviewState(userID, task.CardID)
			if err != nil {
				return err
			}
			created = true
		}

		newState, err := l.scheduler.ApplyReview(state, grade.IsCorrect(), now)
		if err != nil {
			return fmt.Errorf("failed to apply review: %w", err)
		}

		if created {
			err = stateStore.Create(ctx, newState)
		} else {
			err = stateStore.Update(ctx, newState)
		}
		if err != nil {
			return fmt.Errorf("failed to persist review state: %w", err)
		}

		if err := session.CompleteTask(input.TaskIndex); err != nil {
			return err
		}
		session.UpdatedAt = now
		if err := sessionStore.Update(ctx, session); err != nil {
			return fmt.Errorf("failed to update session: %w", err)
		}

		if session.Mode == domain.SessionModeTest {
			testStore := l.testStore.WithTx(tx)
			test, err := testStore.GetBySessionID(ctx, sessionID)
			if err != nil {
				return fmt.Errorf("failed to get linked test: %w", err)
			}
			answer := &domain.TestAnswer{
				ID:          uuid.New(),
				TestID:      test.ID,
				CardID:      task.CardID,
				ModeUsed:    task.Mode,
				PromptShown: task.Prompt,
				UserAnswer:  input.UserAnswer,
				IsCorrect:   grade.IsCorrect(),
				TimeMs:      input.TimeMs,
				CreatedAt:   now,
			}
			if err := testStore.CreateAnswer(ctx, answer); err != nil {
				return fmt.Errorf("failed to record test answer: %w", err)
			}
		}

		result = &AnswerResult{Result: grade, State: newState}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// Stop implements Lifecycle.Stop.
func (l *lifecycle) Stop(
	ctx context.Context,
	userID, sessionID uuid.UUID,
) (*StopResult, error) {
	log := logger.FromContextOrDefault(ctx, l.logger)

	now := l.now()

	var result *StopResult
	err := store.RunInTransaction(ctx, l.db, func(ctx context.Context, tx *sql.Tx) error {
		sessionStore := l.sessionStore.WithTx(tx)
		testStore := l.testStore.WithTx(tx)

		session, err := sessionStore.GetForUpdate(ctx, sessionID)
		if err != nil {
			if errors.Is(err, store.ErrSessionNotFound) {
				return ErrSessionNotFound
			}
			return fmt.Errorf("failed to get session: %w", err)
		}
		if session.UserID != userID {
			return ErrSessionNotOwned
		}

		result = &StopResult{Session: session}

		// Stopping twice is a no-op returning the same terminal state.
		if session.IsEnded() {
			if session.Mode == domain.SessionModeTest {
				test, err := testStore.GetBySessionID(ctx, sessionID)
				if err != nil && !errors.Is(err, store.ErrTestNotFound) {
					return fmt.Errorf("failed to get linked test: %w", err)
				}
				result.Test = test
			}
			return nil
		}

		session.EndedAt = &now
		session.UpdatedAt = now
		if err := sessionStore.Update(ctx, session); err != nil {
			return fmt.Errorf("failed to update session: %w", err)
		}

		if session.Mode == domain.SessionModeTest {
			test, err := testStore.GetBySessionID(ctx, sessionID)
			if err != nil {
				if errors.Is(err, store.ErrTestNotFound) {
					return nil
				}
				return fmt.Errorf("failed to get linked test: %w", err)
			}

			total, correct, err := testStore.CountAnswers(ctx, test.ID)
			if err != nil {
				return fmt.Errorf("failed to count test answers: %w", err)
			}

			if err := test.Finalize(correct, total, now); err != nil {
				if errors.Is(err, domain.ErrTestAlreadyEnded) {
					result.Test = test
					return nil
				}
				return err
			}
			if err := testStore.Update(ctx, test); err != nil {
				return fmt.Errorf("failed to update test: %w", err)
			}
			result.Test = test
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("session stopped",
		slog.String("user_id", userID.String()),
		slog.String("session_id", sessionID.String()))

	return result, nil
}

// Delete implements Lifecycle.Delete.
func (l *lifecycle) Delete(ctx context.Context, userID, sessionID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, l.logger)

	session, err := l.sessionStore.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("failed to get session: %w", err)
	}
	if session.UserID != userID {
		return ErrSessionNotOwned
	}

	if err := l.sessionStore.Delete(ctx, sessionID); err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("failed to delete session: %w", err)
	}

	log.Info("session deleted",
		slog.String("user_id", userID.String()),
		slog.String("session_id", sessionID.String()))

	return nil
}

// loadSettings returns the user's study settings, falling back to the
// defaults when none have been saved.
func (l *lifecycle) loadSettings(
	ctx context.Context,
	userID uuid.UUID,
) (*domain.StudySettings, error) {
	settings, err := l.settingsStore.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrSettingsNotFound) {
			return domain.DefaultStudySettings(userID), nil
		}
		return nil, fmt.Errorf("failed to load study settings: %w", err)
	}
	return settings, nil
}

// selection is the outcome of card selection for a new session.
type selection struct {
	cards    []*domain.Card
	newCards []*domain.Card
}

// selectCards builds the session's card list: due cards first in stable
// order, then new/unscheduled cards as backfill up to the daily cap.
// Scheduled-but-not-due cards are never pulled forward.
func (l *lifecycle) selectCards(
	ctx context.Context,
	cardStore store.CardStore,
	stateStore store.ReviewStateStore,
	userID uuid.UUID,
	deckIDs []uuid.UUID,
	settings *domain.StudySettings,
	targetCount int,
	now time.Time,
) (*selection, error) {
	dueIDs, err := stateStore.ListDueCardIDs(ctx, userID, deckIDs, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list due card IDs: %w", err)
	}
	dueSet := make(map[uuid.UUID]struct{}, len(dueIDs))
	for _, id := range dueIDs {
		dueSet[id] = struct{}{}
	}

	scheduledIDs, err := stateStore.ListScheduledCardIDs(ctx, userID, deckIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list scheduled card IDs: %w", err)
	}
	scheduledSet := make(map[uuid.UUID]struct{}, len(scheduledIDs))
	for _, id := range scheduledIDs {
		scheduledSet[id] = struct{}{}
	}

	pool, err := cardStore.ListByOwner(ctx, userID, deckIDs, false, poolLimit, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}

	var due, fresh []*domain.Card
	for _, card := range pool {
		if _, ok := dueSet[card.ID]; ok {
			due = append(due, card)
			continue
		}
		if _, ok := scheduledSet[card.ID]; !ok {
			fresh = append(fresh, card)
		}
	}

	createdToday, err := stateStore.CountCreatedSince(
		ctx, userID, startOfLocalDay(now, l.location))
	if err != nil {
		return nil, fmt.Errorf("failed to count new cards today: %w", err)
	}
	newAllowance := settings.MaxNewPerDay - createdToday
	if newAllowance < 0 {
		newAllowance = 0
	}

	sel := &selection{}
	for _, card := range due {
		if len(sel.cards) >= targetCount {
			break
		}
		sel.cards = append(sel.cards, card)
	}
	for _, card := range fresh {
		if len(sel.cards) >= targetCount || len(sel.newCards) >= newAllowance {
			break
		}
		sel.cards = append(sel.cards, card)
		sel.newCards = append(sel.newCards, card)
	}

	if settings.Shuffle {
		rand.Shuffle(len(sel.cards), func(i, j int) {
			sel.cards[i], sel.cards[j] = sel.cards[j], sel.cards[i]
		})
	}

	return sel, nil
}

// buildTasks snapshots prompt and answer per card and assigns each task
// its mode: the session's own mode for single-mode sessions, the
// weighted apportionment for mixed, and typed recall for tests.
func buildTasks(
	cards []*domain.Card,
	mode domain.SessionMode,
	settings *domain.StudySettings,
) []domain.Task {
	var modes []domain.SessionMode
	switch mode {
	case domain.SessionModeMixed:
		modes = apportionMix(len(cards), settings)
	case domain.SessionModeTest:
		// Tests grade typed recall regardless of the mix settings.
		modes = uniformModes(len(cards), domain.SessionModeTranslate)
	default:
		modes = uniformModes(len(cards), mode)
	}

	tasks := make([]domain.Task, len(cards))
	for i, card := range cards {
		tasks[i] = domain.Task{
			CardID: card.ID,
			Mode:   modes[i],
			Prompt: card.Front,
			Answer: card.Back,
		}
	}
	return tasks
}

func uniformModes(n int, mode domain.SessionMode) []domain.SessionMode {
	modes := make([]domain.SessionMode, n)
	for i := range modes {
		modes[i] = mode
	}
	return modes
}

// startOfLocalDay returns midnight of now's calendar date in the given
// location.
func startOfLocalDay(now time.Time, loc *time.Location) time.Time {
	local := now.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}
