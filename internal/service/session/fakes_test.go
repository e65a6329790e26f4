package session

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/wordloop/wordloop-api/internal/domain"
	"github.com/wordloop/wordloop-api/internal/store"
)

// A stub sql driver so transactional service code can run against the
// in-memory fakes below. Transactions serialize on a per-database lock,
// standing in for the row locks the real stores take, so concurrent
// grading tests see one committed write before the next begins.
type fakeDriver struct{}

var (
	txLocksMu sync.Mutex
	txLocks   = make(map[string]*sync.Mutex)
)

func (fakeDriver) Open(name string) (driver.Conn, error) {
	txLocksMu.Lock()
	defer txLocksMu.Unlock()
	lock, ok := txLocks[name]
	if !ok {
		lock = &sync.Mutex{}
		txLocks[name] = lock
	}
	return &fakeConn{txLock: lock}, nil
}

type fakeConn struct {
	txLock *sync.Mutex
}

func (*fakeConn) Prepare(query string) (driver.Stmt, error) {
	return nil, errors.New("fake driver does not prepare statements")
}
func (*fakeConn) Close() error { return nil }
func (c *fakeConn) Begin() (driver.Tx, error) {
	c.txLock.Lock()
	return fakeTx{lock: c.txLock}, nil
}

type fakeTx struct {
	lock *sync.Mutex
}

func (t fakeTx) Commit() error   { t.lock.Unlock(); return nil }
func (t fakeTx) Rollback() error { t.lock.Unlock(); return nil }

var (
	registerFakeDriver sync.Once
	fakeDBSeq          atomic.Int64
)

func newFakeDB() *sql.DB {
	registerFakeDriver.Do(func() {
		sql.Register("session-fake", fakeDriver{})
	})
	db, err := sql.Open("session-fake", fmt.Sprintf("fixture-%d", fakeDBSeq.Add(1)))
	if err != nil {
		panic(err)
	}
	return db
}

type stateKey struct {
	userID uuid.UUID
	cardID uuid.UUID
}

// fakeCardStore keeps cards in memory, ordered by ID like the real
// store's pagination contract.
type fakeCardStore struct {
	mu    sync.Mutex
	cards map[uuid.UUID]*domain.Card
}

func newFakeCardStore() *fakeCardStore {
	return &fakeCardStore{cards: make(map[uuid.UUID]*domain.Card)}
}

func (f *fakeCardStore) Create(ctx context.Context, card *domain.Card) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cards[card.ID] = card
	return nil
}

func (f *fakeCardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	card, ok := f.cards[id]
	if !ok {
		return nil, store.ErrCardNotFound
	}
	return card, nil
}

func (f *fakeCardStore) ListByOwner(
	ctx context.Context,
	userID uuid.UUID,
	deckIDs []uuid.UUID,
	starredOnly bool,
	limit, offset int,
) ([]*domain.Card, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	deckSet := make(map[uuid.UUID]struct{}, len(deckIDs))
	for _, id := range deckIDs {
		deckSet[id] = struct{}{}
	}

	var matched []*domain.Card
	for _, card := range f.cards {
		if card.UserID != userID {
			continue
		}
		if len(deckSet) > 0 {
			if _, ok := deckSet[card.DeckID]; !ok {
				continue
			}
		}
		if starredOnly && !card.Starred {
			continue
		}
		matched = append(matched, card)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].ID.String() < matched[j].ID.String()
	})

	if offset >= len(matched) {
		return nil, nil
	}
	matched = matched[offset:]
	if limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

func (f *fakeCardStore) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.cards[id]; !ok {
		return store.ErrCardNotFound
	}
	delete(f.cards, id)
	return nil
}

func (f *fakeCardStore) WithTx(tx *sql.Tx) store.CardStore { return f }

// fakeDeckStore keeps decks and a folder index in memory.
type fakeDeckStore struct {
	mu      sync.Mutex
	decks   map[uuid.UUID]*domain.Deck
	folders map[uuid.UUID][]uuid.UUID
}

func newFakeDeckStore() *fakeDeckStore {
	return &fakeDeckStore{
		decks:   make(map[uuid.UUID]*domain.Deck),
		folders: make(map[uuid.UUID][]uuid.UUID),
	}
}

func (f *fakeDeckStore) Create(ctx context.Context, deck *domain.Deck) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.decks[deck.ID] = deck
	if deck.FolderID != nil {
		f.folders[*deck.FolderID] = append(f.folders[*deck.FolderID], deck.ID)
	}
	return nil
}

func (f *fakeDeckStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Deck, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	deck, ok := f.decks[id]
	if !ok {
		return nil, store.ErrDeckNotFound
	}
	return deck, nil
}

func (f *fakeDeckStore) ListIDsByUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []uuid.UUID
	for _, deck := range f.decks {
		if deck.UserID == userID {
			ids = append(ids, deck.ID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids, nil
}

func (f *fakeDeckStore) ListIDsByFolder(
	ctx context.Context,
	userID, folderID uuid.UUID,
) ([]uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids, ok := f.folders[folderID]
	if !ok {
		return nil, store.ErrFolderNotFound
	}
	return ids, nil
}

func (f *fakeDeckStore) WithTx(tx *sql.Tx) store.DeckStore { return f }

// fakeStateStore keeps review states keyed by (user, card). Deck scoping
// is ignored; tests build scenarios within one scope.
type fakeStateStore struct {
	mu     sync.Mutex
	states map[stateKey]*domain.ReviewState
}

func newFakeStateStore() *fakeStateStore {
	return &fakeStateStore{states: make(map[stateKey]*domain.ReviewState)}
}

func (f *fakeStateStore) Create(ctx context.Context, state *domain.ReviewState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := stateKey{state.UserID, state.CardID}
	if _, ok := f.states[key]; ok {
		return store.ErrReviewStateExists
	}
	copied := *state
	f.states[key] = &copied
	return nil
}

func (f *fakeStateStore) Get(
	ctx context.Context,
	userID, cardID uuid.UUID,
) (*domain.ReviewState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	state, ok := f.states[stateKey{userID, cardID}]
	if !ok {
		return nil, store.ErrReviewStateNotFound
	}
	copied := *state
	return &copied, nil
}

func (f *fakeStateStore) GetForUpdate(
	ctx context.Context,
	userID, cardID uuid.UUID,
) (*domain.ReviewState, error) {
	return f.Get(ctx, userID, cardID)
}

func (f *fakeStateStore) Update(ctx context.Context, state *domain.ReviewState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := stateKey{state.UserID, state.CardID}
	if _, ok := f.states[key]; !ok {
		return store.ErrReviewStateNotFound
	}
	copied := *state
	f.states[key] = &copied
	return nil
}

func (f *fakeStateStore) ListDueCardIDs(
	ctx context.Context,
	userID uuid.UUID,
	deckIDs []uuid.UUID,
	ref time.Time,
) ([]uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []uuid.UUID
	for key, state := range f.states {
		if key.userID == userID && !state.DueAt.After(ref) {
			ids = append(ids, key.cardID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids, nil
}

func (f *fakeStateStore) CountDue(
	ctx context.Context,
	userID uuid.UUID,
	deckIDs []uuid.UUID,
	ref time.Time,
) (int, error) {
	ids, err := f.ListDueCardIDs(ctx, userID, deckIDs, ref)
	return len(ids), err
}

func (f *fakeStateStore) ListScheduledCardIDs(
	ctx context.Context,
	userID uuid.UUID,
	deckIDs []uuid.UUID,
) ([]uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []uuid.UUID
	for key := range f.states {
		if key.userID == userID {
			ids = append(ids, key.cardID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids, nil
}

func (f *fakeStateStore) CountCreatedSince(
	ctx context.Context,
	userID uuid.UUID,
	since time.Time,
) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for key, state := range f.states {
		if key.userID == userID && !state.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (f *fakeStateStore) WithTx(tx *sql.Tx) store.ReviewStateStore { return f }

// fakeSessionStore keeps sessions in memory, handing out copies like a
// real row scan would.
type fakeSessionStore struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*domain.Session
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[uuid.UUID]*domain.Session)}
}

func copySession(s *domain.Session) *domain.Session {
	copied := *s
	copied.Tasks = make([]domain.Task, len(s.Tasks))
	copy(copied.Tasks, s.Tasks)
	return &copied
}

func (f *fakeSessionStore) Create(ctx context.Context, session *domain.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions[session.ID] = copySession(session)
	return nil
}

func (f *fakeSessionStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	session, ok := f.sessions[id]
	if !ok {
		return nil, store.ErrSessionNotFound
	}
	return copySession(session), nil
}

func (f *fakeSessionStore) GetForUpdate(
	ctx context.Context,
	id uuid.UUID,
) (*domain.Session, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeSessionStore) Update(ctx context.Context, session *domain.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.sessions[session.ID]; !ok {
		return store.ErrSessionNotFound
	}
	f.sessions[session.ID] = copySession(session)
	return nil
}

func (f *fakeSessionStore) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.sessions[id]; !ok {
		return store.ErrSessionNotFound
	}
	delete(f.sessions, id)
	return nil
}

func (f *fakeSessionStore) ListEndedSince(
	ctx context.Context,
	userID uuid.UUID,
	since time.Time,
) ([]*domain.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ended []*domain.Session
	for _, session := range f.sessions {
		if session.UserID != userID || session.EndedAt == nil {
			continue
		}
		if session.EndedAt.Before(since) {
			continue
		}
		ended = append(ended, copySession(session))
	}
	sort.Slice(ended, func(i, j int) bool {
		return ended[i].EndedAt.Before(*ended[j].EndedAt)
	})
	return ended, nil
}

func (f *fakeSessionStore) WithTx(tx *sql.Tx) store.SessionStore { return f }

// fakeTestStore keeps tests and their append-only answers in memory.
type fakeTestStore struct {
	mu      sync.Mutex
	tests   map[uuid.UUID]*domain.Test
	answers []*domain.TestAnswer
}

func newFakeTestStore() *fakeTestStore {
	return &fakeTestStore{tests: make(map[uuid.UUID]*domain.Test)}
}

func (f *fakeTestStore) Create(ctx context.Context, test *domain.Test) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *test
	f.tests[test.ID] = &copied
	return nil
}

func (f *fakeTestStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Test, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	test, ok := f.tests[id]
	if !ok {
		return nil, store.ErrTestNotFound
	}
	copied := *test
	return &copied, nil
}

func (f *fakeTestStore) GetBySessionID(
	ctx context.Context,
	sessionID uuid.UUID,
) (*domain.Test, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, test := range f.tests {
		if test.SessionID == sessionID {
			copied := *test
			return &copied, nil
		}
	}
	return nil, store.ErrTestNotFound
}

func (f *fakeTestStore) Update(ctx context.Context, test *domain.Test) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tests[test.ID]; !ok {
		return store.ErrTestNotFound
	}
	copied := *test
	f.tests[test.ID] = &copied
	return nil
}

func (f *fakeTestStore) CreateAnswer(ctx context.Context, answer *domain.TestAnswer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *answer
	f.answers = append(f.answers, &copied)
	return nil
}

func (f *fakeTestStore) CountAnswers(
	ctx context.Context,
	testID uuid.UUID,
) (total, correct int, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, answer := range f.answers {
		if answer.TestID != testID {
			continue
		}
		total++
		if answer.IsCorrect {
			correct++
		}
	}
	return total, correct, nil
}

func (f *fakeTestStore) WithTx(tx *sql.Tx) store.TestStore { return f }

// fakeSettingsStore keeps per-user settings in memory.
type fakeSettingsStore struct {
	mu       sync.Mutex
	settings map[uuid.UUID]*domain.StudySettings
}

func newFakeSettingsStore() *fakeSettingsStore {
	return &fakeSettingsStore{settings: make(map[uuid.UUID]*domain.StudySettings)}
}

func (f *fakeSettingsStore) Get(
	ctx context.Context,
	userID uuid.UUID,
) (*domain.StudySettings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	settings, ok := f.settings[userID]
	if !ok {
		return nil, store.ErrSettingsNotFound
	}
	copied := *settings
	return &copied, nil
}

func (f *fakeSettingsStore) Upsert(
	ctx context.Context,
	settings *domain.StudySettings,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *settings
	f.settings[settings.UserID] = &copied
	return nil
}

func (f *fakeSettingsStore) WithTx(tx *sql.Tx) store.StudySettingsStore { return f }

// Interface compliance for the fakes.
var (
	_ store.CardStore          = (*fakeCardStore)(nil)
	_ store.DeckStore          = (*fakeDeckStore)(nil)
	_ store.ReviewStateStore   = (*fakeStateStore)(nil)
	_ store.SessionStore       = (*fakeSessionStore)(nil)
	_ store.TestStore          = (*fakeTestStore)(nil)
	_ store.StudySettingsStore = (*fakeSettingsStore)(nil)
)
