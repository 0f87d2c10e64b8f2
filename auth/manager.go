package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/jrsteele09/go-storefront-session/internal/errors"
	"github.com/jrsteele09/go-storefront-session/session"
	"github.com/jrsteele09/go-storefront-session/token"
	"github.com/rs/zerolog/log"
)

// Authenticator is the backend's credential exchange and registration endpoint
type Authenticator interface {
	ObtainTokens(ctx context.Context, username, password string) (token.Pair, error)
	Register(ctx context.Context, registration Registration) error
}

// Result is the outcome of a login attempt. Role is empty unless Success is true.
type Result struct {
	Success bool
	Role    session.Role
}

// Manager owns the client's current Session.
//
// The session is derived from the token store at construction and again after
// every Login and Logout. Readers always observe a session that matches what
// is in storage. Overlapping Login calls are ordered by start: only the most
// recently started attempt may commit, older ones are discarded.
type Manager struct {
	store         *token.Store
	authenticator Authenticator
	deriver       *session.Deriver

	mu      sync.RWMutex
	current session.Session
	attempt uint64
}

// ManagerOption defines a function type to modify the Manager instance.
type ManagerOption func(*managerOptions)

type managerOptions struct {
	nowTime func() time.Time
}

// WithNowTime sets the clock used for token expiry checks (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ManagerOption {
	return func(o *managerOptions) {
		o.nowTime = nowFunc
	}
}

// NewManager creates a Manager and derives the initial session from whatever is stored.
// A store that cannot be read yields a logged-out session.
func NewManager(ctx context.Context, store *token.Store, authenticator Authenticator, options ...ManagerOption) (*Manager, error) {
	if store == nil {
		return nil, errors.New("[NewManager] token store is required")
	}
	if authenticator == nil {
		return nil, errors.New("[NewManager] authenticator is required")
	}

	opts := managerOptions{nowTime: time.Now}
	for _, opt := range options {
		opt(&opts)
	}

	m := &Manager{
		store:         store,
		authenticator: authenticator,
		deriver:       session.NewDeriver(store, session.WithNowTime(opts.nowTime)),
	}

	pair, err := store.Load(ctx)
	if err != nil && !errors.Is(err, token.ErrNotFound) {
		log.Err(err).Msg("token store unavailable at startup, starting logged out")
	}
	m.current = m.deriver.Derive(ctx, pair.Access)
	return m, nil
}

// Session returns the current session
func (m *Manager) Session() session.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Login exchanges credentials for a token pair, stores it and derives the new session.
// It never returns an error: every failure resets to the logged-out state and
// reports Success false.
func (m *Manager) Login(ctx context.Context, username, password string) Result {
	m.mu.Lock()
	m.attempt++
	attempt := m.attempt
	m.mu.Unlock()

	logger := log.With().Str("attempt_id", uuid.NewString()).Str("user", username).Logger()

	pair, err := m.authenticator.ObtainTokens(ctx, username, password)

	m.mu.Lock()
	defer m.mu.Unlock()

	if attempt != m.attempt {
		logger.Info().Err(apperrors.ErrLoginSuperseded).Msg("discarding login result")
		return Result{}
	}

	if err != nil {
		logger.Warn().Err(err).Msg("login failed")
		m.resetLocked(ctx)
		return Result{}
	}

	if err := m.store.Save(ctx, pair); err != nil {
		logger.Err(err).Msg("login succeeded but tokens could not be stored")
		m.resetLocked(ctx)
		return Result{}
	}

	derived := m.deriver.Derive(ctx, pair.Access)
	if !derived.LoggedIn() {
		logger.Warn().Msg("login returned an unusable access token")
		m.resetLocked(ctx)
		return Result{}
	}

	m.current = derived
	logger.Info().Str("role", derived.Role.String()).Msg("logged in")
	return Result{Success: true, Role: derived.Role}
}

// Logout clears stored tokens and the session. It is idempotent and makes no network call.
// Any login still in flight is discarded when it completes.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.attempt++
	m.resetLocked(ctx)
	log.Info().Msg("logged out")
}

// Register creates a backend account after client-side validation. It does not log in.
func (m *Manager) Register(ctx context.Context, registration Registration) error {
	registration = registration.withDefaults()
	if err := registration.Validate(); err != nil {
		return err
	}
	return m.authenticator.Register(ctx, registration)
}

func (m *Manager) resetLocked(ctx context.Context) {
	if err := m.store.Clear(ctx); err != nil {
		log.Err(err).Msg("failed to clear stored tokens")
	}
	m.current = session.LoggedOut
}
