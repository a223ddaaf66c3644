// Package session owns the authenticated identity for one storefront
// profile: who is logged in, for which tenant, and the bearer token that
// proves it to the backends.
package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/mundolibro/storefront/internal/domain"
	"github.com/mundolibro/storefront/internal/gateway"
	"github.com/mundolibro/storefront/internal/kvstore"
)

const (
	userKey  = "user"
	tokenKey = "token"
)

// Container holds the session state and persists it across restarts.
// The identity and the token live under separate keys, matching the
// backend contract: the token is a capability, the identity is display
// data.
type Container struct {
	store    kvstore.Store
	auth     *gateway.Auth
	validate *validator.Validate
	logger   *slog.Logger

	mu      sync.RWMutex
	loading bool
	session *domain.Session
}

// NewContainer creates the session container and rehydrates it from the
// persisted store. Until rehydration resolves, Loading reports true and
// callers must not treat the absence of a session as "logged out".
func NewContainer(ctx context.Context, store kvstore.Store, auth *gateway.Auth, logger *slog.Logger) *Container {
	if logger == nil {
		logger = slog.Default()
	}

	c := &Container{
		store:    store,
		auth:     auth,
		validate: validator.New(),
		logger:   logger,
		loading:  true,
	}
	c.rehydrate(ctx)

	c.mu.Lock()
	c.loading = false
	c.mu.Unlock()
	return c
}

func (c *Container) rehydrate(ctx context.Context) {
	rawUser, ok, err := c.store.Read(ctx, userKey)
	if err != nil || !ok {
		if err != nil {
			c.logger.Warn("failed to read persisted session, starting logged out", "error", err)
		}
		return
	}

	var persisted domain.Session
	if err := json.Unmarshal(rawUser, &persisted); err != nil || persisted.Username == "" || persisted.TenantID == "" {
		c.logger.Warn("discarding corrupt persisted session")
		c.removePersisted(ctx)
		return
	}

	rawToken, ok, err := c.store.Read(ctx, tokenKey)
	if err != nil || !ok || len(rawToken) == 0 {
		// Identity without a token is useless: every authenticated call
		// would fail. Drop both and start logged out.
		c.removePersisted(ctx)
		return
	}

	persisted.Token = string(rawToken)
	c.mu.Lock()
	c.session = &persisted
	c.mu.Unlock()
}

// Loading reports whether session rehydration is still pending. Dependent
// surfaces must not render an unauthenticated view while this is true.
func (c *Container) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

// Session returns a copy of the active session, if any.
func (c *Container) Session() (domain.Session, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.session == nil {
		return domain.Session{}, false
	}
	return *c.session, true
}

// Token returns the active bearer token, or empty when logged out.
// Implements gateway.TokenSource.
func (c *Container) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.session == nil {
		return ""
	}
	return c.session.Token
}

// Login authenticates against the usuarios service and, on success,
// establishes and persists the session. On any failure the session state
// is left exactly as it was: no partial session.
func (c *Container) Login(ctx context.Context, username, password, tenantID string) (domain.Session, error) {
	const op = "session.login"

	result, err := c.auth.Login(ctx, username, password, tenantID)
	if err != nil {
		return domain.Session{}, err
	}

	established := domain.Session{
		Username: result.Username,
		TenantID: result.TenantID,
		Token:    result.Token,
	}

	rawUser, err := json.Marshal(established)
	if err != nil {
		return domain.Session{}, domain.WrapError(err, domain.EINTERNAL, op, "failed to encode session")
	}
	if err := c.store.Write(ctx, userKey, rawUser); err != nil {
		return domain.Session{}, domain.WrapError(err, domain.EINTERNAL, op, "failed to persist session")
	}
	if err := c.store.Write(ctx, tokenKey, []byte(established.Token)); err != nil {
		// Roll the identity back so a reload cannot see user-without-token.
		c.removePersisted(ctx)
		return domain.Session{}, domain.WrapError(err, domain.EINTERNAL, op, "failed to persist token")
	}

	c.mu.Lock()
	c.session = &established
	c.mu.Unlock()
	return established, nil
}

// RegisterInput is the validated input to account creation.
type RegisterInput struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,min=8"`
	TenantID string `json:"tenant_id" validate:"required"`
}

// Register creates a new account. It does not establish a session; the
// user must log in afterwards.
func (c *Container) Register(ctx context.Context, input RegisterInput) (*gateway.RegisterResult, error) {
	const op = "session.register"

	if err := c.validate.Struct(input); err != nil {
		return nil, domain.WrapError(err, domain.EINVALID, op, "invalid registration data")
	}

	return c.auth.Register(ctx, gateway.RegisterParams{
		Username: input.Username,
		Password: input.Password,
		TenantID: input.TenantID,
	})
}

// Logout clears the in-memory session and removes the persisted identity
// and token. Safe to call with no active session.
func (c *Container) Logout(ctx context.Context) error {
	c.mu.Lock()
	c.session = nil
	c.mu.Unlock()

	return c.removePersisted(ctx)
}

func (c *Container) removePersisted(ctx context.Context) error {
	var firstErr error
	if err := c.store.Remove(ctx, userKey); err != nil {
		firstErr = err
	}
	if err := c.store.Remove(ctx, tokenKey); err != nil && firstErr == nil {
		firstErr = err
	}
	if firstErr != nil {
		return domain.WrapError(firstErr, domain.EINTERNAL, "session.logout", "failed to remove persisted session")
	}
	return nil
}

// Compile-time check that the container can feed gateway clients.
var _ gateway.TokenSource = (*Container)(nil)
