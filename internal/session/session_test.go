package session_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mundolibro/storefront/internal/domain"
	"github.com/mundolibro/storefront/internal/gateway"
	"github.com/mundolibro/storefront/internal/kvstore"
	"github.com/mundolibro/storefront/internal/session"
)

// newAuthGateway spins an httptest usuarios backend and returns its gateway.
func newAuthGateway(t *testing.T, handler http.HandlerFunc) *gateway.Auth {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := gateway.NewClient(gateway.ClientConfig{BaseURL: srv.URL, Timeout: 2 * time.Second})
	require.NoError(t, err)
	return gateway.NewAuth(client)
}

func loginOK(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"statusCode": 200,
			"body": map[string]string{
				"token":     "tok-abc",
				"tenant_id": "novabooks",
				"username":  "ana",
			},
		})
	}
}

func Test_Login_EstablishesAndPersistsSession(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemory()
	container := session.NewContainer(ctx, store, newAuthGateway(t, loginOK(t)), nil)

	established, err := container.Login(ctx, "ana", "secret", "novabooks")
	require.NoError(t, err)
	assert.Equal(t, "ana", established.Username)
	assert.Equal(t, "novabooks", established.TenantID)
	assert.Equal(t, "tok-abc", container.Token())

	// Identity and token persist under separate keys, token kept out of
	// the identity payload.
	rawUser, ok, err := store.Read(ctx, "user")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"username":"ana","tenant_id":"novabooks"}`, string(rawUser))

	rawToken, ok, err := store.Read(ctx, "token")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "tok-abc", string(rawToken))
}

func Test_Login_FailureLeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemory()
	container := session.NewContainer(ctx, store, newAuthGateway(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"statusCode": 403, "body": map[string]string{}})
	}), nil)

	_, err := container.Login(ctx, "ana", "wrong", "novabooks")
	require.Error(t, err)
	assert.Equal(t, domain.EAUTH, domain.ErrorCode(err))

	_, ok := container.Session()
	assert.False(t, ok, "failed login must not leave a partial session")
	assert.Empty(t, container.Token())

	_, found, _ := store.Read(ctx, "user")
	assert.False(t, found)
}

func Test_Rehydration_RestoresSession(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemory()
	require.NoError(t, store.Write(ctx, "user", []byte(`{"username":"ana","tenant_id":"novabooks"}`)))
	require.NoError(t, store.Write(ctx, "token", []byte("tok-abc")))

	container := session.NewContainer(ctx, store, newAuthGateway(t, loginOK(t)), nil)

	assert.False(t, container.Loading(), "loading resolves once rehydration completes")
	restored, ok := container.Session()
	require.True(t, ok)
	assert.Equal(t, "ana", restored.Username)
	assert.Equal(t, "tok-abc", container.Token())
}

func Test_Rehydration_CorruptUserStartsLoggedOut(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemory()
	require.NoError(t, store.Write(ctx, "user", []byte(`not json at all`)))
	require.NoError(t, store.Write(ctx, "token", []byte("tok-abc")))

	container := session.NewContainer(ctx, store, newAuthGateway(t, loginOK(t)), nil)

	_, ok := container.Session()
	assert.False(t, ok)

	// Both entries are cleared so the corruption cannot recur.
	_, found, _ := store.Read(ctx, "user")
	assert.False(t, found)
	_, found, _ = store.Read(ctx, "token")
	assert.False(t, found)
}

func Test_Rehydration_IdentityWithoutTokenIsDropped(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemory()
	require.NoError(t, store.Write(ctx, "user", []byte(`{"username":"ana","tenant_id":"novabooks"}`)))

	container := session.NewContainer(ctx, store, newAuthGateway(t, loginOK(t)), nil)

	_, ok := container.Session()
	assert.False(t, ok, "identity without a token cannot make authenticated calls")
}

func Test_Logout_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemory()
	container := session.NewContainer(ctx, store, newAuthGateway(t, loginOK(t)), nil)

	_, err := container.Login(ctx, "ana", "secret", "novabooks")
	require.NoError(t, err)

	require.NoError(t, container.Logout(ctx))
	_, ok := container.Session()
	assert.False(t, ok)
	assert.Empty(t, container.Token())

	require.NoError(t, container.Logout(ctx), "logout with no active session is safe")
}

func Test_Register_DoesNotEstablishSession(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemory()
	container := session.NewContainer(ctx, store, newAuthGateway(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"statusCode": 200,
			"body":       map[string]string{"message": "user created", "username": "luis"},
		})
	}), nil)

	result, err := container.Register(ctx, session.RegisterInput{
		Username: "luis", Password: "supersecret", TenantID: "techshelf",
	})
	require.NoError(t, err)
	assert.Equal(t, "luis", result.Username)

	_, ok := container.Session()
	assert.False(t, ok, "registration must not log the user in")
}

func Test_Register_ValidatesInputBeforeNetwork(t *testing.T) {
	ctx := context.Background()
	var called bool
	container := session.NewContainer(ctx, kvstore.NewMemory(), newAuthGateway(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	}), nil)

	tests := []struct {
		name  string
		input session.RegisterInput
	}{
		{"missing username", session.RegisterInput{Password: "supersecret", TenantID: "novabooks"}},
		{"short password", session.RegisterInput{Username: "luis", Password: "abc", TenantID: "novabooks"}},
		{"missing tenant", session.RegisterInput{Username: "luis", Password: "supersecret"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := container.Register(ctx, tt.input)
			require.Error(t, err)
			assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
		})
	}
	assert.False(t, called, "invalid input must be rejected locally")
}
