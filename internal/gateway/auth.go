package gateway

import (
	"context"
	"errors"
	"net/http"

	"github.com/mundolibro/storefront/internal/domain"
)

// Auth is the client for the usuarios service.
type Auth struct {
	client *Client
}

// NewAuth creates the auth gateway.
func NewAuth(client *Client) *Auth {
	return &Auth{client: client}
}

// LoginResult is the successful login payload.
type LoginResult struct {
	Token    string `json:"token"`
	Expires  string `json:"expires"`
	TenantID string `json:"tenant_id"`
	Username string `json:"username"`
}

// loginRequest matches POST /login on the usuarios service.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	TenantID string `json:"tenant_id"`
}

// Login exchanges credentials for a bearer token.
//
// The usuarios service reports bad credentials two ways: a transport-level
// non-2xx, or an embedded statusCode of 403 inside an HTTP 200 response.
// Both collapse to EAUTH here.
func (a *Auth) Login(ctx context.Context, username, password, tenantID string) (*LoginResult, error) {
	const op = "auth.login"

	var result LoginResult
	statusCode, err := a.client.doEnveloped(ctx, op, http.MethodPost, "/login", nil, loginRequest{
		Username: username,
		Password: password,
		TenantID: tenantID,
	}, &result)
	if err != nil {
		if domain.IsCode(err, domain.EGATEWAY) {
			return nil, domain.WrapError(err, domain.EAUTH, op, "invalid credentials")
		}
		return nil, err
	}

	if statusCode == http.StatusForbidden {
		return nil, domain.Errorf(domain.EAUTH, op, "invalid credentials")
	}
	if result.Token == "" {
		return nil, domain.Errorf(domain.EAUTH, op, "auth service returned no token")
	}

	return &result, nil
}

// RegisterParams is the input to account creation.
type RegisterParams struct {
	Username string `json:"username"`
	Password string `json:"password"`
	TenantID string `json:"tenant_id"`
}

// RegisterResult is the payload of a successful registration.
// Registration does not establish a session; the user must log in after.
type RegisterResult struct {
	Message  string `json:"message"`
	TenantID string `json:"tenant_id"`
	Username string `json:"username"`
}

// Register creates a new account on the usuarios service.
// A conflict (duplicate username) surfaces as ECONFLICT.
func (a *Auth) Register(ctx context.Context, params RegisterParams) (*RegisterResult, error) {
	const op = "auth.register"

	var result RegisterResult
	_, err := a.client.doEnveloped(ctx, op, http.MethodPost, "/crear", nil, params, &result)
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) && statusErr.Status == http.StatusConflict {
			return nil, domain.WrapError(err, domain.ECONFLICT, op, "username is already taken")
		}
		return nil, err
	}

	return &result, nil
}
