package storefront

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mundolibro/storefront/internal/domain"
	"github.com/mundolibro/storefront/internal/middleware"
)

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

func respondError(w http.ResponseWriter, r *http.Request, err error) {
	code := domain.ErrorCode(err)
	status := errorStatus(code)
	if status >= http.StatusInternalServerError {
		middleware.GetLogger(r.Context()).Error("handler error",
			slog.String("code", code),
			slog.Any("error", err),
		)
	}
	respondJSON(w, status, map[string]string{
		"error": domain.ErrorMessage(err),
		"code":  code,
	})
}

func errorStatus(code string) int {
	switch code {
	case domain.EINVALID:
		return http.StatusBadRequest
	case domain.EAUTH:
		return http.StatusUnauthorized
	case domain.ENOTFOUND:
		return http.StatusNotFound
	case domain.ECONFLICT, domain.ECHECKOUT:
		return http.StatusConflict
	case domain.EGATEWAY, domain.EPARTIAL:
		return http.StatusBadGateway
	case domain.ENETWORK:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON decodes the request body, rejecting unknown fields so
// client typos surface as 400s instead of silently dropped input.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return &domain.Error{
			Code:    domain.EINVALID,
			Message: "Invalid request body.",
			Op:      "storefront.decodeJSON",
			Err:     err,
		}
	}
	return nil
}
