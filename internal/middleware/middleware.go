package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/mundolibro/storefront/internal/domain"
)

type contextKey string

// respondWithError writes a JSON error payload derived from a domain
// error. Kept self-contained so middleware does not import the handler
// packages it wraps.
func respondWithError(w http.ResponseWriter, err error) {
	code := domain.ErrorCode(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(errorCodeToHTTPStatus(code))
	json.NewEncoder(w).Encode(map[string]string{
		"error": domain.ErrorMessage(err),
		"code":  code,
	})
}

func errorCodeToHTTPStatus(code string) int {
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
