package validators

import (
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/modelmart/modelmart-backend/pkg/errors"
)

// QueryInt reads an optional non-negative integer query parameter.
func QueryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, name+" must be a non-negative integer")
	}
	return value, nil
}

// QueryString reads an optional trimmed string query parameter.
func QueryString(r *http.Request, name string) string {
	return strings.TrimSpace(r.URL.Query().Get(name))
}
