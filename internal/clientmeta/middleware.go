package clientmeta

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
)

// MinVersion is the oldest client version the session API supports.
// Older clients predate tagged drag references and single-valued edit
// targets.
const MinVersion = "1.0.0"

// contextKey is the type for context values to avoid collisions.
type contextKey string

const clientContextKey contextKey = "editor.client"

// Middleware parses the Editor-Client header when present and attaches
// the identity to the request context. Malformed headers are rejected
// with 400; clients announcing a version below MinVersion get 426.
// Discovery and health paths are exempt.
func Middleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isExemptPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get(Header)
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			client, err := Parse(header)
			if err != nil {
				logger.Warn("invalid Editor-Client header",
					slog.String("header", header),
					slog.String("error", err.Error()))
				writeClientError(w, http.StatusBadRequest, "invalid_client_header",
					"Invalid Editor-Client header: "+err.Error())
				return
			}

			if !client.MeetsMinimum(MinVersion) {
				logger.Warn("client below minimum version",
					slog.String("client", client.String()),
					slog.String("minimum", MinVersion))
				writeClientError(w, http.StatusUpgradeRequired, "client_upgrade_required",
					"Client version "+client.Version+" is below the supported minimum "+MinVersion)
				return
			}

			ctx := context.WithValue(r.Context(), clientContextKey, &client)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// FromContext retrieves the client identity, or nil when the request
// carried no Editor-Client header.
func FromContext(ctx context.Context) *Client {
	v := ctx.Value(clientContextKey)
	if v == nil {
		return nil
	}
	return v.(*Client)
}

// isExemptPath returns true for paths that never require identity.
func isExemptPath(path string) bool {
	switch {
	case path == "/.well-known/list-editor":
		return true
	case path == "/health" || path == "/healthz":
		return true
	default:
		return false
	}
}

func writeClientError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}{}
	resp.Error.Code = code
	resp.Error.Message = message

	json.NewEncoder(w).Encode(resp)
}
