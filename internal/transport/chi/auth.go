package chi

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// exemptPaths are reachable without a token so probes and scrapers work.
var exemptPaths = map[string]bool{
	"/healthz": true,
	"/metrics": true,
}

// BearerAuthMiddleware enforces a static bearer token against the configured
// key set. With no keys configured the middleware is a pass-through.
func BearerAuthMiddleware(apiKeys []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(apiKeys) == 0 || exemptPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := bearerToken(r)
			if !ok {
				writeJSON(w, http.StatusUnauthorized, errorResponse{Message: "missing bearer token"})
				return
			}

			for _, key := range apiKeys {
				if subtle.ConstantTimeCompare([]byte(token), []byte(key)) == 1 {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeJSON(w, http.StatusUnauthorized, errorResponse{Message: "invalid bearer token"})
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return "", false
	}
	token := strings.TrimSpace(auth[len(prefix):])
	return token, token != ""
}
