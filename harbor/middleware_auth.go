package harbor

import (
	"context"
	"net/http"
	"strings"

	kithttp "github.com/marinadb/marina/kit/transport/http"

	"github.com/marinadb/marina/jsonweb"
)

type contextKey string

const subjectContextKey contextKey = "harbor/subject"

// SubjectFromContext returns the authenticated subject stored by
// RequireAuth.
func SubjectFromContext(ctx context.Context) (string, error) {
	sub, ok := ctx.Value(subjectContextKey).(string)
	if !ok || sub == "" {
		return "", ErrUnauthorized
	}
	return sub, nil
}

// RequireAuth rejects requests that carry no verifiable bearer token
// and stores the verified subject in the request context for handlers
// downstream.
func RequireAuth(api *kithttp.API, parser *jsonweb.TokenParser) kithttp.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, err := extractBearerToken(r)
			if err != nil {
				api.Err(w, r, err)
				return
			}

			token, err := parser.Parse(raw)
			if err != nil {
				api.Err(w, r, ErrUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), subjectContextKey, token.Identifier())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractBearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", ErrUnauthorized
	}

	const prefix = "Bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", ErrUnauthorized
	}

	return header[len(prefix):], nil
}
