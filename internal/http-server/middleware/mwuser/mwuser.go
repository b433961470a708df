// Package mwuser carries the id of the requesting user from the X-User-ID
// header into the request context. Authentication happens upstream.
package mwuser

import (
	"context"
	"net/http"
	"strings"
)

const Header = "X-User-ID"

type ctxKey struct{}

func New() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			if id := strings.TrimSpace(r.Header.Get(Header)); id != "" {
				r = r.WithContext(WithUserID(r.Context(), id))
			}

			next.ServeHTTP(w, r)
		}

		return http.HandlerFunc(fn)
	}
}

func WithUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// UserID returns the requesting user, if the request named one.
func UserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxKey{}).(string)
	return id, ok && id != ""
}
