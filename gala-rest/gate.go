package galarest

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"
)

// Ensurer reports whether a live database connection exists, establishing
// one if needed.
type Ensurer interface {
	Ensure(ctx context.Context) error
}

// Gate blocks API traffic until a live database connection exists. On
// failure it answers 503 with the uniform error body; no route handler runs.
func Gate(db Ensurer) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if err := db.Ensure(req.Context()); err != nil {
				zerolog.Ctx(req.Context()).Error().Err(err).Msg("database unavailable")
				Error(w, http.StatusServiceUnavailable, err.Error())
				return
			}
			next.ServeHTTP(w, req)
		})
	}
}
