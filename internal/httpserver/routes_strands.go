// internal/httpserver/routes_strands.go
//
// Strands placeholder. The game is listed in the navigation but not playable:
//   - GET /games/strands        → empty list
//   - GET /games/strands/{gid}  → 404 for bad dates, 501 otherwise

package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/puzzles/apps/go-server/internal/daily"
)

func (s *Server) mountStrands(r chi.Router) {
	r.Route("/games/strands", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"game":"strands","games":[]}`))
		})
		r.Get("/{gid}", func(w http.ResponseWriter, r *http.Request) {
			if err := daily.Validate(chi.URLParam(r, "gid")); err != nil {
				http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
				return
			}
			http.Error(w, `{"error":"not_implemented"}`, http.StatusNotImplemented)
		})
	})
}
