package web

import (
	"net/http"

	"github.com/ericfisherdev/costumedesk/internal/application"
)

// guard runs the navigation guard before next. Redirects use 303 so a
// rejected POST is followed by a GET.
func (h *Handler) guard(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		decision := application.Navigate(r.URL.Path, h.session.IsAuthenticated())
		if !decision.Allowed {
			h.logger.Debug("navigation redirected",
				"path", r.URL.Path,
				"redirect", decision.Redirect,
			)
			http.Redirect(w, r, decision.Redirect, http.StatusSeeOther)
			return
		}
		next(w, r)
	}
}
