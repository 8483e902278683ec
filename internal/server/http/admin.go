package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/newsletter/internal/common"
	"github.com/dmitrijs2005/newsletter/internal/server/auth"
	"github.com/dmitrijs2005/newsletter/internal/server/models"
	"github.com/go-chi/render"
)

const basicRealm = `Basic realm="publish"`

// publish authenticates with HTTP Basic credentials and sends the issue in
// the JSON body to every confirmed subscriber.
func (s *Server) publish(w http.ResponseWriter, r *http.Request) {
	const op = "http.publish"
	log := s.requestLogger(r, op)

	username, password, ok := r.BasicAuth()
	if !ok {
		s.unauthorized(w, r, common.ErrorUnauthorized)
		return
	}

	id, err := s.deps.Credentials.Validate(r.Context(), username, password)
	if err != nil {
		if errors.Is(err, common.ErrInvalidCredentials) {
			s.unauthorized(w, r, err)
			return
		}
		log.Error(r.Context(), "failed to validate credentials", "error", err)
		writeError(w, r, err)
		return
	}
	log = log.With("user_id", id)

	var issue models.Issue
	if err := render.DecodeJSON(r.Body, &issue); err != nil {
		writeError(w, r, fmt.Errorf("%w: request body is not a valid issue", common.ErrorValidation))
		return
	}

	report, err := s.deps.Dispatcher.Publish(r.Context(), id, issue)
	if err != nil {
		if statusFor(err) == http.StatusInternalServerError {
			log.Error(r.Context(), "failed to publish issue", "error", err)
		}
		writeError(w, r, err)
		return
	}

	render.JSON(w, r, report)
}

func (s *Server) unauthorized(w http.ResponseWriter, r *http.Request, err error) {
	w.Header().Set("WWW-Authenticate", basicRealm)
	writeError(w, r, err)
}

type dashboardPage struct {
	PublisherID string
}

// dashboard requires a valid session cookie; anything else goes back to the
// login form.
func (s *Server) dashboard(w http.ResponseWriter, r *http.Request) {
	c, err := r.Cookie(common.SessionCookieName)
	if err != nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	id, err := auth.GetUserIDFromToken(c.Value, s.deps.SessionSecret)
	if err != nil {
		s.requestLogger(r, "http.dashboard").Debug(r.Context(), "rejected session", "error", err)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	s.renderPage(w, r, "dashboard", dashboardPage{PublisherID: id.String()})
}
