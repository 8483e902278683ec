package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/newsletter/internal/common"
	"github.com/dmitrijs2005/newsletter/internal/logging"
	"github.com/go-chi/render"
)

// subscribe registers a pending subscriber and then mails the confirmation
// link. A mail failure is logged; the registration stays.
func (s *Server) subscribe(w http.ResponseWriter, r *http.Request) {
	const op = "http.subscribe"
	log := s.requestLogger(r, op)

	if err := r.ParseForm(); err != nil {
		writeError(w, r, common.ErrorValidation)
		return
	}

	reg, err := s.deps.Registry.Register(r.Context(), r.PostForm.Get("email"), r.PostForm.Get("name"))
	if err != nil {
		if statusFor(err) == http.StatusInternalServerError {
			log.Error(r.Context(), "failed to register subscriber", "error", err)
		}
		writeError(w, r, err)
		return
	}

	log = log.With("subscriber_id", reg.Subscriber.ID)
	if err := s.deps.Confirmations.Send(r.Context(), reg); err != nil {
		log.Error(r.Context(), "failed to send confirmation email",
			"email", logging.RedactEmail(reg.Subscriber.Email), "error", err)
	} else {
		log.Info(r.Context(), "subscriber registered")
	}

	render.JSON(w, r, OK())
}

// resend mails the existing token again to a pending subscriber. Unknown and
// already confirmed addresses get the same reply as pending ones.
func (s *Server) resend(w http.ResponseWriter, r *http.Request) {
	const op = "http.resend"
	log := s.requestLogger(r, op)

	if err := r.ParseForm(); err != nil {
		writeError(w, r, common.ErrorValidation)
		return
	}

	reg, err := s.deps.Registry.Pending(r.Context(), r.PostForm.Get("email"))
	switch {
	case err == nil:
	case errors.Is(err, common.ErrorNotFound):
		render.JSON(w, r, OK())
		return
	default:
		if statusFor(err) == http.StatusInternalServerError {
			log.Error(r.Context(), "failed to look up pending subscriber", "error", err)
		}
		writeError(w, r, err)
		return
	}

	if err := s.deps.Confirmations.Send(r.Context(), reg); err != nil {
		log.Error(r.Context(), "failed to resend confirmation email",
			"subscriber_id", reg.Subscriber.ID, "email", logging.RedactEmail(reg.Subscriber.Email), "error", err)
	}
	render.JSON(w, r, OK())
}

func (s *Server) confirm(w http.ResponseWriter, r *http.Request) {
	const op = "http.confirm"
	log := s.requestLogger(r, op)

	token := r.URL.Query().Get("subscription_token")
	if token == "" {
		writeError(w, r, fmt.Errorf("%w: subscription_token is required", common.ErrorValidation))
		return
	}

	if err := s.deps.Registry.Confirm(r.Context(), token); err != nil {
		if statusFor(err) == http.StatusInternalServerError {
			log.Error(r.Context(), "failed to confirm subscriber", "error", err)
		}
		writeError(w, r, err)
		return
	}

	render.JSON(w, r, OK())
}
