package http

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/newsletter/internal/common"
	"github.com/dmitrijs2005/newsletter/internal/server/auth"
)

const (
	msgAuthFailed = "Authentication failed"
	msgInternal   = "Something went wrong"
)

type loginPage struct {
	Error string
}

// loginForm shows the form and, if present, an error message carried either
// in signed query parameters or in the signed flash cookie. The flash cookie
// is cleared on every read.
func (s *Server) loginForm(w http.ResponseWriter, r *http.Request) {
	var page loginPage

	q := r.URL.Query()
	if msg, tag := q.Get("error"), q.Get("tag"); msg != "" && tag != "" {
		if s.deps.Codec.VerifyString(errorQuery(msg), tag) {
			page.Error = msg
		}
	}

	if c, err := r.Cookie(common.FlashCookieName); err == nil {
		if msg, ok := s.deps.Codec.Decode(c.Value); ok && page.Error == "" {
			page.Error = msg
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     common.FlashCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	s.renderPage(w, r, "login", page)
}

// login checks the credentials and either starts a session or sends the user
// back to the form with a signed error message.
func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	const op = "http.login"
	log := s.requestLogger(r, op)

	if err := r.ParseForm(); err != nil {
		s.loginFailed(w, r, msgAuthFailed)
		return
	}
	username := r.PostForm.Get("username")

	id, err := s.deps.Credentials.Validate(r.Context(), username, r.PostForm.Get("password"))
	if err != nil {
		if errors.Is(err, common.ErrInvalidCredentials) {
			s.loginFailed(w, r, msgAuthFailed)
			return
		}
		log.Error(r.Context(), "failed to validate credentials", "error", err)
		s.loginFailed(w, r, msgInternal)
		return
	}

	token, err := auth.GenerateToken(id, s.deps.SessionSecret, s.deps.SessionTTL)
	if err != nil {
		log.Error(r.Context(), "failed to issue session token", "error", err)
		s.loginFailed(w, r, msgInternal)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     common.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.deps.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   s.deps.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	log.Info(r.Context(), "publisher logged in", "user_id", id)
	http.Redirect(w, r, "/admin/dashboard", http.StatusSeeOther)
}

func (s *Server) loginFailed(w http.ResponseWriter, r *http.Request, msg string) {
	http.SetCookie(w, &http.Cookie{
		Name:     common.FlashCookieName,
		Value:    s.deps.Codec.Encode(msg),
		Path:     "/",
		HttpOnly: true,
		Secure:   s.deps.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	q := errorQuery(msg)
	http.Redirect(w, r, "/login?"+q+"&tag="+s.deps.Codec.SignString(q), http.StatusSeeOther)
}

// errorQuery is the exact query fragment that gets signed.
func errorQuery(msg string) string {
	return "error=" + url.QueryEscape(msg)
}
