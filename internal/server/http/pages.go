package http

import (
	"html/template"
	"net/http"
)

var pages = template.Must(template.New("home").Parse(`<!doctype html>
<html lang="en">
<head><meta charset="utf-8"><title>Home</title></head>
<body>
<p>Welcome to our newsletter!</p>
<form action="/subscriptions" method="post">
	<label>Name <input type="text" name="name"></label>
	<label>Email <input type="email" name="email"></label>
	<button type="submit">Subscribe</button>
</form>
<p><a href="/login">Publisher login</a></p>
</body>
</html>`))

func init() {
	template.Must(pages.New("login").Parse(`<!doctype html>
<html lang="en">
<head><meta charset="utf-8"><title>Login</title></head>
<body>
{{if .Error}}<p><i>{{.Error}}</i></p>{{end}}
<form action="/login" method="post">
	<label>Username <input type="text" placeholder="Enter Username" name="username"></label>
	<label>Password <input type="password" placeholder="Enter Password" name="password"></label>
	<button type="submit">Login</button>
</form>
</body>
</html>`))

	template.Must(pages.New("dashboard").Parse(`<!doctype html>
<html lang="en">
<head><meta charset="utf-8"><title>Admin dashboard</title></head>
<body>
<p>Welcome, publisher {{.PublisherID}}!</p>
<p>Publish an issue with <code>POST /admin/newsletters</code>.</p>
</body>
</html>`))
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.ExecuteTemplate(w, name, data); err != nil {
		s.requestLogger(r, "http.render").Error(r.Context(), "failed to render page", "page", name, "error", err)
	}
}

func (s *Server) home(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, "home", nil)
}
