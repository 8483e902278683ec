package http

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"
)

func loginLimit() func(http.Handler) http.Handler {
	return httprate.LimitByIP(10, 5*time.Minute)
}

func subscribeLimit() func(http.Handler) http.Handler {
	return httprate.LimitByIP(5, time.Hour)
}

func resendLimit() func(http.Handler) http.Handler {
	return httprate.LimitByIP(3, time.Hour)
}
