package middleware

import (
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
)

type RequestRecorder interface {
	HTTPRequest(method string, status int)
}

func NewMetrics(recorder RequestRecorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			recorder.HTTPRequest(r.Method, ww.Status())
		})
	}
}
