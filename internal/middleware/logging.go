package middleware

import (
	"net/http"

	log "github.com/sirupsen/logrus"
)

func LogRequest() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			remote := r.Header.Get("X-Forwarded-For")
			if remote == "" {
				remote = r.RemoteAddr
			}
			log.Tracef(" ====> request [%s] path: [%s] [from: %s] [UA: %s]", r.Method, r.URL.Path, remote, r.UserAgent())
			next.ServeHTTP(w, r)
		})
	}
}
