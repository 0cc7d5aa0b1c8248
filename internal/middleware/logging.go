package middleware

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// LogMiddleware logs the method, path, duration, and remote address of each
// HTTP request.
func LogMiddleware(logger *logrus.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			logger.WithFields(logrus.Fields{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
				"remote":   r.RemoteAddr,
			}).Info("HTTP request")
		})
	}
}

// LogGameSocketConnect records a player attaching to a room's websocket.
func LogGameSocketConnect(logger *logrus.Logger, roomID, remoteAddr string) {
	logger.WithFields(logrus.Fields{
		"room":   roomID,
		"remote": remoteAddr,
	}).Info("websocket connected")
}

// LogGameSocketDisconnect records a player's websocket closing, with the
// read-loop error when the close was not clean.
func LogGameSocketDisconnect(logger *logrus.Logger, roomID, remoteAddr string, err error) {
	fields := logrus.Fields{
		"room":   roomID,
		"remote": remoteAddr,
	}
	if err != nil {
		fields["error"] = err
	}
	logger.WithFields(fields).Info("websocket disconnected")
}
