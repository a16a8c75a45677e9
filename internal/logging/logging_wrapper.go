package logging

import (
	"net/http"

	"github.com/sirupsen/logrus"
)

// LoggingWrapper adapts a plain handler that wants its own LogData. Used
// for the endpoints that live outside the huma API, like /status.
func LoggingWrapper(
	loggingName string,
	log *logrus.Logger,
	handler func(http.ResponseWriter, *http.Request, *LogData) error,
) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		log.Infof("Handler.%v.Start", loggingName)

		logData := NewLogData(log)
		endTimer := logData.AddTiming("duration")
		defer endTimer()

		err := handler(w, req.WithContext(WithLogData(req.Context(), logData)), logData)
		if err != nil {
			logData.Log().WithError(err).Errorf("Handler.%v.Error", loggingName)
			return
		}

		logData.Log().Infof("Handler.%v.Complete", loggingName)
	}
}

// Middleware wraps an http.Handler so every request gets its own LogData,
// available to downstream code through the request context, and emits one
// structured line per request when the handler returns.
func Middleware(log *logrus.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		logData := NewLogData(log)
		logData.AddData("method", req.Method)
		logData.AddData("path", req.URL.Path)

		endTimer := logData.AddTiming("durationMs")

		next.ServeHTTP(w, req.WithContext(WithLogData(req.Context(), logData)))

		endTimer()
		logData.Log().Info("Http.Request.Complete")
	})
}
