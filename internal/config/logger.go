package config

import (
	"context"
	"os"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

var Logger = logrus.New()

func InitLogger() {
	Logger.SetOutput(os.Stdout)
	Logger.SetFormatter(&logrus.JSONFormatter{})

	level, err := logrus.ParseLevel(Getenv("LOG_LEVEL", "info"))
	if err != nil {
		level = logrus.InfoLevel
	}
	Logger.SetLevel(level)
}

// WithContext returns a logger carrying the chi request id, when present.
func WithContext(ctx context.Context) logrus.FieldLogger {
	if reqID := middleware.GetReqID(ctx); reqID != "" {
		return Logger.WithField("request_id", reqID)
	}
	return Logger
}
