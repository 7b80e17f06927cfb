package engine

import (
	"context"

	"github.com/sirupsen/logrus"
)

type loggerContextKey string

const loggerContextKeyVal = loggerContextKey("logrus.FieldLogger")

// Logger returns the logger carried by ctx, or the logrus standard logger.
func Logger(ctx context.Context) logrus.FieldLogger {
	if val := ctx.Value(loggerContextKeyVal); val != nil {
		if logger, ok := val.(logrus.FieldLogger); ok {
			return logger
		}
	}

	return logrus.StandardLogger()
}

// WithLogger returns a copy of ctx carrying logger.
func WithLogger(ctx context.Context, logger logrus.FieldLogger) context.Context {
	return context.WithValue(ctx, loggerContextKeyVal, logger)
}
