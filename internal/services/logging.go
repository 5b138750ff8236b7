package services

import (
	"context"
	"log/slog"
	"time"
)

// ServiceLogger provides structured logging for attainment computations.
type ServiceLogger struct {
	logger *slog.Logger
	config LogConfig
}

type LogConfig struct {
	Service     string
	Component   string
	EnableDebug bool
}

func NewServiceLogger(logger *slog.Logger, config LogConfig) *ServiceLogger {
	return &ServiceLogger{
		logger: logger.With("service", config.Service, "component", config.Component),
		config: config,
	}
}

// LogComputation logs one attainment computation with its scope, outcome
// status, and duration. Integrity and configuration failures log as warnings
// since they indicate bad data or config rather than a service fault.
func (l *ServiceLogger) LogComputation(ctx context.Context, operation string, scope map[string]any, duration time.Duration, err error) {
	status := "success"
	level := slog.LevelInfo

	if err != nil {
		switch {
		case IsDataIntegrity(err):
			status = "data_integrity_fault"
			level = slog.LevelWarn
		case IsConfiguration(err):
			status = "configuration_error"
			level = slog.LevelWarn
		case IsValidation(err):
			status = "validation_error"
			level = slog.LevelWarn
		case IsNotFound(err):
			status = "not_found"
			level = slog.LevelInfo
		default:
			status = "error"
			level = slog.LevelError
		}
	}

	attrs := []slog.Attr{
		slog.String("operation", operation),
		slog.String("status", status),
		slog.Duration("duration", duration),
	}
	for key, value := range scope {
		attrs = append(attrs, slog.Any(key, value))
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}

	l.logger.LogAttrs(ctx, level, "Attainment computation", attrs...)
}

// TimeOperation returns a stop function that logs the operation on completion.
func (l *ServiceLogger) TimeOperation(ctx context.Context, operation string, scope map[string]any) func(error) {
	start := time.Now()
	return func(err error) {
		l.LogComputation(ctx, operation, scope, time.Since(start), err)
	}
}
