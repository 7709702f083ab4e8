package diag

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapSink writes events to a zap logger.
type ZapSink struct {
	Logger   *zap.Logger
	MinLevel Level
}

// NewZap creates a sink over a zap logger.
func NewZap(logger *zap.Logger) *ZapSink {
	return &ZapSink{Logger: logger, MinLevel: Debug}
}

// Emit logs the event with its code and fields.
func (s *ZapSink) Emit(e Event) {
	if e.Level < s.MinLevel {
		return
	}
	fields := make([]zap.Field, 0, len(e.Fields)+1)
	fields = append(fields, zap.String("code", e.Code))
	for _, name := range e.FieldNames() {
		fields = append(fields, zap.Any(name, e.Fields[name]))
	}
	if ce := s.Logger.Check(ZapLevel(e.Level), e.Message); ce != nil {
		ce.Write(fields...)
	}
}

// ZapLevel converts Level to zapcore.Level.
func ZapLevel(level Level) zapcore.Level {
	switch level {
	case Debug:
		return zapcore.DebugLevel
	case Warn:
		return zapcore.WarnLevel
	case Error:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
