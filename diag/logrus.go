package diag

import "github.com/sirupsen/logrus"

// LogrusSink writes events to a logrus logger.
type LogrusSink struct {
	Logger logrus.FieldLogger
}

// NewLogrus creates a sink over a logrus logger or entry.
func NewLogrus(logger logrus.FieldLogger) *LogrusSink {
	return &LogrusSink{Logger: logger}
}

// Emit logs the event with its code and fields.
func (s *LogrusSink) Emit(e Event) {
	fields := logrus.Fields{"code": e.Code}
	for k, v := range e.Fields {
		fields[k] = v
	}
	entry := s.Logger.WithFields(fields)
	switch e.Level {
	case Debug:
		entry.Debug(e.Message)
	case Warn:
		entry.Warn(e.Message)
	case Error:
		entry.Error(e.Message)
	default:
		entry.Info(e.Message)
	}
}
