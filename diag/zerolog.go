package diag

import "github.com/rs/zerolog"

// ZerologSink writes events to a zerolog logger.
type ZerologSink struct {
	Logger zerolog.Logger
}

// NewZerolog creates a sink over a zerolog logger.
func NewZerolog(logger zerolog.Logger) *ZerologSink {
	return &ZerologSink{Logger: logger}
}

// Emit logs the event with its code and fields.
func (s *ZerologSink) Emit(e Event) {
	var ev *zerolog.Event
	switch e.Level {
	case Debug:
		ev = s.Logger.Debug()
	case Warn:
		ev = s.Logger.Warn()
	case Error:
		ev = s.Logger.Error()
	default:
		ev = s.Logger.Info()
	}
	ev = ev.Str("code", e.Code)
	for _, name := range e.FieldNames() {
		ev = ev.Interface(name, e.Fields[name])
	}
	ev.Msg(e.Message)
}
