package structure

import "github.com/yungbote/coursecraft-backend/internal/platform/logger"

// Notifier surfaces the outcome of a gesture to the editor.
type Notifier interface {
	Success(message string)
	Error(message string)
}

type logNotifier struct {
	log *logger.Logger
}

// NewLogNotifier reports outcomes through the structured logger.
func NewLogNotifier(log *logger.Logger) Notifier {
	if log == nil {
		log = logger.Nop()
	}
	return &logNotifier{log: log.With("component", "StructureNotifier")}
}

func (n *logNotifier) Success(message string) { n.log.Info(message) }
func (n *logNotifier) Error(message string)   { n.log.Warn(message) }
