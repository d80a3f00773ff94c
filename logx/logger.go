package logx

import (
	"io"
	"os"

	"github.com/op/go-logging"
)

type Level logging.Level

// The levels that can be passed to the SetLevel function.
const (
	Debug Level = iota
	Info
	Notice
	Warning
	Error
)

// The logger format
var format = logging.MustStringFormatter(
	`%{color}[%{time:15:04:05.000}] [%{module}] [%{level}]%{color:reset} %{message}`,
)

// The internal leveled logger backend
var leveledBackend logging.LeveledBackend

// The logger interface
type Logger interface {
	Debug(v ...interface{})
	Debugf(format string, v ...interface{})

	Notice(v ...interface{})
	Noticef(format string, v ...interface{})

	Info(v ...interface{})
	Infof(format string, v ...interface{})

	Warning(v ...interface{})
	Warningf(format string, v ...interface{})

	Error(v ...interface{})
	Errorf(format string, v ...interface{})
}

// New creates a logger for a top-level subsystem (e.g. "engine",
// "previewd").
func New(name string) Logger {
	return logging.MustGetLogger(name)
}

// Named creates a logger scoped under parent as "parent.child" (for
// example a per-light logger under the engine subsystem), so that
// SetModuleLevel can dial its verbosity independently of its parent's.
func Named(parent, child string) Logger {
	return logging.MustGetLogger(parent + "." + child)
}

// Override the backend output sink.
func SetSink(sink io.Writer) {
	backend := logging.NewLogBackend(sink, "", 0)
	backendWithFormatter := logging.NewBackendFormatter(backend, format)
	leveledBackend = logging.AddModuleLevel(backendWithFormatter)
	leveledBackend.SetLevel(logging.INFO, "")
	logging.SetBackend(leveledBackend)
}

// SetLevel sets the default verbosity applied to every module that has no
// more specific override from SetModuleLevel.
func SetLevel(level Level) {
	leveledBackend.SetLevel(toLoggingLevel(level), "")
}

// SetModuleLevel overrides the verbosity of a single named module (as
// produced by New or Named) without disturbing the default level set by
// SetLevel. Useful for quieting a noisy per-light logger while keeping the
// rest of the engine at Notice.
func SetModuleLevel(module string, level Level) {
	leveledBackend.SetLevel(toLoggingLevel(level), module)
}

func toLoggingLevel(level Level) logging.Level {
	switch level {
	case Debug:
		return logging.DEBUG
	case Info:
		return logging.INFO
	case Notice:
		return logging.NOTICE
	case Warning:
		return logging.WARNING
	case Error:
		return logging.ERROR
	default:
		return logging.NOTICE
	}
}

func init() {
	SetSink(os.Stdout)
	SetLevel(Notice)
}
