package mqtt

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
)

// pahoLevel selects the Logger method a pahoLogger forwards to.
type pahoLevel int

const (
	pahoDebug pahoLevel = iota
	pahoWarn
	pahoError
)

// pahoLogger adapts one level of the current Logger to paho's
// Println/Printf logger. Entries are dropped while no Logger is set.
type pahoLogger struct {
	level pahoLevel
}

func (l *pahoLogger) Println(v ...any) {
	l.log(strings.TrimSpace(fmt.Sprintln(v...)))
}

func (l *pahoLogger) Printf(format string, v ...any) {
	l.log(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l *pahoLogger) log(msg string) {
	holder := pahoTarget.Load()
	if holder == nil || holder.logger == nil {
		return
	}
	switch l.level {
	case pahoError:
		holder.logger.Error(msg, "component", "paho")
	case pahoWarn:
		holder.logger.Warn(msg, "component", "paho")
	default:
		holder.logger.Debug(msg, "component", "paho")
	}
}

type loggerHolder struct {
	logger Logger
}

var (
	// paho's loggers are package globals read by every client goroutine,
	// so they are assigned exactly once; only pahoTarget changes later.
	pahoInstall sync.Once
	pahoTarget  atomic.Pointer[loggerHolder]

	pahoErrorLogger = &pahoLogger{level: pahoError}
	pahoWarnLogger  = &pahoLogger{level: pahoWarn}
	pahoDebugLogger = &pahoLogger{level: pahoDebug}
)

// setPahoLoggers routes paho's ERROR, CRITICAL, WARN and DEBUG output to
// logger. A nil logger silences paho again.
func setPahoLoggers(logger Logger) {
	pahoTarget.Store(&loggerHolder{logger: logger})

	pahoInstall.Do(func() {
		pahomqtt.ERROR = pahoErrorLogger
		pahomqtt.CRITICAL = pahoErrorLogger
		pahomqtt.WARN = pahoWarnLogger
		pahomqtt.DEBUG = pahoDebugLogger
	})
}
