package log

import (
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"

	charmlog "github.com/charmbracelet/log"

	"sbpf/internal/logging"
)

var (
	initOnce    sync.Once
	initialized atomic.Bool
	closer      *logging.LoggerCloser
)

// Setup installs the charm logger as the default slog handler. Without
// verbose or debug only warnings and errors are reported. SBPF_LOG_LEVEL=debug
// behaves like debug.
func Setup(verbose, debug bool) {
	initOnce.Do(func() {
		debug = debug || logging.IsDebug()

		level := charmlog.WarnLevel
		switch {
		case debug:
			level = charmlog.DebugLevel
		case verbose:
			level = charmlog.InfoLevel
		}

		closer = logging.NewLogger(level)
		closer.SetReportCaller(debug)

		slog.SetDefault(slog.New(closer.Logger))
		initialized.Store(true)
	})
}

func Initialized() bool {
	return initialized.Load()
}

// Close releases the log file, if any.
func Close() error {
	if closer == nil {
		return nil
	}
	return closer.Close()
}

func RecoverPanic(name string, cleanup func()) {
	if r := recover(); r != nil {
		if Initialized() {
			slog.Error(fmt.Sprintf("Panic in %s", name),
				"panic", r,
				"stack", string(debug.Stack()))
		}
		if cleanup != nil {
			cleanup()
		}
	}
}
