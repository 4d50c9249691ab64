package daylog

import (
	"fmt"
	"sync"

	"github.com/egliette/daylog/config"
)

var (
	defaultMu     sync.Mutex
	defaultLogger *Logger
)

// Init builds the process-wide Logger on the first call and returns it.
// Every later call returns the already-built instance without re-running
// setup, regardless of cfg. Services that want a testable logger should
// inject the result (or a New one) rather than reach for Default at the
// call site.
func Init(cfg *config.Config) (*Logger, error) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultLogger != nil {
		return defaultLogger, nil
	}
	l, err := New(cfg)
	if err != nil {
		return nil, err
	}
	defaultLogger = l
	return l, nil
}

// Default returns the process-wide Logger, building it with default
// configuration on first use. It panics when that build fails; callers
// that need the error path use Init.
func Default() *Logger {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultLogger == nil {
		l, err := New(nil)
		if err != nil {
			panic(fmt.Sprintf("daylog: building default logger: %v", err))
		}
		defaultLogger = l
	}
	return defaultLogger
}
