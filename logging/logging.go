// Package logging is a thin, printf-style facade over hclog, preserving
// the calling convention used throughout this codebase:
// logging.Info("queue %q tripped", name) rather than structured
// key/value pairs at every call site.
package logging

import (
	"fmt"
	"os"
	"sync"

	"github.com/hashicorp/go-hclog"
)

var (
	mu  sync.Mutex
	log = hclog.New(&hclog.LoggerOptions{
		Name:  "capshare",
		Level: hclog.Info,
	})
)

// SetLevel adjusts the minimum emitted level at runtime, e.g. from the
// agent's -log-level flag.
func SetLevel(level string) {
	mu.Lock()
	defer mu.Unlock()
	log.SetLevel(hclog.LevelFromString(level))
}

// SetOutput redirects the underlying writer; tests use this to capture
// output instead of writing to os.Stderr.
func SetOutput(w *os.File) {
	mu.Lock()
	defer mu.Unlock()
	log = hclog.New(&hclog.LoggerOptions{
		Name:   "capshare",
		Level:  log.GetLevel(),
		Output: w,
	})
}

func Trace(format string, args ...interface{}) { log.Trace(fmt.Sprintf(format, args...)) }
func Debug(format string, args ...interface{}) { log.Debug(fmt.Sprintf(format, args...)) }
func Info(format string, args ...interface{})  { log.Info(fmt.Sprintf(format, args...)) }
func Warning(format string, args ...interface{}) { log.Warn(fmt.Sprintf(format, args...)) }
func Error(format string, args ...interface{}) { log.Error(fmt.Sprintf(format, args...)) }
