// Package logger configures the process-wide structured logger. Output goes
// to a rotating file under the config directory, and to stderr as well in
// debug mode.
package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// FileName is the log file created under <ConfigDir>/logs.
const FileName = "timebox.log"

var global = log.NewWithOptions(io.Discard, log.Options{Prefix: "timebox"})

// Config holds logger configuration.
type Config struct {
	Debug     bool
	ConfigDir string
	// Stderr overrides os.Stderr for debug output. Tests set it.
	Stderr io.Writer
}

// Init builds the logger, installs it as the global one and returns it.
func Init(cfg Config) (*log.Logger, error) {
	logDir := filepath.Join(cfg.ConfigDir, "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, err
	}

	var writer io.Writer = &lumberjack.Logger{
		Filename:   filepath.Join(logDir, FileName),
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}

	level := log.InfoLevel
	if cfg.Debug {
		level = log.DebugLevel
		stderr := cfg.Stderr
		if stderr == nil {
			stderr = os.Stderr
		}
		writer = io.MultiWriter(stderr, writer)
	}

	global = log.NewWithOptions(writer, log.Options{
		ReportCaller:    cfg.Debug,
		ReportTimestamp: true,
		Level:           level,
		Prefix:          "timebox",
	})
	return global, nil
}

// L returns the global logger. Before Init it discards everything.
func L() *log.Logger { return global }

func Debug(msg string, keyvals ...any) { global.Debug(msg, keyvals...) }

func Info(msg string, keyvals ...any) { global.Info(msg, keyvals...) }

func Warn(msg string, keyvals ...any) { global.Warn(msg, keyvals...) }

func Error(msg string, keyvals ...any) { global.Error(msg, keyvals...) }
