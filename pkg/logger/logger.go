// Package logger holds the process wide structured logger.
//
// Callers log with a message followed by key/value pairs:
//
//	logger.Info("flushed import batch", "added", 12, "skipped", 3)
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	mu     sync.RWMutex
	global = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()
)

// InitGlobalLogger replaces the global logger according to cfg. Unknown
// targets are ignored; with no usable target the logger writes to stderr.
func InitGlobalLogger(cfg *Config) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	writers := make([]io.Writer, 0, len(cfg.Targets))
	for _, target := range cfg.Targets {
		switch target {
		case "console":
			writers = append(writers, zerolog.ConsoleWriter{
				Out:        os.Stderr,
				TimeFormat: time.RFC3339,
				NoColor:    !cfg.Colorful,
			})
		case "file":
			writers = append(writers, &lumberjack.Logger{
				Filename:   cfg.Filename,
				MaxSize:    cfg.MaxSize,
				MaxBackups: cfg.MaxBackups,
				MaxAge:     cfg.MaxAge,
				Compress:   cfg.Compress,
			})
		}
	}

	if len(writers) == 0 {
		writers = append(writers, os.Stderr)
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	l := zerolog.New(zerolog.MultiLevelWriter(writers...)).Level(level).With().Timestamp().Logger()

	mu.Lock()
	global = l
	mu.Unlock()
}

// SetOutput points the global logger at w. Tests use it to capture output.
func SetOutput(w io.Writer) {
	mu.Lock()
	global = global.Output(w)
	mu.Unlock()
}

func Debug(msg string, keyvals ...any) {
	log(zerolog.DebugLevel, msg, keyvals)
}

func Info(msg string, keyvals ...any) {
	log(zerolog.InfoLevel, msg, keyvals)
}

func Warn(msg string, keyvals ...any) {
	log(zerolog.WarnLevel, msg, keyvals)
}

func Error(msg string, keyvals ...any) {
	log(zerolog.ErrorLevel, msg, keyvals)
}

func log(level zerolog.Level, msg string, keyvals []any) {
	mu.RLock()
	l := global
	mu.RUnlock()

	e := l.WithLevel(level)
	if e == nil {
		return
	}

	for i := 0; i < len(keyvals); i += 2 {
		key := fmt.Sprint(keyvals[i])
		if i+1 >= len(keyvals) {
			e = e.Str(key, "MISSING")

			break
		}

		switch v := keyvals[i+1].(type) {
		case error:
			e = e.AnErr(key, v)
		case fmt.Stringer:
			e = e.Stringer(key, v)
		default:
			e = e.Interface(key, v)
		}
	}

	e.Msg(msg)
}
