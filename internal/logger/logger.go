package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// CLILevel is the default level of the command-line tools, which keep
// stdout for the report and only surface problems on stderr.
const CLILevel = "warn"

type settings struct {
	level  string
	output io.Writer
	name   string
}

// Option configures NewLogger.
type Option func(*settings)

// WithLevel overrides the environment's default level: debug, info, warn,
// error. An empty level keeps the default.
func WithLevel(level string) Option {
	return func(s *settings) { s.level = level }
}

// WithOutput sends log entries to w. Default: stderr.
func WithOutput(w io.Writer) Option {
	return func(s *settings) {
		if w != nil {
			s.output = w
		}
	}
}

// WithName names the logger (the "logger" field of each entry).
func WithName(name string) Option {
	return func(s *settings) { s.name = name }
}

// NewLogger creates a zap logger for the given environment.
// prod writes sampled JSON at info, local/dev/docker write console output at
// debug. Entries always go to stderr unless WithOutput says otherwise.
func NewLogger(env string, opts ...Option) (*zap.Logger, error) {
	s := settings{output: os.Stderr}
	for _, opt := range opts {
		opt(&s)
	}

	var (
		encoder  zapcore.Encoder
		level    zapcore.Level
		zapOpts  = []zap.Option{zap.AddStacktrace(zapcore.ErrorLevel)}
		sampling bool
	)
	switch env {
	case "prod":
		encoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
		level = zapcore.InfoLevel
		sampling = true
	case "local", "dev", "docker":
		encCfg := zap.NewDevelopmentEncoderConfig()
		if s.output == os.Stderr {
			encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}
		encoder = zapcore.NewConsoleEncoder(encCfg)
		level = zapcore.DebugLevel
		zapOpts = append(zapOpts, zap.AddCaller(), zap.Development())
	default:
		return nil, fmt.Errorf("unknown environment %q for logger", env)
	}

	if s.level != "" {
		if err := level.UnmarshalText([]byte(s.level)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", s.level, err)
		}
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(zapcore.AddSync(s.output)), zap.NewAtomicLevelAt(level))
	if sampling {
		core = zapcore.NewSamplerWithOptions(core, time.Second, 100, 100)
	}

	l := zap.New(core, zapOpts...)
	if s.name != "" {
		l = l.Named(s.name)
	}
	return l, nil
}
