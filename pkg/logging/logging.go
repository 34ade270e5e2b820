// Package logging holds the process-wide structured logger.
package logging

import (
	"os"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the global logger. It discards everything until Initialize is
// called, so packages can log unconditionally.
var Logger = zap.NewNop().Sugar()

// Options selects the sink and format.
type Options struct {
	Level string // debug, info, warn or error; empty means info
	JSON  bool
	File  string // append to this file instead of stderr
}

// Initialize replaces Logger according to opts. The returned function flushes
// and closes the sink.
func Initialize(opts Options) (func(), error) {
	level := zap.InfoLevel
	if opts.Level != "" {
		l, err := zapcore.ParseLevel(opts.Level)
		if err != nil {
			return nil, errors.Wrapf(err, "log level %q", opts.Level)
		}
		level = l
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	var enc zapcore.Encoder
	if opts.JSON {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	out := zapcore.Lock(os.Stderr)
	closer := func() error { return nil }
	if opts.File != "" {
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, errors.Wrap(err, "open log file")
		}
		out = zapcore.Lock(f)
		closer = f.Close
	}

	logger := zap.New(zapcore.NewCore(enc, out, level))
	Logger = logger.Sugar()

	return func() {
		_ = logger.Sync()
		_ = closer()
	}, nil
}

// Discard resets Logger to a no-op. Interactive front ends call it when no
// log file is configured, since the terminal belongs to the screen.
func Discard() {
	Logger = zap.NewNop().Sugar()
}
