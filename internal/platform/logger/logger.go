package logger

import (
	"go.uber.org/zap"
)

var base *zap.Logger

// Init builds the process-wide logger. Call once from main before anything
// else logs.
func Init(debug bool) {
	var err error
	if debug {
		base, err = zap.NewDevelopment()
	} else {
		base, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
}

// L returns the process logger, falling back to a no-op logger so tests do
// not have to call Init.
func L() *zap.Logger {
	if base == nil {
		return zap.NewNop()
	}
	return base
}

func Sync() {
	if base != nil {
		_ = base.Sync()
	}
}
