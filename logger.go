package periodq

import (
	"fmt"

	"go.uber.org/zap"
)

type LogLevel int

const (
	LogLevelDev LogLevel = iota
	LogLevelProd
)

type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// The package is silent by default; queries are values, not events. Callers
// that want to see builds and executions opt in.
var logger Logger = noopLogger{}

// SetLogger replaces the package logger. Passing nil silences it again.
func SetLogger(l Logger) {
	if l == nil {
		logger = noopLogger{}
		return
	}
	logger = l
}

// EnableLogging switches the package logger to a zap-backed one.
func EnableLogging(env LogLevel) error {
	l, err := newZapLogger(env)
	if err != nil {
		return err
	}
	logger = l
	return nil
}

type noopLogger struct{}

func (noopLogger) Debugf(string, ...any) {}
func (noopLogger) Infof(string, ...any)  {}
func (noopLogger) Warnf(string, ...any)  {}
func (noopLogger) Errorf(string, ...any) {}

type zapLogger struct {
	l *zap.SugaredLogger
}

func newZapLogger(env LogLevel) (*zapLogger, error) {
	if env == LogLevelDev {
		l, err := zap.NewDevelopmentConfig().Build()
		if err != nil {
			return nil, err
		}
		return &zapLogger{l.Sugar()}, nil
	} else if env == LogLevelProd {
		l, err := zap.NewProductionConfig().Build()
		if err != nil {
			return nil, err
		}
		return &zapLogger{l.Sugar()}, nil
	} else {
		return nil, fmt.Errorf("log level should be either LogLevelDev or LogLevelProd")
	}
}

func (z *zapLogger) Debugf(format string, args ...any) {
	z.l.Debugf(format, args...)
}

func (z *zapLogger) Infof(format string, args ...any) {
	z.l.Infof(format, args...)
}

func (z *zapLogger) Warnf(format string, args ...any) {
	z.l.Warnf(format, args...)
}

func (z *zapLogger) Errorf(format string, args ...any) {
	z.l.Errorf(format, args...)
}
