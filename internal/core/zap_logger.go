package core

import "go.uber.org/zap"

// zapLogger adapts a zap sugared logger to the service Logger interface.
type zapLogger struct {
	s *zap.SugaredLogger
}

// NewZapLogger wraps a zap logger for use as the service logger.
func NewZapLogger(l *zap.Logger) Logger {
	if l == nil {
		l = zap.NewNop()
	}
	return zapLogger{s: l.Sugar()}
}

func (z zapLogger) Debug(msg string, kv ...any) { z.s.Debugw(msg, kv...) }
func (z zapLogger) Info(msg string, kv ...any)  { z.s.Infow(msg, kv...) }
func (z zapLogger) Warn(msg string, kv ...any)  { z.s.Warnw(msg, kv...) }
func (z zapLogger) Error(msg string, kv ...any) { z.s.Errorw(msg, kv...) }

var _ Logger = zapLogger{}
