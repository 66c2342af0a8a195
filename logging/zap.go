package logging

import "go.uber.org/zap"

type zapLogger struct {
	sugar *zap.SugaredLogger
}

// NewZapLogger adapts a zap logger to the Printf-style Logger interface. Messages are logged
// at debug level.
func NewZapLogger(l *zap.Logger) Logger {
	if l == nil {
		return NullLogger()
	}
	return zapLogger{sugar: l.WithOptions(zap.AddCallerSkip(1)).Sugar()}
}

func (z zapLogger) Printf(message string, args ...interface{}) {
	z.sugar.Debugf(message, args...)
}
