//
//  Copyright © Stackport Inc. All rights reserved.
//

package logging

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a wrapper around zap.Logger.
//
// Every record carries the module name plus (actor, action) fields so that
// decision-flow logs can be correlated with the request that produced them.
type Logger struct {
	module string
	logger *zap.Logger
	sugar  *zap.SugaredLogger
	level  zapcore.Level
	writer io.Writer // overrides stdout when set (tests, viper debug output)
}

const (
	actor     = "actor"
	action    = "action"
	defActor  = "sys"
	defAction = "unk"
	module    = "module"
)

// buildZap assembles a zap logger for the given sink and level. The encoder
// is selected by the LOG_FORMATTER env var ("text" for console output, JSON
// otherwise) and caller reporting by LOG_REPORT_CALLER.
func buildZap(w io.Writer, level zapcore.Level) *zap.Logger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder

	var encoder zapcore.Encoder
	switch os.Getenv("LOG_FORMATTER") {
	case "text":
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	default:
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(w), level)

	options := []zap.Option{
		zap.AddCallerSkip(1), // skip this wrapper
	}
	if os.Getenv("LOG_REPORT_CALLER") != "" {
		options = append(options, zap.AddCaller())
	}

	return zap.New(core, options...)
}

// internal function to create a logger without tracking. Applications should
// call GetLogger() to retrieve a configured logger.
func newLogger(module string) *Logger {
	logger := buildZap(os.Stdout, zapcore.InfoLevel)

	return &Logger{
		module: module,
		logger: logger,
		sugar:  logger.Sugar(),
		level:  zapcore.InfoLevel,
	}
}

func (l *Logger) rebuild() {
	var output io.Writer = os.Stdout
	if l.writer != nil {
		output = l.writer
	}

	l.logger = buildZap(output, l.level)
	l.sugar = l.logger.Sugar()
}

// IsDebugEnabled returns true if the current logging level is debug or higher.
// Use it as a guard where producing the log arguments is expensive:
//
//	if logger.IsDebugEnabled() {
//	    logger.SysDebugf("snapshot: %s", expensiveRender(snap))
//	}
func (l *Logger) IsDebugEnabled() bool {
	return l.level <= zapcore.DebugLevel
}

// IsTraceEnabled ...
func (l *Logger) IsTraceEnabled() bool {
	return l.level <= zapcore.DebugLevel // zap doesn't have trace, use debug
}

// SetLevel sets the logging level
func (l *Logger) SetLevel(level zapcore.Level) {
	l.level = level
	l.rebuild()
}

// IsLevelEnabled checks if a level is enabled
func (l *Logger) IsLevelEnabled(level zapcore.Level) bool {
	return l.level <= level
}

// Out returns the output writer; used by tests and viper debug output.
func (l *Logger) Out() io.Writer {
	if l.writer != nil {
		return l.writer
	}
	return os.Stdout
}

// SetOut sets the output writer (for tests)
func (l *Logger) SetOut(w io.Writer) {
	l.writer = w
	l.rebuild()
}

func (l *Logger) with(actorID, actionID string) *zap.SugaredLogger {
	return l.sugar.With(
		zap.String(actor, actorID),
		zap.String(action, actionID),
		zap.String(module, l.module),
	)
}

// Fatal logs fatal message
func (l *Logger) Fatal(actorID, actionID string, args ...interface{}) {
	l.with(actorID, actionID).Fatal(args...)
}

// Fatalf logs fatal message
func (l *Logger) Fatalf(actorID, actionID string, format string, args ...interface{}) {
	l.with(actorID, actionID).Fatalf(format, args...)
}

// Panic logs panic message
func (l *Logger) Panic(actorID, actionID string, args ...interface{}) {
	l.with(actorID, actionID).Panic(args...)
}

// Panicf logs panic message
func (l *Logger) Panicf(actorID, actionID string, format string, args ...interface{}) {
	l.with(actorID, actionID).Panicf(format, args...)
}

// Trace logs trace message
func (l *Logger) Trace(actorID, actionID string, args ...interface{}) {
	l.with(actorID, actionID).Debug(args...)
}

// Tracef logs trace message
func (l *Logger) Tracef(actorID, actionID string, format string, args ...interface{}) {
	l.with(actorID, actionID).Debugf(format, args...)
}

// Debug logs debug message
func (l *Logger) Debug(actorID, actionID string, args ...interface{}) {
	l.with(actorID, actionID).Debug(args...)
}

// Debugf logs debug message
func (l *Logger) Debugf(actorID, actionID string, format string, args ...interface{}) {
	l.with(actorID, actionID).Debugf(format, args...)
}

// Info logs info message
func (l *Logger) Info(actorID, actionID string, args ...interface{}) {
	l.with(actorID, actionID).Info(args...)
}

// Infof logs info message
func (l *Logger) Infof(actorID, actionID string, format string, args ...interface{}) {
	l.with(actorID, actionID).Infof(format, args...)
}

// Warn logs warning message
func (l *Logger) Warn(actorID, actionID string, args ...interface{}) {
	l.with(actorID, actionID).Warn(args...)
}

// Warnf logs warning message
func (l *Logger) Warnf(actorID, actionID string, format string, args ...interface{}) {
	l.with(actorID, actionID).Warnf(format, args...)
}

// Error logs error message
func (l *Logger) Error(actorID, actionID string, args ...interface{}) {
	l.with(actorID, actionID).Error(args...)
}

// Errorf logs error message
func (l *Logger) Errorf(actorID, actionID string, format string, args ...interface{}) {
	l.with(actorID, actionID).Errorf(format, args...)
}

// Below are functions using default actor and action

// SysFatal logs fatal message with default actor and action
func (l *Logger) SysFatal(args ...interface{}) {
	l.Fatal(defActor, defAction, args...)
}

// SysFatalf logs fatal message with default actor and action
func (l *Logger) SysFatalf(format string, args ...interface{}) {
	l.Fatalf(defActor, defAction, format, args...)
}

// SysPanic logs panic message with default actor and action
func (l *Logger) SysPanic(args ...interface{}) {
	l.Panic(defActor, defAction, args...)
}

// SysPanicf logs panic message with default actor and action
func (l *Logger) SysPanicf(format string, args ...interface{}) {
	l.Panicf(defActor, defAction, format, args...)
}

// SysTrace logs trace message with default actor and action
func (l *Logger) SysTrace(args ...interface{}) {
	l.Trace(defActor, defAction, args...)
}

// SysTracef logs trace message with default actor and action
func (l *Logger) SysTracef(format string, args ...interface{}) {
	l.Tracef(defActor, defAction, format, args...)
}

// SysDebug logs debug message with default actor and action
func (l *Logger) SysDebug(args ...interface{}) {
	l.Debug(defActor, defAction, args...)
}

// SysDebugf logs debug message with default actor and action
func (l *Logger) SysDebugf(format string, args ...interface{}) {
	l.Debugf(defActor, defAction, format, args...)
}

// SysInfo logs info message with default actor and action
func (l *Logger) SysInfo(args ...interface{}) {
	l.Info(defActor, defAction, args...)
}

// SysInfof logs info message with default actor and action
func (l *Logger) SysInfof(format string, args ...interface{}) {
	l.Infof(defActor, defAction, format, args...)
}

// SysWarn logs warning message with default actor and action
func (l *Logger) SysWarn(args ...interface{}) {
	l.Warn(defActor, defAction, args...)
}

// SysWarnf logs warning message with default actor and action
func (l *Logger) SysWarnf(format string, args ...interface{}) {
	l.Warnf(defActor, defAction, format, args...)
}

// SysError logs error message with default actor and action
func (l *Logger) SysError(args ...interface{}) {
	l.Error(defActor, defAction, args...)
}

// SysErrorf logs error message with default actor and action
func (l *Logger) SysErrorf(format string, args ...interface{}) {
	l.Errorf(defActor, defAction, format, args...)
}
