package common

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Logger is the global logger instance.
	Logger *zap.Logger
	// LogMode "concise" keeps only request and lifecycle messages.
	LogMode string
)

var levelTags = map[zapcore.Level]string{
	zapcore.DebugLevel: "\033[36mDBG\033[0m",
	zapcore.InfoLevel:  "\033[32mINF\033[0m",
	zapcore.WarnLevel:  "\033[33mWRN\033[0m",
	zapcore.ErrorLevel: "\033[31mERR\033[0m",
	zapcore.FatalLevel: "\033[35mFAT\033[0m",
}

func encoderConfig() zapcore.EncoderConfig {
	cfg := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		MessageKey:     "msg",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeDuration: zapcore.StringDurationEncoder,
	}
	cfg.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.Format("15:04:05.000"))
	}
	cfg.EncodeLevel = func(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
		if tag, ok := levelTags[l]; ok {
			enc.AppendString(tag)
			return
		}
		enc.AppendString(l.String())
	}
	return cfg
}

// InitLogger sets up the global logger writing to stdout and logs/app.log.
func InitLogger(logLevel string) error {
	level, err := zapcore.ParseLevel(logLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}

	// Must run after the .env is loaded.
	LogMode = os.Getenv("LOG_MODE")

	if err := os.MkdirAll("logs", 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	logFile, err := os.OpenFile("logs/app.log", os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig()), zapcore.AddSync(logFile), level),
		zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig()), zapcore.AddSync(os.Stdout), level),
	)

	Logger = zap.New(core,
		zap.AddCallerSkip(1),
		zap.Fields(zap.String("service", "mix-and-munch")),
	)
	zap.ReplaceGlobals(Logger)

	return nil
}

// conciseKept are the messages that survive concise mode.
var conciseKept = map[string]bool{
	"request completed":    true,
	"starting server":      true,
	"server exited":        true,
	"shutting down server": true,
}

// LogInfo logs at info level.
func LogInfo(msg string, fields ...zap.Field) {
	if Logger == nil {
		return
	}
	if LogMode == "concise" && !conciseKept[msg] {
		return
	}
	Logger.Info(msg, fields...)
}

// LogError logs at error level.
func LogError(msg string, fields ...zap.Field) {
	if Logger == nil {
		return
	}
	Logger.Error(msg, fields...)
}

// LogWarn logs at warn level.
func LogWarn(msg string, fields ...zap.Field) {
	if Logger == nil {
		return
	}
	Logger.Warn(msg, fields...)
}

// LogDebug logs at debug level.
func LogDebug(msg string, fields ...zap.Field) {
	if Logger == nil {
		return
	}
	Logger.Debug(msg, fields...)
}

// LogFatal logs at fatal level and exits.
func LogFatal(msg string, fields ...zap.Field) {
	if Logger == nil {
		return
	}
	Logger.Fatal(msg, fields...)
}

// Sync flushes buffered log entries.
func Sync() {
	if Logger != nil {
		_ = Logger.Sync()
	}
}

// LogCacheHit records a cache hit for the given cache type.
func LogCacheHit(cacheType, key string) {
	LogDebug("cache hit", zap.String("type", cacheType), zap.String("key", key))
}

// LogCacheMiss records a cache miss for the given cache type.
func LogCacheMiss(cacheType, key string) {
	LogDebug("cache miss", zap.String("type", cacheType), zap.String("key", key))
}

// LogUpstreamCall records a call to an external recipe source.
func LogUpstreamCall(endpoint string, duration time.Duration, err error, requestID string) {
	if err != nil {
		LogError("upstream request failed",
			zap.String("endpoint", endpoint),
			zap.Error(err),
			zap.Duration("duration", duration),
			zap.String("request_id", requestID),
		)
		return
	}
	LogDebug("upstream request completed",
		zap.String("endpoint", endpoint),
		zap.Duration("duration", duration),
		zap.String("request_id", requestID),
	)
}
