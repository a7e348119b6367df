// Package logger содержит общий zap-логгер для server и manage.
//
// Логи пишутся в файл с ротацией (lumberjack). Для разработки можно
// продублировать вывод в stderr.
package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	defaultFile = "http.log"
	timeLayout  = "15:04:05 02.01.2006"
)

// HTTPLogger — zap.Logger с методом для access-лога.
type HTTPLogger struct {
	*zap.Logger
}

// Options — параметры логгера, обычно из секции log конфига.
type Options struct {
	Dir    string // по умолчанию runtime/logs
	File   string // по умолчанию http.log
	Level  string // debug|info|warn|error
	Format string // json|console

	// Stderr дублирует записи в stderr (удобно при локальном запуске).
	Stderr bool
}

// Request — одна запись access-лога.
type Request struct {
	Method    string
	Path      string
	Status    int
	Bytes     int
	Duration  time.Duration
	RequestID string
	UserID    string
}

// NewHTTPLogger создаёт логгер с настройками по умолчанию (runtime/logs/http.log).
func NewHTTPLogger() *HTTPLogger {
	return New(Options{})
}

// New собирает логгер по опциям; пустые поля получают значения по умолчанию.
func New(opts Options) *HTTPLogger {
	if opts.Dir == "" {
		opts.Dir = filepath.Join("runtime", "logs")
	}
	if opts.File == "" {
		opts.File = defaultFile
	}
	_ = os.MkdirAll(opts.Dir, 0o755)

	level := parseLevel(opts.Level)
	encoder := newEncoder(opts.Format)

	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.AddSync(rotating(filepath.Join(opts.Dir, opts.File))), level),
	}
	if opts.Stderr {
		cores = append(cores, zapcore.NewCore(encoder.Clone(), zapcore.Lock(os.Stderr), level))
	}

	return &HTTPLogger{
		Logger: zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddCallerSkip(1)),
	}
}

// LogRequest пишет запись access-лога. Пустые RequestID и UserID опускаются.
func (l *HTTPLogger) LogRequest(req Request) {
	fields := make([]zap.Field, 0, 7)
	fields = append(fields,
		zap.String("method", req.Method),
		zap.String("path", req.Path),
		zap.Int("status", req.Status),
		zap.Int("bytes", req.Bytes),
		zap.Float64("duration_ms", float64(req.Duration.Microseconds())/1000),
	)
	if req.RequestID != "" {
		fields = append(fields, zap.String("request_id", req.RequestID))
	}
	if req.UserID != "" {
		fields = append(fields, zap.String("user_id", req.UserID))
	}

	// 5xx поднимаем до error, чтобы они не терялись при level=warn
	if req.Status >= 500 {
		l.Error("http request", fields...)
		return
	}
	l.Info("http request", fields...)
}

// rotating: 100MB на файл, 10 архивов, 30 дней, архивы сжимаются.
func rotating(path string) io.Writer {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    100,
		MaxBackups: 10,
		MaxAge:     30,
		Compress:   true,
	}
}

func newEncoder(format string) zapcore.Encoder {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "ts"
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout(timeLayout)

	if strings.EqualFold(format, "json") {
		return zapcore.NewJSONEncoder(cfg)
	}
	return zapcore.NewConsoleEncoder(cfg)
}

func parseLevel(level string) zapcore.Level {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "" {
		return zap.InfoLevel
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return zap.InfoLevel
	}
	return lvl
}
