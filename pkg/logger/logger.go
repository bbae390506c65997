package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	EncodingJSON    = "json"
	EncodingConsole = "console"
)

type Logger struct {
	zl *zap.Logger
}

var globalLogger *Logger

// New builds a zap-backed logger writing to output. Level is one of
// debug, info, warn or error; encoding is json or console.
func New(output io.Writer, level, encoding string) (*Logger, error) {
	if output == nil {
		output = os.Stdout
	}

	zapLevel := zap.NewAtomicLevel()
	if err := zapLevel.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(level)))); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	encoderConfig := zapcore.EncoderConfig{
		MessageKey:     "action",
		LevelKey:       "level",
		TimeKey:        "timestamp",
		CallerKey:      "caller",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	var encoder zapcore.Encoder
	switch encoding {
	case "", EncodingJSON:
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	case EncodingConsole:
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	default:
		return nil, fmt.Errorf("invalid log encoding %q", encoding)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(output), zapLevel)
	return &Logger{zl: zap.New(core, zap.AddCaller(), zap.AddCallerSkip(2))}, nil
}

// Init installs the default JSON logger on stdout at info level.
func Init() {
	l, _ := New(os.Stdout, "info", EncodingJSON)
	globalLogger = l
}

// Configure replaces the package logger. Used once at start-up.
func Configure(level, encoding string) error {
	l, err := New(os.Stdout, level, encoding)
	if err != nil {
		return err
	}
	globalLogger = l
	return nil
}

// Use installs l as the package logger.
func Use(l *Logger) {
	globalLogger = l
}

func Sync() {
	if globalLogger != nil {
		_ = globalLogger.zl.Sync()
	}
}

func (l *Logger) log(level zapcore.Level, action string, userID *string, details map[string]interface{}, err error) {
	fields := make([]zap.Field, 0, 3)
	if userID != nil {
		fields = append(fields, zap.String("user_id", *userID))
	}
	if len(details) > 0 {
		fields = append(fields, zap.Any("details", details))
	}
	if err != nil {
		fields = append(fields, zap.String("error", err.Error()))
	}

	if ce := l.zl.Check(level, action); ce != nil {
		ce.Write(fields...)
	}
}

func Debug(action string, details map[string]interface{}) {
	if globalLogger != nil {
		globalLogger.log(zapcore.DebugLevel, action, nil, details, nil)
	}
}

func Info(action string, details map[string]interface{}) {
	if globalLogger != nil {
		globalLogger.log(zapcore.InfoLevel, action, nil, details, nil)
	}
}

func InfoWithUser(userID string, action string, details map[string]interface{}) {
	if globalLogger != nil {
		globalLogger.log(zapcore.InfoLevel, action, &userID, details, nil)
	}
}

func Warn(action string, details map[string]interface{}) {
	if globalLogger != nil {
		globalLogger.log(zapcore.WarnLevel, action, nil, details, nil)
	}
}

func WarnWithUser(userID string, action string, details map[string]interface{}) {
	if globalLogger != nil {
		globalLogger.log(zapcore.WarnLevel, action, &userID, details, nil)
	}
}

func Error(action string, err error, details map[string]interface{}) {
	if globalLogger != nil {
		globalLogger.log(zapcore.ErrorLevel, action, nil, details, err)
	}
}

func ErrorWithUser(userID string, action string, err error, details map[string]interface{}) {
	if globalLogger != nil {
		globalLogger.log(zapcore.ErrorLevel, action, &userID, details, err)
	}
}

func GetUserIDFromContext(c *fiber.Ctx) *string {
	if userID := c.Locals("userID"); userID != nil {
		if id, ok := userID.(string); ok {
			return &id
		}
	}
	return nil
}

var sensitiveFields = []string{"password", "accessToken", "token", "secret"}

func redactSensitiveFields(jsonMap map[string]interface{}) {
	for _, field := range sensitiveFields {
		if _, exists := jsonMap[field]; exists {
			jsonMap[field] = "[REDACTED]"
		}
	}
}

func GetRequestBodySummary(c *fiber.Ctx) string {
	body := c.Body()
	if len(body) == 0 {
		return "empty"
	}

	if len(body) > 1024 {
		return fmt.Sprintf("large (%d bytes)", len(body))
	}

	var jsonMap map[string]interface{}
	if err := json.Unmarshal(body, &jsonMap); err == nil {
		redactSensitiveFields(jsonMap)
		if jsonBytes, err := json.Marshal(jsonMap); err == nil {
			if len(jsonBytes) > 200 {
				return string(jsonBytes[:200]) + "..."
			}
			return string(jsonBytes)
		}
	}

	return fmt.Sprintf("binary (%d bytes)", len(body))
}

func GetResponseSizeSummary(c *fiber.Ctx) string {
	body := c.Response().Body()
	if len(body) == 0 {
		return "empty"
	}
	if len(body) > 1024 {
		return fmt.Sprintf("large (%d bytes)", len(body))
	}
	return fmt.Sprintf("small (%d bytes)", len(body))
}

func GenerateRequestID() string {
	return uuid.New().String()
}
