package logging

import (
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Logger struct {
	*zap.Logger
	serviceName string
}

type Config struct {
	Level       string
	Format      string // "json" or "console"
	ServiceName string
	Version     string
	Environment string
}

// LogLevel constants for consistent usage
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// Format constants
const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// Field name constants so log aggregation queries stay stable
const (
	FieldService   = "service"
	FieldVersion   = "version"
	FieldEnv       = "environment"
	FieldUserID    = "user_id"
	FieldRequestID = "request_id"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldStatus    = "status"
	FieldDuration  = "duration_ms"
	FieldError     = "error"
	FieldDatabase  = "database"
	FieldOperation = "operation"
	FieldEntity    = "entity"
	FieldKafka     = "kafka_topic"
)

// NewLogger creates a new structured logger instance
func NewLogger(config Config) *Logger {
	var level zapcore.Level
	switch strings.ToLower(config.Level) {
	case LevelDebug:
		level = zapcore.DebugLevel
	case LevelInfo:
		level = zapcore.InfoLevel
	case LevelWarn:
		level = zapcore.WarnLevel
	case LevelError:
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var encoderConfig zapcore.EncoderConfig
	var encoder zapcore.Encoder

	if strings.ToLower(config.Format) == FormatJSON {
		encoderConfig = zap.NewProductionEncoderConfig()
		encoderConfig.TimeKey = "timestamp"
		encoderConfig.LevelKey = "level"
		encoderConfig.MessageKey = "message"
		encoderConfig.EncodeTime = zapcore.RFC3339NanoTimeEncoder
		encoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoderConfig = zap.NewDevelopmentEncoderConfig()
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), level)
	logger := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))

	// Service metadata rides on every log line
	logger = logger.With(
		zap.String(FieldService, config.ServiceName),
		zap.String(FieldVersion, config.Version),
		zap.String(FieldEnv, config.Environment),
	)

	return &Logger{
		Logger:      logger,
		serviceName: config.ServiceName,
	}
}

func NewDefaultLogger(serviceName string) *Logger {
	config := Config{
		Level:       getEnv("LOG_LEVEL", LevelInfo),
		Format:      getEnv("LOG_FORMAT", FormatJSON),
		ServiceName: serviceName,
		Version:     getEnv("SERVICE_VERSION", "unknown"),
		Environment: getEnv("ENVIRONMENT", "development"),
	}

	return NewLogger(config)
}

// WithRequest attaches request identity fields taken from the gin context.
func (l *Logger) WithRequest(c *gin.Context) *zap.Logger {
	if c == nil {
		return l.Logger
	}

	fields := []zap.Field{
		zap.String(FieldRequestID, RequestID(c)),
		zap.String(FieldMethod, c.Request.Method),
		zap.String(FieldPath, c.Request.URL.Path),
	}
	if userID, exists := c.Get("user_id"); exists {
		fields = append(fields, zap.Any(FieldUserID, userID))
	}

	return l.Logger.With(fields...)
}

// WithDatabase creates a logger for database operations
func (l *Logger) WithDatabase(operation string) *zap.Logger {
	return l.Logger.With(
		zap.String(FieldDatabase, "postgres"),
		zap.String(FieldOperation, operation),
	)
}

// WithKafka creates a logger for Kafka operations
func (l *Logger) WithKafka(topic string) *zap.Logger {
	return l.Logger.With(zap.String(FieldKafka, topic))
}

// WithError creates a logger with error information
func (l *Logger) WithError(err error) *zap.Logger {
	return l.Logger.With(zap.String(FieldError, err.Error()))
}

// GinMiddleware logs every HTTP request with method, path, status and duration.
// It also assigns a request id when the caller did not send one.
func (l *Logger) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		if RequestID(c) == "" {
			c.Set("request_id", uuid.NewString())
		}

		c.Next()

		duration := time.Since(start).Milliseconds()

		if raw != "" {
			path = path + "?" + raw
		}

		logger := l.WithRequest(c).With(
			zap.Int(FieldStatus, c.Writer.Status()),
			zap.Int64(FieldDuration, duration),
			zap.String("full_path", path),
		)

		switch {
		case c.Writer.Status() >= 500:
			logger.Error("HTTP request completed with server error")
		case c.Writer.Status() >= 400:
			logger.Warn("HTTP request completed with client error")
		default:
			logger.Info("HTTP request completed successfully")
		}
	}
}

// RequestID returns the request id for the current request, preferring the
// caller-supplied header over the locally generated one.
func RequestID(c *gin.Context) string {
	if requestID := c.GetHeader("X-Request-ID"); requestID != "" {
		return requestID
	}
	if requestID, exists := c.Get("request_id"); exists {
		if s, ok := requestID.(string); ok {
			return s
		}
	}
	return ""
}

// Graceful error logging that doesn't crash the service
func (l *Logger) LogStartupError(component string, err error) {
	l.Logger.Error("Service startup failed",
		zap.String("component", component),
		zap.String(FieldError, err.Error()),
	)
}

// Database connection logging
func (l *Logger) LogDatabaseConnection(url string) {
	l.WithDatabase("connect").Info("Attempting database connection",
		zap.String("url", redactDatabaseURL(url)),
	)
}

func (l *Logger) LogDatabaseSuccess() {
	l.WithDatabase("connect").Info("Database connection established successfully")
}

// Login attempt logging
func (l *Logger) LogUserLogin(email string, success bool) {
	logger := l.Logger.With(
		zap.String(FieldOperation, "user_login"),
		zap.String("email", email),
		zap.Bool("success", success),
	)

	if success {
		logger.Info("User login successful")
	} else {
		logger.Warn("User login failed")
	}
}

// Entity mutation logging shared by the CRUD handlers.
func (l *Logger) LogEntityMutation(entity, operation string, id int64) {
	l.Logger.Info("Entity mutation applied",
		zap.String(FieldEntity, entity),
		zap.String(FieldOperation, operation),
		zap.Int64("id", id),
	)
}

// Kafka operation logging
func (l *Logger) LogKafkaMessage(topic string, key string, success bool) {
	logger := l.WithKafka(topic).With(
		zap.String(FieldOperation, "kafka_publish"),
		zap.String("message_key", key),
		zap.Bool("success", success),
	)

	if success {
		logger.Info("Kafka message published successfully")
	} else {
		logger.Error("Failed to publish Kafka message")
	}
}

// Sync flushes any buffered log entries
func (l *Logger) Sync() error {
	return l.Logger.Sync()
}

// redactDatabaseURL strips the password section from a postgres URL before it
// reaches the logs.
func redactDatabaseURL(url string) string {
	at := strings.LastIndex(url, "@")
	if at == -1 {
		return url
	}
	scheme := strings.Index(url, "://")
	if scheme == -1 {
		return url
	}
	return url[:scheme+3] + "***" + url[at:]
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
