package logger

// Levels accepted in LOG_LEVEL
const (
	LogLevelDebug   = "debug"
	LogLevelInfo    = "info"
	LogLevelWarn    = "warn"
	LogLevelWarning = "warning"
	LogLevelError   = "error"
)

// Formats accepted in LOG_FORMAT
const (
	LogFormatJSON = "json"
	LogFormatText = "text"
)

const DefaultServiceName = "casevault"

// Environments that record source locations
const (
	EnvironmentDev         = "dev"
	EnvironmentDevelopment = "development"
	EnvironmentTest        = "test"
)

// Attribute keys added by this package
const (
	AttrKeyService     = "service"
	AttrKeyVersion     = "version"
	AttrKeyEnvironment = "environment"
	AttrKeyRequestID   = "request_id"
	AttrKeyActor       = "actor"
)

// RedactedValue replaces the value of any sensitive attribute
const RedactedValue = "[REDACTED]"

// sensitiveKeys are compared after lowercasing and mapping '-' to '_', so header names match too
var sensitiveKeys = map[string]bool{
	"authorization":    true,
	"x_api_key":        true,
	"api_key":          true,
	"token":            true,
	"secret":           true,
	"password":         true,
	"db_password":      true,
	"admin_jwt_secret": true,
}
