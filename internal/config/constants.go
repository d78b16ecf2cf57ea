package config

import "time"

// Configuration file paths
const (
	ConfigPathEngine            = "configs/engine.yaml"
	ConfigPathDemoCatalog       = "configs/demo_catalog.yaml"
	ConfigPathDemoCatalogSchema = "configs/schemas/demo_catalog.schema.json"
)

// Storage backends
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Defaults
const (
	DefaultPort        = "8080"
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "text"
	DefaultEnvironment = "dev"
	DefaultVersion     = "dev"
	DefaultLogDir      = "logs"

	DefaultDBUser     = "postgres"
	DefaultDBPassword = "postgres"
	DefaultDBHost     = "localhost"
	DefaultDBPort     = "5432"
	DefaultDBName     = "casevault"
	DefaultDBMaxConns = 20
	DefaultDBMaxIdle  = 5 * time.Minute
	DefaultDBMaxLife  = 30 * time.Minute

	DefaultJWTIssuer   = "casevault-admin"
	MinJWTSecretLength = 32
)

// Environment validation errors
const (
	ErrMsgEnvSchemaMissing  = "ENV_SCHEMA_VERSION is not set"
	ErrMsgEnvSchemaMismatch = "ENV_SCHEMA_VERSION mismatch"
	ErrMsgMissingEnvVars    = "missing required environment variables"
)
