package config

import (
	"fmt"
	"os"
	"strings"
)

// ExpectedEnvSchemaVersion is the .env layout this build reads
const ExpectedEnvSchemaVersion = "1.0"

// placeholderSecret is the value shipped in .env.example for generated credentials
const placeholderSecret = "generate_with_openssl_rand_hex_32"

// MinAPIKeyLength is the shortest draw-client key accepted without a warning
const MinAPIKeyLength = 24

type envRule struct {
	name string
	// databaseOnly vars are skipped when STORAGE=memory
	databaseOnly bool
	placeholder  string
	warnBelow    int
}

var envRules = []envRule{
	{name: "DB_USER", databaseOnly: true},
	{name: "DB_PASSWORD", databaseOnly: true, placeholder: "change_this_secure_password"},
	{name: "DB_HOST", databaseOnly: true},
	{name: "DB_PORT", databaseOnly: true},
	{name: "DB_NAME", databaseOnly: true},
	{name: "API_KEY", placeholder: placeholderSecret, warnBelow: MinAPIKeyLength},
	{name: "ADMIN_JWT_SECRET", placeholder: placeholderSecret},
}

// RequiredEnvVars lists every variable some storage backend requires
func RequiredEnvVars() []string {
	names := make([]string, len(envRules))
	for i, r := range envRules {
		names[i] = r.name
	}
	return names
}

// ValidateEnv checks the environment before configuration is loaded. Missing variables and a
// schema mismatch are errors; example credentials, short keys and in-memory storage are
// returned as warnings for the caller to log.
func ValidateEnv() ([]string, error) {
	schemaVersion := os.Getenv("ENV_SCHEMA_VERSION")
	if schemaVersion == "" {
		return nil, fmt.Errorf("%s (expected: %s)", ErrMsgEnvSchemaMissing, ExpectedEnvSchemaVersion)
	}
	if schemaVersion != ExpectedEnvSchemaVersion {
		return nil, fmt.Errorf("%s: expected %s, got %s", ErrMsgEnvSchemaMismatch, ExpectedEnvSchemaVersion, schemaVersion)
	}

	memory := strings.EqualFold(os.Getenv("STORAGE"), StorageMemory)
	var missing, warnings []string
	for _, r := range envRules {
		if memory && r.databaseOnly {
			continue
		}
		v := os.Getenv(r.name)
		switch {
		case v == "":
			missing = append(missing, r.name)
		case r.placeholder != "" && v == r.placeholder:
			warnings = append(warnings, fmt.Sprintf("%s still holds the example value", r.name))
		case r.warnBelow > 0 && len(v) < r.warnBelow:
			warnings = append(warnings, fmt.Sprintf("%s is shorter than %d characters", r.name, r.warnBelow))
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%s: %s", ErrMsgMissingEnvVars, strings.Join(missing, ", "))
	}

	if memory {
		warnings = append(warnings, "STORAGE=memory keeps all ledger state in process memory")
	}
	return warnings, nil
}
