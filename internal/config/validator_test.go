package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const strongKey = "4f8e2a1c9b7d3e6f0a5b8c2d1e4f7a9b"

func setAllRequired(t *testing.T) {
	t.Helper()
	for _, envVar := range RequiredEnvVars() {
		t.Setenv(envVar, "test_value")
	}
	t.Setenv("API_KEY", strongKey)
	t.Setenv("ENV_SCHEMA_VERSION", ExpectedEnvSchemaVersion)
	t.Setenv("STORAGE", "")
}

func TestValidateEnv_SchemaVersion(t *testing.T) {
	t.Setenv("ENV_SCHEMA_VERSION", "")
	os.Unsetenv("ENV_SCHEMA_VERSION")
	_, err := ValidateEnv()
	assert.ErrorContains(t, err, ErrMsgEnvSchemaMissing)

	t.Setenv("ENV_SCHEMA_VERSION", "0.9")
	_, err = ValidateEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgEnvSchemaMismatch)
	assert.Contains(t, err.Error(), "expected 1.0, got 0.9")
}

func TestValidateEnv_Clean(t *testing.T) {
	setAllRequired(t)

	warnings, err := ValidateEnv()
	require.NoError(t, err)
	assert.Empty(t, warnings)
}

func TestValidateEnv_MissingRequired(t *testing.T) {
	setAllRequired(t)
	t.Setenv("ADMIN_JWT_SECRET", "")
	t.Setenv("DB_HOST", "")

	_, err := ValidateEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgMissingEnvVars)
	assert.Contains(t, err.Error(), "DB_HOST, ADMIN_JWT_SECRET")
}

func TestValidateEnv_MemoryStorageSkipsDatabase(t *testing.T) {
	setAllRequired(t)
	t.Setenv("STORAGE", "Memory")
	t.Setenv("DB_HOST", "")
	t.Setenv("DB_PASSWORD", "")

	warnings, err := ValidateEnv()
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "STORAGE=memory")
}

func TestValidateEnv_Warnings(t *testing.T) {
	setAllRequired(t)
	t.Setenv("DB_PASSWORD", "change_this_secure_password")
	t.Setenv("API_KEY", "short")
	t.Setenv("ADMIN_JWT_SECRET", placeholderSecret)

	warnings, err := ValidateEnv()
	require.NoError(t, err)
	require.Len(t, warnings, 3)
	assert.Contains(t, warnings[0], "DB_PASSWORD")
	assert.Contains(t, warnings[1], "API_KEY is shorter than")
	assert.Contains(t, warnings[2], "ADMIN_JWT_SECRET")
}
