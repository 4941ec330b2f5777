package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("AWS_LAMBDA_FUNCTION_NAME", "")
	t.Setenv("IS_LAMBDA", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ServerAddress)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "crossroads", cfg.DynamoDBTable)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAIModel)
	assert.False(t, cfg.IsLambda)
	assert.True(t, cfg.EnableCORS)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadConfig_InfersLambdaFromRuntimeEnv(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("AWS_LAMBDA_FUNCTION_NAME", "crossroads-api")
	t.Setenv("IS_LAMBDA", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.IsLambda)
}

func TestLoadConfig_ExplicitLambdaFlagWins(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("AWS_LAMBDA_FUNCTION_NAME", "crossroads-api")
	t.Setenv("IS_LAMBDA", "false")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.False(t, cfg.IsLambda)
}

func TestLoadConfig_RequiresOpenAIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestValidate_ProductionRequirements(t *testing.T) {
	cfg := &Config{
		Environment:   "production",
		OpenAIAPIKey:  "sk-test",
		DynamoDBTable: "crossroads",
		EventBusName:  "crossroads-events",
	}
	assert.Error(t, cfg.Validate(), "production requires a JWT secret")

	cfg.JWTSecret = "secret"
	assert.NoError(t, cfg.Validate())
}
