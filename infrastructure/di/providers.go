package di

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"crossroads-backend/application/ports"
	"crossroads-backend/application/services"
	domainconfig "crossroads-backend/domain/config"
	"crossroads-backend/infrastructure/ai"
	"crossroads-backend/infrastructure/config"
	"crossroads-backend/infrastructure/messaging/eventbridge"
	"crossroads-backend/infrastructure/persistence/dynamodb"
	"crossroads-backend/pkg/auth"
)

// ProvideLogger creates a new logger instance. The level comes from
// LOG_LEVEL; an unparseable value falls back to the preset's default.
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.IsProduction() {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}
	if level, err := zapcore.ParseLevel(cfg.LogLevel); err == nil {
		zapCfg.Level = zap.NewAtomicLevelAt(level)
	}
	return zapCfg.Build()
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideDomainConfig supplies the engine's tunable policy
func ProvideDomainConfig() *domainconfig.DomainConfig {
	return domainconfig.DefaultDomainConfig()
}

// ProvideSamplingConfig maps deployment config onto completion sampling
func ProvideSamplingConfig(cfg *config.Config) ports.SamplingConfig {
	return ports.SamplingConfig{
		MaxTokens:        cfg.MaxTokens,
		Temperature:      float32(cfg.Temperature),
		TopP:             float32(cfg.TopP),
		FrequencyPenalty: float32(cfg.FrequencyPenalty),
		PresencePenalty:  float32(cfg.PresencePenalty),
	}
}

// ProvideTreeRepository creates a tree repository
func ProvideTreeRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.TreeRepository {
	return dynamodb.NewTreeRepository(client, cfg.DynamoDBTable, cfg.IndexName, logger)
}

// ProvideAdvisorRepository creates an advisor repository
func ProvideAdvisorRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.AdvisorRepository {
	return dynamodb.NewAdvisorRepository(client, cfg.DynamoDBTable, logger)
}

// ProvideEventPublisher creates the EventBridge publisher
func ProvideEventPublisher(client *awseventbridge.Client, cfg *config.Config, logger *zap.Logger) ports.EventPublisher {
	return eventbridge.NewPublisher(client, cfg.EventBusName, logger)
}

// ProvideCompletionClient creates the completion client
func ProvideCompletionClient(cfg *config.Config, logger *zap.Logger) ports.CompletionClient {
	return ai.NewOpenAIClient(cfg, logger)
}

// ProvideJWTValidator creates the token validator
func ProvideJWTValidator(cfg *config.Config) (*auth.JWTValidator, error) {
	secret := cfg.JWTSecret
	if secret == "" && !cfg.IsProduction() {
		secret = "development-secret-change-in-production"
	}
	return auth.NewJWTValidator(auth.JWTConfig{
		SecretKey: secret,
		Issuer:    cfg.JWTIssuer,
	})
}

// ProvideTreeService creates the tree service
func ProvideTreeService(
	trees ports.TreeRepository,
	advisors ports.AdvisorRepository,
	completion ports.CompletionClient,
	publisher ports.EventPublisher,
	domainCfg *domainconfig.DomainConfig,
	sampling ports.SamplingConfig,
	logger *zap.Logger,
) *services.TreeService {
	return services.NewTreeService(trees, advisors, completion, publisher, domainCfg, sampling, logger)
}

// ProvideAdvisorService creates the advisor service
func ProvideAdvisorService(advisors ports.AdvisorRepository, logger *zap.Logger) *services.AdvisorService {
	return services.NewAdvisorService(advisors, logger)
}
