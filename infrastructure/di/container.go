package di

import (
	"go.uber.org/zap"

	"crossroads-backend/application/ports"
	"crossroads-backend/application/services"
	"crossroads-backend/infrastructure/config"
	"crossroads-backend/pkg/auth"
)

// Container holds all application dependencies
type Container struct {
	Config         *config.Config
	Logger         *zap.Logger
	TreeRepo       ports.TreeRepository
	AdvisorRepo    ports.AdvisorRepository
	Completion     ports.CompletionClient
	Publisher      ports.EventPublisher
	TreeService    *services.TreeService
	AdvisorService *services.AdvisorService
	JWTValidator   *auth.JWTValidator
}
