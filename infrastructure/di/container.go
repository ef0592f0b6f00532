package di

import (
	"go.uber.org/zap"

	"memoryweb/application/commands/bus"
	commandhandlers "memoryweb/application/commands/handlers"
	"memoryweb/application/ports"
	querybus "memoryweb/application/queries/bus"
	"memoryweb/application/services"
	domainconfig "memoryweb/domain/config"
	"memoryweb/infrastructure/config"
	"memoryweb/pkg/auth"
	"memoryweb/pkg/observability"
)

// Container holds all application dependencies
type Container struct {
	Config       *config.Config
	DomainConfig *domainconfig.DomainConfig
	Logger       *zap.Logger

	MemoryRepo     ports.MemoryRepository
	EdgeRepo       ports.EdgeRepository
	CollectionRepo ports.CollectionRepository
	EventBus       ports.EventBus
	Cache          ports.Cache

	Metrics *observability.Metrics
	Tracer  *observability.Tracer

	JWTValidator *auth.JWTValidator

	ConnectionService       *services.ConnectionService
	CreateMemoryHandler     *commandhandlers.CreateMemoryHandler
	CreateCollectionHandler *commandhandlers.CreateCollectionHandler
	CommandBus              *bus.CommandBus
	QueryBus                *querybus.QueryBus
}
