package di

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.uber.org/zap"

	"memoryweb/application/commands"
	"memoryweb/application/commands/bus"
	commandhandlers "memoryweb/application/commands/handlers"
	"memoryweb/application/ports"
	"memoryweb/application/queries"
	querybus "memoryweb/application/queries/bus"
	queryhandlers "memoryweb/application/queries/handlers"
	"memoryweb/application/services"
	domainconfig "memoryweb/domain/config"
	"memoryweb/infrastructure/config"
	"memoryweb/infrastructure/messaging/eventbridge"
	"memoryweb/infrastructure/persistence/dynamodb"
	"memoryweb/pkg/auth"
	"memoryweb/pkg/observability"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideDomainConfig creates the domain tuning parameters
func ProvideDomainConfig() *domainconfig.DomainConfig {
	return domainconfig.DefaultDomainConfig()
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

// ProvideCloudWatchClient creates a CloudWatch client
func ProvideCloudWatchClient(awsCfg aws.Config) *awscloudwatch.Client {
	return awscloudwatch.NewFromConfig(awsCfg)
}

// ProvideMemoryRepository creates the memory repository
func ProvideMemoryRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.MemoryRepository {
	return dynamodb.NewMemoryRepository(client, cfg.DynamoDBTable, logger)
}

// ProvideEdgeRepository creates the edge repository
func ProvideEdgeRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.EdgeRepository {
	return dynamodb.NewEdgeRepository(client, cfg.DynamoDBTable, logger)
}

// ProvideCollectionRepository creates the collection repository
func ProvideCollectionRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.CollectionRepository {
	return dynamodb.NewCollectionRepository(client, cfg.DynamoDBTable, logger)
}

// ProvideEventBus creates the EventBridge-backed event bus
func ProvideEventBus(client *awseventbridge.Client, cfg *config.Config, logger *zap.Logger) ports.EventBus {
	return eventbridge.NewPublisher(client, cfg.EventBusName, logger)
}

// ProvideMetrics creates the metrics publisher. A nil client disables
// emission without touching call sites.
func ProvideMetrics(client *awscloudwatch.Client, cfg *config.Config, logger *zap.Logger) *observability.Metrics {
	if !cfg.EnableMetrics {
		return observability.NewMetrics(nil, "", logger)
	}
	namespace := fmt.Sprintf("Memoryweb/%s", cfg.Environment)
	return observability.NewMetrics(client, namespace, logger)
}

// ProvideTracer creates the X-Ray tracer
func ProvideTracer(cfg *config.Config) *observability.Tracer {
	return observability.NewTracer("memoryweb")
}

// ProvideInMemoryCache creates a simple in-memory cache.
// In production this would be Redis or similar.
func ProvideInMemoryCache() ports.Cache {
	return NewInMemoryCache()
}

// ProvideJWTValidator creates the token validator used by the HTTP layer
func ProvideJWTValidator(cfg *config.Config) (*auth.JWTValidator, error) {
	secret := cfg.JWTSecret
	if secret == "" && cfg.IsDevelopment() {
		secret = "development-secret-change-in-production"
	}
	return auth.NewJWTValidator(auth.JWTConfig{
		SigningMethod: "HS256",
		SecretKey:     secret,
		Issuer:        cfg.JWTIssuer,
	})
}

// ProvideConnectionService creates the connection service
func ProvideConnectionService(
	memoryRepo ports.MemoryRepository,
	edgeRepo ports.EdgeRepository,
	eventBus ports.EventBus,
	cache ports.Cache,
	metrics *observability.Metrics,
	tracer *observability.Tracer,
	logger *zap.Logger,
) *services.ConnectionService {
	return services.NewConnectionService(memoryRepo, edgeRepo, eventBus, cache, metrics, tracer, logger)
}

// ProvideCreateMemoryHandler creates the typed creation orchestrator
func ProvideCreateMemoryHandler(
	memoryRepo ports.MemoryRepository,
	connections *services.ConnectionService,
	eventBus ports.EventBus,
	domainCfg *domainconfig.DomainConfig,
	logger *zap.Logger,
) *commandhandlers.CreateMemoryHandler {
	return commandhandlers.NewCreateMemoryHandler(memoryRepo, connections, eventBus, domainCfg, logger)
}

// ProvideCreateCollectionHandler creates the typed collection orchestrator
func ProvideCreateCollectionHandler(
	collectionRepo ports.CollectionRepository,
	eventBus ports.EventBus,
	logger *zap.Logger,
) *commandhandlers.CreateCollectionHandler {
	return commandhandlers.NewCreateCollectionHandler(collectionRepo, eventBus, logger)
}

// ProvideCommandBus creates a command bus with every handler registered
func ProvideCommandBus(
	memoryRepo ports.MemoryRepository,
	connections *services.ConnectionService,
	eventBus ports.EventBus,
	createMemory *commandhandlers.CreateMemoryHandler,
	createCollection *commandhandlers.CreateCollectionHandler,
	domainCfg *domainconfig.DomainConfig,
	logger *zap.Logger,
) *bus.CommandBus {
	commandBus := bus.NewCommandBus()
	logging := bus.LoggingMiddleware(&zapLoggerAdapter{logger})

	commandBus.Register(commands.CreateMemoryCommand{}, logging(createMemory))
	commandBus.Register(commands.UpdateMemoryCommand{},
		logging(commandhandlers.NewUpdateMemoryHandler(memoryRepo, connections, eventBus, domainCfg, logger)))
	commandBus.Register(commands.DeleteMemoryCommand{},
		logging(commandhandlers.NewDeleteMemoryHandler(memoryRepo, connections, eventBus, logger)))
	commandBus.Register(commands.CreateCollectionCommand{}, logging(createCollection))

	return commandBus
}

// ProvideQueryBus creates a query bus with every handler registered. The
// graph-data query is cached briefly; writes invalidate through the
// connection service.
func ProvideQueryBus(
	memoryRepo ports.MemoryRepository,
	edgeRepo ports.EdgeRepository,
	collectionRepo ports.CollectionRepository,
	cache ports.Cache,
	domainCfg *domainconfig.DomainConfig,
	cfg *config.Config,
	tracer *observability.Tracer,
	logger *zap.Logger,
) *querybus.QueryBus {
	queryBus := querybus.NewQueryBus()
	caching := querybus.NewCachingMiddleware(cache, cfg.GraphCacheTTL)

	queryBus.Register(queries.GetGraphDataQuery{},
		caching.Wrap(queryhandlers.NewGetGraphDataHandler(memoryRepo, edgeRepo, logger)))
	queryBus.Register(queries.ComputeLayoutQuery{},
		queryhandlers.NewComputeLayoutHandler(memoryRepo, edgeRepo, domainCfg, tracer, logger))
	queryBus.Register(queries.GetMemoryQuery{},
		queryhandlers.NewGetMemoryHandler(memoryRepo, logger))
	queryBus.Register(queries.ListCollectionsQuery{},
		queryhandlers.NewListCollectionsHandler(collectionRepo, logger))

	return queryBus
}

// zapLoggerAdapter adapts zap.Logger to the bus Logger interface
type zapLoggerAdapter struct {
	logger *zap.Logger
}

func (a *zapLoggerAdapter) Info(msg string, keysAndValues ...interface{}) {
	a.logger.Info(msg, a.fieldsToZap(keysAndValues...)...)
}

func (a *zapLoggerAdapter) Error(msg string, keysAndValues ...interface{}) {
	a.logger.Error(msg, a.fieldsToZap(keysAndValues...)...)
}

func (a *zapLoggerAdapter) fieldsToZap(keysAndValues ...interface{}) []zap.Field {
	var zapFields []zap.Field
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, _ := keysAndValues[i].(string)
		zapFields = append(zapFields, zap.Any(key, keysAndValues[i+1]))
	}
	return zapFields
}
