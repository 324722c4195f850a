//go:build wireinject
// +build wireinject

// Wire依赖注入配置
//
// 使用方式：
// Step 1: 修改本文件的Provider或依赖关系
// Step 2: 运行 `wire gen ./cmd/api`
// Step 3: Wire生成wire_gen.go，包含完整的依赖创建代码
//
// 与main.go中的手动注入等价，编译期生成、类型安全、可检测循环依赖。

package main

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appinventory "github.com/hairun/fleetops/internal/application/inventory"
	appissuance "github.com/hairun/fleetops/internal/application/issuance"
	appreplacement "github.com/hairun/fleetops/internal/application/replacement"
	appuser "github.com/hairun/fleetops/internal/application/user"
	"github.com/hairun/fleetops/internal/domain/inventory"
	"github.com/hairun/fleetops/internal/domain/user"
	"github.com/hairun/fleetops/internal/infrastructure/config"
	"github.com/hairun/fleetops/internal/infrastructure/persistence/mysql"
	"github.com/hairun/fleetops/internal/infrastructure/persistence/redis"
	"github.com/hairun/fleetops/internal/interface/http/handler"
	"github.com/hairun/fleetops/internal/interface/http/middleware"
	"github.com/hairun/fleetops/pkg/circuitbreaker"
	"github.com/hairun/fleetops/pkg/jwt"
	"github.com/hairun/fleetops/pkg/logger"
	"github.com/hairun/fleetops/pkg/mq"
)

// infrastructureSet 基础设施层依赖
var infrastructureSet = wire.NewSet(
	config.Load,
	provideLogger,
	mysql.NewDB,
	redis.NewClient,
)

// repositorySet 仓储层依赖
var repositorySet = wire.NewSet(
	mysql.NewUserRepository,
	mysql.NewItemRepository,
	mysql.NewIssuanceRepository,
	mysql.NewReplacementRepository,
	mysql.NewWarehouseRepository,
	mysql.NewWarehouseSink,
	mysql.NewVesselRepository,
	mysql.NewLedgerGateway,
	mysql.NewTxManager,
)

// domainSet 领域层依赖
var domainSet = wire.NewSet(
	user.NewService,
	inventory.NewService,
)

// applicationSet 应用层依赖
var applicationSet = wire.NewSet(
	appuser.NewRegisterUseCase,
	appuser.NewLoginUseCase,
	appuser.NewLogoutUseCase,
	appinventory.NewCreateItemUseCase,
	appinventory.NewGetItemUseCase,
	appinventory.NewUpdateItemUseCase,
	appinventory.NewListItemsUseCase,
	appinventory.NewRestockUseCase,
	appinventory.NewListMovementsUseCase,
	appinventory.NewDeleteItemUseCase,
	appissuance.NewIssueUseCase,
	appissuance.NewReverseUseCase,
	appissuance.NewListUseCase,
	appreplacement.NewReplaceUseCase,
	appreplacement.NewReturnUseCase,
	appreplacement.NewListUseCase,
)

// middlewareSet 中间件与横切依赖
var middlewareSet = wire.NewSet(
	provideJWTManager,
	provideSessionStore,
	provideIssuancePublisher,
	provideReplacementPublisher,
	provideTransactor,
	provideIssuanceTransactor,
	provideHoldingBreaker,
	middleware.NewAuthMiddleware,
)

// handlerSet HTTP处理器依赖
var handlerSet = wire.NewSet(
	handler.NewUserHandler,
	handler.NewItemHandler,
	handler.NewIssuanceHandler,
	handler.NewReplacementHandler,
	handler.NewCatalogHandler,
)

// provideLogger 从配置创建zap日志器
func provideLogger(cfg *config.Config) (*zap.Logger, error) {
	return logger.New(logger.Options{
		Level:        cfg.Log.Level,
		Format:       cfg.Log.Format,
		Output:       cfg.Log.Output,
		EnableCaller: cfg.Log.EnableCaller,
	})
}

// provideJWTManager 从配置创建JWT管理器
func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)
}

// provideSessionStore 从Redis客户端创建会话存储
func provideSessionStore(client *goredis.Client) *redis.SessionStore {
	return redis.NewSessionStore(client)
}

// provideIssuancePublisher 创建领用事件发布器
// mq.enabled=false或连接失败时返回nil,用例内部对nil发布器降级为不发布
func provideIssuancePublisher(cfg *config.Config, log *zap.Logger) appissuance.EventPublisher {
	if !cfg.MQ.Enabled {
		return nil
	}
	publisher, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, "topic")
	if err != nil {
		log.Warn("RabbitMQ连接失败,事件发布已降级", zap.Error(err))
		return nil
	}
	return publisher
}

// provideReplacementPublisher 创建更换事件发布器
func provideReplacementPublisher(cfg *config.Config, log *zap.Logger) appreplacement.EventPublisher {
	if !cfg.MQ.Enabled {
		return nil
	}
	publisher, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, "topic")
	if err != nil {
		log.Warn("RabbitMQ连接失败,事件发布已降级", zap.Error(err))
		return nil
	}
	return publisher
}

// provideTransactor 事务管理器绑定到应用层接口
func provideTransactor(txManager *mysql.TxManager) appreplacement.Transactor {
	return txManager
}

// provideIssuanceTransactor 领用用例的事务接口绑定
func provideIssuanceTransactor(txManager *mysql.TxManager) appissuance.Transactor {
	return txManager
}

// provideHoldingBreaker 仓库暂存写入的熔断器
func provideHoldingBreaker(log *zap.Logger) *circuitbreaker.CircuitBreaker {
	breaker := circuitbreaker.NewCircuitBreaker("warehouse-holding", circuitbreaker.Config{
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts circuitbreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	breaker.SetStateChangeCallback(func(name string, from, to circuitbreaker.State) {
		log.Warn("熔断器状态变化",
			zap.String("name", name),
			zap.String("from", from.String()),
			zap.String("to", to.String()),
		)
	})
	return breaker
}

// provideGinEngine 创建并配置Gin引擎
func provideGinEngine(
	cfg *config.Config,
	log *zap.Logger,
	userHandler *handler.UserHandler,
	itemHandler *handler.ItemHandler,
	issuanceHandler *handler.IssuanceHandler,
	replacementHandler *handler.ReplacementHandler,
	catalogHandler *handler.CatalogHandler,
	authMiddleware *middleware.AuthMiddleware,
) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Metrics())

	registerRoutes(r, userHandler, itemHandler, issuanceHandler, replacementHandler, catalogHandler, authMiddleware)

	return r
}

// InitializeApp 初始化整个应用
// Wire会分析依赖链并在wire_gen.go中生成初始化代码
func InitializeApp() (*gin.Engine, error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		applicationSet,
		middlewareSet,
		handlerSet,
		provideGinEngine,
	)
	return nil, nil
}
