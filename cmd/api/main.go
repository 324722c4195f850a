package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

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
	"github.com/hairun/fleetops/pkg/metrics"
	"github.com/hairun/fleetops/pkg/mq"
	"github.com/hairun/fleetops/pkg/response"
	"github.com/hairun/fleetops/pkg/tracing"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// main 主程序入口
// 说明：手动依赖注入（cmd/api/wire.go提供Wire版本，二者等价）
func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 2. 初始化日志
	zlog, err := logger.New(logger.Options{
		Level:        cfg.Log.Level,
		Format:       cfg.Log.Format,
		Output:       cfg.Log.Output,
		EnableCaller: cfg.Log.EnableCaller,
	})
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer zlog.Sync()

	zlog.Info("配置加载成功",
		zap.Int("port", cfg.Server.Port),
		zap.String("mode", cfg.Server.Mode),
		zap.String("database", fmt.Sprintf("%s:%d/%s", cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)),
		zap.String("redis", cfg.Redis.Addr()),
	)

	// 3. 初始化指标
	metrics.InitMetrics()

	// 初始化追踪(可选:tracing.enabled=false时Span创建为空操作)
	if cfg.Tracing.Enabled {
		shutdownTracer, err := tracing.InitTracer("fleetops-api", cfg.Tracing.Endpoint)
		if err != nil {
			log.Fatalf("初始化追踪失败: %v", err)
		}
		defer shutdownTracer(context.Background())
	}

	// 4. 初始化数据库与Redis
	db, err := mysql.NewDB(cfg)
	if err != nil {
		log.Fatalf("初始化数据库失败: %v", err)
	}

	redisClient, err := redis.NewClient(cfg)
	if err != nil {
		log.Fatalf("初始化Redis失败: %v", err)
	}

	// 5. 依赖注入（手动组装）
	// 依赖链：Repository ← Service ← UseCase ← Handler

	// 基础设施层
	userRepo := mysql.NewUserRepository(db)
	itemRepo := mysql.NewItemRepository(db)
	issuanceRepo := mysql.NewIssuanceRepository(db)
	replacementRepo := mysql.NewReplacementRepository(db)
	warehouseRepo := mysql.NewWarehouseRepository(db)
	warehouseSink := mysql.NewWarehouseSink(db)
	vesselRepo := mysql.NewVesselRepository(db)
	ledgerGw := mysql.NewLedgerGateway(db)
	txManager := mysql.NewTxManager(db)
	sessionStore := redis.NewSessionStore(redisClient)
	jwtManager := jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)

	// 事件发布(可选:mq.enabled=false时降级为不发布)
	var issuancePublisher appissuance.EventPublisher
	var replacementPublisher appreplacement.EventPublisher
	if cfg.MQ.Enabled {
		publisher, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, "topic")
		if err != nil {
			// 事件属于旁路能力,MQ不可用时降级启动而不是拒绝服务
			zlog.Warn("RabbitMQ连接失败,事件发布已降级", zap.Error(err))
		} else {
			defer publisher.Close()
			issuancePublisher = publisher
			replacementPublisher = publisher
		}
	}

	// 仓库暂存写入的熔断器:连续失败5次熔断,60秒后半开试探
	holdingBreaker := circuitbreaker.NewCircuitBreaker("warehouse-holding", circuitbreaker.Config{
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts circuitbreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	holdingBreaker.SetStateChangeCallback(func(name string, from, to circuitbreaker.State) {
		zlog.Warn("熔断器状态变化",
			zap.String("name", name),
			zap.String("from", from.String()),
			zap.String("to", to.String()),
		)
		metrics.SetGaugeVec(metrics.CircuitBreakerState, map[string]string{"name": name}, float64(to))
	})

	// 领域层
	userService := user.NewService(userRepo)
	itemService := inventory.NewService(itemRepo)

	// 应用层
	registerUseCase := appuser.NewRegisterUseCase(userService)
	loginUseCase := appuser.NewLoginUseCase(userService, jwtManager, sessionStore, zlog)
	logoutUseCase := appuser.NewLogoutUseCase(sessionStore)

	createItemUseCase := appinventory.NewCreateItemUseCase(itemService)
	getItemUseCase := appinventory.NewGetItemUseCase(itemService)
	updateItemUseCase := appinventory.NewUpdateItemUseCase(itemService)
	listItemsUseCase := appinventory.NewListItemsUseCase(itemService)
	restockUseCase := appinventory.NewRestockUseCase(itemService)
	listMovementsUseCase := appinventory.NewListMovementsUseCase(itemService)
	deleteItemUseCase := appinventory.NewDeleteItemUseCase(itemService)

	issueUseCase := appissuance.NewIssueUseCase(itemRepo, issuanceRepo, vesselRepo, ledgerGw, txManager, issuancePublisher, zlog)
	reverseUseCase := appissuance.NewReverseUseCase(itemRepo, issuanceRepo, ledgerGw, issuancePublisher, zlog)
	listIssuancesUseCase := appissuance.NewListUseCase(issuanceRepo)

	replaceUseCase := appreplacement.NewReplaceUseCase(
		replacementRepo, itemRepo, warehouseRepo, warehouseSink, vesselRepo, ledgerGw,
		txManager, holdingBreaker, replacementPublisher, zlog,
	)
	returnUseCase := appreplacement.NewReturnUseCase(replacementRepo, itemRepo, ledgerGw, replacementPublisher, zlog)
	listReplacementsUseCase := appreplacement.NewListUseCase(replacementRepo)

	// 接口层
	userHandler := handler.NewUserHandler(registerUseCase, loginUseCase, logoutUseCase)
	itemHandler := handler.NewItemHandler(
		createItemUseCase, getItemUseCase, updateItemUseCase,
		listItemsUseCase, restockUseCase, listMovementsUseCase, deleteItemUseCase,
	)
	issuanceHandler := handler.NewIssuanceHandler(issueUseCase, reverseUseCase, listIssuancesUseCase)
	replacementHandler := handler.NewReplacementHandler(replaceUseCase, returnUseCase, listReplacementsUseCase)
	catalogHandler := handler.NewCatalogHandler(vesselRepo, warehouseRepo)
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, sessionStore)

	// 6. 初始化Gin引擎
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Tracing("fleetops-api"))
	r.Use(middleware.RequestLogger(zlog))
	r.Use(middleware.Metrics())

	// 7. 注册路由
	registerRoutes(r, userHandler, itemHandler, issuanceHandler, replacementHandler, catalogHandler, authMiddleware)

	// 8. 启动服务
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	zlog.Info("服务启动", zap.String("addr", addr))

	if err := r.Run(addr); err != nil {
		log.Fatalf("启动服务失败: %v", err)
	}
}

// registerRoutes 注册路由
func registerRoutes(
	r *gin.Engine,
	userHandler *handler.UserHandler,
	itemHandler *handler.ItemHandler,
	issuanceHandler *handler.IssuanceHandler,
	replacementHandler *handler.ReplacementHandler,
	catalogHandler *handler.CatalogHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	// Prometheus指标
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger文档（生产环境建议禁用或加访问控制）
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API路由组
	v1 := r.Group("/api/v1")
	{
		// 操作员模块（公开接口）
		users := v1.Group("/users")
		{
			users.POST("/register", userHandler.Register)
			users.POST("/login", userHandler.Login)
			users.POST("/logout", authMiddleware.RequireAuth(), userHandler.Logout)
		}

		// 以下业务接口都需要登录
		authorized := v1.Group("")
		authorized.Use(authMiddleware.RequireAuth())
		{
			// 库存物资
			items := authorized.Group("/items")
			{
				items.POST("", itemHandler.CreateItem)
				items.GET("", itemHandler.ListItems)
				items.GET("/:id", itemHandler.GetItem)
				items.PUT("/:id", itemHandler.UpdateItem)
				items.POST("/:id/restock", itemHandler.Restock)
				items.GET("/:id/movements", itemHandler.ListMovements)
				items.DELETE("/:id", itemHandler.DeleteItem)
			}

			// 物资领用
			issuances := authorized.Group("/issuances")
			{
				issuances.POST("", issuanceHandler.Issue)
				issuances.GET("", issuanceHandler.List)
				issuances.POST("/:id/reverse", issuanceHandler.Reverse)
			}

			// 设备更换
			replacements := authorized.Group("/replacements")
			{
				replacements.POST("", replacementHandler.Replace)
				replacements.GET("", replacementHandler.List)
				replacements.POST("/:id/return", replacementHandler.Return)
			}

			// 基础资料(只读)
			authorized.GET("/vessels", catalogHandler.ListVessels)
			authorized.GET("/warehouses", catalogHandler.ListWarehouses)
			authorized.GET("/warehouses/:id/holdings", catalogHandler.ListHoldings)
		}
	}
}
