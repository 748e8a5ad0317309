package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"essaydesk/internal/controllers"
	"essaydesk/internal/repositories"
	"essaydesk/internal/services"
	"essaydesk/pkg/config"
	"essaydesk/pkg/eventbus"
	"essaydesk/pkg/filestorage"
	"essaydesk/pkg/middleware"
	"essaydesk/pkg/service"
)

type Loggers struct {
	Main    *zap.Logger
	Auth    *zap.Logger
	Order   *zap.Logger
	Catalog *zap.Logger
}

func InitRouter(
	e *echo.Echo,
	dbConn *pgxpool.Pool,
	redisClient *redis.Client,
	jwtSvc service.JWTService,
	bus *eventbus.Bus,
	loggers *Loggers,
	cfg *config.Config,
) {
	loggers.Main.Info("InitRouter: Начало создания маршрутов")

	api := e.Group("/api")
	authMW := middleware.NewAuthMiddleware(jwtSvc, loggers.Auth)
	fileStorage, err := filestorage.NewLocalFileStorage(cfg.Upload.Dir)
	if err != nil {
		loggers.Main.Fatal("не удалось создать файловое хранилище", zap.Error(err))
	}
	txManager := repositories.NewTxManager(dbConn)

	// Репозитории
	orderRepo := repositories.NewOrderRepository(dbConn)
	messageRepo := repositories.NewOrderMessageRepository(dbConn)
	fileRepo := repositories.NewOrderFileRepository(dbConn)
	catalogRepo := repositories.NewCatalogRepository(dbConn)
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)

	// Сервисы
	catalogService := services.NewCatalogService(catalogRepo, cacheRepo, cfg.Catalog.CacheTTL, loggers.Catalog)
	calculator := services.NewPriceCalculator()
	stateMachine := services.NewOrderStateMachine(cfg.Order.RevisionLimit)
	quoteService := services.NewQuoteService(catalogService, calculator)
	orderService := services.NewOrderService(
		orderRepo, messageRepo, fileRepo,
		catalogService, calculator, stateMachine,
		txManager, fileStorage, bus, loggers.Order,
	)
	reportService := services.NewReportService(orderRepo, loggers.Main)

	// Контроллеры
	orderCtrl := controllers.NewOrderController(orderService, loggers.Order)
	pricingCtrl := controllers.NewPricingController(quoteService, loggers.Main)
	catalogCtrl := controllers.NewCatalogController(catalogService, loggers.Catalog)
	reportCtrl := controllers.NewReportController(reportService, loggers.Main)

	// Публичные маршруты конфигуратора: каталог и предварительный расчёт.
	api.GET("/catalog", catalogCtrl.GetCatalog)
	api.POST("/quote", pricingCtrl.Quote)

	secureGroup := api.Group("", authMW.Auth)

	runOrderRouter(secureGroup, orderCtrl, authMW)
	runCatalogRouter(secureGroup, catalogCtrl, authMW)
	runReportRouter(secureGroup, reportCtrl, authMW)

	loggers.Main.Info("InitRouter: Создание маршрутов завершено")
}
