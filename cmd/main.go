package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"seek_immo_v1_202610/internal/controller"
	"seek_immo_v1_202610/internal/leasing"
	"seek_immo_v1_202610/internal/listing"
	"seek_immo_v1_202610/internal/middleware"
	"seek_immo_v1_202610/internal/model"
	"seek_immo_v1_202610/internal/repository"
	"seek_immo_v1_202610/internal/router"
	"seek_immo_v1_202610/internal/service"
	"seek_immo_v1_202610/internal/session"
	"seek_immo_v1_202610/internal/task"
	"seek_immo_v1_202610/pkg/config"
	"seek_immo_v1_202610/pkg/database"
	"seek_immo_v1_202610/pkg/seekapi"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

//go:generate swag init -g cmd/main.go -o docs

// @title Seek Immo API
// @version 1.0
// @description 房源管理、租约管理和向导接口
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. 加载配置
	cfg := config.Load(".env")
	middleware.SetJWTConfig(&middleware.JWTConfig{SecretKey: cfg.JWTSecret, Issuer: cfg.JWTIssuer})
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// 2. 初始化依赖
	deps := initDependencies(cfg)

	// 3. 启动定时任务
	tasks := initTasks(cfg, deps)

	// 4. 初始化路由
	r := gin.Default()
	router.InitRoutes(r, deps.Controllers, router.Options{
		GeocodeDebouncer: deps.Debouncer,
		UploadsDir:       deps.UploadsDir,
	})

	// 5. 启动服务
	startServer(cfg, r)
	tasks.Stop()
}

// ==================== 依赖容器 ====================

// Dependencies 依赖容器
type Dependencies struct {
	DB          *gorm.DB
	Services    *Services
	Controllers *router.Controllers

	// 网关：内嵌模式为本地服务，远程模式为 seekapi.Client
	Listing    listing.ListingGateway
	Lookups    listing.LookupSource
	Biens      leasing.BienReader
	Baux       leasing.BailGateway
	Locataires leasing.LocataireGateway
	Contrats   leasing.ContratGateway

	WizardSessions *controller.WizardStore
	FlowSessions   *controller.FlowStore
	Debouncer      *middleware.Debouncer
	UploadsDir     string
}

// Services 服务集合（远程模式为空）
type Services struct {
	Bien      *service.BienService
	Bail      *service.BailService
	Locataire *service.LocataireService
	Contrat   *service.ContratService
	Lookup    *service.LookupService
	Geocode   *service.GeocodeService
	Rappel    *service.RappelService
}

// ==================== 初始化函数 ====================

// initDatabase 初始化数据库并写入默认参考数据
func initDatabase(cfg *config.Config) *gorm.DB {
	level := logger.Info
	if cfg.IsProduction() {
		level = logger.Warn
	}
	db := database.InitDB(database.Options{
		Driver:   cfg.DBDriver,
		DSN:      cfg.DBDSN,
		LogLevel: level,
	}, model.AllModels()...)

	if err := middleware.RegisterAuditCallbacks(db); err != nil {
		log.Fatalf("[DB] 注册审计回调失败: %v", err)
	}
	return db
}

// initDependencies 初始化所有依赖
func initDependencies(cfg *config.Config) *Dependencies {
	deps := &Dependencies{
		WizardSessions: session.NewStore[*controller.WizardSession](cfg.SessionTTL),
		FlowSessions:   session.NewStore[*controller.FlowSession](cfg.SessionTTL),
		Debouncer:      middleware.NewDebouncer(300 * time.Millisecond),
	}

	if cfg.RemoteMode() {
		initRemote(cfg, deps)
	} else {
		initEmbedded(cfg, deps)
	}

	// -------- 编排层 --------
	cache := listing.NewLookupCache(deps.Lookups, deps.Listing)
	listingOrch := listing.NewOrchestrator(deps.Listing, cache)
	leaseOrch := leasing.NewOrchestrator(deps.Biens, deps.Baux, cache)
	contractFlow := leasing.NewContractFlow(deps.Locataires, deps.Baux, deps.Contrats, cache)

	// -------- Controller 层 --------
	deps.Controllers = initControllers(deps.Services)
	deps.Controllers.Wizard = controller.NewWizardController(listingOrch, deps.WizardSessions)
	deps.Controllers.Lease = controller.NewLeaseController(leaseOrch, contractFlow, deps.FlowSessions)
	return deps
}

// initEmbedded 本地数据库 + 服务，服务直接作为网关
func initEmbedded(cfg *config.Config, deps *Dependencies) {
	db := initDatabase(cfg)
	ctx := context.Background()

	// -------- Repo 层 --------
	uow := repository.NewSeekUnitOfWork(db)
	lookupRepo := repository.NewLookupRepository(db)
	rappelRepo := repository.NewRappelRepository(db)

	// -------- 基础服务 --------
	storage := initStorage(cfg)
	notifier := service.NewWebhookNotifier(cfg.NotifyWebhookURL)

	// -------- 业务服务 --------
	svc := &Services{
		Bien:      service.NewBienService(uow, lookupRepo, storage, notifier),
		Bail:      service.NewBailService(uow),
		Locataire: service.NewLocataireService(uow),
		Contrat:   service.NewContratService(uow, notifier),
		Lookup:    service.NewLookupService(lookupRepo),
		Geocode:   service.NewGeocodeService(cfg.GeocodeURL, cfg.GeocodeCountry),
		Rappel:    service.NewRappelService(uow.Baux, rappelRepo, notifier),
	}

	// 默认参考数据和合同模板
	if err := svc.Lookup.SeedDefaults(ctx); err != nil {
		log.Fatalf("[Init] 初始化参考数据失败: %v", err)
	}
	if err := svc.Contrat.SeedTemplates(ctx); err != nil {
		log.Fatalf("[Init] 初始化合同模板失败: %v", err)
	}

	deps.DB = db
	deps.Services = svc
	deps.Listing = svc.Bien
	deps.Lookups = svc.Lookup
	deps.Biens = svc.Bien
	deps.Baux = svc.Bail
	deps.Locataires = svc.Locataire
	deps.Contrats = svc.Contrat
	if cfg.StorageProvider == "local" {
		deps.UploadsDir = cfg.StorageBasePath
	}
	log.Println("[Init] 内嵌模式：使用本地数据库")
}

// initRemote 只提供向导，数据读写全部转发到远程 Seek API
func initRemote(cfg *config.Config, deps *Dependencies) {
	client := seekapi.New(seekapi.Config{BaseURL: cfg.RemoteURL, Token: cfg.RemoteToken})

	deps.Listing = client
	deps.Lookups = client
	deps.Biens = client
	deps.Baux = client
	deps.Locataires = client
	deps.Contrats = client
	log.Printf("[Init] 远程模式：%s", cfg.RemoteURL)
}

// initStorage 初始化图片存储
func initStorage(cfg *config.Config) service.StorageProvider {
	storage, err := service.NewStorageProvider(&service.StorageConfig{
		Provider:  cfg.StorageProvider,
		Bucket:    cfg.AWSBucket,
		Region:    cfg.AWSRegion,
		AccessKey: cfg.AWSAccessKey,
		SecretKey: cfg.AWSSecretKey,
		CDNDomain: cfg.AWSCDNDomain,
		BasePath:  cfg.StorageBasePath,
		PublicURL: cfg.StoragePublicURL,
	})
	if err != nil {
		log.Fatalf("[Init] 存储服务初始化失败: %v", err)
	}
	return storage
}

// initControllers 初始化数据接口控制器，远程模式下不注册
func initControllers(svc *Services) *router.Controllers {
	if svc == nil {
		return &router.Controllers{}
	}
	return &router.Controllers{
		Bien:   controller.NewBienController(svc.Bien),
		Bail:   controller.NewBailController(svc.Bail, svc.Locataire, svc.Contrat),
		Lookup: controller.NewLookupController(svc.Lookup, svc.Geocode, svc.Rappel),
	}
}

// ==================== 定时任务 ====================

// initTasks 初始化定时任务
func initTasks(cfg *config.Config, deps *Dependencies) *task.TaskManager {
	taskDeps := &task.TaskManagerDeps{
		Sweepers: map[string]task.Sweeper{
			"wizard_sessions":  deps.WizardSessions,
			"lease_flows":      deps.FlowSessions,
			"geocode_debounce": task.SweepFunc(deps.Debouncer.Prune),
		},
	}
	if deps.Services != nil {
		taskDeps.Reminders = deps.Services.Rappel
	}

	taskCfg := task.DefaultConfig()
	taskCfg.ReminderSpec = cfg.ReminderCron

	tm := task.NewTaskManager(taskDeps, taskCfg)
	if err := tm.Start(); err != nil {
		log.Fatalf("无法启动定时任务: %v", err)
	}
	return tm
}

// ==================== 服务启动 ====================

// startServer 启动服务，收到退出信号后优雅关闭
func startServer(cfg *config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// 异步启动服务
	go func() {
		log.Printf("服务启动在 :%s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("服务启动失败: %v", err)
		}
	}()

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("正在关闭服务...")

	// 优雅关闭，最多等待 30 秒
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("服务强制关闭: %v", err)
	}

	log.Println("服务已退出")
}
