package container

import (
	"context"
	"fmt"
	"log"
	"time"

	"agency-erp/internal/config"
	infraCache "agency-erp/internal/infrastructure/cache"
	"agency-erp/internal/infrastructure/database"
	"agency-erp/internal/infrastructure/google"
	"agency-erp/internal/infrastructure/slack"
	"agency-erp/internal/infrastructure/storage"
	"agency-erp/internal/infrastructure/youtube"
	"agency-erp/pkg/cache"
	"agency-erp/pkg/jwt"
	"agency-erp/pkg/metrics"

	calendarHandler "agency-erp/internal/domains/calendar/handler"
	calendarRepo "agency-erp/internal/domains/calendar/repository"
	calendarService "agency-erp/internal/domains/calendar/service"
	clientHandler "agency-erp/internal/domains/client/handler"
	clientRepo "agency-erp/internal/domains/client/repository"
	clientService "agency-erp/internal/domains/client/service"
	documentHandler "agency-erp/internal/domains/document/handler"
	documentRepo "agency-erp/internal/domains/document/repository"
	documentService "agency-erp/internal/domains/document/service"
	influencerHandler "agency-erp/internal/domains/influencer/handler"
	influencerRepo "agency-erp/internal/domains/influencer/repository"
	influencerService "agency-erp/internal/domains/influencer/service"
	projectHandler "agency-erp/internal/domains/project/handler"
	projectRepo "agency-erp/internal/domains/project/repository"
	projectService "agency-erp/internal/domains/project/service"
	reportHandler "agency-erp/internal/domains/report/handler"
	reportService "agency-erp/internal/domains/report/service"
	settlementHandler "agency-erp/internal/domains/settlement/handler"
	settlementRepo "agency-erp/internal/domains/settlement/repository"
	settlementService "agency-erp/internal/domains/settlement/service"
	slackbotHandler "agency-erp/internal/domains/slackbot/handler"
	slackbotService "agency-erp/internal/domains/slackbot/service"
	transactionHandler "agency-erp/internal/domains/transaction/handler"
	transactionRepo "agency-erp/internal/domains/transaction/repository"
	transactionService "agency-erp/internal/domains/transaction/service"
	userHandler "agency-erp/internal/domains/user/handler"
	userRepo "agency-erp/internal/domains/user/repository"
	userService "agency-erp/internal/domains/user/service"
	youtubeHandler "agency-erp/internal/domains/youtube/handler"
	youtubeService "agency-erp/internal/domains/youtube/service"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container chứa TẤT CẢ dependencies của application (api + worker dùng chung)
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================
	Config     *config.Config
	DB         *database.PostgresDB
	Cache      cache.Cache
	JWTManager *jwt.Manager
	Metrics    *metrics.Metrics

	// External clients. Storage và Calendar nil khi chưa cấu hình
	Slack    *slack.Client
	Storage  *storage.MinIOStorage
	Calendar *google.CalendarClient
	YouTube  *youtube.Client

	// ========================================
	// REPOSITORY LAYER (DATA ACCESS)
	// ========================================
	UserRepo        userRepo.Repository
	ClientRepo      clientRepo.Repository
	ProjectRepo     projectRepo.Repository
	InfluencerRepo  influencerRepo.Repository
	SettlementRepo  settlementRepo.Repository
	TransactionRepo transactionRepo.Repository
	DocumentRepo    documentRepo.Repository
	CalendarRepo    calendarRepo.Repository

	// ========================================
	// SERVICE LAYER (BUSINESS LOGIC)
	// ========================================
	UserService        userService.ServiceInterface
	ClientService      clientService.ServiceInterface
	ProjectService     projectService.ServiceInterface
	InfluencerService  influencerService.ServiceInterface
	SettlementService  settlementService.ServiceInterface
	TransactionService transactionService.ServiceInterface
	ReportService      reportService.ServiceInterface
	BotService         slackbotService.ServiceInterface
	DocumentService    documentService.ServiceInterface
	CalendarService    calendarService.ServiceInterface
	YoutubeService     youtubeService.ServiceInterface

	// Dedup cho Slack event_id (in-process)
	Dedup *slackbotService.Deduplicator

	// ========================================
	// HANDLER LAYER (HTTP)
	// ========================================
	AuthHandler        *userHandler.AuthHandler
	ClientHandler      *clientHandler.ClientHandler
	ProjectHandler     *projectHandler.ProjectHandler
	InfluencerHandler  *influencerHandler.InfluencerHandler
	SettlementHandler  *settlementHandler.SettlementHandler
	TransactionHandler *transactionHandler.TransactionHandler
	CronHandler        *reportHandler.CronHandler
	EventsHandler      *slackbotHandler.EventsHandler
	DocumentHandler    *documentHandler.DocumentHandler
	CalendarHandler    *calendarHandler.CalendarHandler
	YoutubeHandler     *youtubeHandler.YoutubeHandler
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

// NewContainer tạo và initialize toàn bộ dependency graph
//
// QUAN TRỌNG: Thứ tự initialization:
// 1. Config (không phụ thuộc gì)
// 2. Infrastructure (DB, Cache, external clients) - phụ thuộc Config
// 3. Repositories - phụ thuộc Infrastructure
// 4. Services - phụ thuộc Repositories
// 5. Handlers - phụ thuộc Services
func NewContainer() (*Container, error) {
	log.Println("🔧 Initializing DI Container...")

	c := &Container{}

	// ========================================
	// STEP 1: LOAD CONFIGURATION
	// ========================================
	log.Println("📋 Loading configuration...")

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Printf("✅ Config loaded (Environment: %s)", cfg.App.Environment)

	// ========================================
	// STEP 2: INITIALIZE DATABASE
	// ========================================
	log.Println("🗄️  Connecting to PostgreSQL...")

	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(ctx); err != nil {
		return nil, fmt.Errorf("database health check failed: %w", err)
	}

	c.DB = db
	log.Println("✅ Database connected")

	// ========================================
	// STEP 3: INITIALIZE CACHE
	// ========================================
	log.Println("🔴 Connecting to Redis...")

	redisCache := infraCache.NewRedisCache(
		cfg.Redis.Host,
		cfg.Redis.Password,
		cfg.Redis.DB,
	)

	// Type assertion để gọi Connect method (không có trong interface)
	if rc, ok := redisCache.(*infraCache.RedisCache); ok {
		if err := rc.Connect(ctx); err != nil {
			// Redis failure không critical - cache chỉ là tối ưu
			log.Printf("⚠️  Redis connection failed (non-critical): %v", err)
		} else {
			log.Println("✅ Redis connected")
		}
	}
	c.Cache = redisCache

	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, time.Duration(cfg.JWT.AccessTokenExpiry)*time.Hour)
	c.Metrics = metrics.New()

	// ========================================
	// STEP 4: EXTERNAL CLIENTS
	// ========================================
	c.initClients(ctx)

	// ========================================
	// STEP 5: INITIALIZE REPOSITORIES
	// ========================================
	log.Println("📦 Initializing repositories...")
	c.initRepositories()
	log.Println("✅ Repositories initialized")

	// ========================================
	// STEP 6: INITIALIZE SERVICES
	// ========================================
	log.Println("⚙️  Initializing services...")
	c.initServices()
	log.Println("✅ Services initialized")

	// ========================================
	// STEP 7: INITIALIZE HANDLERS
	// ========================================
	log.Println("🎯 Initializing handlers...")
	c.initHandlers()
	log.Println("✅ Handlers initialized")

	log.Println("🎉 DI Container initialized successfully")
	return c, nil
}

// ========================================
// PRIVATE INITIALIZATION METHODS
// ========================================

// initClients: Slack + YouTube luôn tạo (lỗi cấu hình trả về lúc gọi),
// MinIO và Google Calendar optional
func (c *Container) initClients(ctx context.Context) {
	cfg := c.Config

	c.Slack = slack.NewClient(cfg.Slack.BotToken, cfg.Slack.RequestTimeout)
	if cfg.Slack.BotToken == "" {
		log.Println("⚠️  SLACK_BOT_TOKEN not set, reports will not be delivered")
	}

	c.YouTube = youtube.NewClient(cfg.YouTube.APIKey, cfg.YouTube.BaseURL, cfg.YouTube.RequestTimeout)

	if cfg.MinIO.Endpoint != "" {
		s, err := storage.NewMinIOStorage(ctx, cfg.MinIO)
		if err != nil {
			log.Printf("⚠️  MinIO unavailable (non-critical): %v", err)
		} else {
			c.Storage = s
			log.Println("✅ MinIO connected")
		}
	}

	if cfg.Google.Enabled() {
		cal, err := google.NewCalendarClient(cfg.Google)
		if err != nil {
			log.Printf("⚠️  Google Calendar disabled: %v", err)
		} else {
			c.Calendar = cal
			log.Println("✅ Google Calendar configured")
		}
	}
}

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.UserRepo = userRepo.NewPostgresRepository(pool)
	c.ClientRepo = clientRepo.NewPostgresRepository(pool)
	c.ProjectRepo = projectRepo.NewPostgresRepository(pool)
	c.InfluencerRepo = influencerRepo.NewPostgresRepository(pool)
	c.SettlementRepo = settlementRepo.NewPostgresRepository(pool)
	c.TransactionRepo = transactionRepo.NewPostgresRepository(pool)
	c.DocumentRepo = documentRepo.NewPostgresRepository(pool)
	c.CalendarRepo = calendarRepo.NewPostgresRepository(pool)
}

func (c *Container) initServices() {
	cfg := c.Config
	loc := cfg.Report.Location()

	c.UserService = userService.NewUserService(c.UserRepo, c.JWTManager)
	c.ClientService = clientService.NewClientService(c.ClientRepo)
	c.ProjectService = projectService.NewProjectService(c.ProjectRepo, c.Cache)
	c.InfluencerService = influencerService.NewInfluencerService(c.InfluencerRepo, c.Cache)
	c.SettlementService = settlementService.NewSettlementService(c.SettlementRepo, c.Cache)
	c.TransactionService = transactionService.NewTransactionService(c.TransactionRepo)

	// Report đọc thẳng repository, không qua service layer
	var sink reportService.Sink
	if cfg.Slack.BotToken != "" {
		sink = c.Slack
	}
	c.ReportService = reportService.NewReportService(c.TransactionRepo, c.SettlementRepo, sink, reportService.Options{
		Channel:  cfg.Slack.ReportChannel,
		Location: loc,
		Metrics:  c.Metrics,
	})

	c.BotService = slackbotService.NewBotService(c.TransactionService, c.SettlementService, c.Slack, slackbotService.Options{
		Location: loc,
	})
	c.Dedup = slackbotService.NewDeduplicator(cfg.Slack.DedupTTL, time.Now)

	// Interface nil thật sự, tránh typed-nil pointer
	var files documentService.FileStore
	if c.Storage != nil {
		files = c.Storage
	}
	c.DocumentService = documentService.NewDocumentService(c.DocumentRepo, files, loc)

	var remote calendarService.RemoteCalendar
	if c.Calendar != nil {
		remote = c.Calendar
	}
	c.CalendarService = calendarService.NewCalendarService(c.CalendarRepo, c.ProjectRepo, c.SettlementRepo, remote, loc)

	c.YoutubeService = youtubeService.NewYoutubeService(c.YouTube, c.Cache, c.Metrics, youtubeService.Options{
		CacheTTL:      cfg.YouTube.CacheTTL,
		RatePerSecond: cfg.YouTube.RatePerSecond,
		Burst:         cfg.YouTube.Burst,
	})
}

func (c *Container) initHandlers() {
	loc := c.Config.Report.Location()

	c.AuthHandler = userHandler.NewAuthHandler(c.UserService)
	c.ClientHandler = clientHandler.NewClientHandler(c.ClientService)
	c.ProjectHandler = projectHandler.NewProjectHandler(c.ProjectService)
	c.InfluencerHandler = influencerHandler.NewInfluencerHandler(c.InfluencerService)
	c.SettlementHandler = settlementHandler.NewSettlementHandler(c.SettlementService)
	c.TransactionHandler = transactionHandler.NewTransactionHandler(c.TransactionService)
	c.CronHandler = reportHandler.NewCronHandler(c.ReportService, loc)
	c.EventsHandler = slackbotHandler.NewEventsHandler(c.BotService, c.Dedup, c.Config.Slack.SigningSecret, c.Metrics)
	c.DocumentHandler = documentHandler.NewDocumentHandler(c.DocumentService)
	c.CalendarHandler = calendarHandler.NewCalendarHandler(c.CalendarService, loc)
	c.YoutubeHandler = youtubeHandler.NewYoutubeHandler(c.YoutubeService)
}

// ========================================
// HELPER METHODS
// ========================================

// Cleanup dọn dẹp resources khi shutdown
func (c *Container) Cleanup() {
	log.Println("🧹 Cleaning up container resources...")

	if c.DB != nil && c.DB.Pool != nil {
		c.DB.Pool.Close()
		log.Println("✅ Database connections closed")
	}

	if c.Cache != nil {
		if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
			if err := rc.Close(); err != nil {
				log.Printf("⚠️  Failed to close Redis: %v", err)
			} else {
				log.Println("✅ Redis connections closed")
			}
		}
	}

	log.Println("✅ Container cleanup completed")
}
