// internal/app/server.go
package app

import (
	"context"
	"fmt"
	"log"

	"callcenter-service/internal/analyzer"
	"callcenter-service/internal/config"
	"callcenter-service/internal/db"
	"callcenter-service/internal/dialer"
	"callcenter-service/internal/events"
	agentHandler "callcenter-service/internal/handlers/agent"
	callHandler "callcenter-service/internal/handlers/call"
	customerHandler "callcenter-service/internal/handlers/customer"
	inquiryHandler "callcenter-service/internal/handlers/inquiry"
	"callcenter-service/internal/middleware"
	"callcenter-service/internal/repository/postgres"
	agentsvc "callcenter-service/internal/service/agent"
	callsvc "callcenter-service/internal/service/call"
	customersvc "callcenter-service/internal/service/customer"
	inquirysvc "callcenter-service/internal/service/inquiry"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type Server struct {
	cfg    config.AppConfig
	engine *gin.Engine
	logger *zap.Logger
	pool   *pgxpool.Pool
}

func NewServer() *Server {
	cfg := config.Load()
	engine := gin.Default()
	return &Server{cfg: cfg, engine: engine}
}

func (s *Server) Start() error {
	ctx := context.Background()

	// ----- PostgreSQL -----
	pool, err := db.ConnectDB(ctx, s.cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	s.pool = pool

	// ----- Redis -----
	redisClient, err := db.NewRedisClient(db.RedisConfig{
		Addr:     s.cfg.RedisAddr,
		Password: s.cfg.RedisPass,
		PoolSize: 10,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	log.Println("[REDIS] connected")

	// ----- Logger -----
	logger, _ := zap.NewProduction()
	defer logger.Sync()
	s.logger = logger

	// ----- Analyzer -----
	var az analyzer.Analyzer
	switch s.cfg.AnalyzerProvider {
	case "openai":
		az, err = analyzer.NewOpenAIAnalyzer(s.cfg.Analyzer)
		if err != nil {
			return fmt.Errorf("failed to build analyzer: %w", err)
		}
	default:
		az = analyzer.NewFixtureAnalyzer()
		logger.Warn("using fixture analyzer", zap.String("provider", s.cfg.AnalyzerProvider))
	}

	// ----- Outbound dialer (optional) -----
	var dialClient *dialer.Client
	if s.cfg.Dialer.URL != "" {
		dialClient, err = dialer.NewClient(s.cfg.Dialer)
		if err != nil {
			return fmt.Errorf("failed to build dialer client: %w", err)
		}
	} else {
		logger.Warn("dialer not configured, outbound calls disabled")
	}

	// ----- Repositories -----
	dbWrapper := postgres.NewDB(pool)
	agentRepo := postgres.NewAgentRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	callRepo := postgres.NewCallRepository(pool, dbWrapper)
	inquiryRepo := postgres.NewInquiryRepository(pool)

	// ----- Event bus -----
	publisher := events.NewPublisher(redisClient)

	// ----- Services -----
	customerService := customersvc.NewCustomerService(customerRepo, logger)
	agentService := agentsvc.NewAgentService(agentRepo, callRepo, logger)
	callService := callsvc.NewCallService(callRepo, customerRepo, agentRepo, az, publisher, logger)

	var dialNotifier inquirysvc.DialNotifier
	if dialClient != nil {
		dialNotifier = dialClient
	}
	inquiryService := inquirysvc.NewInquiryService(
		inquiryRepo,
		customerService,
		agentService,
		callService,
		dialNotifier,
		publisher,
		logger,
	)

	// ----- Handlers -----
	agentHandlerInst := agentHandler.NewAgentHandler(agentService)
	customerHandlerInst := customerHandler.NewCustomerHandler(customerService)
	callHandlerInst := callHandler.NewCallHandler(callService)
	inquiryHandlerInst := inquiryHandler.NewInquiryHandler(inquiryService)

	// ----- Middlewares -----
	s.engine.Use(
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger),
		middleware.CORSMiddleware(),
	)

	// ----- Router -----
	handlers := &Handlers{
		AgentHandler:    agentHandlerInst,
		CustomerHandler: customerHandlerInst,
		CallHandler:     callHandlerInst,
		InquiryHandler:  inquiryHandlerInst,
	}
	SetupRouter(s.engine, handlers)

	// ----- Start HTTP -----
	log.Printf("server running on %s", s.cfg.HTTPAddr)
	return s.engine.Run(s.cfg.HTTPAddr)
}

// Shutdown releases held resources.
func (s *Server) Shutdown(ctx context.Context) {
	if s.pool != nil {
		s.pool.Close()
	}
}
