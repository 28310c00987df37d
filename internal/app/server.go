// internal/app/server.go
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"ptieasy-service/internal/config"
	"ptieasy-service/internal/db"
	"ptieasy-service/internal/domain/inspection"
	authHandler "ptieasy-service/internal/handlers/auth"
	driverHandler "ptieasy-service/internal/handlers/driver"
	employeeHandler "ptieasy-service/internal/handlers/employee"
	inspectionHandler "ptieasy-service/internal/handlers/inspection"
	navigationHandler "ptieasy-service/internal/handlers/navigation"
	notifyH "ptieasy-service/internal/handlers/notification"
	statisticsHandler "ptieasy-service/internal/handlers/statistics"
	vehicleHandler "ptieasy-service/internal/handlers/vehicle"
	wsHandler "ptieasy-service/internal/handlers/websocket"
	"ptieasy-service/internal/middleware"
	"ptieasy-service/internal/pkg/jwt"
	"ptieasy-service/internal/pkg/session"
	"ptieasy-service/internal/repository/memory"
	authUsecase "ptieasy-service/internal/service/auth"
	employeeUsecase "ptieasy-service/internal/service/employee"
	inspectionUsecase "ptieasy-service/internal/service/inspection"
	notifyUsecase "ptieasy-service/internal/service/notification"
	statisticsUsecase "ptieasy-service/internal/service/statistics"
	vehicleUsecase "ptieasy-service/internal/service/vehicle"
	"ptieasy-service/internal/websocket"
	wsHandlers "ptieasy-service/internal/websocket/handler"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	cfg    config.AppConfig
	engine *gin.Engine
	logger *zap.Logger

	hub         *websocket.Hub
	simulator   *notifyUsecase.Simulator
	overdue     *notifyUsecase.OverdueMonitor
	redisClient *redis.Client
}

// NewServer wires repositories, services and handlers. Nothing runs until Run.
func NewServer(ctx context.Context, cfg config.AppConfig, logger *zap.Logger) (*Server, error) {
	s := &Server{
		cfg:    cfg,
		engine: gin.New(), // recovery and request logging come from our middleware
		logger: logger,
	}

	// ----- Session store -----
	var store session.Store
	if cfg.RedisAddr != "" {
		redisClient, err := db.NewRedisClient(ctx, db.RedisConfig{
			Address:  cfg.RedisAddr,
			Password: cfg.RedisPass,
			PoolSize: 10,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		logger.Info("redis connected", zap.String("addr", cfg.RedisAddr))
		s.redisClient = redisClient
		store = session.NewRedisStore(redisClient)
	} else {
		logger.Warn("REDIS_ADDR not set, sessions are kept in memory")
		store = session.NewMemoryStore()
	}

	// ----- JWT Manager -----
	jwtManager, err := jwt.LoadAndBuild(cfg.JWT)
	if err != nil {
		return nil, fmt.Errorf("failed to load JWT manager: %w", err)
	}
	if jwtManager.Ephemeral {
		logger.Warn("JWT key pair not found, using an in-memory key; tokens will not survive a restart",
			zap.String("private_key_path", cfg.JWT.PrivPath),
		)
	}

	// ----- Session Manager & Rate Limiter -----
	sessionManager := session.NewManager(store)
	rateLimiter := session.NewRateLimiter(store)

	// ----- Repositories -----
	accountRepo := memory.NewAccountRepository()
	employeeRepo := memory.NewEmployeeRepository()
	vehicleRepo := memory.NewVehicleRepository()
	inspectionRepo := memory.NewInspectionRepository()

	// ----- Services (Usecases) -----
	authService := authUsecase.NewAuthService(
		accountRepo,
		jwtManager,
		sessionManager,
		rateLimiter,
		nil,
		logger,
	)

	// ----- WebSocket Hub -----
	hub := websocket.NewHub(authService, logger)
	authService.SetNotifier(hub)
	s.hub = hub

	notifService := notifyUsecase.NewNotificationService(cfg.Notifications.Capacity, hub, logger)
	hub.RegisterHandler(wsHandlers.NewNotificationHandler(notifService))

	employeeService := employeeUsecase.NewEmployeeService(employeeRepo, logger)
	vehicleService := vehicleUsecase.NewVehicleService(vehicleRepo, notifService, logger)
	inspectionService := inspectionUsecase.NewInspectionService(
		inspectionRepo,
		vehicleService,
		notifService,
		inspectionUsecase.Options{
			Checklist:           cfg.Inspection.Checklist,
			RequireIssueComment: cfg.Inspection.RequireIssueComment,
			AbandonPolicy:       cfg.Inspection.AbandonPolicy,
		},
		logger,
	)
	statisticsService := statisticsUsecase.NewStatisticsService(inspectionRepo, employeeService, vehicleService, logger)

	s.simulator = notifyUsecase.NewSimulator(
		notifService,
		cfg.Notifications.SimulationInterval,
		cfg.Notifications.SimulationChance,
		logger,
	)
	s.overdue = notifyUsecase.NewOverdueMonitor(inspectionRepo, notifService, cfg.Notifications.OverdueScanInterval, logger)

	// ----- Accounts & demo data -----
	if err := authService.EnsureAccounts(ctx, accountSeeds(cfg.Accounts)); err != nil {
		return nil, fmt.Errorf("failed to create accounts: %w", err)
	}

	if cfg.SeedData {
		if err := s.seed(ctx, memory.Fleet{
			Employees: employeeRepo,
			Vehicles:  vehicleRepo,
			Sessions:  inspectionRepo,
		}, notifService); err != nil {
			return nil, err
		}
	}

	// ----- Handlers -----
	handlers := &Handlers{
		AuthHandler:       authHandler.NewAuthHandler(authService, logger),
		NotifHandler:      notifyH.NewNotificationHandler(notifService),
		EmployeeHandler:   employeeHandler.NewEmployeeHandler(employeeService),
		VehicleHandler:    vehicleHandler.NewVehicleHandler(vehicleService),
		SessionHandler:    inspectionHandler.NewSessionHandler(inspectionService, logger),
		DriverHandler:     driverHandler.NewDriverHandler(inspectionService, logger),
		StatisticsHandler: statisticsHandler.NewStatisticsHandler(statisticsService, logger),
		NavigationHandler: navigationHandler.NewNavigationHandler(),
		WSHandler:         wsHandler.NewWebSocketHandler(hub, cfg.CORSAllowedOrigins, logger),
		AuthMiddleware:    middleware.NewAuthMiddleware(authService),
	}

	// ----- Middlewares -----
	s.engine.Use(
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger),
		middleware.CORSMiddleware(cfg.CORSAllowedOrigins),
	)

	// ----- Router -----
	SetupRouter(s.engine, logger, handlers)

	return s, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves HTTP and the background loops until ctx is cancelled or one of
// them fails.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.HTTPAddr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error { return s.hub.Run(gctx) })
	g.Go(func() error { return s.simulator.Run(gctx) })
	g.Go(func() error { return s.overdue.Run(gctx) })

	g.Go(func() error {
		s.logger.Info("server running", zap.String("addr", s.cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		s.logger.Info("server stopped")
		return nil
	})

	err := g.Wait()

	if s.redisClient != nil {
		if cerr := s.redisClient.Close(); cerr != nil {
			s.logger.Warn("failed to close redis client", zap.Error(cerr))
		}
	}

	return err
}

// seed loads the demo fleet and the starting feed. Sessions that are already
// overdue are covered by the seeded feed and are not announced again.
func (s *Server) seed(ctx context.Context, fleet memory.Fleet, notifService *notifyUsecase.NotificationService) error {
	now := time.Now()

	if err := memory.SeedFleet(ctx, fleet, s.cfg.Inspection.Checklist, now); err != nil {
		return fmt.Errorf("failed to seed fleet: %w", err)
	}
	notifService.Seed(now)

	sessions, err := fleet.Sessions.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list seeded sessions: %w", err)
	}
	for i := range sessions {
		if inspection.DeriveStatus(&sessions[i], now) == inspection.StatusOverdue {
			s.overdue.MarkNotified(sessions[i].ID)
		}
	}

	s.logger.Info("demo data loaded", zap.Int("sessions", len(sessions)))
	return nil
}

func accountSeeds(accounts []config.AccountConfig) []authUsecase.AccountSeed {
	seeds := make([]authUsecase.AccountSeed, 0, len(accounts))
	for _, a := range accounts {
		seeds = append(seeds, authUsecase.AccountSeed{
			Email:     a.Email,
			Name:      a.Name,
			Role:      a.Role,
			Password:  a.Password,
			DriverRef: a.DriverRef,
		})
	}
	return seeds
}
