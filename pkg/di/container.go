package di

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"task-tracker-api/application/serviceimpl"
	"task-tracker-api/domain/ports"
	"task-tracker-api/domain/repositories"
	"task-tracker-api/domain/services"
	"task-tracker-api/infrastructure/messaging"
	natspkg "task-tracker-api/infrastructure/nats"
	"task-tracker-api/infrastructure/postgres"
	redispkg "task-tracker-api/infrastructure/redis"
	wsinfra "task-tracker-api/infrastructure/websocket"
	"task-tracker-api/interfaces/api/handlers"
	wsgateway "task-tracker-api/interfaces/api/websocket"
	"task-tracker-api/pkg/config"
	"task-tracker-api/pkg/logger"
	"task-tracker-api/pkg/scheduler"
)

const (
	localBusBuffer = 256
	heartbeatJobID = "websocket-heartbeat"
)

type Container struct {
	// Configuration
	Config *config.Config

	// Infrastructure
	DB             *gorm.DB
	RedisClient    *redispkg.Client // cache + revoked tokens (optional)
	NATSClient     *natspkg.Client  // task events ข้าม instance (optional)
	EventScheduler scheduler.EventScheduler

	// Messaging Ports
	TaskEvents ports.TaskEventBus
	localBus   *messaging.LocalTaskEventBus // เก็บไว้ drain ตอน cleanup

	// Repositories
	UserRepository repositories.UserRepository
	TaskRepository repositories.TaskRepository

	// Services
	UserService services.UserService
	AuthService services.AuthService
	TaskService services.TaskService

	// WebSocket
	Hub         *wsinfra.Hub
	TaskGateway *wsgateway.TaskGateway
}

func NewContainer() *Container {
	return &Container{}
}

func (c *Container) Initialize() error {
	if err := c.initConfig(); err != nil {
		return err
	}

	if err := c.initLogger(); err != nil {
		return err
	}

	if err := c.initInfrastructure(); err != nil {
		return err
	}

	c.initMessaging()

	if err := c.initRepositories(); err != nil {
		return err
	}

	if err := c.initServices(); err != nil {
		return err
	}

	if err := c.initWebSocket(); err != nil {
		return err
	}

	return c.initScheduler()
}

func (c *Container) initConfig() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	c.Config = cfg
	logger.Info("Configuration loaded")
	return nil
}

func (c *Container) initLogger() error {
	logConfig := logger.Config{
		Level:      c.Config.Log.Level,
		Format:     c.Config.Log.Format,
		Output:     c.Config.Log.Output,
		FilePath:   c.Config.Log.FilePath,
		MaxSize:    c.Config.Log.MaxSize,
		MaxBackups: c.Config.Log.MaxBackups,
		MaxAge:     c.Config.Log.MaxAge,
		Compress:   c.Config.Log.Compress,
	}

	if err := logger.Init(logConfig); err != nil {
		return err
	}

	logger.Info("Logger initialized",
		"level", c.Config.Log.Level,
		"format", c.Config.Log.Format,
		"output", c.Config.Log.Output,
	)
	return nil
}

func (c *Container) initInfrastructure() error {
	db, err := postgres.NewDatabase(c.Config.Database)
	if err != nil {
		return err
	}
	c.DB = db
	logger.Info("Database connected", "host", c.Config.Database.Host, "db", c.Config.Database.DBName)

	if err := postgres.Migrate(db); err != nil {
		return err
	}
	logger.Info("Database migrated")

	// Redis optional - ไม่มีก็ทำงานได้ แค่ไม่มี cache และ logout ไม่ revoke token
	if c.Config.Redis.URL != "" {
		redisClient, err := redispkg.NewClient(&c.Config.Redis)
		if err != nil {
			logger.Warn("Redis client initialization failed (cache disabled)", "error", err)
		} else {
			c.RedisClient = redisClient
			logger.Info("Redis client initialized")
		}
	}

	if c.Config.NATS.URL != "" {
		natsClient, err := natspkg.NewClient(natspkg.ClientConfig{
			URL:  c.Config.NATS.URL,
			Name: c.Config.App.Name,
		})
		if err != nil {
			logger.Warn("NATS client initialization failed (using in-process event bus)", "error", err)
		} else {
			c.NATSClient = natsClient
			logger.Info("NATS client initialized", "url", c.Config.NATS.URL)
		}
	}

	return nil
}

// initMessaging เลือก event bus: NATS ถ้าต่อได้ ไม่งั้นใช้ in-process
func (c *Container) initMessaging() {
	if c.NATSClient != nil {
		c.TaskEvents = messaging.NewNATSTaskEventBus(
			natspkg.NewPublisher(c.NATSClient.Conn()),
			natspkg.NewSubscriber(c.NATSClient.Conn()),
		)
		logger.Info("Task event bus initialized", "transport", "nats")
		return
	}

	c.localBus = messaging.NewLocalTaskEventBus(localBusBuffer)
	c.TaskEvents = c.localBus
	logger.Info("Task event bus initialized", "transport", "local")
}

func (c *Container) initRepositories() error {
	c.UserRepository = postgres.NewUserRepository(c.DB)
	c.TaskRepository = postgres.NewTaskRepository(c.DB)
	logger.Info("Repositories initialized")
	return nil
}

func (c *Container) initServices() error {
	c.UserService = serviceimpl.NewUserService(c.UserRepository)

	var tokenStore ports.TokenStore
	if c.RedisClient != nil {
		tokenStore = redispkg.NewTokenStore(c.RedisClient)
	}
	c.AuthService = serviceimpl.NewAuthService(c.UserRepository, tokenStore, c.Config.JWT.Secret, c.Config.JWT.TTL())

	if c.RedisClient != nil {
		c.TaskService = serviceimpl.NewTaskServiceWithCache(
			c.TaskRepository,
			c.UserRepository,
			c.TaskEvents,
			redispkg.NewTaskCache(c.RedisClient, c.Config.Redis.TaskTTL),
		)
		logger.Info("Task service initialized with Redis cache")
	} else {
		c.TaskService = serviceimpl.NewTaskService(c.TaskRepository, c.UserRepository, c.TaskEvents)
		logger.Info("Task service initialized without cache")
	}

	logger.Info("Services initialized")
	return nil
}

func (c *Container) initWebSocket() error {
	c.Hub = wsinfra.NewHub()
	c.TaskGateway = wsgateway.NewTaskGateway(c.Hub, c.AuthService, c.TaskService, c.Config.WebSocket)

	// event ทุกตัว (รวมจาก instance อื่นผ่าน NATS) → refresh socket ของเจ้าของ task
	if err := c.TaskEvents.Subscribe(context.Background(), c.TaskGateway.OnTaskEvent); err != nil {
		return err
	}
	logger.Info("Task gateway subscribed to task events")
	return nil
}

func (c *Container) initScheduler() error {
	c.EventScheduler = scheduler.NewEventScheduler()

	if c.Config.WebSocket.PingInterval > 0 {
		if err := c.EventScheduler.AddIntervalJob(heartbeatJobID, c.Config.WebSocket.PingInterval, c.TaskGateway.Heartbeat); err != nil {
			return err
		}
	}

	c.EventScheduler.Start()
	return nil
}

// HealthCheck pings the database, and Redis when it is configured.
func (c *Container) HealthCheck(ctx context.Context) error {
	if err := postgres.Ping(ctx, c.DB); err != nil {
		return err
	}
	if c.RedisClient != nil {
		if err := c.RedisClient.Ping(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (c *Container) Cleanup() error {
	logger.Info("Starting cleanup...")
	var errs []error

	if c.EventScheduler != nil && c.EventScheduler.IsRunning() {
		c.EventScheduler.Stop()
	}

	if c.TaskEvents != nil {
		if err := c.TaskEvents.Unsubscribe(); err != nil {
			logger.Warn("Failed to unsubscribe task events", "error", err)
		}
	}
	if c.localBus != nil {
		if err := c.localBus.Close(); err != nil {
			logger.Warn("Failed to close local event bus", "error", err)
		}
	}

	if c.Hub != nil {
		c.Hub.CloseAll()
		logger.Info("WebSocket connections closed")
	}

	if c.NATSClient != nil {
		if err := c.NATSClient.Close(); err != nil {
			errs = append(errs, err)
			logger.Warn("Failed to close NATS connection", "error", err)
		} else {
			logger.Info("NATS connection closed")
		}
	}

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, err)
			logger.Warn("Failed to close Redis connection", "error", err)
		} else {
			logger.Info("Redis connection closed")
		}
	}

	if c.DB != nil {
		if err := postgres.Close(c.DB); err != nil {
			errs = append(errs, err)
			logger.Warn("Failed to close database connection", "error", err)
		} else {
			logger.Info("Database connection closed")
		}
	}

	logger.Info("Cleanup completed")
	return errors.Join(errs...)
}

func (c *Container) GetConfig() *config.Config {
	return c.Config
}

func (c *Container) GetHandlerServices() *handlers.Services {
	return &handlers.Services{
		UserService: c.UserService,
		AuthService: c.AuthService,
		TaskService: c.TaskService,
		JWT:         c.Config.JWT,
		AppName:     c.Config.App.Name,
		HealthCheck: c.HealthCheck,
	}
}
