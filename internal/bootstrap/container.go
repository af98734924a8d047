package bootstrap

import (
	"context"
	"log"
	"path/filepath"

	"github.com/redis/go-redis/v9"

	"ai-planner-be/internal/config"
	"ai-planner-be/internal/controller"
	"ai-planner-be/internal/pkg/logger"
	"ai-planner-be/internal/repository/implementation"
	repoMemory "ai-planner-be/internal/repository/memory"
	"ai-planner-be/internal/service"
	"ai-planner-be/internal/websocket"
	"ai-planner-be/pkg/events"
	"ai-planner-be/pkg/llm/factory"
	"ai-planner-be/pkg/memory"
	"ai-planner-be/pkg/thinking"
)

type Container struct {
	// Controllers
	ChatController     controller.IChatController
	TaskController     controller.ITaskController
	ScheduleController controller.IScheduleController

	// Background Services (Exposed for main.go to run)
	NotifierService service.INotifierService

	// WebSockets & Eventing
	WebSocketHub *websocket.Hub
	EventBus     *events.Bus

	Logger logger.ILogger
}

func NewContainer(cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	bus := events.NewBus()

	// 3. Persistence
	plannerRepo := implementation.NewFilePlannerRepository(filepath.Join(cfg.Store.DataDir, cfg.Store.PlannerFile))
	memoryRepo := implementation.NewFileMemoryRepository(filepath.Join(cfg.Store.DataDir, cfg.Store.MemoryFile))

	// 4. Services
	plannerService, err := service.NewPlannerService(plannerRepo, bus, sysLogger)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize planner: %v", err)
	}

	memoryService, err := service.NewMemoryService(memoryRepo, memory.NewKeywordClassifier(), sysLogger, service.MemoryOptions{
		RecentWindow:     cfg.Memory.RecentWindow,
		MaxMessages:      cfg.Memory.MaxMessages,
		SummaryThreshold: cfg.Memory.SummaryThreshold,
	})
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize conversation memory: %v", err)
	}

	// Initialize LLM Provider based on Config
	llmProvider, err := factory.NewLLMProvider(cfg.Ai)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// Optional reasoning sidecar
	var thinker *thinking.Client
	if cfg.Thinking.Enabled {
		thinker = thinking.NewClient(cfg.Thinking.BaseURL, cfg.Thinking.MaxSteps)
		log.Printf("[INFO] Reasoning sidecar enabled: %s", cfg.Thinking.BaseURL)
	}

	// In-Memory Session Storage
	sessionRepo := repoMemory.NewSessionRepository()

	// Redis is optional: without it the hub still serves local clients.
	var rdb *redis.Client
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{
				Addr: cfg.App.RedisURL,
			}
		}
		rdb = redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/notification.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	notifierService := service.NewNotifierService(bus, wsHub, wsLogger)

	chatService := service.NewChatService(
		plannerService,
		memoryService,
		llmProvider,
		thinker,
		sessionRepo,
		bus,
		sysLogger,
		cfg.Memory.RecentWindow,
	)

	return &Container{
		ChatController:     controller.NewChatController(chatService, memoryService),
		TaskController:     controller.NewTaskController(plannerService),
		ScheduleController: controller.NewScheduleController(plannerService),

		NotifierService: notifierService,
		WebSocketHub:    wsHub,
		EventBus:        bus,
		Logger:          sysLogger,
	}
}
