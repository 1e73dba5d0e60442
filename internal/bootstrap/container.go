package bootstrap

import (
	"context"
	"log"
	"time"

	"edu-dashboard-be/internal/config"
	"edu-dashboard-be/internal/controller"
	"edu-dashboard-be/internal/handler"
	"edu-dashboard-be/internal/pkg/logger"
	"edu-dashboard-be/internal/pkg/mailer"
	"edu-dashboard-be/internal/repository/memory"
	"edu-dashboard-be/internal/repository/unitofwork"
	"edu-dashboard-be/internal/service"
	"edu-dashboard-be/internal/websocket"
	"edu-dashboard-be/pkg/content"
	"edu-dashboard-be/pkg/identity"
	"edu-dashboard-be/pkg/inference"
	"edu-dashboard-be/pkg/llm/factory"
	"edu-dashboard-be/pkg/quiz"
	"edu-dashboard-be/pkg/session"

	pktNats "edu-dashboard-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	Guards controller.Guards

	// Controllers
	AuthController      controller.IAuthController
	ProfileController   controller.IProfileController
	DashboardController controller.IDashboardController
	WorkspaceController controller.IWorkspaceController
	AssistantController controller.IAssistantController
	ChatController      controller.IChatController

	// Background services (started by main.go)
	ActivityService  service.IActivityService
	WorkspaceService service.IWorkspaceService

	Sessions       *session.Store
	AuthStream     *identity.Stream
	SessionHandler *handler.SessionHandler
	WebSocketHub   *websocket.Hub

	Logger logger.ILogger

	natsPub *pktNats.Publisher
	natsSub *pktNats.Subscriber
	rdb     *redis.Client
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
		cfg.App.ClientURL,
	)

	// 2. Auth state bus. Publishing blocks until the session store has
	// taken the event, so a sign-in response never races its snapshot.
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{BlockPublishUntilSubscriberAck: true},
		watermill.NewStdLogger(false, false),
	)
	authStream := identity.NewStream(pubSub)

	// 3. Infrastructure
	var natsSink service.EventSink
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	} else {
		natsSink = natsPub
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{Addr: cfg.App.RedisURL}
	}
	rdb := redis.NewClient(opt)
	pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	var profileCache session.ProfileCache
	if _, err := rdb.Ping(pingCtx).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v. Using in-memory profile cache", err)
		rdb.Close()
		rdb = nil
		profileCache = session.NewMemoryProfileCache(cfg.Auth.ProfileCacheTTL)
	} else {
		profileCache = session.NewRedisProfileCache(rdb, cfg.Auth.ProfileCacheTTL)
	}

	wsLogger := logger.NewIsolatedLogger("logs/session_ws.log")
	wsHub := websocket.NewHub(rdb, wsLogger)

	// 4. Content
	catalog, err := content.LoadCatalog(cfg.Content.CatalogPath)
	if err != nil {
		log.Fatalf("[FATAL] Failed to load content catalog: %v", err)
	}
	bank, err := quiz.LoadBank(cfg.Content.QuizBankPath)
	if err != nil {
		log.Fatalf("[FATAL] Failed to load quiz bank: %v", err)
	}
	resolver := content.NewResolver(catalog, sysLogger)

	// 5. LLM behind /api/chat
	llmProvider, err := factory.NewLLMProvider(cfg.Ai.LLMProvider, "", cfg.Ai.OllamaBaseURL)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%d subject models)", cfg.Ai.LLMProvider, len(cfg.Ai.SubjectModels))

	chatEndpoint := inference.NewClient(cfg.Ai.ChatEndpointURL, cfg.Ai.ChatTimeout, inference.RateLimitConfig{
		RequestsPerSecond: float64(cfg.Ai.ChatRatePerSecond),
		BurstSize:         cfg.Ai.ChatBurst,
	})

	// 6. Services
	eventPublisher := service.NewEventPublisher(natsSink, sysLogger)
	profileFetcher := service.NewProfileFetcher(uowFactory)

	sessions := session.NewStore(authStream, profileFetcher, profileCache, sysLogger)
	sessions.SetNotifier(wsHub)

	tokens := identity.NewTokens(cfg.Auth.JwtSecret, cfg.Auth.AccessTokenTTL)
	identityService := service.NewIdentityService(uowFactory, tokens, authStream, eventPublisher, emailService, sysLogger)
	profileService := service.NewProfileService(uowFactory, profileFetcher, sessions, eventPublisher, sysLogger)
	workspaceService := service.NewWorkspaceService(
		memory.NewWorkspaceRepository(cfg.App.WorkspaceTTL),
		uowFactory,
		sessions,
		bank,
		chatEndpoint,
		eventPublisher,
		sysLogger,
	)
	dashboardService := service.NewDashboardService(uowFactory, workspaceService, resolver, sysLogger)
	inferenceService := service.NewInferenceService(llmProvider, cfg.Ai.SubjectModels, sysLogger)

	var activityService service.IActivityService
	if natsSub != nil {
		activityService = service.NewActivityService(natsSub, wsHub, sysLogger)
	}

	// 7. Controllers
	guards := controller.NewGuards(identityService, sessions)
	return &Container{
		Guards:              guards,
		AuthController:      controller.NewAuthController(identityService),
		ProfileController:   controller.NewProfileController(profileService),
		DashboardController: controller.NewDashboardController(dashboardService, workspaceService),
		WorkspaceController: controller.NewWorkspaceController(workspaceService),
		AssistantController: controller.NewAssistantController(workspaceService),
		ChatController:      controller.NewChatController(inferenceService),

		ActivityService:  activityService,
		WorkspaceService: workspaceService,

		Sessions:       sessions,
		AuthStream:     authStream,
		SessionHandler: handler.NewSessionHandler(identityService, sessions, wsHub, wsLogger),
		WebSocketHub:   wsHub,

		Logger: sysLogger,

		natsPub: natsPub,
		natsSub: natsSub,
		rdb:     rdb,
	}
}

// Start launches the background workers: the websocket hub, the session
// store and workspace listeners on the auth stream, and the activity
// consumer when NATS is reachable.
func (c *Container) Start(ctx context.Context) error {
	go c.WebSocketHub.Run()

	if err := c.Sessions.Start(ctx); err != nil {
		return err
	}
	if err := c.WorkspaceService.Start(ctx, c.AuthStream); err != nil {
		return err
	}
	if c.ActivityService != nil {
		if err := c.ActivityService.Consume(ctx); err != nil {
			c.Logger.Warn("BOOTSTRAP", "Activity consumer not started", map[string]interface{}{"error": err.Error()})
		}
	}
	return nil
}

func (c *Container) Close() {
	c.Sessions.Close()
	c.WebSocketHub.Close()
	if err := c.AuthStream.Close(); err != nil {
		log.Printf("[WARN] Failed to close auth stream: %v", err)
	}
	if c.natsSub != nil {
		c.natsSub.Close()
	}
	if c.natsPub != nil {
		c.natsPub.Close()
	}
	if c.rdb != nil {
		c.rdb.Close()
	}
	c.Logger.Sync()
}
