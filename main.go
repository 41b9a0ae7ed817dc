package main

import (
	"context"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"chitchat-service/internal/config"
	"chitchat-service/internal/db"
	"chitchat-service/internal/handlers"
	"chitchat-service/internal/identity"
	"chitchat-service/internal/middleware"
	"chitchat-service/internal/observability"
	"chitchat-service/internal/rabbitmq"
	"chitchat-service/internal/repositories"
	"chitchat-service/internal/telemetry"
	"chitchat-service/internal/ws"
)

const serviceName = "chitchat-service"

func main() {
	cfg := config.Load()

	database, err := db.Connect(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}

	shutdownTracing, err := telemetry.SetupTracing(context.Background(), cfg.OTLPEndpoint, serviceName, cfg.Environment)
	if err != nil {
		log.Fatalf("failed to set up tracing: %v", err)
	}
	defer shutdownTracing(context.Background())

	auditPublisher := rabbitmq.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	defer auditPublisher.Close()
	log.Printf("audit publisher mode=%s", rabbitmq.PublisherMode(auditPublisher))
	auditEmitter := telemetry.NewAuditEmitter(auditPublisher, "audit_log.chitchat", serviceName, cfg.Environment)

	if eventPublisher, err := observability.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange); err != nil {
		log.Printf("ws event publishing disabled: %v", err)
	} else {
		observability.SetPublisher(eventPublisher)
		defer eventPublisher.Close()
	}

	verifier := identity.NewJWTVerifier(cfg.JWTSecret, cfg.JWTIssuer)

	userRepo := repositories.NewUserRepo(database)
	chatroomRepo := repositories.NewChatroomRepo(database)
	messageRepo := repositories.NewMessageRepo(database)

	registry := ws.NewRegistry()
	rooms := ws.NewRoomChannel(registry)

	userHandler := handlers.NewUserHandler(userRepo, auditEmitter)
	chatroomHandler := handlers.NewChatroomHandler(chatroomRepo)
	messageHandler := handlers.NewMessageHandler(messageRepo)
	chatWS := ws.NewChatWebSocketHandler(registry, rooms, cfg.AllowedOrigins)

	router := gin.Default()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(serviceName))
	router.Use(observability.HTTPMetricsMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Request-Id", "X-Device-Id"},
		AllowCredentials: true,
	}))

	authMiddleware := middleware.AuthMiddleware(verifier)

	router.POST("/user/login", authMiddleware, userHandler.Login)
	router.POST("/user/new-chat/search", authMiddleware, userHandler.SearchContacts)
	router.POST("/chatroom/list", authMiddleware, chatroomHandler.ListChatrooms)
	router.POST("/chatroom/create", authMiddleware, chatroomHandler.CreateChatroom)
	router.POST("/message/list", authMiddleware, messageHandler.ListMessages)
	router.POST("/message/send", authMiddleware, messageHandler.SendMessage)

	router.GET("/ws/chat/:chatroom_id", chatWS.Handle)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	handlers.RegisterDebugRoutes(router, auditEmitter, cfg.DebugRoutes)

	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
