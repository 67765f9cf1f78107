package main

import (
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/xisxz/agente-vendas/internal/channel"
	"github.com/xisxz/agente-vendas/internal/config"
	"github.com/xisxz/agente-vendas/internal/crm"
	"github.com/xisxz/agente-vendas/internal/handlers"
	"github.com/xisxz/agente-vendas/internal/nlp"
	"github.com/xisxz/agente-vendas/internal/notify"
	"github.com/xisxz/agente-vendas/internal/queue"
	"github.com/xisxz/agente-vendas/internal/repository"
	"github.com/xisxz/agente-vendas/internal/scheduler"
	"github.com/xisxz/agente-vendas/internal/services"
	xhttp "github.com/xisxz/agente-vendas/pkg/http"
	"github.com/xisxz/agente-vendas/pkg/logger"
	"github.com/xisxz/agente-vendas/pkg/pg"
	"github.com/xisxz/agente-vendas/pkg/prom"
	"github.com/xisxz/agente-vendas/pkg/redis"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {

	err := config.Load(argContainsEnvPath())
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return
	}

	// transport (tcp for now)
	s := xhttp.NewServer(xhttp.DefaultServerOption)
	s.Server.ReadBufferSize = 1024 * 16
	s.Server.WriteBufferSize = 1024 * 16
	s.Use(xhttp.CompressMiddleware(6))
	s.Use(xhttp.TimeoutMiddleware(time.Second * 5))
	s.Use(xhttp.RequestLoggerMiddleware)
	s.Use(xhttp.RecoverMiddleware)
	s.Router = xhttp.CreateDefaultRouter()

	readConf := pg.Config{
		User:     config.Get().PostgresReadUser,
		Host:     config.Get().PostgresReadHost,
		Port:     config.Get().PostgresReadPort,
		Password: config.Get().PostgresReadPassword,
		Database: config.Get().PostgresReadDatabase,
	}
	writeConf := pg.Config{
		User:     config.Get().PostgresWriteUser,
		Host:     config.Get().PostgresWriteHost,
		Port:     config.Get().PostgresWritePort,
		Password: config.Get().PostgresWritePassword,
		Database: config.Get().PostgresWriteDatabase,
	}

	pgDebug := false
	if config.Get().AppEnv == "dev" {
		pgDebug = true
	}
	db, err := pg.CreateReadWrite(readConf, writeConf, pgDebug)
	if err != nil {
		logger.Error("failed connecting to pg", "error", err)
		return
	}

	redisAdap, err := redis.NewRedisAdapter("default", config.Get().RedisUniversalKeyPrefix, &redis.Options{
		Addrs:      []string{config.Get().RedisAddr},
		ClientName: "default",
		DB:         config.Get().RedisDatabase,
		Username:   config.Get().RedisUsername,
		Password:   config.Get().RedisPassword,
	})
	if err != nil {
		logger.Error("failed connecting to redis", "error", err)
		return
	}

	notificationQ, err := queue.NewQueue(redisAdap, queue.QueueConfig{
		Name:              config.Get().QueueName,
		ConsumerGroup:     config.Get().QueueConsumerGroup,
		ConsumerName:      config.Get().QueueConsumerName,
		MaxRetries:        config.Get().QueueMaxRetries,
		VisibilityTimeout: config.Get().QueueVisibilityTimeout,
		PollInterval:      config.Get().QueuePollInterval,
		BatchSize:         config.Get().QueueBatchSize,
		MaxLen:            config.Get().QueueMaxLen,
		EnableDLQ:         config.Get().QueueEnableDLQ,
	})
	if err != nil {
		logger.Error("failed creating notification queue", "error", err)
		return
	}

	var hostname string
	hostname, err = os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	err = prom.Create(hostname, config.Get().AppEnv, config.Get().PromNamespace)
	if err != nil {
		logger.Error("failed to create prometheus metrics", "error", err)
		return
	}
	if config.Get().AppDebugMetricsAddr != "" {
		go func() {
			prom.ListenAndServer(config.Get().AppDebugMetricsAddr, config.Get().AppDebugMetricsURI)
		}()
	}

	// repositories
	leadRepo := repository.NewLeadRepository(db)
	conversationRepo := repository.NewConversationRepository(db)
	followUpRepo := repository.NewFollowUpRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)

	// domain engines
	analyzer := nlp.NewAnalyzer()
	startHour, endHour, lunchStart, lunchEnd := config.Get().BusinessHours()
	planner := scheduler.NewTimePlanner(scheduler.BusinessHours{
		StartHour:  startHour,
		EndHour:    endHour,
		LunchStart: lunchStart,
		LunchEnd:   lunchEnd,
	})
	channels := channel.NewRegistry()

	// outbound integrations
	var crmSyncer services.CRMSyncer
	crmClient, err := crm.NewClient(crm.Config{
		BaseURL:    config.Get().CRMBaseUrl,
		APIToken:   config.Get().CRMAPIToken,
		Timeout:    config.Get().CRMTimeout,
		MaxRetries: config.Get().CRMMaxRetries,
	})
	if err != nil {
		logger.Warn("CRM integration disabled", "error", err)
	} else {
		crmSyncer = crmClient
	}
	publisher := notify.NewPublisher(notificationQ)

	// services
	leadService := services.NewLeadService(leadRepo, crmSyncer)
	chatService := services.NewChatService(analyzer, leadRepo, conversationRepo, leadRepo, db, analyticsRepo, crmSyncer, publisher)
	followUpService := services.NewFollowUpService(planner, leadRepo, leadRepo, conversationRepo, conversationRepo, followUpRepo, leadRepo, db, analyticsRepo, publisher)
	healthService := services.NewHealthService(db)

	// v1 handlers
	leadHandler := handlers.NewLeadHandler(leadService)
	chatHandler := handlers.NewChatHandler(chatService)
	automationHandler := handlers.NewAutomationHandler(followUpService, channels)
	healthHandler := handlers.NewHealthHandler(healthService)

	g := s.Router.Group("/api/v1")
	handlers.RegisterLeadRoutes(g, leadHandler)
	handlers.RegisterChatRoutes(g, chatHandler)
	handlers.RegisterAutomationRoutes(g, automationHandler)
	handlers.RegisterHealthRoutes(g, healthHandler)

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		var err = s.ListenAndServe(config.Get().HttpListenAddr)
		if err != nil {
			logger.Error("error in running http-server", "error", err)
		}
	}()

	select {
	case <-c:
		s.Shutdown()
	}
}

func argContainsEnvPath() string {
	for _, v := range os.Args {
		if strings.Contains(v, "--env=") {
			s := strings.Split(v, "=")
			if _, err := os.Open(s[1]); err != nil {
				logger.Error("failed to open the passed env file, got error" + err.Error())
				return ""
			}
			return s[1]
		}
	}
	return ""
}
