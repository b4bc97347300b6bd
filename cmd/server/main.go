package main

import (
	"go.uber.org/zap"

	"escrowfund/config"
	"escrowfund/internal/auth"
	"escrowfund/internal/blockindex"
	"escrowfund/internal/escrow"
	"escrowfund/internal/handler"
	"escrowfund/internal/httpserver"
	"escrowfund/internal/repository"
	"escrowfund/internal/service/account"
	"escrowfund/internal/service/project"
	"escrowfund/pkg/db"
	"escrowfund/pkg/logger"
	"escrowfund/pkg/outbox"
	redisclient "escrowfund/pkg/redis"
)

func main() {
	// 1. Load config
	cfg := config.Load()

	log := logger.NewLogger()
	defer log.Sync()

	// 2. Init DB
	dbConn, err := db.NewConnection(cfg.DB, log)
	if err != nil {
		log.Fatal("DB initialization failed", zap.Error(err))
	}
	defer dbConn.Close()

	// 3. Init Redis (ledger height source)
	rdb := redisclient.NewClient(cfg.Redis)
	defer rdb.Close()

	// 4. Init repositories
	accountRepo := repository.NewAccountRepository(dbConn)
	outboxRepo := outbox.NewRepository(dbConn)

	// 5. Init services
	tokens := auth.NewManager(cfg.JWT.Secret)
	clock := blockindex.NewSource(rdb, cfg.Escrow.HeightKey)
	accountService := account.NewService(accountRepo, tokens)
	projectService := project.NewService(
		dbConn,
		auth.ContextAuthorizer{},
		clock,
		outboxRepo,
		escrow.Identity(cfg.Escrow.Account),
		log,
	)

	// 6. Init handlers
	accountHandler := handler.NewAccountHandler(accountService)
	escrowHandler := handler.NewEscrowHandler(projectService, log)
	adminHandler := handler.NewAdminHandler(projectService)

	// 7. Init router
	router := httpserver.NewRouter(accountHandler, escrowHandler, adminHandler, tokens, dbConn, rdb)

	// 8. Run server
	log.Info("Starting escrow API server", zap.String("port", cfg.Server.Port))
	if err := router.Run(cfg.Server.Port); err != nil {
		log.Fatal("server start failed", zap.Error(err))
	}
}
