package app

import (
	"context"
	"fmt"
	"log/slog"

	"docvault/internal/audit"
	"docvault/internal/cache/redis"
	"docvault/internal/config"
	"docvault/internal/dbs/postgres"
	"docvault/internal/extract"
	"docvault/internal/queue"
	cachefolderevalrepo "docvault/internal/repositories/cache/foldereval"
	cachesessionrepo "docvault/internal/repositories/cache/session"
	documentrepo "docvault/internal/repositories/db/document"
	fieldmappingrepo "docvault/internal/repositories/db/fieldmapping"
	indexrepo "docvault/internal/repositories/db/index"
	metadatarepo "docvault/internal/repositories/db/metadata"
	relationshiprepo "docvault/internal/repositories/db/relationship"
	smartfolderrepo "docvault/internal/repositories/db/smartfolder"
	userrepo "docvault/internal/repositories/db/user"
	filerepo "docvault/internal/repositories/storage/file"
	authservice "docvault/internal/services/auth"
	documentservice "docvault/internal/services/document"
	extractionservice "docvault/internal/services/extraction"
	indexerservice "docvault/internal/services/indexer"
	pipelineservice "docvault/internal/services/pipeline"
	searchservice "docvault/internal/services/search"
	smartfolderservice "docvault/internal/services/smartfolder"
	userservice "docvault/internal/services/user"
)

type App struct {
	AuthService     AuthService
	DocumentService DocumentService
	SearchService   SearchService
	FolderService   FolderService
	Indexer         Reindexer

	broker *queue.Queue
}

func NewApp(ctx context.Context, log *slog.Logger, cfg *config.Config) (*App, error) {
	db, err := postgres.New(ctx, postgres.Config{
		Addr:     cfg.DB.Addr,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		DB:       cfg.DB.DB})
	if err != nil {
		log.Error("failed connect to db", "err", err)
		return nil, fmt.Errorf("failed connect to db: %w", err)
	}

	cache, err := redis.New(ctx, redis.Config{Addr: cfg.Cache.Addr, Password: cfg.Cache.Password, DB: cfg.Cache.DB})
	if err != nil {
		log.Error("failed connect to cache", "err", err)
		return nil, fmt.Errorf("failed connect to cache: %w", err)
	}

	userRepo := userrepo.NewRepository(db)
	docRepo := documentrepo.NewRepository(db)
	metadataRepo := metadatarepo.NewRepository(db)
	fieldMappingRepo := fieldmappingrepo.NewRepository(db)
	indexRepo := indexrepo.NewRepository(db)
	folderRepo := smartfolderrepo.NewRepository(db)
	relationRepo := relationshiprepo.NewRepository(db)

	sessionCacheRepo := cachesessionrepo.New(cache, cfg.Cache.SessionTTL)
	folderEvalCacheRepo := cachefolderevalrepo.New(cache, cfg.Cache.FolderEvalTTL)

	fileStorage := filerepo.NewRepository(cfg.FileStorage.Path)

	userService := userservice.New(log, userRepo, userRepo)

	authService := authservice.New(log, userService, userService, sessionCacheRepo, cfg.AdminToken)

	auditLog := audit.New(log)

	broker := queue.New(log, cfg.Pipeline.QueueSize)

	extractionService := extractionservice.New(log, fieldMappingRepo, metadataRepo)

	indexerService := indexerservice.New(log, docRepo, metadataRepo, indexRepo)

	pipelineService := pipelineservice.New(
		log,
		docRepo,
		fileStorage,
		extract.NewLocal(),
		extractionService,
		indexerService,
		broker,
		cfg.Pipeline.Workers,
		cfg.Pipeline.ExtractTimeout,
	)
	pipelineService.Start(ctx)

	documentService := documentservice.New(
		log,
		docRepo,
		metadataRepo,
		relationRepo,
		fileStorage,
		extractionService,
		pipelineService,
		indexerService,
		auditLog,
		cfg.FileStorage.MaxUploadSize,
	)

	searchService := searchservice.New(log, indexRepo, docRepo)

	folderService := smartfolderservice.New(log, folderRepo, searchService, folderEvalCacheRepo)

	return &App{
		AuthService:     authService,
		DocumentService: documentService,
		SearchService:   searchService,
		FolderService:   folderService,
		Indexer:         indexerService,
		broker:          broker,
	}, nil
}

// Close drains the enrichment queue so in-flight documents finish their
// pipeline before shutdown.
func (a *App) Close() {
	a.broker.Close()
}
