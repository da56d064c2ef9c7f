package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/leelesemann/medreg-intelligence/internal/catalog"
	"github.com/leelesemann/medreg-intelligence/internal/config"
	"github.com/leelesemann/medreg-intelligence/internal/core/ports"
	"github.com/leelesemann/medreg-intelligence/internal/core/usecase"
	"github.com/leelesemann/medreg-intelligence/internal/infrastructure/chunking"
	"github.com/leelesemann/medreg-intelligence/internal/infrastructure/extractor"
	"github.com/leelesemann/medreg-intelligence/internal/infrastructure/extractor/pdf"
	"github.com/leelesemann/medreg-intelligence/internal/infrastructure/extractor/plaintext"
	"github.com/leelesemann/medreg-intelligence/internal/infrastructure/llm/azure"
	"github.com/leelesemann/medreg-intelligence/internal/infrastructure/queue/nats"
	"github.com/leelesemann/medreg-intelligence/internal/infrastructure/repository/postgres"
	"github.com/leelesemann/medreg-intelligence/internal/infrastructure/rerank/cohere"
	"github.com/leelesemann/medreg-intelligence/internal/infrastructure/resilience"
	"github.com/leelesemann/medreg-intelligence/internal/infrastructure/storage/localfs"
	"github.com/leelesemann/medreg-intelligence/internal/infrastructure/vector/qdrant"
)

type App struct {
	Config  config.Config
	Catalog *catalog.Catalog

	Queue     ports.MessageQueue
	Repo      ports.DocumentRepository
	AuditRepo ports.AuditRepository
	IngestUC  ports.DocumentIngestor
	ProcessUC ports.DocumentProcessor
	QueryUC   ports.RegulatoryQueryService

	closeFn func()
}

func New(ctx context.Context, cfg config.Config, log *slog.Logger) (*App, error) {
	if log == nil {
		log = slog.Default()
	}

	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewDocumentRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	auditRepo := postgres.NewAuditRepository(db)

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultConfig())

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	azureClient := azure.New(azure.Config{
		Endpoint:        cfg.AzureOpenAIEndpoint,
		APIKey:          cfg.AzureOpenAIAPIKey,
		APIVersion:      cfg.AzureOpenAIAPIVersion,
		EmbedDeployment: cfg.AzureEmbedDeployment,
		ChatDeployment:  cfg.AzureChatDeployment,
	}, executor)
	embedder := azure.NewEmbedder(azureClient)
	generator := azure.NewGenerator(azureClient)

	// Reranking is optional: without a Cohere key the query pipeline keeps
	// plain vector order.
	var reranker ports.Reranker
	if cfg.CohereAPIKey != "" {
		reranker = cohere.New(cfg.CohereBaseURL, cfg.CohereAPIKey, cfg.CohereRerankModel, executor)
	} else {
		log.Warn("COHERE_API_KEY not set, reranking disabled")
	}

	vectorDB := qdrant.New(cfg.QdrantURL, cfg.QdrantCollection)
	if err := recoverCollectionIfMissing(ctx, vectorDB, cfg.QdrantSnapshotURL, log); err != nil {
		return nil, err
	}

	chunker := chunking.New(chunking.Limits{
		MaxChunkSize:    cfg.MaxChunkSize,
		MinChunkSize:    cfg.MinChunkSize,
		FallbackSize:    cfg.FallbackChunkSize,
		FallbackOverlap: cfg.FallbackChunkOverlap,
	})
	textExtractor := extractor.NewRouter(pdf.NewExtractor(storage), plaintext.NewExtractor(storage))

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("load document catalog: %w", err)
	}

	ingestUC := usecase.NewIngestDocumentUseCase(repo, storage, queue)
	processUC := usecase.NewProcessDocumentUseCase(repo, textExtractor, chunker, embedder, vectorDB, cfg.EmbedBatchSize)
	queryUC := usecase.NewRegulatoryQueryUseCase(embedder, vectorDB, reranker, generator, auditRepo, log)

	return &App{
		Config:  cfg,
		Catalog: cat,

		Queue:     queue,
		Repo:      repo,
		AuditRepo: auditRepo,
		IngestUC:  ingestUC,
		ProcessUC: processUC,
		QueryUC:   queryUC,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

// recoverCollectionIfMissing restores a prebuilt Qdrant snapshot on first
// startup so the service answers questions before any document is uploaded.
func recoverCollectionIfMissing(ctx context.Context, vectorDB *qdrant.Client, snapshotURL string, log *slog.Logger) error {
	if snapshotURL == "" {
		return nil
	}

	exists, err := vectorDB.CollectionExists(ctx)
	if err != nil {
		return fmt.Errorf("check vector collection: %w", err)
	}
	if exists {
		return nil
	}

	log.Info("vector collection missing, recovering from snapshot", "url", snapshotURL)
	if err := vectorDB.RecoverSnapshot(ctx, snapshotURL); err != nil {
		return fmt.Errorf("recover vector snapshot: %w", err)
	}
	return nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
