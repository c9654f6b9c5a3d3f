package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	// Drivers
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	// Instrumentation
	"github.com/exaring/otelpgx"
	"go.opentelemetry.io/contrib/instrumentation/go.mongodb.org/mongo-driver/mongo/otelmongo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"

	// Interne
	"github.com/jupiterclapton/blog-service/config"
	"github.com/jupiterclapton/blog-service/internal/adapters/primary/rest"
	"github.com/jupiterclapton/blog-service/internal/adapters/secondary/eventbroker"
	"github.com/jupiterclapton/blog-service/internal/adapters/secondary/media"
	"github.com/jupiterclapton/blog-service/internal/adapters/secondary/repository"
	"github.com/jupiterclapton/blog-service/internal/core/ports"
	"github.com/jupiterclapton/blog-service/internal/core/services"
)

func main() {
	// 1. Config & Logger
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	initLogger(cfg)
	slog.Info("🚀 Starting Blog Service", "env", cfg.Env, "store", cfg.StoreDriver, "media", cfg.MediaDriver)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 2. Télémétrie (Tracing)
	if cfg.OtelEndpoint != "" {
		tp, err := initTracer(ctx, cfg)
		if err != nil {
			slog.Error("Failed to init tracer", "error", err)
		} else {
			defer func() { _ = tp.Shutdown(context.Background()) }()
		}
	}

	// 3. Infrastructure: stockage des posts
	postRepo, closeRepo, err := openRepository(ctx, cfg)
	if err != nil {
		slog.Error("Unable to open post store", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	defer closeRepo()
	slog.Info("✅ Post store ready", "driver", cfg.StoreDriver)

	// 4. Infrastructure: media store
	mediaStore, uploadsDir, err := openMediaStore(cfg)
	if err != nil {
		slog.Error("Unable to init media store", "driver", cfg.MediaDriver, "error", err)
		os.Exit(1)
	}
	slog.Info("✅ Media store ready", "driver", cfg.MediaDriver)

	// 5. Infrastructure: Event Broker (NATS), optionnel
	var eventPub ports.EventPublisher = eventbroker.NoopPublisher{}
	if cfg.NatsUrl != "" {
		nc, err := nats.Connect(cfg.NatsUrl)
		if err != nil {
			slog.Error("Unable to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer nc.Close()
		eventPub = eventbroker.NewNatsPublisher(nc)
		slog.Info("✅ Connected to NATS")
	}

	// 6. Initialisation du Core (Domain Logic)
	postService := services.NewPostService(postRepo, mediaStore, eventPub)

	// 7. Primary Adapter (REST)
	api := rest.NewServer(postService, rest.Options{
		MaxImageBytes:  cfg.MaxUploadBytes,
		AllowedOrigins: cfg.AllowedOrigins,
		UploadsDir:     uploadsDir,
		Ready:          postRepo.Ping,
	})

	srvHTTP := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 8. Démarrage Graceful
	go func() {
		slog.Info("📡 Blog Service listening", "port", cfg.HTTPPort)
		if err := srvHTTP.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("🛑 Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srvHTTP.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	slog.Info("👋 Server exited")
}

// --- HELPERS ---

type repoCloser func()

func openRepository(ctx context.Context, cfg config.Config) (ports.PostRepository, repoCloser, error) {
	switch cfg.StoreDriver {
	case "mongo":
		opts := options.Client().
			ApplyURI(cfg.MongoURI).
			SetServerSelectionTimeout(cfg.DBTimeout).
			SetMonitor(otelmongo.NewMonitor()) // Requêtes visibles dans Jaeger

		client, err := mongo.Connect(ctx, opts)
		if err != nil {
			return nil, nil, fmt.Errorf("mongo connect: %w", err)
		}
		closeFn := func() { _ = client.Disconnect(context.Background()) }

		repo := repository.NewMongoRepo(client.Database(cfg.MongoDatabase), cfg.MongoCollection)

		pingCtx, cancel := context.WithTimeout(ctx, cfg.DBTimeout)
		defer cancel()
		if err := repo.Ping(pingCtx); err != nil {
			closeFn()
			return nil, nil, fmt.Errorf("mongo ping: %w", err)
		}
		if err := repo.EnsureIndexes(pingCtx); err != nil {
			closeFn()
			return nil, nil, err
		}
		return repo, closeFn, nil

	case "postgres":
		dbConfig, err := pgxpool.ParseConfig(cfg.DBUrl)
		if err != nil {
			return nil, nil, fmt.Errorf("parse DB config: %w", err)
		}
		dbConfig.ConnConfig.Tracer = otelpgx.NewTracer()
		dbConfig.ConnConfig.ConnectTimeout = cfg.DBTimeout

		dbPool, err := pgxpool.NewWithConfig(ctx, dbConfig)
		if err != nil {
			return nil, nil, fmt.Errorf("postgres connect: %w", err)
		}
		repo := repository.NewPostgresRepo(dbPool)

		pingCtx, cancel := context.WithTimeout(ctx, cfg.DBTimeout)
		defer cancel()
		if err := repo.Ping(pingCtx); err != nil {
			dbPool.Close()
			return nil, nil, fmt.Errorf("postgres ping: %w", err)
		}
		if err := repo.EnsureSchema(pingCtx); err != nil {
			dbPool.Close()
			return nil, nil, err
		}
		return repo, dbPool.Close, nil

	default:
		slog.Warn("Using in-memory post store, data is lost on restart")
		return repository.NewMemoryRepo(), func() {}, nil
	}
}

// openMediaStore renvoie aussi le dossier à servir sous /uploads (vide pour S3).
func openMediaStore(cfg config.Config) (ports.MediaStore, string, error) {
	if cfg.MediaDriver == "s3" {
		awsCfg := &aws.Config{Region: aws.String(cfg.S3Region)}
		if cfg.S3Endpoint != "" {
			awsCfg.Endpoint = aws.String(cfg.S3Endpoint)
			awsCfg.S3ForcePathStyle = aws.Bool(true)
		}
		sess, err := session.NewSession(awsCfg)
		if err != nil {
			return nil, "", fmt.Errorf("error creating AWS session: %w", err)
		}
		return media.NewS3Store(sess, media.S3Config{
			Bucket:    cfg.S3Bucket,
			Folder:    cfg.MediaFolder,
			PublicURL: cfg.S3PublicURL,
		}), "", nil
	}

	store, err := media.NewLocalStore(cfg.MediaDir, cfg.MediaFolder, cfg.MediaPublicURL)
	if err != nil {
		return nil, "", err
	}
	return store, store.Root(), nil
}

func initLogger(cfg config.Config) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if cfg.Env == "local" {
		opts.Level = slog.LevelDebug
	}
	var handler slog.Handler
	if cfg.Env == "local" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func initTracer(ctx context.Context, cfg config.Config) (*sdktrace.TracerProvider, error) {
	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(cfg.OtelEndpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	res, _ := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String("blog-service"),
			semconv.DeploymentEnvironmentKey.String(cfg.Env),
		),
	)

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	return tp, nil
}
