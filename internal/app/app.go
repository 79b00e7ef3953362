package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Rafa-lopez12/examen-arqui/db"
	config "github.com/Rafa-lopez12/examen-arqui/internal/cfg"
	v1Grpc "github.com/Rafa-lopez12/examen-arqui/internal/delivery/v1/grpc"
	v1Http "github.com/Rafa-lopez12/examen-arqui/internal/delivery/v1/http"
	"github.com/Rafa-lopez12/examen-arqui/internal/infrastructure/kafka"
	minioInfra "github.com/Rafa-lopez12/examen-arqui/internal/infrastructure/minio"
	"github.com/Rafa-lopez12/examen-arqui/internal/infrastructure/payment"
	s3Repo "github.com/Rafa-lopez12/examen-arqui/internal/repository/minio"
	"github.com/Rafa-lopez12/examen-arqui/internal/repository/pgdb"
	pgdbConv "github.com/Rafa-lopez12/examen-arqui/internal/repository/pgdb/converter"
	"github.com/Rafa-lopez12/examen-arqui/internal/repository/redis"
	redisConv "github.com/Rafa-lopez12/examen-arqui/internal/repository/redis/converter"
	"github.com/Rafa-lopez12/examen-arqui/internal/usecase"
	"github.com/Rafa-lopez12/examen-arqui/pkg/clients"
	"github.com/Rafa-lopez12/examen-arqui/pkg/closer"
	"github.com/Rafa-lopez12/examen-arqui/pkg/e"
	"github.com/Rafa-lopez12/examen-arqui/pkg/logger"
	"github.com/Rafa-lopez12/examen-arqui/pkg/postgres"
	"github.com/Rafa-lopez12/examen-arqui/pkg/tr"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
)

const (
	shutdownTimeout     = 15 * time.Second
	topicTimeout        = 10 * time.Second
	healthCheckInterval = 10 * time.Second
)

// App owns every long lived component of the POS backend.
type App struct {
	cfg    *config.Config
	logger logger.Logger
	closer *closer.Closer

	httpSrv      *v1Http.Server
	grpcSrv      *v1Grpc.GRPCServer
	outboxWorker *kafka.OutboxWorker
	checks       []v1Grpc.DependencyCheck

	// image cleanup, outbox and health checks stop when bgCtx ends
	bgCtx context.Context
}

// NewApp connects to the backing services and wires the use cases. Anything
// opened before a failure is released again.
func NewApp(cfg *config.Config, logger logger.Logger) (_ *App, err error) {
	bgCtx, bgCancel := context.WithCancel(context.Background())
	a := &App{
		cfg:    cfg,
		logger: logger,
		closer: closer.NewCloser(5 * time.Second),
		bgCtx:  bgCtx,
	}
	defer func() {
		if err != nil {
			bgCancel()
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if cerr := a.closer.Close(ctx); cerr != nil {
				logger.Warnf("release after failed start: %v", cerr)
			}
		}
	}()

	pg, err := initPGDB(logger, cfg)
	if err != nil {
		return nil, err
	}
	a.closer.AddNamed("postgres", func(context.Context) error {
		pg.Close()
		return nil
	})

	redisClient := clients.NewRedisClient(cfg.Redis)
	a.closer.AddNamed("redis", func(context.Context) error { return redisClient.Close() })
	// runs after the image cleanup wait and before the connections close
	a.closer.AddNamed("background", func(context.Context) error {
		bgCancel()
		return nil
	})
	redisCtx, redisCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer redisCancel()
	if err := redisClient.Ping(redisCtx); err != nil {
		logger.Errorf(err, "failed to connect to redis")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	minioClient, err := clients.NewMinIOClient(cfg.Minio)
	if err != nil {
		logger.Errorf(err, "failed to initialize minio client")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	minioCtx, minioCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer minioCancel()
	if err := clients.EnsureBucket(minioCtx, minioClient, cfg.Minio.BucketName); err != nil {
		logger.Errorf(err, "failed to initialize MinIO bucket")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	producer, err := kafka.NewProducer(logger, cfg.Kafka)
	if err != nil {
		logger.Errorf(err, "failed to initialize kafka producer")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	a.closer.AddNamed("kafka producer", func(context.Context) error { return producer.Close() })
	if err := producer.EnsureTopic(topicTimeout); err != nil {
		// the outbox keeps events until the broker is back
		logger.Warnf("kafka topic check failed: %v", err)
	}

	// REPOSITORIES
	txManager := tr.NewManager(pg.Pool)

	categoryRepo := pgdb.NewCategoryRepo(pg.Pool, pgdbConv.NewCategoryConverterImpl())
	productRepo := pgdb.NewProductRepo(pg.Pool, pgdbConv.NewProductConverterImpl())
	customerRepo := pgdb.NewCustomerRepo(pg.Pool, pgdbConv.NewCustomerConverterImpl())
	orderRepo := pgdb.NewOrderRepo(pg.Pool, pgdbConv.NewOrderConverterImpl())
	paymentRepo := pgdb.NewPaymentRepo(pg.Pool, pgdbConv.NewPaymentConverterImpl())
	methodRepo := pgdb.NewPaymentMethodRepo(pg.Pool)
	outboxRepo := pgdb.NewOutboxEventRepo(pg.Pool, pgdbConv.NewOutboxEventConverterImpl())

	cacheRepo := redis.NewCacheRepo(redisClient, redisConv.NewProductConverterImpl(), cfg.Redis, logger)
	sessionRepo := redis.NewSessionRepo(redisClient, redisConv.NewSessionConverterImpl(), cfg.Redis)

	imageRepo := s3Repo.NewImageRepo(minioClient, cfg.Minio)
	imagesInfra := minioInfra.NewMinioInfrastructure(imageRepo, cfg.Minio, logger, bgCtx)
	a.closer.AddNamed("minio cleanup", imagesInfra.WaitForCleanup)

	gateway := payment.NewGateway(cfg.Payment, logger)

	// USE CASES
	catalogUC := usecase.NewCatalogUC(categoryRepo, productRepo, cacheRepo, imagesInfra, logger)
	customerUC := usecase.NewCustomerUC(customerRepo, orderRepo, logger)
	orderUC := usecase.NewOrderUC(orderRepo, productRepo, outboxRepo, cacheRepo, txManager, logger)
	paymentUC := usecase.NewPaymentUC(orderRepo, paymentRepo, methodRepo, outboxRepo, gateway, txManager, cfg.Payment.Currency, logger)
	checkoutUC := usecase.NewCheckoutUC(sessionRepo, customerRepo, productRepo, orderUC, paymentUC, logger)

	a.outboxWorker = kafka.NewOutboxWorker(
		outboxRepo,
		logger,
		producer,
		pg.Dsn,
		pgdb.OutboxChannel,
		cfg.Kafka.OutboxBatchSize,
	)

	// DELIVERY
	r := chi.NewRouter()
	v1Http.NewRouter(r, logger).Init(v1Http.Handlers{
		Catalog:  v1Http.NewCatalogHandler(catalogUC, logger),
		Customer: v1Http.NewCustomerHandler(customerUC, orderUC, logger),
		Checkout: v1Http.NewCheckoutHandler(checkoutUC, logger),
		Order:    v1Http.NewOrderHandler(orderUC, paymentUC, logger),
	}, cfg.Http.SwaggerURL)
	a.httpSrv = v1Http.NewServer(r, cfg.Http)

	a.grpcSrv = v1Grpc.NewGRPCServer(cfg.Grpc, logger)
	a.checks = []v1Grpc.DependencyCheck{
		{Name: "postgres", Ping: pg.Ping},
		{Name: "redis", Ping: redisClient.Ping},
	}

	return a, nil
}

// Run serves until SIGINT/SIGTERM or a server failure, then shuts down.
func (a *App) Run() error {
	a.outboxWorker.Start(a.bgCtx)
	a.closer.AddNamed("outbox worker", func(context.Context) error {
		a.outboxWorker.Stop()
		return nil
	})

	go a.grpcSrv.WatchDependencies(a.bgCtx, healthCheckInterval, a.checks...)

	grpcErrCh := make(chan error, 1)
	go func() {
		a.logger.Infof("gRPC server starting on %s:%s", a.cfg.Grpc.NetworkMode, a.cfg.Grpc.Port)
		if err := a.grpcSrv.Start(); err != nil {
			a.logger.Errorf(err, "gRPC server failed")
			grpcErrCh <- err
		}
	}()
	a.closer.AddNamed("grpc server", a.grpcSrv.Stop)

	errCh := make(chan error, 1)
	go func() {
		a.logger.Infof("HTTP server started on port %s", a.cfg.Http.Port)
		if err := a.httpSrv.Run(); err != nil {
			a.logger.Errorf(err, "HTTP server failed")
			errCh <- err
		}
	}()
	a.closer.AddNamed("http server", a.httpSrv.Stop)

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	var appErr error
	select {
	case appErr = <-errCh:
		a.logger.Errorf(appErr, "HTTP server fatal error")
	case appErr = <-grpcErrCh:
		a.logger.Errorf(appErr, "gRPC server fatal error")
	case <-shutdown:
		a.logger.Infof("received shutdown signal, stopping gracefully")
	}

	// servers first so no new work arrives, then workers, then connections
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.closer.Close(ctx); err != nil {
		a.logger.Warnf("%v", err)
	}

	a.logger.Infof("application shutdown complete")
	return appErr
}

func initPGDB(logger logger.Logger, cfg *config.Config) (*postgres.PgDatabase, error) {
	pg, err := postgres.Connect(cfg.Db)
	if err != nil {
		logger.Errorf(err, "failed to connect to database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := pg.RunMigrations(db.Migrations, "migrations", logger); err != nil {
		logger.Errorf(err, "failed to run migrations")
		pg.Close()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return pg, nil
}
