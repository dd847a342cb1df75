package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Gobusters/ectoenv"
	"github.com/Gobusters/ectoinject"
	"github.com/Gobusters/ectoinject/ectocontainer"
	"github.com/Gobusters/ectologger"
	"github.com/Gobusters/ectologger/zapadapter"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Ramsey-B/aster/config"
	"github.com/Ramsey-B/aster/internal/repositories/dataset"
	"github.com/Ramsey-B/aster/internal/repositories/datasetentry"
	"github.com/Ramsey-B/aster/pkg/database"
	"github.com/Ramsey-B/aster/pkg/geography"
	asterkafka "github.com/Ramsey-B/aster/pkg/kafka"
	"github.com/Ramsey-B/aster/pkg/matching"
	"github.com/Ramsey-B/aster/pkg/middleware"
	"github.com/Ramsey-B/aster/pkg/redis"
	cacheroutes "github.com/Ramsey-B/aster/pkg/routes/cache"
	datasetroutes "github.com/Ramsey-B/aster/pkg/routes/datasets"
	diagnosticsroutes "github.com/Ramsey-B/aster/pkg/routes/diagnostics"
	"github.com/Ramsey-B/aster/pkg/routes/health"
	matchroutes "github.com/Ramsey-B/aster/pkg/routes/match"
	"github.com/Ramsey-B/aster/pkg/startup"
	"github.com/Ramsey-B/aster/pkg/tracing"
)

func main() {
	_ = godotenv.Load()

	var cfg config.Config
	if err := ectoenv.BindEnv(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := buildLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}

	container, err := ectoinject.NewDIDefaultContainer()
	if err != nil {
		logger.WithError(err).Error("Failed to create DI container")
		os.Exit(1)
	}

	app := &application{cfg: cfg, logger: logger, container: container}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	boot := startup.NewStartup(logger, cfg.StartupMaxAttempts)
	boot.AddDependency(&dependency{name: "tracing", start: app.startTracing, stop: app.stopTracing})
	boot.AddDependency(&dependency{name: "database", start: app.startDatabase, stop: app.stopDatabase})
	boot.AddDependency(&dependency{name: "migrations", dependsOn: []string{"database"}, start: app.runMigrations})

	engineDeps := []string{"migrations"}
	if cfg.CacheBackend == "redis" {
		boot.AddDependency(&dependency{name: "redis", start: app.startRedis, stop: app.stopRedis})
		engineDeps = append(engineDeps, "redis")
	}
	boot.AddDependency(&dependency{name: "engine", dependsOn: engineDeps, start: app.startEngine})

	if cfg.KafkaConsumerEnabled {
		boot.AddDependency(&dependency{name: "kafka-consumer", dependsOn: []string{"engine"}, start: app.startConsumer, stop: app.stopConsumer})
	}
	boot.AddDependency(&dependency{name: "http-server", dependsOn: []string{"engine"}, start: app.startHTTP, stop: app.stopHTTP})

	if err := boot.Start(ctx); err != nil {
		logger.WithError(err).Error("Startup failed")
		os.Exit(1)
	}

	app.checker.SetReady(true)
	logger.Infof("%s %s ready on port %d", cfg.AppName, cfg.AppVersion, cfg.Port)

	<-ctx.Done()
	logger.Info("Shutdown signal received")

	app.checker.SetReady(false)

	stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := boot.Stop(stopCtx); err != nil {
		logger.WithError(err).Error("Shutdown finished with errors")
		os.Exit(1)
	}
}

// application holds everything the startup dependencies construct.
type application struct {
	cfg       config.Config
	logger    ectologger.Logger
	container ectocontainer.DIContainer

	sqlxDB          *sqlx.DB
	db              database.DB
	redis           *redis.Client
	engine          *matching.Engine
	consumer        *asterkafka.Consumer
	echo            *echo.Echo
	checker         *health.Checker
	shutdownTracing func(context.Context) error
}

// dependency adapts plain start/stop funcs to the startup interface.
type dependency struct {
	name      string
	dependsOn []string
	start     func(ctx context.Context) error
	stop      func(ctx context.Context) error
}

func (d *dependency) GetName() string     { return d.name }
func (d *dependency) DependsOn() []string { return d.dependsOn }

func (d *dependency) Start(ctx context.Context) error {
	if d.start == nil {
		return nil
	}
	return d.start(ctx)
}

func (d *dependency) Stop(ctx context.Context) error {
	if d.stop == nil {
		return nil
	}
	return d.stop(ctx)
}

func buildLogger(cfg config.Config) (ectologger.Logger, error) {
	zapCfg := zap.NewProductionConfig()
	if cfg.PrettyLogs {
		zapCfg = zap.NewDevelopmentConfig()
	}
	if level, err := zapcore.ParseLevel(cfg.LogLevel); err == nil {
		zapCfg.Level = zap.NewAtomicLevelAt(level)
	}

	zapLogger, err := zapCfg.Build()
	if err != nil {
		return nil, err
	}

	return zapadapter.NewZapEctoLogger(zapLogger, nil), nil
}

func (a *application) startTracing(ctx context.Context) error {
	if !a.cfg.OTLPEnabled {
		a.logger.Info("OTLP tracing disabled")
		return nil
	}

	shutdown, err := tracing.InitProvider(ctx, tracing.ProviderConfig{
		ServiceName:    a.cfg.AppName,
		ServiceVersion: a.cfg.AppVersion,
		Environment:    a.cfg.Environment,
		Endpoint:       a.cfg.OTLPEndpoint,
		Protocol:       a.cfg.OTLPProtocol,
		Insecure:       a.cfg.OTLPInsecure,
	})
	if err != nil {
		return err
	}

	a.shutdownTracing = shutdown
	a.logger.Infof("OTLP tracing enabled (%s via %s)", a.cfg.OTLPEndpoint, a.cfg.OTLPProtocol)
	return nil
}

func (a *application) stopTracing(ctx context.Context) error {
	if a.shutdownTracing == nil {
		return nil
	}
	return a.shutdownTracing(ctx)
}

func (a *application) startDatabase(ctx context.Context) error {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		a.cfg.DatabaseHost, a.cfg.DatabasePort, a.cfg.DatabaseUserName,
		a.cfg.DatabasePassword, a.cfg.DatabaseName, a.cfg.DatabaseSSLMode,
	)

	sqlxDB, err := sqlx.ConnectContext(ctx, a.cfg.DatabaseDriver, dsn)
	if err != nil {
		return err
	}

	sqlxDB.SetMaxOpenConns(a.cfg.DatabaseMaxOpenConns)
	sqlxDB.SetMaxIdleConns(a.cfg.DatabaseMaxIdleConns)
	sqlxDB.SetConnMaxLifetime(a.cfg.DatabaseConnMaxLifetime)

	a.sqlxDB = sqlxDB
	a.db = database.NewDatabaseInstance(sqlxDB, a.logger)
	a.logger.Infof("Connected to database %s at %s:%s", a.cfg.DatabaseName, a.cfg.DatabaseHost, a.cfg.DatabasePort)
	return nil
}

func (a *application) stopDatabase(ctx context.Context) error {
	return a.db.Close()
}

func (a *application) runMigrations(ctx context.Context) error {
	driver, err := migratepg.WithInstance(a.sqlxDB.DB, &migratepg.Config{})
	if err != nil {
		return err
	}

	migrationService := database.NewMigrationService(a.logger, &database.MigrationConfig{
		MigrationFolderPath: a.cfg.DatabaseMigrationFolderPath,
		Version:             uint(a.cfg.DatabaseMigrationVersion),
		Force:               a.cfg.DatabaseMigrationForce,
		AutoRollback:        a.cfg.DatabaseMigrationAutoRollback,
	})

	return migrationService.Migrate(a.cfg.DatabaseName, driver)
}

func (a *application) startRedis(ctx context.Context) error {
	client, err := redis.NewClient(redis.Config{
		Host:     a.cfg.RedisHost,
		Port:     a.cfg.RedisPort,
		Password: a.cfg.RedisPassword,
		DB:       a.cfg.RedisDB,
	}, a.logger)
	if err != nil {
		return err
	}

	a.redis = client
	return nil
}

func (a *application) stopRedis(ctx context.Context) error {
	return a.redis.Close()
}

func (a *application) startEngine(ctx context.Context) error {
	rules, found, err := config.LoadRules(a.cfg.RulesFilePath)
	if err != nil {
		return err
	}
	if found {
		a.logger.Infof("Loaded matching rules from %s", a.cfg.RulesFilePath)
	} else {
		a.logger.Warnf("Rules file %s not found, using built-in defaults", a.cfg.RulesFilePath)
	}

	var store matching.Store
	if a.cfg.CacheBackend == "redis" {
		store = matching.NewRedisStore(a.redis, a.logger, rules.CacheMaxEntries, rules.CacheTTL)
	} else {
		store = matching.NewMemoryStore(rules.CacheMaxEntries, rules.CacheTTL)
	}

	holder, err := matching.NewConfigHolder(rules, geography.NewResolver(), store, a.logger)
	if err != nil {
		return err
	}

	datasetRepo := dataset.NewRepository(a.db, a.logger)
	entryRepo := datasetentry.NewRepository(a.db, a.logger)
	a.engine = matching.NewEngine(entryRepo, store, holder, a.logger)

	if err := a.registerDependencies(datasetRepo, entryRepo); err != nil {
		return err
	}

	// Prime the cache in the background so startup never blocks on scoring.
	if len(rules.WarmupQueries) > 0 {
		go a.engine.Warmup(context.Background(), nil)
	}

	return nil
}

func (a *application) registerDependencies(datasetRepo *dataset.Repository, entryRepo *datasetentry.Repository) error {
	if err := ectoinject.RegisterInstance[ectologger.Logger](a.container, a.logger); err != nil {
		return err
	}
	if err := ectoinject.RegisterInstance[database.DB](a.container, a.db); err != nil {
		return err
	}
	if err := ectoinject.RegisterInstance[*dataset.Repository](a.container, datasetRepo); err != nil {
		return err
	}
	if err := ectoinject.RegisterInstance[*datasetentry.Repository](a.container, entryRepo); err != nil {
		return err
	}
	return ectoinject.RegisterInstance[*matching.Engine](a.container, a.engine)
}

func (a *application) startConsumer(ctx context.Context) error {
	consumerCfg := asterkafka.DefaultConsumerConfig()
	consumerCfg.Brokers = a.cfg.KafkaBrokers
	consumerCfg.Topic = a.cfg.KafkaDatasetEventsTopic
	consumerCfg.GroupID = a.cfg.KafkaConsumerGroup

	consumer, err := asterkafka.NewConsumer(consumerCfg, a.logger)
	if err != nil {
		return err
	}

	a.consumer = consumer
	handler := asterkafka.NewCacheInvalidationHandler(a.engine, a.logger)
	return consumer.Start(ctx, handler)
}

func (a *application) stopConsumer(ctx context.Context) error {
	return a.consumer.Stop()
}

func (a *application) startHTTP(ctx context.Context) error {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Server.ReadTimeout = time.Duration(a.cfg.HttpServerReadTimeoutSeconds) * time.Second
	e.Server.WriteTimeout = time.Duration(a.cfg.HttpServerWriteTimeoutSeconds) * time.Second
	e.Server.IdleTimeout = time.Duration(a.cfg.HttpServerIdleTimeoutSeconds) * time.Second
	e.Server.ReadHeaderTimeout = time.Duration(a.cfg.ReadHeaderTimeoutSeconds) * time.Second
	e.Server.MaxHeaderBytes = a.cfg.MaxHeaderBytes

	e.HTTPErrorHandler = middleware.Error(a.logger)

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: a.cfg.AllowOrigins,
		AllowMethods: a.cfg.AllowMethods,
	}))
	e.Use(otelecho.Middleware(a.cfg.AppName))
	e.Use(middleware.Context())
	e.Use(middleware.Logger(a.logger))

	var redisPinger health.Pinger
	if a.redis != nil {
		redisPinger = a.redis
	}
	a.checker = health.NewChecker(a.db, redisPinger, a.cfg.AppVersion)
	a.checker.RegisterRoutes(e)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api/v1")
	if a.cfg.AuthEnabled {
		auth, err := middleware.Authentication(ctx, a.logger, a.cfg.AuthIssuerURL, a.cfg.AuthClientID)
		if err != nil {
			return err
		}
		api.Use(auth)
	}

	matchroutes.Register(api.Group("/match"))
	cacheroutes.Register(api.Group("/cache"))
	diagnosticsroutes.Register(api.Group("/diagnostics"))
	datasetroutes.Register(api.Group("/datasets"))

	a.echo = e

	go func() {
		if err := e.Start(fmt.Sprintf(":%d", a.cfg.Port)); err != nil && err != http.ErrServerClosed {
			a.logger.WithError(err).Error("HTTP server stopped unexpectedly")
		}
	}()

	return nil
}

func (a *application) stopHTTP(ctx context.Context) error {
	return a.echo.Shutdown(ctx)
}
