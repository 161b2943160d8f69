package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/datastore"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/locvowork/hr_analytics_sample/internal/config"
	"github.com/locvowork/hr_analytics_sample/internal/database"
	"github.com/locvowork/hr_analytics_sample/internal/domain"
	"github.com/locvowork/hr_analytics_sample/internal/export"
	"github.com/locvowork/hr_analytics_sample/internal/generator"
	"github.com/locvowork/hr_analytics_sample/internal/handler"
	"github.com/locvowork/hr_analytics_sample/internal/logger"
	"github.com/locvowork/hr_analytics_sample/internal/registry"
	"github.com/locvowork/hr_analytics_sample/internal/repository"
	"github.com/locvowork/hr_analytics_sample/internal/service"
	"github.com/locvowork/hr_analytics_sample/pkg/simpleexcel"
)

// Store drivers accepted in STORE_DRIVER.
const (
	DriverMemory    = "memory"
	DriverSQLite    = "sqlite"
	DriverPostgres  = "postgres"
	DriverDatastore = "datastore"
)

type App struct {
	Echo        *echo.Echo
	Store       domain.KeyValueStore
	DatasetRepo domain.DatasetRepository
	Datasets    *service.DatasetService
	Queries     *service.QueryService
}

func NewApp() *App {
	return &App{
		Echo: echo.New(),
	}
}

// Initialize wires storage, services and routes from the environment.
func (a *App) Initialize(ctx context.Context) error {
	if err := a.InitializeCore(ctx); err != nil {
		return err
	}
	cfg := config.DefaultEnvConfig

	if err := a.Queries.RestoreQueries(ctx, loadPresets(ctx, cfg.SAVED_QUERIES_FILE)); err != nil {
		logger.WarnLog(ctx, "failed to restore saved queries: %v", err)
	}

	if cfg.LOAD_ON_START {
		n, err := a.Datasets.LoadSaved(ctx)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			logger.InfoLog(ctx, "no saved dataset found")
		case err != nil:
			logger.WarnLog(ctx, "saved dataset not loaded: %v", err)
		default:
			logger.InfoLog(ctx, "loaded %d saved employees on start", n)
		}
	}

	a.RegisterMiddlewares()
	a.RegisterRoutes()
	return nil
}

// InitializeCore loads configuration and builds storage and services
// without touching HTTP. The seeder CLI stops here.
func (a *App) InitializeCore(ctx context.Context) error {
	if err := config.LoadEnvConfig(); err != nil {
		return fmt.Errorf("failed to load env config: %w", err)
	}
	cfg := config.DefaultEnvConfig

	logger.InitLogging(cfg.LOG_FILE_PATH, cfg.LOG_LEVEL)
	logger.InfoLog(ctx, "Environment variables loaded successfully")

	store, err := OpenStore(ctx, cfg.STORE_DRIVER)
	if err != nil {
		return fmt.Errorf("failed to initialize %s store: %w", cfg.STORE_DRIVER, err)
	}
	a.Store = store
	logger.InfoLog(ctx, "using %s store", cfg.STORE_DRIVER)

	var opts []service.DatasetOption
	opts = append(opts, service.WithDefaultCounts(cfg.GENERATE_DEFAULT_COUNT, cfg.SEED_DEFAULT_COUNT))
	if cfg.ELASTIC_URL != "" {
		indexer, err := database.NewElasticIndexer(database.ElasticConfig{
			URL:        cfg.ELASTIC_URL,
			Index:      cfg.ELASTIC_INDEX,
			BatchSize:  cfg.ELASTIC_BATCH_SIZE,
			Workers:    cfg.ELASTIC_WORKERS,
			MaxRetries: 2,
		})
		if err != nil {
			return err
		}
		opts = append(opts, service.WithIndexer(indexer))
	}

	a.DatasetRepo = repository.NewDatasetRepository(store, cfg.DATASET_KEY)
	a.Datasets = service.NewDatasetService(a.DatasetRepo, generator.New(), opts...)

	tmpl, err := loadTemplate(cfg.EXPORT_TEMPLATE_FILE)
	if err != nil {
		return err
	}
	a.Queries = service.NewQueryService(
		a.Datasets,
		registry.New(nil),
		repository.NewSavedQueryRepository(store, cfg.SAVED_QUERIES_KEY),
		export.NewExcelExporter(tmpl),
	)
	return nil
}

// OpenStore builds the key-value backend named by driver.
func OpenStore(ctx context.Context, driver string) (domain.KeyValueStore, error) {
	cfg := config.DefaultEnvConfig
	switch driver {
	case DriverMemory:
		return database.NewMemoryStore(), nil
	case DriverSQLite, "":
		return database.NewSQLiteStore(cfg.SQLITE_PATH)
	case DriverPostgres:
		db, err := database.NewPostgresDB(ctx, database.Config{
			Host:            cfg.DB_HOST,
			Port:            cfg.DB_PORT,
			User:            cfg.DB_USER,
			Password:        cfg.DB_PASSWORD,
			DBName:          cfg.DB_NAME,
			SSLMode:         cfg.DB_SSL_MODE,
			MaxOpenConns:    cfg.DB_MAX_OPEN_CONNS,
			MaxIdleConns:    cfg.DB_MAX_IDLE_CONNS,
			ConnMaxLifetime: cfg.DB_CONN_MAX_LIFETIME,
		})
		if err != nil {
			return nil, err
		}
		store, err := database.NewPostgresStore(db, cfg.KV_TABLE, cfg.KV_CACHE_SIZE)
		if err != nil {
			db.Close()
			return nil, err
		}
		if err := store.CreateTable(ctx); err != nil {
			store.Close()
			return nil, err
		}
		return store, nil
	case DriverDatastore:
		client, err := datastore.NewClient(ctx, cfg.DATASTORE_PROJECT_ID)
		if err != nil {
			return nil, fmt.Errorf("failed to create datastore client: %w", err)
		}
		return database.NewDatastoreStore(client, cfg.DATASTORE_KIND), nil
	default:
		return nil, &domain.ValidationError{Field: "STORE_DRIVER", Message: fmt.Sprintf("unknown driver %q", driver)}
	}
}

func loadPresets(ctx context.Context, path string) []domain.SavedQuery {
	if path == "" {
		return nil
	}
	presets, err := registry.LoadPresetFile(path)
	if err != nil {
		logger.WarnLog(ctx, "ignoring saved query presets: %v", err)
		return nil
	}
	return presets
}

func loadTemplate(path string) (*simpleexcel.ReportTemplate, error) {
	if path == "" {
		return nil, nil
	}
	tmpl, err := simpleexcel.LoadTemplate(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load export template: %w", err)
	}
	return tmpl, nil
}

func (a *App) RegisterMiddlewares() {
	a.Echo.Use(middleware.Logger())
	a.Echo.Use(middleware.Recover())
	a.Echo.Use(middleware.CORS())
}

func (a *App) RegisterRoutes() {
	handler.RegisterRoutes(a.Echo,
		handler.NewDatasetHandler(a.Datasets),
		handler.NewQueryHandler(a.Queries),
		handler.NewDashboardHandler(a.Queries),
	)
}

func (a *App) Run() error {
	defer a.Close()
	return a.Echo.Start(":" + config.DefaultEnvConfig.APP_PORT)
}

// Close waits for pending index runs and releases the store.
func (a *App) Close() error {
	if a.Datasets != nil {
		a.Datasets.WaitIndexing()
	}
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}
