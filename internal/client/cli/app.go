package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/dmitrijs2005/jarcover/internal/client/client"
	"github.com/dmitrijs2005/jarcover/internal/client/config"
	"github.com/dmitrijs2005/jarcover/internal/client/features/app"
	"github.com/dmitrijs2005/jarcover/internal/client/features/campaigns"
	"github.com/dmitrijs2005/jarcover/internal/client/features/details"
	"github.com/dmitrijs2005/jarcover/internal/client/features/templates"
	"github.com/dmitrijs2005/jarcover/internal/client/models"
	"github.com/dmitrijs2005/jarcover/internal/client/money"
	"github.com/dmitrijs2005/jarcover/internal/client/repositories/blobs"
	"github.com/dmitrijs2005/jarcover/internal/client/services"
	"github.com/dmitrijs2005/jarcover/internal/client/store"
	"github.com/dmitrijs2005/jarcover/internal/filex"
	"github.com/dmitrijs2005/jarcover/internal/logging"
	"github.com/google/uuid"
)

// AppStore is the root store the REPL drives.
type AppStore = store.Store[app.State, app.Action]

type App struct {
	store     *AppStore
	format    money.Format
	container models.Size
	logger    logging.Logger

	in  io.Reader
	out io.Writer
	mu  sync.Mutex

	// lastAlert is touched only by the store observer.
	lastAlert *details.Alert

	closers []func() error
}

// NewApp builds storage, collaborators and the root store from c.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	format, err := money.NewFormat(c.Locale, c.Currency)
	if err != nil {
		return nil, err
	}

	dataDir, err := filex.EnsureDir(c.DataDir)
	if err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}

	var closers []func() error
	var blobRepo blobs.Repository
	switch c.StorageDriver {
	case config.StorageSQLite:
		var db *sql.DB
		dbPath := c.DatabasePath()
		db, err = client.InitDatabase(ctx, dbPath)
		if err != nil {
			logger.Error(ctx, "error initializing database", "path", dbPath, "error", err)
			return nil, err
		}
		closers = append(closers, db.Close)
		blobRepo = blobs.NewSQLiteRepository(db)
	default:
		blobRepo, err = blobs.NewFileRepository(dataDir)
		if err != nil {
			return nil, err
		}
	}

	library, err := newLibrary(ctx, c)
	if err != nil {
		return nil, err
	}

	repo := services.NewCampaignRepository(blobRepo, logger.With("component", "repository"))

	detailsFeature := &details.Feature{
		Renderer: services.NewRenderer(),
		Library:  library,
		Settings: services.LogSettingsOpener{
			Logger: logger,
			Hint:   "grant write access to the cover library and save again",
		},
		Images:        services.FileImageLoader{},
		Format:        format,
		Catalog:       templates.Catalog(),
		RenderTimeout: c.RenderTimeout,
		Logger:        logger.With("feature", "details"),
	}

	root := &app.Feature{
		List: &campaigns.Feature{
			Details:     detailsFeature,
			Jars:        client.NewHTTPJarClient(c.JarEndpoint, c.JarTimeout, c.JarRPS, logger.With("component", "jar")),
			Repo:        repo,
			Clock:       store.RealClock(),
			NewID:       uuid.New,
			Debounce:    c.SaveDebounce,
			JarTimeout:  c.JarTimeout,
			Concurrency: c.JarConcurrency,
			Logger:      logger.With("feature", "campaigns"),
		},
		Details: detailsFeature,
	}

	st := store.New(app.NewState(repo.Load(ctx)), root.Reduce,
		store.WithLogger(logger), store.WithContext(ctx))

	a := newApp(st, format, models.Size{Width: float64(c.PreviewSize), Height: float64(c.PreviewSize)}, logger)
	a.closers = closers
	return a, nil
}

func newLibrary(ctx context.Context, c *config.Config) (details.PhotoLibrary, error) {
	if c.S3Bucket != "" {
		s3c, err := services.NewS3Client(ctx, services.S3Config{
			Bucket:    c.S3Bucket,
			Region:    c.S3Region,
			Endpoint:  c.S3Endpoint,
			AccessKey: c.S3AccessKey,
			SecretKey: c.S3SecretKey,
		})
		if err != nil {
			return nil, err
		}
		return services.NewS3Library(s3c, c.S3Bucket), nil
	}

	dir, err := filex.EnsureDir(c.LibraryDir)
	if err != nil {
		return nil, fmt.Errorf("library dir: %w", err)
	}
	return services.NewDirectoryLibrary(dir), nil
}

func newApp(st *AppStore, format money.Format, container models.Size, logger logging.Logger) *App {
	if logger == nil {
		logger = logging.Discard()
	}
	a := &App{
		store:     st,
		format:    format,
		container: container,
		logger:    logger,
		in:        os.Stdin,
		out:       os.Stdout,
	}
	st.Observe(a.notify)
	return a
}

// Run starts the jar refresh, runs the REPL until exit and then shuts the
// store down, writing any unsaved campaigns first.
func (a *App) Run(ctx context.Context) {
	defer a.shutdown(ctx)

	a.printf("Welcome to jarcover (type 'help' for commands)\n")
	a.store.Send(app.List{Action: campaigns.InitialLoad{}})
	a.printScreen()

	var prompt func() string
	if f, ok := a.in.(*os.File); ok && isTerminal(int(f.Fd())) {
		prompt = a.prompt
	}
	runREPL(ctx, a, prompt, bufio.NewScanner(a.in))
}

func (a *App) shutdown(ctx context.Context) {
	a.store.Send(app.List{Action: campaigns.Flush{}})
	a.store.Wait()
	a.store.Close()

	for _, c := range a.closers {
		if err := c(); err != nil {
			a.logger.Warn(ctx, "close failed", "error", err)
		}
	}
}

func (a *App) printf(format string, args ...any) {
	a.mu.Lock()
	defer a.mu.Unlock()
	fmt.Fprintf(a.out, format, args...)
}
