package bootstrap

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	authinadapter "lectern/internal/modules/auth/adapter/in"
	authoutadapter "lectern/internal/modules/auth/adapter/out"
	authservice "lectern/internal/modules/auth/service"
	authusecase "lectern/internal/modules/auth/usecase"
	libraryinadapter "lectern/internal/modules/library/adapter/in"
	libraryoutadapter "lectern/internal/modules/library/adapter/out"
	libraryservice "lectern/internal/modules/library/service"
	libraryusecase "lectern/internal/modules/library/usecase"
	prefinadapter "lectern/internal/modules/preferences/adapter/in"
	prefoutadapter "lectern/internal/modules/preferences/adapter/out"
	prefservice "lectern/internal/modules/preferences/service"
	prefusecase "lectern/internal/modules/preferences/usecase"
	readerinadapter "lectern/internal/modules/reader/adapter/in"
	readeroutadapter "lectern/internal/modules/reader/adapter/out"
	readerservice "lectern/internal/modules/reader/service"
	readerusecase "lectern/internal/modules/reader/usecase"
	"lectern/internal/platform/apiclient"
	"lectern/internal/platform/clock"
	"lectern/internal/platform/config"
	"lectern/internal/platform/id"
	"lectern/internal/platform/kvstore"
	"lectern/internal/platform/logging"
	uiapp "lectern/internal/ui/app"
)

type App struct {
	Config config.Config
	Log    *slog.Logger

	AuthCLI        authinadapter.CLIHandler
	LibraryCLI     libraryinadapter.CLIHandler
	ReaderCLI      readerinadapter.CLIHandler
	ReaderTUI      readerinadapter.TUIHandler
	PreferencesCLI prefinadapter.CLIHandler
	PreferencesTUI prefinadapter.TUIHandler

	closers []io.Closer
}

func New(cfg config.Config) (*App, error) {
	log, logCloser, err := logging.OpenFile(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	app := &App{Config: cfg, Log: log, closers: []io.Closer{logCloser}}

	store, err := kvstore.Open(cfg.DBPath)
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("open local store: %w", err)
	}
	app.closers = append([]io.Closer{store}, app.closers...)

	clk := clock.SystemClock{}
	tokens := authoutadapter.NewKVTokenStore(store)
	client, err := apiclient.New(apiclient.Options{
		BaseURL:   cfg.API.BaseURL,
		Timeout:   cfg.API.Timeout,
		RateLimit: cfg.API.RateLimit,
		Tokens:    tokens,
		IDs:       id.UUID{},
		Log:       log.With("component", "api"),
	})
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("new api client: %w", err)
	}

	authUC := authusecase.NewInteractor(authservice.NewAuthService(
		clk,
		authoutadapter.NewHTTPAuthAPI(client),
		tokens,
		authoutadapter.NewJWTInspector(),
		authoutadapter.NewOSBrowserLauncher(),
	))

	readerUC := readerusecase.NewInteractor(readerservice.NewReaderService(
		readeroutadapter.NewHTTPContentAPI(client),
		readeroutadapter.NewKVProgressStore(store),
		readeroutadapter.NewTimerPacer(),
		clk,
		cfg.Reader.SectionWords,
		log.With("component", "reader"),
	))

	bookIndex, err := libraryoutadapter.NewSQLiteBookIndex(store.DB())
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("new book index: %w", err)
	}
	libraryUC := libraryusecase.NewInteractor(
		libraryservice.NewLibraryService(
			libraryoutadapter.NewHTTPBookAPI(client),
			bookIndex,
			libraryoutadapter.NewLocalPDFInspector(),
			libraryoutadapter.NewGocronPoller(),
			libraryoutadapter.NewXLSXReportWriter(),
			log.With("component", "library"),
		),
		libraryoutadapter.NewReaderProgressLookup(readerUC),
	)

	prefUC := prefusecase.NewInteractor(prefservice.NewPreferencesService(
		prefoutadapter.NewKVThemeStore(store),
		prefoutadapter.NewYAMLThemeCodec(),
		log.With("component", "preferences"),
	))

	app.AuthCLI = authinadapter.NewCLIHandler(authUC)
	app.LibraryCLI = libraryinadapter.NewCLIHandler(libraryUC)
	app.ReaderCLI = readerinadapter.NewCLIHandler(readerUC)
	app.ReaderTUI = readerinadapter.NewTUIHandler(readerUC)
	app.PreferencesCLI = prefinadapter.NewCLIHandler(prefUC)
	app.PreferencesTUI = prefinadapter.NewTUIHandler(prefUC)
	log.Debug("lectern started", "api", cfg.API.BaseURL, "db", cfg.DBPath)
	return app, nil
}

// Close releases the local store, then the log file.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func RunTUI(app *App) error {
	model := uiapp.NewModel(app.AuthCLI, app.LibraryCLI, app.ReaderTUI, app.PreferencesTUI, app.Config.Library.PollInterval)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
