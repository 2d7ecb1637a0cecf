package app

import (
	"context"
	"errors"
	"io"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/doeshing/alex-go/internal/application/analyze"
	"github.com/doeshing/alex-go/internal/application/assist"
	"github.com/doeshing/alex-go/internal/application/diagnose"
	"github.com/doeshing/alex-go/internal/application/doctor"
	"github.com/doeshing/alex-go/internal/application/gate"
	"github.com/doeshing/alex-go/internal/application/resolve"
	"github.com/doeshing/alex-go/internal/domain"
	"github.com/doeshing/alex-go/internal/infrastructure/ai"
	"github.com/doeshing/alex-go/internal/infrastructure/config"
	contextcollector "github.com/doeshing/alex-go/internal/infrastructure/context"
	"github.com/doeshing/alex-go/internal/infrastructure/credentials"
	"github.com/doeshing/alex-go/internal/infrastructure/errorlog"
	"github.com/doeshing/alex-go/internal/infrastructure/executor"
	"github.com/doeshing/alex-go/internal/infrastructure/history"
	"github.com/doeshing/alex-go/internal/infrastructure/security"
	"github.com/doeshing/alex-go/internal/infrastructure/shell"
	"github.com/doeshing/alex-go/internal/infrastructure/systemd"
	"github.com/doeshing/alex-go/internal/pkg/filesystem"
	"github.com/doeshing/alex-go/internal/pkg/logger"
	"github.com/doeshing/alex-go/internal/ports"
)

// Options are the process-level switches that shape the graph.
type Options struct {
	Debug      bool
	ConfigPath string
	LogOutput  io.Writer
	// DecorateEngine wraps the reasoning engine, e.g. with a spinner.
	DecorateEngine func(ports.ReasoningEngine) ports.ReasoningEngine
}

// Container wires up application services with infrastructure adapters.
type Container struct {
	Config       domain.Config
	Logger       zerolog.Logger
	ConfigLoader *config.FileLoader
	Credentials  *credentials.Store
	Executor     *executor.LocalExecutor
	Blacklist    *security.Blacklist
	Shell        *shell.Installer
	ErrorLog     *errorlog.Log
	// HistoryStore is nil when history is disabled.
	HistoryStore ports.HistoryRepository
	Gate         *gate.Policy

	AssistService   *assist.Service
	DiagnoseService *diagnose.Service
	AnalyzeService  *analyze.Service
	DoctorService   *doctor.Service

	closers []io.Closer
}

// BuildContainer constructs the dependency graph. Nothing here talks to the
// network; missing credentials surface only when a command needs them.
func BuildContainer(ctx context.Context, opts Options) (*Container, error) {
	bootLog := logger.New(logger.Options{Debug: opts.Debug, Output: opts.LogOutput})
	cfgLoader := config.NewFileLoader(opts.ConfigPath, bootLog)
	cfg, err := cfgLoader.Load(ctx)
	if err != nil {
		return nil, err
	}
	log := logger.New(logger.Options{Debug: opts.Debug, Verbose: cfg.Verbose, Output: opts.LogOutput})

	c := &Container{Config: cfg, Logger: log, ConfigLoader: cfgLoader}

	c.Credentials = credentials.NewStore(cfg.GetAuthEnvVar(), filepath.Join(filepath.Dir(cfgLoader.Path()), credentials.KeyFileName))
	c.Executor = executor.NewLocalExecutor(cfg.GetShell(), cfg.GetCommandTimeout(), log)

	c.Blacklist, err = security.LoadBlacklist(cfg.Security.RulesFile)
	if err != nil {
		log.Warn().Err(err).Str("path", cfg.Security.RulesFile).Msg("ignoring extra blacklist rules")
		if c.Blacklist, err = security.NewBlacklist(); err != nil {
			return nil, err
		}
	}

	sysinfo := contextcollector.NewHostCollector(log)
	var engine ports.ReasoningEngine
	engine, err = ai.NewHTTPEngine(ai.OptionsFromConfig(cfg), nil, c.Credentials, sysinfo, log)
	if err != nil {
		return nil, err
	}
	if opts.DecorateEngine != nil {
		engine = opts.DecorateEngine(engine)
	}

	c.ErrorLog = errorlog.New(cfg.ErrorLog)
	c.Shell = shell.NewInstaller(filesystem.UserHomeDir(), filepath.Join(filepath.Dir(cfgLoader.Path()), "hooks"), cfg.ErrorLog, log)
	c.HistoryStore = c.openHistory(cfg)

	c.Gate = &gate.Policy{Classifier: c.Blacklist, Logger: log}

	resolver := &resolve.Service{
		Units:          systemd.NewUnitLister(c.Executor),
		MaxSuggestions: domain.DefaultMaxSuggestions,
		Logger:         log,
	}

	c.AssistService = &assist.Service{
		Engine:   engine,
		Executor: c.Executor,
		Gate:     c.Gate,
		History:  c.HistoryStore,
		Logger:   log,
	}
	c.DiagnoseService = &diagnose.Service{
		Resolver:    resolver,
		Executor:    c.Executor,
		Engine:      engine,
		Gate:        c.Gate,
		History:     c.HistoryStore,
		Logger:      log,
		OutputLimit: cfg.GetOutputLimit(),
	}
	c.AnalyzeService = &analyze.Service{
		Engine: engine,
		Log:    c.ErrorLog,
		Logger: log,
	}
	c.DoctorService = &doctor.Service{
		ConfigPath:  cfgLoader.Path(),
		AuthEnvVar:  cfg.GetAuthEnvVar(),
		Credentials: c.Credentials,
		Shell:       c.Shell,
		System:      sysinfo,
		Executor:    c.Executor,
		Logger:      log,
	}
	return c, nil
}

// SetPresenter routes service output to p.
func (c *Container) SetPresenter(p ports.Presenter) {
	c.AssistService.Presenter = p
	c.DiagnoseService.Presenter = p
}

// SetPrompter routes confirmations to p.
func (c *Container) SetPrompter(p ports.ConfirmationPrompter) {
	c.Gate.Prompter = p
}

// Close releases the history database.
func (c *Container) Close() error {
	var errs []error
	for _, cl := range c.closers {
		errs = append(errs, cl.Close())
	}
	return errors.Join(errs...)
}

func (c *Container) openHistory(cfg domain.Config) ports.HistoryRepository {
	if !cfg.History.Enabled {
		return nil
	}
	store, err := history.OpenSQLiteStore(cfg.History.Path)
	if err == nil {
		c.closers = append(c.closers, store)
		return store
	}
	fallback := cfg.History.Path + ".jsonl"
	c.Logger.Warn().Err(err).Str("fallback", fallback).Msg("sqlite history unavailable, using jsonl")
	return history.NewFileStore(fallback)
}
