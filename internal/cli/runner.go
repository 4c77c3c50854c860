// Package cli is the ucc command line: task commands over the shared store
// plus the interactive board.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/idilsaglam/ucc/internal/board"
	"github.com/idilsaglam/ucc/internal/config"
	"github.com/idilsaglam/ucc/internal/model"
	"github.com/idilsaglam/ucc/internal/persist"
	"github.com/idilsaglam/ucc/internal/store/kv"
	"github.com/idilsaglam/ucc/internal/ui"
)

// usageError marks a bad invocation; it exits 2 like validation failures.
type usageError struct{ msg string }

func (e *usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

// errSilent exits 2 without printing anything further.
var errSilent = &usageError{}

// app carries global flags and the lazily opened store for one invocation.
type app struct {
	team    bool
	backend string
	dataDir string
	theme   string
	debug   bool

	cfg     *config.Config
	logger  *log.Logger
	logFile *os.File
	kv      kv.Store
	store   *board.Store
}

// Run executes one ucc invocation and returns its exit code
// (0 ok, 1 runtime error, 2 usage or validation error).
func Run(args []string) int {
	a := &app{}
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetOut(ui.Stdout)
	root.SetErr(ui.Stderr)

	err := root.ExecuteContext(context.Background())
	a.close()

	code := exitCode(err)
	if err != nil && err.Error() != "" {
		ui.Fail(err.Error())
		if code == 2 {
			ui.Hint("run `ucc --help` for usage")
		}
	}
	return code
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var uerr *usageError
	var verr *model.ValidationError
	switch {
	case errors.As(err, &uerr), errors.As(err, &verr),
		errors.Is(err, model.ErrUnknownField), errors.Is(err, model.ErrInvalidDate),
		strings.HasPrefix(err.Error(), "unknown command"),
		strings.HasPrefix(err.Error(), "unknown flag"):
		return 2
	}
	return 1
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "ucc",
		Short:         "ucc - Uncommon Command Center, a personal and team kanban board",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_ = cmd.Help()
			return errSilent
		},
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{msg: err.Error()}
	})

	pf := root.PersistentFlags()
	pf.BoolVar(&a.team, "team", false, "operate on the team board")
	pf.StringVar(&a.backend, "backend", "", "storage backend: file, sqlite, redis or memory")
	pf.StringVar(&a.dataDir, "data-dir", "", "directory for board data (default ~/.ucc)")
	pf.StringVar(&a.theme, "theme", "", "output theme: classic, neon or mono")
	pf.BoolVar(&a.debug, "debug", false, "verbose logging")

	root.AddCommand(
		a.addCmd(),
		a.lsCmd(),
		a.showCmd(),
		a.mvCmd(),
		a.doneCmd(),
		a.editCmd(),
		a.commentCmd(),
		a.columnsCmd(),
		a.projectsCmd(),
		a.exportCmd(),
		a.boardCmd(),
	)
	return root
}

// open loads config, applies flag overrides and loads the store. Commands
// call it first so `ucc --help` never touches storage.
func (a *app) open(ctx context.Context) (*board.Store, error) {
	if a.store != nil {
		return a.store, nil
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if a.backend != "" {
		cfg.Storage.Backend = a.backend
	}
	if a.dataDir != "" {
		cfg.DataDir = a.dataDir
	}
	if a.theme != "" {
		cfg.Theme = a.theme
	}
	cfg.Debug = cfg.Debug || a.debug
	if err := cfg.Validate(); err != nil {
		return nil, &usageError{msg: err.Error()}
	}
	a.cfg = cfg

	if !ui.SetTheme(cfg.Theme) {
		ui.Hint(fmt.Sprintf("unknown theme %q, using classic", cfg.Theme))
	}

	if a.logger == nil {
		a.logger = log.New()
		a.logger.SetOutput(ui.Stderr)
		a.logger.SetLevel(log.WarnLevel)
	}
	if cfg.Debug {
		a.logger.SetLevel(log.DebugLevel)
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}
	store, err := kv.Open(ctx, cfg.KVOptions())
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	a.kv = store

	delay, _ := cfg.SaveDelay()
	a.store = board.New(persist.NewRepository(store), board.Options{
		SaveDelay:      delay,
		AuthorName:     cfg.Author.Name,
		AuthorInitials: cfg.Author.Initials,
		Logger:         a.logger,
	})
	a.store.Load(ctx)
	a.logger.WithFields(log.Fields{"backend": cfg.Storage.Backend, "dir": cfg.DataDir}).Debug("store opened")
	return a.store, nil
}

// list picks the board: --team wins, then the configured default.
func (a *app) list() model.List {
	if a.team {
		return model.Team
	}
	if a.cfg != nil {
		if l, err := model.ParseList(a.cfg.Board.Default); err == nil {
			return l
		}
	}
	return model.Personal
}

// logToFile redirects logging to <data-dir>/ucc.log while a full-screen
// program owns the terminal.
func (a *app) logToFile() error {
	f, err := os.OpenFile(filepath.Join(a.cfg.DataDir, "ucc.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	a.logFile = f
	a.logger.SetOutput(f)
	if !a.cfg.Debug {
		a.logger.SetLevel(log.InfoLevel)
	}
	return nil
}

func (a *app) close() {
	if a.store != nil {
		_ = a.store.Close()
	}
	if a.kv != nil {
		if err := a.kv.Close(); err != nil && a.logger != nil {
			a.logger.WithError(err).Warn("closing storage")
		}
	}
	if a.logFile != nil {
		_ = a.logFile.Close()
	}
}

// resolve finds a task by exact id, then by unique id prefix. Exact matches
// follow FindByID order: personal first, then team.
func (a *app) resolve(s *board.Store, id string) (model.Task, model.List, error) {
	id = strings.TrimSpace(id)
	if t, l, ok := s.FindByID(id); ok {
		return t, l, nil
	}
	var (
		found []model.Task
		lists []model.List
	)
	if len(id) >= 4 {
		for _, l := range model.Lists {
			for _, t := range s.Tasks(l) {
				if strings.HasPrefix(t.ID, id) {
					found = append(found, t)
					lists = append(lists, l)
				}
			}
		}
	}
	switch len(found) {
	case 0:
		return model.Task{}, "", usagef("no task with id %q", id)
	case 1:
		return found[0], lists[0], nil
	}
	return model.Task{}, "", usagef("id %q matches %d tasks; use more characters", id, len(found))
}

// resolveStatus accepts a column status or its display title.
func resolveStatus(s *board.Store, list model.List, in string) (model.Column, error) {
	in = strings.TrimSpace(in)
	cols := s.Columns(list)
	for _, c := range cols {
		if c.Status == in {
			return c, nil
		}
	}
	for _, c := range cols {
		if strings.EqualFold(c.Title, in) {
			return c, nil
		}
	}
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Status
	}
	return model.Column{}, usagef("unknown column %q on the %s board (have %s)", in, list, strings.Join(names, ", "))
}
