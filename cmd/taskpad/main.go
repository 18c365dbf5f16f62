package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"taskpad/internal/config"
	"taskpad/internal/logging"
	"taskpad/internal/storage"
	"taskpad/internal/store"
	"taskpad/internal/ui"
	"taskpad/internal/view"
)

type globalFlags struct {
	configPath string
	ephemeral  bool
}

// session is everything a command needs once config and storage are open.
type session struct {
	cfg         config.Config
	configPath  string
	firstLaunch bool
	log         *slog.Logger
	store       *store.Store
	closers     []func() error
}

func (s *session) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i]())
	}
	return errors.Join(errs...)
}

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	flags := &globalFlags{}
	rootCmd := &cobra.Command{
		Use:   "taskpad",
		Short: "A small keyboard-driven task list",
		Long: `taskpad keeps a flat list of tasks with a priority and an optional due date.
Run it without a subcommand to open the interactive list.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// The TUI owns the terminal; logs go to the configured file only.
			s, err := openSession(cmd.Context(), flags, nil)
			if err != nil {
				return err
			}
			defer s.Close()
			return ui.Run(s.store, s.cfg, s.configPath, s.firstLaunch, ui.WithLogger(s.log))
		},
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "Config file path (default $TASKPAD_CONFIG or the user config dir)")
	rootCmd.PersistentFlags().BoolVar(&flags.ephemeral, "ephemeral", false, "Keep tasks in memory only")

	rootCmd.AddCommand(listCmd(flags))
	rootCmd.AddCommand(addCmd(flags))
	rootCmd.AddCommand(editCmd(flags))
	rootCmd.AddCommand(toggleCmd(flags))
	rootCmd.AddCommand(deleteCmd(flags))
	rootCmd.AddCommand(statsCmd(flags))
	return rootCmd
}

// openSession loads config, opens the logger and the storage backend, and
// builds a store seeded from the persisted list. When logTo is non-nil it
// replaces the configured log file and only warnings and errors reach it.
func openSession(ctx context.Context, flags *globalFlags, logTo io.Writer) (*session, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	s := &session{configPath: flags.configPath}
	if s.configPath == "" {
		s.configPath = config.ResolveConfigPath()
	}
	if _, err := os.Stat(s.configPath); err != nil {
		s.firstLaunch = errors.Is(err, os.ErrNotExist)
	}

	cfg, err := config.LoadOrCreate(s.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if flags.ephemeral {
		cfg.Storage.Backend = config.BackendMemory
	}
	s.cfg = cfg

	if logTo != nil {
		lvl, err := logging.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, err
		}
		s.log = logging.New(logTo, max(lvl, slog.LevelWarn))
	} else {
		log, closeLog, err := logging.Open(cfg.LogPath, cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("failed to open log: %w", err)
		}
		s.log = log
		s.closers = append(s.closers, closeLog)
	}

	kv, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.closers = append(s.closers, kv.Close)

	lang, err := cfg.Language()
	if err != nil {
		s.Close()
		return nil, err
	}

	repo := storage.NewTaskRepository(kv, cfg.Storage.Key, s.log)
	tasks := repo.Load(ctx)
	s.log.Info("session opened", "backend", cfg.Storage.Backend, "tasks", len(tasks))
	s.store = store.New(tasks, repo,
		store.WithLogger(s.log),
		store.WithFilter(cfg.Filter()),
		store.WithSort(cfg.Sort()),
		store.WithDeriver(view.Deriver{Lang: lang}),
	)
	return s, nil
}
