package cli

import (
	"fmt"
	"io"

	"github.com/hibobby/mhxy-skill-tools/internal/command"
	"github.com/hibobby/mhxy-skill-tools/internal/config"
	"github.com/hibobby/mhxy-skill-tools/internal/log"
	"github.com/hibobby/mhxy-skill-tools/internal/storage"
)

type commandDeps struct {
	out        io.Writer
	configPath string
}

type runtime struct {
	cfg        config.Config
	store      *storage.Store
	dispatcher *command.Dispatcher
	close      func() error
}

// openRuntime loads config, sets up logging and opens the store. Every
// command does this once, runs its operation and closes the log writer.
func (d *commandDeps) openRuntime() (*runtime, error) {
	cfg, err := config.Load(d.configPath)
	if err != nil {
		return nil, err
	}

	logger, closeLog, err := log.New(log.Options{
		Level:     cfg.Logging.Level,
		File:      cfg.Logging.File,
		MaxSizeMB: cfg.Logging.MaxSizeMB,
		MaxFiles:  cfg.Logging.MaxFiles,
	})
	if err != nil {
		return nil, err
	}

	path, err := cfg.DataPath()
	if err != nil {
		_ = closeLog()
		return nil, err
	}

	store, err := storage.Open(path)
	if err != nil {
		_ = closeLog()
		return nil, fmt.Errorf("open data file %s: %w", path, err)
	}

	return &runtime{
		cfg:        cfg,
		store:      store,
		dispatcher: command.NewDispatcher(store, logger),
		close:      closeLog,
	}, nil
}
