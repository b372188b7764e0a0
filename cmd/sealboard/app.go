package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/rpggio/sealboard/internal/config"
	"github.com/rpggio/sealboard/internal/domain/activity"
	"github.com/rpggio/sealboard/internal/domain/masterdata"
	"github.com/rpggio/sealboard/internal/domain/project"
	"github.com/rpggio/sealboard/internal/mcp"
	"github.com/rpggio/sealboard/internal/source"
	"github.com/rpggio/sealboard/internal/sqlite"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// app holds the opened store and the services built on it.
type app struct {
	db         *sqlite.DB
	projects   *project.Service
	masterData *masterdata.Service
	activity   *activity.Service
	apiKeys    *sqlite.APIKeyRepository
}

func openApp(cfg config.Config, logger *slog.Logger) (*app, error) {
	if err := ensureDBDir(cfg.DB.Path); err != nil {
		return nil, fmt.Errorf("prepare database path: %w", err)
	}
	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		return nil, err
	}
	if err := db.RunMigrations(); err != nil {
		db.Close()
		return nil, err
	}

	projectRepo := sqlite.NewProjectRepository(db)
	masterRepo := sqlite.NewMasterDataRepository(db)
	activityRepo := sqlite.NewActivityRepository(db)

	return &app{
		db: db,
		projects: project.NewService(projectRepo, activityRepo, masterRepo, logger).
			WithViewConfig(viewConfig(cfg.View)),
		masterData: masterdata.NewService(masterRepo, logger),
		activity:   activity.NewService(activityRepo, logger),
		apiKeys:    sqlite.NewAPIKeyRepository(db),
	}, nil
}

func (a *app) Close() error {
	return a.db.Close()
}

func (a *app) mcpServer(cfg config.Config, logger *slog.Logger) *sdkmcp.Server {
	return mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Projects: a.projects,
			Activity: a.activity,
		},
		Resolver:      a.apiKeys,
		AuthEnabled:   cfg.Auth.Enabled,
		TransportMode: cfg.Transport.Mode,
		DefaultTenant: cfg.Auth.DefaultTenant,
		Version:       version,
		Logger:        logger,
	})
}

func viewConfig(vc config.ViewConfig) project.ViewConfig {
	return project.ViewConfig{
		DefaultPageSize: vc.DefaultPageSize,
		MaxPageSize:     vc.MaxPageSize,
		WindowSiblings:  vc.WindowSiblings,
	}
}

func newSourceClient(sc config.SourceConfig, baseURL string, logger *slog.Logger) *source.Client {
	if baseURL == "" {
		baseURL = sc.BaseURL
	}
	return source.New(baseURL,
		source.WithToken(sc.Token),
		source.WithTimeout(sc.Timeout.Std()),
		source.WithMaxRetries(sc.MaxRetries),
		source.WithLogger(logger),
	)
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
