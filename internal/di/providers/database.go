package providers

import (
	"log/slog"

	"github.com/samber/do/v2"

	"github.com/penwellapp/penwell-server/internal/config"
	"github.com/penwellapp/penwell-server/internal/logger"
	"github.com/penwellapp/penwell-server/internal/media"
	"github.com/penwellapp/penwell-server/internal/store/sqldb"
)

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	*sqldb.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore opens the configured database and applies the schema.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	db, err := sqldb.Open(cfg.Database.Driver, cfg.Database.DSN, log.Logger)
	if err != nil {
		return nil, err
	}

	if cfg.Database.Driver == config.DriverSQLite {
		log.Info("Database initialized", "driver", db.Driver(), "path", cfg.Database.DSN)
	} else {
		log.Info("Database initialized", "driver", db.Driver())
	}

	return &StoreHandle{Store: db}, nil
}

// ProvideCoverStorage provides on-disk storage for post cover images.
func ProvideCoverStorage(i do.Injector) (*media.CoverStorage, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	covers, err := media.NewCoverStorage(cfg.Uploads.Path, cfg.Uploads.MaxBytes)
	if err != nil {
		return nil, err
	}

	log.Info("Cover storage ready", "path", covers.Dir(), "max_bytes", covers.MaxBytes())
	return covers, nil
}

// ProvideSlogLogger provides access to the underlying slog.Logger for packages that need it.
func ProvideSlogLogger(i do.Injector) (*slog.Logger, error) {
	log := do.MustInvoke[*logger.Logger](i)
	return log.Logger, nil
}
