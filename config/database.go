package config

import (
	"database/sql"

	_ "github.com/lib/pq"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

func NewDatabase(cfg *Config) (*sql.DB, error) {
	var driver string
	switch cfg.Store.Driver {
	case "postgres":
		driver = "postgres"
	case "sqlite":
		driver = "sqlite"
	default:
		return nil, eris.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}

	db, err := sql.Open(driver, cfg.Store.DatabaseURL)
	if err != nil {
		return nil, eris.Wrapf(err, "%s connect", driver)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, eris.Wrapf(err, "%s ping", driver)
	}
	return db, nil
}
