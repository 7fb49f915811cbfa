package main

import (
	"github.com/voidshard/conveyor/pkg/database"
)

const (
	docMigrate = `Apply (or roll back) database schema migrations`
)

type optsMigrate struct {
	optsGeneral
	optsDatabase

	Down bool `long:"down" description:"Roll back the last migration"`
}

func (c *optsMigrate) Execute(args []string) error {
	cfg, log, err := c.optsGeneral.setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	opts := c.optsDatabase.options(cfg)
	if c.Down {
		log.Info("rolling back migration")
		return database.Rollback(opts)
	}
	log.Info("applying migrations")
	return database.Migrate(opts)
}
