package main

import (
	"github.com/timechallenge/backend/migration"
	"github.com/urfave/cli/v2"
)

func (s *srv) startSeed(cctx *cli.Context) error {
	if err := s.loadConfig(cctx); err != nil {
		return err
	}
	s.loadLogger()
	if err := s.loadDatabase(); err != nil {
		return err
	}

	games, err := migration.ParseCatalogue(cctx.String("catalogue"))
	if err != nil {
		return err
	}

	if err := migration.Seed(s.ctx, games); err != nil {
		return err
	}

	s.logger.Infof("Seeded %d games", len(games))
	return nil
}
