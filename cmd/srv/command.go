package main

import "github.com/urfave/cli/v2"

func (s *srv) loadApp() {
	s.app = cli.NewApp()
	s.app.Action = cli.ShowAppHelp
	s.app.Name = "timechallenge"
	s.app.Usage = "Time-windowed challenge backend"
	s.app.Flags = []cli.Flag{
		&cli.StringSliceFlag{
			Name:  "env-file",
			Usage: "dotenv files loaded before reading the environment",
			Value: cli.NewStringSlice(".env"),
		},
	}
	s.app.Commands = []*cli.Command{
		{
			Action:      s.startApi,
			Name:        "api",
			Usage:       "Start service api",
			Category:    "Api",
			Description: `Used for start service api, it main service included all apis.`,
		},
		{
			Action:      s.startMigrate,
			Name:        "migrate",
			Usage:       "Migrate the database schema",
			Category:    "Database",
			Description: `Apply pending SQL migrations on mysql, or create the schema from entities on sqlite.`,
		},
		{
			Action:   s.startSeed,
			Name:     "seed",
			Usage:    "Seed the game catalogue",
			Category: "Database",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "catalogue",
					Usage: "path to a toml game catalogue, the embedded one is used if empty",
				},
			},
			Description: `Insert the games of the catalogue, skipping the ones which already exist.`,
		},
		{
			Action:      s.startSubscriber,
			Name:        "subscriber",
			Usage:       "Start service subscriber",
			Category:    "Worker",
			Description: `Used to start worker that consumes attempt events and updates user progression.`,
		},
	}
}
