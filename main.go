package main

import (
	"context"
	"log"
	"os"

	"github.com/offerdeck/offerdeck/cmd"
	"github.com/offerdeck/offerdeck/pkg/config"
	"github.com/urfave/cli/v3"
)

func main() {
	app := &cli.Command{
		Name:  "offerdeck",
		Usage: "A thin dashboard over the job offers service",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
				Value: false,
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "Configuration file path",
				Value: getDefaultConfigPathOrExit(),
			},
		},
		Commands: []*cli.Command{
			cmd.InitCommand(),
			cmd.ListCommand(),
			cmd.OfferCommand(),
			cmd.UserCommand(),
			cmd.WhoamiCommand(),
			cmd.WebCommand(),
			cmd.VersionCommand(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func getDefaultConfigPathOrExit() string {
	path, err := config.GetDefaultConfigPath()
	if err != nil {
		log.Fatalf("Failed to get default config path: %v", err)
	}
	return path
}
