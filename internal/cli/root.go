package cli

import (
	"github.com/urfave/cli/v3"
)

// NewRootCommand returns the top-level CLI command.
func NewRootCommand() *cli.Command {
	return &cli.Command{
		Name:  "planner",
		Usage: "Personal task planner with recurring tasks",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML config file",
				Sources: cli.EnvVars("PLANNER_CONFIG"),
			},
			&cli.StringFlag{
				Name:  "store",
				Usage: "Path to the task store (overrides config)",
			},
			&cli.StringFlag{
				Name:  "driver",
				Usage: "Store driver: json, sqlite or bolt (overrides config)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level: debug, info, warn, error",
			},
		},
		Commands: []*cli.Command{
			newAddCommand(),
			newCompleteCommand(),
			newListCommand(),
			newShowCommand(),
			newRemindCommand(),
			newWatchCommand(),
		},
		DefaultCommand: "list",
	}
}
