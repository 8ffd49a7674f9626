package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/poiesic/partkb/config"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

func configCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Inspect or create configuration files",
		Subcommands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Print the effective configuration",
				Action: func(c *cli.Context) error {
					enc := yaml.NewEncoder(c.App.Writer)
					enc.SetIndent(2)
					if err := enc.Encode(settings(c)); err != nil {
						return fmt.Errorf("failed to encode config: %w", err)
					}
					return enc.Close()
				},
			},
			{
				Name:  "init",
				Usage: "Write the built-in defaults to a project config file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "path",
						Usage: "File to create",
						Value: config.ProjectConfigFile,
					},
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Overwrite an existing file",
					},
				},
				Action: func(c *cli.Context) error {
					path := c.String("path")
					if !c.Bool("force") {
						if _, err := os.Stat(path); err == nil {
							return fmt.Errorf("%s already exists (use --force to overwrite)", path)
						} else if !errors.Is(err, fs.ErrNotExist) {
							return err
						}
					}
					if err := config.Default().Save(path); err != nil {
						return fmt.Errorf("failed to write config: %w", err)
					}
					fmt.Fprintf(c.App.Writer, "Wrote %s\n", path)
					return nil
				},
			},
		},
	}
}
