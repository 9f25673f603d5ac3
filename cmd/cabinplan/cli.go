package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/hpungsan/cabinplan/internal/config"
	"github.com/hpungsan/cabinplan/internal/db"
	"github.com/hpungsan/cabinplan/internal/errors"
	"github.com/hpungsan/cabinplan/internal/ops"
	"github.com/hpungsan/cabinplan/internal/project"
	"github.com/hpungsan/cabinplan/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(db *sql.DB, cfg *config.Config) *cli.App {
	app := &cli.App{
		Name:    "cabinplan",
		Usage:   "Cabin project planner",
		Version: Version,
		Commands: []*cli.Command{
			createCmd(db, cfg),
			fetchCmd(db),
			updateCmd(db, cfg),
			estimateCmd(db, cfg),
			timelineCmd(db, cfg),
			listCmd(db, cfg),
			deleteCmd(db),
			purgeCmd(db),
			templatesCmd(db),
			serveCmd(db, cfg),
		},
		// Values such as names may contain commas.
		DisableSliceFlagSeparator: true,
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// setFlag is the repeatable --set key=value flag shared by create and update.
func setFlag() cli.Flag {
	return &cli.StringSliceFlag{
		Name:    "set",
		Aliases: []string{"s"},
		Usage:   "Field assignment key=value (repeatable), e.g. --set width=24",
	}
}

func createCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "create",
		Usage: "Create a project, blank or from a template",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "template", Aliases: []string{"t"}, Usage: "Template id (see 'templates')"},
			&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "Project name"},
			setFlag(),
		},
		Action: func(c *cli.Context) error {
			set, err := parseSets(c.StringSlice("set"))
			if err != nil {
				return outputError(err)
			}

			output, err := ops.Create(c.Context, db, cfg, ops.CreateInput{
				TemplateID: c.String("template"),
				Name:       c.String("name"),
				Set:        set,
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

func fetchCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "fetch",
		Usage:     "Fetch a project by ID",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "include-deleted", Usage: "Include soft-deleted projects"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Fetch(c.Context, db, ops.FetchInput{
				ID:             c.Args().First(),
				IncludeDeleted: c.Bool("include-deleted"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

func updateCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "update",
		Usage:     "Merge field values into a project and recompute derived fields",
		ArgsUsage: "<id>",
		Flags:     []cli.Flag{setFlag()},
		Action: func(c *cli.Context) error {
			set, err := parseSets(c.StringSlice("set"))
			if err != nil {
				return outputError(err)
			}

			output, err := ops.Update(c.Context, db, cfg, ops.UpdateInput{
				ID:  c.Args().First(),
				Set: set,
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

func estimateCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "estimate",
		Usage:     "Show the itemized cost breakdown for a project",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "persist", Usage: "Store the computed total on the project"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Estimate(c.Context, db, cfg, ops.EstimateInput{
				ID:      c.Args().First(),
				Persist: c.Bool("persist"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

func timelineCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "timeline",
		Usage:     "Show construction phases for a project",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			output, err := ops.Timeline(c.Context, db, cfg, ops.TimelineInput{ID: c.Args().First()})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

func listCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List projects, most recently updated first",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Usage: "Max items to return (default 20, max 100)"},
			&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Usage: "Pagination offset"},
			&cli.BoolFlag{Name: "include-deleted", Usage: "Include soft-deleted projects"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.List(c.Context, db, cfg, ops.ListInput{
				Limit:          c.Int("limit"),
				Offset:         c.Int("offset"),
				IncludeDeleted: c.Bool("include-deleted"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

func deleteCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Soft-delete a project",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			output, err := ops.Delete(c.Context, db, ops.DeleteInput{ID: c.Args().First()})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

func purgeCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "purge",
		Usage: "Permanently delete soft-deleted projects",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "older-than", Usage: "Only purge if deleted more than N days ago (e.g., 7d)"},
		},
		Action: func(c *cli.Context) error {
			input := ops.PurgeInput{}

			if olderThan := c.String("older-than"); olderThan != "" {
				days, err := parseDuration(olderThan)
				if err != nil {
					return outputError(errors.NewInvalidRequest(err.Error()))
				}
				input.OlderThanDays = &days
			}

			output, err := ops.Purge(c.Context, db, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

func templatesCmd(database *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "templates",
		Usage:     "List starting templates, or show one by ID",
		ArgsUsage: "[id]",
		Action: func(c *cli.Context) error {
			catalog := db.NewCatalog(database)

			var (
				output any
				err    error
			)
			if c.NArg() > 0 {
				output, err = ops.TemplateFetch(c.Context, catalog, ops.TemplateFetchInput{ID: c.Args().First()})
			} else {
				output, err = ops.Templates(c.Context, catalog)
			}
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

func serveCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the local web UI",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Usage: "Address to bind (default from config)"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Usage: "Port to listen on (default from config)"},
		},
		Action: func(c *cli.Context) error {
			bind := cfg.WebBind
			if v := c.String("bind"); v != "" {
				bind = v
			}
			port := cfg.WebPort
			if c.IsSet("port") {
				port = c.Int("port")
			}
			if port < 0 || port > 65535 {
				return outputError(errors.NewInvalidRequest("port must be between 0 and 65535"))
			}

			return web.Run(web.NewServer(db, cfg, Version, bind, port))
		},
	}
}

// Helper functions

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	pErr := errors.As(err)
	return cli.Exit(fmt.Sprintf("[%s] %s", pErr.Code, pErr.Message), 1)
}

// parseSets turns repeated key=value assignments into an update. A value may
// be empty to clear a field; the first '=' separates key from value.
func parseSets(values []string) (project.Update, error) {
	if len(values) == 0 {
		return nil, nil
	}

	u := make(project.Update, len(values))
	for _, v := range values {
		key, val, ok := strings.Cut(v, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, errors.NewInvalidRequest(fmt.Sprintf("invalid --set %q: expected key=value", v))
		}
		u[key] = val
	}
	return u, nil
}

// parseDuration parses "7d" format to days.
func parseDuration(s string) (int, error) {
	if numStr, ok := strings.CutSuffix(s, "d"); ok {
		days, err := strconv.Atoi(numStr)
		if err != nil {
			return 0, fmt.Errorf("invalid duration: %s", s)
		}
		if days < 0 {
			return 0, fmt.Errorf("duration must be non-negative")
		}
		return days, nil
	}
	return 0, fmt.Errorf("duration must end with 'd' (days), e.g., 7d")
}
