package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/poiesic/partkb/catalog"
	"github.com/poiesic/partkb/core"
	"github.com/poiesic/partkb/export"
	"github.com/poiesic/partkb/search"
	"github.com/poiesic/partkb/server"
	"github.com/poiesic/partkb/storage"
	"github.com/urfave/cli/v2"
)

func queryCommand() *cli.Command {
	return &cli.Command{
		Name:  "query",
		Usage: "Find compatible parts ranked by price",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "class",
				Usage: "Target category or class name (sensor, SensorPart, ...); empty for any",
			},
			&cli.StringSliceFlag{
				Name:    "property",
				Aliases: []string{"p"},
				Usage:   "Property the part must observe or act on (repeatable)",
			},
			&cli.StringSliceFlag{
				Name:    "interface",
				Aliases: []string{"i"},
				Usage:   "Acceptable interface (repeatable)",
			},
			&cli.StringFlag{
				Name:  "controller",
				Usage: "Accept the interfaces of this controller board",
			},
			&cli.Float64Flag{
				Name:  "voltage",
				Usage: "Supply voltage the part must accept",
			},
			&cli.Float64Flag{
				Name:  "budget",
				Usage: "Maximum price",
			},
			&cli.StringFlag{
				Name:  "currency",
				Usage: "Currency the budget is expressed in",
			},
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Maximum number of results (0 for all)",
				Value:   20,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print results as JSON",
			},
		},
		Action: func(c *cli.Context) error {
			for _, name := range []string{"voltage", "budget"} {
				if v := c.Float64(name); math.IsNaN(v) || math.IsInf(v, 0) {
					return fmt.Errorf("--%s must be a finite number", name)
				}
			}

			cfg := settings(c)
			db, cat, err := loadCatalog(c)
			if err != nil {
				return err
			}
			defer db.Close()

			searcher, err := newSearcher(db, cfg)
			if err != nil {
				return fmt.Errorf("failed to create searcher: %w", err)
			}

			q := core.Query{
				TargetClass:        c.String("class"),
				RequiredProperties: c.StringSlice("property"),
				RequiredInterfaces: c.StringSlice("interface"),
				Currency:           c.String("currency"),
			}
			if c.IsSet("voltage") {
				q.TargetVoltage = core.Some(c.Float64("voltage"))
			}
			if c.IsSet("budget") {
				q.MaxBudget = core.Some(c.Float64("budget"))
			}
			if name := c.String("controller"); name != "" {
				ifaces, err := search.InterfacesForController(cat, name)
				if err != nil {
					return err
				}
				q.RequiredInterfaces = append(q.RequiredInterfaces, ifaces...)
			}

			res, err := searcher.Search(cat, q)
			if err != nil {
				return fmt.Errorf("search failed: %w", err)
			}
			for _, d := range res.Diagnostics.All() {
				fmt.Fprintln(c.App.ErrWriter, "warning:", d.String())
			}

			matches := res.Matches
			if limit := c.Int("limit"); limit > 0 && len(matches) > limit {
				matches = matches[:limit]
			}
			if c.Bool("json") {
				views := make([]server.MatchView, 0, len(matches))
				for _, m := range matches {
					views = append(views, server.NewMatchView(m))
				}
				return printJSON(c.App.Writer, views)
			}
			printMatches(c.App.Writer, res, matches)
			return nil
		},
	}
}

func printMatches(w io.Writer, res *search.Result, matches []core.Match) {
	if len(matches) == 0 {
		fmt.Fprintln(w, "No matching parts.")
		printStages(w, res.Stages)
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tPART\tKIND\tINTERFACES\tVCC\tPRICE")
	for _, m := range matches {
		p := m.Part
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			m.Rank, p.Label, p.Kind, strings.Join(p.Interfaces.Values(), ","),
			formatRange(p.VccMin, p.VccMax), formatPrice(p))
	}
	tw.Flush()
	if len(matches) < len(res.Matches) {
		fmt.Fprintf(w, "(%d of %d matches shown)\n", len(matches), len(res.Matches))
	}
}

func printStages(w io.Writer, stages []search.StageCount) {
	for _, st := range stages {
		fmt.Fprintf(w, "  after %-10s %d\n", st.Stage, st.Remaining)
	}
}

func formatRange(lo, hi core.Measure) string {
	l, lok := lo.Get()
	h, hok := hi.Get()
	switch {
	case lok && hok:
		return formatFloat(l) + "-" + formatFloat(h) + "V"
	case lok:
		return ">=" + formatFloat(l) + "V"
	case hok:
		return "<=" + formatFloat(h) + "V"
	}
	return "-"
}

func formatPrice(p core.Part) string {
	v, ok := p.Price.Get()
	if !ok {
		return "-"
	}
	if p.Currency == "" {
		return strconv.FormatFloat(v, 'f', 2, 64)
	}
	return strconv.FormatFloat(v, 'f', 2, 64) + " " + p.Currency
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func showCommand() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show one stored part as JSON",
		ArgsUsage: "<key or label>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("expected exactly one part key or label")
			}
			id := c.Args().First()

			db, err := openDatabase(settings(c))
			if err != nil {
				return err
			}
			defer db.Close()

			parts := db.PartRepository()
			part, err := parts.GetPart(c.Context, id)
			if errors.Is(err, storage.ErrNotFound) {
				part, err = parts.GetPart(c.Context, catalog.LabelKey(id))
			}
			if errors.Is(err, storage.ErrNotFound) {
				return fmt.Errorf("%w: %q", search.ErrPartNotFound, id)
			}
			if err != nil {
				return fmt.Errorf("failed to get part: %w", err)
			}
			return printJSON(c.App.Writer, server.NewPartView(*part))
		},
	}
}

func termsCommand() *cli.Command {
	return &cli.Command{
		Name:  "terms",
		Usage: "List the vocabulary of the stored catalog",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "kind",
				Aliases: []string{"k"},
				Usage:   "Only list terms of this kind (property, interface, feature)",
			},
		},
		Action: func(c *cli.Context) error {
			var kind core.TermKind
			if s := c.String("kind"); s != "" {
				var err error
				if kind, err = parseTermKind(s); err != nil {
					return err
				}
			}

			db, err := openDatabase(settings(c))
			if err != nil {
				return err
			}
			defer db.Close()

			terms, err := db.VocabularyRepository().ListTerms(c.Context, kind)
			if err != nil {
				return fmt.Errorf("failed to list terms: %w", err)
			}

			tw := tabwriter.NewWriter(c.App.Writer, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "KIND\tTOKEN\tUSE")
			for _, t := range terms {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", t.Kind, t.Token, termUse(t))
			}
			return tw.Flush()
		},
	}
}

func parseTermKind(s string) (core.TermKind, error) {
	for _, k := range []core.TermKind{core.TermProperty, core.TermInterface, core.TermFeature} {
		if strings.EqualFold(s, k.String()) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("invalid term kind %q: must be one of property, interface, feature", s)
}

func termUse(t core.Term) string {
	switch {
	case t.Observable && t.Actuatable:
		return "observable,actuatable"
	case t.Observable:
		return "observable"
	case t.Actuatable:
		return "actuatable"
	}
	return ""
}

func historyCommand() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List recent catalog builds",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Maximum number of builds",
				Value:   10,
			},
		},
		Action: func(c *cli.Context) error {
			db, err := openDatabase(settings(c))
			if err != nil {
				return err
			}
			defer db.Close()

			builds, err := db.BuildRepository().ListBuilds(c.Context, c.Int("limit"))
			if err != nil {
				return fmt.Errorf("failed to list builds: %w", err)
			}
			if len(builds) == 0 {
				fmt.Fprintln(c.App.Writer, "No builds yet.")
				return nil
			}

			tw := tabwriter.NewWriter(c.App.Writer, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "RUN\tBUILT\tINPUT\tPARTS\tDUPLICATES\tDROPPED\tWARNINGS\tTERMS")
			for _, b := range builds {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%d\t%d\t%d\n",
					b.RunID, b.BuiltAt.Local().Format("2006-01-02 15:04:05"),
					b.Input, b.Accepted, b.Duplicates, b.Dropped, b.Warnings, b.Terms)
			}
			return tw.Flush()
		},
	}
}

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export the stored catalog as Turtle, N-Triples or CSV",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format (turtle, ntriples, csv); defaults to the output extension",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file (- for stdout)",
				Value:   "-",
			},
		},
		Action: func(c *cli.Context) error {
			output := c.String("output")
			format, err := exportFormat(c.String("format"), output)
			if err != nil {
				return err
			}

			db, cat, err := loadCatalog(c)
			if err != nil {
				return err
			}
			defer db.Close()

			out, err := createOutput(c, output)
			if err != nil {
				return err
			}
			if err := export.Write(out, cat, format); err != nil {
				out.Close()
				return fmt.Errorf("failed to export catalog: %w", err)
			}
			return out.Close()
		},
	}
}

// exportFormat resolves the format from the flag, then the output file's
// extension, then falls back to Turtle.
func exportFormat(flag, output string) (export.Format, error) {
	if flag != "" {
		return export.ParseFormat(flag)
	}
	if output != "" && output != "-" {
		if f, err := export.FormatForPath(output); err == nil {
			return f, nil
		}
	}
	return export.FormatTurtle, nil
}
