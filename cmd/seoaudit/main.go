package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"pageQualityGO/internal/analyzer"
	"pageQualityGO/internal/config"
	"pageQualityGO/internal/models"
	"pageQualityGO/internal/scorer"
)

func main() {
	_ = godotenv.Load()

	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:      "seoaudit",
		Usage:     "score e-commerce pages for on-page SEO quality",
		Writer:    out,
		ErrWriter: os.Stderr,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "only log errors"},
		},
		Commands: []*cli.Command{
			{
				Name:      "audit",
				Usage:     "fetch a URL, extract its signal and score it",
				ArgsUsage: "<url>",
				Flags:     scoringFlags(),
				Action:    auditAction,
			},
			{
				Name:      "score",
				Usage:     "score a signal JSON document read from a file or stdin",
				ArgsUsage: "[file|-]",
				Flags:     scoringFlags(),
				Action:    scoreAction,
			},
			{
				Name:   "requirements",
				Usage:  "print the effective requirements table",
				Flags:  []cli.Flag{requirementsFlag()},
				Action: requirementsAction,
			},
		},
	}
}

func requirementsFlag() cli.Flag {
	return &cli.StringFlag{Name: "requirements", Aliases: []string{"file"}, Usage: "YAML file with page type requirement overrides", EnvVars: []string{"REQUIREMENTS_FILE"}}
}

func scoringFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "page-type", Usage: "homepage, category, filter, product or other; empty to detect"},
		&cli.StringFlag{Name: "lang", Value: scorer.DefaultLanguage, Usage: "language of issue messages (en, cs)", EnvVars: []string{"SCORER_LANGUAGE"}},
		requirementsFlag(),
	}
}

func newLogger(c *cli.Context) *slog.Logger {
	level := slog.LevelInfo
	if c.Bool("quiet") {
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(c.App.ErrWriter, &slog.HandlerOptions{Level: level}))
}

func newScorer(c *cli.Context) (*scorer.Scorer, error) {
	opts := []scorer.Option{scorer.WithLanguage(c.String("lang"))}
	if path := c.String("requirements"); path != "" {
		overrides, err := scorer.LoadRequirements(path)
		if err != nil {
			return nil, err
		}
		opts = append(opts, scorer.WithRequirements(overrides))
	}
	return scorer.New(opts...), nil
}

func auditAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return errors.New("audit takes exactly one URL")
	}

	cfg, err := config.New()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	s, err := newScorer(c)
	if err != nil {
		return err
	}
	logger := newLogger(c)

	ctx, cancel := context.WithTimeout(c.Context, cfg.Analyzer.RequestTimeout)
	defer cancel()

	pageType := models.PageType("")
	if raw := c.String("page-type"); raw != "" {
		pageType = models.ParsePageType(raw)
	}

	start := time.Now()
	signal, err := analyzer.New(cfg.Analyzer, logger).ScrapePage(ctx, c.Args().First(), pageType)
	if err != nil {
		return err
	}
	result := s.Score(signal, nil)
	logger.Info("Audit finished", "url", signal.URL, "score", result.Score, "duration", time.Since(start))

	return writeJSON(c.App.Writer, models.NewAuditSnapshot(*signal, result))
}

func scoreAction(c *cli.Context) error {
	var (
		raw []byte
		err error
	)
	switch path := c.Args().First(); path {
	case "", "-":
		raw, err = io.ReadAll(c.App.Reader)
	default:
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("failed to read signal: %w", err)
	}

	s, err := newScorer(c)
	if err != nil {
		return err
	}

	// --page-type overrides the document's own page type
	if pt := c.String("page-type"); pt != "" {
		signal, ok := scorer.DecodeSignal(raw)
		if !ok {
			return writeJSON(c.App.Writer, s.ScoreJSON(nil, nil))
		}
		signal.PageType = models.ParsePageType(pt)
		return writeJSON(c.App.Writer, s.Score(signal, nil))
	}
	return writeJSON(c.App.Writer, s.ScoreJSON(raw, nil))
}

func requirementsAction(c *cli.Context) error {
	table := scorer.RequirementsTable()
	if path := c.String("requirements"); path != "" {
		overrides, err := scorer.LoadRequirements(path)
		if err != nil {
			return err
		}
		table = scorer.New(scorer.WithRequirements(overrides)).Requirements()
	}
	return writeJSON(c.App.Writer, table)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
