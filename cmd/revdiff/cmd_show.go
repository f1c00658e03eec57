package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/dshills/revdiff/internal/config"
	"github.com/dshills/revdiff/internal/engine"
	"github.com/dshills/revdiff/internal/engine/differ"
	"github.com/dshills/revdiff/internal/plugin/lua"
	"github.com/dshills/revdiff/internal/renderer/backend"
	"github.com/dshills/revdiff/internal/revisions"
	"github.com/dshills/revdiff/internal/scenario"
)

var (
	showUnified bool
	showTUI     bool
	showMetrics bool
	showScript  string
)

var showCmd = &cobra.Command{
	Use:   "show <scenario.yaml>",
	Short: "Run a scenario and show its diff",
	Long: `Loads the scenario document, applies its steps, then shows the changes
since the last saved revision. Removed content is printed in brackets.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		logger := config.NewLogger(cfg.Logging, cmd.ErrOrStderr())
		return runShow(cmd, cfg, logger, args[0])
	},
}

func init() {
	showCmd.Flags().BoolVarP(&showUnified, "unified", "u", false, "also print a unified text diff")
	showCmd.Flags().BoolVar(&showTUI, "tui", false, "display the diff in the terminal")
	showCmd.Flags().BoolVar(&showMetrics, "metrics", false, "print collected metrics")
	showCmd.Flags().StringVar(&showScript, "script", "", "run a Lua script instead of toggling the diff")
}

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runShow(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger, path string) error {
	sc, err := scenario.Load(path)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	reg := prometheus.NewRegistry()
	doc := sc.NewDocument(engine.WithMaxHistory(cfg.Revisions.MaxHistory), engine.WithLogger(logger))
	rev := revisions.New(doc,
		revisions.WithLogger(logger),
		revisions.WithMetrics(revisions.NewMetrics(reg)),
		revisions.WithMarkerPrefix(cfg.Revisions.MarkerPrefix),
		revisions.WithClasses(cfg.Revisions.Classes.Insert, cfg.Revisions.Classes.Attribute, cfg.Revisions.Classes.Remove),
		revisions.WithRetention(cfg.Revisions.Retention),
	)
	defer func() {
		if err := rev.Close(); err != nil {
			logger.Warn("close revisions", "error", err)
		}
	}()

	if err := sc.Run(doc, rev); err != nil {
		return fmt.Errorf("scenario %s: %w", path, err)
	}

	if showUnified {
		if err := writeUnified(out, rev, doc); err != nil {
			return err
		}
	}

	if showScript != "" {
		if err := runScript(rev, showScript); err != nil {
			return err
		}
	} else if err := rev.ShowDiff(); err != nil {
		return err
	}

	if showTUI {
		theme, err := cfg.Theme()
		if err != nil {
			return err
		}
		painter, err := backend.NewTerminalPainter(theme)
		if err != nil {
			return fmt.Errorf("create terminal: %w", err)
		}
		if err := painter.Init(); err != nil {
			return fmt.Errorf("init terminal: %w", err)
		}
		defer painter.Shutdown()
		if err := painter.Run(cmd.Context(), rev.Editing().Lines); err != nil && !errors.Is(err, cmd.Context().Err()) {
			return err
		}
	} else {
		fmt.Fprintln(out, rev.Editing().Render())
	}

	if showMetrics {
		return writeMetrics(out, reg)
	}
	return nil
}

func writeUnified(w io.Writer, rev *revisions.Revisions, doc *engine.Document) error {
	snap, ok := rev.Store().Latest()
	if !ok {
		return revisions.ErrNoSnapshotAvailable
	}
	oldName := fmt.Sprintf("revision@%d", snap.Version)
	newName := fmt.Sprintf("document@%d", doc.Version())
	text, err := differ.Unified(oldName, newName, snap.Root.Text(), doc.Text(), differ.DefaultContextLines)
	if err != nil {
		return err
	}
	_, err = w.Write(text)
	return err
}

func runScript(rev *revisions.Revisions, path string) error {
	code, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	L, err := lua.NewState()
	if err != nil {
		return err
	}
	defer L.Close()

	if err := L.Register(lua.NewRevisionsModule(rev.Commands(), rev.Editing().Render)); err != nil {
		return err
	}
	if err := L.DoString(string(code)); err != nil {
		return fmt.Errorf("script %s: %w", path, err)
	}
	return nil
}

func writeMetrics(w io.Writer, reg *prometheus.Registry) error {
	families, err := reg.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
