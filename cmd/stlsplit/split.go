package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/philipparndt/stlsplit/internal/config"
	"github.com/philipparndt/stlsplit/internal/logger"
	"github.com/philipparndt/stlsplit/pkg/export"
	"github.com/philipparndt/stlsplit/pkg/watcher"
)

var (
	splitPlan         string
	splitOutput       string
	splitOnlySelected bool
	splitSeparate     string
	splitManifest     string
	splitWatch        bool
)

var splitCmd = &cobra.Command{
	Use:   "split <file>",
	Short: "Split a mesh into named solids following a plan",
	Long: `Apply the groups of a YAML plan to a mesh and export them. By default a single
multi-solid STL is written with the unselected faces first as "Body". With
--separate every group goes to its own file instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runSplit,
}

func init() {
	rootCmd.AddCommand(splitCmd)

	splitCmd.Flags().StringVarP(&splitPlan, "plan", "p", "", "YAML plan describing the groups (required)")
	splitCmd.Flags().StringVarP(&splitOutput, "output", "o", "", "Output file (default from plan or config)")
	splitCmd.Flags().BoolVar(&splitOnlySelected, "only-selected", false, "Omit the Body solid of unselected faces")
	splitCmd.Flags().StringVar(&splitSeparate, "separate", "", "Write one file per group into this directory")
	splitCmd.Flags().StringVar(&splitManifest, "emit-json", "", "With --separate, write a JSON manifest to this path")
	splitCmd.Flags().BoolVarP(&splitWatch, "watch", "w", false, "Re-run whenever the input or the plan changes")
	_ = splitCmd.MarkFlagRequired("plan")
}

func runSplit(cmd *cobra.Command, args []string) error {
	if splitManifest != "" && splitSeparate == "" {
		return fmt.Errorf("--emit-json requires --separate")
	}

	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	input := args[0]

	sources, err := splitOnce(ctx, out, input)
	if !splitWatch {
		return err
	}
	if err != nil {
		logger.Log.Error("split failed", zap.Error(err))
		sources = []string{input}
	}

	return watchSplit(ctx, out, input, sources)
}

// splitOnce loads the input and the plan, applies it and writes the
// result. It returns the files the result depends on.
func splitOnce(ctx context.Context, out io.Writer, input string) ([]string, error) {
	plan, err := config.LoadPlan(splitPlan)
	if err != nil {
		return nil, err
	}

	loaded, err := loadMesh(ctx, input)
	if err != nil {
		return nil, err
	}

	state, err := plan.Apply(loaded.Mesh, cfg.Selection)
	if err != nil {
		return nil, err
	}
	for _, g := range state.Groups() {
		logger.Log.Debug("group selected", zap.String("group", g.Name), zap.Int("faces", g.Len()))
	}

	if splitSeparate != "" {
		prefix := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
		entries, err := export.WriteSeparate(splitSeparate, prefix, loaded.Mesh, state)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			fmt.Fprintf(out, "%-16s %6d faces -> %s\n", e.Group, e.Faces, e.File)
		}
		if splitManifest != "" {
			if err := export.WriteManifest(splitManifest, entries); err != nil {
				return nil, err
			}
			fmt.Fprintf(out, "Manifest written to %s\n", splitManifest)
		}
		return loaded.Sources, nil
	}

	output := splitOutput
	if output == "" {
		output = plan.Output
	}
	if output == "" {
		output = cfg.Export.Output
	}
	onlySelected := splitOnlySelected || plan.OnlySelected || cfg.Export.OnlySelected

	res, err := export.ExportFile(output, loaded.Mesh, state, onlySelected)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(out, "Wrote %s\n", res.Path)
	for _, s := range res.Solids {
		fmt.Fprintf(out, "  %-16s %6d facets\n", s.Name, s.Facets)
	}
	return loaded.Sources, nil
}

// watchSplit re-runs the split on changes until ctx is cancelled
func watchSplit(ctx context.Context, out io.Writer, input string, sources []string) error {
	fw, err := watcher.NewFileWatcher(cfg.Watch.Debounce, logger.Log)
	if err != nil {
		return err
	}
	defer fw.Close()

	if err := fw.Watch(append(sources, splitPlan)...); err != nil {
		return err
	}
	fmt.Fprintf(out, "Watching %d file(s) for changes, press Ctrl+C to stop\n", fw.Files())

	err = fw.Run(ctx, func(path string) {
		logger.Log.Info("file changed, splitting again", zap.String("path", path))
		sources, err := splitOnce(ctx, out, input)
		if err != nil {
			logger.Log.Error("split failed", zap.Error(err))
			return
		}
		// OpenSCAD sources may have gained or dropped dependencies
		if err := fw.Replace(append(sources, splitPlan)...); err != nil {
			logger.Log.Warn("failed to watch dependencies", zap.Error(err))
		}
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
