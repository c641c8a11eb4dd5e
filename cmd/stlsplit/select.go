package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/philipparndt/stlsplit/internal/logger"
	"github.com/philipparndt/stlsplit/internal/session"
)

var (
	selMode      string
	selAngle     float64
	selTolerance float64
)

var selectCmd = &cobra.Command{
	Use:   "select <file>",
	Short: "Pick faces interactively, one command per line",
	Long: `Start a picking session on a mesh. Commands are read from standard input:

  pick <face>...          toggle faces, or grow regions from them in grow mode
  grow <seed> [-a deg]    merge the region grown from seed into the active group
  normal <x> <y> <z>      merge faces facing along a direction [-t tolerance]
  box <min xyz> <max xyz> merge faces whose centroid lies in the box
  new [name] | next | use <id> | rename <name> | clear
  mode [toggle|grow] [-a deg]
  status [--json]
  export <file> [--only-selected]
  quit`,
	Args: cobra.ExactArgs(1),
	RunE: runSelect,
}

func init() {
	rootCmd.AddCommand(selectCmd)

	selectCmd.Flags().StringVarP(&selMode, "mode", "m", "toggle", "Initial picking mode: toggle or grow")
	selectCmd.Flags().Float64VarP(&selAngle, "angle", "a", 0, "Region growing angle tolerance in degrees (default from config)")
	selectCmd.Flags().Float64VarP(&selTolerance, "tolerance", "t", 0, "Normal rule cosine gap tolerance (default from config)")
}

func runSelect(cmd *cobra.Command, args []string) error {
	mode, err := session.ParseMode(selMode)
	if err != nil {
		return err
	}

	loaded, err := loadMesh(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	opts := session.Options{
		AngleTolerance:  cfg.Selection.AngleTolerance,
		NormalTolerance: cfg.Selection.NormalTolerance,
		Log:             logger.Log,
	}
	if cmd.Flags().Changed("angle") {
		opts.AngleTolerance = selAngle
	}
	if cmd.Flags().Changed("tolerance") {
		opts.NormalTolerance = selTolerance
	}

	s := session.New(loaded.Mesh, opts)
	s.SetMode(mode)

	out := cmd.OutOrStdout()
	shell := session.NewShell(s, out)
	if isTerminal(cmd.InOrStdin()) {
		shell.Prompt = "stlsplit> "
		fmt.Fprintf(out, "%s: %d faces, %d vertices. Type help for commands.\n",
			args[0], loaded.Mesh.FaceCount(), loaded.Mesh.VertexCount())
	}

	return shell.Run(cmd.Context(), cmd.InOrStdin())
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}
