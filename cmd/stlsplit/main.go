package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/philipparndt/stlsplit/internal/config"
	"github.com/philipparndt/stlsplit/internal/loader"
	"github.com/philipparndt/stlsplit/internal/logger"
	"github.com/philipparndt/stlsplit/version"
)

var (
	configPath string
	logLevel   string
	logFile    string

	// cfg is loaded before any subcommand runs
	cfg = config.Default()
)

var rootCmd = &cobra.Command{
	Use:   "stlsplit",
	Short: "Split STL meshes into named solids by selecting faces",
	Long: `stlsplit selects faces of a triangle mesh by normal direction, bounding box
or region growing, collects them in named groups and exports every group as
its own solid of a multi-solid ASCII STL file. It reads ASCII and binary STL
as well as OpenSCAD sources.`,
	Version:       version.GetFullVersion(),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath, config.Overrides{LogLevel: logLevel, LogFile: logFile})
		if err != nil {
			return err
		}
		cfg = loaded
		logger.Init(cfg.Logging.Level, cfg.Logging.File)
		logger.Log.Debug("configuration loaded", zap.String("config", configPath), zap.String("level", cfg.Logging.Level))
		return nil
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Path to config file (default ./stlsplit.yaml or the user config dir)")
	flags.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flags.StringVar(&logFile, "log-file", "", "Also write logs to this rotating file")
}

// loadMesh loads an STL or OpenSCAD file with the configured weld tolerance
func loadMesh(ctx context.Context, path string) (*loader.Result, error) {
	return loader.Load(ctx, path, loader.Options{
		WeldTolerance: cfg.Selection.WeldTolerance,
		Log:           logger.Log,
	})
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	logger.Sync()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
