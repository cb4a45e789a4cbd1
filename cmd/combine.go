package cmd

import (
	"fmt"
	"io"

	"codexml/pkg/combine"
	"codexml/pkg/config"
	"codexml/pkg/logging"
	"codexml/pkg/version"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// newLogger is replaced in tests.
var newLogger = logging.New

// runCombine resolves the configuration, initializes the logger and runs
// the combine pipeline.
func runCombine(cmd *cobra.Command, fs afero.Fs, v *viper.Viper, configFile string) error {
	cfg, err := config.Load(v, fs, configFile)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.Verbose, version.AppName, version.Get().Version)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logging.Sync(logger)

	if cfg.ConfigFile != "" {
		logger.Debug("Loaded config file", zap.String("file", cfg.ConfigFile))
	}
	if cfg.OutputFile == "" {
		return fmt.Errorf("required flag %q not set", config.KeyOutputFile)
	}

	opts, err := cfg.Options()
	if err != nil {
		return err
	}

	res, err := combine.Run(fs, opts, logger)
	if err != nil {
		logger.Error("codexml execution failed",
			zap.String("code", string(combine.Classify(err))),
			zap.Error(err))
		return err
	}

	printSummary(cmd.ErrOrStderr(), res)
	return nil
}

func printSummary(w io.Writer, res combine.Result) {
	warn := color.New(color.FgYellow)
	if res.Output == "" {
		warn.Fprintln(w, "No files to process, nothing written.")
		return
	}

	color.New(color.FgGreen, color.Bold).Fprintf(w, "Wrote %d files to %s\n", res.Files, res.Output)
	if len(res.Skipped) > 0 {
		warn.Fprintf(w, "Skipped %d unreadable files:\n", len(res.Skipped))
		for _, p := range res.Skipped {
			fmt.Fprintf(w, "  %s\n", p)
		}
	}
}
