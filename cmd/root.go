package cmd

import (
	"os"

	"codexml/pkg/config"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// NewRootCmd builds the command tree. All file access goes through fs.
func NewRootCmd(fs afero.Fs) *cobra.Command {
	v := config.New(fs)
	var configFile string

	root := &cobra.Command{
		Use:   "codexml",
		Short: "Merge source files into a single XML document",
		Long: `codexml scans a directory for source files with the allowed extensions,
adds any files listed explicitly, and writes their names, absolute paths and
contents into one pretty-printed XML document, e.g. to hand a codebase to an LLM.`,
		Example: `  codexml --input-dir ./src --output-file out/codebase.xml
  codexml -d ./app -f ./Dockerfile -f ./Makefile -o bundle.xml
  codexml -d . -e .go -e .mod -i vendor/ -o go.xml`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCombine(cmd, fs, v, configFile)
		},
	}

	flags := root.Flags()
	flags.StringP(config.KeyInputDir, "d", "", "directory to scan recursively")
	flags.StringArrayP(config.KeyFiles, "f", nil, "file to include regardless of extension (repeatable)")
	flags.StringP(config.KeyOutputFile, "o", "", "path of the XML document to write (required)")
	flags.StringSliceP(config.KeyExtensions, "e", nil, "allowed extensions for the scan (default .py,.ts,.jsx,.js,.tsx)")
	flags.StringArrayP(config.KeyIgnore, "i", nil, "gitignore-style pattern excluded from the scan (repeatable)")
	flags.String(config.KeyOnReadError, "skip", "unreadable files: skip, fail or embed")

	persistent := root.PersistentFlags()
	persistent.BoolP(config.KeyVerbose, "v", false, "enable debug logging")
	persistent.StringVar(&configFile, "config", "", "config file (default ./.codexml.yaml, then ~/.config/codexml/.codexml.yaml)")

	for _, key := range []string{
		config.KeyInputDir,
		config.KeyFiles,
		config.KeyOutputFile,
		config.KeyExtensions,
		config.KeyIgnore,
		config.KeyOnReadError,
	} {
		_ = v.BindPFlag(key, flags.Lookup(key))
	}
	_ = v.BindPFlag(config.KeyVerbose, persistent.Lookup(config.KeyVerbose))

	root.AddCommand(newVersionCmd())
	return root
}

// Execute runs the root command against the OS filesystem and reports a
// failure on stderr.
func Execute() error {
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		color.NoColor = true
	}

	if err := NewRootCmd(afero.NewOsFs()).Execute(); err != nil {
		color.New(color.FgRed, color.Bold).Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
