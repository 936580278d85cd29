package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/archport/pkg/archport"
	"github.com/arthur-debert/archport/pkg/archport/config"
	"github.com/arthur-debert/archport/pkg/archport/core"
)

var (
	cfgFile  string
	logLevel string
	verbose  int
)

// cfg is replaced by setup before any subcommand runs.
var cfg = config.Default()

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "archport",
	Short: "Import and export zip and tar archives",
	Long: `archport imports entries from zip, tar, tar.gz and tar.bz2 archives into a
directory and exports directories into new archives. Destinations are checked
against the configured workspace before anything is written.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/archport/config.toml or ~/.archport.toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: trace, debug, info, warn, error")
	rootCmd.PersistentFlags().CountVarP(&verbose, "verbose", "v", "more logging, repeat for debug and trace")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(newResolveCommand())
	rootCmd.AddCommand(newListCommand())
	rootCmd.AddCommand(newImportCommand())
	rootCmd.AddCommand(newExportCommand())
}

// setup loads the config and configures logging before any subcommand runs.
func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	cfg = loaded

	level, err := resolveLevel()
	if err != nil {
		return err
	}
	archport.SetLogger(archport.NewLogger(cmd.ErrOrStderr(), level))
	archport.Logger().Debug().Str("config", cfg.Path).Msg("configuration loaded")
	return nil
}

// resolveLevel picks the log level from --log-level, then -v, then the
// config file.
func resolveLevel() (zerolog.Level, error) {
	if verbose > 0 && logLevel == "" {
		return archport.LevelForVerbosity(verbose), nil
	}
	name := cfg.Log.Level
	if logLevel != "" {
		name = logLevel
	}
	level, err := archport.LogLevelFromString(name)
	if err != nil {
		return level, fmt.Errorf("invalid log level %q: %w", name, err)
	}
	return level, nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `Print the version number of archport`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "archport version %s (commit: %s, built: %s)\n", version, commit, date)
	},
}

var (
	blockedColor  = color.New(color.FgRed)
	advisoryColor = color.New(color.FgYellow)
)

// printError reports err, in red when it is a blocked path or selection.
func printError(w io.Writer, err error) {
	if errors.Is(err, core.ErrPathBlocked) {
		_, _ = blockedColor.Fprintln(w, "blocked:", err)
		return
	}
	fmt.Fprintln(w, "Error:", err)
}

func printAdvisory(w io.Writer, outcome core.Outcome) {
	if outcome.IsAdvisory() {
		_, _ = advisoryColor.Fprintln(w, "warning:", outcome.Message)
	}
}

// promptConfirmer asks questions on out and reads y/n answers from in.
func promptConfirmer(in io.Reader, out io.Writer) func(string) bool {
	reader := bufio.NewReader(in)
	return func(question string) bool {
		fmt.Fprintf(out, "%s [y/N] ", question)
		answer, err := reader.ReadString('\n')
		if err != nil && answer == "" {
			return false
		}
		answer = strings.ToLower(strings.TrimSpace(answer))
		return answer == "y" || answer == "yes"
	}
}
