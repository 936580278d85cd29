package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/archport/pkg/archport"
	"github.com/arthur-debert/archport/pkg/archport/core"
	"github.com/arthur-debert/archport/pkg/archport/format"
	"github.com/arthur-debert/archport/pkg/archport/validation"
)

func newImportCommand() *cobra.Command {
	var (
		overwrite bool
		flat      bool
	)

	cmd := &cobra.Command{
		Use:   "import [archive] [destination] [entry...]",
		Short: "Extract entries of an archive into a directory",
		Long: fmt.Sprintf(`Import extracts the given entries, or the whole archive when none are given,
into the destination directory. Accepted archives: %s`, format.ImportMask[0]),
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("overwrite") {
				overwrite = cfg.Defaults.Overwrite
			}
			leadup := cfg.Defaults.CreateLeadup
			if cmd.Flags().Changed("flat") {
				leadup = !flat
			}

			report, err := archport.Import(cmd.Context(), archport.ImportOptions{
				Source:       args[0],
				Destination:  args[1],
				Entries:      args[2:],
				Overwrite:    overwrite,
				CreateLeadup: leadup,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printAdvisory(out, report.Outcome)
			fmt.Fprintf(out, "Imported %d entries into %s\n", len(report.Result.Written), report.Destination)
			if n := len(report.Result.Skipped); n > 0 {
				fmt.Fprintf(out, "Skipped %d existing or unsafe entries\n", n)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "replace existing files")
	cmd.Flags().BoolVar(&flat, "flat", false, "drop the directory prefix of each entry")

	return cmd
}

func newExportCommand() *cobra.Command {
	var (
		formatName string
		noCompress bool
		flat       bool
		yes        bool
	)

	cmd := &cobra.Command{
		Use:   "export [directory] [destination] [path...]",
		Short: "Write a directory into a new archive",
		Long: fmt.Sprintf(`Export writes the given paths, or the whole directory when none are given,
into a new archive. The destination suffix selects the format unless --format
is given. Written archives: %s`, format.ExportMask[0]),
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := cfg.DefaultFormat()
			switched := cmd.Flags().Changed("format")
			if switched {
				parsed, err := core.ParseArchiveFormat(formatName)
				if err != nil {
					return err
				}
				f = parsed
			}
			leadup := cfg.Defaults.CreateLeadup
			if cmd.Flags().Changed("flat") {
				leadup = !flat
			}
			compress := cfg.Defaults.Compress
			if cmd.Flags().Changed("no-compress") {
				compress = !noCompress
			}

			confirm := validation.Confirmer(validation.AlwaysConfirm)
			if !yes {
				confirm = promptConfirmer(cmd.InOrStdin(), cmd.OutOrStdout())
			}

			report, err := archport.Export(cmd.Context(), archport.ExportOptions{
				Source:       args[0],
				Destination:  args[1],
				Paths:        args[2:],
				Format:       f,
				SwitchFormat: switched,
				Compress:     compress,
				CreateLeadup: leadup,
				Oracle:       cfg.Oracle(),
				Confirm:      confirm,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printAdvisory(out, report.Outcome)
			fmt.Fprintf(out, "Exported %d entries to %s (%s)\n", len(report.Result.Written), report.Destination, report.Format)
			if n := len(report.Result.Skipped); n > 0 {
				fmt.Fprintf(out, "Skipped %d entries with duplicate names\n", n)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&formatName, "format", "f", "", "archive format: zip, tar, tar.gz, tar.bz2")
	cmd.Flags().BoolVar(&noCompress, "no-compress", false, "store zip entries without compression")
	cmd.Flags().BoolVar(&flat, "flat", false, "store entries by base name only")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "answer yes to overwrite and create-directory questions")

	return cmd
}
