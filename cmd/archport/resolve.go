package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/archport/pkg/archport/core"
	"github.com/arthur-debert/archport/pkg/archport/session"
)

func newResolveCommand() *cobra.Command {
	var (
		formatName string
		switched   bool
	)

	cmd := &cobra.Command{
		Use:   "resolve [path]",
		Short: "Print the destination path an export would write",
		Long: `Resolve applies the archive suffix rules to a destination path. Without
--switch a recognized suffix on the path selects the format; with --switch the
path is re-stamped with the suffix of --format.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := cfg.DefaultFormat()
			if formatName != "" {
				parsed, err := core.ParseArchiveFormat(formatName)
				if err != nil {
					return err
				}
				f = parsed
			}

			c := session.New(session.WithFormat(f))
			var dest string
			if switched {
				dest = c.SwitchFormat(f, args[0])
			} else {
				dest = c.ResolveDestination(args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", dest, c.Format())
			return nil
		},
	}

	cmd.Flags().StringVarP(&formatName, "format", "f", "", "archive format: zip, tar, tar.gz, tar.bz2")
	cmd.Flags().BoolVar(&switched, "switch", false, "re-stamp the path with the suffix of --format")

	return cmd
}
