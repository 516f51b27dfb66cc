package main

import (
	"fmt"

	"github.com/go-rod/fullpage/lib/fetcher"
	"github.com/go-rod/fullpage/lib/launcher"
	"github.com/spf13/cobra"
)

func fetchCmd() *cobra.Command {
	f := &fetcher.Browser{}
	force := false

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Print the path of the browser, download chromium if none is installed",
		RunE: func(cmd *cobra.Command, args []string) error {
			f.Logger = stdLog()

			if !force {
				if p, has := launcher.LookPath(); has {
					fmt.Fprintln(cmd.OutOrStdout(), p)
					return nil
				}
			}

			p, err := f.Get(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), p)
			return nil
		},
	}

	cmd.Flags().StringVar(&f.Host, "host", fetcher.DefaultHost, "host of the snapshots")
	cmd.Flags().IntVar(&f.Revision, "revision", fetcher.DefaultRevision, "chromium revision")
	cmd.Flags().StringVar(&f.Dir, "dir", "", "download dir")
	cmd.Flags().BoolVar(&force, "force", false, "ignore the installed browsers")

	return cmd
}
