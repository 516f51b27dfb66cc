package main

import (
	"context"
	"fmt"

	"github.com/go-rod/fullpage"
	"github.com/go-rod/fullpage/lib/fetcher"
	"github.com/go-rod/fullpage/lib/launcher"
	"github.com/go-rod/fullpage/lib/stitch"
	"github.com/go-rod/fullpage/lib/store"
	"github.com/go-rod/fullpage/lib/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type browserFlags struct {
	remote string
	bin    string
	show   bool
	fetch  bool
	width  int
	height int
}

func (f *browserFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.remote, "remote", "", "control url of a remote browser, such as ws://host:9222")
	cmd.Flags().StringVar(&f.bin, "bin", "", "path of the browser executable")
	cmd.Flags().BoolVar(&f.show, "show", false, "show the browser window")
	cmd.Flags().BoolVar(&f.fetch, "fetch", false, "download chromium if no browser is installed")
	cmd.Flags().IntVar(&f.width, "width", 1280, "window width")
	cmd.Flags().IntVar(&f.height, "height", 1024, "window height")
}

func (f *browserFlags) connect(ctx context.Context) (*fullpage.Browser, error) {
	b := fullpage.New().Context(ctx).Logger(stdLog())

	if f.remote != "" {
		u, err := launcher.ResolveURL(ctx, f.remote)
		if err != nil {
			return nil, err
		}
		b = b.ControlURL(u)
	} else {
		l := launcher.New().Context(ctx).Headless(!f.show).WindowSize(f.width, f.height)
		if f.bin != "" {
			l = l.Bin(f.bin)
		}
		if f.fetch {
			l = l.Fetch(&fetcher.Browser{Logger: stdLog()})
		}
		b = b.Launcher(l)
	}

	return b, b.Connect()
}

func shotCmd() *cobra.Command {
	var (
		browser browserFlags
		out     string
		format  string
		db      string
		dir     string
		owner   string
	)

	cmd := &cobra.Command{
		Use:   "shot URL",
		Short: "Capture the full length of a page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			b, err := browser.connect(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = b.Close() }()

			page, err := b.Page(args[0])
			if err != nil {
				return err
			}
			if err = page.WaitLoad(); err != nil {
				return err
			}
			if err = page.SetWindowSize(browser.width, browser.height); err != nil {
				return err
			}

			opts := &stitch.Options{Format: utils.ImgFormat(format), Logger: stdLog()}

			if db == "" {
				p, err := page.ScreenshotFullPageToFile(out, opts)
				if err != nil {
					return err
				}
				logger.Info("saved", zap.String("url", args[0]), zap.String("path", p))
				return nil
			}

			img, err := page.ScreenshotFullPage(opts)
			if err != nil {
				return err
			}

			s, err := store.Open(db, dir)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			shot, err := s.Save(ctx, owner, name(args[0], out), img)
			if err != nil {
				return err
			}
			logger.Info("stored", zap.String("url", args[0]), zap.String("id", shot.ID))
			fmt.Fprintln(cmd.OutOrStdout(), shot.ID)
			return nil
		},
	}

	browser.register(cmd)
	cmd.Flags().StringVarP(&out, "output", "o", "", "output file, defaults to a timestamp name under the defaults dir")
	cmd.Flags().StringVar(&format, "format", string(utils.ImgFormatPNG), "format of the viewport captures: png or jpeg")
	cmd.Flags().StringVar(&db, "db", "", "save the composite into the sqlite store instead of a plain file")
	cmd.Flags().StringVar(&dir, "dir", "shots", "image dir of the store")
	cmd.Flags().StringVar(&owner, "owner", "admin", "owner of the stored composite")

	return cmd
}

func name(u, out string) string {
	if out != "" {
		return out
	}
	return utils.SafeFileName(u) + ".png"
}
