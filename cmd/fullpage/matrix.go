package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-rod/fullpage/lib/matrix"
	"github.com/go-rod/fullpage/lib/report"
	"github.com/go-rod/fullpage/lib/stitch"
	"github.com/go-rod/fullpage/lib/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func matrixCmd() *cobra.Command {
	var (
		config    string
		url       string
		out       string
		sauceUser string
		sauceKey  string
		endpoint  string
	)

	cmd := &cobra.Command{
		Use:   "matrix",
		Short: "Capture the page on every browser of the targets file and report the result of each",
		RunE: func(cmd *cobra.Command, args []string) error {
			targets := matrix.Default()
			if config != "" {
				var err error
				targets, err = matrix.Load(config)
				if err != nil {
					return err
				}
			}

			r := matrix.New(targets)
			r.Logger = stdLog()
			if sauceUser != "" && sauceKey != "" {
				j := report.NewJobStatus(sauceUser, sauceKey)
				j.Endpoint = endpoint
				j.Logger = stdLog()
				r.Reporter = j
			}

			list, err := r.Run(cmd.Context(), capture(url, out))
			if err != nil {
				return err
			}

			failed := 0
			for _, res := range list {
				fields := []zap.Field{
					zap.String("target", res.Target.String()),
					zap.String("job", res.JobID),
					zap.Duration("duration", res.Duration),
				}
				if res.Passed {
					logger.Info("passed", fields...)
				} else {
					failed++
					logger.Error("failed", append(fields, zap.Error(res.Err))...)
				}
				if res.ReportErr != nil {
					logger.Warn("report failed", append(fields, zap.Error(res.ReportErr))...)
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d targets failed", failed, len(list))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&config, "config", "c", "", "yaml list of targets, a local headless chromium if empty")
	cmd.Flags().StringVar(&url, "url", "about:blank", "page to capture")
	cmd.Flags().StringVar(&out, "out", "shots", "dir of the composites")
	cmd.Flags().StringVar(&sauceUser, "sauce-user", os.Getenv("SAUCE_USERNAME"), "user of the job status api")
	cmd.Flags().StringVar(&sauceKey, "sauce-key", os.Getenv("SAUCE_ACCESS_KEY"), "access key of the job status api")
	cmd.Flags().StringVar(&endpoint, "sauce-endpoint", report.DefaultEndpoint, "endpoint of the job status api")

	return cmd
}

// capture is the fixture of the matrix
func capture(url, dir string) matrix.Fixture {
	return func(ctx context.Context, s *matrix.Session) error {
		page := s.Page.Context(ctx)

		if err := page.Navigate(url); err != nil {
			return err
		}
		if err := page.WaitLoad(); err != nil {
			return err
		}

		p := filepath.Join(dir, utils.SafeFileName(s.Target.Name)+".png")
		_, err := page.ScreenshotFullPageToFile(p, &stitch.Options{Logger: stdLog()})
		return err
	}
}
