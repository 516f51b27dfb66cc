package main

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-rod/fullpage/lib/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// storeFlags locate the sqlite store that serve reads
type storeFlags struct {
	db  string
	dir string
}

func (f *storeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.db, "db", "shots.db", "sqlite database")
	cmd.Flags().StringVar(&f.dir, "dir", "shots", "image dir")
}

func (f *storeFlags) open() (*store.Store, error) {
	return store.Open(f.db, f.dir)
}

func shareCmd() *cobra.Command {
	var flags storeFlags

	cmd := &cobra.Command{
		Use:   "share ID USER",
		Short: "Let another user view a stored composite",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := flags.open()
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			if err := s.Share(cmd.Context(), args[0], args[1]); err != nil {
				return fmt.Errorf("share %s: %w", args[0], err)
			}
			logger.Info("shared", zap.String("id", args[0]), zap.String("user", args[1]))
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func rmCmd() *cobra.Command {
	var flags storeFlags

	cmd := &cobra.Command{
		Use:   "rm ID...",
		Short: "Delete stored composites and their files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := flags.open()
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			for _, id := range args {
				if err := s.Delete(cmd.Context(), id); err != nil {
					return fmt.Errorf("rm %s: %w", id, err)
				}
				logger.Info("deleted", zap.String("id", id))
			}
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func lsCmd() *cobra.Command {
	var flags storeFlags

	cmd := &cobra.Command{
		Use:   "ls USER",
		Short: "List the composites the user owns or can view",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := flags.open()
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			list, err := s.List(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, shot := range list {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%dx%d\n",
					shot.ID, shot.Owner, shot.Name, shot.Width, shot.Height)
			}
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

// importCmd records a png that is already under the image dir, such as a composite
// written by "shot -o" into the dir
func importCmd() *cobra.Command {
	var (
		flags storeFlags
		owner string
		title string
	)

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Record a png under the image dir as a stored composite",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rel, err := relFile(flags.dir, args[0])
			if err != nil {
				return err
			}

			f, err := os.Open(filepath.Join(flags.dir, rel))
			if err != nil {
				return err
			}
			conf, err := png.DecodeConfig(f)
			_ = f.Close()
			if err != nil {
				return fmt.Errorf("import %s: %w", args[0], err)
			}

			s, err := flags.open()
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			shotName := title
			if shotName == "" {
				shotName = filepath.Base(rel)
			}

			shot := &store.Shot{Name: shotName, Owner: owner, File: rel, Width: conf.Width, Height: conf.Height}
			if err := s.Record(cmd.Context(), shot); err != nil {
				return err
			}
			logger.Info("imported", zap.String("file", rel), zap.String("id", shot.ID))
			fmt.Fprintln(cmd.OutOrStdout(), shot.ID)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&owner, "owner", "admin", "owner of the composite")
	cmd.Flags().StringVar(&title, "name", "", "download name, defaults to the file name")
	return cmd
}

// relFile returns the path of file relative to dir, the file must be inside dir
func relFile(dir, file string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	absFile, err := filepath.Abs(file)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(absDir, absFile)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is not under the image dir %s", file, dir)
	}
	return rel, nil
}
