package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-rod/fullpage/lib/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func serveCmd() *cobra.Command {
	var (
		addr  string
		flags storeFlags
		users []string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the stored composites to their owners and the users they are shared with",
		RunE: func(cmd *cobra.Command, args []string) error {
			accounts, err := parseAccounts(users)
			if err != nil {
				return err
			}

			s, err := flags.open()
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			srv := server.New(s, accounts)
			srv.Logger = stdLog()

			httpServer := &http.Server{
				Addr:              addr,
				Handler:           srv.Engine(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx := cmd.Context()
			go func() {
				<-ctx.Done()
				shutdown, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
				defer cancel()
				_ = httpServer.Shutdown(shutdown)
			}()

			logger.Info("listening", zap.String("addr", addr))
			err = httpServer.ListenAndServe()
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "address to listen to")
	flags.register(cmd)
	cmd.Flags().StringArrayVar(&users, "user", nil, "account in the form of name:password, can be repeated")

	return cmd
}

func parseAccounts(list []string) (map[string]string, error) {
	if len(list) == 0 {
		return nil, errors.New("at least one --user is required")
	}

	accounts := map[string]string{}
	for _, s := range list {
		name, pass, ok := strings.Cut(s, ":")
		if !ok || name == "" || pass == "" {
			return nil, fmt.Errorf("invalid account: %q", s)
		}
		accounts[name] = pass
	}
	return accounts, nil
}
