package main

import (
	"context"

	"studentdir/internal/app"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func newServeCmd(rt *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run one of the HTTP demo services",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), rt)
		},
	}

	cmd.Flags().String("profile", "directory", "service to run: directory, lookup or greeting")
	cmd.Flags().String("address", ":8080", "listen address")
	cmd.Flags().String("roster-file", "", "CSV file replacing the profile's built-in roster")
	return cmd
}

func serve(ctx context.Context, rt *session) error {
	fxApp := fx.New(app.Options(rt.cfg, rt.logger))
	if err := fxApp.Err(); err != nil {
		return err
	}

	startCtx, cancel := context.WithTimeout(ctx, fxApp.StartTimeout())
	defer cancel()
	if err := fxApp.Start(startCtx); err != nil {
		return err
	}
	rt.logger.Info("serving", zap.String("profile", rt.cfg.Server.Profile))

	sig := <-fxApp.Done()
	rt.logger.Info("shutting down", zap.Stringer("signal", sig))

	stopCtx, cancel := context.WithTimeout(context.Background(), fxApp.StopTimeout())
	defer cancel()
	return fxApp.Stop(stopCtx)
}
