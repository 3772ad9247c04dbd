// @title         seqfeat API
// @version       0.1.0
// @description   One-hot and composition features for protein sequences

// Command seqfeat-api serves sequence features over HTTP
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"seqfeat/internal/platform/config"
	"seqfeat/internal/platform/logger"
	phttp "seqfeat/internal/platform/net/http"
	"seqfeat/internal/platform/store"
	"seqfeat/internal/services/api"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := serve(ctx); err != nil {
		logger.Get().Error().Err(err).Msg("seqfeat-api stopped")
		os.Exit(1)
	}
}

// serve runs until ctx is cancelled or the listener fails
func serve(ctx context.Context) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	root := config.New()

	// pg and ch stay nil unless their SERVICE_*_DBURL is set
	st, err := store.Open(ctx, store.FromConfig(root, "seqfeat-api"), store.WithLogger(*logger.Named("store")))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := st.Close(context.Background()); cerr != nil {
			logger.Get().Warn().Err(cerr).Msg("store close")
		}
	}()

	srv := phttp.NewServer(root)
	if err := api.Mount(ctx, srv.Router(), api.Options{Config: root, Store: st}); err != nil {
		return err
	}
	logger.Get().Info().Strs("backends", st.Backends()).Msg("seqfeat-api starting")
	return srv.Run(ctx)
}
