package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/danielpatrickdp/liuyao-engine/internal/rpc"
)

type serveOptions struct {
	addr        string
	metricsAddr string
}

func newServeCmd(root *rootOptions) *cobra.Command {
	opts := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve ChartService over gRPC with Prometheus metrics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, root, opts)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.addr, "addr", envOr("LIUYAO_ADDR", "localhost:50051"), "gRPC listen address")
	f.StringVar(&opts.metricsAddr, "metrics-addr", ":9090", "metrics listen address, empty to disable")
	return cmd
}

func runServe(cmd *cobra.Command, root *rootOptions, opts *serveOptions) error {
	logger, err := root.logger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	engine, err := root.engine(logger.Named("engine"))
	if err != nil {
		return err
	}

	lis, err := net.Listen("tcp", opts.addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", opts.addr, err)
	}
	metrics := rpc.NewMetrics("liuyao")
	gs := grpc.NewServer()
	rpc.NewServer(engine, logger.Named("rpc"), metrics).Register(gs)

	var httpSrv *http.Server
	if opts.metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		httpSrv = &http.Server{Addr: opts.metricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("grpc listening", zap.String("addr", lis.Addr().String()), zap.Strings("rule_sets", engine.Rules().Keys()))
		return gs.Serve(lis)
	})
	if httpSrv != nil {
		g.Go(func() error {
			logger.Info("metrics listening", zap.String("addr", opts.metricsAddr))
			if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		gs.GracefulStop()
		if httpSrv != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return httpSrv.Shutdown(shutdownCtx)
		}
		return nil
	})
	return g.Wait()
}
