package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/itsatony/go-mathsnap"
	"go.uber.org/zap"
)

type serveConfig struct {
	engine   engineFlags
	addr     string
	store    string
	storeDSN string
}

func runServe(args []string, stdout, stderr io.Writer) int {
	cfg, err := parseServeFlags(args)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, CmdNameServe, err)
		return ExitCodeUsageError
	}

	appCfg, err := cfg.engine.loadConfig()
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgConfigFailed, err)
		return ExitCodeUsageError
	}
	logger := newLogger(cfg.engine.verbose, stderr)
	defer func() { _ = logger.Sync() }()

	renderer, err := newRenderer(appCfg, logger)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgRendererFailed, err)
		return ExitCodeError
	}

	handlerOpts := append(appCfg.HandlerOptions(), mathsnap.WithHandlerLogger(logger))

	driver, dsn := cfg.store, cfg.storeDSN
	if driver == "" {
		driver, dsn = appCfg.Store.Driver, appCfg.Store.Connection
	}
	if driver != "" {
		store, err := mathsnap.OpenStore(driver, dsn)
		if err != nil {
			fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgOpenStoreFailed, err)
			return ExitCodeError
		}
		defer store.Close()
		handlerOpts = append(handlerOpts, mathsnap.WithStore(store))
	}

	addr := cfg.addr
	if addr == "" {
		addr = appCfg.Server.Addr
	}
	if addr == "" {
		addr = FlagDefaultAddr
	}

	server := &http.Server{
		Addr:              addr,
		Handler:           mathsnap.NewHandler(renderer, handlerOpts...),
		ReadHeaderTimeout: ServerReadHeaderTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()
	fmt.Fprintf(stdout, ServeTextListening, addr)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgServeFailed, err)
			return ExitCodeError
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ServerShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn(ErrMsgServeFailed, zap.Error(err))
		}
	}
	return ExitCodeSuccess
}

func parseServeFlags(args []string) (*serveConfig, error) {
	fs := flag.NewFlagSet(CmdNameServe, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	cfg := &serveConfig{}
	cfg.engine.register(fs)
	fs.StringVar(&cfg.addr, FlagAddr, "", "")
	fs.StringVar(&cfg.store, FlagStore, "", "")
	fs.StringVar(&cfg.storeDSN, FlagStoreDSN, "", "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return cfg, nil
}
