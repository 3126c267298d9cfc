// qrcoder generates printable QR code labels for a range of package ids.
//
// Usage:
//
//	qrcoder --type sample --start 100 --count 5 --dir ./out
//	qrcoder serve --port 8080
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/seedtabs/qrcoder/api"
	"github.com/seedtabs/qrcoder/config"
	"github.com/seedtabs/qrcoder/constant"
	"github.com/seedtabs/qrcoder/domain/label"
	"github.com/seedtabs/qrcoder/infrastructure/cache"
	"github.com/seedtabs/qrcoder/infrastructure/canvas"
	"github.com/seedtabs/qrcoder/infrastructure/db"
	appLogger "github.com/seedtabs/qrcoder/infrastructure/logger"
	"github.com/seedtabs/qrcoder/infrastructure/output"
	"github.com/seedtabs/qrcoder/infrastructure/qrcode"
	"github.com/seedtabs/qrcoder/infrastructure/typeface"
)

func main() {
	if err := run(os.Args[1:], os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// run dispatches to the batch command or, with a leading "serve", to the
// preview server. usage receives flag help and parse errors.
func run(args []string, usage io.Writer) error {
	cfg := config.LoadConfig()

	var err error
	if len(args) > 0 && args[0] == "serve" {
		err = runServe(args[1:], cfg, usage)
	} else {
		err = runBatch(args, cfg, usage)
	}
	if errors.Is(err, config.ErrHelp) {
		return nil
	}
	return err
}

// newService wires encoder, composer and writer for the selected variant
func newService(opts config.RenderOptions, writer label.Writer, log *appLogger.Logger, abortOnExceeded bool) (*label.Service, error) {
	face, err := typeface.Load(opts.FontPath, opts.FontSize)
	if err != nil {
		return nil, withExit(exitUsage, err)
	}

	return label.NewService(
		qrcode.NewDefaultGenerator(),
		canvas.NewComposer(face, opts.BandHeight),
		writer,
		log,
		label.Options{
			Template:        label.PayloadTemplate(opts.BaseURL),
			Variant:         opts.Variant(),
			AbortOnExceeded: abortOnExceeded,
		},
	), nil
}

func runBatch(args []string, cfg config.Config, usage io.Writer) error {
	opts, err := config.ParseBatch(args, cfg, usage)
	if err != nil {
		return err
	}

	log, err := appLogger.New(opts.Debug)
	if err != nil {
		return err
	}
	defer log.Close()

	if err := output.CheckOutside(opts.Dir, opts.LedgerPath); err != nil {
		return withExit(exitUsage, err)
	}

	variant := opts.Variant()
	writer := output.NewWriter(opts.Dir, variant.Format, opts.JPEGQuality)
	service, err := newService(opts.RenderOptions, writer, log, opts.AbortOnExceeded)
	if err != nil {
		return err
	}

	created, err := output.Prepare(opts.Dir)
	if err != nil {
		return rejectOutputDir(log, opts.Dir, err)
	}
	if created {
		log.Info(constant.MsgCreatingDirectory, appLogger.LoggerInfo{
			ContextFunction: constant.CtxMain,
			Data: map[string]interface{}{
				constant.DataDir: opts.Dir,
			},
		})
	}

	if opts.LedgerPath != "" {
		ledger, err := db.NewSQLiteLedger(opts.LedgerPath, log)
		if err != nil {
			return withExit(exitLedger, fmt.Errorf("open ledger %s: %w", opts.LedgerPath, err))
		}
		defer ledger.Close()
		service.WithLedger(ledger)

		log.Debug(constant.MsgLedgerOpened, appLogger.LoggerInfo{
			ContextFunction: constant.CtxMain,
			Data: map[string]interface{}{
				constant.DataLedgerPath: opts.LedgerPath,
			},
		})
	}

	_, err = service.Run(context.Background(), label.Request{
		Type:  opts.Type,
		Start: opts.Start,
		Count: opts.Count,
	})
	return err
}

// rejectOutputDir classifies a guard failure. The fatal line itself is
// printed once by main; the log only keeps the error code for debugging.
func rejectOutputDir(log *appLogger.Logger, dir string, err error) error {
	log.Debug("Output directory rejected", appLogger.LoggerInfo{
		ContextFunction: constant.CtxOutput,
		Error: &appLogger.CustomError{
			Code:    output.ErrorCode(err),
			Message: err.Error(),
			Type:    constant.ErrTypeOutput,
		},
		Data: map[string]interface{}{
			constant.DataDir: dir,
		},
	})
	return withExit(exitOutputDir, err)
}

func runServe(args []string, cfg config.Config, usage io.Writer) error {
	opts, err := config.ParseServe(args, cfg, usage)
	if err != nil {
		return err
	}

	log, err := appLogger.New(opts.Debug)
	if err != nil {
		return err
	}
	defer log.Close()

	service, err := newService(opts.RenderOptions, nil, log, false)
	if err != nil {
		return err
	}

	log.Info(constant.MsgApplicationStarting, appLogger.LoggerInfo{
		ContextFunction: constant.CtxServe,
		Data: map[string]interface{}{
			constant.DataPort:    opts.Port,
			constant.DataLabeled: !opts.Unlabeled,
		},
	})

	handler := api.NewHandler(service, cache.NewNamespaceLRU(opts.CacheSize), log, opts.JPEGQuality)
	router := api.NewRouter(handler, log)
	router.SetupRoutes()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", opts.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info(constant.MsgServerStarting, appLogger.LoggerInfo{
			ContextFunction: constant.CtxServe,
			Data: map[string]interface{}{
				constant.DataPort: opts.Port,
			},
		})

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(constant.MsgServerFailedToStart, appLogger.LoggerInfo{
				ContextFunction: constant.CtxServe,
				Error: &appLogger.CustomError{
					Code:    constant.ErrCodeAppServerStart,
					Message: err.Error(),
					Type:    constant.ErrTypeApp,
				},
				Data: map[string]interface{}{
					constant.DataPort: opts.Port,
				},
			})
			serveErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	select {
	case <-quit:
	case err := <-serveErr:
		return err
	}

	log.Info(constant.MsgServerShuttingDown, appLogger.LoggerInfo{
		ContextFunction: constant.CtxServe,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error(constant.MsgServerShutdownError, appLogger.LoggerInfo{
			ContextFunction: constant.CtxServe,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeAppServerShutdown,
				Message: err.Error(),
				Type:    constant.ErrTypeApp,
			},
		})
		return err
	}

	log.Info(constant.MsgServerStopped, appLogger.LoggerInfo{
		ContextFunction: constant.CtxServe,
	})
	return nil
}
