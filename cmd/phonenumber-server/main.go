// Command phonenumber-server serves number reports over HTTP.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"

	"github.com/malonaz/libphonenumber/go/flags"
	"github.com/malonaz/libphonenumber/go/geocoding"
	"github.com/malonaz/libphonenumber/go/health"
	"github.com/malonaz/libphonenumber/go/http"
	"github.com/malonaz/libphonenumber/go/logging"
	"github.com/malonaz/libphonenumber/go/numberreport"
	"github.com/malonaz/libphonenumber/go/phonenumber"
	"github.com/malonaz/libphonenumber/go/prometheus"
)

type Opts struct {
	Logging    *logging.Opts     `group:"Logging" namespace:"log" env-namespace:"LOG"`
	Engine     *phonenumber.Opts `group:"Engine" namespace:"engine" env-namespace:"ENGINE"`
	HTTP       *http.Opts        `group:"HTTP" namespace:"http" env-namespace:"HTTP"`
	Health     *health.Opts      `group:"Health" namespace:"health" env-namespace:"HEALTH"`
	Prometheus *prometheus.Opts  `group:"Prometheus" namespace:"prometheus" env-namespace:"PROMETHEUS"`

	OutOfCountry     []string `long:"out-of-country" env:"OUT_OF_COUNTRY" env-delim:"," description:"Regions to render out-of-country formats from" default:"US"`
	MaxBatchSize     int      `long:"max-batch-size" env:"MAX_BATCH_SIZE" description:"Maximum number of numbers in a batch request" default:"1000"`
	BatchConcurrency int      `long:"batch-concurrency" env:"BATCH_CONCURRENCY" description:"Number of batch rows built in parallel" default:"8"`
}

func main() {
	opts := &Opts{}
	flags.MustParse(opts)
	if err := logging.Init(opts.Logging); err != nil {
		slog.Error("initializing logging", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	if err := run(ctx, opts); err != nil {
		slog.Error("phonenumber-server", "error", err)
		os.Exit(1)
	}
}

func newHandler(opts *Opts) (*numberreport.Handler, *phonenumber.Engine, error) {
	engine, err := phonenumber.NewFromOpts(opts.Engine)
	if err != nil {
		return nil, nil, err
	}
	geocoder, err := geocoding.NewDefault(engine)
	if err != nil {
		return nil, nil, err
	}
	builder := numberreport.NewBuilder(engine, geocoder).
		WithOutOfCountryRegions(opts.OutOfCountry...).
		WithConcurrency(opts.BatchConcurrency)
	return numberreport.NewHandler(builder).WithMaxBatchSize(opts.MaxBatchSize), engine, nil
}

func catalogCheck(engine *phonenumber.Engine) health.Check {
	return func(context.Context) error {
		if len(engine.GetSupportedRegions()) == 0 {
			return errors.New("metadata catalog has no regions")
		}
		return nil
	}
}

func run(ctx context.Context, opts *Opts) error {
	handler, engine, err := newHandler(opts)
	if err != nil {
		return err
	}
	httpServer := http.NewServer(opts.HTTP, func(s *http.Server) error {
		for pattern, handlerFunc := range handler.Routes() {
			if err := s.RegisterRoute(pattern, handlerFunc); err != nil {
				return err
			}
		}
		return nil
	})
	healthServer := health.NewServer(opts.Health, catalogCheck(engine))
	prometheusServer := prometheus.NewServer(opts.Prometheus)

	errGroup, groupCtx := errgroup.WithContext(ctx)
	errGroup.Go(func() error { return httpServer.Serve(groupCtx) })
	errGroup.Go(func() error { healthServer.Serve(groupCtx); return nil })
	errGroup.Go(func() error { prometheusServer.Start(groupCtx); return nil })
	errGroup.Go(func() error {
		<-groupCtx.Done()
		slog.Info("shutting down")
		var result *multierror.Error
		if err := httpServer.GracefulStop(); err != nil {
			result = multierror.Append(result, err)
		}
		if err := healthServer.Stop(context.Background()); err != nil {
			result = multierror.Append(result, err)
		}
		if err := prometheusServer.Stop(context.Background()); err != nil {
			result = multierror.Append(result, err)
		}
		return result.ErrorOrNil()
	})
	healthServer.MarkReady()
	return errGroup.Wait()
}
