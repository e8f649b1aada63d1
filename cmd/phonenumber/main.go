// Command phonenumber prints the report of a phone number, or of a comma separated batch of numbers, as JSON.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"

	"github.com/malonaz/libphonenumber/go/flags"
	"github.com/malonaz/libphonenumber/go/geocoding"
	"github.com/malonaz/libphonenumber/go/logging"
	"github.com/malonaz/libphonenumber/go/numberreport"
	"github.com/malonaz/libphonenumber/go/phonenumber"
	"github.com/malonaz/libphonenumber/go/phonenumber/metadata"
)

type Opts struct {
	Logging *logging.Opts     `group:"Logging" namespace:"log" env-namespace:"LOG"`
	Engine  *phonenumber.Opts `group:"Engine" namespace:"engine" env-namespace:"ENGINE"`

	Number        string   `long:"number" short:"n" description:"Number to report on"`
	Region        string   `long:"region" short:"r" env:"PHONENUMBER_REGION" description:"Region national numbers are read against" default:"US"`
	Language      string   `long:"language" short:"l" description:"Language of the location" default:"en"`
	BatchFile     string   `long:"batch-file" description:"File of comma separated numbers to report on, - for stdin"`
	OutOfCountry  []string `long:"out-of-country" description:"Regions to render out-of-country formats from" default:"US"`
	GeocodingFile string   `long:"geocoding-file" description:"YAML area descriptions to use instead of the embedded ones"`
	DumpCatalog   bool     `long:"dump-catalog" description:"Print the metadata catalog in use as YAML and exit"`
}

var errNothingToDo = errors.New("one of --number, --batch-file or --dump-catalog is required")

func main() {
	opts := &Opts{}
	flags.MustParse(opts)
	if err := logging.Init(opts.Logging); err != nil {
		slog.Error("initializing logging", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	if err := run(ctx, opts, os.Stdin, os.Stdout); err != nil {
		slog.Error("phonenumber", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts *Opts, stdin io.Reader, stdout io.Writer) error {
	engine, err := phonenumber.NewFromOpts(opts.Engine)
	if err != nil {
		return err
	}
	if opts.DumpCatalog {
		bytes, err := metadata.MarshalYAML(engine.Repository().Regions())
		if err != nil {
			return fmt.Errorf("marshaling catalog: %w", err)
		}
		_, err = stdout.Write(bytes)
		return err
	}

	geocoder, err := newGeocoder(engine, opts.GeocodingFile)
	if err != nil {
		return err
	}
	builder := numberreport.NewBuilder(engine, geocoder).WithOutOfCountryRegions(opts.OutOfCountry...)

	switch {
	case opts.BatchFile != "":
		numbers, err := readBatch(opts.BatchFile, stdin)
		if err != nil {
			return err
		}
		rows, err := builder.Batch(ctx, numbers, opts.Region)
		if err != nil {
			return err
		}
		if err := numberreport.Errors(rows); err != nil {
			slog.WarnContext(ctx, "some numbers could not be parsed", "error", err)
		}
		return write(stdout, &numberreport.BatchResponse{Region: opts.Region, Rows: rows})
	case opts.Number != "":
		report, err := builder.Single(&numberreport.Request{Number: opts.Number, DefaultRegion: opts.Region, Language: opts.Language})
		if err != nil {
			return err
		}
		return write(stdout, report)
	default:
		return errNothingToDo
	}
}

func newGeocoder(engine *phonenumber.Engine, path string) (*geocoding.Geocoder, error) {
	if path == "" {
		return geocoding.NewDefault(engine)
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening geocoding data: %w", err)
	}
	defer file.Close()
	data, err := geocoding.DecodeYAML(file)
	if err != nil {
		return nil, err
	}
	return geocoding.New(engine, data)
}

func readBatch(path string, stdin io.Reader) ([]string, error) {
	var bytes []byte
	var err error
	if path == "-" {
		bytes, err = io.ReadAll(stdin)
	} else {
		bytes, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading batch: %w", err)
	}
	return numberreport.SplitBatch(string(bytes)), nil
}

func write(w io.Writer, v any) error {
	if err := json.MarshalWrite(w, v, json.Deterministic(true), jsontext.Multiline(true)); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}
