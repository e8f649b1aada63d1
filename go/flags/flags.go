// Package flags parses the command line and environment of the binaries into go-flags option structs.
package flags

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/jessevdk/go-flags"
)

// ErrHelp is returned when help was requested. The help text has already been written to stdout.
var ErrHelp = errors.New("help requested")

// MustParse parses os.Args and env into opts. It exits on error, or after printing help.
func MustParse(opts any) []string {
	args, err := ParseArgs(opts, os.Args[1:])
	if errors.Is(err, ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		slog.Error("parsing flags", "error", err)
		os.Exit(2)
	}
	return args
}

// ParseArgs parses args, without the program name, and env into opts. It returns the remaining arguments.
func ParseArgs(opts any, args []string) ([]string, error) {
	parser := flags.NewParser(opts, flags.HelpFlag|flags.PassDoubleDash)
	rest, err := parser.ParseArgs(args)
	if err != nil {
		var flagsError *flags.Error
		if errors.As(err, &flagsError) && flagsError.Type == flags.ErrHelp {
			parser.WriteHelp(os.Stdout)
			return nil, ErrHelp
		}
		return nil, fmt.Errorf("parsing flags: %w", err)
	}
	return rest, nil
}
