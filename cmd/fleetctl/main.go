// Package main provides fleetctl, a terminal view of the booster and ship fleet.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"rocket-tracker/internal/client"
	"rocket-tracker/internal/fleet"
	"rocket-tracker/internal/fleet/render"
	"rocket-tracker/internal/platform/config"
	"rocket-tracker/internal/platform/logger"

	"github.com/spf13/pflag"
)

const (
	defaultAPIURL  = "http://localhost:8080"
	defaultTimeout = 15 * time.Second
)

type options struct {
	apiURL   string
	booster  string
	ship     string
	json     bool
	timeout  time.Duration
	logLevel string
}

func main() {
	_ = config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

// run executes fleetctl and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if errors.Is(err, pflag.ErrHelp) {
		return 0
	}
	if err != nil {
		_ = render.Error(stderr, err.Error())
		return 2
	}

	log := logger.NewWithWriter(stderr, opts.logLevel, "text")
	api := client.New(opts.apiURL, nil)

	ctx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()

	if err := execute(ctx, api, opts, stdout, log); err != nil {
		log.Debug("fleetctl failed", slog.String("api", opts.apiURL), slog.String("error", err.Error()))
		_ = render.Error(stderr, err.Error())
		return 1
	}
	return 0
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options

	fs := pflag.NewFlagSet("fleetctl", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVarP(&opts.apiURL, "api", "a",
		config.GetEnv("TRACKER_API_URL", defaultAPIURL),
		"base URL of the tracker API")
	fs.StringVarP(&opts.booster, "booster", "b", "", "show the detail view of one booster")
	fs.StringVarP(&opts.ship, "ship", "s", "", "show the detail view of one ship")
	fs.BoolVarP(&opts.json, "json", "j", false, "print JSON instead of styled text")
	fs.DurationVar(&opts.timeout,
		"timeout",
		config.GetEnvDuration("TRACKER_TIMEOUT", defaultTimeout),
		"overall request timeout")
	fs.StringVar(&opts.logLevel, "log-level", config.GetEnv("LOG_LEVEL", "warn"), "diagnostic log level on stderr")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if fs.NArg() > 0 {
		return options{}, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	if opts.booster != "" && opts.ship != "" {
		return options{}, errors.New("--booster and --ship cannot be combined")
	}
	if opts.timeout <= 0 {
		return options{}, errors.New("--timeout must be positive")
	}
	return opts, nil
}

func execute(ctx context.Context, api *client.Client, opts options, stdout io.Writer, log *slog.Logger) error {
	switch {
	case opts.booster != "":
		return showVehicle(ctx, fleet.KindBooster, opts.booster, api.BoosterLaunches, opts.json, stdout, log)
	case opts.ship != "":
		return showVehicle(ctx, fleet.KindShip, opts.ship, api.ShipLaunches, opts.json, stdout, log)
	}

	launches, err := api.Launches(ctx)
	if err != nil {
		return fmt.Errorf("fetch launches: %w", err)
	}
	log.Debug("launches fetched", slog.Int("count", len(launches)))

	f := fleet.Aggregate(launches)
	if opts.json {
		return writeJSON(stdout, f)
	}
	return render.Fleet(stdout, f)
}

type fetchFunc func(ctx context.Context, number string) ([]fleet.LaunchRecord, error)

func showVehicle(ctx context.Context, kind fleet.Kind, number string, fetch fetchFunc, asJSON bool, stdout io.Writer, log *slog.Logger) error {
	n, err := strconv.Atoi(strings.TrimSpace(number))
	if err != nil || n <= 0 {
		return fmt.Errorf("%s number must be a positive integer, got %q", kind, number)
	}
	id := strconv.Itoa(n)

	launches, err := fetch(ctx, id)
	if err != nil {
		return fmt.Errorf("fetch %s %s: %w", kind, id, err)
	}
	log.Debug("vehicle launches fetched", slog.String("kind", string(kind)), slog.String("id", id), slog.Int("count", len(launches)))

	d, ok := fleet.Detail(kind, fleet.HardwareNumber(id), launches)
	if !ok {
		return fmt.Errorf("no launches found for %s %s", kind, id)
	}
	if asJSON {
		return writeJSON(stdout, d)
	}
	return render.Detail(stdout, d)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
