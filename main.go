package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/fsnotify/fsnotify"
	raven "github.com/getsentry/raven-go"
	flag "github.com/ogier/pflag"

	"github.com/obreport/collector/config"
	"github.com/obreport/collector/input/system"
	"github.com/obreport/collector/runner"
	"github.com/obreport/collector/scheduler"
	"github.com/obreport/collector/state"
	"github.com/obreport/collector/util"
)

const defaultConfigFile = "/etc/obreport-collector.conf"

func main() {
	var showVersion bool
	var verbose bool
	var quiet bool
	var testRun bool
	var dryRun bool
	var reload bool
	var configFilename string
	var serverURL string
	var intervalSeconds int
	var schedule string

	flag.BoolVarP(&showVersion, "version", "V", false, "Shows the version of the collector and exits")
	flag.BoolVarP(&verbose, "verbose", "v", false, "Outputs additional debugging information")
	flag.BoolVarP(&quiet, "quiet", "q", false, "Only outputs errors")
	flag.BoolVar(&testRun, "test", false, "Collects and submits a single report, then exits")
	flag.BoolVar(&dryRun, "dry-run", false, "Collects a single report and prints it instead of submitting")
	flag.BoolVar(&reload, "reload", false, "Asks the running daemon to re-read its configuration, then exits")
	flag.StringVar(&configFilename, "config", defaultConfigFile, "Configuration file to use")
	flag.StringVarP(&serverURL, "server-url", "s", "", "URL reports are submitted to (required)")
	flag.IntVarP(&intervalSeconds, "interval", "i", 0, "Seconds between reports (required, at least 1)")
	flag.StringVar(&schedule, "schedule", "", "Cron expression overriding the fixed interval")
	flag.Parse()

	if showVersion {
		fmt.Printf("%s\n", util.CollectorVersion)
		return
	}

	logger := util.NewLogger()
	logger.Verbose = verbose
	logger.Quiet = quiet

	if reload {
		pid, err := util.Reload()
		if err != nil {
			logger.PrintError("Error: %s", err)
			os.Exit(1)
		}
		logger.PrintInfo("Reloaded collector daemon (pid %d)", pid)
		return
	}

	conf, err := readConfig(logger, configFilename, serverURL, intervalSeconds, schedule, verbose)
	if err != nil {
		logger.PrintError("Config Error: %s", err)
		fmt.Fprintf(os.Stderr, "Usage: %s [-v/--verbose] -s/--server-url <URL> -i/--interval <seconds>\n", os.Args[0])
		// LSB init script convention: 2 for invalid or excess arguments
		os.Exit(2)
	}
	logger.Verbose = logger.Verbose || conf.Verbose

	if conf.ErrorReportingDSN != "" {
		if err := raven.SetDSN(conf.ErrorReportingDSN); err != nil {
			logger.PrintWarning("Failed to set up error reporting: %s", err)
		}
	}

	logger.PrintVerbose("Running %s on %s", util.CollectorNameAndVersion, system.DescribeHost())

	opts := state.CollectionOpts{
		SubmitCollectedData: !dryRun,
		TestRun:             testRun || dryRun,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if opts.TestRun {
		if err := runner.Run(ctx, opts, logger, conf); err != nil {
			os.Exit(1)
		}
		return
	}

	wg := sync.WaitGroup{}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)

	doReload := make(chan struct{}, 1)
	requestReload := func() {
		select {
		case doReload <- struct{}{}:
		default:
		}
	}

	go func() {
		for sig := range sigs {
			if sig == syscall.SIGHUP {
				logger.PrintInfo("Received SIGHUP, reloading configuration")
				requestReload()
				continue
			}
			logger.PrintWarning("Received termination signal, stopping daemon...")
			cancel()
		}
	}()

	watchConfig(ctx, logger, configFilename, requestReload)

	if conf.HealthCheckAddr != "" {
		util.SetupHealthCheck(ctx, logger, &wg, conf.HealthCheckAddr)
	}

	util.NotifyReady(logger)

	exitCode := 0
runLoop:
	for {
		runCtx, stopRun := context.WithCancel(ctx)

		runDone := make(chan error, 1)
		wg.Add(1)
		go func() {
			runDone <- runner.Run(runCtx, opts, logger, conf)
			wg.Done()
		}()

		select {
		case err := <-runDone:
			stopRun()
			if err != nil && ctx.Err() == nil {
				logger.PrintError("Error: Shutting down daemon due to: %s", err)
				raven.CaptureErrorAndWait(err, nil)
				// LSB init script convention: 1 for unspecified errors
				exitCode = 1
			}
			break runLoop
		case <-doReload:
			stopRun()
			<-runDone
			if ctx.Err() != nil {
				break runLoop
			}
			newConf, err := readConfig(logger, configFilename, serverURL, intervalSeconds, schedule, verbose)
			if err != nil {
				logger.PrintError("Config Error: %s, keeping old configuration", err)
			} else {
				conf = newConf
				logger.Verbose = verbose || conf.Verbose
			}
		}
	}

	signal.Stop(sigs)
	cancel()
	wg.Wait()

	util.NotifyStopping(logger)
	logger.PrintInfo("Daemon has been successfully stopped")
	os.Exit(exitCode)
}

// readConfig merges command line flags on top of the config file and
// environment, then validates the result.
func readConfig(logger *util.Logger, filename string, serverURL string, intervalSeconds int, schedule string, verbose bool) (config.ServerConfig, error) {
	conf, err := config.Read(logger, filename)
	if err != nil {
		return conf, err
	}

	if serverURL != "" {
		conf.ServerURL = serverURL
	}
	if intervalSeconds != 0 {
		conf.IntervalSeconds = intervalSeconds
	}
	if schedule != "" {
		conf.Schedule = schedule
	}
	if verbose {
		conf.Verbose = true
	}

	if err := conf.Validate(); err != nil {
		return conf, err
	}
	if _, err := scheduler.GroupFromConfig(conf.IntervalSeconds, conf.Schedule); err != nil {
		return conf, err
	}

	return conf, nil
}

// watchConfig reloads the daemon when the config file changes on disk, the
// same path as SIGHUP. The watch is placed on the containing directory, not
// the file: editors and provisioning tools replace config files by renaming
// a temporary file over them, which ends a watch held on the old inode.
func watchConfig(ctx context.Context, logger *util.Logger, filename string, requestReload func()) {
	if filename == "" {
		return
	}
	if _, err := os.Stat(filename); err != nil {
		return
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logger.PrintVerbose("Could not watch config file: %s", err)
		return
	}
	if err := watcher.Add(filepath.Dir(filename)); err != nil {
		logger.PrintVerbose("Could not watch config file: %s", err)
		watcher.Close()
		return
	}

	configPath := filepath.Clean(filename)

	go func() {
		defer watcher.Close()
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != configPath {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
					logger.PrintInfo("Config file changed, reloading configuration")
					requestReload()
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.PrintVerbose("Config watcher error: %s", err)
			case <-ctx.Done():
				return
			}
		}
	}()
}
