package runner

import (
	"context"
	"fmt"

	raven "github.com/getsentry/raven-go"

	"github.com/obreport/collector/config"
	"github.com/obreport/collector/input/system"
	"github.com/obreport/collector/output"
	"github.com/obreport/collector/scheduler"
	"github.com/obreport/collector/state"
	"github.com/obreport/collector/util"
)

// Swapped out in tests to feed synthetic snapshots through the cycle
var collectSnapshot = system.Collect

// Run executes the sampling-and-delivery loop until ctx is cancelled. For
// test and dry runs exactly one cycle is performed and its error returned.
// In daemon mode the returned error is always nil on shutdown: per-cycle
// errors are contained within the cycle, only initialization can fail.
func Run(ctx context.Context, opts state.CollectionOpts, logger *util.Logger, conf config.ServerConfig) error {
	group, err := scheduler.GroupFromConfig(conf.IntervalSeconds, conf.Schedule)
	if err != nil {
		return err
	}

	reporter := output.NewReporter(conf.ServerURL)
	defer reporter.Close()

	if opts.TestRun {
		return processCycle(reporter, opts, logger, conf)
	}

	group.Schedule(ctx, func() {
		err := processCycle(reporter, opts, logger, conf)
		if err != nil {
			raven.CaptureError(err, map[string]string{"server_url": conf.ServerURL})
			return
		}
		util.NotifyWatchdog(logger)
	}, logger, "report")

	return nil
}

// processCycle is one full cycle: collect, serialize, deliver. Any failure
// abandons the cycle; the next tick starts from scratch with a fresh
// collection attempt. The cycle deliberately takes no context: once a cycle
// has started it runs to completion, shutdown only interrupts the wait in
// between cycles.
func processCycle(reporter *output.Reporter, opts state.CollectionOpts, logger *util.Logger, conf config.ServerConfig) error {
	snapshot, err := collectSnapshot()
	if err != nil {
		logger.PrintError("Error: Failed to collect system stats: %s", err)
		return err
	}

	payload, err := output.Serialize(snapshot)
	if err != nil {
		logger.PrintError("Error: Failed to serialize system stats: %s", err)
		return err
	}

	if !opts.SubmitCollectedData {
		logger.PrintInfo("Dry run - data that would have been sent will be output on stdout:")
		fmt.Println(string(payload))
		return nil
	}

	logger.PrintVerbose("Submitting report to %s (%d bytes)", conf.ServerURL, len(payload))

	err = reporter.Post(payload)
	if err != nil {
		logger.PrintError("Error: Failed to submit system stats: %s", err)
		return err
	}

	logger.PrintInfo("Submitted report successfully")
	return nil
}
