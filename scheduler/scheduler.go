package scheduler

import (
	"context"
	"time"

	"github.com/gorhill/cronexpr"
	"github.com/pkg/errors"

	"github.com/obreport/collector/util"
)

// Group decides when cycles run. Either a fixed interval between cycles, or a
// cron expression for deployments that want reports aligned to wall-clock
// times.
type Group struct {
	Interval time.Duration
	Cron     *cronexpr.Expression
}

func GroupFromConfig(intervalSeconds int, schedule string) (Group, error) {
	if schedule != "" {
		expr, err := cronexpr.Parse(schedule)
		if err != nil {
			return Group{}, errors.Wrap(err, "invalid schedule expression")
		}
		return Group{Cron: expr}, nil
	}

	return Group{Interval: time.Duration(intervalSeconds) * time.Second}, nil
}

// Schedule runs the runner serially until ctx is cancelled. Cycles never
// overlap: a slow runner delays the next cycle rather than skipping it. The
// wait between cycles is interruptible, a cancellation mid-sleep returns
// promptly instead of waiting out the interval.
func (group Group) Schedule(ctx context.Context, runner func(), logger *util.Logger, logName string) {
	if group.Cron != nil {
		group.scheduleCron(ctx, runner, logger, logName)
		return
	}

	for {
		runner()

		logger.PrintVerbose("Scheduled next run for %s in %+v", logName, group.Interval)

		select {
		case <-time.After(group.Interval):
		case <-ctx.Done():
			return
		}
	}
}

func (group Group) scheduleCron(ctx context.Context, runner func(), logger *util.Logger, logName string) {
	for {
		delay := group.Cron.Next(time.Now()).Sub(time.Now())

		logger.PrintVerbose("Scheduled next run for %s in %+v", logName, delay)

		select {
		case <-time.After(delay):
			runner()
		case <-ctx.Done():
			return
		}
	}
}
