package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/nguyengg/zipt"
	"github.com/schollz/progressbar/v3"
)

// pollInterval is how often the rendering goroutine pulls the relay's running total.
const pollInterval = 100 * time.Millisecond

// defaultBytes is equivalent to progressbar.DefaultBytes but writes to stderr with a throttle
// appropriate for a consumer that only ever polls.
func defaultBytes(maxBytes int64, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions64(maxBytes,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(10),
		progressbar.OptionThrottle(pollInterval),
		progressbar.OptionShowCount(),
		progressbar.OptionOnCompletion(func() {
			_, _ = fmt.Fprint(os.Stderr, "\n")
		}),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionFullWidth(),
		progressbar.OptionSetRenderBlankState(true))
}

// renderRelay is the consumer side of the progress relay: it polls the running total on a
// ticker, never blocking on the I/O worker, and returns once the relay signals completion.
// The bar is created lazily because the total is only known after the job's sizing phase.
//
// Run it in its own goroutine; done is closed when rendering has finished.
func renderRelay(relay *zipt.Relay, description string, done chan<- struct{}) {
	defer close(done)

	var bar *progressbar.ProgressBar
	tick := time.NewTicker(pollInterval)
	defer tick.Stop()

	for {
		select {
		case <-relay.Done():
			if bar != nil {
				_ = bar.Set64(relay.Current())
				_ = bar.Close()
			}
			return

		case <-tick.C:
			if bar == nil {
				max := relay.Max()
				if max <= 0 {
					continue
				}

				bar = defaultBytes(max, description)
			}

			_ = bar.Set64(relay.Current())
		}
	}
}
