package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/staticimport/swa/internal/fares"
)

// Channel delivers one message over a single medium.
type Channel interface {
	Name() string
	Send(ctx context.Context, subject, body string) error
}

// RetryPolicy is the number of delivery attempts and the fixed wait
// between them.
type RetryPolicy struct {
	Attempts int
	Delay    time.Duration
}

// Once attempts delivery a single time.
var Once = RetryPolicy{Attempts: 1}

// EmailRetry is ten attempts a minute apart.
var EmailRetry = RetryPolicy{Attempts: 10, Delay: time.Minute}

type route struct {
	channel Channel
	policy  RetryPolicy
}

// Fanout implements fares.Notifier by sending every alert to each of its
// channels in turn. A failing channel never stops the others.
type Fanout struct {
	routes []route
	logger *slog.Logger
}

func NewFanout() *Fanout {
	return &Fanout{logger: slog.Default().With("component", "notify")}
}

// Add registers ch with its retry policy.
func (f *Fanout) Add(ch Channel, policy RetryPolicy) *Fanout {
	if policy.Attempts < 1 {
		policy.Attempts = 1
	}
	f.routes = append(f.routes, route{channel: ch, policy: policy})
	return f
}

// Channels lists the registered channel names.
func (f *Fanout) Channels() []string {
	names := make([]string, 0, len(f.routes))
	for _, r := range f.routes {
		names = append(names, r.channel.Name())
	}
	return names
}

// Budget is the longest time any channel spends waiting between retries.
func (f *Fanout) Budget() time.Duration {
	var longest time.Duration
	for _, r := range f.routes {
		if wait := time.Duration(r.policy.Attempts-1) * r.policy.Delay; wait > longest {
			longest = wait
		}
	}
	return longest
}

// SendAlert returns a *fares.NotifyError naming every channel that gave up.
func (f *Fanout) SendAlert(ctx context.Context, subject, body string) error {
	failures := make(map[string]error)
	for _, r := range f.routes {
		if err := f.deliver(ctx, r, subject, body); err != nil {
			f.logger.Error("alert not delivered", "channel", r.channel.Name(), "error", err)
			failures[r.channel.Name()] = err
			continue
		}
		f.logger.Info("alert sent", "channel", r.channel.Name())
	}
	if len(failures) > 0 {
		return &fares.NotifyError{Failures: failures}
	}
	return nil
}

func (f *Fanout) deliver(ctx context.Context, r route, subject, body string) error {
	var err error
	for attempt := 1; attempt <= r.policy.Attempts; attempt++ {
		if err = r.channel.Send(ctx, subject, body); err == nil {
			return nil
		}
		if attempt == r.policy.Attempts {
			break
		}
		f.logger.Warn("alert delivery failed, will retry", "channel", r.channel.Name(),
			"attempt", attempt, "delay", r.policy.Delay, "error", err)

		timer := time.NewTimer(r.policy.Delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("%w (last error: %v)", ctx.Err(), err)
		case <-timer.C:
		}
	}
	return fmt.Errorf("after %d attempts: %w", r.policy.Attempts, err)
}
