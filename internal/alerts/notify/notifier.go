package notify

import (
	"context"
	"errors"
	"log"
	"time"

	alerts "pointage-cloud/internal/alerts/domain"
	"pointage-cloud/internal/observability/metrics"
)

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// Notifier renders an alert summary and dispatches it to every configured
// destination. Delivery is fire-and-forget: failures are reported per
// destination and never retried.
type Notifier struct {
	channel      Channel
	tpl          *Template
	destinations []string
	clock        Clock
	logger       *log.Logger
}

// NewNotifier constructs a notifier.
func NewNotifier(channel Channel, tpl *Template, destinations []string, clock Clock, logger *log.Logger) (*Notifier, error) {
	if channel == nil {
		return nil, errors.New("alert notifier: nil channel")
	}
	if tpl == nil {
		return nil, errors.New("alert notifier: nil template")
	}
	if clock == nil {
		return nil, errors.New("alert notifier: nil clock")
	}
	return &Notifier{
		channel:      channel,
		tpl:          tpl,
		destinations: destinations,
		clock:        clock,
		logger:       logger,
	}, nil
}

// Notify sends the rendered summary to each destination. The first render
// failure aborts; per-destination send failures are logged and do not stop
// the remaining sends.
func (n *Notifier) Notify(ctx context.Context, alertList []alerts.Alert) error {
	if n == nil {
		return errors.New("alert notifier: nil")
	}
	if len(alertList) == 0 || len(n.destinations) == 0 {
		return nil
	}
	content, err := n.tpl.Render(alertList, n.clock.Now())
	if err != nil {
		return err
	}

	var lastErr error
	for _, destination := range n.destinations {
		err := n.channel.Send(ctx, destination, content)
		metrics.CountSMS(err)
		if err != nil {
			lastErr = err
			if n.logger != nil {
				n.logger.Printf("alert sms to %s failed: %v", destination, err)
			}
			continue
		}
		if n.logger != nil {
			n.logger.Printf("alert sms to %s sent", destination)
		}
	}
	return lastErr
}
