package report

import (
	"context"
	"log"
	"strings"
)

// Notifier dispatches finished reports to the admin distribution
// list. The default implementation only simulates the send; real
// SMTP delivery is a host concern.
type Notifier interface {
	SendReports(ctx context.Context, recipients []string, reports []TestReport) error
}

type logNotifier struct{}

// NewLogNotifier returns a Notifier that logs the dispatch instead of
// sending mail.
func NewLogNotifier() Notifier { return logNotifier{} }

func (logNotifier) SendReports(_ context.Context, recipients []string, reports []TestReport) error {
	log.Printf("sending %d report(s) to admins: %s", len(reports), strings.Join(recipients, ", "))
	return nil
}
