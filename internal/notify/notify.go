package notify

import (
	"context"

	"github.com/goliatone/go-studio/internal/domain"
	"github.com/goliatone/go-studio/internal/logging"
	"github.com/goliatone/go-studio/pkg/interfaces"
)

// notifyingStatuses lists the pipeline stages a client or stakeholder cares
// to be told about.
var notifyingStatuses = map[domain.ProjectStatus]struct{}{
	domain.StatusShootingScheduled: {},
	domain.StatusShootingCompleted: {},
	domain.StatusDelivered:         {},
	domain.StatusCompleted:         {},
}

// Required reports whether reaching the supplied status must trigger an
// external notification.
func Required(to domain.ProjectStatus) bool {
	_, ok := notifyingStatuses[to]
	return ok
}

// NewNoOp returns a dispatcher that drops every notification. It keeps the
// status service operational when no channel is configured.
func NewNoOp() interfaces.Notifier {
	return noopNotifier{}
}

type noopNotifier struct{}

func (noopNotifier) Notify(context.Context, interfaces.StatusNotification) error {
	return nil
}

// LogDispatcher records notifications through the studio logger. It stands
// in for a real channel (email, SMS) in development wiring.
type LogDispatcher struct {
	logger interfaces.Logger
}

// NewLogDispatcher constructs a dispatcher that logs each notification.
func NewLogDispatcher(logger interfaces.Logger) *LogDispatcher {
	if logger == nil {
		logger = logging.NoOp()
	}
	return &LogDispatcher{logger: logger}
}

func (d *LogDispatcher) Notify(_ context.Context, notification interfaces.StatusNotification) error {
	logging.WithFields(d.logger, map[string]any{
		"project_id": notification.ProjectID.String(),
		"client":     notification.ClientName,
		"to_status":  notification.ToStatus,
		"changed_by": notification.ChangedBy,
	}).Info("notify.status_change")
	return nil
}

var _ interfaces.Notifier = (*LogDispatcher)(nil)
