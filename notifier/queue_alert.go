package notifier

import "fmt"

// QueueAlerter adapts a Notifier into the scheduler's FailsafeNotifier
// interface (structurally — no import of the scheduler package is needed).
// ClusterIdentifier is whatever label an operator wants attached to every
// alert (cluster name, environment), since a single notification backend
// is often shared across several scheduler instances.
type QueueAlerter struct {
	Backend           Notifier
	ClusterIdentifier string
}

// NotifyFailsafeTrip sends one FailureMessage describing the tripped
// queue and its consecutive-violation count.
func (a *QueueAlerter) NotifyFailsafeTrip(queue string, violations int) error {
	if a.Backend == nil {
		return nil
	}

	a.Backend.SendNotification(FailureMessage{
		AlertUID:          fmt.Sprintf("queue-failsafe-%s", queue),
		ClusterIdentifier: a.ClusterIdentifier,
		Reason:            fmt.Sprintf("%d consecutive invariant violations", violations),
		FailedResource:    queue,
	})

	return nil
}
