// Package notifier sends operator alerts when a queue's failsafe circuit
// breaker trips. It mirrors the upstream cluster-scaling failsafe
// notification path: a small provider registry keyed by name, one
// FailureMessage struct shared across backends.
package notifier

import (
	"fmt"
)

// FailureMessage carries everything a notification backend needs to
// render an alert for a tripped queue.
type FailureMessage struct {
	AlertUID          string
	ClusterIdentifier string
	Reason            string
	FailedResource    string
}

// Notifier is the interface every notification backend implements.
type Notifier interface {
	Name() string
	SendNotification(FailureMessage)
}

// NewProvider is the factory entrance to the notification backends.
func NewProvider(t string, c map[string]string) (Notifier, error) {
	var n Notifier
	var err error

	switch t {
	case "pagerduty":
		n, err = NewPagerDutyProvider(c)
	case "opsgenie":
		n, err = NewOpsGenieProvider(c)
	default:
		err = fmt.Errorf("the notifications provider %s is not supported", t)
	}
	return n, err
}
