package scheduler

import (
	"fmt"
	"math"

	multierror "github.com/hashicorp/go-multierror"

	"github.com/elsevier-core-engineering/capshare/scheduler/structs"
)

// capacityTolerance absorbs floating-point drift from the residual-split
// arithmetic the config loader performs; SPEC_FULL I2 requires the sum to
// equal 100, not merely approximate it, but the loader works in float64.
const capacityTolerance = 0.01

// validateConfig enforces SPEC_FULL §6's structural invariants on a parsed
// configuration before the scheduler will start against it. It aggregates
// every violation with go-multierror rather than failing fast on the
// first one, the same way the config loader reports HCL decode errors.
func validateConfig(cfg *structs.SchedulerConfig) error {
	var result *multierror.Error

	if cfg == nil || len(cfg.Queues) == 0 {
		return multierror.Append(result, fmt.Errorf("at least one queue must be configured"))
	}

	seen := make(map[string]bool, len(cfg.Queues))
	var total float64

	for _, q := range cfg.Queues {
		if q.Name == "" {
			result = multierror.Append(result, fmt.Errorf("queue has no name"))
			continue
		}
		if seen[q.Name] {
			result = multierror.Append(result, fmt.Errorf("queue %q configured more than once", q.Name))
		}
		seen[q.Name] = true

		if q.MinimumUserLimitPercent < 0 || q.MinimumUserLimitPercent > 100 {
			result = multierror.Append(result, fmt.Errorf(
				"queue %q: minimum-user-limit-percent %d out of range [0,100]", q.Name, q.MinimumUserLimitPercent))
		}

		if q.EffectiveCapacityPercent < 0 {
			result = multierror.Append(result, fmt.Errorf(
				"queue %q: effective capacity %.2f is negative", q.Name, q.EffectiveCapacityPercent))
		}

		if q.MaxCapacityPercent != nil && *q.MaxCapacityPercent < q.EffectiveCapacityPercent {
			result = multierror.Append(result, fmt.Errorf(
				"queue %q: maximum-capacity %.2f is less than capacity %.2f",
				q.Name, *q.MaxCapacityPercent, q.EffectiveCapacityPercent))
		}

		total += q.EffectiveCapacityPercent
	}

	if math.Abs(total-100) > capacityTolerance {
		result = multierror.Append(result, fmt.Errorf(
			"queue capacities must sum to 100, got %.2f", total))
	}

	return result.ErrorOrNil()
}
