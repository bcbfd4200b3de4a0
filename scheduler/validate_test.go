package scheduler

import (
	"testing"

	"github.com/elsevier-core-engineering/capshare/scheduler/structs"
)

func TestValidateConfig_RequiresAtLeastOneQueue(t *testing.T) {
	if err := validateConfig(&structs.SchedulerConfig{}); err == nil {
		t.Fatal("expected an error for a configuration with no queues")
	}
}

func TestValidateConfig_RejectsDuplicateNames(t *testing.T) {
	cfg := &structs.SchedulerConfig{
		Queues: []*structs.QueueConfig{
			{Name: "default", CapacityPercent: pct(50), EffectiveCapacityPercent: 50},
			{Name: "default", CapacityPercent: pct(50), EffectiveCapacityPercent: 50},
		},
	}
	if err := validateConfig(cfg); err == nil {
		t.Fatal("expected an error for duplicate queue names")
	}
}

func TestValidateConfig_RejectsCapacityNotSummingTo100(t *testing.T) {
	cfg := &structs.SchedulerConfig{
		Queues: []*structs.QueueConfig{
			{Name: "default", CapacityPercent: pct(40), EffectiveCapacityPercent: 40},
		},
	}
	if err := validateConfig(cfg); err == nil {
		t.Fatal("expected an error when effective capacities do not sum to 100")
	}
}

func TestValidateConfig_RejectsMaxCapacityBelowCapacity(t *testing.T) {
	max := 10.0
	cfg := &structs.SchedulerConfig{
		Queues: []*structs.QueueConfig{
			{Name: "default", CapacityPercent: pct(100), MaxCapacityPercent: &max, EffectiveCapacityPercent: 100},
		},
	}
	if err := validateConfig(cfg); err == nil {
		t.Fatal("expected an error when maximum-capacity is below capacity")
	}
}

func TestValidateConfig_AcceptsWellFormedConfig(t *testing.T) {
	cfg := &structs.SchedulerConfig{
		Queues: []*structs.QueueConfig{
			{Name: "default", CapacityPercent: pct(60), MinimumUserLimitPercent: 25, EffectiveCapacityPercent: 60},
			{Name: "batch", CapacityPercent: pct(40), EffectiveCapacityPercent: 40},
		},
	}
	if err := validateConfig(cfg); err != nil {
		t.Fatalf("unexpected error for a well-formed config: %s", err)
	}
}
