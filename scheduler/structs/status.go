package structs

// QueueReport is the human-readable per-queue status described in §6. No
// bit-exact format is required; this is the data a dashboard or CLI
// renders.
type QueueReport struct {
	Name string `json:"name"`

	CapacityPercent    float64  `json:"capacity_percent"`
	MaxCapacityPercent *float64 `json:"max_capacity_percent,omitempty"`

	Map    KindReport `json:"map"`
	Reduce KindReport `json:"reduce"`

	ActiveUsers map[string]int `json:"active_users"`
	WaitingJobs int            `json:"waiting_jobs"`
	DistinctUsers int          `json:"distinct_users"`

	FailsafeTripped bool `json:"failsafe_tripped"`
}

// KindReport is the capacity/occupied/running breakdown for one task kind
// within a queue report.
type KindReport struct {
	CapacitySlots    int `json:"capacity_slots"`
	MaxCapacitySlots int `json:"max_capacity_slots,omitempty"`
	OccupiedSlots    int `json:"occupied_slots"`
	RunningTasks     int `json:"running_tasks"`
}

// StatusReport is the full-cluster snapshot returned by the RPC status
// endpoint.
type StatusReport struct {
	Queues []*QueueReport `json:"queues"`
}
