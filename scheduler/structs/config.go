package structs

// QueueConfig is the parsed, validated configuration for a single queue.
// EffectiveCapacityPercent is always populated, whether the operator set
// CapacityPercent explicitly or left it to the residual split.
type QueueConfig struct {
	Name string `mapstructure:"-"`

	// CapacityPercent is the operator-configured share, or nil when the
	// queue should receive an even split of whatever capacity the
	// explicitly-configured queues leave behind.
	CapacityPercent *float64 `mapstructure:"capacity"`

	// MaxCapacityPercent bounds the queue's share of idle capacity it may
	// borrow; nil means unbounded.
	MaxCapacityPercent *float64 `mapstructure:"maximum-capacity"`

	MinimumUserLimitPercent int  `mapstructure:"minimum-user-limit-percent"`
	SupportsPriorities      bool `mapstructure:"supports-priority"`

	// EffectiveCapacityPercent is computed once at load time: either
	// CapacityPercent's value, or this queue's share of the residual when
	// CapacityPercent was unset.
	EffectiveCapacityPercent float64
}

// GlobalMemoryConfig carries the cluster-wide memory sizing used by the
// memory matcher. A zero value for any field is only meaningful in
// aggregate: MemoryAware reports whether memory-aware scheduling applies at
// all.
type GlobalMemoryConfig struct {
	ClusterMapMemoryMB       int `mapstructure:"cluster-map-memory-mb"`
	ClusterReduceMemoryMB    int `mapstructure:"cluster-reduce-memory-mb"`
	ClusterMaxMapMemoryMB    int `mapstructure:"cluster-max-map-memory-mb"`
	ClusterMaxReduceMemoryMB int `mapstructure:"cluster-max-reduce-memory-mb"`
}

// MemoryAware reports whether the cluster has been configured with enough
// information for the memory matcher to consider physical/virtual memory
// headroom rather than slot counts alone.
func (g GlobalMemoryConfig) MemoryAware() bool {
	return g.ClusterMapMemoryMB > 0 && g.ClusterReduceMemoryMB > 0 &&
		g.ClusterMaxMapMemoryMB > 0 && g.ClusterMaxReduceMemoryMB > 0
}

// SchedulerConfig is the fully-parsed configuration document: the queue
// list plus the cluster-wide memory sizing.
type SchedulerConfig struct {
	Queues []*QueueConfig
	Memory GlobalMemoryConfig
}
