package structs

// ClusterStatus is the JobTracker-owned view of overall cluster size, used
// by the dispatcher to recompute queue capacities and by the locality gate
// to evaluate off-switch eligibility.
type ClusterStatus interface {
	MaxMapTasks() int
	MaxReduceTasks() int
	TaskTrackers() []Worker
	NumberOfUniqueHosts() int
}
