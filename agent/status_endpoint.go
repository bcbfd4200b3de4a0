package agent

import "github.com/elsevier-core-engineering/capshare/scheduler/structs"

// Status is the RPC endpoint queried by the status CLI command.
type Status struct {
	srv *Server
}

// Queues returns a snapshot of every queue's current state.
func (s *Status) Queues(args interface{}, reply *structs.StatusReport) error {
	*reply = *s.srv.Scheduler.Report()
	return nil
}

// ResetFailsafe clears a tripped queue's failsafe circuit breaker.
func (s *Status) ResetFailsafe(queue string, reply *struct{}) error {
	return s.srv.Scheduler.ResetFailsafe(queue)
}
