// Package agent wires a scheduler.Scheduler up to a long-running process:
// an RPC listener for status queries, and (optionally) the EC2 worker
// directory and Consul status publisher adapters. It mirrors the
// teacher's own Server type almost exactly, trading leader election and
// job/cluster scaling tickers (this scheduler has neither) for the
// heartbeat-driven AssignTasks loop.
package agent

import (
	"fmt"
	"net"
	"net/rpc"

	"github.com/elsevier-core-engineering/capshare/logging"
	"github.com/elsevier-core-engineering/capshare/scheduler"
)

// DefaultRPCAddr is the default bind address and port for the agent's RPC
// listener.
var DefaultRPCAddr = &net.TCPAddr{IP: net.ParseIP("127.0.0.1"), Port: 1314}

// Server runs the scheduler and exposes it over RPC for the status
// command and any other local tooling.
type Server struct {
	Scheduler *scheduler.Scheduler

	endpoints endpoints

	rpcAdvertise net.Addr
	rpcListener  net.Listener
	rpcServer    *rpc.Server

	shutdown     bool
	shutdownChan chan struct{}
}

type endpoints struct {
	Status *Status
}

// NewServer starts the RPC layer in front of an already-Start'd scheduler.
func NewServer(sched *scheduler.Scheduler, bind *net.TCPAddr) (*Server, error) {
	if bind == nil {
		bind = DefaultRPCAddr
	}

	s := &Server{
		Scheduler:    sched,
		rpcServer:    rpc.NewServer(),
		shutdownChan: make(chan struct{}),
	}

	if err := s.setupRPC(bind); err != nil {
		s.Shutdown()
		return nil, fmt.Errorf("agent: failed to start RPC layer: %v", err)
	}

	go s.listen()
	logging.Info("agent: RPC server listening at %v", s.rpcAdvertise)

	return s, nil
}

// Addr returns the address the RPC listener is bound to, useful when Server
// was started against port 0 and the operating system chose the port.
func (s *Server) Addr() net.Addr {
	return s.rpcAdvertise
}

// Shutdown stops the RPC listener and terminates the scheduler.
func (s *Server) Shutdown() {
	s.shutdown = true

	if s.rpcListener != nil {
		logging.Info("agent: shutting down RPC server at %v", s.rpcListener.Addr())
		s.rpcListener.Close()
	}

	if s.Scheduler != nil {
		s.Scheduler.Terminate()
	}

	close(s.shutdownChan)
}

func (s *Server) setupRPC(bind *net.TCPAddr) error {
	s.endpoints.Status = &Status{s}
	if err := s.rpcServer.Register(s.endpoints.Status); err != nil {
		return err
	}

	list, err := net.ListenTCP("tcp", bind)
	if err != nil {
		return err
	}
	s.rpcListener = list
	s.rpcAdvertise = s.rpcListener.Addr()

	addr, ok := s.rpcAdvertise.(*net.TCPAddr)
	if !ok {
		list.Close()
		return fmt.Errorf("RPC advertise address is not a TCP address: %v", addr)
	}
	if addr.IP.IsUnspecified() {
		list.Close()
		return fmt.Errorf("RPC advertise address is not advertisable: %v", addr)
	}

	return nil
}
