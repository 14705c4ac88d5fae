package websocket

import (
	"context"
	"errors"
	"net/http"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"

	"github.com/robotalks/rover.go/internal/syncutil"
	fx "github.com/robotalks/rover.go/pkg/framework"
	"github.com/robotalks/rover.go/pkg/telemetry/comm"
)

// Server accepts websocket connections and serves a telemetry pipe
// on each of them. It implements telemetry.Registrar by fanning
// events out to all live connections, and Runnable to own the
// listener lifetime.
type Server struct {
	Addr string

	lock  syncutil.RWMutex
	conns map[*comm.Registrar]struct{}
}

// NewServer creates a Server listening on addr.
func NewServer(addr string) *Server {
	return &Server{
		Addr:  addr,
		conns: make(map[*comm.Registrar]struct{}),
	}
}

// SendEvent implements Registrar.
func (s *Server) SendEvent(ctx context.Context, msg fx.Message) error {
	s.lock.RLock()
	defer s.lock.RUnlock()
	var errs fx.AggregatedError
	for reg := range s.conns {
		errs.Add(reg.SendEvent(ctx, msg))
	}
	return errs.Aggregate()
}

// AddToLoop implements LoopAdder.
func (s *Server) AddToLoop(loop *fx.Loop) {
	loop.AddRunnable(s)
}

// Run implements Runnable.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.Addr,
		Handler: websocket.Handler(func(conn *websocket.Conn) { s.serve(ctx, conn) }),
	}
	return fx.RunWithContextCancel(ctx, func() { srv.Close() }, func() error {
		err := srv.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
}

func (s *Server) serve(ctx context.Context, conn *websocket.Conn) {
	reg := &comm.Registrar{}
	reg.Init(New(conn))
	s.lock.Lock()
	s.conns[reg] = struct{}{}
	s.lock.Unlock()
	defer func() {
		s.lock.Lock()
		delete(s.conns, reg)
		s.lock.Unlock()
	}()
	if err := reg.Serve(ctx); err != nil && ctx.Err() == nil {
		glog.V(1).Infof("ws telemetry conn closed: %v", err)
	}
}
