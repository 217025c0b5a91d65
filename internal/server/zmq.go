package server

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/go-zeromq/zmq4"
)

// ServeZMQ answers requests on a ZeroMQ REP socket bound to endpoint (for
// example "tcp://127.0.0.1:5555") until ctx is canceled. Each request's first
// frame is handled as one protocol line; the reply is a single frame.
func ServeZMQ(ctx context.Context, endpoint string, handler *Handler, logger *slog.Logger) error {
	sock := zmq4.NewRep(ctx)

	var once sync.Once
	closeSock := func() {
		once.Do(func() {
			_ = sock.Close()
		})
	}
	defer closeSock()
	stop := context.AfterFunc(ctx, closeSock)
	defer stop()

	if err := sock.Listen(endpoint); err != nil {
		return fmt.Errorf("zmq listen %s: %w", endpoint, err)
	}
	logger.Info("zmq listening", "endpoint", endpoint)

	for {
		msg, err := sock.Recv()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("zmq recv: %w", err)
		}

		var req string
		if len(msg.Frames) > 0 {
			req = string(msg.Frames[0])
		}

		if err := sock.Send(zmq4.NewMsgString(handler.Handle(req))); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("zmq send: %w", err)
		}
	}
}
