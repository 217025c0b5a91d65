package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"

	"golang.org/x/sync/errgroup"
)

// maxLineSize bounds a single request line.
const maxLineSize = 1 << 20

// ErrServerClosed is returned by Serve after Close.
var ErrServerClosed = errors.New("server: closed")

// Server serves the line protocol over TCP with one goroutine per
// connection. All connections share the Handler's store.
type Server struct {
	handler *Handler
	logger  *slog.Logger

	mu     sync.Mutex
	ln     net.Listener
	conns  map[net.Conn]struct{}
	closed bool

	// g only supervises connection goroutines so Serve can wait for them;
	// serveConn logs its own errors and returns nil.
	g errgroup.Group
}

// New creates a Server.
func New(handler *Handler, logger *slog.Logger) *Server {
	return &Server{
		handler: handler,
		logger:  logger,
		conns:   make(map[net.Conn]struct{}),
	}
}

// ListenAndServe listens on the TCP address addr and calls Serve.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is canceled or Close is called.
// It closes open connections and waits for their goroutines before returning.
// Cancellation returns nil; Close returns ErrServerClosed.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		_ = ln.Close()
		return ErrServerClosed
	}
	s.ln = ln
	s.mu.Unlock()

	stop := context.AfterFunc(ctx, func() {
		_ = s.Close()
	})
	defer stop()

	s.logger.Info("listening", "addr", ln.Addr().String())

	for {
		conn, err := ln.Accept()
		if err != nil {
			if s.isClosed() {
				_ = s.g.Wait()
				if ctx.Err() != nil {
					return nil
				}
				return ErrServerClosed
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				s.logger.Warn("accept timeout", "error", err)
				continue
			}
			_ = s.Close()
			_ = s.g.Wait()
			return fmt.Errorf("accept: %w", err)
		}

		if !s.track(conn) {
			_ = conn.Close()
			continue
		}
		s.g.Go(func() error {
			s.serveConn(conn)
			return nil
		})
	}
}

// Close stops the listener and closes every open connection.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	var err error
	if s.ln != nil {
		err = s.ln.Close()
	}
	for conn := range s.conns {
		_ = conn.Close()
	}
	return err
}

func (s *Server) serveConn(conn net.Conn) {
	defer s.untrack(conn)
	defer conn.Close()

	remote := conn.RemoteAddr().String()
	s.logger.Debug("client connected", "remote", remote)

	sc := bufio.NewScanner(conn)
	sc.Buffer(make([]byte, 0, 4096), maxLineSize)
	w := bufio.NewWriter(conn)

	for sc.Scan() {
		resp := s.handler.Handle(sc.Text())
		if _, err := w.WriteString(resp + "\n"); err != nil {
			s.logger.Warn("failed to write to socket", "remote", remote, "error", err)
			return
		}
		if err := w.Flush(); err != nil {
			s.logger.Warn("failed to write to socket", "remote", remote, "error", err)
			return
		}
	}
	if err := sc.Err(); err != nil && !s.isClosed() {
		s.logger.Warn("failed to read from socket", "remote", remote, "error", err)
		return
	}
	s.logger.Debug("client disconnected", "remote", remote)
}

func (s *Server) track(conn net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}
	s.conns[conn] = struct{}{}
	return true
}

func (s *Server) untrack(conn net.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.conns, conn)
}

func (s *Server) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.closed
}
