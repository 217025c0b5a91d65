package server

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"golang.org/x/sync/errgroup"

	"github.com/bjaus/sieve"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type TCPSuite struct {
	suite.Suite
	cache  *sieve.TTL[string, []byte]
	srv    *Server
	addr   string
	cancel context.CancelFunc
	done   chan error
}

func (s *TCPSuite) SetupTest() {
	cache, err := sieve.NewTTLWith[string, []byte](16, sieve.Factory[string, sieve.Expiring[[]byte]]())
	s.Require().NoError(err)
	s.cache = cache
	s.srv = New(NewHandler(cache, time.Minute), discardLogger())

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	s.Require().NoError(err)
	s.addr = ln.Addr().String()

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan error, 1)
	go func() {
		s.done <- s.srv.Serve(ctx, ln)
	}()
}

func (s *TCPSuite) TearDownTest() {
	s.cancel()
	select {
	case err := <-s.done:
		s.NoError(err)
	case <-time.After(5 * time.Second):
		s.Fail("server did not stop")
	}
}

func TestTCPSuite(t *testing.T) {
	suite.Run(t, new(TCPSuite))
}

type client struct {
	conn net.Conn
	r    *bufio.Reader
}

func (s *TCPSuite) dial() *client {
	conn, err := net.DialTimeout("tcp", s.addr, time.Second)
	s.Require().NoError(err)
	s.Require().NoError(conn.SetDeadline(time.Now().Add(5 * time.Second)))
	return &client{conn: conn, r: bufio.NewReader(conn)}
}

func (c *client) do(line string) (string, error) {
	if _, err := fmt.Fprintf(c.conn, "%s\n", line); err != nil {
		return "", err
	}
	resp, err := c.r.ReadString('\n')
	if err != nil {
		return "", err
	}
	return resp[:len(resp)-1], nil
}

func (s *TCPSuite) TestRoundTrip() {
	c := s.dial()
	defer c.conn.Close()

	resp, err := c.do("SET user-id-1 1h value-1")
	s.Require().NoError(err)
	s.Equal("OK", resp)

	resp, err = c.do("user-id-1")
	s.Require().NoError(err)
	s.Equal("VALUE value-1", resp)

	resp, err = c.do("GET missing")
	s.Require().NoError(err)
	s.Equal("NOT_FOUND", resp)
}

func (s *TCPSuite) TestSharedCacheAcrossConnections() {
	writer := s.dial()
	defer writer.conn.Close()
	_, err := writer.do("SET shared 1h v")
	s.Require().NoError(err)

	var g errgroup.Group
	for range 8 {
		g.Go(func() error {
			c := s.dial()
			defer c.conn.Close()
			for range 50 {
				resp, err := c.do("GET shared")
				if err != nil {
					return err
				}
				if resp != "VALUE v" {
					return fmt.Errorf("unexpected response %q", resp)
				}
			}
			return nil
		})
	}
	s.NoError(g.Wait())
	s.Equal(int64(8*50), s.cache.Stats().Hits)
}

func (s *TCPSuite) TestCancelClosesConnections() {
	c := s.dial()
	defer c.conn.Close()
	_, err := c.do("LEN")
	s.Require().NoError(err)

	s.cancel()

	_, err = c.r.ReadString('\n')
	s.ErrorIs(err, io.EOF)
}

func TestServeAfterClose(t *testing.T) {
	srv := New(NewHandler(nil, 0), discardLogger())
	if err := srv.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	if err := srv.Serve(context.Background(), ln); err != ErrServerClosed {
		t.Fatalf("expected ErrServerClosed, got %v", err)
	}
}

func TestCloseReturnsErrServerClosed(t *testing.T) {
	srv := New(NewHandler(nil, 0), discardLogger())
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- srv.Serve(context.Background(), ln) }()

	if err := srv.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := <-done; err != ErrServerClosed {
		t.Fatalf("expected ErrServerClosed, got %v", err)
	}
}
