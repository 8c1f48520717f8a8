package server

import (
	"context"
	"fmt"
	"net"
	"sync"
	"tickq/src/logger"
	"tickq/src/metrics"
	"tickq/src/scheduler"
	"tickq/src/server/stream_handler"
	"tickq/src/task"
	"time"

	"github.com/quic-go/quic-go"
	"github.com/pkg/errors"
)

// Server accepts QUIC connections and runs the jobs sent on their streams.
//
// Every connection gets its own task.TaskScheduler, so the jobs of one
// client take turns with each other one step at a time.
type Server struct {
	serverURL  string
	serverPort int

	collector *metrics.Collector
	fairness  *metrics.Fairness
	logger    *logger.Logger

	mutex    sync.Mutex
	listener *quic.Listener
}

// Create a new server. collector, fairness and log may be nil.
func NewServer(serverURL string, serverPort int, collector *metrics.Collector, fairness *metrics.Fairness, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Global
	}
	return &Server{
		serverURL:  serverURL,
		serverPort: serverPort,
		collector:  collector,
		fairness:   fairness,
		logger:     log.Named("server"),
	}
}

// Listen binds the UDP socket. Port 0 picks a free port, see Addr.
func (s *Server) Listen() error {
	tlsConf, err := generateTLSConfig()
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s:%d", s.serverURL, s.serverPort)
	config := &quic.Config{
		MaxIdleTimeout:       5 * time.Minute,
		HandshakeIdleTimeout: 10 * time.Second,
		MaxIncomingStreams:   20000,
	}
	listener, err := quic.ListenAddr(url, tlsConf, config)
	if err != nil {
		return errors.Wrapf(err, "listen on %s", url)
	}

	s.mutex.Lock()
	s.listener = listener
	s.mutex.Unlock()

	s.logger.Info("listening on %s", listener.Addr())
	return nil
}

// Addr returns the bound address, or nil before Listen.
func (s *Server) Addr() net.Addr {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Serve accepts connections until ctx is done. Listen must have been
// called.
func (s *Server) Serve(ctx context.Context) error {
	s.mutex.Lock()
	listener := s.listener
	s.mutex.Unlock()
	if listener == nil {
		return errors.New("server is not listening")
	}

	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	for {
		connection, err := listener.Accept(ctx)
		if err != nil {
			if ctx.Err() != nil {
				s.logger.Info("stopped")
				return nil
			}
			return errors.Wrap(err, "accept connection")
		}
		s.onConnectionAccepted(ctx, connection)
	}
}

// Start listens and serves until ctx is done.
func (s *Server) Start(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}
	return s.Serve(ctx)
}

func (s *Server) onConnectionAccepted(ctx context.Context, connection quic.Connection) {
	s.logger.Debug("connection from %s", connection.RemoteAddr())

	var observer scheduler.Observer
	if s.collector != nil {
		observer = s.collector
	}
	taskScheduler := task.NewTaskScheduler(observer, s.logger.Named("task"))
	streamHandler := stream_handler.NewStreamHandler(taskScheduler, s.fairness, s.logger)

	// run jobs in background
	go func() {
		if s.collector != nil {
			s.collector.RunnerStarted()
			defer s.collector.RunnerStopped()
		}
		if err := taskScheduler.Run(); err != nil {
			s.logger.Error("task scheduler: %v", err)
		}
	}()

	// accept streams in background
	go func() {
		defer streamHandler.Stop()
		for {
			stream, err := connection.AcceptStream(ctx)
			if err != nil {
				s.logger.Debug("connection from %s closed: %v", connection.RemoteAddr(), err)
				return
			}
			go streamHandler.HandleStream(stream)
		}
	}()
}
