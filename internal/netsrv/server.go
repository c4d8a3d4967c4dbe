// Package netsrv is the TCP front door: it accepts connections, decodes
// wire.Op messages off them, and drives a host.Adapter with the results,
// writing reports back to the originating session.
package netsrv

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"

	"github.com/haardikk21/enshrined-dex/internal/utils"
	"github.com/haardikk21/enshrined-dex/internal/wire"
)

const (
	maxRecvSize        = 4 * 1024
	defaultNWorkers    = 10
	defaultConnTimeout = time.Second
)

var (
	ErrImproperConversion = errors.New("improper type conversion")
	ErrClientDoesNotExist = errors.New("client does not exist")
)

// clientSession tracks one connected TCP session.
type clientSession struct {
	conn net.Conn
}

// clientMessage links a decoded operation to the session that sent it.
type clientMessage struct {
	clientAddress string
	op            wire.Op
}

// Handler is whatever drives decoded operations; satisfied by
// *host.Adapter.
type Handler interface {
	Handle(clientAddress string, op wire.Op) error
}

// Server is the TCP listener plus the worker pool draining it.
type Server struct {
	address            string
	port               int
	handler            Handler
	pool               utils.WorkerPool
	cancel             context.CancelFunc
	clientSessions     map[string]clientSession
	clientSessionsLock sync.Mutex
	clientMessages     chan clientMessage
}

// New returns a Server listening on address:port and dispatching decoded
// operations to handler.
func New(address string, port int, handler Handler) *Server {
	return &Server{
		address:        address,
		port:           port,
		handler:        handler,
		pool:           utils.NewWorkerPool(defaultNWorkers),
		clientSessions: make(map[string]clientSession),
		clientMessages: make(chan clientMessage, 1),
	}
}

// Shutdown cancels the server's context.
func (s *Server) Shutdown() {
	log.Info().Msg("server shutting down")
	if s.cancel != nil {
		s.cancel()
	}
}

// Run accepts connections until ctx is cancelled, handing each off to the
// worker pool. It blocks; call it from its own goroutine.
func (s *Server) Run(ctx context.Context) {
	defer s.Shutdown()

	ctx, s.cancel = context.WithCancel(ctx)
	t, ctx := tomb.WithContext(ctx)

	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", fmt.Sprintf("%s:%d", s.address, s.port))
	if err != nil {
		log.Error().Err(err).Msg("unable to start listener")
		return
	}
	defer func() {
		if err := listener.Close(); err != nil {
			log.Error().Err(err).Msg("unable to close listener")
		}
	}()

	t.Go(func() error {
		s.pool.Setup(t, s.handleConnection)
		return nil
	})

	t.Go(func() error {
		return s.sessionHandler(t)
	})

	log.Info().Str("address", s.address).Int("port", s.port).Msg("server running")

	for {
		select {
		case <-ctx.Done():
			return
		default:
			conn, err := listener.Accept()
			if err != nil {
				log.Error().Err(err).Msg("error accepting client")
				continue
			}

			log.Info().Str("address", conn.RemoteAddr().String()).Msg("new client connected")
			s.addClientSession(conn)
			s.pool.AddTask(conn)
		}
	}
}

// ReportEvent implements host.Reporter: writes a serialized event back to
// the client that triggered it.
func (s *Server) ReportEvent(clientAddress string, payload []byte) error {
	s.clientSessionsLock.Lock()
	defer s.clientSessionsLock.Unlock()

	client, ok := s.clientSessions[clientAddress]
	if !ok {
		return ErrClientDoesNotExist
	}
	if _, err := client.conn.Write(payload); err != nil {
		delete(s.clientSessions, clientAddress)
		return fmt.Errorf("unable to send event: %w", err)
	}
	return nil
}

// ReportError implements host.Reporter: writes a serialized ErrorReport
// back to the client whose operation failed.
func (s *Server) ReportError(clientAddress string, opErr error) error {
	s.clientSessionsLock.Lock()
	defer s.clientSessionsLock.Unlock()

	client, ok := s.clientSessions[clientAddress]
	if !ok {
		return ErrClientDoesNotExist
	}

	report := wire.ErrorReport{Message: opErr.Error()}
	if _, err := client.conn.Write(report.Serialize()); err != nil {
		delete(s.clientSessions, clientAddress)
		return fmt.Errorf("unable to send report: %w", err)
	}
	return nil
}

// sessionHandler drains decoded operations and drives the handler.
func (s *Server) sessionHandler(t *tomb.Tomb) error {
	for {
		select {
		case <-t.Dying():
			return nil
		case message := <-s.clientMessages:
			if err := s.handler.Handle(message.clientAddress, message.op); err != nil {
				log.Error().
					Err(err).
					Str("clientAddress", message.clientAddress).
					Msg("error dispatching operation")
			}
		}
	}
}

// handleConnection reads the next message off a connection, decodes it,
// and forwards it to sessionHandler, then re-enqueues the connection for
// its next message. Any error returned here is fatal to the worker pool.
func (s *Server) handleConnection(t *tomb.Tomb, task any) error {
	conn, ok := task.(net.Conn)
	if !ok {
		return ErrImproperConversion
	}

	closeConn := func() {
		if err := conn.Close(); err != nil {
			log.Error().Str("address", conn.RemoteAddr().String()).Err(err).Msg("error closing connection")
		}
	}

	if err := conn.SetDeadline(time.Now().Add(defaultConnTimeout)); err != nil {
		log.Error().Err(err).Str("address", conn.RemoteAddr().String()).Msg("failed setting deadline")
		closeConn()
		return nil
	}

	buffer := make([]byte, maxRecvSize)
	select {
	case <-t.Dying():
		closeConn()
		return nil
	default:
		n, err := conn.Read(buffer)
		if err != nil {
			log.Error().Err(err).Str("address", conn.RemoteAddr().String()).Msg("error reading from connection")
			s.deleteClientSession(conn.RemoteAddr().String())
			closeConn()
			return nil
		}

		op, err := wire.Decode(buffer[:n])
		if err != nil {
			log.Error().Err(err).Str("address", conn.RemoteAddr().String()).Msg("error decoding operation")
			s.deleteClientSession(conn.RemoteAddr().String())
			closeConn()
			return nil
		}

		s.clientMessages <- clientMessage{
			clientAddress: conn.RemoteAddr().String(),
			op:            op,
		}

		s.pool.AddTask(conn)
	}
	return nil
}

func (s *Server) addClientSession(conn net.Conn) {
	s.clientSessionsLock.Lock()
	defer s.clientSessionsLock.Unlock()
	s.clientSessions[conn.RemoteAddr().String()] = clientSession{conn: conn}
}

func (s *Server) deleteClientSession(address string) {
	s.clientSessionsLock.Lock()
	defer s.clientSessionsLock.Unlock()
	delete(s.clientSessions, address)
}
