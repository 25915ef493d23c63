package hostio

import (
	"fmt"
	"net"
	"sync"

	applog "github.com/n0call/aprsmodem/log"
)

// TCPServer listens for KISS TCP client applications (Xastir, APRSIS32,
// mobile APRS apps), broadcasting received frames to every attached client
// the way the teacher's kissnet.go fans a radio-received frame out to
// kps.client_sock[0..MAX_NET_CLIENTS). Unlike the teacher's fixed-size
// client_sock array, clients here are tracked in a map and can come and go
// freely; nothing here limits the count.
type TCPServer struct {
	listener net.Listener

	mu      sync.Mutex
	clients map[net.Conn]struct{}

	accepted chan net.Conn
}

// ListenTCP binds addr (e.g. ":8001") and starts accepting client
// connections in the background; received connections arrive one at a
// time from Accept.
func ListenTCP(addr string) (*TCPServer, error) {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("hostio: listen %s: %w", addr, err)
	}
	s := &TCPServer{
		listener: l,
		clients:  make(map[net.Conn]struct{}),
		accepted: make(chan net.Conn),
	}
	go s.acceptLoop()
	return s, nil
}

func (s *TCPServer) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			close(s.accepted)
			return
		}
		applog.Info("KISS TCP client attached", "remote", conn.RemoteAddr())
		s.mu.Lock()
		s.clients[conn] = struct{}{}
		s.mu.Unlock()
		s.accepted <- conn
	}
}

// Accept blocks until a new client connects, returning a Link for it. The
// caller is expected to run one reader goroutine per returned Link.
func (s *TCPServer) Accept() (Link, bool) {
	conn, ok := <-s.accepted
	if !ok {
		return nil, false
	}
	return &tcpLink{server: s, conn: conn}, true
}

// Broadcast writes p to every currently attached client, dropping (and
// closing) any connection that errors, mirroring kissnet_send_rec_packet's
// disconnect-on-error behaviour.
func (s *TCPServer) Broadcast(p []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.clients {
		if _, err := conn.Write(p); err != nil {
			applog.Info("KISS TCP client write failed, dropping", "remote", conn.RemoteAddr(), "err", err)
			conn.Close()
			delete(s.clients, conn)
		}
	}
}

func (s *TCPServer) Close() error {
	return s.listener.Close()
}

type tcpLink struct {
	server *TCPServer
	conn   net.Conn
}

func (l *tcpLink) Read(p []byte) (int, error)  { return l.conn.Read(p) }
func (l *tcpLink) Write(p []byte) (int, error) { return l.conn.Write(p) }

func (l *tcpLink) Close() error {
	l.server.mu.Lock()
	delete(l.server.clients, l.conn)
	l.server.mu.Unlock()
	return l.conn.Close()
}
