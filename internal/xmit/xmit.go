// Package xmit implements the paced chunked transmission ESC/P-R
// printers expect over raw TCP (traditionally port 9100): the job
// buffer is sent in bounded chunks with a short pause between each,
// and the sender waits briefly for any reply before closing.
package xmit

import (
	"fmt"
	"log/slog"
	"net"
	"time"
)

// ChunkSize is the maximum number of bytes written per Write call,
// matching the chunking captured jobs use.
const ChunkSize = 2048

// ChunkPause is the delay between chunks.
const ChunkPause = 10 * time.Millisecond

// ReplyTimeout bounds how long Send waits for the printer to answer
// after the job has been fully written.
const ReplyTimeout = 5 * time.Second

// Sender streams a job buffer to a printer's TCP endpoint.
type Sender struct {
	address string
	dialer  net.Dialer
}

// NewSender creates a Sender targeting address (host:port, typically
// port 9100).
func NewSender(address string) *Sender {
	return &Sender{address: address}
}

// Send connects, writes buf in ChunkSize pieces with a ChunkPause
// between each, then waits up to ReplyTimeout for a reply. A reply
// timeout is not an error: many printers never answer on this port.
func (s *Sender) Send(buf []byte) ([]byte, error) {
	conn, err := s.dialer.Dial("tcp", s.address)
	if err != nil {
		return nil, fmt.Errorf("xmit: dialing %s: %w", s.address, err)
	}
	defer conn.Close()

	for i := 0; i < len(buf); i += ChunkSize {
		end := i + ChunkSize
		if end > len(buf) {
			end = len(buf)
		}
		if _, err := conn.Write(buf[i:end]); err != nil {
			return nil, fmt.Errorf("xmit: writing chunk at offset %d: %w", i, err)
		}
		time.Sleep(ChunkPause)
	}

	if err := conn.SetReadDeadline(time.Now().Add(ReplyTimeout)); err != nil {
		return nil, fmt.Errorf("xmit: setting read deadline: %w", err)
	}

	reply := make([]byte, 2048)
	n, err := conn.Read(reply)
	if err != nil {
		slog.Debug("xmit: no reply from printer", "address", s.address, "error", err)
		return nil, nil
	}
	return reply[:n], nil
}

// CaptureSink accepts a single inbound job over TCP and returns its
// full byte stream, mirroring the role a bare-bones capture server
// plays in the reference setup: act enough like a printer to let a
// driver complete its job, while recording every byte sent.
type CaptureSink struct {
	listener net.Listener
}

// ListenCaptureSink opens a listener at address.
func ListenCaptureSink(address string) (*CaptureSink, error) {
	l, err := net.Listen("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("xmit: listening on %s: %w", address, err)
	}
	return &CaptureSink{listener: l}, nil
}

// Addr returns the listener's bound address.
func (c *CaptureSink) Addr() net.Addr {
	return c.listener.Addr()
}

// Close stops accepting new connections.
func (c *CaptureSink) Close() error {
	return c.listener.Close()
}

// AcceptJob blocks for a single connection, reads it to completion,
// and returns the captured bytes. The connection is expected to be
// closed by the sender once its job buffer is flushed.
func (c *CaptureSink) AcceptJob() ([]byte, net.Addr, error) {
	conn, err := c.listener.Accept()
	if err != nil {
		return nil, nil, fmt.Errorf("xmit: accepting connection: %w", err)
	}
	defer conn.Close()

	remote := conn.RemoteAddr()
	var out []byte
	buf := make([]byte, 4096)
	for {
		n, err := conn.Read(buf)
		if n > 0 {
			out = append(out, buf[:n]...)
		}
		if err != nil {
			break
		}
	}
	return out, remote, nil
}
