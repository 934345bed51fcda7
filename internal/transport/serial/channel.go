package serial

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
)

// ackByte confirms receipt of one byte back to the sender. SendByte
// does not return until it arrives, so each byte is handshaked.
const ackByte byte = 0x06

var ErrBadHandshake = errors.New("unexpected acknowledge byte")

// Conn realizes the link's byte channel over a single TCP connection.
// The game protocol uses the link strictly half-duplex, so the
// per-byte acknowledge cannot deadlock.
type Conn struct {
	conn net.Conn
	rw   *bufio.ReadWriter
}

// Listen - accepts the peer connection on addr. It serves exactly one
// peer: the listener closes as soon as the link is up.
func Listen(ctx context.Context, addr string) (*Conn, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	defer listener.Close()

	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	conn, err := listener.Accept()
	if err != nil {
		return nil, fmt.Errorf("failed to accept peer connection: %w", err)
	}

	return newConn(conn), nil
}

// Dial - connects to the listening peer at addr.
func Dial(ctx context.Context, addr string) (*Conn, error) {
	var dialer net.Dialer

	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to dial peer at %s: %w", addr, err)
	}

	return newConn(conn), nil
}

func newConn(conn net.Conn) *Conn {
	return &Conn{
		conn: conn,
		rw:   bufio.NewReadWriter(bufio.NewReader(conn), bufio.NewWriter(conn)),
	}
}

// SendByte - writes one byte and blocks until the remote acknowledges
// it. There is no timeout: a peer that never answers blocks forever.
func (that *Conn) SendByte(ctx context.Context, b byte) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("link canceled: %w", err)
	}

	if err := that.rw.WriteByte(b); err != nil {
		return fmt.Errorf("failed to write byte: %w", err)
	}

	if err := that.rw.Flush(); err != nil {
		return fmt.Errorf("failed to flush byte: %w", err)
	}

	reply, err := that.rw.ReadByte()
	if err != nil {
		return fmt.Errorf("failed to read acknowledge: %w", err)
	}

	if reply != ackByte {
		return fmt.Errorf("%w: %#02x", ErrBadHandshake, reply)
	}

	return nil
}

// ReceiveByte - blocks until a byte arrives, then acknowledges it.
func (that *Conn) ReceiveByte(ctx context.Context) (byte, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("link canceled: %w", err)
	}

	b, err := that.rw.ReadByte()
	if err != nil {
		return 0, fmt.Errorf("failed to read byte: %w", err)
	}

	if err = that.rw.WriteByte(ackByte); err != nil {
		return 0, fmt.Errorf("failed to write acknowledge: %w", err)
	}

	if err = that.rw.Flush(); err != nil {
		return 0, fmt.Errorf("failed to flush acknowledge: %w", err)
	}

	return b, nil
}

func (that *Conn) Close() error {
	return that.conn.Close()
}
