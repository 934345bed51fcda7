package link

import (
	"context"
	"fmt"
)

const (
	// terminator closes every message on the wire.
	terminator byte = 0

	// bufferLen mirrors the fixed transmit buffer: no message carries
	// more than bufferLen frames, terminator included.
	bufferLen = 10
)

// Channel is the duplex byte link the messenger runs over. SendByte
// blocks until the remote acknowledges receipt of that byte;
// ReceiveByte blocks until a byte is available. Neither times out: the
// protocol is strictly synchronous request/response.
type Channel interface {
	SendByte(ctx context.Context, b byte) error
	ReceiveByte(ctx context.Context) (byte, error)
}

// Messenger turns the byte channel into a message service: framed,
// parity-checked, terminator-delimited byte strings. It knows nothing
// about game semantics.
type Messenger struct {
	channel Channel
}

func NewMessenger(channel Channel) *Messenger {
	return &Messenger{channel: channel}
}

// SendMessage - transmits each payload byte as a frame, in order, and
// appends a terminator frame if the payload does not already end with
// one. Transmission stops after the first terminator even if more
// buffered data exists.
func (that *Messenger) SendMessage(ctx context.Context, payload []byte) error {
	for i := 0; i < bufferLen; i++ {
		b := terminator
		if i < len(payload) {
			b = payload[i]
		}

		if err := that.channel.SendByte(ctx, EncodeFrame(b)); err != nil {
			return fmt.Errorf("failed to send frame %d: %w", i, err)
		}

		if b == terminator {
			return nil
		}
	}

	return nil
}

// ReceiveMessage - accumulates decoded payload bytes until the
// terminator arrives, then returns the message without it. The first
// parity failure aborts the read immediately; bytes already consumed
// are discarded and no resynchronization is attempted.
func (that *Messenger) ReceiveMessage(ctx context.Context) ([]byte, error) {
	var payload []byte

	for {
		frame, err := that.channel.ReceiveByte(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to receive frame: %w", err)
		}

		b, err := DecodeFrame(frame)
		if err != nil {
			return nil, err
		}

		if b == terminator {
			return payload, nil
		}

		payload = append(payload, b)
	}
}
