package link

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errChannelDrained = errors.New("channel drained")

// fakeChannel records sent frames and replays queued incoming frames.
type fakeChannel struct {
	sent     []byte
	incoming []byte
}

func (that *fakeChannel) SendByte(_ context.Context, b byte) error {
	that.sent = append(that.sent, b)
	return nil
}

func (that *fakeChannel) ReceiveByte(_ context.Context) (byte, error) {
	if len(that.incoming) == 0 {
		return 0, errChannelDrained
	}

	b := that.incoming[0]
	that.incoming = that.incoming[1:]

	return b, nil
}

func TestMessenger_SendMessage(t *testing.T) {
	ctx := context.Background()

	t.Run("Appends the terminator frame", func(t *testing.T) {
		// Given: a messenger over a recording channel
		channel := &fakeChannel{}
		messenger := NewMessenger(channel)

		// When: a coordinate message is sent
		require.NoError(t, messenger.SendMessage(ctx, []byte("B4")))

		// Then: both payload frames and one terminator frame went out
		require.Equal(t, []byte{EncodeFrame('B'), EncodeFrame('4'), EncodeFrame(0)}, channel.sent)
	})

	t.Run("Stops after an embedded terminator", func(t *testing.T) {
		// Given: buffered data past the terminator
		channel := &fakeChannel{}
		messenger := NewMessenger(channel)

		// When: the message is sent
		require.NoError(t, messenger.SendMessage(ctx, []byte{'1', 0, 'X', 'Y'}))

		// Then: transmission stopped at the first terminator
		require.Equal(t, []byte{EncodeFrame('1'), EncodeFrame(0)}, channel.sent)
	})

	t.Run("Never exceeds the transmit buffer", func(t *testing.T) {
		// Given: a payload longer than the 10-byte buffer, no terminator
		channel := &fakeChannel{}
		messenger := NewMessenger(channel)

		// When: the message is sent
		require.NoError(t, messenger.SendMessage(ctx, []byte("ABCDEFGHIJKL")))

		// Then: exactly bufferLen frames went out
		require.Len(t, channel.sent, bufferLen)
	})

	t.Run("Empty message is a lone terminator", func(t *testing.T) {
		channel := &fakeChannel{}
		messenger := NewMessenger(channel)

		require.NoError(t, messenger.SendMessage(ctx, nil))
		require.Equal(t, []byte{EncodeFrame(0)}, channel.sent)
	})
}

func TestMessenger_ReceiveMessage(t *testing.T) {
	ctx := context.Background()

	t.Run("Message round trip", func(t *testing.T) {
		// Given: the frame stream produced by SendMessage
		sender := &fakeChannel{}
		require.NoError(t, NewMessenger(sender).SendMessage(ctx, []byte("B4")))

		receiver := NewMessenger(&fakeChannel{incoming: sender.sent})

		// When: the stream is received
		msg, err := receiver.ReceiveMessage(ctx)

		// Then: the sent bytes are reconstructed exactly
		require.NoError(t, err)
		require.Equal(t, []byte("B4"), msg)
	})

	t.Run("Empty message round trip", func(t *testing.T) {
		// Given: a lone terminator frame
		receiver := NewMessenger(&fakeChannel{incoming: []byte{EncodeFrame(0)}})

		// When: the stream is received
		msg, err := receiver.ReceiveMessage(ctx)

		// Then: the message is empty
		require.NoError(t, err)
		require.Empty(t, msg)
	})

	t.Run("Aborts on the first parity failure", func(t *testing.T) {
		// Given: a frame stream with a flipped bit mid-message
		sender := &fakeChannel{}
		require.NoError(t, NewMessenger(sender).SendMessage(ctx, []byte("B4")))
		sender.sent[1] ^= 0x10

		receiver := NewMessenger(&fakeChannel{incoming: sender.sent})

		// When: the stream is received
		_, err := receiver.ReceiveMessage(ctx)

		// Then: the read fails fast with a parity error
		require.ErrorIs(t, err, ErrParity)
	})

	t.Run("Error from the channel surfaces", func(t *testing.T) {
		// Given: a channel that dries up before the terminator
		receiver := NewMessenger(&fakeChannel{incoming: []byte{EncodeFrame('B')}})

		// When: the stream is received
		_, err := receiver.ReceiveMessage(ctx)

		// Then: the channel error is wrapped and returned
		assert.ErrorIs(t, err, errChannelDrained)
	})
}
