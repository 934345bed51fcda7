package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/rocketscienceinc/battleship-peer/internal/battleship"
	"github.com/rocketscienceinc/battleship-peer/internal/entity"
	"github.com/rocketscienceinc/battleship-peer/internal/link"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mapStore is an in-memory board store for unit tests.
type mapStore struct {
	bytes map[int]byte
}

func (that *mapStore) ReadByte(_ context.Context, addr int) (byte, error) {
	return that.bytes[addr], nil
}

func (that *mapStore) WriteByte(_ context.Context, addr int, value byte) error {
	that.bytes[addr] = value
	return nil
}

// fakeLink records outgoing messages and replays scripted incoming ones.
type fakeLink struct {
	sent     [][]byte
	incoming [][]byte
	recvErr  error
}

func (that *fakeLink) SendMessage(_ context.Context, payload []byte) error {
	msg := make([]byte, len(payload))
	copy(msg, payload)
	that.sent = append(that.sent, msg)

	return nil
}

func (that *fakeLink) ReceiveMessage(_ context.Context) ([]byte, error) {
	if that.recvErr != nil {
		return nil, that.recvErr
	}

	if len(that.incoming) == 0 {
		return nil, errors.New("no more scripted messages")
	}

	msg := that.incoming[0]
	that.incoming = that.incoming[1:]

	return msg, nil
}

// scriptedOperator feeds prepared input lines and records all output.
type scriptedOperator struct {
	inputs  []string
	outputs []string
}

func (that *scriptedOperator) ReadLine() (string, error) {
	if len(that.inputs) == 0 {
		return "", io.EOF
	}

	line := that.inputs[0]
	that.inputs = that.inputs[1:]

	return line, nil
}

func (that *scriptedOperator) WriteLine(text string) error {
	that.outputs = append(that.outputs, text)
	return nil
}

type fakeArchive struct {
	saved []*entity.Match
}

func (that *fakeArchive) Save(_ context.Context, match *entity.Match) error {
	that.saved = append(that.saved, match)
	return nil
}

func newTestCoordinator(op *scriptedOperator, peer *fakeLink) (*Coordinator, *battleship.Board, *entity.Match) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	board := battleship.NewBoard(&mapStore{bytes: make(map[int]byte)})
	match := entity.NewMatch("000")

	return NewCoordinator(logger, board, peer, op, nil, match), board, match
}

func TestCoordinator_LocalTurn(t *testing.T) {
	t.Run("Miss leaves the hit grid untouched", func(t *testing.T) {
		ctx := context.Background()

		// Given: a playing match on the local turn and a peer whose
		// ship grid has no mark at B4
		op := &scriptedOperator{inputs: []string{"B4"}}
		peer := &fakeLink{incoming: [][]byte{[]byte("0")}}
		coordinator, board, match := newTestCoordinator(op, peer)
		match.Begin(entity.TurnLocal)

		// When: the local turn is played
		require.NoError(t, coordinator.localTurn(ctx))

		// Then: the coordinate crossed the link
		require.Equal(t, [][]byte{[]byte("B4")}, peer.sent)

		// Then: the shot grid gained the mark at (2,4)
		target := entity.Coordinate{Row: 2, Col: 4}
		fired, err := board.IsMarked(ctx, battleship.GridShots, target)
		require.NoError(t, err)
		assert.True(t, fired)

		// Then: the hit grid is unchanged and no hit was counted
		hit, err := board.IsMarked(ctx, battleship.GridHits, target)
		require.NoError(t, err)
		assert.False(t, hit)
		assert.Zero(t, match.LocalHits)

		// Then: the turn passed to the remote side
		assert.Equal(t, entity.TurnRemote, match.Turn)
	})

	t.Run("Hit marks the hit grid and counts", func(t *testing.T) {
		ctx := context.Background()

		// Given: a peer that confirms the hit
		op := &scriptedOperator{inputs: []string{"B4"}}
		peer := &fakeLink{incoming: [][]byte{[]byte("1")}}
		coordinator, board, match := newTestCoordinator(op, peer)
		match.Begin(entity.TurnLocal)

		// When: the local turn is played
		require.NoError(t, coordinator.localTurn(ctx))

		// Then: shot and hit grids both carry the mark, and the hit
		// grid stays a subset of the shot grid
		target := entity.Coordinate{Row: 2, Col: 4}
		for _, grid := range []battleship.Grid{battleship.GridShots, battleship.GridHits} {
			marked, err := board.IsMarked(ctx, grid, target)
			require.NoError(t, err)
			assert.True(t, marked)
		}

		assert.Equal(t, 1, match.LocalHits)
	})

	t.Run("Re-prompts until the target is fresh", func(t *testing.T) {
		ctx := context.Background()

		// Given: a target that was already fired at and bad input
		op := &scriptedOperator{inputs: []string{"Z9", "B4", "C5"}}
		peer := &fakeLink{incoming: [][]byte{[]byte("0")}}
		coordinator, board, match := newTestCoordinator(op, peer)
		match.Begin(entity.TurnLocal)
		require.NoError(t, board.SetMarked(ctx, battleship.GridShots, entity.Coordinate{Row: 2, Col: 4}))

		// When: the local turn is played
		require.NoError(t, coordinator.localTurn(ctx))

		// Then: the malformed and re-targeted inputs were rejected and
		// only the fresh coordinate crossed the link
		require.Equal(t, [][]byte{[]byte("C5")}, peer.sent)
	})

	t.Run("Parity failure is fatal to the turn", func(t *testing.T) {
		ctx := context.Background()

		// Given: a link that detects corruption on the reply
		op := &scriptedOperator{inputs: []string{"B4"}}
		peer := &fakeLink{recvErr: link.ErrParity}
		coordinator, _, match := newTestCoordinator(op, peer)
		match.Begin(entity.TurnLocal)

		// When: the local turn is played
		err := coordinator.localTurn(ctx)

		// Then: the parity error surfaces, there is no recovery path
		require.ErrorIs(t, err, link.ErrParity)
	})
}

func TestCoordinator_RemoteTurn(t *testing.T) {
	t.Run("Enemy hit clears the ship cell and is confirmed", func(t *testing.T) {
		ctx := context.Background()

		// Given: a ship cell at B4 and an incoming shot at it
		op := &scriptedOperator{}
		peer := &fakeLink{incoming: [][]byte{[]byte("B4")}}
		coordinator, board, match := newTestCoordinator(op, peer)
		match.Begin(entity.TurnRemote)
		target := entity.Coordinate{Row: 2, Col: 4}
		require.NoError(t, board.SetMarked(ctx, battleship.GridShips, target))

		// When: the remote turn is played
		require.NoError(t, coordinator.remoteTurn(ctx))

		// Then: the hit was confirmed with "1" and the damage recorded
		require.Equal(t, [][]byte{[]byte("1")}, peer.sent)
		assert.Equal(t, 1, match.RemoteHits)

		marked, err := board.IsMarked(ctx, battleship.GridShips, target)
		require.NoError(t, err)
		assert.False(t, marked)

		// Then: the turn passed back to the local side
		assert.Equal(t, entity.TurnLocal, match.Turn)
	})

	t.Run("Enemy miss is answered with 0", func(t *testing.T) {
		ctx := context.Background()

		// Given: an empty ship grid and an incoming shot
		op := &scriptedOperator{}
		peer := &fakeLink{incoming: [][]byte{[]byte("B4")}}
		coordinator, _, match := newTestCoordinator(op, peer)
		match.Begin(entity.TurnRemote)

		// When: the remote turn is played
		require.NoError(t, coordinator.remoteTurn(ctx))

		// Then: the miss was answered with "0" and nothing was counted
		require.Equal(t, [][]byte{[]byte("0")}, peer.sent)
		assert.Zero(t, match.RemoteHits)
	})

	t.Run("Malformed enemy shot is fatal", func(t *testing.T) {
		ctx := context.Background()

		// Given: an incoming message that is not a coordinate
		op := &scriptedOperator{}
		peer := &fakeLink{incoming: [][]byte{[]byte("??")}}
		coordinator, _, match := newTestCoordinator(op, peer)
		match.Begin(entity.TurnRemote)

		// When: the remote turn is played
		err := coordinator.remoteTurn(ctx)

		// Then: the turn fails instead of indexing the store blindly
		require.Error(t, err)
	})
}

func TestCoordinator_Run(t *testing.T) {
	ctx := context.Background()

	// Given: scripted operator input for a whole match as player 1:
	// fleet placement, role negotiation and seven shots
	inputs := []string{
		"A1", "v", // length 4 ship down column 1
		"H5", "h", // length 3 ship along row H
		"1",                                      // player 1 fires first
		"A1", "A2", "A3", "A4", "A5", "A6", "A7", // all seven shots land
	}

	// Given: a peer that confirms every shot and fires six misses back
	incoming := [][]byte{
		[]byte("1"), []byte("E5"),
		[]byte("1"), []byte("F5"),
		[]byte("1"), []byte("G5"),
		[]byte("1"), []byte("E6"),
		[]byte("1"), []byte("F6"),
		[]byte("1"), []byte("G6"),
		[]byte("1"),
	}

	op := &scriptedOperator{inputs: inputs}
	peer := &fakeLink{incoming: incoming}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	board := battleship.NewBoard(&mapStore{bytes: make(map[int]byte)})
	match := entity.NewMatch("000")
	archive := &fakeArchive{}
	coordinator := NewCoordinator(logger, board, peer, op, archive, match)

	// When: the match runs to completion
	result, err := coordinator.Run(ctx)
	require.NoError(t, err)

	// Then: the seventh confirmed hit ends the match in our favor
	require.True(t, result.IsOver())
	require.Equal(t, entity.TurnLocal, result.Winner)
	assert.Equal(t, entity.TotalShipCells, result.LocalHits)
	assert.Equal(t, 7, result.LocalShots)
	assert.Equal(t, 6, result.RemoteShots)
	assert.Zero(t, result.RemoteHits)

	// Then: every shot and every verdict crossed the link in order
	require.Len(t, peer.sent, 13)
	assert.Equal(t, []byte("A1"), peer.sent[0])
	assert.Equal(t, []byte("0"), peer.sent[1])
	assert.Equal(t, []byte("A7"), peer.sent[12])

	// Then: the finished match was archived
	require.Len(t, archive.saved, 1)
	assert.Equal(t, entity.TurnLocal, archive.saved[0].Winner)

	// Then: the operator saw the victory report
	assert.Contains(t, op.outputs, "You sunk all of the enemy ships! Game over...")
}
