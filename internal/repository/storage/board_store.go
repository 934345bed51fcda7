package storage

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisBoardStore keeps a match's board bytes in one redis string key,
// addressed with SETRANGE/GETRANGE. Every read reflects the most
// recent write; the coordinator is the only writer, so no locking or
// transaction machinery is needed.
type RedisBoardStore struct {
	client *redis.Client
	key    string
}

func NewRedisBoardStore(client *redis.Client, matchID string) *RedisBoardStore {
	return &RedisBoardStore{
		client: client,
		key:    "board:" + matchID,
	}
}

// ReadByte - returns the byte at addr. Bytes never written read as
// zero, matching an erased store.
func (that *RedisBoardStore) ReadByte(ctx context.Context, addr int) (byte, error) {
	value, err := that.client.GetRange(ctx, that.key, int64(addr), int64(addr)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get byte at %d: %w", addr, err)
	}

	if value == "" {
		return 0, nil
	}

	return value[0], nil
}

// WriteByte - stores the byte at addr.
func (that *RedisBoardStore) WriteByte(ctx context.Context, addr int, value byte) error {
	err := that.client.SetRange(ctx, that.key, int64(addr), string([]byte{value})).Err()
	if err != nil {
		return fmt.Errorf("failed to set byte at %d: %w", addr, err)
	}

	return nil
}
