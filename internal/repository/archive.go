package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rocketscienceinc/battleship-peer/internal/entity"
)

var ErrMatchNotFound = errors.New("match not found")

// ArchiveRepository keeps finished matches. The live board never goes
// through here; only the final counters and the winner do.
type ArchiveRepository interface {
	Save(ctx context.Context, match *entity.Match) error
	GetByID(ctx context.Context, id string) (*entity.Match, error)
}

type dbArchive struct {
	db *sql.DB
}

func NewArchiveRepository(db *sql.DB) ArchiveRepository {
	return &dbArchive{
		db: db,
	}
}

func (that *dbArchive) Save(ctx context.Context, match *entity.Match) error {
	query := `INSERT OR REPLACE INTO matches
		(id, winner, local_shots, local_hits, remote_shots, remote_hits, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := that.db.ExecContext(ctx, query,
		match.ID, match.Winner,
		match.LocalShots, match.LocalHits,
		match.RemoteShots, match.RemoteHits,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save match: %w", err)
	}

	return nil
}

func (that *dbArchive) GetByID(ctx context.Context, id string) (*entity.Match, error) {
	query := `SELECT id, winner, local_shots, local_hits, remote_shots, remote_hits
		FROM matches WHERE id = ?`

	match := entity.Match{Phase: entity.PhaseOver}

	err := that.db.QueryRowContext(ctx, query, id).Scan(
		&match.ID, &match.Winner,
		&match.LocalShots, &match.LocalHits,
		&match.RemoteShots, &match.RemoteHits,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return &entity.Match{}, ErrMatchNotFound
	}

	if err != nil {
		return &entity.Match{}, fmt.Errorf("failed to get match by id: %w", err)
	}

	return &match, nil
}
