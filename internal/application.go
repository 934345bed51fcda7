package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/rocketscienceinc/battleship-peer/internal/battleship"
	"github.com/rocketscienceinc/battleship-peer/internal/config"
	"github.com/rocketscienceinc/battleship-peer/internal/entity"
	"github.com/rocketscienceinc/battleship-peer/internal/link"
	"github.com/rocketscienceinc/battleship-peer/internal/operator"
	"github.com/rocketscienceinc/battleship-peer/internal/repository"
	"github.com/rocketscienceinc/battleship-peer/internal/repository/storage"
	"github.com/rocketscienceinc/battleship-peer/internal/transport/serial"
	"github.com/rocketscienceinc/battleship-peer/internal/usecase"
)

var (
	ErrAddrNotFound     = errors.New("redis address string is empty")
	ErrPeerAddrNotFound = errors.New("peer listen and dial addresses are both empty")
)

// RunApp - runs the application: one match against one remote peer.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	redisAddrString := conf.Redis.GetRedisAddr()
	if redisAddrString == "" {
		return ErrAddrNotFound
	}

	redisStorage, err := storage.NewRedisStorage(ctx, redisAddrString)
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if err = redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}()

	matchID := uuid.NewString()
	board := battleship.NewBoard(storage.NewRedisBoardStore(redisStorage.Connection, matchID))

	var archiveRepo repository.ArchiveRepository
	if conf.SQLiteStoragePath != "" {
		sqliteStorage, sqliteErr := storage.NewSQLiteStorage(conf.SQLiteStoragePath)
		if sqliteErr != nil {
			return fmt.Errorf("could not open sqlite storage: %w", sqliteErr)
		}

		defer func() {
			if err = sqliteStorage.Close(); err != nil {
				log.Error("could not close sqlite storage", "error", err)
			}
		}()

		if err = sqliteStorage.Init(ctx); err != nil {
			return fmt.Errorf("could not init sqlite storage: %w", err)
		}

		archiveRepo = repository.NewArchiveRepository(sqliteStorage.Connection)
	}

	conn, err := connectPeer(ctx, log, conf)
	if err != nil {
		return err
	}

	defer func() {
		if err = conn.Close(); err != nil {
			log.Error("could not close peer link", "error", err)
		}
	}()

	coordinator := usecase.NewCoordinator(
		logger,
		board,
		link.NewMessenger(conn),
		operator.NewConsole(),
		archiveRepo,
		entity.NewMatch(matchID),
	)

	match, err := coordinator.Run(ctx)
	if err != nil {
		return fmt.Errorf("match aborted: %w", err)
	}

	log.Info("match finished",
		"match", match.ID,
		"winner", match.Winner,
		"local_hits", match.LocalHits,
		"remote_hits", match.RemoteHits,
	)

	return nil
}

// connectPeer - brings up the single duplex link: listen when a listen
// address is configured, dial otherwise.
func connectPeer(ctx context.Context, log *slog.Logger, conf *config.Config) (*serial.Conn, error) {
	switch {
	case conf.Peer.Listen != "":
		log.Info("Waiting for peer", "listen", conf.Peer.Listen)

		conn, err := serial.Listen(ctx, conf.Peer.Listen)
		if err != nil {
			return nil, fmt.Errorf("could not accept peer link: %w", err)
		}
		return conn, nil
	case conf.Peer.Addr != "":
		log.Info("Connecting to peer", "addr", conf.Peer.Addr)

		conn, err := serial.Dial(ctx, conf.Peer.Addr)
		if err != nil {
			return nil, fmt.Errorf("could not dial peer link: %w", err)
		}
		return conn, nil
	default:
		return nil, ErrPeerAddrNotFound
	}
}
