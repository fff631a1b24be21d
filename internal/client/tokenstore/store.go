// Package tokenstore keeps the session record: access token, refresh token
// and the client id that issued them. The record lives in memory as an
// immutable snapshot and is persisted to the metadata table, so a session
// survives restarts of the CLI.
package tokenstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/dmitrijs2005/espm/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/espm/internal/common"
	"github.com/dmitrijs2005/espm/internal/cryptox"
	"github.com/dmitrijs2005/espm/internal/dbx"
	"github.com/dmitrijs2005/espm/internal/logging"
)

const saltSize = 16

// State is the stored session record. The zero value means no session.
type State struct {
	AccessToken  string
	RefreshToken string
	ClientID     string
}

// Empty reports whether no field is set.
func (s State) Empty() bool {
	return s == State{}
}

type Option func(*Store)

// sessionKeys are the metadata keys that make up a State.
var sessionKeys = []string{common.AccessTokenKey, common.RefreshTokenKey, common.ClientIDKey}

// WithPassphrase seals values at rest with a key derived from passphrase.
// An empty passphrase leaves values in plain text.
func WithPassphrase(passphrase string) Option {
	return func(s *Store) {
		if passphrase != "" {
			s.passphrase = []byte(passphrase)
		}
	}
}

// WithLogger sets the logger used to report a discarded session.
func WithLogger(l logging.Logger) Option {
	return func(s *Store) {
		s.log = l
	}
}

// Store holds the current State. Readers take lock-free snapshots; writers
// are serialized and publish a new snapshot only after the database commit.
type Store struct {
	db         *sql.DB
	mu         sync.Mutex
	current    atomic.Pointer[State]
	passphrase []byte
	sealer     *cryptox.Sealer
	log        logging.Logger
}

// Open restores the stored State from db.
//
// A stored session that cannot be opened with the configured passphrase
// (sealing turned on over a plain session, a changed passphrase, or sealing
// turned off) is deleted and Open starts without a session. Database read
// errors are returned.
func Open(ctx context.Context, db *sql.DB, opts ...Option) (*Store, error) {
	s := &Store{db: db, log: logging.Discard()}
	for _, opt := range opts {
		opt(s)
	}
	s.current.Store(&State{})

	if s.passphrase != nil {
		if err := s.initSealer(ctx); err != nil {
			return nil, err
		}
	} else if err := s.dropSealedSession(ctx); err != nil {
		return nil, err
	}

	st, err := s.load(ctx)
	if errors.Is(err, common.ErrCorruptedValue) {
		s.log.Warn(ctx, "stored session cannot be opened, starting without a session", "error", err)
		if err := s.deleteKeys(ctx, sessionKeys...); err != nil {
			return nil, err
		}
		st = State{}
	} else if err != nil {
		return nil, err
	}
	s.current.Store(&st)
	return s, nil
}

// dropSealedSession deletes a session sealed by an earlier run when no
// passphrase is configured now. The salt goes too, so later plain saves are
// not mistaken for sealed ones.
func (s *Store) dropSealedSession(ctx context.Context) error {
	salt, err := metadata.NewSQLiteRepository(s.db).Get(ctx, common.StorageSaltKey)
	if err != nil {
		return err
	}
	if len(salt) == 0 {
		return nil
	}
	s.log.Warn(ctx, "storage passphrase is not set, discarding the sealed session")
	return s.deleteKeys(ctx, append([]string{common.StorageSaltKey}, sessionKeys...)...)
}

func (s *Store) deleteKeys(ctx context.Context, keys ...string) error {
	if err := metadata.NewSQLiteRepository(s.db).Delete(ctx, keys...); err != nil {
		return fmt.Errorf("failed to discard stored session: %w", err)
	}
	return nil
}

func (s *Store) initSealer(ctx context.Context) error {
	repo := metadata.NewSQLiteRepository(s.db)

	salt, err := repo.Get(ctx, common.StorageSaltKey)
	if err != nil {
		return err
	}
	if len(salt) == 0 {
		salt = common.GenerateRandByteArray(saltSize)
		if err := repo.Set(ctx, common.StorageSaltKey, salt); err != nil {
			return err
		}
	}

	key := cryptox.DeriveKey(s.passphrase, salt)
	defer common.WipeByteArray(key)
	common.WipeByteArray(s.passphrase)
	s.passphrase = nil

	sealer, err := cryptox.NewSealer(key)
	if err != nil {
		return fmt.Errorf("failed to init storage sealer: %w", err)
	}
	s.sealer = sealer
	return nil
}

func (s *Store) load(ctx context.Context) (State, error) {
	repo := metadata.NewSQLiteRepository(s.db)

	var st State
	fields := []struct {
		key string
		dst *string
	}{
		{common.AccessTokenKey, &st.AccessToken},
		{common.RefreshTokenKey, &st.RefreshToken},
		{common.ClientIDKey, &st.ClientID},
	}
	for _, f := range fields {
		raw, err := repo.Get(ctx, f.key)
		if err != nil {
			return State{}, err
		}
		v, err := s.open(raw)
		if err != nil {
			return State{}, fmt.Errorf("%w: %s: %w", common.ErrCorruptedValue, f.key, err)
		}
		*f.dst = v
	}
	return st, nil
}

// Snapshot returns the current State. It never blocks and never returns a
// mix of two writes.
func (s *Store) Snapshot() State {
	return *s.current.Load()
}

// Save persists st in one transaction and then makes it the current State.
// On error the previous State stays in place, both on disk and in memory.
func (s *Store) Save(ctx context.Context, st State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values := map[string]string{
		common.AccessTokenKey:  st.AccessToken,
		common.RefreshTokenKey: st.RefreshToken,
		common.ClientIDKey:     st.ClientID,
	}
	sealed := make(map[string][]byte, len(values))
	for k, v := range values {
		b, err := s.seal(v)
		if err != nil {
			return fmt.Errorf("failed to seal %s: %w", k, err)
		}
		sealed[k] = b
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		for _, k := range sessionKeys {
			if err := repo.Set(ctx, k, sealed[k]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	s.current.Store(&st)
	return nil
}

// Reset clears the in-memory State unconditionally and deletes the stored
// keys. Calling it without a session is a no-op apart from the delete.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current.Store(&State{})

	repo := metadata.NewSQLiteRepository(s.db)
	if err := repo.Delete(ctx, sessionKeys...); err != nil {
		return fmt.Errorf("failed to reset session: %w", err)
	}
	return nil
}

func (s *Store) seal(v string) ([]byte, error) {
	if v == "" {
		return []byte{}, nil
	}
	if s.sealer == nil {
		return []byte(v), nil
	}
	return s.sealer.Seal([]byte(v))
}

func (s *Store) open(raw []byte) (string, error) {
	if len(raw) == 0 {
		return "", nil
	}
	if s.sealer == nil {
		return string(raw), nil
	}
	b, err := s.sealer.Open(raw)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
