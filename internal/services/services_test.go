package services

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/showcase/internal/database"
	"github.com/yukikurage/showcase/internal/logging"
	"github.com/yukikurage/showcase/internal/models"
	"github.com/yukikurage/showcase/internal/repository"
	"github.com/yukikurage/showcase/internal/session"
	"github.com/yukikurage/showcase/internal/storage"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testEnv struct {
	db          *gorm.DB
	local       *storage.LocalStorage
	sessions    *session.MemoryStore
	identity    *IdentityService
	auth        *AuthService
	attachments *AttachmentService
	entities    *EntityService
}

func setupTestEnv(t *testing.T, kind models.Kind) testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})
	require.NoError(t, database.Migrate(db, kind))

	local, err := storage.NewLocal(t.TempDir())
	require.NoError(t, err)

	logger := logging.Nop()
	sessions := session.NewMemoryStore()
	identity := NewIdentityService(repository.NewUserRepository(db), bcrypt.MinCost)
	auth, err := NewAuthService(identity, sessions, time.Hour)
	require.NoError(t, err)
	attachments := NewAttachmentService(local, logger)
	entities := NewEntityService(repository.NewEntityRepository(db, kind), attachments, logger)

	return testEnv{
		db:          db,
		local:       local,
		sessions:    sessions,
		identity:    identity,
		auth:        auth,
		attachments: attachments,
		entities:    entities,
	}
}

// failingStorage rejects every write.
type failingStorage struct {
	deleted []string
}

var errDiskFull = errors.New("no space left on device")

func (f *failingStorage) Put(context.Context, string, io.Reader, int64) error {
	return errDiskFull
}

func (f *failingStorage) Open(context.Context, string) (io.ReadCloser, error) {
	return nil, storage.ErrNotFound
}

func (f *failingStorage) Delete(_ context.Context, name string) error {
	f.deleted = append(f.deleted, name)
	return nil
}
