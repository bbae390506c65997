package services

import (
	"context"
	"testing"
	"time"

	"github.com/filevault/backend/internal/database"
	"github.com/filevault/backend/internal/metrics"
	"github.com/filevault/backend/internal/models"
	"github.com/filevault/backend/internal/repository"
	"github.com/filevault/backend/internal/storage"
	"github.com/filevault/backend/pkg/utils"
	"github.com/glebarez/sqlite"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type serviceEnv struct {
	db      *gorm.DB
	store   *storage.MemoryStore
	tokens  *utils.TokenManager
	users   *repository.UserRepository
	folders *FolderService
	files   *FileService
	account *UserService
	auth    *AuthService
}

func setupServiceEnv(t *testing.T) *serviceEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))

	store := storage.NewMemoryStore("test-bucket")
	m := metrics.New(prometheus.NewRegistry())
	tokens := utils.NewTokenManager("service-test-secret", time.Hour)

	userRepo := repository.NewUserRepository(db)
	folderRepo := repository.NewFolderRepository(db)
	fileRepo := repository.NewFileRepository(db)

	return &serviceEnv{
		db:      db,
		store:   store,
		tokens:  tokens,
		users:   userRepo,
		folders: NewFolderService(folderRepo, store, m),
		files:   NewFileService(fileRepo, folderRepo, store, m, 0),
		account: NewUserService(userRepo, tokens, m),
		auth:    NewAuthService(userRepo, tokens, m),
	}
}

func (e *serviceEnv) createUser(t *testing.T, email string) *models.User {
	t.Helper()
	user, _, err := e.account.Register(context.Background(), RegisterInput{
		Name:     "Test User",
		Email:    email,
		Password: "password123",
	})
	require.NoError(t, err)
	return user
}

func assertKind(t *testing.T, err error, kind Kind) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, kind, KindOf(err), "unexpected error kind for %v", err)
}

func strPtr(s string) *string {
	return &s
}
