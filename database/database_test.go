package database

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
)

func TestConnect_WithExistingConn(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	assert.NoError(t, err)

	db, err := connect(context.Background(), postgres.New(postgres.Config{Conn: sqlDB}), zap.NewNop(), time.Millisecond)

	assert.NoError(t, err)
	assert.NotNil(t, db)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConnect_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ConnectPostgres(ctx, "host=127.0.0.1 port=1 user=x dbname=x sslmode=disable connect_timeout=1", zap.NewNop())

	assert.Error(t, err)
}

func TestClose_Nil(t *testing.T) {
	assert.NoError(t, Close(nil))
}

func TestNewRedisClient_InvalidURL(t *testing.T) {
	_, err := NewRedisClient(context.Background(), "not-a-redis-url")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid Redis URL")
}
