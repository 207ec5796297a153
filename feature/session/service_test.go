package session_test

import (
	"context"
	"sync"
	"testing"

	"hysync/core/database"
	"hysync/feature/session"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&session.Session{}))
	return db
}

const playerA = "11111111-1111-1111-1111-111111111111"

func TestClaimFreshPlayer(t *testing.T) {
	svc := session.NewService(setupTestDB(t), zap.NewNop())
	ctx := context.Background()

	claimed, err := svc.Claim(ctx, playerA, "lobby-1")
	assert.NoError(t, err)
	assert.True(t, claimed)

	owner, err := svc.CurrentOwner(ctx, playerA)
	assert.NoError(t, err)
	assert.Equal(t, "lobby-1", owner)
}

func TestClaimIsExclusive(t *testing.T) {
	svc := session.NewService(setupTestDB(t), zap.NewNop())
	ctx := context.Background()

	claimed, err := svc.Claim(ctx, playerA, "lobby-1")
	assert.NoError(t, err)
	assert.True(t, claimed)

	// A second server must not take over.
	claimed, err = svc.Claim(ctx, playerA, "lobby-2")
	assert.NoError(t, err)
	assert.False(t, claimed)

	owner, err := svc.CurrentOwner(ctx, playerA)
	assert.NoError(t, err)
	assert.Equal(t, "lobby-1", owner)
}

func TestReclaimIsIdempotent(t *testing.T) {
	svc := session.NewService(setupTestDB(t), zap.NewNop())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		claimed, err := svc.Claim(ctx, playerA, "lobby-1")
		assert.NoError(t, err)
		assert.True(t, claimed)
	}
}

func TestConcurrentClaimsSingleWinner(t *testing.T) {
	svc := session.NewService(setupTestDB(t), zap.NewNop())
	ctx := context.Background()

	servers := []string{"lobby-1", "lobby-2", "lobby-3", "lobby-4", "lobby-5"}
	results := make([]bool, len(servers))
	var wg sync.WaitGroup
	for i, sid := range servers {
		wg.Add(1)
		go func(i int, sid string) {
			defer wg.Done()
			ok, err := svc.Claim(ctx, playerA, sid)
			assert.NoError(t, err)
			results[i] = ok
		}(i, sid)
	}
	wg.Wait()

	winners := 0
	for _, ok := range results {
		if ok {
			winners++
		}
	}
	assert.Equal(t, 1, winners)
}

func TestReleaseByNonOwnerIsNoOp(t *testing.T) {
	svc := session.NewService(setupTestDB(t), zap.NewNop())
	ctx := context.Background()

	claimed, err := svc.Claim(ctx, playerA, "lobby-1")
	assert.NoError(t, err)
	assert.True(t, claimed)

	assert.NoError(t, svc.Release(ctx, playerA, "lobby-2"))

	owner, err := svc.CurrentOwner(ctx, playerA)
	assert.NoError(t, err)
	assert.Equal(t, "lobby-1", owner)
}

func TestReleaseThenReclaimByOtherServer(t *testing.T) {
	svc := session.NewService(setupTestDB(t), zap.NewNop())
	ctx := context.Background()

	claimed, err := svc.Claim(ctx, playerA, "lobby-1")
	assert.NoError(t, err)
	assert.True(t, claimed)

	assert.NoError(t, svc.Release(ctx, playerA, "lobby-1"))
	// Release is idempotent.
	assert.NoError(t, svc.Release(ctx, playerA, "lobby-1"))

	claimed, err = svc.Claim(ctx, playerA, "lobby-2")
	assert.NoError(t, err)
	assert.True(t, claimed)
}

func TestEmptyIdentifiersRejectedLocally(t *testing.T) {
	svc := session.NewService(setupTestDB(t), zap.NewNop())
	ctx := context.Background()

	claimed, err := svc.Claim(ctx, "", "lobby-1")
	assert.ErrorIs(t, err, session.ErrInvalidIdentifier)
	assert.False(t, claimed)

	claimed, err = svc.Claim(ctx, playerA, "")
	assert.ErrorIs(t, err, session.ErrInvalidIdentifier)
	assert.False(t, claimed)

	assert.NoError(t, svc.Release(ctx, "", "lobby-1"))

	_, err = svc.CurrentOwner(ctx, "")
	assert.ErrorIs(t, err, session.ErrInvalidIdentifier)
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func TestClaimFailsClosedWhenStoreDown(t *testing.T) {
	db, mock := setupMockDB(t)
	svc := session.NewService(db, zap.NewNop())

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `player_sessions`").
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	claimed, err := svc.Claim(context.Background(), playerA, "lobby-1")
	assert.Error(t, err)
	assert.False(t, claimed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// On MySQL the conditional insert becomes ON DUPLICATE KEY UPDATE of the key
// to itself, and a CLIENT_FOUND_ROWS server reports one affected row even
// when the row belongs to another server. The claim must not take that count
// as a win; the confirming read reports the true owner.
func TestClaimForeignOwnedRowOnMySQL(t *testing.T) {
	db, mock := setupMockDB(t)
	svc := session.NewService(db, zap.NewNop())

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `player_sessions`").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `player_sessions` (.+) ON DUPLICATE KEY UPDATE").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery("SELECT \\* FROM `player_sessions`").
		WillReturnRows(sqlmock.NewRows([]string{"player_uuid", "server_id"}).
			AddRow(playerA, "lobby-1"))

	claimed, err := svc.Claim(context.Background(), playerA, "lobby-2")
	assert.NoError(t, err)
	assert.False(t, claimed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClaimFreshRowConfirmedOnMySQL(t *testing.T) {
	db, mock := setupMockDB(t)
	svc := session.NewService(db, zap.NewNop())

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `player_sessions`").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `player_sessions` (.+) ON DUPLICATE KEY UPDATE").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()
	mock.ExpectQuery("SELECT \\* FROM `player_sessions`").
		WillReturnRows(sqlmock.NewRows([]string{"player_uuid", "server_id"}).
			AddRow(playerA, "lobby-1"))

	claimed, err := svc.Claim(context.Background(), playerA, "lobby-1")
	assert.NoError(t, err)
	assert.True(t, claimed)
	assert.NoError(t, mock.ExpectationsWereMet())
}
