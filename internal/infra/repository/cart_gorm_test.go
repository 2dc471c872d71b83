package repository_test

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	infra "freshmart/internal/infra/repository"
)

// 同時作成で一意制約に負けたら、SAVEPOINTに巻き戻して同じtxで既存行を引き直す。
func TestCartGormRepository_GetOrCreate_LosesRaceThenRefetches(t *testing.T) {
	gdb, mock := newMockGorm(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "carts"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id"}))
	mock.ExpectExec(`SAVEPOINT sp`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`INSERT INTO "carts"`).
		WillReturnError(&pgconn.PgError{Code: "23505"})
	mock.ExpectExec(`ROLLBACK TO SAVEPOINT sp`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT .* FROM "carts"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id"}).AddRow(int64(33), int64(7)))
	mock.ExpectCommit()

	carts := infra.NewCartGormRepository(gdb)
	cart, err := carts.GetOrCreateByUserID(context.Background(), 7)

	assert.NoError(t, err)
	assert.Equal(t, int64(33), cart.ID)
	assert.Equal(t, int64(7), cart.UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
