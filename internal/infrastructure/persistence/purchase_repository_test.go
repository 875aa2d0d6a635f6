package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lewlewstore/backend/internal/domain/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockPurchaseRepository(t *testing.T) (*GormPurchaseRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: mockDB, DriverName: "postgres"}), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormPurchaseRepository(gormDB), mock, mockDB
}

func mustRecord(t *testing.T, quantity int64, product string, price int64) ledger.PurchaseRecord {
	t.Helper()
	r, err := ledger.NewPurchaseRecord(quantity, product, price)
	require.NoError(t, err)
	return r
}

func TestGormPurchaseRepository_AppendAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewGormPurchaseRepository(newTestDatabase(t).DB)

	require.NoError(t, repo.Append(ctx, "A", mustRecord(t, 1, "Sticker", 10000)))
	require.NoError(t, repo.Append(ctx, "B", mustRecord(t, 1, "Pin", 5000)))
	require.NoError(t, repo.Append(ctx, "A", mustRecord(t, 3, "Poster", 25000)))

	t.Run("customer records in append order", func(t *testing.T) {
		records, err := repo.FindByCustomer(ctx, "A")
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "Sticker", records[0].ProductName)
		assert.Equal(t, "Poster", records[1].ProductName)
		assert.Equal(t, int64(3), records[1].Quantity)
		assert.Equal(t, int64(35000), ledger.SumPrices(records))
		assert.False(t, records[0].RecordedAt.IsZero())
	})

	t.Run("unknown customer yields empty slice", func(t *testing.T) {
		records, err := repo.FindByCustomer(ctx, "nobody")
		require.NoError(t, err)
		assert.NotNil(t, records)
		assert.Empty(t, records)
	})

	t.Run("all customers in first-purchase order", func(t *testing.T) {
		all, err := repo.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, "A", all[0].CustomerID)
		assert.Equal(t, int64(35000), all[0].Total())
		assert.Equal(t, "B", all[1].CustomerID)
		assert.Equal(t, int64(5000), all[1].Total())
	})
}

func TestGormPurchaseRepository_FindAllEmpty(t *testing.T) {
	repo := NewGormPurchaseRepository(newTestDatabase(t).DB)

	all, err := repo.FindAll(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)
}

func TestGormPurchaseRepository_ConcurrentAppends(t *testing.T) {
	ctx := context.Background()
	repo := NewGormPurchaseRepository(newTestDatabase(t).DB)

	const workers = 20
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, repo.Append(ctx, "A", mustRecord(t, 1, fmt.Sprintf("item-%d", i), 1000)))
		}(i)
	}
	wg.Wait()

	records, err := repo.FindByCustomer(ctx, "A")
	require.NoError(t, err)
	assert.Len(t, records, workers)
	assert.Equal(t, int64(workers*1000), ledger.SumPrices(records))
}

func TestGormPurchaseRepository_Errors(t *testing.T) {
	t.Run("append surfaces insert failure", func(t *testing.T) {
		repo, mock, mockDB := newMockPurchaseRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`INSERT INTO "purchases"`).WillReturnError(sql.ErrConnDone)

		err := repo.Append(context.Background(), "A", mustRecord(t, 1, "Sticker", 10000))

		assert.ErrorIs(t, err, sql.ErrConnDone)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("find surfaces query failure", func(t *testing.T) {
		repo, mock, mockDB := newMockPurchaseRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "purchases" WHERE customer_id = \$1 ORDER BY id ASC`).
			WithArgs("A").
			WillReturnError(sql.ErrConnDone)

		records, err := repo.FindByCustomer(context.Background(), "A")

		assert.Error(t, err)
		assert.Nil(t, records)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
