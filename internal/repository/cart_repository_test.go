package repository_test

import (
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/bookcart/internal/domain"
	"github.com/nikolayk812/bookcart/internal/port"
	"github.com/nikolayk812/bookcart/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
)

type cartRepositorySuite struct {
	suite.Suite

	repo port.CartRepository
	pool *pgxpool.Pool
}

// entry point to run the tests in the suite
func TestCartRepositorySuite(t *testing.T) {
	suite.Run(t, new(cartRepositorySuite))
}

// before all tests in the suite
func (suite *cartRepositorySuite) SetupSuite() {
	ctx := suite.T().Context()

	container, connStr, err := startPostgres(ctx)
	suite.Require().NoError(err)
	testcontainers.CleanupContainer(suite.T(), container)

	suite.pool, err = pgxpool.New(ctx, connStr)
	suite.Require().NoError(err)

	suite.repo = repository.NewCart(suite.pool)
}

// after all tests in the suite
func (suite *cartRepositorySuite) TearDownSuite() {
	if suite.pool != nil {
		suite.pool.Close()
	}
}

func (suite *cartRepositorySuite) TestSaveAndLoad() {
	defer suite.deleteAll()

	tests := []struct {
		name      string
		ownerID   string
		items     []domain.CartItem
		wantError string
	}{
		{
			name:    "save two items: ok",
			ownerID: gofakeit.UUID(),
			items:   []domain.CartItem{randomCartItem(), randomCartItem()},
		},
		{
			name:    "save item with sale price: ok",
			ownerID: gofakeit.UUID(),
			items: []domain.CartItem{
				func() domain.CartItem {
					item := randomCartItem()
					item.SalePrice = decimal.NewNullDecimal(decimal.NewFromFloat(gofakeit.Price(1, 100)))
					return item
				}(),
			},
		},
		{
			name:      "save with empty owner ID: error",
			ownerID:   "",
			items:     []domain.CartItem{randomCartItem()},
			wantError: "ownerID is empty",
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()
			ctx := t.Context()

			err := suite.repo.Save(ctx, tt.ownerID, tt.items)
			if tt.wantError != "" {
				require.EqualError(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)

			loaded, err := suite.repo.Load(ctx, tt.ownerID)
			require.NoError(t, err)

			assertCartItems(t, tt.items, loaded)
		})
	}
}

func (suite *cartRepositorySuite) TestSave_LastWriteWins() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()
	ownerID := gofakeit.UUID()

	first := []domain.CartItem{randomCartItem()}
	second := []domain.CartItem{randomCartItem(), randomCartItem()}

	require.NoError(t, suite.repo.Save(ctx, ownerID, first))
	require.NoError(t, suite.repo.Save(ctx, ownerID, second))

	loaded, err := suite.repo.Load(ctx, ownerID)
	require.NoError(t, err)
	assertCartItems(t, second, loaded)
}

func (suite *cartRepositorySuite) TestSave_EmptyRemovesCart() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()
	ownerID := gofakeit.UUID()

	require.NoError(t, suite.repo.Save(ctx, ownerID, []domain.CartItem{randomCartItem()}))
	require.NoError(t, suite.repo.Save(ctx, ownerID, nil))

	var count int
	err := suite.pool.QueryRow(ctx, "SELECT COUNT(*) FROM carts WHERE owner_id = $1", ownerID).Scan(&count)
	require.NoError(t, err)
	assert.Zero(t, count)

	loaded, err := suite.repo.Load(ctx, ownerID)
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func (suite *cartRepositorySuite) TestLoad() {
	defer suite.deleteAll()

	tests := []struct {
		name        string
		ownerID     string
		raw         string
		wantItems   int
		wantErrorIs error
		wantError   string
	}{
		{
			name:      "load missing cart: ok",
			ownerID:   gofakeit.UUID(),
			wantItems: 0,
		},
		{
			name:        "load cart with wrong JSON shape: corrupted",
			ownerID:     gofakeit.UUID(),
			raw:         `{"id": "not-an-array"}`,
			wantErrorIs: domain.ErrCorrupted,
		},
		{
			name:      "load with empty owner ID: error",
			ownerID:   "",
			wantError: "ownerID is empty",
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()
			ctx := t.Context()

			if tt.raw != "" {
				_, err := suite.pool.Exec(ctx, "INSERT INTO carts (owner_id, items) VALUES ($1, $2::jsonb)", tt.ownerID, tt.raw)
				require.NoError(t, err)
			}

			items, err := suite.repo.Load(ctx, tt.ownerID)
			if tt.wantError != "" {
				require.EqualError(t, err, tt.wantError)
				return
			}
			if tt.wantErrorIs != nil {
				require.ErrorIs(t, err, tt.wantErrorIs)
				return
			}
			require.NoError(t, err)
			assert.Len(t, items, tt.wantItems)
		})
	}
}

func (suite *cartRepositorySuite) TestSaveWithTx_Rollback() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()
	ownerID := gofakeit.UUID()

	tx, err := suite.pool.Begin(ctx)
	require.NoError(t, err)

	txRepo := repository.NewCartWithTx(tx)
	require.NoError(t, txRepo.Save(ctx, ownerID, []domain.CartItem{randomCartItem()}))
	require.NoError(t, tx.Rollback(ctx))

	loaded, err := suite.repo.Load(ctx, ownerID)
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func (suite *cartRepositorySuite) deleteAll() {
	_, err := suite.pool.Exec(suite.T().Context(), "TRUNCATE TABLE carts")
	suite.NoError(err)
}

func randomCartItem() domain.CartItem {
	return domain.CartItem{
		ID:            gofakeit.UUID(),
		Title:         gofakeit.BookTitle(),
		Photos:        []string{gofakeit.URL(), gofakeit.URL()},
		UnitPrice:     decimal.NewFromFloat(gofakeit.Price(1, 100)),
		DiscountType:  domain.DiscountPercent,
		DiscountValue: decimal.NewFromInt(int64(gofakeit.IntRange(0, 50))),
		Quantity:      gofakeit.IntRange(1, 5),
		AddedAt:       time.Now().UTC().Truncate(time.Microsecond),
	}
}

func assertCartItems(t *testing.T, expected, actual []domain.CartItem) {
	t.Helper()

	diff := cmp.Diff(expected, actual)
	assert.Empty(t, diff)
}
