package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/felipenb/go_sales/internal/domain"
)

func setupTestDB(t *testing.T) (*sql.DB, func()) {
	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)

	port, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	creds := &Credentials{
		Host:              host,
		Port:              port.Int(),
		User:              "testuser",
		Password:          "testpass",
		DBName:            "testdb",
		MigrationsDirPath: "../../migrations",
	}

	db, err := Open(creds)
	require.NoError(t, err)

	err = RunMigrations(db, creds)
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}

	return db, cleanup
}

func seedUser(t *testing.T, db *sql.DB) *domain.User {
	t.Helper()

	user := &domain.User{
		ID:       uuid.New(),
		Username: "user-" + uuid.NewString()[:8],
		Email:    uuid.NewString()[:8] + "@example.com",
		Name:     "Test User",
		Status:   domain.UserStatusActive,
		Role:     domain.UserRoleCustomer,
	}
	require.NoError(t, NewUserRepo(db).Create(context.Background(), user))
	return user
}

func seedProduct(t *testing.T, db *sql.DB, price string) *domain.Product {
	t.Helper()

	product := &domain.Product{
		ID:       uuid.New(),
		Title:    "Product " + uuid.NewString()[:8],
		Price:    decimal.RequireFromString(price),
		Category: "electronics",
	}
	require.NoError(t, NewProductRepo(db).Create(context.Background(), product))
	return product
}

func newTestCart(user *domain.User, product *domain.Product, saleNumber int64) *domain.Cart {
	cart := &domain.Cart{
		ID:         uuid.New(),
		UserID:     user.ID,
		Branch:     "porto-alegre",
		SaleNumber: saleNumber,
		Date:       time.Now().UTC(),
	}
	cart.Items = []domain.LineItem{{
		ID:        uuid.New(),
		CartID:    cart.ID,
		ProductID: product.ID,
		Quantity:  5,
		UnitPrice: product.Price,
	}}
	return cart
}

func TestCartRepo_CreateAndGet(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewCartRepo(db)
	user := seedUser(t, db)
	product := seedProduct(t, db, "9.99")

	cart := newTestCart(user, product, 1)
	require.NoError(t, repo.Create(ctx, cart))

	fetched, err := repo.GetByID(ctx, cart.ID)
	require.NoError(t, err)
	assert.Equal(t, cart.ID, fetched.ID)
	assert.Equal(t, cart.UserID, fetched.UserID)
	assert.Equal(t, cart.Branch, fetched.Branch)
	assert.Equal(t, cart.SaleNumber, fetched.SaleNumber)
	assert.False(t, fetched.Cancelled)
	assert.WithinDuration(t, cart.Date, fetched.Date, time.Second)
	require.Len(t, fetched.Items, 1)
	assert.Equal(t, product.ID, fetched.Items[0].ProductID)
	assert.Equal(t, 5, fetched.Items[0].Quantity)
	assert.True(t, fetched.Items[0].UnitPrice.Equal(decimal.RequireFromString("9.99")))
}

func TestCartRepo_GetByID_NotFound(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := NewCartRepo(db).GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrCartNotFound)
}

func TestCartRepo_Update_ReplacesItems(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewCartRepo(db)
	user := seedUser(t, db)
	first := seedProduct(t, db, "9.99")
	second := seedProduct(t, db, "3.50")

	cart := newTestCart(user, first, 1)
	require.NoError(t, repo.Create(ctx, cart))

	cart.Items = []domain.LineItem{{
		ID:        uuid.New(),
		CartID:    cart.ID,
		ProductID: second.ID,
		Quantity:  2,
		UnitPrice: second.Price,
	}}
	cart.Branch = "sao-paulo"
	require.NoError(t, repo.Update(ctx, cart))

	fetched, err := repo.GetByID(ctx, cart.ID)
	require.NoError(t, err)
	assert.Equal(t, "sao-paulo", fetched.Branch)
	require.Len(t, fetched.Items, 1)
	assert.Equal(t, second.ID, fetched.Items[0].ProductID)
	assert.True(t, fetched.Items[0].UnitPrice.Equal(decimal.RequireFromString("3.50")))
}

func TestCartRepo_Update_NotFound(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	user := seedUser(t, db)
	product := seedProduct(t, db, "1.00")
	cart := newTestCart(user, product, 1)

	err := NewCartRepo(db).Update(context.Background(), cart)
	assert.ErrorIs(t, err, ErrCartNotFound)
}

func TestCartRepo_Cancel(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewCartRepo(db)
	user := seedUser(t, db)
	product := seedProduct(t, db, "9.99")

	cart := newTestCart(user, product, 1)
	require.NoError(t, repo.Create(ctx, cart))

	require.NoError(t, repo.Cancel(ctx, cart.ID))

	fetched, err := repo.GetByID(ctx, cart.ID)
	require.NoError(t, err)
	assert.True(t, fetched.Cancelled)

	err = repo.Cancel(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrCartNotFound)
}

func TestCartRepo_Delete_CascadesItems(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewCartRepo(db)
	user := seedUser(t, db)
	product := seedProduct(t, db, "9.99")

	cart := newTestCart(user, product, 1)
	require.NoError(t, repo.Create(ctx, cart))
	require.NoError(t, repo.Delete(ctx, cart.ID))

	_, err := repo.GetByID(ctx, cart.ID)
	assert.ErrorIs(t, err, ErrCartNotFound)

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM cart_items WHERE cart_id = $1`, cart.ID).Scan(&count))
	assert.Zero(t, count)
}

func TestCartRepo_List_AttachesItems(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewCartRepo(db)
	user := seedUser(t, db)
	product := seedProduct(t, db, "9.99")

	first := newTestCart(user, product, 1)
	second := newTestCart(user, product, 2)
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	carts, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, carts, 2)
	assert.Equal(t, first.ID, carts[0].ID)
	assert.Equal(t, second.ID, carts[1].ID)
	assert.Len(t, carts[0].Items, 1)
	assert.Len(t, carts[1].Items, 1)
}

func TestCartRepo_NextSaleNumber_Increases(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewCartRepo(db)

	first, err := repo.NextSaleNumber(ctx)
	require.NoError(t, err)
	second, err := repo.NextSaleNumber(ctx)
	require.NoError(t, err)
	assert.Greater(t, second, first)
}

func TestProductRepo_CRUD(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewProductRepo(db)

	product := &domain.Product{
		ID:          uuid.New(),
		Title:       "Keyboard",
		Price:       decimal.RequireFromString("49.90"),
		Description: "Mechanical keyboard",
		Category:    "electronics",
		RatingRate:  4.5,
		RatingCount: 12,
	}
	require.NoError(t, repo.Create(ctx, product))

	fetched, err := repo.GetByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Keyboard", fetched.Title)
	assert.True(t, fetched.Price.Equal(decimal.RequireFromString("49.90")))
	assert.Equal(t, 4.5, fetched.RatingRate)

	product.Title = "Keyboard v2"
	product.Price = decimal.RequireFromString("59.90")
	require.NoError(t, repo.Update(ctx, product))

	fetched, err = repo.GetByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Keyboard v2", fetched.Title)
	assert.True(t, fetched.Price.Equal(decimal.RequireFromString("59.90")))

	price, err := repo.PriceByID(ctx, product.ID)
	require.NoError(t, err)
	assert.True(t, price.Equal(decimal.RequireFromString("59.90")))

	exists, err := repo.Exists(ctx, product.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, repo.Delete(ctx, product.ID))
	_, err = repo.GetByID(ctx, product.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductRepo_Categories(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewProductRepo(db)

	for _, category := range []string{"books", "electronics", "books"} {
		product := &domain.Product{
			ID:       uuid.New(),
			Title:    "Product " + uuid.NewString()[:8],
			Price:    decimal.RequireFromString("10.00"),
			Category: category,
		}
		require.NoError(t, repo.Create(ctx, product))
	}

	categories, err := repo.Categories(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"books", "electronics"}, categories)

	books, err := repo.ListByCategory(ctx, "books")
	require.NoError(t, err)
	assert.Len(t, books, 2)
}

func TestProductRepo_PriceByID_NotFound(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := NewProductRepo(db).PriceByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestUserRepo_CRUD(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewUserRepo(db)

	user := &domain.User{
		ID:       uuid.New(),
		Username: "mjane",
		Email:    "mjane@example.com",
		Name:     "Mary Jane",
		Status:   domain.UserStatusActive,
		Role:     domain.UserRoleManager,
	}
	require.NoError(t, repo.Create(ctx, user))

	fetched, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "mjane", fetched.Username)
	assert.Equal(t, domain.UserRoleManager, fetched.Role)

	user.Status = domain.UserStatusSuspended
	require.NoError(t, repo.Update(ctx, user))

	fetched, err = repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.UserStatusSuspended, fetched.Status)

	require.NoError(t, repo.Delete(ctx, user.ID))
	_, err = repo.GetByID(ctx, user.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserRepo_Create_DuplicateUsername(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewUserRepo(db)

	first := &domain.User{
		ID:       uuid.New(),
		Username: "duplicated",
		Email:    "first@example.com",
		Status:   domain.UserStatusActive,
		Role:     domain.UserRoleCustomer,
	}
	require.NoError(t, repo.Create(ctx, first))

	second := &domain.User{
		ID:       uuid.New(),
		Username: "duplicated",
		Email:    "second@example.com",
		Status:   domain.UserStatusActive,
		Role:     domain.UserRoleCustomer,
	}
	err := repo.Create(ctx, second)
	assert.ErrorIs(t, err, ErrDuplicateUser)
}
