package orders

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/climasite/backend/internal/database"
	"github.com/climasite/backend/internal/models"
)

// TestServiceLifecycle runs the order service against a real Postgres so the
// transactional invariants (row lock, version guard, one event per
// transition) are checked end to end, not just the pure policy table.
func TestServiceLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("requires docker")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	container, dsn := startPostgres(ctx, t)
	defer func() {
		_ = container.Terminate(context.Background())
	}()

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	svc := NewService(db, zap.NewNop(), "BGN", decimal.Zero)
	userID := uuid.New()

	t.Run("create appends exactly one pending event", func(t *testing.T) {
		product := seedProduct(t, db, 5)
		order := placeOrder(ctx, t, svc, userID, product, 2)

		require.Equal(t, models.StatusPending, order.Status)
		require.EqualValues(t, 1, countEvents(t, db, order.ID, nil))
		require.EqualValues(t, 1, countEvents(t, db, order.ID, &order.Status))
		require.Equal(t, 3, reloadStock(t, db, product.ID))
	})

	t.Run("transition appends exactly one event and sets paid_at", func(t *testing.T) {
		product := seedProduct(t, db, 5)
		order := placeOrder(ctx, t, svc, userID, product, 1)

		paid, err := svc.Transition(ctx, order.ID, TransitionInput{
			Next:        models.StatusPaid,
			Description: "Payment confirmed",
		})
		require.NoError(t, err)
		require.Equal(t, models.StatusPaid, paid.Status)
		require.NotNil(t, paid.PaidAt)

		require.EqualValues(t, 2, countEvents(t, db, order.ID, nil))
		paidStatus := models.StatusPaid
		require.EqualValues(t, 1, countEvents(t, db, order.ID, &paidStatus))

		var row models.Order
		require.NoError(t, db.First(&row, "id = ?", order.ID).Error)
		require.Equal(t, 1, row.Version)
	})

	t.Run("refund is reachable before payment", func(t *testing.T) {
		product := seedProduct(t, db, 5)
		order := placeOrder(ctx, t, svc, userID, product, 1)

		refunded, err := svc.Transition(ctx, order.ID, TransitionInput{
			Next:        models.StatusRefunded,
			Description: "Order refunded",
		})
		require.NoError(t, err)
		require.Equal(t, models.StatusRefunded, refunded.Status)
	})

	t.Run("second cancel conflicts and appends no second event", func(t *testing.T) {
		product := seedProduct(t, db, 5)
		order := placeOrder(ctx, t, svc, userID, product, 2)

		cancelled, err := svc.Cancel(ctx, userID, order.ID, "changed my mind")
		require.NoError(t, err)
		require.Equal(t, models.StatusCancelled, cancelled.Status)
		require.Equal(t, 5, reloadStock(t, db, product.ID))

		_, err = svc.Cancel(ctx, userID, order.ID, "again")
		var notCancellable *NotCancellableError
		require.ErrorAs(t, err, &notCancellable)
		require.Equal(t, models.StatusCancelled, notCancellable.Status)

		cancelledStatus := models.StatusCancelled
		require.EqualValues(t, 1, countEvents(t, db, order.ID, &cancelledStatus))
		require.EqualValues(t, 2, countEvents(t, db, order.ID, nil))
		require.Equal(t, 5, reloadStock(t, db, product.ID))
	})

	t.Run("denied cancel leaves status and events untouched", func(t *testing.T) {
		product := seedProduct(t, db, 5)
		order := placeOrder(ctx, t, svc, userID, product, 1)

		for _, next := range []models.OrderStatus{models.StatusPaid, models.StatusProcessing} {
			_, err := svc.Transition(ctx, order.ID, TransitionInput{Next: next})
			require.NoError(t, err)
		}
		before := countEvents(t, db, order.ID, nil)

		_, err := svc.Cancel(ctx, userID, order.ID, "too late")
		var notCancellable *NotCancellableError
		require.ErrorAs(t, err, &notCancellable)

		var row models.Order
		require.NoError(t, db.First(&row, "id = ?", order.ID).Error)
		require.Equal(t, models.StatusProcessing, row.Status)
		require.Equal(t, before, countEvents(t, db, order.ID, nil))
		require.Equal(t, 4, reloadStock(t, db, product.ID))
	})
}

func startPostgres(ctx context.Context, t *testing.T) (testcontainers.Container, string) {
	t.Helper()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16",
		Env:          map[string]string{"POSTGRES_PASSWORD": "postgres", "POSTGRES_USER": "postgres", "POSTGRES_DB": "orders"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(30 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	mappedPort, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	dsn := fmt.Sprintf("postgres://postgres:postgres@%s:%s/orders?sslmode=disable", host, mappedPort.Port())
	return container, dsn
}

func seedProduct(t *testing.T, db *gorm.DB, stock int) models.Product {
	t.Helper()

	product := models.Product{
		Name:     "ClimaCool Split 12000 BTU",
		Slug:     "climacool-split-" + uuid.NewString(),
		Price:    decimal.NewFromFloat(599.99),
		Stock:    stock,
		IsActive: true,
	}
	require.NoError(t, db.Create(&product).Error)
	return product
}

func placeOrder(ctx context.Context, t *testing.T, svc *Service, userID uuid.UUID, product models.Product, quantity int) *models.Order {
	t.Helper()

	order, err := svc.Create(ctx, userID, CreateInput{
		Items:         []CheckoutItem{{ProductID: product.ID, Quantity: quantity}},
		CustomerEmail: "buyer@example.com",
		ShippingAddr: models.Address{
			FirstName:    "Mira",
			LastName:     "Petrova",
			AddressLine1: "12 Vitosha Blvd",
			City:         "Sofia",
			PostalCode:   "1000",
			Country:      "BG",
		},
		PaymentMethod:  models.PaymentBank,
		ShippingMethod: models.ShippingMethods()[0],
	})
	require.NoError(t, err)
	return order
}

func countEvents(t *testing.T, db *gorm.DB, orderID uuid.UUID, status *models.OrderStatus) int64 {
	t.Helper()

	query := db.Model(&models.OrderEvent{}).Where("order_id = ?", orderID)
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	var count int64
	require.NoError(t, query.Count(&count).Error)
	return count
}

func reloadStock(t *testing.T, db *gorm.DB, productID uuid.UUID) int {
	t.Helper()

	var product models.Product
	require.NoError(t, db.First(&product, "id = ?", productID).Error)
	return product.Stock
}
