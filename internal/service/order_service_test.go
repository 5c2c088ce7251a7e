package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webstaxinc/agra-sweets/internal/models"
	"github.com/webstaxinc/agra-sweets/internal/store"
	"github.com/webstaxinc/agra-sweets/internal/util"
)

var checkout = CheckoutRequest{
	CustomerName:    "Rahul",
	CustomerPhone:   "9876543210",
	CustomerAddress: "Flat 302",
	TimeSlot:        models.TimeSlotEvening,
}

func TestCreateOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.login(t, "customer@example.com")

	_, err := env.sf.AddToCart(ctx, "c1", "p1", 2)
	require.NoError(t, err)
	_, err = env.sf.AddToCart(ctx, "c1", "p2", 1)
	require.NoError(t, err)

	before, err := env.sf.GetCartDetails(ctx)
	require.NoError(t, err)
	prior, err := env.sf.GetAllOrders(ctx)
	require.NoError(t, err)

	order, err := env.sf.CreateOrder(ctx, checkout)
	require.NoError(t, err)

	assert.Equal(t, "id-1", order.ID)
	assert.Equal(t, user.ID, order.CustomerID)
	assert.Equal(t, "c1", order.CommunityID)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, testNow, order.CreatedAt)
	assert.Equal(t, models.TimeSlotEvening, order.TimeSlot)
	assert.Equal(t, before.Subtotal, order.Subtotal)
	assert.Equal(t, before.DeliveryFee, order.DeliveryFee)
	assert.Equal(t, before.Total, order.Total)
	assert.Equal(t, 420.0, order.Total)
	assert.Equal(t, []models.OrderItem{
		{ProductID: "p1", Name: "Petha", Price: 50, Quantity: 2},
		{ProductID: "p2", Name: "Kaju Katli", Price: 300, Quantity: 1},
	}, order.Items)

	cart, err := env.sf.GetCart(ctx)
	require.NoError(t, err)
	assert.Nil(t, cart.CommunityID)
	assert.Empty(t, cart.Items)

	orders, err := env.sf.GetAllOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, len(prior)+1)
	assert.Equal(t, *order, orders[0])
	assert.Equal(t, prior, orders[1:])

	require.Len(t, env.pub.placed, 1)
	assert.Equal(t, order.ID, env.pub.placed[0].OrderID)
	assert.Equal(t, models.EventTypeOrderPlaced, env.pub.placed[0].EventType)
}

func TestCreateOrderSnapshotsProducts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.login(t, "customer@example.com")

	_, err := env.sf.AddToCart(ctx, "c1", "p1", 1)
	require.NoError(t, err)
	order, err := env.sf.CreateOrder(ctx, checkout)
	require.NoError(t, err)

	name := "Renamed"
	price := 999.0
	_, err = env.sf.UpdateProduct(ctx, "p1", ProductUpdate{Name: &name, Price: &price})
	require.NoError(t, err)

	stored, err := env.sf.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "Petha", stored.Items[0].Name)
	assert.Equal(t, 50.0, stored.Items[0].Price)
}

func TestCreateOrderInvalidState(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, env *testEnv)
	}{
		{
			name:  "empty cart",
			setup: func(t *testing.T, env *testEnv) { env.login(t, "customer@example.com") },
		},
		{
			name: "no session",
			setup: func(t *testing.T, env *testEnv) {
				_, err := env.sf.AddToCart(context.Background(), "c1", "p1", 1)
				require.NoError(t, err)
			},
		},
		{
			name: "unknown community",
			setup: func(t *testing.T, env *testEnv) {
				env.login(t, "customer@example.com")
				_, err := env.sf.AddToCart(context.Background(), "nowhere", "p1", 1)
				require.NoError(t, err)
			},
		},
		{
			name: "only vanished products",
			setup: func(t *testing.T, env *testEnv) {
				env.login(t, "customer@example.com")
				_, err := env.sf.AddToCart(context.Background(), "c1", "ghost", 1)
				require.NoError(t, err)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			ctx := context.Background()
			tt.setup(t, env)

			order, err := env.sf.CreateOrder(ctx, checkout)
			assert.Nil(t, order)
			assert.ErrorIs(t, err, ErrInvalidState)

			_, err = env.kv.Get(ctx, store.KeyOrders)
			assert.ErrorIs(t, err, store.ErrKeyNotFound, "order list must stay untouched")
			assert.Empty(t, env.pub.placed)
		})
	}
}

func TestCreateOrderRejectsUnknownTimeSlot(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.login(t, "customer@example.com")
	_, err := env.sf.AddToCart(ctx, "c1", "p1", 1)
	require.NoError(t, err)

	req := checkout
	req.TimeSlot = "midnight"
	_, err = env.sf.CreateOrder(ctx, req)
	assert.ErrorIs(t, err, ErrInvalidState)

	cart, err := env.sf.GetCart(ctx)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)
}

func TestCreateOrderPublishFailureDoesNotFail(t *testing.T) {
	env := newTestEnv(t)
	env.pub.err = errors.New("broker down")
	ctx := context.Background()
	env.login(t, "customer@example.com")
	_, err := env.sf.AddToCart(ctx, "c1", "p1", 1)
	require.NoError(t, err)

	order, err := env.sf.CreateOrder(ctx, checkout)
	require.NoError(t, err)
	assert.NotNil(t, order)
}

func TestGetAllOrdersSeedFallbackNotPersisted(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	orders, err := env.sf.GetAllOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "o-seed", orders[0].ID)

	_, err = env.kv.Get(ctx, store.KeyOrders)
	assert.ErrorIs(t, err, store.ErrKeyNotFound)
}

func TestGetAllOrdersMalformedFallsBack(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	require.NoError(t, env.kv.Set(ctx, store.KeyOrders, []byte(`{"broken":`)))

	orders, err := env.sf.GetAllOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "o-seed", orders[0].ID)
}

func TestGetOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	order, err := env.sf.GetOrder(ctx, "o-seed")
	require.NoError(t, err)
	assert.Equal(t, 70.0, order.Total)

	_, err = env.sf.GetOrder(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateOrderStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	order, err := env.sf.UpdateOrderStatus(ctx, "o-seed", models.OrderStatusOutForDelivery)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusOutForDelivery, order.Status)

	order, err = env.sf.UpdateOrderStatus(ctx, "o-seed", models.OrderStatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusDelivered, order.Status)

	stored, err := env.sf.GetOrder(ctx, "o-seed")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusDelivered, stored.Status)

	require.Len(t, env.pub.changed, 2)
	assert.Equal(t, models.OrderStatusPending, env.pub.changed[0].From)
	assert.Equal(t, models.OrderStatusDelivered, env.pub.changed[1].To)
}

func TestUpdateOrderStatusUnknownID(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	before, err := env.sf.GetAllOrders(ctx)
	require.NoError(t, err)

	order, err := env.sf.UpdateOrderStatus(ctx, "unknown", models.OrderStatusDelivered)
	assert.Nil(t, order)
	assert.ErrorIs(t, err, ErrNotFound)

	after, err := env.sf.GetAllOrders(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Empty(t, env.pub.changed)
}

func TestUpdateOrderStatusRejectsIllegalTransitions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.sf.UpdateOrderStatus(ctx, "o-seed", models.OrderStatusDelivered)
	assert.ErrorIs(t, err, ErrInvalidTransition, "skipping out-for-delivery")

	_, err = env.sf.UpdateOrderStatus(ctx, "o-seed", models.OrderStatusPending)
	assert.ErrorIs(t, err, ErrInvalidTransition, "same status")

	_, err = env.sf.UpdateOrderStatus(ctx, "o-seed", "cancelled")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	order, err := env.sf.GetOrder(ctx, "o-seed")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, order.Status)

	_, err = env.sf.UpdateOrderStatus(ctx, "o-seed", models.OrderStatusOutForDelivery)
	require.NoError(t, err)
	_, err = env.sf.UpdateOrderStatus(ctx, "o-seed", models.OrderStatusPending)
	assert.ErrorIs(t, err, ErrInvalidTransition, "going backwards")
}

func TestAdvanceOrderStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	order, err := env.sf.AdvanceOrderStatus(ctx, "o-seed")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusOutForDelivery, order.Status)

	order, err = env.sf.AdvanceOrderStatus(ctx, "o-seed")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusDelivered, order.Status)

	_, err = env.sf.AdvanceOrderStatus(ctx, "o-seed")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = env.sf.AdvanceOrderStatus(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateOrderStatusDoesNotMutateSeed(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.sf.UpdateOrderStatus(ctx, "o-seed", models.OrderStatusOutForDelivery)
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusPending, env.sf.data.Orders[0].Status)
}

func TestOrdersForCustomer(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.login(t, "admin@sweetshop.com")

	_, err := env.sf.AddToCart(ctx, "c2", "p2", 1)
	require.NoError(t, err)
	_, err = env.sf.CreateOrder(ctx, checkout)
	require.NoError(t, err)

	mine, err := env.sf.OrdersForCustomer(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, 335.0, mine[0].Total)

	theirs, err := env.sf.OrdersForCustomer(ctx, "u2")
	require.NoError(t, err)
	require.Len(t, theirs, 1)
	assert.Equal(t, "o-seed", theirs[0].ID)

	none, err := env.sf.OrdersForCustomer(ctx, "u9")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestInitializeStorage(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.kv.Set(ctx, store.KeyProducts, []byte(`[]`)))
	require.NoError(t, env.sf.InitializeStorage(ctx))

	raw, err := env.kv.Get(ctx, store.KeyOrders)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "o-seed")

	raw, err = env.kv.Get(ctx, store.KeyProducts)
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(raw), "existing value must not be overwritten")

	// second run is a no-op
	_, err = env.sf.UpdateOrderStatus(ctx, "o-seed", models.OrderStatusOutForDelivery)
	require.NoError(t, err)
	require.NoError(t, env.sf.InitializeStorage(ctx))
	order, err := env.sf.GetOrder(ctx, "o-seed")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusOutForDelivery, order.Status)
}

func TestInitializeStorageBackendError(t *testing.T) {
	sf := NewStorefront(failingKV{}, testDataset())
	assert.ErrorIs(t, sf.InitializeStorage(context.Background()), errBackend)
}

// blockingPublisher parks every publish until release is closed
type blockingPublisher struct {
	entered chan struct{}
	release chan struct{}
}

func newBlockingPublisher() *blockingPublisher {
	return &blockingPublisher{entered: make(chan struct{}, 4), release: make(chan struct{})}
}

func (p *blockingPublisher) wait(ctx context.Context) error {
	p.entered <- struct{}{}
	select {
	case <-p.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *blockingPublisher) PublishOrderPlaced(ctx context.Context, _ *models.OrderPlacedEvent) error {
	return p.wait(ctx)
}

func (p *blockingPublisher) PublishOrderStatusChanged(ctx context.Context, _ *models.OrderStatusChangedEvent) error {
	return p.wait(ctx)
}

// requireReturns fails when fn does not finish while a publish is parked
func requireReturns(t *testing.T, fn func() error) {
	t.Helper()
	done := make(chan error, 1)
	go func() { done <- fn() }()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("call blocked while an order event publish was in flight")
	}
}

func TestSlowPublisherDoesNotBlockStorefront(t *testing.T) {
	pub := newBlockingPublisher()
	defer close(pub.release)

	sf := NewStorefront(store.NewMemoryKV(), testDataset(), WithEventPublisher(pub))
	ctx := context.Background()

	_, err := sf.Login(ctx, "customer@example.com", "")
	require.NoError(t, err)
	_, err = sf.AddToCart(ctx, "c1", "p1", 1)
	require.NoError(t, err)

	placed := make(chan error, 1)
	go func() {
		_, err := sf.CreateOrder(ctx, checkout)
		placed <- err
	}()
	<-pub.entered

	requireReturns(t, func() error {
		_, err := sf.GetCart(ctx)
		return err
	})
	requireReturns(t, func() error {
		_, err := sf.CurrentUser(ctx)
		return err
	})

	advanced := make(chan error, 1)
	go func() {
		_, err := sf.AdvanceOrderStatus(ctx, "o-seed")
		advanced <- err
	}()
	<-pub.entered

	requireReturns(t, func() error {
		_, err := sf.GetAllOrders(ctx)
		return err
	})

	pub.release <- struct{}{}
	pub.release <- struct{}{}
	require.NoError(t, <-placed)
	require.NoError(t, <-advanced)
}

func TestUpdateOrderStatusUnknownStatusLabelIsFixed(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	invalid := util.OrderStatusUpdatesTotal.WithLabelValues("invalid", "unknown_status")

	_, err := env.sf.UpdateOrderStatus(ctx, "o-seed", "shipped")
	require.ErrorIs(t, err, ErrInvalidStatus)

	series := testutil.CollectAndCount(util.OrderStatusUpdatesTotal)
	before := testutil.ToFloat64(invalid)

	_, err = env.sf.UpdateOrderStatus(ctx, "o-seed", "lost-in-transit")
	require.ErrorIs(t, err, ErrInvalidStatus)

	assert.Equal(t, series, testutil.CollectAndCount(util.OrderStatusUpdatesTotal))
	assert.Equal(t, before+1, testutil.ToFloat64(invalid))
}
