package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/webstaxinc/agra-sweets/internal/models"
	"github.com/webstaxinc/agra-sweets/internal/seed"
	"github.com/webstaxinc/agra-sweets/internal/store"
)

var testNow = time.Date(2024, time.June, 12, 15, 0, 0, 0, time.UTC) // a Wednesday

func testDataset() *seed.Dataset {
	return &seed.Dataset{
		Communities: []models.Community{
			{ID: "c1", Name: "Green Valley", DeliveryFee: 20},
			{ID: "c2", Name: "Taj View", DeliveryFee: 35},
		},
		Products: []models.Product{
			{ID: "p1", Name: "Petha", Description: "Ash gourd sweet", Price: 50, Category: "Petha", InStock: true},
			{ID: "p2", Name: "Kaju Katli", Description: "Cashew fudge", Price: 300, Category: "Barfi", InStock: true},
			{ID: "p3", Name: "Dalmoth", Description: "Spicy namkeen", Price: 80, Category: "Namkeen", InStock: false},
		},
		Orders: []models.Order{
			{ID: "o-seed", CustomerID: "u2", CustomerName: "Seed Customer", CommunityID: "c1",
				Items:    []models.OrderItem{{ProductID: "p1", Name: "Petha", Price: 50, Quantity: 1}},
				Subtotal: 50, DeliveryFee: 20, Total: 70, Status: models.OrderStatusPending,
				TimeSlot: models.TimeSlotMorning, CreatedAt: testNow.Add(-48 * time.Hour)},
		},
		Users: []models.User{
			{ID: "u1", Name: "Admin", Email: "admin@sweetshop.com", Role: models.RoleAdmin},
			{ID: "u2", Name: "Customer", Email: "customer@example.com", Role: models.RoleCustomer},
		},
	}
}

type recordingPublisher struct {
	placed  []*models.OrderPlacedEvent
	changed []*models.OrderStatusChangedEvent
	err     error
}

func (p *recordingPublisher) PublishOrderPlaced(_ context.Context, e *models.OrderPlacedEvent) error {
	p.placed = append(p.placed, e)
	return p.err
}

func (p *recordingPublisher) PublishOrderStatusChanged(_ context.Context, e *models.OrderStatusChangedEvent) error {
	p.changed = append(p.changed, e)
	return p.err
}

type testEnv struct {
	sf  *Storefront
	kv  *store.MemoryKV
	pub *recordingPublisher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	kv := store.NewMemoryKV()
	pub := &recordingPublisher{}
	seq := 0
	sf := NewStorefront(kv, testDataset(),
		WithEventPublisher(pub),
		WithClock(func() time.Time { return testNow }),
		WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("id-%d", seq)
		}),
	)
	return &testEnv{sf: sf, kv: kv, pub: pub}
}

func (e *testEnv) login(t *testing.T, email string) *models.User {
	t.Helper()
	u, err := e.sf.Login(context.Background(), email, "whatever")
	require.NoError(t, err)
	return u
}

// failingKV fails every call
type failingKV struct{}

var errBackend = errors.New("backend down")

func (failingKV) Get(context.Context, string) ([]byte, error) { return nil, errBackend }
func (failingKV) Set(context.Context, string, []byte) error   { return errBackend }
func (failingKV) Delete(context.Context, string) error        { return errBackend }
