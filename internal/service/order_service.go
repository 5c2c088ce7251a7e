package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/webstaxinc/agra-sweets/internal/models"
	"github.com/webstaxinc/agra-sweets/internal/statemachine"
	"github.com/webstaxinc/agra-sweets/internal/store"
	"github.com/webstaxinc/agra-sweets/internal/util"
)

// CheckoutRequest carries the delivery details entered at checkout
type CheckoutRequest struct {
	CustomerName    string          `json:"customerName" binding:"required"`
	CustomerPhone   string          `json:"customerPhone" binding:"required"`
	CustomerAddress string          `json:"customerAddress" binding:"required"`
	TimeSlot        models.TimeSlot `json:"timeSlot" binding:"required,oneof=morning evening"`
}

// CreateOrder turns the current cart into a pending order and clears the cart.
// It needs an active session, a resolved community and at least one item.
func (s *Storefront) CreateOrder(ctx context.Context, req CheckoutRequest) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "Storefront.CreateOrder")
	defer span.End()

	if !req.TimeSlot.Valid() {
		util.OrdersRejectedTotal.WithLabelValues("time_slot").Inc()
		return nil, fmt.Errorf("%w: unknown time slot %q", ErrInvalidState, req.TimeSlot)
	}

	order, err := s.placeOrder(ctx, req)
	if err != nil {
		return nil, err
	}

	// Published after mu is released; the producer may block on the broker.
	s.publishOrderPlaced(ctx, order)

	return order, nil
}

func (s *Storefront) placeOrder(ctx context.Context, req CheckoutRequest) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	if user == nil {
		util.OrdersRejectedTotal.WithLabelValues("no_session").Inc()
		return nil, fmt.Errorf("%w: no active session", ErrInvalidState)
	}

	details, err := s.cartDetails(ctx)
	if err != nil {
		return nil, err
	}
	if details.Community == nil {
		util.OrdersRejectedTotal.WithLabelValues("no_community").Inc()
		return nil, fmt.Errorf("%w: cart has no community", ErrInvalidState)
	}
	if len(details.Items) == 0 {
		util.OrdersRejectedTotal.WithLabelValues("empty_cart").Inc()
		return nil, fmt.Errorf("%w: cart is empty", ErrInvalidState)
	}

	items := make([]models.OrderItem, 0, len(details.Items))
	for _, line := range details.Items {
		items = append(items, models.OrderItem{
			ProductID: line.Product.ID,
			Name:      line.Product.Name,
			Price:     line.Product.Price,
			Quantity:  line.Quantity,
		})
	}

	order := models.Order{
		ID:              s.newID(),
		CustomerID:      user.ID,
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		CustomerAddress: req.CustomerAddress,
		CommunityID:     details.Community.ID,
		Items:           items,
		TimeSlot:        req.TimeSlot,
		DeliveryFee:     details.DeliveryFee,
		Subtotal:        details.Subtotal,
		Total:           details.Total,
		Status:          models.OrderStatusPending,
		CreatedAt:       s.now(),
	}

	orders, err := s.loadOrders(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.save(ctx, store.KeyOrders, append([]models.Order{order}, orders...)); err != nil {
		util.OrdersRejectedTotal.WithLabelValues("store_error").Inc()
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	// The order is already persisted; a failed cart reset is logged, not returned.
	if err := s.save(ctx, store.KeyCart, models.EmptyCart()); err != nil {
		s.logger.Error("Failed to clear cart after checkout",
			zap.String("order_id", order.ID),
			zap.Error(err))
	}

	util.OrdersCreatedTotal.Inc()
	util.OrderRevenueTotal.Add(order.Total)
	s.logger.Info("Order created",
		zap.String("order_id", order.ID),
		zap.String("customer_id", order.CustomerID),
		zap.Float64("total", order.Total))

	return &order, nil
}

// UpdateOrderStatus moves an order to status. Only the next lifecycle step is accepted.
func (s *Storefront) UpdateOrderStatus(ctx context.Context, orderID string, status models.OrderStatus) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "Storefront.UpdateOrderStatus")
	defer span.End()

	if !statemachine.IsKnown(status) {
		util.OrderStatusUpdatesTotal.WithLabelValues("invalid", "unknown_status").Inc()
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	return s.transition(ctx, orderID, func(models.OrderStatus) (models.OrderStatus, error) {
		return status, nil
	})
}

// AdvanceOrderStatus moves an order to the status after its current one
func (s *Storefront) AdvanceOrderStatus(ctx context.Context, orderID string) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "Storefront.AdvanceOrderStatus")
	defer span.End()

	return s.transition(ctx, orderID, func(current models.OrderStatus) (models.OrderStatus, error) {
		next, ok := statemachine.Next(current)
		if !ok {
			return "", fmt.Errorf("%w: order %s is %s", ErrInvalidTransition, orderID, current)
		}
		return next, nil
	})
}

func (s *Storefront) transition(
	ctx context.Context,
	orderID string,
	target func(current models.OrderStatus) (models.OrderStatus, error),
) (*models.Order, error) {
	updated, from, err := s.applyTransition(ctx, orderID, target)
	if err != nil {
		return nil, err
	}

	s.publishStatusChanged(ctx, updated, from)

	return updated, nil
}

// applyTransition holds mu for the read-modify-write of the orders key
func (s *Storefront) applyTransition(
	ctx context.Context,
	orderID string,
	target func(current models.OrderStatus) (models.OrderStatus, error),
) (*models.Order, models.OrderStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders, err := s.loadOrders(ctx)
	if err != nil {
		return nil, "", err
	}

	i := indexOfOrder(orders, orderID)
	if i < 0 {
		util.OrderStatusUpdatesTotal.WithLabelValues("", "not_found").Inc()
		return nil, "", fmt.Errorf("%w: order %s", ErrNotFound, orderID)
	}

	from := orders[i].Status
	to, err := target(from)
	if err != nil {
		util.OrderStatusUpdatesTotal.WithLabelValues("", "rejected").Inc()
		return nil, "", err
	}
	if err := statemachine.CanTransition(from, to); err != nil {
		util.OrderStatusUpdatesTotal.WithLabelValues(string(to), "rejected").Inc()
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidTransition, err)
	}

	orders[i].Status = to
	if err := s.save(ctx, store.KeyOrders, orders); err != nil {
		return nil, "", fmt.Errorf("failed to update order status: %w", err)
	}

	util.OrderStatusUpdatesTotal.WithLabelValues(string(to), "ok").Inc()
	s.logger.Info("Order status updated",
		zap.String("order_id", orderID),
		zap.String("from", string(from)),
		zap.String("to", string(to)))

	updated := orders[i]
	return &updated, from, nil
}

// GetAllOrders returns all orders newest first, falling back to the seed list
// when none is stored. The fallback is not persisted.
func (s *Storefront) GetAllOrders(ctx context.Context) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadOrders(ctx)
}

// GetOrder retrieves an order by id
func (s *Storefront) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders, err := s.loadOrders(ctx)
	if err != nil {
		return nil, err
	}
	if i := indexOfOrder(orders, orderID); i >= 0 {
		return &orders[i], nil
	}
	return nil, fmt.Errorf("%w: order %s", ErrNotFound, orderID)
}

// OrdersForCustomer returns the orders placed by customerID, newest first
func (s *Storefront) OrdersForCustomer(ctx context.Context, customerID string) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders, err := s.loadOrders(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]models.Order, 0)
	for _, o := range orders {
		if o.CustomerID == customerID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *Storefront) loadOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	found, err := s.load(ctx, store.KeyOrders, &orders)
	if err != nil {
		return nil, err
	}
	if !found {
		return cloneOrders(s.data.Orders), nil
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return orders, nil
}

func (s *Storefront) publishOrderPlaced(ctx context.Context, order *models.Order) {
	if s.events == nil {
		return
	}

	items := make([]models.OrderItemData, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, models.OrderItemData{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.Price,
		})
	}

	event := &models.OrderPlacedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderPlaced,
			Timestamp: s.now(),
		},
		OrderID:      order.ID,
		CustomerID:   order.CustomerID,
		CustomerName: order.CustomerName,
		CommunityID:  order.CommunityID,
		TimeSlot:     order.TimeSlot,
		Total:        order.Total,
		Items:        items,
	}

	if err := s.events.PublishOrderPlaced(ctx, event); err != nil {
		util.EventsPublishedTotal.WithLabelValues(event.EventType, "error").Inc()
		s.logger.Error("Failed to publish OrderPlaced event", zap.Error(err))
		return
	}
	util.EventsPublishedTotal.WithLabelValues(event.EventType, "ok").Inc()
}

func (s *Storefront) publishStatusChanged(ctx context.Context, order *models.Order, from models.OrderStatus) {
	if s.events == nil {
		return
	}

	event := &models.OrderStatusChangedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderStatusChanged,
			Timestamp: s.now(),
		},
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
		From:       from,
		To:         order.Status,
	}

	if err := s.events.PublishOrderStatusChanged(ctx, event); err != nil {
		util.EventsPublishedTotal.WithLabelValues(event.EventType, "error").Inc()
		s.logger.Error("Failed to publish OrderStatusChanged event", zap.Error(err))
		return
	}
	util.EventsPublishedTotal.WithLabelValues(event.EventType, "ok").Inc()
}

func indexOfOrder(orders []models.Order, id string) int {
	for i := range orders {
		if orders[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneOrders(orders []models.Order) []models.Order {
	out := make([]models.Order, len(orders))
	for i, o := range orders {
		o.Items = append([]models.OrderItem(nil), o.Items...)
		out[i] = o
	}
	return out
}
