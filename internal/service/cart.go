package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/webstaxinc/agra-sweets/internal/models"
	"github.com/webstaxinc/agra-sweets/internal/store"
	"github.com/webstaxinc/agra-sweets/internal/util"
)

// GetCart returns the stored cart, or an empty cart when none is stored
func (s *Storefront) GetCart(ctx context.Context) (models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadCart(ctx)
}

// AddToCart adds quantity of productID to the cart for communityID.
// A cart holding another community's items is emptied first.
func (s *Storefront) AddToCart(ctx context.Context, communityID, productID string, quantity int) (models.Cart, error) {
	ctx, span := util.StartSpan(ctx, "Storefront.AddToCart")
	defer span.End()

	if quantity <= 0 {
		return models.Cart{}, fmt.Errorf("%w: got %d", ErrInvalidQuantity, quantity)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cart, err := s.loadCart(ctx)
	if err != nil {
		return models.Cart{}, err
	}

	if cart.CommunityID != nil && *cart.CommunityID != communityID {
		s.logger.Info("Community switch, clearing cart",
			zap.String("from", *cart.CommunityID),
			zap.String("to", communityID),
			zap.Int("dropped_items", len(cart.Items)))
		util.CartCommunitySwitchesTotal.Inc()
		cart = models.EmptyCart()
	}

	cart.CommunityID = &communityID

	if i := indexOfItem(cart.Items, productID); i >= 0 {
		cart.Items[i].Quantity += quantity
	} else {
		cart.Items = append(cart.Items, models.CartItem{ProductID: productID, Quantity: quantity})
	}

	if err := s.save(ctx, store.KeyCart, cart); err != nil {
		return models.Cart{}, err
	}

	util.CartMutationsTotal.WithLabelValues("add").Inc()
	return cart, nil
}

// UpdateCartItemQuantity sets the quantity of productID. A quantity of zero
// or less removes the item. Products not in the cart are ignored.
func (s *Storefront) UpdateCartItemQuantity(ctx context.Context, productID string, quantity int) (models.Cart, error) {
	ctx, span := util.StartSpan(ctx, "Storefront.UpdateCartItemQuantity")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	cart, err := s.loadCart(ctx)
	if err != nil {
		return models.Cart{}, err
	}

	i := indexOfItem(cart.Items, productID)
	if i < 0 {
		return cart, nil
	}

	op := "update"
	if quantity <= 0 {
		cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
		op = "remove"
	} else {
		cart.Items[i].Quantity = quantity
	}

	if err := s.save(ctx, store.KeyCart, cart); err != nil {
		return models.Cart{}, err
	}

	util.CartMutationsTotal.WithLabelValues(op).Inc()
	return cart, nil
}

// RemoveFromCart removes productID from the cart if present
func (s *Storefront) RemoveFromCart(ctx context.Context, productID string) (models.Cart, error) {
	ctx, span := util.StartSpan(ctx, "Storefront.RemoveFromCart")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	cart, err := s.loadCart(ctx)
	if err != nil {
		return models.Cart{}, err
	}

	i := indexOfItem(cart.Items, productID)
	if i < 0 {
		return cart, nil
	}
	cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)

	if err := s.save(ctx, store.KeyCart, cart); err != nil {
		return models.Cart{}, err
	}

	util.CartMutationsTotal.WithLabelValues("remove").Inc()
	return cart, nil
}

// ClearCart resets the cart to no community and no items
func (s *Storefront) ClearCart(ctx context.Context) error {
	ctx, span := util.StartSpan(ctx, "Storefront.ClearCart")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.save(ctx, store.KeyCart, models.EmptyCart()); err != nil {
		return err
	}
	util.CartMutationsTotal.WithLabelValues("clear").Inc()
	return nil
}

// GetCartDetails resolves the cart against the live catalog and computes totals.
// All price displays and checkout read from here.
func (s *Storefront) GetCartDetails(ctx context.Context) (models.CartDetails, error) {
	ctx, span := util.StartSpan(ctx, "Storefront.GetCartDetails")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cartDetails(ctx)
}

func (s *Storefront) loadCart(ctx context.Context) (models.Cart, error) {
	var cart models.Cart
	found, err := s.load(ctx, store.KeyCart, &cart)
	if err != nil {
		return models.Cart{}, err
	}
	if !found {
		return models.EmptyCart(), nil
	}
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}
	return cart, nil
}

func (s *Storefront) cartDetails(ctx context.Context) (models.CartDetails, error) {
	empty := models.CartDetails{Items: []models.CartLine{}}

	cart, err := s.loadCart(ctx)
	if err != nil {
		return empty, err
	}
	if cart.CommunityID == nil || *cart.CommunityID == "" || len(cart.Items) == 0 {
		return empty, nil
	}

	products, err := s.loadProducts(ctx)
	if err != nil {
		return empty, err
	}
	byID := make(map[string]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	details := models.CartDetails{Items: make([]models.CartLine, 0, len(cart.Items))}
	for _, item := range cart.Items {
		product, ok := byID[item.ProductID]
		if !ok {
			continue
		}
		line := models.CartLine{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Product:   product,
			Total:     product.Price * float64(item.Quantity),
		}
		details.Items = append(details.Items, line)
		details.Subtotal += line.Total
	}

	if community, ok := s.data.FindCommunity(*cart.CommunityID); ok {
		details.Community = &community
		details.DeliveryFee = community.DeliveryFee
	}
	details.Total = details.Subtotal + details.DeliveryFee

	return details, nil
}

func indexOfItem(items []models.CartItem, productID string) int {
	for i, item := range items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}
