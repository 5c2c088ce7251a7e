package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/webstaxinc/agra-sweets/internal/models"
	"github.com/webstaxinc/agra-sweets/internal/store"
	"github.com/webstaxinc/agra-sweets/internal/util"
)

// Login starts a session for the seeded user with the given email.
// The password is not checked.
func (s *Storefront) Login(ctx context.Context, email, password string) (*models.User, error) {
	ctx, span := util.StartSpan(ctx, "Storefront.Login")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.data.FindUserByEmail(email)
	if !ok {
		util.LoginsTotal.WithLabelValues("unknown_email").Inc()
		return nil, fmt.Errorf("%w: no user with email %s", ErrNotFound, email)
	}

	if err := s.save(ctx, store.KeyCurrentUser, user); err != nil {
		return nil, err
	}

	util.LoginsTotal.WithLabelValues("success").Inc()
	s.logger.Info("User logged in",
		zap.String("user_id", user.ID),
		zap.String("role", string(user.Role)))
	return &user, nil
}

// Logout clears the current session. It is a no-op without one.
func (s *Storefront) Logout(ctx context.Context) error {
	ctx, span := util.StartSpan(ctx, "Storefront.Logout")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Delete(ctx, store.KeyCurrentUser); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// CurrentUser returns the session user, or nil when there is none
func (s *Storefront) CurrentUser(ctx context.Context) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.currentUser(ctx)
}

func (s *Storefront) currentUser(ctx context.Context) (*models.User, error) {
	var user models.User
	found, err := s.load(ctx, store.KeyCurrentUser, &user)
	if err != nil || !found {
		return nil, err
	}
	return &user, nil
}
