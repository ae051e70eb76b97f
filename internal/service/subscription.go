package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/foodgramapp/foodgram-server/internal/domain"
	domainerrors "github.com/foodgramapp/foodgram-server/internal/errors"
	"github.com/foodgramapp/foodgram-server/internal/logger"
	"github.com/foodgramapp/foodgram-server/internal/metrics"
	"github.com/foodgramapp/foodgram-server/internal/store"
)

// SubscriptionService manages who follows whom.
type SubscriptionService struct {
	store  store.Store
	views  viewDecorator
	logger *slog.Logger
}

// NewSubscriptionService creates a SubscriptionService.
func NewSubscriptionService(s store.Store, logger *slog.Logger) *SubscriptionService {
	return &SubscriptionService{store: s, views: viewDecorator{store: s}, logger: logger}
}

// Subscribe makes subscriberID follow authorID and returns the author view.
// Following oneself is rejected before any uniqueness check.
func (s *SubscriptionService) Subscribe(ctx context.Context, subscriberID, authorID int64, recipesLimit int) (*AuthorView, error) {
	author, err := getUser(ctx, s.store, authorID)
	if err != nil {
		return nil, err
	}
	if subscriberID == authorID {
		return nil, domainerrors.SelfSubscription()
	}

	err = s.store.CreateSubscription(ctx, &domain.Subscription{
		SubscriberID: subscriberID,
		AuthorID:     authorID,
		CreatedAt:    now(),
	})
	switch {
	case errors.Is(err, store.ErrAlreadyExists):
		return nil, domainerrors.Conflict("you are already subscribed to this user").WithCause(err)
	case errors.Is(err, store.ErrNotFound):
		return nil, domainerrors.NotFoundf("user %d not found", authorID).WithCause(err)
	case errors.Is(err, store.ErrInvalidInput):
		return nil, domainerrors.SelfSubscription().WithCause(err)
	case err != nil:
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to subscribe")
	}

	metrics.RecordSubscription(metrics.ActionAdd)
	logger.FromContext(ctx, s.logger).Info("subscribed", "subscriber_id", subscriberID, "author_id", authorID)

	views, err := s.views.authors(ctx, []*domain.User{author}, recipesLimit)
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

// Unsubscribe removes the follow from subscriberID to authorID.
func (s *SubscriptionService) Unsubscribe(ctx context.Context, subscriberID, authorID int64) error {
	if _, err := getUser(ctx, s.store, authorID); err != nil {
		return err
	}
	if subscriberID == authorID {
		return domainerrors.SelfSubscription()
	}

	err := s.store.DeleteSubscription(ctx, subscriberID, authorID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return domainerrors.NotFound("you are not subscribed to this user").WithCause(err)
	case err != nil:
		return domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to unsubscribe")
	}

	metrics.RecordSubscription(metrics.ActionRemove)
	logger.FromContext(ctx, s.logger).Info("unsubscribed", "subscriber_id", subscriberID, "author_id", authorID)
	return nil
}

// ListSubscriptions pages through the authors subscriberID follows, most recent first.
func (s *SubscriptionService) ListSubscriptions(ctx context.Context, subscriberID int64, page store.Page, recipesLimit int) (*store.PageResult[*AuthorView], error) {
	result, err := s.store.ListSubscribedAuthors(ctx, subscriberID, page)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to list subscriptions")
	}

	return store.ConvertPage(result, func(authors []*domain.User) ([]*AuthorView, error) {
		return s.views.authors(ctx, authors, recipesLimit)
	})
}
