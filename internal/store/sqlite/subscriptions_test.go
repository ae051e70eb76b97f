package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/foodgramapp/foodgram-server/internal/domain"
	"github.com/foodgramapp/foodgram-server/internal/store"
)

func TestSubscriptions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	ann := mustCreateUser(t, s, "ann")
	bob := mustCreateUser(t, s, "bob")
	carl := mustCreateUser(t, s, "carl")

	if err := s.CreateSubscription(ctx, &domain.Subscription{SubscriberID: ann.ID, AuthorID: bob.ID}); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if err := s.CreateSubscription(ctx, &domain.Subscription{SubscriberID: ann.ID, AuthorID: bob.ID}); !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("duplicate: expected ErrAlreadyExists, got %v", err)
	}
	if err := s.CreateSubscription(ctx, &domain.Subscription{SubscriberID: ann.ID, AuthorID: carl.ID}); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	res, err := s.ListSubscribedAuthors(ctx, ann.ID, store.Page{Number: 1, Size: 10})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if res.Total != 2 || res.Items[0].Username != "carl" || res.Items[1].Username != "bob" {
		t.Errorf("unexpected authors: %d", res.Total)
	}

	followed, err := s.SubscribedAuthorIDs(ctx, ann.ID, []int64{bob.ID, carl.ID, ann.ID})
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if !followed[bob.ID] || !followed[carl.ID] || followed[ann.ID] {
		t.Errorf("unexpected lookup: %v", followed)
	}

	if err := s.DeleteSubscription(ctx, ann.ID, bob.ID); err != nil {
		t.Fatalf("unsubscribe: %v", err)
	}
	if err := s.DeleteSubscription(ctx, ann.ID, bob.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("second unsubscribe: expected ErrNotFound, got %v", err)
	}
}

func TestSubscriptions_CheckRejectsSelf(t *testing.T) {
	s := newTestStore(t)
	ann := mustCreateUser(t, s, "ann")
	err := s.CreateSubscription(context.Background(), &domain.Subscription{SubscriberID: ann.ID, AuthorID: ann.ID})
	if !errors.Is(err, store.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSubscriptions_UnknownAuthor(t *testing.T) {
	s := newTestStore(t)
	ann := mustCreateUser(t, s, "ann")
	err := s.CreateSubscription(context.Background(), &domain.Subscription{SubscriberID: ann.ID, AuthorID: 404})
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
