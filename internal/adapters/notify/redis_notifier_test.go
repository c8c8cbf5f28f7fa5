package notify

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"ewaste-collection-service/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func testNotifier(t *testing.T) (*RedisNotifier, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisNotifier(client), srv
}

func TestNotifyWritesInboxEntry(t *testing.T) {
	n, srv := testNotifier(t)

	msg := domain.Notification{
		RecipientID: "user-1",
		Title:       "Pickup scheduled",
		Message:     "Your e-waste pickup has been scheduled.",
		Type:        "cluster_scheduled",
		RelatedData: map[string]string{"cluster_id": "c1"},
		CreatedAt:   time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	if err := n.Notify(context.Background(), msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries, err := srv.List("notifications:user-1")
	if err != nil {
		t.Fatalf("read list: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("inbox entries = %d, want 1", len(entries))
	}

	inbox, err := n.Inbox(context.Background(), "user-1", 10)
	if err != nil {
		t.Fatalf("inbox: %v", err)
	}
	if len(inbox) != 1 {
		t.Fatalf("inbox = %d entries, want 1", len(inbox))
	}
	got := inbox[0]
	if got.Title != msg.Title || got.Type != msg.Type || got.RelatedData["cluster_id"] != "c1" {
		t.Fatalf("round-tripped notification differs: %+v", got)
	}

	if ttl := srv.TTL("notifications:user-1"); ttl <= 0 {
		t.Fatalf("inbox TTL = %v, want positive", ttl)
	}
}

func TestNotifyNewestFirstAndTrimmed(t *testing.T) {
	n, _ := testNotifier(t)

	for i := 0; i < inboxMaxLen+20; i++ {
		msg := domain.Notification{
			RecipientID: "user-1",
			Title:       fmt.Sprintf("update %d", i),
			Type:        "cluster_ready",
			CreatedAt:   time.Now(),
		}
		if err := n.Notify(context.Background(), msg); err != nil {
			t.Fatalf("notify %d: %v", i, err)
		}
	}

	inbox, err := n.Inbox(context.Background(), "user-1", int64(inboxMaxLen)+50)
	if err != nil {
		t.Fatalf("inbox: %v", err)
	}
	if len(inbox) != inboxMaxLen {
		t.Fatalf("inbox = %d entries, want trimmed to %d", len(inbox), inboxMaxLen)
	}
	if inbox[0].Title != fmt.Sprintf("update %d", inboxMaxLen+19) {
		t.Fatalf("newest entry = %q, want the last sent", inbox[0].Title)
	}
}

func TestNotifyRejectsEmptyRecipient(t *testing.T) {
	n, _ := testNotifier(t)
	err := n.Notify(context.Background(), domain.Notification{Title: "orphan"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("error = %v, want ErrValidation", err)
	}
}
