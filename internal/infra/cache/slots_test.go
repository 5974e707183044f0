package cache

import (
	"context"
	"testing"
	"time"
)

func TestSlotKey(t *testing.T) {
	loc, _ := time.LoadLocation("America/Sao_Paulo")
	day := time.Date(2025, 6, 1, 0, 0, 0, 0, loc)

	if got := SlotKey(7, day, 3); got != "slots:7:2025-06-01:g3" {
		t.Errorf("unexpected key %q", got)
	}
	if got := GenKey(7, day); got != "slots:gen:7:2025-06-01" {
		t.Errorf("unexpected generation key %q", got)
	}
}

func TestNopSlotCache(t *testing.T) {
	var c NopSlotCache
	ctx := context.Background()

	if err := c.Set(ctx, 1, time.Now(), 0, nil); err != nil {
		t.Fatal(err)
	}
	if _, _, ok, err := c.Get(ctx, 1, time.Now()); ok || err != nil {
		t.Errorf("nop cache must miss, got ok=%v err=%v", ok, err)
	}
}
