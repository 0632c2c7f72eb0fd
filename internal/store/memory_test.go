package store

import (
	"context"
	"fmt"
	"testing"
)

func TestMemory_Counters(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(10)

	for i := 0; i < 3; i++ {
		recorded, err := m.RecordEvent(ctx, &EventRow{DeliveryID: fmt.Sprintf("d%d", i)})
		if err != nil {
			t.Fatal(err)
		}
		if !recorded {
			t.Error("RecordEvent want recorded=true")
		}
	}
	if err := m.RecordResult(ctx, &ResultRow{PRURL: "u1", Status: "success"}); err != nil {
		t.Fatal(err)
	}

	events, err := m.EventCount(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if events != 3 {
		t.Errorf("EventCount want 3 got %d", events)
	}
	results, err := m.ResultCount(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if results != 1 {
		t.Errorf("ResultCount want 1 got %d", results)
	}
}

func TestMemory_HistoryCapDropsOldest(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(3)

	for i := 0; i < 5; i++ {
		if err := m.RecordResult(ctx, &ResultRow{PRURL: fmt.Sprintf("u%d", i)}); err != nil {
			t.Fatal(err)
		}
	}

	got, err := m.RecentResults(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("retained want 3 got %d", len(got))
	}
	if got[0].PRURL != "u2" || got[2].PRURL != "u4" {
		t.Errorf("retained want u2..u4 got %s..%s", got[0].PRURL, got[2].PRURL)
	}

	// Result counter keeps counting past the cap.
	n, err := m.ResultCount(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 5 {
		t.Errorf("ResultCount want 5 got %d", n)
	}
}

func TestMemory_RecentResultsLimit(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(10)
	for i := 0; i < 4; i++ {
		if err := m.RecordResult(ctx, &ResultRow{PRURL: fmt.Sprintf("u%d", i)}); err != nil {
			t.Fatal(err)
		}
	}

	got, err := m.RecentResults(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("want 2 got %d", len(got))
	}
	if got[0].PRURL != "u2" || got[1].PRURL != "u3" {
		t.Errorf("want last two oldest-first (u2, u3) got (%s, %s)", got[0].PRURL, got[1].PRURL)
	}
}

func TestMemory_Ping(t *testing.T) {
	if err := NewMemory(0).Ping(context.Background()); err != nil {
		t.Errorf("Ping want nil got %v", err)
	}
}
