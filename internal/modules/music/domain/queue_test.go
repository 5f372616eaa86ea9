package domain

import (
	"strconv"
	"testing"
)

func entry(n int) Entry {
	return Entry{
		SourceRef:     "https://example.com/watch?v=" + strconv.Itoa(n),
		Title:         "Track " + strconv.Itoa(n),
		RequesterName: "tester",
	}
}

func TestQueue_PushRespectsCapacity(t *testing.T) {
	q := NewQueue(2)

	if !q.Push(entry(1)) {
		t.Fatal("expected first push to be accepted")
	}
	if !q.Push(entry(2)) {
		t.Fatal("expected second push to be accepted")
	}
	if q.Push(entry(3)) {
		t.Error("expected push beyond capacity to be rejected")
	}
	if q.Len() != 2 {
		t.Errorf("expected size 2 after rejected push, got %d", q.Len())
	}
}

func TestQueue_PopReturnsFIFOOrder(t *testing.T) {
	q := NewQueue(10)

	for i := 1; i <= 5; i++ {
		if !q.Push(entry(i)) {
			t.Fatalf("push %d rejected", i)
		}
	}

	for i := 1; i <= 5; i++ {
		got, ok := q.Pop()
		if !ok {
			t.Fatalf("expected entry %d, queue reported empty", i)
		}
		if got.Title != entry(i).Title {
			t.Errorf("expected %q at position %d, got %q", entry(i).Title, i, got.Title)
		}
	}

	if _, ok := q.Pop(); ok {
		t.Error("expected empty queue after draining")
	}
}

func TestQueue_ClearRetainsCapacity(t *testing.T) {
	q := NewQueue(3)
	q.Push(entry(1))
	q.Push(entry(2))

	q.Clear()

	if q.Len() != 0 {
		t.Errorf("expected size 0 after clear, got %d", q.Len())
	}
	if q.Capacity() != 3 {
		t.Errorf("expected capacity 3 after clear, got %d", q.Capacity())
	}

	// The cleared queue accepts entries again up to the same capacity.
	for i := 0; i < 3; i++ {
		if !q.Push(entry(i)) {
			t.Fatalf("push %d rejected after clear", i)
		}
	}
	if q.Push(entry(4)) {
		t.Error("expected capacity to still be enforced after clear")
	}
}

func TestQueue_TitlesCapsDisplayCount(t *testing.T) {
	q := NewQueue(30)
	for i := 0; i < 25; i++ {
		q.Push(entry(i))
	}

	titles, total := q.Titles(20)

	if len(titles) != 20 {
		t.Errorf("expected 20 displayed titles, got %d", len(titles))
	}
	if total != 25 {
		t.Errorf("expected true total 25, got %d", total)
	}
	if titles[0] != "Track 0" {
		t.Errorf("expected titles in queue order, got %q first", titles[0])
	}
}

func TestQueue_DefaultCapacity(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		want     int
	}{
		{name: "zero falls back to default", capacity: 0, want: DefaultCapacity},
		{name: "negative falls back to default", capacity: -1, want: DefaultCapacity},
		{name: "explicit capacity kept", capacity: 5, want: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := NewQueue(tt.capacity)
			if q.Capacity() != tt.want {
				t.Errorf("expected capacity %d, got %d", tt.want, q.Capacity())
			}
		})
	}
}
