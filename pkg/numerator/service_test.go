package numerator

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"folio/internal/core/account"
	"folio/internal/core/id"
)

// Mock objects
type mockRow struct {
	val int64
	err error
}

func (m *mockRow) Scan(dest ...any) error {
	if m.err != nil {
		return m.err
	}
	if len(dest) > 0 {
		if ptr, ok := dest[0].(*int64); ok {
			*ptr = m.val
		}
	}
	return nil
}

type mockQuerier struct {
	mu           sync.Mutex
	currentValue int64 // Simulates DB sequence value
	calls        int
}

func (m *mockQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Strict passes (account, key, implicit +1); cached passes (account, key, size).
	var increment int64 = 1
	if len(args) == 3 {
		if val, ok := args[2].(int64); ok {
			increment = val
		}
	}

	m.currentValue += increment
	m.calls++

	return &mockRow{val: m.currentValue}
}

func testContext() context.Context {
	return account.WithID(context.Background(), id.New())
}

func expectedNumber(prefix string, num int64) string {
	return fmt.Sprintf("%s-%s-%05d", prefix, time.Now().Format("2006"), num)
}

func TestGetNextNumber_Strict(t *testing.T) {
	q := &mockQuerier{}
	svc := New(q)
	ctx := testContext()
	cfg := DefaultConfig("TRX")

	num, err := svc.GetNextNumber(ctx, cfg, nil, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != expectedNumber("TRX", 1) {
		t.Errorf("expected %s, got %s", expectedNumber("TRX", 1), num)
	}

	num, err = svc.GetNextNumber(ctx, cfg, nil, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != expectedNumber("TRX", 2) {
		t.Errorf("expected %s, got %s", expectedNumber("TRX", 2), num)
	}
}

func TestGetNextNumber_MissingAccount(t *testing.T) {
	q := &mockQuerier{}
	svc := New(q)

	_, err := svc.GetNextNumber(context.Background(), DefaultConfig("TRX"), nil, time.Now())
	if err == nil {
		t.Fatal("expected error for context without account")
	}
}

func TestGetNextNumber_Cached(t *testing.T) {
	q := &mockQuerier{}
	svc := New(q)
	ctx := testContext()
	cfg := DefaultConfig("OBL")

	opts := &Options{
		Strategy:  StrategyCached,
		RangeSize: 10,
	}

	// First call allocates range 1..10 from DB.
	num, err := svc.GetNextNumber(ctx, cfg, opts, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != expectedNumber("OBL", 1) {
		t.Errorf("expected %s, got %s", expectedNumber("OBL", 1), num)
	}
	if q.currentValue != 10 {
		t.Errorf("expected DB value to be 10, got %d", q.currentValue)
	}

	// Second call is served from memory, DB untouched.
	num, err = svc.GetNextNumber(ctx, cfg, opts, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != expectedNumber("OBL", 2) {
		t.Errorf("expected %s, got %s", expectedNumber("OBL", 2), num)
	}
	if q.currentValue != 10 {
		t.Errorf("expected DB value to stay 10, got %d", q.currentValue)
	}

	// Exhaust the range; the next call must reserve 11..20.
	for i := 0; i < 8; i++ {
		_, _ = svc.GetNextNumber(ctx, cfg, opts, time.Now())
	}

	num, err = svc.GetNextNumber(ctx, cfg, opts, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != expectedNumber("OBL", 11) {
		t.Errorf("expected %s, got %s", expectedNumber("OBL", 11), num)
	}
	if q.currentValue != 20 {
		t.Errorf("expected DB value to be 20, got %d", q.currentValue)
	}
}

func TestGetNextNumber_CacheIsolatedPerAccount(t *testing.T) {
	q := &mockQuerier{}
	svc := New(q)
	cfg := DefaultConfig("OBL")
	opts := &Options{Strategy: StrategyCached, RangeSize: 10}

	ctxA := account.WithID(context.Background(), id.New())
	ctxB := account.WithID(context.Background(), id.New())

	_, _ = svc.GetNextNumber(ctxA, cfg, opts, time.Now())
	calls := q.calls

	// A different account must not reuse the cached range of the first.
	_, err := svc.GetNextNumber(ctxB, cfg, opts, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.calls != calls+1 {
		t.Errorf("expected a DB allocation for second account, calls=%d", q.calls)
	}
}

func TestParseNumber(t *testing.T) {
	cases := map[string]int64{
		"TRX-2026-00042": 42,
		"OBL-00007":      7,
		"garbage":        -1,
	}
	for in, want := range cases {
		if got := ParseNumber(in); got != want {
			t.Errorf("ParseNumber(%q) = %d, want %d", in, got, want)
		}
	}
}
