package store

import (
	"testing"

	"github.com/lottolab/tombola-analytics/internal/engine"
)

func newTestStore(t *testing.T) *TableStore {
	t.Helper()
	s, err := NewTableStore(t.TempDir(), "test")
	if err != nil {
		t.Fatalf("Failed to create TableStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestTableStore_PutGet(t *testing.T) {
	s := newTestStore(t)

	params := engine.GameParams{CardSize: 3, DrumSize: 10}
	table, err := engine.BuildTable(params)
	if err != nil {
		t.Fatalf("Failed to build table: %v", err)
	}

	if err := s.Put(table); err != nil {
		t.Fatalf("Failed to put table: %v", err)
	}

	got, ok, err := s.Get(params)
	if err != nil {
		t.Fatalf("Failed to get table: %v", err)
	}
	if !ok {
		t.Fatal("Expected cached table to be present")
	}
	if got.Params != params {
		t.Errorf("Expected params %v, got %v", params, got.Params)
	}
	if len(got.Rows) != len(table.Rows) {
		t.Errorf("Expected %d rows, got %d", len(table.Rows), len(got.Rows))
	}
	for i := range table.Rows {
		for k := range table.Rows[i].Classes {
			if got.Rows[i].Classes[k] != table.Rows[i].Classes[k] {
				t.Errorf("Value mismatch at t=%d k=%d", table.Rows[i].Time, k)
			}
		}
	}
}

func TestTableStore_GetMissing(t *testing.T) {
	s := newTestStore(t)

	_, ok, err := s.Get(engine.GameParams{CardSize: 5, DrumSize: 90})
	if err != nil {
		t.Fatalf("Get on missing key should not error: %v", err)
	}
	if ok {
		t.Error("Expected missing table to report absent")
	}
}

func TestTableStore_ListAndClear(t *testing.T) {
	s := newTestStore(t)

	for _, params := range []engine.GameParams{
		{CardSize: 2, DrumSize: 6},
		{CardSize: 3, DrumSize: 8},
	} {
		table, err := engine.BuildTable(params)
		if err != nil {
			t.Fatalf("Failed to build table: %v", err)
		}
		if err := s.Put(table); err != nil {
			t.Fatalf("Failed to put table: %v", err)
		}
	}

	listed, err := s.List()
	if err != nil {
		t.Fatalf("Failed to list tables: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("Expected 2 cached tables, got %d", len(listed))
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("Failed to clear store: %v", err)
	}
	listed, err = s.List()
	if err != nil {
		t.Fatalf("Failed to list tables after clear: %v", err)
	}
	if len(listed) != 0 {
		t.Errorf("Expected empty store after clear, got %d entries", len(listed))
	}
}
