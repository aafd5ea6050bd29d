package store

import (
	"errors"
	"testing"
)

func TestCreateColumnAppends(t *testing.T) {
	s := New()
	boardID := mustCreateBoard(t, s, alice, "Board")

	id, err := s.CreateColumn(alice, boardID, "Backlog")
	if err != nil {
		t.Fatalf("CreateColumn: %v", err)
	}

	s.mu.Lock()
	col := s.columns[id]
	s.mu.Unlock()
	if col.Position != 3 {
		t.Fatalf("new column position = %d, want 3 (after the defaults)", col.Position)
	}
}

func TestCreateColumnOnEmptyBoard(t *testing.T) {
	s := New()
	boardID := mustCreateBoard(t, s, alice, "Board")
	detail, _ := s.GetBoard(alice, boardID)
	for _, col := range detail.Columns {
		if err := s.DeleteColumn(alice, col.ID); err != nil {
			t.Fatalf("DeleteColumn: %v", err)
		}
	}

	id, err := s.CreateColumn(alice, boardID, "Only")
	if err != nil {
		t.Fatalf("CreateColumn: %v", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.columns[id].Position != 0 {
		t.Fatalf("first column position = %d, want 0", s.columns[id].Position)
	}
}

func TestDeleteColumnCascadesAndReindexes(t *testing.T) {
	s := New()
	boardID := mustCreateBoard(t, s, alice, "Board")
	detail, _ := s.GetBoard(alice, boardID)
	victim := detail.Columns[1]

	if _, err := s.CreateCard(alice, victim.ID, "doomed", "", nil, ""); err != nil {
		t.Fatalf("CreateCard: %v", err)
	}
	if err := s.DeleteColumn(alice, victim.ID); err != nil {
		t.Fatalf("DeleteColumn: %v", err)
	}

	detail, _ = s.GetBoard(alice, boardID)
	if len(detail.Columns) != 2 {
		t.Fatalf("expected 2 columns, got %d", len(detail.Columns))
	}
	for i, col := range detail.Columns {
		if col.Position != i {
			t.Fatalf("positions not dense after delete: %+v", detail.Columns)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, card := range s.cards {
		if card.ColumnID == victim.ID {
			t.Fatalf("orphan card survived column delete: %+v", card)
		}
	}
}

func TestReorderColumns(t *testing.T) {
	s := New()
	boardID := mustCreateBoard(t, s, alice, "Board")
	detail, _ := s.GetBoard(alice, boardID)
	a, b, c := detail.Columns[0].ID, detail.Columns[1].ID, detail.Columns[2].ID

	if err := s.ReorderColumns(alice, boardID, []uint64{c, a, b}); err != nil {
		t.Fatalf("ReorderColumns: %v", err)
	}

	detail, _ = s.GetBoard(alice, boardID)
	got := []uint64{detail.Columns[0].ID, detail.Columns[1].ID, detail.Columns[2].ID}
	want := []uint64{c, a, b}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order mismatch: got %v, want %v", got, want)
		}
	}
}

func TestReorderColumnsIgnoresForeignBoard(t *testing.T) {
	s := New()
	mine := mustCreateBoard(t, s, alice, "Mine")
	other := mustCreateBoard(t, s, alice, "Other")
	otherDetail, _ := s.GetBoard(alice, other)
	foreign := otherDetail.Columns[0].ID

	if err := s.ReorderColumns(alice, mine, []uint64{foreign}); err != nil {
		t.Fatalf("ReorderColumns: %v", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.columns[foreign].Position != 0 {
		t.Fatalf("foreign column repositioned: %+v", s.columns[foreign])
	}
}

func TestColumnMutationsRequireMembership(t *testing.T) {
	s := New()
	boardID := mustCreateBoard(t, s, alice, "Board")
	detail, _ := s.GetBoard(alice, boardID)
	colID := detail.Columns[0].ID

	if _, err := s.CreateColumn(bob, boardID, "Nope"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("create: got %v", err)
	}
	if err := s.UpdateColumn(bob, colID, "Nope"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("update: got %v", err)
	}
	if err := s.DeleteColumn(bob, colID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("delete: got %v", err)
	}
}
