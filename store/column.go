package store

import (
	"fmt"
	"sort"
	"time"

	"github.com/caffeinepub/sprint-lane-7/domain"
)

// CreateColumn appends a column at the end of the board. Any member may
// create columns.
func (s *Store) CreateColumn(userID string, boardID uint64, name string) (uint64, error) {
	name, err := validateName("name", name)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	if _, ok := s.boards[boardID]; !ok {
		s.mu.Unlock()
		return 0, fmt.Errorf("board %d: %w", boardID, ErrNotFound)
	}
	if err := s.requireMember(boardID, userID); err != nil {
		s.mu.Unlock()
		return 0, err
	}

	pos := 0
	for _, col := range s.columns {
		if col.BoardID == boardID && col.Position+1 > pos {
			pos = col.Position + 1
		}
	}

	id := nextID(&s.nextColumnID)
	s.columns[id] = &domain.Column{ID: id, BoardID: boardID, Name: name, Position: pos, CreatedAt: time.Now()}
	s.mu.Unlock()

	s.notify()
	return id, nil
}

// UpdateColumn renames a column.
func (s *Store) UpdateColumn(userID string, columnID uint64, name string) error {
	name, err := validateName("name", name)
	if err != nil {
		return err
	}

	s.mu.Lock()
	col, ok := s.columns[columnID]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("column %d: %w", columnID, ErrNotFound)
	}
	if err := s.requireMember(col.BoardID, userID); err != nil {
		s.mu.Unlock()
		return err
	}
	col.Name = name
	s.mu.Unlock()

	s.notify()
	return nil
}

// DeleteColumn removes the column and all of its cards, then reindexes the
// board's remaining columns to a dense 0..n-1 sequence.
func (s *Store) DeleteColumn(userID string, columnID uint64) error {
	s.mu.Lock()
	col, ok := s.columns[columnID]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("column %d: %w", columnID, ErrNotFound)
	}
	if err := s.requireMember(col.BoardID, userID); err != nil {
		s.mu.Unlock()
		return err
	}

	boardID := col.BoardID
	delete(s.columns, columnID)
	for id, card := range s.cards {
		if card.ColumnID == columnID {
			delete(s.cards, id)
		}
	}
	s.reindexColumns(boardID)
	s.mu.Unlock()

	s.notify()
	return nil
}

// ReorderColumns assigns position = index for every id in the caller's list
// that names a column of this board. Unknown or foreign ids are skipped
// silently, tolerating stale client state.
func (s *Store) ReorderColumns(userID string, boardID uint64, orderedIDs []uint64) error {
	s.mu.Lock()
	if _, ok := s.boards[boardID]; !ok {
		s.mu.Unlock()
		return fmt.Errorf("board %d: %w", boardID, ErrNotFound)
	}
	if err := s.requireMember(boardID, userID); err != nil {
		s.mu.Unlock()
		return err
	}
	for i, id := range orderedIDs {
		if col, ok := s.columns[id]; ok && col.BoardID == boardID {
			col.Position = i
		}
	}
	s.mu.Unlock()

	s.notify()
	return nil
}

// reindexColumns rewrites the board's column positions to 0..n-1 preserving
// the current order. Caller holds the lock.
func (s *Store) reindexColumns(boardID uint64) {
	cols := []*domain.Column{}
	for _, col := range s.columns {
		if col.BoardID == boardID {
			cols = append(cols, col)
		}
	}
	sort.Slice(cols, func(i, j int) bool { return cols[i].Position < cols[j].Position })
	for i, col := range cols {
		col.Position = i
	}
}
