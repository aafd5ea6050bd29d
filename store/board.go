package store

import (
	"fmt"
	"sort"
	"time"

	"github.com/caffeinepub/sprint-lane-7/domain"
)

var defaultColumnNames = []string{"To Do", "In Progress", "Done"}

// ColumnWithCards is a column together with its cards ordered by position.
type ColumnWithCards struct {
	domain.Column
	Cards []domain.Card `json:"cards"`
}

// BoardDetail is the full read model for a single board.
type BoardDetail struct {
	Board   domain.Board         `json:"board"`
	Columns []ColumnWithCards    `json:"columns"`
	Members []domain.BoardMember `json:"members"`
	Tags    []domain.Tag         `json:"tags"`
}

// CreateBoard creates a board owned by userID with the three default columns
// and an owner membership row. Returns the new board id.
func (s *Store) CreateBoard(userID, name string) (uint64, error) {
	name, err := validateName("name", name)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	now := time.Now()
	id := nextID(&s.nextBoardID)
	s.boards[id] = &domain.Board{ID: id, Name: name, OwnerID: userID, CreatedAt: now}
	for i, colName := range defaultColumnNames {
		colID := nextID(&s.nextColumnID)
		s.columns[colID] = &domain.Column{ID: colID, BoardID: id, Name: colName, Position: i, CreatedAt: now}
	}
	s.members[memberKey{id, userID}] = &domain.BoardMember{
		BoardID: id, UserID: userID, Role: domain.RoleOwner, JoinedAt: now,
	}
	s.mu.Unlock()

	s.notify()
	return id, nil
}

// MyBoards lists the boards where userID has a membership row, oldest first.
func (s *Store) MyBoards(userID string) []domain.Board {
	s.mu.Lock()
	defer s.mu.Unlock()

	boards := []domain.Board{}
	for key, m := range s.members {
		if m.UserID != userID {
			continue
		}
		if b, ok := s.boards[key.boardID]; ok {
			boards = append(boards, *b)
		}
	}
	sort.Slice(boards, func(i, j int) bool { return boards[i].ID < boards[j].ID })
	return boards
}

// GetBoard returns the full board read model. ErrNotFound when the board does
// not exist; ErrForbidden when the caller is not a member.
func (s *Store) GetBoard(userID string, boardID uint64) (*BoardDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	board, ok := s.boards[boardID]
	if !ok {
		return nil, fmt.Errorf("board %d: %w", boardID, ErrNotFound)
	}
	if err := s.requireMember(boardID, userID); err != nil {
		return nil, err
	}

	detail := &BoardDetail{Board: *board}

	for _, col := range s.columns {
		if col.BoardID != boardID {
			continue
		}
		cwc := ColumnWithCards{Column: *col, Cards: []domain.Card{}}
		for _, card := range s.cards {
			if card.ColumnID == col.ID {
				cwc.Cards = append(cwc.Cards, *card)
			}
		}
		sort.Slice(cwc.Cards, func(i, j int) bool { return cwc.Cards[i].Position < cwc.Cards[j].Position })
		detail.Columns = append(detail.Columns, cwc)
	}
	sort.Slice(detail.Columns, func(i, j int) bool {
		return detail.Columns[i].Position < detail.Columns[j].Position
	})

	for key, m := range s.members {
		if key.boardID == boardID {
			detail.Members = append(detail.Members, *m)
		}
	}
	sort.Slice(detail.Members, func(i, j int) bool {
		a, b := detail.Members[i], detail.Members[j]
		if !a.JoinedAt.Equal(b.JoinedAt) {
			return a.JoinedAt.Before(b.JoinedAt)
		}
		return a.UserID < b.UserID
	})

	for _, t := range s.tags {
		if t.BoardID == boardID {
			detail.Tags = append(detail.Tags, *t)
		}
	}
	sort.Slice(detail.Tags, func(i, j int) bool { return detail.Tags[i].ID < detail.Tags[j].ID })

	return detail, nil
}

// UpdateBoard renames a board. Owner only.
func (s *Store) UpdateBoard(userID string, boardID uint64, name string) error {
	name, err := validateName("name", name)
	if err != nil {
		return err
	}

	s.mu.Lock()
	board, ok := s.boards[boardID]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("board %d: %w", boardID, ErrNotFound)
	}
	if err := s.requireOwner(boardID, userID); err != nil {
		s.mu.Unlock()
		return err
	}
	board.Name = name
	s.mu.Unlock()

	s.notify()
	return nil
}

// DeleteBoard removes the board and every column, card, member, tag and
// invite scoped to it via independent full scans. Owner only.
func (s *Store) DeleteBoard(userID string, boardID uint64) error {
	s.mu.Lock()
	if _, ok := s.boards[boardID]; !ok {
		s.mu.Unlock()
		return fmt.Errorf("board %d: %w", boardID, ErrNotFound)
	}
	if err := s.requireOwner(boardID, userID); err != nil {
		s.mu.Unlock()
		return err
	}

	delete(s.boards, boardID)
	for id, col := range s.columns {
		if col.BoardID == boardID {
			delete(s.columns, id)
		}
	}
	for id, card := range s.cards {
		if card.BoardID == boardID {
			delete(s.cards, id)
		}
	}
	for key := range s.members {
		if key.boardID == boardID {
			delete(s.members, key)
		}
	}
	for id, t := range s.tags {
		if t.BoardID == boardID {
			delete(s.tags, id)
		}
	}
	for id, inv := range s.invites {
		if inv.BoardID == boardID {
			delete(s.invites, id)
		}
	}
	s.mu.Unlock()

	s.notify()
	return nil
}
