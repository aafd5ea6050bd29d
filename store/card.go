package store

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/caffeinepub/sprint-lane-7/domain"
)

// CardUpdate carries the editable card fields; nil means leave unchanged.
type CardUpdate struct {
	Title       *string
	Description *string
	Tags        *[]uint64
	AssigneeID  *string
}

// CreateCard prepends a card at position 0 of the column and shifts every
// sibling down one, so the newest card surfaces at the top.
func (s *Store) CreateCard(userID string, columnID uint64, title, description string, tags []uint64, assigneeID string) (uint64, error) {
	title, err := validateName("title", title)
	if err != nil {
		return 0, err
	}
	description = strings.TrimSpace(description)
	if len(description) > maxDescriptionLen {
		return 0, invalid("description", "too long")
	}

	s.mu.Lock()
	col, ok := s.columns[columnID]
	if !ok {
		s.mu.Unlock()
		return 0, fmt.Errorf("column %d: %w", columnID, ErrNotFound)
	}
	if err := s.requireMember(col.BoardID, userID); err != nil {
		s.mu.Unlock()
		return 0, err
	}

	for _, card := range s.cards {
		if card.ColumnID == columnID {
			card.Position++
		}
	}

	now := time.Now()
	id := nextID(&s.nextCardID)
	s.cards[id] = &domain.Card{
		ID:          id,
		ColumnID:    columnID,
		BoardID:     col.BoardID,
		Title:       title,
		Description: description,
		Tags:        append([]uint64(nil), tags...),
		AssigneeID:  assigneeID,
		Position:    0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.mu.Unlock()

	s.notify()
	return id, nil
}

// UpdateCard patches card content fields and refreshes UpdatedAt.
func (s *Store) UpdateCard(userID string, cardID uint64, upd CardUpdate) error {
	var title string
	if upd.Title != nil {
		var err error
		title, err = validateName("title", *upd.Title)
		if err != nil {
			return err
		}
	}
	var description string
	if upd.Description != nil {
		description = strings.TrimSpace(*upd.Description)
		if len(description) > maxDescriptionLen {
			return invalid("description", "too long")
		}
	}

	s.mu.Lock()
	card, ok := s.cards[cardID]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("card %d: %w", cardID, ErrNotFound)
	}
	if err := s.requireMember(card.BoardID, userID); err != nil {
		s.mu.Unlock()
		return err
	}

	if upd.Title != nil {
		card.Title = title
	}
	if upd.Description != nil {
		card.Description = description
	}
	if upd.Tags != nil {
		card.Tags = append([]uint64(nil), (*upd.Tags)...)
	}
	if upd.AssigneeID != nil {
		card.AssigneeID = *upd.AssigneeID
	}
	card.UpdatedAt = time.Now()
	s.mu.Unlock()

	s.notify()
	return nil
}

// DeleteCard removes the card and reindexes its column's remaining cards.
func (s *Store) DeleteCard(userID string, cardID uint64) error {
	s.mu.Lock()
	card, ok := s.cards[cardID]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("card %d: %w", cardID, ErrNotFound)
	}
	if err := s.requireMember(card.BoardID, userID); err != nil {
		s.mu.Unlock()
		return err
	}

	columnID := card.ColumnID
	delete(s.cards, cardID)
	s.reindexCards(columnID)
	s.mu.Unlock()

	s.notify()
	return nil
}

// MoveCard sets the card's column and position verbatim, WITHOUT reindexing
// siblings in either column. Duplicate or non-dense positions can persist
// until the caller's follow-up reorder; sibling reindexing is the caller's
// responsibility.
func (s *Store) MoveCard(userID string, cardID, targetColumnID uint64, position int) error {
	s.mu.Lock()
	card, ok := s.cards[cardID]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("card %d: %w", cardID, ErrNotFound)
	}
	target, ok := s.columns[targetColumnID]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("column %d: %w", targetColumnID, ErrNotFound)
	}
	if target.BoardID != card.BoardID {
		s.mu.Unlock()
		return invalid("columnId", "target column belongs to a different board")
	}
	if err := s.requireMember(card.BoardID, userID); err != nil {
		s.mu.Unlock()
		return err
	}

	card.ColumnID = targetColumnID
	card.Position = position
	card.UpdatedAt = time.Now()
	s.mu.Unlock()

	s.notify()
	return nil
}

// ReorderCards assigns position = index for every id in the caller's list
// that names a card of this column; unknown or foreign ids are dropped
// harmlessly. UpdatedAt is left alone: a positional sweep is not a content
// change.
func (s *Store) ReorderCards(userID string, columnID uint64, orderedIDs []uint64) error {
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
	for i, id := range orderedIDs {
		if card, ok := s.cards[id]; ok && card.ColumnID == columnID {
			card.Position = i
		}
	}
	s.mu.Unlock()

	s.notify()
	return nil
}

// reindexCards rewrites the column's card positions to 0..n-1 preserving the
// current order. Caller holds the lock.
func (s *Store) reindexCards(columnID uint64) {
	cards := []*domain.Card{}
	for _, card := range s.cards {
		if card.ColumnID == columnID {
			cards = append(cards, card)
		}
	}
	sort.Slice(cards, func(i, j int) bool { return cards[i].Position < cards[j].Position })
	for i, card := range cards {
		card.Position = i
	}
}
