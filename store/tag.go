package store

import (
	"fmt"
	"sort"

	"github.com/caffeinepub/sprint-lane-7/domain"
)

// CreateTag adds a board-scoped label. Color must be a #RRGGBB hex string.
func (s *Store) CreateTag(userID string, boardID uint64, name, color string) (uint64, error) {
	name, err := validateName("name", name)
	if err != nil {
		return 0, err
	}
	if !hexColorRe.MatchString(color) {
		return 0, invalid("color", "must be a #RRGGBB hex string")
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

	id := nextID(&s.nextTagID)
	s.tags[id] = &domain.Tag{ID: id, BoardID: boardID, Name: name, Color: color}
	s.mu.Unlock()

	s.notify()
	return id, nil
}

// UpdateTag patches the tag's name and/or color; nil means leave unchanged.
func (s *Store) UpdateTag(userID string, tagID uint64, name, color *string) error {
	var newName string
	if name != nil {
		var err error
		newName, err = validateName("name", *name)
		if err != nil {
			return err
		}
	}
	if color != nil && !hexColorRe.MatchString(*color) {
		return invalid("color", "must be a #RRGGBB hex string")
	}

	s.mu.Lock()
	tag, ok := s.tags[tagID]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("tag %d: %w", tagID, ErrNotFound)
	}
	if err := s.requireMember(tag.BoardID, userID); err != nil {
		s.mu.Unlock()
		return err
	}
	if name != nil {
		tag.Name = newName
	}
	if color != nil {
		tag.Color = *color
	}
	s.mu.Unlock()

	s.notify()
	return nil
}

// DeleteTag removes the tag row only. Card tag-id lists are NOT cleaned up;
// readers skip ids that no longer resolve.
func (s *Store) DeleteTag(userID string, tagID uint64) error {
	s.mu.Lock()
	tag, ok := s.tags[tagID]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("tag %d: %w", tagID, ErrNotFound)
	}
	if err := s.requireMember(tag.BoardID, userID); err != nil {
		s.mu.Unlock()
		return err
	}
	delete(s.tags, tagID)
	s.mu.Unlock()

	s.notify()
	return nil
}

// BoardTags lists the board's tags ordered by id.
func (s *Store) BoardTags(userID string, boardID uint64) ([]domain.Tag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.boards[boardID]; !ok {
		return nil, fmt.Errorf("board %d: %w", boardID, ErrNotFound)
	}
	if err := s.requireMember(boardID, userID); err != nil {
		return nil, err
	}

	tags := []domain.Tag{}
	for _, t := range s.tags {
		if t.BoardID == boardID {
			tags = append(tags, *t)
		}
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].ID < tags[j].ID })
	return tags, nil
}
