package store

import (
	"fmt"
	"sort"
	"time"

	"github.com/caffeinepub/sprint-lane-7/domain"
)

// InviteUserToBoard adds targetID as a regular member directly, without an
// invite code. Owner only.
func (s *Store) InviteUserToBoard(userID string, boardID uint64, targetID string) error {
	if targetID == "" {
		return invalid("userId", "must not be empty")
	}

	s.mu.Lock()
	if _, ok := s.boards[boardID]; !ok {
		s.mu.Unlock()
		return fmt.Errorf("board %d: %w", boardID, ErrNotFound)
	}
	if err := s.requireOwner(boardID, userID); err != nil {
		s.mu.Unlock()
		return err
	}
	if s.isMember(boardID, targetID) {
		s.mu.Unlock()
		return fmt.Errorf("user %s is already a member: %w", targetID, ErrConflict)
	}

	s.members[memberKey{boardID, targetID}] = &domain.BoardMember{
		BoardID: boardID, UserID: targetID, Role: domain.RoleMember, JoinedAt: time.Now(),
	}
	s.mu.Unlock()

	s.notify()
	return nil
}

// RemoveMember drops targetID's membership row. Owner only; the owner's own
// row cannot be removed this way, ownership must be transferred first.
func (s *Store) RemoveMember(userID string, boardID uint64, targetID string) error {
	s.mu.Lock()
	if _, ok := s.boards[boardID]; !ok {
		s.mu.Unlock()
		return fmt.Errorf("board %d: %w", boardID, ErrNotFound)
	}
	if err := s.requireOwner(boardID, userID); err != nil {
		s.mu.Unlock()
		return err
	}
	m, ok := s.members[memberKey{boardID, targetID}]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("member %s: %w", targetID, ErrNotFound)
	}
	if m.Role == domain.RoleOwner {
		s.mu.Unlock()
		return fmt.Errorf("cannot remove the board owner: %w", ErrConflict)
	}

	delete(s.members, memberKey{boardID, targetID})
	s.mu.Unlock()

	s.notify()
	return nil
}

// BoardMembers lists the board's membership rows, oldest join first.
func (s *Store) BoardMembers(userID string, boardID uint64) ([]domain.BoardMember, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.boards[boardID]; !ok {
		return nil, fmt.Errorf("board %d: %w", boardID, ErrNotFound)
	}
	if err := s.requireMember(boardID, userID); err != nil {
		return nil, err
	}

	members := []domain.BoardMember{}
	for key, m := range s.members {
		if key.boardID == boardID {
			members = append(members, *m)
		}
	}
	sort.Slice(members, func(i, j int) bool {
		a, b := members[i], members[j]
		if !a.JoinedAt.Equal(b.JoinedAt) {
			return a.JoinedAt.Before(b.JoinedAt)
		}
		return a.UserID < b.UserID
	})
	return members, nil
}

// LeaveBoard drops the caller's own membership. The owner cannot leave; the
// board must be deleted or ownership transferred instead.
func (s *Store) LeaveBoard(userID string, boardID uint64) error {
	s.mu.Lock()
	if _, ok := s.boards[boardID]; !ok {
		s.mu.Unlock()
		return fmt.Errorf("board %d: %w", boardID, ErrNotFound)
	}
	m, ok := s.members[memberKey{boardID, userID}]
	if !ok {
		s.mu.Unlock()
		return ErrForbidden
	}
	if m.Role == domain.RoleOwner {
		s.mu.Unlock()
		return fmt.Errorf("the owner cannot leave the board: %w", ErrConflict)
	}

	delete(s.members, memberKey{boardID, userID})
	s.mu.Unlock()

	s.notify()
	return nil
}

// TransferOwnership demotes the current owner to member and promotes targetID
// to owner in one step, so there is exactly one owner at all times. The
// target must already be a member.
func (s *Store) TransferOwnership(userID string, boardID uint64, targetID string) error {
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
	target, ok := s.members[memberKey{boardID, targetID}]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("member %s: %w", targetID, ErrNotFound)
	}
	if targetID == userID {
		s.mu.Unlock()
		return fmt.Errorf("already the owner: %w", ErrConflict)
	}

	s.members[memberKey{boardID, userID}].Role = domain.RoleMember
	target.Role = domain.RoleOwner
	board.OwnerID = targetID
	s.mu.Unlock()

	s.notify()
	return nil
}
