package store

import (
	"fmt"
	"sort"
	"time"

	"github.com/caffeinepub/sprint-lane-7/domain"
)

// codeAlphabet has 32 symbols with the visually ambiguous I, O, 0 and 1
// removed.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// InviteDetails is the public view of an invite: enough to decide whether to
// join, nothing about who the members are.
type InviteDetails struct {
	BoardName   string `json:"boardName"`
	MemberCount int    `json:"memberCount"`
}

// newInviteCode derives an XXXX-XXXX code from a monotonic nanosecond stamp,
// five bits per symbol. Codes are not checked against existing ones; the
// strictly increasing stamp makes collisions an accepted, vanishing risk.
func newInviteCode(stamp int64) string {
	buf := make([]byte, 9)
	for i := 8; i >= 0; i-- {
		if i == 4 {
			buf[i] = '-'
			continue
		}
		buf[i] = codeAlphabet[stamp&31]
		stamp >>= 5
	}
	return string(buf)
}

// GenerateInvite creates a single-use invite code for the board. Owner only.
func (s *Store) GenerateInvite(userID string, boardID uint64) (string, error) {
	s.mu.Lock()
	if _, ok := s.boards[boardID]; !ok {
		s.mu.Unlock()
		return "", fmt.Errorf("board %d: %w", boardID, ErrNotFound)
	}
	if err := s.requireOwner(boardID, userID); err != nil {
		s.mu.Unlock()
		return "", err
	}

	code := newInviteCode(s.nextStamp())
	id := nextID(&s.nextInviteID)
	s.invites[id] = &domain.BoardInvite{ID: id, BoardID: boardID, Code: code, CreatedAt: time.Now()}
	s.mu.Unlock()

	s.notify()
	return code, nil
}

// BoardInvites lists the board's pending invites, oldest first. Owner only.
func (s *Store) BoardInvites(userID string, boardID uint64) ([]domain.BoardInvite, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.boards[boardID]; !ok {
		return nil, fmt.Errorf("board %d: %w", boardID, ErrNotFound)
	}
	if err := s.requireOwner(boardID, userID); err != nil {
		return nil, err
	}

	invites := []domain.BoardInvite{}
	for _, inv := range s.invites {
		if inv.BoardID == boardID {
			invites = append(invites, *inv)
		}
	}
	sort.Slice(invites, func(i, j int) bool { return invites[i].ID < invites[j].ID })
	return invites, nil
}

// RevokeInvite removes a pending invite by code. Owner of the invite's board
// only.
func (s *Store) RevokeInvite(userID, code string) error {
	s.mu.Lock()
	invID, inv := s.findInvite(code)
	if inv == nil {
		s.mu.Unlock()
		return fmt.Errorf("invite %s: %w", code, ErrNotFound)
	}
	if err := s.requireOwner(inv.BoardID, userID); err != nil {
		s.mu.Unlock()
		return err
	}
	delete(s.invites, invID)
	s.mu.Unlock()

	s.notify()
	return nil
}

// LookupInvite returns the public details for a code: board name and member
// count only. No authentication required.
func (s *Store) LookupInvite(code string) (InviteDetails, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, inv := s.findInvite(code)
	if inv == nil {
		return InviteDetails{}, fmt.Errorf("invite %s: %w", code, ErrNotFound)
	}
	board, ok := s.boards[inv.BoardID]
	if !ok {
		return InviteDetails{}, fmt.Errorf("invite %s: %w", code, ErrNotFound)
	}

	count := 0
	for key := range s.members {
		if key.boardID == inv.BoardID {
			count++
		}
	}
	return InviteDetails{BoardName: board.Name, MemberCount: count}, nil
}

// JoinBoardWithCode consumes the invite exactly once and adds the caller as a
// member. Unknown codes and repeat joins by existing members are rejected,
// never silently accepted. Returns the joined board id.
func (s *Store) JoinBoardWithCode(userID, code string) (uint64, error) {
	s.mu.Lock()
	invID, inv := s.findInvite(code)
	if inv == nil {
		s.mu.Unlock()
		return 0, fmt.Errorf("invite %s: %w", code, ErrNotFound)
	}
	boardID := inv.BoardID
	if _, ok := s.boards[boardID]; !ok {
		s.mu.Unlock()
		return 0, fmt.Errorf("invite %s: %w", code, ErrNotFound)
	}
	if s.isMember(boardID, userID) {
		s.mu.Unlock()
		return 0, fmt.Errorf("already a member of board %d: %w", boardID, ErrConflict)
	}

	s.members[memberKey{boardID, userID}] = &domain.BoardMember{
		BoardID: boardID, UserID: userID, Role: domain.RoleMember, JoinedAt: time.Now(),
	}
	delete(s.invites, invID)
	s.mu.Unlock()

	s.notify()
	return boardID, nil
}

// findInvite scans for a code. Caller holds the lock.
func (s *Store) findInvite(code string) (uint64, *domain.BoardInvite) {
	for id, inv := range s.invites {
		if inv.Code == code {
			return id, inv
		}
	}
	return 0, nil
}
