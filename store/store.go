package store

import (
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/caffeinepub/sprint-lane-7/domain"
)

const (
	maxNameLen        = 120
	maxDescriptionLen = 4000
	minUsernameLen    = 3
)

var hexColorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

type memberKey struct {
	boardID uint64
	userID  string
}

// Store is the in-memory relational core. Six keyed collections, two
// identifier indexes and per-entity id counters, all guarded by a single
// mutex so every operation is atomic relative to every other.
type Store struct {
	mu sync.Mutex

	boards   map[uint64]*domain.Board
	columns  map[uint64]*domain.Column
	cards    map[uint64]*domain.Card
	tags     map[uint64]*domain.Tag
	invites  map[uint64]*domain.BoardInvite
	members  map[memberKey]*domain.BoardMember
	profiles map[string]*domain.UserProfile

	usernameIndex map[string]string
	emailIndex    map[string]string

	nextBoardID  uint64
	nextColumnID uint64
	nextCardID   uint64
	nextTagID    uint64
	nextInviteID uint64

	lastCodeStamp int64

	onChange func()
}

// New creates an empty store. Counters start at 1 and never reuse freed ids.
func New() *Store {
	return &Store{
		boards:        make(map[uint64]*domain.Board),
		columns:       make(map[uint64]*domain.Column),
		cards:         make(map[uint64]*domain.Card),
		tags:          make(map[uint64]*domain.Tag),
		invites:       make(map[uint64]*domain.BoardInvite),
		members:       make(map[memberKey]*domain.BoardMember),
		profiles:      make(map[string]*domain.UserProfile),
		usernameIndex: make(map[string]string),
		emailIndex:    make(map[string]string),
	}
}

// OnChange registers a hook invoked after every successful mutation, outside
// the store lock. Used by the snapshot flusher.
func (s *Store) OnChange(fn func()) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

func (s *Store) notify() {
	s.mu.Lock()
	fn := s.onChange
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func nextID(counter *uint64) uint64 {
	*counter++
	return *counter
}

// isMember reports whether a membership row exists. Caller holds the lock.
func (s *Store) isMember(boardID uint64, userID string) bool {
	_, ok := s.members[memberKey{boardID, userID}]
	return ok
}

// isOwner reports whether the membership row carries the owner role.
func (s *Store) isOwner(boardID uint64, userID string) bool {
	m, ok := s.members[memberKey{boardID, userID}]
	return ok && m.Role == domain.RoleOwner
}

func (s *Store) requireMember(boardID uint64, userID string) error {
	if !s.isMember(boardID, userID) {
		return ErrForbidden
	}
	return nil
}

func (s *Store) requireOwner(boardID uint64, userID string) error {
	if !s.isOwner(boardID, userID) {
		return ErrForbidden
	}
	return nil
}

func validateName(field, value string) (string, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return "", invalid(field, "must not be empty")
	}
	if len(v) > maxNameLen {
		return "", invalid(field, "too long")
	}
	return v, nil
}

// nextStamp returns a strictly increasing nanosecond timestamp; it seeds
// invite code generation so two codes never share a stamp even within one
// clock tick. Caller holds the lock.
func (s *Store) nextStamp() int64 {
	now := time.Now().UnixNano()
	if now <= s.lastCodeStamp {
		now = s.lastCodeStamp + 1
	}
	s.lastCodeStamp = now
	return now
}
