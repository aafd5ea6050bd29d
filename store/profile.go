package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/caffeinepub/sprint-lane-7/domain"
)

// SetUserProfile upserts the caller's profile. Username and email are trimmed
// and checked case-insensitively against the global indexes; a caller may
// re-claim its own current values. Stale index entries are removed before the
// new ones are written, so an update is an index migration, not a merge.
func (s *Store) SetUserProfile(userID, username, email string) error {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if len(username) < minUsernameLen {
		return invalid("username", fmt.Sprintf("must be at least %d characters", minUsernameLen))
	}
	if len(username) > maxNameLen {
		return invalid("username", "too long")
	}
	if email == "" {
		return invalid("email", "must not be empty")
	}
	if len(email) > maxNameLen {
		return invalid("email", "too long")
	}

	usernameKey := strings.ToLower(username)
	emailKey := strings.ToLower(email)

	s.mu.Lock()
	if owner, ok := s.usernameIndex[usernameKey]; ok && owner != userID {
		s.mu.Unlock()
		return fmt.Errorf("username %q is taken: %w", username, ErrConflict)
	}
	if owner, ok := s.emailIndex[emailKey]; ok && owner != userID {
		s.mu.Unlock()
		return fmt.Errorf("email %q is taken: %w", email, ErrConflict)
	}

	now := time.Now()
	if prev, ok := s.profiles[userID]; ok {
		delete(s.usernameIndex, strings.ToLower(prev.Username))
		delete(s.emailIndex, strings.ToLower(prev.Email))
		now = prev.CreatedAt
	}
	s.profiles[userID] = &domain.UserProfile{UserID: userID, Username: username, Email: email, CreatedAt: now}
	s.usernameIndex[usernameKey] = userID
	s.emailIndex[emailKey] = userID
	s.mu.Unlock()

	s.notify()
	return nil
}

// UserProfile returns the caller's own profile.
func (s *Store) UserProfile(userID string) (domain.UserProfile, error) {
	return s.UserProfileByPrincipal(userID)
}

// UserProfileByPrincipal returns the profile stored for any principal.
func (s *Store) UserProfileByPrincipal(principal string) (domain.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[principal]
	if !ok {
		return domain.UserProfile{}, fmt.Errorf("profile %s: %w", principal, ErrNotFound)
	}
	return *p, nil
}

// HasUserProfile reports whether the caller has completed a profile.
func (s *Store) HasUserProfile(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.profiles[userID]
	return ok
}

// LookupUser resolves a case-insensitive exact match against the username
// index first, then the email index. At most one result.
func (s *Store) LookupUser(query string) (domain.UserProfile, error) {
	key := strings.ToLower(strings.TrimSpace(query))
	if key == "" {
		return domain.UserProfile{}, invalid("query", "must not be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if userID, ok := s.usernameIndex[key]; ok {
		if p, ok := s.profiles[userID]; ok {
			return *p, nil
		}
	}
	if userID, ok := s.emailIndex[key]; ok {
		if p, ok := s.profiles[userID]; ok {
			return *p, nil
		}
	}
	return domain.UserProfile{}, fmt.Errorf("user %q: %w", query, ErrNotFound)
}
