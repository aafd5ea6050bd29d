package store

import (
	"errors"
	"strings"
	"testing"
)

func TestInviteCodeFormat(t *testing.T) {
	s := New()
	boardID := mustCreateBoard(t, s, alice, "Board")

	code, err := s.GenerateInvite(alice, boardID)
	if err != nil {
		t.Fatalf("GenerateInvite: %v", err)
	}
	if len(code) != 9 || code[4] != '-' {
		t.Fatalf("unexpected code shape: %q", code)
	}
	for _, r := range strings.ReplaceAll(code, "-", "") {
		if !strings.ContainsRune(codeAlphabet, r) {
			t.Fatalf("code %q contains symbol %q outside the alphabet", code, r)
		}
	}
	if strings.ContainsAny(code, "IO01") {
		t.Fatalf("code %q uses an ambiguous symbol", code)
	}
}

func TestInviteCodesDistinctInBurst(t *testing.T) {
	s := New()
	boardID := mustCreateBoard(t, s, alice, "Board")

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		code, err := s.GenerateInvite(alice, boardID)
		if err != nil {
			t.Fatalf("GenerateInvite: %v", err)
		}
		if seen[code] {
			t.Fatalf("duplicate code %q within one burst", code)
		}
		seen[code] = true
	}
}

func TestGenerateInviteOwnerOnly(t *testing.T) {
	s := New()
	boardID := mustCreateBoard(t, s, alice, "Board")
	if err := s.InviteUserToBoard(alice, boardID, bob); err != nil {
		t.Fatalf("InviteUserToBoard: %v", err)
	}

	if _, err := s.GenerateInvite(bob, boardID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("member generate: got %v, want ErrForbidden", err)
	}
	if _, err := s.BoardInvites(bob, boardID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("member list: got %v, want ErrForbidden", err)
	}
}

func TestLookupInviteLeaksOnlyNameAndCount(t *testing.T) {
	s := New()
	boardID := mustCreateBoard(t, s, alice, "Public Name")
	if err := s.InviteUserToBoard(alice, boardID, bob); err != nil {
		t.Fatalf("InviteUserToBoard: %v", err)
	}
	code, _ := s.GenerateInvite(alice, boardID)

	details, err := s.LookupInvite(code)
	if err != nil {
		t.Fatalf("LookupInvite: %v", err)
	}
	if details.BoardName != "Public Name" || details.MemberCount != 2 {
		t.Fatalf("unexpected details: %+v", details)
	}

	if _, err := s.LookupInvite("ZZZZ-ZZZZ"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown code: got %v, want ErrNotFound", err)
	}
}

func TestJoinConsumesCodeExactlyOnce(t *testing.T) {
	s := New()
	boardID := mustCreateBoard(t, s, alice, "Board")
	code, _ := s.GenerateInvite(alice, boardID)

	joined, err := s.JoinBoardWithCode(bob, code)
	if err != nil {
		t.Fatalf("JoinBoardWithCode: %v", err)
	}
	if joined != boardID {
		t.Fatalf("joined board %d, want %d", joined, boardID)
	}

	// Consumed: a second redemption, by anyone, fails.
	if _, err := s.JoinBoardWithCode(carol, code); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second join: got %v, want ErrNotFound", err)
	}

	members, _ := s.BoardMembers(alice, boardID)
	if len(members) != 2 {
		t.Fatalf("expected 2 members, got %+v", members)
	}
}

func TestJoinRejectsExistingMember(t *testing.T) {
	s := New()
	boardID := mustCreateBoard(t, s, alice, "Board")
	if err := s.InviteUserToBoard(alice, boardID, bob); err != nil {
		t.Fatalf("InviteUserToBoard: %v", err)
	}
	code, _ := s.GenerateInvite(alice, boardID)

	if _, err := s.JoinBoardWithCode(bob, code); !errors.Is(err, ErrConflict) {
		t.Fatalf("repeat join: got %v, want ErrConflict", err)
	}

	// The failed join must not have consumed the code.
	if _, err := s.LookupInvite(code); err != nil {
		t.Fatalf("code consumed by rejected join: %v", err)
	}
}

func TestRevokeInvite(t *testing.T) {
	s := New()
	boardID := mustCreateBoard(t, s, alice, "Board")
	if err := s.InviteUserToBoard(alice, boardID, bob); err != nil {
		t.Fatalf("InviteUserToBoard: %v", err)
	}
	code, _ := s.GenerateInvite(alice, boardID)

	if err := s.RevokeInvite(bob, code); !errors.Is(err, ErrForbidden) {
		t.Fatalf("member revoke: got %v, want ErrForbidden", err)
	}
	if err := s.RevokeInvite(alice, code); err != nil {
		t.Fatalf("RevokeInvite: %v", err)
	}
	if _, err := s.JoinBoardWithCode(carol, code); !errors.Is(err, ErrNotFound) {
		t.Fatalf("revoked code redeemable: %v", err)
	}
	if err := s.RevokeInvite(alice, code); !errors.Is(err, ErrNotFound) {
		t.Fatalf("double revoke: got %v, want ErrNotFound", err)
	}
}
