package domain

import "time"

// Member roles. Exactly one owner exists per board at any time.
const (
	RoleOwner  = "owner"
	RoleMember = "member"
)

// Board is the top-level container owned by one user and shared with members.
type Board struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	OwnerID   string    `json:"ownerId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Column is an ordered lane within a board. Position is a dense 0-based rank
// unique within the board.
type Column struct {
	ID        uint64    `json:"id"`
	BoardID   uint64    `json:"boardId"`
	Name      string    `json:"name"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"createdAt"`
}

// Card is a single board item. BoardID is denormalized so cascades and
// authorization checks never need a column lookup.
type Card struct {
	ID          uint64    `json:"id"`
	ColumnID    uint64    `json:"columnId"`
	BoardID     uint64    `json:"boardId"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Tags        []uint64  `json:"tags,omitempty"`
	AssigneeID  string    `json:"assigneeId,omitempty"`
	Position    int       `json:"position"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Tag is a board-scoped label. Color is a 7-char #RRGGBB hex string.
type Tag struct {
	ID      uint64 `json:"id"`
	BoardID uint64 `json:"boardId"`
	Name    string `json:"name"`
	Color   string `json:"color"`
}

// BoardMember records that a user has access to a board. Absence of a row
// means no access.
type BoardMember struct {
	BoardID  uint64    `json:"boardId"`
	UserID   string    `json:"userId"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joinedAt"`
}

// BoardInvite is a single-use join token, removed on consumption or revocation.
type BoardInvite struct {
	ID        uint64    `json:"id"`
	BoardID   uint64    `json:"boardId"`
	Code      string    `json:"inviteCode"`
	CreatedAt time.Time `json:"createdAt"`
}
