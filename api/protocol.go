package api

const requestBodyMaxSize = 64 * 1024 // 64 KiB

type createBoardRequest struct {
	Name string `json:"name"`
}

type updateBoardRequest struct {
	Name string `json:"name"`
}

type createColumnRequest struct {
	Name string `json:"name"`
}

type updateColumnRequest struct {
	Name string `json:"name"`
}

type orderRequest struct {
	IDs []uint64 `json:"ids"`
}

type createCardRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []uint64 `json:"tags"`
	AssigneeID  string   `json:"assigneeId"`
}

type updateCardRequest struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Tags        *[]uint64 `json:"tags"`
	AssigneeID  *string   `json:"assigneeId"`
}

type moveCardRequest struct {
	ColumnID uint64 `json:"columnId"`
	Position int    `json:"position"`
}

type createTagRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

type updateTagRequest struct {
	Name  *string `json:"name"`
	Color *string `json:"color"`
}

type memberRequest struct {
	UserID string `json:"userId"`
}

type profileRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type idResponse struct {
	ID uint64 `json:"id"`
}

type codeResponse struct {
	InviteCode string `json:"inviteCode"`
}

type boardIDResponse struct {
	BoardID uint64 `json:"boardId"`
}

type existsResponse struct {
	Exists bool `json:"exists"`
}

type errorResponse struct {
	Error string `json:"error"`
}
