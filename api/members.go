package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/caffeinepub/sprint-lane-7/store"
)

func generateInvite(st *store.Store, auth Authenticator) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := auth.UserIDFromAuthHeader(c.Request().Header.Get(echo.HeaderAuthorization))
		if err != nil {
			return c.JSON(http.StatusUnauthorized, errorResponse{Error: err.Error()})
		}
		boardID, err := paramID(c, "id")
		if err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid board id"})
		}
		code, err := st.GenerateInvite(userID, boardID)
		if err != nil {
			return respondStoreError(c, err)
		}
		return c.JSON(http.StatusCreated, codeResponse{InviteCode: code})
	}
}

func getBoardInvites(st *store.Store, auth Authenticator) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := auth.UserIDFromAuthHeader(c.Request().Header.Get(echo.HeaderAuthorization))
		if err != nil {
			return c.JSON(http.StatusUnauthorized, errorResponse{Error: err.Error()})
		}
		boardID, err := paramID(c, "id")
		if err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid board id"})
		}
		invites, err := st.BoardInvites(userID, boardID)
		if err != nil {
			return respondStoreError(c, err)
		}
		return c.JSON(http.StatusOK, invites)
	}
}

func revokeInvite(st *store.Store, auth Authenticator) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := auth.UserIDFromAuthHeader(c.Request().Header.Get(echo.HeaderAuthorization))
		if err != nil {
			return c.JSON(http.StatusUnauthorized, errorResponse{Error: err.Error()})
		}
		if err := st.RevokeInvite(userID, c.Param("code")); err != nil {
			return respondStoreError(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}

// getInviteDetails is public: anyone holding a code can see the board name
// and member count, nothing else.
func getInviteDetails(st *store.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		details, err := st.LookupInvite(c.Param("code"))
		if err != nil {
			return respondStoreError(c, err)
		}
		return c.JSON(http.StatusOK, details)
	}
}

func joinBoard(st *store.Store, auth Authenticator) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := auth.UserIDFromAuthHeader(c.Request().Header.Get(echo.HeaderAuthorization))
		if err != nil {
			return c.JSON(http.StatusUnauthorized, errorResponse{Error: err.Error()})
		}
		boardID, err := st.JoinBoardWithCode(userID, c.Param("code"))
		if err != nil {
			return respondStoreError(c, err)
		}
		return c.JSON(http.StatusOK, boardIDResponse{BoardID: boardID})
	}
}

func inviteUserToBoard(st *store.Store, auth Authenticator) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := auth.UserIDFromAuthHeader(c.Request().Header.Get(echo.HeaderAuthorization))
		if err != nil {
			return c.JSON(http.StatusUnauthorized, errorResponse{Error: err.Error()})
		}
		boardID, err := paramID(c, "id")
		if err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid board id"})
		}
		var req memberRequest
		if err := decodeBody(c, &req); err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid body"})
		}
		if err := st.InviteUserToBoard(userID, boardID, req.UserID); err != nil {
			return respondStoreError(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}

func removeMember(st *store.Store, auth Authenticator) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := auth.UserIDFromAuthHeader(c.Request().Header.Get(echo.HeaderAuthorization))
		if err != nil {
			return c.JSON(http.StatusUnauthorized, errorResponse{Error: err.Error()})
		}
		boardID, err := paramID(c, "id")
		if err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid board id"})
		}
		if err := st.RemoveMember(userID, boardID, c.Param("userId")); err != nil {
			return respondStoreError(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}

func getBoardMembers(st *store.Store, auth Authenticator) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := auth.UserIDFromAuthHeader(c.Request().Header.Get(echo.HeaderAuthorization))
		if err != nil {
			return c.JSON(http.StatusUnauthorized, errorResponse{Error: err.Error()})
		}
		boardID, err := paramID(c, "id")
		if err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid board id"})
		}
		members, err := st.BoardMembers(userID, boardID)
		if err != nil {
			return respondStoreError(c, err)
		}
		return c.JSON(http.StatusOK, members)
	}
}

func leaveBoard(st *store.Store, auth Authenticator) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := auth.UserIDFromAuthHeader(c.Request().Header.Get(echo.HeaderAuthorization))
		if err != nil {
			return c.JSON(http.StatusUnauthorized, errorResponse{Error: err.Error()})
		}
		boardID, err := paramID(c, "id")
		if err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid board id"})
		}
		if err := st.LeaveBoard(userID, boardID); err != nil {
			return respondStoreError(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}

func transferOwnership(st *store.Store, auth Authenticator) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := auth.UserIDFromAuthHeader(c.Request().Header.Get(echo.HeaderAuthorization))
		if err != nil {
			return c.JSON(http.StatusUnauthorized, errorResponse{Error: err.Error()})
		}
		boardID, err := paramID(c, "id")
		if err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid board id"})
		}
		var req memberRequest
		if err := decodeBody(c, &req); err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid body"})
		}
		if err := st.TransferOwnership(userID, boardID, req.UserID); err != nil {
			return respondStoreError(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}
