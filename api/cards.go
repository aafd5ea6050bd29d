package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/caffeinepub/sprint-lane-7/store"
)

func createColumn(st *store.Store, auth Authenticator) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := auth.UserIDFromAuthHeader(c.Request().Header.Get(echo.HeaderAuthorization))
		if err != nil {
			return c.JSON(http.StatusUnauthorized, errorResponse{Error: err.Error()})
		}
		boardID, err := paramID(c, "id")
		if err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid board id"})
		}
		var req createColumnRequest
		if err := decodeBody(c, &req); err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid body"})
		}
		id, err := st.CreateColumn(userID, boardID, req.Name)
		if err != nil {
			return respondStoreError(c, err)
		}
		return c.JSON(http.StatusCreated, idResponse{ID: id})
	}
}

func updateColumn(st *store.Store, auth Authenticator) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := auth.UserIDFromAuthHeader(c.Request().Header.Get(echo.HeaderAuthorization))
		if err != nil {
			return c.JSON(http.StatusUnauthorized, errorResponse{Error: err.Error()})
		}
		columnID, err := paramID(c, "id")
		if err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid column id"})
		}
		var req updateColumnRequest
		if err := decodeBody(c, &req); err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid body"})
		}
		if err := st.UpdateColumn(userID, columnID, req.Name); err != nil {
			return respondStoreError(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}

func deleteColumn(st *store.Store, auth Authenticator) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := auth.UserIDFromAuthHeader(c.Request().Header.Get(echo.HeaderAuthorization))
		if err != nil {
			return c.JSON(http.StatusUnauthorized, errorResponse{Error: err.Error()})
		}
		columnID, err := paramID(c, "id")
		if err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid column id"})
		}
		if err := st.DeleteColumn(userID, columnID); err != nil {
			return respondStoreError(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}

func reorderColumns(st *store.Store, auth Authenticator) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := auth.UserIDFromAuthHeader(c.Request().Header.Get(echo.HeaderAuthorization))
		if err != nil {
			return c.JSON(http.StatusUnauthorized, errorResponse{Error: err.Error()})
		}
		boardID, err := paramID(c, "id")
		if err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid board id"})
		}
		var req orderRequest
		if err := decodeBody(c, &req); err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid body"})
		}
		if err := st.ReorderColumns(userID, boardID, req.IDs); err != nil {
			return respondStoreError(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}

func createCard(st *store.Store, auth Authenticator) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := auth.UserIDFromAuthHeader(c.Request().Header.Get(echo.HeaderAuthorization))
		if err != nil {
			return c.JSON(http.StatusUnauthorized, errorResponse{Error: err.Error()})
		}
		columnID, err := paramID(c, "id")
		if err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid column id"})
		}
		var req createCardRequest
		if err := decodeBody(c, &req); err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid body"})
		}
		id, err := st.CreateCard(userID, columnID, req.Title, req.Description, req.Tags, req.AssigneeID)
		if err != nil {
			return respondStoreError(c, err)
		}
		return c.JSON(http.StatusCreated, idResponse{ID: id})
	}
}

func updateCard(st *store.Store, auth Authenticator) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := auth.UserIDFromAuthHeader(c.Request().Header.Get(echo.HeaderAuthorization))
		if err != nil {
			return c.JSON(http.StatusUnauthorized, errorResponse{Error: err.Error()})
		}
		cardID, err := paramID(c, "id")
		if err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid card id"})
		}
		var req updateCardRequest
		if err := decodeBody(c, &req); err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid body"})
		}
		upd := store.CardUpdate{
			Title:       req.Title,
			Description: req.Description,
			Tags:        req.Tags,
			AssigneeID:  req.AssigneeID,
		}
		if err := st.UpdateCard(userID, cardID, upd); err != nil {
			return respondStoreError(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}

func deleteCard(st *store.Store, auth Authenticator) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := auth.UserIDFromAuthHeader(c.Request().Header.Get(echo.HeaderAuthorization))
		if err != nil {
			return c.JSON(http.StatusUnauthorized, errorResponse{Error: err.Error()})
		}
		cardID, err := paramID(c, "id")
		if err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid card id"})
		}
		if err := st.DeleteCard(userID, cardID); err != nil {
			return respondStoreError(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}

func moveCard(st *store.Store, auth Authenticator) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := auth.UserIDFromAuthHeader(c.Request().Header.Get(echo.HeaderAuthorization))
		if err != nil {
			return c.JSON(http.StatusUnauthorized, errorResponse{Error: err.Error()})
		}
		cardID, err := paramID(c, "id")
		if err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid card id"})
		}
		var req moveCardRequest
		if err := decodeBody(c, &req); err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid body"})
		}
		if err := st.MoveCard(userID, cardID, req.ColumnID, req.Position); err != nil {
			return respondStoreError(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}

func reorderCards(st *store.Store, auth Authenticator) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := auth.UserIDFromAuthHeader(c.Request().Header.Get(echo.HeaderAuthorization))
		if err != nil {
			return c.JSON(http.StatusUnauthorized, errorResponse{Error: err.Error()})
		}
		columnID, err := paramID(c, "id")
		if err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid column id"})
		}
		var req orderRequest
		if err := decodeBody(c, &req); err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid body"})
		}
		if err := st.ReorderCards(userID, columnID, req.IDs); err != nil {
			return respondStoreError(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}

func createTag(st *store.Store, auth Authenticator) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := auth.UserIDFromAuthHeader(c.Request().Header.Get(echo.HeaderAuthorization))
		if err != nil {
			return c.JSON(http.StatusUnauthorized, errorResponse{Error: err.Error()})
		}
		boardID, err := paramID(c, "id")
		if err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid board id"})
		}
		var req createTagRequest
		if err := decodeBody(c, &req); err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid body"})
		}
		id, err := st.CreateTag(userID, boardID, req.Name, req.Color)
		if err != nil {
			return respondStoreError(c, err)
		}
		return c.JSON(http.StatusCreated, idResponse{ID: id})
	}
}

func updateTag(st *store.Store, auth Authenticator) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := auth.UserIDFromAuthHeader(c.Request().Header.Get(echo.HeaderAuthorization))
		if err != nil {
			return c.JSON(http.StatusUnauthorized, errorResponse{Error: err.Error()})
		}
		tagID, err := paramID(c, "id")
		if err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid tag id"})
		}
		var req updateTagRequest
		if err := decodeBody(c, &req); err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid body"})
		}
		if err := st.UpdateTag(userID, tagID, req.Name, req.Color); err != nil {
			return respondStoreError(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}

func deleteTag(st *store.Store, auth Authenticator) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := auth.UserIDFromAuthHeader(c.Request().Header.Get(echo.HeaderAuthorization))
		if err != nil {
			return c.JSON(http.StatusUnauthorized, errorResponse{Error: err.Error()})
		}
		tagID, err := paramID(c, "id")
		if err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid tag id"})
		}
		if err := st.DeleteTag(userID, tagID); err != nil {
			return respondStoreError(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}

func getBoardTags(st *store.Store, auth Authenticator) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := auth.UserIDFromAuthHeader(c.Request().Header.Get(echo.HeaderAuthorization))
		if err != nil {
			return c.JSON(http.StatusUnauthorized, errorResponse{Error: err.Error()})
		}
		boardID, err := paramID(c, "id")
		if err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid board id"})
		}
		tags, err := st.BoardTags(userID, boardID)
		if err != nil {
			return respondStoreError(c, err)
		}
		return c.JSON(http.StatusOK, tags)
	}
}
