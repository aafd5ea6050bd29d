package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"github.com/caffeinepub/sprint-lane-7/store"
)

// Register wires up all API routes on the provided Echo instance.
func Register(e *echo.Echo, st *store.Store, auth Authenticator, logger *log.Logger) {
	e.POST("/api/boards", createBoard(st, auth))
	e.GET("/api/boards", getMyBoards(st, auth))
	e.GET("/api/boards/:id", getBoard(st, auth, logger))
	e.PATCH("/api/boards/:id", updateBoard(st, auth))
	e.DELETE("/api/boards/:id", deleteBoard(st, auth))

	e.POST("/api/boards/:id/columns", createColumn(st, auth))
	e.PATCH("/api/columns/:id", updateColumn(st, auth))
	e.DELETE("/api/columns/:id", deleteColumn(st, auth))
	e.PUT("/api/boards/:id/columns/order", reorderColumns(st, auth))

	e.POST("/api/columns/:id/cards", createCard(st, auth))
	e.PATCH("/api/cards/:id", updateCard(st, auth))
	e.DELETE("/api/cards/:id", deleteCard(st, auth))
	e.POST("/api/cards/:id/move", moveCard(st, auth))
	e.PUT("/api/columns/:id/cards/order", reorderCards(st, auth))

	e.POST("/api/boards/:id/tags", createTag(st, auth))
	e.PATCH("/api/tags/:id", updateTag(st, auth))
	e.DELETE("/api/tags/:id", deleteTag(st, auth))
	e.GET("/api/boards/:id/tags", getBoardTags(st, auth))

	e.POST("/api/boards/:id/invites", generateInvite(st, auth))
	e.GET("/api/boards/:id/invites", getBoardInvites(st, auth))
	e.DELETE("/api/invites/:code", revokeInvite(st, auth))
	e.GET("/api/invites/:code", getInviteDetails(st))
	e.POST("/api/invites/:code/join", joinBoard(st, auth))

	e.POST("/api/boards/:id/members", inviteUserToBoard(st, auth))
	e.DELETE("/api/boards/:id/members/:userId", removeMember(st, auth))
	e.GET("/api/boards/:id/members", getBoardMembers(st, auth))
	e.POST("/api/boards/:id/leave", leaveBoard(st, auth))
	e.POST("/api/boards/:id/transfer", transferOwnership(st, auth))

	e.PUT("/api/profile", setUserProfile(st, auth))
	e.GET("/api/profile", getUserProfile(st, auth))
	e.GET("/api/profile/exists", hasUserProfile(st, auth))
	e.GET("/api/users/lookup", lookupUser(st, auth))
	e.GET("/api/users/:principal", getUserProfileByPrincipal(st))

	e.GET("/api/boards/:id/export.csv", exportBoardCSV(st, auth))

	e.GET("/healthz", healthz())
}

func healthz() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}
}

// decodeBody decodes a size-capped JSON request body, rejecting unknown
// fields.
func decodeBody(c echo.Context, dst any) error {
	lr := io.LimitReader(c.Request().Body, requestBodyMaxSize)
	dec := sonic.ConfigStd.NewDecoder(lr)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func paramID(c echo.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}

// respondStoreError maps the store error taxonomy onto HTTP statuses.
func respondStoreError(c echo.Context, err error) error {
	var verr store.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.JSON(http.StatusBadRequest, errorResponse{Error: verr.Error()})
	case errors.Is(err, store.ErrForbidden):
		return c.JSON(http.StatusForbidden, errorResponse{Error: "forbidden"})
	case errors.Is(err, store.ErrNotFound):
		return c.JSON(http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, store.ErrConflict):
		return c.JSON(http.StatusConflict, errorResponse{Error: err.Error()})
	}
	c.Logger().Error(err)
	return c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
}
