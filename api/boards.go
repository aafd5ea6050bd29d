package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"github.com/caffeinepub/sprint-lane-7/store"
)

func createBoard(st *store.Store, auth Authenticator) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := auth.UserIDFromAuthHeader(c.Request().Header.Get(echo.HeaderAuthorization))
		if err != nil {
			return c.JSON(http.StatusUnauthorized, errorResponse{Error: err.Error()})
		}
		var req createBoardRequest
		if err := decodeBody(c, &req); err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid body"})
		}
		id, err := st.CreateBoard(userID, req.Name)
		if err != nil {
			return respondStoreError(c, err)
		}
		return c.JSON(http.StatusCreated, idResponse{ID: id})
	}
}

func getMyBoards(st *store.Store, auth Authenticator) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := auth.UserIDFromAuthHeader(c.Request().Header.Get(echo.HeaderAuthorization))
		if err != nil {
			return c.JSON(http.StatusUnauthorized, errorResponse{Error: err.Error()})
		}
		return c.JSON(http.StatusOK, st.MyBoards(userID))
	}
}

func getBoard(st *store.Store, auth Authenticator, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) (err error) {
		ctx := c.Request().Context()
		metrics, spanCtx := newBoardRequestMetrics(ctx, logger)
		if spanCtx != nil {
			c.SetRequest(c.Request().WithContext(spanCtx))
		}
		defer func() {
			metrics.Log(c.Response().Status, err)
		}()

		authStart := time.Now()
		userID, authErr := auth.UserIDFromAuthHeader(c.Request().Header.Get(echo.HeaderAuthorization))
		metrics.ObserveAuth(time.Since(authStart))
		if authErr != nil {
			metrics.SetErrorStage("auth")
			err = c.JSON(http.StatusUnauthorized, errorResponse{Error: authErr.Error()})
			return err
		}

		boardID, perr := paramID(c, "id")
		if perr != nil {
			metrics.SetErrorStage("invalid_board_id")
			err = c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid board id"})
			return err
		}

		fetchStart := time.Now()
		detail, fetchErr := st.GetBoard(userID, boardID)
		metrics.ObserveFetch(time.Since(fetchStart))
		if fetchErr != nil {
			metrics.SetErrorStage("store")
			err = respondStoreError(c, fetchErr)
			return err
		}

		cards := 0
		for _, col := range detail.Columns {
			cards += len(col.Cards)
		}
		metrics.SetColumnsReturned(len(detail.Columns))
		metrics.SetCardsReturned(cards)

		encodeStart := time.Now()
		err = c.JSON(http.StatusOK, detail)
		metrics.ObserveEncode(time.Since(encodeStart))
		if err != nil {
			metrics.SetErrorStage("encode_response")
		}
		return err
	}
}

func updateBoard(st *store.Store, auth Authenticator) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := auth.UserIDFromAuthHeader(c.Request().Header.Get(echo.HeaderAuthorization))
		if err != nil {
			return c.JSON(http.StatusUnauthorized, errorResponse{Error: err.Error()})
		}
		boardID, err := paramID(c, "id")
		if err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid board id"})
		}
		var req updateBoardRequest
		if err := decodeBody(c, &req); err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid body"})
		}
		if err := st.UpdateBoard(userID, boardID, req.Name); err != nil {
			return respondStoreError(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}

func deleteBoard(st *store.Store, auth Authenticator) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := auth.UserIDFromAuthHeader(c.Request().Header.Get(echo.HeaderAuthorization))
		if err != nil {
			return c.JSON(http.StatusUnauthorized, errorResponse{Error: err.Error()})
		}
		boardID, err := paramID(c, "id")
		if err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid board id"})
		}
		if err := st.DeleteBoard(userID, boardID); err != nil {
			return respondStoreError(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}

func exportBoardCSV(st *store.Store, auth Authenticator) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := auth.UserIDFromAuthHeader(c.Request().Header.Get(echo.HeaderAuthorization))
		if err != nil {
			return c.JSON(http.StatusUnauthorized, errorResponse{Error: err.Error()})
		}
		boardID, err := paramID(c, "id")
		if err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid board id"})
		}
		csv, err := st.ExportBoardCSV(userID, boardID)
		if err != nil {
			return respondStoreError(c, err)
		}
		c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="board.csv"`)
		return c.Blob(http.StatusOK, "text/csv; charset=utf-8", []byte(csv))
	}
}
