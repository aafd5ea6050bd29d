package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/caffeinepub/sprint-lane-7/store"
)

func setUserProfile(st *store.Store, auth Authenticator) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := auth.UserIDFromAuthHeader(c.Request().Header.Get(echo.HeaderAuthorization))
		if err != nil {
			return c.JSON(http.StatusUnauthorized, errorResponse{Error: err.Error()})
		}
		var req profileRequest
		if err := decodeBody(c, &req); err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid body"})
		}
		if err := st.SetUserProfile(userID, req.Username, req.Email); err != nil {
			return respondStoreError(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}

func getUserProfile(st *store.Store, auth Authenticator) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := auth.UserIDFromAuthHeader(c.Request().Header.Get(echo.HeaderAuthorization))
		if err != nil {
			return c.JSON(http.StatusUnauthorized, errorResponse{Error: err.Error()})
		}
		profile, err := st.UserProfile(userID)
		if err != nil {
			return respondStoreError(c, err)
		}
		return c.JSON(http.StatusOK, profile)
	}
}

func hasUserProfile(st *store.Store, auth Authenticator) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := auth.UserIDFromAuthHeader(c.Request().Header.Get(echo.HeaderAuthorization))
		if err != nil {
			return c.JSON(http.StatusUnauthorized, errorResponse{Error: err.Error()})
		}
		return c.JSON(http.StatusOK, existsResponse{Exists: st.HasUserProfile(userID)})
	}
}

func lookupUser(st *store.Store, auth Authenticator) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, err := auth.UserIDFromAuthHeader(c.Request().Header.Get(echo.HeaderAuthorization)); err != nil {
			return c.JSON(http.StatusUnauthorized, errorResponse{Error: err.Error()})
		}
		profile, err := st.LookupUser(c.QueryParam("q"))
		if err != nil {
			return respondStoreError(c, err)
		}
		return c.JSON(http.StatusOK, profile)
	}
}

// getUserProfileByPrincipal is public so collaborators can render member
// names without holding a token for that member.
func getUserProfileByPrincipal(st *store.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		profile, err := st.UserProfileByPrincipal(c.Param("principal"))
		if err != nil {
			return respondStoreError(c, err)
		}
		return c.JSON(http.StatusOK, profile)
	}
}
