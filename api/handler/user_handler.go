package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/daniyarzhalgas/TripMate-backend/api/middleware"
	"github.com/daniyarzhalgas/TripMate-backend/internal/dto"

	"github.com/labstack/echo/v4"
)

func (h *AuthHandler) Me(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, errors.New("unauthorized"))
	}
	profile, err := h.Service.GetProfile(c.Request().Context(), userID)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.OK(dto.UserProfileResponseFromEntity(profile), ""))
}

func (h *AuthHandler) AdminListAuthEvents(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	events, err := h.Service.ListAuthEvents(c.Request().Context(), c.QueryParam("email"), limit)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.OK(dto.AuthEventResponsesFromEntities(events), ""))
}
