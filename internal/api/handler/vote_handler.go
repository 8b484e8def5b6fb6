package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/civicmap/civic-reports/internal/api/metrics"
	"github.com/civicmap/civic-reports/internal/core/domain"
	"github.com/civicmap/civic-reports/internal/core/ports"
)

// VoteHandler exposes the per-report voting endpoints.
type VoteHandler struct {
	votes ports.VoteService
}

func NewVoteHandler(votes ports.VoteService) *VoteHandler {
	return &VoteHandler{votes: votes}
}

// A null vote_value removes any existing vote.
type castVoteRequest struct {
	VoteValue *string `json:"vote_value" validate:"omitempty,oneof=up down"`
}

// Cast creates, updates, or removes the caller's vote on a report.
//
// @Summary      Cast or clear a vote
// @Tags         votes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string           true  "Report id"
// @Param        body  body      castVoteRequest  true  "Vote value, null to clear"
// @Success      200   {object}  messageResponse
// @Failure      404   {object}  errorResponse
// @Router       /reports/{id}/vote [put]
func (h *VoteHandler) Cast(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	reportID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid report id")
	}

	var req castVoteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	var value *domain.VoteValue
	if req.VoteValue != nil {
		v := domain.VoteValue(*req.VoteValue)
		value = &v
	}

	if err := h.votes.Upsert(c.Request().Context(), user.ID, reportID, value); err != nil {
		return err
	}

	if value != nil {
		metrics.VotesCastTotal.WithLabelValues(string(*value)).Inc()
	} else {
		metrics.VotesCastTotal.WithLabelValues("removed").Inc()
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Vote registered"})
}

// Mine returns the caller's vote on a report, if any.
//
// @Summary      Get own vote on a report
// @Tags         votes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Report id"
// @Success      200  {object}  domain.Vote
// @Failure      404  {object}  errorResponse
// @Router       /reports/{id}/vote [get]
func (h *VoteHandler) Mine(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	reportID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid report id")
	}
	vote, err := h.votes.Get(c.Request().Context(), user.ID, reportID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, vote)
}

// OfUser returns a specific user's vote on a report.
//
// @Summary      Get a user's vote on a report
// @Tags         votes
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string  true  "Report id"
// @Param        user_id  path      string  true  "User id"
// @Success      200      {object}  domain.Vote
// @Failure      404      {object}  errorResponse
// @Router       /reports/{id}/votes/{user_id} [get]
func (h *VoteHandler) OfUser(c echo.Context) error {
	reportID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid report id")
	}
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}
	vote, err := h.votes.Get(c.Request().Context(), userID, reportID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, vote)
}
