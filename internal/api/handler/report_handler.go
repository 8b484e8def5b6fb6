package handler

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/civicmap/civic-reports/internal/api/metrics"
	"github.com/civicmap/civic-reports/internal/core/domain"
	"github.com/civicmap/civic-reports/internal/core/ports"
)

// ReportHandler exposes the report CRUD and catalog endpoints.
type ReportHandler struct {
	reports ports.ReportService
}

func NewReportHandler(reports ports.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

type coordinatesPayload struct {
	Lat float64 `json:"lat" validate:"latitude"`
	Lng float64 `json:"lng" validate:"longitude"`
}

type createReportRequest struct {
	Title       string             `json:"title" validate:"required,max=120"`
	Description string             `json:"description" validate:"max=2000"`
	ReportType  string             `json:"report_type" validate:"required,oneof=highlight danger problem"`
	Location    coordinatesPayload `json:"location" validate:"required"`
}

type editReportRequest struct {
	Title       *string             `json:"title" validate:"omitempty,max=120"`
	Description *string             `json:"description" validate:"omitempty,max=2000"`
	ReportType  *string             `json:"report_type" validate:"omitempty,oneof=highlight danger problem"`
	Location    *coordinatesPayload `json:"location"`
}

type changeStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending_review active resolved archived rejected"`
}

// Create submits a new report.
//
// @Summary      Create a report
// @Tags         reports
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createReportRequest  true  "Report details"
// @Success      201   {object}  domain.Report
// @Failure      400   {object}  errorResponse
// @Router       /reports [post]
func (h *ReportHandler) Create(c echo.Context) error {
	var req createReportRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	report, err := h.reports.Create(c.Request().Context(), ports.CreateReportInput{
		Title:       req.Title,
		Description: req.Description,
		ReportType:  domain.ReportType(req.ReportType),
		Location:    domain.Coordinates{Lat: req.Location.Lat, Lng: req.Location.Lng},
	})
	if err != nil {
		return err
	}

	metrics.ReportsCreatedTotal.WithLabelValues(string(report.ReportType)).Inc()
	return c.JSON(http.StatusCreated, report)
}

// GetByID returns a single report.
//
// @Summary      Get a report
// @Tags         reports
// @Produce      json
// @Param        id   path      string  true  "Report id"
// @Success      200  {object}  domain.Report
// @Failure      404  {object}  errorResponse
// @Router       /reports/{id} [get]
func (h *ReportHandler) GetByID(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid report id")
	}
	report, err := h.reports.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, report)
}

// ListInBounds returns the reports inside a map viewport.
//
// @Summary      List reports in a bounding box
// @Tags         reports
// @Produce      json
// @Param        min_lat  query     number  true  "South edge"
// @Param        min_lng  query     number  true  "West edge"
// @Param        max_lat  query     number  true  "North edge"
// @Param        max_lng  query     number  true  "East edge"
// @Success      200      {array}   domain.Report
// @Failure      400      {object}  errorResponse
// @Router       /reports [get]
func (h *ReportHandler) ListInBounds(c echo.Context) error {
	box, err := parseBoundingBox(c)
	if err != nil {
		return err
	}
	reports, err := h.reports.ListInBounds(c.Request().Context(), box)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, reports)
}

// Edit updates a report's content fields.
//
// @Summary      Edit a report
// @Tags         reports
// @Accept       json
// @Security     BearerAuth
// @Param        id    path  string             true  "Report id"
// @Param        body  body  editReportRequest  true  "Fields to change"
// @Success      204
// @Failure      404   {object}  errorResponse
// @Router       /reports/{id} [patch]
func (h *ReportHandler) Edit(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid report id")
	}

	var req editReportRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	edit := ports.ReportEdit{Title: req.Title, Description: req.Description}
	if req.ReportType != nil {
		reportType := domain.ReportType(*req.ReportType)
		edit.ReportType = &reportType
	}
	if req.Location != nil {
		edit.Location = &domain.Coordinates{Lat: req.Location.Lat, Lng: req.Location.Lng}
	}

	if err := h.reports.Edit(c.Request().Context(), id, edit); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ChangeStatus moves a report through its moderation lifecycle.
//
// @Summary      Change a report's status
// @Tags         reports
// @Accept       json
// @Security     BearerAuth
// @Param        id    path  string               true  "Report id"
// @Param        body  body  changeStatusRequest  true  "New status"
// @Success      204
// @Failure      404   {object}  errorResponse
// @Router       /reports/{id}/status [patch]
func (h *ReportHandler) ChangeStatus(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid report id")
	}

	var req changeStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	if err := h.reports.ChangeStatus(c.Request().Context(), id, domain.ReportStatus(req.Status)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete removes a report.
//
// @Summary      Delete a report
// @Tags         reports
// @Security     BearerAuth
// @Param        id  path  string  true  "Report id"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /reports/{id} [delete]
func (h *ReportHandler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid report id")
	}
	if err := h.reports.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Types lists the valid report types.
//
// @Summary      List report types
// @Tags         reports
// @Produce      json
// @Success      200  {array}  string
// @Router       /reports/types [get]
func (h *ReportHandler) Types(c echo.Context) error {
	return c.JSON(http.StatusOK, domain.ReportTypes)
}

// Statuses lists the valid report statuses.
//
// @Summary      List report statuses
// @Tags         reports
// @Produce      json
// @Success      200  {array}  string
// @Router       /reports/statuses [get]
func (h *ReportHandler) Statuses(c echo.Context) error {
	return c.JSON(http.StatusOK, domain.ReportStatuses)
}

// parseBoundingBox reads the four viewport edges from the query string.
func parseBoundingBox(c echo.Context) (domain.BoundingBox, error) {
	var box domain.BoundingBox
	for _, edge := range []struct {
		name string
		dst  *float64
	}{
		{"min_lat", &box.MinLat},
		{"min_lng", &box.MinLng},
		{"max_lat", &box.MaxLat},
		{"max_lng", &box.MaxLng},
	} {
		raw := c.QueryParam(edge.name)
		if raw == "" {
			return domain.BoundingBox{}, echo.NewHTTPError(http.StatusBadRequest, edge.name+" is required")
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return domain.BoundingBox{}, echo.NewHTTPError(http.StatusBadRequest, edge.name+" must be a number")
		}
		*edge.dst = v
	}
	if box.MinLat > box.MaxLat || box.MinLng > box.MaxLng {
		return domain.BoundingBox{}, echo.NewHTTPError(http.StatusBadRequest, "bounding box edges are inverted")
	}
	return box, nil
}
