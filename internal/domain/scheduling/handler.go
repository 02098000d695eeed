package scheduling

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/enkoy/clinic-admin/internal/platform/auth"
	"github.com/enkoy/clinic-admin/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("", auth.RequireRole("admin", "doctor", "receptionist"))
	g.GET("/schedule", h.GetSchedule)
	g.GET("/appointments", h.ListAppointments)
	g.GET("/appointments/:id", h.GetAppointment)
	g.POST("/appointments", h.BookAppointment)
	g.PUT("/appointments/:id/reschedule", h.RescheduleAppointment)
	g.PATCH("/appointments/:id/status", h.UpdateAppointmentStatus)
	g.DELETE("/appointments/:id", h.CancelAppointment)
}

// GetSchedule handles GET /schedule?date=YYYY-MM-DD&view=day|week|month.
func (h *Handler) GetSchedule(c echo.Context) error {
	dateStr := c.QueryParam("date")
	if dateStr == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "date query parameter is required")
	}
	ref, err := ParseDate(dateStr)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	mode, err := ParseViewMode(c.QueryParam("view"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	view, err := h.svc.View(c.Request().Context(), ref, mode)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, view)
}

// ListAppointments handles GET /appointments?start=&end=.
func (h *Handler) ListAppointments(c echo.Context) error {
	start, err := ParseDate(c.QueryParam("start"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid start date")
	}
	end, err := ParseDate(c.QueryParam("end"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid end date")
	}
	if end.Before(start) {
		return echo.NewHTTPError(http.StatusBadRequest, "end date precedes start date")
	}
	items, err := h.svc.List(c.Request().Context(), DateRange{Start: start, End: end})
	if err != nil {
		return httpError(err)
	}

	pg := pagination.FromContext(c)
	total := len(items)
	if pg.Offset < total {
		items = items[pg.Offset:]
	} else {
		items = nil
	}
	if len(items) > pg.Limit {
		items = items[:pg.Limit]
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) GetAppointment(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	appt, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, appt)
}

// BookAppointment handles POST /appointments.
func (h *Handler) BookAppointment(c echo.Context) error {
	var req BookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	appt, err := h.svc.Book(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, appt)
}

type rescheduleRequest struct {
	Date Date   `json:"date"`
	Slot string `json:"slot"`
}

// RescheduleAppointment handles PUT /appointments/:id/reschedule.
func (h *Handler) RescheduleAppointment(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req rescheduleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	appt, err := h.svc.Reschedule(c.Request().Context(), id, req.Date, req.Slot)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, appt)
}

type statusRequest struct {
	Status string `json:"status"`
}

// UpdateAppointmentStatus handles PATCH /appointments/:id/status.
func (h *Handler) UpdateAppointmentStatus(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req statusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	appt, err := h.svc.UpdateStatus(c.Request().Context(), id, req.Status)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, appt)
}

// CancelAppointment handles DELETE /appointments/:id.
func (h *Handler) CancelAppointment(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.svc.Cancel(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func parseID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

// httpError maps an engine failure to the status the UI layer keys its
// user-facing messages on.
func httpError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrPastSlot), errors.Is(err, ErrPastAppointment):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrBackend):
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
