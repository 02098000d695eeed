package scheduling

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func newHandlerContext(method, target string, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func newTestHandler() (*Handler, *mockStore) {
	svc, store := newTestService()
	return NewHandler(svc), store
}

func httpCode(t *testing.T, err error) int {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	return he.Code
}

func TestGetScheduleDay(t *testing.T) {
	h, store := newTestHandler()
	store.appts[1] = testAppt(1, "2024-12-16", "14:00")

	c, rec := newHandlerContext(http.MethodGet, "/schedule?date=2024-12-16", "")
	if err := h.GetSchedule(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var view ScheduleView
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.Mode != ViewDay {
		t.Errorf("expected day mode, got %s", view.Mode)
	}
	if len(view.Days) != 1 || view.Days[0].BookedCount != 1 {
		t.Errorf("unexpected view shape: %d days", len(view.Days))
	}
}

func TestGetScheduleWeek(t *testing.T) {
	h, _ := newTestHandler()
	c, rec := newHandlerContext(http.MethodGet, "/schedule?date=2024-12-18&view=week", "")
	if err := h.GetSchedule(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var view ScheduleView
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(view.Days) != 7 {
		t.Errorf("expected 7 days, got %d", len(view.Days))
	}
	if view.Range.Start.String() != "2024-12-15" {
		t.Errorf("unexpected week start %s", view.Range.Start)
	}
}

func TestGetScheduleBadInput(t *testing.T) {
	h, _ := newTestHandler()

	c, _ := newHandlerContext(http.MethodGet, "/schedule", "")
	if code := httpCode(t, h.GetSchedule(c)); code != http.StatusBadRequest {
		t.Errorf("missing date: expected 400, got %d", code)
	}

	c, _ = newHandlerContext(http.MethodGet, "/schedule?date=18-12-2024", "")
	if code := httpCode(t, h.GetSchedule(c)); code != http.StatusBadRequest {
		t.Errorf("bad date: expected 400, got %d", code)
	}

	c, _ = newHandlerContext(http.MethodGet, "/schedule?date=2024-12-18&view=year", "")
	if code := httpCode(t, h.GetSchedule(c)); code != http.StatusBadRequest {
		t.Errorf("bad view: expected 400, got %d", code)
	}
}

func TestBookAppointmentEndpoint(t *testing.T) {
	h, _ := newTestHandler()
	body := `{"date":"2024-12-16","slot":"14:00","patient_id":1,"service_id":1}`
	c, rec := newHandlerContext(http.MethodPost, "/appointments", body)
	if err := h.BookAppointment(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}

	var appt Appointment
	if err := json.Unmarshal(rec.Body.Bytes(), &appt); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if appt.Status != StatusScheduled {
		t.Errorf("expected SCHEDULED, got %s", appt.Status)
	}
}

func TestBookAppointmentStatusMapping(t *testing.T) {
	h, store := newTestHandler()
	store.appts[1] = testAppt(1, "2024-12-16", "14:00")

	cases := []struct {
		name string
		body string
		want int
	}{
		{"validation", `{"date":"2024-12-16","slot":"14:00","patient_id":0,"service_id":1}`, http.StatusBadRequest},
		{"conflict", `{"date":"2024-12-16","slot":"14:00","patient_id":1,"service_id":1}`, http.StatusConflict},
		{"past slot", `{"date":"2024-12-16","slot":"09:00","patient_id":1,"service_id":1}`, http.StatusUnprocessableEntity},
		{"off grid", `{"date":"2024-12-16","slot":"14:15","patient_id":1,"service_id":1}`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		c, _ := newHandlerContext(http.MethodPost, "/appointments", tc.body)
		if code := httpCode(t, h.BookAppointment(c)); code != tc.want {
			t.Errorf("%s: expected %d, got %d", tc.name, tc.want, code)
		}
	}
}

func TestListAppointmentsEndpoint(t *testing.T) {
	h, store := newTestHandler()
	store.appts[1] = testAppt(1, "2024-12-16", "14:00")
	store.appts[2] = testAppt(2, "2024-12-17", "09:00")
	store.appts[3] = testAppt(3, "2024-12-25", "09:00")

	c, rec := newHandlerContext(http.MethodGet, "/appointments?start=2024-12-15&end=2024-12-21", "")
	if err := h.ListAppointments(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var resp struct {
		Data  []*Appointment `json:"data"`
		Total int            `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Total != 2 || len(resp.Data) != 2 {
		t.Errorf("expected 2 appointments in range, got total=%d len=%d", resp.Total, len(resp.Data))
	}
}

func TestListAppointmentsBadRange(t *testing.T) {
	h, _ := newTestHandler()
	c, _ := newHandlerContext(http.MethodGet, "/appointments?start=2024-12-21&end=2024-12-15", "")
	if code := httpCode(t, h.ListAppointments(c)); code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", code)
	}
}

func TestGetAppointmentEndpoint(t *testing.T) {
	h, store := newTestHandler()
	store.appts[1] = testAppt(1, "2024-12-16", "14:00")

	c, rec := newHandlerContext(http.MethodGet, "/appointments/1", "")
	c.SetParamNames("id")
	c.SetParamValues("1")
	if err := h.GetAppointment(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	c, _ = newHandlerContext(http.MethodGet, "/appointments/404", "")
	c.SetParamNames("id")
	c.SetParamValues("404")
	if code := httpCode(t, h.GetAppointment(c)); code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", code)
	}

	c, _ = newHandlerContext(http.MethodGet, "/appointments/abc", "")
	c.SetParamNames("id")
	c.SetParamValues("abc")
	if code := httpCode(t, h.GetAppointment(c)); code != http.StatusBadRequest {
		t.Errorf("expected 400 for non-numeric id, got %d", code)
	}
}

func TestRescheduleEndpoint(t *testing.T) {
	h, store := newTestHandler()
	store.appts[1] = testAppt(1, "2024-12-16", "14:00")

	c, rec := newHandlerContext(http.MethodPut, "/appointments/1/reschedule", `{"date":"2024-12-17","slot":"10:00"}`)
	c.SetParamNames("id")
	c.SetParamValues("1")
	if err := h.RescheduleAppointment(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var appt Appointment
	if err := json.Unmarshal(rec.Body.Bytes(), &appt); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if appt.ScheduledDate.String() != "2024-12-17" || appt.StartTime != "10:00:00" {
		t.Errorf("unexpected placement %s %s", appt.ScheduledDate, appt.StartTime)
	}
}

func TestReschedulePastAppointmentEndpoint(t *testing.T) {
	h, store := newTestHandler()
	store.appts[1] = testAppt(1, "2024-12-10", "14:00")

	c, _ := newHandlerContext(http.MethodPut, "/appointments/1/reschedule", `{"date":"2024-12-20","slot":"10:00"}`)
	c.SetParamNames("id")
	c.SetParamValues("1")
	if code := httpCode(t, h.RescheduleAppointment(c)); code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", code)
	}
}

func TestUpdateStatusEndpoint(t *testing.T) {
	h, store := newTestHandler()
	store.appts[1] = testAppt(1, "2024-12-16", "14:00")

	c, rec := newHandlerContext(http.MethodPatch, "/appointments/1/status", `{"status":"CONFIRMED"}`)
	c.SetParamNames("id")
	c.SetParamValues("1")
	if err := h.UpdateAppointmentStatus(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	c, _ = newHandlerContext(http.MethodPatch, "/appointments/1/status", `{"status":"LATE"}`)
	c.SetParamNames("id")
	c.SetParamValues("1")
	if code := httpCode(t, h.UpdateAppointmentStatus(c)); code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown status, got %d", code)
	}
}

func TestCancelEndpoint(t *testing.T) {
	h, store := newTestHandler()
	store.appts[1] = testAppt(1, "2024-12-16", "14:00")

	c, rec := newHandlerContext(http.MethodDelete, "/appointments/1", "")
	c.SetParamNames("id")
	c.SetParamValues("1")
	if err := h.CancelAppointment(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
	if len(store.appts) != 0 {
		t.Error("expected appointment removed")
	}
}
