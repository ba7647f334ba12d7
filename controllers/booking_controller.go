package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Bossppp/cozy-hotel-bookings/middleware"
	"github.com/Bossppp/cozy-hotel-bookings/models"
	"github.com/Bossppp/cozy-hotel-bookings/services"
	"github.com/Bossppp/cozy-hotel-bookings/utils"
)

// createBookingPayload matches the client form: ISO-8601 dates plus a hotel
// reference that may arrive as a number, numeric string or expanded object.
type createBookingPayload struct {
	StartDate time.Time       `json:"start_date"`
	EndDate   time.Time       `json:"end_date"`
	Hotel     models.HotelRef `json:"hotel"`
}

type BookingController struct {
	BookingSvc *services.BookingService
	ExportSvc  *services.ExportService
}

func NewBookingController(bookingSvc *services.BookingService, exportSvc *services.ExportService) *BookingController {
	return &BookingController{BookingSvc: bookingSvc, ExportSvc: exportSvc}
}

// GET /api/v1/bookings
func (ctrl *BookingController) GetBookings(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "not authorized to access this route")
		return
	}

	bookings, err := ctrl.BookingSvc.ListFor(c.Request.Context(), user)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to load bookings")
		return
	}

	views := make([]models.BookingView, 0, len(bookings))
	for _, b := range bookings {
		views = append(views, b.AsExpanded())
	}
	utils.JSONList(c, http.StatusOK, len(views), views)
}

// POST /api/v1/bookings
func (ctrl *BookingController) CreateBooking(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "not authorized to access this route")
		return
	}

	var payload createBookingPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload")
		return
	}
	if payload.Hotel.ID == 0 {
		utils.JSONError(c, http.StatusBadRequest, "hotel reference is required")
		return
	}

	booking, err := ctrl.BookingSvc.Create(c.Request.Context(), user, services.BookingInput{
		StartDate: payload.StartDate,
		EndDate:   payload.EndDate,
		HotelID:   payload.Hotel.ID,
	})
	if err != nil {
		respondBookingError(c, err)
		return
	}

	utils.JSONSuccess(c, http.StatusCreated, booking.AsReference())
}

// DELETE /api/v1/bookings/:id
func (ctrl *BookingController) CancelBooking(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "not authorized to access this route")
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		utils.JSONError(c, http.StatusBadRequest, "invalid booking id")
		return
	}

	if err := ctrl.BookingSvc.Cancel(c.Request.Context(), user, id); err != nil {
		respondBookingError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{})
}

// GET /api/v1/bookings/export?from=YYYY-MM-DD&to=YYYY-MM-DD (admin)
func (ctrl *BookingController) ExportBookings(c *gin.Context) {
	from, err := parseDateQuery(c.Query("from"), time.Now().UTC().AddDate(0, -1, 0))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid from date, expected YYYY-MM-DD")
		return
	}
	to, err := parseDateQuery(c.Query("to"), time.Now().UTC().AddDate(0, 3, 0))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid to date, expected YYYY-MM-DD")
		return
	}

	report, err := ctrl.ExportSvc.BookingsReport(c.Request.Context(), from, to)
	if err != nil {
		respondBookingError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+services.ReportFilename(from, to))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", report)
}

func parseDateQuery(raw string, def time.Time) (time.Time, error) {
	if raw == "" {
		return def, nil
	}
	return time.Parse("2006-01-02", raw)
}

func respondBookingError(c *gin.Context, err error) {
	switch {
	case services.IsValidation(err):
		utils.JSONError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrHotelNotFound):
		utils.JSONError(c, http.StatusNotFound, "hotel not found")
	case errors.Is(err, services.ErrBookingNotFound):
		utils.JSONError(c, http.StatusNotFound, "booking not found")
	case errors.Is(err, services.ErrForbidden):
		utils.JSONError(c, http.StatusForbidden, "not allowed to modify this booking")
	default:
		utils.JSONError(c, http.StatusInternalServerError, "something went wrong")
	}
}
