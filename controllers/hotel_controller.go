package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Bossppp/cozy-hotel-bookings/services"
	"github.com/Bossppp/cozy-hotel-bookings/utils"
)

type HotelController struct {
	HotelSvc *services.HotelService
}

func NewHotelController(svc *services.HotelService) *HotelController {
	return &HotelController{HotelSvc: svc}
}

// parseIDParam reads the numeric :id path segment.
func parseIDParam(c *gin.Context) (uint, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// GET /api/v1/hotels
func (ctrl *HotelController) GetHotels(c *gin.Context) {
	hotels, err := ctrl.HotelSvc.List(c.Request.Context())
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to load hotels")
		return
	}
	utils.JSONList(c, http.StatusOK, len(hotels), hotels)
}

// GET /api/v1/hotels/:id
func (ctrl *HotelController) GetHotelByID(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		utils.JSONError(c, http.StatusBadRequest, "invalid hotel id")
		return
	}

	hotel, err := ctrl.HotelSvc.Get(c.Request.Context(), id)
	if err != nil {
		respondHotelError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, hotel)
}

// POST /api/v1/hotels (admin)
func (ctrl *HotelController) CreateHotel(c *gin.Context) {
	var payload services.HotelInput
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload")
		return
	}

	hotel, err := ctrl.HotelSvc.Create(c.Request.Context(), payload)
	if err != nil {
		respondHotelError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, hotel)
}

// PUT /api/v1/hotels/:id (admin)
func (ctrl *HotelController) UpdateHotel(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		utils.JSONError(c, http.StatusBadRequest, "invalid hotel id")
		return
	}

	var payload services.HotelInput
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload")
		return
	}

	hotel, err := ctrl.HotelSvc.Update(c.Request.Context(), id, payload)
	if err != nil {
		respondHotelError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, hotel)
}

// DELETE /api/v1/hotels/:id (admin)
func (ctrl *HotelController) DeleteHotel(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		utils.JSONError(c, http.StatusBadRequest, "invalid hotel id")
		return
	}

	if err := ctrl.HotelSvc.Delete(c.Request.Context(), id); err != nil {
		respondHotelError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{})
}

func respondHotelError(c *gin.Context, err error) {
	switch {
	case services.IsValidation(err):
		utils.JSONError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrHotelNotFound):
		utils.JSONError(c, http.StatusNotFound, "hotel not found")
	default:
		utils.JSONError(c, http.StatusInternalServerError, "something went wrong")
	}
}
