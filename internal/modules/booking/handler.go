package booking

import (
	"errors"
	"net/http"
	"strconv"

	"studiorent/internal/domain"
	"studiorent/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes wires the public customer endpoint and the staff endpoints.
// The staff group must already carry auth and role middleware.
func (h *Handler) RegisterRoutes(public, staff *gin.RouterGroup) {
	public.POST("/bookings", h.CreateBooking)

	staff.POST("/bookings", h.CreateBooking)
	staff.POST("/bookings/technical", h.CreateTechnicalBooking)
	staff.PUT("/bookings/:id", h.UpdateBooking)
	staff.POST("/bookings/:id/cancel", h.CancelBooking)
}

func (h *Handler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", err.Error())
		return
	}
	req.Referer = c.GetHeader("Referer")

	b, err := h.service.Create(c.Request.Context(), req, actingUser(c))
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"booking": NewBookingResponse(b)})
}

func (h *Handler) CreateTechnicalBooking(c *gin.Context) {
	var req CreateTechnicalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", err.Error())
		return
	}

	staff := actingUser(c)
	if staff == nil {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	b, err := h.service.CreateTechnical(c.Request.Context(), req, staff)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"booking": NewBookingResponse(b)})
}

func (h *Handler) UpdateBooking(c *gin.Context) {
	var req UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", err.Error())
		return
	}

	staff := actingUser(c)
	if staff == nil {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	target, ok := h.targetBooking(c)
	if !ok {
		return
	}

	b, err := h.service.Update(c.Request.Context(), req, target, staff)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"booking": NewBookingResponse(b)})
}

func (h *Handler) CancelBooking(c *gin.Context) {
	actor := actingUser(c)
	if actor == nil {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	target, ok := h.targetBooking(c)
	if !ok {
		return
	}

	b, err := h.service.Cancel(c.Request.Context(), target, actor)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"booking": NewBookingResponse(b)})
}

func (h *Handler) targetBooking(c *gin.Context) (*domain.Booking, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking ID")
		return nil, false
	}

	b, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking not found")
		} else {
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load booking")
		}
		return nil, false
	}
	return b, true
}

// actingUser rebuilds the authenticated user from the context set by the JWT
// middleware. Nil on the public route.
func actingUser(c *gin.Context) *domain.User {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		return nil
	}
	return &domain.User{
		ID:   userID,
		Role: domain.UserRole(c.GetString("role")),
	}
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking time range")
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Room not found")
	case errors.Is(err, ErrInvalidPrepayment):
		response.Error(c, http.StatusConflict, "CONFLICT", "Invalid prepayment amount")
	case errors.Is(err, ErrConflict):
		response.Error(c, http.StatusConflict, "BOOKING_CONFLICT", "Selected period overlaps another booking")
	case errors.Is(err, ErrEmailConflict):
		response.Error(c, http.StatusConflict, "EMAIL_CONFLICT", "Email address belongs to another user")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to process booking")
	}
}
