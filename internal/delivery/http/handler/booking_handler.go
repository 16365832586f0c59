package handler

import (
	"net/http"
	"strconv"

	"hospital-management/internal/delivery/dto"
	"hospital-management/internal/domain/entity"
	"hospital-management/internal/service"
	"hospital-management/internal/usecase"
	"hospital-management/pkg/response"
	"hospital-management/pkg/validator"
)

type BookingHandler struct {
	bookingUsecase usecase.BookingUsecase
	validator      *validator.CustomValidator
}

func NewBookingHandler(bookingUsecase usecase.BookingUsecase, validator *validator.CustomValidator) *BookingHandler {
	return &BookingHandler{
		bookingUsecase: bookingUsecase,
		validator:      validator,
	}
}

func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateBookingRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	booking, err := h.bookingUsecase.CreateBooking(r.Context(), &req)
	if err != nil {
		h.writeError(w, err, "Failed to create booking")
		return
	}

	response.Success(w, http.StatusCreated, "Booking created successfully", booking)
}

func (h *BookingHandler) GetBookings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := &entity.BookingFilter{
		Date:    q.Get("date"),
		Status:  entity.PaymentStatus(q.Get("status")),
		Visited: entity.VisitStatus(q.Get("visited")),
	}
	if raw := q.Get("department_id"); raw != "" {
		departmentID, err := strconv.Atoi(raw)
		if err != nil {
			response.BadRequest(w, "Invalid department_id")
			return
		}
		filter.DepartmentID = departmentID
	}

	page := pageQuery(r)
	bookings, err := h.bookingUsecase.GetBookings(r.Context(), filter, page)
	if err != nil {
		h.writeError(w, err, "Failed to get bookings")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Bookings retrieved successfully", bookings.Bookings, meta(page, bookings.Total))
}

func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := uuidVar(w, r, "id", "booking")
	if !ok {
		return
	}

	booking, err := h.bookingUsecase.GetBooking(r.Context(), bookingID)
	if err != nil {
		h.writeError(w, err, "Failed to get booking")
		return
	}

	response.Success(w, http.StatusOK, "Booking retrieved successfully", booking)
}

func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := uuidVar(w, r, "id", "booking")
	if !ok {
		return
	}

	if err := h.bookingUsecase.CancelBooking(r.Context(), bookingID); err != nil {
		h.writeError(w, err, "Failed to cancel booking")
		return
	}

	response.Success(w, http.StatusOK, "Booking cancelled successfully", nil)
}

// GetDoctorQueue lists paid, unseen bookings; admins pick the department with department_id
func (h *BookingHandler) GetDoctorQueue(w http.ResponseWriter, r *http.Request) {
	departmentID := 0
	if raw := r.URL.Query().Get("department_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			response.BadRequest(w, "Invalid department_id")
			return
		}
		departmentID = id
	}

	queue, err := h.bookingUsecase.GetDoctorQueue(r.Context(), r.URL.Query().Get("date"), departmentID)
	if err != nil {
		h.writeError(w, err, "Failed to get queue")
		return
	}

	response.Success(w, http.StatusOK, "Queue retrieved successfully", queue)
}

func (h *BookingHandler) writeError(w http.ResponseWriter, err error, message string) {
	switch err {
	case usecase.ErrBookingNotFound:
		response.NotFound(w, "Booking not found")
	case usecase.ErrPatientNotFound:
		response.NotFound(w, "Patient not found")
	case usecase.ErrDepartmentNotFound, service.ErrDepartmentNotFound:
		response.NotFound(w, "Department not found")
	case usecase.ErrBookingDatePast:
		response.BadRequest(w, "Cannot book a past date")
	case usecase.ErrInvalidStatusFilter:
		response.BadRequest(w, "Invalid status or visited filter")
	case usecase.ErrAlreadyBooked:
		response.Conflict(w, "Patient already has a booking in this department on this date")
	case service.ErrQuotaFull:
		response.Conflict(w, "Department is fully booked for this date")
	case usecase.ErrBookingNotCancellable:
		response.Conflict(w, "Booking has been paid for or visited")
	case usecase.ErrNoDepartmentAssigned:
		response.Forbidden(w, "Doctor is not assigned to a department")
	default:
		commonError(w, err, message)
	}
}
