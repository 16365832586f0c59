package converter

import (
	"hospital-management/internal/delivery/dto"
	"hospital-management/internal/domain/entity"
)

// BookingToResponse converts a Booking entity to BookingResponse DTO.
// Patient, department and doctor names are filled when those relations are loaded.
func BookingToResponse(booking *entity.Booking) *dto.BookingResponse {
	if booking == nil {
		return nil
	}

	response := &dto.BookingResponse{
		ID:              booking.ID,
		BookingCode:     booking.BookingCode,
		PatientID:       booking.PatientID,
		DepartmentID:    booking.DepartmentID,
		DoctorID:        booking.DoctorID,
		PaymentID:       booking.PaymentID,
		AppointmentDate: booking.AppointmentDate.Format(entity.DateLayout),
		QueueNumber:     booking.QueueNumber,
		Status:          string(booking.Status),
		Visited:         string(booking.Visited),
		CreatedAt:       booking.CreatedAt,
		UpdatedAt:       booking.UpdatedAt,
	}

	if booking.Patient.ID == booking.PatientID {
		response.PatientName = booking.Patient.FullName
		response.CardNumber = booking.Patient.CardNumber
	}

	if booking.Department.ID != 0 {
		response.DepartmentName = booking.Department.Name
		fee := booking.Department.ConsultationFee
		response.Fee = &fee
	}

	if booking.Doctor != nil {
		response.DoctorName = booking.Doctor.FullName
	}

	return response
}

// BookingsToResponses converts a slice of Booking entities to slice of BookingResponse DTOs
func BookingsToResponses(bookings []entity.Booking) []dto.BookingResponse {
	responses := make([]dto.BookingResponse, len(bookings))
	for i := range bookings {
		responses[i] = *BookingToResponse(&bookings[i])
	}
	return responses
}
