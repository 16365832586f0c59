package handler

import (
	"net/http"

	"hospital-management/internal/delivery/dto"
	"hospital-management/internal/usecase"
	"hospital-management/pkg/response"
	"hospital-management/pkg/validator"
)

type PatientHandler struct {
	patientUsecase usecase.PatientUsecase
	validator      *validator.CustomValidator
}

func NewPatientHandler(patientUsecase usecase.PatientUsecase, validator *validator.CustomValidator) *PatientHandler {
	return &PatientHandler{
		patientUsecase: patientUsecase,
		validator:      validator,
	}
}

func (h *PatientHandler) RegisterPatient(w http.ResponseWriter, r *http.Request) {
	var req dto.PatientRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	patient, err := h.patientUsecase.RegisterPatient(r.Context(), &req)
	if err != nil {
		h.writeError(w, err, "Failed to register patient")
		return
	}

	response.Success(w, http.StatusCreated, "Patient registered successfully", patient)
}

// SearchPatients matches name, card number or phone number
func (h *PatientHandler) SearchPatients(w http.ResponseWriter, r *http.Request) {
	page := pageQuery(r)
	patients, err := h.patientUsecase.SearchPatients(r.Context(), r.URL.Query().Get("search"), page)
	if err != nil {
		response.InternalServerError(w, "Failed to get patients")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Patients retrieved successfully", patients.Patients, meta(page, patients.Total))
}

func (h *PatientHandler) GetPatient(w http.ResponseWriter, r *http.Request) {
	patientID, ok := uuidVar(w, r, "id", "patient")
	if !ok {
		return
	}

	patient, err := h.patientUsecase.GetPatient(r.Context(), patientID)
	if err != nil {
		h.writeError(w, err, "Failed to get patient")
		return
	}

	response.Success(w, http.StatusOK, "Patient retrieved successfully", patient)
}

func (h *PatientHandler) UpdatePatient(w http.ResponseWriter, r *http.Request) {
	patientID, ok := uuidVar(w, r, "id", "patient")
	if !ok {
		return
	}

	var req dto.PatientRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	patient, err := h.patientUsecase.UpdatePatient(r.Context(), patientID, &req)
	if err != nil {
		h.writeError(w, err, "Failed to update patient")
		return
	}

	response.Success(w, http.StatusOK, "Patient updated successfully", patient)
}

func (h *PatientHandler) GetPatientBookings(w http.ResponseWriter, r *http.Request) {
	patientID, ok := uuidVar(w, r, "id", "patient")
	if !ok {
		return
	}

	page := pageQuery(r)
	bookings, err := h.patientUsecase.GetPatientBookings(r.Context(), patientID, page)
	if err != nil {
		h.writeError(w, err, "Failed to get bookings")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Bookings retrieved successfully", bookings.Bookings, meta(page, bookings.Total))
}

func (h *PatientHandler) GetPatientConsultations(w http.ResponseWriter, r *http.Request) {
	patientID, ok := uuidVar(w, r, "id", "patient")
	if !ok {
		return
	}

	consultations, err := h.patientUsecase.GetPatientConsultations(r.Context(), patientID)
	if err != nil {
		h.writeError(w, err, "Failed to get consultations")
		return
	}

	response.Success(w, http.StatusOK, "Consultations retrieved successfully", consultations)
}

func (h *PatientHandler) GetPatientPayments(w http.ResponseWriter, r *http.Request) {
	patientID, ok := uuidVar(w, r, "id", "patient")
	if !ok {
		return
	}

	page := pageQuery(r)
	payments, err := h.patientUsecase.GetPatientPayments(r.Context(), patientID, page)
	if err != nil {
		h.writeError(w, err, "Failed to get payments")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Payments retrieved successfully", payments.Payments, meta(page, payments.Total))
}

func (h *PatientHandler) writeError(w http.ResponseWriter, err error, message string) {
	switch err {
	case usecase.ErrPatientNotFound:
		response.NotFound(w, "Patient not found")
	case usecase.ErrDateOfBirthFuture:
		response.BadRequest(w, "Date of birth cannot be in the future")
	case usecase.ErrCardNumberConflict:
		response.Conflict(w, "Could not allocate a card number, please retry")
	default:
		commonError(w, err, message)
	}
}
