package handler

import (
	"net/http"
	"strconv"

	"hospital-management/internal/delivery/dto"
	"hospital-management/internal/domain/entity"
	"hospital-management/internal/usecase"
	"hospital-management/pkg/response"
	"hospital-management/pkg/validator"
)

type PrescriptionHandler struct {
	prescriptionUsecase usecase.PrescriptionUsecase
	validator           *validator.CustomValidator
}

func NewPrescriptionHandler(prescriptionUsecase usecase.PrescriptionUsecase, validator *validator.CustomValidator) *PrescriptionHandler {
	return &PrescriptionHandler{
		prescriptionUsecase: prescriptionUsecase,
		validator:           validator,
	}
}

// CreatePrescription orders a drug under the consultation in the path
func (h *PrescriptionHandler) CreatePrescription(w http.ResponseWriter, r *http.Request) {
	consultationID, ok := uuidVar(w, r, "id", "consultation")
	if !ok {
		return
	}

	var req dto.CreatePrescriptionRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	prescription, err := h.prescriptionUsecase.CreatePrescription(r.Context(), consultationID, &req)
	if err != nil {
		h.writeError(w, err, "Failed to create prescription")
		return
	}

	response.Success(w, http.StatusCreated, "Prescription created successfully", prescription)
}

func (h *PrescriptionHandler) GetPrescriptions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := &entity.PrescriptionFilter{
		Status: entity.PaymentStatus(q.Get("status")),
	}
	if raw := q.Get("dispensed"); raw != "" {
		dispensed, err := strconv.ParseBool(raw)
		if err != nil {
			response.BadRequest(w, "Invalid dispensed filter")
			return
		}
		filter.Dispensed = &dispensed
	}

	page := pageQuery(r)
	prescriptions, err := h.prescriptionUsecase.GetPrescriptions(r.Context(), filter, page)
	if err != nil {
		h.writeError(w, err, "Failed to get prescriptions")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Prescriptions retrieved successfully", prescriptions.Prescriptions, meta(page, prescriptions.Total))
}

func (h *PrescriptionHandler) GetPrescription(w http.ResponseWriter, r *http.Request) {
	prescriptionID, ok := uuidVar(w, r, "id", "prescription")
	if !ok {
		return
	}

	prescription, err := h.prescriptionUsecase.GetPrescription(r.Context(), prescriptionID)
	if err != nil {
		h.writeError(w, err, "Failed to get prescription")
		return
	}

	response.Success(w, http.StatusOK, "Prescription retrieved successfully", prescription)
}

func (h *PrescriptionHandler) DispensePrescription(w http.ResponseWriter, r *http.Request) {
	prescriptionID, ok := uuidVar(w, r, "id", "prescription")
	if !ok {
		return
	}

	prescription, err := h.prescriptionUsecase.DispensePrescription(r.Context(), prescriptionID)
	if err != nil {
		h.writeError(w, err, "Failed to dispense prescription")
		return
	}

	response.Success(w, http.StatusOK, "Prescription dispensed successfully", prescription)
}

func (h *PrescriptionHandler) writeError(w http.ResponseWriter, err error, message string) {
	switch err {
	case usecase.ErrPrescriptionNotFound:
		response.NotFound(w, "Prescription not found")
	case usecase.ErrConsultationNotFound:
		response.NotFound(w, "Consultation not found")
	case usecase.ErrDrugNotFound:
		response.NotFound(w, "Drug not found")
	case usecase.ErrNotConsultingDoctor:
		response.Forbidden(w, "Only the consulting doctor may prescribe")
	case usecase.ErrAlreadyDispensed:
		response.Conflict(w, "Prescription has already been dispensed")
	case usecase.ErrInsufficientStock:
		response.Conflict(w, "Insufficient drug stock")
	case usecase.ErrInvalidStatusFilter:
		response.BadRequest(w, "Invalid status filter")
	default:
		commonError(w, err, message)
	}
}
