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

type InvestigationHandler struct {
	investigationUsecase usecase.InvestigationUsecase
	validator            *validator.CustomValidator
}

func NewInvestigationHandler(investigationUsecase usecase.InvestigationUsecase, validator *validator.CustomValidator) *InvestigationHandler {
	return &InvestigationHandler{
		investigationUsecase: investigationUsecase,
		validator:            validator,
	}
}

// CreateInvestigation orders a lab test under the consultation in the path
func (h *InvestigationHandler) CreateInvestigation(w http.ResponseWriter, r *http.Request) {
	consultationID, ok := uuidVar(w, r, "id", "consultation")
	if !ok {
		return
	}

	var req dto.CreateInvestigationRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	investigation, err := h.investigationUsecase.CreateInvestigation(r.Context(), consultationID, &req)
	if err != nil {
		h.writeError(w, err, "Failed to create investigation")
		return
	}

	response.Success(w, http.StatusCreated, "Investigation created successfully", investigation)
}

func (h *InvestigationHandler) GetInvestigations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := &entity.InvestigationFilter{
		Status: entity.PaymentStatus(q.Get("status")),
	}
	if raw := q.Get("pending_result"); raw != "" {
		pending, err := strconv.ParseBool(raw)
		if err != nil {
			response.BadRequest(w, "Invalid pending_result filter")
			return
		}
		filter.PendingResult = pending
	}

	page := pageQuery(r)
	investigations, err := h.investigationUsecase.GetInvestigations(r.Context(), filter, page)
	if err != nil {
		h.writeError(w, err, "Failed to get investigations")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Investigations retrieved successfully", investigations.Investigations, meta(page, investigations.Total))
}

func (h *InvestigationHandler) GetInvestigation(w http.ResponseWriter, r *http.Request) {
	investigationID, ok := uuidVar(w, r, "id", "investigation")
	if !ok {
		return
	}

	investigation, err := h.investigationUsecase.GetInvestigation(r.Context(), investigationID)
	if err != nil {
		h.writeError(w, err, "Failed to get investigation")
		return
	}

	response.Success(w, http.StatusOK, "Investigation retrieved successfully", investigation)
}

func (h *InvestigationHandler) RecordResult(w http.ResponseWriter, r *http.Request) {
	investigationID, ok := uuidVar(w, r, "id", "investigation")
	if !ok {
		return
	}

	var req dto.RecordResultRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	investigation, err := h.investigationUsecase.RecordResult(r.Context(), investigationID, &req)
	if err != nil {
		h.writeError(w, err, "Failed to record result")
		return
	}

	response.Success(w, http.StatusOK, "Result recorded successfully", investigation)
}

func (h *InvestigationHandler) writeError(w http.ResponseWriter, err error, message string) {
	switch err {
	case usecase.ErrInvestigationNotFound:
		response.NotFound(w, "Investigation not found")
	case usecase.ErrConsultationNotFound:
		response.NotFound(w, "Consultation not found")
	case usecase.ErrLabTestNotFound:
		response.NotFound(w, "Lab test not found")
	case usecase.ErrNotConsultingDoctor:
		response.Forbidden(w, "Only the consulting doctor may order investigations")
	case usecase.ErrResultAlreadyRecorded:
		response.Conflict(w, "Investigation result has already been recorded")
	case usecase.ErrEmptyResult, usecase.ErrInvalidStatusFilter:
		response.BadRequest(w, err.Error())
	default:
		commonError(w, err, message)
	}
}
