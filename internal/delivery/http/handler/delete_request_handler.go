package handler

import (
	"net/http"
	"strconv"

	"hospital-management/internal/delivery/dto"
	"hospital-management/internal/usecase"
	"hospital-management/pkg/response"
	"hospital-management/pkg/validator"

	"github.com/gorilla/mux"
)

type DeleteRequestHandler struct {
	deleteRequestUsecase usecase.DeleteRequestUsecase
	validator            *validator.CustomValidator
}

func NewDeleteRequestHandler(deleteRequestUsecase usecase.DeleteRequestUsecase, validator *validator.CustomValidator) *DeleteRequestHandler {
	return &DeleteRequestHandler{
		deleteRequestUsecase: deleteRequestUsecase,
		validator:            validator,
	}
}

func (h *DeleteRequestHandler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateDeleteRequestRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	request, err := h.deleteRequestUsecase.CreateRequest(r.Context(), &req)
	if err != nil {
		h.writeError(w, err, "Failed to create delete request")
		return
	}

	response.Success(w, http.StatusCreated, "Delete request submitted successfully", request)
}

func (h *DeleteRequestHandler) GetMyRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := h.deleteRequestUsecase.GetMyRequests(r.Context())
	if err != nil {
		h.writeError(w, err, "Failed to get delete requests")
		return
	}

	response.Success(w, http.StatusOK, "Delete requests retrieved successfully", requests)
}

func (h *DeleteRequestHandler) GetRequests(w http.ResponseWriter, r *http.Request) {
	page := pageQuery(r)
	requests, err := h.deleteRequestUsecase.GetRequests(r.Context(), r.URL.Query().Get("status"), page)
	if err != nil {
		h.writeError(w, err, "Failed to get delete requests")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Delete requests retrieved successfully", requests.Requests, meta(page, requests.Total))
}

func (h *DeleteRequestHandler) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	requestID, ok := h.requestID(w, r)
	if !ok {
		return
	}

	request, err := h.deleteRequestUsecase.ApproveRequest(r.Context(), requestID)
	if err != nil {
		h.writeError(w, err, "Failed to approve delete request")
		return
	}

	response.Success(w, http.StatusOK, "Delete request approved", request)
}

func (h *DeleteRequestHandler) RejectRequest(w http.ResponseWriter, r *http.Request) {
	requestID, ok := h.requestID(w, r)
	if !ok {
		return
	}

	request, err := h.deleteRequestUsecase.RejectRequest(r.Context(), requestID)
	if err != nil {
		h.writeError(w, err, "Failed to reject delete request")
		return
	}

	response.Success(w, http.StatusOK, "Delete request rejected", request)
}

func (h *DeleteRequestHandler) requestID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id < 1 {
		response.Error(w, http.StatusBadRequest, "Invalid delete request ID", nil)
		return 0, false
	}
	return id, true
}

// writeError also maps the errors of the deleted target's own usecase
func (h *DeleteRequestHandler) writeError(w http.ResponseWriter, err error, message string) {
	switch err {
	case usecase.ErrDeleteRequestNotFound:
		response.NotFound(w, "Delete request not found")
	case usecase.ErrDeleteRequestNotPending:
		response.Conflict(w, "Delete request has already been reviewed")
	case usecase.ErrInvalidEntityID, usecase.ErrInvalidEntityType, usecase.ErrInvalidStatusFilter:
		response.BadRequest(w, err.Error())
	case usecase.ErrPatientInUse, usecase.ErrBookingInUse, usecase.ErrDrugInUse,
		usecase.ErrLabTestInUse, usecase.ErrDepartmentInUse:
		response.Conflict(w, err.Error())
	default:
		commonError(w, err, message)
	}
}
