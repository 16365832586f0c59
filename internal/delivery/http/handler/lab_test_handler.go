package handler

import (
	"net/http"

	"hospital-management/internal/delivery/dto"
	"hospital-management/internal/usecase"
	"hospital-management/pkg/response"
	"hospital-management/pkg/validator"
)

type LabTestHandler struct {
	labTestUsecase usecase.LabTestUsecase
	validator      *validator.CustomValidator
}

func NewLabTestHandler(labTestUsecase usecase.LabTestUsecase, validator *validator.CustomValidator) *LabTestHandler {
	return &LabTestHandler{
		labTestUsecase: labTestUsecase,
		validator:      validator,
	}
}

func (h *LabTestHandler) CreateLabTest(w http.ResponseWriter, r *http.Request) {
	var req dto.LabTestRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	labTest, err := h.labTestUsecase.CreateLabTest(r.Context(), &req)
	if err != nil {
		h.writeError(w, err, "Failed to create lab test")
		return
	}

	response.Success(w, http.StatusCreated, "Lab test created successfully", labTest)
}

func (h *LabTestHandler) GetAllLabTests(w http.ResponseWriter, r *http.Request) {
	labTests, err := h.labTestUsecase.GetAllLabTests(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get lab tests")
		return
	}

	response.Success(w, http.StatusOK, "Lab tests retrieved successfully", labTests)
}

func (h *LabTestHandler) GetLabTest(w http.ResponseWriter, r *http.Request) {
	labTestID, ok := intVar(w, r, "id", "lab test")
	if !ok {
		return
	}

	labTest, err := h.labTestUsecase.GetLabTest(r.Context(), labTestID)
	if err != nil {
		h.writeError(w, err, "Failed to get lab test")
		return
	}

	response.Success(w, http.StatusOK, "Lab test retrieved successfully", labTest)
}

func (h *LabTestHandler) UpdateLabTest(w http.ResponseWriter, r *http.Request) {
	labTestID, ok := intVar(w, r, "id", "lab test")
	if !ok {
		return
	}

	var req dto.LabTestRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	labTest, err := h.labTestUsecase.UpdateLabTest(r.Context(), labTestID, &req)
	if err != nil {
		h.writeError(w, err, "Failed to update lab test")
		return
	}

	response.Success(w, http.StatusOK, "Lab test updated successfully", labTest)
}

func (h *LabTestHandler) DeleteLabTest(w http.ResponseWriter, r *http.Request) {
	labTestID, ok := intVar(w, r, "id", "lab test")
	if !ok {
		return
	}

	if err := h.labTestUsecase.DeleteLabTest(r.Context(), labTestID); err != nil {
		h.writeError(w, err, "Failed to delete lab test")
		return
	}

	response.Success(w, http.StatusOK, "Lab test deleted successfully", nil)
}

func (h *LabTestHandler) writeError(w http.ResponseWriter, err error, message string) {
	switch err {
	case usecase.ErrLabTestNotFound:
		response.NotFound(w, "Lab test not found")
	case usecase.ErrLabTestNameExists:
		response.Conflict(w, "Lab test name already exists")
	case usecase.ErrLabTestInUse:
		response.Conflict(w, "Lab test is referenced by investigations")
	default:
		commonError(w, err, message)
	}
}
