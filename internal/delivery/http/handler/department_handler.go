package handler

import (
	"net/http"

	"hospital-management/internal/delivery/dto"
	"hospital-management/internal/usecase"
	"hospital-management/pkg/response"
	"hospital-management/pkg/validator"
)

type DepartmentHandler struct {
	departmentUsecase usecase.DepartmentUsecase
	validator         *validator.CustomValidator
}

func NewDepartmentHandler(departmentUsecase usecase.DepartmentUsecase, validator *validator.CustomValidator) *DepartmentHandler {
	return &DepartmentHandler{
		departmentUsecase: departmentUsecase,
		validator:         validator,
	}
}

func (h *DepartmentHandler) CreateDepartment(w http.ResponseWriter, r *http.Request) {
	var req dto.DepartmentRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	department, err := h.departmentUsecase.CreateDepartment(r.Context(), &req)
	if err != nil {
		h.writeError(w, err, "Failed to create department")
		return
	}

	response.Success(w, http.StatusCreated, "Department created successfully", department)
}

func (h *DepartmentHandler) GetAllDepartments(w http.ResponseWriter, r *http.Request) {
	departments, err := h.departmentUsecase.GetAllDepartments(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get departments")
		return
	}

	response.Success(w, http.StatusOK, "Departments retrieved successfully", departments)
}

func (h *DepartmentHandler) GetDepartment(w http.ResponseWriter, r *http.Request) {
	departmentID, ok := intVar(w, r, "id", "department")
	if !ok {
		return
	}

	department, err := h.departmentUsecase.GetDepartment(r.Context(), departmentID)
	if err != nil {
		h.writeError(w, err, "Failed to get department")
		return
	}

	response.Success(w, http.StatusOK, "Department retrieved successfully", department)
}

func (h *DepartmentHandler) UpdateDepartment(w http.ResponseWriter, r *http.Request) {
	departmentID, ok := intVar(w, r, "id", "department")
	if !ok {
		return
	}

	var req dto.DepartmentRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	department, err := h.departmentUsecase.UpdateDepartment(r.Context(), departmentID, &req)
	if err != nil {
		h.writeError(w, err, "Failed to update department")
		return
	}

	response.Success(w, http.StatusOK, "Department updated successfully", department)
}

func (h *DepartmentHandler) DeleteDepartment(w http.ResponseWriter, r *http.Request) {
	departmentID, ok := intVar(w, r, "id", "department")
	if !ok {
		return
	}

	if err := h.departmentUsecase.DeleteDepartment(r.Context(), departmentID); err != nil {
		h.writeError(w, err, "Failed to delete department")
		return
	}

	response.Success(w, http.StatusOK, "Department deleted successfully", nil)
}

// GetAvailability reports remaining slots; date defaults to today
func (h *DepartmentHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	departmentID, ok := intVar(w, r, "id", "department")
	if !ok {
		return
	}

	availability, err := h.departmentUsecase.GetAvailability(r.Context(), departmentID, r.URL.Query().Get("date"))
	if err != nil {
		h.writeError(w, err, "Failed to get availability")
		return
	}

	response.Success(w, http.StatusOK, "Availability retrieved successfully", availability)
}

func (h *DepartmentHandler) writeError(w http.ResponseWriter, err error, message string) {
	switch err {
	case usecase.ErrDepartmentNotFound:
		response.NotFound(w, "Department not found")
	case usecase.ErrDepartmentNameExists:
		response.Conflict(w, "Department name already exists")
	case usecase.ErrDepartmentInUse:
		response.Conflict(w, "Department is referenced by bookings or staff")
	case usecase.ErrAvailabilityDatePast:
		response.BadRequest(w, "Cannot check availability of a past date")
	default:
		commonError(w, err, message)
	}
}
