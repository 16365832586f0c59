package handler

import (
	"net/http"

	"hospital-management/internal/delivery/dto"
	"hospital-management/internal/usecase"
	"hospital-management/pkg/response"
	"hospital-management/pkg/validator"
)

type DrugHandler struct {
	drugUsecase usecase.DrugUsecase
	validator   *validator.CustomValidator
}

func NewDrugHandler(drugUsecase usecase.DrugUsecase, validator *validator.CustomValidator) *DrugHandler {
	return &DrugHandler{
		drugUsecase: drugUsecase,
		validator:   validator,
	}
}

func (h *DrugHandler) CreateDrug(w http.ResponseWriter, r *http.Request) {
	var req dto.DrugRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	drug, err := h.drugUsecase.CreateDrug(r.Context(), &req)
	if err != nil {
		h.writeError(w, err, "Failed to create drug")
		return
	}

	response.Success(w, http.StatusCreated, "Drug created successfully", drug)
}

func (h *DrugHandler) GetAllDrugs(w http.ResponseWriter, r *http.Request) {
	page := pageQuery(r)
	drugs, err := h.drugUsecase.GetAllDrugs(r.Context(), r.URL.Query().Get("search"), page)
	if err != nil {
		response.InternalServerError(w, "Failed to get drugs")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Drugs retrieved successfully", drugs.Drugs, meta(page, drugs.Total))
}

func (h *DrugHandler) GetDrug(w http.ResponseWriter, r *http.Request) {
	drugID, ok := intVar(w, r, "id", "drug")
	if !ok {
		return
	}

	drug, err := h.drugUsecase.GetDrug(r.Context(), drugID)
	if err != nil {
		h.writeError(w, err, "Failed to get drug")
		return
	}

	response.Success(w, http.StatusOK, "Drug retrieved successfully", drug)
}

func (h *DrugHandler) UpdateDrug(w http.ResponseWriter, r *http.Request) {
	drugID, ok := intVar(w, r, "id", "drug")
	if !ok {
		return
	}

	var req dto.DrugRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	drug, err := h.drugUsecase.UpdateDrug(r.Context(), drugID, &req)
	if err != nil {
		h.writeError(w, err, "Failed to update drug")
		return
	}

	response.Success(w, http.StatusOK, "Drug updated successfully", drug)
}

func (h *DrugHandler) RestockDrug(w http.ResponseWriter, r *http.Request) {
	drugID, ok := intVar(w, r, "id", "drug")
	if !ok {
		return
	}

	var req dto.RestockRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	drug, err := h.drugUsecase.RestockDrug(r.Context(), drugID, &req)
	if err != nil {
		h.writeError(w, err, "Failed to restock drug")
		return
	}

	response.Success(w, http.StatusOK, "Drug restocked successfully", drug)
}

func (h *DrugHandler) DeleteDrug(w http.ResponseWriter, r *http.Request) {
	drugID, ok := intVar(w, r, "id", "drug")
	if !ok {
		return
	}

	if err := h.drugUsecase.DeleteDrug(r.Context(), drugID); err != nil {
		h.writeError(w, err, "Failed to delete drug")
		return
	}

	response.Success(w, http.StatusOK, "Drug deleted successfully", nil)
}

func (h *DrugHandler) writeError(w http.ResponseWriter, err error, message string) {
	switch err {
	case usecase.ErrDrugNotFound:
		response.NotFound(w, "Drug not found")
	case usecase.ErrDrugNameExists:
		response.Conflict(w, "Drug name already exists")
	case usecase.ErrDrugInUse:
		response.Conflict(w, "Drug is referenced by prescriptions")
	default:
		commonError(w, err, message)
	}
}
