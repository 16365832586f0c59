package converter

import (
	"hospital-management/internal/delivery/dto"
	"hospital-management/internal/domain/entity"
)

func DepartmentToResponse(department *entity.Department) *dto.DepartmentResponse {
	if department == nil {
		return nil
	}

	return &dto.DepartmentResponse{
		ID:              department.ID,
		Name:            department.Name,
		Description:     department.Description,
		ConsultationFee: department.ConsultationFee,
		DailyQuota:      department.DailyQuota,
		CreatedAt:       department.CreatedAt,
		UpdatedAt:       department.UpdatedAt,
	}
}

func DepartmentsToResponses(departments []entity.Department) []dto.DepartmentResponse {
	responses := make([]dto.DepartmentResponse, len(departments))
	for i := range departments {
		responses[i] = *DepartmentToResponse(&departments[i])
	}
	return responses
}

func LabTestToResponse(labTest *entity.LabTest) *dto.LabTestResponse {
	if labTest == nil {
		return nil
	}

	return &dto.LabTestResponse{
		ID:          labTest.ID,
		Name:        labTest.Name,
		Description: labTest.Description,
		Price:       labTest.Price,
		CreatedAt:   labTest.CreatedAt,
		UpdatedAt:   labTest.UpdatedAt,
	}
}

func LabTestsToResponses(labTests []entity.LabTest) []dto.LabTestResponse {
	responses := make([]dto.LabTestResponse, len(labTests))
	for i := range labTests {
		responses[i] = *LabTestToResponse(&labTests[i])
	}
	return responses
}

func DrugToResponse(drug *entity.Drug) *dto.DrugResponse {
	if drug == nil {
		return nil
	}

	return &dto.DrugResponse{
		ID:          drug.ID,
		Name:        drug.Name,
		Description: drug.Description,
		Unit:        drug.Unit,
		Price:       drug.Price,
		Stock:       drug.Stock,
		CreatedAt:   drug.CreatedAt,
		UpdatedAt:   drug.UpdatedAt,
	}
}

func DrugsToResponses(drugs []entity.Drug) []dto.DrugResponse {
	responses := make([]dto.DrugResponse, len(drugs))
	for i := range drugs {
		responses[i] = *DrugToResponse(&drugs[i])
	}
	return responses
}
