package converter

import (
	"time"

	"hospital-management/internal/delivery/dto"
	"hospital-management/internal/domain/entity"
)

// PatientToResponse converts a Patient entity to PatientResponse DTO
func PatientToResponse(patient *entity.Patient) *dto.PatientResponse {
	if patient == nil {
		return nil
	}

	return &dto.PatientResponse{
		ID:           patient.ID,
		CardNumber:   patient.CardNumber,
		FullName:     patient.FullName,
		Gender:       patient.Gender,
		DateOfBirth:  patient.DateOfBirth.Format(entity.DateLayout),
		Age:          AgeOn(patient.DateOfBirth, time.Now()),
		PhoneNumber:  patient.PhoneNumber,
		Address:      patient.Address,
		NextOfKin:    patient.NextOfKin,
		RegisteredBy: patient.RegisteredBy,
		CreatedAt:    patient.CreatedAt,
		UpdatedAt:    patient.UpdatedAt,
	}
}

func PatientsToResponses(patients []entity.Patient) []dto.PatientResponse {
	responses := make([]dto.PatientResponse, len(patients))
	for i := range patients {
		responses[i] = *PatientToResponse(&patients[i])
	}
	return responses
}

// AgeOn returns the age in whole years of someone born on dob at the given day.
func AgeOn(dob, day time.Time) int {
	if dob.IsZero() {
		return 0
	}
	age := day.Year() - dob.Year()
	if day.Month() < dob.Month() || (day.Month() == dob.Month() && day.Day() < dob.Day()) {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}
