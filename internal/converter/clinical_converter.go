package converter

import (
	"hospital-management/internal/delivery/dto"
	"hospital-management/internal/domain/entity"
)

// ConsultationToResponse includes prescriptions and investigations when preloaded
func ConsultationToResponse(consultation *entity.Consultation) *dto.ConsultationResponse {
	if consultation == nil {
		return nil
	}

	response := &dto.ConsultationResponse{
		ID:        consultation.ID,
		BookingID: consultation.BookingID,
		PatientID: consultation.PatientID,
		DoctorID:  consultation.DoctorID,
		Complaint: consultation.Complaint,
		Diagnosis: consultation.Diagnosis,
		Notes:     consultation.Notes,
		CreatedAt: consultation.CreatedAt,
	}

	if consultation.Patient.ID == consultation.PatientID {
		response.PatientName = consultation.Patient.FullName
	}
	if consultation.Doctor.ID == consultation.DoctorID {
		response.DoctorName = consultation.Doctor.FullName
	}
	if len(consultation.Prescriptions) > 0 {
		response.Prescriptions = PrescriptionsToResponses(consultation.Prescriptions)
	}
	if len(consultation.Investigations) > 0 {
		response.Investigations = InvestigationsToResponses(consultation.Investigations)
	}

	return response
}

func ConsultationsToResponses(consultations []entity.Consultation) []dto.ConsultationResponse {
	responses := make([]dto.ConsultationResponse, len(consultations))
	for i := range consultations {
		responses[i] = *ConsultationToResponse(&consultations[i])
	}
	return responses
}

func PrescriptionToResponse(prescription *entity.Prescription) *dto.PrescriptionResponse {
	if prescription == nil {
		return nil
	}

	response := &dto.PrescriptionResponse{
		ID:             prescription.ID,
		ConsultationID: prescription.ConsultationID,
		PatientID:      prescription.PatientID,
		DoctorID:       prescription.DoctorID,
		DrugID:         prescription.DrugID,
		Quantity:       prescription.Quantity,
		Dosage:         prescription.Dosage,
		Instructions:   prescription.Instructions,
		Amount:         prescription.Amount,
		Status:         string(prescription.Status),
		PaymentID:      prescription.PaymentID,
		Dispensed:      prescription.IsDispensed(),
		DispensedAt:    prescription.DispensedAt,
		DispensedBy:    prescription.DispensedBy,
		CreatedAt:      prescription.CreatedAt,
	}

	if prescription.Patient.ID == prescription.PatientID {
		response.PatientName = prescription.Patient.FullName
	}
	if prescription.Drug.ID != 0 {
		response.DrugName = prescription.Drug.Name
	}

	return response
}

func PrescriptionsToResponses(prescriptions []entity.Prescription) []dto.PrescriptionResponse {
	responses := make([]dto.PrescriptionResponse, len(prescriptions))
	for i := range prescriptions {
		responses[i] = *PrescriptionToResponse(&prescriptions[i])
	}
	return responses
}

func InvestigationToResponse(investigation *entity.Investigation) *dto.InvestigationResponse {
	if investigation == nil {
		return nil
	}

	response := &dto.InvestigationResponse{
		ID:             investigation.ID,
		ConsultationID: investigation.ConsultationID,
		PatientID:      investigation.PatientID,
		DoctorID:       investigation.DoctorID,
		LabTestID:      investigation.LabTestID,
		Amount:         investigation.Amount,
		Status:         string(investigation.Status),
		PaymentID:      investigation.PaymentID,
		Result:         investigation.Result,
		ResultAt:       investigation.ResultAt,
		ResultBy:       investigation.ResultBy,
		CreatedAt:      investigation.CreatedAt,
	}

	if investigation.Patient.ID == investigation.PatientID {
		response.PatientName = investigation.Patient.FullName
	}
	if investigation.LabTest.ID != 0 {
		response.LabTestName = investigation.LabTest.Name
	}

	return response
}

func InvestigationsToResponses(investigations []entity.Investigation) []dto.InvestigationResponse {
	responses := make([]dto.InvestigationResponse, len(investigations))
	for i := range investigations {
		responses[i] = *InvestigationToResponse(&investigations[i])
	}
	return responses
}
