package converter

import (
	"hospital-management/internal/delivery/dto"
	"hospital-management/internal/domain/entity"

	"github.com/shopspring/decimal"
)

func PaymentToResponse(payment *entity.Payment) *dto.PaymentResponse {
	if payment == nil {
		return nil
	}

	response := &dto.PaymentResponse{
		ID:          payment.ID,
		PatientID:   payment.PatientID,
		Purpose:     string(payment.Purpose),
		ReferenceID: payment.ReferenceID,
		Amount:      payment.Amount,
		Status:      string(payment.Status),
		ReceivedBy:  payment.ReceivedBy,
		PaidAt:      payment.PaidAt,
		CreatedAt:   payment.CreatedAt,
	}

	if payment.ReceiptNumber != nil {
		response.ReceiptNumber = *payment.ReceiptNumber
	}

	if payment.Patient.ID == payment.PatientID {
		response.PatientName = payment.Patient.FullName
		response.CardNumber = payment.Patient.CardNumber
	}

	return response
}

func PaymentsToResponses(payments []entity.Payment) []dto.PaymentResponse {
	responses := make([]dto.PaymentResponse, len(payments))
	for i := range payments {
		responses[i] = *PaymentToResponse(&payments[i])
	}
	return responses
}

func PaymentSummaryToResponse(summary *entity.PaymentSummary, from, to string) *dto.PaymentSummaryResponse {
	byPurpose := make(map[string]decimal.Decimal, len(summary.ByPurposePaid))
	for purpose, total := range summary.ByPurposePaid {
		byPurpose[string(purpose)] = total
	}

	return &dto.PaymentSummaryResponse{
		From:        from,
		To:          to,
		PaidCount:   summary.PaidCount,
		PaidTotal:   summary.PaidTotal,
		UnpaidCount: summary.UnpaidCount,
		UnpaidTotal: summary.UnpaidTotal,
		ByPurpose:   byPurpose,
	}
}
