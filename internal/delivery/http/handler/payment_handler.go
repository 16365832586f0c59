package handler

import (
	"net/http"

	"hospital-management/internal/domain/entity"
	"hospital-management/internal/usecase"
	"hospital-management/pkg/response"
)

type PaymentHandler struct {
	paymentUsecase usecase.PaymentUsecase
}

func NewPaymentHandler(paymentUsecase usecase.PaymentUsecase) *PaymentHandler {
	return &PaymentHandler{
		paymentUsecase: paymentUsecase,
	}
}

func (h *PaymentHandler) GetPayments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := &entity.PaymentFilter{
		Status:  entity.PaymentStatus(q.Get("status")),
		Purpose: entity.PaymentPurpose(q.Get("purpose")),
		Date:    q.Get("date"),
	}

	page := pageQuery(r)
	payments, err := h.paymentUsecase.GetPayments(r.Context(), filter, page)
	if err != nil {
		h.writeError(w, err, "Failed to get payments")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Payments retrieved successfully", payments.Payments, meta(page, payments.Total))
}

func (h *PaymentHandler) GetPayment(w http.ResponseWriter, r *http.Request) {
	paymentID, ok := uuidVar(w, r, "id", "payment")
	if !ok {
		return
	}

	payment, err := h.paymentUsecase.GetPayment(r.Context(), paymentID)
	if err != nil {
		h.writeError(w, err, "Failed to get payment")
		return
	}

	response.Success(w, http.StatusOK, "Payment retrieved successfully", payment)
}

// ConfirmPayment marks the payment and the record it settles as paid
func (h *PaymentHandler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	paymentID, ok := uuidVar(w, r, "id", "payment")
	if !ok {
		return
	}

	payment, err := h.paymentUsecase.ConfirmPayment(r.Context(), paymentID)
	if err != nil {
		h.writeError(w, err, "Failed to confirm payment")
		return
	}

	response.Success(w, http.StatusOK, "Payment confirmed successfully", payment)
}

func (h *PaymentHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	summary, err := h.paymentUsecase.GetSummary(r.Context(), q.Get("from"), q.Get("to"))
	if err != nil {
		h.writeError(w, err, "Failed to get payment summary")
		return
	}

	response.Success(w, http.StatusOK, "Payment summary retrieved successfully", summary)
}

func (h *PaymentHandler) writeError(w http.ResponseWriter, err error, message string) {
	switch err {
	case usecase.ErrPaymentNotFound:
		response.NotFound(w, "Payment not found")
	case usecase.ErrPaymentAlreadyPaid:
		response.Conflict(w, "Payment has already been confirmed")
	case usecase.ErrPaymentReferenceNotFound:
		response.Conflict(w, "Record settled by this payment no longer exists")
	case usecase.ErrInvalidStatusFilter, usecase.ErrInvalidPurposeFilter, usecase.ErrInvalidDateRange:
		response.BadRequest(w, err.Error())
	default:
		commonError(w, err, message)
	}
}
