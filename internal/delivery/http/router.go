package http

import (
	"net/http"

	"hospital-management/internal/delivery/http/handler"
	"hospital-management/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

// Handlers groups the route handlers mounted by the router
type Handlers struct {
	Auth          *handler.AuthHandler
	User          *handler.UserHandler
	Department    *handler.DepartmentHandler
	LabTest       *handler.LabTestHandler
	Drug          *handler.DrugHandler
	Patient       *handler.PatientHandler
	Booking       *handler.BookingHandler
	Payment       *handler.PaymentHandler
	Consultation  *handler.ConsultationHandler
	Prescription  *handler.PrescriptionHandler
	Investigation *handler.InvestigationHandler
	DeleteRequest *handler.DeleteRequestHandler
	Notification  *handler.NotificationHandler
	Dashboard     *handler.DashboardHandler
	AuditLog      *handler.AuditLogHandler
}

type Router struct {
	router            *mux.Router
	handlers          Handlers
	authMiddleware    *middleware.AuthMiddleware
	corsMiddleware    *middleware.CORSMiddleware
	loggingMiddleware *middleware.LoggingMiddleware
}

func NewRouter(
	handlers Handlers,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	loggingMiddleware *middleware.LoggingMiddleware,
) *Router {
	return &Router{
		router:            mux.NewRouter(),
		handlers:          handlers,
		authMiddleware:    authMiddleware,
		corsMiddleware:    corsMiddleware,
		loggingMiddleware: loggingMiddleware,
	}
}

// Setup registers every route. CORS and request logging wrap the router rather than
// being mux middleware, so preflights and unmatched paths pass through them too.
func (r *Router) Setup() http.Handler {
	h := r.handlers

	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/login", h.Auth.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", h.Auth.RefreshToken).Methods(http.MethodPost)

	// Everything below requires a valid access token
	protected := api.NewRoute().Subrouter()
	protected.Use(r.authMiddleware.Authenticate)

	// Auth routes (protected)
	protected.HandleFunc("/auth/logout", h.Auth.Logout).Methods(http.MethodPost)
	protected.HandleFunc("/auth/me", h.Auth.GetCurrentUser).Methods(http.MethodGet)
	protected.HandleFunc("/auth/password", h.Auth.ChangePassword).Methods(http.MethodPut)

	// Reference data (any role)
	protected.HandleFunc("/departments", h.Department.GetAllDepartments).Methods(http.MethodGet)
	protected.HandleFunc("/departments/{id:[0-9]+}", h.Department.GetDepartment).Methods(http.MethodGet)
	protected.HandleFunc("/departments/{id:[0-9]+}/slots", h.Department.GetAvailability).Methods(http.MethodGet)
	protected.HandleFunc("/lab-tests", h.LabTest.GetAllLabTests).Methods(http.MethodGet)
	protected.HandleFunc("/lab-tests/{id:[0-9]+}", h.LabTest.GetLabTest).Methods(http.MethodGet)
	protected.HandleFunc("/drugs", h.Drug.GetAllDrugs).Methods(http.MethodGet)
	protected.HandleFunc("/drugs/{id:[0-9]+}", h.Drug.GetDrug).Methods(http.MethodGet)

	// Delete requests, notifications and dashboard (any role)
	protected.HandleFunc("/delete-requests", h.DeleteRequest.CreateRequest).Methods(http.MethodPost)
	protected.HandleFunc("/delete-requests/mine", h.DeleteRequest.GetMyRequests).Methods(http.MethodGet)
	protected.HandleFunc("/notifications", h.Notification.GetNotifications).Methods(http.MethodGet)
	protected.HandleFunc("/notifications/read-all", h.Notification.MarkAllRead).Methods(http.MethodPost)
	protected.HandleFunc("/notifications/{id:[0-9]+}/read", h.Notification.MarkRead).Methods(http.MethodPost)
	protected.HandleFunc("/dashboard", h.Dashboard.GetDashboard).Methods(http.MethodGet)

	// Admin routes (protected - admin only)
	admin := protected.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.RequireAdmin)

	admin.HandleFunc("/roles", h.User.GetRoles).Methods(http.MethodGet)
	admin.HandleFunc("/users", h.User.CreateUser).Methods(http.MethodPost)
	admin.HandleFunc("/users", h.User.GetAllUsers).Methods(http.MethodGet)
	admin.HandleFunc("/users/{id}", h.User.GetUser).Methods(http.MethodGet)
	admin.HandleFunc("/users/{id}", h.User.UpdateUser).Methods(http.MethodPut)
	admin.HandleFunc("/users/{id}", h.User.DeactivateUser).Methods(http.MethodDelete)

	admin.HandleFunc("/departments", h.Department.CreateDepartment).Methods(http.MethodPost)
	admin.HandleFunc("/departments/{id:[0-9]+}", h.Department.UpdateDepartment).Methods(http.MethodPut)
	admin.HandleFunc("/departments/{id:[0-9]+}", h.Department.DeleteDepartment).Methods(http.MethodDelete)

	admin.HandleFunc("/lab-tests", h.LabTest.CreateLabTest).Methods(http.MethodPost)
	admin.HandleFunc("/lab-tests/{id:[0-9]+}", h.LabTest.UpdateLabTest).Methods(http.MethodPut)
	admin.HandleFunc("/lab-tests/{id:[0-9]+}", h.LabTest.DeleteLabTest).Methods(http.MethodDelete)

	admin.HandleFunc("/audit-logs", h.AuditLog.GetAllAuditLogs).Methods(http.MethodGet)
	admin.HandleFunc("/audit-logs/{id:[0-9]+}", h.AuditLog.GetAuditLog).Methods(http.MethodGet)

	admin.HandleFunc("/delete-requests", h.DeleteRequest.GetRequests).Methods(http.MethodGet)
	admin.HandleFunc("/delete-requests/{id:[0-9]+}/approve", h.DeleteRequest.ApproveRequest).Methods(http.MethodPost)
	admin.HandleFunc("/delete-requests/{id:[0-9]+}/reject", h.DeleteRequest.RejectRequest).Methods(http.MethodPost)

	// Reception routes (receptionist, admin)
	reception := protected.NewRoute().Subrouter()
	reception.Use(middleware.RequireReception)

	reception.HandleFunc("/patients", h.Patient.RegisterPatient).Methods(http.MethodPost)
	reception.HandleFunc("/patients", h.Patient.SearchPatients).Methods(http.MethodGet)
	reception.HandleFunc("/patients/{id}", h.Patient.UpdatePatient).Methods(http.MethodPut)
	reception.HandleFunc("/bookings", h.Booking.CreateBooking).Methods(http.MethodPost)
	reception.HandleFunc("/bookings", h.Booking.GetBookings).Methods(http.MethodGet)
	reception.HandleFunc("/bookings/{id}", h.Booking.GetBooking).Methods(http.MethodGet)
	reception.HandleFunc("/bookings/{id}", h.Booking.CancelBooking).Methods(http.MethodDelete)

	// Patient record and history (receptionist, doctor, accountant, admin)
	history := protected.NewRoute().Subrouter()
	history.Use(middleware.RequirePatientHistory)

	history.HandleFunc("/patients/{id}", h.Patient.GetPatient).Methods(http.MethodGet)
	history.HandleFunc("/patients/{id}/bookings", h.Patient.GetPatientBookings).Methods(http.MethodGet)
	history.HandleFunc("/patients/{id}/consultations", h.Patient.GetPatientConsultations).Methods(http.MethodGet)
	history.HandleFunc("/patients/{id}/payments", h.Patient.GetPatientPayments).Methods(http.MethodGet)

	// Accounts routes (accountant, admin)
	accounts := protected.NewRoute().Subrouter()
	accounts.Use(middleware.RequireAccountant)

	accounts.HandleFunc("/payments", h.Payment.GetPayments).Methods(http.MethodGet)
	accounts.HandleFunc("/payments/summary", h.Payment.GetSummary).Methods(http.MethodGet)
	accounts.HandleFunc("/payments/{id}", h.Payment.GetPayment).Methods(http.MethodGet)
	accounts.HandleFunc("/payments/{id}/confirm", h.Payment.ConfirmPayment).Methods(http.MethodPost)

	// Clinical routes (doctor, admin)
	doctor := protected.NewRoute().Subrouter()
	doctor.Use(middleware.RequireDoctor)

	doctor.HandleFunc("/doctor/queue", h.Booking.GetDoctorQueue).Methods(http.MethodGet)
	doctor.HandleFunc("/consultations", h.Consultation.CreateConsultation).Methods(http.MethodPost)
	doctor.HandleFunc("/consultations/{id}", h.Consultation.GetConsultation).Methods(http.MethodGet)
	doctor.HandleFunc("/consultations/{id}/prescriptions", h.Prescription.CreatePrescription).Methods(http.MethodPost)
	doctor.HandleFunc("/consultations/{id}/investigations", h.Investigation.CreateInvestigation).Methods(http.MethodPost)
	doctor.HandleFunc("/investigations", h.Investigation.GetInvestigations).Methods(http.MethodGet)
	doctor.HandleFunc("/investigations/{id}", h.Investigation.GetInvestigation).Methods(http.MethodGet)
	doctor.HandleFunc("/investigations/{id}/result", h.Investigation.RecordResult).Methods(http.MethodPost)

	// Pharmacy routes (pharmacist, admin)
	pharmacy := protected.NewRoute().Subrouter()
	pharmacy.Use(middleware.RequirePharmacist)

	pharmacy.HandleFunc("/drugs", h.Drug.CreateDrug).Methods(http.MethodPost)
	pharmacy.HandleFunc("/drugs/{id:[0-9]+}", h.Drug.UpdateDrug).Methods(http.MethodPut)
	pharmacy.HandleFunc("/drugs/{id:[0-9]+}", h.Drug.DeleteDrug).Methods(http.MethodDelete)
	pharmacy.HandleFunc("/drugs/{id:[0-9]+}/restock", h.Drug.RestockDrug).Methods(http.MethodPost)
	pharmacy.HandleFunc("/prescriptions", h.Prescription.GetPrescriptions).Methods(http.MethodGet)
	pharmacy.HandleFunc("/prescriptions/{id}", h.Prescription.GetPrescription).Methods(http.MethodGet)
	pharmacy.HandleFunc("/prescriptions/{id}/dispense", h.Prescription.DispensePrescription).Methods(http.MethodPost)

	return r.loggingMiddleware.Handle(r.corsMiddleware.Handle(r.router))
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
