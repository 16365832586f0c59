package entity

// PaymentStatus is the paid flag shared by payments and the records they settle
type PaymentStatus string

const (
	PaymentStatusNotPaid PaymentStatus = "Not Paid"
	PaymentStatusHasPaid PaymentStatus = "Has Paid"
)

// IsValid reports whether s is a known payment status.
func (s PaymentStatus) IsValid() bool {
	return s == PaymentStatusNotPaid || s == PaymentStatusHasPaid
}

// VisitStatus records whether a booked patient has been seen
type VisitStatus string

const (
	VisitStatusNotVisited VisitStatus = "Hasn't Visited"
	VisitStatusVisited    VisitStatus = "Has Visited"
)

// IsValid reports whether s is a known visit status.
func (s VisitStatus) IsValid() bool {
	return s == VisitStatusNotVisited || s == VisitStatusVisited
}

// DateLayout is the wire and storage format for calendar dates
const DateLayout = "2006-01-02"
