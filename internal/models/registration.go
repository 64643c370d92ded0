package models

import "time"

// RegistrationStatus is the review state of an application.
type RegistrationStatus string

const (
	RegistrationStatusNew      RegistrationStatus = "new"
	RegistrationStatusPending  RegistrationStatus = "pending"
	RegistrationStatusApproved RegistrationStatus = "approved"
	RegistrationStatusDeclined RegistrationStatus = "declined"
)

// RegistrationStatuses lists every status in display order.
var RegistrationStatuses = []RegistrationStatus{
	RegistrationStatusNew,
	RegistrationStatusPending,
	RegistrationStatusApproved,
	RegistrationStatusDeclined,
}

// Valid reports whether s is a known status.
func (s RegistrationStatus) Valid() bool {
	switch s {
	case RegistrationStatusNew, RegistrationStatusPending, RegistrationStatusApproved, RegistrationStatusDeclined:
		return true
	}
	return false
}

// Arabic returns the label shown to administrators.
func (s RegistrationStatus) Arabic() string {
	switch s {
	case RegistrationStatusNew:
		return "جديد"
	case RegistrationStatusPending:
		return "قيد المراجعة"
	case RegistrationStatusApproved:
		return "مقبول"
	case RegistrationStatusDeclined:
		return "مرفوض"
	}
	return string(s)
}

// Accepted values for the enumerated form fields.
var (
	NiveauScolaireOptions = []string{"الثانوي التأهيلي", "الإجازة", "الماستر", "اخر"}
	OrgStatusOptions      = []string{"عضو(ة)", "منخرط(ة)", "متعاطف(ة)"}
)

const (
	MinApplicantAge = 14
	MaxApplicantAge = 26
)

// Registration is one applicant row of camp_registrations.
type Registration struct {
	ID               string             `db:"id" json:"id"`
	Name             string             `db:"name" json:"name"`
	Email            string             `db:"email" json:"email"`
	Phone            *string            `db:"phone" json:"phone,omitempty"`
	Age              *int               `db:"age" json:"age,omitempty"`
	NiveauScolaire   *string            `db:"niveau_scolaire" json:"niveau_scolaire,omitempty"`
	School           *string            `db:"school" json:"school,omitempty"`
	OrgStatus        *string            `db:"org_status" json:"org_status,omitempty"`
	PreviousCamps    TriState           `db:"previous_camps" json:"previous_camps"`
	CanPay350DH      TriState           `db:"can_pay_350dh" json:"can_pay_350dh"`
	CampExpectation  *string            `db:"camp_expectation" json:"camp_expectation,omitempty"`
	ExtraInfo        *string            `db:"extra_info" json:"extra_info,omitempty"`
	PhotoPath        *string            `db:"photo_path" json:"-"`
	PhotoURL         string             `db:"-" json:"photo_url,omitempty"`
	Status           RegistrationStatus `db:"status" json:"status"`
	Score            *int               `db:"score" json:"score,omitempty"`
	ScoreExplanation *string            `db:"score_explanation" json:"score_explanation,omitempty"`
	ApprovedNotified bool               `db:"approved_notified" json:"approved_notified"`
	CreatedAt        time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt        *time.Time         `db:"updated_at" json:"updated_at,omitempty"`
}

// PhoneNumber returns the stored phone or an empty string.
func (r *Registration) PhoneNumber() string {
	if r == nil || r.Phone == nil {
		return ""
	}
	return *r.Phone
}

// RegistrationFilter narrows admin listings.
type RegistrationFilter struct {
	Search   string
	Status   RegistrationStatus
	Page     int
	PageSize int
}

// RegistrationStats counts rows per status.
type RegistrationStats struct {
	Total    int `json:"total"`
	New      int `json:"new"`
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Declined int `json:"declined"`
}

// Add records n rows in status s.
func (st *RegistrationStats) Add(s RegistrationStatus, n int) {
	switch s {
	case RegistrationStatusNew:
		st.New += n
	case RegistrationStatusPending:
		st.Pending += n
	case RegistrationStatusApproved:
		st.Approved += n
	case RegistrationStatusDeclined:
		st.Declined += n
	default:
		return
	}
	st.Total += n
}

// ScoreResult is a clamped score with its explanation.
type ScoreResult struct {
	Score       int    `json:"score"`
	Explanation string `json:"score_explanation"`
}

// Pagination describes a page of a listing.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
	TotalPages int `json:"total_pages"`
}

// NewPagination derives TotalPages from the count.
func NewPagination(page, size, total int) *Pagination {
	pages := 0
	if size > 0 {
		pages = (total + size - 1) / size
	}
	return &Pagination{Page: page, PageSize: size, TotalCount: total, TotalPages: pages}
}
