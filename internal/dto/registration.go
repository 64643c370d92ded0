package dto

import "github.com/AbdellahBM/orema-camp/internal/models"

// RegistrationForm holds the multipart fields of the public form. Values are
// kept as submitted and converted by the registration service.
type RegistrationForm struct {
	Name            string `form:"name" validate:"required,max=200"`
	Email           string `form:"email" validate:"required,email,max=320"`
	Phone           string `form:"phone" validate:"required,moroccan_phone"`
	Age             string `form:"age" validate:"omitempty,numeric"`
	NiveauScolaire  string `form:"niveau_scolaire" validate:"omitempty,niveau_scolaire"`
	School          string `form:"school" validate:"omitempty,max=300"`
	OrgStatus       string `form:"org_status" validate:"omitempty,org_status"`
	PreviousCamps   string `form:"previous_camps" validate:"omitempty,tristate"`
	CanPay350DH     string `form:"can_pay_350dh" validate:"omitempty,tristate"`
	CampExpectation string `form:"camp_expectation" validate:"omitempty,max=2000"`
	ExtraInfo       string `form:"extra_info" validate:"required,max=2000"`
}

// PhotoUpload describes the uploaded photo part.
type PhotoUpload struct {
	Filename    string
	ContentType string
	Size        int64
}

// UpdateRegistrationRequest replaces the editable applicant fields.
type UpdateRegistrationRequest struct {
	Name            string          `json:"name" validate:"required,max=200"`
	Email           string          `json:"email" validate:"required,email,max=320"`
	Phone           string          `json:"phone" validate:"omitempty,moroccan_phone"`
	Age             *int            `json:"age" validate:"omitempty,min=14,max=26"`
	NiveauScolaire  string          `json:"niveau_scolaire" validate:"omitempty,niveau_scolaire"`
	School          string          `json:"school" validate:"omitempty,max=300"`
	OrgStatus       string          `json:"org_status" validate:"omitempty,org_status"`
	PreviousCamps   models.TriState `json:"previous_camps"`
	CanPay350DH     models.TriState `json:"can_pay_350dh"`
	CampExpectation string          `json:"camp_expectation" validate:"omitempty,max=2000"`
	ExtraInfo       string          `json:"extra_info" validate:"omitempty,max=2000"`
}

// UpdateStatusRequest changes the review status.
type UpdateStatusRequest struct {
	Status models.RegistrationStatus `json:"status" validate:"required,oneof=new pending approved declined"`
}

// ListRegistrationsQuery maps admin listing query parameters.
type ListRegistrationsQuery struct {
	Search string `form:"search"`
	Status string `form:"status"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}
