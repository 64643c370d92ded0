package dto

import "github.com/AbdellahBM/orema-camp/internal/models"

// ScoreParticipantRequest is the applicant data submitted for scoring.
type ScoreParticipantRequest struct {
	Name            string          `json:"name" validate:"required"`
	Email           string          `json:"email" validate:"required"`
	Age             *int            `json:"age"`
	NiveauScolaire  string          `json:"niveau_scolaire"`
	School          string          `json:"school"`
	OrgStatus       string          `json:"org_status"`
	PreviousCamps   models.TriState `json:"previous_camps"`
	CanPay350DH     models.TriState `json:"can_pay_350dh"`
	CampExpectation string          `json:"camp_expectation"`
	ExtraInfo       string          `json:"extra_info"`
}

// ScoreParticipantFromRegistration builds a scoring request from a stored row.
func ScoreParticipantFromRegistration(r *models.Registration) ScoreParticipantRequest {
	return ScoreParticipantRequest{
		Name:            r.Name,
		Email:           r.Email,
		Age:             r.Age,
		NiveauScolaire:  deref(r.NiveauScolaire),
		School:          deref(r.School),
		OrgStatus:       deref(r.OrgStatus),
		PreviousCamps:   r.PreviousCamps,
		CanPay350DH:     r.CanPay350DH,
		CampExpectation: deref(r.CampExpectation),
		ExtraInfo:       deref(r.ExtraInfo),
	}
}

// ScoreParticipantResponse is the flat success body of the scoring endpoint.
type ScoreParticipantResponse struct {
	Score            int    `json:"score"`
	ScoreExplanation string `json:"score_explanation"`
	Success          bool   `json:"success"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
