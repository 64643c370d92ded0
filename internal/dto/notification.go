package dto

// SendApprovalRequest asks for the approval WhatsApp message to be sent.
type SendApprovalRequest struct {
	RegistrationID string `json:"registrationId"`
	AccessToken    string `json:"accessToken"`
}

// SendApprovalResponse is the flat success body of the notification endpoint.
type SendApprovalResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// NotificationErrorResponse is the flat error body of the notification endpoint.
type NotificationErrorResponse struct {
	Error string `json:"error"`
}
