package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "OREMA Camp API",
        "description": "Camp registrations, AI scoring and WhatsApp approval notifications",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": ["http", "https"],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Scoring", "description": "Applicant scoring"},
        {"name": "Notifications", "description": "Approval WhatsApp messages"},
        {"name": "Registrations", "description": "Public application form"},
        {"name": "Admin", "description": "Registration review dashboard"},
        {"name": "Photos", "description": "Signed photo downloads"}
    ],
    "paths": {
        "/health": {
            "get": {"tags": ["Health"], "summary": "Liveness probe", "responses": {"200": {"description": "OK"}}}
        },
        "/ready": {
            "get": {
                "tags": ["Health"],
                "summary": "Readiness probe",
                "responses": {"200": {"description": "Ready"}, "503": {"description": "A dependency is down"}}
            }
        },
        "/api/score-participant": {
            "post": {
                "tags": ["Scoring"],
                "summary": "Score a participant",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ScoreParticipantRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ScoreParticipantResponse"}},
                    "400": {"description": "Missing required participant data", "schema": {"$ref": "#/definitions/FlatError"}},
                    "500": {"description": "Not configured or scoring failed", "schema": {"$ref": "#/definitions/FlatError"}}
                }
            }
        },
        "/api/send-approval-whatsapp": {
            "post": {
                "tags": ["Notifications"],
                "summary": "Send the approval WhatsApp message",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SendApprovalRequest"}}
                ],
                "responses": {
                    "200": {"description": "Sent", "schema": {"$ref": "#/definitions/SendApprovalResponse"}},
                    "400": {"description": "Precondition failed or invalid number", "schema": {"$ref": "#/definitions/NotificationError"}},
                    "401": {"description": "Missing or invalid token", "schema": {"$ref": "#/definitions/NotificationError"}},
                    "403": {"description": "Access denied", "schema": {"$ref": "#/definitions/NotificationError"}},
                    "404": {"description": "Registration not found", "schema": {"$ref": "#/definitions/NotificationError"}},
                    "409": {"description": "Already in progress", "schema": {"$ref": "#/definitions/NotificationError"}},
                    "429": {"description": "limit_reached", "schema": {"$ref": "#/definitions/NotificationError"}},
                    "500": {"description": "Configuration, upstream or persistence failure", "schema": {"$ref": "#/definitions/NotificationError"}}
                }
            }
        },
        "/api/v1/registrations": {
            "post": {
                "tags": ["Registrations"],
                "summary": "Submit a camp registration",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "name", "in": "formData", "type": "string", "required": true},
                    {"name": "email", "in": "formData", "type": "string", "required": true},
                    {"name": "phone", "in": "formData", "type": "string", "required": true},
                    {"name": "age", "in": "formData", "type": "integer"},
                    {"name": "niveau_scolaire", "in": "formData", "type": "string"},
                    {"name": "school", "in": "formData", "type": "string"},
                    {"name": "org_status", "in": "formData", "type": "string"},
                    {"name": "previous_camps", "in": "formData", "type": "string"},
                    {"name": "can_pay_350dh", "in": "formData", "type": "string"},
                    {"name": "camp_expectation", "in": "formData", "type": "string"},
                    {"name": "extra_info", "in": "formData", "type": "string", "required": true},
                    {"name": "photo", "in": "formData", "type": "file", "required": true}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/photos/{key}": {
            "get": {
                "tags": ["Photos"],
                "summary": "Download an applicant photo",
                "parameters": [
                    {"name": "key", "in": "path", "type": "string", "required": true},
                    {"name": "token", "in": "query", "type": "string", "required": true}
                ],
                "responses": {"200": {"description": "Image"}, "403": {"description": "Invalid or expired token"}, "404": {"description": "Not found"}}
            }
        },
        "/api/v1/admin/me": {
            "get": {
                "tags": ["Admin"],
                "summary": "Current administrator",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/admin/registrations": {
            "get": {
                "tags": ["Admin"],
                "summary": "List registrations",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string", "enum": ["all", "new", "pending", "approved", "declined"]},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/admin/registrations/stats": {
            "get": {
                "tags": ["Admin"],
                "summary": "Registration counts per status",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/admin/registrations/export": {
            "get": {
                "tags": ["Admin"],
                "summary": "Export approved registrations",
                "produces": ["application/pdf", "text/csv"],
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["pdf", "csv"], "default": "pdf"}
                ],
                "responses": {"200": {"description": "File"}, "400": {"description": "No approved registrations to export"}}
            }
        },
        "/api/v1/admin/registrations/{id}": {
            "get": {
                "tags": ["Admin"],
                "summary": "Registration detail",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found"}}
            },
            "put": {
                "tags": ["Admin"],
                "summary": "Edit applicant fields",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateRegistrationRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "delete": {
                "tags": ["Admin"],
                "summary": "Delete a registration and its photo",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {"204": {"description": "Deleted"}}
            }
        },
        "/api/v1/admin/registrations/{id}/status": {
            "patch": {
                "tags": ["Admin"],
                "summary": "Change review status",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateStatusRequest"}}
                ],
                "responses": {"204": {"description": "Updated"}}
            }
        },
        "/api/v1/admin/registrations/{id}/score": {
            "post": {
                "tags": ["Admin"],
                "summary": "Rescore a registration",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        }
    },
    "definitions": {
        "ScoreParticipantRequest": {
            "type": "object",
            "required": ["name", "email"],
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "age": {"type": "integer"},
                "niveau_scolaire": {"type": "string"},
                "school": {"type": "string"},
                "org_status": {"type": "string"},
                "previous_camps": {"type": "boolean"},
                "can_pay_350dh": {"type": "boolean"},
                "camp_expectation": {"type": "string"},
                "extra_info": {"type": "string"}
            }
        },
        "ScoreParticipantResponse": {
            "type": "object",
            "properties": {
                "score": {"type": "integer"},
                "score_explanation": {"type": "string"},
                "success": {"type": "boolean"}
            }
        },
        "FlatError": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "details": {"type": "string"},
                "success": {"type": "boolean"}
            }
        },
        "SendApprovalRequest": {
            "type": "object",
            "properties": {
                "registrationId": {"type": "string"},
                "accessToken": {"type": "string"}
            }
        },
        "SendApprovalResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"}
            }
        },
        "NotificationError": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        },
        "UpdateRegistrationRequest": {
            "type": "object",
            "required": ["name", "email"],
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"},
                "age": {"type": "integer"},
                "niveau_scolaire": {"type": "string"},
                "school": {"type": "string"},
                "org_status": {"type": "string"},
                "previous_camps": {"type": "boolean"},
                "can_pay_350dh": {"type": "boolean"},
                "camp_expectation": {"type": "string"},
                "extra_info": {"type": "string"}
            }
        },
        "UpdateStatusRequest": {
            "type": "object",
            "required": ["status"],
            "properties": {
                "status": {"type": "string", "enum": ["new", "pending", "approved", "declined"]}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"},
                "total_pages": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
