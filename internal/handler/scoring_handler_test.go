package handler

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AbdellahBM/orema-camp/internal/dto"
	"github.com/AbdellahBM/orema-camp/internal/models"
	appErrors "github.com/AbdellahBM/orema-camp/pkg/errors"
)

type scoringServiceMock struct {
	result *models.ScoreResult
	err    error
	req    dto.ScoreParticipantRequest
}

func (m *scoringServiceMock) Score(ctx context.Context, req dto.ScoreParticipantRequest) (*models.ScoreResult, error) {
	m.req = req
	return m.result, m.err
}

func postJSON(t *testing.T, path, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func TestScoringHandlerSuccess(t *testing.T) {
	svc := &scoringServiceMock{result: &models.ScoreResult{Score: 85, Explanation: "مرشح قوي"}}
	c, w := postJSON(t, "/api/score-participant", `{"name":"Amine","email":"a@example.com","age":19,"previous_camps":"نعم"}`)

	NewScoringHandler(svc).Score(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"score":85,"score_explanation":"مرشح قوي","success":true}`, w.Body.String())
	assert.Equal(t, "Amine", svc.req.Name)
	require.NotNil(t, svc.req.Age)
	assert.Equal(t, 19, *svc.req.Age)
}

func TestScoringHandlerErrors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		body   string
		status int
		want   string
	}{
		{"validation", appErrors.Clone(appErrors.ErrValidation, "x"), `{}`, http.StatusBadRequest,
			`{"error":"Missing required participant data","success":false}`},
		{"bad json", nil, `{`, http.StatusBadRequest,
			`{"error":"Missing required participant data","success":false}`},
		{"wrong field type", nil, `{"name":"Amina","email":"amina@example.com","age":"17"}`, http.StatusBadRequest,
			`{"error":"Missing required participant data","success":false}`},
		{"not configured", appErrors.Clone(appErrors.ErrConfiguration, "x"), `{}`, http.StatusInternalServerError,
			`{"error":"Gemini API key not configured","success":false}`},
		{"invalid reply", appErrors.Clone(appErrors.ErrInvalidAIResponse, ""), `{}`, http.StatusInternalServerError,
			`{"error":"Failed to score participant","details":"Invalid AI response format","success":false}`},
		{"timeout", appErrors.Wrap(errors.New("deadline"), appErrors.ErrUpstreamTimeout.Code, 500, "scoring request timed out"), `{}`, http.StatusInternalServerError,
			`{"error":"Failed to score participant","details":"scoring request timed out","success":false}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, w := postJSON(t, "/api/score-participant", tc.body)
			NewScoringHandler(&scoringServiceMock{err: tc.err}).Score(c)
			assert.Equal(t, tc.status, w.Code)
			assert.JSONEq(t, tc.want, w.Body.String())
		})
	}
}
