package service

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AbdellahBM/orema-camp/internal/dto"
	"github.com/AbdellahBM/orema-camp/internal/integration/identity"
	"github.com/AbdellahBM/orema-camp/internal/models"
	"github.com/AbdellahBM/orema-camp/internal/repository"
	appErrors "github.com/AbdellahBM/orema-camp/pkg/errors"
)

type resolverMock struct {
	identities map[string]*models.Identity
	calls      int
}

func (m *resolverMock) Resolve(ctx context.Context, token string) (*models.Identity, error) {
	m.calls++
	if id, ok := m.identities[token]; ok {
		return id, nil
	}
	return nil, identity.ErrInvalidToken
}

type notifyRepoMock struct {
	mu        sync.Mutex
	regs      map[string]*models.Registration
	findErr   error
	markErr   error
	sessions  []models.Session
	markCalls int
}

func (m *notifyRepoMock) FindByID(ctx context.Context, id string) (*models.Registration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := repository.SessionFrom(ctx); ok {
		m.sessions = append(m.sessions, s)
	}
	if m.findErr != nil {
		return nil, m.findErr
	}
	reg, ok := m.regs[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *reg
	return &cp, nil
}

func (m *notifyRepoMock) MarkNotified(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.markCalls++
	if m.markErr != nil {
		return false, m.markErr
	}
	reg, ok := m.regs[id]
	if !ok || reg.ApprovedNotified {
		return false, nil
	}
	reg.ApprovedNotified = true
	return true, nil
}

type messengerMock struct {
	mu         sync.Mutex
	configured bool
	outcome    models.DeliveryOutcome
	err        error
	sentTo     []string
	block      chan struct{}
}

func (m *messengerMock) Configured() bool { return m.configured }

func (m *messengerMock) SendChat(ctx context.Context, to, body string) (models.DeliveryOutcome, error) {
	if m.block != nil {
		<-m.block
	}
	m.mu.Lock()
	m.sentTo = append(m.sentTo, to)
	m.mu.Unlock()
	return m.outcome, m.err
}

type alertMock struct{ texts []string }

func (a *alertMock) Alert(ctx context.Context, text string) error {
	a.texts = append(a.texts, text)
	return nil
}

type notifyFixture struct {
	svc       *NotificationService
	repo      *notifyRepoMock
	messenger *messengerMock
	alerts    *alertMock
}

func strPtr(s string) *string { return &s }

func newNotifyFixture() *notifyFixture {
	resolver := &resolverMock{identities: map[string]*models.Identity{
		"admin-token": {UserID: "u-1", Email: "Khouloud@orema.com"},
		"user-token":  {UserID: "u-2", Email: "someone@example.com"},
	}}
	auth := NewAdminAuthService(resolver, []string{" khouloud@orema.com ", "youssef@orema.com"}, nil, 0, nil)
	repo := &notifyRepoMock{regs: map[string]*models.Registration{
		"approved":    {ID: "approved", Status: models.RegistrationStatusApproved, Phone: strPtr("06 12-34-56-78")},
		"pending":     {ID: "pending", Status: models.RegistrationStatusPending, Phone: strPtr("0612345678")},
		"notified":    {ID: "notified", Status: models.RegistrationStatusApproved, Phone: strPtr("0612345678"), ApprovedNotified: true},
		"no-phone":    {ID: "no-phone", Status: models.RegistrationStatusApproved},
		"empty-phone": {ID: "empty-phone", Status: models.RegistrationStatusApproved, Phone: strPtr("")},
	}}
	messenger := &messengerMock{configured: true, outcome: models.DeliveryOutcome{Status: models.DeliverySent}}
	alerts := &alertMock{}
	svc := NewNotificationService(repo, auth, messenger, NewLocalGuard(), alerts, NewMetricsService(), "", nil)
	return &notifyFixture{svc: svc, repo: repo, messenger: messenger, alerts: alerts}
}

func requireAppError(t *testing.T, err error, status int, message string) {
	t.Helper()
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, status, appErr.Status)
	assert.Equal(t, message, appErr.Message)
}

func TestSendApprovalSuccess(t *testing.T) {
	f := newNotifyFixture()
	err := f.svc.SendApproval(context.Background(), dto.SendApprovalRequest{RegistrationID: "approved", AccessToken: "admin-token"})
	require.NoError(t, err)

	assert.Equal(t, []string{"212612345678"}, f.messenger.sentTo)
	assert.True(t, f.repo.regs["approved"].ApprovedNotified)
	require.NotEmpty(t, f.repo.sessions)
	assert.Equal(t, "admin-token", f.repo.sessions[0].AccessToken)
	assert.Equal(t, "u-1", f.repo.sessions[0].Identity.UserID)
}

func TestSendApprovalSecondCallRejected(t *testing.T) {
	f := newNotifyFixture()
	req := dto.SendApprovalRequest{RegistrationID: "approved", AccessToken: "admin-token"}
	require.NoError(t, f.svc.SendApproval(context.Background(), req))

	err := f.svc.SendApproval(context.Background(), req)
	requireAppError(t, err, http.StatusBadRequest, MsgAlreadyNotified)
	assert.Len(t, f.messenger.sentTo, 1)
}

func TestSendApprovalConcurrentCallsSendOnce(t *testing.T) {
	f := newNotifyFixture()
	f.messenger.block = make(chan struct{})
	req := dto.SendApprovalRequest{RegistrationID: "approved", AccessToken: "admin-token"}

	first := make(chan error, 1)
	go func() { first <- f.svc.SendApproval(context.Background(), req) }()

	require.Eventually(t, func() bool {
		release, ok := f.svc.guard.Acquire(context.Background(), "approved")
		if ok {
			release()
		}
		return !ok
	}, time.Second, 5*time.Millisecond)

	err := f.svc.SendApproval(context.Background(), req)
	requireAppError(t, err, http.StatusConflict, MsgInFlight)

	close(f.messenger.block)
	require.NoError(t, <-first)
	assert.Len(t, f.messenger.sentTo, 1)
}

func TestSendApprovalAuthorization(t *testing.T) {
	f := newNotifyFixture()
	ctx := context.Background()

	requireAppError(t, f.svc.SendApproval(ctx, dto.SendApprovalRequest{RegistrationID: "approved"}), http.StatusUnauthorized, MsgNoAccessToken)
	requireAppError(t, f.svc.SendApproval(ctx, dto.SendApprovalRequest{AccessToken: "admin-token"}), http.StatusBadRequest, MsgRegistrationIDMissing)
	requireAppError(t, f.svc.SendApproval(ctx, dto.SendApprovalRequest{RegistrationID: "approved", AccessToken: "forged"}), http.StatusUnauthorized, MsgInvalidToken)
	requireAppError(t, f.svc.SendApproval(ctx, dto.SendApprovalRequest{RegistrationID: "approved", AccessToken: "user-token"}), http.StatusForbidden, MsgAccessDenied)
	assert.Empty(t, f.messenger.sentTo)
	assert.Empty(t, f.repo.sessions)
}

func TestSendApprovalNotConfigured(t *testing.T) {
	f := newNotifyFixture()
	f.messenger.configured = false
	err := f.svc.SendApproval(context.Background(), dto.SendApprovalRequest{RegistrationID: "approved", AccessToken: "admin-token"})
	requireAppError(t, err, http.StatusInternalServerError, MsgMessagingNotConfigured)
}

func TestSendApprovalPreconditions(t *testing.T) {
	cases := map[string]struct {
		status int
		msg    string
	}{
		"pending":     {http.StatusBadRequest, MsgNotApproved},
		"notified":    {http.StatusBadRequest, MsgAlreadyNotified},
		"no-phone":    {http.StatusBadRequest, MsgNoPhone},
		"empty-phone": {http.StatusBadRequest, MsgNoPhone},
		"missing":     {http.StatusNotFound, "Registration not found. ID: missing, Error: sql: no rows in result set"},
	}
	for id, tc := range cases {
		f := newNotifyFixture()
		err := f.svc.SendApproval(context.Background(), dto.SendApprovalRequest{RegistrationID: id, AccessToken: "admin-token"})
		requireAppError(t, err, tc.status, tc.msg)
		assert.Empty(t, f.messenger.sentTo, id)
		assert.Zero(t, f.repo.markCalls, id)
	}
}

func TestSendApprovalDeliveryOutcomes(t *testing.T) {
	cases := []struct {
		outcome models.DeliveryOutcome
		status  int
		msg     string
	}{
		{models.DeliveryOutcome{Status: models.DeliveryInvalidNumber, Message: "invalid number"}, http.StatusBadRequest, MsgInvalidPhone},
		{models.DeliveryOutcome{Status: models.DeliveryLimitReached}, http.StatusTooManyRequests, "limit_reached"},
		{models.DeliveryOutcome{Status: models.DeliveryFailed, Message: "instance offline"}, http.StatusInternalServerError, "instance offline"},
	}
	for _, tc := range cases {
		f := newNotifyFixture()
		f.messenger.outcome = tc.outcome
		err := f.svc.SendApproval(context.Background(), dto.SendApprovalRequest{RegistrationID: "approved", AccessToken: "admin-token"})
		requireAppError(t, err, tc.status, tc.msg)
		assert.False(t, f.repo.regs["approved"].ApprovedNotified)
		assert.Zero(t, f.repo.markCalls)
	}
}

func TestSendApprovalTransportFailure(t *testing.T) {
	f := newNotifyFixture()
	f.messenger.err = errors.New("connection reset")
	err := f.svc.SendApproval(context.Background(), dto.SendApprovalRequest{RegistrationID: "approved", AccessToken: "admin-token"})
	requireAppError(t, err, http.StatusInternalServerError, MsgMessagingFailed)
}

func TestSendApprovalPersistFailureAlerts(t *testing.T) {
	f := newNotifyFixture()
	f.repo.markErr = errors.New("permission denied for table camp_registrations")
	err := f.svc.SendApproval(context.Background(), dto.SendApprovalRequest{RegistrationID: "approved", AccessToken: "admin-token"})
	requireAppError(t, err, http.StatusInternalServerError, MsgNotifiedNotPersisted)
	assert.Equal(t, appErrors.ErrPersistence.Code, appErrors.FromError(err).Code)
	assert.Len(t, f.messenger.sentTo, 1)
	require.Len(t, f.alerts.texts, 1)
	assert.Contains(t, f.alerts.texts[0], "approved")
}

func TestRedisGuard(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	defer client.Close()
	store := repository.NewCacheRepository(client, nil)

	guardA := NewRedisGuard(store, time.Minute, nil)
	guardB := NewRedisGuard(store, time.Minute, nil)
	ctx := context.Background()

	release, ok := guardA.Acquire(ctx, "r-1")
	require.True(t, ok)
	_, ok = guardB.Acquire(ctx, "r-1")
	assert.False(t, ok)

	release()
	releaseB, ok := guardB.Acquire(ctx, "r-1")
	require.True(t, ok)
	releaseB()
}

func TestRedisGuardFallsBackWhenDisabled(t *testing.T) {
	guard := NewRedisGuard(repository.NewCacheRepository(nil, nil), time.Minute, nil)
	release, ok := guard.Acquire(context.Background(), "r-1")
	require.True(t, ok)
	_, ok = guard.Acquire(context.Background(), "r-1")
	assert.False(t, ok)
	release()
}
