package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/AbdellahBM/orema-camp/internal/dto"
	"github.com/AbdellahBM/orema-camp/internal/models"
	appErrors "github.com/AbdellahBM/orema-camp/pkg/errors"
	"github.com/AbdellahBM/orema-camp/pkg/jobs"
	"github.com/AbdellahBM/orema-camp/pkg/storage"
)

// JobTypeScoreRegistration identifies background scoring jobs.
const JobTypeScoreRegistration = "score_registration"

const (
	MsgRegistrationNotFound = "Registration not found"
	MsgPhotoRequired        = "Photo is required"
	MsgPhotoTooLarge        = "Photo must be 5MB or smaller"
	MsgPhotoType            = "Photo must be a JPEG, PNG, GIF or WEBP image"
	MsgAgeRange             = "Age must be between 14 and 26"
	MsgInvalidStatusFilter  = "Invalid status filter"
)

// sniffLen is the prefix http.DetectContentType inspects.
const sniffLen = 512

var photoExtensions = map[string]struct{}{"jpg": {}, "jpeg": {}, "png": {}, "gif": {}, "webp": {}}

type registrationStore interface {
	List(ctx context.Context, filter models.RegistrationFilter) ([]models.Registration, int, error)
	FindByID(ctx context.Context, id string) (*models.Registration, error)
	Create(ctx context.Context, reg *models.Registration) error
	Update(ctx context.Context, reg *models.Registration) error
	UpdateStatus(ctx context.Context, id string, status models.RegistrationStatus) error
	SaveScore(ctx context.Context, id string, result models.ScoreResult) error
	Delete(ctx context.Context, id string) (*string, error)
	CountByStatus(ctx context.Context) (models.RegistrationStats, error)
}

type photoStorage interface {
	Save(key string, r io.Reader) (int64, error)
	Delete(key string) error
}

type photoSigner interface {
	Sign(key string) (string, time.Time, error)
}

type participantScorer interface {
	Configured() bool
	Score(ctx context.Context, req dto.ScoreParticipantRequest) (*models.ScoreResult, error)
}

type jobEnqueuer interface {
	TryEnqueue(job jobs.Job) error
}

// RegistrationServiceConfig holds upload limits and photo URL settings.
type RegistrationServiceConfig struct {
	MaxPhotoSize int64
	AllowedMIMEs []string
	// PhotoBaseURL prefixes signed photo links, e.g. "/api/v1/photos".
	PhotoBaseURL string
	AutoScore    bool
}

// RegistrationService owns applicant intake and the admin review operations.
type RegistrationService struct {
	repo      registrationStore
	photos    photoStorage
	signer    photoSigner
	scorer    participantScorer
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
	cfg       RegistrationServiceConfig
	mimeSet   map[string]struct{}
	queue     jobEnqueuer
	now       func() time.Time
}

// NewRegistrationService wires the service. cache and scorer may be nil.
func NewRegistrationService(repo registrationStore, photos photoStorage, signer photoSigner, scorer participantScorer, cache *CacheService, validate *validator.Validate, logger *zap.Logger, cfg RegistrationServiceConfig) *RegistrationService {
	if validate == nil {
		validate = dto.NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxPhotoSize <= 0 {
		cfg.MaxPhotoSize = 5 * 1024 * 1024
	}
	if len(cfg.AllowedMIMEs) == 0 {
		cfg.AllowedMIMEs = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}
	}
	if cfg.PhotoBaseURL == "" {
		cfg.PhotoBaseURL = "/api/v1/photos"
	}
	mimeSet := make(map[string]struct{}, len(cfg.AllowedMIMEs))
	for _, mt := range cfg.AllowedMIMEs {
		mimeSet[strings.ToLower(mt)] = struct{}{}
	}
	return &RegistrationService{
		repo:      repo,
		photos:    photos,
		signer:    signer,
		scorer:    scorer,
		cache:     cache,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
		mimeSet:   mimeSet,
		now:       time.Now,
	}
}

// AttachScoringQueue enables background scoring of new registrations.
func (s *RegistrationService) AttachScoringQueue(q jobEnqueuer) {
	s.queue = q
}

// Create validates the public form, stores the photo and inserts the row with status new.
func (s *RegistrationService) Create(ctx context.Context, form dto.RegistrationForm, upload dto.PhotoUpload, content io.Reader) (*models.Registration, error) {
	if err := s.validator.Struct(form); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, validationMessage(err))
	}
	reg, err := registrationFromForm(form)
	if err != nil {
		return nil, err
	}
	ext, body, err := s.checkPhoto(upload, content)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("camp-registration-%d-%s.%s", s.now().Unix(), uuid.NewString()[:8], ext)
	if _, err := s.photos.Save(key, body); err != nil {
		if errors.Is(err, storage.ErrTooLarge) {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, MsgPhotoTooLarge)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store photo")
	}

	reg.ID = uuid.NewString()
	reg.PhotoPath = &key
	reg.Status = models.RegistrationStatusNew
	reg.CreatedAt = s.now().UTC()
	if err := s.repo.Create(ctx, reg); err != nil {
		if delErr := s.photos.Delete(key); delErr != nil {
			s.logger.Warn("orphan photo not removed", zap.String("photo", key), zap.Error(delErr))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to save registration")
	}

	s.cache.Invalidate(ctx, cacheKeyStats)
	s.enqueueScoring(reg.ID)
	s.logger.Info("registration created", zap.String("registration_id", reg.ID))
	return reg, nil
}

func (s *RegistrationService) enqueueScoring(id string) {
	if !s.cfg.AutoScore || s.queue == nil || s.scorer == nil || !s.scorer.Configured() {
		return
	}
	if err := s.queue.TryEnqueue(jobs.Job{ID: id, Type: JobTypeScoreRegistration, Payload: id}); err != nil {
		s.logger.Warn("scoring job not queued", zap.String("registration_id", id), zap.Error(err))
	}
}

// HandleScoringJob is the scoring queue handler.
func (s *RegistrationService) HandleScoringJob(ctx context.Context, job jobs.Job) error {
	id, ok := job.Payload.(string)
	if !ok || id == "" {
		return fmt.Errorf("scoring job %s: payload is not a registration id", job.ID)
	}
	_, err := s.Rescore(ctx, id)
	return err
}

// Rescore scores a stored registration and persists the result.
func (s *RegistrationService) Rescore(ctx context.Context, id string) (*models.ScoreResult, error) {
	if s.scorer == nil || !s.scorer.Configured() {
		return nil, appErrors.Clone(appErrors.ErrConfiguration, MsgScoringNotConfigured)
	}
	reg, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "failed to load registration")
	}
	result, err := s.scorer.Score(ctx, dto.ScoreParticipantFromRegistration(reg))
	if err != nil {
		return nil, err
	}
	if err := s.repo.SaveScore(ctx, id, *result); err != nil {
		return nil, storeError(err, "failed to save score")
	}
	s.logger.Info("registration scored", zap.String("registration_id", id), zap.Int("score", result.Score))
	return result, nil
}

// List returns a page of registrations. Status "all" or empty disables the filter.
func (s *RegistrationService) List(ctx context.Context, q dto.ListRegistrationsQuery) ([]models.Registration, *models.Pagination, error) {
	filter := models.RegistrationFilter{Search: strings.TrimSpace(q.Search), Page: q.Page, PageSize: q.Limit}
	if status := strings.TrimSpace(q.Status); status != "" && status != "all" {
		filter.Status = models.RegistrationStatus(status)
		if !filter.Status.Valid() {
			return nil, nil, appErrors.Clone(appErrors.ErrValidation, MsgInvalidStatusFilter)
		}
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 10
	}
	if filter.PageSize > 100 {
		filter.PageSize = 100
	}

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, storeError(err, "failed to list registrations")
	}
	return items, models.NewPagination(filter.Page, filter.PageSize, total), nil
}

// Get returns one registration with a signed photo URL.
func (s *RegistrationService) Get(ctx context.Context, id string) (*models.Registration, error) {
	reg, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "failed to load registration")
	}
	reg.PhotoURL = s.photoURL(reg.PhotoPath)
	return reg, nil
}

func (s *RegistrationService) photoURL(key *string) string {
	if key == nil || *key == "" || s.signer == nil {
		return ""
	}
	token, _, err := s.signer.Sign(*key)
	if err != nil {
		s.logger.Warn("photo url not signed", zap.String("photo", *key), zap.Error(err))
		return ""
	}
	return fmt.Sprintf("%s/%s?token=%s", strings.TrimRight(s.cfg.PhotoBaseURL, "/"), url.PathEscape(*key), url.QueryEscape(token))
}

// Update replaces the editable applicant fields.
func (s *RegistrationService) Update(ctx context.Context, id string, req dto.UpdateRegistrationRequest) (*models.Registration, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, validationMessage(err))
	}
	reg, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "failed to load registration")
	}
	reg.Name = strings.TrimSpace(req.Name)
	reg.Email = strings.TrimSpace(req.Email)
	reg.Phone = optional(req.Phone)
	reg.Age = req.Age
	reg.NiveauScolaire = optional(req.NiveauScolaire)
	reg.School = optional(req.School)
	reg.OrgStatus = optional(req.OrgStatus)
	reg.PreviousCamps = req.PreviousCamps
	reg.CanPay350DH = req.CanPay350DH
	reg.CampExpectation = optional(req.CampExpectation)
	reg.ExtraInfo = optional(req.ExtraInfo)

	if err := s.repo.Update(ctx, reg); err != nil {
		return nil, storeError(err, "failed to update registration")
	}
	reg.PhotoURL = s.photoURL(reg.PhotoPath)
	return reg, nil
}

// UpdateStatus moves a registration to another review status.
func (s *RegistrationService) UpdateStatus(ctx context.Context, id string, req dto.UpdateStatusRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Invalid status")
	}
	if err := s.repo.UpdateStatus(ctx, id, req.Status); err != nil {
		return storeError(err, "failed to update status")
	}
	s.cache.Invalidate(ctx, cacheKeyStats)
	return nil
}

// Delete removes the row, then its photo. A photo that cannot be removed is only logged.
func (s *RegistrationService) Delete(ctx context.Context, id string) error {
	photo, err := s.repo.Delete(ctx, id)
	if err != nil {
		return storeError(err, "failed to delete registration")
	}
	s.cache.Invalidate(ctx, cacheKeyStats)
	if photo != nil && *photo != "" {
		if err := s.photos.Delete(*photo); err != nil {
			s.logger.Warn("photo not removed", zap.String("registration_id", id), zap.String("photo", *photo), zap.Error(err))
		}
	}
	return nil
}

// Stats returns per-status counts, served from cache when possible.
func (s *RegistrationService) Stats(ctx context.Context) (*models.RegistrationStats, error) {
	var stats models.RegistrationStats
	if s.cache.Get(ctx, cacheKeyStats, &stats) {
		return &stats, nil
	}
	stats, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, storeError(err, "failed to count registrations")
	}
	s.cache.Set(ctx, cacheKeyStats, stats, 0)
	return &stats, nil
}

// checkPhoto validates the declared upload and the sniffed content type. The
// returned reader replays the sniffed bytes.
func (s *RegistrationService) checkPhoto(upload dto.PhotoUpload, content io.Reader) (string, io.Reader, error) {
	if content == nil || upload.Size <= 0 {
		return "", nil, appErrors.Clone(appErrors.ErrValidation, MsgPhotoRequired)
	}
	if upload.Size > s.cfg.MaxPhotoSize {
		return "", nil, appErrors.Clone(appErrors.ErrValidation, MsgPhotoTooLarge)
	}
	if !s.allowedMIME(upload.ContentType) {
		return "", nil, appErrors.Clone(appErrors.ErrValidation, MsgPhotoType)
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(upload.Filename), "."))
	if _, ok := photoExtensions[ext]; !ok {
		return "", nil, appErrors.Clone(appErrors.ErrValidation, MsgPhotoType)
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(content, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, MsgPhotoRequired)
	}
	if n == 0 || !s.allowedMIME(http.DetectContentType(head[:n])) {
		return "", nil, appErrors.Clone(appErrors.ErrValidation, MsgPhotoType)
	}
	return ext, io.MultiReader(bytes.NewReader(head[:n]), content), nil
}

func (s *RegistrationService) allowedMIME(contentType string) bool {
	mimeType := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	_, ok := s.mimeSet[mimeType]
	return ok
}

func registrationFromForm(form dto.RegistrationForm) (*models.Registration, error) {
	reg := &models.Registration{
		Name:            strings.TrimSpace(form.Name),
		Email:           strings.TrimSpace(form.Email),
		Phone:           optional(form.Phone),
		NiveauScolaire:  optional(form.NiveauScolaire),
		School:          optional(form.School),
		OrgStatus:       optional(form.OrgStatus),
		CampExpectation: optional(form.CampExpectation),
		ExtraInfo:       optional(form.ExtraInfo),
	}
	if raw := strings.TrimSpace(form.Age); raw != "" {
		age, err := strconv.Atoi(raw)
		if err != nil || age < models.MinApplicantAge || age > models.MaxApplicantAge {
			return nil, appErrors.Clone(appErrors.ErrValidation, MsgAgeRange)
		}
		reg.Age = &age
	}
	var err error
	if reg.PreviousCamps, err = models.ParseTriState(form.PreviousCamps); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Invalid previous_camps value")
	}
	if reg.CanPay350DH, err = models.ParseTriState(form.CanPay350DH); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Invalid can_pay_350dh value")
	}
	return reg, nil
}

func storeError(err error, message string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, MsgRegistrationNotFound)
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return appErrors.ErrValidation.Message
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return "Invalid or missing fields: " + strings.Join(fields, ", ")
}

func optional(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
