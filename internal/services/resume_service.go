package services

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/talentbase/resumeflow/internal/filetext"
	"github.com/talentbase/resumeflow/internal/models"
	"github.com/talentbase/resumeflow/internal/queue"
	pgrepo "github.com/talentbase/resumeflow/internal/repositories/postgres"
	"github.com/talentbase/resumeflow/internal/storage"
	"github.com/talentbase/resumeflow/internal/tenant"
	"github.com/talentbase/resumeflow/internal/utils"
)

const maxUploadBytes = 10 << 20

// UploadInput is one resume upload. JobDescriptionID and Provider are
// optional processing hints carried into the queued job.
type UploadInput struct {
	UserID           string
	Title            string
	FileName         string
	MimeType         string
	FileSize         int
	File             io.Reader
	JobDescriptionID string
	Provider         string
}

// StatusView is the read-side projection of where a resume is in the
// pipeline.
type StatusView struct {
	ID               string     `json:"id"`
	Status           string     `json:"status"`
	ProcessingStatus string     `json:"processing_status"`
	StartedAt        *time.Time `json:"processing_started_at,omitempty"`
	CompletedAt      *time.Time `json:"processing_completed_at,omitempty"`
	ProviderUsed     string     `json:"provider_used,omitempty"`
	Confidence       float64    `json:"extraction_confidence"`
	ProcessingTime   *float64   `json:"processing_time_seconds,omitempty"`
	Error            string     `json:"processing_error,omitempty"`

	ExtractedData *ExtractedData         `json:"extracted_data,omitempty"`
	Runs          []models.ProcessingRun `json:"runs,omitempty"`
}

// ExtractedData is the structured slice of a processed resume.
type ExtractedData struct {
	Name       string         `json:"name,omitempty"`
	Email      string         `json:"email,omitempty"`
	Phone      string         `json:"phone,omitempty"`
	Location   string         `json:"location,omitempty"`
	Summary    string         `json:"summary,omitempty"`
	Skills     []string       `json:"skills,omitempty"`
	Experience datatypes.JSON `json:"experience,omitempty"`
	Education  datatypes.JSON `json:"education,omitempty"`
}

type ResumeService interface {
	Upload(ctx context.Context, in UploadInput) (*models.Resume, error)
	Get(ctx context.Context, userID, id string) (*models.Resume, error)
	List(ctx context.Context, userID string, limit int) ([]models.Resume, error)
	Status(ctx context.Context, userID, id string) (*StatusView, error)
	Reprocess(ctx context.Context, userID, id, jobDescriptionID, provider string) error
}

type resumeService struct {
	resumes pgrepo.ResumeRepository
	runs    pgrepo.RunRepository
	store   storage.Uploader
	jobs    queue.Enqueuer
}

func NewResumeService(resumes pgrepo.ResumeRepository, runs pgrepo.RunRepository, store storage.Uploader, jobs queue.Enqueuer) ResumeService {
	return &resumeService{resumes: resumes, runs: runs, store: store, jobs: jobs}
}

func (s *resumeService) Upload(ctx context.Context, in UploadInput) (*models.Resume, error) {
	const op = "ResumeService.Upload"

	if in.UserID == "" {
		return nil, utils.E(utils.CodeUnauthorized, op, "user_id is required", nil)
	}
	if in.FileName == "" || in.File == nil {
		return nil, utils.E(utils.CodeInvalidArgument, op, "file is required", nil)
	}
	if !filetext.Supported(in.MimeType) {
		return nil, utils.E(utils.CodeInvalidArgument, op, "unsupported file type: "+in.MimeType, nil)
	}
	if in.FileSize > maxUploadBytes {
		return nil, utils.E(utils.CodeInvalidArgument, op, "file exceeds 10MB limit", nil)
	}

	id := uuid.NewString()
	objectName := "resumes/" + id + "/" + in.FileName

	storedPath, err := s.store.Upload(ctx, objectName, in.MimeType, io.LimitReader(in.File, maxUploadBytes))
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "failed to store file", err)
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = in.FileName
	}

	now := time.Now().UTC()
	row := &models.Resume{
		ID:               id,
		UserID:           in.UserID,
		Title:            title,
		FileName:         in.FileName,
		FilePath:         storedPath,
		FileSize:         in.FileSize,
		MimeType:         in.MimeType,
		Status:           models.ResumeStatusUploaded,
		ProcessingStatus: models.ProcessingPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.resumes.Insert(ctx, row); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to persist resume", err)
	}

	if err := s.enqueue(ctx, row.ID, in.UserID, in.JobDescriptionID, in.Provider); err != nil {
		return nil, err
	}
	row.ProcessingStatus = models.ProcessingQueued
	return row, nil
}

func (s *resumeService) Get(ctx context.Context, userID, id string) (*models.Resume, error) {
	const op = "ResumeService.Get"

	row, err := s.resumes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if row.UserID != userID {
		return nil, utils.E(utils.CodeNotFound, op, "resume not found", nil)
	}
	return row, nil
}

func (s *resumeService) List(ctx context.Context, userID string, limit int) ([]models.Resume, error) {
	return s.resumes.ListRecent(ctx, userID, limit)
}

func (s *resumeService) Status(ctx context.Context, userID, id string) (*StatusView, error) {
	row, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	runs, err := s.runs.ListByResume(ctx, id)
	if err != nil {
		return nil, err
	}
	view := &StatusView{
		ID:               row.ID,
		Status:           row.Status,
		ProcessingStatus: row.ProcessingStatus,
		StartedAt:        row.ProcessingStartedAt,
		CompletedAt:      row.ProcessingCompletedAt,
		ProviderUsed:     row.ProviderUsed,
		Confidence:       row.ExtractionConfidence,
		ProcessingTime:   row.ProcessingTimeSeconds(),
		Error:            row.ProcessingError,
		Runs:             runs,
	}
	if row.ProcessingStatus == models.ProcessingCompleted {
		view.ExtractedData = &ExtractedData{
			Name:       row.ExtractedName,
			Email:      row.ExtractedEmail,
			Phone:      row.ExtractedPhone,
			Location:   row.ExtractedLocation,
			Summary:    row.ExtractedSummary,
			Skills:     row.ExtractedSkills,
			Experience: row.ExtractedExperience,
			Education:  row.ExtractedEducation,
		}
	}
	return view, nil
}

func (s *resumeService) Reprocess(ctx context.Context, userID, id, jobDescriptionID, provider string) error {
	const op = "ResumeService.Reprocess"

	row, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	if row.ProcessingStatus == models.ProcessingProcessing || row.ProcessingStatus == models.ProcessingQueued {
		return utils.E(utils.CodeConflict, op, "resume is already being processed", nil)
	}

	if err := s.resumes.ResetForReprocess(ctx, id); err != nil {
		return err
	}
	return s.enqueue(ctx, id, userID, jobDescriptionID, provider)
}

func (s *resumeService) enqueue(ctx context.Context, resumeID, userID, jobDescriptionID, provider string) error {
	const op = "ResumeService.enqueue"

	partition, ok := tenant.FromContext(ctx)
	if !ok {
		return utils.E(utils.CodeForbidden, op, "no partition in context", nil)
	}

	if err := s.jobs.Enqueue(ctx, queue.Job{
		ResumeID:         resumeID,
		JobDescriptionID: jobDescriptionID,
		Provider:         provider,
		Partition:        partition,
		UserID:           userID,
	}); err != nil {
		return err
	}
	return s.resumes.MarkQueued(ctx, resumeID)
}
