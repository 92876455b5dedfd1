package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/talentbase/resumeflow/internal/models"
	"github.com/talentbase/resumeflow/internal/providers/enhance"
	pgrepo "github.com/talentbase/resumeflow/internal/repositories/postgres"
	"github.com/talentbase/resumeflow/internal/utils"
)

type JobDescriptionService interface {
	Create(ctx context.Context, userID, title, company, content string) (*models.JobDescription, error)
	Get(ctx context.Context, userID, id string) (*models.JobDescription, error)
	List(ctx context.Context, userID string, limit int) ([]models.JobDescription, error)
}

type jobDescriptionService struct {
	repo pgrepo.JobDescriptionRepository
}

func NewJobDescriptionService(repo pgrepo.JobDescriptionRepository) JobDescriptionService {
	return &jobDescriptionService{repo: repo}
}

func (s *jobDescriptionService) Create(ctx context.Context, userID, title, company, content string) (*models.JobDescription, error) {
	const op = "JobDescriptionService.Create"

	if userID == "" {
		return nil, utils.E(utils.CodeUnauthorized, op, "user_id is required", nil)
	}
	if strings.TrimSpace(title) == "" || strings.TrimSpace(content) == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "title and content are required", nil)
	}

	now := time.Now().UTC()
	jd := &models.JobDescription{
		ID:              uuid.NewString(),
		UserID:          userID,
		Title:           strings.TrimSpace(title),
		Company:         strings.TrimSpace(company),
		Content:         content,
		DerivedKeywords: pq.StringArray(enhance.DeriveKeywords(content)),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Insert(ctx, jd); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to persist job description", err)
	}
	return jd, nil
}

func (s *jobDescriptionService) Get(ctx context.Context, userID, id string) (*models.JobDescription, error) {
	const op = "JobDescriptionService.Get"

	jd, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if jd.UserID != userID {
		return nil, utils.E(utils.CodeNotFound, op, "job description not found", nil)
	}
	return jd, nil
}

func (s *jobDescriptionService) List(ctx context.Context, userID string, limit int) ([]models.JobDescription, error) {
	return s.repo.ListRecent(ctx, userID, limit)
}
