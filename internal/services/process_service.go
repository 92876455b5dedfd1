package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"github.com/talentbase/resumeflow/internal/filetext"
	"github.com/talentbase/resumeflow/internal/models"
	"github.com/talentbase/resumeflow/internal/notify"
	"github.com/talentbase/resumeflow/internal/providers/enhance"
	"github.com/talentbase/resumeflow/internal/providers/extract"
	"github.com/talentbase/resumeflow/internal/queue"
	pgrepo "github.com/talentbase/resumeflow/internal/repositories/postgres"
	"github.com/talentbase/resumeflow/internal/storage"
	"github.com/talentbase/resumeflow/internal/tenant"
	"github.com/talentbase/resumeflow/internal/utils"
)

const (
	// processCeiling bounds one whole unit of work; the reaper's stuck
	// threshold sits above it so the two never race.
	processCeiling = 3 * time.Minute

	enhanceTimeout = 30 * time.Second
)

// Extractor is the provider chain as the pipeline sees it: always answers.
type Extractor interface {
	Extract(ctx context.Context, in extract.Input) *extract.Result
}

// ProcessService is the worker-side unit of work for one queued job.
//
// Process returns an error only when the attempt is worth retrying; fatal
// outcomes are absorbed into the resume row. Abort is the give-up path the
// caller invokes once retries are exhausted.
type ProcessService interface {
	Process(ctx context.Context, job queue.Job) error
	Abort(ctx context.Context, job queue.Job, cause error)
}

type processService struct {
	resumes      pgrepo.ResumeRepository
	jds          pgrepo.JobDescriptionRepository
	runs         pgrepo.RunRepository
	enhancements pgrepo.EnhancementRepository
	store        storage.Downloader
	extractor    Extractor
	enhancer     enhance.Provider
	notifier     notify.Notifier
	log          *logrus.Logger
}

func NewProcessService(
	resumes pgrepo.ResumeRepository,
	jds pgrepo.JobDescriptionRepository,
	runs pgrepo.RunRepository,
	enhancements pgrepo.EnhancementRepository,
	store storage.Downloader,
	extractor Extractor,
	enhancer enhance.Provider,
	notifier notify.Notifier,
	log *logrus.Logger,
) ProcessService {
	if log == nil {
		log = logrus.New()
	}
	return &processService{
		resumes:      resumes,
		jds:          jds,
		runs:         runs,
		enhancements: enhancements,
		store:        store,
		extractor:    extractor,
		enhancer:     enhancer,
		notifier:     notifier,
		log:          log,
	}
}

func (s *processService) Process(ctx context.Context, job queue.Job) error {
	const op = "ProcessService.Process"

	ctx = tenant.WithPartition(ctx, job.Partition)
	ctx, cancel := context.WithTimeout(ctx, processCeiling)
	defer cancel()

	log := s.log.WithFields(logrus.Fields{
		"resume_id": job.ResumeID,
		"partition": string(job.Partition),
		"attempt":   job.Attempt,
	})

	resume, err := s.resumes.GetByID(ctx, job.ResumeID)
	if err != nil {
		if utils.IsCode(err, utils.CodeNotFound) {
			log.Warn("resume no longer exists, dropping job")
			return nil
		}
		return err
	}
	if resume.ProcessingStatus == models.ProcessingCompleted {
		log.Info("resume already processed, dropping duplicate delivery")
		return nil
	}

	startedAt := time.Now().UTC()
	if err := s.resumes.MarkProcessing(ctx, resume.ID, startedAt); err != nil {
		return err
	}

	run := &models.ProcessingRun{
		ID:        uuid.NewString(),
		ResumeID:  resume.ID,
		UserID:    resume.UserID,
		Type:      models.RunTypeExtraction,
		Status:    models.RunStatusProcessing,
		StartedAt: &startedAt,
		CreatedAt: startedAt,
		UpdatedAt: startedAt,
	}
	if err := s.runs.Insert(ctx, run); err != nil {
		return err
	}

	fileBytes, err := s.store.Download(ctx, resume.FilePath)
	if err != nil {
		now := time.Now().UTC()
		_ = s.runs.Fail(ctx, run.ID, "failed to fetch stored file", now)
		if utils.Transient(err) {
			return utils.E(utils.CodeUnavailable, op, "failed to fetch stored file", err)
		}
		s.fail(ctx, resume, "stored file is unavailable", now)
		return nil
	}

	rawText, err := filetext.Extract(resume.MimeType, fileBytes)
	if err != nil {
		log.WithError(err).Warn("local text extraction failed, providers will work from file bytes")
		rawText = ""
	}

	result := s.extractor.Extract(ctx, extract.Input{
		ResumeID:   resume.ID,
		Title:      resume.Title,
		FileName:   resume.FileName,
		MimeType:   resume.MimeType,
		FileBytes:  fileBytes,
		RawText:    rawText,
		Preference: job.Provider,
	})

	completedAt := time.Now().UTC()
	applyResult(resume, result)
	if err := s.resumes.MarkCompleted(ctx, resume, completedAt); err != nil {
		return err
	}
	resume.ProcessingStartedAt = &startedAt
	resume.ProcessingCompletedAt = &completedAt

	payload, _ := json.Marshal(result)
	if err := s.runs.Complete(ctx, run.ID, payload, nil, completedAt); err != nil {
		log.WithError(err).Warn("failed to close extraction run")
	}

	log.WithFields(logrus.Fields{
		"provider":   result.Provider,
		"confidence": result.Confidence,
	}).Info("extraction completed")

	if job.JobDescriptionID != "" && s.enhancer != nil {
		s.enhance(ctx, resume, result, job, log)
	}

	s.notify(ctx, resume, notify.EventProcessed, "")
	return nil
}

// enhance runs the scoring stage under its own deadline. Whatever happens
// here is recorded on the run and otherwise swallowed; the resume is
// already processed.
func (s *processService) enhance(ctx context.Context, resume *models.Resume, result *extract.Result, job queue.Job, log *logrus.Entry) {
	ctx, cancel := context.WithTimeout(ctx, enhanceTimeout)
	defer cancel()

	startedAt := time.Now().UTC()
	run := &models.ProcessingRun{
		ID:               uuid.NewString(),
		ResumeID:         resume.ID,
		JobDescriptionID: &job.JobDescriptionID,
		UserID:           resume.UserID,
		Type:             models.RunTypeEnhancement,
		Status:           models.RunStatusProcessing,
		StartedAt:        &startedAt,
		CreatedAt:        startedAt,
		UpdatedAt:        startedAt,
	}
	if err := s.runs.Insert(ctx, run); err != nil {
		log.WithError(err).Warn("failed to open enhancement run")
		return
	}

	jd, err := s.jds.GetByID(ctx, job.JobDescriptionID)
	if err != nil {
		log.WithError(err).Warn("enhancement skipped: job description unavailable")
		_ = s.runs.Fail(ctx, run.ID, "job description unavailable", time.Now().UTC())
		return
	}

	out, err := s.enhancer.Enhance(ctx, result, jd.Content, jd.DerivedKeywords)
	if err != nil {
		log.WithError(err).Warn("enhancement failed")
		_ = s.runs.Fail(ctx, run.ID, err.Error(), time.Now().UTC())
		return
	}

	now := time.Now().UTC()
	row := &models.Enhancement{
		ID:               uuid.NewString(),
		ResumeID:         resume.ID,
		JobDescriptionID: jd.ID,
		EnhancedSummary:  out.EnhancedSummary,
		EnhancedSkills:   pq.StringArray(out.EnhancedSkills),
		MatchScore:       out.MatchScore,
		Recommendations:  pq.StringArray(out.Recommendations),
		ProviderUsed:     out.Provider,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.enhancements.Upsert(ctx, row); err != nil {
		log.WithError(err).Warn("failed to persist enhancement")
		_ = s.runs.Fail(ctx, run.ID, "failed to persist enhancement", now)
		return
	}

	payload, _ := json.Marshal(out)
	if err := s.runs.Complete(ctx, run.ID, payload, &out.MatchScore, now); err != nil {
		log.WithError(err).Warn("failed to close enhancement run")
	}

	log.WithFields(logrus.Fields{
		"provider":    out.Provider,
		"match_score": out.MatchScore,
	}).Info("enhancement completed")
}

// Abort marks the resume failed after the last retry. Called outside
// Process so a transient error can bounce through the queue first.
func (s *processService) Abort(ctx context.Context, job queue.Job, cause error) {
	ctx = tenant.WithPartition(ctx, job.Partition)

	msg := "processing failed"
	if cause != nil {
		msg = cause.Error()
	}

	resume, err := s.resumes.GetByID(ctx, job.ResumeID)
	if err != nil {
		s.log.WithError(err).WithField("resume_id", job.ResumeID).Error("abort: resume lookup failed")
		return
	}
	s.fail(ctx, resume, msg, time.Now().UTC())
}

func (s *processService) fail(ctx context.Context, resume *models.Resume, msg string, at time.Time) {
	if err := s.resumes.MarkFailed(ctx, resume.ID, msg, at); err != nil {
		s.log.WithError(err).WithField("resume_id", resume.ID).Error("failed to mark resume failed")
	}
	resume.ProcessingCompletedAt = &at
	s.notify(ctx, resume, notify.EventProcessingFailed, msg)
}

func (s *processService) notify(ctx context.Context, resume *models.Resume, eventType, errMsg string) {
	if s.notifier == nil {
		return
	}
	status := models.ProcessingCompleted
	if eventType == notify.EventProcessingFailed {
		status = models.ProcessingFailed
	}
	s.notifier.Notify(ctx, resume.UserID, notify.Event{
		Type:           eventType,
		ResumeID:       resume.ID,
		Status:         status,
		ProcessingTime: resume.ProcessingTimeSeconds(),
		Error:          errMsg,
	})
}

func applyResult(resume *models.Resume, result *extract.Result) {
	resume.ProviderUsed = result.Provider
	resume.ExtractionConfidence = result.Confidence

	// The heuristic provider only finds email/phone; a completed resume
	// still needs a name.
	name := strings.TrimSpace(result.Contact.Name)
	if name == "" {
		name = extract.DefaultName(resume.Title, resume.FileName)
	}
	resume.ExtractedName = name
	resume.ExtractedEmail = extract.SanitizeEmail(result.Contact.Email)
	resume.ExtractedPhone = result.Contact.Phone
	resume.ExtractedLocation = result.Contact.Location
	resume.ExtractedSummary = result.Summary
	resume.ExtractedSkills = pq.StringArray(result.Skills)
	resume.RawText = result.RawText

	if len(result.Experience) > 0 {
		if b, err := json.Marshal(result.Experience); err == nil {
			resume.ExtractedExperience = b
		}
	}
	if len(result.Education) > 0 {
		if b, err := json.Marshal(result.Education); err == nil {
			resume.ExtractedEducation = b
		}
	}
}
