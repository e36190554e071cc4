package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campusops/ccrm-api/internal/models"
	"github.com/campusops/ccrm-api/pkg/jobs"
)

type archiveStore interface {
	Save(regNo string, issuedAt time.Time, data []byte) (string, error)
	List(regNo string) ([]string, error)
	CleanupOlderThan(retention time.Duration) ([]string, error)
}

type archivePayload struct {
	regNo    string
	issuedAt time.Time
	document []byte
}

// ArchiveService keeps a copy of every issued official transcript.
// Writes happen off the request path through a worker queue so a slow
// disk never delays the download; failed writes are retried by the
// queue.
type ArchiveService struct {
	store     archiveStore
	queue     *jobs.Queue
	retention time.Duration
	logger    *zap.Logger
}

// NewArchiveService constructs the archive worker. Retention of zero
// keeps documents forever.
func NewArchiveService(store archiveStore, retention time.Duration, logger *zap.Logger) *ArchiveService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &ArchiveService{store: store, retention: retention, logger: logger}
	s.queue = jobs.NewQueue("transcript-archive", s.process, jobs.QueueConfig{
		Workers: 1,
		Logger:  logger,
	})
	return s
}

// Start launches the archive workers.
func (s *ArchiveService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains and stops the archive workers.
func (s *ArchiveService) Stop() {
	s.queue.Stop()
}

// ArchiveTranscript enqueues the issued document for archival.
func (s *ArchiveService) ArchiveTranscript(t *models.Transcript, document []byte) {
	if s == nil {
		return
	}
	doc := make([]byte, len(document))
	copy(doc, document)
	err := s.queue.Enqueue(jobs.Job{
		ID:      uuid.NewString(),
		Type:    "archive_transcript",
		Payload: archivePayload{regNo: t.Student.RegNo, issuedAt: t.IssuedAt, document: doc},
	})
	if err != nil {
		s.logger.Warn("failed to enqueue transcript archival", zap.String("reg_no", t.Student.RegNo), zap.Error(err))
	}
}

// Archived lists the archived documents for a registration number.
func (s *ArchiveService) Archived(regNo string) ([]string, error) {
	return s.store.List(regNo)
}

func (s *ArchiveService) process(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(archivePayload)
	if !ok {
		s.logger.Error("unexpected archive job payload", zap.String("job_id", job.ID))
		return nil
	}

	rel, err := s.store.Save(payload.regNo, payload.issuedAt, payload.document)
	if err != nil {
		return err
	}
	s.logger.Info("official transcript archived", zap.String("reg_no", payload.regNo), zap.String("path", rel))

	if s.retention > 0 {
		deleted, err := s.store.CleanupOlderThan(s.retention)
		if err != nil {
			s.logger.Warn("archive retention cleanup failed", zap.Error(err))
		} else if len(deleted) > 0 {
			s.logger.Info("expired archive documents removed", zap.Int("count", len(deleted)))
		}
	}
	return nil
}
