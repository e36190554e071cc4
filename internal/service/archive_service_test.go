package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campusops/ccrm-api/internal/models"
	"github.com/campusops/ccrm-api/pkg/storage"
)

func TestArchiveTranscriptWritesDocument(t *testing.T) {
	archive, err := storage.NewLocalArchive(t.TempDir())
	require.NoError(t, err)

	svc := NewArchiveService(archive, 0, zap.NewNop())
	svc.Start(context.Background())
	defer svc.Stop()

	transcript := &models.Transcript{
		Student:  models.Student{RegNo: "R2025001"},
		IssuedAt: time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC),
	}
	svc.ArchiveTranscript(transcript, []byte("%PDF-1.4 test"))

	assert.Eventually(t, func() bool {
		docs, err := svc.Archived("R2025001")
		return err == nil && len(docs) == 1
	}, 2*time.Second, 10*time.Millisecond)

	docs, err := svc.Archived("R2025001")
	require.NoError(t, err)
	assert.Contains(t, docs[0], "transcript-20260301T103000.pdf")

	empty, err := svc.Archived("R9999999")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestArchiveTranscriptNilReceiverIsNoop(t *testing.T) {
	var svc *ArchiveService
	assert.NotPanics(t, func() {
		svc.ArchiveTranscript(&models.Transcript{}, []byte("doc"))
	})
}
