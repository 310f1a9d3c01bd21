package impl

import (
	"context"
	"io"
	"strings"
	"testing"

	"classtrack/internal/domain/entity"
	domainerrors "classtrack/internal/domain/errors"
	mockRepo "classtrack/internal/mocks/repository"
	mockSvc "classtrack/internal/mocks/service"
	"classtrack/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type attachmentServiceFixtures struct {
	service        usecase.AttachmentUsecase
	attachmentRepo *mockRepo.MockAttachmentRepository
	activityRepo   *mockRepo.MockActivityRepository
	blobStore      *mockSvc.MockBlobStore
}

func createTestAttachmentService(t *testing.T) attachmentServiceFixtures {
	attachmentRepo := mockRepo.NewMockAttachmentRepository(t)
	activityRepo := mockRepo.NewMockActivityRepository(t)
	blobStore := mockSvc.NewMockBlobStore(t)

	service := NewAttachmentService(AttachmentServiceParams{
		AttachmentRepo: attachmentRepo,
		ActivityRepo:   activityRepo,
		BlobStore:      blobStore,
		Logger:         newDiscardLogger(),
	})

	return attachmentServiceFixtures{
		service:        service,
		attachmentRepo: attachmentRepo,
		activityRepo:   activityRepo,
		blobStore:      blobStore,
	}
}

func uploadInput(fileName string, size int64) *usecase.UploadAttachmentInput {
	return &usecase.UploadAttachmentInput{
		FileName:    fileName,
		ContentType: "application/pdf",
		Size:        size,
		Content:     strings.NewReader("file bytes"),
	}
}

func TestAttachmentService_UploadAttachment_Success(t *testing.T) {
	fx := createTestAttachmentService(t)

	ctx := context.Background()
	caller := studentCaller()
	activityID := uuid.New()
	activity := &entity.Activity{ID: activityID, OwnerID: caller.ProfileID}

	fx.activityRepo.EXPECT().FindByID(ctx, activityID).Return(activity, nil)

	var writtenKey string
	fx.blobStore.EXPECT().
		Write(ctx, mock.AnythingOfType("string"), "application/pdf", mock.Anything).
		Run(func(ctx context.Context, key string, contentType string, content io.Reader) {
			writtenKey = key
		}).
		Return(nil)

	fx.attachmentRepo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.Attachment")).
		Return(nil)

	attachment, err := fx.service.UploadAttachment(ctx, caller, activityID, uploadInput("report.pdf", 1024))

	require.NoError(t, err)
	require.NotNil(t, attachment)
	assert.Equal(t, "report.pdf", attachment.FileName)
	assert.Equal(t, activityID, attachment.ActivityID)
	assert.Equal(t, attachment.Key, writtenKey)
	assert.Contains(t, attachment.Key, "activities/"+activityID.String()+"/")
	assert.Contains(t, attachment.Key, "/report.pdf")
}

func TestAttachmentService_UploadAttachment_StripsPathFromFileName(t *testing.T) {
	fx := createTestAttachmentService(t)

	ctx := context.Background()
	caller := studentCaller()
	activityID := uuid.New()
	activity := &entity.Activity{ID: activityID, OwnerID: caller.ProfileID}

	fx.activityRepo.EXPECT().FindByID(ctx, activityID).Return(activity, nil)
	fx.blobStore.EXPECT().
		Write(ctx, mock.AnythingOfType("string"), "application/pdf", mock.Anything).
		Return(nil)
	fx.attachmentRepo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.Attachment")).
		Return(nil)

	attachment, err := fx.service.UploadAttachment(ctx, caller, activityID, uploadInput("../../etc/report.pdf", 1024))

	require.NoError(t, err)
	assert.Equal(t, "report.pdf", attachment.FileName)
}

func TestAttachmentService_UploadAttachment_RejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		size     int64
	}{
		{name: "missing file name", fileName: "", size: 1024},
		{name: "zero size", fileName: "report.pdf", size: 0},
		{name: "oversized file", fileName: "report.pdf", size: maxAttachmentSize + 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := createTestAttachmentService(t)

			attachment, err := fx.service.UploadAttachment(context.Background(), studentCaller(), uuid.New(), uploadInput(tt.fileName, tt.size))

			assert.Error(t, err)
			assert.Nil(t, attachment)
			assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
		})
	}
}

func TestAttachmentService_UploadAttachment_NotOwner(t *testing.T) {
	fx := createTestAttachmentService(t)

	ctx := context.Background()
	activityID := uuid.New()
	activity := &entity.Activity{ID: activityID, OwnerID: uuid.New()}

	fx.activityRepo.EXPECT().FindByID(ctx, activityID).Return(activity, nil)

	attachment, err := fx.service.UploadAttachment(ctx, studentCaller(), activityID, uploadInput("report.pdf", 1024))

	assert.Error(t, err)
	assert.Nil(t, attachment)
	assert.True(t, errors.Is(err, domainerrors.ErrActivityOwnershipViolation))
}

func TestAttachmentService_UploadAttachment_CleansUpBlobWhenRowFails(t *testing.T) {
	fx := createTestAttachmentService(t)

	ctx := context.Background()
	caller := studentCaller()
	activityID := uuid.New()
	activity := &entity.Activity{ID: activityID, OwnerID: caller.ProfileID}

	fx.activityRepo.EXPECT().FindByID(ctx, activityID).Return(activity, nil)

	var writtenKey string
	fx.blobStore.EXPECT().
		Write(ctx, mock.AnythingOfType("string"), "application/pdf", mock.Anything).
		Run(func(ctx context.Context, key string, contentType string, content io.Reader) {
			writtenKey = key
		}).
		Return(nil)

	fx.attachmentRepo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.Attachment")).
		Return(errors.New("unique constraint violation"))

	fx.blobStore.EXPECT().
		Delete(ctx, mock.AnythingOfType("string")).
		Run(func(ctx context.Context, key string) {
			assert.Equal(t, writtenKey, key)
		}).
		Return(nil)

	attachment, err := fx.service.UploadAttachment(ctx, caller, activityID, uploadInput("report.pdf", 1024))

	assert.Error(t, err)
	assert.Nil(t, attachment)
}

func TestAttachmentService_DownloadAttachment_Success(t *testing.T) {
	fx := createTestAttachmentService(t)

	ctx := context.Background()
	caller := studentCaller()
	activityID := uuid.New()
	attachmentID := uuid.New()
	stored := &entity.Attachment{
		ID:          attachmentID,
		ActivityID:  activityID,
		FileName:    "report.pdf",
		ContentType: "application/pdf",
		Key:         "activities/key",
	}
	activity := &entity.Activity{ID: activityID, OwnerID: caller.ProfileID}

	fx.attachmentRepo.EXPECT().FindByID(ctx, attachmentID).Return(stored, nil)
	fx.activityRepo.EXPECT().FindByID(ctx, activityID).Return(activity, nil)
	fx.blobStore.EXPECT().
		Read(ctx, stored.Key).
		Return(io.NopCloser(strings.NewReader("file bytes")), nil)

	attachment, content, err := fx.service.DownloadAttachment(ctx, caller, attachmentID)

	require.NoError(t, err)
	require.NotNil(t, content)
	defer content.Close()

	assert.Equal(t, stored, attachment)
	data, err := io.ReadAll(content)
	require.NoError(t, err)
	assert.Equal(t, "file bytes", string(data))
}

func TestAttachmentService_DownloadAttachment_NotOwner(t *testing.T) {
	fx := createTestAttachmentService(t)

	ctx := context.Background()
	activityID := uuid.New()
	attachmentID := uuid.New()
	stored := &entity.Attachment{ID: attachmentID, ActivityID: activityID, Key: "activities/key"}
	activity := &entity.Activity{ID: activityID, OwnerID: uuid.New()}

	fx.attachmentRepo.EXPECT().FindByID(ctx, attachmentID).Return(stored, nil)
	fx.activityRepo.EXPECT().FindByID(ctx, activityID).Return(activity, nil)

	attachment, content, err := fx.service.DownloadAttachment(ctx, studentCaller(), attachmentID)

	assert.Error(t, err)
	assert.Nil(t, attachment)
	assert.Nil(t, content)
	assert.True(t, errors.Is(err, domainerrors.ErrActivityOwnershipViolation))
}

func TestAttachmentService_DownloadAttachment_NotFound(t *testing.T) {
	fx := createTestAttachmentService(t)

	ctx := context.Background()
	attachmentID := uuid.New()

	fx.attachmentRepo.EXPECT().
		FindByID(ctx, attachmentID).
		Return(nil, errors.New("record not found"))

	attachment, content, err := fx.service.DownloadAttachment(ctx, studentCaller(), attachmentID)

	assert.Error(t, err)
	assert.Nil(t, attachment)
	assert.Nil(t, content)
	assert.True(t, errors.Is(err, domainerrors.ErrNotFound))
}
