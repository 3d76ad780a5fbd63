package document

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/StephaneWamba/InvoiceFlow/internal/domain/document"
	"github.com/StephaneWamba/InvoiceFlow/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockWorkspaceRepository is a mock implementation of document.WorkspaceRepository
type MockWorkspaceRepository struct {
	mock.Mock
}

func (m *MockWorkspaceRepository) FindByID(ctx context.Context, id uuid.UUID) (*document.Workspace, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*document.Workspace), args.Error(1)
}

func (m *MockWorkspaceRepository) FindAll(ctx context.Context) ([]document.Workspace, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]document.Workspace), args.Error(1)
}

func (m *MockWorkspaceRepository) Save(ctx context.Context, workspace *document.Workspace) error {
	args := m.Called(ctx, workspace)
	return args.Error(0)
}

func (m *MockWorkspaceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockDocumentRepository is a mock implementation of document.Repository
type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) FindByID(ctx context.Context, id uuid.UUID) (*document.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*document.Document), args.Error(1)
}

func (m *MockDocumentRepository) FindByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]document.Document, error) {
	args := m.Called(ctx, workspaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]document.Document), args.Error(1)
}

func (m *MockDocumentRepository) FindByWorkspaceAndStatus(ctx context.Context, workspaceID uuid.UUID, status document.Status) ([]document.Document, error) {
	args := m.Called(ctx, workspaceID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]document.Document), args.Error(1)
}

func (m *MockDocumentRepository) Save(ctx context.Context, doc *document.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockDocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockExtractedDataRepository is a mock implementation of document.ExtractedDataRepository
type MockExtractedDataRepository struct {
	mock.Mock
}

func (m *MockExtractedDataRepository) FindByDocument(ctx context.Context, documentID uuid.UUID) (*document.ExtractedData, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*document.ExtractedData), args.Error(1)
}

func (m *MockExtractedDataRepository) FindByDocuments(ctx context.Context, documentIDs []uuid.UUID) ([]document.ExtractedData, error) {
	args := m.Called(ctx, documentIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]document.ExtractedData), args.Error(1)
}

func (m *MockExtractedDataRepository) Save(ctx context.Context, data *document.ExtractedData) error {
	args := m.Called(ctx, data)
	return args.Error(0)
}

func (m *MockExtractedDataRepository) DeleteByDocument(ctx context.Context, documentID uuid.UUID) error {
	args := m.Called(ctx, documentID)
	return args.Error(0)
}

// MockObjectStorage is a mock implementation of the ObjectStorage port
type MockObjectStorage struct {
	mock.Mock
}

func (m *MockObjectStorage) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	args := m.Called(ctx, key, reader, size, contentType)
	return args.Error(0)
}

func (m *MockObjectStorage) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *MockObjectStorage) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockObjectStorage) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

// MockExtractor is a mock implementation of the Extractor port
type MockExtractor struct {
	mock.Mock
}

func (m *MockExtractor) Extract(ctx context.Context, doc *document.Document, content io.Reader) (*document.ExtractedData, error) {
	args := m.Called(ctx, doc, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*document.ExtractedData), args.Error(1)
}

type serviceMocks struct {
	workspaceRepo *MockWorkspaceRepository
	documentRepo  *MockDocumentRepository
	extractedRepo *MockExtractedDataRepository
	storage       *MockObjectStorage
	extractor     *MockExtractor
}

func newTestService() (*Service, *serviceMocks) {
	m := &serviceMocks{
		workspaceRepo: new(MockWorkspaceRepository),
		documentRepo:  new(MockDocumentRepository),
		extractedRepo: new(MockExtractedDataRepository),
		storage:       new(MockObjectStorage),
		extractor:     new(MockExtractor),
	}
	service := NewService(
		m.workspaceRepo, m.documentRepo, m.extractedRepo,
		m.storage, m.extractor, DefaultUploadLimits(), zap.NewNop())
	return service, m
}

func testWorkspace(t *testing.T) *document.Workspace {
	t.Helper()
	workspace, err := document.NewWorkspace("Reconciliation", false)
	require.NoError(t, err)
	return workspace
}

func TestService_Upload(t *testing.T) {
	t.Run("stores, extracts and marks processed", func(t *testing.T) {
		service, m := newTestService()
		workspace := testWorkspace(t)
		content := strings.NewReader("%PDF-1.7")

		m.workspaceRepo.On("FindByID", mock.Anything, workspace.ID).Return(workspace, nil)
		m.storage.On("Upload", mock.Anything, mock.AnythingOfType("string"), content, int64(8), "application/pdf").Return(nil)
		m.documentRepo.On("Save", mock.Anything, mock.AnythingOfType("*document.Document")).Return(nil)
		m.storage.On("Download", mock.Anything, mock.AnythingOfType("string")).
			Return(io.NopCloser(strings.NewReader("%PDF-1.7")), nil)
		m.extractor.On("Extract", mock.Anything, mock.AnythingOfType("*document.Document"), mock.Anything).
			Return(&document.ExtractedData{ID: uuid.New()}, nil)
		m.extractedRepo.On("Save", mock.Anything, mock.AnythingOfType("*document.ExtractedData")).Return(nil)

		resp, err := service.Upload(context.Background(), workspace.ID, document.TypeInvoice, "invoice.pdf", 8, content)

		require.NoError(t, err)
		assert.Equal(t, document.StatusProcessed.String(), resp.Status)
		assert.Equal(t, "invoice.pdf", resp.FileName)
		m.storage.AssertExpectations(t)
		m.extractedRepo.AssertExpectations(t)
	})

	t.Run("extraction failure marks the document failed", func(t *testing.T) {
		service, m := newTestService()
		workspace := testWorkspace(t)
		content := strings.NewReader("%PDF-1.7")

		m.workspaceRepo.On("FindByID", mock.Anything, workspace.ID).Return(workspace, nil)
		m.storage.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
		m.documentRepo.On("Save", mock.Anything, mock.Anything).Return(nil)
		m.storage.On("Download", mock.Anything, mock.Anything).
			Return(io.NopCloser(strings.NewReader("")), nil)
		m.extractor.On("Extract", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, errors.New("unreadable scan"))

		resp, err := service.Upload(context.Background(), workspace.ID, document.TypeInvoice, "invoice.pdf", 8, content)

		require.NoError(t, err)
		assert.Equal(t, document.StatusFailed.String(), resp.Status)
		assert.Equal(t, "unreadable scan", resp.FailReason)
	})

	t.Run("rejects unsupported extension", func(t *testing.T) {
		service, m := newTestService()
		workspace := testWorkspace(t)
		m.workspaceRepo.On("FindByID", mock.Anything, workspace.ID).Return(workspace, nil)

		resp, err := service.Upload(context.Background(), workspace.ID, document.TypeInvoice, "notes.docx", 8, strings.NewReader("x"))

		assert.Nil(t, resp)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "UNSUPPORTED_FILE_TYPE", domainErr.Code)
	})

	t.Run("rejects oversized file", func(t *testing.T) {
		service, m := newTestService()
		workspace := testWorkspace(t)
		m.workspaceRepo.On("FindByID", mock.Anything, workspace.ID).Return(workspace, nil)

		resp, err := service.Upload(context.Background(), workspace.ID, document.TypeInvoice, "big.pdf", (50<<20)+1, strings.NewReader("x"))

		assert.Nil(t, resp)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "FILE_TOO_LARGE", domainErr.Code)
	})

	t.Run("rejects unknown workspace", func(t *testing.T) {
		service, m := newTestService()
		id := uuid.New()
		m.workspaceRepo.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

		resp, err := service.Upload(context.Background(), id, document.TypeInvoice, "invoice.pdf", 8, strings.NewReader("x"))

		assert.Nil(t, resp)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "WORKSPACE_NOT_FOUND", domainErr.Code)
	})
}

func TestService_GetExtractedData(t *testing.T) {
	t.Run("returns extraction output", func(t *testing.T) {
		service, m := newTestService()
		doc, _ := document.NewDocument(uuid.New(), document.TypeInvoice, "inv.pdf", "workspaces/x/inv.pdf", 100)
		data, _ := document.NewExtractedData(doc.ID)
		poNumber := "PO-1001"
		data.PONumber = &poNumber

		m.documentRepo.On("FindByID", mock.Anything, doc.ID).Return(doc, nil)
		m.extractedRepo.On("FindByDocument", mock.Anything, doc.ID).Return(data, nil)

		resp, err := service.GetExtractedData(context.Background(), doc.ID)

		require.NoError(t, err)
		assert.Equal(t, doc.ID, resp.DocumentID)
		assert.Equal(t, "PO-1001", *resp.PONumber)
	})

	t.Run("maps missing data", func(t *testing.T) {
		service, m := newTestService()
		doc, _ := document.NewDocument(uuid.New(), document.TypeInvoice, "inv.pdf", "workspaces/x/inv.pdf", 100)

		m.documentRepo.On("FindByID", mock.Anything, doc.ID).Return(doc, nil)
		m.extractedRepo.On("FindByDocument", mock.Anything, doc.ID).Return(nil, shared.ErrNotFound)

		resp, err := service.GetExtractedData(context.Background(), doc.ID)

		assert.Nil(t, resp)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "EXTRACTED_DATA_NOT_FOUND", domainErr.Code)
	})
}

func TestService_Delete(t *testing.T) {
	service, m := newTestService()
	doc, _ := document.NewDocument(uuid.New(), document.TypeInvoice, "inv.pdf", "workspaces/x/inv.pdf", 100)

	m.documentRepo.On("FindByID", mock.Anything, doc.ID).Return(doc, nil)
	m.extractedRepo.On("DeleteByDocument", mock.Anything, doc.ID).Return(nil)
	m.storage.On("Delete", mock.Anything, doc.FilePath).Return(nil)
	m.documentRepo.On("Delete", mock.Anything, doc.ID).Return(nil)

	err := service.Delete(context.Background(), doc.ID)

	require.NoError(t, err)
	m.documentRepo.AssertExpectations(t)
	m.storage.AssertExpectations(t)
}
