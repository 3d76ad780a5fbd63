package handler

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	appdocument "github.com/StephaneWamba/InvoiceFlow/internal/application/document"
	"github.com/StephaneWamba/InvoiceFlow/internal/domain/document"
	"github.com/StephaneWamba/InvoiceFlow/internal/domain/shared"
	"github.com/StephaneWamba/InvoiceFlow/internal/infrastructure/extraction"
	"github.com/StephaneWamba/InvoiceFlow/internal/infrastructure/storage"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockExtractedDataRepository implements document.ExtractedDataRepository for testing
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

var _ document.ExtractedDataRepository = (*MockExtractedDataRepository)(nil)

// Test helpers

type documentTestEnv struct {
	router        *gin.Engine
	workspaceRepo *MockWorkspaceRepository
	documentRepo  *MockDocumentRepository
	extractedRepo *MockExtractedDataRepository
	objects       *storage.InMemoryObjectStorage
}

func setupDocumentTestRouter(limits appdocument.UploadLimits) *documentTestEnv {
	env := &documentTestEnv{
		workspaceRepo: new(MockWorkspaceRepository),
		documentRepo:  new(MockDocumentRepository),
		extractedRepo: new(MockExtractedDataRepository),
		objects:       storage.NewInMemoryObjectStorage(),
	}
	service := appdocument.NewService(
		env.workspaceRepo,
		env.documentRepo,
		env.extractedRepo,
		env.objects,
		extraction.NewStubExtractor(),
		limits,
		zap.NewNop(),
	)
	handler := NewDocumentHandler(service)

	env.router = gin.New()
	handler.RegisterRoutes(env.router.Group("/api/v1"))
	return env
}

func multipartUpload(t *testing.T, fileName, docType, content string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if docType != "" {
		require.NoError(t, writer.WriteField("document_type", docType))
	}
	if fileName != "" {
		part, err := writer.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = io.Copy(part, strings.NewReader(content))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func uploadRequest(env *documentTestEnv, workspaceID uuid.UUID, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/workspaces/"+workspaceID.String()+"/documents", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

// Tests

func TestDocumentHandler_Upload(t *testing.T) {
	t.Run("uploads and processes invoice", func(t *testing.T) {
		env := setupDocumentTestRouter(appdocument.DefaultUploadLimits())
		workspace := createTestWorkspace(t, "Upload Target")
		env.workspaceRepo.On("FindByID", mock.Anything, workspace.ID).Return(workspace, nil)
		env.documentRepo.On("Save", mock.Anything, mock.AnythingOfType("*document.Document")).Return(nil)
		env.extractedRepo.On("Save", mock.Anything, mock.AnythingOfType("*document.ExtractedData")).Return(nil)

		content := "invoice_number: INV-2026-0042\npo_number: PO-1001\ntotal_amount: 1480.50"
		body, contentType := multipartUpload(t, "invoice.pdf", "INVOICE", content)
		w := uploadRequest(env, workspace.ID, body, contentType)

		assert.Equal(t, http.StatusCreated, w.Code)
		data := decodeResponse(t, w).Data.(map[string]interface{})
		assert.Equal(t, "INVOICE", data["document_type"])
		assert.Equal(t, string(document.StatusProcessed), data["status"])
		assert.Equal(t, "invoice.pdf", data["file_name"])
		assert.Equal(t, 1, env.objects.Len())
		env.extractedRepo.AssertCalled(t, "Save", mock.Anything, mock.AnythingOfType("*document.ExtractedData"))
	})

	t.Run("accepts lowercase document type", func(t *testing.T) {
		env := setupDocumentTestRouter(appdocument.DefaultUploadLimits())
		workspace := createTestWorkspace(t, "Upload Target")
		env.workspaceRepo.On("FindByID", mock.Anything, workspace.ID).Return(workspace, nil)
		env.documentRepo.On("Save", mock.Anything, mock.AnythingOfType("*document.Document")).Return(nil)
		env.extractedRepo.On("Save", mock.Anything, mock.AnythingOfType("*document.ExtractedData")).Return(nil)

		body, contentType := multipartUpload(t, "po.pdf", "purchase_order", "po_number: PO-1")
		w := uploadRequest(env, workspace.ID, body, contentType)

		assert.Equal(t, http.StatusCreated, w.Code)
		data := decodeResponse(t, w).Data.(map[string]interface{})
		assert.Equal(t, "PURCHASE_ORDER", data["document_type"])
	})

	t.Run("rejects unknown document type", func(t *testing.T) {
		env := setupDocumentTestRouter(appdocument.DefaultUploadLimits())

		body, contentType := multipartUpload(t, "doc.pdf", "RECEIPT", "x")
		w := uploadRequest(env, uuid.New(), body, contentType)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects missing file part", func(t *testing.T) {
		env := setupDocumentTestRouter(appdocument.DefaultUploadLimits())

		body, contentType := multipartUpload(t, "", "INVOICE", "")
		w := uploadRequest(env, uuid.New(), body, contentType)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects unsupported extension", func(t *testing.T) {
		env := setupDocumentTestRouter(appdocument.DefaultUploadLimits())
		workspace := createTestWorkspace(t, "Upload Target")
		env.workspaceRepo.On("FindByID", mock.Anything, workspace.ID).Return(workspace, nil)

		body, contentType := multipartUpload(t, "malware.exe", "INVOICE", "x")
		w := uploadRequest(env, workspace.ID, body, contentType)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "UNSUPPORTED_FILE_TYPE", resp.Error.Code)
	})

	t.Run("rejects file above size limit", func(t *testing.T) {
		limits := appdocument.DefaultUploadLimits()
		limits.MaxFileSize = 16
		env := setupDocumentTestRouter(limits)
		workspace := createTestWorkspace(t, "Upload Target")
		env.workspaceRepo.On("FindByID", mock.Anything, workspace.ID).Return(workspace, nil)

		body, contentType := multipartUpload(t, "big.pdf", "INVOICE", strings.Repeat("x", 64))
		w := uploadRequest(env, workspace.ID, body, contentType)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "FILE_TOO_LARGE", resp.Error.Code)
	})

	t.Run("returns 404 for unknown workspace", func(t *testing.T) {
		env := setupDocumentTestRouter(appdocument.DefaultUploadLimits())
		id := uuid.New()
		env.workspaceRepo.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

		body, contentType := multipartUpload(t, "invoice.pdf", "INVOICE", "x")
		w := uploadRequest(env, id, body, contentType)

		assert.Equal(t, http.StatusNotFound, w.Code)
		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "WORKSPACE_NOT_FOUND", resp.Error.Code)
	})
}

func TestDocumentHandler_Get(t *testing.T) {
	t.Run("returns document", func(t *testing.T) {
		env := setupDocumentTestRouter(appdocument.DefaultUploadLimits())
		workspace := createTestWorkspace(t, "ws")
		doc, err := document.NewDocument(workspace.ID, document.TypeDeliveryNote, "dn.pdf", "workspaces/x/dn.pdf", 512)
		require.NoError(t, err)
		env.documentRepo.On("FindByID", mock.Anything, doc.ID).Return(doc, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/documents/"+doc.ID.String(), nil)
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		data := decodeResponse(t, w).Data.(map[string]interface{})
		assert.Equal(t, "DELIVERY_NOTE", data["document_type"])
	})

	t.Run("returns 404 for unknown document", func(t *testing.T) {
		env := setupDocumentTestRouter(appdocument.DefaultUploadLimits())
		id := uuid.New()
		env.documentRepo.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/documents/"+id.String(), nil)
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "DOCUMENT_NOT_FOUND", resp.Error.Code)
	})
}

func TestDocumentHandler_GetExtractedData(t *testing.T) {
	t.Run("returns extraction output", func(t *testing.T) {
		env := setupDocumentTestRouter(appdocument.DefaultUploadLimits())
		workspace := createTestWorkspace(t, "ws")
		doc, err := document.NewDocument(workspace.ID, document.TypeInvoice, "inv.pdf", "workspaces/x/inv.pdf", 512)
		require.NoError(t, err)
		data, err := document.NewExtractedData(doc.ID)
		require.NoError(t, err)
		invoiceNumber := "INV-9"
		data.InvoiceNumber = &invoiceNumber

		env.documentRepo.On("FindByID", mock.Anything, doc.ID).Return(doc, nil)
		env.extractedRepo.On("FindByDocument", mock.Anything, doc.ID).Return(data, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/documents/"+doc.ID.String()+"/data", nil)
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		payload := decodeResponse(t, w).Data.(map[string]interface{})
		assert.Equal(t, "INV-9", payload["invoice_number"])
	})

	t.Run("returns 404 when no extraction output exists", func(t *testing.T) {
		env := setupDocumentTestRouter(appdocument.DefaultUploadLimits())
		workspace := createTestWorkspace(t, "ws")
		doc, err := document.NewDocument(workspace.ID, document.TypeInvoice, "inv.pdf", "workspaces/x/inv.pdf", 512)
		require.NoError(t, err)
		env.documentRepo.On("FindByID", mock.Anything, doc.ID).Return(doc, nil)
		env.extractedRepo.On("FindByDocument", mock.Anything, doc.ID).Return(nil, shared.ErrNotFound)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/documents/"+doc.ID.String()+"/data", nil)
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "EXTRACTED_DATA_NOT_FOUND", resp.Error.Code)
	})
}

func TestDocumentHandler_Download(t *testing.T) {
	env := setupDocumentTestRouter(appdocument.DefaultUploadLimits())
	workspace := createTestWorkspace(t, "ws")
	doc, err := document.NewDocument(workspace.ID, document.TypeInvoice, "inv.pdf", "workspaces/x/inv.pdf", 9)
	require.NoError(t, err)
	require.NoError(t, env.objects.Upload(context.Background(), doc.FilePath, strings.NewReader("pdf bytes"), 9, "application/pdf"))
	env.documentRepo.On("FindByID", mock.Anything, doc.ID).Return(doc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents/"+doc.ID.String()+"/file", nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pdf bytes", w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Disposition"), `filename="inv.pdf"`)
}

func TestDocumentHandler_Delete(t *testing.T) {
	env := setupDocumentTestRouter(appdocument.DefaultUploadLimits())
	workspace := createTestWorkspace(t, "ws")
	doc, err := document.NewDocument(workspace.ID, document.TypeInvoice, "inv.pdf", "workspaces/x/inv.pdf", 9)
	require.NoError(t, err)
	require.NoError(t, env.objects.Upload(context.Background(), doc.FilePath, strings.NewReader("pdf bytes"), 9, "application/pdf"))

	env.documentRepo.On("FindByID", mock.Anything, doc.ID).Return(doc, nil)
	env.extractedRepo.On("DeleteByDocument", mock.Anything, doc.ID).Return(nil)
	env.documentRepo.On("Delete", mock.Anything, doc.ID).Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/documents/"+doc.ID.String(), nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	exists, err := env.objects.Exists(context.Background(), doc.FilePath)
	require.NoError(t, err)
	assert.False(t, exists)
	env.documentRepo.AssertExpectations(t)
	env.extractedRepo.AssertExpectations(t)
}
