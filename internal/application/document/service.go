package document

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/StephaneWamba/InvoiceFlow/internal/domain/document"
	"github.com/StephaneWamba/InvoiceFlow/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UploadLimits bounds what the upload endpoint accepts
type UploadLimits struct {
	MaxFileSize       int64
	AllowedExtensions []string
}

// DefaultUploadLimits accepts PDFs and common scan image formats up to 50MB
func DefaultUploadLimits() UploadLimits {
	return UploadLimits{
		MaxFileSize:       50 << 20,
		AllowedExtensions: []string{".pdf", ".png", ".jpg", ".jpeg", ".tiff"},
	}
}

var contentTypes = map[string]string{
	".pdf":  "application/pdf",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".tiff": "image/tiff",
}

// Service handles document upload, processing and retrieval
type Service struct {
	workspaceRepo document.WorkspaceRepository
	documentRepo  document.Repository
	extractedRepo document.ExtractedDataRepository
	storage       ObjectStorage
	extractor     Extractor
	limits        UploadLimits
	logger        *zap.Logger
}

// NewService creates a new document Service
func NewService(
	workspaceRepo document.WorkspaceRepository,
	documentRepo document.Repository,
	extractedRepo document.ExtractedDataRepository,
	storage ObjectStorage,
	extractor Extractor,
	limits UploadLimits,
	logger *zap.Logger,
) *Service {
	return &Service{
		workspaceRepo: workspaceRepo,
		documentRepo:  documentRepo,
		extractedRepo: extractedRepo,
		storage:       storage,
		extractor:     extractor,
		limits:        limits,
		logger:        logger,
	}
}

// Upload validates and stores a document file, then runs it through the
// extraction pipeline. The returned document reflects the final processing
// state: PROCESSED with extracted data persisted, or FAILED with a reason.
func (s *Service) Upload(ctx context.Context, workspaceID uuid.UUID, docType document.Type, fileName string, size int64, content io.Reader) (*DocumentResponse, error) {
	if _, err := s.workspaceRepo.FindByID(ctx, workspaceID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("WORKSPACE_NOT_FOUND", "Workspace not found")
		}
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	if !s.extensionAllowed(ext) {
		return nil, shared.NewDomainError("UNSUPPORTED_FILE_TYPE",
			fmt.Sprintf("File type %s is not supported", ext))
	}
	if size <= 0 {
		return nil, shared.NewDomainError("EMPTY_FILE", "Uploaded file is empty")
	}
	if size > s.limits.MaxFileSize {
		return nil, shared.NewDomainError("FILE_TOO_LARGE",
			fmt.Sprintf("File exceeds the %d byte limit", s.limits.MaxFileSize))
	}

	key := fmt.Sprintf("workspaces/%s/%s%s", workspaceID, uuid.New(), ext)
	doc, err := document.NewDocument(workspaceID, docType, fileName, key, size)
	if err != nil {
		return nil, err
	}

	if err := s.storage.Upload(ctx, key, content, size, contentTypeFor(ext)); err != nil {
		return nil, err
	}
	if err := s.documentRepo.Save(ctx, doc); err != nil {
		return nil, err
	}

	s.process(ctx, doc)

	response := ToDocumentResponse(doc)
	return &response, nil
}

// process runs extraction for an uploaded document and records the outcome
// on the document itself. Extraction failure marks the document FAILED; it
// never fails the upload.
func (s *Service) process(ctx context.Context, doc *document.Document) {
	if err := doc.MarkProcessing(); err != nil {
		return
	}
	if err := s.documentRepo.Save(ctx, doc); err != nil {
		s.logger.Error("failed to persist processing status",
			zap.String("document_id", doc.ID.String()), zap.Error(err))
		return
	}

	data, err := s.extract(ctx, doc)
	if err != nil {
		s.fail(ctx, doc, err)
		return
	}

	if err := s.extractedRepo.Save(ctx, data); err != nil {
		s.fail(ctx, doc, err)
		return
	}

	if err := doc.MarkProcessed(); err != nil {
		return
	}
	if err := s.documentRepo.Save(ctx, doc); err != nil {
		s.logger.Error("failed to persist processed status",
			zap.String("document_id", doc.ID.String()), zap.Error(err))
	}
}

func (s *Service) extract(ctx context.Context, doc *document.Document) (*document.ExtractedData, error) {
	content, err := s.storage.Download(ctx, doc.FilePath)
	if err != nil {
		return nil, err
	}
	defer content.Close()

	data, err := s.extractor.Extract(ctx, doc, content)
	if err != nil {
		return nil, err
	}
	data.DocumentID = doc.ID
	return data, nil
}

func (s *Service) fail(ctx context.Context, doc *document.Document, cause error) {
	s.logger.Warn("document processing failed",
		zap.String("document_id", doc.ID.String()), zap.Error(cause))
	if err := doc.MarkFailed(cause.Error()); err != nil {
		return
	}
	if err := s.documentRepo.Save(ctx, doc); err != nil {
		s.logger.Error("failed to persist failed status",
			zap.String("document_id", doc.ID.String()), zap.Error(err))
	}
}

// GetByID gets a document by ID
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*DocumentResponse, error) {
	doc, err := s.findDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToDocumentResponse(doc)
	return &response, nil
}

// ListByWorkspace lists a workspace's documents
func (s *Service) ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]DocumentResponse, error) {
	if _, err := s.workspaceRepo.FindByID(ctx, workspaceID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("WORKSPACE_NOT_FOUND", "Workspace not found")
		}
		return nil, err
	}

	documents, err := s.documentRepo.FindByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	return ToDocumentResponses(documents), nil
}

// GetExtractedData gets a document's extraction output
func (s *Service) GetExtractedData(ctx context.Context, documentID uuid.UUID) (*ExtractedDataResponse, error) {
	if _, err := s.findDocument(ctx, documentID); err != nil {
		return nil, err
	}

	data, err := s.extractedRepo.FindByDocument(ctx, documentID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("EXTRACTED_DATA_NOT_FOUND", "No extracted data for this document")
		}
		return nil, err
	}

	response := ToExtractedDataResponse(data)
	return &response, nil
}

// GetFile streams the stored document blob
func (s *Service) GetFile(ctx context.Context, id uuid.UUID) (io.ReadCloser, *DocumentResponse, error) {
	doc, err := s.findDocument(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	content, err := s.storage.Download(ctx, doc.FilePath)
	if err != nil {
		return nil, nil, err
	}

	response := ToDocumentResponse(doc)
	return content, &response, nil
}

// Delete removes a document, its extracted data and its stored blob
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	doc, err := s.findDocument(ctx, id)
	if err != nil {
		return err
	}

	if err := s.extractedRepo.DeleteByDocument(ctx, id); err != nil {
		return err
	}
	if err := s.storage.Delete(ctx, doc.FilePath); err != nil {
		s.logger.Warn("failed to delete document blob",
			zap.String("document_id", id.String()), zap.Error(err))
	}
	return s.documentRepo.Delete(ctx, id)
}

func (s *Service) findDocument(ctx context.Context, id uuid.UUID) (*document.Document, error) {
	doc, err := s.documentRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("DOCUMENT_NOT_FOUND", "Document not found")
		}
		return nil, err
	}
	return doc, nil
}

func (s *Service) extensionAllowed(ext string) bool {
	for _, allowed := range s.limits.AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

func contentTypeFor(ext string) string {
	if ct, ok := contentTypes[ext]; ok {
		return ct
	}
	return "application/octet-stream"
}
