package document

import (
	"context"
	"io"

	"github.com/StephaneWamba/InvoiceFlow/internal/domain/document"
)

// ObjectStorage stores and retrieves document blobs by key
type ObjectStorage interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// Extractor turns a stored document into structured extracted data. The
// extraction backend itself lives outside this service; implementations
// adapt whatever produces the fields.
type Extractor interface {
	Extract(ctx context.Context, doc *document.Document, content io.Reader) (*document.ExtractedData, error)
}
