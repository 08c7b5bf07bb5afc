package stub

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"slices"

	"github.com/son-changwook/routepick/internal/constants"
	"github.com/son-changwook/routepick/internal/contract"
	"github.com/son-changwook/routepick/internal/db"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const uploadBaseURL = "https://cdn.routepick.kr/uploads/"

// Uploads records received files. Without a database it only hands out ids.
type Uploads struct {
	db db.Querier
}

func NewUploads(db db.Querier) *Uploads {
	return &Uploads{db: db}
}

func (u *Uploads) EnsureSchema(ctx context.Context) error {
	if u.db == nil {
		return nil
	}
	_, err := u.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS stub_uploads (
			id           TEXT PRIMARY KEY,
			owner_id     BIGINT NOT NULL,
			url          TEXT NOT NULL,
			kind         TEXT NOT NULL,
			content_type TEXT NOT NULL,
			size_bytes   BIGINT NOT NULL,
			created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	return err
}

// Upload is a stored file.
type Upload struct {
	ID          string
	URL         string
	ContentType string
	Size        int64
}

// Save records a file and returns the URL it is served from.
func (u *Uploads) Save(ctx context.Context, ownerID int64, kind string, fh *multipart.FileHeader, contentType string) (Upload, error) {
	id := uuid.NewString()
	up := Upload{
		ID:          id,
		URL:         uploadBaseURL + kind + "/" + id + path.Ext(fh.Filename),
		ContentType: contentType,
		Size:        fh.Size,
	}
	if u.db == nil {
		return up, nil
	}
	_, err := u.db.Exec(ctx, `
		INSERT INTO stub_uploads (id, owner_id, url, kind, content_type, size_bytes)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, up.ID, ownerID, up.URL, kind, up.ContentType, up.Size)
	if err != nil {
		return Upload{}, err
	}
	return up, nil
}

func uploadFailed(msg string) *Error {
	return &Error{Status: fiber.StatusUnprocessableEntity, Code: string(contract.CodeFileUpload), Message: msg}
}

// receive reads the multipart file in field and checks its size and sniffed
// type. A missing optional file returns nil.
func receive(c *fiber.Ctx, field string, allowed []string, required bool) (*multipart.FileHeader, string, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if !required {
			return nil, "", nil
		}
		return nil, "", uploadFailed(field + " is required")
	}
	if fh.Size == 0 {
		return nil, "", uploadFailed(fh.Filename + " is empty")
	}
	if fh.Size > constants.MaxUploadBytes {
		return nil, "", uploadFailed(fmt.Sprintf("%s exceeds %d bytes", fh.Filename, constants.MaxUploadBytes))
	}
	contentType, err := sniff(fh)
	if err != nil {
		return nil, "", err
	}
	if !slices.Contains(allowed, contentType) {
		return nil, "", uploadFailed(contentType + " is not allowed")
	}
	return fh, contentType, nil
}

// sniff trusts the declared type only when content sniffing is inconclusive.
func sniff(fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", uploadFailed(err.Error())
	}
	defer f.Close()
	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF {
		return "", uploadFailed(err.Error())
	}
	sniffed := http.DetectContentType(head[:n])
	if sniffed == "application/octet-stream" {
		if declared := fh.Header.Get(fiber.HeaderContentType); declared != "" {
			return declared, nil
		}
	}
	return sniffed, nil
}
