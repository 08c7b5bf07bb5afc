package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"slices"

	"github.com/son-changwook/routepick/internal/constants"
	"github.com/son-changwook/routepick/internal/contract"
)

// File is an upload payload. An empty ContentType is sniffed from Data.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

func (f File) contentType() string {
	if f.ContentType != "" {
		return f.ContentType
	}
	return http.DetectContentType(f.Data)
}

// check rejects files before they are sent.
func (f File) check(allowed []string) error {
	if len(f.Data) == 0 {
		return &contract.APIError{Code: contract.CodeFileUpload, Message: "empty file " + f.Name}
	}
	if len(f.Data) > constants.MaxUploadBytes {
		return &contract.APIError{
			Code:    contract.CodeFileUpload,
			Message: fmt.Sprintf("%s is %d bytes, limit is %d", f.Name, len(f.Data), constants.MaxUploadBytes),
		}
	}
	if ct := f.contentType(); !slices.Contains(allowed, ct) {
		return &contract.APIError{Code: contract.CodeFileUpload, Message: fmt.Sprintf("%s: type %s not allowed", f.Name, ct)}
	}
	return nil
}

// part is one multipart section: a JSON value or a file.
type part struct {
	field string
	json  any
	file  *File
}

func encodeMultipart(parts ...part) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, p := range parts {
		h := make(textproto.MIMEHeader)
		if p.file != nil {
			h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, p.field, p.file.Name))
			h.Set("Content-Type", p.file.contentType())
		} else {
			h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q`, p.field))
			h.Set("Content-Type", "application/json")
		}
		pw, err := w.CreatePart(h)
		if err != nil {
			return nil, "", err
		}
		if p.file != nil {
			_, err = pw.Write(p.file.Data)
		} else {
			err = json.NewEncoder(pw).Encode(p.json)
		}
		if err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
