package stub

import (
	"context"
	"errors"
	"mime/multipart"
	"strings"
	"testing"

	"github.com/pashagolub/pgxmock/v3"
)

var errSave = errors.New("save failed")

func TestUploadsSaveRecordsRow(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectExec(`INSERT INTO stub_uploads`).
		WithArgs(pgxmock.AnyArg(), int64(7), pgxmock.AnyArg(), "routes", "image/png", int64(128)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	up, err := NewUploads(mock).Save(context.Background(), 7, "routes", &multipart.FileHeader{Filename: "wall.png", Size: 128}, "image/png")
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !strings.HasPrefix(up.URL, uploadBaseURL+"routes/") || !strings.HasSuffix(up.URL, ".png") {
		t.Fatalf("unexpected url %s", up.URL)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestUploadsSaveError(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectExec(`INSERT INTO stub_uploads`).WillReturnError(errSave)

	_, err = NewUploads(mock).Save(context.Background(), 7, "videos", &multipart.FileHeader{Filename: "send.mp4", Size: 10}, "video/mp4")
	if !errors.Is(err, errSave) {
		t.Fatalf("expected save error, got %v", err)
	}
}

func TestUploadsWithoutDatabase(t *testing.T) {
	u := NewUploads(nil)
	if err := u.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	up, err := u.Save(context.Background(), 1, "profiles", &multipart.FileHeader{Filename: "me.jpg", Size: 5}, "image/jpeg")
	if err != nil || up.ID == "" {
		t.Fatalf("save: %+v %v", up, err)
	}
}

func TestUploadsEnsureSchema(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS stub_uploads`).
		WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))

	if err := NewUploads(mock).EnsureSchema(context.Background()); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
}
