package delivery

import (
	"fmt"
	"mime/multipart"

	"storefront_admin/internal/domain"
)

// openUploads opens every file header as a domain.Upload. The returned func
// closes whatever was opened and must be called once the request body has
// been sent upstream.
func openUploads(headers []*multipart.FileHeader) ([]domain.Upload, func(), error) {
	uploads := make([]domain.Upload, 0, len(headers))
	files := make([]multipart.File, 0, len(headers))
	closeAll := func() {
		for _, f := range files {
			_ = f.Close()
		}
	}

	for _, header := range headers {
		f, err := header.Open()
		if err != nil {
			closeAll()
			return nil, func() {}, fmt.Errorf("failed to open uploaded file %s: %w", header.Filename, err)
		}
		files = append(files, f)
		uploads = append(uploads, domain.Upload{
			FileName:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Content:     f,
		})
	}
	return uploads, closeAll, nil
}
