package clients

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"
)

// formPart is a text field when content is nil, a file otherwise.
type formPart struct {
	name        string
	value       string
	fileName    string
	contentType string
	content     io.Reader
}

// FormData is a multipart/form-data request body. Fields and files are
// written in the order they were appended.
type FormData struct {
	parts []formPart
}

func NewFormData() *FormData {
	return &FormData{}
}

func (f *FormData) Append(name, value string) *FormData {
	f.parts = append(f.parts, formPart{name: name, value: value})
	return f
}

func (f *FormData) AppendFile(name, fileName, contentType string, content io.Reader) *FormData {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if content == nil {
		content = strings.NewReader("")
	}
	f.parts = append(f.parts, formPart{name: name, fileName: fileName, contentType: contentType, content: content})
	return f
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func (f *FormData) encode() (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	for _, part := range f.parts {
		if part.content == nil {
			if err := w.WriteField(part.name, part.value); err != nil {
				return nil, "", fmt.Errorf("failed to write form field %s: %w", part.name, err)
			}
			continue
		}

		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			quoteEscaper.Replace(part.name), quoteEscaper.Replace(part.fileName)))
		h.Set("Content-Type", part.contentType)
		pw, err := w.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create form file %s: %w", part.name, err)
		}
		if _, err := io.Copy(pw, part.content); err != nil {
			return nil, "", fmt.Errorf("failed to copy form file %s: %w", part.name, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}
	return buf, w.FormDataContentType(), nil
}
