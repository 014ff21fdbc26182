package clients

import (
	"io"
	"mime"
	"mime/multipart"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormData_KeepsAppendOrder(t *testing.T) {
	form := NewFormData().
		Append("name", "Runner").
		AppendFile("images", "a.jpg", "", strings.NewReader("a")).
		Append("images", "kept.jpg").
		AppendFile("images", `we"ird.jpg`, "image/jpeg", strings.NewReader("b"))

	buf, contentType, err := form.encode()
	require.NoError(t, err)
	mediaType, params, err := mime.ParseMediaType(contentType)
	require.NoError(t, err)
	assert.Equal(t, "multipart/form-data", mediaType)

	type seen struct{ name, fileName, contentType, body string }
	var got []seen
	r := multipart.NewReader(buf, params["boundary"])
	for {
		part, err := r.NextPart()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		body, err := io.ReadAll(part)
		require.NoError(t, err)
		got = append(got, seen{part.FormName(), part.FileName(), part.Header.Get("Content-Type"), string(body)})
	}

	assert.Equal(t, []seen{
		{"name", "", "", "Runner"},
		{"images", "a.jpg", "application/octet-stream", "a"},
		{"images", "", "", "kept.jpg"},
		{"images", `we"ird.jpg`, "image/jpeg", "b"},
	}, got)
}
