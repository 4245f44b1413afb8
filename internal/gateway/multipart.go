// internal/gateway/multipart.go
package gateway

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"
)

// Form is a multipart/form-data body for product, category and blog uploads
// and CSV import.
type Form struct {
	Fields []Field
	Files  []File
}

// Field is a plain form value.
type Field struct {
	Name  string
	Value string
}

// File is an uploaded part.
type File struct {
	Field       string
	Filename    string
	ContentType string
	Content     io.Reader
}

// AddField appends a value and returns the form.
func (f *Form) AddField(name, value string) *Form {
	f.Fields = append(f.Fields, Field{Name: name, Value: value})
	return f
}

// AddFile appends a file part and returns the form.
func (f *Form) AddFile(field, filename, contentType string, content io.Reader) *Form {
	f.Files = append(f.Files, File{Field: field, Filename: filename, ContentType: contentType, Content: content})
	return f
}

// HasField reports whether the form carries a non-blank value for name.
func (f *Form) HasField(name string) bool {
	for _, field := range f.Fields {
		if field.Name == name && strings.TrimSpace(field.Value) != "" {
			return true
		}
	}
	return false
}

// encode writes the form and returns the body with its content type.
func (f *Form) encode() (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	for _, field := range f.Fields {
		if err := w.WriteField(field.Name, field.Value); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", field.Name, err)
		}
	}

	for _, file := range f.Files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, file.Field, file.Filename))
		ct := file.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)

		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("create part %s: %w", file.Field, err)
		}
		if _, err := io.Copy(part, file.Content); err != nil {
			return nil, "", fmt.Errorf("copy part %s: %w", file.Field, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}
	return buf, w.FormDataContentType(), nil
}
