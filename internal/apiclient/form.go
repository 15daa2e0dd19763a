package apiclient

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"strconv"

	"github.com/example/laundrypro/internal/models"
)

// Form is a multipart body. It is encoded afresh for every attempt so a
// replayed request sends the same fields.
type Form struct {
	fields [][2]string
	files  []models.Upload
}

func NewForm() *Form { return &Form{} }

func (f *Form) Set(key, value string) *Form {
	f.fields = append(f.fields, [2]string{key, value})
	return f
}

// SetString adds key only when v is non-nil.
func (f *Form) SetString(key string, v *string) *Form {
	if v != nil {
		f.Set(key, *v)
	}
	return f
}

func (f *Form) SetFloat(key string, v *float64) *Form {
	if v != nil {
		f.Set(key, strconv.FormatFloat(*v, 'f', -1, 64))
	}
	return f
}

func (f *Form) SetBool(key string, v *bool) *Form {
	if v != nil {
		f.Set(key, strconv.FormatBool(*v))
	}
	return f
}

// Attach adds a file part. A nil upload is ignored.
func (f *Form) Attach(u *models.Upload) *Form {
	if u != nil {
		f.files = append(f.files, *u)
	}
	return f
}

// Len is the number of parts.
func (f *Form) Len() int { return len(f.fields) + len(f.files) }

func (f *Form) encode() ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, kv := range f.fields {
		if err := w.WriteField(kv[0], kv[1]); err != nil {
			return nil, "", err
		}
	}
	for _, file := range f.files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, file.FieldName, file.FileName))
		ct := file.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(file.Data); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
