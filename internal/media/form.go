package media

import (
	"fmt"
	"io"
	"mime/multipart"
	"strings"
)

// DeleteSuffix marks a form value that clears an image column.
const DeleteSuffix = "_delete"

// FormError is a client error found while reading an upload form.
type FormError struct {
	Field  string
	Reason string
}

func (e *FormError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// ParseCreate reads the image files of a create form. Delete flags are ignored
// because there is nothing to clear yet; columns without a file are kept (NULL).
func ParseCreate(form *multipart.Form, fields []string) (Updates, error) {
	updates := make(Updates, len(fields))
	for _, field := range fields {
		data, ok, err := readFile(form, field)
		if err != nil {
			return nil, err
		}
		if ok {
			updates[field] = ReplaceImage(data)
		} else {
			updates[field] = KeepImage()
		}
	}
	return updates, nil
}

// ParseUpdate reads the image fields of an edit form:
//
//	<field>_delete=true -> Delete
//	non-empty file      -> Replace
//	neither             -> Keep
//
// Sending both for the same field is rejected.
func ParseUpdate(form *multipart.Form, fields []string) (Updates, error) {
	updates := make(Updates, len(fields))
	for _, field := range fields {
		del := deleteRequested(form, field)
		data, ok, err := readFile(form, field)
		if err != nil {
			return nil, err
		}
		switch {
		case del && ok:
			return nil, &FormError{Field: field, Reason: "cannot replace and delete in the same request"}
		case del:
			updates[field] = DeleteImage()
		case ok:
			updates[field] = ReplaceImage(data)
		default:
			updates[field] = KeepImage()
		}
	}
	return updates, nil
}

func deleteRequested(form *multipart.Form, field string) bool {
	if form == nil {
		return false
	}
	values := form.Value[field+DeleteSuffix]
	return len(values) > 0 && strings.EqualFold(strings.TrimSpace(values[0]), "true")
}

// readFile returns the first non-empty file uploaded under field.
func readFile(form *multipart.Form, field string) ([]byte, bool, error) {
	if form == nil {
		return nil, false, nil
	}
	for _, fh := range form.File[field] {
		if fh == nil || fh.Size <= 0 {
			continue
		}
		f, err := fh.Open()
		if err != nil {
			return nil, false, fmt.Errorf("open %s: %w", field, err)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, false, fmt.Errorf("read %s: %w", field, err)
		}
		if len(data) == 0 {
			continue
		}
		return data, true, nil
	}
	return nil, false, nil
}
