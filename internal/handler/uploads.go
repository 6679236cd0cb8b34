// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/olegiv/folio/internal/model"
)

// formOverheadBytes covers the text fields sent alongside an image.
const formOverheadBytes = 1 << 20

// parseUploadForm parses a multipart form whose total size is bounded by the
// image limit plus room for the text fields.
func (h *Handler) parseUploadForm(w http.ResponseWriter, r *http.Request) error {
	limit := h.images.MaxBytes() + formOverheadBytes
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(limit); err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return r.ParseForm()
		}
		return err
	}
	return nil
}

// readImageUpload converts the uploaded file in field to a data URI. ok is
// false when no file was chosen.
func (h *Handler) readImageUpload(r *http.Request, field string) (dataURI string, ok bool, err error) {
	if r.MultipartForm == nil {
		return "", false, nil
	}
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("reading %s upload: %w", field, err)
	}
	defer func() { _ = file.Close() }()

	if header.Size == 0 {
		return "", false, nil
	}

	dataURI, err = h.images.ToDataURI(file)
	if err != nil {
		return "", false, &model.ValidationError{Field: field, Message: model.MsgImageInvalid}
	}
	return dataURI, true, nil
}
