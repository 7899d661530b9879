package gomag

import "errors"

var (
	// ErrSessionLost means a page that should be authenticated rendered the
	// login form instead.
	ErrSessionLost = errors.New("gomag session lost")
	// ErrNoFileInput means every attachment strategy failed to place the
	// file.
	ErrNoFileInput = errors.New("no usable file input found")
	// ErrAttachmentUnconfirmed means a strategy reported success but the
	// page shows no evidence of the attached file.
	ErrAttachmentUnconfirmed = errors.New("file attachment not confirmed by page")
	// ErrStartImportNotFound means no Start-Import control could be located.
	ErrStartImportNotFound = errors.New("start import control not found")
	// ErrNoCategories means both category discovery strategies came back
	// empty.
	ErrNoCategories = errors.New("no categories found")
)
