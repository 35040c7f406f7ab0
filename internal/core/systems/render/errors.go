package render

import "errors"

var (
	ErrEmptyPath         = errors.New("path has no samples")
	ErrUnexpectedPayload = errors.New("unexpected event payload")
)
