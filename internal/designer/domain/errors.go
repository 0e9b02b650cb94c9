package domain

import "errors"

var (
	ErrMalformedSnapshot  = errors.New("malformed design snapshot")
	ErrStorageUnavailable = errors.New("design storage unavailable")
	ErrDecodeFailure      = errors.New("image could not be decoded")
	ErrSnapshotNotFound   = errors.New("design snapshot not found")
	ErrObjectNotFound     = errors.New("scene object not found")
	ErrNoSelection        = errors.New("no object selected")
	ErrInvalidColor       = errors.New("invalid color")
	ErrInvalidSize        = errors.New("invalid garment size")
	ErrEmptyText          = errors.New("text content is empty")
	ErrNotText            = errors.New("scene object is not a text object")
	ErrInvalidTransform   = errors.New("invalid transform")
)
