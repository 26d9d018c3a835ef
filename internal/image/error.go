package image

import (
	"errors"
	"fmt"
)

var (
	ErrNoSource     = errors.New("no image file or URL provided")
	ErrBadImageType = errors.New("only JPG, PNG, GIF and WEBP images are allowed")
	ErrTooLarge     = errors.New("image must be 5MB or smaller")
	ErrMalformedURL = errors.New("invalid image URL")
	ErrInputLocked  = errors.New("the other image input is already in use")
)

// StorageError is a filesystem failure while persisting an upload. No partial
// reference is ever returned alongside one.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("image storage %s failed: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// ReachabilityError means the remote URL probe could not confirm the image.
type ReachabilityError struct {
	URL string
	Err error
}

func (e *ReachabilityError) Error() string {
	return "URL not accessible"
}

func (e *ReachabilityError) Unwrap() error {
	return e.Err
}
