package service

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptySheet marks a sheet without a single filled cell.
	ErrEmptySheet = errors.New("sheet is empty")
	// ErrNoHeaderFound marks a sheet where no row looks like a header.
	ErrNoHeaderFound = errors.New("no header row found")
	// ErrInvalidHeaders marks a header that misses required fields for its layout.
	ErrInvalidHeaders = errors.New("invalid headers")
)

// SheetError attributes a sheet-level failure to its sheet.
type SheetError struct {
	Sheet string
	Err   error
}

func (e *SheetError) Error() string {
	return fmt.Sprintf("sheet %q: %v", e.Sheet, e.Err)
}

func (e *SheetError) Unwrap() error { return e.Err }
