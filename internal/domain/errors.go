package domain

import "errors"

var (
	ErrNotFound            = errors.New("resource not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrUploadFailed        = errors.New("file upload to storage failed")
	ErrEmptyDocument       = errors.New("document contains no readable pages")
	ErrIngestFailed        = errors.New("document ingestion failed")
	ErrUnknownUnitPair     = errors.New("no conversion defined for unit pair")
	ErrCalorificRequired   = errors.New("calorific value required for volume to energy conversion")
	ErrAmountParse         = errors.New("amount could not be parsed")
	ErrDateParse           = errors.New("date could not be parsed")
	ErrExtractionNotDone   = errors.New("extraction has not completed")
	ErrBaselineIsSelf      = errors.New("extraction is the pinned baseline")
)
