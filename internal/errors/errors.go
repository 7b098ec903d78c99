package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions
var (
	// ErrReviewNotFound is returned when no review carries the requested id
	ErrReviewNotFound = errors.New("review not found")

	// ErrJobNotFound is returned when a job is not found
	ErrJobNotFound = errors.New("job not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrIngestDisabled is returned when an ingest is requested without a bot token
	ErrIngestDisabled = errors.New("ingest disabled")

	// ErrTelegram is returned when the Bot API answers with ok=false
	ErrTelegram = errors.New("telegram api error")
)

// ReviewNotFoundError represents a review lookup miss with context
type ReviewNotFoundError struct {
	ReviewID int
}

func (e *ReviewNotFoundError) Error() string {
	return fmt.Sprintf("review with ID %d not found", e.ReviewID)
}

func (e *ReviewNotFoundError) Is(target error) bool {
	return target == ErrReviewNotFound
}

// NewReviewNotFoundError creates a new ReviewNotFoundError
func NewReviewNotFoundError(reviewID int) *ReviewNotFoundError {
	return &ReviewNotFoundError{ReviewID: reviewID}
}

// JobNotFoundError represents a job not found error with context
type JobNotFoundError struct {
	JobID string
}

func (e *JobNotFoundError) Error() string {
	return fmt.Sprintf("job with ID '%s' not found", e.JobID)
}

func (e *JobNotFoundError) Is(target error) bool {
	return target == ErrJobNotFound
}

// NewJobNotFoundError creates a new JobNotFoundError
func NewJobNotFoundError(jobID string) *JobNotFoundError {
	return &JobNotFoundError{JobID: jobID}
}

// ValidationError represents an input validation error with context
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// TelegramError carries the description the Bot API attached to a failed call
type TelegramError struct {
	Method      string
	Description string
}

func (e *TelegramError) Error() string {
	if e.Description == "" {
		return fmt.Sprintf("telegram %s failed", e.Method)
	}
	return fmt.Sprintf("telegram %s failed: %s", e.Method, e.Description)
}

func (e *TelegramError) Is(target error) bool {
	return target == ErrTelegram
}

// NewTelegramError creates a new TelegramError
func NewTelegramError(method, description string) *TelegramError {
	return &TelegramError{Method: method, Description: description}
}
