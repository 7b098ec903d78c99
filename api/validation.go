package api

import (
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/gcbaptista/coursexp/model"
)

// ValidationError represents a validation error with field context
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult holds the result of validation operations
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// AddError adds a validation error to the result
func (vr *ValidationResult) AddError(field, message string) {
	vr.Valid = false
	vr.Errors = append(vr.Errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

// HasErrors returns true if there are validation errors
func (vr *ValidationResult) HasErrors() bool {
	return len(vr.Errors) > 0
}

// ValidateReviewID parses a review ID path parameter
func ValidateReviewID(raw string) (int, *ValidationResult) {
	result := &ValidationResult{Valid: true}

	if raw == "" {
		result.AddError("id", "Review ID is required")
		return 0, result
	}
	if strings.TrimSpace(raw) != raw {
		result.AddError("id", "Review ID cannot have leading or trailing whitespace")
		return 0, result
	}

	id, err := strconv.Atoi(raw)
	if err != nil {
		result.AddError("id", "Review ID must be an integer")
		return 0, result
	}
	if id <= 0 {
		result.AddError("id", "Review ID must be positive")
	}
	return id, result
}

// ValidateJobID checks that a job ID has the shape the job manager issues
func ValidateJobID(jobID string) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if jobID == "" {
		result.AddError("jobId", "Job ID is required")
		return result
	}
	if _, err := uuid.Parse(jobID); err != nil {
		result.AddError("jobId", "Job ID must be a UUID")
	}
	return result
}

// ValidateJobStatus parses an optional status filter. An empty value means no filter.
func ValidateJobStatus(raw string) (*model.JobStatus, *ValidationResult) {
	result := &ValidationResult{Valid: true}
	if raw == "" {
		return nil, result
	}

	status := model.JobStatus(raw)
	switch status {
	case model.JobStatusPending, model.JobStatusRunning, model.JobStatusCompleted,
		model.JobStatusFailed, model.JobStatusCancelled:
		return &status, result
	}
	result.AddError("status", "Unknown job status '"+raw+"'")
	return nil, result
}
