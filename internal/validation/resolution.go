package validation

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/model"
)

const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 2000
	MaxNoteLength        = 5000
)

// ValidateTitle validates a resolution title
func ValidateTitle(title string) error {
	trimmed := strings.TrimSpace(title)

	if trimmed == "" {
		return errors.New("title is required")
	}

	if utf8.RuneCountInString(trimmed) > MaxTitleLength {
		return fmt.Errorf("title is too long (max %d characters)", MaxTitleLength)
	}

	return nil
}

func ValidateDescription(description string) error {
	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		return fmt.Errorf("description is too long (max %d characters)", MaxDescriptionLength)
	}
	return nil
}

func ValidateCategory(category model.Category) error {
	if !category.Valid() {
		return fmt.Errorf("unknown category %q", category)
	}
	return nil
}

func ValidateStatus(status model.Status) error {
	if !status.Valid() {
		return fmt.Errorf("unknown status %q", status)
	}
	return nil
}

// ValidateProgress enforces the 0..100 range stored on every resolution
func ValidateProgress(progress int) error {
	if progress < model.ProgressMin || progress > model.ProgressMax {
		return fmt.Errorf("progress must be between %d and %d", model.ProgressMin, model.ProgressMax)
	}
	return nil
}

// ValidateNote validates a check-in note
func ValidateNote(note string) error {
	if strings.TrimSpace(note) == "" {
		return errors.New("note is required")
	}

	if utf8.RuneCountInString(note) > MaxNoteLength {
		return fmt.Errorf("note is too long (max %d characters)", MaxNoteLength)
	}

	return nil
}
