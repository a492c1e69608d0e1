// Package validation provides input validation helpers for request payloads.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

const (
	// MaxTitleLength is the maximum allowed blog title length.
	MaxTitleLength = 100
	// MaxDescriptionLength is the maximum allowed blog description length.
	MaxDescriptionLength = 300
	// MaxImages is the maximum number of images a blog may carry.
	MaxImages = 5
	// MaxTags is the maximum number of tags a blog may carry.
	MaxTags = 10
	// MaxCommentLength is the maximum allowed comment length.
	MaxCommentLength = 2000
)

var (
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_.-]{3,30}$`)
	emailRegex    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	tagRegex      = regexp.MustCompile(`^[a-z0-9-]{1,30}$`)
	multiSpace    = regexp.MustCompile(`\s+`)
)

// NormalizeWhitespace collapses runs of whitespace into single spaces and trims the ends.
func NormalizeWhitespace(s string) string {
	return strings.TrimSpace(multiSpace.ReplaceAllString(s, " "))
}

// ValidateUUID checks that the given string is a well-formed UUID.
func ValidateUUID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("invalid id %q", id)
	}
	return nil
}

// ValidateBlogTitle validates a blog title after whitespace normalization.
func ValidateBlogTitle(title string) error {
	if title == "" {
		return fmt.Errorf("title is required")
	}
	if len(title) > MaxTitleLength {
		return fmt.Errorf("title must be at most %d characters", MaxTitleLength)
	}
	return nil
}

// ValidateBlogDescription validates a blog description.
func ValidateBlogDescription(description string) error {
	if description == "" {
		return fmt.Errorf("description is required")
	}
	if len(description) > MaxDescriptionLength {
		return fmt.Errorf("description must be at most %d characters", MaxDescriptionLength)
	}
	return nil
}

// ValidateBlogContent validates blog body content.
func ValidateBlogContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("content is required")
	}
	return nil
}

// ValidateTags checks tag count and per-tag format. Tags must already be lowercased.
func ValidateTags(tags []string) error {
	if len(tags) > MaxTags {
		return fmt.Errorf("at most %d tags are allowed", MaxTags)
	}
	for _, tag := range tags {
		if !tagRegex.MatchString(tag) {
			return fmt.Errorf("invalid tag %q: tags must be 1-30 lowercase letters, numbers, or hyphens", tag)
		}
	}
	return nil
}

// NormalizeTags lowercases and trims tags, dropping empties and duplicates while
// preserving first-seen order.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		t := strings.ToLower(strings.TrimSpace(tag))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// ValidateImages checks the image URL count.
func ValidateImages(images []string) error {
	if len(images) > MaxImages {
		return fmt.Errorf("at most %d images are allowed", MaxImages)
	}
	for _, img := range images {
		if strings.TrimSpace(img) == "" {
			return fmt.Errorf("image URLs cannot be empty")
		}
	}
	return nil
}

// ValidateUsername checks username format.
func ValidateUsername(username string) error {
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("username must be 3-30 characters and contain only letters, numbers, dots, hyphens, and underscores")
	}
	return nil
}

// ValidateEmail performs a lightweight email shape check.
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email address")
	}
	return nil
}

// ValidateComment validates comment content after whitespace normalization.
func ValidateComment(content string) error {
	if content == "" {
		return fmt.Errorf("comment content is required")
	}
	if len(content) > MaxCommentLength {
		return fmt.Errorf("comment must be at most %d characters", MaxCommentLength)
	}
	return nil
}
