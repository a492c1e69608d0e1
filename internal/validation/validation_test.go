package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeWhitespace(t *testing.T) {
	assert.Equal(t, "hello world", NormalizeWhitespace("  hello   world  "))
	assert.Equal(t, "a b c", NormalizeWhitespace("a\tb\n c"))
	assert.Equal(t, "", NormalizeWhitespace("   "))
}

func TestValidateBlogTitle(t *testing.T) {
	assert.NoError(t, ValidateBlogTitle("A perfectly fine title"))
	assert.Error(t, ValidateBlogTitle(""))
	assert.Error(t, ValidateBlogTitle(strings.Repeat("x", MaxTitleLength+1)))
}

func TestValidateBlogDescription(t *testing.T) {
	assert.NoError(t, ValidateBlogDescription("short description"))
	assert.Error(t, ValidateBlogDescription(""))
	assert.Error(t, ValidateBlogDescription(strings.Repeat("y", MaxDescriptionLength+1)))
}

func TestValidateTags(t *testing.T) {
	assert.NoError(t, ValidateTags([]string{"go", "web-dev", "backend2"}))
	assert.Error(t, ValidateTags([]string{"UPPER"}))
	assert.Error(t, ValidateTags([]string{"has space"}))
	assert.Error(t, ValidateTags(make([]string, MaxTags+1)))
}

func TestNormalizeTags(t *testing.T) {
	got := NormalizeTags([]string{" Go ", "go", "", "Web-Dev"})
	assert.Equal(t, []string{"go", "web-dev"}, got)
}

func TestValidateImages(t *testing.T) {
	assert.NoError(t, ValidateImages([]string{"https://cdn.example.com/a.png"}))
	assert.Error(t, ValidateImages([]string{" "}))
	assert.Error(t, ValidateImages(make([]string, MaxImages+1)))
}

func TestValidateUsername(t *testing.T) {
	assert.NoError(t, ValidateUsername("jane_doe-99"))
	assert.Error(t, ValidateUsername("ab"))
	assert.Error(t, ValidateUsername("has space"))
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("jane@example.com"))
	assert.Error(t, ValidateEmail("not-an-email"))
}

func TestValidateUUID(t *testing.T) {
	assert.NoError(t, ValidateUUID("b8c1f9a0-4f5f-4f1c-9d3e-2a6b7c8d9e0f"))
	assert.Error(t, ValidateUUID("nope"))
}

func TestValidateComment(t *testing.T) {
	assert.NoError(t, ValidateComment("nice post"))
	assert.Error(t, ValidateComment(""))
	assert.Error(t, ValidateComment(strings.Repeat("z", MaxCommentLength+1)))
}
