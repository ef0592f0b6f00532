package valueobjects

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"memoryweb/domain/config"
	pkgerrors "memoryweb/pkg/errors"
)

// ContentFormat represents the format of the content
type ContentFormat string

const (
	FormatPlainText ContentFormat = "text"
	FormatMarkdown  ContentFormat = "markdown"
	FormatHTML      ContentFormat = "html"
)

// MemoryContent is a value object for the text of a memory
type MemoryContent struct {
	title  string
	body   string
	format ContentFormat
}

// NewMemoryContent creates content with validation using default configuration
func NewMemoryContent(title, body string, format ContentFormat) (MemoryContent, error) {
	return NewMemoryContentWithConfig(title, body, format, config.DefaultDomainConfig())
}

// NewMemoryContentWithConfig creates content with validation and configuration
func NewMemoryContentWithConfig(title, body string, format ContentFormat, cfg *config.DomainConfig) (MemoryContent, error) {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}

	title = strings.TrimSpace(title)
	body = strings.TrimSpace(body)

	if title == "" && !cfg.AllowEmptyContent {
		return MemoryContent{}, pkgerrors.NewValidationError("title cannot be empty")
	}

	titleLength := utf8.RuneCountInString(title)
	if titleLength < cfg.MinTitleLength {
		return MemoryContent{}, fmt.Errorf("title too short: minimum %d characters required", cfg.MinTitleLength)
	}

	if titleLength > cfg.MaxTitleLength {
		return MemoryContent{}, fmt.Errorf("title exceeds maximum length of %d characters", cfg.MaxTitleLength)
	}

	if utf8.RuneCountInString(body) > cfg.MaxContentLength {
		return MemoryContent{}, fmt.Errorf("content body exceeds maximum length of %d characters", cfg.MaxContentLength)
	}

	if !isValidFormat(format) {
		return MemoryContent{}, pkgerrors.NewValidationError("invalid content format")
	}

	return MemoryContent{
		title:  title,
		body:   body,
		format: format,
	}, nil
}

// Title returns the content title
func (c MemoryContent) Title() string {
	return c.title
}

// Body returns the content body
func (c MemoryContent) Body() string {
	return c.body
}

// Format returns the content format
func (c MemoryContent) Format() ContentFormat {
	return c.format
}

// IsEmpty checks if content is empty
func (c MemoryContent) IsEmpty() bool {
	return c.title == "" && c.body == ""
}

// Equals checks if two contents are equal
func (c MemoryContent) Equals(other MemoryContent) bool {
	return c.title == other.title &&
		c.body == other.body &&
		c.format == other.format
}

// Summary returns a truncated summary of the content
func (c MemoryContent) Summary(maxLength int) string {
	if maxLength <= 0 {
		return ""
	}

	combined := c.title
	if c.body != "" {
		combined += ": " + c.body
	}

	if utf8.RuneCountInString(combined) <= maxLength {
		return combined
	}

	runes := []rune(combined)
	return string(runes[:maxLength-3]) + "..."
}

func isValidFormat(format ContentFormat) bool {
	switch format {
	case FormatPlainText, FormatMarkdown, FormatHTML:
		return true
	default:
		return false
	}
}
