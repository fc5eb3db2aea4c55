package metadata

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const (
	// TextOnlySchema is the published JSON schema for text-only posts.
	TextOnlySchema = "https://json-schemas.lens.dev/posts/text-only/3.0.0.json"

	// FocusTextOnly is the main content focus for plain text posts.
	FocusTextOnly = "TEXT_ONLY"

	// DefaultLocale is used when no locale is supplied.
	DefaultLocale = "en"
)

// PostMetadata is the uploadable metadata object for a post.
type PostMetadata struct {
	Schema string `json:"$schema"`
	Lens   Body   `json:"lens"`
}

// Body carries the protocol-facing fields of a post metadata object.
type Body struct {
	ID               string   `json:"id"`
	MainContentFocus string   `json:"mainContentFocus"`
	Content          string   `json:"content"`
	Locale           string   `json:"locale"`
	Tags             []string `json:"tags,omitempty"`
	AppID            string   `json:"appId,omitempty"`
}

// TextOnlyOptions are the optional fields of a text-only post.
type TextOnlyOptions struct {
	Locale string
	Tags   []string
	AppID  string
}

// NewTextOnly builds text-only post metadata from a content string. Each
// call mints a fresh metadata id, so identical content still produces a
// distinct object.
func NewTextOnly(content string, options TextOnlyOptions) (PostMetadata, error) {
	if strings.TrimSpace(content) == "" {
		return PostMetadata{}, fmt.Errorf("content cannot be empty")
	}

	locale := strings.TrimSpace(options.Locale)
	if locale == "" {
		locale = DefaultLocale
	}

	return PostMetadata{
		Schema: TextOnlySchema,
		Lens: Body{
			ID:               uuid.NewString(),
			MainContentFocus: FocusTextOnly,
			Content:          content,
			Locale:           locale,
			Tags:             options.Tags,
			AppID:            strings.TrimSpace(options.AppID),
		},
	}, nil
}

// Validate decodes raw bytes as text-only post metadata and checks the
// shape strictly: schema, id, focus, content, and locale must all be
// present and well-formed.
func Validate(raw []byte) (PostMetadata, error) {
	var parsed PostMetadata
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return PostMetadata{}, fmt.Errorf("metadata is not valid JSON: %w", err)
	}

	if parsed.Schema != TextOnlySchema {
		return PostMetadata{}, fmt.Errorf("unsupported metadata schema %q", parsed.Schema)
	}
	if strings.TrimSpace(parsed.Lens.ID) == "" {
		return PostMetadata{}, fmt.Errorf("metadata is missing an id")
	}
	if parsed.Lens.MainContentFocus != FocusTextOnly {
		return PostMetadata{}, fmt.Errorf(
			"unsupported main content focus %q",
			parsed.Lens.MainContentFocus,
		)
	}
	if strings.TrimSpace(parsed.Lens.Content) == "" {
		return PostMetadata{}, fmt.Errorf("metadata content cannot be empty")
	}
	if strings.TrimSpace(parsed.Lens.Locale) == "" {
		return PostMetadata{}, fmt.Errorf("metadata locale cannot be empty")
	}

	return parsed, nil
}
