package course

import "strings"

type ContentType string

const (
	ContentVideo    ContentType = "Video"
	ContentDocument ContentType = "Document"
	ContentQuiz     ContentType = "Quiz"
)

var AllContentTypes = []ContentType{ContentVideo, ContentDocument, ContentQuiz}

func (t ContentType) IsValid() bool {
	switch t {
	case ContentVideo, ContentDocument, ContentQuiz:
		return true
	}
	return false
}

// ParseContentType is case-insensitive.
func ParseContentType(raw string) (ContentType, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "video":
		return ContentVideo, true
	case "document":
		return ContentDocument, true
	case "quiz":
		return ContentQuiz, true
	}
	return "", false
}
