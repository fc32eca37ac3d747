package video

import (
	"errors"
	"regexp"
	"strings"
)

var ErrInvalidVideoURL = errors.New("invalid video url")

var vimeoURLPattern = regexp.MustCompile(`(?i)^(?:https?://)?(?:www\.)?(?:player\.)?vimeo\.com/(?:video/)?(\d+)`)
var bareIDPattern = regexp.MustCompile(`^\d+$`)

// ExtractVideoID pulls the numeric Vimeo id out of the accepted URL shapes:
// vimeo.com/123, www.vimeo.com/video/123, player.vimeo.com/video/123, or a
// bare numeric id.
func ExtractVideoID(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrInvalidVideoURL
	}

	if bareIDPattern.MatchString(trimmed) {
		return trimmed, nil
	}

	m := vimeoURLPattern.FindStringSubmatch(trimmed)
	if m == nil {
		return "", ErrInvalidVideoURL
	}
	return m[1], nil
}
