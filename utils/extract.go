// utils/extract.go
package utils

import (
	"regexp"
	"strings"
)

// Accepted YouTube URL shapes (channel id, legacy /c/ and /user/, handles)
var youtubePatterns = []*regexp.Regexp{
	regexp.MustCompile(`youtube\.com/channel/([a-zA-Z0-9_-]+)`),
	regexp.MustCompile(`youtube\.com/c/([a-zA-Z0-9_-]+)`),
	regexp.MustCompile(`youtube\.com/user/([a-zA-Z0-9_-]+)`),
	regexp.MustCompile(`youtube\.com/@([a-zA-Z0-9_-]+)`),
}

var tiktokURLPattern = regexp.MustCompile(`tiktok\.com/@?([a-zA-Z0-9_.]+)`)
var tiktokHandlePattern = regexp.MustCompile(`^[a-zA-Z0-9_.]+$`)

// ExtractYouTubeChannelID pulls a channel id out of a raw id or any common
// YouTube channel URL. Returns "" when nothing usable is found.
func ExtractYouTubeChannelID(urlOrID string) string {
	urlOrID = strings.TrimSpace(urlOrID)

	// Bare channel id
	if !strings.Contains(urlOrID, "/") && !strings.Contains(urlOrID, "?") {
		return urlOrID
	}

	for _, pattern := range youtubePatterns {
		if m := pattern.FindStringSubmatch(urlOrID); m != nil {
			return m[1]
		}
	}
	return ""
}

// ExtractTikTokHandle normalizes a TikTok handle or profile URL to the bare
// handle. Returns "" when the input doesn't look like a handle.
func ExtractTikTokHandle(urlOrHandle string) string {
	handle := strings.TrimSpace(strings.ReplaceAll(urlOrHandle, "@", ""))

	if strings.Contains(handle, "tiktok.com") {
		if m := tiktokURLPattern.FindStringSubmatch(handle); m != nil {
			return m[1]
		}
		return ""
	}

	if tiktokHandlePattern.MatchString(handle) {
		return handle
	}
	return ""
}
