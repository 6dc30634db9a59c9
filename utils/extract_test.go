package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractYouTubeChannelID(t *testing.T) {
	cases := map[string]string{
		"UCabcdef123456":                                  "UCabcdef123456",
		"https://youtube.com/channel/UCabcdef123456":      "UCabcdef123456",
		"https://www.youtube.com/channel/UCabcdef123456":  "UCabcdef123456",
		"https://www.youtube.com/c/SomeCreator":           "SomeCreator",
		"https://www.youtube.com/user/oldschoolname":      "oldschoolname",
		"https://www.youtube.com/@handle_name":            "handle_name",
		"  https://youtube.com/channel/UCtrimmed  ":       "UCtrimmed",
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ":     "",
		"https://vimeo.com/channel/whatever":              "",
	}

	for input, want := range cases {
		assert.Equal(t, want, ExtractYouTubeChannelID(input), "input: %s", input)
	}
}

func TestExtractTikTokHandle(t *testing.T) {
	cases := map[string]string{
		"creator.name":                           "creator.name",
		"@creator_name":                          "creator_name",
		"  @spaced  ":                            "spaced",
		"https://www.tiktok.com/@creator.name":   "creator.name",
		"https://tiktok.com/creator_name":        "creator_name",
		"has spaces":                             "",
		"https://www.tiktok.com/":                "",
	}

	for input, want := range cases {
		assert.Equal(t, want, ExtractTikTokHandle(input), "input: %s", input)
	}
}
