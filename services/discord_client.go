// services/discord_client.go
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

const discordAPIBase = "https://discord.com/api/v10"

var (
	discordNewFormat = regexp.MustCompile(`^[a-zA-Z0-9_.-]{2,32}$`)
	discordOldFormat = regexp.MustCompile(`^[a-zA-Z0-9_.-]{2,32}#\d{4}$`)
)

// NormalizeDiscordUsername strips the leading @ and whitespace.
func NormalizeDiscordUsername(username string) string {
	return strings.TrimPrefix(strings.TrimSpace(username), "@")
}

// ValidDiscordUsernameFormat accepts both the current username format and
// the legacy username#0000 format.
func ValidDiscordUsernameFormat(username string) bool {
	username = NormalizeDiscordUsername(username)
	return discordNewFormat.MatchString(username) || discordOldFormat.MatchString(username)
}

// DiscordMember is the subset of a guild member lookup the registration
// flow cares about.
type DiscordMember struct {
	UserID    string
	Username  string
	AvatarURL string
}

// DiscordClient checks that a registrant's Discord username exists in the
// program's server, via bot-token guild member search. With no bot token
// configured the client is disabled and registration falls back to format
// validation only.
type DiscordClient struct {
	BaseURL  string
	BotToken string
	ServerID string
	Client   *http.Client
}

func NewDiscordClient(botToken, serverID string) *DiscordClient {
	return &DiscordClient{
		BaseURL:  discordAPIBase,
		BotToken: botToken,
		ServerID: serverID,
		Client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *DiscordClient) Enabled() bool {
	return c != nil && c.BotToken != "" && c.ServerID != ""
}

// LookupMember searches the guild for the username; returns nil when no
// member matches.
func (c *DiscordClient) LookupMember(ctx context.Context, username string) (*DiscordMember, error) {
	username = NormalizeDiscordUsername(username)
	// Old-format discriminators are not searchable; match on the name part.
	if i := strings.Index(username, "#"); i >= 0 {
		username = username[:i]
	}

	endpoint := fmt.Sprintf("%s/guilds/%s/members/search?query=%s&limit=5",
		c.BaseURL, c.ServerID, url.QueryEscape(username))

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bot "+c.BotToken)

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Discord member search failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("Discord API returned %d: %s", resp.StatusCode, string(body))
	}

	var members []struct {
		User struct {
			ID       string  `json:"id"`
			Username string  `json:"username"`
			Avatar   *string `json:"avatar"`
		} `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&members); err != nil {
		return nil, fmt.Errorf("failed to decode Discord response: %w", err)
	}

	for _, m := range members {
		if !strings.EqualFold(m.User.Username, username) {
			continue
		}
		member := &DiscordMember{UserID: m.User.ID, Username: m.User.Username}
		if m.User.Avatar != nil && *m.User.Avatar != "" {
			member.AvatarURL = fmt.Sprintf("https://cdn.discordapp.com/avatars/%s/%s.png", m.User.ID, *m.User.Avatar)
		}
		return member, nil
	}
	return nil, nil
}
