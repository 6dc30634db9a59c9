package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDiscordUsername(t *testing.T) {
	assert.Equal(t, "somebody", NormalizeDiscordUsername("@somebody"))
	assert.Equal(t, "somebody", NormalizeDiscordUsername("  somebody "))
	assert.Equal(t, "some.body_1", NormalizeDiscordUsername("@some.body_1"))
}

func TestValidDiscordUsernameFormat(t *testing.T) {
	valid := []string{"somebody", "@somebody", "some.body_1", "ab", "legacy#1234"}
	for _, u := range valid {
		assert.True(t, ValidDiscordUsernameFormat(u), "username: %s", u)
	}

	invalid := []string{"", "a", "has spaces", "way#12345", "emoji😀name"}
	for _, u := range invalid {
		assert.False(t, ValidDiscordUsernameFormat(u), "username: %s", u)
	}
}

func TestDiscordClientEnabled(t *testing.T) {
	assert.False(t, NewDiscordClient("", "").Enabled())
	assert.False(t, NewDiscordClient("token", "").Enabled())
	assert.False(t, NewDiscordClient("", "server").Enabled())
	assert.True(t, NewDiscordClient("token", "server").Enabled())

	var nilClient *DiscordClient
	assert.False(t, nilClient.Enabled())
}

func TestLookupMember(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bot test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "/guilds/guild-1/members/search", r.URL.Path)
		assert.Equal(t, "somebody", r.URL.Query().Get("query"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"user": {"id": "111", "username": "other", "avatar": null}},
			{"user": {"id": "222", "username": "SomeBody", "avatar": "abc123"}}
		]`))
	}))
	defer server.Close()

	client := NewDiscordClient("test-token", "guild-1")
	client.BaseURL = server.URL

	member, err := client.LookupMember(context.Background(), "@somebody")
	require.NoError(t, err)
	require.NotNil(t, member)
	assert.Equal(t, "222", member.UserID)
	assert.Equal(t, "SomeBody", member.Username)
	assert.Equal(t, "https://cdn.discordapp.com/avatars/222/abc123.png", member.AvatarURL)
}

func TestLookupMemberNoMatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewDiscordClient("test-token", "guild-1")
	client.BaseURL = server.URL

	member, err := client.LookupMember(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Nil(t, member)
}

func TestLookupMemberLegacyDiscriminator(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The discriminator must be stripped before searching.
		assert.Equal(t, "legacy", r.URL.Query().Get("query"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"user": {"id": "333", "username": "legacy", "avatar": null}}]`))
	}))
	defer server.Close()

	client := NewDiscordClient("test-token", "guild-1")
	client.BaseURL = server.URL

	member, err := client.LookupMember(context.Background(), "legacy#1234")
	require.NoError(t, err)
	require.NotNil(t, member)
	assert.Equal(t, "333", member.UserID)
	assert.Empty(t, member.AvatarURL)
}

func TestLookupMemberAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message": "Missing Access"}`))
	}))
	defer server.Close()

	client := NewDiscordClient("test-token", "guild-1")
	client.BaseURL = server.URL

	member, err := client.LookupMember(context.Background(), "somebody")
	assert.Error(t, err)
	assert.Nil(t, member)
}
