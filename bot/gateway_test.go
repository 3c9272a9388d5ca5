package bot

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
)

func TestNextChannel(t *testing.T) {
	channels := []*discordgo.Channel{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	assert.Equal(t, "b", nextChannel(channels, "a"))
	assert.Equal(t, "a", nextChannel(channels, "c"), "wraps around")
	assert.Equal(t, "a", nextChannel(channels, "elsewhere"))
	assert.Empty(t, nextChannel(channels[:1], "a"), "nowhere to go")
}

func TestIsUnknown(t *testing.T) {
	unknown := &discordgo.RESTError{Message: &discordgo.APIErrorMessage{Code: discordgo.ErrCodeUnknownMember}}
	forbidden := &discordgo.RESTError{Message: &discordgo.APIErrorMessage{Code: discordgo.ErrCodeMissingPermissions}}

	assert.True(t, isUnknown(unknown))
	assert.False(t, isUnknown(forbidden))
	assert.False(t, isUnknown(&discordgo.RESTError{}))
	assert.False(t, isUnknown(ErrNotInVoice))
}
