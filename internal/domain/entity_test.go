package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSenderTag(t *testing.T) {
	assert.Equal(t, "user", RoleUser.SenderTag())
	assert.Equal(t, "bot", RoleAssistant.SenderTag())
	assert.Equal(t, "system", RoleSystem.SenderTag())
}

func TestSetTitle(t *testing.T) {
	var s Session

	s.SetTitle("short", 50)
	assert.Equal(t, "short", s.Title)

	s.SetTitle("这是一段很长的中文标题需要被截断处理", 5)
	assert.Equal(t, "这是一段很", s.Title)
}

func TestMessageIsUser(t *testing.T) {
	assert.True(t, (&Message{Role: RoleUser}).IsUser())
	assert.False(t, (&Message{Role: RoleAssistant}).IsUser())
}
