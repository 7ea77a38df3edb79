package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain text unchanged", "播放音乐", "播放音乐"},
		{"half-width punctuation stripped", "play music!", "play music"},
		{"full-width punctuation stripped", "播放音乐！！", "播放音乐"},
		{"mixed punctuation", "你好，世界。", "你好世界"},
		{"quotes and brackets", "“播放”（音乐）", "播放音乐"},
		{"surrounding whitespace trimmed", "  暂停  ", "暂停"},
		{"question marks", "在吗？?", "在吗"},
		{"empty input", "", ""},
		{"punctuation only", "。，！？", ""},
		{"inner spaces kept", "play some jazz", "play some jazz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestConversationWindow(t *testing.T) {
	convo := Conversation{
		{Role: "user", Text: "one"},
		{Role: "assistant", Text: "two"},
		{Role: "user", Text: "three"},
	}

	assert.Len(t, convo.Window(2), 2)
	assert.Equal(t, "two", convo.Window(2)[0].Text)
	assert.Equal(t, convo, convo.Window(0))
	assert.Equal(t, convo, convo.Window(10))
}
