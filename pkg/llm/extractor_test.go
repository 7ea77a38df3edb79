package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junyi/aria/pkg/dispatch"
)

func newTestExtractor(p Provider) *Extractor {
	return NewExtractor(p, DefaultExtractorConfig(), zerolog.Nop())
}

func TestExtractorFillsDeclaredKeys(t *testing.T) {
	p := &fakeProvider{reply: `{"city": "北京"}`}
	e := newTestExtractor(p)

	turns := dispatch.Conversation{
		{Role: "user", Text: "我下周要去北京出差"},
	}
	filled, err := e.Extract(context.Background(), "天气怎么样", turns, map[string]string{"city": "城市名称"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"city": "北京"}, filled)
}

func TestExtractorDropsUndeclaredAndEmptyKeys(t *testing.T) {
	p := &fakeProvider{reply: `{"city": "北京", "mood": "good", "date": "  "}`}
	e := newTestExtractor(p)

	filled, err := e.Extract(context.Background(), "天气", nil, map[string]string{
		"city": "城市名称",
		"date": "查询日期",
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"city": "北京"}, filled)
}

func TestExtractorNothingMissing(t *testing.T) {
	p := &fakeProvider{}
	e := newTestExtractor(p)

	filled, err := e.Extract(context.Background(), "天气", nil, nil)
	require.NoError(t, err)
	assert.Nil(t, filled)
	assert.Empty(t, p.last.Model)
}

func TestExtractorToleratesGarbageOutput(t *testing.T) {
	for _, reply := range []string{"no idea", `["city"]`, `{"city": 42}`} {
		e := newTestExtractor(&fakeProvider{reply: reply})

		filled, err := e.Extract(context.Background(), "天气", nil, map[string]string{"city": "城市名称"})
		require.NoError(t, err)
		assert.Empty(t, filled)
	}
}

func TestExtractorPropagatesProviderError(t *testing.T) {
	e := newTestExtractor(&fakeProvider{err: errors.New("timeout")})

	_, err := e.Extract(context.Background(), "天气", nil, map[string]string{"city": "城市名称"})
	assert.Error(t, err)
}

func TestExtractorPromptNamesMissingFields(t *testing.T) {
	p := &fakeProvider{reply: `{}`}
	e := newTestExtractor(p)

	_, err := e.Extract(context.Background(), "发邮件", nil, map[string]string{
		"to":      "收件人地址",
		"subject": "邮件主题",
	})
	require.NoError(t, err)
	assert.Contains(t, p.last.SystemPrompt, "to: 收件人地址")
	assert.Contains(t, p.last.SystemPrompt, "subject: 邮件主题")
	assert.Equal(t, "发邮件", p.last.Messages[len(p.last.Messages)-1].Content)
}
