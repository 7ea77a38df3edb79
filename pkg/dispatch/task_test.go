package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTaskCopiesParams(t *testing.T) {
	params := map[string]interface{}{"city": "北京"}
	task := NewTask("weather_query", "北京天气", params)

	params["city"] = "上海"

	assert.Equal(t, "北京", task.Param("city"))
	assert.NotEqual(t, "", task.ID.String())
}

func TestWithParamsProducesNewTask(t *testing.T) {
	task := NewTask("send_email", "给小王发邮件", map[string]interface{}{"to": "wang@example.com"})

	augmented := task.WithParams(map[string]interface{}{"subject": "hello"})

	require.NotEqual(t, task.ID, augmented.ID)
	assert.Equal(t, "hello", augmented.Param("subject"))
	assert.Equal(t, "wang@example.com", augmented.Param("to"))

	// Original stays untouched.
	assert.Equal(t, "", task.Param("subject"))
}

func TestWithParamsOnNilParams(t *testing.T) {
	task := NewTask("play", "播放", nil)

	augmented := task.WithParams(map[string]interface{}{"track": "七里香"})

	assert.Equal(t, "七里香", augmented.Param("track"))
	assert.Nil(t, task.Params)
}

func TestParamNonString(t *testing.T) {
	task := NewTask("volume", "音量", map[string]interface{}{"level": 50})

	assert.Equal(t, "", task.Param("level"))
	assert.Equal(t, "", task.Param("absent"))
}
