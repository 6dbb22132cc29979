package answer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nexusai/nexus/pkg/models"
)

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "0:00"},
		{5.4, "0:05"},
		{65, "1:05"},
		{600, "10:00"},
		{3599, "59:59"},
		{3600, "1:00:00"},
		{3725, "1:02:05"},
		{7322, "2:02:02"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatTimestamp(tt.seconds))
	}
}

func TestBuildPrompt(t *testing.T) {
	retrieved := models.RetrievalResult{
		{Chunk: models.Chunk{Text: "the speaker introduces the topic", Start: 0, End: 65}, Score: 0.9},
		{Chunk: models.Chunk{Text: "a detailed example follows", Start: 3600, End: 3725}, Score: 0.8},
	}
	prompt := BuildPrompt("what is the topic?", retrieved)

	assert.Contains(t, prompt, `using ONLY the context provided`)
	assert.Contains(t, prompt, `just say "I don't know"`)
	assert.Contains(t, prompt, "[0:00 - 1:05] the speaker introduces the topic")
	assert.Contains(t, prompt, "[1:00:00 - 1:02:05] a detailed example follows")
	assert.Contains(t, prompt, "Question: what is the topic?")

	// Rank order is preserved in the rendered context.
	assert.Less(t, strings.Index(prompt, "[0:00 - 1:05]"), strings.Index(prompt, "[1:00:00 - 1:02:05]"))
}

func TestBuildPromptEmptyContext(t *testing.T) {
	prompt := BuildPrompt("anything?", nil)
	assert.Contains(t, prompt, "Context:\n\n")
	assert.Contains(t, prompt, "Question: anything?")
}
