package observability

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatFields(t *testing.T) {
	assert.Equal(t, "", formatFields(nil))
	assert.Equal(t, "", formatFields(map[string]interface{}{}))
	// Keys render sorted for stable output.
	got := formatFields(map[string]interface{}{"b": 2, "a": "one", "c": true})
	assert.Equal(t, " a=one b=2 c=true", got)
}

func TestLevelFiltering(t *testing.T) {
	l := NewLoggerWithLevel("test", "WARN").(*StandardLogger)
	assert.False(t, l.levelEnabled(LogLevelDebug))
	assert.False(t, l.levelEnabled(LogLevelInfo))
	assert.True(t, l.levelEnabled(LogLevelWarn))
	assert.True(t, l.levelEnabled(LogLevelError))
}

func TestUnknownLevelFallsBackToInfo(t *testing.T) {
	l := NewLoggerWithLevel("test", "bogus").(*StandardLogger)
	assert.True(t, l.levelEnabled(LogLevelInfo))
	assert.False(t, l.levelEnabled(LogLevelDebug))
}

func TestWithPrefixKeepsLevel(t *testing.T) {
	l := NewLoggerWithLevel("root", "DEBUG").WithPrefix("child").(*StandardLogger)
	assert.Equal(t, "child", l.prefix)
	assert.True(t, l.levelEnabled(LogLevelDebug))
}
