package model

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJobStatusTerminal(t *testing.T) {
	assert.False(t, JobQueued.Terminal())
	assert.False(t, JobRunning.Terminal())
	assert.True(t, JobDone.Terminal())
	assert.True(t, JobError.Terminal())
	assert.True(t, JobCanceled.Terminal())
}

func TestLogTail_EvictsOldest(t *testing.T) {
	tail := NewLogTail(3)
	for i := 1; i <= 5; i++ {
		tail.Append(fmt.Sprintf("line %d", i))
	}

	assert.Equal(t, []string{"line 3", "line 4", "line 5"}, tail.Lines())
}

func TestLogTail_Last(t *testing.T) {
	tail := NewLogTail(10)
	for i := 1; i <= 4; i++ {
		tail.Append(fmt.Sprintf("line %d", i))
	}

	assert.Equal(t, []string{"line 3", "line 4"}, tail.Last(2))
	assert.Equal(t, []string{"line 1", "line 2", "line 3", "line 4"}, tail.Last(100))
}

func TestLogTail_LinesReturnsCopy(t *testing.T) {
	tail := NewLogTail(3)
	tail.Append("one")

	lines := tail.Lines()
	lines[0] = "mutated"

	assert.Equal(t, []string{"one"}, tail.Lines())
}
