package input

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRepeater(t *testing.T) {
	var r Repeater
	delay, rate := 300*time.Millisecond, 50*time.Millisecond

	assert.Equal(t, Step{}, r.Update(false, at(0), delay, rate))
	assert.Equal(t, Step{Fire: true}, r.Update(true, at(10), delay, rate))
	assert.True(t, r.Armed())
	assert.Equal(t, at(310), r.Next())

	assert.Equal(t, Step{}, r.Update(true, at(309), delay, rate))
	assert.Equal(t, Step{Fire: true, Repeat: true}, r.Update(true, at(310), delay, rate))
	assert.Equal(t, at(360), r.Next())

	assert.Equal(t, Step{Released: true}, r.Update(false, at(400), delay, rate))
	assert.False(t, r.Active())
	assert.False(t, r.Armed())
}

func TestRepeaterWithoutRate(t *testing.T) {
	var r Repeater
	r.Update(true, at(0), 100*time.Millisecond, 0)

	assert.Equal(t, Step{Fire: true, Repeat: true}, r.Update(true, at(100), 100*time.Millisecond, 0))
	assert.Equal(t, Step{}, r.Update(true, at(1000), 100*time.Millisecond, 0), "a zero rate repeats once")

	r.Reset()
	assert.False(t, r.Active())
}
