package utils

import (
	"bytes"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestStopwatch_Done(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.DebugLevel)

	s := StartStopwatch("sweep", log)
	d := s.Done(func(e *zerolog.Event) {
		e.Int("samples", 10).Str("label", "default")
	})

	assert.GreaterOrEqual(t, d, time.Duration(0))
	out := buf.String()
	assert.Contains(t, out, `"level":"debug"`)
	assert.Contains(t, out, `"operation":"sweep"`)
	assert.Contains(t, out, `"samples":10`)
	assert.Contains(t, out, `"label":"default"`)
	assert.Contains(t, out, "Operation completed")
}

func TestStopwatch_SlowOperationWarns(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.DebugLevel)

	s := StartStopwatch("slow", log)
	s.slowAfter = 0
	time.Sleep(time.Millisecond)
	s.Done(nil)

	assert.Contains(t, buf.String(), `"level":"warn"`)
	assert.Contains(t, buf.String(), "Slow operation detected")
}

func TestMeasureQuery(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.DebugLevel)

	done := MeasureQuery("runs.save", log)
	done(3)

	assert.Contains(t, buf.String(), `"query":"runs.save"`)
	assert.Contains(t, buf.String(), `"rows_affected":3`)
}
