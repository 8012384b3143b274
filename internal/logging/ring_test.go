package logging

import (
	"fmt"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRingBuffer_Wraps(t *testing.T) {
	buf := NewRingBuffer("test", 3)
	for i := 1; i <= 5; i++ {
		buf.Add(Event{Message: fmt.Sprintf("m%d", i)})
	}

	require.Equal(t, 3, buf.Len())
	assert.Equal(t, 3, buf.Cap())

	var got []string
	for _, e := range buf.Events() {
		got = append(got, e.Message)
	}
	assert.Equal(t, []string{"m3", "m4", "m5"}, got)

	first, ok := buf.Get(0)
	require.True(t, ok)
	assert.Equal(t, "m3", first.Message)
	_, ok = buf.Get(3)
	assert.False(t, ok)
}

func TestRingBuffer_Recent(t *testing.T) {
	buf := NewRingBuffer("test", 10)
	for i := 1; i <= 4; i++ {
		buf.Add(Event{Message: fmt.Sprintf("m%d", i)})
	}

	recent := buf.Recent(2)
	require.Len(t, recent, 2)
	assert.Equal(t, "m4", recent[0].Message)
	assert.Equal(t, "m3", recent[1].Message)
	assert.Len(t, buf.Recent(0), 4)

	buf.Clear()
	assert.Equal(t, 0, buf.Len())
	assert.Empty(t, buf.Recent(5))
}

func TestRingBuffer_DefaultSize(t *testing.T) {
	assert.Equal(t, DefaultBufferSize, NewRingBuffer("x", 0).Cap())
}

func TestRingBuffer_Concurrent(t *testing.T) {
	buf := NewRingBuffer("test", 100)
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				buf.Add(Event{Message: "x"})
				_ = buf.Recent(5)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 100, buf.Len())
}

func TestBufferHandler_LevelAndLogger(t *testing.T) {
	errBuf := NewRingBuffer(ErrorBufferName, 10)
	allBuf := NewRingBuffer(BufferName, 10)
	logger := slog.New(NewFanout(
		NewBufferHandler(allBuf, slog.LevelDebug),
		NewBufferHandler(errBuf, slog.LevelError),
	))

	named := Named(logger, "dispatcher")
	named.Debug("debug message")
	named.Error("error message", "controller", "statsPageUrl")

	assert.Equal(t, 2, allBuf.Len())
	require.Equal(t, 1, errBuf.Len())

	e, _ := errBuf.Get(0)
	assert.Equal(t, "dispatcher", e.Logger)
	assert.Equal(t, "error message", e.Message)
	assert.Equal(t, slog.LevelError, e.Level)
	require.Len(t, e.Attrs, 1)
	assert.Equal(t, "controller", e.Attrs[0].Key)
}

func TestBufferHandler_Groups(t *testing.T) {
	buf := NewRingBuffer("test", 10)
	logger := slog.New(NewBufferHandler(buf, nil)).WithGroup("req").With("path", "/a")
	logger.Info("hello", "status", 200)

	e, ok := buf.Get(0)
	require.True(t, ok)
	require.Len(t, e.Attrs, 2)
	assert.Equal(t, "req.path", e.Attrs[0].Key)
	assert.Equal(t, "req.status", e.Attrs[1].Key)
}
