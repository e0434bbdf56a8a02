package input

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKey(t *testing.T) {
	tests := map[string]Key{
		"w":      KeyUp,
		"DOWN":   KeyDown,
		" a ":    KeyLeft,
		"right":  KeyRight,
		"":       KeyOK,
		"enter":  KeyOK,
		"q":      KeyBack,
		"esc":    KeyBack,
		"banana": KeyNone,
	}
	for text, want := range tests {
		assert.Equal(t, want, ParseKey(text), "input %q", text)
	}
}

func TestLineSourceDeliversKeysAndCloses(t *testing.T) {
	src := NewLineSource(strings.NewReader("s\nnoise\ns\ne\nq\n"))
	require.NoError(t, src.Start(context.Background()))

	var got []Key
	for key := range src.Keys() {
		got = append(got, key)
	}

	assert.Equal(t, []Key{KeyDown, KeyDown, KeyOK, KeyBack}, got)
	assert.NoError(t, src.Stop())
}

func TestNoopSource(t *testing.T) {
	src := NewNoopSource()
	require.NoError(t, src.Start(context.Background()))
	require.NoError(t, src.Stop())
	require.NoError(t, src.Stop())

	_, ok := <-src.Keys()
	assert.False(t, ok)
}

func TestKeyString(t *testing.T) {
	assert.Equal(t, "back", KeyBack.String())
	assert.Equal(t, "none", Key(42).String())
}

func TestRemoteSourceInject(t *testing.T) {
	src := NewRemoteSource(1)
	require.NoError(t, src.Start(context.Background()))

	assert.False(t, src.Inject(KeyNone))
	assert.True(t, src.Inject(KeyOK))
	assert.False(t, src.Inject(KeyUp), "buffer full")
	assert.Equal(t, KeyOK, <-src.Keys())

	require.NoError(t, src.Stop())
	require.NoError(t, src.Stop())
	assert.False(t, src.Inject(KeyOK))
	_, ok := <-src.Keys()
	assert.False(t, ok)
}

func TestMergeFansInAndClosesWhenAllSourcesEnd(t *testing.T) {
	remote := NewRemoteSource(4)
	lines := NewLineSource(strings.NewReader("up\n"))
	merged := Merge(lines, remote)
	require.NoError(t, merged.Start(context.Background()))

	require.True(t, remote.Inject(KeyBack))
	got := []Key{<-merged.Keys(), <-merged.Keys()}
	assert.ElementsMatch(t, []Key{KeyUp, KeyBack}, got)

	require.NoError(t, remote.Stop())
	_, ok := <-merged.Keys()
	assert.False(t, ok)
	require.NoError(t, merged.Stop())
}

type brokenSource struct{ *NoopSource }

func (brokenSource) Start(context.Context) error { return assert.AnError }

func TestMergeStartFailureStopsStartedSources(t *testing.T) {
	remote := NewRemoteSource(1)
	merged := Merge(remote, brokenSource{NewNoopSource()})

	assert.ErrorIs(t, merged.Start(context.Background()), assert.AnError)
	assert.False(t, remote.Inject(KeyOK))
}
