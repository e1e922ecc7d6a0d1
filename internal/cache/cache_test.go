package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "abc:1:vector", Key("abc", 1, StageVectorText))
	assert.Equal(t, "abc:12:ocr", Key("abc", 12, StageOCRText))
}

func TestFingerprint(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.pdf")
	b := filepath.Join(dir, "b.pdf")
	c := filepath.Join(dir, "c.pdf")
	require.NoError(t, os.WriteFile(a, []byte("same content"), 0o600))
	require.NoError(t, os.WriteFile(b, []byte("same content"), 0o600))
	require.NoError(t, os.WriteFile(c, []byte("different"), 0o600))

	fa, err := Fingerprint(a)
	require.NoError(t, err)
	fb, err := Fingerprint(b)
	require.NoError(t, err)
	fc, err := Fingerprint(c)
	require.NoError(t, err)

	assert.Len(t, fa, 64, "hex sha-256")
	assert.Equal(t, fa, fb, "identical content shares a fingerprint regardless of name")
	assert.NotEqual(t, fa, fc)
}

func TestFingerprintMissingFile(t *testing.T) {
	_, err := Fingerprint(filepath.Join(t.TempDir(), "nope.pdf"))
	assert.Error(t, err)
}

func TestMemoryGetPut(t *testing.T) {
	m := NewMemory(8, time.Minute)
	defer func() { _ = m.Close() }()
	ctx := context.Background()

	_, err := m.Get(ctx, "fp", 1, StageVectorText)
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, m.Put(ctx, "fp", 1, StageVectorText, []byte("hello"), time.Minute))
	v, err := m.Get(ctx, "fp", 1, StageVectorText)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), v)

	// Same fingerprint, different page and stage are distinct entries.
	_, err = m.Get(ctx, "fp", 2, StageVectorText)
	assert.ErrorIs(t, err, ErrMiss)
	_, err = m.Get(ctx, "fp", 1, StageOCRText)
	assert.ErrorIs(t, err, ErrMiss)
}

func TestMemoryCopiesValues(t *testing.T) {
	m := NewMemory(8, time.Minute)
	ctx := context.Background()

	src := []byte("original")
	require.NoError(t, m.Put(ctx, "fp", 1, StageOCRText, src, time.Minute))
	src[0] = 'X'

	got, err := m.Get(ctx, "fp", 1, StageOCRText)
	require.NoError(t, err)
	assert.Equal(t, []byte("original"), got, "stored value is isolated from the caller's slice")

	got[0] = 'Y'
	again, err := m.Get(ctx, "fp", 1, StageOCRText)
	require.NoError(t, err)
	assert.Equal(t, []byte("original"), again, "returned value is a copy")
}

func TestMemoryExpiry(t *testing.T) {
	m := NewMemory(8, 20*time.Millisecond)
	ctx := context.Background()

	require.NoError(t, m.Put(ctx, "fp", 1, StageVectorText, []byte("v"), 0))
	time.Sleep(60 * time.Millisecond)

	_, err := m.Get(ctx, "fp", 1, StageVectorText)
	assert.ErrorIs(t, err, ErrMiss)
}

func TestMemoryHonorsShorterPutTTL(t *testing.T) {
	m := NewMemory(8, time.Minute)
	ctx := context.Background()

	require.NoError(t, m.Put(ctx, "fp", 1, StageVectorText, []byte("short"), 10*time.Millisecond))
	require.NoError(t, m.Put(ctx, "fp", 2, StageVectorText, []byte("long"), time.Hour))

	v, err := m.Get(ctx, "fp", 1, StageVectorText)
	require.NoError(t, err)
	assert.Equal(t, []byte("short"), v)

	time.Sleep(40 * time.Millisecond)

	_, err = m.Get(ctx, "fp", 1, StageVectorText)
	assert.ErrorIs(t, err, ErrMiss, "a shorter per-call ttl expires before the store ttl")

	v, err = m.Get(ctx, "fp", 2, StageVectorText)
	require.NoError(t, err)
	assert.Equal(t, []byte("long"), v, "requests beyond the store ttl are capped, not shortened")
}

type failingStore struct {
	gets int
	puts int
}

func (f *failingStore) Get(context.Context, string, int, Stage) ([]byte, error) {
	f.gets++
	return nil, errors.New("connection refused")
}

func (f *failingStore) Put(context.Context, string, int, Stage, []byte, time.Duration) error {
	f.puts++
	return errors.New("connection refused")
}

func (f *failingStore) Close() error { return nil }

func TestDegradingDisablesOnError(t *testing.T) {
	inner := &failingStore{}
	d := NewDegrading(inner)
	ctx := context.Background()

	assert.False(t, d.Disabled())

	_, err := d.Get(ctx, "fp", 1, StageVectorText)
	assert.ErrorIs(t, err, ErrMiss, "backend errors are demoted to misses")
	assert.True(t, d.Disabled())

	// Once disabled no further backend calls are made.
	_, _ = d.Get(ctx, "fp", 1, StageVectorText)
	_ = d.Put(ctx, "fp", 1, StageVectorText, []byte("v"), time.Minute)
	assert.Equal(t, 1, inner.gets)
	assert.Zero(t, inner.puts)
}

func TestDegradingPassesThroughHealthyStore(t *testing.T) {
	d := NewDegrading(NewMemory(8, time.Minute))
	ctx := context.Background()

	require.NoError(t, d.Put(ctx, "fp", 1, StageOCRText, []byte("v"), time.Minute))
	v, err := d.Get(ctx, "fp", 1, StageOCRText)
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), v)

	_, err = d.Get(ctx, "fp", 9, StageOCRText)
	assert.ErrorIs(t, err, ErrMiss)
	assert.False(t, d.Disabled(), "a plain miss is not a backend failure")
}
