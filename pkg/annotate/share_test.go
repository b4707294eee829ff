package annotate_test

import (
	"context"
	"errors"
	"testing"

	"video-annotate/pkg/annotate"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}

func TestShareResourceSendsEveryAnnotation(t *testing.T) {
	store := annotate.NewStore(newMapKV())
	remote := newFakeRemote()
	sharer := annotate.NewSharer(store, remote, nopLogger{})
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "videoA", annotate.Annotation{Content: "a", Time: 1}))
	require.NoError(t, store.Append(ctx, "videoA", annotate.Annotation{Content: "b", Time: 2}))
	require.NoError(t, store.Append(ctx, "videoB", annotate.Annotation{Content: "c", Time: 3}))

	sent, err := sharer.ShareResource(ctx, "videoA", "bob")
	require.NoError(t, err)
	assert.Equal(t, 2, sent)

	sent, err = sharer.ShareResource(ctx, "videoA", "bob")
	require.NoError(t, err)
	assert.Equal(t, 2, sent)

	require.Len(t, remote.shares, 4, "repeated shares are not deduplicated")
	assert.Equal(t, sharedCall{URL: "videoA", Annotation: annotate.Annotation{Content: "a", Time: 1}, Target: "bob"}, remote.shares[0])

	all, err := store.ReadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all["videoA"], 2, "sharing leaves the store untouched")
}

func TestShareResourceReportsFailures(t *testing.T) {
	store := annotate.NewStore(newMapKV())
	remote := newFakeRemote()
	remote.shareErr = annotate.ErrNetwork
	sharer := annotate.NewSharer(store, remote, nopLogger{})
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "videoA", annotate.Annotation{Content: "a", Time: 1}))
	require.NoError(t, store.Append(ctx, "videoA", annotate.Annotation{Content: "b", Time: 2}))

	sent, err := sharer.ShareResource(ctx, "videoA", "bob")
	assert.Equal(t, 0, sent)
	assert.True(t, errors.Is(err, annotate.ErrNetwork))
}

func TestShareEmptyResource(t *testing.T) {
	sharer := annotate.NewSharer(annotate.NewStore(newMapKV()), newFakeRemote(), nopLogger{})
	sent, err := sharer.ShareResource(context.Background(), "nothing", "bob")
	require.NoError(t, err)
	assert.Zero(t, sent)
}
