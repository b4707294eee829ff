package annotate_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"video-annotate/pkg/annotate"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreReadMissingRoot(t *testing.T) {
	store := annotate.NewStore(newMapKV())
	ctx := context.Background()

	all, err := store.ReadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	entry, err := store.ReadResource(ctx, "videoA")
	require.NoError(t, err)
	assert.NotNil(t, entry)
	assert.Empty(t, entry)
}

func TestStoreAppendPreservesOrder(t *testing.T) {
	kv := newMapKV()
	store := annotate.NewStore(kv)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "videoA", annotate.Annotation{Content: "late", Time: 30}))
	require.NoError(t, store.Append(ctx, "videoA", annotate.Annotation{Content: "early", Time: 3}))
	require.NoError(t, store.Append(ctx, "videoB", annotate.Annotation{Content: "other", Time: 1}))

	entry, err := store.ReadResource(ctx, "videoA")
	require.NoError(t, err)
	assert.Equal(t, []annotate.Annotation{{Content: "late", Time: 30}, {Content: "early", Time: 3}}, entry)

	raw, ok, _ := kv.Get(ctx, annotate.RootKey)
	require.True(t, ok)
	assert.Contains(t, string(raw), `"videoB":[{"content":"other","time":1}]`)
}

func TestStoreConcurrentAppendsAreNotLost(t *testing.T) {
	store := annotate.NewStore(newMapKV())
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			url := fmt.Sprintf("video%d", i%3)
			assert.NoError(t, store.Append(ctx, url, annotate.Annotation{Content: "n", Time: float64(i)}))
		}(i)
	}
	wg.Wait()

	all, err := store.ReadAll(ctx)
	require.NoError(t, err)
	total := 0
	for _, entry := range all {
		total += len(entry)
	}
	assert.Equal(t, 50, total)
}

func TestStoreWriteFailureIsStorageError(t *testing.T) {
	kv := newMapKV()
	kv.failSets[1] = true
	store := annotate.NewStore(kv)

	err := store.Append(context.Background(), "videoA", annotate.Annotation{Content: "x", Time: 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, annotate.ErrStorage)
}

func TestStoreCorruptRootIsStorageError(t *testing.T) {
	kv := newMapKV()
	kv.data[annotate.RootKey] = []byte("{not json")
	store := annotate.NewStore(kv)

	_, err := store.ReadAll(context.Background())
	assert.ErrorIs(t, err, annotate.ErrStorage)
}
