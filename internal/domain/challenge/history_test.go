package challenge

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pages(data map[int][]Challenge) HistoryFetcher {
	return func(_ context.Context, page, _ int) ([]Challenge, error) {
		return data[page], nil
	}
}

func ids(list []Challenge) []int {
	out := make([]int, 0, len(list))
	for _, c := range list {
		out = append(out, c.ID)
	}
	return out
}

func TestHistoryPager_ReplaceAndAppend(t *testing.T) {
	ctx := context.Background()
	p := NewHistoryPager(pages(map[int][]Challenge{
		1: {{ID: 1}, {ID: 2}},
		2: {{ID: 3}},
	}), 2)

	require.NoError(t, p.Load(ctx, 1))
	assert.Equal(t, []int{1, 2}, ids(p.Records()))
	assert.True(t, p.HasMore())

	require.NoError(t, p.Load(ctx, 2))
	assert.Equal(t, []int{1, 2, 3}, ids(p.Records()))
	assert.True(t, p.HasMore())

	require.NoError(t, p.Load(ctx, 3))
	assert.Equal(t, []int{1, 2, 3}, ids(p.Records()))
	assert.False(t, p.HasMore())

	require.NoError(t, p.Reload(ctx))
	assert.Equal(t, []int{1, 2}, ids(p.Records()))
	assert.True(t, p.HasMore())
	assert.Equal(t, 1, p.Page())
}

func TestHistoryPager_LoadMoreStopsAfterEmptyPage(t *testing.T) {
	ctx := context.Background()
	calls := 0
	p := NewHistoryPager(func(_ context.Context, page, pageSize int) ([]Challenge, error) {
		calls++
		assert.Equal(t, DefaultHistoryPageSize, pageSize)
		if page <= 2 {
			return []Challenge{{ID: page}}, nil
		}
		return nil, nil
	}, 0)

	for {
		more, err := p.LoadMore(ctx)
		require.NoError(t, err)
		if !more {
			break
		}
	}

	assert.Equal(t, []int{1, 2}, ids(p.Records()))
	assert.False(t, p.HasMore())
	assert.Equal(t, 3, calls)

	more, err := p.LoadMore(ctx)
	require.NoError(t, err)
	assert.False(t, more)
	assert.Equal(t, 3, calls)
}

func TestHistoryPager_FirstPageEmpty(t *testing.T) {
	p := NewHistoryPager(pages(nil), 10)

	require.NoError(t, p.Load(context.Background(), 1))
	assert.Empty(t, p.Records())
	assert.False(t, p.HasMore())
}

func TestHistoryPager_ErrorKeepsState(t *testing.T) {
	ctx := context.Background()
	fail := false
	p := NewHistoryPager(func(_ context.Context, page, _ int) ([]Challenge, error) {
		if fail {
			return nil, errors.New("timeout")
		}
		return []Challenge{{ID: page}}, nil
	}, 10)

	require.NoError(t, p.Load(ctx, 1))
	fail = true

	assert.Error(t, p.Load(ctx, 2))
	assert.Equal(t, []int{1}, ids(p.Records()))
	assert.Equal(t, 1, p.Page())
	assert.True(t, p.HasMore())
}

func TestHistoryPager_RejectsConcurrentLoad(t *testing.T) {
	ctx := context.Background()
	started := make(chan struct{})
	release := make(chan struct{})

	p := NewHistoryPager(func(_ context.Context, page, _ int) ([]Challenge, error) {
		close(started)
		<-release
		return []Challenge{{ID: page}}, nil
	}, 10)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		assert.NoError(t, p.Load(ctx, 1))
	}()

	<-started
	assert.ErrorIs(t, p.Load(ctx, 2), ErrHistoryBusy)
	close(release)
	wg.Wait()

	assert.Equal(t, []int{1}, ids(p.Records()))
}

func TestHistoryPager_InvalidPage(t *testing.T) {
	p := NewHistoryPager(pages(nil), 10)
	assert.ErrorIs(t, p.Load(context.Background(), 0), ErrInvalidPage)
}
