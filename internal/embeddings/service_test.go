package embeddings_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/herald-lol/brainprint/backend/internal/embeddings"
)

func TestMockProvider_Deterministic(t *testing.T) {
	p := embeddings.NewMockProvider(8)
	ctx := context.Background()

	e1, err := p.Get(ctx, "Cat", "en")
	require.NoError(t, err)
	e2, err := p.Get(ctx, "cat", "en")
	require.NoError(t, err)

	assert.Equal(t, e1.Vector, e2.Vector, "same word different case must yield identical vectors")
	assert.Len(t, e1.Vector, 8)

	e3, err := p.Get(ctx, "dog", "en")
	require.NoError(t, err)
	assert.NotEqual(t, e1.Vector, e3.Vector)
}

func TestService_CachesNegativeResult(t *testing.T) {
	ctx := context.Background()
	fp := embeddings.NewFileProvider("en", 4, 0, false)
	_, err := fp.Load(strings.NewReader("cat 1 0 0 0\n"))
	require.NoError(t, err)

	svc := embeddings.NewService(fp, 10)

	_, err = svc.Get(ctx, "missing", "en")
	assert.Error(t, err)

	// A second miss should come back the same way without panicking or
	// hanging; this also exercises the cache's negative-result path.
	_, err = svc.Get(ctx, "missing", "en")
	assert.Error(t, err)

	e, err := svc.Get(ctx, "CAT", "en")
	require.NoError(t, err)
	assert.Equal(t, "cat", e.Word)
}

func TestService_ConcurrentMissesSingleFlight(t *testing.T) {
	ctx := context.Background()
	p := embeddings.NewMockProvider(4)
	svc := embeddings.NewService(p, 100)

	const n = 20
	results := make(chan error, n)
	for i := 0; i < n; i++ {
		go func() {
			_, err := svc.Get(ctx, "concurrent", "en")
			results <- err
		}()
	}
	for i := 0; i < n; i++ {
		assert.NoError(t, <-results)
	}
}
