package store

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_PutGetReplace(t *testing.T) {
	s := New()
	_, ok := s.Get("missing")
	assert.False(t, ok)

	s.Put(&Document{ID: "a", Summary: "first"})
	s.Put(&Document{ID: "b"})
	s.Put(&Document{ID: "a", Summary: "second"})

	doc, ok := s.Get("a")
	require.True(t, ok)
	assert.Equal(t, "second", doc.Summary)
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []string{"a", "b"}, s.IDs())
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		i := i
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.Put(&Document{ID: fmt.Sprintf("doc-%d", i%5)})
		}()
		go func() {
			defer wg.Done()
			_, _ = s.Get(fmt.Sprintf("doc-%d", i%5))
			_ = s.IDs()
		}()
	}
	wg.Wait()
	assert.Equal(t, 5, s.Len())
}
