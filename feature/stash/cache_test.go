package stash

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCacheUnloadedMutationsAreNoOps(t *testing.T) {
	c := newCache()

	c.put("p1", Record{PlayerUUID: "p1", StashName: "vault"})
	c.remove("p1", "vault")
	c.rename("p1", "vault", "vault2")

	assert.False(t, c.loaded("p1"))
	_, ok := c.snapshot("p1")
	assert.False(t, ok)
}

func TestCachePutReplacesByName(t *testing.T) {
	c := newCache()
	c.replace("p1", []Record{{PlayerUUID: "p1", StashName: "vault", StashSize: 27}})

	c.put("p1", Record{PlayerUUID: "p1", StashName: "vault", StashSize: 54})

	records, ok := c.snapshot("p1")
	assert.True(t, ok)
	if assert.Len(t, records, 1) {
		assert.Equal(t, 54, records[0].StashSize)
	}
}

func TestCacheRenameKeepsPosition(t *testing.T) {
	c := newCache()
	c.replace("p1", []Record{
		{PlayerUUID: "p1", StashName: "a"},
		{PlayerUUID: "p1", StashName: "b"},
		{PlayerUUID: "p1", StashName: "c"},
	})

	c.rename("p1", "b", "b2")

	records, _ := c.snapshot("p1")
	assert.Equal(t, []string{"a", "b2", "c"}, []string{
		records[0].StashName, records[1].StashName, records[2].StashName,
	})
}

func TestCacheSnapshotIsACopy(t *testing.T) {
	c := newCache()
	c.replace("p1", []Record{{PlayerUUID: "p1", StashName: "vault", StashSize: 27}})

	records, _ := c.snapshot("p1")
	records[0].StashSize = 99

	again, _ := c.snapshot("p1")
	assert.Equal(t, 27, again[0].StashSize)
}

func TestCacheConcurrentAccess(t *testing.T) {
	c := newCache()
	c.replace("p1", nil)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := string(rune('a' + i))
			c.put("p1", Record{PlayerUUID: "p1", StashName: name})
			c.get("p1", name)
			c.snapshot("p1")
		}(i)
	}
	wg.Wait()

	records, ok := c.snapshot("p1")
	assert.True(t, ok)
	assert.Len(t, records, 16)
}
