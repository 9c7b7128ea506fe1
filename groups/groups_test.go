package groups_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/billsplit/groups"
)

func names(g []groups.Group) [][]string {
	out := make([][]string, len(g))
	for i, grp := range g {
		out[i] = grp.Names
	}
	return out
}

func TestMemory_SaveAndRecent_NewestFirst(t *testing.T) {
	// GIVEN three saved groups
	ctx := context.Background()
	store := groups.NewMemory()
	require.NoError(t, store.Save(ctx, []string{"Alice", "Bob"}))
	require.NoError(t, store.Save(ctx, []string{"Carol", "Dan"}))
	require.NoError(t, store.Save(ctx, []string{"Eve", "Frank"}))

	// WHEN asking for everything
	recent, err := store.Recent(ctx, 0)
	require.NoError(t, err)

	// THEN the newest comes first
	require.Len(t, recent, 3)
	assert.Equal(t, [][]string{
		{"Eve", "Frank"},
		{"Carol", "Dan"},
		{"Alice", "Bob"},
	}, names(recent))
	assert.WithinDuration(t, time.Now(), recent[0].CreatedAt, time.Minute)
}

func TestMemory_Save_RefreshesExistingGroup(t *testing.T) {
	// GIVEN two cached groups
	ctx := context.Background()
	store := groups.NewMemory()
	require.NoError(t, store.Save(ctx, []string{"Alice", "Bob"}))
	require.NoError(t, store.Save(ctx, []string{"Carol", "Dan"}))

	// WHEN the older one is saved again
	require.NoError(t, store.Save(ctx, []string{"Alice", "Bob"}))

	// THEN it moves to the front without duplicating
	recent, err := store.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Alice", "Bob"},
		{"Carol", "Dan"},
	}, names(recent))
}

func TestMemory_Save_EvictsOldestBeyondCap(t *testing.T) {
	ctx := context.Background()
	store := groups.NewMemory()
	require.NoError(t, store.Save(ctx, []string{"Alice", "Bob"}))
	require.NoError(t, store.Save(ctx, []string{"Carol", "Dan"}))
	require.NoError(t, store.Save(ctx, []string{"Eve", "Frank"}))
	require.NoError(t, store.Save(ctx, []string{"Grace", "Heidi"}))

	recent, err := store.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, recent, groups.MaxRecent)
	assert.Equal(t, [][]string{
		{"Grace", "Heidi"},
		{"Eve", "Frank"},
		{"Carol", "Dan"},
	}, names(recent), "the first group saved should have been evicted")
}

func TestMemory_Save_IgnoresSingleName(t *testing.T) {
	ctx := context.Background()
	store := groups.NewMemory()
	require.NoError(t, store.Save(ctx, []string{"Alice"}))
	require.NoError(t, store.Save(ctx, nil))

	recent, err := store.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, recent)
}

func TestMemory_Save_OrderDistinguishesGroups(t *testing.T) {
	// Abbreviation resolution depends on participant order, so reversed
	// lists are different groups.
	ctx := context.Background()
	store := groups.NewMemory()
	require.NoError(t, store.Save(ctx, []string{"Alice", "Bob"}))
	require.NoError(t, store.Save(ctx, []string{"Bob", "Alice"}))

	recent, err := store.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, recent, 2)
}

func TestMemory_Recent_HonorsLimit(t *testing.T) {
	ctx := context.Background()
	store := groups.NewMemory()
	require.NoError(t, store.Save(ctx, []string{"Alice", "Bob"}))
	require.NoError(t, store.Save(ctx, []string{"Carol", "Dan"}))
	require.NoError(t, store.Save(ctx, []string{"Eve", "Frank"}))

	recent, err := store.Recent(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Eve", "Frank"},
		{"Carol", "Dan"},
	}, names(recent))
}

func TestMemory_Recent_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := groups.NewMemory()
	require.NoError(t, store.Save(ctx, []string{"Alice", "Bob"}))

	recent, err := store.Recent(ctx, 0)
	require.NoError(t, err)
	recent[0].Names[0] = "Mallory"

	again, err := store.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice", "Bob"}, again[0].Names)
}

func TestGroup_Key_JoinsNames(t *testing.T) {
	g := groups.Group{Names: []string{"Alice", "Bob", "Marshall"}}
	assert.Equal(t, "Alice,Bob,Marshall", g.Key())
}
