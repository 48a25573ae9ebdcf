package sector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gbax/gbax-core/internal/domain"
)

func TestStore_PutReplacesSameName(t *testing.T) {
	store := NewStore()

	store.Put(&domain.Sector{Name: "frontier", Objects: []*domain.SectorObject{
		{ID: "old-1", Kind: domain.ObjectAsteroid},
	}})
	store.Put(&domain.Sector{Name: "frontier", Objects: []*domain.SectorObject{
		{ID: "new-1", Kind: domain.ObjectAsteroid},
	}})

	_, ok := store.Target("old-1")
	assert.False(t, ok, "objects of the replaced sector must be deindexed")

	_, ok = store.Target("new-1")
	assert.True(t, ok)

	assert.Equal(t, []string{"frontier"}, store.Names())
}

func TestStore_TargetSharesObjectState(t *testing.T) {
	store := NewStore()
	store.Put(&domain.Sector{Name: "frontier", Objects: []*domain.SectorObject{
		{ID: "ast-1", Kind: domain.ObjectAsteroid, Health: 100, MaxHealth: 100},
	}})

	obj, ok := store.Target("ast-1")
	require.True(t, ok)
	obj.Health -= 25

	sec := store.Get("frontier")
	require.NotNil(t, sec)
	assert.Equal(t, 75, sec.Objects[0].Health)
}

func TestStore_GetUnknown(t *testing.T) {
	store := NewStore()
	assert.Nil(t, store.Get("nowhere"))
	_, ok := store.Target("nothing")
	assert.False(t, ok)
}
