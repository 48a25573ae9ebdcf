package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gbax/gbax-core/internal/sector"
)

func TestHandleGenerateSector(t *testing.T) {
	store := sector.NewStore()
	h := HandleGenerateSector(store)

	rec := postJSON(t, h, GenerateSectorRequest{
		Name:              "frontier",
		Size:              1000,
		AsteroidCount:     5,
		ResourceNodeCount: 2,
		StationCount:      1,
		Density:           1.0,
		Seed:              99,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	sec := store.Get("frontier")
	require.NotNil(t, sec)
	assert.Len(t, sec.Objects, 8)

	// Every generated object is resolvable as an operation target.
	for _, obj := range sec.Objects {
		_, ok := store.Target(obj.ID)
		assert.True(t, ok)
	}
}

func TestHandleGenerateSector_InvalidConfig(t *testing.T) {
	rec := postJSON(t, HandleGenerateSector(sector.NewStore()), GenerateSectorRequest{
		Name: "bad", Size: 0, Density: 1.0,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleGetSector(t *testing.T) {
	store := sector.NewStore()
	h := HandleGenerateSector(store)
	rec := postJSON(t, h, GenerateSectorRequest{
		Name: "frontier", Size: 500, AsteroidCount: 1, Density: 1.0, Seed: 7,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/?name=frontier", nil)
	got := httptest.NewRecorder()
	HandleGetSector(store)(got, req)
	require.Equal(t, http.StatusOK, got.Code)

	var resp struct {
		Data struct {
			Name string `json:"name"`
			Seed int64  `json:"seed"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(got.Body.Bytes(), &resp))
	assert.Equal(t, "frontier", resp.Data.Name)
	assert.Equal(t, int64(7), resp.Data.Seed)

	req = httptest.NewRequest(http.MethodGet, "/?name=missing", nil)
	got = httptest.NewRecorder()
	HandleGetSector(store)(got, req)
	assert.Equal(t, http.StatusNotFound, got.Code)
}
