package domain

// SectorObjectKind identifies what a generated object is.
type SectorObjectKind string

const (
	ObjectAsteroid     SectorObjectKind = "asteroid"
	ObjectResourceNode SectorObjectKind = "resource_node"
	ObjectStation      SectorObjectKind = "station"
)

// Vec3 is a position in sector space.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// ResourceYieldSpec describes one resource an object can yield when mined.
type ResourceYieldSpec struct {
	Resource string `json:"resource"`
	Min      int    `json:"min"`
	Max      int    `json:"max"`
}

// SectorObject is a mineable object placed by the sector generator. Immutable
// after generation except for Health, which mining decrements. An object with
// Health 0 is depleted but stays in the sector.
type SectorObject struct {
	ID        string              `json:"id"`
	Kind      SectorObjectKind    `json:"kind"`
	Position  Vec3                `json:"position"`
	Health    int                 `json:"health"`
	MaxHealth int                 `json:"max_health"`
	Resources []ResourceYieldSpec `json:"resources"`
}

// Sector is a procedurally generated region of space.
type Sector struct {
	Name    string          `json:"name"`
	Seed    int64           `json:"seed"`
	Objects []*SectorObject `json:"objects"`
}
