package sector

import (
	"fmt"
	"math/rand"

	"github.com/gbax/gbax-core/internal/domain"
)

// Config drives a sector generation call. Identical Config (including Seed)
// always yields identical placement, type distribution, and per-object
// resource contents.
type Config struct {
	Name              string  `json:"name"`
	Size              float64 `json:"size"` // edge length of the bounding cube
	AsteroidCount     int     `json:"asteroid_count"`
	ResourceNodeCount int     `json:"resource_node_count"`
	StationCount      int     `json:"station_count"`
	Density           float64 `json:"density"` // scales object health and resource richness
	Seed              int64   `json:"seed"`
}

// Validate rejects configurations the generator cannot honor.
func (c Config) Validate() error {
	if c.Size <= 0 {
		return fmt.Errorf("%w: size must be positive", domain.ErrInvalidConfig)
	}
	if c.AsteroidCount < 0 || c.ResourceNodeCount < 0 || c.StationCount < 0 {
		return fmt.Errorf("%w: object counts must be non-negative", domain.ErrInvalidConfig)
	}
	if c.Density <= 0 {
		return fmt.Errorf("%w: density must be positive", domain.ErrInvalidConfig)
	}
	return nil
}

// resourceTable is the rarity-weighted resource pool per object kind. Rolls
// consume the same seeded stream as placement so the whole sector is a pure
// function of (seed, config).
var resourceTable = map[domain.SectorObjectKind][]struct {
	resource string
	weight   int
	min, max int
}{
	domain.ObjectAsteroid: {
		{resource: "iron", weight: 50, min: 2, max: 8},
		{resource: "nickel", weight: 30, min: 1, max: 5},
		{resource: "platinum", weight: 15, min: 1, max: 3},
		{resource: "iridium", weight: 5, min: 1, max: 2},
	},
	domain.ObjectResourceNode: {
		{resource: "crystal", weight: 60, min: 2, max: 6},
		{resource: "plasma", weight: 30, min: 1, max: 4},
		{resource: "antimatter", weight: 10, min: 1, max: 2},
	},
}

// Generate produces a sector from the given config. Deterministic: a single
// seeded stream drives position draws, weighted type ordering, and resource
// rolls in a fixed sequence.
func Generate(cfg Config) (*domain.Sector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	name := cfg.Name
	if name == "" {
		name = fmt.Sprintf("sector-%d", cfg.Seed)
	}

	sec := &domain.Sector{
		Name:    name,
		Seed:    cfg.Seed,
		Objects: make([]*domain.SectorObject, 0, cfg.AsteroidCount+cfg.ResourceNodeCount+cfg.StationCount),
	}

	half := cfg.Size / 2
	idx := 0
	spawn := func(kind domain.SectorObjectKind, count int) {
		for i := 0; i < count; i++ {
			obj := rollObject(rng, kind, cfg.Density, fmt.Sprintf("%s-%d-%d", kind, cfg.Seed, idx))
			obj.Position = domain.Vec3{
				X: (rng.Float64()*2 - 1) * half,
				Y: (rng.Float64()*2 - 1) * half,
				Z: (rng.Float64()*2 - 1) * half,
			}
			sec.Objects = append(sec.Objects, obj)
			idx++
		}
	}

	// Fixed spawn order keeps the stream consumption stable across calls.
	spawn(domain.ObjectAsteroid, cfg.AsteroidCount)
	spawn(domain.ObjectResourceNode, cfg.ResourceNodeCount)
	spawn(domain.ObjectStation, cfg.StationCount)

	return sec, nil
}

// GenerateAsteroidField places count asteroids uniformly inside a sphere of
// the given radius around center. Same determinism contract as Generate.
func GenerateAsteroidField(center domain.Vec3, count int, radius float64, seed int64) ([]*domain.SectorObject, error) {
	if count < 0 || radius <= 0 {
		return nil, fmt.Errorf("%w: count must be non-negative and radius positive", domain.ErrInvalidConfig)
	}

	rng := rand.New(rand.NewSource(seed))
	objects := make([]*domain.SectorObject, 0, count)

	for i := 0; i < count; i++ {
		obj := rollObject(rng, domain.ObjectAsteroid, 1.0, fmt.Sprintf("field-%d-%d", seed, i))

		// Rejection sampling for a uniform draw inside the sphere. The draw
		// count varies per object but stays deterministic for a fixed seed.
		for {
			x := (rng.Float64()*2 - 1) * radius
			y := (rng.Float64()*2 - 1) * radius
			z := (rng.Float64()*2 - 1) * radius
			if x*x+y*y+z*z <= radius*radius {
				obj.Position = domain.Vec3{X: center.X + x, Y: center.Y + y, Z: center.Z + z}
				break
			}
		}

		objects = append(objects, obj)
	}

	return objects, nil
}

// rollObject draws health and resource contents for one object from the
// shared stream.
func rollObject(rng *rand.Rand, kind domain.SectorObjectKind, density float64, id string) *domain.SectorObject {
	obj := &domain.SectorObject{
		ID:   id,
		Kind: kind,
	}

	switch kind {
	case domain.ObjectStation:
		obj.MaxHealth = 0
		obj.Health = 0
	default:
		base := 50 + rng.Intn(101) // 50..150
		obj.MaxHealth = int(float64(base) * density)
		if obj.MaxHealth < 1 {
			obj.MaxHealth = 1
		}
		obj.Health = obj.MaxHealth
	}

	pool := resourceTable[kind]
	if len(pool) == 0 {
		return obj
	}

	// 1-3 resource entries per object, weighted without replacement.
	slots := 1 + rng.Intn(3)
	taken := make(map[int]bool, slots)
	for s := 0; s < slots && len(taken) < len(pool); s++ {
		pick := weightedPick(rng, pool, taken)
		taken[pick] = true
		entry := pool[pick]
		obj.Resources = append(obj.Resources, domain.ResourceYieldSpec{
			Resource: entry.resource,
			Min:      entry.min,
			Max:      entry.max,
		})
	}

	return obj
}

func weightedPick(rng *rand.Rand, pool []struct {
	resource string
	weight   int
	min, max int
}, taken map[int]bool) int {
	total := 0
	for i, e := range pool {
		if !taken[i] {
			total += e.weight
		}
	}
	roll := rng.Intn(total)
	for i, e := range pool {
		if taken[i] {
			continue
		}
		if roll < e.weight {
			return i
		}
		roll -= e.weight
	}
	return len(pool) - 1
}
