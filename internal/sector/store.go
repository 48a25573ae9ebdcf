package sector

import (
	"sync"

	"github.com/gbax/gbax-core/internal/domain"
)

// Store holds generated sectors in memory and resolves object IDs for the
// operation registry. Objects are shared by pointer so mining damage is
// visible to later lookups.
type Store struct {
	mu      sync.RWMutex
	sectors map[string]*domain.Sector
	objects map[string]*domain.SectorObject
}

// NewStore creates an empty sector store.
func NewStore() *Store {
	return &Store{
		sectors: make(map[string]*domain.Sector),
		objects: make(map[string]*domain.SectorObject),
	}
}

// Put registers a sector, replacing any previous sector with the same name.
func (s *Store) Put(sec *domain.Sector) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.sectors[sec.Name]; ok {
		for _, obj := range old.Objects {
			delete(s.objects, obj.ID)
		}
	}
	s.sectors[sec.Name] = sec
	for _, obj := range sec.Objects {
		s.objects[obj.ID] = obj
	}
}

// Get returns the sector by name, or nil.
func (s *Store) Get(name string) *domain.Sector {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sectors[name]
}

// Names lists the stored sector names.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.sectors))
	for name := range s.sectors {
		names = append(names, name)
	}
	return names
}

// Target resolves an object ID across all stored sectors.
func (s *Store) Target(id string) (*domain.SectorObject, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[id]
	return obj, ok
}
