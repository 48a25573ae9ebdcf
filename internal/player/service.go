package player

import (
	"context"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/gbax/gbax-core/internal/domain"
	"github.com/gbax/gbax-core/internal/event"
	"github.com/gbax/gbax-core/internal/logger"
)

const cacheSize = 512

// Repository defines the data access required by the player service
type Repository interface {
	GetPlayer(ctx context.Context, playerID string) (*domain.Player, error)
	UpsertPlayer(ctx context.Context, p *domain.Player) error
}

// Service owns the versioned player record: profile, experience, loyalty
// points, and inventory. All mutation goes through here so the record stays
// consistent and events fire exactly once per change.
type Service interface {
	GetOrCreate(ctx context.Context, playerID, name string) (*domain.Player, error)
	Get(ctx context.Context, playerID string) (*domain.Player, error)

	// GrantExperience applies an XP delta, recomputes level, and publishes
	// experience.gained (and level.up when the bracket changes).
	GrantExperience(ctx context.Context, playerID string, delta int64, source string) (*domain.Player, error)

	// AddLoyaltyPoints accumulates loyalty progression.
	AddLoyaltyPoints(ctx context.Context, playerID string, points int64) (*domain.Player, error)

	// AddResources credits mined/crafted resources to the inventory.
	AddResources(ctx context.Context, playerID string, stacks []domain.ResourceStack) error

	// ConsumeItem debits quantity of an item, rejecting when the stack is short.
	ConsumeItem(ctx context.Context, playerID, itemKey string, quantity int) error

	// SetGuild records guild membership ("" clears it).
	SetGuild(ctx context.Context, playerID, guildID string) error

	// SaveTraits replaces the player's trait list.
	SaveTraits(ctx context.Context, playerID string, traits []domain.Trait) error
}

type service struct {
	repo  Repository
	bus   event.Bus
	cache *lru.Cache[string, *domain.Player]
	mu    sync.Mutex // serializes read-modify-write cycles per process
}

// NewService creates a new player service
func NewService(repo Repository, bus event.Bus) (Service, error) {
	cache, err := lru.New[string, *domain.Player](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create player cache: %w", err)
	}
	return &service{repo: repo, bus: bus, cache: cache}, nil
}

func (s *service) GetOrCreate(ctx context.Context, playerID, name string) (*domain.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.load(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if p != nil {
		return p, nil
	}

	now := time.Now()
	p = &domain.Player{
		SchemaVersion: domain.PlayerSchemaVersion,
		ID:            playerID,
		Name:          name,
		Experience:    0,
		Level:         1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.save(ctx, p); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("Player created", "playerID", playerID, "name", name)
	return p, nil
}

func (s *service) Get(ctx context.Context, playerID string) (*domain.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.load(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrPlayerNotFound, playerID)
	}
	return p, nil
}

func (s *service) GrantExperience(ctx context.Context, playerID string, delta int64, source string) (*domain.Player, error) {
	s.mu.Lock()
	p, err := s.load(ctx, playerID)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if p == nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", domain.ErrPlayerNotFound, playerID)
	}

	oldLevel := p.Level
	p.Experience += delta
	if p.Experience < 0 {
		p.Experience = 0
	}
	p.Level = domain.LevelForExperience(p.Experience)

	if err := s.save(ctx, p); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.mu.Unlock()

	log := logger.FromContext(ctx)
	log.Info("Experience granted", "playerID", playerID, "delta", delta, "total", p.Experience, "source", source)

	if err := s.bus.Publish(ctx, event.NewExperienceGainedEvent(playerID, delta, p.Experience, oldLevel, p.Level, source)); err != nil {
		log.Warn("Failed to publish experience event", "error", err)
	}
	if p.Level != oldLevel {
		log.Info("Level up", "playerID", playerID, "oldLevel", oldLevel, "newLevel", p.Level)
		if err := s.bus.Publish(ctx, event.NewLevelUpEvent(playerID, p.Experience, oldLevel, p.Level)); err != nil {
			log.Warn("Failed to publish level up event", "error", err)
		}
	}

	return p, nil
}

func (s *service) AddLoyaltyPoints(ctx context.Context, playerID string, points int64) (*domain.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.load(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrPlayerNotFound, playerID)
	}

	p.LoyaltyPoints += points
	if err := s.save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) AddResources(ctx context.Context, playerID string, stacks []domain.ResourceStack) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.load(ctx, playerID)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("%w: %s", domain.ErrPlayerNotFound, playerID)
	}

	for _, stack := range stacks {
		addToInventory(p, stack.Resource, stack.Quantity)
	}
	return s.save(ctx, p)
}

func (s *service) ConsumeItem(ctx context.Context, playerID, itemKey string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.load(ctx, playerID)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("%w: %s", domain.ErrPlayerNotFound, playerID)
	}

	for i := range p.Inventory {
		if p.Inventory[i].ItemKey != itemKey {
			continue
		}
		if p.Inventory[i].Quantity < quantity {
			return fmt.Errorf("%w: have %d %s, need %d", domain.ErrInsufficientQuantity, p.Inventory[i].Quantity, itemKey, quantity)
		}
		p.Inventory[i].Quantity -= quantity
		if p.Inventory[i].Quantity == 0 {
			p.Inventory = append(p.Inventory[:i], p.Inventory[i+1:]...)
		}
		return s.save(ctx, p)
	}
	return fmt.Errorf("%w: %s not in inventory", domain.ErrItemNotFound, itemKey)
}

func (s *service) SetGuild(ctx context.Context, playerID, guildID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.load(ctx, playerID)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("%w: %s", domain.ErrPlayerNotFound, playerID)
	}

	p.GuildID = guildID
	return s.save(ctx, p)
}

func (s *service) SaveTraits(ctx context.Context, playerID string, traits []domain.Trait) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.load(ctx, playerID)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("%w: %s", domain.ErrPlayerNotFound, playerID)
	}

	p.Traits = traits
	return s.save(ctx, p)
}

// load fetches through the cache and migrates stale records.
func (s *service) load(ctx context.Context, playerID string) (*domain.Player, error) {
	if p, ok := s.cache.Get(playerID); ok {
		return p, nil
	}

	p, err := s.repo.GetPlayer(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load player: %w", err)
	}
	if p == nil {
		return nil, nil
	}

	if migrated := migratePlayer(ctx, p); migrated {
		if err := s.repo.UpsertPlayer(ctx, p); err != nil {
			return nil, fmt.Errorf("failed to persist migrated player: %w", err)
		}
	}

	s.cache.Add(playerID, p)
	return p, nil
}

func (s *service) save(ctx context.Context, p *domain.Player) error {
	p.UpdatedAt = time.Now()
	if err := s.repo.UpsertPlayer(ctx, p); err != nil {
		return fmt.Errorf("failed to save player: %w", err)
	}
	s.cache.Add(p.ID, p)
	return nil
}

func addToInventory(p *domain.Player, itemKey string, quantity int) {
	for i := range p.Inventory {
		if p.Inventory[i].ItemKey == itemKey {
			p.Inventory[i].Quantity += quantity
			return
		}
	}
	p.Inventory = append(p.Inventory, domain.InventorySlot{ItemKey: itemKey, Quantity: quantity})
}
