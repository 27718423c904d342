package countries

import (
	"context"
	"time"

	"github.com/atlasgate/countryhub/internal/cache"
	"github.com/atlasgate/countryhub/internal/domain/country"
)

// Service fronts the upstream client with a single-slot TTL cache. Only
// the full-set fetch is cached: filtering and pagination always run
// against live query parameters.
type Service struct {
	client *Client
	ttl    time.Duration
	slot   *cache.Slot
}

func NewService(client *Client, ttl time.Duration) *Service {
	return &Service{
		client: client,
		ttl:    ttl,
		slot:   cache.NewSlot(ttl),
	}
}

func (s *Service) All(ctx context.Context) ([]country.Country, error) {
	if s.ttl > 0 {
		if v, ok := s.slot.Get(); ok {
			if items, ok := v.([]country.Country); ok {
				return items, nil
			}
		}
	}

	raw, err := s.client.FetchAll(ctx)

	if err != nil {
		return nil, err
	}

	items := NormalizeAll(raw)

	if s.ttl > 0 {
		s.slot.Set(items)
	}

	return items, nil
}

// ByCode bypasses the cache: the dedicated upstream endpoint is already
// the cheap path.
func (s *Service) ByCode(ctx context.Context, code string) (country.Country, error) {
	raw, err := s.client.FetchByCode(ctx, code)

	if err != nil {
		return country.Country{}, err
	}

	return Normalize(raw), nil
}
