package geography

import (
	"context"
	"strings"

	"github.com/MikeRez0/ypfulfillment/internal/core/domain"
)

// Static is a fixed branch directory. It backs DEV mode and tests.
type Static struct {
	Branches  []domain.Branch
	Addresses map[string]domain.Coordinates
}

func (s *Static) ListActiveBranches(ctx context.Context) ([]domain.Branch, error) {
	return append([]domain.Branch(nil), s.Branches...), nil
}

func (s *Static) Geocode(ctx context.Context, address string) (domain.Coordinates, error) {
	if c, ok := s.Addresses[normalize(address)]; ok {
		return c, nil
	}
	return domain.Coordinates{}, domain.ErrDataNotFound
}

func normalize(address string) string {
	return strings.Join(strings.Fields(strings.ToLower(address)), " ")
}
