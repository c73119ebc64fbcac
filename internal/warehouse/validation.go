package warehouse

import (
	"fmt"
	"strings"

	"github.com/atlas-wms/atlas-wms/internal/platform/httpx"
)

func (s *Service) validate(w Warehouse) error {
	if strings.TrimSpace(w.Name) == "" {
		return fmt.Errorf("%w: Name and location are required", httpx.ErrValidation)
	}
	if strings.TrimSpace(w.Location) == "" {
		return fmt.Errorf("%w: Name and location are required", httpx.ErrValidation)
	}
	switch w.Type {
	case TypeWarehouse, TypeStore, TypeReturnCenter:
	default:
		return fmt.Errorf("%w: unknown warehouse type %q", httpx.ErrValidation, w.Type)
	}
	if w.Capacity < 0 {
		return fmt.Errorf("%w: capacity must not be negative", httpx.ErrValidation)
	}
	return nil
}
