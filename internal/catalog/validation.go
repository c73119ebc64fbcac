package catalog

import (
	"fmt"
	"strings"

	"github.com/atlas-wms/atlas-wms/internal/platform/httpx"
)

func (s *Service) validate(p Product) error {
	if strings.TrimSpace(p.SKU) == "" {
		return fmt.Errorf("%w: SKU is required", httpx.ErrValidation)
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: product name is required", httpx.ErrValidation)
	}
	if strings.TrimSpace(p.UOM) == "" {
		return fmt.Errorf("%w: unit of measure is required", httpx.ErrValidation)
	}
	if p.MinStockLevel < 0 {
		return fmt.Errorf("%w: minimum stock level must not be negative", httpx.ErrValidation)
	}
	return nil
}
