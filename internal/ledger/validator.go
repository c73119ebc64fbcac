package ledger

// EffectEntry is one quantity mutation computed from an accepted movement.
// Delta is a signed change, except when Absolute is set: then Delta is the
// counted quantity the level is reset to.
type EffectEntry struct {
	WarehouseID string
	Delta       int64
	Absolute    bool
}

// ValidateFields checks the type-specific field rules of a movement without
// consulting stock levels. Pure; no side effects.
func ValidateFields(req MoveRequest) error {
	if req.ProductID == "" {
		return ErrProductRequired
	}
	switch req.Type {
	case MoveTypeReceipt:
		if req.ToWarehouseID == "" {
			return ErrReceiptNeedsDestination
		}
		if req.Quantity <= 0 {
			return ErrQuantityNotPositive
		}
	case MoveTypeDelivery:
		if req.FromWarehouseID == "" {
			return ErrDeliveryNeedsSource
		}
		if req.Quantity <= 0 {
			return ErrQuantityNotPositive
		}
	case MoveTypeTransfer:
		if req.FromWarehouseID == "" || req.ToWarehouseID == "" {
			return ErrTransferNeedsWarehouses
		}
		if req.FromWarehouseID == req.ToWarehouseID {
			return ErrTransferSameWarehouse
		}
		if req.Quantity <= 0 {
			return ErrQuantityNotPositive
		}
	case MoveTypeAdjustment:
		if req.ToWarehouseID == "" {
			return ErrAdjustmentNeedsWarehouse
		}
		if req.Quantity < 0 {
			return ErrQuantityNegative
		}
	default:
		return ErrTypeRequired
	}
	return nil
}

// CheckStock verifies source-warehouse availability for deliveries and
// transfers. available is the current quantity at the source warehouse;
// the caller must have read it under the same atomic unit that applies the
// resulting effect.
func CheckStock(req MoveRequest, available int64) error {
	if req.Type != MoveTypeDelivery && req.Type != MoveTypeTransfer {
		return nil
	}
	if available < req.Quantity {
		return &InsufficientStockError{Available: available, Requested: req.Quantity}
	}
	return nil
}

// Effects computes the quantity mutations an accepted movement applies.
// ValidateFields must have accepted the request first.
func Effects(req MoveRequest) []EffectEntry {
	switch req.Type {
	case MoveTypeReceipt:
		return []EffectEntry{{WarehouseID: req.ToWarehouseID, Delta: req.Quantity}}
	case MoveTypeDelivery:
		return []EffectEntry{{WarehouseID: req.FromWarehouseID, Delta: -req.Quantity}}
	case MoveTypeTransfer:
		return []EffectEntry{
			{WarehouseID: req.FromWarehouseID, Delta: -req.Quantity},
			{WarehouseID: req.ToWarehouseID, Delta: req.Quantity},
		}
	case MoveTypeAdjustment:
		// Quantity is the absolute counted value, not a delta.
		return []EffectEntry{{WarehouseID: req.ToWarehouseID, Delta: req.Quantity, Absolute: true}}
	}
	return nil
}

// ValidateMove runs field validation and, unless the movement is a draft,
// the stock-sufficiency check. Drafts defer the availability check to the
// draft-to-done transition. Returns the effects to apply on acceptance.
func ValidateMove(req MoveRequest, available int64) ([]EffectEntry, error) {
	if err := ValidateFields(req); err != nil {
		return nil, err
	}
	if req.Status != MoveStatusDraft {
		if err := CheckStock(req, available); err != nil {
			return nil, err
		}
	}
	return Effects(req), nil
}
