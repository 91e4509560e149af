package entity

// SupplyStatus is the stock alert level of a supply. It is always derived
// from the counts and never persisted, so the two representations can never
// contradict each other.
type SupplyStatus string

const (
	SupplyOK       SupplyStatus = "OK"
	SupplyLow      SupplyStatus = "Bajo"
	SupplyCritical SupplyStatus = "Crítico"
)

// Supply represents a consumable stock item ("insumo") with a
// minimum-threshold alert.
type Supply struct {
	Name     string `firestore:"nombre" json:"nombre" validate:"required"`
	Stock    int    `firestore:"stock" json:"stock" validate:"gte=0"`
	MinStock int    `firestore:"stockMinimo" json:"stockMinimo" validate:"gte=0"`
}

// Status derives the alert level from the current counts. A supply is
// critical once it is exhausted or below half its minimum, low while at or
// below the minimum, and OK otherwise.
func (s Supply) Status() SupplyStatus {
	switch {
	case s.Stock <= 0 || s.Stock*2 < s.MinStock:
		return SupplyCritical
	case s.Stock <= s.MinStock:
		return SupplyLow
	default:
		return SupplyOK
	}
}
