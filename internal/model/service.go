package model

// ServiceOffering is a purchasable consulting engagement from the catalog.
// Price is a whole amount in a single currency unit (USD) and is never
// negative.
type ServiceOffering struct {
	ID            int      `json:"id" yaml:"id"`
	Name          string   `json:"name" yaml:"name"`
	Description   string   `json:"description" yaml:"description"`
	Price         int      `json:"price" yaml:"price"`
	DurationLabel string   `json:"duration" yaml:"duration"`
	Features      []string `json:"features" yaml:"features"`
}

// Clone returns a deep copy so callers can hold the offering without
// sharing the feature slice with the catalog.
func (s ServiceOffering) Clone() ServiceOffering {
	out := s
	if s.Features != nil {
		out.Features = append([]string(nil), s.Features...)
	}
	return out
}
