package booking

import "fmt"

// Catalog holds the fixed list of bookable cabins in insertion order.
type Catalog struct {
	cabins []Cabin
	byID   map[CabinID]Cabin
}

// NewCatalog builds a catalog and rejects duplicate cabin ids.
func NewCatalog(cabins []Cabin) (*Catalog, error) {
	byID := make(map[CabinID]Cabin, len(cabins))
	ordered := make([]Cabin, 0, len(cabins))
	for _, cabin := range cabins {
		if _, exists := byID[cabin.ID]; exists {
			return nil, fmt.Errorf("%w: duplicate cabin id %q", ErrInvalidCabin, cabin.ID.String())
		}
		byID[cabin.ID] = cabin
		ordered = append(ordered, cabin)
	}
	return &Catalog{cabins: ordered, byID: byID}, nil
}

// ListCabins returns all cabins in their seeded order.
func (catalog *Catalog) ListCabins() []Cabin {
	out := make([]Cabin, len(catalog.cabins))
	copy(out, catalog.cabins)
	return out
}

// CabinByID looks up a cabin by id.
func (catalog *Catalog) CabinByID(cabinID CabinID) (Cabin, error) {
	cabin, exists := catalog.byID[cabinID]
	if !exists {
		return Cabin{}, fmt.Errorf("%w: %s", ErrCabinNotFound, cabinID.String())
	}
	return cabin, nil
}

// DefaultCabins returns the seeded cabin inventory.
func DefaultCabins() []Cabin {
	return []Cabin{
		{
			ID:          CabinID{value: "cabin1"},
			Name:        "Lakeside Retreat",
			Description: "A beautiful cabin by the serene lake, perfect for a weekend getaway.",
			ImageURL:    "https://picsum.photos/seed/cabin1/600/400",
			BasePrice:   15000,
			Amenities:   []string{"Wi-Fi", "Kitchen", "Lake View", "Fireplace"},
			Capacity:    4,
		},
		{
			ID:          CabinID{value: "cabin2"},
			Name:        "Mountain Hideaway",
			Description: "Cozy cabin nestled in the mountains, offering breathtaking views.",
			ImageURL:    "https://picsum.photos/seed/cabin2/600/400",
			BasePrice:   18000,
			Amenities:   []string{"Hot Tub", "Mountain View", "Hiking Trails Access", "BBQ Grill"},
			Capacity:    6,
		},
		{
			ID:          CabinID{value: "cabin3"},
			Name:        "Forest Haven",
			Description: "A secluded cabin deep in the forest, ideal for nature lovers.",
			ImageURL:    "https://picsum.photos/seed/cabin3/600/400",
			BasePrice:   12000,
			Amenities:   []string{"Pet Friendly", "Forest Access", "Private Deck", "Star Gazing"},
			Capacity:    2,
		},
	}
}
