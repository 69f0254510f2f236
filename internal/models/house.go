package models

// House represents a shared household.
type House struct {
	// ID is the unique identifier for the house (UUID format).
	ID string

	// Name is the display name of the house (e.g., "Flat 4B").
	Name string

	// CreatedAt is the Unix timestamp when the house was created.
	CreatedAt int64
}

// Member represents a person living in a house.
// A member ID is only meaningful within its house.
type Member struct {
	// ID is the unique identifier for the member (UUID format).
	ID string

	// HouseID is the house this member belongs to.
	HouseID string

	// DisplayName is the name shown next to balances and settlements.
	DisplayName string

	// JoinedAt is the Unix timestamp when the member was added.
	JoinedAt int64
}
