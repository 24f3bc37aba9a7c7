// Package domain contains the core domain types for the arbitrage context.
package domain

// Direction represents the arbitrage trade direction between the two pools.
type Direction string

const (
	// DirectionAToB prices pool B against pool A, using pool B's fee.
	DirectionAToB Direction = "A_TO_B"

	// DirectionBToA prices pool A against pool B, using pool A's fee.
	DirectionBToA Direction = "B_TO_A"
)

// String returns a human-readable description of the direction.
func (d Direction) String() string {
	switch d {
	case DirectionAToB:
		return "A → B (source pool B, target pool A)"
	case DirectionBToA:
		return "B → A (source pool A, target pool B)"
	default:
		return "Unknown"
	}
}

// Short returns the compact label used in tables.
func (d Direction) Short() string {
	switch d {
	case DirectionAToB:
		return "A→B"
	case DirectionBToA:
		return "B→A"
	default:
		return "?"
	}
}
