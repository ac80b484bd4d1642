package pricing

import "strings"

// Unit is a measurement unit for an ingredient quantity.
type Unit string

const (
	UnitGram       Unit = "g"
	UnitKilogram   Unit = "kg"
	UnitOunce      Unit = "oz"
	UnitPound      Unit = "lb"
	UnitMilliliter Unit = "ml"
	UnitLiter      Unit = "l"
	UnitFluidOunce Unit = "fl oz"
	UnitCup        Unit = "cup"
	UnitTeaspoon   Unit = "tsp"
	UnitTablespoon Unit = "tbsp"
	UnitPiece      Unit = "piece"
	UnitEach       Unit = "each"

	DefaultUnit = UnitGram
)

// UnitKind groups units by what they measure.
type UnitKind string

const (
	KindMass   UnitKind = "mass"
	KindVolume UnitKind = "volume"
	KindCount  UnitKind = "count"
)

var allUnits = []Unit{
	UnitGram, UnitKilogram, UnitOunce, UnitPound,
	UnitMilliliter, UnitLiter, UnitFluidOunce, UnitCup,
	UnitTeaspoon, UnitTablespoon, UnitPiece, UnitEach,
}

var unitKinds = map[Unit]UnitKind{
	UnitGram:       KindMass,
	UnitKilogram:   KindMass,
	UnitOunce:      KindMass,
	UnitPound:      KindMass,
	UnitMilliliter: KindVolume,
	UnitLiter:      KindVolume,
	UnitFluidOunce: KindVolume,
	UnitCup:        KindVolume,
	UnitTeaspoon:   KindVolume,
	UnitTablespoon: KindVolume,
	UnitPiece:      KindCount,
	UnitEach:       KindCount,
}

// Units returns every supported unit in display order.
func Units() []Unit {
	out := make([]Unit, len(allUnits))
	copy(out, allUnits)
	return out
}

// Valid reports whether u is one of the supported units.
func (u Unit) Valid() bool {
	_, ok := unitKinds[u]
	return ok
}

// Kind returns the quantity kind of u, or "" for unknown units.
func (u Unit) Kind() UnitKind {
	return unitKinds[u]
}

// ParseUnit matches raw against the supported units, ignoring case and surrounding space.
func ParseUnit(raw string) (Unit, bool) {
	u := Unit(strings.ToLower(strings.TrimSpace(raw)))
	if !u.Valid() {
		return "", false
	}
	return u, true
}
