package bson

import "fmt"

// CapacityOptions configures how eagerly-decoded containers are presized.
// Sizing a map or slice close to its final length up front avoids the
// repeated reallocation/rehash a decoder would otherwise pay for every
// document and array it builds.
type CapacityOptions struct {
	// DocumentBytesPerField estimates how many wire bytes, on average, one
	// document field occupies. initialCapacity = max(MinCapacity,
	// totalLength / DocumentBytesPerField).
	DocumentBytesPerField int
	// ArrayBytesPerElement is DocumentBytesPerField's array counterpart.
	ArrayBytesPerElement int
	// MinCapacity is the floor below which the estimate is never allowed
	// to go, regardless of how small totalLength is.
	MinCapacity int
	// LoadFactor adjusts container sizing for implementations whose
	// backing container exposes one (Go's builtin map does not, but the
	// field is kept so the estimator's contract matches other language
	// ports of this design and any custom container that does use it).
	LoadFactor float64
}

// DefaultCapacityOptions matches the values spec'd for this decoder:
// documentBytesPerField=20, arrayBytesPerElement=15, minCapacity=4,
// loadFactor=0.75.
var DefaultCapacityOptions = CapacityOptions{
	DocumentBytesPerField: 20,
	ArrayBytesPerElement:  15,
	MinCapacity:           4,
	LoadFactor:            0.75,
}

// Validate checks that every field is within its documented range.
func (o CapacityOptions) Validate() error {
	if o.DocumentBytesPerField <= 0 {
		return fmt.Errorf("bson: DocumentBytesPerField must be positive, got %d", o.DocumentBytesPerField)
	}
	if o.ArrayBytesPerElement <= 0 {
		return fmt.Errorf("bson: ArrayBytesPerElement must be positive, got %d", o.ArrayBytesPerElement)
	}
	if o.MinCapacity <= 0 {
		return fmt.Errorf("bson: MinCapacity must be positive, got %d", o.MinCapacity)
	}
	if o.LoadFactor <= 0 || o.LoadFactor > 1 {
		return fmt.Errorf("bson: LoadFactor must be in (0, 1], got %f", o.LoadFactor)
	}
	return nil
}

func (o CapacityOptions) documentCapacity(totalLength int) int {
	return maxInt(o.MinCapacity, totalLength/o.DocumentBytesPerField)
}

func (o CapacityOptions) arrayCapacity(totalLength int) int {
	return maxInt(o.MinCapacity, totalLength/o.ArrayBytesPerElement)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
