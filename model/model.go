// Package model defines the contract of hydratable types together with a map backed default,
// payload cleaning and phantom identifier generators.
package model

// Model is implemented by every type a resource hydrates responses into.
type Model interface {
	// Load merges the raw fields into the model. Loading the same data twice yields the same state.
	Load(raw map[string]interface{}) error
	// Dump returns a wire safe plain structure without private or function valued fields.
	Dump() map[string]interface{}
}
