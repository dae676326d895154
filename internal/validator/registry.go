package validator

import "fmt"

// Registry is the ordered validator catalog. Registration order is the order
// in which validator output appears in the merged result.
type Registry struct {
	validators []Validator
	index      map[string]int
}

// NewRegistry creates a Registry holding vs in order.
func NewRegistry(vs ...Validator) *Registry {
	r := &Registry{index: make(map[string]int)}
	for _, v := range vs {
		r.Register(v)
	}
	return r
}

// Register appends a validator. Names must be unique; a duplicate is a
// programming error and panics.
func (r *Registry) Register(v Validator) {
	if _, dup := r.index[v.Name()]; dup {
		panic(fmt.Sprintf("validator: duplicate validator name %q", v.Name()))
	}
	r.index[v.Name()] = len(r.validators)
	r.validators = append(r.validators, v)
}

// Get returns the validator for a given name, or nil if not found.
func (r *Registry) Get(name string) Validator {
	i, ok := r.index[name]
	if !ok {
		return nil
	}
	return r.validators[i]
}

// All returns all registered validators in registration order.
func (r *Registry) All() []Validator {
	out := make([]Validator, len(r.validators))
	copy(out, r.validators)
	return out
}

// Enabled returns the validators not named in skip, in registration order.
func (r *Registry) Enabled(skip []string) []Validator {
	skipped := make(map[string]bool, len(skip))
	for _, s := range skip {
		skipped[s] = true
	}
	out := make([]Validator, 0, len(r.validators))
	for _, v := range r.validators {
		if !skipped[v.Name()] {
			out = append(out, v)
		}
	}
	return out
}

func (r *Registry) Len() int { return len(r.validators) }
