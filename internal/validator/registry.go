package validator

import "sort"

// Registry maps rule IDs to Validator implementations.
type Registry struct {
	validators map[string]Validator
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{validators: make(map[string]Validator)}
}

// Register adds a validator to the registry.
func (r *Registry) Register(v Validator) {
	r.validators[v.RuleID()] = v
}

// Get returns the validator for a given rule ID, or nil if not found.
func (r *Registry) Get(id string) Validator {
	return r.validators[id]
}

// All returns all registered validators in rule-ID order so runs are
// deterministic.
func (r *Registry) All() []Validator {
	out := make([]Validator, 0, len(r.validators))
	for _, v := range r.validators {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RuleID() < out[j].RuleID() })
	return out
}
