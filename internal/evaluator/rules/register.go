package rules

import "shapediff/internal/evaluator"

// Register adds every built-in evaluator to r.
func Register(r *evaluator.Registry) error {
	builtins := []evaluator.Registration{
		{
			Name:     "AddedEntityBinding",
			Summary:  "operation or resource bound to a service or resource",
			EventIDs: addedEntityBinding.EventIDs(),
			Factory:  NewAddedEntityBinding,
		},
		{
			Name:     "AddedShape",
			Summary:  "shape added to the model",
			EventIDs: []string{AddedShapeID},
			Factory:  NewAddedShape,
		},
	}
	for _, reg := range builtins {
		if err := r.Register(reg); err != nil {
			return err
		}
	}
	return nil
}

// DefaultRegistry returns a registry holding the built-in evaluators.
func DefaultRegistry() *evaluator.Registry {
	r := evaluator.NewRegistry()
	if err := Register(r); err != nil {
		panic(err)
	}
	return r
}
