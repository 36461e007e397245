package rules

import (
	"shapediff/internal/diag"
	"shapediff/internal/evaluator"
)

const (
	AddedOperationBindingID = "AddedOperationBinding"
	AddedResourceBindingID  = "AddedResourceBinding"
)

// NewAddedEntityBinding emits a NOTE when an operation or resource is bound to a
// service or resource.
func NewAddedEntityBinding() evaluator.Evaluator {
	return addedEntityBinding
}

var addedEntityBinding = BindingRule{
	Direction: Added,
	Severity:  diag.SevNote,
	Collections: []Collection{
		{EventID: AddedOperationBindingID, Descriptor: "Operation", Select: Operations},
		{EventID: AddedResourceBindingID, Descriptor: "Resource", Select: Resources},
	},
}
