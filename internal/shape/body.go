package shape

// Body is the variant-specific payload of a shape. The set of implementations is
// closed: EntityBody, OperationBody, MemberBody and AggregateBody. Simple kinds
// have a nil body. Bodies are values holding immutable IDSets, so every accessor
// hands out a copy and a shape never changes after New.
type Body interface {
	category() Category
	equalBody(other Body) bool
}

// EntityBody holds the bindings of a service or resource.
type EntityBody struct {
	Version    string // services only
	Operations IDSet
	Resources  IDSet
}

func (EntityBody) category() Category { return CategoryEntity }

func (b EntityBody) equalBody(other Body) bool {
	o, ok := other.(EntityBody)
	return ok && b.Version == o.Version && b.Operations.Equal(o.Operations) && b.Resources.Equal(o.Resources)
}

// OperationBody holds the input, output and errors of an operation.
type OperationBody struct {
	Input  ShapeID // zero when absent
	Output ShapeID // zero when absent
	Errors IDSet
}

func (OperationBody) category() Category { return CategoryOperation }

func (b OperationBody) equalBody(other Body) bool {
	o, ok := other.(OperationBody)
	return ok && b.Input == o.Input && b.Output == o.Output && b.Errors.Equal(o.Errors)
}

// MemberBody holds the target of a member.
type MemberBody struct {
	Target ShapeID
}

func (MemberBody) category() Category { return CategoryMember }

func (b MemberBody) equalBody(other Body) bool {
	o, ok := other.(MemberBody)
	return ok && b.Target == o.Target
}

// AggregateBody lists the member IDs of a structure, union, list, set or map.
type AggregateBody struct {
	Members IDSet
}

func (AggregateBody) category() Category { return CategoryAggregate }

func (b AggregateBody) equalBody(other Body) bool {
	o, ok := other.(AggregateBody)
	return ok && b.Members.Equal(o.Members)
}

func bodiesEqual(a, b Body) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.equalBody(b)
}
