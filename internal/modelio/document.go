// Package modelio reads and writes models in a JSON-AST-like document format
// encoded as JSON, YAML or MessagePack.
//
//	{"smithy": "1.0", "shapes": {
//	  "ns#Svc": {"type": "service", "operations": [{"target": "ns#Op"}]},
//	  "ns#In":  {"type": "structure", "members": {"a": {"target": "smithy.api#String"}}}
//	}}
package modelio

// DocumentVersion is written to the "smithy" field by Encode.
const DocumentVersion = "1.0"

// Document is the wire form of a model.
type Document struct {
	Smithy string              `json:"smithy" yaml:"smithy" msgpack:"smithy"`
	Shapes map[string]ShapeDoc `json:"shapes" yaml:"shapes" msgpack:"shapes"`
}

// Ref points at another shape.
type Ref struct {
	Target string `json:"target" yaml:"target" msgpack:"target"`
}

// MemberDoc is a member definition nested in its container.
type MemberDoc struct {
	Target string         `json:"target" yaml:"target" msgpack:"target"`
	Traits map[string]any `json:"traits,omitempty" yaml:"traits,omitempty" msgpack:"traits,omitempty"`
}

// ShapeDoc is one top-level shape. Which fields apply depends on Type.
type ShapeDoc struct {
	Type    string `json:"type" yaml:"type" msgpack:"type"`
	Version string `json:"version,omitempty" yaml:"version,omitempty" msgpack:"version,omitempty"`

	// service, resource
	Operations []Ref `json:"operations,omitempty" yaml:"operations,omitempty" msgpack:"operations,omitempty"`
	Resources  []Ref `json:"resources,omitempty" yaml:"resources,omitempty" msgpack:"resources,omitempty"`

	// operation
	Input  *Ref  `json:"input,omitempty" yaml:"input,omitempty" msgpack:"input,omitempty"`
	Output *Ref  `json:"output,omitempty" yaml:"output,omitempty" msgpack:"output,omitempty"`
	Errors []Ref `json:"errors,omitempty" yaml:"errors,omitempty" msgpack:"errors,omitempty"`

	// structure, union
	Members map[string]MemberDoc `json:"members,omitempty" yaml:"members,omitempty" msgpack:"members,omitempty"`
	// list, set
	Member *MemberDoc `json:"member,omitempty" yaml:"member,omitempty" msgpack:"member,omitempty"`
	// map
	Key   *MemberDoc `json:"key,omitempty" yaml:"key,omitempty" msgpack:"key,omitempty"`
	Value *MemberDoc `json:"value,omitempty" yaml:"value,omitempty" msgpack:"value,omitempty"`

	Traits map[string]any `json:"traits,omitempty" yaml:"traits,omitempty" msgpack:"traits,omitempty"`
}
