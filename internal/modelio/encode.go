package modelio

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"shapediff/internal/shape"
)

// Save writes m to path, choosing the format by extension.
func Save(path string, m *shape.Model) (err error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
	}()
	return Encode(f, m, format)
}

// Encode writes m as a document. Source locations are not preserved.
func Encode(w io.Writer, m *shape.Model, format Format) error {
	doc := ToDocument(m)
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	case FormatMsgpack:
		enc := msgpack.NewEncoder(w)
		enc.SetSortMapKeys(true)
		return enc.Encode(doc)
	default:
		return fmt.Errorf("%w: %v", ErrUnknownFormat, format)
	}
}

// ToDocument converts m into its wire form. Member shapes are folded into
// their containers.
func ToDocument(m *shape.Model) *Document {
	doc := &Document{Smithy: DocumentVersion, Shapes: make(map[string]ShapeDoc, m.Len())}
	for s := range m.All() {
		if s.Kind() == shape.KindMember {
			continue
		}
		sd := ShapeDoc{Type: s.Kind().String(), Traits: traitDocs(s)}
		switch body := s.Body().(type) {
		case shape.EntityBody:
			sd.Version = body.Version
			sd.Operations = refs(body.Operations)
			sd.Resources = refs(body.Resources)
		case shape.OperationBody:
			sd.Input = optionalRefDoc(body.Input)
			sd.Output = optionalRefDoc(body.Output)
			sd.Errors = refs(body.Errors)
		case shape.AggregateBody:
			fillMembers(&sd, s.Kind(), m, body.Members)
		}
		doc.Shapes[s.ID().String()] = sd
	}
	return doc
}

func fillMembers(sd *ShapeDoc, kind shape.Kind, m *shape.Model, ids shape.IDSet) {
	for id := range ids.All() {
		md := MemberDoc{}
		if ms, ok := m.Shape(id); ok {
			if mb, ok := ms.Body().(shape.MemberBody); ok {
				md.Target = mb.Target.String()
			}
			md.Traits = traitDocs(ms)
		}
		switch {
		case kind == shape.KindMap && id.Member() == "key":
			sd.Key = &md
		case kind == shape.KindMap && id.Member() == "value":
			sd.Value = &md
		case (kind == shape.KindList || kind == shape.KindSet) && id.Member() == "member":
			sd.Member = &md
		default:
			if sd.Members == nil {
				sd.Members = make(map[string]MemberDoc, ids.Len())
			}
			sd.Members[id.Member()] = md
		}
	}
}

func traitDocs(s *shape.Shape) map[string]any {
	traits := s.Traits()
	if len(traits) == 0 {
		return nil
	}
	out := make(map[string]any, len(traits))
	for _, t := range traits {
		out[t.Name()] = t.Value()
	}
	return out
}

func refs(set shape.IDSet) []Ref {
	if set.Len() == 0 {
		return nil
	}
	out := make([]Ref, 0, set.Len())
	for id := range set.All() {
		out = append(out, Ref{Target: id.String()})
	}
	return out
}

func optionalRefDoc(id shape.ShapeID) *Ref {
	if id.IsZero() {
		return nil
	}
	return &Ref{Target: id.String()}
}
