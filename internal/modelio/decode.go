package modelio

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/text/unicode/norm"

	"shapediff/internal/shape"
)

var (
	// ErrUnknownFormat reports an unsupported file extension or format value.
	ErrUnknownFormat = errors.New("unknown model format")
	// ErrInvalidDocument reports a document that decodes but does not describe a valid model.
	ErrInvalidDocument = errors.New("invalid model document")
)

// Load reads the model at path, choosing the format by extension.
func Load(path string) (*shape.Model, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open model: %w", err)
	}
	defer f.Close()
	return Decode(f, format, path)
}

// Decode reads one document from r. filename is recorded in source locations.
func Decode(r io.Reader, format Format, filename string) (*shape.Model, error) {
	var (
		doc  Document
		locs locations
		err  error
	)
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.UseNumber()
		err = dec.Decode(&doc)
	case FormatYAML:
		locs, err = decodeYAML(r, &doc)
	case FormatMsgpack:
		err = msgpack.NewDecoder(r).Decode(&doc)
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: failed to decode %s: %w", filename, format, err)
	}
	return build(&doc, filename, locs)
}

// locations maps raw shape keys, and "key$member" for members, to positions.
type locations map[string]shape.SourceLocation

func (l locations) at(filename, key string) shape.SourceLocation {
	loc := l[key]
	loc.Filename = filename
	return loc
}

// Build converts a decoded document into a model.
func Build(doc *Document, filename string) (*shape.Model, error) {
	return build(doc, filename, nil)
}

func build(doc *Document, filename string, locs locations) (*shape.Model, error) {
	if doc == nil || doc.Shapes == nil {
		return nil, fmt.Errorf("%w: %s: missing \"shapes\"", ErrInvalidDocument, filename)
	}
	b := builder{filename: filename, locs: locs}
	for _, key := range slices.Sorted(maps.Keys(doc.Shapes)) {
		if err := b.add(key, doc.Shapes[key]); err != nil {
			return nil, fmt.Errorf("%w: %s: shape %q: %w", ErrInvalidDocument, filename, key, err)
		}
	}
	m, err := shape.NewModel(b.shapes...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidDocument, filename, err)
	}
	return m, nil
}

type builder struct {
	filename string
	locs     locations
	shapes   []*shape.Shape
}

func (b *builder) add(key string, sd ShapeDoc) error {
	id, err := parseID(key)
	if err != nil {
		return err
	}
	if id.HasMember() {
		return errors.New("members must be nested in their container")
	}
	kind, err := shape.ParseKind(sd.Type)
	if err != nil {
		return err
	}
	loc := b.locs.at(b.filename, key)
	traits, err := buildTraits(sd.Traits, loc)
	if err != nil {
		return err
	}

	var body shape.Body
	switch kind.Category() {
	case shape.CategorySimple:
	case shape.CategoryEntity:
		ent := shape.EntityBody{Version: sd.Version}
		if ent.Operations, err = refSet(sd.Operations); err != nil {
			return fmt.Errorf("operations: %w", err)
		}
		if ent.Resources, err = refSet(sd.Resources); err != nil {
			return fmt.Errorf("resources: %w", err)
		}
		body = ent
	case shape.CategoryOperation:
		op := shape.OperationBody{}
		if op.Input, err = optionalRef(sd.Input); err != nil {
			return fmt.Errorf("input: %w", err)
		}
		if op.Output, err = optionalRef(sd.Output); err != nil {
			return fmt.Errorf("output: %w", err)
		}
		if op.Errors, err = refSet(sd.Errors); err != nil {
			return fmt.Errorf("errors: %w", err)
		}
		body = op
	case shape.CategoryAggregate:
		members, err := aggregateMembers(kind, sd)
		if err != nil {
			return err
		}
		ids := make([]shape.ShapeID, 0, len(members))
		for _, name := range slices.Sorted(maps.Keys(members)) {
			mid, err := b.addMember(id, key, name, members[name])
			if err != nil {
				return err
			}
			ids = append(ids, mid)
		}
		body = shape.AggregateBody{Members: shape.NewIDSet(ids...)}
	default:
		return fmt.Errorf("%s shapes cannot appear at the top level", kind)
	}

	s, err := shape.New(id, kind, body, loc, traits...)
	if err != nil {
		return err
	}
	b.shapes = append(b.shapes, s)
	return nil
}

func (b *builder) addMember(container shape.ShapeID, key, name string, md MemberDoc) (shape.ShapeID, error) {
	mid, err := container.WithMember(norm.NFC.String(name))
	if err != nil {
		return shape.ShapeID{}, err
	}
	target, err := parseID(md.Target)
	if err != nil {
		return shape.ShapeID{}, fmt.Errorf("member %s: %w", name, err)
	}
	loc := b.locs.at(b.filename, key+"$"+name)
	traits, err := buildTraits(md.Traits, loc)
	if err != nil {
		return shape.ShapeID{}, fmt.Errorf("member %s: %w", name, err)
	}
	s, err := shape.New(mid, shape.KindMember, shape.MemberBody{Target: target}, loc, traits...)
	if err != nil {
		return shape.ShapeID{}, err
	}
	b.shapes = append(b.shapes, s)
	return mid, nil
}

// aggregateMembers returns the member definitions of an aggregate keyed by member name.
func aggregateMembers(kind shape.Kind, sd ShapeDoc) (map[string]MemberDoc, error) {
	switch kind {
	case shape.KindList, shape.KindSet:
		if sd.Member == nil {
			return nil, fmt.Errorf("%s requires \"member\"", kind)
		}
		return map[string]MemberDoc{"member": *sd.Member}, nil
	case shape.KindMap:
		if sd.Key == nil || sd.Value == nil {
			return nil, errors.New("map requires \"key\" and \"value\"")
		}
		return map[string]MemberDoc{"key": *sd.Key, "value": *sd.Value}, nil
	default:
		return sd.Members, nil
	}
}

func buildTraits(raw map[string]any, loc shape.SourceLocation) ([]shape.Trait, error) {
	traits := make([]shape.Trait, 0, len(raw))
	for _, name := range slices.Sorted(maps.Keys(raw)) {
		abs := shape.MakeAbsoluteTraitName(norm.NFC.String(name), shape.PreludeNamespace)
		t, err := shape.NewTrait(abs, raw[name], loc)
		if err != nil {
			return nil, err
		}
		traits = append(traits, t)
	}
	return traits, nil
}

func parseID(s string) (shape.ShapeID, error) {
	return shape.ParseShapeID(norm.NFC.String(s))
}

func optionalRef(r *Ref) (shape.ShapeID, error) {
	if r == nil {
		return shape.ShapeID{}, nil
	}
	return parseID(r.Target)
}

func refSet(refs []Ref) (shape.IDSet, error) {
	ids := make([]shape.ShapeID, len(refs))
	for i, r := range refs {
		id, err := parseID(r.Target)
		if err != nil {
			return shape.IDSet{}, err
		}
		ids[i] = id
	}
	return shape.NewIDSet(ids...), nil
}
