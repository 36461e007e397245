package modelio

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shapediff/internal/diff"
	"shapediff/internal/shape"
	"shapediff/internal/testkit"
)

const sampleJSON = `{
  "smithy": "1.0",
  "shapes": {
    "ns.foo#Svc": {
      "type": "service",
      "version": "2020-01-01",
      "operations": [{"target": "ns.foo#OpA"}],
      "resources": [{"target": "ns.foo#ResB"}],
      "traits": {"documentation": "text", "ns.foo#custom": {"n": 1}}
    },
    "ns.foo#ResB": {"type": "resource"},
    "ns.foo#OpA": {
      "type": "operation",
      "input": {"target": "ns.foo#In"},
      "errors": [{"target": "ns.foo#Err"}]
    },
    "ns.foo#In": {
      "type": "structure",
      "members": {"name": {"target": "smithy.api#String", "traits": {"required": {}}}}
    },
    "ns.foo#Err": {"type": "structure", "traits": {"error": "client"}},
    "ns.foo#L": {"type": "list", "member": {"target": "smithy.api#String"}},
    "ns.foo#M": {"type": "map", "key": {"target": "smithy.api#String"}, "value": {"target": "smithy.api#Integer"}},
    "ns.foo#Count": {"type": "integer", "traits": {"range": {"min": 0, "max": 10}}}
  }
}`

const sampleYAML = `smithy: "1.0"
shapes:
  ns.foo#Svc:
    type: service
    version: "2020-01-01"
    operations:
      - target: ns.foo#OpA
    resources:
      - target: ns.foo#ResB
    traits:
      documentation: text
      ns.foo#custom:
        n: 1
  ns.foo#ResB:
    type: resource
  ns.foo#OpA:
    type: operation
    input:
      target: ns.foo#In
    errors:
      - target: ns.foo#Err
  ns.foo#In:
    type: structure
    members:
      name:
        target: smithy.api#String
        traits:
          required: {}
  ns.foo#Err:
    type: structure
    traits:
      error: client
  ns.foo#L:
    type: list
    member:
      target: smithy.api#String
  ns.foo#M:
    type: map
    key:
      target: smithy.api#String
    value:
      target: smithy.api#Integer
  ns.foo#Count:
    type: integer
    traits:
      range:
        min: 0
        max: 10
`

func decodeString(t *testing.T, src string, format Format) *shape.Model {
	t.Helper()
	m, err := Decode(strings.NewReader(src), format, "model."+format.String())
	require.NoError(t, err)
	return m
}

func TestDecodeJSON(t *testing.T) {
	m := decodeString(t, sampleJSON, FormatJSON)

	assert.Equal(t, 12, m.Len())

	svc, ok := m.Shape(testkit.ID("ns.foo#Svc"))
	require.True(t, ok)
	ent, ok := svc.Entity()
	require.True(t, ok)
	assert.Equal(t, "2020-01-01", ent.Version)
	assert.True(t, ent.Operations.Contains(testkit.ID("ns.foo#OpA")))
	assert.True(t, ent.Resources.Contains(testkit.ID("ns.foo#ResB")))

	doc, ok := svc.Trait("smithy.api#documentation")
	require.True(t, ok, "relative trait names resolve against the prelude")
	assert.Equal(t, "text", doc.Value())
	custom, ok := svc.Trait("ns.foo#custom")
	require.True(t, ok)
	assert.Equal(t, map[string]any{"n": int64(1)}, custom.Value())

	member, ok := m.Shape(testkit.ID("ns.foo#In$name"))
	require.True(t, ok)
	assert.Equal(t, shape.KindMember, member.Kind())
	assert.True(t, member.HasTrait("smithy.api#required"))

	mp, ok := m.Shape(testkit.ID("ns.foo#M"))
	require.True(t, ok)
	agg := mp.Body().(shape.AggregateBody)
	assert.Equal(t, "[ns.foo#M$key, ns.foo#M$value]", agg.Members.String())

	op, ok := m.Shape(testkit.ID("ns.foo#OpA"))
	require.True(t, ok)
	opBody, _ := op.Operation()
	assert.Equal(t, testkit.ID("ns.foo#In"), opBody.Input)
	assert.True(t, opBody.Output.IsZero())
}

func TestDecodeYAMLRecordsPositions(t *testing.T) {
	m := decodeString(t, sampleYAML, FormatYAML)

	svc, _ := m.Shape(testkit.ID("ns.foo#Svc"))
	assert.Equal(t, shape.SourceLocation{Filename: "model.yaml", Line: 3, Column: 3}, svc.Source())

	member, _ := m.Shape(testkit.ID("ns.foo#In$name"))
	assert.Equal(t, uint32(25), member.Source().Line)
	assert.Equal(t, uint32(7), member.Source().Column)

	trait, _ := member.Trait("smithy.api#required")
	assert.Equal(t, member.Source(), trait.Source())
}

func TestFormatsDecodeToEqualModels(t *testing.T) {
	fromJSON := decodeString(t, sampleJSON, FormatJSON)
	fromYAML := decodeString(t, sampleYAML, FormatYAML)

	d, err := diff.New(fromJSON, fromYAML)
	require.NoError(t, err)
	assert.True(t, d.IsEmpty(), "added=%v removed=%v changed=%v", d.AddedIDs(), d.RemovedIDs(), d.ChangedIDs())
}

func TestEncodeRoundTrip(t *testing.T) {
	original := decodeString(t, sampleJSON, FormatJSON)
	for _, format := range []Format{FormatJSON, FormatYAML, FormatMsgpack} {
		t.Run(format.String(), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, original, format))

			again, err := Decode(&buf, format, "again")
			require.NoError(t, err)
			d, err := diff.New(original, again)
			require.NoError(t, err)
			assert.True(t, d.IsEmpty(), "changed=%v", d.ChangedIDs())
		})
	}
}

func TestLoadAndSave(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "model.json")
	require.NoError(t, os.WriteFile(src, []byte(sampleJSON), 0o600))

	m, err := Load(src)
	require.NoError(t, err)

	dst := filepath.Join(dir, "model.mp")
	require.NoError(t, Save(dst, m))
	again, err := Load(dst)
	require.NoError(t, err)
	assert.Equal(t, m.Len(), again.Len())

	_, err = Load(filepath.Join(dir, "model.txt"))
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"no shapes", `{"smithy": "1.0"}`, "missing \"shapes\""},
		{"bad id", `{"shapes": {"nope": {"type": "string"}}}`, "nope"},
		{"bad kind", `{"shapes": {"ns#A": {"type": "widget"}}}`, "widget"},
		{"top-level member", `{"shapes": {"ns#A$b": {"type": "member"}}}`, "nested"},
		{"list without member", `{"shapes": {"ns#L": {"type": "list"}}}`, "requires \"member\""},
		{"bad target", `{"shapes": {"ns#S": {"type": "service", "operations": [{"target": "Op"}]}}}`, "operations"},
		{"bad trait", `{"shapes": {"ns#A": {"type": "string", "traits": {"not valid": true}}}}`, "trait"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.src), FormatJSON, "bad.json")
			if err == nil {
				t.Fatal("Decode succeeded")
			}
			if !errors.Is(err, ErrInvalidDocument) {
				t.Fatalf("error %v does not wrap ErrInvalidDocument", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestDecodeEmptyYAML(t *testing.T) {
	_, err := Decode(strings.NewReader(""), FormatYAML, "empty.yaml")
	assert.ErrorContains(t, err, "empty document")
}

func TestLargeIntegerTraitsSurviveDecoding(t *testing.T) {
	const tmpl = `{"smithy": "1.0", "shapes": {"ns#S": {"type": "string", "traits": {"ns#limit": %s}}}}`
	oldModel := decodeString(t, fmt.Sprintf(tmpl, "9007199254740992"), FormatJSON)
	newModel := decodeString(t, fmt.Sprintf(tmpl, "9007199254740993"), FormatJSON)

	d, err := diff.New(oldModel, newModel)
	require.NoError(t, err)
	assert.Equal(t, []shape.ShapeID{shape.MustParseShapeID("ns#S")}, d.ChangedIDs())

	for _, format := range []Format{FormatJSON, FormatYAML, FormatMsgpack} {
		var buf bytes.Buffer
		require.NoError(t, Encode(&buf, newModel, format))
		again, err := Decode(&buf, format, "again")
		require.NoError(t, err, format.String())
		d, err := diff.New(newModel, again)
		require.NoError(t, err)
		assert.True(t, d.IsEmpty(), "%s: changed=%v", format, d.ChangedIDs())
	}
}

func TestDecodeRejectsNaNTrait(t *testing.T) {
	const src = "smithy: \"1.0\"\nshapes:\n  ns#S:\n    type: string\n    traits:\n      ns#ratio: .nan\n"
	_, err := Decode(strings.NewReader(src), FormatYAML, "nan.yaml")
	require.Error(t, err)
	assert.ErrorIs(t, err, shape.ErrNonFiniteNumber)
}
