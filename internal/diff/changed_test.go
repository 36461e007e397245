package diff_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shapediff/internal/diff"
	"shapediff/internal/shape"
	"shapediff/internal/testkit"
)

func traitNames(traits []shape.Trait) []string {
	out := make([]string, len(traits))
	for i, t := range traits {
		out[i] = t.Name()
	}
	return out
}

func TestChangedShapeTraitQueries(t *testing.T) {
	oldModel := testkit.Model(testkit.Simple("ns#S", shape.KindString,
		testkit.Trait("documentation", "before"),
		testkit.Trait("sensitive", map[string]any{}),
		testkit.Trait("length", map[string]any{"min": 1}),
	))
	newModel := testkit.Model(testkit.Simple("ns#S", shape.KindString,
		testkit.Trait("documentation", "after"),
		testkit.Trait("length", map[string]any{"min": 1.0}),
		testkit.Trait("ns.custom#tag", "x"),
		testkit.Trait("deprecated", map[string]any{}),
	))
	d, err := diff.New(oldModel, newModel)
	require.NoError(t, err)

	c, ok := d.Changed(testkit.ID("ns#S"))
	require.True(t, ok)

	assert.Equal(t, []string{"ns.custom#tag", "smithy.api#deprecated"}, traitNames(c.AddedTraits()))
	assert.Equal(t, []string{"smithy.api#sensitive"}, traitNames(c.RemovedTraits()))

	changed := c.ChangedTraits()
	require.Len(t, changed, 1)
	assert.Equal(t, "smithy.api#documentation", changed[0].Name())
	assert.Equal(t, "before", changed[0].Old.Value())
	assert.Equal(t, "after", changed[0].New.Value())
	assert.True(t, c.HasTraitChanges())
	assert.False(t, c.KindChanged())
}

func TestChangedShapeWithoutTraitChanges(t *testing.T) {
	oldModel := testkit.Model(testkit.Service("ns#Svc", nil, []string{"ns#R1"}))
	newModel := testkit.Model(testkit.Service("ns#Svc", nil, []string{"ns#R2"}))
	d, err := diff.New(oldModel, newModel)
	require.NoError(t, err)

	c, ok := d.Changed(testkit.ID("ns#Svc"))
	require.True(t, ok)
	assert.False(t, c.HasTraitChanges())

	oldBody, _ := c.OldShape().Entity()
	newBody, _ := c.NewShape().Entity()
	assert.Equal(t, "[ns#R2]", diff.AddedIDs(oldBody.Resources, newBody.Resources).String())
	assert.Equal(t, "[ns#R1]", diff.RemovedIDs(oldBody.Resources, newBody.Resources).String())
}
