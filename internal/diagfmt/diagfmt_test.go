package diagfmt

import (
	"bytes"
	"encoding/json"
	"slices"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shapediff/internal/diag"
	"shapediff/internal/shape"
	"shapediff/internal/testkit"
)

func sampleEvents() []diag.Event {
	events := []diag.Event{
		diag.NewDanger("RemovedThing", testkit.ID("ns#S"), "gone").
			WithSource(shape.SourceLocation{Filename: "model.json", Line: 3, Column: 5}),
		diag.NewNote("AddedShape", testkit.ID("ns#Op"), "Added operation `ns#Op`"),
		diag.NewNote("AddedOperationBinding", testkit.ID("ns#S"), "Operation binding of `ns#Op` was added to the service shape, `ns#S`"),
	}
	slices.SortStableFunc(events, diag.Compare)
	return events
}

func TestParseFormat(t *testing.T) {
	for _, name := range []string{"pretty", "short", "JSON", "sarif"} {
		f, err := ParseFormat(name)
		if err != nil {
			t.Fatalf("ParseFormat(%q): %v", name, err)
		}
		if f.String() != strings.ToLower(name) {
			t.Fatalf("ParseFormat(%q) = %s", name, f)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Fatal("ParseFormat(xml) succeeded")
	}
}

func TestPretty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Pretty(&buf, sampleEvents(), Options{}))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	want := []string{
		"DANGER (1)",
		"  ns#S   RemovedThing" + strings.Repeat(" ", 9) + "  gone",
		strings.Repeat(" ", 9) + "at model.json:3:5",
		"",
		"NOTE (2)",
		"  ns#Op  AddedShape" + strings.Repeat(" ", 11) + "  Added operation `ns#Op`",
		"  ns#S   AddedOperationBinding  Operation binding of `ns#Op` was added to the service shape, `ns#S`",
		"",
		"3 events: 1 DANGER, 2 NOTE (breaking)",
	}
	assert.Equal(t, want, lines)
}

func TestPrettyPolicyAndLimit(t *testing.T) {
	var buf bytes.Buffer
	lenient := diag.Policy{Threshold: diag.SevError}
	require.NoError(t, Pretty(&buf, sampleEvents(), Options{Max: 1, Policy: &lenient}))

	out := buf.String()
	assert.Contains(t, out, "... 2 more events not shown")
	assert.Contains(t, out, "RemovedThing")
	assert.NotContains(t, out, "AddedShape")
	assert.True(t, strings.HasSuffix(out, "3 events: 1 DANGER, 2 NOTE\n"), out)
}

func TestPrettyEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Pretty(&buf, nil, Options{}))
	assert.Equal(t, "no differences reported\n", buf.String())
}

func TestShort(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, FormatShort, sampleEvents(), Options{Max: 2}))
	assert.Equal(t, "note AddedShape ns#Op Added operation `ns#Op`\n"+
		"danger RemovedThing ns#S gone\n"+
		"... 1 more\n", buf.String())
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, FormatJSON, sampleEvents(), Options{}))

	var got ReportJSON
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	_, err := uuid.Parse(got.RunID)
	assert.NoError(t, err, "run_id must be a UUID")
	assert.Equal(t, 3, got.Count)
	assert.True(t, got.Breaking)
	require.Len(t, got.Events, 3)

	danger := got.Events[1]
	assert.Equal(t, "RemovedThing", danger.ID)
	assert.Equal(t, "DANGER", danger.Severity)
	assert.True(t, danger.Breaking)
	assert.Equal(t, &LocationJSON{File: "model.json", Line: 3, Column: 5}, danger.Location)
	assert.Nil(t, got.Events[0].Location)
}

func TestBuildReportLimit(t *testing.T) {
	report := BuildReport(sampleEvents(), Options{RunID: "run-1", Max: 1})
	assert.Equal(t, "run-1", report.RunID)
	assert.Len(t, report.Events, 1)
	assert.Equal(t, 3, report.Count)
	assert.Equal(t, 2, report.Omitted)
	assert.True(t, report.Breaking, "breaking covers omitted events")
	assert.Equal(t, "RemovedThing", report.Events[0].ID)
}

func TestLimitKeepsMostSevereEvents(t *testing.T) {
	events := []diag.Event{
		diag.NewNote("AddedShape", testkit.ID("ns#A"), "Added string `ns#A`"),
		diag.NewDanger("RemovedThing", testkit.ID("ns#Z"), "gone"),
	}

	var buf bytes.Buffer
	require.NoError(t, Pretty(&buf, events, Options{Max: 1}))
	out := buf.String()
	assert.Contains(t, out, "DANGER (1)")
	assert.NotContains(t, out, "NOTE (1)")
	assert.Contains(t, out, "... 1 more events not shown")

	report := BuildReport(events, Options{Max: 1})
	require.Len(t, report.Events, 1)
	assert.Equal(t, "RemovedThing", report.Events[0].ID)
	assert.Equal(t, "DANGER", report.Events[0].Severity)

	buf.Reset()
	require.NoError(t, Short(&buf, events, Options{Max: 1}))
	assert.Equal(t, "danger RemovedThing ns#Z gone\n... 1 more\n", buf.String())

	// order inside the subset follows the input
	shown, omitted := limit([]diag.Event{events[1], events[0], events[1]}, 2)
	assert.Equal(t, 1, omitted)
	assert.Equal(t, []string{"RemovedThing", "RemovedThing"}, []string{shown[0].ID, shown[1].ID})
}

func TestSarif(t *testing.T) {
	var buf bytes.Buffer
	opts := Options{Tool: SarifRunMeta{
		ToolName:       "shapediff",
		ToolVersion:    "1.0.0",
		InvocationArgs: []string{"diff", "a.json", "b.json"},
		Rules:          map[string]string{"AddedShape": "shape added to the model"},
	}}
	require.NoError(t, Render(&buf, FormatSARIF, sampleEvents(), opts))

	var log sarifLog
	require.NoError(t, json.Unmarshal(buf.Bytes(), &log))
	assert.Equal(t, "2.1.0", log.Version)
	require.Len(t, log.Runs, 1)
	run := log.Runs[0]

	var ruleIDs []string
	for _, r := range run.Tool.Driver.Rules {
		ruleIDs = append(ruleIDs, r.ID)
	}
	assert.Equal(t, []string{"AddedOperationBinding", "AddedShape", "RemovedThing"}, ruleIDs)
	assert.Equal(t, "shape added to the model", run.Tool.Driver.Rules[1].ShortDescription.Text)

	require.Len(t, run.Results, 3)
	danger := run.Results[1]
	assert.Equal(t, "RemovedThing", danger.RuleID)
	assert.Equal(t, 2, danger.RuleIndex)
	assert.Equal(t, "error", danger.Level)
	assert.Equal(t, "DANGER", danger.Properties["severity"])
	require.Len(t, danger.Locations, 1)
	assert.Equal(t, "model.json", danger.Locations[0].PhysicalLocation.ArtifactLocation.URI)
	assert.Equal(t, 3, danger.Locations[0].PhysicalLocation.Region.StartLine)
	assert.Equal(t, "ns#S", danger.Locations[0].LogicalLocations[0].FullyQualifiedName)
	assert.Equal(t, "note", run.Results[0].Level)
	assert.Nil(t, run.Results[0].Locations[0].PhysicalLocation)
}
