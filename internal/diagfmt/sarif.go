package diagfmt

import (
	"encoding/json"
	"io"
	"maps"
	"slices"

	"fortio.org/safecast"

	"shapediff/internal/diag"
)

const (
	sarifVersion = "2.1.0"
	sarifSchema  = "https://json.schemastore.org/sarif-2.1.0.json"
)

type sarifLog struct {
	Version string     `json:"version"`
	Schema  string     `json:"$schema"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool        sarifTool         `json:"tool"`
	Invocations []sarifInvocation `json:"invocations,omitempty"`
	Results     []sarifResult     `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version,omitempty"`
	InformationURI string      `json:"informationUri,omitempty"`
	Rules          []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string     `json:"id"`
	ShortDescription *sarifText `json:"shortDescription,omitempty"`
}

type sarifText struct {
	Text string `json:"text"`
}

type sarifInvocation struct {
	Arguments           []string `json:"arguments,omitempty"`
	ExecutionSuccessful bool     `json:"executionSuccessful"`
}

type sarifResult struct {
	RuleID     string            `json:"ruleId"`
	RuleIndex  int               `json:"ruleIndex"`
	Level      string            `json:"level"`
	Message    sarifText         `json:"message"`
	Locations  []sarifLocation   `json:"locations,omitempty"`
	Properties map[string]string `json:"properties,omitempty"`
}

type sarifLocation struct {
	PhysicalLocation *sarifPhysical `json:"physicalLocation,omitempty"`
	LogicalLocations []sarifLogical `json:"logicalLocations,omitempty"`
}

type sarifPhysical struct {
	ArtifactLocation sarifArtifact `json:"artifactLocation"`
	Region           *sarifRegion  `json:"region,omitempty"`
}

type sarifArtifact struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   int `json:"startLine"`
	StartColumn int `json:"startColumn,omitempty"`
}

type sarifLogical struct {
	FullyQualifiedName string `json:"fullyQualifiedName"`
	Kind               string `json:"kind"`
}

// sarifLevel maps severities onto SARIF levels; DANGER has no SARIF equivalent
// and is reported as error.
func sarifLevel(sev diag.Severity) string {
	switch sev {
	case diag.SevError, diag.SevDanger:
		return "error"
	case diag.SevWarning:
		return "warning"
	default:
		return "note"
	}
}

// Sarif форматирует события в SARIF v2.1.0: одно правило на event ID.
func Sarif(w io.Writer, events []diag.Event, opts Options) error {
	shown, _ := limit(events, opts.Max)

	ruleIDs := make(map[string]struct{}, len(opts.Tool.Rules))
	for id := range opts.Tool.Rules {
		ruleIDs[id] = struct{}{}
	}
	for _, e := range shown {
		ruleIDs[e.ID] = struct{}{}
	}
	ids := slices.Sorted(maps.Keys(ruleIDs))
	ruleIndex := make(map[string]int, len(ids))
	rules := make([]sarifRule, len(ids))
	for i, id := range ids {
		ruleIndex[id] = i
		rules[i] = sarifRule{ID: id}
		if desc := opts.Tool.Rules[id]; desc != "" {
			rules[i].ShortDescription = &sarifText{Text: desc}
		}
	}

	results := make([]sarifResult, 0, len(shown))
	for _, e := range shown {
		res := sarifResult{
			RuleID:     e.ID,
			RuleIndex:  ruleIndex[e.ID],
			Level:      sarifLevel(e.Severity),
			Message:    sarifText{Text: e.Message},
			Properties: map[string]string{"severity": e.Severity.String()},
		}
		if loc, ok := sarifLocationFor(e); ok {
			res.Locations = []sarifLocation{loc}
		}
		results = append(results, res)
	}

	name := opts.Tool.ToolName
	if name == "" {
		name = "shapediff"
	}
	run := sarifRun{
		Tool: sarifTool{Driver: sarifDriver{
			Name:           name,
			Version:        opts.Tool.ToolVersion,
			InformationURI: opts.Tool.InformationURI,
			Rules:          rules,
		}},
		Results: results,
	}
	if len(opts.Tool.InvocationArgs) > 0 {
		run.Invocations = []sarifInvocation{{Arguments: opts.Tool.InvocationArgs, ExecutionSuccessful: true}}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(sarifLog{Version: sarifVersion, Schema: sarifSchema, Runs: []sarifRun{run}})
}

func sarifLocationFor(e diag.Event) (sarifLocation, bool) {
	var loc sarifLocation
	if !e.Shape.IsZero() {
		loc.LogicalLocations = []sarifLogical{{FullyQualifiedName: e.Shape.String(), Kind: "type"}}
	}
	if e.Source.Filename != "" {
		phys := &sarifPhysical{ArtifactLocation: sarifArtifact{URI: e.Source.Filename}}
		if line, err := safecast.Conv[int](e.Source.Line); err == nil && line > 0 {
			phys.Region = &sarifRegion{StartLine: line}
			if col, err := safecast.Conv[int](e.Source.Column); err == nil {
				phys.Region.StartColumn = col
			}
		}
		loc.PhysicalLocation = phys
	}
	return loc, loc.PhysicalLocation != nil || loc.LogicalLocations != nil
}
