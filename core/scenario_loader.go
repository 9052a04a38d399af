// core/scenario_loader.go
package core

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/netfabrik/topology-engine/model"
)

// Scenario is a topology loaded from a file, holding the same records
// a workspace would. It is plain data; call Snapshot to get the engine
// view.
type Scenario struct {
	Devices     []*model.Device     `json:"devices" yaml:"devices"`
	Interfaces  []*model.Interface  `json:"interfaces" yaml:"interfaces"`
	Connections []*model.Connection `json:"connections" yaml:"connections"`
}

// ScenarioSummary is a small report of what was loaded, mainly for
// logging from main().
type ScenarioSummary struct {
	DeviceIDs     []string
	InterfaceRows int
	ConnectionIDs []string
}

// DetectScenarioFormat maps a file extension to a loader format,
// defaulting to JSON.
func DetectScenarioFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "json"
	}
}

// LoadScenario reads a topology from r in the given format ("json" or
// "yaml"). It fails on decode errors, duplicate or empty device ids,
// and dangling record references. Lighter defects are repaired
// instead: a connection without an id gets a generated one, a
// connection without a type defaults to wired.
func LoadScenario(r io.Reader, format string) (*Scenario, *ScenarioSummary, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("LoadScenario: read failed: %w", err)
	}

	var sc Scenario
	switch format {
	case "yaml":
		if err := yaml.Unmarshal(raw, &sc); err != nil {
			return nil, nil, fmt.Errorf("LoadScenario: yaml decode failed: %w", err)
		}
	case "", "json":
		if err := json.Unmarshal(raw, &sc); err != nil {
			return nil, nil, fmt.Errorf("LoadScenario: json decode failed: %w", err)
		}
	default:
		return nil, nil, fmt.Errorf("LoadScenario: unknown format %q", format)
	}

	summary := &ScenarioSummary{}
	seen := make(map[string]bool)
	for _, d := range sc.Devices {
		if d == nil || d.ID == "" {
			return nil, nil, fmt.Errorf("LoadScenario: device with empty id")
		}
		if seen[d.ID] {
			return nil, nil, fmt.Errorf("LoadScenario: duplicate device id %q", d.ID)
		}
		seen[d.ID] = true
		summary.DeviceIDs = append(summary.DeviceIDs, d.ID)
	}

	for _, in := range sc.Interfaces {
		if in == nil {
			continue
		}
		if !seen[in.DeviceID] {
			return nil, nil, fmt.Errorf("LoadScenario: interface references unknown device %q", in.DeviceID)
		}
		summary.InterfaceRows++
	}

	for _, c := range sc.Connections {
		if c == nil {
			continue
		}
		if !seen[c.DeviceA] || !seen[c.DeviceB] {
			return nil, nil, fmt.Errorf("LoadScenario: connection %q references unknown device", c.ID)
		}
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		if c.Type == "" {
			c.Type = model.ConnectionWired
		}
		summary.ConnectionIDs = append(summary.ConnectionIDs, c.ID)
	}

	return &sc, summary, nil
}

// Snapshot builds the immutable engine view of the scenario.
func (sc *Scenario) Snapshot() *Snapshot {
	return NewSnapshot(sc.Devices, sc.Interfaces, sc.Connections)
}
