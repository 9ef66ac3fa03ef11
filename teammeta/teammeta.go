// Package teammeta holds static constructor details (principal, engine, car,
// colour) used to fill gaps in team responses.
package teammeta

import (
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"race-delta/normalize"
)

//go:embed teams.yaml
var teamsYAML []byte

type Meta struct {
	ID        string   `yaml:"-"`
	Name      string   `yaml:"name"`
	Aliases   []string `yaml:"aliases"`
	Principal string   `yaml:"principal"`
	Engine    string   `yaml:"engine"`
	Car       string   `yaml:"car"`
	Base      string   `yaml:"base"`
	Colour    string   `yaml:"colour"`
}

type Index struct {
	byID  map[string]Meta
	byKey map[string]string
}

// Parse builds an Index from YAML keyed by constructor id.
func Parse(data []byte) (*Index, error) {
	var raw map[string]Meta
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse team metadata: %w", err)
	}

	idx := &Index{byID: make(map[string]Meta, len(raw)), byKey: make(map[string]string)}
	for id, m := range raw {
		m.ID = id
		idx.byID[id] = m
		idx.byKey[normalize.TeamKey(id)] = id
		if m.Name != "" {
			idx.byKey[normalize.TeamKey(m.Name)] = id
		}
		for _, a := range m.Aliases {
			idx.byKey[normalize.TeamKey(a)] = id
		}
	}
	return idx, nil
}

// Default returns the embedded index.
func Default() *Index {
	idx, err := Parse(teamsYAML)
	if err != nil {
		panic(err)
	}
	return idx
}

// Lookup finds metadata by constructor id ("red_bull") or by any display name
// the backends use for it ("Red Bull Racing", "Racing Bulls").
func (i *Index) Lookup(idOrName string) (Meta, bool) {
	if m, ok := i.byID[idOrName]; ok {
		return m, true
	}
	id, ok := i.byKey[normalize.TeamKey(idOrName)]
	if !ok {
		return Meta{}, false
	}
	return i.byID[id], true
}

// IDs returns all constructor ids in sorted order.
func (i *Index) IDs() []string {
	ids := make([]string, 0, len(i.byID))
	for id := range i.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Enrich fills empty metadata fields of a team.
func (i *Index) Enrich(t normalize.Team) normalize.Team {
	m, ok := i.Lookup(t.ID)
	if !ok {
		m, ok = i.Lookup(t.Name)
	}
	if !ok {
		return t
	}
	if t.ID == "" {
		t.ID = m.ID
	}
	if t.Name == "" {
		t.Name = m.Name
	}
	if t.Principal == "" {
		t.Principal = m.Principal
	}
	if t.Engine == "" {
		t.Engine = m.Engine
	}
	if t.Car == "" {
		t.Car = m.Car
	}
	return t
}

// Colour returns the team colour for a display name, or a neutral grey.
func (i *Index) Colour(name string) string {
	if m, ok := i.Lookup(name); ok && m.Colour != "" {
		return m.Colour
	}
	return "#9CA3AF"
}
