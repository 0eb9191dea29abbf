// Package species holds the species catalog used to name and size creatures.
package species

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"sort"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/spatial/r3"
)

//go:embed species.csv
var defaultCSV []byte

// Unknown is the name used when a species id is not in the catalog.
const Unknown = "Unknown"

// Species is one catalog row.
type Species struct {
	ID     int     `csv:"id"`
	Name   string  `csv:"name"`
	BaseHP int     `csv:"base_hp"`
	Width  float64 `csv:"width"`
	Height float64 `csv:"height"`
	Depth  float64 `csv:"depth"`
}

// Extent returns the species bounding box size.
func (s Species) Extent() r3.Vec {
	return r3.Vec{X: s.Width, Y: s.Height, Z: s.Depth}
}

// Catalog indexes species by id.
type Catalog struct {
	byID map[int]Species
	ids  []int
}

// Load parses a CSV catalog.
func Load(r io.Reader) (*Catalog, error) {
	var rows []Species
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("parsing species csv: %w", err)
	}
	c := &Catalog{byID: make(map[int]Species, len(rows))}
	for _, s := range rows {
		if _, dup := c.byID[s.ID]; dup {
			return nil, fmt.Errorf("duplicate species id %d", s.ID)
		}
		c.byID[s.ID] = s
		c.ids = append(c.ids, s.ID)
	}
	sort.Ints(c.ids)
	return c, nil
}

// Default returns the embedded catalog.
func Default() *Catalog {
	c, err := Load(bytes.NewReader(defaultCSV))
	if err != nil {
		panic(fmt.Sprintf("species: embedded catalog: %v", err))
	}
	return c
}

// Get looks up a species.
func (c *Catalog) Get(id int) (Species, bool) {
	s, ok := c.byID[id]
	return s, ok
}

// Name returns the species name, or Unknown.
func (c *Catalog) Name(id int) string {
	if s, ok := c.byID[id]; ok && s.Name != "" {
		return s.Name
	}
	return Unknown
}

// All returns species sorted by id.
func (c *Catalog) All() []Species {
	out := make([]Species, 0, len(c.ids))
	for _, id := range c.ids {
		out = append(out, c.byID[id])
	}
	return out
}

// Len returns the number of species.
func (c *Catalog) Len() int {
	return len(c.ids)
}
