// Package vcd reads Value Change Dump logs: it classifies body records,
// parses the declaration header into a signal catalogue, and resolves the
// declared timescale.
package vcd

import "sort"

// Signal is one $var declaration from the header.
//
// A width-1 declaration is a scalar; multiple declared names may alias the
// same internal identifier (the dump emits one change record per id, not
// per name). A declaration with Width > 1 is a bus with an [MSB:LSB] bit
// range; change records for it carry an MSB-first bit string.
type Signal struct {
	ID    string // internal identifier used by change records
	Name  string // declared reference name
	Width int
	MSB   int
	LSB   int
}

// IsBus reports whether the declaration is a multi-bit vector.
func (s *Signal) IsBus() bool { return s.Width > 1 }

// Contains reports whether bit index idx falls inside the declared range,
// in either orientation.
func (s *Signal) Contains(idx int) bool {
	if s.MSB >= s.LSB {
		return s.LSB <= idx && idx <= s.MSB
	}
	return s.MSB <= idx && idx <= s.LSB
}

// BitOffset returns the position of bit idx in a change-record payload.
// Payloads are always written MSB-first, independent of whether the
// declared range is ascending or descending.
func (s *Signal) BitOffset(idx int) int {
	if s.MSB >= s.LSB {
		return s.MSB - idx
	}
	return idx - s.MSB
}

// Alias is one declared scalar name and the identifier it resolves to.
type Alias struct {
	Name string
	ID   string
}

// Catalogue holds the signals declared by a log header.
//
// Identifiers own their declarations; names are non-owning lookups into
// them. Scalar aliasing is many-names-to-one-id: the first registration
// of a name wins and later declarations of the same name are ignored.
type Catalogue struct {
	scalarIDs map[string]string  // declared name -> internal id
	buses     map[string]*Signal // internal id -> bus declaration
	busOrder  []string           // bus ids in declaration order
}

// NewCatalogue returns an empty catalogue.
func NewCatalogue() *Catalogue {
	return &Catalogue{
		scalarIDs: make(map[string]string),
		buses:     make(map[string]*Signal),
	}
}

func (c *Catalogue) addScalar(name, id string) {
	if _, ok := c.scalarIDs[name]; !ok {
		c.scalarIDs[name] = id
	}
}

func (c *Catalogue) addBus(sig *Signal) {
	if _, ok := c.buses[sig.ID]; !ok {
		c.busOrder = append(c.busOrder, sig.ID)
	}
	c.buses[sig.ID] = sig
}

// ScalarID resolves a declared scalar name to its internal identifier.
func (c *Catalogue) ScalarID(name string) (string, bool) {
	id, ok := c.scalarIDs[name]
	return id, ok
}

// ScalarNames returns every declared scalar name, lexically sorted.
// This is the default column selection.
func (c *Catalogue) ScalarNames() []string {
	names := make([]string, 0, len(c.scalarIDs))
	for name := range c.scalarIDs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Scalars returns every scalar alias, sorted by name.
func (c *Catalogue) Scalars() []Alias {
	aliases := make([]Alias, 0, len(c.scalarIDs))
	for _, name := range c.ScalarNames() {
		aliases = append(aliases, Alias{Name: name, ID: c.scalarIDs[name]})
	}
	return aliases
}

// FindBusBit looks up a bus declaration whose base name matches base and
// whose bit range contains idx. Returns the first match in declaration
// order.
func (c *Catalogue) FindBusBit(base string, idx int) (*Signal, bool) {
	for _, id := range c.busOrder {
		sig := c.buses[id]
		if sig.Name == base && sig.Contains(idx) {
			return sig, true
		}
	}
	return nil, false
}

// Buses returns the bus declarations in declaration order.
func (c *Catalogue) Buses() []*Signal {
	out := make([]*Signal, 0, len(c.busOrder))
	for _, id := range c.busOrder {
		out = append(out, c.buses[id])
	}
	return out
}

// Empty reports whether the catalogue holds no declarations at all.
func (c *Catalogue) Empty() bool {
	return len(c.scalarIDs) == 0 && len(c.buses) == 0
}
