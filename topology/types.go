package topology

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// Sentinel errors for circuit descriptions.
var (
	// ErrUnknownNet indicates an element connected to a net the circuit does not declare.
	ErrUnknownNet = errors.New("topology: unknown net")

	// ErrEmptyName indicates a net or element with an empty name.
	ErrEmptyName = errors.New("topology: empty name")

	// ErrDuplicateElement indicates two elements with the same name.
	ErrDuplicateElement = errors.New("topology: duplicate element")
)

// Net types the simulator emits.
const (
	NetOptical    = "OANALOG"
	NetElectrical = "EANALOG"
)

// Value wraps one element argument as the simulator dumps it.
type Value struct {
	Value any `json:"value"`
}

// Net is a signal connection between element ports.
type Net struct {
	Type          string `json:"type"`
	Bidirectional bool   `json:"bidirectional"`
	Size          int    `json:"size"`
	Readers       int    `json:"readers"`
	Writers       int    `json:"writers"`
}

// Element is a circuit instance; Nets[i] is the net on port i.
type Element struct {
	Name   string           `json:"name"`
	Nets   []string         `json:"nets,omitempty"`
	Args   []Value          `json:"args,omitempty"`
	Kwargs map[string]Value `json:"kwargs,omitempty"`
}

// Circuit is the JSON description of a netlist after elaboration.
type Circuit struct {
	Nets     map[string]Net `json:"nets"`
	Elements []Element      `json:"elements"`
}

// Load decodes a circuit description. It does not validate; see Validate.
func Load(r io.Reader) (*Circuit, error) {
	var c Circuit
	if err := json.NewDecoder(r).Decode(&c); err != nil {
		return nil, fmt.Errorf("topology: decode: %w", err)
	}
	if c.Nets == nil {
		c.Nets = map[string]Net{}
	}
	return &c, nil
}

// LoadFile opens path and decodes it with Load.
func LoadFile(path string) (*Circuit, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("topology: open %s: %w", path, err)
	}
	defer f.Close()

	return Load(f)
}

// Validate checks names and that every port refers to a declared net.
func (c *Circuit) Validate() error {
	for name := range c.Nets {
		if name == "" {
			return fmt.Errorf("%w: net", ErrEmptyName)
		}
	}
	seen := make(map[string]int, len(c.Elements))
	for i, e := range c.Elements {
		if e.Name == "" {
			return fmt.Errorf("%w: element #%d", ErrEmptyName, i)
		}
		if j, dup := seen[e.Name]; dup {
			return fmt.Errorf("%w: %q at #%d and #%d", ErrDuplicateElement, e.Name, j, i)
		}
		seen[e.Name] = i
		for port, net := range e.Nets {
			if _, ok := c.Nets[net]; !ok {
				return fmt.Errorf("%w: %q on port %d of %q", ErrUnknownNet, net, port, e.Name)
			}
		}
	}

	return nil
}

// Stats summarizes a circuit. Connections counts element ports in use;
// Unconnected lists, sorted, the nets no element uses.
type Stats struct {
	Nets        int            `json:"nets"`
	Elements    int            `json:"elements"`
	Connections int            `json:"connections"`
	NetsByType  map[string]int `json:"nets_by_type"`
	Unconnected []string       `json:"unconnected,omitempty"`
}

// Stats counts nets, elements and connections.
func (c *Circuit) Stats() Stats {
	s := Stats{
		Nets:       len(c.Nets),
		Elements:   len(c.Elements),
		NetsByType: make(map[string]int),
	}
	used := make(map[string]bool, len(c.Nets))
	for _, e := range c.Elements {
		s.Connections += len(e.Nets)
		for _, n := range e.Nets {
			used[n] = true
		}
	}
	for _, name := range sortedKeys(c.Nets) {
		s.NetsByType[c.Nets[name].Type]++
		if !used[name] {
			s.Unconnected = append(s.Unconnected, name)
		}
	}

	return s
}
