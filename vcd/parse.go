package vcd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

var (
	// ErrSyntax indicates a token that does not fit the VCD grammar.
	ErrSyntax = errors.New("vcd: syntax error")

	// ErrUnknownID indicates a value change for an identifier no $var declared.
	ErrUnknownID = errors.New("vcd: value change for undeclared identifier")

	// ErrTimescale indicates a $timescale that is not "<n> <unit>" with unit s, ms, us, ns, ps or fs.
	ErrTimescale = errors.New("vcd: bad timescale")
)

// Change is one value change of a signal.
type Change struct {
	Tick  uint64
	Value float64 // NaN for x/z states
}

// Signal is one $var and its recorded changes.
type Signal struct {
	Name    string
	ID      string // identifier code; several vars may share one
	Type    string // real, wire, reg, ...
	Width   int
	Changes []Change
}

// Scope is one level of the $scope hierarchy.
type Scope struct {
	Name    string
	Type    string
	Scopes  []*Scope
	Signals []*Signal

	parent *Scope
}

// Child returns the direct sub-scope called name.
func (s *Scope) Child(name string) (*Scope, bool) {
	for _, c := range s.Scopes {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// Dump is a parsed VCD file.
type Dump struct {
	Timescale float64 // seconds per tick
	Root      *Scope  // unnamed; top-level $scopes are its children
	EndTick   uint64  // last #tick seen
}

// ParseFile opens and parses path.
func ParseFile(path string) (*Dump, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("vcd: open %s: %w", path, err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse reads a complete VCD stream.
func Parse(r io.Reader) (*Dump, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16<<20)
	sc.Split(bufio.ScanWords)

	root := &Scope{Type: "root"}
	p := &parser{
		sc:   sc,
		dump: &Dump{Timescale: 1, Root: root},
		cur:  root,
		ids:  make(map[string][]*Signal),
	}
	if err := p.run(); err != nil {
		return nil, err
	}

	return p.dump, nil
}

// parser walks whitespace-separated tokens; VCD has no other lexical structure.
type parser struct {
	sc   *bufio.Scanner
	dump *Dump
	cur  *Scope
	ids  map[string][]*Signal
	tick uint64
	pos  int // tokens consumed, for error messages
}

func (p *parser) next() (string, bool) {
	if !p.sc.Scan() {
		return "", false
	}
	p.pos++
	return p.sc.Text(), true
}

// section returns the tokens up to the closing $end.
func (p *parser) section(keyword string) ([]string, error) {
	var words []string
	for {
		tok, ok := p.next()
		if !ok {
			return nil, fmt.Errorf("%w: %s without $end", ErrSyntax, keyword)
		}
		if tok == "$end" {
			return words, nil
		}
		words = append(words, tok)
	}
}

func (p *parser) run() error {
	for {
		tok, ok := p.next()
		if !ok {
			break
		}
		var err error
		switch tok {
		case "$timescale":
			err = p.timescale()
		case "$scope":
			err = p.scope()
		case "$upscope":
			err = p.upscope()
		case "$var":
			err = p.variable()
		case "$enddefinitions", "$comment", "$date", "$version":
			_, err = p.section(tok)
		case "$dumpvars", "$dumpall", "$dumpon", "$dumpoff", "$end":
			// Data-section keywords wrap ordinary value changes.
		default:
			err = p.change(tok)
		}
		if err != nil {
			return err
		}
	}
	if err := p.sc.Err(); err != nil {
		return fmt.Errorf("vcd: read: %w", err)
	}

	return nil
}

func (p *parser) timescale() error {
	words, err := p.section("$timescale")
	if err != nil {
		return err
	}
	scale, err := ParseTimescale(strings.Join(words, " "))
	if err != nil {
		return err
	}
	p.dump.Timescale = scale

	return nil
}

func (p *parser) scope() error {
	words, err := p.section("$scope")
	if err != nil {
		return err
	}
	if len(words) != 2 {
		return fmt.Errorf("%w: $scope wants <type> <name>, got %q (token %d)", ErrSyntax, words, p.pos)
	}
	s := &Scope{Type: words[0], Name: words[1], parent: p.cur}
	p.cur.Scopes = append(p.cur.Scopes, s)
	p.cur = s

	return nil
}

func (p *parser) upscope() error {
	if _, err := p.section("$upscope"); err != nil {
		return err
	}
	if p.cur.parent == nil {
		return fmt.Errorf("%w: $upscope at top level (token %d)", ErrSyntax, p.pos)
	}
	p.cur = p.cur.parent

	return nil
}

func (p *parser) variable() error {
	words, err := p.section("$var")
	if err != nil {
		return err
	}
	// <type> <width> <id> <name> [<bit range>]
	if len(words) < 4 {
		return fmt.Errorf("%w: short $var %q (token %d)", ErrSyntax, words, p.pos)
	}
	width, err := strconv.Atoi(words[1])
	if err != nil {
		return fmt.Errorf("%w: $var width %q (token %d)", ErrSyntax, words[1], p.pos)
	}
	sig := &Signal{Type: words[0], Width: width, ID: words[2], Name: words[3]}
	p.cur.Signals = append(p.cur.Signals, sig)
	p.ids[sig.ID] = append(p.ids[sig.ID], sig)

	return nil
}

func (p *parser) change(tok string) error {
	switch c := tok[0]; {
	case c == '#':
		t, err := strconv.ParseUint(tok[1:], 10, 64)
		if err != nil {
			return fmt.Errorf("%w: time %q (token %d)", ErrSyntax, tok, p.pos)
		}
		p.tick = t
		p.dump.EndTick = max(p.dump.EndTick, t)
		return nil

	case c == 'r' || c == 'R':
		v, err := strconv.ParseFloat(tok[1:], 64)
		if err != nil {
			return fmt.Errorf("%w: real %q (token %d)", ErrSyntax, tok, p.pos)
		}
		return p.recordNext(v)

	case c == 'b' || c == 'B':
		return p.recordNext(parseBits(tok[1:]))

	case strings.IndexByte("01xXzZ", c) >= 0:
		return p.record(tok[1:], parseBits(tok[:1]))
	}

	return fmt.Errorf("%w: unexpected %q (token %d)", ErrSyntax, tok, p.pos)
}

// recordNext attaches v to the identifier in the following token.
func (p *parser) recordNext(v float64) error {
	id, ok := p.next()
	if !ok {
		return fmt.Errorf("%w: value without identifier", ErrSyntax)
	}
	return p.record(id, v)
}

func (p *parser) record(id string, v float64) error {
	sigs, ok := p.ids[id]
	if !ok {
		return fmt.Errorf("%w: %q (token %d)", ErrUnknownID, id, p.pos)
	}
	for _, s := range sigs {
		s.Changes = append(s.Changes, Change{Tick: p.tick, Value: v})
	}

	return nil
}

// parseBits reads a binary vector as an unsigned number; any x or z bit
// makes it NaN.
func parseBits(bits string) float64 {
	var v float64
	for i := 0; i < len(bits); i++ {
		switch bits[i] {
		case '0':
			v *= 2
		case '1':
			v = v*2 + 1
		default:
			return math.NaN()
		}
	}
	return v
}

var unitSeconds = map[string]float64{
	"s":  1,
	"ms": 1e-3,
	"us": 1e-6,
	"ns": 1e-9,
	"ps": 1e-12,
	"fs": 1e-15,
}

// ParseTimescale converts a $timescale body such as "1 ps" or "10ns" into
// seconds per tick.
func ParseTimescale(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	i := strings.IndexFunc(s, func(r rune) bool { return r < '0' || r > '9' })
	if i <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrTimescale, s)
	}
	n, err := strconv.Atoi(s[:i])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrTimescale, s)
	}
	unit, ok := unitSeconds[s[i:]]
	if !ok {
		return 0, fmt.Errorf("%w: unit %q", ErrTimescale, s[i:])
	}

	return float64(n) * unit, nil
}
