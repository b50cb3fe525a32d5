package topology

import (
	"bufio"
	"fmt"
	"html"
	"io"
	"strconv"
	"strings"
)

const fontName = "Cascadia,Courrier,mono"

var netColors = map[string]string{
	NetOptical:    "turquoise",
	NetElectrical: "orange",
}

// RenderDOT writes the circuit as a Graphviz digraph: one HTML-table node
// per net and per element, and an undecorated edge from each element port to
// its net. Render it with sfdp.
func (c *Circuit) RenderDOT(w io.Writer) error {
	bw := bufio.NewWriter(w)
	line := func(s string) { bw.WriteString("  " + s + "\n") }

	bw.WriteString("digraph G {\n")
	line(`fontname="` + fontName + `"`)
	line(`node [fontname="` + fontName + `"]`)
	line(`edge [fontname="` + fontName + `"]`)
	line(`layout="sfdp"`)
	line(`overlap=false`)
	line(`splines=curved`)

	for _, name := range sortedKeys(c.Nets) {
		line(netNode(name, c.Nets[name]))
	}
	for _, e := range c.Elements {
		line(elementNode(e))
		for port, net := range e.Nets {
			line(fmt.Sprintf(`"%s":"%d" -> "%s":"middle"[ arrowhead = none ]`, e.Name, port, net))
		}
	}
	bw.WriteString("}\n")

	return bw.Flush()
}

func netColor(typ string) string {
	if c, ok := netColors[typ]; ok {
		return c
	}
	return "white"
}

func shortName(name string) string {
	return html.EscapeString(strings.TrimPrefix(name, "ROOT/"))
}

func netNode(name string, n Net) string {
	bg := netColor(n.Type)
	var b strings.Builder
	fmt.Fprintf(&b, `<table style="rounded" border="0" cellborder="1" cellspacing="10" bgcolor="%s" cellpadding="4" align="center">`, bg)
	fmt.Fprintf(&b, `<tr><td bgcolor="grey91" port="head"><b>%s</b></td></tr>`, shortName(name))
	fmt.Fprintf(&b, `<tr><td bgcolor="%s" port="middle" border="0"><table border="0" cellborder="1" cellspacing="0">`, bg)
	row := func(k, v string) {
		fmt.Fprintf(&b, `<tr><td bgcolor="grey91">%s</td><td bgcolor="white">%s</td></tr>`, k, html.EscapeString(v))
	}
	row("Type", n.Type)
	row("Bidirectional", strconv.FormatBool(n.Bidirectional))
	row("Size", strconv.Itoa(n.Size))
	row("Readers", strconv.Itoa(n.Readers))
	row("Writers", strconv.Itoa(n.Writers))
	b.WriteString(`</table></td></tr></table>`)

	return fmt.Sprintf(`"%s" [label=<%s> shape=none fillcolor="%s" margin="0.05"]`, name, b.String(), bg)
}

const emptyCell = `<tr><td border="0" cellpadding="0">&empty;</td></tr>`

func elementNode(e Element) string {
	var b strings.Builder
	b.WriteString(`<table border="0" cellborder="1" cellspacing="0" cellpadding="4" align="center">`)
	fmt.Fprintf(&b, `<tr><td bgcolor="grey91"><b>%s</b></td></tr>`, shortName(e.Name))

	// Ports
	b.WriteString(`<tr><td bgcolor="darkslategray2"><table border="0" cellborder="1" cellspacing="8">`)
	if len(e.Nets) == 0 {
		b.WriteString(emptyCell)
	}
	for i := range e.Nets {
		fmt.Fprintf(&b, `<tr><td bgcolor="white"  cellpadding="4" port="%d">%d</td></tr>`, i, i)
	}
	b.WriteString(`</table></td></tr>`)

	// Positional arguments
	b.WriteString(`<tr><td bgcolor="palegreen"><table border="0" cellborder="1" cellpadding="2" cellspacing="0">`)
	if len(e.Args) == 0 {
		b.WriteString(emptyCell)
	}
	for _, a := range e.Args {
		fmt.Fprintf(&b, `<tr><td bgcolor="white"  cellpadding="4">%s</td></tr>`, html.EscapeString(shorten(a.Value)))
	}
	b.WriteString(`</table></td></tr>`)

	// Keyword arguments
	b.WriteString(`<tr><td bgcolor="wheat"><table border="0" cellborder="1" cellpadding="2" cellspacing="0">`)
	if len(e.Kwargs) == 0 {
		b.WriteString(emptyCell)
	}
	for _, k := range sortedKeys(e.Kwargs) {
		fmt.Fprintf(&b, `<tr><td bgcolor="grey91">%s</td><td bgcolor="white">%s</td></tr>`,
			html.EscapeString(k), html.EscapeString(shorten(e.Kwargs[k].Value)))
	}
	b.WriteString(`</table></td></tr></table>`)

	return fmt.Sprintf(`"%s" [label=<%s> shape=none margin="0"]`, e.Name, b.String())
}

// shorten abbreviates an argument for a table cell: lists become "[...]",
// and text over 8 characters keeps its first 5.
func shorten(v any) string {
	const limit = 8
	var s string
	switch x := v.(type) {
	case []any:
		return "[...]"
	case float64:
		s = strconv.FormatFloat(x, 'g', -1, 64)
	case nil:
		s = "null"
	default:
		s = fmt.Sprint(x)
	}
	if len(s) > limit {
		return s[:limit-3]
	}
	return s
}
