// Package htmldoc builds the release notes report as an HTML node tree and
// renders it deterministically. It is a thin layer over golang.org/x/net/html:
// a document shell with a banner and a table of contents that mirrors the
// section list 1:1, plus helpers for the paragraphs, tables and lists the
// report is made of.
package htmldoc

import (
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Heading levels used by the report.
const (
	BannerLevel  = 1
	SectionLevel = 2
	DetailLevel  = 4
)

func element(a atom.Atom) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
}

// Text returns a text node.
func Text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// Link returns an <a href> element wrapping label.
func Link(href, label string) *html.Node {
	a := element(atom.A)
	a.Attr = []html.Attribute{{Key: "href", Val: href}}
	a.AppendChild(Text(label))
	return a
}

// Paragraph returns an empty <p> element.
func Paragraph() *html.Node {
	return element(atom.P)
}

func heading(level int, title string) *html.Node {
	var a atom.Atom
	switch level {
	case 1:
		a = atom.H1
	case 2:
		a = atom.H2
	case 3:
		a = atom.H3
	case 4:
		a = atom.H4
	case 5:
		a = atom.H5
	default:
		a = atom.H6
	}
	h := element(a)
	h.AppendChild(Text(title))
	return h
}

func anchorID(title string) string {
	return strings.ReplaceAll(title, " ", "")
}

func namedAnchor(title string) *html.Node {
	a := element(atom.A)
	a.Attr = []html.Attribute{{Key: "name", Val: anchorID(title)}}
	return a
}

// Clone deep-copies a node so fragments parsed from inputs can be inserted
// into the report without tying the two trees together.
func Clone(n *html.Node) *html.Node {
	c := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
		Attr:      append([]html.Attribute(nil), n.Attr...),
	}
	for k := n.FirstChild; k != nil; k = k.NextSibling {
		c.AppendChild(Clone(k))
	}
	return c
}

// AppendChildren clones the children of src onto dst. A nil src is a no-op.
func AppendChildren(dst, src *html.Node) {
	if src == nil {
		return
	}
	for k := src.FirstChild; k != nil; k = k.NextSibling {
		dst.AppendChild(Clone(k))
	}
}

// ParseFragment parses an HTML fragment and returns a detached container
// whose children are the fragment's top-level nodes.
func ParseFragment(s string) (*html.Node, error) {
	nodes, err := html.ParseFragment(strings.NewReader(s), element(atom.Div))
	if err != nil {
		return nil, err
	}
	container := element(atom.Div)
	for _, n := range nodes {
		container.AppendChild(n)
	}
	return container, nil
}

// Document is the output report under construction.
type Document struct {
	root *html.Node // <html>
	body *html.Node
	toc  *List
}

// New creates the document shell: title element, banner heading and an empty
// table of contents.
func New(title string) *Document {
	root := element(atom.Html)
	head := element(atom.Head)
	t := element(atom.Title)
	t.AppendChild(Text(title))
	head.AppendChild(t)
	root.AppendChild(head)

	body := element(atom.Body)
	root.AppendChild(body)
	body.AppendChild(heading(BannerLevel, title))

	d := &Document{root: root, body: body}
	d.toc = appendList(body)
	return d
}

// AttachSection appends a top-level section shell (anchor, heading and table
// of contents entry) and splices the fragment's children beneath it. Sections
// appear in the document in attach order.
func (d *Document) AttachSection(title string, content *Fragment) {
	d.body.AppendChild(namedAnchor(title))
	d.body.AppendChild(heading(SectionLevel, title))
	d.toc.AddLink("#"+anchorID(title), title)

	for c := content.container.FirstChild; c != nil; {
		next := c.NextSibling
		content.container.RemoveChild(c)
		d.body.AppendChild(c)
		c = next
	}
}

// Substitute replaces ${name} tokens in every text node and attribute value
// of the document.
func (d *Document) Substitute(vars map[string]string) {
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			n.Data = substitute(n.Data, vars)
		}
		for i := range n.Attr {
			n.Attr[i].Val = substitute(n.Attr[i].Val, vars)
		}
		for k := n.FirstChild; k != nil; k = k.NextSibling {
			walk(k)
		}
	}
	walk(d.root)
}

func substitute(s string, vars map[string]string) string {
	if !strings.Contains(s, "${") {
		return s
	}
	for k, v := range vars {
		s = strings.ReplaceAll(s, "${"+k+"}", v)
	}
	return s
}

// Render serializes the document. Output is a pure function of the tree, so
// identical trees render byte-identically.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

// Fragment is detached content built by a section builder, attached to the
// document by the orchestrator.
type Fragment struct {
	container *html.Node
}

// NewFragment returns an empty fragment.
func NewFragment() *Fragment {
	return &Fragment{container: element(atom.Div)}
}

// Append appends a node to the fragment.
func (f *Fragment) Append(n *html.Node) {
	f.container.AppendChild(n)
}

// AppendChildrenOf clones the children of src onto the fragment.
func (f *Fragment) AppendChildrenOf(src *html.Node) {
	AppendChildren(f.container, src)
}

// AddParagraph appends a paragraph of plain text.
func (f *Fragment) AddParagraph(text string) {
	p := Paragraph()
	p.AppendChild(Text(text))
	f.container.AppendChild(p)
}

// AddRule appends a horizontal rule.
func (f *Fragment) AddRule() {
	f.container.AppendChild(element(atom.Hr))
}

// AddSubsection appends an anchored heading at the detail level and registers
// it in toc. Content appended afterwards forms the subsection body.
func (f *Fragment) AddSubsection(toc *List, title string) {
	f.container.AppendChild(namedAnchor(title))
	f.container.AppendChild(heading(DetailLevel, title))
	if toc != nil {
		toc.AddLink("#"+anchorID(title), title)
	}
}

// AddTable appends a bordered table with a header row.
func (f *Fragment) AddTable(headers ...string) *Table {
	t := element(atom.Table)
	t.Attr = []html.Attribute{{Key: "border", Val: "2"}}
	tr := element(atom.Tr)
	for _, h := range headers {
		th := element(atom.Th)
		th.AppendChild(Text(h))
		tr.AppendChild(th)
	}
	t.AppendChild(tr)
	f.container.AppendChild(t)
	return &Table{node: t}
}

// AddList appends an empty bulleted list.
func (f *Fragment) AddList() *List {
	return appendList(f.container)
}

// Table is a bordered table under construction.
type Table struct {
	node *html.Node
}

// AddRow appends a row with one cell per given node.
func (t *Table) AddRow(cells ...*html.Node) {
	tr := element(atom.Tr)
	for _, c := range cells {
		td := element(atom.Td)
		td.AppendChild(c)
		tr.AppendChild(td)
	}
	t.node.AppendChild(tr)
}

// List is a bulleted list under construction.
type List struct {
	node *html.Node
}

func appendList(parent *html.Node) *List {
	ul := element(atom.Ul)
	parent.AppendChild(ul)
	return &List{node: ul}
}

// AddLink appends a list item wrapping a hyperlink.
func (l *List) AddLink(href, label string) {
	li := element(atom.Li)
	li.AppendChild(Link(href, label))
	l.node.AppendChild(li)
}

// AddHeadlinedItem appends a list item of the form "headline: value" with the
// headline in bold.
func (l *List) AddHeadlinedItem(headline, value string) {
	li := element(atom.Li)
	b := element(atom.B)
	b.AppendChild(Text(headline + ": "))
	li.AppendChild(b)
	li.AppendChild(Text(value))
	l.node.AppendChild(li)
}
