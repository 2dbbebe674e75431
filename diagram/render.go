package diagram

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"go.jacobcolvin.com/putflow/workflow"
)

const indent = "    "

// Renderer draws a [workflow.Table] as a Mermaid flowchart.
//
// Create instances with [NewRenderer].
type Renderer struct {
	theme      Theme
	direction  Direction
	labels     LabelMode
	title      string
	edgeLabels bool
	styling    bool
	boundaries bool
	sourceInfo bool
	artifacts  bool
	fence      bool
}

// Option configures a [Renderer].
type Option func(*Renderer)

// NewRenderer creates a [Renderer] with the given options. By default it
// draws top-down, labels nodes with their label, and styles them with the
// [DefaultTheme].
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		theme:      ThemeByName(DefaultTheme),
		direction:  TopDown,
		labels:     LabelText,
		styling:    true,
		boundaries: true,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// WithTheme sets the color theme.
func WithTheme(t Theme) Option {
	return func(r *Renderer) {
		r.theme = t
	}
}

// WithDirection sets the layout direction.
func WithDirection(d Direction) Option {
	return func(r *Renderer) {
		r.direction = d
	}
}

// WithLabelMode sets the text drawn inside nodes.
func WithLabelMode(m LabelMode) Option {
	return func(r *Renderer) {
		r.labels = m
	}
}

// WithTitle adds a title in the diagram front matter.
func WithTitle(title string) Option {
	return func(r *Renderer) {
		r.title = title
	}
}

// WithEdgeLabels labels each edge with the file it carries.
func WithEdgeLabels(enabled bool) Option {
	return func(r *Renderer) {
		r.edgeLabels = enabled
	}
}

// WithStyling enables class definitions colored by the theme.
func WithStyling(enabled bool) Option {
	return func(r *Renderer) {
		r.styling = enabled
	}
}

// WithBoundaries draws start and end nodes with their own style. When
// disabled they are drawn as process nodes.
func WithBoundaries(enabled bool) Option {
	return func(r *Renderer) {
		r.boundaries = enabled
	}
}

// WithSourceInfo appends each record's source file name to its label.
func WithSourceInfo(enabled bool) Option {
	return func(r *Renderer) {
		r.sourceInfo = enabled
	}
}

// WithArtifacts draws every data file as its own node. Edges then run from
// the producer to the file and from the file to each consumer.
func WithArtifacts(enabled bool) Option {
	return func(r *Renderer) {
		r.artifacts = enabled
	}
}

// WithFence wraps the diagram in a Markdown mermaid code fence.
func WithFence(enabled bool) Option {
	return func(r *Renderer) {
		r.fence = enabled
	}
}

type node struct {
	rec   *workflow.Record
	id    string
	label string
	kind  workflow.NodeKind
}

// graph is the node and edge list of one rendering.
type graph struct {
	seen  map[string]bool
	nodes []node
	edges []string
}

func (g *graph) addEdge(line string) {
	if g.seen[line] {
		return
	}

	g.seen[line] = true
	g.edges = append(g.edges, line)
}

// Render draws t. Records without an id are skipped; if none remain,
// Render returns [ErrEmptyTable].
func (r *Renderer) Render(t *workflow.Table) (string, error) {
	var recs []*workflow.Record

	if t != nil {
		for _, rec := range t.Records() {
			if strings.TrimSpace(rec.ID) != "" {
				recs = append(recs, rec)
			}
		}
	}

	if len(recs) == 0 {
		return "", ErrEmptyTable
	}

	g := r.build(recs)

	var lines []string

	if r.fence {
		lines = append(lines, "```mermaid")
	}

	if title := strings.TrimSpace(r.title); title != "" {
		lines = append(lines, "---", "title: "+frontMatterValue(title), "---")
	}

	lines = append(lines, "flowchart "+string(r.direction))

	for _, n := range g.nodes {
		s := shapeFor(n.kind)
		lines = append(lines, fmt.Sprintf("%s%s%s\"%s\"%s", indent, n.id, s.open, n.label, s.close))
	}

	if len(g.edges) > 0 {
		lines = append(lines, "", indent+"%% Connections")
		lines = append(lines, g.edges...)
	}

	if r.styling {
		lines = append(lines, "", indent+"%% Styling")
		lines = append(lines, r.styleLines(g.nodes)...)
	}

	if r.fence {
		lines = append(lines, "```")
	}

	return strings.Join(lines, "\n"), nil
}

func (r *Renderer) build(recs []*workflow.Record) *graph {
	g := &graph{seen: make(map[string]bool)}
	ids := NewIDAllocator()

	scripts := make(map[string]bool)

	for i, rec := range recs {
		g.nodes = append(g.nodes, node{
			rec:   rec,
			id:    ids.ID("record:"+strconv.Itoa(i), rec.ID),
			label: r.label(rec),
			kind:  r.kind(rec),
		})

		if rec.FileName != "" {
			scripts[rec.FileName] = true
		}
	}

	records := slices.Clone(g.nodes)

	for ci, c := range records {
		for _, file := range c.rec.Inputs {
			if r.artifacts && !scripts[file] {
				continue
			}

			for pi, p := range records {
				if pi != ci && p.rec.HasOutput(file) {
					g.addEdge(r.edge(p.id, c.id, file))
				}
			}
		}
	}

	if !r.artifacts {
		return g
	}

	drawn := make(map[string]bool)

	artifactID := func(file string) string {
		id := ids.ID("file:"+file, file)
		if !drawn[file] {
			drawn[file] = true
			g.nodes = append(g.nodes, node{id: id, label: escapeLabel(file), kind: KindArtifact})
		}

		return id
	}

	for _, n := range records {
		for _, file := range n.rec.Inputs {
			if !scripts[file] {
				g.addEdge(r.edge(artifactID(file), n.id, ""))
			}
		}

		for _, file := range n.rec.Outputs {
			if !scripts[file] {
				g.addEdge(r.edge(n.id, artifactID(file), ""))
			}
		}
	}

	return g
}

// kind returns the kind used to shape and style rec.
func (r *Renderer) kind(rec *workflow.Record) workflow.NodeKind {
	switch k := rec.Kind; {
	case !k.Known():
		return workflow.KindProcess
	case (k == workflow.KindStart || k == workflow.KindEnd) && !r.boundaries:
		return workflow.KindProcess
	default:
		return k
	}
}

func (r *Renderer) label(rec *workflow.Record) string {
	var parts []string

	switch r.labels {
	case LabelName:
		parts = append(parts, rec.ID)
	case LabelBoth:
		if rec.Label != "" && rec.Label != rec.ID {
			parts = append(parts, rec.Label)
		}

		parts = append(parts, rec.ID)
	default:
		parts = append(parts, cmp.Or(rec.Label, rec.ID))
	}

	if r.sourceInfo && rec.FileName != "" {
		parts = append(parts, rec.FileName)
	}

	for i, p := range parts {
		parts[i] = escapeLabel(p)
	}

	return strings.Join(parts, "<br/>")
}

func (r *Renderer) edge(from, to, file string) string {
	if r.edgeLabels && file != "" {
		return fmt.Sprintf("%s%s -->|%s| %s", indent, from, escapeEdgeLabel(file), to)
	}

	return fmt.Sprintf("%s%s --> %s", indent, from, to)
}

// styleLines returns one class definition per kind present, in kind order,
// then one class assignment per node.
func (r *Renderer) styleLines(nodes []node) []string {
	present := make(map[workflow.NodeKind]bool)
	for _, n := range nodes {
		present[n.kind] = true
	}

	var lines []string

	for _, k := range append(workflow.Kinds(), KindArtifact) {
		if !present[k] {
			continue
		}

		s := r.theme.Style(k)
		lines = append(lines, fmt.Sprintf("%sclassDef %s fill:%s,stroke:%s,stroke-width:2px,color:%s",
			indent, className(k), s.Fill, s.Stroke, s.Color))
	}

	for _, n := range nodes {
		lines = append(lines, fmt.Sprintf("%sclass %s %s", indent, n.id, className(n.kind)))
	}

	return lines
}

func className(k workflow.NodeKind) string {
	return string(k) + "Style"
}

var labelEscaper = strings.NewReplacer(`"`, "#quot;", "<", "#lt;", ">", "#gt;")

func escapeLabel(s string) string {
	return labelEscaper.Replace(s)
}

var edgeLabelEscaper = strings.NewReplacer(`"`, "#quot;", "|", "#124;", "<", "#lt;", ">", "#gt;")

func escapeEdgeLabel(s string) string {
	return edgeLabelEscaper.Replace(s)
}

// frontMatterValue quotes a YAML scalar when it would otherwise be misread.
func frontMatterValue(s string) string {
	if strings.ContainsAny(s, ":#\"'{}[]&*!|>%@`") {
		return strconv.Quote(s)
	}

	return s
}
