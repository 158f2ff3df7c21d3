// Package layout implements the figure layout resolution engine.
//
// The engine turns a declarative tree of containers and leaves (or an
// explicit list of positioned panels) into a flat, fully-dimensioned list
// of panels, one rectangle per source, ready to be handed to a render sink.
// Resolution is a pure function of its inputs: it performs no I/O beyond
// synchronous calls to the supplied [Measurer], never mutates the input
// tree, and is fully deterministic.
//
// # Coordinate space
//
// All resolved geometry is expressed in points within the page content
// area: the page rectangle minus the page margin on all four sides.
// (0, 0) is the top-left corner of the content area and y grows downward.
//
// # Node model
//
// A layout tree node is either a [Container] (row, col, or auto packing of
// ordered children) or a [Leaf] (exactly one panel). The two shapes are
// distinct types implementing the closed [Node] interface, so a value that
// is neither cannot be constructed; shape validation happens once in the
// config layer, not at resolution time.
//
// # Usage
//
//	panels, err := layout.Resolve(page, root, measurer)
//	if err != nil {
//	    var gerr *layout.GeometryError
//	    if errors.As(err, &gerr) {
//	        // gerr.Path points at the offending node
//	    }
//	}
package layout

import (
	"fmt"
	"strings"
)

// FitMode controls how a source is scaled into its cell.
type FitMode string

const (
	// FitContain scales the source to fit entirely inside the cell,
	// preserving aspect ratio. Unused cell space is left empty.
	FitContain FitMode = "contain"

	// FitCover scales the source to fill the cell entirely, preserving
	// aspect ratio. Overflow is clipped by the renderer.
	FitCover FitMode = "cover"
)

// Alignment anchors the drawn content inside its cell when the content
// does not fill the cell exactly.
type Alignment string

const (
	AlignCenter      Alignment = "center"
	AlignTop         Alignment = "top"
	AlignBottom      Alignment = "bottom"
	AlignLeft        Alignment = "left"
	AlignRight       Alignment = "right"
	AlignTopLeft     Alignment = "top-left"
	AlignTopRight    Alignment = "top-right"
	AlignBottomLeft  Alignment = "bottom-left"
	AlignBottomRight Alignment = "bottom-right"
)

// ContainerKind selects how a container distributes its cell among children.
type ContainerKind string

const (
	// KindRow splits the cell horizontally; children share the full inner height.
	KindRow ContainerKind = "row"

	// KindCol splits the cell vertically; children share the full inner width.
	KindCol ContainerKind = "col"

	// KindAuto packs leaf children into justified rows chosen by the
	// flow optimizer. Auto containers may hold only leaves.
	KindAuto ContainerKind = "auto"
)

// FlowMode biases the auto-layout optimizer toward a row shape.
type FlowMode string

const (
	// FlowBest tries the candidate sets of both other modes and keeps the
	// globally best-scoring packing. This is the default.
	FlowBest FlowMode = "best"

	// FlowOneColumn biases toward many narrow rows.
	FlowOneColumn FlowMode = "one-column"

	// FlowTwoColumn biases toward fewer, taller rows.
	FlowTwoColumn FlowMode = "two-column"
)

// LabelStyle describes how a panel label is typeset by a render sink.
// The core only carries it through; it takes no part in geometry.
type LabelStyle struct {
	Enabled      bool
	AutoSequence bool
	FontFamily   string
	FontSizePt   float64
	// OffsetX and OffsetY position the label relative to the panel edge.
	// Documents give them in page units; the config layer converts them to
	// points along with every other linear quantity, so a resolved style
	// always carries points.
	OffsetX float64
	OffsetY float64
	Bold         bool
	Uppercase    bool
}

// DefaultLabelStyle returns the label defaults applied at the page level.
// The offsets are expressed in page units, like offsets in a document.
func DefaultLabelStyle() LabelStyle {
	return LabelStyle{
		Enabled:      true,
		AutoSequence: true,
		FontFamily:   "Helvetica",
		FontSizePt:   8.0,
		OffsetX:      2.0,
		OffsetY:      2.0,
		Bold:         true,
		Uppercase:    true,
	}
}

// Page describes the outer page: dimensions in points, margin, and
// page-level defaults carried through to the sinks.
type Page struct {
	Width  float64 // page width in points
	Height float64 // page height in points
	Margin float64 // symmetric page margin in points

	DPI        int    // raster resolution for sinks
	Background string // background color (name or #rrggbb), empty for none

	// AutoScale enables bounding-box normalization of explicit panels
	// that fall outside the content area.
	AutoScale bool

	Label LabelStyle // default label style
}

// ContentArea returns the page content width and height after the page
// margin is applied. It fails if either extent is non-positive.
func (p Page) ContentArea() (w, h float64, err error) {
	w = p.Width - 2*p.Margin
	h = p.Height - 2*p.Margin
	if w <= 0 || h <= 0 {
		return 0, 0, &GeometryError{
			Message: "page content area is non-positive after applying page margin; reduce margin or increase page size",
		}
	}
	return w, h, nil
}

// Node is a layout tree node: exactly a [*Container] or a [*Leaf].
// The interface is closed; no other implementations exist.
type Node interface {
	node()
}

// Container distributes a rectangular cell among its ordered children.
type Container struct {
	Kind     ContainerKind
	Children []Node    // non-empty, validated by the config layer
	Ratios   []float64 // row/col only; len must equal len(Children), all positive
	Gap      float64   // spacing between adjacent children, points
	Margin   float64   // inner margin consumed before distributing space, points

	// Auto-kind knobs. Ignored for row and col containers.
	Uniformity float64  // weight of the panel-area balance term
	Flow       FlowMode // row-shape bias; empty means FlowBest
	MainScale  float64  // area multiplier for leaves flagged Main; 0 means default
}

func (*Container) node() {}

// Leaf binds one panel slot to one source.
type Leaf struct {
	ID     string
	Source string // source reference, resolved by the config layer
	Fit    FitMode
	Align  Alignment

	Label      string      // explicit label text; empty means auto-sequence
	LabelStyle *LabelStyle // per-panel override, nil for page default

	// Auto-layout overrides. Ignored outside auto containers.
	Weight float64 // explicit target-area weight; 0 means unset
	Main   bool    // flags this leaf as the main panel
}

func (*Leaf) node() {}

// Panel is a fully resolved rectangle bound to one source. All geometry is
// concrete and expressed in content-space points; nothing downstream needs
// to infer anything.
type Panel struct {
	ID     string
	Source string

	X      float64
	Y      float64
	Width  float64
	Height float64

	Fit        FitMode
	Align      Alignment
	Label      string
	LabelStyle *LabelStyle
}

// PanelSpec is a user-positioned panel before resolution. Height may be
// omitted, in which case it is inferred from the source aspect ratio.
type PanelSpec struct {
	ID     string
	Source string

	X      float64
	Y      float64
	Width  float64
	Height *float64 // nil means infer from source aspect

	Fit        FitMode
	Align      Alignment
	Label      string
	LabelStyle *LabelStyle
}

// Measurer reports the intrinsic dimensions of a source. Implementations
// live outside the core; only the ratio of the two outputs is used.
// Measure must fail for unreadable sources rather than report zeros.
type Measurer interface {
	Measure(source string) (width, height float64, err error)
}

// GeometryError is the single error kind produced by resolution. Every
// cause is a deterministic consequence of invalid configuration or invalid
// source metrics; none are retryable.
type GeometryError struct {
	// Path is the chain of child indices from the root container to the
	// offending node. Empty for page-level and explicit-panel failures.
	Path    []int
	Message string
}

// Error implements the error interface.
func (e *GeometryError) Error() string {
	if len(e.Path) == 0 {
		return e.Message
	}
	var b strings.Builder
	b.WriteString("layout")
	for _, i := range e.Path {
		fmt.Fprintf(&b, ".children[%d]", i)
	}
	return fmt.Sprintf("%s at %s", e.Message, b.String())
}

// geomErrf builds a GeometryError with a copied path, so callers may keep
// appending to the slice they passed in.
func geomErrf(path []int, format string, args ...any) *GeometryError {
	return &GeometryError{
		Path:    append([]int(nil), path...),
		Message: fmt.Sprintf(format, args...),
	}
}
