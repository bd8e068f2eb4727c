// Package view routes notebook events and user commands to the active view.
package view

import (
	"github.com/gravitrone/autoplot/internal/display"
	"github.com/gravitrone/autoplot/internal/series"
)

// View mirrors namespace snapshots into an output area.
type View interface {
	UpdateVariables(series.Snapshot)
	Draw(force bool, out *display.Output)
}

// --- Optional Capabilities ---

type Ignorer interface {
	IgnoreVariable(name string)
}

type Shower interface {
	ShowVariable(name string)
}

type Recolourer interface {
	ChangeColour(name, colour string)
}

type Renamer interface {
	RenameVariable(name, label string)
}

type Freezer interface {
	Freeze()
	Defrost()
}

type MaxLengthSetter interface {
	SetMaxSeriesLength(n int)
}

type YLabelSetter interface {
	SetYLabel(label string)
}

type Resizer interface {
	SetPlotWidth(inches float64)
	SetPlotHeight(inches float64)
}

// Operation names used in "does not implement" warnings.
const (
	OpIgnore    = "ignoring variables"
	OpShow      = "showing variables"
	OpColour    = "changing colours"
	OpRename    = "variable renaming"
	OpFreeze    = "freeze"
	OpDefrost   = "defrost"
	OpMaxLength = "max series length"
	OpYLabel    = "changing ylabel"
	OpHeight    = "setting the plot height"
	OpWidth     = "setting the plot width"
)
