package engine

import (
	"fmt"

	"SketchBoard/internal/geom"
	"SketchBoard/internal/state"
)

// Tool is the active interaction mode chosen from the toolbar.
type Tool int

const (
	ToolSelect Tool = iota
	ToolPan
	ToolPen
	ToolRectangle
	ToolCircle
	ToolLine
	ToolArrow
	ToolText
)

// Tools lists every tool in toolbar order.
var Tools = []Tool{ToolSelect, ToolPan, ToolPen, ToolRectangle, ToolCircle, ToolLine, ToolArrow, ToolText}

// String returns the tool name used by the toolbar and the CLI.
func (t Tool) String() string {
	switch t {
	case ToolSelect:
		return "select"
	case ToolPan:
		return "pan"
	case ToolPen:
		return "pen"
	case ToolRectangle:
		return "rectangle"
	case ToolCircle:
		return "circle"
	case ToolLine:
		return "line"
	case ToolArrow:
		return "arrow"
	case ToolText:
		return "text"
	default:
		return "unknown"
	}
}

// ParseTool is the inverse of Tool.String.
func ParseTool(name string) (Tool, error) {
	for _, t := range Tools {
		if t.String() == name {
			return t, nil
		}
	}
	return ToolSelect, fmt.Errorf("unknown tool %q", name)
}

// Draws reports whether a drag on empty canvas with this tool creates something.
func (t Tool) Draws() bool {
	return t != ToolSelect && t != ToolPan
}

// Key is a keyboard key the engine reacts to.
type Key int

const (
	KeyOther Key = iota
	KeyDelete
	KeyBackspace
	KeySpace
)

// shapeFor materializes the shape a draw drag describes. Text has no drawn shape.
func shapeFor(tool Tool, start, end geom.Point, points []geom.Point) (state.Shape, bool) {
	switch tool {
	case ToolRectangle:
		r := geom.RectFromCorners(start, end)
		return state.Rectangle{X: r.X, Y: r.Y, Width: r.W, Height: r.H}, true
	case ToolCircle:
		return state.Circle{X: start.X, Y: start.Y, Radius: start.Distance(end)}, true
	case ToolLine:
		return state.Line{X1: start.X, Y1: start.Y, X2: end.X, Y2: end.Y}, true
	case ToolArrow:
		return state.Arrow{X1: start.X, Y1: start.Y, X2: end.X, Y2: end.Y}, true
	case ToolPen:
		pts := make([]geom.Point, len(points))
		copy(pts, points)
		return state.Freehand{Points: pts}, true
	}
	return nil, false
}
