package view

import (
	"errors"

	"github.com/matzehuels/provgraph/pkg/lineage"
	"github.com/matzehuels/provgraph/pkg/observability"

	perrors "github.com/matzehuels/provgraph/pkg/errors"
)

// ErrUnknownEvent is returned by [Controller.Apply] for unsupported kinds.
var ErrUnknownEvent = errors.New("unknown event kind")

// EventKind names an interaction.
type EventKind string

const (
	EventToggleGroup    EventKind = "toggle_group"
	EventExpandAll      EventKind = "expand_all"
	EventCollapseAll    EventKind = "collapse_all"
	EventSelectNode     EventKind = "select_node"
	EventClearSelection EventKind = "clear_selection"
	EventSetFilter      EventKind = "set_filter"
	EventClearAll       EventKind = "clear_all"
	EventDragNode       EventKind = "drag_node"
	EventResetPositions EventKind = "reset_positions"
	EventClickNode      EventKind = "click_node"
)

// Event is an interaction expressed as data.
type Event struct {
	Kind     EventKind         `json:"kind"`
	Group    string            `json:"group,omitempty"`
	NodeID   string            `json:"nodeId,omitempty"`
	Name     string            `json:"name,omitempty"`
	Type     string            `json:"type,omitempty"`
	Position *lineage.Position `json:"position,omitempty"`
	Final    bool              `json:"final,omitempty"`
}

// Apply validates ev and runs the matching transition. Validation failures
// return an *errors.Error with an INVALID_* code and leave state untouched.
func (c *Controller) Apply(ev Event) (Snapshot, error) {
	snap, err := c.apply(ev)
	observability.Pipeline().OnEvent(string(ev.Kind), err)
	return snap, err
}

func (c *Controller) apply(ev Event) (Snapshot, error) {
	switch ev.Kind {
	case EventToggleGroup:
		if ev.Group == "" {
			return c.snap, perrors.New(perrors.ErrCodeInvalidInput, "toggle_group requires a group")
		}
		return c.ToggleGroup(ev.Group), nil
	case EventExpandAll:
		return c.ExpandAll(), nil
	case EventCollapseAll:
		return c.CollapseAll(), nil
	case EventSelectNode:
		if ev.NodeID == "" {
			return c.ClearSelection(), nil
		}
		if err := perrors.ValidateNodeID(ev.NodeID); err != nil {
			return c.snap, err
		}
		return c.SelectNode(ev.NodeID), nil
	case EventClearSelection:
		return c.ClearSelection(), nil
	case EventSetFilter:
		var t lineage.NodeType
		if ev.Type != "" {
			parsed, err := lineage.ParseNodeType(ev.Type)
			if err != nil {
				return c.snap, perrors.Wrap(perrors.ErrCodeInvalidNodeType, err, "invalid filter type")
			}
			t = parsed
		}
		return c.SetFilter(ev.Name, t), nil
	case EventClearAll:
		return c.ClearAll(), nil
	case EventDragNode:
		if err := perrors.ValidateNodeID(ev.NodeID); err != nil {
			return c.snap, err
		}
		if ev.Position == nil {
			return c.snap, perrors.New(perrors.ErrCodeInvalidInput, "drag_node requires a position")
		}
		return c.DragNode(ev.NodeID, *ev.Position, ev.Final), nil
	case EventResetPositions:
		return c.ResetPositions(), nil
	case EventClickNode:
		if err := perrors.ValidateNodeID(ev.NodeID); err != nil {
			return c.snap, err
		}
		if _, ok := c.ClickNode(ev.NodeID); !ok {
			return c.snap, perrors.New(perrors.ErrCodeNotFound, "node %q is not visible", ev.NodeID)
		}
		return c.snap, nil
	default:
		return c.snap, perrors.Wrap(perrors.ErrCodeInvalidInput, ErrUnknownEvent, "event %q", ev.Kind)
	}
}
