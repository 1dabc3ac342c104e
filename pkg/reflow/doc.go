// Package reflow drives an auto-arranging container: it owns the ordered item
// list, tracks the active drag, reorders items live as the pointer moves, and
// animates every other item toward the position computed by package layout.
//
// # Lifecycle
//
// A [Container] is created with [New] and fed by its host:
//
//   - Pointer events: [Container.OnPointerEnter], [Container.OnPointerExit],
//     [Container.OnPointerButton] and [Container.SetPointer]
//   - Drag notifications from a [pointer.Coordinator], delivered to
//     [Container.DragStarted] and [Container.DragStopped]
//   - One [Container.Update] call per frame
//
// Within a tick the drag reorder is resolved before the convergence pass, so
// targets are always computed against the post-reorder order.
//
// # Drag state machine
//
//	Idle ──DragStarted(own item)──▶ Dragging
//	Dragging ──Update: hover slot changed──▶ Dragging (item moved, dirty)
//	Dragging ──DragStopped(tracked item)──▶ Idle (item snapped to slot, dirty)
//
// Notifications about items the container does not own are ignored.
//
// # Degraded states
//
// Children that are not [*Item] are kept but skipped by the layout and
// reported through [Container.Warning]. A pointer coordinator that cannot be
// resolved yet is retried on every tick. Neither condition is fatal.
package reflow
