// Package history provides bounded undo/redo for the styled text engine.
//
// The history stores Commands. A Command is self-inverting: calling Undo
// reverts its edit and leaves the command holding what is needed to put the
// edit back, so the same call serves for both undo and redo.
//
// # Modes
//
// The depth given to New selects the mode:
//
//   - 0 disables history; Push drops every command.
//   - 1 keeps a single command. Undo and Redo both toggle it, so a second
//     Undo re-applies the edit.
//   - anything larger keeps a list of up to depth commands with a redo
//     cursor. Pushing a new command discards any redo commands, and the
//     oldest command is dropped once the depth is exceeded.
//
// # Coalescing
//
// The newest command stays active until it is undone, redone, or explicitly
// deactivated. Callers may fold follow-up edits into the active command
// returned by Current instead of pushing a new one; this is how consecutive
// keystrokes become a single undo step.
//
// # Grouping
//
// Commands pushed between BeginGroup and EndGroup are combined into one
// CompoundCommand:
//
//	h.BeginGroup("Script")
//	// ... multiple edits ...
//	h.EndGroup()
//
// Groups nest; only the outermost EndGroup pushes the compound command.
package history
