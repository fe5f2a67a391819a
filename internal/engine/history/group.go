package history

// BeginGroup starts a command group.
// Commands pushed while grouping will be combined into a single undo unit.
// Nested calls are counted; the name of the outermost group wins.
func (h *History) BeginGroup(name string) {
	if h.groupDepth == 0 {
		h.groupName = name
		h.group = nil
	}
	h.groupDepth++
}

// EndGroup finishes a command group.
// When the outermost group ends, its commands are pushed as one entry.
func (h *History) EndGroup() {
	if h.groupDepth == 0 {
		return
	}
	h.groupDepth--
	if h.groupDepth > 0 {
		return
	}

	group := h.group
	h.group = nil
	switch len(group) {
	case 0:
		return
	case 1:
		h.pushEntry(group[0])
	default:
		compound := NewCompoundCommand(h.groupName)
		for _, e := range group {
			compound.Add(e.command)
		}
		h.pushEntry(&undoEntry{command: compound, timestamp: group[0].timestamp})
	}
}

// IsGrouping returns true if currently in a command group.
func (h *History) IsGrouping() bool {
	return h.groupDepth > 0
}

func (h *History) closeGroups() {
	for h.groupDepth > 0 {
		h.EndGroup()
	}
}

// Transaction runs fn within a group. The group is kept even when fn
// fails, since its edits have already been applied and must stay undoable.
func (h *History) Transaction(name string, fn func() error) error {
	h.BeginGroup(name)
	defer h.EndGroup()
	return fn()
}
