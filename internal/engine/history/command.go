package history

import (
	"fmt"
	"time"
)

// Command is a reversible edit.
type Command interface {
	// Undo reverts the command's current effect. Afterwards the command
	// holds the inverse, so calling Undo again re-applies the edit.
	Undo() error

	// Description returns a human-readable description of the command.
	Description() string
}

// OperationInfo provides read-only info about a stored command.
// Used for displaying undo/redo history to users.
type OperationInfo struct {
	Description string
	Timestamp   time.Time
}

// CompoundCommand groups multiple commands as one undo unit.
type CompoundCommand struct {
	Name     string
	Commands []Command
}

// NewCompoundCommand creates a new compound command.
func NewCompoundCommand(name string, commands ...Command) *CompoundCommand {
	return &CompoundCommand{
		Name:     name,
		Commands: commands,
	}
}

// Undo reverts every command, newest first. The order is then reversed so
// that the next call replays them oldest first.
func (c *CompoundCommand) Undo() error {
	for i := len(c.Commands) - 1; i >= 0; i-- {
		if err := c.Commands[i].Undo(); err != nil {
			return fmt.Errorf("undo compound command '%s' step %d: %w", c.Name, i, err)
		}
	}
	for i, j := 0, len(c.Commands)-1; i < j; i, j = i+1, j-1 {
		c.Commands[i], c.Commands[j] = c.Commands[j], c.Commands[i]
	}
	return nil
}

// Description returns the compound command's name.
func (c *CompoundCommand) Description() string {
	if c.Name != "" {
		return c.Name
	}
	if len(c.Commands) == 1 {
		return c.Commands[0].Description()
	}
	return fmt.Sprintf("%d operations", len(c.Commands))
}

// Add adds a command to the compound command.
func (c *CompoundCommand) Add(cmd Command) {
	c.Commands = append(c.Commands, cmd)
}

// IsEmpty returns true if the compound command has no commands.
func (c *CompoundCommand) IsEmpty() bool {
	return len(c.Commands) == 0
}
