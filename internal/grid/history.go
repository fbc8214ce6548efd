package grid

// Command is one reversible mutation.
type Command interface {
	Execute()
	Undo()
}

// Redoer is implemented by commands whose redo differs from a first execute.
type Redoer interface {
	Redo()
}

// Labeler is implemented by commands that describe themselves for status
// lines and logs.
type Labeler interface {
	Label() string
}

// Label returns a human readable name for cmd.
func Label(cmd Command) string {
	if l, ok := cmd.(Labeler); ok {
		return l.Label()
	}
	return "edit"
}

// CompositeCommand applies its children as one unit: forward in insertion
// order, backward in reverse order.
type CompositeCommand struct {
	name     string
	children []Command
}

func NewCompositeCommand(name string, children ...Command) *CompositeCommand {
	return &CompositeCommand{name: name, children: children}
}

// Add appends a child. It must not be called after the composite has been
// handed to History.
func (c *CompositeCommand) Add(cmd Command) {
	if cmd != nil {
		c.children = append(c.children, cmd)
	}
}

func (c *CompositeCommand) Len() int { return len(c.children) }

func (c *CompositeCommand) Children() []Command { return c.children }

func (c *CompositeCommand) Execute() {
	for _, ch := range c.children {
		ch.Execute()
	}
}

func (c *CompositeCommand) Undo() {
	for i := len(c.children) - 1; i >= 0; i-- {
		c.children[i].Undo()
	}
}

func (c *CompositeCommand) Redo() {
	for _, ch := range c.children {
		redo(ch)
	}
}

func (c *CompositeCommand) Label() string {
	if c.name != "" {
		return c.name
	}
	return "batch"
}

func redo(cmd Command) {
	if r, ok := cmd.(Redoer); ok {
		r.Redo()
		return
	}
	cmd.Execute()
}

// History is the two-stack undo/redo manager. A limit above zero bounds
// the undo depth by dropping the oldest entries.
type History struct {
	undo  []Command
	redo  []Command
	limit int
}

func NewHistory(limit int) *History {
	if limit < 0 {
		limit = 0
	}
	return &History{limit: limit}
}

// Execute runs cmd, records it and discards the redo branch.
func (h *History) Execute(cmd Command) {
	if cmd == nil {
		return
	}
	cmd.Execute()
	h.Push(cmd)
}

// Push records an already applied command and discards the redo branch.
func (h *History) Push(cmd Command) {
	if cmd == nil {
		return
	}
	h.undo = append(h.undo, cmd)
	h.redo = nil
	if h.limit > 0 && len(h.undo) > h.limit {
		drop := len(h.undo) - h.limit
		clear(h.undo[:drop])
		h.undo = h.undo[drop:]
	}
}

// Undo reverts the most recent command. It returns false when there is
// nothing to undo.
func (h *History) Undo() (Command, bool) {
	n := len(h.undo)
	if n == 0 {
		return nil, false
	}
	cmd := h.undo[n-1]
	h.undo = h.undo[:n-1]
	cmd.Undo()
	h.redo = append(h.redo, cmd)
	return cmd, true
}

// Redo reapplies the most recently undone command.
func (h *History) Redo() (Command, bool) {
	n := len(h.redo)
	if n == 0 {
		return nil, false
	}
	cmd := h.redo[n-1]
	h.redo = h.redo[:n-1]
	redo(cmd)
	h.undo = append(h.undo, cmd)
	return cmd, true
}

func (h *History) CanUndo() bool { return len(h.undo) > 0 }
func (h *History) CanRedo() bool { return len(h.redo) > 0 }
func (h *History) UndoLen() int  { return len(h.undo) }
func (h *History) RedoLen() int  { return len(h.redo) }

// Peek returns the command Undo would revert next.
func (h *History) Peek() (Command, bool) {
	if len(h.undo) == 0 {
		return nil, false
	}
	return h.undo[len(h.undo)-1], true
}

func (h *History) Clear() {
	h.undo = nil
	h.redo = nil
}
