package session

// Keyboard-driven navigation: digit/letter keys select an option on the
// focused question, arrows move focus. Everything is disabled once the
// session leaves Active.

// Focus returns the index of the currently focused question.
func (c *Controller) Focus() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.focus
}

// FocusNext moves focus down one question, clamping at the last one.
func (c *Controller) FocusNext() int {
	return c.moveFocus(1)
}

// FocusPrev moves focus up one question, clamping at the first one.
func (c *Controller) FocusPrev() int {
	return c.moveFocus(-1)
}

func (c *Controller) moveFocus(delta int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateActive {
		return c.focus
	}
	c.focus = clamp(c.focus+delta, 0, len(c.questions)-1)
	return c.focus
}

// SelectOption picks option index i of the focused question. Out-of-range
// indexes are ignored.
func (c *Controller) SelectOption(i int) {
	c.mu.Lock()
	if c.state != StateActive || len(c.questions) == 0 {
		c.mu.Unlock()
		return
	}
	q := c.questions[clamp(c.focus, 0, len(c.questions)-1)]
	if i < 0 || i >= len(q.Options) {
		c.mu.Unlock()
		return
	}
	option := q.Options[i]
	id := q.ID
	c.mu.Unlock()
	c.SelectAnswer(id, option)
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
