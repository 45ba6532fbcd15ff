package record

// Cursor tracks how many records of one kind have been consumed against a declared bound.
// The zero value is a cursor with bound zero.
type Cursor struct {
	bound int
	pos   int
}

// Reset sets a new bound and moves the cursor back to the first record.
// Negative bounds are treated as zero.
func (c *Cursor) Reset(bound int) {
	if bound < 0 {
		bound = 0
	}
	c.bound = bound
	c.pos = 0
}

// Exhausted reports whether every declared record was consumed.
// When it returns true the cursor has already wrapped to the first record.
func (c *Cursor) Exhausted() bool {
	if c.pos >= c.bound {
		c.pos = 0
		return true
	}
	return false
}

// Advance records one consumed record.
func (c *Cursor) Advance() {
	c.pos++
}

// Pos returns the number of records consumed in the current pass.
func (c *Cursor) Pos() int {
	return c.pos
}

// Bound returns the declared number of records.
func (c *Cursor) Bound() int {
	return c.bound
}
