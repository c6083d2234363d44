package cpu

// interruptEntrySteps builds the 5 machine-cycle interrupt dispatch
// sequence: 2 idle cycles, push PC high, push PC low, then jump to the
// vector. The serviced bit is acknowledged (cleared in IF) and IME is
// cleared up front; nothing else touches IF/IME for the rest of the
// sequence, so the order of the remaining cycles doesn't matter here.
func (c *CPU) interruptEntrySteps() []microStep {
	bit, vector, ok := c.pic.Highest()
	if !ok {
		return nil
	}
	return []microStep{
		func(c *CPU) {
			c.IME = false
			c.pic.Clear(bit)
			c.intVec = vector
		},
		func(c *CPU) {},
		func(c *CPU) { c.pushByte(byte(c.PC >> 8)) },
		func(c *CPU) { c.pushByte(byte(c.PC)) },
		func(c *CPU) { c.PC = c.intVec },
	}
}
