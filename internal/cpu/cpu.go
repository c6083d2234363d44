package cpu

// Tick advances the CPU by exactly one machine cycle: the HALT check, then
// interrupt dispatch, then one micro-step of the current Operation (a
// fresh fetch if none is in flight), per the machine-cycle contract. When
// that micro-step completes the Operation, the EI countdown advances.
func (c *CPU) Tick() {
	if c.Err != nil {
		return
	}
	if c.halted {
		if c.pic.Pending() {
			c.halted = false
		}
		return
	}
	if len(c.queue) == 0 {
		if c.IME && c.pic.Pending() {
			c.queue = c.interruptEntrySteps()
		} else {
			c.queue = []microStep{c.stepFetch}
		}
	}
	step := c.queue[0]
	c.queue = c.queue[1:]
	step(c)
	if len(c.queue) == 0 {
		c.applyEIDelay()
	}
}

// stepFetch performs the opcode-fetch bus transaction and decodes it into
// the remaining micro-steps for this instruction. The HALT bug manifests
// here: the byte is read without advancing PC once.
func (c *CPU) stepFetch(cc *CPU) {
	op := cc.bus.CPURead(cc.PC)
	if cc.haltBug {
		cc.haltBug = false
	} else {
		cc.PC++
	}
	cc.queue = cc.decode(op)
}

// applyEIDelay advances the EI-enable countdown at the end of an
// Operation; see the eiDelay field comment for the two-stage rationale.
func (c *CPU) applyEIDelay() {
	switch c.eiDelay {
	case 1:
		c.eiDelay = 2
	case 2:
		c.IME = true
		c.eiDelay = 0
	}
}

// RunInstruction ticks until the in-flight Operation (including a fresh
// fetch if the CPU was idle) fully completes; a convenience for tests,
// never used by the main per-dot clock.
func (c *CPU) RunInstruction() {
	c.Tick()
	for len(c.queue) > 0 && c.Err == nil {
		c.Tick()
	}
}
