package cpu

// decode dispatches an already-fetched opcode byte to its micro-step list.
// Effects that take only the fetch's own machine cycle (the vast majority
// of register-to-register forms) are applied immediately here; anything
// needing further bus transactions returns the steps for the remaining
// machine cycles. Register/pair fields are pulled out of the opcode byte
// the same way the CB table does it, rather than as one case per opcode.
func (c *CPU) decode(op byte) []microStep {
	switch {
	case op == 0x00: // NOP
		return nil
	case op == 0x10: // STOP: a recognized no-op skeleton, skip the pad byte
		return []microStep{func(c *CPU) { c.PC++ }}
	case op == 0x76: // HALT
		c.enterHalt()
		return nil
	case op == 0xF3: // DI
		c.IME = false
		return nil
	case op == 0xFB: // EI
		c.eiDelay = 1
		return nil
	case op == 0x27: // DAA
		res, z, h, cy := daa(c.A, c.flag(flagN), c.flag(flagH), c.flag(flagC))
		c.A = res
		c.setFlags(z, c.flag(flagN), h, cy)
		return nil
	case op == 0x2F: // CPL
		c.A = ^c.A
		c.setFlags(c.flag(flagZ), true, true, c.flag(flagC))
		return nil
	case op == 0x37: // SCF
		c.setFlags(c.flag(flagZ), false, false, true)
		return nil
	case op == 0x3F: // CCF
		c.setFlags(c.flag(flagZ), false, false, !c.flag(flagC))
		return nil
	case op == 0x07: // RLCA
		res, _, cy := rlc(c.A)
		c.A = res
		c.setFlags(false, false, false, cy)
		return nil
	case op == 0x0F: // RRCA
		res, _, cy := rrc(c.A)
		c.A = res
		c.setFlags(false, false, false, cy)
		return nil
	case op == 0x17: // RLA
		res, _, cy := rl(c.A, c.flag(flagC))
		c.A = res
		c.setFlags(false, false, false, cy)
		return nil
	case op == 0x1F: // RRA
		res, _, cy := rr(c.A, c.flag(flagC))
		c.A = res
		c.setFlags(false, false, false, cy)
		return nil
	case op == 0xE9: // JP HL
		c.PC = c.getHL()
		return nil
	case op == 0xF9: // LD SP,HL
		return []microStep{func(c *CPU) { c.SP = c.getHL() }}
	case op == 0xCB:
		return []microStep{cbPrefixFetch}

	case op&0xCF == 0x01: // LD rr,d16
		rr := (op >> 4) & 3
		return []microStep{
			func(c *CPU) { c.tmp16 = uint16(c.fetchImm()) },
			func(c *CPU) { c.tmp16 |= uint16(c.fetchImm()) << 8; c.setReg16(rr, c.tmp16) },
		}
	case op&0xCF == 0x03: // INC rr
		rr := (op >> 4) & 3
		return []microStep{func(c *CPU) { c.setReg16(rr, c.reg16(rr)+1) }}
	case op&0xCF == 0x0B: // DEC rr
		rr := (op >> 4) & 3
		return []microStep{func(c *CPU) { c.setReg16(rr, c.reg16(rr)-1) }}
	case op&0xCF == 0x09: // ADD HL,rr
		rr := (op >> 4) & 3
		return []microStep{func(c *CPU) {
			res, n, h, cy := addHL16(c.getHL(), c.reg16(rr))
			c.setHL(res)
			c.setFlags(c.flag(flagZ), n, h, cy)
		}}

	case op == 0x02: // LD (BC),A
		return []microStep{func(c *CPU) { c.bus.CPUWrite(c.getBC(), c.A) }}
	case op == 0x12: // LD (DE),A
		return []microStep{func(c *CPU) { c.bus.CPUWrite(c.getDE(), c.A) }}
	case op == 0x0A: // LD A,(BC)
		return []microStep{func(c *CPU) { c.A = c.bus.CPURead(c.getBC()) }}
	case op == 0x1A: // LD A,(DE)
		return []microStep{func(c *CPU) { c.A = c.bus.CPURead(c.getDE()) }}
	case op == 0x22: // LD (HL+),A
		return []microStep{func(c *CPU) { c.bus.CPUWrite(c.getHL(), c.A); c.setHL(c.getHL() + 1) }}
	case op == 0x32: // LD (HL-),A
		return []microStep{func(c *CPU) { c.bus.CPUWrite(c.getHL(), c.A); c.setHL(c.getHL() - 1) }}
	case op == 0x2A: // LD A,(HL+)
		return []microStep{func(c *CPU) { c.A = c.bus.CPURead(c.getHL()); c.setHL(c.getHL() + 1) }}
	case op == 0x3A: // LD A,(HL-)
		return []microStep{func(c *CPU) { c.A = c.bus.CPURead(c.getHL()); c.setHL(c.getHL() - 1) }}

	case op&0xC7 == 0x04: // INC r8 (incl. (HL))
		r := (op >> 3) & 7
		if r == 6 {
			return []microStep{
				func(c *CPU) { c.tmp8 = c.bus.CPURead(c.getHL()) },
				func(c *CPU) {
					res, z, n, h := inc8(c.tmp8)
					c.bus.CPUWrite(c.getHL(), res)
					c.setFlags(z, n, h, c.flag(flagC))
				},
			}
		}
		p := c.reg8(r)
		res, z, n, h := inc8(*p)
		*p = res
		c.setFlags(z, n, h, c.flag(flagC))
		return nil
	case op&0xC7 == 0x05: // DEC r8 (incl. (HL))
		r := (op >> 3) & 7
		if r == 6 {
			return []microStep{
				func(c *CPU) { c.tmp8 = c.bus.CPURead(c.getHL()) },
				func(c *CPU) {
					res, z, n, h := dec8(c.tmp8)
					c.bus.CPUWrite(c.getHL(), res)
					c.setFlags(z, n, h, c.flag(flagC))
				},
			}
		}
		p := c.reg8(r)
		res, z, n, h := dec8(*p)
		*p = res
		c.setFlags(z, n, h, c.flag(flagC))
		return nil
	case op&0xC7 == 0x06: // LD r,d8 (incl. (HL))
		r := (op >> 3) & 7
		if r == 6 {
			return []microStep{
				func(c *CPU) { c.tmp8 = c.fetchImm() },
				func(c *CPU) { c.bus.CPUWrite(c.getHL(), c.tmp8) },
			}
		}
		return []microStep{func(c *CPU) { *c.reg8(r) = c.fetchImm() }}

	case op == 0x08: // LD (a16),SP
		return []microStep{
			func(c *CPU) { c.tmp16 = uint16(c.fetchImm()) },
			func(c *CPU) { c.tmp16 |= uint16(c.fetchImm()) << 8 },
			func(c *CPU) { c.bus.CPUWrite(c.tmp16, byte(c.SP)) },
			func(c *CPU) { c.bus.CPUWrite(c.tmp16+1, byte(c.SP>>8)) },
		}

	case op == 0x18: // JR e8
		return []microStep{
			func(c *CPU) { c.tmp8 = c.fetchImm() },
			func(c *CPU) { c.PC = uint16(int32(c.PC) + int32(int8(c.tmp8))) },
		}
	case op&0xE7 == 0x20: // JR cc,e8
		cc := (op >> 3) & 3
		return []microStep{func(c *CPU) {
			c.tmp8 = c.fetchImm()
			if !c.condition(cc) {
				c.queue = nil
			}
		}, func(c *CPU) {
			c.PC = uint16(int32(c.PC) + int32(int8(c.tmp8)))
		}}

	case op >= 0x40 && op <= 0x7F: // LD r,r' (and (HL) variants); 0x76 (HALT) is caught above
		d := (op >> 3) & 7
		s := op & 7
		switch {
		case s == 6:
			return []microStep{func(c *CPU) { *c.reg8(d) = c.bus.CPURead(c.getHL()) }}
		case d == 6:
			return []microStep{func(c *CPU) { c.bus.CPUWrite(c.getHL(), *c.reg8(s)) }}
		default:
			*c.reg8(d) = *c.reg8(s)
			return nil
		}

	case op >= 0x80 && op <= 0xBF: // ALU A,r
		grp := (op >> 3) & 7
		s := op & 7
		if s == 6 {
			return []microStep{func(c *CPU) { c.applyALU(grp, c.bus.CPURead(c.getHL())) }}
		}
		c.applyALU(grp, *c.reg8(s))
		return nil

	case op == 0xC6, op == 0xCE, op == 0xD6, op == 0xDE, op == 0xE6, op == 0xEE, op == 0xF6, op == 0xFE: // ALU A,d8
		grp := (op >> 3) & 7
		return []microStep{func(c *CPU) { c.applyALU(grp, c.fetchImm()) }}

	case op&0xE7 == 0xC0: // RET cc (C0,C8,D0,D8)
		cc := (op >> 3) & 3
		return []microStep{
			func(c *CPU) { if !c.condition(cc) { c.queue = nil } },
			func(c *CPU) { c.tmp16 = uint16(c.popByte()) },
			func(c *CPU) { c.tmp16 |= uint16(c.popByte()) << 8 },
			func(c *CPU) { c.PC = c.tmp16 },
		}
	case op == 0xC9: // RET
		return []microStep{
			func(c *CPU) { c.tmp16 = uint16(c.popByte()) },
			func(c *CPU) { c.tmp16 |= uint16(c.popByte()) << 8 },
			func(c *CPU) { c.PC = c.tmp16 },
		}
	case op == 0xD9: // RETI
		return []microStep{
			func(c *CPU) { c.tmp16 = uint16(c.popByte()) },
			func(c *CPU) { c.tmp16 |= uint16(c.popByte()) << 8 },
			func(c *CPU) { c.PC = c.tmp16; c.IME = true },
		}

	case op == 0xC3: // JP a16
		return []microStep{
			func(c *CPU) { c.tmp16 = uint16(c.fetchImm()) },
			func(c *CPU) { c.tmp16 |= uint16(c.fetchImm()) << 8 },
			func(c *CPU) { c.PC = c.tmp16 },
		}
	case op == 0xC2 || op == 0xCA || op == 0xD2 || op == 0xDA: // JP cc,a16
		cc := (op >> 3) & 3
		return []microStep{
			func(c *CPU) { c.tmp16 = uint16(c.fetchImm()) },
			func(c *CPU) {
				c.tmp16 |= uint16(c.fetchImm()) << 8
				if !c.condition(cc) {
					c.queue = nil
				}
			},
			func(c *CPU) { c.PC = c.tmp16 },
		}

	case op == 0xCD: // CALL a16
		return c.callSteps()
	case op == 0xC4 || op == 0xCC || op == 0xD4 || op == 0xDC: // CALL cc,a16
		cc := (op >> 3) & 3
		steps := c.callSteps()
		return []microStep{
			steps[0],
			func(c *CPU) {
				steps[1](c)
				if !c.condition(cc) {
					c.queue = nil
				}
			},
			steps[2], steps[3], steps[4],
		}

	case op&0xC7 == 0xC7: // RST n
		n := op & 0x38
		return []microStep{
			func(c *CPU) {},
			func(c *CPU) { c.pushByte(byte(c.PC >> 8)) },
			func(c *CPU) { c.pushByte(byte(c.PC)); c.PC = uint16(n) },
		}

	case op&0xCF == 0xC1: // POP rr (incl. AF)
		rr := (op >> 4) & 3
		return []microStep{
			func(c *CPU) { c.tmp16 = uint16(c.popByte()) },
			func(c *CPU) { c.tmp16 |= uint16(c.popByte()) << 8; c.setReg16Stack(rr, c.tmp16) },
		}
	case op&0xCF == 0xC5: // PUSH rr (incl. AF)
		rr := (op >> 4) & 3
		return []microStep{
			func(c *CPU) {},
			func(c *CPU) { c.pushByte(byte(c.reg16Stack(rr) >> 8)) },
			func(c *CPU) { c.pushByte(byte(c.reg16Stack(rr))) },
		}

	case op == 0xE0: // LDH (a8),A
		return []microStep{
			func(c *CPU) { c.tmpAddr = 0xFF00 | uint16(c.fetchImm()) },
			func(c *CPU) { c.bus.CPUWrite(c.tmpAddr, c.A) },
		}
	case op == 0xF0: // LDH A,(a8)
		return []microStep{
			func(c *CPU) { c.tmpAddr = 0xFF00 | uint16(c.fetchImm()) },
			func(c *CPU) { c.A = c.bus.CPURead(c.tmpAddr) },
		}
	case op == 0xE2: // LD (C),A
		return []microStep{func(c *CPU) { c.bus.CPUWrite(0xFF00|uint16(c.C), c.A) }}
	case op == 0xF2: // LD A,(C)
		return []microStep{func(c *CPU) { c.A = c.bus.CPURead(0xFF00 | uint16(c.C)) }}
	case op == 0xEA: // LD (a16),A
		return []microStep{
			func(c *CPU) { c.tmp16 = uint16(c.fetchImm()) },
			func(c *CPU) { c.tmp16 |= uint16(c.fetchImm()) << 8 },
			func(c *CPU) { c.bus.CPUWrite(c.tmp16, c.A) },
		}
	case op == 0xFA: // LD A,(a16)
		return []microStep{
			func(c *CPU) { c.tmp16 = uint16(c.fetchImm()) },
			func(c *CPU) { c.tmp16 |= uint16(c.fetchImm()) << 8 },
			func(c *CPU) { c.A = c.bus.CPURead(c.tmp16) },
		}

	case op == 0xE8: // ADD SP,e8
		return []microStep{
			func(c *CPU) { c.tmp8 = c.fetchImm() },
			func(c *CPU) {},
			func(c *CPU) {
				res, h, cy := addSPSigned(c.SP, int8(c.tmp8))
				c.SP = res
				c.setFlags(false, false, h, cy)
			},
		}
	case op == 0xF8: // LD HL,SP+e8
		return []microStep{
			func(c *CPU) { c.tmp8 = c.fetchImm() },
			func(c *CPU) {
				res, h, cy := addSPSigned(c.SP, int8(c.tmp8))
				c.setHL(res)
				c.setFlags(false, false, h, cy)
			},
		}

	default:
		c.Err = &OpcodeError{Opcode: op, PC: c.PC - 1}
		return nil
	}
}

// fetchImm reads the byte at PC and advances it; used by every micro-step
// that consumes an immediate operand on its own bus cycle.
func (c *CPU) fetchImm() byte {
	v := c.bus.CPURead(c.PC)
	c.PC++
	return v
}

func (c *CPU) pushByte(v byte) {
	c.SP--
	c.bus.CPUWrite(c.SP, v)
}

func (c *CPU) popByte() byte {
	v := c.bus.CPURead(c.SP)
	c.SP++
	return v
}

// callSteps builds the five post-fetch micro-steps shared by CALL a16 and
// CALL cc,a16 (the conditional form splices a not-taken bailout into the
// second step).
func (c *CPU) callSteps() []microStep {
	return []microStep{
		func(c *CPU) { c.tmp16 = uint16(c.fetchImm()) },
		func(c *CPU) { c.tmp16 |= uint16(c.fetchImm()) << 8 },
		func(c *CPU) {},
		func(c *CPU) { c.pushByte(byte(c.PC >> 8)) },
		func(c *CPU) { c.pushByte(byte(c.PC)); c.PC = c.tmp16 },
	}
}

func (c *CPU) condition(cc byte) bool {
	switch cc & 3 {
	case 0:
		return !c.flag(flagZ)
	case 1:
		return c.flag(flagZ)
	case 2:
		return !c.flag(flagC)
	default:
		return c.flag(flagC)
	}
}

// applyALU performs the 0x80-0xBF / 0xC6-0xFE ALU group against A, keyed
// by the same 3-bit group index as the teacher's opcode layout: 0=ADD
// 1=ADC 2=SUB 3=SBC 4=AND 5=XOR 6=OR 7=CP.
func (c *CPU) applyALU(grp byte, operand byte) {
	switch grp {
	case 0:
		res, z, n, h, cy := add8(c.A, operand)
		c.A = res
		c.setFlags(z, n, h, cy)
	case 1:
		res, z, n, h, cy := adc8(c.A, operand, c.flag(flagC))
		c.A = res
		c.setFlags(z, n, h, cy)
	case 2:
		res, z, n, h, cy := sub8(c.A, operand)
		c.A = res
		c.setFlags(z, n, h, cy)
	case 3:
		res, z, n, h, cy := sbc8(c.A, operand, c.flag(flagC))
		c.A = res
		c.setFlags(z, n, h, cy)
	case 4:
		res, z, n, h, cy := and8(c.A, operand)
		c.A = res
		c.setFlags(z, n, h, cy)
	case 5:
		res, z, n, h, cy := xor8(c.A, operand)
		c.A = res
		c.setFlags(z, n, h, cy)
	case 6:
		res, z, n, h, cy := or8(c.A, operand)
		c.A = res
		c.setFlags(z, n, h, cy)
	case 7:
		z, n, h, cy := cp8(c.A, operand)
		c.setFlags(z, n, h, cy)
	}
}

// enterHalt implements the documented HALT bug: if interrupts are globally
// disabled but one is already flagged and enabled, the CPU does not truly
// halt — instead the next opcode fetch fails to advance PC, duplicating
// the following byte's execution once.
func (c *CPU) enterHalt() {
	if !c.IME && c.pic.Pending() {
		c.haltBug = true
		return
	}
	c.halted = true
}
