package cpu

// CB-prefixed opcodes are laid out as two bit-fields: bits 6-7 select the
// operation group (0=rotate/shift, 1=BIT, 2=RES, 3=SET), the next three
// bits select either the shift/rotate kind (group 0) or the bit index
// (groups 1-3), and the low three bits select the register (6=(HL)),
// mirroring the teacher's own CB decoder in cpu.go, generalized here into
// the micro-step table instead of one big switch.

// cbPrefixFetch is the micro-step that runs for opcode 0xCB: it performs
// the second-byte fetch (its own bus transaction) and applies or queues
// the decoded operation.
func cbPrefixFetch(c *CPU) {
	op := c.bus.CPURead(c.PC)
	c.PC++
	c.queue = append(c.queue, decodeCB(op)...)
}

func decodeCB(op byte) []microStep {
	group := op >> 6
	mid := (op >> 3) & 7
	regIdx := op & 7

	if regIdx != 6 {
		return []microStep{func(c *CPU) {
			p := c.reg8(regIdx)
			switch group {
			case 0:
				*p = cbShiftRotate(c, mid, *p)
			case 1:
				cbBitTest(c, mid, *p)
			case 2:
				*p &^= 1 << mid
			case 3:
				*p |= 1 << mid
			}
		}}
	}

	// (HL) operand: one extra read cycle, plus a write-back cycle for
	// every group except BIT (which only inspects the byte).
	switch group {
	case 1:
		return []microStep{func(c *CPU) {
			v := c.bus.CPURead(c.getHL())
			cbBitTest(c, mid, v)
		}}
	default:
		return []microStep{
			func(c *CPU) { c.tmp8 = c.bus.CPURead(c.getHL()) },
			func(c *CPU) {
				switch group {
				case 0:
					c.tmp8 = cbShiftRotate(c, mid, c.tmp8)
				case 2:
					c.tmp8 &^= 1 << mid
				case 3:
					c.tmp8 |= 1 << mid
				}
				c.bus.CPUWrite(c.getHL(), c.tmp8)
			},
		}
	}
}

// cbShiftRotate applies the group-0 sub-operation selected by mid (0..7:
// RLC, RRC, RL, RR, SLA, SRA, SWAP, SRL) and updates flags.
func cbShiftRotate(c *CPU, mid byte, v byte) byte {
	var res byte
	var z, cy bool
	switch mid {
	case 0:
		res, z, cy = rlc(v)
	case 1:
		res, z, cy = rrc(v)
	case 2:
		res, z, cy = rl(v, c.flag(flagC))
	case 3:
		res, z, cy = rr(v, c.flag(flagC))
	case 4:
		res, z, cy = sla(v)
	case 5:
		res, z, cy = sra(v)
	case 6:
		res, z = swap(v)
		cy = false
	case 7:
		res, z, cy = srl(v)
	}
	c.setFlags(z, false, false, cy)
	return res
}

func cbBitTest(c *CPU, bit byte, v byte) {
	z := v&(1<<bit) == 0
	c.F = (c.F & flagC) | flagH
	if z {
		c.F |= flagZ
	}
}
