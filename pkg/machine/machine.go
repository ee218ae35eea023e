// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

package machine

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/lassandro/golmsm/pkg/encoding"
)

func New() *Machine {
	mc := &Machine{}
	mc.State.Reset()
	return mc
}

func (mc *MachineState) Reset() {
	for i := range mc.Memory {
		mc.Memory[i] = 0
	}

	for i := range mc.Stack {
		mc.Stack[i] = 0
	}

	mc.Accumulator = 0
	mc.Program = 0
	mc.Instruction = 0
	mc.Status = STATUS_READY
	mc.Error = ERROR_NONE
	mc.Output = ""

	// Both stacks start empty at opposite ends of the stack region
	mc.StackPointer = STACK_SIZE
	mc.ReturnAddressPointer = -1
}

// Number of values on the operand stack.
func (mc *MachineState) Depth() int {
	return STACK_SIZE - mc.StackPointer
}

// Number of saved return addresses.
func (mc *MachineState) ReturnDepth() int {
	return mc.ReturnAddressPointer + 1
}

func (mc *MachineState) hasTwoValues() bool {
	return mc.Depth() >= 2
}

func (mc *Machine) Reset() {
	mc.State.Reset()
}

// Close flushes the display and detaches devices and debugger. The machine
// must be reset and loaded again before further use.
func (mc *Machine) Close() error {
	var err error

	if mc.Devices != nil && mc.Devices.Display != nil {
		err = mc.Devices.Display.Flush()
	}

	mc.Devices = nil
	mc.Debugger = nil

	return errors.Wrap(err, "Close")
}

// Load copies program into memory starting at address 0. Cells past
// TOP_OF_MEMORY are not written and halt the machine with ERROR_OUT_OF_BOUNDS.
func (mc *Machine) Load(program []int) error {
	for i, value := range program {
		if i > TOP_OF_MEMORY {
			mc.fault(ERROR_OUT_OF_BOUNDS)

			return errors.Wrapf(
				mc.State.Err(),
				"program of %d cells exceeds %d cells of memory",
				len(program),
				MEMORY_SIZE,
			)
		}

		mc.State.Memory[i] = value
	}

	return nil
}

// LoadBin resets the machine and loads an image of big-endian signed 16-bit
// words.
func (mc *Machine) LoadBin(reader io.Reader) error {
	mc.State.Reset()

	scratch := make([]byte, 2)
	program := make([]int, 0, MEMORY_SIZE)

	for {
		_, err := io.ReadFull(reader, scratch)

		if err == io.EOF {
			break
		} else if err == io.ErrUnexpectedEOF {
			return errors.New("LoadBin: truncated word at end of image")
		} else if err != nil {
			return errors.Wrap(err, "LoadBin")
		}

		program = append(program, int(int16(binary.BigEndian.Uint16(scratch))))
	}

	return mc.Load(program)
}

// LoadText resets the machine and loads a plain decimal listing.
func (mc *Machine) LoadText(reader io.Reader) error {
	mc.State.Reset()

	program, err := encoding.DecodeProgram(reader)

	if err != nil {
		return errors.Wrap(err, "LoadText")
	}

	return mc.Load(program)
}

func Cap(value int) int {
	if value > VALUE_MAX {
		return VALUE_MAX
	} else if value < VALUE_MIN {
		return VALUE_MIN
	}

	return value
}

func inMemory(addr int) bool {
	return addr >= 0 && addr <= TOP_OF_MEMORY
}

func (mc *Machine) read(addr int) int {
	if mc.Debugger != nil {
		mc.Debugger.Read(addr, mc)
	}

	return mc.State.Memory[addr]
}

func (mc *Machine) write(addr int, value int) {
	mc.State.Memory[addr] = value

	if mc.Debugger != nil {
		mc.Debugger.Write(addr, mc)
	}
}

func (mc *Machine) fault(code ErrorCode) {
	mc.State.Error = code
	mc.State.Status = STATUS_HALTED

	if mc.Logger != nil {
		mc.Logger.Debug().
			Str("error", code.Error()).
			Int("pc", mc.State.Program).
			Int("instruction", mc.State.Instruction).
			Msg("machine fault")
	}
}

func (mc *Machine) trace() *zerolog.Event {
	if mc.Logger == nil {
		return nil
	}

	return mc.Logger.Trace()
}

type family struct {
	base int
	op   Opcode
}

var families = [...]family{
	{BASE_ADD, OP_ADD},
	{BASE_SUB, OP_SUB},
	{BASE_STA, OP_STA},
	{BASE_LDI, OP_LDI},
	{BASE_LDA, OP_LDA},
	{BASE_BRA, OP_BRA},
	{BASE_BRZ, OP_BRZ},
	{BASE_BRP, OP_BRP},
	{BASE_JAL, OP_JAL},
}

var codes = map[int]Opcode{
	CODE_HLT:  OP_HLT,
	CODE_INP:  OP_INP,
	CODE_OUT:  OP_OUT,
	CODE_RET:  OP_RET,
	CODE_PUSH: OP_PUSH,
	CODE_POP:  OP_POP,
	CODE_DUP:  OP_DUP,
	CODE_DROP: OP_DROP,
	CODE_SWAP: OP_SWAP,
	CODE_SADD: OP_SADD,
	CODE_SSUB: OP_SSUB,
	CODE_SMUL: OP_SMUL,
	CODE_SDIV: OP_SDIV,
	CODE_SMAX: OP_SMAX,
	CODE_SMIN: OP_SMIN,
}

// Decode maps a raw instruction to its opcode and operand. ok is false when
// no opcode matches.
func Decode(instruction int) (op Opcode, operand int, ok bool) {
	if code, exists := codes[instruction]; exists {
		return code, 0, true
	}

	for _, f := range families {
		if instruction >= f.base && instruction < f.base+FAMILY_SPAN {
			return f.op, instruction - f.base, true
		}
	}

	return 0, 0, false
}

func (mc *Machine) Step() {
	if mc.State.Status == STATUS_HALTED {
		return
	}

	mc.State.Status = STATUS_RUNNING

	if !inMemory(mc.State.Program) {
		mc.fault(ERROR_OUT_OF_BOUNDS)
		return
	}

	pc := mc.State.Program
	instruction := mc.read(pc)

	mc.State.Program++
	mc.State.Instruction = instruction

	if event := mc.trace(); event != nil {
		mnemonic := "???"
		if op, _, ok := Decode(instruction); ok {
			mnemonic = op.String()
		}

		event.
			Int("pc", pc).
			Int("instruction", instruction).
			Str("op", mnemonic).
			Int("acc", mc.State.Accumulator).
			Int("depth", mc.State.Depth()).
			Msg("step")
	}

	mc.exec(instruction)

	if mc.Debugger != nil {
		mc.Debugger.Step(mc)
	}
}

// exec dispatches a single instruction without fetching it. Faults are
// terminal, so a halted machine executes nothing.
func (mc *Machine) exec(instruction int) {
	if mc.State.Status == STATUS_HALTED {
		return
	}

	op, operand, ok := Decode(instruction)

	if !ok {
		mc.fault(ERROR_UNKNOWN_INSTRUCTION)
		return
	}

	switch op {
	// HLT  |000|          | Halt
	case OP_HLT:
		mc.halt()

	// ADD  |1|address     | Add memory to accumulator
	case OP_ADD:
		mc.add(operand)

	// SUB  |2|address     | Subtract memory from accumulator
	case OP_SUB:
		mc.sub(operand)

	// STA  |3|address     | Store accumulator
	case OP_STA:
		mc.store(operand)

	// LDI  |4|literal     | Load immediate
	case OP_LDI:
		mc.loadImmediate(operand)

	// LDA  |5|address     | Load accumulator
	case OP_LDA:
		mc.load(operand)

	// BRA  |6|address     | Branch
	// BRZ  |7|address     | Branch if accumulator is zero
	// BRP  |8|address     | Branch if accumulator is positive
	case OP_BRA:
		mc.branch(operand)
	case OP_BRZ:
		mc.branchIfZero(operand)
	case OP_BRP:
		mc.branchIfPositive(operand)

	// INP  |901|          | Read a number into the accumulator
	// OUT  |902|          | Write the accumulator
	case OP_INP:
		mc.input()
	case OP_OUT:
		mc.output()

	// JAL  |10|address    | Call subroutine
	// RET  |911|          | Return from subroutine
	case OP_JAL:
		mc.jal(operand)
	case OP_RET:
		mc.ret()

	// PUSH |920| .. SWAP |924|   Stack manipulation
	case OP_PUSH:
		mc.push()
	case OP_POP:
		mc.pop()
	case OP_DUP:
		mc.dup()
	case OP_DROP:
		mc.drop()
	case OP_SWAP:
		mc.swap()

	// SADD |930| .. SMIN |935|   Stack arithmetic
	case OP_SADD:
		mc.sadd()
	case OP_SSUB:
		mc.ssub()
	case OP_SMUL:
		mc.smul()
	case OP_SDIV:
		mc.sdiv()
	case OP_SMAX:
		mc.smax()
	case OP_SMIN:
		mc.smin()

	default:
		mc.fault(ERROR_UNKNOWN_INSTRUCTION)
	}
}
