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
	"io"
	"strconv"
	"strings"

	"github.com/lassandro/golmsm/pkg/encoding"
)

func (mc *Machine) halt() {
	mc.State.Error = ERROR_NONE
	mc.State.Status = STATUS_HALTED
}

func (mc *Machine) load(addr int) {
	if !inMemory(addr) {
		mc.fault(ERROR_OUT_OF_BOUNDS)
		return
	}

	mc.State.Accumulator = mc.read(addr)
}

func (mc *Machine) add(addr int) {
	if !inMemory(addr) {
		mc.fault(ERROR_OUT_OF_BOUNDS)
		return
	}

	mc.State.Accumulator = Cap(mc.State.Accumulator + mc.read(addr))
}

func (mc *Machine) sub(addr int) {
	if !inMemory(addr) {
		mc.fault(ERROR_OUT_OF_BOUNDS)
		return
	}

	mc.State.Accumulator = Cap(mc.State.Accumulator - mc.read(addr))
}

func (mc *Machine) store(addr int) {
	if !inMemory(addr) {
		mc.fault(ERROR_OUT_OF_BOUNDS)
		return
	}

	mc.write(addr, mc.State.Accumulator)
}

// The literal is already in range, so it is not capped.
func (mc *Machine) loadImmediate(value int) {
	mc.State.Accumulator = value
}

// Branch targets are checked when the branch is taken.
func (mc *Machine) jump(addr int) {
	if !inMemory(addr) {
		mc.fault(ERROR_OUT_OF_BOUNDS)
		return
	}

	mc.State.Program = addr
}

func (mc *Machine) branch(addr int) {
	mc.jump(addr)
}

func (mc *Machine) branchIfZero(addr int) {
	if mc.State.Accumulator == 0 {
		mc.jump(addr)
	}
}

func (mc *Machine) branchIfPositive(addr int) {
	if mc.State.Accumulator > 0 {
		mc.jump(addr)
	}
}

func (mc *Machine) jal(addr int) {
	if !inMemory(addr) {
		mc.fault(ERROR_OUT_OF_BOUNDS)
		return
	}

	if mc.State.ReturnAddressPointer+1 >= mc.State.StackPointer {
		mc.fault(ERROR_STACK_OVERFLOW)
		return
	}

	mc.State.ReturnAddressPointer++
	mc.State.Stack[mc.State.ReturnAddressPointer] = mc.State.Program
	mc.State.Program = addr
}

func (mc *Machine) ret() {
	if mc.State.ReturnAddressPointer < 0 {
		mc.fault(ERROR_STACK_UNDERFLOW)
		return
	}

	mc.State.Program = mc.State.Stack[mc.State.ReturnAddressPointer]
	mc.State.ReturnAddressPointer--
}

// Operand stack

func (mc *Machine) need(count int) bool {
	if mc.State.Depth() < count {
		mc.fault(ERROR_STACK_UNDERFLOW)
		return false
	}

	return true
}

func (mc *Machine) room() bool {
	if mc.State.StackPointer-1 <= mc.State.ReturnAddressPointer {
		mc.fault(ERROR_STACK_OVERFLOW)
		return false
	}

	return true
}

func (mc *Machine) pushValue(value int) {
	mc.State.StackPointer--
	mc.State.Stack[mc.State.StackPointer] = value
}

func (mc *Machine) push() {
	if !mc.room() {
		return
	}

	mc.pushValue(mc.State.Accumulator)
}

func (mc *Machine) pop() {
	if !mc.need(1) {
		return
	}

	mc.State.Accumulator = mc.State.Stack[mc.State.StackPointer]
	mc.State.StackPointer++
}

func (mc *Machine) dup() {
	if !mc.need(1) || !mc.room() {
		return
	}

	mc.pushValue(mc.State.Stack[mc.State.StackPointer])
}

func (mc *Machine) drop() {
	if !mc.need(1) {
		return
	}

	mc.State.StackPointer++
}

func (mc *Machine) swap() {
	if !mc.need(2) {
		return
	}

	top := mc.State.StackPointer
	mc.State.Stack[top], mc.State.Stack[top+1] =
		mc.State.Stack[top+1], mc.State.Stack[top]
}

// Replaces the top two values with fn(second, top).
func (mc *Machine) binary(fn func(second, top int) int) {
	if !mc.State.hasTwoValues() {
		mc.fault(ERROR_STACK_UNDERFLOW)
		return
	}

	top := mc.State.StackPointer
	mc.State.Stack[top+1] = fn(mc.State.Stack[top+1], mc.State.Stack[top])
	mc.State.StackPointer++
}

func (mc *Machine) sadd() {
	mc.binary(func(second, top int) int { return Cap(second + top) })
}

func (mc *Machine) ssub() {
	mc.binary(func(second, top int) int { return Cap(second - top) })
}

func (mc *Machine) smul() {
	mc.binary(func(second, top int) int { return Cap(second * top) })
}

func (mc *Machine) sdiv() {
	if !mc.State.hasTwoValues() {
		mc.fault(ERROR_STACK_UNDERFLOW)
		return
	}

	if mc.State.Stack[mc.State.StackPointer] == 0 {
		mc.fault(ERROR_DIVISION_BY_ZERO)
		return
	}

	mc.binary(func(second, top int) int { return Cap(second / top) })
}

func (mc *Machine) smax() {
	mc.binary(func(second, top int) int {
		if second > top {
			return second
		}
		return top
	})
}

func (mc *Machine) smin() {
	mc.binary(func(second, top int) int {
		if second < top {
			return second
		}
		return top
	})
}

// I/O

func (mc *Machine) output() {
	mc.State.Output = strconv.Itoa(mc.State.Accumulator)

	if mc.Devices == nil || mc.Devices.Display == nil {
		return
	}

	if _, err := mc.Devices.Display.WriteString(mc.State.Output + "\n"); err != nil {
		mc.fault(ERROR_IO)
		return
	}

	if err := mc.Devices.Display.Flush(); err != nil {
		mc.fault(ERROR_IO)
	}
}

func (mc *Machine) input() {
	if mc.Devices == nil || mc.Devices.Keyboard == nil {
		mc.fault(ERROR_INVALID_INPUT)
		return
	}

	if display := mc.Devices.Display; display != nil && mc.Devices.Prompt != "" {
		if _, err := display.WriteString(mc.Devices.Prompt); err != nil {
			mc.fault(ERROR_IO)
			return
		}

		if err := display.Flush(); err != nil {
			mc.fault(ERROR_IO)
			return
		}
	}

	line, err := mc.Devices.Keyboard.ReadString('\n')

	if err == io.EOF && len(line) == 0 {
		mc.fault(ERROR_INVALID_INPUT)
		return
	} else if err != nil && err != io.EOF {
		mc.fault(ERROR_IO)
		return
	}

	value, err := encoding.DecodeValue(strings.TrimSpace(line))

	if err != nil {
		mc.fault(ERROR_INVALID_INPUT)
		return
	}

	mc.State.Accumulator = Cap(value)
}
