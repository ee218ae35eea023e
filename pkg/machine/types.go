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
	"bufio"

	"github.com/rs/zerolog"
)

type DeviceHandler struct {
	Keyboard *bufio.Reader
	Display  *bufio.Writer

	// Written to Display before INP blocks on Keyboard, if not empty.
	Prompt string
}

type MachineState struct {
	Accumulator int
	Program     int
	Instruction int

	Status Status
	Error  ErrorCode

	Memory [MEMORY_SIZE]int

	// Operands grow down from STACK_SIZE, return addresses grow up from 0.
	Stack                [STACK_SIZE]int
	StackPointer         int
	ReturnAddressPointer int

	Output string
}

type MachineDebugger interface {
	Step(mc *Machine)
	Read(addr int, mc *Machine)
	Write(addr int, mc *Machine)
}

type Machine struct {
	Devices  *DeviceHandler
	State    MachineState
	Debugger MachineDebugger
	Logger   *zerolog.Logger

	// Run returns ErrStepLimit after this many steps; 0 means no limit.
	MaxSteps uint64
}
