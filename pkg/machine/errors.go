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
	"fmt"

	"github.com/pkg/errors"
)

// ErrorCode describes why a machine halted. ERROR_NONE means the program
// stopped itself with HLT.
type ErrorCode uint8

const (
	ERROR_NONE ErrorCode = iota
	ERROR_DIVISION_BY_ZERO
	ERROR_OUT_OF_BOUNDS
	ERROR_UNKNOWN_INSTRUCTION
	ERROR_STACK_UNDERFLOW
	ERROR_STACK_OVERFLOW
	ERROR_INVALID_INPUT
	ERROR_IO
)

var strError = [...]string{
	ERROR_NONE:                "no error",
	ERROR_DIVISION_BY_ZERO:    "division by zero",
	ERROR_OUT_OF_BOUNDS:       "out of bounds",
	ERROR_UNKNOWN_INSTRUCTION: "unknown instruction",
	ERROR_STACK_UNDERFLOW:     "stack underflow",
	ERROR_STACK_OVERFLOW:      "stack overflow",
	ERROR_INVALID_INPUT:       "invalid input",
	ERROR_IO:                  "I/O error",
}

func (e ErrorCode) Error() string {
	if int(e) < len(strError) {
		return strError[e]
	}

	return fmt.Sprintf("error %d", uint8(e))
}

// ErrStepLimit is returned by Run when Machine.MaxSteps instructions were
// executed without the machine halting.
var ErrStepLimit = errors.New("step limit exceeded")

// Fault describes the state of the machine when a fault halted it.
type Fault struct {
	Code        ErrorCode
	Program     int // program counter after the faulting fetch
	Instruction int // last fetched instruction
}

func (f *Fault) Error() string {
	return fmt.Sprintf(
		"%s (instruction %d, pc %d)", f.Code.Error(), f.Instruction, f.Program,
	)
}

// Cause lets errors.Cause unwrap a Fault to its ErrorCode.
func (f *Fault) Cause() error {
	return f.Code
}

func (f *Fault) Unwrap() error {
	return f.Code
}

// Err returns nil unless the machine halted on a fault.
func (mc *MachineState) Err() error {
	if mc.Error == ERROR_NONE {
		return nil
	}

	return &Fault{
		Code:        mc.Error,
		Program:     mc.Program,
		Instruction: mc.Instruction,
	}
}
