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

const (
	TOP_OF_MEMORY = 99
	MEMORY_SIZE   = TOP_OF_MEMORY + 1
	STACK_SIZE    = 100
)

const (
	VALUE_MAX = 999
	VALUE_MIN = -999
)

type Status uint8

const (
	STATUS_READY Status = iota
	STATUS_RUNNING
	STATUS_HALTED
)

func (s Status) String() string {
	switch s {
	case STATUS_READY:
		return "Ready"
	case STATUS_RUNNING:
		return "Running"
	case STATUS_HALTED:
		return "Halted"
	default:
		return "<invalid>"
	}
}

type Opcode uint8

const (
	OP_HLT Opcode = iota
	OP_ADD
	OP_SUB
	OP_STA
	OP_LDI
	OP_LDA
	OP_BRA
	OP_BRZ
	OP_BRP
	OP_INP
	OP_OUT
	OP_JAL
	OP_RET
	OP_PUSH
	OP_POP
	OP_DUP
	OP_DROP
	OP_SWAP
	OP_SADD
	OP_SSUB
	OP_SMUL
	OP_SDIV
	OP_SMAX
	OP_SMIN
)

// Family bases. The operand of a family instruction is its offset from the
// base and always lies in 0..FAMILY_SPAN-1.
const (
	FAMILY_SPAN = 100

	BASE_ADD = 100
	BASE_SUB = 200
	BASE_STA = 300
	BASE_LDI = 400
	BASE_LDA = 500
	BASE_BRA = 600
	BASE_BRZ = 700
	BASE_BRP = 800
	BASE_JAL = 1000
)

// Fixed codes outside every family range.
const (
	CODE_HLT  = 0
	CODE_INP  = 901
	CODE_OUT  = 902
	CODE_RET  = 911
	CODE_PUSH = 920
	CODE_POP  = 921
	CODE_DUP  = 922
	CODE_DROP = 923
	CODE_SWAP = 924
	CODE_SADD = 930
	CODE_SSUB = 931
	CODE_SMUL = 932
	CODE_SDIV = 933
	CODE_SMAX = 934
	CODE_SMIN = 935
)

var mnemonics = [...]string{
	OP_HLT:  "HLT",
	OP_ADD:  "ADD",
	OP_SUB:  "SUB",
	OP_STA:  "STA",
	OP_LDI:  "LDI",
	OP_LDA:  "LDA",
	OP_BRA:  "BRA",
	OP_BRZ:  "BRZ",
	OP_BRP:  "BRP",
	OP_INP:  "INP",
	OP_OUT:  "OUT",
	OP_JAL:  "JAL",
	OP_RET:  "RET",
	OP_PUSH: "PUSH",
	OP_POP:  "POP",
	OP_DUP:  "DUP",
	OP_DROP: "DROP",
	OP_SWAP: "SWAP",
	OP_SADD: "SADD",
	OP_SSUB: "SSUB",
	OP_SMUL: "SMUL",
	OP_SDIV: "SDIV",
	OP_SMAX: "SMAX",
	OP_SMIN: "SMIN",
}

func (op Opcode) String() string {
	if int(op) < len(mnemonics) {
		return mnemonics[op]
	}

	return "<invalid>"
}

// Reports whether the opcode carries an operand in its low digits.
func (op Opcode) HasOperand() bool {
	switch op {
	case OP_ADD, OP_SUB, OP_STA, OP_LDI, OP_LDA,
		OP_BRA, OP_BRZ, OP_BRP, OP_JAL:
		return true
	}

	return false
}
