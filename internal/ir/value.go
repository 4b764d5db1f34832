/*
 * Copyright 2023 Velvet Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package ir

import (
    `fmt`
    `math`
)

// Type tags the contents of a Value.
type Type uint8

const (
    TypeVoid Type = iota
    TypeOpaque
    TypeLabel
    TypeReg
    TypePred
    TypeAttribute
    TypeU1
    TypeU8
    TypeU16
    TypeU32
    TypeU64
    TypeF16
    TypeF32
    TypeF64
)

func (self Type) String() string {
    switch self {
        case TypeVoid      : return "void"
        case TypeOpaque    : return "opaque"
        case TypeLabel     : return "label"
        case TypeReg       : return "reg"
        case TypePred      : return "pred"
        case TypeAttribute : return "attribute"
        case TypeU1        : return "u1"
        case TypeU8        : return "u8"
        case TypeU16       : return "u16"
        case TypeU32       : return "u32"
        case TypeU64       : return "u64"
        case TypeF16       : return "f16"
        case TypeF32       : return "f32"
        case TypeF64       : return "f64"
        default            : panic("unreachable")
    }
}

// Reg is a hardware general purpose register index. RZ always reads zero.
type Reg uint8

// Pred is a hardware predicate register index. PT always reads true.
type Pred uint8

// Attribute identifies a shader input or output attribute slot.
type Attribute uint16

const (
    RZ Reg  = 255
    PT Pred = 7
)

func (self Reg) String() string {
    if self == RZ {
        return "rZ"
    } else {
        return fmt.Sprintf("r%d", self)
    }
}

func (self Pred) String() string {
    if self == PT {
        return "pT"
    } else {
        return fmt.Sprintf("p%d", self)
    }
}

func (self Attribute) String() string {
    return fmt.Sprintf("attr%d", uint16(self))
}

// Value is either a typed immediate or a reference to the instruction
// producing it. Values are immutable and comparable with ==; immediates
// of different types or bit patterns never compare equal.
type Value struct {
    t    Type
    inst *Inst
    blk  *Block
    imm  uint64
}

func Imm1(v bool) Value {
    if v {
        return Value { t: TypeU1, imm: 1 }
    } else {
        return Value { t: TypeU1, imm: 0 }
    }
}

func Imm8(v uint8) Value {
    return Value { t: TypeU8, imm: uint64(v) }
}

func Imm16(v uint16) Value {
    return Value { t: TypeU16, imm: uint64(v) }
}

func Imm32(v uint32) Value {
    return Value { t: TypeU32, imm: uint64(v) }
}

func Imm64(v uint64) Value {
    return Value { t: TypeU64, imm: v }
}

func ImmF16Bits(v uint16) Value {
    return Value { t: TypeF16, imm: uint64(v) }
}

func ImmF32(v float32) Value {
    return Value { t: TypeF32, imm: uint64(math.Float32bits(v)) }
}

func ImmF32Bits(v uint32) Value {
    return Value { t: TypeF32, imm: uint64(v) }
}

func ImmF64(v float64) Value {
    return Value { t: TypeF64, imm: math.Float64bits(v) }
}

func RegValue(r Reg) Value {
    return Value { t: TypeReg, imm: uint64(r) }
}

func PredValue(p Pred) Value {
    return Value { t: TypePred, imm: uint64(p) }
}

func AttrValue(a Attribute) Value {
    return Value { t: TypeAttribute, imm: uint64(a) }
}

func LabelValue(bb *Block) Value {
    return Value { t: TypeLabel, blk: bb }
}

func InstValue(p *Inst) Value {
    return Value { t: TypeOpaque, inst: p }
}

// Type returns the value's type tag.
func (self Value) Type() Type {
    return self.t
}

// IsEmpty reports whether the value is the zero Value.
func (self Value) IsEmpty() bool {
    return self.t == TypeVoid
}

// IsImmediate reports whether the value is known at compile time, as
// opposed to being produced by evaluating an instruction at run time.
func (self Value) IsImmediate() bool {
    return self.t != TypeVoid && self.t != TypeOpaque
}

func (self Value) typecheck(t Type) uint64 {
    if self.t != t {
        panic(fmt.Sprintf("ir: value is not a %s immediate: %s", t, self))
    } else {
        return self.imm
    }
}

func (self Value) U1() bool       { return self.typecheck(TypeU1) != 0 }
func (self Value) U8() uint8      { return uint8(self.typecheck(TypeU8)) }
func (self Value) U16() uint16    { return uint16(self.typecheck(TypeU16)) }
func (self Value) U32() uint32    { return uint32(self.typecheck(TypeU32)) }
func (self Value) U64() uint64    { return self.typecheck(TypeU64) }
func (self Value) F16Bits() uint16 { return uint16(self.typecheck(TypeF16)) }
func (self Value) F32Bits() uint32 { return uint32(self.typecheck(TypeF32)) }

func (self Value) F32() float32 {
    return math.Float32frombits(uint32(self.typecheck(TypeF32)))
}

func (self Value) F64() float64 {
    return math.Float64frombits(self.typecheck(TypeF64))
}

func (self Value) Reg() Reg             { return Reg(self.typecheck(TypeReg)) }
func (self Value) Pred() Pred           { return Pred(self.typecheck(TypePred)) }
func (self Value) Attribute() Attribute { return Attribute(self.typecheck(TypeAttribute)) }

// Label returns the branch target block of a label value.
func (self Value) Label() *Block {
    if self.t != TypeLabel {
        panic(fmt.Sprintf("ir: value is not a label: %s", self))
    } else {
        return self.blk
    }
}

// Inst returns the producing instruction of a non-immediate value.
func (self Value) Inst() *Inst {
    if self.t != TypeOpaque {
        panic(fmt.Sprintf("ir: value is not produced by an instruction: %s", self))
    } else {
        return self.inst
    }
}

// Resolve follows trivial identity indirection until reaching either an
// immediate or the real producing instruction.
func (self Value) Resolve() Value {
    v := self
    for v.t == TypeOpaque && v.inst.op == OpIdentity {
        v = v.inst.Arg(0)
    }
    return v
}

// InstRecursive resolves the value and returns its producing instruction.
func (self Value) InstRecursive() *Inst {
    return self.Resolve().Inst()
}

func (self Value) String() string {
    switch self.t {
        case TypeVoid      : return "(void)"
        case TypeOpaque    : return fmt.Sprintf("%%%s@%p", self.inst.op, self.inst)
        case TypeLabel     : return fmt.Sprintf("bb_%d", self.blk.Id)
        case TypeReg       : return Reg(self.imm).String()
        case TypePred      : return Pred(self.imm).String()
        case TypeAttribute : return Attribute(self.imm).String()
        case TypeU1        : if self.imm != 0 { return "#true" } else { return "#false" }
        case TypeU8        : return fmt.Sprintf("#%d", uint8(self.imm))
        case TypeU16       : return fmt.Sprintf("#%d", uint16(self.imm))
        case TypeU32       : return fmt.Sprintf("#%d", uint32(self.imm))
        case TypeU64       : return fmt.Sprintf("#%d", self.imm)
        case TypeF16       : return fmt.Sprintf("#f16(%#04x)", uint16(self.imm))
        case TypeF32       : return fmt.Sprintf("#%g", math.Float32frombits(uint32(self.imm)))
        case TypeF64       : return fmt.Sprintf("#%g", math.Float64frombits(self.imm))
        default            : panic("unreachable")
    }
}
