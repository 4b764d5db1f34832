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

// Emitter constructs instructions at a fixed position inside a block:
// either appended at the end (the front end building a program) or
// inserted in front of a marked instruction (a pass emitting a
// replacement next to the instruction it rewrites).
type Emitter struct {
    blk  *Block
    mark *Inst
}

func NewEmitter(bb *Block) *Emitter {
    return &Emitter { blk: bb }
}

func NewEmitterBefore(bb *Block, mark *Inst) *Emitter {
    return &Emitter { blk: bb, mark: mark }
}

func (self *Emitter) emit(op Opcode, args ...Value) Value {
    p := newInst(op, args...)
    if self.mark == nil {
        self.blk.appendInstr(p)
    } else {
        self.blk.insertBefore(self.mark, p)
    }
    return InstValue(p)
}

/* hardware state accessors */

func (self *Emitter) GetRegister(r Reg) Value {
    return self.emit(OpGetRegister, RegValue(r))
}

func (self *Emitter) SetRegister(r Reg, v Value) Value {
    return self.emit(OpSetRegister, RegValue(r), v)
}

func (self *Emitter) GetPred(p Pred) Value {
    return self.emit(OpGetPred, PredValue(p))
}

func (self *Emitter) SetPred(p Pred, v Value) Value {
    return self.emit(OpSetPred, PredValue(p), v)
}

func (self *Emitter) GetCbufU32(binding Value, offset Value) Value {
    return self.emit(OpGetCbufU32, binding, offset)
}

func (self *Emitter) GetCbufF32(binding Value, offset Value) Value {
    return self.emit(OpGetCbufF32, binding, offset)
}

func (self *Emitter) GetAttribute(a Attribute) Value {
    return self.emit(OpGetAttribute, AttrValue(a))
}

func (self *Emitter) SetAttribute(a Attribute, v Value) Value {
    return self.emit(OpSetAttribute, AttrValue(a), v)
}

/* integer arithmetics */

func (self *Emitter) IAdd32(a Value, b Value) Value { return self.emit(OpIAdd32, a, b) }
func (self *Emitter) IAdd64(a Value, b Value) Value { return self.emit(OpIAdd64, a, b) }
func (self *Emitter) ISub32(a Value, b Value) Value { return self.emit(OpISub32, a, b) }
func (self *Emitter) IMul32(a Value, b Value) Value { return self.emit(OpIMul32, a, b) }

func (self *Emitter) ShiftLeftLogical32(base Value, shift Value) Value {
    return self.emit(OpShiftLeftLogical32, base, shift)
}

func (self *Emitter) BitFieldUExtract(base Value, shift Value, count Value) Value {
    return self.emit(OpBitFieldUExtract, base, shift, count)
}

func (self *Emitter) BitFieldSExtract(base Value, shift Value, count Value) Value {
    return self.emit(OpBitFieldSExtract, base, shift, count)
}

/* bit casts and half packing */

func (self *Emitter) BitCastU32F32(v Value) Value  { return self.emit(OpBitCastU32F32, v) }
func (self *Emitter) BitCastF32U32(v Value) Value  { return self.emit(OpBitCastF32U32, v) }
func (self *Emitter) PackHalf2x16(v Value) Value   { return self.emit(OpPackHalf2x16, v) }
func (self *Emitter) UnpackHalf2x16(v Value) Value { return self.emit(OpUnpackHalf2x16, v) }

/* boolean logic */

func (self *Emitter) LogicalAnd(a Value, b Value) Value { return self.emit(OpLogicalAnd, a, b) }
func (self *Emitter) LogicalOr(a Value, b Value) Value  { return self.emit(OpLogicalOr, a, b) }
func (self *Emitter) LogicalXor(a Value, b Value) Value { return self.emit(OpLogicalXor, a, b) }
func (self *Emitter) LogicalNot(v Value) Value          { return self.emit(OpLogicalNot, v) }

/* select */

func (self *Emitter) SelectU1(cond Value, t Value, f Value) Value  { return self.emit(OpSelectU1, cond, t, f) }
func (self *Emitter) SelectU8(cond Value, t Value, f Value) Value  { return self.emit(OpSelectU8, cond, t, f) }
func (self *Emitter) SelectU16(cond Value, t Value, f Value) Value { return self.emit(OpSelectU16, cond, t, f) }
func (self *Emitter) SelectU32(cond Value, t Value, f Value) Value { return self.emit(OpSelectU32, cond, t, f) }
func (self *Emitter) SelectU64(cond Value, t Value, f Value) Value { return self.emit(OpSelectU64, cond, t, f) }
func (self *Emitter) SelectF16(cond Value, t Value, f Value) Value { return self.emit(OpSelectF16, cond, t, f) }
func (self *Emitter) SelectF32(cond Value, t Value, f Value) Value { return self.emit(OpSelectF32, cond, t, f) }
func (self *Emitter) SelectF64(cond Value, t Value, f Value) Value { return self.emit(OpSelectF64, cond, t, f) }

/* integer comparisons */

func (self *Emitter) SLessThan(a Value, b Value) Value         { return self.emit(OpSLessThan, a, b) }
func (self *Emitter) ULessThan(a Value, b Value) Value         { return self.emit(OpULessThan, a, b) }
func (self *Emitter) SLessThanEqual(a Value, b Value) Value    { return self.emit(OpSLessThanEqual, a, b) }
func (self *Emitter) ULessThanEqual(a Value, b Value) Value    { return self.emit(OpULessThanEqual, a, b) }
func (self *Emitter) SGreaterThan(a Value, b Value) Value      { return self.emit(OpSGreaterThan, a, b) }
func (self *Emitter) UGreaterThan(a Value, b Value) Value      { return self.emit(OpUGreaterThan, a, b) }
func (self *Emitter) SGreaterThanEqual(a Value, b Value) Value { return self.emit(OpSGreaterThanEqual, a, b) }
func (self *Emitter) UGreaterThanEqual(a Value, b Value) Value { return self.emit(OpUGreaterThanEqual, a, b) }
func (self *Emitter) IEqual(a Value, b Value) Value            { return self.emit(OpIEqual, a, b) }
func (self *Emitter) INotEqual(a Value, b Value) Value         { return self.emit(OpINotEqual, a, b) }

/* floating point */

func (self *Emitter) FPMul32(a Value, b Value, fc FpControl) Value {
    v := self.emit(OpFPMul32, a, b)
    v.Inst().SetFlags(fc)
    return v
}

func (self *Emitter) FPRecip32(v Value) Value {
    return self.emit(OpFPRecip32, v)
}

/* composites */

func (self *Emitter) CompositeConstructF16x2(a Value, b Value) Value                   { return self.emit(OpCompositeConstructF16x2, a, b) }
func (self *Emitter) CompositeConstructF16x3(a Value, b Value, c Value) Value          { return self.emit(OpCompositeConstructF16x3, a, b, c) }
func (self *Emitter) CompositeConstructF16x4(a Value, b Value, c Value, d Value) Value { return self.emit(OpCompositeConstructF16x4, a, b, c, d) }
func (self *Emitter) CompositeConstructF32x2(a Value, b Value) Value                   { return self.emit(OpCompositeConstructF32x2, a, b) }
func (self *Emitter) CompositeConstructF32x3(a Value, b Value, c Value) Value          { return self.emit(OpCompositeConstructF32x3, a, b, c) }
func (self *Emitter) CompositeConstructF32x4(a Value, b Value, c Value, d Value) Value { return self.emit(OpCompositeConstructF32x4, a, b, c, d) }

func (self *Emitter) CompositeInsertF16x2(comp Value, v Value, index Value) Value { return self.emit(OpCompositeInsertF16x2, comp, v, index) }
func (self *Emitter) CompositeInsertF16x3(comp Value, v Value, index Value) Value { return self.emit(OpCompositeInsertF16x3, comp, v, index) }
func (self *Emitter) CompositeInsertF16x4(comp Value, v Value, index Value) Value { return self.emit(OpCompositeInsertF16x4, comp, v, index) }
func (self *Emitter) CompositeInsertF32x2(comp Value, v Value, index Value) Value { return self.emit(OpCompositeInsertF32x2, comp, v, index) }
func (self *Emitter) CompositeInsertF32x3(comp Value, v Value, index Value) Value { return self.emit(OpCompositeInsertF32x3, comp, v, index) }
func (self *Emitter) CompositeInsertF32x4(comp Value, v Value, index Value) Value { return self.emit(OpCompositeInsertF32x4, comp, v, index) }

func (self *Emitter) CompositeExtractF16x2(comp Value, index Value) Value { return self.emit(OpCompositeExtractF16x2, comp, index) }
func (self *Emitter) CompositeExtractF16x3(comp Value, index Value) Value { return self.emit(OpCompositeExtractF16x3, comp, index) }
func (self *Emitter) CompositeExtractF16x4(comp Value, index Value) Value { return self.emit(OpCompositeExtractF16x4, comp, index) }
func (self *Emitter) CompositeExtractF32x2(comp Value, index Value) Value { return self.emit(OpCompositeExtractF32x2, comp, index) }
func (self *Emitter) CompositeExtractF32x3(comp Value, index Value) Value { return self.emit(OpCompositeExtractF32x3, comp, index) }
func (self *Emitter) CompositeExtractF32x4(comp Value, index Value) Value { return self.emit(OpCompositeExtractF32x4, comp, index) }

/* control flow */

func (self *Emitter) Branch(to *Block) Value {
    to.Pred = append(to.Pred, self.blk)
    return self.emit(OpBranch, LabelValue(to))
}

func (self *Emitter) BranchConditional(cond Value, t *Block, f *Block) Value {
    t.Pred = append(t.Pred, self.blk)
    f.Pred = append(f.Pred, self.blk)
    return self.emit(OpBranchConditional, cond, LabelValue(t), LabelValue(f))
}

func (self *Emitter) Return() Value {
    return self.emit(OpReturn)
}

/* pseudo-operations */

func (self *Emitter) GetZeroFromOp(v Value) Value     { return self.emit(OpGetZeroFromOp, v) }
func (self *Emitter) GetSignFromOp(v Value) Value     { return self.emit(OpGetSignFromOp, v) }
func (self *Emitter) GetCarryFromOp(v Value) Value    { return self.emit(OpGetCarryFromOp, v) }
func (self *Emitter) GetOverflowFromOp(v Value) Value { return self.emit(OpGetOverflowFromOp, v) }
