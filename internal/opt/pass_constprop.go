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

package opt

import (
    `fmt`

    `github.com/velvet-emu/shaderc/internal/ir`
)

// _ImmKind declares the primitive type a folding rule expects to decode
// an immediate operand as. Every rule states its operand and result
// kinds explicitly, and decoding at the wrong kind is a fatal error.
type _ImmKind uint8

const (
    _Ku1 _ImmKind = iota
    _Ku32
    _Ks32
    _Ku64
)

var (
    _KK_u1x2  = []_ImmKind { _Ku1, _Ku1 }
    _KK_u32x2 = []_ImmKind { _Ku32, _Ku32 }
    _KK_s32x2 = []_ImmKind { _Ks32, _Ks32 }
    _KK_ubfe  = []_ImmKind { _Ku32, _Ku32, _Ku32 }
    _KK_sbfe  = []_ImmKind { _Ks32, _Ku32, _Ku32 }
)

/* decode an immediate as raw bits, validating its type tag */
func immval(v ir.Value, k _ImmKind) uint64 {
    switch k {
        case _Ku1         : if v.U1() { return 1 } else { return 0 }
        case _Ku32, _Ks32 : return uint64(v.U32())
        case _Ku64        : return v.U64()
        default           : panic("unreachable")
    }
}

/* wrap raw result bits back into a typed immediate */
func immnew(bits uint64, k _ImmKind) ir.Value {
    switch k {
        case _Ku1         : return ir.Imm1(bits != 0)
        case _Ku32, _Ks32 : return ir.Imm32(uint32(bits))
        case _Ku64        : return ir.Imm64(bits)
        default           : panic("unreachable")
    }
}

func b2i(v bool) uint64 {
    if v {
        return 1
    } else {
        return 0
    }
}

// ConstProp simplifies instructions whose operands are compile time
// constants, cancels algebraically redundant instruction pairs, and
// rewrites small front end idioms into single simpler operations. It
// only rewires data flow: instructions are never moved or removed, and
// the block graph is left untouched.
type ConstProp struct{}

// foldWhenAllImmediates evaluates a pure operation once every operand is
// an immediate, replacing all uses of the instruction with the result.
// Instructions with pseudo-operation consumers are skipped: folding the
// primary result would strand the secondary one.
func (self ConstProp) foldWhenAllImmediates(p *ir.Inst, ret _ImmKind, args []_ImmKind, fn func(xs []uint64) uint64) bool {
    if !p.AreAllArgsImmediates() || p.HasAssociatedPseudoOperation() {
        return false
    }
    if len(args) != p.NumArgs() {
        panic(fmt.Sprintf("constprop: %s: rule declares %d operands, instruction has %d", p.Opcode(), len(args), p.NumArgs()))
    }

    /* decode every operand at its declared kind */
    xs := make([]uint64, len(args))
    for i, k := range args {
        xs[i] = immval(p.Arg(i), k)
    }

    /* evaluate and replace */
    p.ReplaceUsesWith(immnew(fn(xs), ret))
    return true
}

// foldCommutative canonicalizes a commutative binary operation so that a
// constant operand always sits on the right, and keeps chained constants
// collapsed by folding (c1 op (x op c2)) into (x op (c1 op c2)). It
// returns false when the instruction was folded away entirely, in which
// case the caller must not attempt further idiom matches on it.
func (self ConstProp) foldCommutative(p *ir.Inst, k _ImmKind, fn func(x uint64, y uint64) uint64) bool {
    lhs := p.Arg(0)
    rhs := p.Arg(1)

    ilhs := lhs.IsImmediate()
    irhs := rhs.IsImmediate()

    /* both constant, evaluate directly */
    if ilhs && irhs {
        p.ReplaceUsesWith(immnew(fn(immval(lhs, k), immval(rhs, k)), k))
        return false
    }

    /* constant on the left: merge into a chained identical operation
     * if possible, otherwise swap the operands to normalize */
    if ilhs && !irhs {
        q := rhs.InstRecursive()
        if q.Opcode() == p.Opcode() && q.Arg(1).IsImmediate() {
            combined := immnew(fn(immval(lhs, k), immval(q.Arg(1), k)), k)
            p.SetArg(0, q.Arg(0))
            p.SetArg(1, combined)
        } else {
            p.SetArg(0, rhs)
            p.SetArg(1, lhs)
        }
    }

    /* constant on the right: merge through the left producer */
    if !ilhs && irhs {
        q := lhs.InstRecursive()
        if q.Opcode() == p.Opcode() && q.Arg(1).IsImmediate() {
            combined := immnew(fn(immval(rhs, k), immval(q.Arg(1), k)), k)
            p.SetArg(0, q.Arg(0))
            p.SetArg(1, combined)
        }
    }
    return true
}

func (self ConstProp) foldGetRegister(p *ir.Inst) {
    if p.Arg(0).Reg() == ir.RZ {
        p.ReplaceUsesWith(ir.Imm32(0))
    }
}

func (self ConstProp) foldGetPred(p *ir.Inst) {
    if p.Arg(0).Pred() == ir.PT {
        p.ReplaceUsesWith(ir.Imm1(true))
    }
}

// foldXmadMultiply rewrites the six instruction shape the front end
// emits for a pair of XMAD half multiplies:
//
//   %rhs_bfe = bfe_u32 %factor_a, #0, #16
//   %rhs_mul = imul32  %rhs_bfe, %factor_b
//   %lhs_bfe = bfe_u32 %factor_a, #16, #16
//   %lhs_mul = imul32  %lhs_bfe, %factor_b
//   %lhs_shl = shl32   %lhs_mul, #16
//   %result  = iadd32  %lhs_shl, %rhs_mul
//
// into a single full width multiply of the two shared factors:
//
//   %result  = imul32  %factor_a, %factor_b
//
// The match is strictly structural: any deviation in the shift or field
// literals leaves the pattern alone.
func (self ConstProp) foldXmadMultiply(bb *ir.Block, p *ir.Inst) bool {
    lhs := p.Arg(0)
    rhs := p.Arg(1)
    if lhs.IsImmediate() || rhs.IsImmediate() {
        return false
    }
    shl := lhs.InstRecursive()
    if shl.Opcode() != ir.OpShiftLeftLogical32 || shl.Arg(1) != ir.Imm32(16) {
        return false
    }
    if shl.Arg(0).IsImmediate() {
        return false
    }
    lmul := shl.Arg(0).InstRecursive()
    rmul := rhs.InstRecursive()
    if lmul.Opcode() != ir.OpIMul32 || rmul.Opcode() != ir.OpIMul32 {
        return false
    }
    if lmul.Arg(1).Resolve() != rmul.Arg(1).Resolve() {
        return false
    }
    factorB := lmul.Arg(1)
    if lmul.Arg(0).IsImmediate() || rmul.Arg(0).IsImmediate() {
        return false
    }
    lbfe := lmul.Arg(0).InstRecursive()
    rbfe := rmul.Arg(0).InstRecursive()
    if lbfe.Opcode() != ir.OpBitFieldUExtract || rbfe.Opcode() != ir.OpBitFieldUExtract {
        return false
    }
    if lbfe.Arg(1) != ir.Imm32(16) || lbfe.Arg(2) != ir.Imm32(16) {
        return false
    }
    if rbfe.Arg(1) != ir.Imm32(0) || rbfe.Arg(2) != ir.Imm32(16) {
        return false
    }
    if lbfe.Arg(0).Resolve() != rbfe.Arg(0).Resolve() {
        return false
    }
    factorA := lbfe.Arg(0)
    p.ReplaceUsesWith(ir.NewEmitterBefore(bb, p).IMul32(factorA, factorB))
    return true
}

func (self ConstProp) foldAdd(bb *ir.Block, p *ir.Inst, k _ImmKind) {
    if p.HasAssociatedPseudoOperation() {
        return
    }
    if !self.foldCommutative(p, k, func(x uint64, y uint64) uint64 { return x + y }) {
        return
    }

    /* adding zero is an identity */
    if rhs := p.Arg(1); rhs.IsImmediate() && immval(rhs, k) == 0 {
        p.ReplaceUsesWith(p.Arg(0))
        return
    }

    /* the XMAD reconstruction only exists for 32-bit adds */
    if k == _Ku32 {
        self.foldXmadMultiply(bb, p)
    }
}

func (self ConstProp) foldISub32(p *ir.Inst) {
    if self.foldWhenAllImmediates(p, _Ku32, _KK_u32x2, func(xs []uint64) uint64 { return uint64(uint32(xs[0]) - uint32(xs[1])) }) {
        return
    }
    if p.Arg(0).IsImmediate() || p.Arg(1).IsImmediate() {
        return
    }

    /* the front end uses isub32 to subtract two reads of the same
     * constant buffer word, which is exactly zero */
    equalcbuf := func(a *ir.Inst, b *ir.Inst) bool {
        return a.Opcode() == ir.OpGetCbufU32 && b.Opcode() == ir.OpGetCbufU32 &&
               a.Arg(0) == b.Arg(0) && a.Arg(1) == b.Arg(1)
    }
    opa := p.Arg(0).InstRecursive()
    opb := p.Arg(1).InstRecursive()
    if equalcbuf(opa, opb) {
        p.ReplaceUsesWith(ir.Imm32(0))
        return
    }

    /* a value may also be added to a cbuf read and subtracted right
     * back; canonicalize so the add is on the left */
    if opb.Opcode() == ir.OpIAdd32 {
        opa, opb = opb, opa
    }
    if opb.Opcode() != ir.OpGetCbufU32 {
        return
    }
    cbuf := opb
    if opa.Opcode() != ir.OpIAdd32 {
        return
    }

    /* canonicalize the add operands so the cbuf candidate is second */
    addA := opa.Arg(0)
    addB := opa.Arg(1)
    if addB.IsImmediate() {
        addA, addB = addB, addA
    }
    if addB.IsImmediate() {
        return
    }
    if equalcbuf(addB.InstRecursive(), cbuf) {
        p.ReplaceUsesWith(addA)
    }
}

func (self ConstProp) foldSelect(p *ir.Inst) {
    if cond := p.Arg(0); cond.IsImmediate() {
        if cond.U1() {
            p.ReplaceUsesWith(p.Arg(1))
        } else {
            p.ReplaceUsesWith(p.Arg(2))
        }
    }
}

// foldFPMul32 cancels the interpolation idiom (x * attr) * (1 / attr)
// down to x when both attribute reads target the same input attribute.
// The rewrite changes rounding, so it is only legal while the
// instruction permits contraction.
func (self ConstProp) foldFPMul32(p *ir.Inst) {
    if p.Flags().NoContraction {
        return
    }
    lhs := p.Arg(0)
    rhs := p.Arg(1)
    if lhs.IsImmediate() || rhs.IsImmediate() {
        return
    }
    lop := lhs.InstRecursive()
    rop := rhs.InstRecursive()
    if lop.Opcode() != ir.OpFPMul32 || rop.Opcode() != ir.OpFPRecip32 {
        return
    }
    recip := rop.Arg(0)
    lmulsrc := lop.Arg(1).Resolve()
    if recip.IsImmediate() || lmulsrc.IsImmediate() {
        return
    }
    attrA := recip.InstRecursive()
    attrB := lmulsrc.InstRecursive()
    if attrA.Opcode() != ir.OpGetAttribute || attrB.Opcode() != ir.OpGetAttribute {
        return
    }
    if attrA.Arg(0).Attribute() == attrB.Arg(0).Attribute() {
        p.ReplaceUsesWith(lop.Arg(0))
    }
}

func (self ConstProp) foldLogicalAnd(p *ir.Inst) {
    if !self.foldCommutative(p, _Ku1, func(x uint64, y uint64) uint64 { return x & y }) {
        return
    }
    if rhs := p.Arg(1); rhs.IsImmediate() {
        if rhs.U1() {
            p.ReplaceUsesWith(p.Arg(0))
        } else {
            p.ReplaceUsesWith(ir.Imm1(false))
        }
    }
}

func (self ConstProp) foldLogicalOr(p *ir.Inst) {
    if !self.foldCommutative(p, _Ku1, func(x uint64, y uint64) uint64 { return x | y }) {
        return
    }
    if rhs := p.Arg(1); rhs.IsImmediate() {
        if rhs.U1() {
            p.ReplaceUsesWith(ir.Imm1(true))
        } else {
            p.ReplaceUsesWith(p.Arg(0))
        }
    }
}

func (self ConstProp) foldLogicalNot(p *ir.Inst) {
    v := p.Arg(0)
    if v.IsImmediate() {
        p.ReplaceUsesWith(ir.Imm1(!v.U1()))
        return
    }

    /* double negation cancels */
    if q := v.InstRecursive(); q.Opcode() == ir.OpLogicalNot {
        p.ReplaceUsesWith(q.Arg(0))
    }
}

// foldBitCast folds a bit reinterpretation: immediates are converted
// directly, a cast in the exact reverse direction cancels, and casting
// an untyped cbuf read to float becomes a typed float cbuf read.
func (self ConstProp) foldBitCast(p *ir.Inst, reverse ir.Opcode, cast func(ir.Value) ir.Value, cbufretype bool) {
    v := p.Arg(0)
    if v.IsImmediate() {
        p.ReplaceUsesWith(cast(v))
        return
    }
    q := v.InstRecursive()
    if q.Opcode() == reverse {
        p.ReplaceUsesWith(q.Arg(0))
        return
    }
    if cbufretype && q.Opcode() == ir.OpGetCbufU32 {
        /* read the constant buffer at the right type instead of casting */
        binding := q.Arg(0)
        offset := q.Arg(1)
        p.ReplaceOpcode(ir.OpGetCbufF32)
        p.SetArg(0, binding)
        p.SetArg(1, offset)
    }
}

// foldInverseFunc cancels a pair of mutually inverse operations.
func (self ConstProp) foldInverseFunc(p *ir.Inst, reverse ir.Opcode) {
    v := p.Arg(0)
    if v.IsImmediate() {
        return
    }
    if q := v.InstRecursive(); q.Opcode() == reverse {
        p.ReplaceUsesWith(q.Arg(0))
    }
}

// foldBranchConditional removes a negation from the branch condition by
// swapping the two targets. Branches on constant conditions are left
// for the branch elimination stage to rewrite into plain branches.
func (self ConstProp) foldBranchConditional(p *ir.Inst) {
    cond := p.Arg(0)
    if cond.IsImmediate() {
        return
    }
    if q := cond.InstRecursive(); q.Opcode() == ir.OpLogicalNot {
        tlabel := p.Arg(1)
        flabel := p.Arg(2)
        p.SetArg(0, q.Arg(0))
        p.SetArg(1, flabel)
        p.SetArg(2, tlabel)
    }
}

/* cyclic IR is a front end bug, but it must not hang the compiler */
const _MaxChaseDepth = 1024

func (self ConstProp) compositeArg(v ir.Value, construct ir.Opcode, insert ir.Opcode, index uint32, depth int) (ir.Value, bool) {
    if depth == 0 {
        return ir.Value{}, false
    }
    p := v.InstRecursive()

    /* reached the constructor, take its matching argument */
    if p.Opcode() == construct {
        return p.Arg(int(index)), true
    }
    if p.Opcode() != insert {
        return ir.Value{}, false
    }

    /* the insertion index must be statically known */
    vi := p.Arg(2)
    if !vi.IsImmediate() {
        return ir.Value{}, false
    }

    /* a mismatched insert is transparent, chase its base composite */
    if vi.U32() != index {
        vc := p.Arg(0)
        if vc.IsImmediate() {
            return ir.Value{}, false
        }
        return self.compositeArg(vc, construct, insert, index, depth - 1)
    }
    return p.Arg(1), true
}

func (self ConstProp) foldCompositeExtract(p *ir.Inst, construct ir.Opcode, insert ir.Opcode) {
    comp := p.Arg(0)
    index := p.Arg(1)
    if comp.IsImmediate() || !index.IsImmediate() {
        return
    }
    if r, ok := self.compositeArg(comp, construct, insert, index.U32(), _MaxChaseDepth); ok {
        p.ReplaceUsesWith(r)
    }
}

func (self ConstProp) foldBitFieldUExtract(p *ir.Inst) {
    self.foldWhenAllImmediates(p, _Ku32, _KK_ubfe, func(xs []uint64) uint64 {
        base, shift, count := xs[0], xs[1], xs[2]
        if shift + count > 32 {
            panic(fmt.Sprintf("constprop: undefined result in bfe_u32(%d, %d, %d)", base, shift, count))
        }
        return (base >> shift) & ((uint64(1) << count) - 1)
    })
}

func (self ConstProp) foldBitFieldSExtract(p *ir.Inst) {
    self.foldWhenAllImmediates(p, _Ku32, _KK_sbfe, func(xs []uint64) uint64 {
        base, shift, count := xs[0], xs[1], xs[2]
        if shift + count > 32 {
            panic(fmt.Sprintf("constprop: undefined result in bfe_s32(%d, %d, %d)", int32(uint32(base)), shift, count))
        }

        /* shift the field up against the sign bit, then arithmetic
         * shift back down so the sign fills the high bits */
        left := 32 - (shift + count)
        return uint64(uint32(int32(uint32(base) << left) >> (32 - count)))
    })
}

// fold dispatches one instruction to at most one folding rule.
// Unrecognized opcodes are left untouched.
func (self ConstProp) fold(bb *ir.Block, p *ir.Inst) {
    switch p.Opcode() {
        default: {
            /* not foldable */
        }

        /* hardwired register and predicate reads */
        case ir.OpGetRegister : self.foldGetRegister(p)
        case ir.OpGetPred     : self.foldGetPred(p)

        /* integer arithmetics */
        case ir.OpIAdd32 : self.foldAdd(bb, p, _Ku32)
        case ir.OpIAdd64 : self.foldAdd(bb, p, _Ku64)
        case ir.OpISub32 : self.foldISub32(p)

        /* bit casts, in both directions */
        case ir.OpBitCastF32U32: {
            self.foldBitCast(p, ir.OpBitCastU32F32, func(v ir.Value) ir.Value { return ir.ImmF32Bits(v.U32()) }, true)
        }
        case ir.OpBitCastU32F32: {
            self.foldBitCast(p, ir.OpBitCastF32U32, func(v ir.Value) ir.Value { return ir.Imm32(v.F32Bits()) }, false)
        }

        /* half packing round trips */
        case ir.OpPackHalf2x16   : self.foldInverseFunc(p, ir.OpUnpackHalf2x16)
        case ir.OpUnpackHalf2x16 : self.foldInverseFunc(p, ir.OpPackHalf2x16)

        /* selects of every width */
        case ir.OpSelectU1,
             ir.OpSelectU8,
             ir.OpSelectU16,
             ir.OpSelectU32,
             ir.OpSelectU64,
             ir.OpSelectF16,
             ir.OpSelectF32,
             ir.OpSelectF64: {
            self.foldSelect(p)
        }

        /* floating point */
        case ir.OpFPMul32 : self.foldFPMul32(p)

        /* boolean logic */
        case ir.OpLogicalAnd : self.foldLogicalAnd(p)
        case ir.OpLogicalOr  : self.foldLogicalOr(p)
        case ir.OpLogicalNot : self.foldLogicalNot(p)

        /* integer comparisons */
        case ir.OpSLessThan         : self.foldWhenAllImmediates(p, _Ku1, _KK_s32x2, func(xs []uint64) uint64 { return b2i(int32(uint32(xs[0])) <  int32(uint32(xs[1]))) })
        case ir.OpULessThan         : self.foldWhenAllImmediates(p, _Ku1, _KK_u32x2, func(xs []uint64) uint64 { return b2i(uint32(xs[0]) <  uint32(xs[1])) })
        case ir.OpSLessThanEqual    : self.foldWhenAllImmediates(p, _Ku1, _KK_s32x2, func(xs []uint64) uint64 { return b2i(int32(uint32(xs[0])) <= int32(uint32(xs[1]))) })
        case ir.OpULessThanEqual    : self.foldWhenAllImmediates(p, _Ku1, _KK_u32x2, func(xs []uint64) uint64 { return b2i(uint32(xs[0]) <= uint32(xs[1])) })
        case ir.OpSGreaterThan      : self.foldWhenAllImmediates(p, _Ku1, _KK_s32x2, func(xs []uint64) uint64 { return b2i(int32(uint32(xs[0])) >  int32(uint32(xs[1]))) })
        case ir.OpUGreaterThan      : self.foldWhenAllImmediates(p, _Ku1, _KK_u32x2, func(xs []uint64) uint64 { return b2i(uint32(xs[0]) >  uint32(xs[1])) })
        case ir.OpSGreaterThanEqual : self.foldWhenAllImmediates(p, _Ku1, _KK_s32x2, func(xs []uint64) uint64 { return b2i(int32(uint32(xs[0])) >= int32(uint32(xs[1]))) })
        case ir.OpUGreaterThanEqual : self.foldWhenAllImmediates(p, _Ku1, _KK_u32x2, func(xs []uint64) uint64 { return b2i(uint32(xs[0]) >= uint32(xs[1])) })
        case ir.OpIEqual            : self.foldWhenAllImmediates(p, _Ku1, _KK_u32x2, func(xs []uint64) uint64 { return b2i(uint32(xs[0]) == uint32(xs[1])) })
        case ir.OpINotEqual         : self.foldWhenAllImmediates(p, _Ku1, _KK_u32x2, func(xs []uint64) uint64 { return b2i(uint32(xs[0]) != uint32(xs[1])) })

        /* bit field extraction */
        case ir.OpBitFieldUExtract : self.foldBitFieldUExtract(p)
        case ir.OpBitFieldSExtract : self.foldBitFieldSExtract(p)

        /* conditional branches */
        case ir.OpBranchConditional : self.foldBranchConditional(p)

        /* composite extraction */
        case ir.OpCompositeExtractF32x2 : self.foldCompositeExtract(p, ir.OpCompositeConstructF32x2, ir.OpCompositeInsertF32x2)
        case ir.OpCompositeExtractF32x3 : self.foldCompositeExtract(p, ir.OpCompositeConstructF32x3, ir.OpCompositeInsertF32x3)
        case ir.OpCompositeExtractF32x4 : self.foldCompositeExtract(p, ir.OpCompositeConstructF32x4, ir.OpCompositeInsertF32x4)
        case ir.OpCompositeExtractF16x2 : self.foldCompositeExtract(p, ir.OpCompositeConstructF16x2, ir.OpCompositeInsertF16x2)
        case ir.OpCompositeExtractF16x3 : self.foldCompositeExtract(p, ir.OpCompositeConstructF16x3, ir.OpCompositeInsertF16x3)
        case ir.OpCompositeExtractF16x4 : self.foldCompositeExtract(p, ir.OpCompositeConstructF16x4, ir.OpCompositeInsertF16x4)
    }
}

// Apply visits blocks in reverse post-order and instructions in program
// order, so definitions are generally simplified before their uses are
// examined, maximizing the yield of a single pass.
func (self ConstProp) Apply(p *ir.Program) {
    for _, bb := range p.ReversePostOrder() {
        ins := bb.Ins
        for _, v := range ins {
            self.fold(bb, v)
        }
    }
}
