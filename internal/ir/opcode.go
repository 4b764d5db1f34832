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
)

// Opcode identifies the operation performed by an instruction. The set is
// closed: the shader front end only ever lowers hardware bytecode into
// these operations, and every pass dispatches on them exhaustively.
type Opcode uint8

const (
    OpVoid Opcode = iota
    OpIdentity
    OpPhi

    /* control flow */
    OpBranch
    OpBranchConditional
    OpReturn

    /* hardware state accessors */
    OpGetRegister
    OpSetRegister
    OpGetPred
    OpSetPred
    OpGetCbufU32
    OpGetCbufF32
    OpGetAttribute
    OpSetAttribute

    /* integer arithmetics */
    OpIAdd32
    OpIAdd64
    OpISub32
    OpIMul32
    OpShiftLeftLogical32
    OpBitFieldUExtract
    OpBitFieldSExtract

    /* bit casts and half packing */
    OpBitCastU32F32
    OpBitCastF32U32
    OpPackHalf2x16
    OpUnpackHalf2x16

    /* boolean logic */
    OpLogicalAnd
    OpLogicalOr
    OpLogicalXor
    OpLogicalNot

    /* select */
    OpSelectU1
    OpSelectU8
    OpSelectU16
    OpSelectU32
    OpSelectU64
    OpSelectF16
    OpSelectF32
    OpSelectF64

    /* integer comparisons */
    OpSLessThan
    OpULessThan
    OpSLessThanEqual
    OpULessThanEqual
    OpSGreaterThan
    OpUGreaterThan
    OpSGreaterThanEqual
    OpUGreaterThanEqual
    OpIEqual
    OpINotEqual

    /* floating point */
    OpFPMul32
    OpFPRecip32

    /* composites */
    OpCompositeConstructF16x2
    OpCompositeConstructF16x3
    OpCompositeConstructF16x4
    OpCompositeInsertF16x2
    OpCompositeInsertF16x3
    OpCompositeInsertF16x4
    OpCompositeExtractF16x2
    OpCompositeExtractF16x3
    OpCompositeExtractF16x4
    OpCompositeConstructF32x2
    OpCompositeConstructF32x3
    OpCompositeConstructF32x4
    OpCompositeInsertF32x2
    OpCompositeInsertF32x3
    OpCompositeInsertF32x4
    OpCompositeExtractF32x2
    OpCompositeExtractF32x3
    OpCompositeExtractF32x4

    /* pseudo-operations, carry the secondary result of their primary */
    OpGetZeroFromOp
    OpGetSignFromOp
    OpGetCarryFromOp
    OpGetOverflowFromOp
)

const (
    _N_variadic = -1
)

type _OpcodeInfo struct {
    name   string
    nargs  int
    pseudo bool
    effect bool
}

var _OpcodeTab = [...]_OpcodeInfo {
    OpVoid              : { name: "void"     , nargs: 0 },
    OpIdentity          : { name: "identity" , nargs: 1 },
    OpPhi               : { name: "phi"      , nargs: _N_variadic },
    OpBranch            : { name: "branch"      , nargs: 1, effect: true },
    OpBranchConditional : { name: "branch_cond" , nargs: 3, effect: true },
    OpReturn            : { name: "return"      , nargs: 0, effect: true },
    OpGetRegister       : { name: "get_register"  , nargs: 1 },
    OpSetRegister       : { name: "set_register"  , nargs: 2, effect: true },
    OpGetPred           : { name: "get_pred"      , nargs: 1 },
    OpSetPred           : { name: "set_pred"      , nargs: 2, effect: true },
    OpGetCbufU32        : { name: "get_cbuf_u32"  , nargs: 2 },
    OpGetCbufF32        : { name: "get_cbuf_f32"  , nargs: 2 },
    OpGetAttribute      : { name: "get_attribute" , nargs: 1 },
    OpSetAttribute      : { name: "set_attribute" , nargs: 2, effect: true },
    OpIAdd32             : { name: "iadd32"  , nargs: 2 },
    OpIAdd64             : { name: "iadd64"  , nargs: 2 },
    OpISub32             : { name: "isub32"  , nargs: 2 },
    OpIMul32             : { name: "imul32"  , nargs: 2 },
    OpShiftLeftLogical32 : { name: "shl32"   , nargs: 2 },
    OpBitFieldUExtract   : { name: "bfe_u32" , nargs: 3 },
    OpBitFieldSExtract   : { name: "bfe_s32" , nargs: 3 },
    OpBitCastU32F32  : { name: "bitcast_u32_f32"   , nargs: 1 },
    OpBitCastF32U32  : { name: "bitcast_f32_u32"   , nargs: 1 },
    OpPackHalf2x16   : { name: "pack_half_2x16"    , nargs: 1 },
    OpUnpackHalf2x16 : { name: "unpack_half_2x16"  , nargs: 1 },
    OpLogicalAnd : { name: "logical_and" , nargs: 2 },
    OpLogicalOr  : { name: "logical_or"  , nargs: 2 },
    OpLogicalXor : { name: "logical_xor" , nargs: 2 },
    OpLogicalNot : { name: "logical_not" , nargs: 1 },
    OpSelectU1  : { name: "select_u1"  , nargs: 3 },
    OpSelectU8  : { name: "select_u8"  , nargs: 3 },
    OpSelectU16 : { name: "select_u16" , nargs: 3 },
    OpSelectU32 : { name: "select_u32" , nargs: 3 },
    OpSelectU64 : { name: "select_u64" , nargs: 3 },
    OpSelectF16 : { name: "select_f16" , nargs: 3 },
    OpSelectF32 : { name: "select_f32" , nargs: 3 },
    OpSelectF64 : { name: "select_f64" , nargs: 3 },
    OpSLessThan         : { name: "slt" , nargs: 2 },
    OpULessThan         : { name: "ult" , nargs: 2 },
    OpSLessThanEqual    : { name: "sle" , nargs: 2 },
    OpULessThanEqual    : { name: "ule" , nargs: 2 },
    OpSGreaterThan      : { name: "sgt" , nargs: 2 },
    OpUGreaterThan      : { name: "ugt" , nargs: 2 },
    OpSGreaterThanEqual : { name: "sge" , nargs: 2 },
    OpUGreaterThanEqual : { name: "uge" , nargs: 2 },
    OpIEqual            : { name: "ieq" , nargs: 2 },
    OpINotEqual         : { name: "ine" , nargs: 2 },
    OpFPMul32   : { name: "fmul32"   , nargs: 2 },
    OpFPRecip32 : { name: "frecip32" , nargs: 1 },
    OpCompositeConstructF16x2 : { name: "composite_construct_f16x2" , nargs: 2 },
    OpCompositeConstructF16x3 : { name: "composite_construct_f16x3" , nargs: 3 },
    OpCompositeConstructF16x4 : { name: "composite_construct_f16x4" , nargs: 4 },
    OpCompositeInsertF16x2    : { name: "composite_insert_f16x2"    , nargs: 3 },
    OpCompositeInsertF16x3    : { name: "composite_insert_f16x3"    , nargs: 3 },
    OpCompositeInsertF16x4    : { name: "composite_insert_f16x4"    , nargs: 3 },
    OpCompositeExtractF16x2   : { name: "composite_extract_f16x2"   , nargs: 2 },
    OpCompositeExtractF16x3   : { name: "composite_extract_f16x3"   , nargs: 2 },
    OpCompositeExtractF16x4   : { name: "composite_extract_f16x4"   , nargs: 2 },
    OpCompositeConstructF32x2 : { name: "composite_construct_f32x2" , nargs: 2 },
    OpCompositeConstructF32x3 : { name: "composite_construct_f32x3" , nargs: 3 },
    OpCompositeConstructF32x4 : { name: "composite_construct_f32x4" , nargs: 4 },
    OpCompositeInsertF32x2    : { name: "composite_insert_f32x2"    , nargs: 3 },
    OpCompositeInsertF32x3    : { name: "composite_insert_f32x3"    , nargs: 3 },
    OpCompositeInsertF32x4    : { name: "composite_insert_f32x4"    , nargs: 3 },
    OpCompositeExtractF32x2   : { name: "composite_extract_f32x2"   , nargs: 2 },
    OpCompositeExtractF32x3   : { name: "composite_extract_f32x3"   , nargs: 2 },
    OpCompositeExtractF32x4   : { name: "composite_extract_f32x4"   , nargs: 2 },
    OpGetZeroFromOp     : { name: "get_zero_from_op"     , nargs: 1, pseudo: true },
    OpGetSignFromOp     : { name: "get_sign_from_op"     , nargs: 1, pseudo: true },
    OpGetCarryFromOp    : { name: "get_carry_from_op"    , nargs: 1, pseudo: true },
    OpGetOverflowFromOp : { name: "get_overflow_from_op" , nargs: 1, pseudo: true },
}

func (self Opcode) info() _OpcodeInfo {
    if int(self) >= len(_OpcodeTab) || _OpcodeTab[self].name == "" {
        panic(fmt.Sprintf("ir: invalid opcode: %d", self))
    } else {
        return _OpcodeTab[self]
    }
}

// NumArgs returns the fixed argument count of the opcode, or -1 when the
// opcode takes a variable number of arguments.
func (self Opcode) NumArgs() int {
    return self.info().nargs
}

// IsPseudo reports whether the opcode carries the secondary result of
// another instruction. Pseudo-operations pin their primary instruction:
// the primary cannot be replaced wholesale while any of them is alive.
func (self Opcode) IsPseudo() bool {
    return self.info().pseudo
}

// HasSideEffects reports whether the operation writes hardware state or
// transfers control, making it immune to dead code elimination.
func (self Opcode) HasSideEffects() bool {
    return self.info().effect
}

func (self Opcode) String() string {
    return self.info().name
}
