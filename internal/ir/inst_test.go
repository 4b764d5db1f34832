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
    `testing`

    `github.com/stretchr/testify/require`
)

func TestInst_UseTracking(t *testing.T) {
    p := CreateProgram()
    e := NewEmitter(p.Entry)
    x := e.GetRegister(0)
    y := e.GetRegister(1)
    v := e.IAdd32(x, y)

    require.Equal(t, 1, x.Inst().UseCount())
    require.Equal(t, 1, y.Inst().UseCount())
    require.Equal(t, []Use { { Inst: v.Inst(), Arg: 0 } }, x.Inst().Uses())

    /* swapping an argument moves the use edge */
    v.Inst().SetArg(0, Imm32(7))
    require.Equal(t, 0, x.Inst().UseCount())
    require.Equal(t, 1, y.Inst().UseCount())
    require.Equal(t, Imm32(7), v.Inst().Arg(0))
}

func TestInst_ReplaceUsesWith(t *testing.T) {
    p := CreateProgram()
    e := NewEmitter(p.Entry)
    x := e.GetRegister(0)
    v := e.IAdd32(x, Imm32(1))
    a := e.IMul32(v, v)
    b := e.SetRegister(2, v)

    require.Equal(t, 3, v.Inst().UseCount())
    v.Inst().ReplaceUsesWith(Imm32(9))

    /* every consumer now reads the replacement */
    require.Equal(t, Imm32(9), a.Inst().Arg(0))
    require.Equal(t, Imm32(9), a.Inst().Arg(1))
    require.Equal(t, Imm32(9), b.Inst().Arg(1))

    /* the replaced instruction degrades to an identity and lets go
     * of its own operands */
    require.Equal(t, OpIdentity, v.Inst().Opcode())
    require.Equal(t, Imm32(9), v.Inst().Arg(0))
    require.Equal(t, 0, v.Inst().UseCount())
    require.Equal(t, 0, x.Inst().UseCount())
}

func TestInst_PseudoOperationPinsPrimary(t *testing.T) {
    p := CreateProgram()
    e := NewEmitter(p.Entry)
    x := e.GetRegister(0)
    v := e.IAdd32(x, Imm32(1))
    c := e.GetCarryFromOp(v)

    require.True(t, v.Inst().HasAssociatedPseudoOperation())
    require.False(t, c.Inst().HasAssociatedPseudoOperation())
    require.Panics(t, func() { v.Inst().ReplaceUsesWith(Imm32(0)) })
}

func TestInst_ReplaceOpcode(t *testing.T) {
    p := CreateProgram()
    e := NewEmitter(p.Entry)
    cb := e.GetCbufU32(Imm32(1), Imm32(0x40))
    v := e.BitCastF32U32(cb)

    /* grow from one argument to two, then retype the read */
    v.Inst().ReplaceOpcode(OpGetCbufF32)
    require.Equal(t, 2, v.Inst().NumArgs())
    v.Inst().SetArg(0, cb.Inst().Arg(0))
    v.Inst().SetArg(1, cb.Inst().Arg(1))

    require.Equal(t, OpGetCbufF32, v.Inst().Opcode())
    require.Equal(t, Imm32(1), v.Inst().Arg(0))
    require.Equal(t, Imm32(0x40), v.Inst().Arg(1))
    require.Equal(t, 0, cb.Inst().UseCount())
}

func TestInst_ArityChecked(t *testing.T) {
    require.Panics(t, func() { newInst(OpIAdd32, Imm32(1)) })
    require.Panics(t, func() { newInst(OpLogicalNot, Imm1(true), Imm1(false)) })
}
