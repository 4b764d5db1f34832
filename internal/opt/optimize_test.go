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
    `testing`

    `github.com/stretchr/testify/require`
    `github.com/velvet-emu/shaderc/internal/ir`
)

func opcodes(bb *ir.Block) []ir.Opcode {
    ret := make([]ir.Opcode, 0, len(bb.Ins))
    for _, v := range bb.Ins {
        ret = append(ret, v.Opcode())
    }
    return ret
}

func TestDeadCode_RemovesDeadExpressionTree(t *testing.T) {
    p, e := singleblock()
    x := e.GetRegister(0)

    /* a two level expression tree nobody reads */
    a := e.IAdd32(x, ir.Imm32(1))
    e.IMul32(a, a)

    /* and one that feeds a register write */
    live := e.IAdd32(x, ir.Imm32(2))
    e.SetRegister(1, live)
    new(DeadCode).Apply(p)

    require.Equal(t, []ir.Opcode {
        ir.OpGetRegister,
        ir.OpIAdd32,
        ir.OpSetRegister,
    }, opcodes(p.Entry))
    require.Equal(t, live.Inst(), p.Entry.Ins[1])
}

func TestDeadCode_KeepsEffectfulInstructions(t *testing.T) {
    p, e := singleblock()
    e.SetRegister(0, ir.Imm32(1))
    e.SetPred(0, ir.Imm1(true))
    e.SetAttribute(3, ir.Imm32(2))
    e.Return()
    new(DeadCode).Apply(p)
    require.Len(t, p.Entry.Ins, 4)
}

func TestDeadCode_ReclaimsFoldedIdentities(t *testing.T) {
    p, e := singleblock()
    v := e.IAdd32(ir.Imm32(1), ir.Imm32(2))
    s := e.SetRegister(0, v).Inst()

    constprop(p)
    require.Equal(t, ir.OpIdentity, v.Inst().Opcode())

    new(DeadCode).Apply(p)
    require.Equal(t, []ir.Opcode { ir.OpSetRegister }, opcodes(p.Entry))
    require.Equal(t, ir.Imm32(3), s.Arg(1))
}

func TestIdentityElim_ResolvesStaleReferences(t *testing.T) {
    p, e := singleblock()
    x := e.GetRegister(0)
    v := e.IAdd32(x, ir.Imm32(1))
    s1 := e.SetRegister(1, v).Inst()
    v.Inst().ReplaceUsesWith(ir.Imm32(5))

    /* a consumer emitted from a stale value handle lands on the
     * identity left behind by the replacement */
    s2 := e.SetRegister(2, v).Inst()
    require.Equal(t, ir.Imm32(5), s1.Arg(1))
    require.Equal(t, v, s2.Arg(1))

    new(IdentityElim).Apply(p)
    require.Equal(t, ir.Imm32(5), s2.Arg(1))
    require.Equal(t, 0, v.Inst().UseCount())
}

func TestVerify_AcceptsWellFormedPrograms(t *testing.T) {
    p := ir.CreateProgram()
    bt := p.CreateBlock()
    bf := p.CreateBlock()
    e := ir.NewEmitter(p.Entry)
    x := e.GetRegister(0)
    e.BranchConditional(e.IEqual(x, ir.Imm32(0)), bt, bf)
    et := ir.NewEmitter(bt)
    et.SetRegister(1, et.IAdd32(x, ir.Imm32(1)))
    et.Return()
    ef := ir.NewEmitter(bf)
    ef.SetRegister(1, x)
    ef.Return()

    require.NotPanics(t, func() { new(Verify).Apply(p) })
}

func TestOptimize_Pipeline(t *testing.T) {
    p, e := singleblock()
    x := e.GetRegister(3)

    /* a foldable chain, a constant expression, and a dead tree */
    v := e.IAdd32(e.IAdd32(x, ir.Imm32(5)), ir.Imm32(7))
    s1 := e.SetRegister(1, v).Inst()
    u := e.IAdd32(ir.Imm32(1), ir.Imm32(2))
    s2 := e.SetRegister(2, u).Inst()
    e.IMul32(x, x)
    e.Return()
    Optimize(p)

    /* everything transient is gone, only the work that matters stays */
    require.Equal(t, []ir.Opcode {
        ir.OpGetRegister,
        ir.OpIAdd32,
        ir.OpSetRegister,
        ir.OpSetRegister,
        ir.OpReturn,
    }, opcodes(p.Entry))
    require.Equal(t, x, v.Inst().Arg(0))
    require.Equal(t, ir.Imm32(12), v.Inst().Arg(1))
    require.Equal(t, v, s1.Arg(1))
    require.Equal(t, ir.Imm32(3), s2.Arg(1))
}

func TestOptimize_DiamondControlFlow(t *testing.T) {
    p := ir.CreateProgram()
    bt := p.CreateBlock()
    bf := p.CreateBlock()
    bj := p.CreateBlock()

    e := ir.NewEmitter(p.Entry)
    cond := e.GetPred(2)
    e.BranchConditional(e.LogicalNot(cond), bt, bf)
    et := ir.NewEmitter(bt)
    et.SetRegister(0, et.IAdd32(et.GetRegister(1), ir.Imm32(0)))
    et.Branch(bj)
    ef := ir.NewEmitter(bf)
    ef.SetRegister(0, ir.Imm32(0))
    ef.Branch(bj)
    ir.NewEmitter(bj).Return()
    Optimize(p)

    /* the negation folded into a target swap and the add of zero
     * collapsed into a bare register copy */
    br := p.Entry.Terminator()
    require.Equal(t, cond, br.Arg(0))
    require.Equal(t, bf, br.Arg(1).Label())
    require.Equal(t, bt, br.Arg(2).Label())
    require.Equal(t, []ir.Opcode {
        ir.OpGetRegister,
        ir.OpSetRegister,
        ir.OpBranch,
    }, opcodes(bt))
}
