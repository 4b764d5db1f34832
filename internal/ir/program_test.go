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

/* build a diamond:
 *        bb_0
 *       /    \
 *    bb_1    bb_2
 *       \    /
 *        bb_3      */
func builddiamond() *Program {
    p := CreateProgram()
    t := p.CreateBlock()
    f := p.CreateBlock()
    j := p.CreateBlock()

    e := NewEmitter(p.Entry)
    e.BranchConditional(e.GetPred(0), t, f)
    NewEmitter(t).Branch(j)
    NewEmitter(f).Branch(j)
    NewEmitter(j).Return()
    return p
}

func blockids(bb []*Block) []int {
    ret := make([]int, 0, len(bb))
    for _, b := range bb {
        ret = append(ret, b.Id)
    }
    return ret
}

func TestProgram_PostOrder(t *testing.T) {
    p := builddiamond()

    /* the join comes first, the entry last; the true branch is
     * expanded before the false branch */
    require.Equal(t, []int { 3, 1, 2, 0 }, blockids(p.PostOrder()))
    require.Equal(t, []int { 0, 2, 1, 3 }, blockids(p.ReversePostOrder()))
}

func TestProgram_OrderIsDeterministic(t *testing.T) {
    p := builddiamond()
    first := blockids(p.ReversePostOrder())
    for i := 0; i < 16; i++ {
        require.Equal(t, first, blockids(p.ReversePostOrder()))
    }
}

func TestProgram_Successors(t *testing.T) {
    p := builddiamond()
    require.Equal(t, []int { 1, 2 }, blockids(p.Entry.Successors()))
    require.Equal(t, []int { 3 }, blockids(p.Blocks[1].Successors()))
    require.Nil(t, p.Blocks[3].Successors())
    require.Equal(t, []int { 0 }, blockids(p.Blocks[1].Pred))
    require.Equal(t, []int { 1, 2 }, blockids(p.Blocks[3].Pred))
}
