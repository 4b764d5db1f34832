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
    `github.com/oleiade/lane`
)

// Program is one whole compiled shader: its entry block and every block
// reachable from it.
type Program struct {
    Entry  *Block
    Blocks []*Block
}

func CreateProgram() *Program {
    p := new(Program)
    p.Entry = p.CreateBlock()
    return p
}

func (self *Program) CreateBlock() *Block {
    bb := &Block { Id: len(self.Blocks) }
    self.Blocks = append(self.Blocks, bb)
    return bb
}

// PostOrder returns the blocks in depth-first post-order starting from
// the entry block. Successors are expanded in terminator argument order,
// so the result is deterministic for a given program.
func (self *Program) PostOrder() []*Block {
    ret := make([]*Block, 0, len(self.Blocks))
    vis := make(map[int]struct{}, len(self.Blocks))
    stk := lane.NewStack()

    /* start from the entry block */
    stk.Push(self.Entry)
    vis[self.Entry.Id] = struct{}{}

    /* scan until the stack is empty */
    for !stk.Empty() {
        tail := true
        this := stk.Head().(*Block)

        /* add the first unvisited successor */
        for _, p := range this.Successors() {
            if _, ok := vis[p.Id]; !ok {
                tail = false
                vis[p.Id] = struct{}{}
                stk.Push(p)
                break
            }
        }

        /* all the successors are visited, pop the current node */
        if tail {
            ret = append(ret, stk.Pop().(*Block))
        }
    }
    return ret
}

// ReversePostOrder returns the blocks in reverse post-order: a block's
// predecessors generally come before it, which lets a single forward
// pass see definitions before their uses.
func (self *Program) ReversePostOrder() []*Block {
    ret := self.PostOrder()
    blockreverse(ret)
    return ret
}

func blockreverse(bb []*Block) {
    for i, j := 0, len(bb) - 1; i < j; i, j = i + 1, j - 1 {
        bb[i], bb[j] = bb[j], bb[i]
    }
}
