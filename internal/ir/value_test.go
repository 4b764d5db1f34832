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

    `github.com/stretchr/testify/assert`
    `github.com/stretchr/testify/require`
)

func TestValue_Immediates(t *testing.T) {
    require.True(t, Imm1(true).U1())
    require.False(t, Imm1(false).U1())
    require.Equal(t, uint32(0xDEADBEEF), Imm32(0xDEADBEEF).U32())
    require.Equal(t, uint64(1) << 40, Imm64(uint64(1) << 40).U64())
    require.Equal(t, float32(1.5), ImmF32(1.5).F32())
    require.Equal(t, uint32(0x3FC00000), ImmF32(1.5).F32Bits())
    require.Equal(t, Reg(4), RegValue(4).Reg())
    require.Equal(t, PT, PredValue(PT).Pred())
    require.Equal(t, Attribute(12), AttrValue(12).Attribute())
}

func TestValue_Equality(t *testing.T) {
    assert.Equal(t, Imm32(16), Imm32(16))
    assert.NotEqual(t, Imm32(16), Imm32(17))
    assert.NotEqual(t, Imm32(16), Imm64(16))
    assert.NotEqual(t, ImmF32Bits(16), Imm32(16))
    assert.Equal(t, ImmF32(1.5), ImmF32Bits(0x3FC00000))
}

func TestValue_TypeMismatch(t *testing.T) {
    require.Panics(t, func() { Imm32(1).U64() })
    require.Panics(t, func() { Imm1(true).U32() })
    require.Panics(t, func() { Imm32(1).Inst() })
    require.Panics(t, func() { RegValue(0).Pred() })
}

func TestValue_Resolve(t *testing.T) {
    p := CreateProgram()
    e := NewEmitter(p.Entry)
    x := e.GetRegister(0)
    v := e.IAdd32(x, Imm32(1))

    /* an unfolded value resolves to itself */
    require.Equal(t, v, v.Resolve())

    /* degraded instructions resolve through to the replacement */
    v.Inst().ReplaceUsesWith(Imm32(42))
    require.Equal(t, OpIdentity, v.Inst().Opcode())
    require.Equal(t, Imm32(42), v.Resolve())

    /* chains of identities resolve in one step */
    w := e.IAdd32(x, Imm32(2))
    w.Inst().ReplaceUsesWith(v)
    require.Equal(t, Imm32(42), w.Resolve())
}
