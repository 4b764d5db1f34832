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

type FpRounding uint8

const (
    FpRoundNearest FpRounding = iota
    FpRoundDown
    FpRoundUp
    FpRoundTowardZero
)

type FmzMode uint8

const (
    FmzNone FmzMode = iota
    FmzFTZ
    FmzDAZ
)

// FpControl carries per-instruction floating point behavior lowered from
// the hardware instruction encoding. NoContraction forbids algebraic
// rewrites that could change the rounding of the result.
type FpControl struct {
    NoContraction bool
    Rounding      FpRounding
    Fmz           FmzMode
}
