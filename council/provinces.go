// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package council

// ProvinceSeed describes one entry of the default council roster
type ProvinceSeed struct {
	Name        string
	CouncilType CouncilType
	Weight      float64
}

// DefaultProvinces returns the historical council roster used to seed a
// fresh installation.
func DefaultProvinces() []ProvinceSeed {
	return []ProvinceSeed{
		{Name: "Hovalen", CouncilType: CouncilTypeUpperCouncil, Weight: 1.5},
		{Name: "Izartil", CouncilType: CouncilTypeUpperCouncil, Weight: 1.5},
		{Name: "Rilra", CouncilType: CouncilTypeLowerCouncil, Weight: 1},
		{Name: "Kobat", CouncilType: CouncilTypeUpperCouncil, Weight: 1.5},
		{Name: "Schrafen", CouncilType: CouncilTypeLowerCouncil, Weight: 1},
		{Name: "Puron", CouncilType: CouncilTypeLowerCouncil, Weight: 1},
		{Name: "Atitia", CouncilType: CouncilTypeLowerCouncil, Weight: 1},
		{Name: "Artayos", CouncilType: CouncilTypeLowerCouncil, Weight: 1},
		{Name: "Capital", CouncilType: CouncilTypeKing, Weight: 2},
		{Name: "Guzia", CouncilType: CouncilTypeTerritory, Weight: 0.5},
		{Name: "Astaria", CouncilType: CouncilTypeTerritory, Weight: 0.5},
		{Name: "Administrator", CouncilType: CouncilTypeAdmin, Weight: 0},
	}
}
