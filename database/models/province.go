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

package models

import "time"

// Province represents a member of the council. Weight is the province's
// vote weight; a zero weight marks a non-voting seat.
type Province struct {
	ID                uint    `gorm:"primarykey"`
	Name              string  `gorm:"uniqueIndex;size:64;not null"`
	CouncilType       string  `gorm:"size:32;not null"`
	Weight            float64 `gorm:"not null"`
	PasswordHash      []byte  `gorm:"size:60"`
	MustResetPassword bool    `gorm:"not null;default:false"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TableName returns the table name
func (Province) TableName() string {
	return "province"
}
