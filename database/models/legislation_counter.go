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

// LegislationCounter is a single-row counter allocating legislation
// numbers. It is read and incremented inside the proposal creation
// transaction so two concurrent submissions can never share a number.
type LegislationCounter struct {
	ID         uint `gorm:"primarykey"`
	NextNumber int  `gorm:"not null"`
}

// TableName returns the table name
func (LegislationCounter) TableName() string {
	return "legislation_counter"
}
