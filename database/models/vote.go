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

// Vote represents a province's ballot on a proposal or on its active
// amendment. AmendmentID is zero for votes on the proposal itself so that
// the unique index covers proposal-level votes as well.
type Vote struct {
	ID          uint   `gorm:"primarykey"`
	ProposalID  uint   `gorm:"index:idx_vote_proposal;uniqueIndex:idx_vote_unique,priority:1;not null"`
	AmendmentID uint   `gorm:"uniqueIndex:idx_vote_unique,priority:2;not null;default:0"`
	Province    string `gorm:"uniqueIndex:idx_vote_unique,priority:3;size:64;not null"`
	Choice      string `gorm:"size:8;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName returns the table name
func (Vote) TableName() string {
	return "vote"
}
