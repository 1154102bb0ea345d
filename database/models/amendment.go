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

import (
	"time"

	"github.com/blinklabs-io/witan/council"
)

// Amendment represents proposed replacement content for a proposal (or for
// an earlier amendment, when Depth is greater than one). At most one
// amendment per proposal is active; submitting a new one supersedes it.
type Amendment struct {
	ID                uint               `gorm:"primarykey"`
	AmendmentId       string             `gorm:"uniqueIndex;size:36;not null"`
	ProposalID        uint               `gorm:"index;not null"`
	ParentAmendmentID uint               `gorm:"index"`
	Depth             int                `gorm:"not null"`
	Province          string             `gorm:"index;size:64;not null"`
	AmendedText       string
	AmendedLineItems  []council.LineItem `gorm:"serializer:json"`
	Status            string             `gorm:"index;size:16;not null"`
	ExpiryDate        time.Time          `gorm:"index;not null"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TableName returns the table name
func (Amendment) TableName() string {
	return "amendment"
}
