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

// Proposal represents a piece of legislation before the council. Law
// proposals fill in WhereasStatements and Changes; budget proposals fill
// in BudgetType, TotalAmount, LineItems, and Justification.
type Proposal struct {
	ID                uint               `gorm:"primarykey"`
	ProposalId        string             `gorm:"uniqueIndex;size:36;not null"`
	LegislationNumber string             `gorm:"uniqueIndex;size:8;not null"`
	Kind              string             `gorm:"index;size:16;not null"`
	Title             string             `gorm:"size:256;not null"`
	Synopsis          string             `gorm:"size:256;not null"`
	Purpose           string             `gorm:"not null"`
	WhereasStatements []string           `gorm:"serializer:json"`
	Changes           string
	BudgetType        string             `gorm:"size:32"`
	TotalAmount       float64
	LineItems         []council.LineItem `gorm:"serializer:json"`
	Justification     string
	Province          string             `gorm:"index;size:64;not null"`
	Mandatory         bool               `gorm:"not null"`
	Status            string             `gorm:"index;size:16;not null"`
	ExpiryDate        time.Time          `gorm:"index;not null"`
	LawRecordedAt     *time.Time         `gorm:"index"`
	LawRecordedBy     string             `gorm:"size:64"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TableName returns the table name
func (Proposal) TableName() string {
	return "proposal"
}
