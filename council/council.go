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

// Package council defines the shared domain vocabulary for the witan
// governance service: province roles, proposal kinds and statuses, vote
// choices, and the validation rules applied at the store boundary.
package council

import (
	"fmt"
	"strconv"
	"time"
)

// Well-known province roles. The King may end voting early, the Scribe
// records passed proposals into the law book, and proposals submitted by
// the Administrator are flagged mandatory.
const (
	KingProvince   = "Capital"
	ScribeProvince = "Kobat"
	AdminProvince  = "Administrator"
)

const (
	// VotingPeriod is how long a fresh proposal accepts votes.
	VotingPeriod = 48 * time.Hour
	// AmendmentVotingPeriod is how long an amendment's own sub-vote runs.
	AmendmentVotingPeriod = 3 * 24 * time.Hour
	// ScribeUrgentAfter is how long a passed proposal may sit unrecorded
	// before the scribe's review is considered urgent.
	ScribeUrgentAfter = 2 * 24 * time.Hour
	// UrgentWindow is the remaining-time threshold below which an active
	// proposal is displayed as urgent.
	UrgentWindow = 24 * time.Hour
	// SupermajorityFraction is the share of total electorate weight that
	// must vote aye for the King to pass a proposal early.
	SupermajorityFraction = 0.60
)

const (
	MaxWhereasStatements = 10
	MaxLineItemDescLen   = 100
	SynopsisLen          = 150
	// DefaultMaxAmendmentDepth caps amendment nesting at
	// original -> amendment -> amendment-of-amendment.
	DefaultMaxAmendmentDepth = 2
)

// CouncilType classifies a province's seat in the council and determines
// its default vote weight.
type CouncilType string

const (
	CouncilTypeTerritory    CouncilType = "Territory"
	CouncilTypeLowerCouncil CouncilType = "Lower Council"
	CouncilTypeUpperCouncil CouncilType = "Upper Council"
	CouncilTypeKing         CouncilType = "King"
	CouncilTypeAdmin        CouncilType = "Admin"
)

// Valid returns true for a known council type
func (t CouncilType) Valid() bool {
	switch t {
	case CouncilTypeTerritory, CouncilTypeLowerCouncil,
		CouncilTypeUpperCouncil, CouncilTypeKing, CouncilTypeAdmin:
		return true
	default:
		return false
	}
}

// DefaultWeight returns the vote weight conventionally assigned to the
// council type. An admin carries no vote.
func (t CouncilType) DefaultWeight() float64 {
	switch t {
	case CouncilTypeTerritory:
		return 0.5
	case CouncilTypeLowerCouncil:
		return 1
	case CouncilTypeUpperCouncil:
		return 1.5
	case CouncilTypeKing:
		return 2
	default:
		return 0
	}
}

// VoteChoice is a province's recorded ballot on a proposal or amendment
type VoteChoice string

const (
	VoteAye     VoteChoice = "aye"
	VoteNay     VoteChoice = "nay"
	VotePresent VoteChoice = "present"
)

// Valid returns true for a known vote choice
func (v VoteChoice) Valid() bool {
	switch v {
	case VoteAye, VoteNay, VotePresent:
		return true
	default:
		return false
	}
}

// Status is a proposal's lifecycle state. Transitions out of StatusActive
// are monotonic: a resolved proposal never becomes active again.
type Status string

const (
	StatusActive      Status = "active"
	StatusPassed      Status = "passed"
	StatusFailed      Status = "failed"
	StatusPassedEarly Status = "passedEarly"
	StatusFailedEarly Status = "failedEarly"
	StatusWithdrawn   Status = "withdrawn"
)

// Terminal returns true when no further voting or amendment is possible
func (s Status) Terminal() bool {
	return s != StatusActive
}

// Passed returns true for statuses eligible for the law book
func (s Status) Passed() bool {
	return s == StatusPassed || s == StatusPassedEarly
}

// ResultLabel returns the display label for a resolved status, or an
// empty string when the status carries no result.
func (s Status) ResultLabel() string {
	switch s {
	case StatusPassed:
		return "PASSED"
	case StatusFailed:
		return "FAILED"
	case StatusPassedEarly:
		return "PASSED (Early)"
	case StatusFailedEarly:
		return "FAILED (Early)"
	case StatusWithdrawn:
		return "WITHDRAWN"
	default:
		return ""
	}
}

// AmendmentStatus tracks whether an amendment is the proposal's current
// voting target or has been superseded by a later amendment.
type AmendmentStatus string

const (
	AmendmentActive     AmendmentStatus = "active"
	AmendmentSuperseded AmendmentStatus = "superseded"
)

// ProposalKind distinguishes law proposals from budget proposals
type ProposalKind string

const (
	KindLaw    ProposalKind = "law"
	KindBudget ProposalKind = "budget"
)

// BudgetType is the treasury a budget proposal draws on
type BudgetType string

const (
	BudgetTypeKing    BudgetType = "King's Budget"
	BudgetTypeCouncil BudgetType = "Council Budget"
)

// Valid returns true for a known budget type
func (b BudgetType) Valid() bool {
	return b == BudgetTypeKing || b == BudgetTypeCouncil
}

// LineItem is a single named allocation within a budget proposal
type LineItem struct {
	Title       string  `json:"title"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
}

// FormatLegislationNumber renders a legislation number zero-padded to
// three digits, matching the historical numbering of the law book.
func FormatLegislationNumber(n int) string {
	return fmt.Sprintf("%03d", n)
}

// ParseLegislationNumber parses a zero-padded legislation number. Returns
// 0 for unparseable input so that malformed historical rows never win a
// max-number scan.
func ParseLegislationNumber(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// Synopsis derives the card synopsis from a proposal's purpose text
func Synopsis(purpose string) string {
	if len(purpose) <= SynopsisLen {
		return purpose
	}
	return purpose[:SynopsisLen] + "..."
}

// BudgetTitle derives the auto-generated display title for a budget
// proposal from its type and legislation number.
func BudgetTitle(budgetType BudgetType, legislationNumber string) string {
	return fmt.Sprintf("Budget for %s - #%s", budgetType, legislationNumber)
}

// TimeRemaining formats the time between now and expiry for display on
// proposal cards ("2d 3h", "3h 12m", "12m", or "Expired").
func TimeRemaining(now, expiry time.Time) string {
	diff := expiry.Sub(now)
	if diff <= 0 {
		return "Expired"
	}
	days := int(diff / (24 * time.Hour))
	hours := int(diff % (24 * time.Hour) / time.Hour)
	minutes := int(diff % time.Hour / time.Minute)
	if days > 0 {
		return fmt.Sprintf("%dd %dh", days, hours)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}
