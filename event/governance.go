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

package event

import "time"

const (
	// ProposalCreatedEventType is the event type for newly submitted proposals
	ProposalCreatedEventType = EventType("proposal.created")
	// ProposalResolvedEventType is the event type for proposals reaching a
	// terminal status (passed, failed, early variants, or withdrawn)
	ProposalResolvedEventType = EventType("proposal.resolved")
	// VoteCastEventType is the event type for recorded votes
	VoteCastEventType = EventType("proposal.vote")
	// AmendmentSubmittedEventType is the event type for new amendments
	AmendmentSubmittedEventType = EventType("proposal.amendment")
	// LawRecordedEventType is the event type for scribe law book entries
	LawRecordedEventType = EventType("lawbook.recorded")
)

// ProposalCreatedEvent is emitted after a proposal and its legislation
// number have been committed to the store.
type ProposalCreatedEvent struct {
	ProposalId        string
	LegislationNumber string
	Kind              string
	Title             string
	Province          string
	ExpiryDate        time.Time
}

// ProposalResolvedEvent is emitted when a proposal leaves the active
// status, whether by expiry close-out, early end, or withdrawal.
type ProposalResolvedEvent struct {
	ProposalId        string
	LegislationNumber string
	Status            string
	AyeWeight         float64
	NayWeight         float64
}

// VoteCastEvent is emitted after a vote is recorded. AmendmentId is empty
// for votes on the proposal itself.
type VoteCastEvent struct {
	ProposalId  string
	AmendmentId string
	Province    string
	Choice      string
}

// AmendmentSubmittedEvent is emitted after an amendment is committed,
// including when it supersedes an earlier amendment.
type AmendmentSubmittedEvent struct {
	ProposalId   string
	AmendmentId  string
	Province     string
	Depth        int
	SupersededId string
	ExpiryDate   time.Time
}

// LawRecordedEvent is emitted when the scribe marks a passed proposal as
// added to the law book.
type LawRecordedEvent struct {
	ProposalId        string
	LegislationNumber string
	RecordedBy        string
	RecordedAt        time.Time
}
