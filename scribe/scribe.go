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

// Package scribe implements the law book recording queue: passed
// proposals awaiting the scribe's entry into the permanent record.
package scribe

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/blinklabs-io/witan/council"
	"github.com/blinklabs-io/witan/database"
	"github.com/blinklabs-io/witan/database/models"
	"github.com/blinklabs-io/witan/event"
)

// Config describes the dependencies for a Queue
type Config struct {
	Database *database.Database
	EventBus *event.EventBus
	Logger   *slog.Logger
	// Now overrides the clock, used in tests
	Now func() time.Time
}

// Queue surfaces passed-but-unrecorded proposals to the scribe and
// records them into the law book.
type Queue struct {
	config Config
	logger *slog.Logger
}

// LawRecord is the archived law book entry stored for each recorded law
type LawRecord struct {
	LegislationNumber string             `json:"legislationNumber"`
	Title             string             `json:"title"`
	Kind              string             `json:"kind"`
	Purpose           string             `json:"purpose"`
	WhereasStatements []string           `json:"whereasStatements,omitempty"`
	Changes           string             `json:"changes,omitempty"`
	BudgetType        string             `json:"budgetType,omitempty"`
	TotalAmount       float64            `json:"totalAmount,omitempty"`
	LineItems         []council.LineItem `json:"lineItems,omitempty"`
	Province          string             `json:"province"`
	Status            string             `json:"status"`
	RecordedBy        string             `json:"recordedBy"`
	RecordedAt        time.Time          `json:"recordedAt"`
}

// New creates a scribe Queue
func New(cfg Config) *Queue {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Queue{
		config: cfg,
		logger: cfg.Logger.With("component", "scribe"),
	}
}

// PendingReview returns the passed proposals not yet recorded in the law
// book, oldest passage first.
func (q *Queue) PendingReview() ([]models.Proposal, error) {
	db := q.config.Database
	var pending []models.Proposal
	for _, status := range []council.Status{
		council.StatusPassed,
		council.StatusPassedEarly,
	} {
		proposals, err := db.ListProposalsByStatus(string(status), nil)
		if err != nil {
			return nil, err
		}
		for _, proposal := range proposals {
			if proposal.LawRecordedAt != nil {
				continue
			}
			pending = append(pending, proposal)
		}
	}
	sort.Slice(pending, func(i, j int) bool {
		return pending[i].ExpiryDate.Before(pending[j].ExpiryDate)
	})
	return pending, nil
}

// Urgent reports whether a pending proposal has waited long enough for
// its review to be considered urgent.
func (q *Queue) Urgent(proposal *models.Proposal) bool {
	return q.config.Now().Sub(proposal.ExpiryDate) > council.ScribeUrgentAfter
}

// MarkAdded records a passed proposal into the law book. Only the scribe
// may record, and the operation is idempotent: a second call returns the
// existing record untouched.
func (q *Queue) MarkAdded(
	proposalId string,
	actingProvince string,
) (*LawRecord, error) {
	if actingProvince != council.ScribeProvince {
		return nil, council.ErrPermissionDenied
	}
	db := q.config.Database
	proposal, err := db.GetProposal(proposalId, nil)
	if err != nil {
		return nil, err
	}
	if !council.Status(proposal.Status).Passed() {
		return nil, &council.ValidationError{
			Field:  "status",
			Reason: "only passed proposals can be recorded",
		}
	}
	// The law book holds the wording the council passed: the active
	// amendment's content when the proposal was amended, the original
	// otherwise
	finalChanges := proposal.Changes
	finalLineItems := proposal.LineItems
	amendment, err := db.GetActiveAmendment(proposal.ID, nil)
	if err != nil {
		return nil, err
	}
	if amendment != nil {
		finalChanges = amendment.AmendedText
		finalLineItems = amendment.AmendedLineItems
	}
	now := q.config.Now()
	applied, err := db.MarkLawRecorded(proposal.ID, actingProvince, now, nil)
	if err != nil {
		return nil, err
	}
	if !applied {
		// Already recorded; return the archived entry as-is
		payload, err := db.GetLawRecord(proposal.LegislationNumber)
		if err != nil {
			return nil, err
		}
		var record LawRecord
		if err := json.Unmarshal(payload, &record); err != nil {
			return nil, fmt.Errorf("decode law record: %w", err)
		}
		return &record, nil
	}
	record := &LawRecord{
		LegislationNumber: proposal.LegislationNumber,
		Title:             proposal.Title,
		Kind:              proposal.Kind,
		Purpose:           proposal.Purpose,
		WhereasStatements: proposal.WhereasStatements,
		Changes:           finalChanges,
		BudgetType:        proposal.BudgetType,
		TotalAmount:       proposal.TotalAmount,
		LineItems:         finalLineItems,
		Province:          proposal.Province,
		Status:            proposal.Status,
		RecordedBy:        actingProvince,
		RecordedAt:        now,
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("encode law record: %w", err)
	}
	if err := db.PutLawRecord(proposal.LegislationNumber, payload); err != nil {
		return nil, err
	}
	q.logger.Info(
		"law recorded",
		"proposal_id", proposalId,
		"legislation_number", proposal.LegislationNumber,
	)
	if q.config.EventBus != nil {
		q.config.EventBus.Publish(
			event.LawRecordedEventType,
			event.NewEvent(
				event.LawRecordedEventType,
				event.LawRecordedEvent{
					ProposalId:        proposal.ProposalId,
					LegislationNumber: proposal.LegislationNumber,
					RecordedBy:        actingProvince,
					RecordedAt:        now,
				},
			),
		)
	}
	return record, nil
}

// LawBook returns every recorded law in legislation-number order
func (q *Queue) LawBook() ([]LawRecord, error) {
	db := q.config.Database
	numbers, err := db.ListLawRecordNumbers()
	if err != nil {
		return nil, err
	}
	records := make([]LawRecord, 0, len(numbers))
	for _, number := range numbers {
		payload, err := db.GetLawRecord(number)
		if err != nil {
			return nil, err
		}
		var record LawRecord
		if err := json.Unmarshal(payload, &record); err != nil {
			return nil, fmt.Errorf("decode law record %s: %w", number, err)
		}
		records = append(records, record)
	}
	return records, nil
}
