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

// Package lifecycle implements the proposal state machine: creation and
// legislation numbering, weighted voting with expiry close-out, the King's
// early termination, withdrawal, and the amendment sub-machine.
package lifecycle

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/blinklabs-io/witan/council"
	"github.com/blinklabs-io/witan/database"
	"github.com/blinklabs-io/witan/database/models"
	"github.com/blinklabs-io/witan/event"
	"github.com/blinklabs-io/witan/tally"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

// Config describes the dependencies and tunables for a Manager
type Config struct {
	Database          *database.Database
	EventBus          *event.EventBus
	Logger            *slog.Logger
	PromRegistry      prometheus.Registerer
	MaxAmendmentDepth int
	// Now overrides the clock, used in tests
	Now func() time.Time
}

// Manager applies lifecycle operations against the store. All mutating
// operations reload authoritative state inside a single transaction, so
// two concurrent calls cannot act on stale snapshots of each other.
type Manager struct {
	config  Config
	logger  *slog.Logger
	metrics *managerMetrics
}

// VoteTarget identifies what a recorded vote applied to
type VoteTarget string

const (
	VoteTargetProposal  VoteTarget = "proposal"
	VoteTargetAmendment VoteTarget = "amendment"
)

// VoteResult reports a recorded vote and the recomputed tally of its target
type VoteResult struct {
	Target      VoteTarget
	AmendmentId string
	Counts      tally.Counts
}

// EarlyEndResult reports the outcome of the King's early termination
type EarlyEndResult struct {
	Status      council.Status
	AyeWeight   float64
	TotalWeight float64
}

// New creates a lifecycle Manager
func New(cfg Config) *Manager {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if cfg.MaxAmendmentDepth <= 0 {
		cfg.MaxAmendmentDepth = council.DefaultMaxAmendmentDepth
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	m := &Manager{
		config: cfg,
		logger: cfg.Logger.With("component", "lifecycle"),
	}
	if cfg.PromRegistry != nil {
		m.metrics = newManagerMetrics(cfg.PromRegistry)
	}
	return m
}

// CreateLaw validates and persists a new law proposal. The legislation
// number is allocated from the counter inside the same transaction as the
// proposal row.
func (m *Manager) CreateLaw(
	province string,
	draft council.LawDraft,
) (*models.Proposal, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	now := m.config.Now()
	proposal := &models.Proposal{
		ProposalId:        uuid.NewString(),
		Kind:              string(council.KindLaw),
		Title:             draft.Title,
		Synopsis:          council.Synopsis(draft.Purpose),
		Purpose:           draft.Purpose,
		WhereasStatements: draft.WhereasStatements,
		Changes:           draft.Changes,
		Province:          province,
		Mandatory:         province == council.AdminProvince,
		Status:            string(council.StatusActive),
		ExpiryDate:        now.Add(council.VotingPeriod),
	}
	if err := m.createProposal(proposal); err != nil {
		return nil, err
	}
	return proposal, nil
}

// CreateBudget validates and persists a new budget proposal. The title is
// derived from the budget type and the allocated legislation number.
func (m *Manager) CreateBudget(
	province string,
	draft council.BudgetDraft,
) (*models.Proposal, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	now := m.config.Now()
	proposal := &models.Proposal{
		ProposalId:    uuid.NewString(),
		Kind:          string(council.KindBudget),
		Synopsis:      council.Synopsis(draft.Purpose),
		Purpose:       draft.Purpose,
		BudgetType:    string(draft.BudgetType),
		TotalAmount:   draft.TotalAmount,
		LineItems:     draft.LineItems,
		Justification: draft.Justification,
		Province:      province,
		Mandatory:     province == council.AdminProvince,
		Status:        string(council.StatusActive),
		ExpiryDate:    now.Add(council.VotingPeriod),
	}
	if err := m.createProposal(proposal); err != nil {
		return nil, err
	}
	return proposal, nil
}

func (m *Manager) createProposal(proposal *models.Proposal) error {
	db := m.config.Database
	err := db.Transaction(func(tx *gorm.DB) error {
		number, err := db.NextLegislationNumber(tx)
		if err != nil {
			return err
		}
		proposal.LegislationNumber = number
		if proposal.Kind == string(council.KindBudget) {
			proposal.Title = council.BudgetTitle(
				council.BudgetType(proposal.BudgetType),
				number,
			)
		}
		return db.CreateProposal(proposal, tx)
	})
	if err != nil {
		return fmt.Errorf("create proposal: %w", err)
	}
	m.logger.Info(
		"proposal created",
		"proposal_id", proposal.ProposalId,
		"legislation_number", proposal.LegislationNumber,
		"kind", proposal.Kind,
		"province", proposal.Province,
	)
	if m.metrics != nil {
		m.metrics.proposalsCreated.WithLabelValues(proposal.Kind).Inc()
	}
	m.publish(
		event.ProposalCreatedEventType,
		event.ProposalCreatedEvent{
			ProposalId:        proposal.ProposalId,
			LegislationNumber: proposal.LegislationNumber,
			Kind:              proposal.Kind,
			Title:             proposal.Title,
			Province:          proposal.Province,
			ExpiryDate:        proposal.ExpiryDate,
		},
	)
	return nil
}

// CastVote records a province's vote on a proposal, targeting the active
// amendment when one exists. A vote arriving after the proposal's expiry
// closes voting out instead: the status becomes passed or failed from the
// proposal's recorded votes, the late vote is not recorded, and the caller
// receives a VotingClosedError carrying the new status.
func (m *Manager) CastVote(
	proposalId string,
	province string,
	choice council.VoteChoice,
) (*VoteResult, error) {
	if !choice.Valid() {
		return nil, &council.ValidationError{
			Field:  "choice",
			Reason: "must be aye, nay, or present",
		}
	}
	db := m.config.Database
	now := m.config.Now()
	var result *VoteResult
	var resolved *event.ProposalResolvedEvent
	var closedStatus council.Status
	err := db.Transaction(func(tx *gorm.DB) error {
		proposal, err := db.GetProposal(proposalId, tx)
		if err != nil {
			return err
		}
		if council.Status(proposal.Status) == council.StatusActive &&
			!now.Before(proposal.ExpiryDate) {
			// The close-out must commit even though the vote is rejected,
			// so the voting-closed signal is returned outside the
			// transaction.
			status, counts, err := m.closeOutExpired(proposal, tx)
			if err != nil {
				return err
			}
			closedStatus = status
			resolved = &event.ProposalResolvedEvent{
				ProposalId:        proposal.ProposalId,
				LegislationNumber: proposal.LegislationNumber,
				Status:            string(status),
				AyeWeight:         counts.Aye,
				NayWeight:         counts.Nay,
			}
			return nil
		}
		if council.Status(proposal.Status).Terminal() {
			return &council.VotingClosedError{
				Status: council.Status(proposal.Status),
			}
		}
		amendment, err := db.GetActiveAmendment(proposal.ID, tx)
		if err != nil {
			return err
		}
		vote := &models.Vote{
			ProposalID: proposal.ID,
			Province:   province,
			Choice:     string(choice),
		}
		target := VoteTargetProposal
		amendmentId := ""
		if amendment != nil {
			vote.AmendmentID = amendment.ID
			target = VoteTargetAmendment
			amendmentId = amendment.AmendmentId
		}
		if err := db.SetVote(vote, tx); err != nil {
			return err
		}
		counts, err := m.tallyVotes(proposal.ID, vote.AmendmentID, tx)
		if err != nil {
			return err
		}
		result = &VoteResult{
			Target:      target,
			AmendmentId: amendmentId,
			Counts:      counts,
		}
		return nil
	})
	if resolved != nil {
		m.reportResolved(*resolved)
	}
	if err != nil {
		return nil, err
	}
	if closedStatus != "" {
		return nil, &council.VotingClosedError{Status: closedStatus}
	}
	m.logger.Info(
		"vote cast",
		"proposal_id", proposalId,
		"province", province,
		"choice", string(choice),
		"target", string(result.Target),
	)
	if m.metrics != nil {
		m.metrics.votesCast.WithLabelValues(string(choice)).Inc()
	}
	m.publish(
		event.VoteCastEventType,
		event.VoteCastEvent{
			ProposalId:  proposalId,
			AmendmentId: result.AmendmentId,
			Province:    province,
			Choice:      string(choice),
		},
	)
	return result, nil
}

// closeOutExpired resolves an expired active proposal from its recorded
// votes: aye above nay passes, anything else (including a tie) fails.
func (m *Manager) closeOutExpired(
	proposal *models.Proposal,
	tx *gorm.DB,
) (council.Status, tally.Counts, error) {
	counts, err := m.tallyVotes(proposal.ID, 0, tx)
	if err != nil {
		return "", tally.Counts{}, err
	}
	status := council.StatusFailed
	if counts.Aye > counts.Nay {
		status = council.StatusPassed
	}
	if err := m.config.Database.UpdateProposalStatus(
		proposal.ID,
		string(status),
		tx,
	); err != nil {
		return "", tally.Counts{}, err
	}
	proposal.Status = string(status)
	return status, counts, nil
}

// EndVotingEarly closes voting immediately at the King's request. The
// supermajority bar is measured against the total electorate weight, not
// just the weight of votes cast.
func (m *Manager) EndVotingEarly(
	proposalId string,
	actingProvince string,
) (*EarlyEndResult, error) {
	if actingProvince != council.KingProvince {
		return nil, council.ErrPermissionDenied
	}
	db := m.config.Database
	now := m.config.Now()
	var result *EarlyEndResult
	var resolved *event.ProposalResolvedEvent
	err := db.Transaction(func(tx *gorm.DB) error {
		proposal, err := db.GetProposal(proposalId, tx)
		if err != nil {
			return err
		}
		if council.Status(proposal.Status).Terminal() {
			return &council.VotingClosedError{
				Status: council.Status(proposal.Status),
			}
		}
		counts, err := m.tallyVotes(proposal.ID, 0, tx)
		if err != nil {
			return err
		}
		weights, err := db.ProvinceWeights(tx)
		if err != nil {
			return err
		}
		totalWeight := tally.TotalWeight(weights)
		status := council.StatusFailedEarly
		if tally.MeetsSupermajority(
			counts.Aye,
			totalWeight,
			council.SupermajorityFraction,
		) {
			status = council.StatusPassedEarly
		}
		updates := map[string]any{
			"status":      string(status),
			"expiry_date": now,
		}
		if res := tx.Model(&models.Proposal{}).
			Where("id = ?", proposal.ID).
			Updates(updates); res.Error != nil {
			return res.Error
		}
		result = &EarlyEndResult{
			Status:      status,
			AyeWeight:   counts.Aye,
			TotalWeight: totalWeight,
		}
		resolved = &event.ProposalResolvedEvent{
			ProposalId:        proposal.ProposalId,
			LegislationNumber: proposal.LegislationNumber,
			Status:            string(status),
			AyeWeight:         counts.Aye,
			NayWeight:         counts.Nay,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	m.logger.Info(
		"voting ended early",
		"proposal_id", proposalId,
		"status", string(result.Status),
		"aye_weight", result.AyeWeight,
		"total_weight", result.TotalWeight,
	)
	m.reportResolved(*resolved)
	return result, nil
}

// Withdraw retracts an active proposal. Only the proposer may withdraw,
// and the action is irreversible.
func (m *Manager) Withdraw(
	proposalId string,
	actingProvince string,
) error {
	db := m.config.Database
	now := m.config.Now()
	var resolved *event.ProposalResolvedEvent
	err := db.Transaction(func(tx *gorm.DB) error {
		proposal, err := db.GetProposal(proposalId, tx)
		if err != nil {
			return err
		}
		if proposal.Province != actingProvince {
			return council.ErrPermissionDenied
		}
		if council.Status(proposal.Status).Terminal() {
			return &council.VotingClosedError{
				Status: council.Status(proposal.Status),
			}
		}
		updates := map[string]any{
			"status":      string(council.StatusWithdrawn),
			"expiry_date": now,
		}
		if res := tx.Model(&models.Proposal{}).
			Where("id = ?", proposal.ID).
			Updates(updates); res.Error != nil {
			return res.Error
		}
		resolved = &event.ProposalResolvedEvent{
			ProposalId:        proposal.ProposalId,
			LegislationNumber: proposal.LegislationNumber,
			Status:            string(council.StatusWithdrawn),
		}
		return nil
	})
	if err != nil {
		return err
	}
	m.logger.Info(
		"proposal withdrawn",
		"proposal_id", proposalId,
		"province", actingProvince,
	)
	m.reportResolved(*resolved)
	return nil
}

// AmendmentContent is the replacement content for a new amendment. Text
// applies to law proposals, LineItems to budget proposals.
type AmendmentContent struct {
	Text      string
	LineItems []council.LineItem
}

// SubmitAmendment attaches replacement content to an active proposal. A
// second amendment supersedes the first and deepens the nesting by one,
// up to the configured cap. Every submission resets the parent proposal's
// own votes for a fresh start on the new text.
func (m *Manager) SubmitAmendment(
	proposalId string,
	province string,
	content AmendmentContent,
) (*models.Amendment, error) {
	db := m.config.Database
	now := m.config.Now()
	var amendment *models.Amendment
	var supersededId string
	var closedStatus council.Status
	var resolved *event.ProposalResolvedEvent
	err := db.Transaction(func(tx *gorm.DB) error {
		proposal, err := db.GetProposal(proposalId, tx)
		if err != nil {
			return err
		}
		if council.Status(proposal.Status) == council.StatusActive &&
			!now.Before(proposal.ExpiryDate) {
			status, counts, err := m.closeOutExpired(proposal, tx)
			if err != nil {
				return err
			}
			closedStatus = status
			resolved = &event.ProposalResolvedEvent{
				ProposalId:        proposal.ProposalId,
				LegislationNumber: proposal.LegislationNumber,
				Status:            string(status),
				AyeWeight:         counts.Aye,
				NayWeight:         counts.Nay,
			}
			return nil
		}
		if council.Status(proposal.Status).Terminal() {
			return &council.VotingClosedError{
				Status: council.Status(proposal.Status),
			}
		}
		switch council.ProposalKind(proposal.Kind) {
		case council.KindLaw:
			if err := council.ValidateAmendedText(content.Text); err != nil {
				return err
			}
		case council.KindBudget:
			if err := council.ValidateAmendedLineItems(content.LineItems); err != nil {
				return err
			}
		}
		current, err := db.GetActiveAmendment(proposal.ID, tx)
		if err != nil {
			return err
		}
		depth := 1
		var parentAmendmentID uint
		if current != nil {
			if current.Depth >= m.config.MaxAmendmentDepth {
				return council.ErrAmendmentDepthExceeded
			}
			depth = current.Depth + 1
			parentAmendmentID = current.ID
			if err := db.SetAmendmentStatus(
				current.ID,
				string(council.AmendmentSuperseded),
				tx,
			); err != nil {
				return err
			}
			supersededId = current.AmendmentId
		}
		amendment = &models.Amendment{
			AmendmentId:       uuid.NewString(),
			ProposalID:        proposal.ID,
			ParentAmendmentID: parentAmendmentID,
			Depth:             depth,
			Province:          province,
			AmendedText:       content.Text,
			AmendedLineItems:  content.LineItems,
			Status:            string(council.AmendmentActive),
			ExpiryDate:        now.Add(council.AmendmentVotingPeriod),
		}
		if err := db.CreateAmendment(amendment, tx); err != nil {
			return err
		}
		// Fresh start: the parent proposal's own votes are cleared on
		// every amendment submission
		return db.DeleteVotes(proposal.ID, 0, tx)
	})
	if resolved != nil {
		m.reportResolved(*resolved)
	}
	if err != nil {
		return nil, err
	}
	if closedStatus != "" {
		return nil, &council.VotingClosedError{Status: closedStatus}
	}
	m.logger.Info(
		"amendment submitted",
		"proposal_id", proposalId,
		"amendment_id", amendment.AmendmentId,
		"province", province,
		"depth", amendment.Depth,
	)
	if m.metrics != nil {
		m.metrics.amendmentsSubmitted.Inc()
	}
	m.publish(
		event.AmendmentSubmittedEventType,
		event.AmendmentSubmittedEvent{
			ProposalId:   proposalId,
			AmendmentId:  amendment.AmendmentId,
			Province:     province,
			Depth:        amendment.Depth,
			SupersededId: supersededId,
			ExpiryDate:   amendment.ExpiryDate,
		},
	)
	return amendment, nil
}

// CurrentContent returns the content a new amendment would be diffed
// against: the active amendment's content when one exists, otherwise the
// proposal's own.
func (m *Manager) CurrentContent(
	proposalId string,
) (AmendmentContent, error) {
	db := m.config.Database
	proposal, err := db.GetProposal(proposalId, nil)
	if err != nil {
		return AmendmentContent{}, err
	}
	amendment, err := db.GetActiveAmendment(proposal.ID, nil)
	if err != nil {
		return AmendmentContent{}, err
	}
	if amendment != nil {
		return AmendmentContent{
			Text:      amendment.AmendedText,
			LineItems: amendment.AmendedLineItems,
		}, nil
	}
	return AmendmentContent{
		Text:      proposal.Changes,
		LineItems: proposal.LineItems,
	}, nil
}

// Tally recomputes the weighted counts for a proposal scope from the
// stored votes. An amendmentID of zero tallies the proposal itself.
func (m *Manager) Tally(
	proposalID uint,
	amendmentID uint,
) (tally.Counts, error) {
	return m.tallyVotes(proposalID, amendmentID, nil)
}

func (m *Manager) tallyVotes(
	proposalID uint,
	amendmentID uint,
	tx *gorm.DB,
) (tally.Counts, error) {
	db := m.config.Database
	choices, err := db.VoteChoices(proposalID, amendmentID, tx)
	if err != nil {
		return tally.Counts{}, err
	}
	weights, err := db.ProvinceWeights(tx)
	if err != nil {
		return tally.Counts{}, err
	}
	return tally.Calculate(choices, weights), nil
}

func (m *Manager) reportResolved(evt event.ProposalResolvedEvent) {
	m.logger.Info(
		"proposal resolved",
		"proposal_id", evt.ProposalId,
		"status", evt.Status,
	)
	if m.metrics != nil {
		m.metrics.proposalsResolved.WithLabelValues(evt.Status).Inc()
	}
	m.publish(event.ProposalResolvedEventType, evt)
}

func (m *Manager) publish(eventType event.EventType, data any) {
	if m.config.EventBus == nil {
		return
	}
	m.config.EventBus.Publish(eventType, event.NewEvent(eventType, data))
}

// IsVotingClosed reports whether err is a voting-closed signal and, if
// so, the status voting closed with.
func IsVotingClosed(err error) (council.Status, bool) {
	var closedErr *council.VotingClosedError
	if errors.As(err, &closedErr) {
		return closedErr.Status, true
	}
	return "", false
}
