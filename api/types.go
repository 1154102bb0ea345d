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
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or
// implied. See the License for the specific language governing
// permissions and limitations under the License.

package api

import (
	"time"

	"github.com/blinklabs-io/witan/council"
	"github.com/blinklabs-io/witan/database/models"
)

// RootResponse is returned by GET /.
type RootResponse struct {
	URL     string `json:"url"`
	Version string `json:"version"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	IsHealthy bool `json:"is_healthy"`
}

// ErrorResponse represents an API error response.
type ErrorResponse struct {
	StatusCode int    `json:"status_code"`
	Error      string `json:"error"`
	Message    string `json:"message"`
}

// LawRequest is the body of POST /api/v1/laws.
type LawRequest struct {
	Province          string   `json:"province"`
	Title             string   `json:"title"`
	Purpose           string   `json:"purpose"`
	WhereasStatements []string `json:"whereas_statements"`
	Changes           string   `json:"changes"`
}

// BudgetRequest is the body of POST /api/v1/budgets.
type BudgetRequest struct {
	Province      string             `json:"province"`
	BudgetType    string             `json:"budget_type"`
	TotalAmount   float64            `json:"total_amount"`
	Purpose       string             `json:"purpose"`
	LineItems     []council.LineItem `json:"line_items"`
	Justification string             `json:"justification"`
}

// ProposalResponse represents a proposal object.
type ProposalResponse struct {
	ProposalId        string             `json:"proposal_id"`
	LegislationNumber string             `json:"legislation_number"`
	Kind              string             `json:"kind"`
	Title             string             `json:"title"`
	Synopsis          string             `json:"synopsis"`
	Purpose           string             `json:"purpose"`
	WhereasStatements []string           `json:"whereas_statements,omitempty"`
	Changes           string             `json:"changes,omitempty"`
	BudgetType        string             `json:"budget_type,omitempty"`
	TotalAmount       float64            `json:"total_amount,omitempty"`
	LineItems         []council.LineItem `json:"line_items,omitempty"`
	Justification     string             `json:"justification,omitempty"`
	Province          string             `json:"province"`
	Mandatory         bool               `json:"mandatory"`
	Status            string             `json:"status"`
	ExpiryDate        time.Time          `json:"expiry_date"`
	LawRecordedAt     *time.Time         `json:"law_recorded_at,omitempty"`
	LawRecordedBy     string             `json:"law_recorded_by,omitempty"`
	CreatedAt         time.Time          `json:"created_at"`
}

func proposalResponse(p *models.Proposal) ProposalResponse {
	return ProposalResponse{
		ProposalId:        p.ProposalId,
		LegislationNumber: p.LegislationNumber,
		Kind:              p.Kind,
		Title:             p.Title,
		Synopsis:          p.Synopsis,
		Purpose:           p.Purpose,
		WhereasStatements: p.WhereasStatements,
		Changes:           p.Changes,
		BudgetType:        p.BudgetType,
		TotalAmount:       p.TotalAmount,
		LineItems:         p.LineItems,
		Justification:     p.Justification,
		Province:          p.Province,
		Mandatory:         p.Mandatory,
		Status:            p.Status,
		ExpiryDate:        p.ExpiryDate,
		LawRecordedAt:     p.LawRecordedAt,
		LawRecordedBy:     p.LawRecordedBy,
		CreatedAt:         p.CreatedAt,
	}
}

// AmendmentRequest is the body of
// POST /api/v1/proposals/{id}/amendments.
type AmendmentRequest struct {
	Province         string             `json:"province"`
	AmendedText      string             `json:"amended_text,omitempty"`
	AmendedLineItems []council.LineItem `json:"amended_line_items,omitempty"`
}

// AmendmentResponse represents an amendment object.
type AmendmentResponse struct {
	AmendmentId      string             `json:"amendment_id"`
	Depth            int                `json:"depth"`
	Province         string             `json:"province"`
	AmendedText      string             `json:"amended_text,omitempty"`
	AmendedLineItems []council.LineItem `json:"amended_line_items,omitempty"`
	Status           string             `json:"status"`
	ExpiryDate       time.Time          `json:"expiry_date"`
	CreatedAt        time.Time          `json:"created_at"`
}

func amendmentResponse(a *models.Amendment) AmendmentResponse {
	return AmendmentResponse{
		AmendmentId:      a.AmendmentId,
		Depth:            a.Depth,
		Province:         a.Province,
		AmendedText:      a.AmendedText,
		AmendedLineItems: a.AmendedLineItems,
		Status:           a.Status,
		ExpiryDate:       a.ExpiryDate,
		CreatedAt:        a.CreatedAt,
	}
}

// VoteRequest is the body of POST /api/v1/proposals/{id}/votes.
type VoteRequest struct {
	Province string `json:"province"`
	Choice   string `json:"choice"`
}

// TallyResponse holds weighted vote counts.
type TallyResponse struct {
	Aye     float64 `json:"aye"`
	Nay     float64 `json:"nay"`
	Present float64 `json:"present"`
	Total   float64 `json:"total"`
}

// VoteResponse is returned by a successful vote.
type VoteResponse struct {
	Target      string        `json:"target"`
	AmendmentId string        `json:"amendment_id,omitempty"`
	Counts      TallyResponse `json:"counts"`
}

// EarlyEndRequest is the body of
// POST /api/v1/proposals/{id}/end-early.
type EarlyEndRequest struct {
	Province string `json:"province"`
}

// EarlyEndResponse is returned by a successful early end.
type EarlyEndResponse struct {
	Status      string  `json:"status"`
	AyeWeight   float64 `json:"aye_weight"`
	TotalWeight float64 `json:"total_weight"`
}

// WithdrawRequest is the body of
// POST /api/v1/proposals/{id}/withdraw.
type WithdrawRequest struct {
	Province string `json:"province"`
}

// DiffLineResponse is a single classified line of a text diff.
type DiffLineResponse struct {
	Text           string `json:"text"`
	Classification string `json:"classification"`
}

// LineItemChangeResponse is a single classified budget line item change.
type LineItemChangeResponse struct {
	Item           council.LineItem  `json:"item"`
	Previous       *council.LineItem `json:"previous,omitempty"`
	Classification string            `json:"classification"`
}

// DiffResponse is returned by
// GET /api/v1/proposals/{id}/amendments/{amendment_id}/diff.
type DiffResponse struct {
	AmendmentId   string                   `json:"amendment_id"`
	Depth         int                      `json:"depth"`
	AdditionColor string                   `json:"addition_color"`
	RemovalColor  string                   `json:"removal_color"`
	Lines         []DiffLineResponse       `json:"lines,omitempty"`
	LineItems     []LineItemChangeResponse `json:"line_items,omitempty"`
}

// ProvinceResponse represents a council roster entry.
type ProvinceResponse struct {
	Name              string  `json:"name"`
	CouncilType       string  `json:"council_type"`
	Weight            float64 `json:"weight"`
	MustResetPassword bool    `json:"must_reset_password,omitempty"`
}

// LoginRequest is the body of POST /api/v1/login.
type LoginRequest struct {
	Province string `json:"province"`
	Password string `json:"password"`
}

// RecordRequest is the body of
// POST /api/v1/proposals/{id}/record.
type RecordRequest struct {
	Province string `json:"province"`
}

// DashboardEntryResponse is a single classified dashboard card.
type DashboardEntryResponse struct {
	Proposal      ProposalResponse `json:"proposal"`
	Bucket        string           `json:"bucket"`
	Result        string           `json:"result,omitempty"`
	TimeRemaining string           `json:"time_remaining"`
}
