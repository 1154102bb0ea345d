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
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/blinklabs-io/witan/council"
	"github.com/blinklabs-io/witan/dashboard"
	"github.com/blinklabs-io/witan/database/models"
	"github.com/blinklabs-io/witan/diff"
	"github.com/blinklabs-io/witan/lifecycle"
	"github.com/blinklabs-io/witan/tally"
)

const apiVersion = "0.1.0"

// writeJSON writes a JSON response with the given status code.
func writeJSON(
	w http.ResponseWriter,
	status int,
	v any,
) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck,errchkjson
	json.NewEncoder(w).Encode(v)
}

// writeError writes an API-format error response.
func writeError(
	w http.ResponseWriter,
	status int,
	errStr string,
	message string,
) {
	writeJSON(w, status, ErrorResponse{
		StatusCode: status,
		Error:      errStr,
		Message:    message,
	})
}

// writeServiceError maps a governance error onto an HTTP response.
func writeServiceError(w http.ResponseWriter, err error) {
	var validationErr *council.ValidationError
	var closedErr *council.VotingClosedError
	switch {
	case errors.Is(err, council.ErrNotFound):
		writeError(
			w,
			http.StatusNotFound,
			"Not Found",
			"the requested resource does not exist",
		)
	case errors.Is(err, council.ErrPermissionDenied):
		writeError(
			w,
			http.StatusForbidden,
			"Forbidden",
			"the acting province may not perform this operation",
		)
	case errors.As(err, &validationErr):
		writeError(
			w,
			http.StatusBadRequest,
			"Bad Request",
			validationErr.Error(),
		)
	case errors.As(err, &closedErr):
		writeError(
			w,
			http.StatusConflict,
			"Conflict",
			closedErr.Error(),
		)
	case errors.Is(err, council.ErrAmendmentDepthExceeded):
		writeError(
			w,
			http.StatusConflict,
			"Conflict",
			err.Error(),
		)
	default:
		writeError(
			w,
			http.StatusInternalServerError,
			"Internal Server Error",
			"an internal error occurred",
		)
	}
}

// decodeRequest decodes a JSON request body, writing a 400 response on
// failure.
func decodeRequest(
	w http.ResponseWriter,
	r *http.Request,
	v any,
) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(
			w,
			http.StatusBadRequest,
			"Bad Request",
			"invalid request body",
		)
		return false
	}
	return true
}

func tallyResponse(counts tally.Counts) TallyResponse {
	return TallyResponse{
		Aye:     counts.Aye,
		Nay:     counts.Nay,
		Present: counts.Present,
		Total:   counts.Total(),
	}
}

// handleRoot handles GET / and returns API metadata.
func (a *Api) handleRoot(
	w http.ResponseWriter,
	_ *http.Request,
) {
	writeJSON(w, http.StatusOK, RootResponse{
		URL:     "https://github.com/blinklabs-io/witan",
		Version: apiVersion,
	})
}

// handleHealth handles GET /health.
func (a *Api) handleHealth(
	w http.ResponseWriter,
	_ *http.Request,
) {
	writeJSON(w, http.StatusOK, HealthResponse{
		IsHealthy: true,
	})
}

// handleLogin handles POST /api/v1/login and verifies province
// credentials.
func (a *Api) handleLogin(
	w http.ResponseWriter,
	r *http.Request,
) {
	var req LoginRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	province, err := a.service.Authenticate(
		req.Province,
		req.Password,
	)
	if err != nil {
		if errors.Is(err, council.ErrPermissionDenied) {
			writeError(
				w,
				http.StatusUnauthorized,
				"Unauthorized",
				"invalid province credentials",
			)
			return
		}
		a.logger.Error("login failed", "error", err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ProvinceResponse{
		Name:              province.Name,
		CouncilType:       province.CouncilType,
		Weight:            province.Weight,
		MustResetPassword: province.MustResetPassword,
	})
}

// handleListProvinces handles GET /api/v1/provinces and returns the
// council roster.
func (a *Api) handleListProvinces(
	w http.ResponseWriter,
	_ *http.Request,
) {
	provinces, err := a.service.ListProvinces()
	if err != nil {
		a.logger.Error(
			"failed to list provinces",
			"error", err,
		)
		writeServiceError(w, err)
		return
	}
	resp := make([]ProvinceResponse, 0, len(provinces))
	for _, p := range provinces {
		resp = append(resp, ProvinceResponse{
			Name:        p.Name,
			CouncilType: p.CouncilType,
			Weight:      p.Weight,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleListProposals handles GET /api/v1/proposals with optional
// status filtering and pagination.
func (a *Api) handleListProposals(
	w http.ResponseWriter,
	r *http.Request,
) {
	params, err := ParsePagination(r)
	if err != nil {
		writeError(
			w,
			http.StatusBadRequest,
			"Bad Request",
			err.Error(),
		)
		return
	}
	var proposals []models.Proposal
	if status := r.URL.Query().Get("status"); status != "" {
		proposals, err = a.service.ListProposalsByStatus(
			council.Status(status),
		)
	} else {
		proposals, err = a.service.ListProposals()
	}
	if err != nil {
		a.logger.Error(
			"failed to list proposals",
			"error", err,
		)
		writeServiceError(w, err)
		return
	}
	SetPaginationHeaders(w, len(proposals), params)
	page := PaginateSlice(proposals, params)
	resp := make([]ProposalResponse, 0, len(page))
	for i := range page {
		resp = append(resp, proposalResponse(&page[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleCreateLaw handles POST /api/v1/laws.
func (a *Api) handleCreateLaw(
	w http.ResponseWriter,
	r *http.Request,
) {
	var req LawRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	proposal, err := a.service.CreateLaw(
		req.Province,
		council.LawDraft{
			Title:             req.Title,
			Purpose:           req.Purpose,
			WhereasStatements: req.WhereasStatements,
			Changes:           req.Changes,
		},
	)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(
		w,
		http.StatusCreated,
		proposalResponse(proposal),
	)
}

// handleCreateBudget handles POST /api/v1/budgets.
func (a *Api) handleCreateBudget(
	w http.ResponseWriter,
	r *http.Request,
) {
	var req BudgetRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	proposal, err := a.service.CreateBudget(
		req.Province,
		council.BudgetDraft{
			BudgetType:    council.BudgetType(req.BudgetType),
			TotalAmount:   req.TotalAmount,
			Purpose:       req.Purpose,
			LineItems:     req.LineItems,
			Justification: req.Justification,
		},
	)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(
		w,
		http.StatusCreated,
		proposalResponse(proposal),
	)
}

// handleGetProposal handles GET /api/v1/proposals/{id}.
func (a *Api) handleGetProposal(
	w http.ResponseWriter,
	r *http.Request,
) {
	proposal, err := a.service.GetProposal(r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, proposalResponse(proposal))
}

// handleTally handles GET /api/v1/proposals/{id}/tally and returns the
// weighted counts for the proposal's current voting target.
func (a *Api) handleTally(
	w http.ResponseWriter,
	r *http.Request,
) {
	counts, err := a.service.Tally(r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tallyResponse(counts))
}

// handleCastVote handles POST /api/v1/proposals/{id}/votes.
func (a *Api) handleCastVote(
	w http.ResponseWriter,
	r *http.Request,
) {
	var req VoteRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	result, err := a.service.CastVote(
		r.PathValue("id"),
		req.Province,
		council.VoteChoice(req.Choice),
	)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, VoteResponse{
		Target:      string(result.Target),
		AmendmentId: result.AmendmentId,
		Counts:      tallyResponse(result.Counts),
	})
}

// handleEndVotingEarly handles
// POST /api/v1/proposals/{id}/end-early.
func (a *Api) handleEndVotingEarly(
	w http.ResponseWriter,
	r *http.Request,
) {
	var req EarlyEndRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	result, err := a.service.EndVotingEarly(
		r.PathValue("id"),
		req.Province,
	)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, EarlyEndResponse{
		Status:      string(result.Status),
		AyeWeight:   result.AyeWeight,
		TotalWeight: result.TotalWeight,
	})
}

// handleWithdraw handles POST /api/v1/proposals/{id}/withdraw.
func (a *Api) handleWithdraw(
	w http.ResponseWriter,
	r *http.Request,
) {
	var req WithdrawRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	if err := a.service.Withdraw(
		r.PathValue("id"),
		req.Province,
	); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSubmitAmendment handles
// POST /api/v1/proposals/{id}/amendments.
func (a *Api) handleSubmitAmendment(
	w http.ResponseWriter,
	r *http.Request,
) {
	var req AmendmentRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	amendment, err := a.service.SubmitAmendment(
		r.PathValue("id"),
		req.Province,
		lifecycle.AmendmentContent{
			Text:      req.AmendedText,
			LineItems: req.AmendedLineItems,
		},
	)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(
		w,
		http.StatusCreated,
		amendmentResponse(amendment),
	)
}

// handleListAmendments handles
// GET /api/v1/proposals/{id}/amendments.
func (a *Api) handleListAmendments(
	w http.ResponseWriter,
	r *http.Request,
) {
	amendments, err := a.service.ListAmendments(
		r.PathValue("id"),
	)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	resp := make([]AmendmentResponse, 0, len(amendments))
	for i := range amendments {
		resp = append(resp, amendmentResponse(&amendments[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleAmendmentDiff handles
// GET /api/v1/proposals/{id}/amendments/{amendment_id}/diff. The
// amendment is diffed against its parent: the proposal's own content
// for a first-level amendment, the superseded amendment's content for a
// deeper one.
func (a *Api) handleAmendmentDiff(
	w http.ResponseWriter,
	r *http.Request,
) {
	proposal, err := a.service.GetProposal(r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	amendments, err := a.service.ListAmendments(
		proposal.ProposalId,
	)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	amendmentId := r.PathValue("amendment_id")
	var target *models.Amendment
	for i := range amendments {
		if amendments[i].AmendmentId == amendmentId {
			target = &amendments[i]
			break
		}
	}
	if target == nil {
		writeError(
			w,
			http.StatusNotFound,
			"Not Found",
			"unknown amendment",
		)
		return
	}
	baseText := proposal.Changes
	baseItems := proposal.LineItems
	if target.ParentAmendmentID != 0 {
		var parent *models.Amendment
		for i := range amendments {
			if amendments[i].ID == target.ParentAmendmentID {
				parent = &amendments[i]
				break
			}
		}
		if parent == nil {
			a.logger.Error(
				"amendment parent missing",
				"amendment_id", amendmentId,
			)
			writeError(
				w,
				http.StatusInternalServerError,
				"Internal Server Error",
				"amendment parent missing",
			)
			return
		}
		baseText = parent.AmendedText
		baseItems = parent.AmendedLineItems
	}
	scheme := diff.SchemeForDepth(target.Depth)
	resp := DiffResponse{
		AmendmentId:   target.AmendmentId,
		Depth:         target.Depth,
		AdditionColor: scheme.Addition,
		RemovalColor:  scheme.Removal,
	}
	if council.ProposalKind(proposal.Kind) == council.KindLaw {
		for _, line := range diff.Lines(
			baseText,
			target.AmendedText,
		) {
			resp.Lines = append(resp.Lines, DiffLineResponse{
				Text:           line.Text,
				Classification: string(line.Classification),
			})
		}
	} else {
		for _, change := range diff.LineItems(
			baseItems,
			target.AmendedLineItems,
		) {
			resp.LineItems = append(
				resp.LineItems,
				LineItemChangeResponse{
					Item:           change.Item,
					Previous:       change.Previous,
					Classification: string(change.Classification),
				},
			)
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleRecordLaw handles POST /api/v1/proposals/{id}/record and
// enters a passed proposal into the law book.
func (a *Api) handleRecordLaw(
	w http.ResponseWriter,
	r *http.Request,
) {
	var req RecordRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	record, err := a.service.RecordLaw(
		r.PathValue("id"),
		req.Province,
	)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// handleDashboard handles GET /api/v1/dashboard and returns every
// proposal classified into a display bucket for the viewing province.
func (a *Api) handleDashboard(
	w http.ResponseWriter,
	r *http.Request,
) {
	province := r.URL.Query().Get("province")
	if province == "" {
		writeError(
			w,
			http.StatusBadRequest,
			"Bad Request",
			"province query parameter is required",
		)
		return
	}
	proposals, err := a.service.ListProposals()
	if err != nil {
		a.logger.Error(
			"failed to list proposals",
			"error", err,
		)
		writeServiceError(w, err)
		return
	}
	mine := r.URL.Query().Get("mine") == "true"
	now := time.Now()
	resp := make([]DashboardEntryResponse, 0, len(proposals))
	for i := range proposals {
		proposal := &proposals[i]
		if mine && proposal.Province != province {
			continue
		}
		counts, err := a.service.Tally(proposal.ProposalId)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		voted, err := a.service.HasVoted(
			proposal.ProposalId,
			province,
		)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		view := dashboard.Classify(dashboard.Input{
			Proposal:       proposal,
			ViewerProvince: province,
			ViewerVoted:    voted,
			Counts:         counts,
			Now:            now,
		})
		resp = append(resp, DashboardEntryResponse{
			Proposal:      proposalResponse(proposal),
			Bucket:        string(view.Bucket),
			Result:        view.Result,
			TimeRemaining: view.TimeRemaining,
		})
	}
	// Mandatory-active cards come first; within each group proposals
	// stay newest first from the store
	sort.SliceStable(resp, func(i, j int) bool {
		iMandatory := resp[i].Bucket == string(dashboard.BucketMandatoryActive)
		jMandatory := resp[j].Bucket == string(dashboard.BucketMandatoryActive)
		return iMandatory && !jMandatory
	})
	writeJSON(w, http.StatusOK, resp)
}

// handleScribePending handles GET /api/v1/scribe/pending and returns
// passed proposals awaiting law book entry, oldest expiry first.
func (a *Api) handleScribePending(
	w http.ResponseWriter,
	_ *http.Request,
) {
	proposals, err := a.service.PendingReview()
	if err != nil {
		a.logger.Error(
			"failed to list pending review",
			"error", err,
		)
		writeServiceError(w, err)
		return
	}
	resp := make([]ProposalResponse, 0, len(proposals))
	for i := range proposals {
		resp = append(resp, proposalResponse(&proposals[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleLawBook handles GET /api/v1/lawbook.
func (a *Api) handleLawBook(
	w http.ResponseWriter,
	_ *http.Request,
) {
	records, err := a.service.LawBook()
	if err != nil {
		a.logger.Error(
			"failed to list law book",
			"error", err,
		)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// handleLawRecord handles GET /api/v1/lawbook/{number}.
func (a *Api) handleLawRecord(
	w http.ResponseWriter,
	r *http.Request,
) {
	record, err := a.service.LawRecord(r.PathValue("number"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}
