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
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/blinklabs-io/witan/council"
	"github.com/blinklabs-io/witan/database/models"
	"github.com/blinklabs-io/witan/lifecycle"
	"github.com/blinklabs-io/witan/scribe"
	"github.com/blinklabs-io/witan/tally"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockService implements CouncilService for testing. When err is set
// every method returns it.
type mockService struct {
	proposal   *models.Proposal
	proposals  []models.Proposal
	amendment  *models.Amendment
	amendments []models.Amendment
	voteResult *lifecycle.VoteResult
	earlyEnd   *lifecycle.EarlyEndResult
	content    lifecycle.AmendmentContent
	counts     tally.Counts
	hasVoted   bool
	provinces  []models.Province
	province   *models.Province
	pending    []models.Proposal
	record     *scribe.LawRecord
	records    []scribe.LawRecord
	err        error
}

func (m *mockService) CreateLaw(
	province string,
	draft council.LawDraft,
) (*models.Proposal, error) {
	return m.proposal, m.err
}

func (m *mockService) CreateBudget(
	province string,
	draft council.BudgetDraft,
) (*models.Proposal, error) {
	return m.proposal, m.err
}

func (m *mockService) ListProposals() (
	[]models.Proposal, error,
) {
	return m.proposals, m.err
}

func (m *mockService) ListProposalsByStatus(
	status council.Status,
) ([]models.Proposal, error) {
	return m.proposals, m.err
}

func (m *mockService) GetProposal(
	proposalId string,
) (*models.Proposal, error) {
	return m.proposal, m.err
}

func (m *mockService) CastVote(
	proposalId string,
	province string,
	choice council.VoteChoice,
) (*lifecycle.VoteResult, error) {
	return m.voteResult, m.err
}

func (m *mockService) EndVotingEarly(
	proposalId string,
	actingProvince string,
) (*lifecycle.EarlyEndResult, error) {
	return m.earlyEnd, m.err
}

func (m *mockService) Withdraw(
	proposalId string,
	actingProvince string,
) error {
	return m.err
}

func (m *mockService) SubmitAmendment(
	proposalId string,
	province string,
	content lifecycle.AmendmentContent,
) (*models.Amendment, error) {
	return m.amendment, m.err
}

func (m *mockService) ListAmendments(
	proposalId string,
) ([]models.Amendment, error) {
	return m.amendments, m.err
}

func (m *mockService) CurrentContent(
	proposalId string,
) (lifecycle.AmendmentContent, error) {
	return m.content, m.err
}

func (m *mockService) Tally(
	proposalId string,
) (tally.Counts, error) {
	return m.counts, m.err
}

func (m *mockService) HasVoted(
	proposalId string,
	province string,
) (bool, error) {
	return m.hasVoted, m.err
}

func (m *mockService) ListProvinces() (
	[]models.Province, error,
) {
	return m.provinces, m.err
}

func (m *mockService) Authenticate(
	province string,
	password string,
) (*models.Province, error) {
	return m.province, m.err
}

func (m *mockService) PendingReview() (
	[]models.Proposal, error,
) {
	return m.pending, m.err
}

func (m *mockService) RecordLaw(
	proposalId string,
	actingProvince string,
) (*scribe.LawRecord, error) {
	return m.record, m.err
}

func (m *mockService) LawBook() ([]scribe.LawRecord, error) {
	return m.records, m.err
}

func (m *mockService) LawRecord(
	legislationNumber string,
) (*scribe.LawRecord, error) {
	return m.record, m.err
}

func newTestApi(service CouncilService) *Api {
	return New(
		ApiConfig{
			ListenAddress: ":0",
		},
		service,
		nil,
		nil,
	)
}

func serveRequest(
	a *Api,
	method string,
	path string,
	body any,
) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			panic(err)
		}
		reqBody = bytes.NewBuffer(buf)
	} else {
		reqBody = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, reqBody)
	w := httptest.NewRecorder()
	a.routes().ServeHTTP(w, req)
	return w
}

func testProposal() *models.Proposal {
	return &models.Proposal{
		ID:                7,
		ProposalId:        "a8098c1a-f86e-11da-bd1a-00112444be1e",
		LegislationNumber: "042",
		Kind:              string(council.KindLaw),
		Title:             "Border Road Act",
		Synopsis:          "Fund the northern border road",
		Purpose:           "Fund the northern border road",
		WhereasStatements: []string{"the road has decayed"},
		Changes:           "Allocate funds to the road",
		Province:          "Hovalen",
		Status:            string(council.StatusActive),
		ExpiryDate: time.Date(
			2026, 3, 3, 12, 0, 0, 0, time.UTC,
		),
	}
}

func TestStartStop(t *testing.T) {
	a := newTestApi(&mockService{})

	err := a.Start(t.Context())
	require.NoError(t, err)

	a.mu.Lock()
	assert.NotNil(t, a.httpServer)
	a.mu.Unlock()

	stopCtx, stopCancel := context.WithTimeout(
		context.Background(),
		5*time.Second,
	)
	defer stopCancel()
	err = a.Stop(stopCtx)
	require.NoError(t, err)

	a.mu.Lock()
	assert.Nil(t, a.httpServer)
	a.mu.Unlock()
}

func TestStartAlreadyStarted(t *testing.T) {
	a := newTestApi(&mockService{})

	ctx := t.Context()
	err := a.Start(ctx)
	require.NoError(t, err)
	defer func() {
		stopCtx, stopCancel := context.WithTimeout(
			context.Background(),
			5*time.Second,
		)
		defer stopCancel()
		_ = a.Stop(stopCtx)
	}()

	err = a.Start(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already started")
}

func TestHandleRoot(t *testing.T) {
	a := newTestApi(&mockService{})

	w := serveRequest(a, http.MethodGet, "/", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(
		t,
		"application/json",
		w.Header().Get("Content-Type"),
	)

	var resp RootResponse
	err := json.NewDecoder(w.Body).Decode(&resp)
	require.NoError(t, err)
	assert.Equal(t, apiVersion, resp.Version)
}

func TestHandleHealth(t *testing.T) {
	a := newTestApi(&mockService{})

	w := serveRequest(a, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp HealthResponse
	err := json.NewDecoder(w.Body).Decode(&resp)
	require.NoError(t, err)
	assert.True(t, resp.IsHealthy)
}

func TestHandleLogin(t *testing.T) {
	a := newTestApi(&mockService{
		province: &models.Province{
			Name:        "Hovalen",
			CouncilType: string(council.CouncilTypeUpperCouncil),
			Weight:      1.5,
		},
	})

	w := serveRequest(
		a,
		http.MethodPost,
		"/api/v1/login",
		LoginRequest{
			Province: "Hovalen",
			Password: "correct horse",
		},
	)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp ProvinceResponse
	err := json.NewDecoder(w.Body).Decode(&resp)
	require.NoError(t, err)
	assert.Equal(t, "Hovalen", resp.Name)
	assert.Equal(t, 1.5, resp.Weight)
}

func TestHandleLoginBadCredentials(t *testing.T) {
	a := newTestApi(&mockService{
		err: council.ErrPermissionDenied,
	})

	w := serveRequest(
		a,
		http.MethodPost,
		"/api/v1/login",
		LoginRequest{
			Province: "Hovalen",
			Password: "wrong",
		},
	)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var resp ErrorResponse
	err := json.NewDecoder(w.Body).Decode(&resp)
	require.NoError(t, err)
	assert.Equal(t, "Unauthorized", resp.Error)
}

func TestHandleListProposals(t *testing.T) {
	a := newTestApi(&mockService{
		proposals: []models.Proposal{
			*testProposal(),
		},
	})

	w := serveRequest(
		a,
		http.MethodGet,
		"/api/v1/proposals",
		nil,
	)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(
		t,
		"1",
		w.Header().Get("X-Pagination-Count-Total"),
	)
	assert.Equal(
		t,
		"1",
		w.Header().Get("X-Pagination-Page-Total"),
	)

	var resp []ProposalResponse
	err := json.NewDecoder(w.Body).Decode(&resp)
	require.NoError(t, err)
	require.Len(t, resp, 1)
	assert.Equal(t, "042", resp[0].LegislationNumber)
	assert.Equal(t, "Border Road Act", resp[0].Title)
}

func TestHandleListProposalsBadPagination(t *testing.T) {
	a := newTestApi(&mockService{})

	w := serveRequest(
		a,
		http.MethodGet,
		"/api/v1/proposals?count=nope",
		nil,
	)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleCreateLaw(t *testing.T) {
	a := newTestApi(&mockService{
		proposal: testProposal(),
	})

	w := serveRequest(
		a,
		http.MethodPost,
		"/api/v1/laws",
		LawRequest{
			Province:          "Hovalen",
			Title:             "Border Road Act",
			Purpose:           "Fund the northern border road",
			WhereasStatements: []string{"the road has decayed"},
			Changes:           "Allocate funds to the road",
		},
	)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp ProposalResponse
	err := json.NewDecoder(w.Body).Decode(&resp)
	require.NoError(t, err)
	assert.Equal(t, "042", resp.LegislationNumber)
}

func TestHandleCreateLawValidationError(t *testing.T) {
	a := newTestApi(&mockService{
		err: &council.ValidationError{
			Field:  "title",
			Reason: "must not be empty",
		},
	})

	w := serveRequest(
		a,
		http.MethodPost,
		"/api/v1/laws",
		LawRequest{Province: "Hovalen"},
	)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	err := json.NewDecoder(w.Body).Decode(&resp)
	require.NoError(t, err)
	assert.Contains(t, resp.Message, "title")
}

func TestHandleGetProposalNotFound(t *testing.T) {
	a := newTestApi(&mockService{
		err: council.ErrNotFound,
	})

	w := serveRequest(
		a,
		http.MethodGet,
		"/api/v1/proposals/unknown",
		nil,
	)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleCastVote(t *testing.T) {
	a := newTestApi(&mockService{
		voteResult: &lifecycle.VoteResult{
			Target: lifecycle.VoteTargetProposal,
			Counts: tally.Counts{Aye: 1.5, Nay: 2},
		},
	})

	w := serveRequest(
		a,
		http.MethodPost,
		"/api/v1/proposals/some-id/votes",
		VoteRequest{
			Province: "Hovalen",
			Choice:   string(council.VoteAye),
		},
	)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp VoteResponse
	err := json.NewDecoder(w.Body).Decode(&resp)
	require.NoError(t, err)
	assert.Equal(t, "proposal", resp.Target)
	assert.Equal(t, 1.5, resp.Counts.Aye)
	assert.Equal(t, 3.5, resp.Counts.Total)
}

func TestHandleCastVoteClosed(t *testing.T) {
	a := newTestApi(&mockService{
		err: &council.VotingClosedError{
			Status: council.StatusFailed,
		},
	})

	w := serveRequest(
		a,
		http.MethodPost,
		"/api/v1/proposals/some-id/votes",
		VoteRequest{
			Province: "Hovalen",
			Choice:   string(council.VoteAye),
		},
	)

	assert.Equal(t, http.StatusConflict, w.Code)

	var resp ErrorResponse
	err := json.NewDecoder(w.Body).Decode(&resp)
	require.NoError(t, err)
	assert.Contains(t, resp.Message, "failed")
}

func TestHandleEndVotingEarlyForbidden(t *testing.T) {
	a := newTestApi(&mockService{
		err: council.ErrPermissionDenied,
	})

	w := serveRequest(
		a,
		http.MethodPost,
		"/api/v1/proposals/some-id/end-early",
		EarlyEndRequest{Province: "Hovalen"},
	)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestHandleEndVotingEarly(t *testing.T) {
	a := newTestApi(&mockService{
		earlyEnd: &lifecycle.EarlyEndResult{
			Status:      council.StatusPassedEarly,
			AyeWeight:   6.6,
			TotalWeight: 11,
		},
	})

	w := serveRequest(
		a,
		http.MethodPost,
		"/api/v1/proposals/some-id/end-early",
		EarlyEndRequest{Province: council.KingProvince},
	)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp EarlyEndResponse
	err := json.NewDecoder(w.Body).Decode(&resp)
	require.NoError(t, err)
	assert.Equal(t, "passedEarly", resp.Status)
	assert.Equal(t, 6.6, resp.AyeWeight)
}

func TestHandleWithdraw(t *testing.T) {
	a := newTestApi(&mockService{})

	w := serveRequest(
		a,
		http.MethodPost,
		"/api/v1/proposals/some-id/withdraw",
		WithdrawRequest{Province: "Hovalen"},
	)

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestHandleSubmitAmendmentDepthExceeded(t *testing.T) {
	a := newTestApi(&mockService{
		err: council.ErrAmendmentDepthExceeded,
	})

	w := serveRequest(
		a,
		http.MethodPost,
		"/api/v1/proposals/some-id/amendments",
		AmendmentRequest{
			Province:    "Rilra",
			AmendedText: "Allocate more funds",
		},
	)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestHandleAmendmentDiff(t *testing.T) {
	proposal := testProposal()
	proposal.Changes = "keep this\nremove this"
	a := newTestApi(&mockService{
		proposal: proposal,
		amendments: []models.Amendment{
			{
				ID:          1,
				AmendmentId: "amend-1",
				ProposalID:  proposal.ID,
				Depth:       1,
				Province:    "Rilra",
				AmendedText: "keep this\nadd this",
				Status:      string(council.AmendmentActive),
			},
		},
	})

	w := serveRequest(
		a,
		http.MethodGet,
		"/api/v1/proposals/some-id/amendments/amend-1/diff",
		nil,
	)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp DiffResponse
	err := json.NewDecoder(w.Body).Decode(&resp)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Depth)
	assert.Equal(t, "blue", resp.AdditionColor)
	assert.Equal(t, "red", resp.RemovalColor)
	require.Len(t, resp.Lines, 3)
	assert.Equal(t, "unchanged", resp.Lines[0].Classification)
	assert.Equal(t, "add this", resp.Lines[1].Text)
	assert.Equal(t, "added", resp.Lines[1].Classification)
	assert.Equal(t, "remove this", resp.Lines[2].Text)
	assert.Equal(t, "removed", resp.Lines[2].Classification)
}

func TestHandleAmendmentDiffNested(t *testing.T) {
	proposal := testProposal()
	proposal.Changes = "original text"
	a := newTestApi(&mockService{
		proposal: proposal,
		amendments: []models.Amendment{
			{
				ID:          1,
				AmendmentId: "amend-1",
				ProposalID:  proposal.ID,
				Depth:       1,
				AmendedText: "first revision",
				Status:      string(council.AmendmentSuperseded),
			},
			{
				ID:                2,
				AmendmentId:       "amend-2",
				ProposalID:        proposal.ID,
				ParentAmendmentID: 1,
				Depth:             2,
				AmendedText:       "second revision",
				Status:            string(council.AmendmentActive),
			},
		},
	})

	w := serveRequest(
		a,
		http.MethodGet,
		"/api/v1/proposals/some-id/amendments/amend-2/diff",
		nil,
	)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp DiffResponse
	err := json.NewDecoder(w.Body).Decode(&resp)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Depth)
	assert.Equal(t, "green", resp.AdditionColor)
	assert.Equal(t, "orange", resp.RemovalColor)
	// Diffed against the first amendment, not the proposal
	require.Len(t, resp.Lines, 2)
	assert.Equal(t, "second revision", resp.Lines[0].Text)
	assert.Equal(t, "added", resp.Lines[0].Classification)
	assert.Equal(t, "first revision", resp.Lines[1].Text)
	assert.Equal(t, "removed", resp.Lines[1].Classification)
}

func TestHandleAmendmentDiffUnknownAmendment(t *testing.T) {
	a := newTestApi(&mockService{
		proposal: testProposal(),
	})

	w := serveRequest(
		a,
		http.MethodGet,
		"/api/v1/proposals/some-id/amendments/missing/diff",
		nil,
	)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleDashboard(t *testing.T) {
	proposal := testProposal()
	proposal.ExpiryDate = time.Now().Add(40 * time.Hour)
	a := newTestApi(&mockService{
		proposals: []models.Proposal{*proposal},
	})

	w := serveRequest(
		a,
		http.MethodGet,
		"/api/v1/dashboard?province=Rilra",
		nil,
	)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp []DashboardEntryResponse
	err := json.NewDecoder(w.Body).Decode(&resp)
	require.NoError(t, err)
	require.Len(t, resp, 1)
	assert.Equal(t, "active", resp[0].Bucket)
	assert.Equal(
		t,
		"042",
		resp[0].Proposal.LegislationNumber,
	)
}

func TestHandleDashboardMandatoryFirst(t *testing.T) {
	ordinary := testProposal()
	ordinary.ExpiryDate = time.Now().Add(40 * time.Hour)
	mandatory := testProposal()
	mandatory.ProposalId = "3f8b7a1e-0000-0000-0000-000000000000"
	mandatory.LegislationNumber = "043"
	mandatory.Mandatory = true
	mandatory.ExpiryDate = time.Now().Add(40 * time.Hour)
	a := newTestApi(&mockService{
		proposals: []models.Proposal{*ordinary, *mandatory},
	})

	w := serveRequest(
		a,
		http.MethodGet,
		"/api/v1/dashboard?province=Rilra",
		nil,
	)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp []DashboardEntryResponse
	err := json.NewDecoder(w.Body).Decode(&resp)
	require.NoError(t, err)
	require.Len(t, resp, 2)
	assert.Equal(t, "mandatory-active", resp[0].Bucket)
	assert.Equal(
		t,
		"043",
		resp[0].Proposal.LegislationNumber,
	)
}

func TestHandleDashboardMineFilter(t *testing.T) {
	proposal := testProposal()
	proposal.ExpiryDate = time.Now().Add(40 * time.Hour)
	a := newTestApi(&mockService{
		proposals: []models.Proposal{*proposal},
	})

	// The fixture's proposer is Hovalen, so Rilra's own-proposals view
	// is empty
	w := serveRequest(
		a,
		http.MethodGet,
		"/api/v1/dashboard?province=Rilra&mine=true",
		nil,
	)
	assert.Equal(t, http.StatusOK, w.Code)
	var resp []DashboardEntryResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Empty(t, resp)

	w = serveRequest(
		a,
		http.MethodGet,
		"/api/v1/dashboard?province=Hovalen&mine=true",
		nil,
	)
	assert.Equal(t, http.StatusOK, w.Code)
	resp = nil
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Len(t, resp, 1)
}

func TestHandleDashboardMissingProvince(t *testing.T) {
	a := newTestApi(&mockService{})

	w := serveRequest(
		a,
		http.MethodGet,
		"/api/v1/dashboard",
		nil,
	)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleRecordLaw(t *testing.T) {
	recordedAt := time.Date(
		2026, 3, 10, 12, 0, 0, 0, time.UTC,
	)
	a := newTestApi(&mockService{
		record: &scribe.LawRecord{
			LegislationNumber: "042",
			Title:             "Border Road Act",
			RecordedBy:        council.ScribeProvince,
			RecordedAt:        recordedAt,
		},
	})

	w := serveRequest(
		a,
		http.MethodPost,
		"/api/v1/proposals/some-id/record",
		RecordRequest{Province: council.ScribeProvince},
	)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp scribe.LawRecord
	err := json.NewDecoder(w.Body).Decode(&resp)
	require.NoError(t, err)
	assert.Equal(t, "042", resp.LegislationNumber)
	assert.Equal(
		t,
		council.ScribeProvince,
		resp.RecordedBy,
	)
}

func TestHandleLawBook(t *testing.T) {
	a := newTestApi(&mockService{
		records: []scribe.LawRecord{
			{LegislationNumber: "001"},
			{LegislationNumber: "002"},
		},
	})

	w := serveRequest(
		a,
		http.MethodGet,
		"/api/v1/lawbook",
		nil,
	)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp []scribe.LawRecord
	err := json.NewDecoder(w.Body).Decode(&resp)
	require.NoError(t, err)
	require.Len(t, resp, 2)
	assert.Equal(t, "001", resp[0].LegislationNumber)
}

func TestHandleLawRecordNotFound(t *testing.T) {
	a := newTestApi(&mockService{
		err: council.ErrNotFound,
	})

	w := serveRequest(
		a,
		http.MethodGet,
		"/api/v1/lawbook/099",
		nil,
	)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
