// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/quickly-rank/models"
	"github.com/danielhkuo/quickly-rank/proof"
	"github.com/danielhkuo/quickly-rank/testutil"
)

func TestGetAccount(t *testing.T) {
	cfg := testutil.GetTestConfig()
	svc := testutil.NewServices(t, cfg, false)
	handler := NewAccountHandler(newTestDeps(svc), cfg)

	w := httptest.NewRecorder()
	handler.GetAccount(w, testutil.MakeRequest("GET", "/account", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.AccountResponse
	testutil.AssertJSON(t, w, &resp)

	if resp.Address != testutil.TestSender {
		t.Errorf("Expected address %s, got %s", testutil.TestSender, resp.Address)
	}
	if resp.ShortAddress != "VOTERQ...567ABC" {
		t.Errorf("Expected short address VOTERQ...567ABC, got %s", resp.ShortAddress)
	}
	if resp.Network != "localnet" || resp.AppID != 1002 {
		t.Errorf("Unexpected network/app: %+v", resp)
	}
}

func TestGetBallotStatus(t *testing.T) {
	cfg := testutil.GetTestConfig()
	svc := testutil.NewServices(t, cfg, false)
	handler := NewAccountHandler(newTestDeps(svc), cfg)

	w := httptest.NewRecorder()
	handler.GetBallotStatus(w, testutil.MakeRequest("GET", "/account/ballot", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.BallotStatusResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Found {
		t.Error("Expected no ballot before casting")
	}

	if _, err := svc.Election.CastBallot(t.Context(), cfg.SenderAddress, testutil.TestCID); err != nil {
		t.Fatal(err)
	}

	w = httptest.NewRecorder()
	handler.GetBallotStatus(w, testutil.MakeRequest("GET", "/account/ballot", nil, nil))
	testutil.AssertJSON(t, w, &resp)
	if !resp.Found || resp.CID != testutil.TestCID || resp.Verified {
		t.Errorf("Unexpected ballot status: %+v", resp)
	}

	noSender := cfg
	noSender.SenderAddress = ""
	handler = NewAccountHandler(newTestDeps(svc), noSender)
	w = httptest.NewRecorder()
	handler.GetBallotStatus(w, testutil.MakeRequest("GET", "/account/ballot", nil, nil))
	testutil.AssertStatus(t, w, http.StatusPreconditionFailed)
}

func TestGetBallotDocument(t *testing.T) {
	cfg := testutil.GetTestConfig()
	svc := testutil.NewServices(t, cfg, false)
	handler := NewAccountHandler(newTestDeps(svc), cfg)

	get := func(cid string) *httptest.ResponseRecorder {
		req := testutil.MakeRequest("GET", "/ballots/"+cid, nil, nil)
		req.SetPathValue("cid", cid)
		w := httptest.NewRecorder()
		handler.GetBallotDocument(w, req)
		return w
	}

	t.Run("invalid cid", func(t *testing.T) {
		testutil.AssertStatus(t, get("not-a-cid"), http.StatusBadRequest)
	})

	t.Run("not pinned", func(t *testing.T) {
		testutil.AssertStatus(t, get(testutil.TestCID), http.StatusBadGateway)
	})

	t.Run("pinned", func(t *testing.T) {
		pinner := svc.Pipeline.Pinner
		if _, err := pinner.PinJSON(t.Context(), "ballot", map[string]any{"ranking": []int{2, 0, 1}}); err != nil {
			t.Fatal(err)
		}

		w := get(testutil.TestCID)
		testutil.AssertStatus(t, w, http.StatusOK)

		var doc struct {
			Ranking []int `json:"ranking"`
		}
		if err := json.NewDecoder(w.Body).Decode(&doc); err != nil {
			t.Fatal(err)
		}
		if len(doc.Ranking) != 3 || doc.Ranking[0] != 2 {
			t.Errorf("Unexpected document: %+v", doc)
		}
	})
}

func TestProofSelfCheck(t *testing.T) {
	cfg := testutil.GetTestConfig()
	svc := testutil.NewServices(t, cfg, false)

	handler := NewAccountHandler(newTestDeps(svc), cfg)
	w := httptest.NewRecorder()
	handler.ProofSelfCheck(w, testutil.MakeRequest("GET", "/proof/selfcheck", nil, nil))
	testutil.AssertStatus(t, w, http.StatusServiceUnavailable)

	prover := testutil.NewFakeProver(t)
	deps := newTestDeps(svc)
	deps.Prover = proof.NewClient(prover.URL(), cfg.ZKTimeout)
	handler = NewAccountHandler(deps, cfg)

	w = httptest.NewRecorder()
	handler.ProofSelfCheck(w, testutil.MakeRequest("GET", "/proof/selfcheck", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)
	if w.Body.String() != `{"ok":true,"log2_n":3}` {
		t.Errorf("Unexpected selfcheck body %s", w.Body.String())
	}
}
