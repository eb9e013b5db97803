// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package contract

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
)

const voter = "VOTERADDRESSAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

func TestMemoryElection(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	m := NewMemory(1002)

	_, err := m.CastBallot(ctx, voter, "cid-1")
	c.Assert(err, qt.ErrorIs, ErrNotRegistered)

	rc, err := m.Register(ctx, voter)
	c.Assert(err, qt.IsNil)
	c.Assert(rc.TxID, qt.HasLen, 52)

	_, err = m.Register(ctx, voter)
	c.Assert(err, qt.ErrorIs, ErrAlreadyRegistered)

	_, found, err := m.BallotOf(ctx, voter)
	c.Assert(err, qt.IsNil)
	c.Assert(found, qt.IsFalse)

	rc, err = m.CastBallot(ctx, voter, "cid-1")
	c.Assert(err, qt.IsNil)
	c.Assert(rc.Message, qt.Equals, MsgBallotCast)

	// the first ballot is final
	rc, err = m.CastBallot(ctx, voter, "cid-2")
	c.Assert(err, qt.IsNil)
	c.Assert(rc.Message, qt.Equals, MsgAlreadySent)

	rec, found, err := m.BallotOf(ctx, voter)
	c.Assert(err, qt.IsNil)
	c.Assert(found, qt.IsTrue)
	c.Assert(rec, qt.DeepEquals, BallotRecord{CID: "cid-1", Verified: false})

	_, err = m.Register(ctx, "")
	c.Assert(err, qt.ErrorIs, ErrNoSender)
	_, err = m.CastBallot(ctx, voter, "")
	c.Assert(err, qt.ErrorIs, ErrEmptyCID)
}

func TestRelayClientCastBallot(t *testing.T) {
	c := qt.New(t)

	var got callRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.Check(r.URL.Path, qt.Equals, "/v1/apps/1002/call")
		c.Check(r.Header.Get("Authorization"), qt.Equals, "Bearer relay-token")
		c.Check(json.NewDecoder(r.Body).Decode(&got), qt.IsNil)
		_ = json.NewEncoder(w).Encode(callResponse{TxID: "TX123", Return: MsgBallotCast})
	}))
	defer srv.Close()

	client := NewRelayClient(srv.URL+"/", 1002, "relay-token", time.Second)
	rc, err := client.CastBallot(context.Background(), voter, "QmCid")
	c.Assert(err, qt.IsNil)
	c.Assert(rc, qt.DeepEquals, Receipt{TxID: "TX123", Message: MsgBallotCast})
	c.Assert(got.Method, qt.Equals, MethodCastBallot)
	c.Assert(got.Sender, qt.Equals, voter)
	c.Assert(got.Args, qt.DeepEquals, []string{base64.StdEncoding.EncodeToString([]byte("QmCid"))})
}

func TestRelayClientRegisterAndErrors(t *testing.T) {
	c := qt.New(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var in callRequest
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in.Method == MethodRegister {
			c.Check(in.OnComplete, qt.Equals, "optin")
			_ = json.NewEncoder(w).Encode(callResponse{TxID: "TXREG"})
			return
		}
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(callResponse{Error: "logic eval error: assert failed"})
	}))
	defer srv.Close()

	client := NewRelayClient(srv.URL, 1002, "", time.Second)
	rc, err := client.Register(context.Background(), voter)
	c.Assert(err, qt.IsNil)
	c.Assert(rc.TxID, qt.Equals, "TXREG")

	_, err = client.CastBallot(context.Background(), voter, "QmCid")
	c.Assert(err, qt.ErrorMatches, "cast_ballot rejected \\(400\\): logic eval error: assert failed")

	_, err = client.CastBallot(context.Background(), "", "QmCid")
	c.Assert(err, qt.ErrorIs, ErrNoSender)
}

func TestRelayClientBallotOf(t *testing.T) {
	c := qt.New(t)
	verified := 1

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/apps/7/accounts/"+voter+"/local-state" {
			http.NotFound(w, r)
			return
		}
		_ = json.NewEncoder(w).Encode(localStateResponse{
			OptedIn:    true,
			BallotIPFS: base64.StdEncoding.EncodeToString([]byte("QmCid")),
			Verified:   &verified,
		})
	}))
	defer srv.Close()

	client := NewRelayClient(srv.URL, 7, "", time.Second)
	rec, found, err := client.BallotOf(context.Background(), voter)
	c.Assert(err, qt.IsNil)
	c.Assert(found, qt.IsTrue)
	c.Assert(rec, qt.DeepEquals, BallotRecord{CID: "QmCid", Verified: true})

	_, found, err = client.BallotOf(context.Background(), "SOMEONEELSE")
	c.Assert(err, qt.IsNil)
	c.Assert(found, qt.IsFalse)
}
