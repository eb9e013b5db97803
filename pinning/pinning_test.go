// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package pinning

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
)

const (
	cidV0 = "QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG"
	cidV1 = "bafybeigdyrzt5sfp7udm7hu76uh7y26nf3efuylqabf3oclgtqy55fbzdi"
)

func TestDescribeCID(t *testing.T) {
	c := qt.New(t)

	info, err := DescribeCID(cidV0)
	c.Assert(err, qt.IsNil)
	c.Assert(info.Version, qt.Equals, uint64(0))
	c.Assert(info.HashName, qt.Equals, "sha2-256")

	info, err = DescribeCID(cidV1)
	c.Assert(err, qt.IsNil)
	c.Assert(info.Version, qt.Equals, uint64(1))

	_, err = DescribeCID("")
	c.Assert(err, qt.ErrorIs, ErrInvalidCID)
	_, err = DescribeCID("not-a-cid")
	c.Assert(err, qt.ErrorIs, ErrInvalidCID)
}

func TestPinJSON(t *testing.T) {
	c := qt.New(t)

	var got pinRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.Check(r.Method, qt.Equals, http.MethodPost)
		c.Check(r.URL.Path, qt.Equals, "/pinning/pinJSONToIPFS")
		c.Check(r.Header.Get("Authorization"), qt.Equals, "Bearer test-jwt")
		c.Check(json.NewDecoder(r.Body).Decode(&got), qt.IsNil)
		_ = json.NewEncoder(w).Encode(PinResponse{IpfsHash: cidV0, PinSize: 42, Timestamp: "2025-01-01T00:00:00Z"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-jwt", time.Second)
	id, err := client.PinJSON(context.Background(), "ballot", map[string]any{"ranking": []int{1, 0, 2, 3}})
	c.Assert(err, qt.IsNil)
	c.Assert(id, qt.Equals, cidV0)
	c.Assert(got.Metadata.Name, qt.Equals, "ballot")
	c.Assert(got.Content, qt.DeepEquals, map[string]any{"ranking": []any{1.0, 0.0, 2.0, 3.0}})
}

func TestPinJSONErrors(t *testing.T) {
	c := qt.New(t)

	_, err := NewClient("http://127.0.0.1:0", "", time.Second).PinJSON(context.Background(), "x", 1)
	c.Assert(err, qt.ErrorIs, ErrMissingJWT)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"Invalid authentication"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()
	_, err = NewClient(srv.URL, "jwt", time.Second).PinJSON(context.Background(), "x", 1)
	c.Assert(err, qt.ErrorMatches, `Pinata error 401: \{"error":"Invalid authentication"\}`)

	bogus := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"IpfsHash":"nope"}`))
	}))
	defer bogus.Close()
	_, err = NewClient(bogus.URL, "jwt", time.Second).PinJSON(context.Background(), "x", 1)
	c.Assert(err, qt.ErrorIs, ErrInvalidCID)
}

func TestGatewayRetries(t *testing.T) {
	c := qt.New(t)

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.Check(r.URL.Path, qt.Equals, "/ipfs/"+cidV0)
		c.Check(r.URL.Query().Get("pinataGatewayToken"), qt.Equals, "gw-token")
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"ranking":[1,0,2,3]}`))
	}))
	defer srv.Close()

	gw := NewGateway(srv.URL, "gw-token", time.Second)
	gw.Backoff = time.Millisecond

	var doc struct {
		Ranking []int `json:"ranking"`
	}
	err := gw.FetchJSON(context.Background(), cidV0, &doc)
	c.Assert(err, qt.IsNil)
	c.Assert(doc.Ranking, qt.DeepEquals, []int{1, 0, 2, 3})
	c.Assert(calls.Load(), qt.Equals, int32(3))
}

func TestGatewayFailures(t *testing.T) {
	c := qt.New(t)

	var calls atomic.Int32
	unavailable := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer unavailable.Close()

	gw := NewGateway(unavailable.URL, "", time.Second)
	gw.Backoff = time.Millisecond
	_, err := gw.Fetch(context.Background(), cidV0)
	c.Assert(err, qt.ErrorIs, ErrGateway)
	c.Assert(err, qt.ErrorMatches, ".*failed to fetch "+cidV0+": 503 from gateway")
	c.Assert(calls.Load(), qt.Equals, int32(DefaultRetries))

	calls.Store(0)
	forbidden := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "no access", http.StatusForbidden)
	}))
	defer forbidden.Close()

	gw = NewGateway(forbidden.URL, "", time.Second)
	_, err = gw.Fetch(context.Background(), cidV0)
	c.Assert(err, qt.ErrorMatches, ".*gateway returned 403: no access\n")
	c.Assert(calls.Load(), qt.Equals, int32(1))

	garbage := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>"))
	}))
	defer garbage.Close()

	var v map[string]any
	err = NewGateway(garbage.URL, "", time.Second).FetchJSON(context.Background(), cidV0, &v)
	c.Assert(err, qt.ErrorMatches, ".*failed to parse JSON for "+cidV0+".*")

	_, err = gw.Fetch(context.Background(), "bad")
	c.Assert(err, qt.ErrorIs, ErrInvalidCID)
}
