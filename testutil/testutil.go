// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/danielhkuo/quickly-rank/auth"
	"github.com/danielhkuo/quickly-rank/board"
	"github.com/danielhkuo/quickly-rank/cliparse"
	"github.com/danielhkuo/quickly-rank/contract"
	"github.com/danielhkuo/quickly-rank/models"
	"github.com/danielhkuo/quickly-rank/pinning"
	"github.com/danielhkuo/quickly-rank/proof"
	"github.com/danielhkuo/quickly-rank/session"
	"github.com/danielhkuo/quickly-rank/submit"
)

// TestSender is a well-formed 58 character account address
const TestSender = "VOTERQ3XGHZ7T5KPLMNB2WQ4ERTY6UIOPASDFGHJKLZXCVBNM234567ABC"

// TestCID is what the fake Pinata server returns for every pin
const TestCID = "QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG"

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:          3318,
		Network:       "localnet",
		AppID:         1002,
		SenderAddress: TestSender,
		PinataJWT:     "test-jwt",
		ZKURL:         cliparse.ZKDisabled,
		ZKTimeout:     2 * time.Second,
		SessionSalt:   "test-session-salt",
		SessionTTL:    time.Minute,
		SetupSeed:     42,
	}
}

// Services bundles the collaborators a test host runs against
type Services struct {
	Store    *session.Store
	Election *contract.Memory
	Pinata   *FakePinata
	Prover   *FakeProver // nil unless withProofs
	Gateway  *pinning.Gateway
	Pipeline *submit.Pipeline

	// ProofClient talks to Prover; nil unless withProofs
	ProofClient *proof.Client
}

// NewServices wires an in-memory election, a fake Pinata (which doubles as
// the IPFS gateway) and optionally a fake proof service. The sender in cfg
// is opted in to the election.
func NewServices(t *testing.T, cfg cliparse.Config, withProofs bool) *Services {
	t.Helper()

	s := &Services{
		Store:    session.NewStore(cfg.SessionTTL),
		Election: contract.NewMemory(cfg.AppID),
		Pinata:   NewFakePinata(t),
	}
	if cfg.SenderAddress != "" {
		if _, err := s.Election.Register(t.Context(), cfg.SenderAddress); err != nil {
			t.Fatalf("Failed to register test sender: %v", err)
		}
	}

	s.Gateway = pinning.NewGateway(s.Pinata.URL(), "", 2*time.Second)
	s.Gateway.Backoff = time.Millisecond

	s.Pipeline = &submit.Pipeline{
		Pinner:    pinning.NewClient(s.Pinata.URL(), cfg.PinataJWT, 2*time.Second),
		Election:  s.Election,
		SetupSeed: cfg.SetupSeed,
	}
	if withProofs {
		s.Prover = NewFakeProver(t)
		s.ProofClient = proof.NewClient(s.Prover.URL(), 2*time.Second)
		s.Pipeline.Prover = s.ProofClient
	}

	return s
}

// CreateTestSession builds a default board session and returns its ID and token
func CreateTestSession(t *testing.T, store *session.Store, cfg cliparse.Config) (sessionID, token string) {
	t.Helper()

	b, err := board.New(board.DefaultCandidates())
	if err != nil {
		t.Fatalf("Failed to build board: %v", err)
	}
	s := store.Create(board.DefaultTitle, b)
	return s.ID, auth.GenerateSessionToken(s.ID, cfg.SessionSalt)
}

// FakePinata serves pinJSONToIPFS and the gateway's /ipfs/{cid} from memory
type FakePinata struct {
	server *httptest.Server

	mu     sync.Mutex
	pinned map[string]json.RawMessage
	fail   int // status to fail pins with, 0 for success
}

func NewFakePinata(t *testing.T) *FakePinata {
	t.Helper()

	f := &FakePinata{pinned: make(map[string]json.RawMessage)}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /pinning/pinJSONToIPFS", f.pin)
	mux.HandleFunc("GET /ipfs/{cid}", f.fetch)
	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func (f *FakePinata) URL() string { return f.server.URL }

// FailWith makes every following pin fail with status (0 restores success)
func (f *FakePinata) FailWith(status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail = status
}

// Pinned returns the document stored under cid
func (f *FakePinata) Pinned(cid string) (json.RawMessage, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, ok := f.pinned[cid]
	return doc, ok
}

func (f *FakePinata) pin(w http.ResponseWriter, r *http.Request) {
	if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
		http.Error(w, `{"error":"Invalid authentication"}`, http.StatusUnauthorized)
		return
	}

	var body struct {
		Content json.RawMessage `json:"pinataContent"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "bad body", http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	fail := f.fail
	if fail == 0 {
		f.pinned[TestCID] = body.Content
	}
	f.mu.Unlock()

	if fail != 0 {
		http.Error(w, "pinning unavailable", fail)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"IpfsHash":  TestCID,
		"PinSize":   len(body.Content),
		"Timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (f *FakePinata) fetch(w http.ResponseWriter, r *http.Request) {
	doc, ok := f.Pinned(r.PathValue("cid"))
	if !ok {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(doc)
}

// FakeProver answers /generate, /verify and /selfcheck like the proof
// service, without real cryptography
type FakeProver struct {
	server *httptest.Server

	mu       sync.Mutex
	requests []proof.GenerateRequest
	fail     string
	reject   bool
}

func NewFakeProver(t *testing.T) *FakeProver {
	t.Helper()

	f := &FakeProver{}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /generate", f.generate)
	mux.HandleFunc("POST /verify", f.verify)
	mux.HandleFunc("GET /selfcheck", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true,"log2_n":3}`))
	})
	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func (f *FakeProver) URL() string { return f.server.URL }

// FailWith makes /generate answer ok=false with msg ("" restores success)
func (f *FakeProver) FailWith(msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail = msg
}

// RejectProofs makes /verify answer ok=false
func (f *FakeProver) RejectProofs(reject bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reject = reject
}

// Requests returns every /generate request seen so far
func (f *FakeProver) Requests() []proof.GenerateRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]proof.GenerateRequest, len(f.requests))
	copy(out, f.requests)
	return out
}

func (f *FakeProver) generate(w http.ResponseWriter, r *http.Request) {
	var req proof.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad body", http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	f.requests = append(f.requests, req)
	fail := f.fail
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if fail != "" {
		json.NewEncoder(w).Encode(map[string]any{"ok": false, "error": fail})
		return
	}

	log2n, err := proof.CheckBallot(req.Ballot)
	if err != nil {
		json.NewEncoder(w).Encode(map[string]any{"ok": false, "error": err.Error()})
		return
	}
	json.NewEncoder(w).Encode(map[string]any{
		"ok": true,
		"proof": proof.Parts{
			Log2N:                log2n,
			CommittedBallot:      "Y29tbWl0dGVkLWJhbGxvdA==",
			CommittedPermutation: "Y29tbWl0dGVkLXBlcm0=",
			Proof:                "cHJvb2Y=",
		},
	})
}

func (f *FakeProver) verify(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	reject := f.reject
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if reject {
		w.Write([]byte(`{"ok":false}`))
		return
	}
	w.Write([]byte(`{"ok":true}`))
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// SessionHeaders returns the auth header for a session
func SessionHeaders(token string) map[string]string {
	return map[string]string{models.HeaderSessionToken: token}
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
