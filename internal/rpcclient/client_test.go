package rpcclient

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	klog "github.com/scilla-cli/scilla/internal/log"
)

// fakeNode answers JSON-RPC calls from a table of canned results. A handler
// may return an *rpcErr to produce a JSON-RPC error response.
type fakeNode struct {
	mu       sync.Mutex
	handlers map[string]func(params json.RawMessage) interface{}
	calls    map[string]int
}

type rpcErr struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func newFakeNode(t *testing.T) (*fakeNode, *Client) {
	t.Helper()
	klog.Init("error", false, "")

	f := &fakeNode{
		handlers: make(map[string]func(json.RawMessage) interface{}),
		calls:    make(map[string]int),
	}
	srv := httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(srv.Close)

	return f, NewWithOptions(srv.URL, rpc.CommitmentConfirmed, 5*time.Second)
}

func (f *fakeNode) handle(method string, fn func(params json.RawMessage) interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[method] = fn
}

func (f *fakeNode) result(method string, v interface{}) {
	f.handle(method, func(json.RawMessage) interface{} { return v })
}

func (f *fakeNode) count(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

func (f *fakeNode) serve(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID     json.RawMessage `json:"id"`
		Method string          `json:"method"`
		Params json.RawMessage `json:"params"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	f.calls[req.Method]++
	h, ok := f.handlers[req.Method]
	f.mu.Unlock()

	resp := map[string]interface{}{"jsonrpc": "2.0", "id": req.ID}
	if !ok {
		resp["error"] = rpcErr{Code: -32601, Message: "Method not found"}
	} else if res := h(req.Params); res != nil {
		if e, isErr := res.(*rpcErr); isErr {
			resp["error"] = e
		} else {
			resp["result"] = res
		}
	} else {
		resp["result"] = nil
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func ctxResult(value interface{}) map[string]interface{} {
	return map[string]interface{}{
		"context": map[string]interface{}{"slot": 1000},
		"value":   value,
	}
}

func accountValue(lamports uint64, owner solana.PublicKey, data []byte) map[string]interface{} {
	return map[string]interface{}{
		"lamports":   lamports,
		"owner":      owner.String(),
		"data":       []string{base64.StdEncoding.EncodeToString(data), "base64"},
		"executable": false,
		"rentEpoch":  0,
		"space":      len(data),
	}
}

func TestGetAccount(t *testing.T) {
	f, c := newFakeNode(t)
	addr := solana.NewWallet().PublicKey()
	f.result("getAccountInfo", ctxResult(accountValue(2_000_000_000, solana.StakeProgramID, []byte{1, 2, 3})))

	acct, err := c.GetAccount(context.Background(), addr)
	if err != nil {
		t.Fatalf("GetAccount() error: %v", err)
	}
	if acct.Lamports != 2_000_000_000 {
		t.Errorf("Lamports = %d", acct.Lamports)
	}
	if !acct.Owner.Equals(solana.StakeProgramID) {
		t.Errorf("Owner = %s", acct.Owner)
	}
	if string(acct.Data) != "\x01\x02\x03" {
		t.Errorf("Data = %x", acct.Data)
	}
	if !acct.Address.Equals(addr) {
		t.Errorf("Address = %s, want %s", acct.Address, addr)
	}
}

func TestGetAccount_NotFound(t *testing.T) {
	f, c := newFakeNode(t)
	f.result("getAccountInfo", ctxResult(nil))

	_, err := c.GetAccount(context.Background(), solana.NewWallet().PublicKey())
	if !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("GetAccount() error = %v, want ErrAccountNotFound", err)
	}
}

func TestCall_RPCError(t *testing.T) {
	f, c := newFakeNode(t)
	f.result("getBalance", &rpcErr{Code: -32602, Message: "Invalid param"})

	_, err := c.GetBalance(context.Background(), solana.NewWallet().PublicKey())
	var rerr *RPCError
	if !errors.As(err, &rerr) {
		t.Fatalf("GetBalance() error = %v, want *RPCError", err)
	}
	if rerr.Code != -32602 || rerr.Method != "getBalance" {
		t.Errorf("RPCError = %+v", rerr)
	}
}

func TestGetBalance(t *testing.T) {
	f, c := newFakeNode(t)
	f.result("getBalance", ctxResult(1234))

	bal, err := c.GetBalance(context.Background(), solana.NewWallet().PublicKey())
	if err != nil {
		t.Fatalf("GetBalance() error: %v", err)
	}
	if bal != 1234 {
		t.Errorf("balance = %d, want 1234", bal)
	}
}

func TestFetchAccountWithEpoch(t *testing.T) {
	f, c := newFakeNode(t)
	f.result("getAccountInfo", ctxResult(accountValue(10, solana.StakeProgramID, nil)))
	f.result("getEpochInfo", map[string]interface{}{
		"absoluteSlot": 5000, "blockHeight": 4900, "epoch": 42,
		"slotIndex": 100, "slotsInEpoch": 400, "transactionCount": 77,
	})

	acct, epoch, err := c.FetchAccountWithEpoch(context.Background(), solana.NewWallet().PublicKey())
	if err != nil {
		t.Fatalf("FetchAccountWithEpoch() error: %v", err)
	}
	if epoch != 42 || acct.Lamports != 10 {
		t.Errorf("epoch = %d, lamports = %d", epoch, acct.Lamports)
	}

	info, err := c.GetEpochInfo(context.Background())
	if err != nil {
		t.Fatalf("GetEpochInfo() error: %v", err)
	}
	if info.TransactionCount != 77 {
		t.Errorf("TransactionCount = %d", info.TransactionCount)
	}
	if p := info.Progress(); p != 0.25 {
		t.Errorf("Progress() = %v, want 0.25", p)
	}
}

func TestGetLatestBlockhash(t *testing.T) {
	f, c := newFakeNode(t)
	want := solana.Hash(solana.NewWallet().PublicKey())
	f.result("getLatestBlockhash", ctxResult(map[string]interface{}{
		"blockhash": want.String(), "lastValidBlockHeight": 99,
	}))

	got, err := c.GetLatestBlockhash(context.Background())
	if err != nil {
		t.Fatalf("GetLatestBlockhash() error: %v", err)
	}
	if got != want {
		t.Errorf("blockhash = %s, want %s", got, want)
	}
}

func TestGetMinimumBalanceForRentExemption(t *testing.T) {
	f, c := newFakeNode(t)
	f.handle("getMinimumBalanceForRentExemption", func(params json.RawMessage) interface{} {
		var p []json.RawMessage
		json.Unmarshal(params, &p)
		if len(p) == 0 || string(p[0]) != "200" {
			return &rpcErr{Code: -32602, Message: "unexpected size " + string(params)}
		}
		return 2_282_880
	})

	got, err := c.GetMinimumBalanceForRentExemption(context.Background(), 200)
	if err != nil {
		t.Fatalf("GetMinimumBalanceForRentExemption() error: %v", err)
	}
	if got != 2_282_880 {
		t.Errorf("rent = %d", got)
	}
}

func TestConfirmTransaction(t *testing.T) {
	old := PollInterval
	PollInterval = 10 * time.Millisecond
	defer func() { PollInterval = old }()

	f, c := newFakeNode(t)
	var mu sync.Mutex
	polls := 0
	f.handle("getSignatureStatuses", func(json.RawMessage) interface{} {
		mu.Lock()
		defer mu.Unlock()
		polls++
		if polls < 3 {
			return ctxResult([]interface{}{nil})
		}
		if polls < 4 {
			return ctxResult([]interface{}{map[string]interface{}{
				"slot": 1, "confirmations": 0, "err": nil, "confirmationStatus": "processed",
			}})
		}
		return ctxResult([]interface{}{map[string]interface{}{
			"slot": 1, "confirmations": nil, "err": nil, "confirmationStatus": "finalized",
		}})
	})

	sig := solana.Signature{1}
	if err := c.ConfirmTransaction(context.Background(), sig, 2*time.Second); err != nil {
		t.Fatalf("ConfirmTransaction() error: %v", err)
	}
	if n := f.count("getSignatureStatuses"); n != 4 {
		t.Errorf("polls = %d, want 4", n)
	}
}

func TestConfirmTransaction_Failed(t *testing.T) {
	f, c := newFakeNode(t)
	f.result("getSignatureStatuses", ctxResult([]interface{}{map[string]interface{}{
		"slot": 1, "err": map[string]interface{}{"InstructionError": []interface{}{0, "Custom"}},
		"confirmationStatus": "confirmed",
	}}))

	err := c.ConfirmTransaction(context.Background(), solana.Signature{2}, time.Second)
	var failed *TxFailedError
	if !errors.As(err, &failed) {
		t.Fatalf("ConfirmTransaction() error = %v, want *TxFailedError", err)
	}
}

func TestConfirmTransaction_Timeout(t *testing.T) {
	old := PollInterval
	PollInterval = 10 * time.Millisecond
	defer func() { PollInterval = old }()

	f, c := newFakeNode(t)
	f.result("getSignatureStatuses", ctxResult([]interface{}{nil}))

	err := c.ConfirmTransaction(context.Background(), solana.Signature{3}, 50*time.Millisecond)
	if !errors.Is(err, ErrConfirmTimeout) {
		t.Fatalf("ConfirmTransaction() error = %v, want ErrConfirmTimeout", err)
	}
}

func TestGetVoteAccount(t *testing.T) {
	f, c := newFakeNode(t)
	vote := solana.NewWallet().PublicKey()
	node := solana.NewWallet().PublicKey()
	f.result("getVoteAccounts", map[string]interface{}{
		"current": []interface{}{},
		"delinquent": []interface{}{map[string]interface{}{
			"votePubkey": vote.String(), "nodePubkey": node.String(),
			"activatedStake": 500, "epochVoteAccount": true, "commission": 8,
			"lastVote": 10, "rootSlot": 5, "epochCredits": [][]int64{{3, 100, 50}},
		}},
	})

	info, err := c.GetVoteAccount(context.Background(), vote)
	if err != nil {
		t.Fatalf("GetVoteAccount() error: %v", err)
	}
	if !info.Delinquent || info.Commission != 8 || !info.NodePubkey.Equals(node) {
		t.Errorf("info = %+v", info)
	}

	_, err = c.GetVoteAccount(context.Background(), solana.NewWallet().PublicKey())
	if !errors.Is(err, ErrVoteAccountNotFound) {
		t.Errorf("GetVoteAccount(unknown) error = %v, want ErrVoteAccountNotFound", err)
	}
}

func TestRequestAirdropAndGenesis(t *testing.T) {
	f, c := newFakeNode(t)
	sig := solana.Signature{9, 9, 9}
	f.result("requestAirdrop", sig.String())
	f.result("getGenesisHash", "EtWTRABZaYq6iMfeYKouRu166VU2xqa1wcaWoxPkrZBG")

	got, err := c.RequestAirdrop(context.Background(), solana.NewWallet().PublicKey(), 1)
	if err != nil {
		t.Fatalf("RequestAirdrop() error: %v", err)
	}
	if got != sig {
		t.Errorf("signature = %s, want %s", got, sig)
	}

	h, err := c.GetGenesisHash(context.Background())
	if err != nil {
		t.Fatalf("GetGenesisHash() error: %v", err)
	}
	if h.String() != "EtWTRABZaYq6iMfeYKouRu166VU2xqa1wcaWoxPkrZBG" {
		t.Errorf("genesis = %s", h)
	}
}
