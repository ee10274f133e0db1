package stacks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"monsterScope/internal/clarity"
	"monsterScope/internal/model"
)

const testAddress = "ST000000000000000000002AMW42H"

func newTestClient(t *testing.T, handler http.Handler, opts Options) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(srv.URL, opts)
	require.NoError(t, err)
	return client
}

func mustHex(t *testing.T, v clarity.Value) string {
	t.Helper()
	hex, err := clarity.EncodeHex(v)
	require.NoError(t, err)
	return hex
}

func TestCallReadOnly(t *testing.T) {
	contract := Contract{Address: testAddress, Name: "monsters"}
	result := mustHex(t, clarity.ResponseOk{Value: clarity.Bool(true)})

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v2/contracts/call-read/"+testAddress+"/monsters/is-alive", r.URL.Path)

		var body callReadOnlyRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, testAddress, body.Sender)
		require.Equal(t, []string{"0x0100000000000000000000000000000007"}, body.Arguments)

		_ = json.NewEncoder(w).Encode(callReadOnlyResponse{Okay: true, Result: result})
	})
	client := newTestClient(t, handler, Options{})

	value, err := client.CallReadOnly(context.Background(), contract, "is-alive", "", clarity.NewUInt(7))
	require.NoError(t, err)
	require.Equal(t, "(ok true)", clarity.String(value))
}

func TestCallReadOnlyNotOkay(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(callReadOnlyResponse{Okay: false, Cause: "Unchecked(NoSuchContract)"})
	})
	client := newTestClient(t, handler, Options{})

	_, err := client.CallReadOnly(context.Background(), Contract{Address: testAddress, Name: "monsters"}, "get-owner", testAddress)
	var callErr *CallError
	require.ErrorAs(t, err, &callErr)
	require.Contains(t, callErr.Cause, "NoSuchContract")
}

func TestMapEntry(t *testing.T) {
	data := mustHex(t, clarity.Some{Value: clarity.Tuple{"image": clarity.NewUInt(4)}})

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v2/map_entry/"+testAddress+"/monsters/monsters", r.URL.Path)
		require.Equal(t, "0", r.URL.Query().Get("proof"))

		var key string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&key))
		require.Equal(t, "0x0100000000000000000000000000000001", key)

		_ = json.NewEncoder(w).Encode(mapEntryResponse{Data: data})
	})
	client := newTestClient(t, handler, Options{})

	value, err := client.MapEntry(context.Background(), Contract{Address: testAddress, Name: "monsters"}, "monsters", clarity.NewUInt(1))
	require.NoError(t, err)
	require.Equal(t, "(some (tuple (image u4)))", clarity.String(value))
}

func TestMapEntryMalformedPayload(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(mapEntryResponse{Data: "0x0a"})
	})
	client := newTestClient(t, handler, Options{})

	_, err := client.MapEntry(context.Background(), Contract{Address: testAddress, Name: "monsters"}, "monsters", clarity.NewUInt(1))
	var decodeErr *clarity.DecodeError
	require.ErrorAs(t, err, &decodeErr)
}

func TestAccountAssetsPaginates(t *testing.T) {
	const total = 5
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/extended/v1/address/"+testAddress+"/assets", r.URL.Path)
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

		page := assetsPage{Limit: limit, Offset: offset, Total: total}
		for i := offset; i < total && i < offset+limit; i++ {
			page.Results = append(page.Results, model.AssetEvent{
				EventIndex: uint64(i),
				EventType:  model.EventTypeNonFungible,
				Asset:      model.Asset{AssetID: fmt.Sprintf("asset-%d", i)},
			})
		}
		_ = json.NewEncoder(w).Encode(page)
	})
	client := newTestClient(t, handler, Options{PageSize: 2})

	events, err := client.AccountAssets(context.Background(), testAddress)
	require.NoError(t, err)
	require.Len(t, events, total)
	for i, event := range events {
		require.Equal(t, uint64(i), event.EventIndex)
	}
}

func TestAccountAssetsRetriesServerErrors(t *testing.T) {
	var calls int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			http.Error(w, "upstream unavailable", http.StatusBadGateway)
			return
		}
		_ = json.NewEncoder(w).Encode(assetsPage{Total: 0})
	})
	client := newTestClient(t, handler, Options{MaxRetries: 2, RetryBackoff: time.Millisecond})

	events, err := client.AccountAssets(context.Background(), testAddress)
	require.NoError(t, err)
	require.Empty(t, events)
	require.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestAccountAssetsDoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "bad principal", http.StatusBadRequest)
	})
	client := newTestClient(t, handler, Options{MaxRetries: 3, RetryBackoff: time.Millisecond})

	_, err := client.AccountAssets(context.Background(), "not-a-principal")
	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	require.Equal(t, http.StatusBadRequest, httpErr.StatusCode)
	require.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestCoreInfoAndTransaction(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v2/info", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"network_id":2147483648,"stacks_tip_height":120,"burn_block_height":90,"tenure_height":77}`))
	})
	mux.HandleFunc("/extended/v1/tx/0xabc", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"tx_id":"0xabc","tx_status":"success","block_height":121,"tx_result":{"hex":"0x0703","repr":"(ok true)"}}`))
	})
	client := newTestClient(t, mux, Options{})

	info, err := client.CoreInfo(context.Background())
	require.NoError(t, err)
	require.Equal(t, uint64(77), info.TenureHeight)

	status, err := client.Transaction(context.Background(), "abc")
	require.NoError(t, err)
	require.Equal(t, model.TxStatus{TxID: "0xabc", Status: "success", BlockHeight: 121, Result: "(ok true)"}, status)
}

func TestNewClientRejectsBadURL(t *testing.T) {
	_, err := NewClient("ftp://example.com", Options{})
	require.Error(t, err)
}

func TestContractIdentifiers(t *testing.T) {
	contract, err := ParseContract(testAddress + ".monsters")
	require.NoError(t, err)
	require.NoError(t, contract.Validate())
	require.Equal(t, testAddress+".monsters::nft-monsters", contract.AssetIdentifier("nft-monsters"))

	_, err = ParseContract(testAddress)
	require.Error(t, err)
}
