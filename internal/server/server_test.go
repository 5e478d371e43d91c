package server_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monochain/monochain/internal/chain"
	"github.com/monochain/monochain/internal/server"
	"github.com/monochain/monochain/internal/store"
)

type statusDoc struct {
	Name       string `json:"name"`
	Difficulty int    `json:"difficulty"`
	Length     uint64 `json:"length"`
	Valid      bool   `json:"valid"`
}

func newTestAPI(t *testing.T) (*httptest.Server, *chain.Ledger) {
	t.Helper()
	ledger, err := chain.CreateGenesis(context.Background(), store.NewMemory(), chain.Options{Difficulty: 1})
	require.NoError(t, err)

	ts := httptest.NewServer(server.NewRouter(ledger))
	t.Cleanup(ts.Close)
	return ts, ledger
}

func TestStatusEndpoint(t *testing.T) {
	ts, _ := newTestAPI(t)

	var status statusDoc
	resp, err := resty.New().R().SetResult(&status).Get(ts.URL + "/")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())

	assert.Equal(t, "monochain", status.Name)
	assert.Equal(t, 1, status.Difficulty)
	assert.EqualValues(t, 1, status.Length)
	assert.True(t, status.Valid)
}

func TestGetBlockEndpoint(t *testing.T) {
	ts, _ := newTestAPI(t)
	client := resty.New()

	var b chain.Block
	resp, err := client.R().SetResult(&b).Get(ts.URL + "/blocks/0")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())
	assert.Equal(t, []byte(chain.GenesisData), b.Data)
	assert.Equal(t, b.ComputeHash(), b.Hash)

	resp, err = client.R().Get(ts.URL + "/blocks/999")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode())
	assert.JSONEq(t, `{"error": "not found"}`, string(resp.Body()))
}

func TestAppendBlockEndpoint(t *testing.T) {
	ts, ledger := newTestAPI(t)

	var b chain.Block
	resp, err := resty.New().R().
		SetBody(map[string]string{"data": "Pay 10 to Alice"}).
		SetResult(&b).
		Post(ts.URL + "/blocks")
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode())

	assert.EqualValues(t, 1, b.Index)
	assert.Equal(t, []byte("Pay 10 to Alice"), b.Data)
	assert.True(t, chain.MeetsDifficulty(b.Hash, 1))

	length, err := ledger.Length(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, length)
}

func TestPreviewMineEndpoint(t *testing.T) {
	ts, ledger := newTestAPI(t)

	var b chain.Block
	resp, err := resty.New().R().
		SetBody(map[string]string{"data": "candidate"}).
		SetResult(&b).
		Post(ts.URL + "/mine")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())

	assert.EqualValues(t, 1, b.Index)
	assert.True(t, chain.MeetsDifficulty(b.Hash, 1))

	// Preview must not grow the chain.
	length, err := ledger.Length(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, length)
}

func TestListBlocksEndpoint(t *testing.T) {
	ts, ledger := newTestAPI(t)
	ctx := context.Background()

	_, err := ledger.Append(ctx, []byte("tx1"))
	require.NoError(t, err)

	var blocks []*chain.Block
	resp, err := resty.New().R().SetResult(&blocks).Get(ts.URL + "/blocks")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())

	require.Len(t, blocks, 2)
	assert.Equal(t, blocks[0].Hash, blocks[1].PrevHash)
}

func TestInvalidRequests(t *testing.T) {
	ts, _ := newTestAPI(t)
	client := resty.New()

	resp, err := client.R().SetBody("{").Post(ts.URL + "/blocks")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode())

	resp, err = client.R().Get(ts.URL + "/blocks/abc")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode())
}
