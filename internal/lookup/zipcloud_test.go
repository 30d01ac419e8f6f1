package lookup

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, status int, body string) (*Client, *string) {
	t.Helper()
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/search" {
			t.Errorf("path=%s", r.URL.Path)
		}
		gotQuery = r.URL.Query().Get("zipcode")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 2*time.Second), &gotQuery
}

func TestLookup_Found(t *testing.T) {
	c, q := newServer(t, http.StatusOK, `{"message":null,"results":[
		{"address1":"東京都","address2":"千代田区","address3":"千代田","kana1":"ﾄｳｷｮｳﾄ","prefcode":"13","zipcode":"1000001"}
	],"status":200}`)

	addr, err := c.Lookup(context.Background(), "100-0001")
	require.NoError(t, err)
	assert.Equal(t, "1000001", *q)
	assert.Equal(t, "13", addr.PrefectureCode)
	assert.Equal(t, "東京都", addr.Prefecture)
	assert.Equal(t, "千代田区 千代田", addr.City)
	assert.Equal(t, "1000001", addr.PostalCode)
}

func TestLookup_SingleDigitPrefcode(t *testing.T) {
	c, _ := newServer(t, http.StatusOK, `{"status":200,"results":[
		{"prefcode":"1","address1":"北海道","address2":"札幌市中央区","address3":""}
	]}`)

	addr, err := c.Lookup(context.Background(), "0600000")
	require.NoError(t, err)
	assert.Equal(t, "01", addr.PrefectureCode)
	assert.Equal(t, "北海道", addr.Prefecture)
	assert.Equal(t, "札幌市中央区", addr.City)
}

func TestLookup_NotFound(t *testing.T) {
	c, _ := newServer(t, http.StatusOK, `{"message":null,"results":null,"status":200}`)
	_, err := c.Lookup(context.Background(), "9999999")
	assert.ErrorIs(t, err, ErrNotFound)

	c, _ = newServer(t, http.StatusOK, `{"message":"パラメータ「郵便番号」の桁数が不正です。","results":null,"status":400}`)
	_, err = c.Lookup(context.Background(), "1234567")
	assert.True(t, errors.Is(err, ErrNotFound), "err=%v", err)
}

func TestLookup_InvalidInput(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", time.Second)
	_, err := c.Lookup(context.Background(), "12-34")
	assert.ErrorIs(t, err, ErrInvalidPostalCode)
}

func TestLookup_UpstreamFailure(t *testing.T) {
	c, _ := newServer(t, http.StatusInternalServerError, `oops`)
	_, err := c.Lookup(context.Background(), "1000001")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)

	c, _ = newServer(t, http.StatusOK, `{"status":500,"message":"internal"}`)
	_, err = c.Lookup(context.Background(), "1000001")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "internal")

	c, _ = newServer(t, http.StatusOK, `not json`)
	_, err = c.Lookup(context.Background(), "1000001")
	require.Error(t, err)
}
