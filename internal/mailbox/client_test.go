// Copyright (c) 2026 cursor-free Team
// cursor-free - Cursor machine identity reset tool
// This source code is licensed under the MIT license found in the LICENSE file.

package mailbox

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/HappyFox001/cursor-free/internal/model"
	"github.com/HappyFox001/cursor-free/internal/testutil"
)

var testSession = model.MailboxSession{Username: "inbox", Extension: "@mailto.plus"}

func newTestClient(t *testing.T) (*Client, *testutil.FakeMailbox) {
	t.Helper()
	fake, baseURL := testutil.NewFakeMailbox(t)
	fake.RequireEmail(testSession.Address())
	c := NewClient(testSession,
		WithBaseURL(baseURL+"/"),
		WithTimeout(5*time.Second),
		WithDeleteRetry(5, time.Millisecond),
	)
	return c, fake
}

func TestListMessages_Empty(t *testing.T) {
	c, _ := newTestClient(t)
	_, err := c.ListMessages(context.Background())
	require.ErrorIs(t, err, ErrEmpty)
	require.ErrorIs(t, err, ErrUpstream)
}

func TestListAndFetch(t *testing.T) {
	c, fake := newTestClient(t)
	fake.Deliver("first", "")
	id := fake.Deliver("Your code is 111222", "")

	got, err := c.ListMessages(context.Background())
	require.NoError(t, err)
	require.Equal(t, "1002", got)
	require.Equal(t, 1002, id)

	body, err := c.FetchBody(context.Background(), got)
	require.NoError(t, err)
	require.Equal(t, "Your code is 111222", body)
}

func TestFetchBody_FallsBackToHTML(t *testing.T) {
	c, fake := newTestClient(t)
	fake.Deliver("", "<p>Code <b>777888</b></p>")
	id, err := c.ListMessages(context.Background())
	require.NoError(t, err)

	body, err := c.FetchBody(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, "Code 777888", body)
}

func TestFetchBody_UnknownMessage(t *testing.T) {
	c, _ := newTestClient(t)
	_, err := c.FetchBody(context.Background(), "42")
	require.ErrorIs(t, err, ErrUpstream)
}

func TestListMessages_WrongAddressRefused(t *testing.T) {
	c, fake := newTestClient(t)
	fake.RequireEmail("someone-else@mailto.plus")
	fake.Deliver("x", "")
	_, err := c.ListMessages(context.Background())
	require.ErrorIs(t, err, ErrUpstream)
	require.NotErrorIs(t, err, ErrEmpty)
}

func TestListMessages_HTTPStatus(t *testing.T) {
	c, fake := newTestClient(t)
	fake.RespondWith(http.StatusBadGateway)
	_, err := c.ListMessages(context.Background())
	require.ErrorIs(t, err, ErrUpstream)
	require.Contains(t, err.Error(), "502")
}

func TestListMessages_UndecodableBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>maintenance</html>"))
	}))
	t.Cleanup(srv.Close)

	c := NewClient(testSession, WithBaseURL(srv.URL))
	_, err := c.ListMessages(context.Background())
	require.ErrorIs(t, err, ErrUpstream)
}

func TestListMessages_StringFirstID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("email") != "inbox@mailto.plus" || q.Get("limit") != "20" {
			http.Error(w, "unexpected query "+r.URL.RawQuery, http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"result": true, "first_id": "abc123"})
	}))
	t.Cleanup(srv.Close)

	c := NewClient(testSession, WithBaseURL(srv.URL), WithRateLimit(1000))
	id, err := c.ListMessages(context.Background())
	require.NoError(t, err)
	require.Equal(t, "abc123", id)
}

func TestParseMessageID(t *testing.T) {
	cases := map[string]string{
		`"abc"`:  "abc",
		`123`:    "123",
		`0`:      "",
		`"0"`:    "",
		`null`:   "",
		``:       "",
		`" 17 "`: "17",
		`true`:   "",
	}
	for raw, want := range cases {
		if got := parseMessageID(json.RawMessage(raw)); got != want {
			t.Fatalf("parseMessageID(%s) = %q; want %q", raw, got, want)
		}
	}
}

func TestDeleteMessage(t *testing.T) {
	c, fake := newTestClient(t)
	id := fake.Deliver("x", "")

	require.NoError(t, c.DeleteMessage(context.Background(), "1001"))
	require.Equal(t, 1001, id)
	require.Equal(t, 0, fake.Count())
	_, _, deletes := fake.Calls()
	require.Equal(t, 1, deletes)
}

func TestDeleteMessage_RetriesUntilAccepted(t *testing.T) {
	c, fake := newTestClient(t)
	fake.Deliver("x", "")
	fake.FailNextDeletes(2)

	require.NoError(t, c.DeleteMessage(context.Background(), "1001"))
	_, _, deletes := fake.Calls()
	require.Equal(t, 3, deletes)
	require.Equal(t, 0, fake.Count())
}

func TestDeleteMessage_GivesUpAfterFiveAttempts(t *testing.T) {
	c, fake := newTestClient(t)
	fake.Deliver("x", "")
	fake.FailNextDeletes(100)

	err := c.DeleteMessage(context.Background(), "1001")
	require.ErrorIs(t, err, ErrCleanup)
	_, _, deletes := fake.Calls()
	require.Equal(t, 5, deletes)
	require.Equal(t, 1, fake.Count())
}

func TestDeleteMessage_CanceledContext(t *testing.T) {
	c, _ := newTestClient(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := c.DeleteMessage(ctx, "1")
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrCleanup))
}

func TestListMessages_RateLimitWaitFails(t *testing.T) {
	fake, baseURL := testutil.NewFakeMailbox(t)
	c := NewClient(testSession, WithBaseURL(baseURL), WithRateLimit(0.001))
	fake.Deliver("first", "")
	_, err := c.ListMessages(context.Background())
	require.NoError(t, err)

	// The single token is spent; the next call cannot wait that long.
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = c.ListMessages(ctx)
	require.ErrorIs(t, err, ErrUpstream)
	lists, _, _ := fake.Calls()
	require.Equal(t, 1, lists)
}

func TestNewSession(t *testing.T) {
	s := NewSession(" me ", "example.org", " 1234 ")
	require.Equal(t, "me@example.org", s.Address())
	require.Equal(t, "1234", s.Pin)

	s = NewSession("me", "", "")
	require.Equal(t, "me"+DefaultExtension, s.Address())

	s = NewSession("", "", "")
	require.NotEmpty(t, s.Username)
	require.Equal(t, DefaultExtension, s.Extension)
}
