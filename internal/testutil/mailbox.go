// Copyright (c) 2026 cursor-free Team
// cursor-free - Cursor machine identity reset tool
// This source code is licensed under the MIT license found in the LICENSE file.

package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
)

// FakeMessage is one message held by a FakeMailbox.
type FakeMessage struct {
	ID   int
	Text string
	HTML string
}

// FakeMailbox emulates the tempmail.plus API over httptest.
type FakeMailbox struct {
	mu          sync.Mutex
	email       string
	failDeletes int
	status      int
	messages    []FakeMessage
	nextID      int
	listCalls   int
	fetchCalls  int
	deleteCalls int
}

// RequireEmail makes the fake refuse every address but email.
func (f *FakeMailbox) RequireEmail(email string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.email = email
}

// FailNextDeletes makes the next n delete calls report result=false.
func (f *FakeMailbox) FailNextDeletes(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failDeletes = n
}

// RespondWith makes every endpoint answer with status. Zero restores normal
// behaviour.
func (f *FakeMailbox) RespondWith(status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = status
}

// Calls returns how often each endpoint was hit.
func (f *FakeMailbox) Calls() (list, fetch, del int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls, f.fetchCalls, f.deleteCalls
}

// NewFakeMailbox starts a fake server and returns it with its base URL.
func NewFakeMailbox(t *testing.T) (*FakeMailbox, string) {
	t.Helper()
	f := &FakeMailbox{nextID: 1000}
	srv := httptest.NewServer(f.Router())
	t.Cleanup(srv.Close)
	return f, srv.URL
}

// Deliver adds a message and returns its id.
func (f *FakeMailbox) Deliver(text, html string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.messages = append(f.messages, FakeMessage{ID: f.nextID, Text: text, HTML: html})
	return f.nextID
}

// Count returns the number of stored messages.
func (f *FakeMailbox) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.messages)
}

// Router exposes the fake's routes.
func (f *FakeMailbox) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(f.statusOverride)
	r.Get("/mails", f.list)
	r.Get("/mails/{id}", f.fetch)
	r.Delete("/mails/", f.delete)
	return r
}

func (f *FakeMailbox) statusOverride(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		status := f.status
		f.mu.Unlock()
		if status != 0 {
			w.WriteHeader(status)
			_, _ = w.Write([]byte("upstream unavailable"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (f *FakeMailbox) authorised(email string) bool {
	return f.email == "" || f.email == email
}

func (f *FakeMailbox) list(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if !f.authorised(r.URL.Query().Get("email")) {
		writeJSON(w, map[string]any{"result": false, "err": "bad email"})
		return
	}
	firstID := 0
	mails := make([]map[string]any, 0, len(f.messages))
	for i := len(f.messages) - 1; i >= 0; i-- {
		if firstID == 0 {
			firstID = f.messages[i].ID
		}
		mails = append(mails, map[string]any{"mail_id": f.messages[i].ID})
	}
	writeJSON(w, map[string]any{
		"result":    true,
		"count":     len(mails),
		"first_id":  firstID,
		"mail_list": mails,
	})
}

func (f *FakeMailbox) fetch(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchCalls++
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	if !f.authorised(r.URL.Query().Get("email")) {
		writeJSON(w, map[string]any{"result": false})
		return
	}
	for _, m := range f.messages {
		if m.ID == id {
			writeJSON(w, map[string]any{"result": true, "text": m.Text, "html": m.HTML})
			return
		}
	}
	writeJSON(w, map[string]any{"result": false})
}

func (f *FakeMailbox) delete(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls++
	// net/http only parses form bodies of POST, PUT and PATCH.
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	form, err := url.ParseQuery(string(body))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if f.failDeletes > 0 || !f.authorised(form.Get("email")) {
		if f.failDeletes > 0 {
			f.failDeletes--
		}
		writeJSON(w, map[string]any{"result": false})
		return
	}
	id, _ := strconv.Atoi(form.Get("first_id"))
	kept := f.messages[:0]
	for _, m := range f.messages {
		if m.ID != id {
			kept = append(kept, m)
		}
	}
	f.messages = kept
	writeJSON(w, map[string]any{"result": true})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
