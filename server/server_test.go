package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venturescope/venturescope/companydata"
	"github.com/venturescope/venturescope/core"
	"github.com/venturescope/venturescope/session"
)

type immediateRun struct {
	events chan core.Event
}

func (r *immediateRun) Events() <-chan core.Event { return r.events }
func (r *immediateRun) Cancel()                   {}

func newTestServer(t *testing.T, apiKeys ...string) *httptest.Server {
	t.Helper()
	researcher := func(ctx context.Context, req core.ResearchRequest) session.Run {
		run := &immediateRun{events: make(chan core.Event, 2)}
		ev := core.NewRunCompletedEvent(&core.Dossier{
			Company:    core.CompanySummary{Name: req.Subject},
			Components: []core.DashboardComponent{},
		})
		ev.Seq = 1
		run.events <- ev
		close(run.events)
		return run
	}
	sessions := session.NewManager(researcher, func(o *session.Options) { o.APIKeys = apiKeys })
	srv := New(sessions, companydata.NewStore(), func(o *Options) { o.APIKeys = apiKeys })

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, "secret")

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func postGetData(t *testing.T, url, apiKey, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, url+"/getData", strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestGetData_MissingKey(t *testing.T) {
	ts := newTestServer(t, "secret")
	resp := postGetData(t, ts.URL, "", `{"company_name":"OpenAI"}`)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestGetData_InvalidKey(t *testing.T) {
	ts := newTestServer(t, "secret")
	resp := postGetData(t, ts.URL, "wrong", `{"company_name":"OpenAI"}`)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestGetData_KnownCompany(t *testing.T) {
	ts := newTestServer(t, "secret")
	resp := postGetData(t, ts.URL, "secret", `{"company_name":"OpenAI"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var record core.CompanyRecord
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&record))
	assert.Equal(t, "OpenAI", record.Name)
	assert.Equal(t, 2015, record.FoundedYear)
}

func TestGetData_UnknownCompanyGetsPlaceholder(t *testing.T) {
	ts := newTestServer(t, "secret")
	resp := postGetData(t, ts.URL, "secret", `{"company_name":"Acme Robotics"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var record core.CompanyRecord
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&record))
	assert.Equal(t, "Acme Robotics", record.Name)
	assert.NotEmpty(t, record.FundingRounds)
}

func TestGetData_MissingBody(t *testing.T) {
	ts := newTestServer(t, "secret")
	resp := postGetData(t, ts.URL, "secret", `{}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetData_NoAuthConfigured(t *testing.T) {
	ts := newTestServer(t)
	resp := postGetData(t, ts.URL, "", `{"company_name":"OpenAI"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestResearchEndpoint_StreamsEvents(t *testing.T) {
	ts := newTestServer(t, "secret")

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/research"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(map[string]any{
		"type":         "start",
		"api_key":      "secret",
		"company_name": "Acme",
	}))

	var ev core.Event
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, core.EventRunCompleted, ev.Type)
	require.NotNil(t, ev.Data)
	assert.Equal(t, "Acme", ev.Data.Company.Name)
}
