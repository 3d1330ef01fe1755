package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventConstructors(t *testing.T) {
	ev := NewPhaseEvent("key_people", "Key people")
	assert.Equal(t, EventPhaseEntered, ev.Type)
	assert.Equal(t, "key_people", ev.Task)
	assert.NotEmpty(t, ev.ID)
	assert.False(t, ev.Timestamp.IsZero())
	assert.False(t, ev.IsTerminal())

	done := NewRunCompletedEvent(&Dossier{})
	assert.True(t, done.IsTerminal())

	failed := NewRunFailedEvent(E(CodeRequestValidation, "bad depth"))
	assert.True(t, failed.IsTerminal())
	assert.Equal(t, "error", failed.Level)
	assert.Contains(t, failed.Message, "bad depth")
}

func TestToolResultEvent_Error(t *testing.T) {
	ev := NewToolResultEvent("market_sizing", "search_google", "", E(CodeTimeout, "deadline exceeded"))
	assert.Equal(t, "error", ev.Level)
	assert.Contains(t, ev.Message, "deadline exceeded")

	ok := NewToolResultEvent("market_sizing", "search_google", "5 results", nil)
	assert.Empty(t, ok.Level)
	assert.Equal(t, "5 results", ok.Message)
}

func TestEvent_WireShape(t *testing.T) {
	ev := NewRunFailedEvent(E(CodeRequestValidation, "company name must not be empty"))
	ev.Seq = 1

	raw, err := json.Marshal(ev)
	require.NoError(t, err)

	var wire map[string]any
	require.NoError(t, json.Unmarshal(raw, &wire))
	assert.Equal(t, "error", wire["type"])
	assert.Contains(t, wire["message"], "company name")
	// No dossier on a failed run.
	assert.NotContains(t, wire, "data")
}

func TestEvent_ResultWireShape(t *testing.T) {
	d := &Dossier{Company: CompanySummary{Name: "Acme"}}
	ev := NewRunCompletedEvent(d)

	raw, err := json.Marshal(ev)
	require.NoError(t, err)

	var wire struct {
		Type string   `json:"type"`
		Data *Dossier `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &wire))
	assert.Equal(t, "result", wire.Type)
	require.NotNil(t, wire.Data)
	assert.Equal(t, "Acme", wire.Data.Company.Name)
}
