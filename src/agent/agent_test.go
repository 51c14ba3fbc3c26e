package agent

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/openai/openai-go/v2/option"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thomasfsr/fitgenius/src/database"
	"github.com/thomasfsr/fitgenius/src/fitness"
	"github.com/thomasfsr/fitgenius/src/llm"
	"github.com/thomasfsr/fitgenius/src/tools"
)

func completion(message map[string]any, finish string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   "test-model",
		"choices": []map[string]any{{"index": 0, "finish_reason": finish, "message": message}},
	}
}

func toolCall(id, name, args string) map[string]any {
	return completion(map[string]any{
		"role":    "assistant",
		"content": "",
		"tool_calls": []map[string]any{{
			"id":       id,
			"type":     "function",
			"function": map[string]any{"name": name, "arguments": args},
		}},
	}, "tool_calls")
}

func answer(text string) map[string]any {
	return completion(map[string]any{"role": "assistant", "content": text}, "stop")
}

// scriptedModel replies with the given responses in order and records each
// request body.
type scriptedModel struct {
	mu        sync.Mutex
	responses []map[string]any
	requests  []map[string]any
}

func (m *scriptedModel) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, _ := io.ReadAll(r.Body)
	var body map[string]any
	_ = json.Unmarshal(raw, &body)
	m.requests = append(m.requests, body)

	resp := m.responses[0]
	if len(m.responses) > 1 {
		m.responses = m.responses[1:]
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func newAgent(t *testing.T, model *scriptedModel) *Agent {
	t.Helper()
	srv := httptest.NewServer(model)
	t.Cleanup(srv.Close)

	registry := tools.NewRegistry(zerolog.Nop())
	require.NoError(t, tools.RegisterAll(registry, tools.Deps{
		Tracker: fitness.NewTracker(database.NewMemoryStore(), 30),
	}))
	client := llm.NewClient(llm.Config{APIKey: "test", BaseURL: srv.URL}, option.WithMaxRetries(0))
	return New(client, "test-model", registry, zerolog.Nop())
}

func lastMessage(req map[string]any) map[string]any {
	msgs := req["messages"].([]any)
	return msgs[len(msgs)-1].(map[string]any)
}

func TestProcess_CallsToolThenAnswers(t *testing.T) {
	model := &scriptedModel{responses: []map[string]any{
		toolCall("call_1", "bmi_calculator", `{"weight_kg":70,"height_cm":175}`),
		answer("Your BMI is 22.86, which is in the normal range."),
	}}
	a := newAgent(t, model)

	got, err := a.Process(context.Background(), "What is my BMI?", map[string]any{"height_cm": 175})
	require.NoError(t, err)
	assert.Equal(t, "Your BMI is 22.86, which is in the normal range.", got)

	require.Len(t, model.requests, 2)
	first := model.requests[0]
	assert.Len(t, first["tools"], 6)
	assert.Contains(t, lastMessage(first)["content"], "User Context: {\"height_cm\":175}")
	assert.Contains(t, lastMessage(first)["content"], "User Request: What is my BMI?")

	toolMsg := lastMessage(model.requests[1])
	assert.Equal(t, "tool", toolMsg["role"])
	assert.Equal(t, "call_1", toolMsg["tool_call_id"])
	assert.Contains(t, toolMsg["content"], `"category":"Normal Weight"`)
}

func TestProcess_ToolErrorsAreFedBack(t *testing.T) {
	model := &scriptedModel{responses: []map[string]any{
		toolCall("call_1", "workout_planner", `{"fitness_level":"advanced","goals":["weight_loss"],"days_per_week":3,"duration_minutes":60}`),
		toolCall("call_2", "teleport", `{}`),
		answer("There is no advanced weight-loss template yet."),
	}}
	a := newAgent(t, model)

	got, err := a.Process(context.Background(), "Plan advanced weight loss", nil)
	require.NoError(t, err)
	assert.Equal(t, "There is no advanced weight-loss template yet.", got)

	require.Len(t, model.requests, 3)
	assert.Contains(t, lastMessage(model.requests[1])["content"], `"kind":"TemplateNotFound"`)
	assert.Contains(t, lastMessage(model.requests[2])["content"], `"kind":"UnknownTool"`)
	assert.Equal(t, "Plan advanced weight loss", lastMessage(model.requests[0])["content"])
}

func TestProcess_StepLimit(t *testing.T) {
	model := &scriptedModel{responses: []map[string]any{
		toolCall("call_loop", "fitness_search", `{"query":"protein"}`),
	}}
	a := newAgent(t, model)
	a.maxSteps = 3

	_, err := a.Process(context.Background(), "loop forever", nil)
	require.ErrorIs(t, err, ErrTooManySteps)
	assert.Len(t, model.requests, 3)
}

func TestProcess_UpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"overloaded"}}`, http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	registry := tools.NewRegistry(zerolog.Nop())
	client := llm.NewClient(llm.Config{APIKey: "k", BaseURL: srv.URL}, option.WithMaxRetries(0))
	_, err := New(client, "", registry, zerolog.Nop()).Process(context.Background(), "hi", nil)
	require.ErrorIs(t, err, fitness.ErrUpstream)
}
