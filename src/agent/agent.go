// Package agent runs the chat model in a tool-calling loop over the fitness
// tool registry.
package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/openai/openai-go/v2"
	"github.com/rs/zerolog"

	"github.com/thomasfsr/fitgenius/src/fitness"
	"github.com/thomasfsr/fitgenius/src/llm"
	"github.com/thomasfsr/fitgenius/src/tools"
)

const systemPrompt = `You are FitGenius, a personal fitness AI agent for body analysis, workout planning, diet planning and progress tracking.
Use the available tools whenever a request needs a calculation, a plan, stored progress or external information; never invent numbers a tool can compute.
If a tool returns an error, explain the problem to the user and ask for the missing or corrected information.
Answer in the user's language, concisely, with actionable advice.`

const defaultMaxSteps = 8

var ErrTooManySteps = errors.New("agent did not finish within the step limit")

type Agent struct {
	client   openai.Client
	model    string
	registry *tools.Registry
	log      zerolog.Logger
	maxSteps int
}

func New(client openai.Client, model string, registry *tools.Registry, log zerolog.Logger) *Agent {
	if model == "" {
		model = llm.DefaultModel
	}
	return &Agent{client: client, model: model, registry: registry, log: log, maxSteps: defaultMaxSteps}
}

// Process answers input, optionally prefixed with a user context object.
func (a *Agent) Process(ctx context.Context, input string, userContext map[string]any) (string, error) {
	if len(userContext) > 0 {
		raw, err := json.Marshal(userContext)
		if err != nil {
			return "", fitness.InvalidInput("process request", "context is not serializable: %v", err)
		}
		input = fmt.Sprintf("User Context: %s\n\nUser Request: %s", raw, input)
	}

	toolParams, err := a.toolParams()
	if err != nil {
		return "", err
	}
	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(systemPrompt),
		openai.UserMessage(input),
	}

	for step := 0; step < a.maxSteps; step++ {
		chat, err := a.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
			Model:    openai.ChatModel(a.model),
			Messages: messages,
			Tools:    toolParams,
		})
		if err != nil {
			return "", fitness.Upstream("chat completion", err)
		}
		if len(chat.Choices) == 0 {
			return "", fitness.Upstream("chat completion", errors.New("model returned no choices"))
		}
		msg := chat.Choices[0].Message
		if len(msg.ToolCalls) == 0 {
			return msg.Content, nil
		}

		messages = append(messages, msg.ToParam())
		for _, call := range msg.ToolCalls {
			a.log.Debug().Int("step", step).Str("tool", call.Function.Name).Msg("model requested tool")
			messages = append(messages, openai.ToolMessage(a.runTool(ctx, call.Function.Name, call.Function.Arguments), call.ID))
		}
	}
	return "", ErrTooManySteps
}

// runTool returns the tool's JSON result, or a JSON error object the model
// can read and recover from.
func (a *Agent) runTool(ctx context.Context, name, args string) string {
	out, err := a.registry.Invoke(ctx, name, json.RawMessage(args))
	if err != nil {
		kind := fitness.KindOf(err)
		if errors.Is(err, tools.ErrUnknownTool) {
			kind = "UnknownTool"
		}
		raw, _ := json.Marshal(map[string]string{"error": err.Error(), "kind": kind})
		return string(raw)
	}
	raw, err := json.Marshal(out)
	if err != nil {
		raw, _ = json.Marshal(map[string]string{"error": fmt.Sprintf("unserializable result: %v", err), "kind": "internal"})
	}
	return string(raw)
}

func (a *Agent) toolParams() ([]openai.ChatCompletionToolUnionParam, error) {
	specs := a.registry.Specs()
	params := make([]openai.ChatCompletionToolUnionParam, 0, len(specs))
	for _, s := range specs {
		fp, err := llm.FunctionParameters(s.Parameters)
		if err != nil {
			return nil, fmt.Errorf("tool %s: %w", s.Name, err)
		}
		params = append(params, openai.ChatCompletionFunctionTool(openai.FunctionDefinitionParam{
			Name:        s.Name,
			Description: openai.String(s.Description),
			Parameters:  fp,
		}))
	}
	return params, nil
}
