// Package agent exposes the analysis endpoints as tools behind a
// chat model, so a user can ask about flows in plain language.
package agent

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/odlab/odflow-backend/internal/models"
	"github.com/odlab/odflow-backend/internal/session"
)

const systemPrompt = "You are an analyst for an origin-destination mobility dataset. " +
	"Use the provided tools to resolve place names, rank flows and corridors, " +
	"fetch pair series and compute growth rates. Answer concisely with numbers " +
	"from tool results; never invent data."

// Reported to the model per request; a conversation that needs more
// tool rounds than this is almost certainly looping
const maxToolRounds = 8

// Tool is one callable exposed to the chat model
type Tool struct {
	Name        string
	Description string
	Parameters  map[string]any
	Handler     func(ctx context.Context, args string) (string, error)
}

// Agent wires a chat model to the analysis services through tool calls
// and keeps per-session history
type Agent struct {
	client *openai.Client
	model  string
	store  *session.Store
	tools  []Tool
}

// New creates an agent. An empty apiKey yields an agent that rejects
// every chat, so the rest of the API stays usable without a key.
func New(apiKey, model string, store *session.Store, tools []Tool) *Agent {
	var client *openai.Client
	if apiKey != "" {
		c := openai.NewClient(option.WithAPIKey(apiKey))
		client = &c
	}
	return &Agent{client: client, model: model, store: store, tools: tools}
}

// Chat runs one user turn: history in, tool loop, reply out. Only the
// user and assistant turns are persisted; tool traffic is per-request.
func (a *Agent) Chat(ctx context.Context, sessionID, message string) (*models.ChatResponse, error) {
	if a.client == nil {
		return nil, fmt.Errorf("%w: agent is not configured", models.ErrUpstreamUnavailable)
	}

	msgs := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(systemPrompt),
	}
	for _, m := range a.store.History(sessionID) {
		switch m.Role {
		case "user":
			msgs = append(msgs, openai.UserMessage(m.Content))
		case "assistant":
			msgs = append(msgs, openai.AssistantMessage(m.Content))
		}
	}
	msgs = append(msgs, openai.UserMessage(message))

	openaiTools := make([]openai.ChatCompletionToolUnionParam, len(a.tools))
	for i, tool := range a.tools {
		openaiTools[i] = openai.ChatCompletionFunctionTool(openai.FunctionDefinitionParam{
			Name:        tool.Name,
			Description: openai.String(tool.Description),
			Parameters:  tool.Parameters,
		})
	}

	for range maxToolRounds {
		resp, err := a.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
			Model:    openai.ChatModel(a.model),
			Messages: msgs,
			Tools:    openaiTools,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", models.ErrUpstreamUnavailable, err)
		}
		if len(resp.Choices) == 0 {
			return nil, fmt.Errorf("%w: empty completion", models.ErrUpstreamUnavailable)
		}

		choice := resp.Choices[0].Message
		if len(choice.ToolCalls) == 0 {
			a.store.Append(sessionID,
				session.Message{Role: "user", Content: message},
				session.Message{Role: "assistant", Content: choice.Content},
			)
			return &models.ChatResponse{SessionID: sessionID, Reply: choice.Content}, nil
		}

		msgs = append(msgs, choice.ToParam())

		for _, tc := range choice.ToolCalls {
			ftc := tc.AsFunction()

			result, err := a.dispatch(ctx, ftc.Function.Name, ftc.Function.Arguments)
			if err != nil {
				// Let the model see the failure instead of aborting the turn
				result = fmt.Sprintf(`{"error": %q}`, err.Error())
			}
			msgs = append(msgs, openai.ToolMessage(result, ftc.ID))
		}
	}

	return nil, fmt.Errorf("tool loop did not converge after %d rounds", maxToolRounds)
}

func (a *Agent) dispatch(ctx context.Context, name, args string) (string, error) {
	for _, tool := range a.tools {
		if tool.Name == name {
			return tool.Handler(ctx, args)
		}
	}
	return "", fmt.Errorf("unknown tool %q", name)
}
