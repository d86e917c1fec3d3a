// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package followup asks the model for short follow-up questions a user
// might ask after reading an answer.
package followup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"text/template"

	"github.com/pdiddy/wellness-chat/internal/llm"
)

// MaxQuestions caps the follow-ups returned by Generate.
const MaxQuestions = 2

// promptTmpl asks for a JSON object with a "questions" array.
var promptTmpl = template.Must(template.New("followup").Parse(`Put yourself in the shoes of the person who is provided this initial response. Based on the following initial response, generate 2 follow-up questions the user could ask. Provide the output as a JSON object with a "questions" key containing an array of strings:

Initial response:
{{.Response}}

Follow-up questions (in JSON format):`))

// MalformedOutputError reports a model reply that is not a JSON object with
// a "questions" array of strings.
type MalformedOutputError struct {
	Raw string
	Err error
}

func (e *MalformedOutputError) Error() string {
	return fmt.Sprintf("malformed follow-up output: %v", e.Err)
}

func (e *MalformedOutputError) Unwrap() error { return e.Err }

// Generator proposes follow-up questions with a JSON-mode model request.
type Generator struct {
	model     llm.ChatModel
	modelName string
	logger    *slog.Logger
}

// NewGenerator builds a Generator. modelName, when set, overrides the
// model's default for these requests. A nil logger uses slog.Default().
func NewGenerator(model llm.ChatModel, modelName string, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{model: model, modelName: modelName, logger: logger}
}

// Generate returns at most MaxQuestions follow-ups for prior, in the order
// the model gave them. Model errors are returned wrapped; an unusable reply
// is a *MalformedOutputError.
func (g *Generator) Generate(ctx context.Context, prior string) ([]string, error) {
	var buf bytes.Buffer
	if err := promptTmpl.Execute(&buf, struct{ Response string }{Response: prior}); err != nil {
		return nil, fmt.Errorf("rendering prompt: %w", err)
	}

	resp, err := g.model.Complete(ctx, llm.Request{
		Model:      g.modelName,
		Messages:   []llm.Message{{Role: llm.RoleUser, Content: buf.String()}},
		JSONOutput: true,
	})
	if err != nil {
		return nil, fmt.Errorf("generating follow-ups: %w", err)
	}

	questions, err := Parse(resp.Content)
	if err != nil {
		return nil, err
	}
	g.logger.Debug("follow-ups generated", "count", len(questions))
	return questions, nil
}

// Parse extracts the questions array from a model reply and truncates it to
// MaxQuestions. Blank entries are dropped.
func Parse(raw string) ([]string, error) {
	var out struct {
		Questions *[]string `json:"questions"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &out); err != nil {
		return nil, &MalformedOutputError{Raw: raw, Err: err}
	}
	if out.Questions == nil {
		return nil, &MalformedOutputError{Raw: raw, Err: errors.New(`missing "questions" key`)}
	}

	var questions []string
	for _, q := range *out.Questions {
		if q = strings.TrimSpace(q); q != "" {
			questions = append(questions, q)
		}
		if len(questions) == MaxQuestions {
			break
		}
	}
	return questions, nil
}
