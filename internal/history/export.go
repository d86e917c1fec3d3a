// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/wellness-chat/pkg/types"
)

// Transcript is one exported session.
type Transcript struct {
	Session  types.SessionInfo   `json:"session" yaml:"session"`
	Messages []types.ChatMessage `json:"messages" yaml:"messages"`
}

// Transcript loads the full session with its messages.
func (s *Store) Transcript(ctx context.Context, sessionID string) (Transcript, error) {
	sessions, err := s.Sessions(ctx)
	if err != nil {
		return Transcript{}, err
	}
	for _, info := range sessions {
		if info.ID != sessionID {
			continue
		}
		msgs, err := s.Messages(ctx, sessionID, 0)
		if err != nil {
			return Transcript{}, err
		}
		return Transcript{Session: info, Messages: msgs}, nil
	}
	return Transcript{}, fmt.Errorf("%w: %s", ErrUnknownSession, sessionID)
}

// ExportYAML writes one session as YAML to w.
func (s *Store) ExportYAML(ctx context.Context, sessionID string, w io.Writer) error {
	tr, err := s.Transcript(ctx, sessionID)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	if err := enc.Encode(tr); err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return nil
}

// ExportJSON writes one session as indented JSON to w.
func (s *Store) ExportJSON(ctx context.Context, sessionID string, w io.Writer) error {
	tr, err := s.Transcript(ctx, sessionID)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(tr); err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return nil
}
