package llm

import (
	"context"
	"encoding/json"
	"log"
	"sort"

	"github.com/sashabaranov/go-openai"
)

// Verdict is the outcome of a moderation check.
type Verdict struct {
	Flagged    bool
	Categories []string // names of flagged categories, sorted
}

// Moderator screens user input through the OpenAI moderation endpoint.
type Moderator struct {
	client *openai.Client
}

func NewModerator(client *openai.Client) *Moderator {
	return &Moderator{client: client}
}

// Check moderates text. Moderation errors fail open: the request proceeds as
// if nothing was flagged, matching the rest of the pipeline's preference for
// answering over refusing on infrastructure trouble.
func (m *Moderator) Check(ctx context.Context, text string) Verdict {
	resp, err := m.client.Moderations(ctx, openai.ModerationRequest{Input: text})
	if err != nil {
		log.Printf("moderation check failed, proceeding: %v", err)
		return Verdict{}
	}
	if len(resp.Results) == 0 {
		return Verdict{}
	}

	result := resp.Results[0]
	return Verdict{
		Flagged:    result.Flagged,
		Categories: flaggedCategories(result.Categories),
	}
}

// flaggedCategories lists the category names set to true, using the JSON tags
// as names so they match what the API documents.
func flaggedCategories(categories openai.ResultCategories) []string {
	raw, err := json.Marshal(categories)
	if err != nil {
		return nil
	}
	var byName map[string]bool
	if err := json.Unmarshal(raw, &byName); err != nil {
		return nil
	}

	var names []string
	for name, flagged := range byName {
		if flagged {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
