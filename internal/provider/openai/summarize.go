package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/sautihq/sauti-notes/internal/transcription/domain"
)

// summarySchema is the contract the model's response must satisfy after
// key normalization. Validated locally before a Summary is built.
const summarySchema = `{
	"type": "object",
	"required": ["muhtasari", "maamuzi", "kazi", "masuala_yaliyoahirishwa"],
	"additionalProperties": false,
	"properties": {
		"muhtasari": {"type": "string"},
		"maamuzi": {"type": "array", "items": {"type": "string"}},
		"kazi": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["nani", "kazi"],
				"additionalProperties": false,
				"properties": {
					"nani": {"type": "string"},
					"kazi": {"type": "string"},
					"tarehe": {"type": ["string", "null"]}
				}
			}
		},
		"masuala_yaliyoahirishwa": {"type": "array", "items": {"type": "string"}}
	}
}`

var compiledSummarySchema = jsonschema.MustCompileString("summary.json", summarySchema)

// Key synonyms accepted from the model, mapped to canonical field names.
// This set is closed: historical prompt drift produced upper-cased and
// English spellings, and nothing else is tolerated.
var (
	muhtasariAliases = []string{"muhtasari", "MUHTASARI", "summary"}
	maamuziAliases   = []string{"maamuzi", "MAAMUZI", "decisions"}
	kaziAliases      = []string{"kazi", "KAZI", "action_items"}
	masualaAliases   = []string{"masuala_yaliyoahirishwa", "MASUALA_YALIYOAHIRISHWA", "deferred_topics"}
	naniAliases      = []string{"nani", "person"}
	taskAliases      = []string{"kazi", "task"}
	tareheAliases    = []string{"tarehe", "due_date"}
)

// Summarizer calls the chat completions endpoint and parses the
// structured summary out of the model's JSON response.
type Summarizer struct {
	client *Client
	logger *slog.Logger
}

// NewSummarizer creates a Summarizer on top of the shared client.
func NewSummarizer(client *Client, logger *slog.Logger) *Summarizer {
	return &Summarizer{client: client, logger: logger}
}

func (s *Summarizer) Summarize(ctx context.Context, transcript string, transcriptionID uuid.UUID, language string) (*domain.Summary, error) {
	s.logger.Info("Summarization started",
		slog.String("transcription_id", transcriptionID.String()),
		slog.Int("transcript_length", len(transcript)),
		slog.String("model", s.client.cfg.SummaryModel),
	)

	if len(transcript) < 100 {
		s.logger.Warn("Transcript is very short",
			slog.String("transcription_id", transcriptionID.String()),
			slog.Int("transcript_length", len(transcript)),
		)
	}

	payload := map[string]any{
		"model":           s.client.cfg.SummaryModel,
		"temperature":     0.3,
		"response_format": map[string]any{"type": "json_object"},
		"messages": []map[string]any{
			{"role": "system", "content": systemPrompt(language)},
			{"role": "user", "content": userPrompt(language, transcript)},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	raw, err := s.client.do(ctx, http.MethodPost, s.client.endpoint("/chat/completions"), "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	var completion struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &completion); err != nil {
		return nil, fmt.Errorf("failed to decode completion response: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("no choices in completion response")
	}

	content := strings.TrimSpace(completion.Choices[0].Message.Content)
	if content == "" {
		return nil, fmt.Errorf("empty completion content")
	}

	var summaryData map[string]any
	if err := json.Unmarshal([]byte(content), &summaryData); err != nil {
		s.logger.Error("Summary response is not valid JSON",
			slog.String("transcription_id", transcriptionID.String()),
			slog.String("raw_response", truncate(content, 500)),
		)
		return nil, fmt.Errorf("invalid JSON in completion content: %w", err)
	}

	normalized := normalizeSummaryPayload(summaryData)
	if err := compiledSummarySchema.Validate(normalized); err != nil {
		return nil, fmt.Errorf("summary schema validation failed: %w", err)
	}

	summary := buildSummary(transcriptionID, normalized)

	s.logger.Info("Summarization completed",
		slog.String("transcription_id", transcriptionID.String()),
		slog.String("summary_id", summary.ID.String()),
	)
	return summary, nil
}

// normalizeSummaryPayload maps accepted key synonyms onto the canonical
// field names and substitutes empty values for absent or wrongly-shaped
// fields. Malformed action-item entries are dropped, never guessed.
func normalizeSummaryPayload(data map[string]any) map[string]any {
	normalized := map[string]any{
		"muhtasari":               lookupString(data, muhtasariAliases),
		"maamuzi":                 lookupStringList(data, maamuziAliases),
		"masuala_yaliyoahirishwa": lookupStringList(data, masualaAliases),
	}

	items := []any{}
	if rawList, ok := lookupKey(data, kaziAliases).([]any); ok {
		for _, raw := range rawList {
			entry, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			item := map[string]any{
				"nani": lookupString(entry, naniAliases),
				"kazi": lookupString(entry, taskAliases),
			}
			if due := lookupString(entry, tareheAliases); due != "" {
				item["tarehe"] = due
			}
			items = append(items, item)
		}
	}
	normalized["kazi"] = items

	return normalized
}

func buildSummary(transcriptionID uuid.UUID, normalized map[string]any) *domain.Summary {
	maamuzi := toStringSlice(normalized["maamuzi"])
	masuala := toStringSlice(normalized["masuala_yaliyoahirishwa"])

	var kazi []domain.ActionItem
	for _, raw := range normalized["kazi"].([]any) {
		entry := raw.(map[string]any)
		item := domain.ActionItem{
			Person: entry["nani"].(string),
			Task:   entry["kazi"].(string),
		}
		if due, ok := entry["tarehe"].(string); ok {
			item.DueDate = &due
		}
		kazi = append(kazi, item)
	}

	return domain.NewSummary(
		transcriptionID,
		normalized["muhtasari"].(string),
		maamuzi,
		kazi,
		masuala,
	)
}

func lookupKey(data map[string]any, aliases []string) any {
	for _, key := range aliases {
		if value, ok := data[key]; ok {
			return value
		}
	}
	return nil
}

func lookupString(data map[string]any, aliases []string) string {
	if value, ok := lookupKey(data, aliases).(string); ok {
		return value
	}
	return ""
}

func lookupStringList(data map[string]any, aliases []string) []any {
	list, ok := lookupKey(data, aliases).([]any)
	if !ok {
		return []any{}
	}
	out := make([]any, 0, len(list))
	for _, item := range list {
		if str, ok := item.(string); ok {
			out = append(out, str)
		}
	}
	return out
}

func toStringSlice(value any) []string {
	list := value.([]any)
	out := make([]string, 0, len(list))
	for _, item := range list {
		out = append(out, item.(string))
	}
	return out
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
