// Package openrouter filters and scores candidate moments through an
// OpenRouter-hosted model. Every failure path degrades to the local
// heuristics so a dead or misbehaving backend never kills a run.
package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/clipworks/momentcut/internal/domain/moments"
	"github.com/clipworks/momentcut/internal/types"
)

type Adapter struct {
	key     string
	model   string
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

const (
	requestTimeout = 90 * time.Second
	// promptLimit bounds how many candidates ride in one request.
	promptLimit = 80
)

func New(apiKey, model, baseURL string, log zerolog.Logger) *Adapter {
	if model == "" {
		model = "anthropic/claude-3.5-sonnet"
	}
	baseURL = normalizeBaseURL(baseURL)
	return &Adapter{
		key:     apiKey,
		model:   model,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 5 * time.Minute},
		log:     log.With().Str("component", "openrouter").Logger(),
	}
}

type promptCand struct {
	Idx      int     `json:"idx"`
	StartSec float64 `json:"start_sec"`
	EndSec   float64 `json:"end_sec"`
	Text     string  `json:"text"`
	Language string  `json:"language"`
}

func promptCands(cands []types.Candidate) []promptCand {
	arr := make([]promptCand, 0, len(cands))
	for i, c := range cands {
		arr = append(arr, promptCand{
			Idx:      i,
			StartSec: c.Start.Seconds(),
			EndSec:   c.End.Seconds(),
			Text:     c.Text,
			Language: string(c.Language),
		})
	}
	return arr
}

// Score asks the hosted model to rate each candidate 0-10 and returns the
// candidates re-scored and sorted best first. Any transport, decode, or
// schema failure falls back to the local rule scorer.
func (a *Adapter) Score(ctx context.Context, cands []types.Candidate, tr types.Transcript) ([]types.Candidate, error) {
	if len(cands) == 0 {
		return nil, nil
	}

	top := cands
	if len(top) > promptLimit {
		top = top[:promptLimit]
	}
	pb, err := json.Marshal(map[string]any{"candidates": promptCands(top)})
	if err != nil {
		return nil, fmt.Errorf("marshal prompt: %w", err)
	}

	clean, degrade, err := a.complete(ctx, buildScorePrompt(pb), "momentcut_score", scoreSchema)
	if err != nil {
		return nil, err
	}
	if degrade != "" {
		return a.scoreFallback(top, degrade), nil
	}

	var out struct {
		Moments []struct {
			Idx          int     `json:"idx"`
			Score        float64 `json:"score"`
			HookType     string  `json:"hook_type"`
			HookStrength float64 `json:"hook_strength"`
			Reason       string  `json:"reason"`
		} `json:"moments"`
	}
	if err := json.Unmarshal([]byte(clean), &out); err != nil {
		return a.scoreFallback(top, "schema mismatch"), nil
	}

	res := make([]types.Candidate, 0, len(out.Moments))
	seen := make(map[int]struct{}, len(out.Moments))
	for _, m := range out.Moments {
		if m.Idx < 0 || m.Idx >= len(top) {
			continue
		}
		if _, dup := seen[m.Idx]; dup {
			continue
		}
		seen[m.Idx] = struct{}{}

		c := top[m.Idx]
		c.Score = clampScore(m.Score)
		if ht := types.HookType(m.HookType); ht.IsValid() {
			c.HookType = ht
			c.HookStrength = clampScore(m.HookStrength)
		}
		res = append(res, c)
	}

	// A model that rated nothing leaves the pipeline useful anyway.
	if len(res) == 0 {
		return a.scoreFallback(top, "no valid moments"), nil
	}

	sort.SliceStable(res, func(i, j int) bool { return res[i].Score > res[j].Score })
	return res, nil
}

// Filter asks the hosted model which candidates a cold viewer could follow
// without context. Any transport, decode, or schema failure falls back to
// the local rule filter.
func (a *Adapter) Filter(ctx context.Context, cands []types.Candidate, tr types.Transcript) ([]types.Candidate, error) {
	if len(cands) == 0 {
		return nil, nil
	}

	top := cands
	if len(top) > promptLimit {
		top = top[:promptLimit]
	}
	pb, err := json.Marshal(map[string]any{"candidates": promptCands(top)})
	if err != nil {
		return nil, fmt.Errorf("marshal prompt: %w", err)
	}

	clean, degrade, err := a.complete(ctx, buildFilterPrompt(pb), "momentcut_filter", filterSchema)
	if err != nil {
		return nil, err
	}
	if degrade != "" {
		return a.filterFallback(top, tr, degrade), nil
	}

	var out struct {
		Verdicts []struct {
			Idx     int      `json:"idx"`
			Keep    bool     `json:"keep"`
			Reasons []string `json:"reasons"`
		} `json:"verdicts"`
	}
	if err := json.Unmarshal([]byte(clean), &out); err != nil {
		return a.filterFallback(top, tr, "schema mismatch"), nil
	}
	if len(out.Verdicts) == 0 {
		return a.filterFallback(top, tr, "no verdicts"), nil
	}

	var kept []types.Candidate
	seen := make(map[int]struct{}, len(out.Verdicts))
	for _, v := range out.Verdicts {
		if v.Idx < 0 || v.Idx >= len(top) {
			continue
		}
		if _, dup := seen[v.Idx]; dup {
			continue
		}
		seen[v.Idx] = struct{}{}
		if !v.Keep {
			a.log.Debug().
				Int("idx", v.Idx).
				Strs("reasons", v.Reasons).
				Msg("hosted filter rejected candidate")
			continue
		}
		kept = append(kept, top[v.Idx])
	}
	// An explicit all-reject verdict is a valid outcome, not a failure.
	return kept, nil
}

// complete posts one chat completion and returns the extracted JSON object
// from the reply. A non-empty degrade reason means the response was unusable
// in a way the caller should absorb with its local fallback.
func (a *Adapter) complete(ctx context.Context, prompt, schemaName string, schema map[string]any) (clean, degrade string, err error) {
	payload := map[string]any{
		"model":  a.model,
		"stream": false,
		"messages": []map[string]any{
			{"role": "user", "content": prompt},
		},
		"response_format": map[string]any{
			"type": "json_schema",
			"json_schema": map[string]any{
				"name":   schemaName,
				"schema": schema,
			},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", "", fmt.Errorf("marshal request: %w", err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, "POST", a.baseURL+apiPath, bytes.NewReader(body))
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Authorization", "Bearer "+a.key)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
			return "", "", fmt.Errorf("openrouter timeout after %s (model=%s)", requestTimeout, a.model)
		}
		return "", "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		rb, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return "", "", fmt.Errorf("openrouter status %d and read body failed: %v", resp.StatusCode, readErr)
		}
		return "", "", fmt.Errorf("openrouter status %d: %s", resp.StatusCode, truncate(redactSecrets(string(rb), a.key), 400))
	}

	var raw struct {
		Choices []struct {
			Message struct {
				Content any `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return "", "", err
	}
	if len(raw.Choices) == 0 {
		return "", "empty choices", nil
	}

	content, err := messageContentToString(raw.Choices[0].Message.Content)
	if err != nil {
		return "", "unreadable content", nil
	}
	clean, err = extractJSONObject(content)
	if err != nil {
		return "", "no JSON object", nil
	}
	return clean, "", nil
}

func (a *Adapter) scoreFallback(cands []types.Candidate, why string) []types.Candidate {
	a.log.Warn().Str("reason", why).Msg("hosted scoring unusable, using local scorer")
	return moments.Rank(cands)
}

func (a *Adapter) filterFallback(cands []types.Candidate, tr types.Transcript, why string) []types.Candidate {
	a.log.Warn().Str("reason", why).Msg("hosted filtering unusable, using local filter")
	kept, _ := moments.Filter(cands, tr)
	return kept
}

var scoreSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"moments": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"idx":           map[string]any{"type": "integer"},
					"score":         map[string]any{"type": "number"},
					"hook_type":     map[string]any{"type": "string"},
					"hook_strength": map[string]any{"type": "number"},
					"reason":        map[string]any{"type": "string"},
				},
				"required": []string{"idx", "score", "hook_type", "hook_strength", "reason"},
			},
		},
	},
	"required": []string{"moments"},
}

var filterSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"verdicts": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"idx":     map[string]any{"type": "integer"},
					"keep":    map[string]any{"type": "boolean"},
					"reasons": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
				},
				"required": []string{"idx", "keep", "reasons"},
			},
		},
	},
	"required": []string{"verdicts"},
}

func buildScorePrompt(candsJSON []byte) string {
	return "Rate each candidate clip for short-form virality on a 0-10 scale. " +
		"Return strictly valid JSON (no markdown, no code fences) matching the provided schema. " +
		"Rate highest the clips that open with a hook, stand alone without context, " +
		"and hold attention to the end. Classify each opening's hook_type as one of " +
		"question, surprising, data, cta, emotional, urgency, or none, with hook_strength 0-10." +
		"\n\nCandidates JSON:\n" + string(candsJSON)
}

func buildFilterPrompt(candsJSON []byte) string {
	return "Judge each candidate clip for standalone watchability: a viewer with zero " +
		"context must be able to follow it from the first sentence. Reject clips that " +
		"start mid-thought, lean on unresolved pronouns, require earlier material, or " +
		"open with channel branding. Return strictly valid JSON (no markdown, no code " +
		"fences) matching the provided schema, one verdict per candidate with keep " +
		"true/false and short reasons for every rejection." +
		"\n\nCandidates JSON:\n" + string(candsJSON)
}

func messageContentToString(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case []any:
		// Some providers return an array of {type,text} parts.
		var b strings.Builder
		for _, it := range x {
			m, ok := it.(map[string]any)
			if !ok {
				continue
			}
			if t, ok := m["text"].(string); ok {
				b.WriteString(t)
			}
		}
		s := b.String()
		if strings.TrimSpace(s) == "" {
			return "", errors.New("openrouter: empty content")
		}
		return s, nil
	default:
		return "", fmt.Errorf("openrouter: unexpected content type %T", v)
	}
}

func extractJSONObject(s string) (string, error) {
	t := strings.TrimSpace(s)
	if t == "" {
		return "", errors.New("openrouter: empty content")
	}

	// Strip markdown code fences.
	if strings.HasPrefix(t, "```") {
		if i := strings.Index(t, "\n"); i >= 0 {
			t = t[i+1:]
		}
		if j := strings.LastIndex(t, "```"); j >= 0 {
			t = t[:j]
		}
		t = strings.TrimSpace(t)
	}

	// Best-effort: take the first JSON object found.
	start := strings.Index(t, "{")
	end := strings.LastIndex(t, "}")
	if start >= 0 && end > start {
		return t[start : end+1], nil
	}

	return "", fmt.Errorf("openrouter: could not locate JSON object in: %q", truncate(t, 200))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 10 {
		return 10
	}
	return v
}

var (
	bearerTokenRE = regexp.MustCompile(`(?i)\bBearer\s+[A-Za-z0-9._-]+\b`)
	authHeaderRE  = regexp.MustCompile(`(?i)(authorization\s*[:=]\s*)([^\n\r,;]+)`)
	apiKeyFieldRE = regexp.MustCompile(`(?i)(api[_-]?key\s*[:=]\s*)([^\n\r,;]+)`)
)

func redactSecrets(s, apiKey string) string {
	if s == "" {
		return s
	}
	out := s
	if apiKey != "" {
		out = strings.ReplaceAll(out, apiKey, "[REDACTED]")
	}
	out = bearerTokenRE.ReplaceAllString(out, "Bearer [REDACTED]")
	out = authHeaderRE.ReplaceAllString(out, "${1}[REDACTED]")
	out = apiKeyFieldRE.ReplaceAllString(out, "${1}[REDACTED]")
	return out
}
