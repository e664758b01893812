// Package extraction converts free-text speech transcripts into structured
// transaction candidates using a language model.
package extraction

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"nayidisha/internal/gemini"
	"nayidisha/internal/logger"
)

// Extraction failure modes. Callers distinguish the model's own "no
// transaction" verdict from a reply that could not be parsed at all.
var (
	ErrNoTranscript       = errors.New("no transcript provided")
	ErrNoTransactionFound = errors.New("no transaction found")
	ErrUnparseable        = errors.New("failed to parse transaction")
)

// ParsedTransaction is the model's structured reading of a transcript.
// Fields the model could not determine are nil. Values are not validated
// here; the caller checks types and ranges before persisting.
type ParsedTransaction struct {
	Type        *string  `json:"type"`
	Amount      *float64 `json:"amount"`
	Category    *string  `json:"category"`
	Description *string  `json:"description"`
	Date        *string  `json:"date"`
	Error       string   `json:"error,omitempty"`
}

// Service extracts transactions from transcripts.
type Service struct {
	generator gemini.TextGenerator
}

// NewService creates a new extraction Service.
func NewService(generator gemini.TextGenerator) *Service {
	return &Service{generator: generator}
}

// Parse asks the model to read a transaction out of the transcript.
// An empty transcript returns ErrNoTranscript without calling the model.
func (s *Service) Parse(ctx context.Context, transcript string) (*ParsedTransaction, error) {
	if strings.TrimSpace(transcript) == "" {
		return nil, ErrNoTranscript
	}
	if s.generator == nil {
		return nil, fmt.Errorf("extraction: no text generator configured")
	}

	raw, err := s.generator.GenerateText(ctx, buildPrompt(transcript), gemini.GenerateOptions{
		MaxOutputTokens: 512,
	})
	if err != nil {
		return nil, fmt.Errorf("extraction: model call: %w", err)
	}

	var parsed ParsedTransaction
	if err := json.Unmarshal([]byte(cleanModelJSON(raw)), &parsed); err != nil {
		logger.Get().Warnw("extraction: model returned malformed JSON",
			"error", err.Error(),
			"raw_length", len(raw),
		)
		return nil, ErrUnparseable
	}

	if parsed.Error != "" {
		if strings.EqualFold(parsed.Error, "No transaction found") {
			return nil, ErrNoTransactionFound
		}
		return nil, fmt.Errorf("%w: %s", ErrUnparseable, parsed.Error)
	}

	return &parsed, nil
}

func buildPrompt(transcript string) string {
	var b strings.Builder
	b.WriteString("As a financial assistant, extract transaction information from the following transcript:\n")
	fmt.Fprintf(&b, "%q\n\n", transcript)
	b.WriteString("Return ONLY a JSON object with the following structure (do not include any other text):\n")
	b.WriteString("{\n")
	b.WriteString("  \"type\": \"income\" or \"expense\",\n")
	b.WriteString("  \"amount\": number (extract the amount mentioned),\n")
	b.WriteString("  \"category\": string (e.g., \"salary\", \"groceries\", \"rent\", \"utilities\", \"entertainment\", etc.),\n")
	b.WriteString("  \"description\": string (brief description of the transaction),\n")
	b.WriteString("  \"date\": string (in YYYY-MM-DD format, use today if not specified)\n")
	b.WriteString("}\n\n")
	b.WriteString("If any field cannot be determined, use null for that field.\n")
	b.WriteString("If the transcript doesn't seem to describe a financial transaction, return { \"error\": \"No transaction found\" }\n")
	return b.String()
}

// cleanModelJSON strips Markdown code fences and surrounding junk the model
// sometimes adds despite instructions, keeping only the outermost JSON object.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)

	if start := strings.Index(s, "{"); start != -1 {
		if end := strings.LastIndex(s, "}"); end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}

	return s
}
