package application

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/bnema/dragon-hoard/internal/domain"
)

var ErrMalformedReply = errors.New("malformed model reply")

type ReplyKind int

const (
	ReplyUnstructured ReplyKind = iota
	ReplyStructured
)

func (k ReplyKind) String() string {
	if k == ReplyStructured {
		return "structured"
	}
	return "unstructured"
}

// Reply is the interpreted form of one model completion. Unstructured
// replies carry the raw text as Message and zero deltas.
type Reply struct {
	Kind              ReplyKind
	GoldDelta         int64
	RelationshipDelta int
	Message           string
	Raw               string
	Err               error
}

// InterpretReply never fails; anything that is not a well formed reply
// object degrades to an unstructured reply.
func InterpretReply(raw string) Reply {
	fallback := func(err error) Reply {
		return Reply{
			Kind:    ReplyUnstructured,
			Message: raw,
			Raw:     raw,
			Err:     fmt.Errorf("%w: %w", ErrMalformedReply, err),
		}
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal([]byte(StripCodeFence(raw)), &payload); err != nil {
		return fallback(err)
	}
	if payload == nil {
		return fallback(errors.New("reply is null"))
	}

	goldRaw, ok := payload["gold"]
	if !ok {
		return fallback(errors.New("missing gold"))
	}

	var message string
	if err := json.Unmarshal(payload["message"], &message); err != nil || strings.TrimSpace(message) == "" {
		return fallback(errors.New("missing message"))
	}

	reply := Reply{
		Kind:      ReplyStructured,
		GoldDelta: jsonInteger(goldRaw),
		Message:   strings.TrimSpace(message),
		Raw:       raw,
	}
	if change, ok := payload["relationship_change"]; ok {
		reply.RelationshipDelta = clampInt(jsonInteger(change))
	}

	return reply
}

// StripCodeFence removes a surrounding ``` or ```json fence and whitespace.
func StripCodeFence(raw string) string {
	text := strings.TrimSpace(raw)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if len(text) >= 4 && strings.EqualFold(text[:4], "json") {
			text = text[4:]
		}
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

// InterpretFacts parses a fact-extraction reply into a merge delta.
func InterpretFacts(raw string) (map[string]domain.FactValue, error) {
	var payload map[string]any
	if err := json.Unmarshal([]byte(StripCodeFence(raw)), &payload); err != nil {
		return map[string]domain.FactValue{}, fmt.Errorf("%w: %w", ErrMalformedReply, err)
	}

	delta := make(map[string]domain.FactValue, len(payload))
	for key, value := range payload {
		switch v := value.(type) {
		case []any:
			values := make([]string, 0, len(v))
			for _, item := range v {
				if text, ok := factText(item); ok {
					values = append(values, text)
				}
			}
			delta[key] = domain.SetFact(values...)
		default:
			if text, ok := factText(v); ok {
				delta[key] = domain.ScalarFact(text)
			}
		}
	}

	return delta, nil
}

func factText(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		v = strings.TrimSpace(v)
		return v, v != ""
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(v), true
	default:
		return "", false
	}
}

// jsonInteger reads a JSON number, truncating fractions. Anything else
// (strings, null, out of range values) reads as zero.
func jsonInteger(raw json.RawMessage) int64 {
	var number json.Number
	if err := json.Unmarshal(raw, &number); err != nil {
		return 0
	}
	if strings.HasPrefix(strings.TrimSpace(string(raw)), `"`) {
		return 0
	}
	if v, err := number.Int64(); err == nil {
		return v
	}
	f, err := number.Float64()
	if err != nil || math.IsNaN(f) || f >= math.MaxInt64 || f <= math.MinInt64 {
		return 0
	}
	return int64(f)
}

func clampInt(v int64) int {
	if v > math.MaxInt32 {
		return math.MaxInt32
	}
	if v < math.MinInt32 {
		return math.MinInt32
	}
	return int(v)
}
