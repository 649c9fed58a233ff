package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/custodia-labs/insightly-cli/internal/core/domain"
)

// normalizeInsight decodes an /ask body leniently.
// Absent or mistyped lists become empty, confidence survives only as a number.
// List elements are kept one by one; see decodeList.
func normalizeInsight(data []byte) (*domain.Insight, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		return nil, fmt.Errorf("%w: invalid response format from server", domain.ErrInvalidResponse)
	}

	return &domain.Insight{
		Answer:     decodeString(fields["answer"]),
		Metrics:    decodeList[domain.Metric](fields["metrics"]),
		Citations:  decodeList[domain.Citation](fields["citations"]),
		Context:    decodeString(fields["context"]),
		Confidence: decodeNumber(fields["confidence"]),
		Charts:     decodeList[domain.Chart](fields["charts"]),
	}, nil
}

func decodeString(raw json.RawMessage) string {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s
}

func decodeNumber(raw json.RawMessage) *float64 {
	var v any
	if len(raw) == 0 || json.Unmarshal(raw, &v) != nil {
		return nil
	}
	f, ok := v.(float64)
	if !ok {
		return nil
	}
	return &f
}

// decodeList decodes each object element of a JSON array on its own.
// A field of the wrong type is left at its zero value and the rest of the
// element is kept; elements that are not objects are skipped.
func decodeList[T any](raw json.RawMessage) []T {
	var items []json.RawMessage
	if len(raw) == 0 || json.Unmarshal(raw, &items) != nil || items == nil {
		return []T{}
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		if !bytes.HasPrefix(bytes.TrimSpace(item), []byte("{")) {
			continue
		}
		var v T
		var typeErr *json.UnmarshalTypeError
		if err := json.Unmarshal(item, &v); err != nil && !errors.As(err, &typeErr) {
			continue
		}
		out = append(out, v)
	}
	return out
}
