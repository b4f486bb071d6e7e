package normalize

import "encoding/json"

// UnwrapObject decodes a response body that may be either a bare object or
// wrapped in a {data: ...} envelope. Any shape mismatch yields an empty map.
func UnwrapObject(body []byte) map[string]any {
	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return map[string]any{}
	}

	obj, ok := asObject(decoded)
	if !ok {
		return map[string]any{}
	}
	if inner, ok := asObject(obj["data"]); ok {
		return inner
	}
	if _, hasData := obj["data"]; hasData {
		// data present but not an object; the envelope held nothing usable
		return map[string]any{}
	}
	return obj
}

// UnwrapList decodes a list response body, tolerating every envelope the
// backend is known to produce: a bare array, {data:[...]}, {data:{list:[...]}},
// and {data:{content:[...]}}. Any other shape yields an empty list.
func UnwrapList(body []byte) []map[string]any {
	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return []map[string]any{}
	}

	items := extractItems(decoded)
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if obj, ok := asObject(item); ok {
			out = append(out, obj)
		}
	}
	return out
}

func extractItems(decoded any) []any {
	if items, ok := decoded.([]any); ok {
		return items
	}
	obj, ok := asObject(decoded)
	if !ok {
		return nil
	}

	data := obj["data"]
	if items, ok := data.([]any); ok {
		return items
	}
	if inner, ok := asObject(data); ok {
		if items, ok := inner["list"].([]any); ok {
			return items
		}
		if items, ok := inner["content"].([]any); ok {
			return items
		}
	}
	return nil
}
