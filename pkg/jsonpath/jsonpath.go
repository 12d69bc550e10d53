package jsonpath

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
)

// Extract evaluates a JSONPath expression ($.user.name, $.errors[0].field)
// against a raw JSON document and returns the matched value as a string.
// A JSON null is returned as "null"; a missing path is an error.
func Extract(body []byte, path string) (string, error) {
	if len(body) == 0 {
		return "", fmt.Errorf("empty JSON document")
	}
	if path == "" {
		return "", fmt.Errorf("empty JSONPath expression")
	}
	if !gjson.ValidBytes(body) {
		return "", fmt.Errorf("invalid JSON document")
	}

	result := gjson.GetBytes(body, ToGjsonPath(path))
	if !result.Exists() {
		return "", fmt.Errorf("path not found: %s", path)
	}

	if result.Type == gjson.Null {
		return "null", nil
	}

	return result.String(), nil
}

// ExtractMultiple extracts every named path. Values found are returned even
// when some paths fail; the error then lists the failures in name order.
func ExtractMultiple(body []byte, paths map[string]string) (map[string]string, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no JSONPath expressions provided")
	}

	names := make([]string, 0, len(paths))
	for name := range paths {
		names = append(names, name)
	}
	sort.Strings(names)

	results := make(map[string]string, len(paths))
	var failures []string

	for _, name := range names {
		value, err := Extract(body, paths[name])
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		results[name] = value
	}

	if len(failures) > 0 {
		return results, fmt.Errorf("extraction errors: %s", strings.Join(failures, "; "))
	}

	return results, nil
}

// ToGjsonPath converts a JSONPath expression to gjson syntax.
//
//	$                  -> @this
//	$.users[0].name    -> users.0.name
//	$['user']["name"]  -> user.name
//
// Paths without a leading $ are assumed to already be gjson paths.
func ToGjsonPath(path string) string {
	if !strings.HasPrefix(path, "$") {
		return path
	}

	path = strings.TrimPrefix(path, "$")
	if path == "" || path == "." {
		return "@this"
	}

	var b strings.Builder
	for i := 0; i < len(path); i++ {
		switch c := path[i]; c {
		case '[':
			end := strings.IndexByte(path[i:], ']')
			if end < 0 {
				b.WriteString(path[i:])
				i = len(path)
				continue
			}
			segment := strings.Trim(path[i+1:i+end], `'"`)
			if b.Len() > 0 {
				b.WriteByte('.')
			}
			b.WriteString(segment)
			i += end
		case '.':
			if b.Len() > 0 {
				b.WriteByte('.')
			}
		default:
			b.WriteByte(c)
		}
	}

	return b.String()
}
