package request

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/beatlabs/resource/encoding/json"
)

// ErrEmptyURL is returned when there is no url template to build from.
var ErrEmptyURL = errors.New("url template is empty")

var (
	schemeHost  = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.\-]*://[^/]*`)
	tokenName   = regexp.MustCompile(`^\w+`)
	dotAfterSep = regexp.MustCompile(`/\.(\w+)($|\?)`)
	allDigits   = regexp.MustCompile(`^\d+$`)
)

// URLOptions are the template settings of an action.
type URLOptions struct {
	// ParamDefaults are used for tokens missing from the query. A string default of the form
	// "@attr" is read from the payload attribute attr.
	ParamDefaults map[string]interface{}
	// StripTrailingSlashes removes the trailing slashes of the path.
	StripTrailingSlashes bool
}

// BuildURL resolves the :name tokens of the template and appends the remaining query.
// Tokens without a value are dropped along with their trailing separator. Remaining query
// entries are appended sorted by name, slice values repeat the key.
func BuildURL(tpl string, query Params, payload interface{}, o URLOptions) (string, error) {
	if strings.TrimSpace(tpl) == "" {
		return "", ErrEmptyURL
	}

	prefix := schemeHost.FindString(tpl)
	path := tpl[len(prefix):]
	var rawQuery string
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path, rawQuery = path[:i], path[i+1:]
	}

	used := make(map[string]struct{})
	for _, name := range tokens(path) {
		used[name] = struct{}{}
		val, ok, err := tokenValue(name, query, payload, o.ParamDefaults)
		if err != nil {
			return "", err
		}
		path = replaceToken(path, name, val, ok)
	}

	path = dotAfterSep.ReplaceAllString(path, ".$1$2")
	path = strings.ReplaceAll(path, `\:`, ":")
	if o.StripTrailingSlashes {
		path = strings.TrimRight(path, "/")
	}
	if prefix == "" && path == "" {
		path = "/"
	}

	qs, err := encodeQuery(query, used)
	if err != nil {
		return "", err
	}
	switch {
	case rawQuery != "" && qs != "":
		rawQuery += "&" + qs
	case qs != "":
		rawQuery = qs
	}

	out := prefix + path
	if rawQuery != "" {
		out += "?" + rawQuery
	}
	if _, err := url.Parse(out); err != nil {
		return "", fmt.Errorf("invalid url %q: %w", out, err)
	}
	return out, nil
}

// tokens returns the unique, unescaped token names in order of appearance. Port numbers are skipped.
func tokens(path string) []string {
	var names []string
	seen := make(map[string]struct{})
	for i := 0; i < len(path); i++ {
		if path[i] != ':' || (i > 0 && path[i-1] == '\\') {
			continue
		}
		name := tokenName.FindString(path[i+1:])
		if name == "" || allDigits.MatchString(name) {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

func tokenValue(name string, query Params, payload interface{}, defaults map[string]interface{}) (string, bool, error) {
	if v, ok := query[name]; ok && v != nil {
		return scalar(name, v)
	}
	v, ok := defaults[name]
	if !ok || v == nil {
		return "", false, nil
	}
	if s, isStr := v.(string); isStr && strings.HasPrefix(s, "@") {
		attr, found := attribute(payload, s[1:])
		if !found || attr == nil {
			return "", false, nil
		}
		v = attr
	}
	return scalar(name, v)
}

// replaceToken substitutes every unescaped occurrence of :name.
func replaceToken(path, name, val string, ok bool) string {
	var sb strings.Builder
	tok := ":" + name
	for {
		i := indexToken(path, tok)
		if i < 0 {
			sb.WriteString(path)
			return sb.String()
		}
		head, tail := path[:i], path[i+len(tok):]
		switch {
		case ok:
			sb.WriteString(head)
			sb.WriteString(url.PathEscape(val))
		case strings.HasPrefix(tail, "/") && strings.HasSuffix(head, "/"):
			sb.WriteString(strings.TrimSuffix(head, "/"))
		default:
			sb.WriteString(head)
		}
		path = tail
	}
}

func indexToken(path, tok string) int {
	offset := 0
	for {
		i := strings.Index(path[offset:], tok)
		if i < 0 {
			return -1
		}
		i += offset
		end := i + len(tok)
		escaped := i > 0 && path[i-1] == '\\'
		partial := end < len(path) && isWordChar(path[end])
		if !escaped && !partial {
			return i
		}
		offset = end
	}
}

func isWordChar(c byte) bool {
	return c == '_' || (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func encodeQuery(query Params, used map[string]struct{}) (string, error) {
	keys := make([]string, 0, len(query))
	for k, v := range query {
		if _, ok := used[k]; ok || v == nil {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		rv := reflect.ValueOf(query[k])
		if (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array) && rv.Type().Elem().Kind() != reflect.Uint8 {
			for i := 0; i < rv.Len(); i++ {
				s, _, err := scalar(k, rv.Index(i).Interface())
				if err != nil {
					return "", err
				}
				parts = append(parts, url.QueryEscape(k)+"="+url.QueryEscape(s))
			}
			continue
		}
		s, _, err := scalar(k, query[k])
		if err != nil {
			return "", err
		}
		parts = append(parts, url.QueryEscape(k)+"="+url.QueryEscape(s))
	}
	return strings.Join(parts, "&"), nil
}

func scalar(name string, v interface{}) (string, bool, error) {
	switch t := v.(type) {
	case string:
		return t, true, nil
	case fmt.Stringer:
		return t.String(), true, nil
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Bool, reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return fmt.Sprint(v), true, nil
	}
	return "", false, fmt.Errorf("param %q has unsupported type %T", name, v)
}

type dumper interface {
	Dump() map[string]interface{}
}

// attribute reads a top level attribute of the payload.
func attribute(payload interface{}, name string) (interface{}, bool) {
	switch p := payload.(type) {
	case nil:
		return nil, false
	case map[string]interface{}:
		v, ok := p[name]
		return v, ok
	case Params:
		v, ok := p[name]
		return v, ok
	case dumper:
		v, ok := p.Dump()[name]
		return v, ok
	}

	b, err := json.Encode(payload)
	if err != nil {
		return nil, false
	}
	var m map[string]interface{}
	if err := json.DecodeRaw(b, &m); err != nil {
		return nil, false
	}
	v, ok := m[name]
	return v, ok
}
