package request

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dumpable map[string]interface{}

func (d dumpable) Dump() map[string]interface{} { return d }

func TestBuildURL(t *testing.T) {
	type payload struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}
	tests := map[string]struct {
		tpl     string
		query   Params
		payload interface{}
		opts    URLOptions
		want    string
		wantErr bool
	}{
		"missing token drops separator": {
			tpl: "http://test/res/:pk/", want: "http://test/res/",
		},
		"token from query": {
			tpl: "http://test/res/:pk/", query: Params{"pk": 1}, want: "http://test/res/1/",
		},
		"token from defaults": {
			tpl: "http://test/res/:pk/", opts: URLOptions{ParamDefaults: map[string]interface{}{"pk": "abc"}},
			want: "http://test/res/abc/",
		},
		"query wins over defaults": {
			tpl: "http://test/res/:pk", query: Params{"pk": 2},
			opts: URLOptions{ParamDefaults: map[string]interface{}{"pk": 1}}, want: "http://test/res/2",
		},
		"default from map payload": {
			tpl: "http://test/res/:pk/", payload: map[string]interface{}{"id": 7},
			opts: URLOptions{ParamDefaults: map[string]interface{}{"pk": "@id"}}, want: "http://test/res/7/",
		},
		"default from dumper payload": {
			tpl: "http://test/res/:pk/", payload: dumpable{"id": "x"},
			opts: URLOptions{ParamDefaults: map[string]interface{}{"pk": "@id"}}, want: "http://test/res/x/",
		},
		"default from struct payload": {
			tpl: "http://test/res/:pk/", payload: payload{ID: 9},
			opts: URLOptions{ParamDefaults: map[string]interface{}{"pk": "@id"}}, want: "http://test/res/9/",
		},
		"default from missing payload attribute": {
			tpl: "http://test/res/:pk/", payload: map[string]interface{}{},
			opts: URLOptions{ParamDefaults: map[string]interface{}{"pk": "@id"}}, want: "http://test/res/",
		},
		"port is not a token": {
			tpl: "http://test:8080/res/:pk", query: Params{"pk": 1}, want: "http://test:8080/res/1",
		},
		"remaining query sorted": {
			tpl: "http://test/res/:pk/", query: Params{"pk": 1, "b": "2", "a": true},
			want: "http://test/res/1/?a=true&b=2",
		},
		"slice query repeats key": {
			tpl: "http://test/res", query: Params{"tag": []string{"x", "y"}}, want: "http://test/res?tag=x&tag=y",
		},
		"existing query is kept": {
			tpl: "http://test/res?fixed=1", query: Params{"a": 2}, want: "http://test/res?fixed=1&a=2",
		},
		"strip trailing slashes": {
			tpl: "http://test/res/:pk/", query: Params{"pk": 1}, opts: URLOptions{StripTrailingSlashes: true},
			want: "http://test/res/1",
		},
		"extension after missing token": {
			tpl: "http://test/res/:pk.json", want: "http://test/res.json",
		},
		"escaped colon": {
			tpl: `http://test/res/\:literal/:pk`, query: Params{"pk": 1}, want: "http://test/res/:literal/1",
		},
		"similar token names": {
			tpl: "http://test/:p/:pk", query: Params{"p": "a", "pk": "b"}, want: "http://test/a/b",
		},
		"value is escaped": {
			tpl: "http://test/res/:pk", query: Params{"pk": "a b"}, want: "http://test/res/a%20b",
		},
		"relative template": {
			tpl: "/res/:pk", want: "/res/",
		},
		"empty template": {
			tpl: " ", wantErr: true,
		},
		"unsupported param type": {
			tpl: "http://test/res", query: Params{"a": struct{}{}}, wantErr: true,
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := BuildURL(tt.tpl, tt.query, tt.payload, tt.opts)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildHeaders(t *testing.T) {
	defaults := map[string]interface{}{
		"X-Static": "static",
		"X-Multi":  []string{"a", "b"},
		"X-Func": HeaderFunc(func(hc HeaderContext) string {
			return hc.Method + ":" + hc.Query["pk"].(string)
		}),
		"X-Plain": func(hc HeaderContext) string { return hc.Action },
		"X-Empty": func(HeaderContext) string { return "" },
	}

	hdr, err := BuildHeaders(defaults, HeaderContext{Query: Params{"pk": "1"}, Method: "GET", Action: "get"})
	require.NoError(t, err)
	assert.Equal(t, "static", hdr.Get("X-Static"))
	assert.Equal(t, []string{"a", "b"}, hdr.Values("X-Multi"))
	assert.Equal(t, "GET:1", hdr.Get("X-Func"))
	assert.Equal(t, "get", hdr.Get("X-Plain"))
	_, ok := hdr["X-Empty"]
	assert.False(t, ok)

	_, err = BuildHeaders(map[string]interface{}{"X-Bad": 1}, HeaderContext{})
	assert.Error(t, err)
}
