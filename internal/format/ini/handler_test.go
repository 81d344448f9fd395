package ini

import (
	"strings"
	"testing"

	"github.com/iancoleman/orderedmap"
	"github.com/thirteen37/keycase/internal/format"
)

func TestHandler_Parse(t *testing.T) {
	h := New()

	tests := []struct {
		name     string
		input    string
		wantKeys []string
		wantErr  bool
	}{
		{
			name:     "simple section",
			input:    "[section]\nkey = value",
			wantKeys: []string{"section"},
		},
		{
			name:     "multiple sections",
			input:    "[section1]\nkey1 = value1\n\n[section2]\nkey2 = value2",
			wantKeys: []string{"section1", "section2"},
		},
		{
			name:     "empty ini",
			input:    "",
			wantKeys: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := h.Parse([]byte(tt.input), format.ParseOptions{})
			if (err != nil) != tt.wantErr {
				t.Errorf("Parse() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr {
				om, ok := got.(*orderedmap.OrderedMap)
				if !ok {
					t.Errorf("Parse() returned %T, want *orderedmap.OrderedMap", got)
					return
				}
				gotKeys := om.Keys()
				if len(gotKeys) != len(tt.wantKeys) {
					t.Errorf("Parse() got %d keys (%v), want %d (%v)", len(gotKeys), gotKeys, len(tt.wantKeys), tt.wantKeys)
					return
				}
				for i, k := range gotKeys {
					if k != tt.wantKeys[i] {
						t.Errorf("Parse() key[%d] = %q, want %q", i, k, tt.wantKeys[i])
					}
				}
			}
		})
	}
}

func TestHandler_Parse_StripCommentsError(t *testing.T) {
	h := New()

	_, err := h.Parse([]byte("[section]\nkey = value"), format.ParseOptions{StripComments: true})
	if err == nil {
		t.Error("Parse() with StripComments should return error for INI")
	}
}

func TestHandler_Parse_Values(t *testing.T) {
	h := New()

	input := `[database]
host = localhost
port = 3306
enabled = true
`

	tree, err := h.Parse([]byte(input), format.ParseOptions{})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	om := tree.(*orderedmap.OrderedMap)
	db, exists := om.Get("database")
	if !exists {
		t.Fatal("Parse() missing 'database' section")
	}

	dbMap := db.(*orderedmap.OrderedMap)

	// All values should be strings in INI
	host, _ := dbMap.Get("host")
	if host != "localhost" {
		t.Errorf("host = %v, want 'localhost'", host)
	}

	port, _ := dbMap.Get("port")
	if port != "3306" {
		t.Errorf("port = %v, want '3306' (string)", port)
	}

	enabled, _ := dbMap.Get("enabled")
	if enabled != "true" {
		t.Errorf("enabled = %v, want 'true' (string)", enabled)
	}
}

func TestHandler_Parse_GlobalKeys(t *testing.T) {
	h := New()

	tree, err := h.Parse([]byte("appName = demo\n\n[database]\nhost = localhost\n"), format.ParseOptions{})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	om := tree.(*orderedmap.OrderedMap)
	if keys := om.Keys(); len(keys) != 2 || keys[0] != "appName" || keys[1] != "database" {
		t.Fatalf("Parse() keys = %v, want [appName database]", keys)
	}
	if v, _ := om.Get("appName"); v != "demo" {
		t.Errorf("appName = %v, want 'demo'", v)
	}
}

func TestHandler_Parse_NestedSections(t *testing.T) {
	h := New()

	input := `[serverConfig]
port = 80

[serverConfig.httpOpts]
host = example.com

[cacheLayer.redisPool]
url = redis://x
`

	tree, err := h.Parse([]byte(input), format.ParseOptions{})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	om := tree.(*orderedmap.OrderedMap)
	if keys := om.Keys(); len(keys) != 2 || keys[0] != "serverConfig" || keys[1] != "cacheLayer" {
		t.Fatalf("Parse() keys = %v, want [serverConfig cacheLayer]", keys)
	}

	server := get(t, om, "serverConfig")
	if keys := server.Keys(); len(keys) != 2 || keys[0] != "port" || keys[1] != "httpOpts" {
		t.Errorf("serverConfig keys = %v, want [port httpOpts]", keys)
	}
	if v, _ := get(t, server, "httpOpts").Get("host"); v != "example.com" {
		t.Errorf("httpOpts.host = %v, want 'example.com'", v)
	}
	if v, _ := get(t, get(t, om, "cacheLayer"), "redisPool").Get("url"); v != "redis://x" {
		t.Errorf("redisPool.url = %v, want 'redis://x'", v)
	}
}

func TestHandler_Parse_SectionClash(t *testing.T) {
	h := New()

	tree, err := h.Parse([]byte("[server]\nhttp = on\n\n[server.http]\nhost = x\n"), format.ParseOptions{})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	om := tree.(*orderedmap.OrderedMap)
	if keys := om.Keys(); len(keys) != 2 || keys[0] != "server" || keys[1] != "server.http" {
		t.Fatalf("Parse() keys = %v, want [server server.http]", keys)
	}
	if v, _ := get(t, om, "server").Get("http"); v != "on" {
		t.Errorf("server.http = %v, want 'on'", v)
	}
}

func get(t *testing.T, om *orderedmap.OrderedMap, key string) *orderedmap.OrderedMap {
	t.Helper()
	v, ok := om.Get(key)
	if !ok {
		t.Fatalf("missing key %q in %v", key, om.Keys())
	}
	child := format.ToOrderedMapPtr(v)
	if child == nil {
		t.Fatalf("key %q is %T, want object", key, v)
	}
	return child
}

func TestHandler_Serialize(t *testing.T) {
	h := New()

	section := orderedmap.New()
	section.Set("key", "value")

	tree := orderedmap.New()
	tree.Set("section", section)

	data, err := h.Serialize(tree, format.SerializeOptions{})
	if err != nil {
		t.Fatalf("Serialize() error = %v", err)
	}

	// Should contain section header and key
	output := string(data)
	if !strings.Contains(output, "[section]") {
		t.Errorf("Serialize() missing section header: %q", output)
	}
	if !strings.Contains(output, "key") && !strings.Contains(output, "value") {
		t.Errorf("Serialize() missing key/value: %q", output)
	}
}

func TestHandler_Serialize_GlobalKeys(t *testing.T) {
	h := New()

	tree := orderedmap.New()
	tree.Set("appName", "demo")
	tree.Set("retries", 3)

	data, err := h.Serialize(tree, format.SerializeOptions{})
	if err != nil {
		t.Fatalf("Serialize() error = %v", err)
	}

	output := string(data)
	if !strings.Contains(output, "appName") || !strings.Contains(output, "3") {
		t.Errorf("Serialize() = %q, want global keys", output)
	}
	if strings.Contains(output, "[") {
		t.Errorf("Serialize() = %q, want no section header", output)
	}
}

func TestHandler_Serialize_NestedSections(t *testing.T) {
	h := New()

	http := orderedmap.New()
	http.Set("host", "x")
	server := orderedmap.New()
	server.Set("port", "80")
	server.Set("http", http)
	redis := orderedmap.New()
	redis.Set("hosts", []any{"a", "b"})
	cache := orderedmap.New()
	cache.Set("redis", redis)

	tree := orderedmap.New()
	tree.Set("server", server)
	tree.Set("cache", cache)

	data, err := h.Serialize(tree, format.SerializeOptions{})
	if err != nil {
		t.Fatalf("Serialize() error = %v", err)
	}

	output := string(data)
	for _, want := range []string{"[server]", "[server.http]", "[cache.redis]", "a,b"} {
		if !strings.Contains(output, want) {
			t.Errorf("Serialize() = %q, want it to contain %q", output, want)
		}
	}
	if strings.Contains(output, "[cache]") {
		t.Errorf("Serialize() = %q, want no header for a section with only child sections", output)
	}
	if strings.Index(output, "[server]") > strings.Index(output, "[server.http]") {
		t.Errorf("Serialize() = %q, want parent before child section", output)
	}
}

func TestHandler_Serialize_NotMap(t *testing.T) {
	h := New()

	if _, err := h.Serialize([]any{"x"}, format.SerializeOptions{}); err == nil {
		t.Error("Serialize() of an array should fail")
	}
}

func TestHandler_ParseAndSerialize_RoundTrip(t *testing.T) {
	h := New()

	input := `appName = demo

[database]
host = localhost
port = 3306

[server]
address = 0.0.0.0

[server.tls]
cert = /etc/cert.pem
`

	tree, err := h.Parse([]byte(input), format.ParseOptions{})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	// Modify a value
	db, _ := tree.(*orderedmap.OrderedMap).Get("database")
	db.(*orderedmap.OrderedMap).Set("port", "5432")

	// Serialize
	data, err := h.Serialize(tree, format.SerializeOptions{})
	if err != nil {
		t.Fatalf("Serialize() error = %v", err)
	}

	// Re-parse and verify
	tree2, err := h.Parse(data, format.ParseOptions{})
	if err != nil {
		t.Fatalf("Re-parse error = %v", err)
	}

	om := tree2.(*orderedmap.OrderedMap)
	if keys := om.Keys(); len(keys) != 3 || keys[0] != "appName" || keys[1] != "database" || keys[2] != "server" {
		t.Errorf("Round-trip keys = %v, want [appName database server]", keys)
	}
	if cert, _ := get(t, get(t, om, "server"), "tls").Get("cert"); cert != "/etc/cert.pem" {
		t.Errorf("Round-trip server.tls.cert = %v, want '/etc/cert.pem'", cert)
	}
	db2, _ := om.Get("database")
	port, found := db2.(*orderedmap.OrderedMap).Get("port")
	if !found || port != "5432" {
		t.Errorf("Round-trip port = %v, want '5432'", port)
	}
}
