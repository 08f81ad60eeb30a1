package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/flavortown/pkg/config"
	"github.com/vanderheijden86/flavortown/pkg/loader"
	"github.com/vanderheijden86/flavortown/pkg/model"
	"github.com/vanderheijden86/flavortown/pkg/render"
	"github.com/vanderheijden86/flavortown/pkg/testutil"
)

var ansiRE = regexp.MustCompile(`\x1b\[[0-9;]*[A-Za-z]`)

type result struct {
	stdout string
	stderr string
	err    error
}

// isolate points every config location at a temp dir and clears the
// environment overrides.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	t.Setenv(config.EnvAPIKey, "")
	t.Setenv(loader.CatalogFileEnvVar, "")
	return dir
}

func runCLI(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	var out, errOut bytes.Buffer
	a := newApp(strings.NewReader(stdin), &out, &errOut)
	err := a.execute(context.Background(), args)
	if err != nil {
		a.reportError(err)
	}
	return result{
		stdout: ansiRE.ReplaceAllString(out.String(), ""),
		stderr: ansiRE.ReplaceAllString(errOut.String(), ""),
		err:    err,
	}
}

func ptr[T any](v T) *T { return &v }

func lampItems() []model.Item {
	return []model.Item{
		{ID: 1, Name: "Lamp", Type: "Furniture", Cost: ptr(100.0), LinkedIDs: []model.ItemID{2}},
		{ID: 2, Name: "Lampshade", Type: "Accessory", Cost: ptr(20.0), LinkedIDs: []model.ItemID{1}},
	}
}

func writeCatalog(t *testing.T, dir string, items []model.Item) string {
	t.Helper()
	return testutil.WriteCatalogFile(t, filepath.Join(dir, "store.json"), items)
}

// writeConfig stores a config pointing at baseURL and returns its path.
func writeConfig(t *testing.T, dir, baseURL, key string) string {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.BaseURL = baseURL
	cfg.APIKey = key
	path := filepath.Join(dir, "config.yaml")
	if err := config.SaveTo(cfg, path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}
	return path
}

func TestStoreListFromFile(t *testing.T) {
	dir := isolate(t)
	file := writeCatalog(t, dir, lampItems())

	res := runCLI(t, "", "store", "list", "--file", file)
	if res.err != nil {
		t.Fatalf("store list: %v\n%s", res.err, res.stderr)
	}
	for _, want := range []string{
		"1   Lamp [Furniture]\n",
		"    ↳ Upgrades/Options:\n",
		"      2   Lampshade [Accessory]\n",
		"Showing 2 items (including grouped options).",
	} {
		if !strings.Contains(res.stdout, want) {
			t.Errorf("output missing %q:\n%s", want, res.stdout)
		}
	}
}

func TestStoreListNoGroup(t *testing.T) {
	dir := isolate(t)
	file := writeCatalog(t, dir, lampItems())

	res := runCLI(t, "", "store", "list", "--file", file, "--no-group")
	if res.err != nil {
		t.Fatal(res.err)
	}
	if strings.Contains(res.stdout, "Upgrades/Options") {
		t.Errorf("ungrouped output nests items:\n%s", res.stdout)
	}
	shade := strings.Index(res.stdout, "2   Lampshade")
	lamp := strings.Index(res.stdout, "1   Lamp ")
	if shade < 0 || lamp < 0 || shade > lamp {
		t.Errorf("expected Lampshade before Lamp at top level:\n%s", res.stdout)
	}
}

func TestStoreListEmptyStates(t *testing.T) {
	tests := []struct {
		name  string
		items []model.Item
		args  []string
		want  string
	}{
		{"empty catalog", []model.Item{}, nil, "No store items found."},
		{"no match", lampItems(), []string{"--search", "zeppelin"}, "No items matched your filters."},
		{"type mismatch", lampItems(), []string{"--type", "Furn"}, "No items matched your filters."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := isolate(t)
			file := writeCatalog(t, dir, tt.items)

			args := append([]string{"store", "list", "--file", file}, tt.args...)
			res := runCLI(t, "", args...)
			if res.err != nil {
				t.Fatal(res.err)
			}
			if strings.TrimSpace(res.stdout) != tt.want {
				t.Errorf("stdout = %q, want %q", res.stdout, tt.want)
			}
		})
	}
}

func TestStoreListJSON(t *testing.T) {
	dir := isolate(t)
	file := writeCatalog(t, dir, lampItems())

	res := runCLI(t, "", "store", "list", "--file", file, "--json", "--sort", "name")
	if res.err != nil {
		t.Fatal(res.err)
	}
	var listing render.Listing
	if err := json.Unmarshal([]byte(res.stdout), &listing); err != nil {
		t.Fatalf("decoding %q: %v", res.stdout, err)
	}
	if listing.Total != 2 || listing.Matched != 2 || !listing.Grouped || listing.Sort != "name" {
		t.Errorf("listing = %+v", listing)
	}
	if len(listing.Items) != 1 || listing.Items[0].ID != 1 {
		t.Fatalf("roots = %+v", listing.Items)
	}
	if kids := listing.Items[0].Children; len(kids) != 1 || kids[0].ID != 2 || kids[0].DisplayType != "Accessory" {
		t.Errorf("children = %+v", kids)
	}
}

func TestStoreListCatalogEnv(t *testing.T) {
	dir := isolate(t)
	file := writeCatalog(t, dir, lampItems())
	t.Setenv(loader.CatalogFileEnvVar, dir)

	res := runCLI(t, "", "store", "list")
	if res.err != nil {
		t.Fatal(res.err)
	}
	if !strings.Contains(res.stdout, "Lampshade") {
		t.Errorf("expected catalog from %s:\n%s", file, res.stdout)
	}
}

func TestStoreListConfigDefaults(t *testing.T) {
	dir := isolate(t)
	file := writeCatalog(t, dir, lampItems())

	cfg := config.DefaultConfig()
	cfg.Store.Sort = "price-desc"
	cfg.Store.Group = ptr(false)
	cfgPath := filepath.Join(dir, "config.yaml")
	if err := config.SaveTo(cfg, cfgPath); err != nil {
		t.Fatal(err)
	}

	res := runCLI(t, "", "--config", cfgPath, "store", "list", "--file", file)
	if res.err != nil {
		t.Fatal(res.err)
	}
	lamp := strings.Index(res.stdout, "1   Lamp ")
	shade := strings.Index(res.stdout, "2   Lampshade")
	if lamp < 0 || shade < 0 || lamp > shade || strings.Contains(res.stdout, "Upgrades/Options") {
		t.Errorf("expected flat price-desc listing:\n%s", res.stdout)
	}
}

func TestStoreListFlagErrors(t *testing.T) {
	dir := isolate(t)
	file := writeCatalog(t, dir, lampItems())

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"bad sort", []string{"store", "list", "--file", file, "--sort", "random"}, "invalid sort mode"},
		{"watch without file", []string{"store", "list", "--watch"}, "--watch needs --file"},
		{"missing file", []string{"store", "list", "--file", filepath.Join(dir, "nope.json")}, "no catalog found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runCLI(t, "", tt.args...)
			if res.err == nil || !strings.Contains(res.err.Error(), tt.want) {
				t.Errorf("err = %v, want %q", res.err, tt.want)
			}
			if !strings.Contains(res.stderr, "Error: ") {
				t.Errorf("stderr = %q", res.stderr)
			}
		})
	}
}

func TestStoreListMalformedItem(t *testing.T) {
	dir := isolate(t)
	file := filepath.Join(dir, "store.jsonl")
	if err := os.WriteFile(file, []byte(`{"id":7,"name":""}`+"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	res := runCLI(t, "", "store", "list", "--file", file)
	var malformed *model.MalformedItemError
	if !errors.As(res.err, &malformed) || malformed.ID != 7 {
		t.Errorf("err = %v, want MalformedItemError for 7", res.err)
	}
}

func TestCommandsRequireAPIKey(t *testing.T) {
	for _, args := range [][]string{
		{"store", "list"},
		{"store", "get", "1"},
		{"projects", "list"},
		{"devlogs", "list", "3"},
	} {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			isolate(t)
			res := runCLI(t, "", args...)
			if !errors.Is(res.err, config.ErrNoAPIKey) {
				t.Fatalf("err = %v, want ErrNoAPIKey", res.err)
			}
			if !strings.Contains(res.stderr, "API Key not found!") || !strings.Contains(res.stderr, "flavortown setup") {
				t.Errorf("stderr = %q", res.stderr)
			}
			if strings.Contains(res.stderr, "Error: ") {
				t.Errorf("error printed twice: %q", res.stderr)
			}
		})
	}
}

func TestAuthLifecycle(t *testing.T) {
	dir := isolate(t)
	cfgPath := filepath.Join(dir, "config.yaml")

	res := runCLI(t, "", "--config", cfgPath, "whoami")
	if !strings.Contains(res.stdout, `Not logged in. Run "flavortown setup" to get started.`) {
		t.Errorf("whoami before setup: %q", res.stdout)
	}

	res = runCLI(t, "", "--config", cfgPath, "setup", "--key", "ftk_1234567890abcd")
	if res.err != nil || !strings.Contains(res.stdout, "API key saved successfully!") {
		t.Fatalf("setup: %v %q", res.err, res.stdout)
	}

	res = runCLI(t, "", "--config", cfgPath, "whoami")
	if !strings.Contains(res.stdout, "Logged in with API Key: ftk_**********abcd") {
		t.Errorf("whoami after setup: %q", res.stdout)
	}

	res = runCLI(t, "", "--config", cfgPath, "logout")
	if res.err != nil || !strings.Contains(res.stdout, "Logged out successfully. API key cleared.") {
		t.Fatalf("logout: %v %q", res.err, res.stdout)
	}
	cfg, err := config.LoadFrom(cfgPath)
	if err != nil || cfg.APIKey != "" {
		t.Errorf("key after logout = %q (%v)", cfg.APIKey, err)
	}
}

func TestSetupPrompt(t *testing.T) {
	tests := []struct {
		name  string
		stdin string
		want  string
		key   string
	}{
		{"key entered", "  abcd1234efgh  \n", "API key saved successfully!", "abcd1234efgh"},
		{"no newline", "abcd1234efgh", "API key saved successfully!", "abcd1234efgh"},
		{"empty", "\n", "No key entered. Setup cancelled.", ""},
		{"eof", "", "No key entered. Setup cancelled.", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := isolate(t)
			cfgPath := filepath.Join(dir, "config.yaml")

			res := runCLI(t, tt.stdin, "--config", cfgPath, "setup")
			if res.err != nil {
				t.Fatal(res.err)
			}
			for _, want := range []string{"How to get your API key:", "Enter your API key: ", tt.want} {
				if !strings.Contains(res.stdout, want) {
					t.Errorf("stdout missing %q:\n%s", want, res.stdout)
				}
			}
			cfg, _ := config.LoadFrom(cfgPath)
			if cfg.APIKey != tt.key {
				t.Errorf("saved key = %q, want %q", cfg.APIKey, tt.key)
			}
		})
	}
}

func TestWhoamiUsesEnvironmentKey(t *testing.T) {
	isolate(t)
	t.Setenv(config.EnvAPIKey, "envkey-0000-1111")

	res := runCLI(t, "", "whoami")
	if !strings.Contains(res.stdout, "envk********1111") || !strings.Contains(res.stdout, config.EnvAPIKey) {
		t.Errorf("whoami = %q", res.stdout)
	}
}

// fakeAPI serves canned responses and records the Authorization header.
func fakeAPI(t *testing.T, routes map[string]string) (*httptest.Server, *string) {
	t.Helper()
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		body, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		if body == "401" {
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"error":"bad key"}`)
			return
		}
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, &auth
}

func TestStoreListFromAPI(t *testing.T) {
	dir := isolate(t)
	srv, auth := fakeAPI(t, map[string]string{
		"/store": `{"items":[
			{"id":1,"name":"Console","type":"ShopItem::Gadget","ticket_cost":{"base_cost":300},"stock":null,"attached_shop_item_ids":[2,3]},
			{"id":2,"name":"Controller","type":"ShopItem::Accessory","ticket_cost":{"base_cost":40},"stock":5,"attached_shop_item_ids":[]},
			{"id":3,"name":"Cable","type":"ShopItem::Upgrade","ticket_cost":{"base_cost":10},"stock":0,"limited":true}
		]}`,
	})
	cfgPath := writeConfig(t, dir, srv.URL, "secret-key")

	res := runCLI(t, "", "--config", cfgPath, "store", "list")
	if res.err != nil {
		t.Fatalf("store list: %v\n%s", res.err, res.stderr)
	}
	if *auth != "Bearer secret-key" {
		t.Errorf("Authorization = %q", *auth)
	}
	want := "1   Console [Gadget]\n" +
		"    No description\n" +
		"    Cost: 300 tickets | Stock: Unlimited\n" +
		"    ↳ Upgrades/Options:\n" +
		"      3   Cable [Upgrade]\n" +
		"          No description\n" +
		"          Cost: 10 tickets | Stock: Out of Stock\n" +
		"          ⚠ Limited Edition\n" +
		"      2   Controller [Accessory]\n" +
		"          No description\n" +
		"          Cost: 40 tickets | Stock: 5\n" +
		"\n" +
		"Showing 3 items (including grouped options).\n"
	if res.stdout != want {
		t.Errorf("stdout:\n%s\nwant:\n%s", res.stdout, want)
	}
}

func TestUnauthorizedHint(t *testing.T) {
	dir := isolate(t)
	srv, _ := fakeAPI(t, map[string]string{"/store": "401"})
	cfgPath := writeConfig(t, dir, srv.URL, "old-key")

	res := runCLI(t, "", "--config", cfgPath, "store", "list")
	if res.err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"Error: fetching store items:", "bad key", "Your API key was rejected"} {
		if !strings.Contains(res.stderr, want) {
			t.Errorf("stderr missing %q: %q", want, res.stderr)
		}
	}
}

func TestStoreGet(t *testing.T) {
	dir := isolate(t)
	srv, _ := fakeAPI(t, map[string]string{
		"/store/4": `{"id":4,"name":"Sticker Pack","type":"ShopItem::Sticker","description":"short","long_description":"A big pack of stickers.","ticket_cost":{"base_cost":5},"stock":12,"max_qty":3,"one_per_person_ever":true,"image_url":"https://img.example/4.png"}`,
		"/store/9": `{"id":9,"name":"Mystery","stock":null}`,
	})
	cfgPath := writeConfig(t, dir, srv.URL, "k")

	res := runCLI(t, "", "--config", cfgPath, "store", "get", "9", "4")
	if res.err != nil {
		t.Fatal(res.err)
	}
	rule := strings.Repeat("─", 40)
	want := "Mystery\n" +
		rule + "\nNo description available.\n" + rule + "\n" +
		"Cost: N/A tickets\nStock: Unlimited\n" +
		"\n" +
		"Sticker Pack\nType: ShopItem::Sticker\n" +
		rule + "\nA big pack of stickers.\n" + rule + "\n" +
		"Cost: 5 tickets\nStock: 12\nMax Qty: 3\nLimit: One per person ever\nImage: https://img.example/4.png\n"
	if res.stdout != want {
		t.Errorf("stdout:\n%s\nwant:\n%s", res.stdout, want)
	}

	res = runCLI(t, "", "--config", cfgPath, "store", "get", "abc")
	if res.err == nil || !strings.Contains(res.err.Error(), `invalid item id "abc"`) {
		t.Errorf("err = %v", res.err)
	}
}

func TestStoreGetFromFile(t *testing.T) {
	dir := isolate(t)
	file := writeCatalog(t, dir, lampItems())

	res := runCLI(t, "", "store", "get", "--file", file, "2")
	if res.err != nil {
		t.Fatal(res.err)
	}
	if !strings.HasPrefix(res.stdout, "Lampshade\nType: Accessory\n") {
		t.Errorf("stdout = %q", res.stdout)
	}

	res = runCLI(t, "", "store", "get", "--file", file, "42")
	if res.err == nil || !strings.Contains(res.err.Error(), "item 42 not found") {
		t.Errorf("err = %v", res.err)
	}
}

func TestStoreCycles(t *testing.T) {
	dir := isolate(t)
	items := append(lampItems(), model.Item{ID: 3, Name: "Loop", LinkedIDs: []model.ItemID{3}})
	file := writeCatalog(t, dir, items)

	res := runCLI(t, "", "store", "cycles", "--file", file)
	if res.err != nil {
		t.Fatal(res.err)
	}
	if !strings.Contains(res.stdout, "Self-loop: 3 Loop") || !strings.Contains(res.stdout, "Found 1 cycles.") {
		t.Errorf("stdout = %q", res.stdout)
	}

	file = writeCatalog(t, t.TempDir(), lampItems())
	res = runCLI(t, "", "store", "cycles", "--file", file, "--json")
	if res.err != nil || strings.TrimSpace(res.stdout) != "[]" {
		t.Errorf("json cycles = %q (%v)", res.stdout, res.err)
	}
}

func TestStoreExport(t *testing.T) {
	dir := isolate(t)
	file := writeCatalog(t, dir, lampItems())
	dbPath := filepath.Join(dir, "out", "store.db")

	res := runCLI(t, "", "store", "export", "--file", file, "--json", dbPath)
	if res.err != nil {
		t.Fatal(res.err)
	}
	var summary struct {
		Items int `json:"items"`
		Edges int `json:"edges"`
	}
	if err := json.Unmarshal([]byte(res.stdout), &summary); err != nil {
		t.Fatalf("decoding %q: %v", res.stdout, err)
	}
	if summary.Items != 2 || summary.Edges != 1 {
		t.Errorf("summary = %+v", summary)
	}
	if _, err := os.Stat(dbPath); err != nil {
		t.Errorf("database not written: %v", err)
	}
}

func TestStoreRepeatedIDKeepsFirstRecord(t *testing.T) {
	dir := isolate(t)
	items := append(lampItems(), model.Item{ID: 2, Name: "Lampshade v2", Type: "Accessory", Cost: ptr(25.0)})
	file := writeCatalog(t, dir, items)

	res := runCLI(t, "", "store", "list", "--file", file)
	if res.err != nil {
		t.Fatal(res.err)
	}
	if strings.Contains(res.stdout, "Lampshade v2") {
		t.Errorf("later record listed:\n%s", res.stdout)
	}
	if !strings.Contains(res.stdout, "Showing 2 items") {
		t.Errorf("footer should count 2 items:\n%s", res.stdout)
	}

	res = runCLI(t, "", "store", "get", "--file", file, "2")
	if res.err != nil {
		t.Fatal(res.err)
	}
	if !strings.HasPrefix(res.stdout, "Lampshade\nType: Accessory\n") {
		t.Errorf("stdout = %q", res.stdout)
	}

	dbPath := filepath.Join(dir, "dup.db")
	res = runCLI(t, "", "store", "export", "--file", file, "--json", dbPath)
	if res.err != nil {
		t.Fatalf("export with repeated id: %v", res.err)
	}
	var summary struct {
		Items int `json:"items"`
	}
	if err := json.Unmarshal([]byte(res.stdout), &summary); err != nil {
		t.Fatalf("decoding %q: %v", res.stdout, err)
	}
	if summary.Items != 2 {
		t.Errorf("exported %d items, want 2", summary.Items)
	}
}

func TestStoreSnapshotRoundTrip(t *testing.T) {
	dir := isolate(t)
	srv, _ := fakeAPI(t, map[string]string{
		"/store": `[{"id":1,"name":"Lamp","type":"Furniture","ticket_cost":{"base_cost":100},"attached_shop_item_ids":[2]},
			{"id":2,"name":"Lampshade","type":"Accessory","ticket_cost":{"base_cost":20}}]`,
	})
	cfgPath := writeConfig(t, dir, srv.URL, "k")
	snap := filepath.Join(dir, "snap", "store.json")

	res := runCLI(t, "", "--config", cfgPath, "store", "snapshot", snap)
	if res.err != nil || !strings.Contains(res.stdout, "Saved 2 items to") {
		t.Fatalf("snapshot: %v %q", res.err, res.stdout)
	}

	online := runCLI(t, "", "--config", cfgPath, "store", "list")
	offline := runCLI(t, "", "store", "list", "--file", snap)
	if online.err != nil || offline.err != nil {
		t.Fatalf("list errors: %v, %v", online.err, offline.err)
	}
	if online.stdout != offline.stdout {
		t.Errorf("snapshot listing differs:\nonline:\n%s\noffline:\n%s", online.stdout, offline.stdout)
	}
}

func TestProjectsCommands(t *testing.T) {
	dir := isolate(t)
	srv, _ := fakeAPI(t, map[string]string{
		"/projects": `{"projects":[
			{"id":1,"title":"zebra","description":"","created_at":"2025-01-01T00:00:00Z"},
			{"id":2,"title":"Apple","description":"fruit","repo_url":"https://git.example/apple","created_at":"2025-03-01T00:00:00Z"}
		]}`,
		"/projects/2": `{"id":2,"title":"Apple","description":"fruit","repo_url":"https://git.example/apple"}`,
	})
	cfgPath := writeConfig(t, dir, srv.URL, "k")

	res := runCLI(t, "", "--config", cfgPath, "projects", "list", "--sort", "title")
	if res.err != nil {
		t.Fatal(res.err)
	}
	apple := strings.Index(res.stdout, "2   Apple")
	zebra := strings.Index(res.stdout, "1   zebra")
	if apple < 0 || zebra < 0 || apple > zebra {
		t.Errorf("title order wrong:\n%s", res.stdout)
	}
	for _, want := range []string{"    No description\n", "    Repo: https://git.example/apple\n", "Showing 2 projects."} {
		if !strings.Contains(res.stdout, want) {
			t.Errorf("missing %q:\n%s", want, res.stdout)
		}
	}

	res = runCLI(t, "", "--config", cfgPath, "projects", "list")
	if strings.Index(res.stdout, "2   Apple") > strings.Index(res.stdout, "1   zebra") {
		t.Errorf("date order should put the newest first:\n%s", res.stdout)
	}

	res = runCLI(t, "", "--config", cfgPath, "projects", "list", "--sort", "stars")
	if res.err == nil {
		t.Error("expected invalid sort error")
	}

	res = runCLI(t, "", "--config", cfgPath, "projects", "get", "2")
	want := "Apple\nfruit\nRepo: https://git.example/apple\nDemo: N/A\nReadme: N/A\n"
	if res.err != nil || res.stdout != want {
		t.Errorf("projects get = %q (%v)", res.stdout, res.err)
	}
}

func TestDevlogsCommands(t *testing.T) {
	dir := isolate(t)
	long := strings.Repeat("a", 120)
	srv, _ := fakeAPI(t, map[string]string{
		"/projects/5/devlogs":   `{"devlogs":[{"id":8,"body":"` + long + `","likes_count":3,"comments_count":1}]}`,
		"/projects/5/devlogs/8": `{"id":8,"body":"Shipped it","likes_count":3,"comments_count":1,"duration_seconds":3600,"scrapbook_url":"https://scrap.example/8"}`,
		"/projects/6/devlogs":   `[]`,
	})
	cfgPath := writeConfig(t, dir, srv.URL, "k")

	res := runCLI(t, "", "--config", cfgPath, "devlogs", "list", "5")
	if res.err != nil {
		t.Fatal(res.err)
	}
	for _, want := range []string{"    " + strings.Repeat("a", 100) + "...\n", "    ❤ 3 | 💬 1\n", "Showing 1 devlogs."} {
		if !strings.Contains(res.stdout, want) {
			t.Errorf("missing %q:\n%s", want, res.stdout)
		}
	}

	res = runCLI(t, "", "--config", cfgPath, "devlogs", "list", "6")
	if strings.TrimSpace(res.stdout) != "No devlogs found for this project." {
		t.Errorf("empty devlogs = %q", res.stdout)
	}

	res = runCLI(t, "", "--config", cfgPath, "devlogs", "get", "5", "8")
	if res.err != nil {
		t.Fatal(res.err)
	}
	for _, want := range []string{"Devlog #8 - ", "Shipped it\n", "❤ 3 Likes | 💬 1 Comments\n", "Duration: 3600s\n", "URL: https://scrap.example/8\n"} {
		if !strings.Contains(res.stdout, want) {
			t.Errorf("missing %q:\n%s", want, res.stdout)
		}
	}
}

func TestTimingsFlag(t *testing.T) {
	dir := isolate(t)
	file := writeCatalog(t, dir, lampItems())

	res := runCLI(t, "", "--timings", "store", "list", "--file", file)
	if res.err != nil {
		t.Fatal(res.err)
	}
	if !strings.Contains(res.stderr, `"name": "render"`) {
		t.Errorf("stderr missing timings: %q", res.stderr)
	}
}

func TestVersionFlag(t *testing.T) {
	isolate(t)
	res := runCLI(t, "", "--version")
	if res.err != nil || !strings.HasPrefix(res.stdout, "flavortown v") {
		t.Errorf("version = %q (%v)", res.stdout, res.err)
	}
}

func TestPreview(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"line one\n\nline two", 100, "line one line two"},
		{"abcdefghij", 4, "abcd..."},
		{"日本語テキスト", 4, "日本..."},
	}
	for _, tt := range tests {
		if got := preview(tt.in, tt.n); got != tt.want {
			t.Errorf("preview(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}
