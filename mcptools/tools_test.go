package mcptools

import (
	"context"
	"encoding/json"
	"os"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/jonwraymond/merakiops/cache"
	"github.com/jonwraymond/merakiops/dispatch"
	"github.com/jonwraymond/merakiops/overflow"
)

// stubOp is a scriptable operation whose declared parameters double as
// its discovery description.
type stubOp struct {
	name     string
	declared []string
	required map[string]bool
	invoke   func(ctx context.Context, p map[string]any) (any, error)
	got      map[string]any
}

func (o *stubOp) Name() string { return o.name }

func (o *stubOp) HasParameter(name string) bool {
	for _, d := range o.declared {
		if d == name {
			return true
		}
	}
	return false
}

func (o *stubOp) Invoke(ctx context.Context, p map[string]any) (any, error) {
	o.got = p
	if o.invoke != nil {
		return o.invoke(ctx, p)
	}
	return map[string]any{"ok": true}, nil
}

// stubCollab implements both Collaborator and Describer over a static
// operation table.
type stubCollab struct {
	ops map[string]map[string]*stubOp
}

func newStubCollab() *stubCollab {
	return &stubCollab{ops: make(map[string]map[string]*stubOp)}
}

func (c *stubCollab) add(section string, op *stubOp) *stubOp {
	if c.ops[section] == nil {
		c.ops[section] = make(map[string]*stubOp)
	}
	c.ops[section][op.name] = op
	return op
}

func (c *stubCollab) Resolve(section, method string) (dispatch.Operation, bool) {
	op, ok := c.ops[section][method]
	if !ok {
		return nil, false
	}
	return op, true
}

func (c *stubCollab) Sections() []string {
	names := make([]string, 0, len(c.ops))
	for s := range c.ops {
		names = append(names, s)
	}
	sort.Strings(names)
	return names
}

func (c *stubCollab) Operations(section string) []dispatch.OperationInfo {
	var infos []dispatch.OperationInfo
	for _, op := range c.ops[section] {
		info, _ := c.Describe(section, op.name)
		infos = append(infos, *info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

func (c *stubCollab) Describe(section, method string) (*dispatch.OperationInfo, bool) {
	op, ok := c.ops[section][method]
	if !ok {
		return nil, false
	}
	info := &dispatch.OperationInfo{Section: section, Name: op.name, Kind: "read"}
	for _, d := range op.declared {
		info.Parameters = append(info.Parameters, dispatch.ParameterInfo{
			Name: d, Type: "string", Required: op.required[d],
		})
	}
	return info, true
}

func defaultCollab() *stubCollab {
	collab := newStubCollab()
	collab.add("organizations", &stubOp{name: "getOrganizations"})
	collab.add("organizations", &stubOp{
		name:     "getOrganizationAdmins",
		declared: []string{"organizationId"},
		required: map[string]bool{"organizationId": true},
	})
	collab.add("networks", &stubOp{
		name:     "getNetwork",
		declared: []string{"networkId"},
		required: map[string]bool{"networkId": true},
	})
	collab.add("networks", &stubOp{
		name:     "getNetworkEvents",
		declared: []string{"networkId", "productType", "perPage"},
		required: map[string]bool{"networkId": true},
	})
	collab.add("switch", &stubOp{
		name:     "updateDeviceSwitchPort",
		declared: []string{"serial", "portId", "name", "enabled"},
		required: map[string]bool{"serial": true, "portId": true},
	})
	return collab
}

type testEnv struct {
	deps   Deps
	collab *stubCollab
	store  *overflow.Store
}

func newTestEnv(t *testing.T, cfg dispatch.Config, overflowEnabled bool) *testEnv {
	t.Helper()
	collab := defaultCollab()
	storeCfg := overflow.Config{}
	if overflowEnabled {
		storeCfg = overflow.Config{Enabled: true, Root: t.TempDir(), ThresholdTokens: 10, TokenDivisor: 4}
	}
	store, err := overflow.NewStore(storeCfg)
	if err != nil {
		t.Fatalf("NewStore() = %v", err)
	}
	d := dispatch.New(collab, cache.NewMemory(cache.DefaultPolicy()), store, cfg)
	return &testEnv{
		deps: Deps{
			Dispatcher: d,
			Describer:  collab,
			ServerInfo: ServerInfo{
				ReadOnly:         cfg.ReadOnly,
				CachingEnabled:   true,
				CacheTTLSeconds:  300,
				OrgIDConfigured:  cfg.DefaultOrgID != "",
				APIKeyConfigured: true,
			},
		},
		collab: collab,
		store:  store,
	}
}

func callReq(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func textOf(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) == 0 {
		t.Fatal("result has no content")
	}
	tc, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content[0] is %T, want TextContent", res.Content[0])
	}
	return tc.Text
}

func decode(t *testing.T, res *mcp.CallToolResult) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal([]byte(textOf(t, res)), &out); err != nil {
		t.Fatalf("result is not JSON: %v\n%s", err, textOf(t, res))
	}
	return out
}

func TestCallAPI_Success(t *testing.T) {
	env := newTestEnv(t, dispatch.Config{}, false)
	handler := CallAPIHandler(env.deps)

	res, err := handler(context.Background(), callReq(map[string]any{
		"section": "organizations",
		"method":  "getOrganizations",
	}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", textOf(t, res))
	}
	if got := decode(t, res); got["ok"] != true {
		t.Errorf("data = %v, want ok=true", got)
	}
}

func TestCallAPI_MissingSection(t *testing.T) {
	env := newTestEnv(t, dispatch.Config{}, false)
	handler := CallAPIHandler(env.deps)

	res, err := handler(context.Background(), callReq(map[string]any{"method": "getOrganizations"}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected a tool error for missing section")
	}
}

func TestCallAPI_UnknownMethod(t *testing.T) {
	env := newTestEnv(t, dispatch.Config{}, false)
	handler := CallAPIHandler(env.deps)

	res, err := handler(context.Background(), callReq(map[string]any{
		"section": "organizations",
		"method":  "explodeOrganization",
	}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected a tool error for unknown method")
	}
	if !strings.Contains(textOf(t, res), "not found") {
		t.Errorf("error text = %q, want mention of not found", textOf(t, res))
	}
}

func TestCallAPI_BadParametersType(t *testing.T) {
	env := newTestEnv(t, dispatch.Config{}, false)
	handler := CallAPIHandler(env.deps)

	res, err := handler(context.Background(), callReq(map[string]any{
		"section":    "organizations",
		"method":     "getOrganizations",
		"parameters": "not-an-object",
	}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected a tool error for non-object parameters")
	}
}

func TestCallAPI_PaginationDisclosure(t *testing.T) {
	env := newTestEnv(t, dispatch.Config{MaxPageSize: 100}, false)
	handler := CallAPIHandler(env.deps)

	res, err := handler(context.Background(), callReq(map[string]any{
		"section": "networks",
		"method":  "getNetworkEvents",
		"parameters": map[string]any{
			"networkId": "N_1",
			"perPage":   float64(5000),
		},
	}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", textOf(t, res))
	}
	got := decode(t, res)
	if got["paginationLimited"] != true {
		t.Errorf("paginationLimited missing from envelope: %v", got)
	}
	if _, ok := got["data"]; !ok {
		t.Error("clamped envelope should still carry data")
	}
}

func TestListMethods_AllSections(t *testing.T) {
	env := newTestEnv(t, dispatch.Config{}, false)
	handler := ListMethodsHandler(env.deps)

	res, err := handler(context.Background(), callReq(nil))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	got := decode(t, res)
	if got["total_methods"] != float64(5) {
		t.Errorf("total_methods = %v, want 5", got["total_methods"])
	}
	sections := got["sections"].(map[string]any)
	if len(sections) != 3 {
		t.Errorf("sections = %d, want 3", len(sections))
	}
	if _, ok := got["usage"]; !ok {
		t.Error("listing should carry a usage hint")
	}
}

func TestListMethods_SectionFilter(t *testing.T) {
	env := newTestEnv(t, dispatch.Config{}, false)
	handler := ListMethodsHandler(env.deps)

	res, err := handler(context.Background(), callReq(map[string]any{"section": "networks"}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	got := decode(t, res)
	sections := got["sections"].(map[string]any)
	if len(sections) != 1 {
		t.Fatalf("sections = %v, want only networks", sections)
	}
	methods := sections["networks"].([]any)
	if len(methods) != 2 {
		t.Errorf("networks methods = %v, want 2", methods)
	}
}

func TestSearchMethods(t *testing.T) {
	env := newTestEnv(t, dispatch.Config{}, false)
	handler := SearchMethodsHandler(env.deps)

	res, err := handler(context.Background(), callReq(map[string]any{"keyword": "ADMIN"}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	got := decode(t, res)
	if got["total_matches"] != float64(1) {
		t.Errorf("total_matches = %v, want 1 (search should be case-insensitive)", got["total_matches"])
	}
	results := got["results"].(map[string]any)
	if _, ok := results["organizations"]; !ok {
		t.Errorf("results = %v, want organizations entry", results)
	}
	if _, ok := results["networks"]; ok {
		t.Error("sections without matches should be omitted")
	}
}

func TestMethodInfo(t *testing.T) {
	env := newTestEnv(t, dispatch.Config{}, false)
	handler := MethodInfoHandler(env.deps)

	res, err := handler(context.Background(), callReq(map[string]any{
		"section": "networks",
		"method":  "getNetworkEvents",
	}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	got := decode(t, res)
	if got["method"] != "getNetworkEvents" {
		t.Errorf("method = %v", got["method"])
	}
	params := got["parameters"].(map[string]any)
	networkID := params["networkId"].(map[string]any)
	if networkID["required"] != true {
		t.Error("networkId should be required")
	}
	perPage := params["perPage"].(map[string]any)
	if perPage["required"] != false {
		t.Error("perPage should be optional")
	}
	if !strings.Contains(got["usage_example"].(string), "call_meraki_api") {
		t.Errorf("usage_example = %v", got["usage_example"])
	}
}

func TestMethodInfo_UnknownSection(t *testing.T) {
	env := newTestEnv(t, dispatch.Config{}, false)
	handler := MethodInfoHandler(env.deps)

	res, err := handler(context.Background(), callReq(map[string]any{
		"section": "nonsense",
		"method":  "getThings",
	}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	got := decode(t, res)
	if _, ok := got["error"]; !ok {
		t.Fatalf("want error field, got %v", got)
	}
	if _, ok := got["available_sections"]; !ok {
		t.Error("unknown section should list valid sections")
	}
}

func TestMethodInfo_UnknownMethod(t *testing.T) {
	env := newTestEnv(t, dispatch.Config{}, false)
	handler := MethodInfoHandler(env.deps)

	res, err := handler(context.Background(), callReq(map[string]any{
		"section": "networks",
		"method":  "teleportNetwork",
	}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	got := decode(t, res)
	if !strings.Contains(got["error"].(string), "teleportNetwork") {
		t.Errorf("error = %v, want mention of the method", got["error"])
	}
}

func TestCacheStats(t *testing.T) {
	env := newTestEnv(t, dispatch.Config{ReadOnly: true}, false)
	handler := CacheStatsHandler(env.deps)

	res, err := handler(context.Background(), callReq(nil))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	got := decode(t, res)
	if got["read_only_mode"] != true {
		t.Errorf("read_only_mode = %v, want true", got["read_only_mode"])
	}
	if got["cache_enabled"] != true {
		t.Errorf("cache_enabled = %v, want true", got["cache_enabled"])
	}
	if _, ok := got["total_items"]; !ok {
		t.Error("stats should include total_items")
	}
}

func TestCacheClear(t *testing.T) {
	env := newTestEnv(t, dispatch.Config{}, false)

	// Populate the cache through a read.
	if _, err := env.deps.Dispatcher.Call(context.Background(), "organizations", "getOrganizations", nil); err != nil {
		t.Fatalf("Call() = %v", err)
	}
	if env.deps.Dispatcher.Cache().Stats().ItemCount != 1 {
		t.Fatal("expected one cached entry before clearing")
	}

	res, err := CacheClearHandler(env.deps)(context.Background(), callReq(nil))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	got := decode(t, res)
	if got["status"] != "success" {
		t.Errorf("status = %v, want success", got["status"])
	}
	if env.deps.Dispatcher.Cache().Stats().ItemCount != 0 {
		t.Error("cache should be empty after clearing")
	}
}

func TestConfigReport(t *testing.T) {
	env := newTestEnv(t, dispatch.Config{ReadOnly: true, DefaultOrgID: "123"}, false)
	handler := ConfigHandler(env.deps)

	res, err := handler(context.Background(), callReq(nil))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	got := decode(t, res)
	if got["mode"] != "hybrid" {
		t.Errorf("mode = %v, want hybrid", got["mode"])
	}
	tools := got["pre_registered_tools"].([]any)
	if len(tools) != 12 {
		t.Errorf("pre_registered_tools = %d, want 12", len(tools))
	}
	if got["read_only_mode"] != true {
		t.Error("read_only_mode should be true")
	}
	if got["organization_id_configured"] != true {
		t.Error("organization_id_configured should be true")
	}
	if got["api_key_configured"] != true {
		t.Error("api_key_configured should be true")
	}
	if got["total_available_methods"] != float64(5) {
		t.Errorf("total_available_methods = %v, want 5", got["total_available_methods"])
	}
}

func TestCachedData(t *testing.T) {
	env := newTestEnv(t, dispatch.Config{}, true)

	items := make([]any, 25)
	for i := range items {
		items[i] = map[string]any{"index": i}
	}
	preview, err := env.store.Save("networks", "getNetworkClients", map[string]any{"networkId": "N_1"}, items)
	if err != nil {
		t.Fatalf("Save() = %v", err)
	}

	res, err := CachedDataHandler(env.deps)(context.Background(), callReq(map[string]any{
		"filepath": preview.FullRecord,
		"offset":   float64(10),
		"limit":    float64(10),
	}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", textOf(t, res))
	}
	got := decode(t, res)
	if got["total_items"] != float64(25) {
		t.Errorf("total_items = %v, want 25", got["total_items"])
	}
	if got["returned_items"] != float64(10) {
		t.Errorf("returned_items = %v, want 10", got["returned_items"])
	}
	if got["has_more"] != true {
		t.Error("has_more should be true at offset 10 of 25")
	}
}

func TestCachedData_DefaultLimit(t *testing.T) {
	env := newTestEnv(t, dispatch.Config{}, true)

	items := make([]any, 25)
	for i := range items {
		items[i] = map[string]any{"index": i}
	}
	preview, err := env.store.Save("networks", "getNetworkClients", map[string]any{"networkId": "N_1"}, items)
	if err != nil {
		t.Fatalf("Save() = %v", err)
	}

	res, err := CachedDataHandler(env.deps)(context.Background(), callReq(map[string]any{
		"filepath": preview.FullRecord,
	}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", textOf(t, res))
	}
	got := decode(t, res)
	if got["returned_items"] != float64(10) {
		t.Errorf("returned_items = %v, want the page-size default of 10", got["returned_items"])
	}
	if got["limit"] != float64(10) {
		t.Errorf("limit = %v, want 10", got["limit"])
	}
}

func TestCachedData_InvalidHandle(t *testing.T) {
	env := newTestEnv(t, dispatch.Config{}, true)

	res, err := CachedDataHandler(env.deps)(context.Background(), callReq(map[string]any{
		"filepath": "../../etc/passwd",
	}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected a tool error for a handle outside the overflow root")
	}
	if !strings.Contains(textOf(t, res), "invalid filepath") {
		t.Errorf("error text = %q", textOf(t, res))
	}
}

func TestCleanup(t *testing.T) {
	env := newTestEnv(t, dispatch.Config{}, true)

	preview, err := env.store.Save("devices", "getDevice", map[string]any{"serial": "Q2XX"},
		map[string]any{"serial": "Q2XX"})
	if err != nil {
		t.Fatalf("Save() = %v", err)
	}
	old := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(preview.FullRecord, old, old); err != nil {
		t.Fatalf("Chtimes() = %v", err)
	}

	res, err := CleanupHandler(env.deps)(context.Background(), callReq(map[string]any{
		"max_age_hours": float64(24),
	}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", textOf(t, res))
	}
	got := decode(t, res)
	if got["deleted_count"] != float64(1) {
		t.Errorf("deleted_count = %v, want 1", got["deleted_count"])
	}
}

func TestCleanup_RejectsNonPositiveAge(t *testing.T) {
	env := newTestEnv(t, dispatch.Config{}, true)

	res, err := CleanupHandler(env.deps)(context.Background(), callReq(map[string]any{
		"max_age_hours": float64(-1),
	}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected a tool error for a non-positive age")
	}
}

func TestConvenience_MissingRequiredArg(t *testing.T) {
	env := newTestEnv(t, dispatch.Config{}, false)
	var spec convenienceSpec
	for _, c := range conveniences {
		if c.tool == "getNetwork" {
			spec = c
		}
	}

	res, err := convenienceHandler(env.deps, spec)(context.Background(), callReq(nil))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected a tool error for the missing networkId")
	}
	if !strings.Contains(textOf(t, res), "networkId") {
		t.Errorf("error text = %q, want mention of networkId", textOf(t, res))
	}
}

func TestConvenience_ForwardsOnlyProvidedArgs(t *testing.T) {
	env := newTestEnv(t, dispatch.Config{}, false)
	op := env.collab.ops["networks"]["getNetworkEvents"]
	var spec convenienceSpec
	for _, c := range conveniences {
		if c.tool == "getNetworkEvents" {
			spec = c
		}
	}

	res, err := convenienceHandler(env.deps, spec)(context.Background(), callReq(map[string]any{
		"networkId": "N_1",
		"perPage":   float64(50),
	}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", textOf(t, res))
	}
	if op.got["networkId"] != "N_1" {
		t.Errorf("networkId = %v, want N_1", op.got["networkId"])
	}
	if _, ok := op.got["productType"]; ok {
		t.Error("productType should not be forwarded when the caller omitted it")
	}
}

func TestConvenience_WriteRespectsReadOnly(t *testing.T) {
	env := newTestEnv(t, dispatch.Config{ReadOnly: true}, false)
	var spec convenienceSpec
	for _, c := range conveniences {
		if c.tool == "updateDeviceSwitchPort" {
			spec = c
		}
	}

	res, err := convenienceHandler(env.deps, spec)(context.Background(), callReq(map[string]any{
		"serial": "Q2XX",
		"portId": "4",
		"name":   "uplink",
	}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected a tool error in read-only mode")
	}
	if !strings.Contains(textOf(t, res), "read-only") {
		t.Errorf("error text = %q, want mention of read-only", textOf(t, res))
	}
}

func TestConvenienceToolNames(t *testing.T) {
	names := ConvenienceToolNames()
	if len(names) != 12 {
		t.Fatalf("len = %d, want 12", len(names))
	}
	if names[0] != "getOrganizations" || names[len(names)-1] != "updateDeviceSwitchPort" {
		t.Errorf("unexpected ordering: %v", names)
	}
}
