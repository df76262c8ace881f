package observe

import (
	"context"
	"errors"
	"testing"
)

func TestCallMeta_SpanName(t *testing.T) {
	tests := []struct {
		meta CallMeta
		want string
	}{
		{CallMeta{Section: "organizations", Method: "getOrganizations"}, "api.call.organizations.getOrganizations"},
		{CallMeta{Section: "devices", Method: "rebootDevice", Kind: "write"}, "api.call.devices.rebootDevice"},
	}
	for _, tt := range tests {
		if got := tt.meta.SpanName(); got != tt.want {
			t.Errorf("SpanName() = %q, want %q", got, tt.want)
		}
	}
}

func TestCallMeta_CallID(t *testing.T) {
	meta := CallMeta{Section: "networks", Method: "getNetworkClients"}
	if got, want := meta.CallID(), "networks.getNetworkClients"; got != want {
		t.Errorf("CallID() = %q, want %q", got, want)
	}
}

func TestTracer_SpanLifecycle(t *testing.T) {
	tr := NewNoopTracer()
	ctx := context.Background()

	spanCtx, span := tr.StartSpan(ctx, CallMeta{Section: "appliance", Method: "getNetworkApplianceVlans", Kind: "read"})
	if spanCtx == nil {
		t.Fatal("StartSpan() returned nil context")
	}
	if span == nil {
		t.Fatal("StartSpan() returned nil span")
	}

	// Both end paths must be safe.
	tr.EndSpan(span, nil)

	_, span2 := tr.StartSpan(ctx, CallMeta{Section: "appliance", Method: "updateNetworkApplianceVlan", Kind: "write"})
	tr.EndSpan(span2, errors.New("status 404"))
}
