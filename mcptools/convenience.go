package mcptools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// argSpec declares one argument of a convenience tool. Optional
// arguments are forwarded only when the caller supplied them, so
// upstream defaults still apply.
type argSpec struct {
	name     string
	typ      string // "string", "number", or "boolean"
	desc     string
	required bool
}

type convenienceSpec struct {
	tool    string
	section string
	method  string
	desc    string
	args    []argSpec
}

func str(name, desc string, required bool) argSpec {
	return argSpec{name: name, typ: "string", desc: desc, required: required}
}

func num(name, desc string) argSpec {
	return argSpec{name: name, typ: "number", desc: desc}
}

func boolean(name, desc string) argSpec {
	return argSpec{name: name, typ: "boolean", desc: desc}
}

// conveniences pre-registers the most common lookups as first-class
// tools, so clients get schema-guided access without going through
// discovery first. Everything else rides call_meraki_api.
var conveniences = []convenienceSpec{
	{
		tool: "getOrganizations", section: "organizations", method: "getOrganizations",
		desc: "List the organizations the configured API key can access.",
	},
	{
		tool: "getOrganizationAdmins", section: "organizations", method: "getOrganizationAdmins",
		desc: "List the dashboard administrators in an organization.",
		args: []argSpec{str("organizationId", "Organization ID; defaults to the configured organization", false)},
	},
	{
		tool: "getOrganizationNetworks", section: "organizations", method: "getOrganizationNetworks",
		desc: "List the networks in an organization.",
		args: []argSpec{str("organizationId", "Organization ID; defaults to the configured organization", false)},
	},
	{
		tool: "getOrganizationDevices", section: "organizations", method: "getOrganizationDevices",
		desc: "List the devices in an organization.",
		args: []argSpec{str("organizationId", "Organization ID; defaults to the configured organization", false)},
	},
	{
		tool: "getNetwork", section: "networks", method: "getNetwork",
		desc: "Return a network.",
		args: []argSpec{str("networkId", "Network ID", true)},
	},
	{
		tool: "getNetworkClients", section: "networks", method: "getNetworkClients",
		desc: "List the clients that have used a network.",
		args: []argSpec{
			str("networkId", "Network ID", true),
			num("timespan", "Lookback window in seconds, default 86400"),
		},
	},
	{
		tool: "getNetworkEvents", section: "networks", method: "getNetworkEvents",
		desc: "List the events for a network.",
		args: []argSpec{
			str("networkId", "Network ID", true),
			str("productType", "Filter by product type, e.g. wireless, switch", false),
			num("perPage", "Events per page, default 100"),
		},
	},
	{
		tool: "getNetworkDevices", section: "networks", method: "getNetworkDevices",
		desc: "List the devices in a network.",
		args: []argSpec{str("networkId", "Network ID", true)},
	},
	{
		tool: "getDevice", section: "devices", method: "getDevice",
		desc: "Return a device by serial.",
		args: []argSpec{str("serial", "Device serial", true)},
	},
	{
		tool: "getNetworkWirelessSsids", section: "wireless", method: "getNetworkWirelessSsids",
		desc: "List the SSIDs in a wireless network.",
		args: []argSpec{str("networkId", "Network ID", true)},
	},
	{
		tool: "getDeviceSwitchPorts", section: "switch", method: "getDeviceSwitchPorts",
		desc: "List the switch ports of a device.",
		args: []argSpec{str("serial", "Switch serial", true)},
	},
	{
		tool: "updateDeviceSwitchPort", section: "switch", method: "updateDeviceSwitchPort",
		desc: "Update the configuration of a switch port. Blocked in read-only mode.",
		args: []argSpec{
			str("serial", "Switch serial", true),
			str("portId", "Port identifier", true),
			str("name", "Port name", false),
			str("tags", "Space-separated tags", false),
			boolean("enabled", "Whether the port is enabled"),
			boolean("poeEnabled", "Whether PoE is enabled"),
			str("type", "Port type: access or trunk", false),
			num("vlan", "Access VLAN"),
			num("voiceVlan", "Voice VLAN"),
			str("allowedVlans", "Allowed VLANs on a trunk port", false),
			boolean("isolationEnabled", "Whether port isolation is enabled"),
			boolean("rstpEnabled", "Whether RSTP is enabled"),
			str("stpGuard", "STP guard: disabled, root guard, bpdu guard, loop guard", false),
			str("linkNegotiation", "Link speed negotiation", false),
			str("accessPolicyType", "Access policy type", false),
		},
	},
}

// ConvenienceToolNames lists the pre-registered tools in registration
// order, for get_mcp_config.
func ConvenienceToolNames() []string {
	names := make([]string, len(conveniences))
	for i, c := range conveniences {
		names[i] = c.tool
	}
	return names
}

func newConvenienceTool(spec convenienceSpec) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(spec.desc)}
	for _, a := range spec.args {
		var propOpts []mcp.PropertyOption
		propOpts = append(propOpts, mcp.Description(a.desc))
		if a.required {
			propOpts = append(propOpts, mcp.Required())
		}
		switch a.typ {
		case "number":
			opts = append(opts, mcp.WithNumber(a.name, propOpts...))
		case "boolean":
			opts = append(opts, mcp.WithBoolean(a.name, propOpts...))
		default:
			opts = append(opts, mcp.WithString(a.name, propOpts...))
		}
	}
	return mcp.NewTool(spec.tool, opts...)
}

func convenienceHandler(deps Deps, spec convenienceSpec) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := req.GetArguments()
		params := map[string]any{}
		for _, a := range spec.args {
			v, ok := args[a.name]
			if !ok || v == nil {
				if a.required {
					return mcp.NewToolResultError("required argument \"" + a.name + "\" not found"), nil
				}
				continue
			}
			params[a.name] = v
		}

		result, err := deps.Dispatcher.Call(ctx, spec.section, spec.method, params)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return renderResult(result)
	}
}
