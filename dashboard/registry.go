package dashboard

import (
	"net/http"
	"strings"
)

// ParamIn says where a parameter travels on the wire.
type ParamIn string

const (
	InPath  ParamIn = "path"
	InQuery ParamIn = "query"
	InBody  ParamIn = "body"
)

// Param is one declared parameter of an operation.
type Param struct {
	Name     string
	In       ParamIn
	Required bool
}

// OpSpec declares one dashboard operation: its name, HTTP shape, and
// parameters.
type OpSpec struct {
	Name        string
	Description string
	HTTPMethod  string
	Path        string
	Params      []Param
}

// HasParameter reports whether the operation declares the named parameter.
func (s OpSpec) HasParameter(name string) bool {
	for _, p := range s.Params {
		if p.Name == name {
			return true
		}
	}
	return false
}

// SectionNames lists the exposed dashboard sections, in display order.
var SectionNames = []string{
	"organizations",
	"networks",
	"devices",
	"wireless",
	"switch",
	"appliance",
	"camera",
	"cellularGateway",
	"sensor",
	"sm",
	"insight",
	"licensing",
	"administered",
}

// pathParams extracts {placeholder} names from a path template.
func pathParams(path string) []string {
	var names []string
	rest := path
	for {
		i := strings.IndexByte(rest, '{')
		if i < 0 {
			return names
		}
		rest = rest[i+1:]
		j := strings.IndexByte(rest, '}')
		if j < 0 {
			return names
		}
		names = append(names, rest[:j])
		rest = rest[j+1:]
	}
}

// op builds an OpSpec, deriving required path parameters from the
// template and appending any extra declared parameters.
func op(httpMethod, name, path, desc string, extra ...Param) OpSpec {
	spec := OpSpec{
		Name:        name,
		Description: desc,
		HTTPMethod:  httpMethod,
		Path:        path,
	}
	for _, pn := range pathParams(path) {
		spec.Params = append(spec.Params, Param{Name: pn, In: InPath, Required: true})
	}
	spec.Params = append(spec.Params, extra...)
	return spec
}

func query(names ...string) []Param {
	out := make([]Param, len(names))
	for i, n := range names {
		out[i] = Param{Name: n, In: InQuery}
	}
	return out
}

func body(names ...string) []Param {
	out := make([]Param, len(names))
	for i, n := range names {
		out[i] = Param{Name: n, In: InBody}
	}
	return out
}

// registry is the curated operation table, grouped by section. Paths are
// v1 dashboard API routes.
var registry = map[string][]OpSpec{
	"organizations": {
		op(http.MethodGet, "getOrganizations", "/organizations",
			"List the organizations the API key can access"),
		op(http.MethodGet, "getOrganization", "/organizations/{organizationId}",
			"Return an organization"),
		op(http.MethodGet, "getOrganizationAdmins", "/organizations/{organizationId}/admins",
			"List the dashboard administrators in an organization"),
		op(http.MethodGet, "getOrganizationNetworks", "/organizations/{organizationId}/networks",
			"List the networks in an organization", query("perPage", "startingAfter", "endingBefore")...),
		op(http.MethodGet, "getOrganizationDevices", "/organizations/{organizationId}/devices",
			"List the devices in an organization", query("perPage", "startingAfter", "endingBefore", "productTypes")...),
		op(http.MethodGet, "getOrganizationDevicesStatuses", "/organizations/{organizationId}/devices/statuses",
			"List the status of every device in an organization", query("perPage", "startingAfter")...),
		op(http.MethodGet, "getOrganizationInventoryDevices", "/organizations/{organizationId}/inventory/devices",
			"List the device inventory of an organization", query("perPage", "search")...),
		op(http.MethodGet, "getOrganizationLicenses", "/organizations/{organizationId}/licenses",
			"List the licenses for an organization", query("perPage")...),
		op(http.MethodPost, "createOrganizationNetwork", "/organizations/{organizationId}/networks",
			"Create a network in an organization", body("name", "productTypes", "timeZone", "tags")...),
		op(http.MethodPut, "updateOrganization", "/organizations/{organizationId}",
			"Update an organization", body("name")...),
		op(http.MethodPost, "claimIntoOrganization", "/organizations/{organizationId}/claim",
			"Claim orders, serials, or licenses into an organization", body("orders", "serials", "licenses")...),
		op(http.MethodPost, "combineOrganizationNetworks", "/organizations/{organizationId}/networks/combine",
			"Combine multiple networks into one", body("name", "networkIds", "enrollmentString")...),
	},
	"networks": {
		op(http.MethodGet, "getNetwork", "/networks/{networkId}",
			"Return a network"),
		op(http.MethodGet, "getNetworkDevices", "/networks/{networkId}/devices",
			"List the devices in a network"),
		op(http.MethodGet, "getNetworkClients", "/networks/{networkId}/clients",
			"List the clients that have used a network", query("perPage", "startingAfter", "timespan")...),
		op(http.MethodGet, "getNetworkEvents", "/networks/{networkId}/events",
			"List the events for a network", query("perPage", "productType", "includedEventTypes")...),
		op(http.MethodPut, "updateNetwork", "/networks/{networkId}",
			"Update a network", body("name", "timeZone", "tags", "notes")...),
		op(http.MethodDelete, "deleteNetwork", "/networks/{networkId}",
			"Delete a network"),
		op(http.MethodPost, "bindNetwork", "/networks/{networkId}/bind",
			"Bind a network to a configuration template", body("configTemplateId", "autoBind")...),
		op(http.MethodPost, "unbindNetwork", "/networks/{networkId}/unbind",
			"Unbind a network from its configuration template", body("retainConfigs")...),
		op(http.MethodPost, "splitNetwork", "/networks/{networkId}/split",
			"Split a combined network into per-product networks"),
	},
	"devices": {
		op(http.MethodGet, "getDevice", "/devices/{serial}",
			"Return a device by serial"),
		op(http.MethodGet, "getDeviceClients", "/devices/{serial}/clients",
			"List the clients of a device", query("timespan")...),
		op(http.MethodGet, "getDeviceLldpCdp", "/devices/{serial}/lldpCdp",
			"Return LLDP and CDP information for a device"),
		op(http.MethodPut, "updateDevice", "/devices/{serial}",
			"Update a device's attributes", body("name", "tags", "address", "notes")...),
		op(http.MethodPost, "rebootDevice", "/devices/{serial}/reboot",
			"Reboot a device"),
		op(http.MethodPost, "blinkDeviceLeds", "/devices/{serial}/blinkLeds",
			"Blink the LEDs on a device", body("duration", "period", "duty")...),
		op(http.MethodPost, "removeNetworkDevices", "/networks/{networkId}/devices/remove",
			"Remove a device from a network", body("serial")...),
	},
	"wireless": {
		op(http.MethodGet, "getNetworkWirelessSsids", "/networks/{networkId}/wireless/ssids",
			"List the SSIDs in a wireless network"),
		op(http.MethodGet, "getNetworkWirelessSsid", "/networks/{networkId}/wireless/ssids/{number}",
			"Return a single SSID"),
		op(http.MethodGet, "getNetworkWirelessConnectionStats", "/networks/{networkId}/wireless/connectionStats",
			"Aggregated connectivity statistics for a wireless network", query("timespan", "band", "ssid")...),
		op(http.MethodPut, "updateNetworkWirelessSsid", "/networks/{networkId}/wireless/ssids/{number}",
			"Update an SSID", body("name", "enabled", "authMode", "psk")...),
	},
	"switch": {
		op(http.MethodGet, "getDeviceSwitchPorts", "/devices/{serial}/switch/ports",
			"List the switch ports of a switch"),
		op(http.MethodGet, "getDeviceSwitchPort", "/devices/{serial}/switch/ports/{portId}",
			"Return a switch port"),
		op(http.MethodGet, "getNetworkSwitchSettings", "/networks/{networkId}/switch/settings",
			"Return the switch network settings"),
		op(http.MethodPut, "updateDeviceSwitchPort", "/devices/{serial}/switch/ports/{portId}",
			"Update a switch port", body("name", "enabled", "vlan", "voiceVlan", "type", "tags",
				"poeEnabled", "allowedVlans", "isolationEnabled", "rstpEnabled", "stpGuard",
				"linkNegotiation", "accessPolicyType")...),
		op(http.MethodPost, "cycleDeviceSwitchPorts", "/devices/{serial}/switch/ports/cycle",
			"Power-cycle a set of switch ports", body("ports")...),
	},
	"appliance": {
		op(http.MethodGet, "getNetworkApplianceVlans", "/networks/{networkId}/appliance/vlans",
			"List the VLANs of an appliance network"),
		op(http.MethodGet, "getNetworkApplianceVlan", "/networks/{networkId}/appliance/vlans/{vlanId}",
			"Return a VLAN"),
		op(http.MethodGet, "getNetworkApplianceFirewallL3FirewallRules", "/networks/{networkId}/appliance/firewall/l3FirewallRules",
			"Return the L3 firewall rules of an appliance network"),
		op(http.MethodPost, "createNetworkApplianceVlan", "/networks/{networkId}/appliance/vlans",
			"Create a VLAN", body("id", "name", "subnet", "applianceIp")...),
		op(http.MethodPut, "updateNetworkApplianceVlan", "/networks/{networkId}/appliance/vlans/{vlanId}",
			"Update a VLAN", body("name", "subnet", "applianceIp")...),
		op(http.MethodDelete, "deleteNetworkApplianceVlan", "/networks/{networkId}/appliance/vlans/{vlanId}",
			"Delete a VLAN"),
		op(http.MethodPut, "updateNetworkApplianceFirewallL3FirewallRules", "/networks/{networkId}/appliance/firewall/l3FirewallRules",
			"Replace the L3 firewall rules of an appliance network", body("rules", "syslogDefaultRule")...),
	},
	"camera": {
		op(http.MethodGet, "getDeviceCameraVideoSettings", "/devices/{serial}/camera/video/settings",
			"Return the video settings of a camera"),
		op(http.MethodGet, "getNetworkCameraQualityRetentionProfiles", "/networks/{networkId}/camera/qualityRetentionProfiles",
			"List the quality retention profiles of a camera network"),
		op(http.MethodPut, "updateDeviceCameraVideoSettings", "/devices/{serial}/camera/video/settings",
			"Update the video settings of a camera", body("externalRtspEnabled")...),
		op(http.MethodPost, "generateDeviceCameraSnapshot", "/devices/{serial}/camera/generateSnapshot",
			"Generate a snapshot from a camera", body("timestamp", "fullframe")...),
	},
	"cellularGateway": {
		op(http.MethodGet, "getDeviceCellularGatewayLan", "/devices/{serial}/cellularGateway/lan",
			"Return the LAN settings of a cellular gateway"),
		op(http.MethodGet, "getNetworkCellularGatewayUplink", "/networks/{networkId}/cellularGateway/uplink",
			"Return the uplink settings of a cellular gateway network"),
		op(http.MethodPut, "updateDeviceCellularGatewayLan", "/devices/{serial}/cellularGateway/lan",
			"Update the LAN settings of a cellular gateway", body("reservedIpRanges", "fixedIpAssignments")...),
	},
	"sensor": {
		op(http.MethodGet, "getDeviceSensorRelationships", "/devices/{serial}/sensor/relationships",
			"Return the sensor roles of a device"),
		op(http.MethodGet, "getOrganizationSensorReadingsLatest", "/organizations/{organizationId}/sensor/readings/latest",
			"Latest reading of each sensor metric in an organization", query("perPage", "networkIds", "metrics")...),
	},
	"sm": {
		op(http.MethodGet, "getNetworkSmDevices", "/networks/{networkId}/sm/devices",
			"List the Systems Manager devices in a network", query("perPage", "fields")...),
		op(http.MethodGet, "getNetworkSmProfiles", "/networks/{networkId}/sm/profiles",
			"List the Systems Manager profiles of a network"),
		op(http.MethodPost, "rebootNetworkSmDevices", "/networks/{networkId}/sm/devices/reboot",
			"Reboot a set of Systems Manager devices", body("ids", "serials", "wifiMacs")...),
	},
	"insight": {
		op(http.MethodGet, "getOrganizationInsightApplications", "/organizations/{organizationId}/insight/applications",
			"List the Insight-tracked applications of an organization"),
		op(http.MethodGet, "getOrganizationInsightMonitoredMediaServers", "/organizations/{organizationId}/insight/monitoredMediaServers",
			"List the monitored media servers of an organization"),
	},
	"licensing": {
		op(http.MethodGet, "getOrganizationLicensingCotermLicenses", "/organizations/{organizationId}/licensing/coterm/licenses",
			"List the co-termination licenses of an organization", query("perPage")...),
		op(http.MethodPost, "moveOrganizationLicensingCotermLicenses", "/organizations/{organizationId}/licensing/coterm/licenses/move",
			"Move licenses to another organization", body("destination", "licenses")...),
		op(http.MethodPost, "renewOrganizationLicensesSeats", "/organizations/{organizationId}/licenses/renewSeats",
			"Renew SM seats of a license", body("licenseIdToRenew", "unusedLicenseId")...),
	},
	"administered": {
		op(http.MethodGet, "getAdministeredIdentitiesMe", "/administered/identities/me",
			"Return the identity of the calling user"),
	},
}
