package classify

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		op   string
		want Kind
	}{
		{"get prefix", "getOrganizationAdmins", KindRead},
		{"list prefix", "listNetworkEvents", KindRead},
		{"create prefix", "createNetwork", KindWrite},
		{"update prefix", "updateDeviceSwitchPort", KindWrite},
		{"delete prefix", "deleteNetwork", KindWrite},
		{"remove prefix", "removeNetworkDevices", KindWrite},
		{"claim prefix", "claimNetworkDevices", KindWrite},
		{"reboot prefix", "rebootDevice", KindWrite},
		{"assign prefix", "assignOrganizationLicensesSeats", KindWrite},
		{"move prefix", "moveOrganizationLicenses", KindWrite},
		{"renew prefix", "renewOrganizationLicensesSeats", KindWrite},
		{"clone prefix", "cloneOrganization", KindWrite},
		{"combine prefix", "combineOrganizationNetworks", KindWrite},
		{"split prefix", "splitNetwork", KindWrite},
		{"bind prefix", "bindNetwork", KindWrite},
		{"unbind prefix", "unbindNetwork", KindWrite},
		{"unmatched", "provisionNetworkClients", KindNeither},
		{"empty", "", KindNeither},
		{"case sensitive", "GetOrganizations", KindNeither},
		{"prefix mid-word does not match", "budgetReport", KindNeither},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.op); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.op, got, tt.want)
			}
		})
	}
}

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindRead, "read"},
		{KindWrite, "write"},
		{KindNeither, "neither"},
		{Kind(99), "neither"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestVocabulariesDisjoint(t *testing.T) {
	for _, r := range ReadPrefixes {
		for _, w := range WritePrefixes {
			if r == w {
				t.Errorf("prefix %q appears in both vocabularies", r)
			}
		}
	}
}
