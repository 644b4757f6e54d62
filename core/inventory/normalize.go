package inventory

import (
	"sort"
	"strings"
)

// interfacePrefixes maps lowercase vendor short forms to canonical long
// forms. The whole leading alphabetic run is matched exactly, so the short
// "te" form never shadows the longer "tengige".
var interfacePrefixes = map[string]string{
	"hundredgigabitethernet": "HundredGigE",
	"hundredgige":            "HundredGigE",
	"hu":                     "HundredGigE",
	"fortygigabitethernet":   "FortyGigE",
	"fortygige":              "FortyGigE",
	"fo":                     "FortyGigE",
	"twentyfivegige":         "TwentyFiveGigE",
	"twe":                    "TwentyFiveGigE",
	"tengigabitethernet":     "TenGigabitEthernet",
	"tengige":                "TenGigabitEthernet",
	"te":                     "TenGigabitEthernet",
	"gigabitethernet":        "GigabitEthernet",
	"gige":                   "GigabitEthernet",
	"gi":                     "GigabitEthernet",
	"ge":                     "GigabitEthernet",
	"fastethernet":           "FastEthernet",
	"fa":                     "FastEthernet",
	"ethernet":               "Ethernet",
	"eth":                    "Ethernet",
	"et":                     "Ethernet",
	"port-channel":           "Port-channel",
	"portchannel":            "Port-channel",
	"po":                     "Port-channel",
	"loopback":               "Loopback",
	"lo":                     "Loopback",
	"vlan":                   "Vlan",
	"vl":                     "Vlan",
	"management":             "Management",
	"mgmt":                   "Management",
	"ma":                     "Management",
	"tunnel":                 "Tunnel",
	"tu":                     "Tunnel",
	"serial":                 "Serial",
	"se":                     "Serial",
}

// NormalizeInterfaceName expands vendor interface abbreviations to their
// canonical long form: "Gi0/1" becomes "GigabitEthernet0/1", "Po10" becomes
// "Port-channel10". Names with no known prefix are returned trimmed but
// otherwise unchanged.
func NormalizeInterfaceName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}

	// Split the leading alphabetic part (including '-') from the numeric rest.
	split := len(name)
	for i, r := range name {
		if (r >= '0' && r <= '9') || r == '/' || r == '.' || r == ':' {
			split = i
			break
		}
	}
	prefix := name[:split]
	rest := name[split:]

	canonical, ok := interfacePrefixes[strings.ToLower(prefix)]
	if !ok {
		return name
	}
	return canonical + rest
}

// NormalizeMAC canonicalizes a MAC address to lower-case colon-separated
// octets. It accepts colon, dash, and Cisco dotted formats as well as bare
// hex. Returns "" when the input is not a 48-bit MAC.
func NormalizeMAC(mac string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9':
			return r
		case r >= 'a' && r <= 'f':
			return r
		case r >= 'A' && r <= 'F':
			return r + ('a' - 'A')
		case r == ':' || r == '-' || r == '.':
			return -1
		default:
			return 'x'
		}
	}, strings.TrimSpace(mac))

	if len(cleaned) != 12 || strings.ContainsRune(cleaned, 'x') {
		return ""
	}

	var b strings.Builder
	for i := 0; i < 12; i += 2 {
		if i > 0 {
			b.WriteByte(':')
		}
		b.WriteString(cleaned[i : i+2])
	}
	return b.String()
}

// Slugify converts a free-form label into its comparison slug: lower case,
// spaces and underscores replaced with hyphens, repeated hyphens collapsed.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer(" ", "-", "_", "-").Replace(s)
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	return strings.Trim(s, "-")
}

// NormalizeMode canonicalizes the switchport mode vocabulary. Vendors say
// "trunk" where the registry says "tagged".
func NormalizeMode(mode string) string {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "access":
		return "access"
	case "trunk", "tagged":
		return "tagged"
	case "trunk-all", "tagged-all":
		return "tagged-all"
	case "":
		return ""
	default:
		return strings.ToLower(strings.TrimSpace(mode))
	}
}

// SortedVLANs returns a sorted copy of a tagged VLAN set, for
// order-insensitive comparison and stable payloads.
func SortedVLANs(vids []int) []int {
	if len(vids) == 0 {
		return nil
	}
	out := make([]int, len(vids))
	copy(out, vids)
	sort.Ints(out)
	return out
}
