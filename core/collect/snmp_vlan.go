package collect

import (
	"fmt"
	"sort"
	"strconv"
)

const oidDot1qVlanStaticName = ".1.3.6.1.2.1.17.7.1.4.3.1.1"

// walkVLANs emits one record per statically configured VLAN from the
// Q-BRIDGE static VLAN table. The site label comes from the target; VLANs
// seen on several devices of one site collapse to a single registry entry
// during diffing.
func walkVLANs(s snmpSession, target DeviceTarget, _ Options) ([]Record, error) {
	names, err := walkColumn(s, oidDot1qVlanStaticName)
	if err != nil {
		return nil, fmt.Errorf("vlan static table: %w", err)
	}

	vids := make([]int, 0, len(names))
	for vid := range names {
		vids = append(vids, vid)
	}
	sort.Ints(vids)

	records := make([]Record, 0, len(vids))
	for _, vid := range vids {
		if vid <= 0 {
			continue
		}
		rec := Record{
			KeyDevice: target.Name,
			"vid":     strconv.Itoa(vid),
		}
		setIfPresent(rec, "site", target.Site)
		setIfPresent(rec, "name", pduString(names[vid]))
		records = append(records, rec)
	}
	return records, nil
}
