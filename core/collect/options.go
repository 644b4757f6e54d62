package collect

import "fabric-sync/core/utils"

// Options carries per-step collector tuning, e.g. an alternate SNMP
// community or a narrowed interface set. Keys a collector does not know are
// ignored.
type Options map[string]string

// String returns the option value or def when unset.
func (o Options) String(key, def string) string {
	if v, ok := o[key]; ok && v != "" {
		return v
	}
	return def
}

// Int returns the option parsed as an integer or def when unset.
func (o Options) Int(key string, def int) int {
	if v, ok := o[key]; ok && v != "" {
		return utils.ToInt(v)
	}
	return def
}
