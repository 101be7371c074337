package model

import "maps"

// NormalizeStatus rewrites the legacy "active" status to "pending" on a raw
// decoded item, before validation. Idempotent: an already-normalized item
// passes through unchanged. The on-disk value stays legacy until the item's
// next write persists the current one.
//
// This is the single schema migration; future field renames should follow
// the same normalize-on-read pattern.
func NormalizeStatus(item map[string]any) map[string]any {
	s, ok := item["status"].(string)
	if !ok || s != statusLegacyActive {
		return item
	}
	out := maps.Clone(item)
	out["status"] = string(StatusPending)
	return out
}
