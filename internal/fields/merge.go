package fields

// Merge overlays remote model fields onto heuristic ones. A remote entry wins only
// when it carries a non-empty value; keys the remote map lacks keep their heuristic
// entry. remote may be nil (enrichment skipped or failed), in which case the
// heuristic map is returned unchanged as a copy.
func Merge(heuristic, remote FieldMap) FieldMap {
	out := make(FieldMap, len(heuristic)+len(remote))
	for k, v := range heuristic {
		out[k] = v
	}
	for k, v := range remote {
		if hasContent(v.Value()) {
			out[k] = v
		}
	}
	return out
}
