package models

// Comparison records the differences between a source and a target index
// as nine sorted lists of relative paths. The categories are independent
// and may overlap: a rewritten file can land in ChangedSize, ChangedHash
// and ChangedTime at once, and a restricted target-only object appears in
// both Extra and RestrictedTarget.
type Comparison struct {
	Missing          []string `json:"missing"`
	Extra            []string `json:"extra"`
	RestrictedSource []string `json:"restricted_source"`
	RestrictedTarget []string `json:"restricted_target"`
	ChangedType      []string `json:"changed_type"`
	ChangedSize      []string `json:"changed_size"`
	ChangedHash      []string `json:"changed_hash"`
	ChangedLink      []string `json:"changed_link"`
	ChangedTime      []string `json:"changed_time"`
}

// Empty reports whether no category holds any path
func (c *Comparison) Empty() bool {
	return len(c.Missing) == 0 &&
		len(c.Extra) == 0 &&
		len(c.RestrictedSource) == 0 &&
		len(c.RestrictedTarget) == 0 &&
		len(c.ChangedType) == 0 &&
		len(c.ChangedSize) == 0 &&
		len(c.ChangedHash) == 0 &&
		len(c.ChangedLink) == 0 &&
		len(c.ChangedTime) == 0
}
