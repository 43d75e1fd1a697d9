package domain

import "strings"

// Resource type identifiers. ResourceTypeOther is a UI sentinel standing in
// for one custom value; it never crosses the API boundary when a custom value
// was supplied.
const (
	ResourceTypeCollaboration = "collaboration"
	ResourceTypeExpertise     = "expertise"
	ResourceTypeMentorship    = "mentorship"
	ResourceTypeGrants        = "grants"
	ResourceTypeEquipment     = "equipment"
	ResourceTypeData          = "data"
	ResourceTypeOther         = "other"
)

// StandardResourceTypes is the fixed set of known resource types.
var StandardResourceTypes = []string{
	ResourceTypeCollaboration,
	ResourceTypeExpertise,
	ResourceTypeMentorship,
	ResourceTypeGrants,
	ResourceTypeEquipment,
	ResourceTypeData,
}

// ResourceTypeOptions is StandardResourceTypes followed by the "other" sentinel.
var ResourceTypeOptions = append(append([]string{}, StandardResourceTypes...), ResourceTypeOther)

// IsStandardResourceType reports whether value is in the standard set,
// ignoring case.
func IsStandardResourceType(value string) bool {
	lower := strings.ToLower(value)
	for _, t := range StandardResourceTypes {
		if t == lower {
			return true
		}
	}
	return false
}

// SplitResourceTypes splits a wire value on ", " when present, else on ",",
// trims every part and drops parts of length <= 1.
func SplitResourceTypes(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var parts []string
	switch {
	case strings.Contains(raw, ", "):
		parts = strings.Split(raw, ", ")
	case strings.Contains(raw, ","):
		parts = strings.Split(raw, ",")
	default:
		parts = []string{raw}
	}
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if len(part) <= 1 {
			continue
		}
		out = append(out, part)
	}
	return out
}

// DecodeResourceTypes turns a comma-joined wire value into the list the UI
// edits. Standard types come back in their canonical lower case, once each.
// Non-standard values collapse into the "other" sentinel and only the first
// of them is returned as custom; any further custom values are lost.
func DecodeResourceTypes(raw string) (types []string, custom string) {
	parts := SplitResourceTypes(raw)
	var customs []string
	for _, part := range parts {
		if IsStandardResourceType(part) {
			canonical := strings.ToLower(part)
			if !containsString(types, canonical) {
				types = append(types, canonical)
			}
			continue
		}
		customs = append(customs, part)
	}
	if len(customs) > 0 {
		types = append(types, ResourceTypeOther)
		custom = customs[0]
	}
	return types, custom
}

// EncodeResourceTypes joins the UI list into the wire value, substituting the
// custom value for the "other" sentinel when one was supplied.
func EncodeResourceTypes(types []string, custom string) string {
	out := make([]string, len(types))
	copy(out, types)
	custom = strings.TrimSpace(custom)
	if custom != "" {
		for i, t := range out {
			if t == ResourceTypeOther {
				out[i] = custom
				break
			}
		}
	}
	return strings.Join(out, ", ")
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
