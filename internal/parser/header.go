package parser

// ExtractHeader locates the receipt's metadata block among the known
// top-level container names. First match wins; candidates are never
// merged. The result is free-form display data with no invariants.
//
// A matching sub-mapping is flattened to string values. A matching
// scalar (some layouts put a bare date or merchant string at the top
// level) is kept under its matched key so nothing is lost.
func ExtractHeader(raw map[string]any) map[string]string {
	header := make(map[string]string)
	for _, key := range headerKeys {
		v, ok := raw[key]
		if !ok {
			continue
		}
		switch t := v.(type) {
		case map[string]any:
			for field, val := range t {
				header[field] = stringify(val)
			}
		case nil:
			// present but empty; still counts as the match
		default:
			header[key] = stringify(t)
		}
		return header
	}
	return header
}
