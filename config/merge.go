package config

// mergeMaps merges override into base. Nested mappings are merged key by
// key; any other value in override replaces the base value.
func mergeMaps(base, override map[string]interface{}) map[string]interface{} {
	result := make(map[string]interface{}, len(base)+len(override))
	for k, v := range base {
		result[k] = v
	}
	for k, v := range override {
		overrideMap, ok := v.(map[string]interface{})
		if !ok {
			result[k] = v
			continue
		}
		if baseMap, ok := result[k].(map[string]interface{}); ok {
			result[k] = mergeMaps(baseMap, overrideMap)
			continue
		}
		result[k] = v
	}
	return result
}
