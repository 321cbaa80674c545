package client

// MergeProps layers a partial response's props over the previous page
// state. The merge is a shallow key-wise overwrite: keys present in
// partial replace their previous value, every other key is untouched.
// Neither input is modified.
func MergeProps(prev, partial map[string]interface{}) map[string]interface{} {
	merged := make(map[string]interface{}, len(prev)+len(partial))
	for k, v := range prev {
		merged[k] = v
	}
	for k, v := range partial {
		merged[k] = v
	}
	return merged
}
