package utils

// DeepMerge merges patch into target and returns the result. When both sides
// are JSON objects the merge recurses key by key; for any other pairing the
// patch value replaces the target value wholesale. Arrays are never merged
// element-wise, and an explicit null in the patch overwrites the target.
// Target maps are mutated in place.
func DeepMerge(target, patch any) any {
	targetMap, targetOk := target.(map[string]any)
	patchMap, patchOk := patch.(map[string]any)
	if targetOk && patchOk {
		for k, patchVal := range patchMap {
			targetMap[k] = DeepMerge(targetMap[k], patchVal)
		}
		return targetMap
	}
	return patch
}
