package normalize

import (
	"regexp"
)

var (
	arrayFragment   = regexp.MustCompile(`\[\s*\{[\s\S]*?\}\s*\]`)
	summaryFragment = regexp.MustCompile(`\{[^{}]*"totalLeadsContacted"[^{}]*\}`)
)

// salvage pulls a daily array and a summary object out of a non-JSON body and
// recombines them into the two-element array shape.
func salvage(body []byte) (any, error) {
	arrText := arrayFragment.Find(body)
	objText := summaryFragment.Find(body)
	if arrText == nil || objText == nil {
		return nil, ErrNotJSON
	}

	arr, err := decode(arrText)
	if err != nil {
		return nil, ErrNotJSON
	}
	obj, err := decode(objText)
	if err != nil {
		return nil, ErrNotJSON
	}
	return []any{arr, obj}, nil
}
