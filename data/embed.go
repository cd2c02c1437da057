package data

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed canned/area-list.json
var cannedAreaList []byte

//go:embed canned/forums.json
var cannedForumFavorites []byte

// AreaLists returns the canned area lists with visited cut to visitedLimit and
// popular cut to popularLimit entries. The featured list is never sent.
func AreaLists(visitedLimit, popularLimit int) (map[string]json.RawMessage, error) {
	lists := map[string]json.RawMessage{}
	if err := json.Unmarshal(cannedAreaList, &lists); err != nil {
		return nil, fmt.Errorf("canned area list: %w", err)
	}
	delete(lists, "featured")

	for key, limit := range map[string]int{"visited": visitedLimit, "popular": popularLimit} {
		var entries []json.RawMessage
		if err := json.Unmarshal(lists[key], &entries); err != nil {
			return nil, fmt.Errorf("canned area list %s: %w", key, err)
		}
		if entries == nil {
			entries = []json.RawMessage{}
		}
		if limit >= 0 && len(entries) > limit {
			entries = entries[:limit]
		}
		cut, err := json.Marshal(entries)
		if err != nil {
			return nil, err
		}
		lists[key] = cut
	}
	return lists, nil
}

// ForumFavorites returns the canned favorite forums document
func ForumFavorites() json.RawMessage {
	return json.RawMessage(cannedForumFavorites)
}
