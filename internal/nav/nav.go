// Package nav maps URL fragments to post ids and back.
//
// The fragment "post-<id>" encodes the currently open post so that a reload
// or a shared link reopens it.
package nav

import "strings"

const prefix = "post-"

// ParseFragment extracts the post id from a fragment of the form
// "post-<id>", with or without the leading '#'.
func ParseFragment(fragment string) (string, bool) {
	fragment = strings.TrimPrefix(fragment, "#")
	id, ok := strings.CutPrefix(fragment, prefix)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// Fragment returns the fragment for id, or "" when no post is open.
func Fragment(id string) string {
	if id == "" {
		return ""
	}
	return prefix + id
}
