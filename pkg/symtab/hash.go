// Package symtab maps identifier hashes to type classifications and
// resolves typedef chains to their canonical real type.
package symtab

import (
	"hash/fnv"
	"strings"
)

// Hash returns the fixed-width key for an identifier. FNV-1a/64;
// collisions are not resolved. Classification verifies the name on a
// hash hit, so a collision can at worst misreport an unknown
// identifier, never confuse two known ones.
func Hash(name string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(name))
	return h.Sum64()
}

// SplitQualified splits a possibly ::-qualified name into its
// namespace and bare local name. Everything before the last "::"
// becomes the namespace ("::A::B" -> "A", "B"); a name without "::"
// has an empty namespace.
func SplitQualified(name string) (namespace, local string) {
	idx := strings.LastIndex(name, "::")
	if idx < 0 {
		return "", name
	}
	namespace = strings.Trim(name[:idx], ":")
	local = name[idx+2:]
	return namespace, local
}
