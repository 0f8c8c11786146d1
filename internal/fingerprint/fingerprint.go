// Package fingerprint computes canonical string signatures of type trees.
// Two trees produce the same fingerprint exactly when they are structurally
// identical: object attribute order and union member order never affect the
// result, while literal values, optionality flags, rest types and
// dereference targets always do.
package fingerprint

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/sanity-io/codegen/internal/typenode"
)

// cacheSize bounds the identity memo. Shared subtrees within one generation
// run are the common case; eviction only costs a recomputation.
const cacheSize = 8192

// Fingerprinter computes fingerprints, memoizing by node identity so shared
// subtrees are visited once. It is not safe for concurrent use.
type Fingerprinter struct {
	cache *lru.Cache[typenode.Node, string]
}

// New creates a Fingerprinter with an empty cache.
func New() *Fingerprinter {
	cache, err := lru.New[typenode.Node, string](cacheSize)
	if err != nil {
		// Only reachable with a non-positive size constant.
		panic(err)
	}
	return &Fingerprinter{cache: cache}
}

// Fingerprint returns the canonical signature of n. The same node value
// always yields the identical string; structurally equal nodes yield equal
// strings.
func (f *Fingerprinter) Fingerprint(n typenode.Node) string {
	if n == nil {
		return "nil"
	}
	if cached, ok := f.cache.Get(n); ok {
		return cached
	}
	fp := f.compute(n)
	f.cache.Add(n, fp)
	return fp
}

func (f *Fingerprinter) compute(n typenode.Node) string {
	switch node := n.(type) {
	case *typenode.Unknown:
		return "unknown"
	case *typenode.Null:
		return "null"
	case *typenode.Boolean:
		if node.Value != nil {
			return "b:" + strconv.FormatBool(*node.Value)
		}
		return "b"
	case *typenode.Number:
		if node.Value != nil {
			return "n:" + strconv.FormatFloat(*node.Value, 'g', -1, 64)
		}
		return "n"
	case *typenode.String:
		if node.Value != nil {
			// Quoted so a string literal like "true" can never collide
			// with a boolean or number fingerprint.
			return "s:" + strconv.Quote(*node.Value)
		}
		return "s"
	case *typenode.Array:
		return "[" + f.Fingerprint(node.Of) + "]"
	case *typenode.Inline:
		// Referenced by name, never resolved: recursing through named
		// references would loop on self-referential schemas.
		return "inline(" + node.Name + ")"
	case *typenode.Union:
		members := make([]string, len(node.Of))
		for i, member := range node.Of {
			members[i] = f.Fingerprint(member)
		}
		sort.Strings(members)
		return "union(" + strings.Join(members, ",") + ")"
	case *typenode.Object:
		entries := make([]string, len(node.Attributes))
		for i, attr := range node.Attributes {
			key := attr.Key
			if attr.Optional {
				key += "?"
			}
			entries[i] = key + ":" + f.Fingerprint(attr.Value)
		}
		sort.Strings(entries)
		var b strings.Builder
		b.WriteByte('{')
		b.WriteString(strings.Join(entries, ";"))
		if node.Rest != nil {
			b.WriteString("|rest:")
			b.WriteString(f.Fingerprint(node.Rest))
		}
		if node.DereferencesTo != nil {
			b.WriteString("|ref:")
			b.WriteString(*node.DereferencesTo)
		}
		b.WriteByte('}')
		return b.String()
	default:
		// Unhandled kinds must stay visible in test output instead of
		// colliding with a known shape.
		return fmt.Sprintf("!unhandled(%T)", n)
	}
}
