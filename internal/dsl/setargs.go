// Package dsl routes the key=value arguments of create and update commands.
// Keys naming a linkable kind carry the inline relation notation
//
//	key=target1[*attribute1][,target2[*attribute2]...]
//
// which is resolved against the world database and written as edges. All
// other keys are regular fields, applied by the caller.
package dsl

import (
	"fmt"
	"strings"

	"github.com/mesh-intelligence/narrata/pkg/types"
)

// SetArg is one key=value pair from the command line.
type SetArg struct {
	Key   string
	Value string
}

func (a SetArg) String() string { return a.Key + "=" + a.Value }

// ParseSetArgs splits each raw argument on its first '='. Keys are trimmed;
// values are kept verbatim.
func ParseSetArgs(raw []string) ([]SetArg, error) {
	args := make([]SetArg, 0, len(raw))
	for _, r := range raw {
		key, value, ok := strings.Cut(r, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("%w %q: expected key=value", types.ErrInvalidSetArg, r)
		}
		args = append(args, SetArg{Key: key, Value: value})
	}
	return args, nil
}

// Partition splits args into regular pairs and pairs whose key names one of
// the definition's linkable kinds. Order within each group is preserved.
func Partition(def *types.EntityDef, args []SetArg) (regular, relation []SetArg) {
	for _, a := range args {
		if _, ok := def.Link(a.Key); ok {
			relation = append(relation, a)
		} else {
			regular = append(regular, a)
		}
	}
	return regular, relation
}

// Segment is one edge of a relation value.
type Segment struct {
	Target string
	Attr   string // empty means the relation's default
}

// ParseValue splits a relation value on commas, then each segment on its
// first '*'. Empty segments, such as a trailing comma, are skipped. A
// segment with an attribute but no target ("*leader") is an error.
func ParseValue(value string) ([]Segment, error) {
	var segs []Segment
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		target, attr, _ := strings.Cut(part, "*")
		target = strings.TrimSpace(target)
		if target == "" {
			return nil, fmt.Errorf("%w %q: missing target before '*'", types.ErrInvalidSetArg, part)
		}
		segs = append(segs, Segment{Target: target, Attr: strings.TrimSpace(attr)})
	}
	return segs, nil
}
