package core

import "strconv"

// NewForInIterator snapshots the enumerable property names a for-in
// loop over o should visit: indexed entries first (for Array/
// Arguments/TypedArray/String-box kinds), then own and inherited named
// properties in prototype-walk order, each name visited at most once
// even when a descendant shadows an ancestor's property of the same
// name — grounded on ForInIterator::initWithObject/
// ForInIndexedIterator in the original's runtime.cxx.
func NewForInIterator(rt *Runtime, act *Activation, o *Object) *Object {
	iter := rt.newObject(act, nil, KindIterator)

	var keys []*StringPrim
	if n := o.getIndexedLength(); n > 0 {
		keys = make([]*StringPrim, 0, n)
		for i := uint32(0); i < n; i++ {
			if i < uint32(len(o.Elems)) && IsHole(o.Elems[i]) {
				continue
			}
			keys = append(keys, rt.InternString(act, strconv.FormatUint(uint64(i), 10)))
		}
	}

	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		seen[string(k.bytes)] = true
	}
	for cur := o; cur != nil; cur = cur.Parent {
		for p := cur.propHead; p != nil; p = p.next {
			if p.Flags&PropEnumerable == 0 {
				continue
			}
			key := string(p.Name.bytes)
			if seen[key] {
				continue
			}
			seen[key] = true
			keys = append(keys, p.Name)
		}
	}

	iter.iterKeys = keys
	return iter
}

// ForInNext advances iter, returning its next property name, or nil
// and false once exhausted.
func ForInNext(iter *Object) (*StringPrim, bool) {
	if iter.iterPos >= len(iter.iterKeys) {
		return nil, false
	}
	k := iter.iterKeys[iter.iterPos]
	iter.iterPos++
	return k, true
}
