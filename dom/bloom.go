package dom

// classBloom is a 64-bit over-approximating summary of an element's class
// set. It may report classes the element does not have, never the
// reverse, so it can only be used to reject candidates before an exact
// comparison.
type classBloom uint64

// bloomHash is FNV-1a over the class name.
func bloomHash(s string) uint64 {
	const (
		offset64 = 14695981039346656037
		prime64  = 1099511628211
	)
	h := uint64(offset64)
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= prime64
	}
	return h
}

// add sets the two bits derived from the class name.
func (b classBloom) add(class string) classBloom {
	h := bloomHash(class)
	return b | 1<<(h&63) | 1<<((h>>8)&63)
}

// mayContain reports whether the class could be in the summarized set.
func (b classBloom) mayContain(class string) bool {
	h := bloomHash(class)
	mask := classBloom(1<<(h&63) | 1<<((h>>8)&63))
	return b&mask == mask
}

// makeClassBloom summarizes a class list.
func makeClassBloom(classes []string) classBloom {
	var b classBloom
	for _, c := range classes {
		b = b.add(c)
	}
	return b
}
