package rom

// MakePatch produces an IPS patch turning old into new. Bytes past the end of
// old always count as changed. Records are split at the 16-bit size limit.
func MakePatch(old []byte, new []byte) []byte {
	type record struct{ start, size int }

	differs := func(i int) bool {
		return i >= len(old) || old[i] != new[i]
	}

	records := make([]record, 0, 64)
	for start := 0; start < len(new); {
		if !differs(start) {
			start++
			continue
		}
		end := start
		for end < len(new) && differs(end) && end-start < 0xFFFF {
			end++
		}
		records = append(records, record{start, end - start})
		start = end
	}

	patch := make([]byte, 0, 8)
	patch = append(patch, "PATCH"...)
	for _, rc := range records {
		patch = append(patch,
			byte(rc.start>>16), byte(rc.start>>8), byte(rc.start),
			byte(rc.size>>8), byte(rc.size),
		)
		patch = append(patch, new[rc.start:rc.start+rc.size]...)
	}
	patch = append(patch, "EOF"...)
	return patch
}
