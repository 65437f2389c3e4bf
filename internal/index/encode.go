package index

import "encoding/binary"

// seqKey keeps catalog order under bolt's byte-wise key ordering.
func seqKey(seq int) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, uint64(seq))
	return k
}

func seqFromKey(k []byte) (int, bool) {
	if len(k) != 8 {
		return 0, false
	}
	return int(binary.BigEndian.Uint64(k)), true
}
