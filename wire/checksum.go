package wire

// LRC folds b into one longitudinal redundancy check byte (XOR over
// every byte).
func LRC(b []byte) byte {
	var c byte
	for _, x := range b {
		c ^= x
	}
	return c
}
