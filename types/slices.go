package types

// GrowSlice returns a slice of length newCap holding the contents of myslice.
// A slice already at least that long is returned unchanged.
func GrowSlice[T any](myslice []T, newCap int) (biggerSlice []T) {
	if len(myslice) >= newCap {
		return myslice
	}
	biggerSlice = make([]T, newCap)
	copy(biggerSlice, myslice)
	return
}
