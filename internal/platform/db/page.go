package db

import "math"

// Page は 0 始まりのページ番号とページサイズ
type Page struct {
	Number int
	Size   int
}

// Offset is Number*Size, saturated at MaxInt64 so drivers never see a wrapped value.
func (p Page) Offset() uint {
	if p.Number <= 0 || p.Size <= 0 {
		return 0
	}
	if uint64(p.Number) > math.MaxInt64/uint64(p.Size) {
		return math.MaxInt64
	}
	return uint(p.Number) * uint(p.Size)
}

func (p Page) Limit() uint { return uint(p.Size) }
