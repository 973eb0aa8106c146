package kv

import (
	"github.com/DataDog/zstd"
)

func compress(data []byte) ([]byte, error) {
	return zstd.Compress(nil, data)
}

func decompress(compressed []byte) ([]byte, error) {
	return zstd.Decompress(nil, compressed)
}
