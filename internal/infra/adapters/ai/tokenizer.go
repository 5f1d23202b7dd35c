package ai

import (
	"bytes"
	"os"

	"github.com/pkoukk/tiktoken-go"
)

const maxEstimateBytes = 8 << 20

// EstimateTokens returns a best-effort token count for a plain-text
// document, used to warn when the configured chunk size implies a huge
// number of chunks. Binary formats (the service extracts text from those
// itself) and oversized files report ok=false.
func EstimateTokens(path string) (n int, ok bool) {
	info, err := os.Stat(path)
	if err != nil || info.Size() > maxEstimateBytes {
		return 0, false
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}
	if bytes.IndexByte(b[:min(len(b), 8192)], 0) >= 0 {
		return 0, false
	}
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return 0, false
	}
	return len(enc.Encode(string(b), nil, nil)), true
}
