package audio

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"math"
)

// Float32ToPCM16 converts float samples in [-1, 1] to signed 16-bit PCM,
// clamping out-of-range values instead of wrapping.
func Float32ToPCM16(samples []float32) []int16 {
	pcm := make([]int16, len(samples))
	for i, sample := range samples {
		clamped := math.Max(-1, math.Min(1, float64(sample)))
		if clamped < 0 {
			pcm[i] = int16(clamped * 0x8000)
		} else {
			pcm[i] = int16(clamped * 0x7FFF)
		}
	}
	return pcm
}

// PCM16ToFloat32 converts signed 16-bit PCM samples to floats in [-1, 1].
func PCM16ToFloat32(pcm []int16) []float32 {
	samples := make([]float32, len(pcm))
	for i, sample := range pcm {
		if sample < 0 {
			samples[i] = float32(sample) / 0x8000
		} else {
			samples[i] = float32(sample) / 0x7FFF
		}
	}
	return samples
}

// PCM16ToBytes serializes samples as little-endian bytes, the wire layout
// of linear16 audio.
func PCM16ToBytes(pcm []int16) []byte {
	buf := make([]byte, len(pcm)*2)
	for i, sample := range pcm {
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(sample))
	}
	return buf
}

// BytesToPCM16 parses little-endian linear16 bytes into samples. The byte
// count must be even.
func BytesToPCM16(buf []byte) ([]int16, error) {
	if len(buf)%2 != 0 {
		return nil, fmt.Errorf("pcm16 payload has odd length %d", len(buf))
	}

	pcm := make([]int16, len(buf)/2)
	for i := range pcm {
		pcm[i] = int16(binary.LittleEndian.Uint16(buf[i*2:]))
	}
	return pcm, nil
}

// EncodeBase64PCM16 encodes samples as standard base64 of their
// little-endian byte layout.
func EncodeBase64PCM16(pcm []int16) string {
	return base64.StdEncoding.EncodeToString(PCM16ToBytes(pcm))
}

// DecodeBase64PCM16 decodes a base64 linear16 payload into samples.
func DecodeBase64PCM16(payload string) ([]int16, error) {
	buf, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 audio payload: %w", err)
	}

	return BytesToPCM16(buf)
}

// MergePCM16 concatenates sample slices into a freshly allocated slice.
func MergePCM16(chunks ...[]int16) []int16 {
	total := 0
	for _, chunk := range chunks {
		total += len(chunk)
	}

	merged := make([]int16, 0, total)
	for _, chunk := range chunks {
		merged = append(merged, chunk...)
	}
	return merged
}
