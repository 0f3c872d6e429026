package audio

// PCM conversion helpers. TTS backends deliver little-endian int16 PCM in
// various rates and channel layouts; the pipeline works exclusively on mono
// float32, so every provider funnels through these functions.

// Int16ToFloat32 converts little-endian int16 PCM samples to float32 in
// [-1.0, 1.0].
func Int16ToFloat32(in []int16) []float32 {
	out := make([]float32, len(in))
	for i, s := range in {
		out[i] = float32(s) / 32768.0
	}
	return out
}

// Float32ToInt16 converts float32 samples in [-1.0, 1.0] to int16 PCM.
// Out-of-range samples are clamped rather than wrapped.
func Float32ToInt16(in []float32) []int16 {
	out := make([]int16, len(in))
	for i, s := range in {
		if s > 1.0 {
			s = 1.0
		} else if s < -1.0 {
			s = -1.0
		}
		out[i] = int16(s * 32767.0)
	}
	return out
}

// BytesToInt16 reinterprets little-endian PCM bytes as int16 samples. A
// trailing odd byte is dropped.
func BytesToInt16(b []byte) []int16 {
	n := len(b) / 2
	out := make([]int16, n)
	for i := range n {
		out[i] = int16(b[2*i]) | int16(b[2*i+1])<<8
	}
	return out
}

// StereoToMono averages interleaved L+R int16 frames into mono samples.
// Uses int32 arithmetic to prevent overflow.
func StereoToMono(in []int16) []int16 {
	frames := len(in) / 2
	out := make([]int16, frames)
	for i := range frames {
		out[i] = int16((int32(in[2*i]) + int32(in[2*i+1])) / 2)
	}
	return out
}

// ResampleMono resamples mono float32 samples from srcRate to dstRate using
// linear interpolation. If the rates match (or either is non-positive), the
// input is returned unchanged.
func ResampleMono(in []float32, srcRate, dstRate int) []float32 {
	if srcRate <= 0 || dstRate <= 0 || srcRate == dstRate || len(in) == 0 {
		return in
	}
	dstSamples := int(int64(len(in)) * int64(dstRate) / int64(srcRate))
	if dstSamples == 0 {
		return nil
	}

	out := make([]float32, dstSamples)
	ratio := float64(srcRate) / float64(dstRate)

	for i := range dstSamples {
		srcPos := float64(i) * ratio
		srcIdx := int(srcPos)
		frac := float32(srcPos - float64(srcIdx))

		s0 := in[srcIdx]
		s1 := s0
		if srcIdx+1 < len(in) {
			s1 = in[srcIdx+1]
		}
		out[i] = s0*(1-frac) + s1*frac
	}
	return out
}
