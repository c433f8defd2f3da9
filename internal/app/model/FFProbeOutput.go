package model

// FFProbeOutput is the subset of `ffprobe -print_format json -show_streams`
// needed to decide whether a file is already whisper.cpp-ready audio.
type FFProbeOutput struct {
	Streams []ProbeStream `json:"streams"`
}

// ProbeStream is one entry of the ffprobe streams array.
type ProbeStream struct {
	CodecType string `json:"codec_type"` // "audio", "video", "subtitle", ...
	CodecName string `json:"codec_name"` // e.g. "pcm_s16le", "aac"
	// ffprobe reports the rate as a quoted string.
	SampleRate int `json:"sample_rate,string"`
}

// IsPCM16kAudio reports whether the stream is 16-bit PCM audio sampled at 16 kHz.
func (s ProbeStream) IsPCM16kAudio() bool {
	return s.CodecType == "audio" && s.CodecName == "pcm_s16le" && s.SampleRate == 16000
}
