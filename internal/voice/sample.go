package voice

import "math"

// SampleData holds decoded, de-interleaved PCM for one sample-bank entry.
// Channels has 1 entry for mono or 2 for stereo; Channels[c][i] is sample i
// of channel c in [-1,1].
type SampleData struct {
	Channels   [][]float32
	SampleRate float64
}

func (s *SampleData) frames() int {
	if len(s.Channels) == 0 {
		return 0
	}
	return len(s.Channels[0])
}

// SampleVoiceParams configures one sample playback.
type SampleVoiceParams struct {
	Speed      float64 // playback rate multiplier, default 1
	Gain       float64
	Pan        float64
	OrbitNum   int
	Begin, End float64 // fractional start/end within the sample, [0,1]
	Loop       bool
}

// SampleVoice plays back a decoded SampleData with linear-interpolation
// resampling, matching the teacher's offline-render resampling idiom
// generalised to real-time per-sample stepping.
type SampleVoice struct {
	data   *SampleData
	params SampleVoiceParams

	sampleRate float64
	pos        float64
	step       float64
	startFrame float64
	endFrame   float64
	done       bool
}

func NewSampleVoice(outSampleRate float64, data *SampleData, p SampleVoiceParams) *SampleVoice {
	speed := p.Speed
	if speed == 0 {
		speed = 1
	}
	begin, end := p.Begin, p.End
	if end <= begin {
		end = 1
	}
	n := float64(data.frames())
	v := &SampleVoice{
		data:       data,
		params:     p,
		sampleRate: outSampleRate,
		startFrame: begin * n,
		endFrame:   end * n,
	}
	v.pos = v.startFrame
	v.step = math.Abs(speed) * data.SampleRate / outSampleRate
	return v
}

func lerp(a, b, frac float32) float32 {
	return a + (b-a)*frac
}

func (v *SampleVoice) sampleChannel(ch int) float32 {
	i0 := int(v.pos)
	frac := float32(v.pos - float64(i0))
	ch_ := v.data.Channels[ch]
	i1 := i0 + 1
	if i1 >= len(ch_) {
		i1 = len(ch_) - 1
	}
	if i0 < 0 || i0 >= len(ch_) {
		return 0
	}
	return lerp(ch_[i0], ch_[i1], frac)
}

func (v *SampleVoice) Render() (float32, float32) {
	if v.done || len(v.data.Channels) == 0 {
		return 0, 0
	}
	var l, r float32
	if len(v.data.Channels) >= 2 {
		l = v.sampleChannel(0)
		r = v.sampleChannel(1)
	} else {
		l = v.sampleChannel(0)
		r = l
	}
	gain := v.params.Gain
	if gain == 0 {
		gain = 1
	}
	l *= float32(gain)
	r *= float32(gain)

	v.pos += v.step
	if v.pos >= v.endFrame {
		if v.params.Loop {
			v.pos = v.startFrame + (v.pos - v.endFrame)
		} else {
			v.done = true
		}
	}
	return l, r
}

func (v *SampleVoice) Playing() bool { return !v.done }
func (v *SampleVoice) NoteOff()      { v.done = true }
func (v *SampleVoice) Pan() float64  { return v.params.Pan }
func (v *SampleVoice) Orbit() int    { return v.params.OrbitNum }
