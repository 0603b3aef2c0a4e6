package synth

// ----- Feedback Delay ----- //

const maxDelaySeconds = 5.0

// feedbackDelay is a ring-buffer delay line with a feedback loop and a wet
// tap. The dry signal always passes through; the wet gain switches the
// delayed contribution in and out. Delay time and feedback are smoothed
// params so live edits do not produce discontinuities.
type feedbackDelay struct {
	past     []float64
	cursor   int
	time     *automatedParam // sec
	feedback *automatedParam
	wet      *automatedParam
}

func newFeedbackDelay(time float64, feedback float64) *feedbackDelay {
	return &feedbackDelay{
		past:     make([]float64, int(float64(sampleRate)*maxDelaySeconds)+1),
		time:     newParam(time),
		feedback: newParam(feedback),
		wet:      newParam(0),
	}
}

func (d *feedbackDelay) step(in float64, pos int64) float64 {
	t := clampFloat(d.time.tick(pos), 0, maxDelaySeconds)
	fb := clampFloat(d.feedback.tick(pos), 0, 0.98)
	wet := d.wet.tick(pos)

	offset := int(t * float64(sampleRate))
	if offset < 1 {
		offset = 1
	}
	read := d.cursor - offset
	if read < 0 {
		read += len(d.past)
	}
	delayed := d.past[read]
	d.past[d.cursor] = in + delayed*fb
	d.cursor++
	if d.cursor >= len(d.past) {
		d.cursor = 0
	}
	return in + delayed*wet
}
