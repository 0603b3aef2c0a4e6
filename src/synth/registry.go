package synth

// ----- Voice Registry ----- //

// disposeTask captures the voice whose nodes it will tear down. It must never
// re-look-up the identity: by the time the deadline passes, a fresh voice may
// legitimately be registered under the same id.
type disposeTask struct {
	deadline int64
	voice    *voice
}

// voiceRegistry enforces at-most-one live voice per note identity and owns
// the deferred-cleanup queue. Released voices leave the identity map
// immediately but stay on the render list until their dispose deadline, so
// the release tail keeps sounding.
type voiceRegistry struct {
	byID      map[string]*voice
	rendering []*voice
	tasks     []disposeTask
}

func newVoiceRegistry() *voiceRegistry {
	return &voiceRegistry{
		byID: make(map[string]*voice),
	}
}

func (r *voiceRegistry) get(id string) *voice {
	return r.byID[id]
}

func (r *voiceRegistry) put(v *voice) {
	r.byID[v.id] = v
	r.rendering = append(r.rendering, v)
}

// releaseVoice removes the id mapping and schedules disposal. The voice
// itself must already have its release ramp scheduled.
func (r *voiceRegistry) releaseVoice(v *voice, deadline int64) {
	if r.byID[v.id] == v {
		delete(r.byID, v.id)
	}
	r.tasks = append(r.tasks, disposeTask{deadline: deadline, voice: v})
}

// drain runs every dispose task whose deadline has passed. Called once per
// render cycle with the current sample position.
func (r *voiceRegistry) drain(pos int64) {
	kept := r.tasks[:0]
	for _, task := range r.tasks {
		if task.deadline > pos {
			kept = append(kept, task)
			continue
		}
		task.voice.dispose()
		for i, v := range r.rendering {
			if v == task.voice {
				r.rendering = append(r.rendering[:i], r.rendering[i+1:]...)
				break
			}
		}
	}
	r.tasks = kept
}

// liveCount is the number of voices holding a note identity (sounding and not
// yet released).
func (r *voiceRegistry) liveCount() int {
	return len(r.byID)
}
