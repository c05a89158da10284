package behaviour

// Frame is the timing information handed to behaviours each frame
type Frame struct {
	Time      float32 // seconds since the loop started
	DeltaTime float32
	Distance  float32 // current view distance, see engine.WindowState
}

// Behaviour mutates scene state once per frame, before lights are uploaded
type Behaviour interface {
	Start()
	Update(frame Frame)
}

type behaviourWrapper struct {
	behaviour Behaviour
	started   bool
}

type BehaviourManager struct {
	behaviours []behaviourWrapper
}

func NewBehaviourManager() *BehaviourManager {
	return &BehaviourManager{}
}

func (m *BehaviourManager) Add(behaviour Behaviour) {
	m.behaviours = append(m.behaviours, behaviourWrapper{behaviour: behaviour})
}

func (m *BehaviourManager) Remove(behaviour Behaviour) {
	for i := range m.behaviours {
		if m.behaviours[i].behaviour == behaviour {
			m.behaviours = append(m.behaviours[:i], m.behaviours[i+1:]...)
			return
		}
	}
}

func (m *BehaviourManager) Len() int {
	return len(m.behaviours)
}

// Clear removes all behaviours from the manager
func (m *BehaviourManager) Clear() {
	m.behaviours = m.behaviours[:0]
}

// UpdateAll starts behaviours added since the last frame, then updates every
// behaviour in insertion order.
func (m *BehaviourManager) UpdateAll(frame Frame) {
	for i := range m.behaviours {
		if !m.behaviours[i].started {
			m.behaviours[i].behaviour.Start()
			m.behaviours[i].started = true
		}
		m.behaviours[i].behaviour.Update(frame)
	}
}
