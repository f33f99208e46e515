package store

// SessionLog is the append-only record of completed focus sessions.
type SessionLog struct {
	data *AppData
}

func NewSessionLog(data *AppData) *SessionLog {
	data.Normalize()
	return &SessionLog{data: data}
}

func (l *SessionLog) Append(e SessionLogEntry) {
	l.data.Logs = append(l.data.Logs, e)
}

// All returns a copy of every entry in insertion order.
func (l *SessionLog) All() []SessionLogEntry {
	return append([]SessionLogEntry(nil), l.data.Logs...)
}

func (l *SessionLog) Len() int { return len(l.data.Logs) }
