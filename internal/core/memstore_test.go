package core

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// memStore is an in-memory Store for pipeline and service tests.
type memStore struct {
	mu          sync.Mutex
	nextID      int64
	classrooms  map[string]Classroom
	inspectors  map[string]Inspector
	inspections map[int64]Inspection

	// failOn makes UpsertInspection fail for inspections of this classroom.
	failOn string
	failErr error
}

type inspectionKey struct {
	classroom, inspector int64
	date                 string
}

func newMemStore() *memStore {
	return &memStore{
		classrooms:  make(map[string]Classroom),
		inspectors:  make(map[string]Inspector),
		inspections: make(map[int64]Inspection),
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) UpsertClassroom(_ context.Context, name string) (Classroom, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.classrooms[name]; ok {
		return c, nil
	}
	c := Classroom{ID: m.id(), Name: name}
	m.classrooms[name] = c
	return c, nil
}

func (m *memStore) UpsertInspector(_ context.Context, name string) (Inspector, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i, ok := m.inspectors[name]; ok {
		return i, nil
	}
	i := Inspector{ID: m.id(), Name: name}
	m.inspectors[name] = i
	return i, nil
}

func (m *memStore) classroomName(id int64) string {
	for _, c := range m.classrooms {
		if c.ID == id {
			return c.Name
		}
	}
	return ""
}

func (m *memStore) findKey(k inspectionKey) (Inspection, bool) {
	for _, ins := range m.inspections {
		if ins.ClassroomID == k.classroom && ins.InspectorID == k.inspector &&
			ins.InspectionDate.Format(time.DateOnly) == k.date {
			return ins, true
		}
	}
	return Inspection{}, false
}

func fromInput(id int64, in InspectionInput, created time.Time) Inspection {
	return Inspection{
		ID:                id,
		InspectionDate:    in.InspectionDate,
		ClassroomID:       in.ClassroomID,
		InspectorID:       in.InspectorID,
		ProjectorStatus:   in.ProjectorStatus,
		DustFilterStatus:  in.DustFilterStatus,
		SpeakerStatus:     in.SpeakerStatus,
		HDMIStatus:        in.HDMIStatus,
		ChargerStatus:     in.ChargerStatus,
		ProjectorComment:  in.ProjectorComment,
		LampHours:         in.LampHours,
		LampLifeRemaining: in.LampLifeRemaining,
		SpeakerComment:    in.SpeakerComment,
		HDMIComment:       in.HDMIComment,
		ChargerComment:    in.ChargerComment,
		GeneralComment:    in.GeneralComment,
		CreatedAt:         created,
	}
}

func (m *memStore) UpsertInspection(_ context.Context, in InspectionInput) (UpsertResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failOn != "" && m.classroomName(in.ClassroomID) == m.failOn {
		return UpsertResult{}, m.failErr
	}

	k := inspectionKey{in.ClassroomID, in.InspectorID, in.InspectionDate.Format(time.DateOnly)}
	if cur, ok := m.findKey(k); ok {
		upd := fromInput(cur.ID, in, cur.CreatedAt)
		m.inspections[cur.ID] = upd
		return UpsertResult{Inspection: upd, Inserted: false}, nil
	}
	ins := fromInput(m.id(), in, time.Now())
	m.inspections[ins.ID] = ins
	return UpsertResult{Inspection: ins, Inserted: true}, nil
}

func (m *memStore) Ping(context.Context) error { return nil }
func (m *memStore) Close()                     {}

func (m *memStore) ListClassrooms(context.Context) ([]Classroom, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Classroom, 0, len(m.classrooms))
	for _, c := range m.classrooms {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memStore) ListInspectors(context.Context) ([]Inspector, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Inspector, 0, len(m.inspectors))
	for _, i := range m.inspectors {
		out = append(out, i)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memStore) detail(ins Inspection) InspectionDetail {
	d := InspectionDetail{Inspection: ins}
	for _, c := range m.classrooms {
		if c.ID == ins.ClassroomID {
			d.Classroom = c
		}
	}
	for _, i := range m.inspectors {
		if i.ID == ins.InspectorID {
			d.Inspector = i
		}
	}
	return d
}

func (m *memStore) match(f InspectionFilter) []InspectionDetail {
	var out []InspectionDetail
	for _, ins := range m.inspections {
		if f.ClassroomID != 0 && ins.ClassroomID != f.ClassroomID {
			continue
		}
		if f.InspectorID != 0 && ins.InspectorID != f.InspectorID {
			continue
		}
		if f.From != nil && ins.InspectionDate.Before(*f.From) {
			continue
		}
		if f.To != nil && ins.InspectionDate.After(*f.To) {
			continue
		}
		if f.Status != "" {
			found := false
			for _, s := range ins.Statuses() {
				if s == f.Status {
					found = true
				}
			}
			if !found {
				continue
			}
		}
		d := m.detail(ins)
		if f.Search != "" {
			q := strings.ToLower(f.Search)
			if !strings.Contains(strings.ToLower(d.Classroom.Name), q) &&
				!strings.Contains(strings.ToLower(d.Inspector.Name), q) {
				continue
			}
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		if f.SortDesc {
			return out[i].InspectionDate.After(out[j].InspectionDate)
		}
		return out[i].InspectionDate.Before(out[j].InspectionDate)
	})
	return out
}

func (m *memStore) CountInspections(_ context.Context, f InspectionFilter) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.match(f))), nil
}

func (m *memStore) ListInspections(_ context.Context, f InspectionFilter) ([]InspectionDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.match(f)
	if f.Offset > 0 {
		if f.Offset >= len(out) {
			return nil, nil
		}
		out = out[f.Offset:]
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (m *memStore) GetInspection(_ context.Context, id int64) (InspectionDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ins, ok := m.inspections[id]
	if !ok {
		return InspectionDetail{}, ErrNotFound
	}
	return m.detail(ins), nil
}

func (m *memStore) LatestInspection(_ context.Context, classroomID int64) (InspectionDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.match(InspectionFilter{ClassroomID: classroomID, SortDesc: true})
	if len(out) == 0 {
		return InspectionDetail{}, ErrNotFound
	}
	return out[0], nil
}

func (m *memStore) CreateInspection(_ context.Context, in InspectionInput) (Inspection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := inspectionKey{in.ClassroomID, in.InspectorID, in.InspectionDate.Format(time.DateOnly)}
	if _, ok := m.findKey(k); ok {
		return Inspection{}, ErrDuplicate
	}
	ins := fromInput(m.id(), in, time.Now())
	m.inspections[ins.ID] = ins
	return ins, nil
}

func (m *memStore) UpdateInspection(_ context.Context, id int64, in InspectionInput) (Inspection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.inspections[id]
	if !ok {
		return Inspection{}, ErrNotFound
	}
	k := inspectionKey{in.ClassroomID, in.InspectorID, in.InspectionDate.Format(time.DateOnly)}
	if other, ok := m.findKey(k); ok && other.ID != id {
		return Inspection{}, ErrDuplicate
	}
	upd := fromInput(id, in, cur.CreatedAt)
	m.inspections[id] = upd
	return upd, nil
}
