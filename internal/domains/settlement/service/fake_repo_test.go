package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"agency-erp/internal/domains/settlement/model"
	"agency-erp/internal/domains/settlement/repository"
)

type pairKey struct {
	project, influencer uuid.UUID
}

// memRepo is an in-memory Repository. WithTransaction works on a copy of
// the rows and swaps it in only when fn succeeds.
type memRepo struct {
	mu       sync.Mutex
	rows     map[pairKey]*model.Settlement
	order    []pairKey
	dir      model.Directory
	projects map[uuid.UUID]bool

	// failUpsertOn makes Upsert fail for this influencer, after earlier
	// writes in the same transaction have already been applied.
	failUpsertOn uuid.UUID
}

var errInjected = errors.New("injected failure")

func newMemRepo() *memRepo {
	return &memRepo{
		rows:     make(map[pairKey]*model.Settlement),
		dir:      model.NewDirectory(),
		projects: make(map[uuid.UUID]bool),
	}
}

func (m *memRepo) addProject(id uuid.UUID, name string) {
	m.projects[id] = true
	m.dir.Projects[id] = model.ProjectRef{ID: id, Name: name, ClientName: "Client " + name}
}

func (m *memRepo) addInfluencer(id uuid.UUID, name string) {
	m.dir.Influencers[id] = model.InfluencerRef{ID: id, Name: name}
}

func (m *memRepo) seed(s *model.Settlement) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	k := pairKey{s.ProjectID, s.InfluencerID}
	m.rows[k] = s
	m.order = append(m.order, k)
}

// influencersOf returns the influencer set currently persisted for a project
func (m *memRepo) influencersOf(projectID uuid.UUID) map[uuid.UUID]*model.Settlement {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[uuid.UUID]*model.Settlement)
	for k, s := range m.rows {
		if k.project == projectID {
			cp := *s
			out[k.influencer] = &cp
		}
	}
	return out
}

func (m *memRepo) ProjectExists(_ context.Context, projectID uuid.UUID) (bool, error) {
	return m.projects[projectID], nil
}

func (m *memRepo) detail(s *model.Settlement) *model.SettlementDetail {
	return &model.SettlementDetail{
		Settlement: *s,
		Influencer: m.dir.Influencers[s.InfluencerID],
		Project:    m.dir.Projects[s.ProjectID],
	}
}

func (m *memRepo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*model.SettlementDetail, error) {
	return m.List(ctx, model.ListFilter{ProjectID: &projectID})
}

func (m *memRepo) List(ctx context.Context, filter model.ListFilter) ([]*model.SettlementDetail, error) {
	raw, _ := m.ListRaw(ctx, filter)
	out := make([]*model.SettlementDetail, 0, len(raw))
	for _, s := range raw {
		out = append(out, m.detail(s))
	}
	return out, nil
}

func (m *memRepo) ListRaw(_ context.Context, filter model.ListFilter) ([]*model.Settlement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Settlement
	for _, k := range m.order {
		s, ok := m.rows[k]
		if !ok {
			continue
		}
		if filter.ProjectID != nil && s.ProjectID != *filter.ProjectID {
			continue
		}
		if filter.InfluencerID != nil && s.InfluencerID != *filter.InfluencerID {
			continue
		}
		if !filter.Matches(s) {
			continue
		}
		cp := *s
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memRepo) ListDueBetween(ctx context.Context, from, to time.Time) ([]*model.SettlementDetail, error) {
	all, _ := m.List(ctx, model.ListFilter{})
	var out []*model.SettlementDetail
	for _, d := range all {
		if d.PaymentDueDate != nil && !d.PaymentDueDate.Before(from) && d.PaymentDueDate.Before(to) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *memRepo) GetByID(_ context.Context, id uuid.UUID) (*model.SettlementDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.rows {
		if s.ID == id {
			return m.detail(s), nil
		}
	}
	return nil, model.ErrSettlementNotFound
}

func (m *memRepo) UpdateStatus(_ context.Context, id uuid.UUID, status model.PaymentStatus, paymentDate *time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.rows {
		if s.ID == id {
			s.PaymentStatus = status
			s.PaymentDate = paymentDate
			return nil
		}
	}
	return model.ErrSettlementNotFound
}

func (m *memRepo) LoadDirectory(context.Context) (model.Directory, error) {
	return m.dir, nil
}

func (m *memRepo) WithTransaction(ctx context.Context, fn func(tx repository.TxRepository) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// snapshot
	work := &memTx{repo: m, rows: make(map[pairKey]*model.Settlement, len(m.rows)), order: append([]pairKey(nil), m.order...)}
	for k, s := range m.rows {
		cp := *s
		work.rows[k] = &cp
	}

	if err := fn(work); err != nil {
		return err // snapshot discarded
	}

	m.rows = work.rows
	m.order = work.order
	return nil
}

type memTx struct {
	repo  *memRepo
	rows  map[pairKey]*model.Settlement
	order []pairKey
}

func (t *memTx) FindByProject(_ context.Context, projectID uuid.UUID) ([]*model.Settlement, error) {
	var out []*model.Settlement
	for _, k := range t.order {
		if s, ok := t.rows[k]; ok && k.project == projectID {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (t *memTx) Upsert(_ context.Context, s *model.Settlement) error {
	if _, ok := t.repo.dir.Influencers[s.InfluencerID]; !ok {
		return model.ErrInfluencerNotFound
	}
	if t.repo.failUpsertOn != uuid.Nil && s.InfluencerID == t.repo.failUpsertOn {
		return errInjected
	}

	k := pairKey{s.ProjectID, s.InfluencerID}
	if existing, ok := t.rows[k]; ok {
		s.ID = existing.ID
		s.CreatedAt = existing.CreatedAt
	} else {
		if s.ID == uuid.Nil {
			s.ID = uuid.New()
		}
		s.CreatedAt = time.Now()
		t.order = append(t.order, k)
	}
	s.UpdatedAt = time.Now()
	cp := *s
	t.rows[k] = &cp
	return nil
}

func (t *memTx) Delete(_ context.Context, projectID, influencerID uuid.UUID) error {
	delete(t.rows, pairKey{projectID, influencerID})
	return nil
}

// sortedIDs helps comparing influencer sets in assertions
func sortedIDs(set map[uuid.UUID]*model.Settlement) []string {
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id.String())
	}
	sort.Strings(out)
	return out
}
