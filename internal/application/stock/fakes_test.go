package stock

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/resto/backend/internal/domain/catalog"
	"github.com/resto/backend/internal/domain/shared"
	"github.com/resto/backend/internal/domain/stock"
)

// In-memory repositories backing the service tests. The scenario tests chain
// receive, assign and consume calls and assert the derived state after each,
// which needs stateful fakes rather than per-call expectations.

type memMaterialRepo struct {
	mu        sync.Mutex
	materials map[uuid.UUID]*catalog.RawMaterial
}

func newMemMaterialRepo() *memMaterialRepo {
	return &memMaterialRepo{materials: make(map[uuid.UUID]*catalog.RawMaterial)}
}

func (r *memMaterialRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.RawMaterial, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.materials[id]; ok {
		copied := *m
		return &copied, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memMaterialRepo) FindActiveByID(ctx context.Context, id uuid.UUID) (*catalog.RawMaterial, error) {
	m, err := r.FindByID(ctx, id)
	if err != nil || !m.IsActive {
		return nil, shared.ErrNotFound
	}
	return m, nil
}

func (r *memMaterialRepo) FindAllActive(_ context.Context) ([]catalog.RawMaterial, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]catalog.RawMaterial, 0, len(r.materials))
	for _, m := range r.materials {
		if m.IsActive {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *memMaterialRepo) Save(_ context.Context, material *catalog.RawMaterial) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *material
	r.materials[material.ID] = &copied
	return nil
}

type memSectionRepo struct {
	mu       sync.Mutex
	sections map[uuid.UUID]*catalog.Section
}

func newMemSectionRepo() *memSectionRepo {
	return &memSectionRepo{sections: make(map[uuid.UUID]*catalog.Section)}
}

func (r *memSectionRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Section, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sections[id]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memSectionRepo) FindActiveByID(ctx context.Context, id uuid.UUID) (*catalog.Section, error) {
	s, err := r.FindByID(ctx, id)
	if err != nil || !s.IsActive {
		return nil, shared.ErrNotFound
	}
	return s, nil
}

func (r *memSectionRepo) FindAllActive(_ context.Context) ([]catalog.Section, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]catalog.Section, 0, len(r.sections))
	for _, s := range r.sections {
		if s.IsActive {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *memSectionRepo) Save(_ context.Context, section *catalog.Section) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *section
	r.sections[section.ID] = &copied
	return nil
}

type memEntryRepo struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*stock.StockEntry
}

func newMemEntryRepo() *memEntryRepo {
	return &memEntryRepo{entries: make(map[uuid.UUID]*stock.StockEntry)}
}

func (r *memEntryRepo) FindByID(_ context.Context, id uuid.UUID) (*stock.StockEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[id]; ok {
		copied := *e
		return &copied, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memEntryRepo) FindByMaterial(ctx context.Context, materialID uuid.UUID, _ shared.Filter) ([]stock.StockEntry, error) {
	return r.FindAllByMaterial(ctx, materialID)
}

func (r *memEntryRepo) FindAllByMaterial(_ context.Context, materialID uuid.UUID) ([]stock.StockEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]stock.StockEntry, 0)
	for _, e := range r.entries {
		if e.RawMaterialID == materialID {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ReceivedDate.Before(out[j].ReceivedDate) })
	return out, nil
}

func (r *memEntryRepo) FindAll(_ context.Context, _ shared.Filter) ([]stock.StockEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]stock.StockEntry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, *e)
	}
	return out, nil
}

func (r *memEntryRepo) FindExpiringBefore(_ context.Context, cutoff time.Time, _ shared.Filter) ([]stock.StockEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]stock.StockEntry, 0)
	for _, e := range r.entries {
		if e.ExpiryDate != nil && e.ExpiryDate.Before(cutoff) {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (r *memEntryRepo) Create(_ context.Context, entry *stock.StockEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *entry
	r.entries[entry.ID] = &copied
	return nil
}

func (r *memEntryRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, id)
	return nil
}

func (r *memEntryRepo) CountByMaterial(ctx context.Context, materialID uuid.UUID) (int64, error) {
	entries, _ := r.FindAllByMaterial(ctx, materialID)
	return int64(len(entries)), nil
}

type memMovementRepo struct {
	mu        sync.Mutex
	movements []stock.StockMovement
}

func newMemMovementRepo() *memMovementRepo {
	return &memMovementRepo{}
}

func (r *memMovementRepo) FindByID(_ context.Context, id uuid.UUID) (*stock.StockMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.movements {
		if r.movements[i].ID == id {
			copied := r.movements[i]
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memMovementRepo) FindByMaterial(ctx context.Context, materialID uuid.UUID, _ shared.Filter) ([]stock.StockMovement, error) {
	return r.FindAllByMaterial(ctx, materialID)
}

func (r *memMovementRepo) FindAllByMaterial(_ context.Context, materialID uuid.UUID) ([]stock.StockMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]stock.StockMovement, 0)
	for i := range r.movements {
		if r.movements[i].RawMaterialID == materialID {
			out = append(out, r.movements[i])
		}
	}
	return out, nil
}

func (r *memMovementRepo) FindByEntry(_ context.Context, entryID uuid.UUID) ([]stock.StockMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]stock.StockMovement, 0)
	for i := range r.movements {
		if r.movements[i].StockEntryID == entryID {
			out = append(out, r.movements[i])
		}
	}
	return out, nil
}

func (r *memMovementRepo) FindByReference(_ context.Context, referenceID string) ([]stock.StockMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]stock.StockMovement, 0)
	for i := range r.movements {
		if r.movements[i].ReferenceID == referenceID {
			out = append(out, r.movements[i])
		}
	}
	return out, nil
}

func (r *memMovementRepo) FindByDateRange(_ context.Context, start, end time.Time, _ shared.Filter) ([]stock.StockMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]stock.StockMovement, 0)
	for i := range r.movements {
		d := r.movements[i].MovementDate
		if !d.Before(start) && !d.After(end) {
			out = append(out, r.movements[i])
		}
	}
	return out, nil
}

func (r *memMovementRepo) Create(_ context.Context, movement *stock.StockMovement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.movements = append(r.movements, *movement)
	return nil
}

func (r *memMovementRepo) CreateBatch(ctx context.Context, movements []*stock.StockMovement) error {
	for _, m := range movements {
		if err := r.Create(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

func (r *memMovementRepo) CountByMaterial(ctx context.Context, materialID uuid.UUID) (int64, error) {
	movements, _ := r.FindAllByMaterial(ctx, materialID)
	return int64(len(movements)), nil
}

type memSectionInvRepo struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*stock.SectionInventory
}

func newMemSectionInvRepo() *memSectionInvRepo {
	return &memSectionInvRepo{rows: make(map[uuid.UUID]*stock.SectionInventory)}
}

func (r *memSectionInvRepo) FindByID(_ context.Context, id uuid.UUID) (*stock.SectionInventory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if row, ok := r.rows[id]; ok {
		copied := *row
		return &copied, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memSectionInvRepo) FindBySectionAndMaterial(_ context.Context, sectionID, materialID uuid.UUID) (*stock.SectionInventory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.SectionID == sectionID && row.RawMaterialID == materialID {
			copied := *row
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memSectionInvRepo) FindBySectionAndMaterialForUpdate(ctx context.Context, sectionID, materialID uuid.UUID) (*stock.SectionInventory, error) {
	return r.FindBySectionAndMaterial(ctx, sectionID, materialID)
}

func (r *memSectionInvRepo) FindBySection(_ context.Context, sectionID uuid.UUID, _ shared.Filter) ([]stock.SectionInventory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]stock.SectionInventory, 0)
	for _, row := range r.rows {
		if row.SectionID == sectionID {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (r *memSectionInvRepo) FindByMaterial(_ context.Context, materialID uuid.UUID, _ shared.Filter) ([]stock.SectionInventory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]stock.SectionInventory, 0)
	for _, row := range r.rows {
		if row.RawMaterialID == materialID {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (r *memSectionInvRepo) Save(_ context.Context, inv *stock.SectionInventory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *inv
	r.rows[inv.ID] = &copied
	return nil
}

func (r *memSectionInvRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rows, id)
	return nil
}

type memConsumptionRepo struct {
	mu   sync.Mutex
	rows []stock.SectionConsumption
}

func newMemConsumptionRepo() *memConsumptionRepo {
	return &memConsumptionRepo{}
}

func (r *memConsumptionRepo) FindByID(_ context.Context, id uuid.UUID) (*stock.SectionConsumption, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.rows {
		if r.rows[i].ID == id {
			copied := r.rows[i]
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memConsumptionRepo) FindBySection(_ context.Context, sectionID uuid.UUID, _ shared.Filter) ([]stock.SectionConsumption, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]stock.SectionConsumption, 0)
	for i := range r.rows {
		if r.rows[i].SectionID == sectionID {
			out = append(out, r.rows[i])
		}
	}
	return out, nil
}

func (r *memConsumptionRepo) FindByMaterial(_ context.Context, materialID uuid.UUID, _ shared.Filter) ([]stock.SectionConsumption, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]stock.SectionConsumption, 0)
	for i := range r.rows {
		if r.rows[i].RawMaterialID == materialID {
			out = append(out, r.rows[i])
		}
	}
	return out, nil
}

func (r *memConsumptionRepo) FindByOrder(_ context.Context, orderID string) ([]stock.SectionConsumption, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]stock.SectionConsumption, 0)
	for i := range r.rows {
		if r.rows[i].OrderID == orderID {
			out = append(out, r.rows[i])
		}
	}
	return out, nil
}

func (r *memConsumptionRepo) FindByDateRange(_ context.Context, start, end time.Time, _ shared.Filter) ([]stock.SectionConsumption, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]stock.SectionConsumption, 0)
	for i := range r.rows {
		d := r.rows[i].ConsumptionDate
		if !d.Before(start) && !d.After(end) {
			out = append(out, r.rows[i])
		}
	}
	return out, nil
}

func (r *memConsumptionRepo) Create(_ context.Context, c *stock.SectionConsumption) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = append(r.rows, *c)
	return nil
}

// countingSequencer issues deterministic references for assertions
type countingSequencer struct {
	mu   sync.Mutex
	next int64
}

func (s *countingSequencer) Next(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	return fmt.Sprintf("ORDER-%03d", s.next), nil
}

// failingSequencer always errors, for fallback paths
type failingSequencer struct{}

func (failingSequencer) Next(_ context.Context) (string, error) {
	return "", fmt.Errorf("counter store unavailable")
}

// testEnv bundles the fakes and services under test
type testEnv struct {
	materials    *memMaterialRepo
	sections     *memSectionRepo
	entries      *memEntryRepo
	movements    *memMovementRepo
	sectionInv   *memSectionInvRepo
	consumptions *memConsumptionRepo
	sequencer    *countingSequencer

	ledger  *LedgerService
	section *SectionService
	consume *ConsumptionService
}

func newTestEnv(strictMovements bool) *testEnv {
	env := &testEnv{
		materials:    newMemMaterialRepo(),
		sections:     newMemSectionRepo(),
		entries:      newMemEntryRepo(),
		movements:    newMemMovementRepo(),
		sectionInv:   newMemSectionInvRepo(),
		consumptions: newMemConsumptionRepo(),
		sequencer:    &countingSequencer{},
	}
	scope := NewNoOpTransactionScope(env.entries, env.movements, env.sectionInv, env.consumptions)
	env.ledger = NewLedgerService(env.materials, env.entries, env.movements, scope, env.sequencer, nil)
	env.section = NewSectionService(env.materials, env.sections, env.sectionInv, scope, env.sequencer, nil)
	env.consume = NewConsumptionService(env.materials, env.consumptions, scope, env.sequencer, strictMovements, nil)
	return env
}
