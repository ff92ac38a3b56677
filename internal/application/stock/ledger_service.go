package stock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/resto/backend/internal/domain/catalog"
	"github.com/resto/backend/internal/domain/numbering"
	"github.com/resto/backend/internal/domain/shared"
	"github.com/resto/backend/internal/domain/stock"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// LedgerService handles the append-only stock ledger: receipts, raw
// movements and derived levels. Levels are always recomputed by replaying
// the movement log; no running balance is ever stored.
type LedgerService struct {
	materialRepo  catalog.RawMaterialRepository
	entryRepo     stock.StockEntryRepository
	movementRepo  stock.StockMovementRepository
	scope         TransactionScope
	sequencer     numbering.Sequencer
	logger        *zap.Logger
	lowStockCheck bool
}

// LedgerOption configures a LedgerService
type LedgerOption func(*LedgerService)

// WithLowStockCheck controls whether level reads compute the low-stock flag
// against material thresholds. Enabled by default.
func WithLowStockCheck(enabled bool) LedgerOption {
	return func(s *LedgerService) {
		s.lowStockCheck = enabled
	}
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(
	materialRepo catalog.RawMaterialRepository,
	entryRepo stock.StockEntryRepository,
	movementRepo stock.StockMovementRepository,
	scope TransactionScope,
	sequencer numbering.Sequencer,
	logger *zap.Logger,
	opts ...LedgerOption,
) *LedgerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &LedgerService{
		materialRepo:  materialRepo,
		entryRepo:     entryRepo,
		movementRepo:  movementRepo,
		scope:         scope,
		sequencer:     sequencer,
		logger:        logger,
		lowStockCheck: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Receive records a goods receipt: converts the purchase quantity to base
// units, creates the entry and emits the paired IN movement in one
// transaction. TotalCost is computed against the purchase unit because that
// is the price actually paid.
func (s *LedgerService) Receive(ctx context.Context, req ReceiveStockRequest) (*Result[StockEntryResponse], error) {
	if req.Quantity.LessThanOrEqual(decimal.Zero) || req.UnitCost.IsNegative() {
		return Fail[StockEntryResponse](shared.ErrInvalidQuantity), nil
	}

	material, err := s.materialRepo.FindActiveByID(ctx, req.RawMaterialID)
	if err != nil {
		return failOrError[StockEntryResponse](err)
	}

	unitCost := req.UnitCost
	if unitCost.IsZero() {
		unitCost = material.UnitCost
	}

	baseQty := material.ToBase(req.Quantity)
	totalCost := req.Quantity.Mul(unitCost)

	receivedDate := time.Now()
	if req.ReceivedDate != nil {
		receivedDate = *req.ReceivedDate
	}

	notes := req.Notes
	if note := receiptNote(material, req.Quantity, baseQty, unitCost); notes == "" {
		notes = note
	} else {
		notes = notes + " | " + note
	}

	entry, err := stock.NewStockEntry(material.ID, baseQty, unitCost, totalCost,
		req.Supplier, req.BatchNumber, req.ExpiryDate, receivedDate, req.ReceivedBy, notes)
	if err != nil {
		return failOrError[StockEntryResponse](err)
	}

	referenceID := ""
	if ref, err := s.sequencer.Next(ctx); err != nil {
		s.logger.Warn("could not obtain receipt reference", zap.Error(err))
	} else {
		referenceID = ref
	}

	movement, err := stock.NewStockMovement(entry.ID, material.ID, stock.MovementTypeIn,
		baseQty, nil, nil, fmt.Sprintf("Stock received: %s", material.DescribeQuantity(baseQty)),
		req.ReceivedBy, referenceID)
	if err != nil {
		return failOrError[StockEntryResponse](err)
	}

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.EntryRepo().Create(ctx, entry); err != nil {
			return err
		}
		return repos.MovementRepo().Create(ctx, movement)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("stock received",
		zap.String("material_id", material.ID.String()),
		zap.String("entry_id", entry.ID.String()),
		zap.String("base_quantity", baseQty.String()),
		zap.String("total_cost", totalCost.String()))

	return Ok(toEntryResponse(entry)), nil
}

// receiptNote renders both unit representations and, for pack materials, the
// derived per-base-unit cost.
func receiptNote(material *catalog.RawMaterial, purchaseQty, baseQty, unitCost decimal.Decimal) string {
	if info := material.PackInfo(); info != nil {
		perBase := unitCost.Div(info.UnitsPerPack)
		return fmt.Sprintf("Received %s %s = %s %s at %s per %s (%s per %s)",
			purchaseQty.String(), info.PackUnit,
			baseQty.String(), info.BaseUnit,
			unitCost.String(), info.PackUnit,
			perBase.String(), info.BaseUnit)
	}
	return fmt.Sprintf("Received %s %s at %s per %s",
		purchaseQty.String(), material.BaseUnit, unitCost.String(), material.BaseUnit)
}

// Move records a raw movement against an existing entry. The entry's own
// remaining quantity is not checked here; availability protection is the
// caller's responsibility against the global level. A missing reference is
// filled from the sequencer, never fatally.
func (s *LedgerService) Move(ctx context.Context, req MoveStockRequest) (*Result[StockMovementResponse], error) {
	movType := stock.MovementType(req.Type)
	if !movType.IsValid() {
		return Fail[StockMovementResponse](shared.NewDomainError("INVALID_MOVEMENT_TYPE", "Unknown movement type: "+req.Type)), nil
	}

	entry, err := s.entryRepo.FindByID(ctx, req.StockEntryID)
	if err != nil {
		return failOrError[StockMovementResponse](err)
	}

	referenceID := req.ReferenceID
	if referenceID == "" {
		if ref, err := s.sequencer.Next(ctx); err != nil {
			s.logger.Warn("could not obtain movement reference", zap.Error(err))
		} else {
			referenceID = ref
		}
	}

	movement, err := stock.NewStockMovement(entry.ID, entry.RawMaterialID, movType,
		req.Quantity, req.FromSectionID, req.ToSectionID, req.Reason, req.PerformedBy, referenceID)
	if err != nil {
		return failOrError[StockMovementResponse](err)
	}

	if err := s.movementRepo.Create(ctx, movement); err != nil {
		return nil, err
	}

	return Ok(toMovementResponse(movement)), nil
}

// DeleteEntry removes a stock entry. Entries still referenced by movements
// are protected: deletion fails with CONFLICTING_DELETE unless force is set.
func (s *LedgerService) DeleteEntry(ctx context.Context, entryID uuid.UUID, force bool) (*Result[StockEntryResponse], error) {
	entry, err := s.entryRepo.FindByID(ctx, entryID)
	if err != nil {
		return failOrError[StockEntryResponse](err)
	}

	movements, err := s.movementRepo.FindByEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if len(movements) > 0 && !force {
		return Fail[StockEntryResponse](shared.NewDomainError(shared.ErrConflictingDelete.Code,
			fmt.Sprintf("Stock entry is referenced by %d movement(s); pass force to delete anyway", len(movements)))), nil
	}

	if err := s.entryRepo.Delete(ctx, entry.ID); err != nil {
		return nil, err
	}

	s.logger.Info("stock entry deleted",
		zap.String("entry_id", entry.ID.String()),
		zap.Bool("force", force),
		zap.Int("referencing_movements", len(movements)))

	return OkMessage[StockEntryResponse]("Stock entry deleted"), nil
}

// CurrentLevel derives the availability of one material by replaying its
// entries and movement log.
func (s *LedgerService) CurrentLevel(ctx context.Context, materialID uuid.UUID) (*StockLevelResponse, error) {
	material, err := s.materialRepo.FindActiveByID(ctx, materialID)
	if err != nil {
		return nil, err
	}
	return s.levelFor(ctx, material)
}

// AllLevels derives availability for every active material. When lowOnly is
// set, only materials at or below their minimum threshold are returned.
func (s *LedgerService) AllLevels(ctx context.Context, lowOnly bool) ([]StockLevelResponse, error) {
	materials, err := s.materialRepo.FindAllActive(ctx)
	if err != nil {
		return nil, err
	}

	levels := make([]StockLevelResponse, 0, len(materials))
	for i := range materials {
		level, err := s.levelFor(ctx, &materials[i])
		if err != nil {
			return nil, err
		}
		if lowOnly && !level.IsLowStock {
			continue
		}
		levels = append(levels, *level)
	}
	return levels, nil
}

func (s *LedgerService) levelFor(ctx context.Context, material *catalog.RawMaterial) (*StockLevelResponse, error) {
	entries, err := s.entryRepo.FindAllByMaterial(ctx, material.ID)
	if err != nil {
		return nil, err
	}
	movements, err := s.movementRepo.FindAllByMaterial(ctx, material.ID)
	if err != nil {
		return nil, err
	}

	level := stock.ComputeLevel(material, entries, movements)
	if !s.lowStockCheck {
		level.IsLowStock = false
	}
	resp := &StockLevelResponse{
		RawMaterialID:    material.ID,
		MaterialName:     material.Name,
		BaseUnit:         material.BaseUnit.String(),
		TotalReceived:    level.TotalReceived,
		TotalUsed:        level.TotalUsed,
		Available:        level.Available,
		IsLowStock:       level.IsLowStock,
		MinStockLevel:    material.MinStockLevel,
		AvailableDisplay: material.DescribeQuantity(level.Available),
	}
	if info := material.PackInfo(); info != nil {
		packs := material.DisplayPack(level.Available)
		resp.PackUnit = info.PackUnit.String()
		resp.AvailablePacks = &packs
		resp.UnitsPerPack = &info.UnitsPerPack
	}
	return resp, nil
}

// MovementsByMaterial returns the movement history of a material, paginated
func (s *LedgerService) MovementsByMaterial(ctx context.Context, materialID uuid.UUID, filter shared.Filter) (*shared.Paginated[StockMovementResponse], error) {
	movements, err := s.movementRepo.FindByMaterial(ctx, materialID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.movementRepo.CountByMaterial(ctx, materialID)
	if err != nil {
		return nil, err
	}

	items := make([]StockMovementResponse, 0, len(movements))
	for i := range movements {
		items = append(items, *toMovementResponse(&movements[i]))
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// MovementsByEntry returns every movement recorded against one entry
func (s *LedgerService) MovementsByEntry(ctx context.Context, entryID uuid.UUID) ([]StockMovementResponse, error) {
	if _, err := s.entryRepo.FindByID(ctx, entryID); err != nil {
		return nil, err
	}
	movements, err := s.movementRepo.FindByEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}
	items := make([]StockMovementResponse, 0, len(movements))
	for i := range movements {
		items = append(items, *toMovementResponse(&movements[i]))
	}
	return items, nil
}

// EntriesByMaterial returns a material's receipt history, paginated
func (s *LedgerService) EntriesByMaterial(ctx context.Context, materialID uuid.UUID, filter shared.Filter) (*shared.Paginated[StockEntryResponse], error) {
	entries, err := s.entryRepo.FindByMaterial(ctx, materialID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.entryRepo.CountByMaterial(ctx, materialID)
	if err != nil {
		return nil, err
	}

	items := make([]StockEntryResponse, 0, len(entries))
	for i := range entries {
		items = append(items, *toEntryResponse(&entries[i]))
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// ExpiringEntries returns entries whose expiry date falls before the cutoff,
// so soon-to-expire lots can be written off or used first
func (s *LedgerService) ExpiringEntries(ctx context.Context, cutoff time.Time, filter shared.Filter) ([]StockEntryResponse, error) {
	entries, err := s.entryRepo.FindExpiringBefore(ctx, cutoff, filter)
	if err != nil {
		return nil, err
	}

	items := make([]StockEntryResponse, 0, len(entries))
	for i := range entries {
		items = append(items, *toEntryResponse(&entries[i]))
	}
	return items, nil
}
