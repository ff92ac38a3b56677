package stock

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/resto/backend/internal/domain/catalog"
	"github.com/resto/backend/internal/domain/numbering"
	"github.com/resto/backend/internal/domain/shared"
	"github.com/resto/backend/internal/domain/stock"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SectionService manages section allocations: assigning stock from the
// central store to a section, rewriting an allocation and removing it. Every
// mutation holds a row lock on the allocation for the duration of its
// check-and-update and writes its reconciling movements in the same
// transaction, so no partial state survives a failure.
type SectionService struct {
	materialRepo   catalog.RawMaterialRepository
	sectionRepo    catalog.SectionRepository
	sectionInvRepo stock.SectionInventoryRepository
	scope          TransactionScope
	sequencer      numbering.Sequencer
	logger         *zap.Logger
}

// NewSectionService creates a new SectionService
func NewSectionService(
	materialRepo catalog.RawMaterialRepository,
	sectionRepo catalog.SectionRepository,
	sectionInvRepo stock.SectionInventoryRepository,
	scope TransactionScope,
	sequencer numbering.Sequencer,
	logger *zap.Logger,
) *SectionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SectionService{
		materialRepo:   materialRepo,
		sectionRepo:    sectionRepo,
		sectionInvRepo: sectionInvRepo,
		scope:          scope,
		sequencer:      sequencer,
		logger:         logger,
	}
}

// Assign allocates a purchase-unit quantity to a section. The global
// availability check, the FIFO lot selection, the locked upsert of the
// allocation row and the TRANSFER movements all run in one transaction.
func (s *SectionService) Assign(ctx context.Context, req AssignStockRequest) (*Result[SectionInventoryResponse], error) {
	if req.Quantity.LessThanOrEqual(decimal.Zero) {
		return Fail[SectionInventoryResponse](shared.ErrInvalidQuantity), nil
	}

	material, err := s.materialRepo.FindActiveByID(ctx, req.RawMaterialID)
	if err != nil {
		return failOrError[SectionInventoryResponse](err)
	}
	section, err := s.sectionRepo.FindActiveByID(ctx, req.SectionID)
	if err != nil {
		return failOrError[SectionInventoryResponse](err)
	}

	baseQty := material.ToBase(req.Quantity)
	reference := ""
	if ref, err := s.sequencer.Next(ctx); err != nil {
		s.logger.Warn("could not obtain movement reference", zap.Error(err))
	} else {
		reference = ref
	}

	var inv *stock.SectionInventory
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		allocations, err := selectLots(ctx, repos, material, baseQty)
		if err != nil {
			return err
		}

		inv, err = repos.SectionInventoryRepo().FindBySectionAndMaterialForUpdate(ctx, section.ID, material.ID)
		switch {
		case err == nil:
			if err := inv.Add(baseQty); err != nil {
				return err
			}
		case shared.HasCode(err, shared.ErrNotFound):
			inv, err = stock.NewSectionInventory(section.ID, material.ID, baseQty)
			if err != nil {
				return err
			}
		default:
			return err
		}
		if err := repos.SectionInventoryRepo().Save(ctx, inv); err != nil {
			return err
		}

		reason := fmt.Sprintf("Assigned to section %s: %s", section.Name, material.DescribeQuantity(baseQty))
		if req.Notes != "" {
			reason = reason + " | " + req.Notes
		}
		movements, err := transferMovements(allocations, material.ID, nil, &section.ID, reason, req.AssignedBy, reference)
		if err != nil {
			return err
		}
		return repos.MovementRepo().CreateBatch(ctx, movements)
	})
	if err != nil {
		return failOrError[SectionInventoryResponse](err)
	}

	s.logger.Info("stock assigned to section",
		zap.String("section_id", section.ID.String()),
		zap.String("material_id", material.ID.String()),
		zap.String("base_quantity", baseQty.String()),
		zap.String("reference", reference))

	return Ok(toSectionInventoryResponse(inv, material)), nil
}

// UpdateAssignment rewrites an allocation to an absolute purchase-unit
// target. A positive delta is re-validated against global availability; the
// single reconciling movement is sized to the absolute delta with its
// direction carried by the from/to section pair.
func (s *SectionService) UpdateAssignment(ctx context.Context, inventoryID uuid.UUID, req UpdateAssignmentRequest) (*Result[SectionInventoryResponse], error) {
	if req.Quantity.IsNegative() {
		return Fail[SectionInventoryResponse](shared.ErrInvalidQuantity), nil
	}

	var (
		inv      *stock.SectionInventory
		material *catalog.RawMaterial
	)
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		located, err := repos.SectionInventoryRepo().FindByID(ctx, inventoryID)
		if err != nil {
			return err
		}
		inv, err = repos.SectionInventoryRepo().FindBySectionAndMaterialForUpdate(ctx, located.SectionID, located.RawMaterialID)
		if err != nil {
			return err
		}
		material, err = s.materialRepo.FindActiveByID(ctx, inv.RawMaterialID)
		if err != nil {
			return err
		}

		newBase := material.ToBase(req.Quantity)
		delta := newBase.Sub(inv.Quantity)

		reason := fmt.Sprintf("Section allocation set to %s", material.DescribeQuantity(newBase))
		if req.Notes != "" {
			reason = reason + " | " + req.Notes
		}

		var movements []*stock.StockMovement
		switch {
		case delta.GreaterThan(decimal.Zero):
			allocations, err := selectLots(ctx, repos, material, delta)
			if err != nil {
				return err
			}
			movements, err = transferMovements(allocations, material.ID, nil, &inv.SectionID, reason, req.UpdatedBy, "")
			if err != nil {
				return err
			}
		case delta.LessThan(decimal.Zero):
			entry, err := oldestEntry(ctx, repos, material.ID)
			if err != nil {
				return err
			}
			m, err := stock.NewStockMovement(entry.ID, material.ID, stock.MovementTypeTransfer,
				delta.Abs(), &inv.SectionID, nil, reason, req.UpdatedBy, "")
			if err != nil {
				return err
			}
			movements = []*stock.StockMovement{m}
		}

		if _, err := inv.SetQuantity(newBase); err != nil {
			return err
		}
		if err := repos.SectionInventoryRepo().Save(ctx, inv); err != nil {
			return err
		}
		if len(movements) > 0 {
			return repos.MovementRepo().CreateBatch(ctx, movements)
		}
		return nil
	})
	if err != nil {
		return failOrError[SectionInventoryResponse](err)
	}

	return Ok(toSectionInventoryResponse(inv, material)), nil
}

// RemoveAssignment deletes the allocation row and emits a TRANSFER movement
// out of the section sized to the pre-deletion quantity, so the ledger keeps
// a record of the stock leaving even though the row is gone.
func (s *SectionService) RemoveAssignment(ctx context.Context, inventoryID, removedBy uuid.UUID, notes string) (*Result[SectionInventoryResponse], error) {
	var (
		inv      *stock.SectionInventory
		material *catalog.RawMaterial
	)
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		located, err := repos.SectionInventoryRepo().FindByID(ctx, inventoryID)
		if err != nil {
			return err
		}
		inv, err = repos.SectionInventoryRepo().FindBySectionAndMaterialForUpdate(ctx, located.SectionID, located.RawMaterialID)
		if err != nil {
			return err
		}
		material, err = s.materialRepo.FindActiveByID(ctx, inv.RawMaterialID)
		if err != nil {
			return err
		}

		if err := repos.SectionInventoryRepo().Delete(ctx, inv.ID); err != nil {
			return err
		}
		if inv.Quantity.LessThanOrEqual(decimal.Zero) {
			return nil
		}

		entry, err := oldestEntry(ctx, repos, material.ID)
		if err != nil {
			return err
		}
		reason := fmt.Sprintf("Section allocation removed: %s returned", material.DescribeQuantity(inv.Quantity))
		if notes != "" {
			reason = reason + " | " + notes
		}
		m, err := stock.NewStockMovement(entry.ID, material.ID, stock.MovementTypeTransfer,
			inv.Quantity, &inv.SectionID, nil, reason, removedBy, "")
		if err != nil {
			return err
		}
		return repos.MovementRepo().Create(ctx, m)
	})
	if err != nil {
		return failOrError[SectionInventoryResponse](err)
	}

	s.logger.Info("section allocation removed",
		zap.String("inventory_id", inventoryID.String()),
		zap.String("returned_quantity", inv.Quantity.String()))

	return Ok(toSectionInventoryResponse(inv, material)), nil
}

// Get lists a section's allocations, annotated with pack-display fields
func (s *SectionService) Get(ctx context.Context, sectionID uuid.UUID, filter shared.Filter) ([]SectionInventoryResponse, error) {
	if _, err := s.sectionRepo.FindActiveByID(ctx, sectionID); err != nil {
		return nil, err
	}
	rows, err := s.sectionInvRepo.FindBySection(ctx, sectionID, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]SectionInventoryResponse, 0, len(rows))
	for i := range rows {
		material, err := s.materialRepo.FindByID(ctx, rows[i].RawMaterialID)
		if err != nil {
			return nil, err
		}
		responses = append(responses, *toSectionInventoryResponse(&rows[i], material))
	}
	return responses, nil
}

// selectLots replays the material's ledger inside the current transaction,
// enforces the global availability check and picks FIFO lots for the
// requested base quantity. Shortfall at selection time is a hard error.
func selectLots(ctx context.Context, repos TransactionalRepositories, material *catalog.RawMaterial, baseQty decimal.Decimal) ([]stock.LotAllocation, error) {
	entries, err := repos.EntryRepo().FindAllByMaterial(ctx, material.ID)
	if err != nil {
		return nil, err
	}
	movements, err := repos.MovementRepo().FindAllByMaterial(ctx, material.ID)
	if err != nil {
		return nil, err
	}

	level := stock.ComputeLevel(material, entries, movements)
	if level.Available.LessThan(baseQty) {
		return nil, shared.NewDomainError(shared.ErrInsufficientStock.Code,
			fmt.Sprintf("Requested %s exceeds available %s",
				material.DescribeQuantity(baseQty), material.DescribeQuantity(level.Available)))
	}

	lots := make([]stock.Lot, 0, len(entries))
	for i := range entries {
		lots = append(lots, stock.Lot{
			Entry:     entries[i],
			Remaining: stock.EntryRemaining(&entries[i], movements),
		})
	}
	return stock.SelectFIFO(baseQty, lots)
}

// transferMovements builds one TRANSFER movement per allocated lot
func transferMovements(allocations []stock.LotAllocation, materialID uuid.UUID, from, to *uuid.UUID, reason string, performedBy uuid.UUID, referenceID string) ([]*stock.StockMovement, error) {
	movements := make([]*stock.StockMovement, 0, len(allocations))
	for _, alloc := range allocations {
		m, err := stock.NewStockMovement(alloc.Entry.ID, materialID, stock.MovementTypeTransfer,
			alloc.Quantity, from, to, reason, performedBy, referenceID)
		if err != nil {
			return nil, err
		}
		movements = append(movements, m)
	}
	return movements, nil
}

// oldestEntry returns the material's oldest receipt, used to anchor
// movements that return stock to the central store.
func oldestEntry(ctx context.Context, repos TransactionalRepositories, materialID uuid.UUID) (*stock.StockEntry, error) {
	entries, err := repos.EntryRepo().FindAllByMaterial(ctx, materialID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, shared.NewDomainError(shared.ErrNoAvailableEntry.Code, "No stock entries exist for this material")
	}
	return &entries[0], nil
}

// toSectionInventoryResponse annotates an allocation row with material data
func toSectionInventoryResponse(inv *stock.SectionInventory, material *catalog.RawMaterial) *SectionInventoryResponse {
	resp := &SectionInventoryResponse{
		ID:               inv.ID,
		SectionID:        inv.SectionID,
		RawMaterialID:    inv.RawMaterialID,
		MaterialName:     material.Name,
		BaseUnit:         material.BaseUnit.String(),
		Quantity:         inv.Quantity,
		QuantityDisplay:  material.DescribeQuantity(inv.Quantity),
		LastUpdated:      inv.LastUpdated,
		ReservedQuantity: inv.ReservedQuantity,
	}
	if info := material.PackInfo(); info != nil {
		packs := material.DisplayPack(inv.Quantity)
		resp.PackUnit = info.PackUnit.String()
		resp.QuantityPacks = &packs
	}
	return resp
}
