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

// ConsumptionService records usage against section allocations. Each call is
// one transaction: the POS checkout workflow calls Consume once per cart
// line, so a later line failing leaves earlier lines committed; rolling back
// or reporting a partial sale is the caller's responsibility.
type ConsumptionService struct {
	materialRepo    catalog.RawMaterialRepository
	consumptionRepo stock.SectionConsumptionRepository
	scope           TransactionScope
	sequencer       numbering.Sequencer
	logger          *zap.Logger

	// strictMovements controls what happens when no ledger movement can be
	// attributed to a consumption: true fails the whole call, false logs
	// the gap and records the consumption anyway.
	strictMovements bool
}

// NewConsumptionService creates a new ConsumptionService
func NewConsumptionService(
	materialRepo catalog.RawMaterialRepository,
	consumptionRepo stock.SectionConsumptionRepository,
	scope TransactionScope,
	sequencer numbering.Sequencer,
	strictMovements bool,
	logger *zap.Logger,
) *ConsumptionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsumptionService{
		materialRepo:    materialRepo,
		consumptionRepo: consumptionRepo,
		scope:           scope,
		sequencer:       sequencer,
		strictMovements: strictMovements,
		logger:          logger,
	}
}

// Consume debits a section allocation by a base quantity, inserts the
// append-only consumption record and attributes an OUT movement to FIFO
// lots, all in one transaction under a row lock on the allocation.
func (s *ConsumptionService) Consume(ctx context.Context, req ConsumeStockRequest) (*Result[ConsumptionResponse], error) {
	if req.Quantity.LessThanOrEqual(decimal.Zero) {
		return Fail[ConsumptionResponse](shared.ErrInvalidQuantity), nil
	}

	material, err := s.materialRepo.FindActiveByID(ctx, req.RawMaterialID)
	if err != nil {
		return failOrError[ConsumptionResponse](err)
	}

	orderID := req.OrderID
	if orderID == "" {
		if ref, err := s.sequencer.Next(ctx); err != nil {
			s.logger.Warn("could not obtain order reference", zap.Error(err))
		} else {
			orderID = ref
		}
	}

	var consumption *stock.SectionConsumption
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		inv, err := repos.SectionInventoryRepo().FindBySectionAndMaterialForUpdate(ctx, req.SectionID, req.RawMaterialID)
		if err != nil {
			return err
		}
		if inv.Quantity.LessThan(req.Quantity) {
			return shared.NewDomainError(shared.ErrInsufficientSectionStock.Code,
				fmt.Sprintf("Requested %s exceeds the %s allocated to this section",
					material.DescribeQuantity(req.Quantity), material.DescribeQuantity(inv.Quantity)))
		}

		if err := inv.Debit(req.Quantity); err != nil {
			return err
		}
		if err := repos.SectionInventoryRepo().Save(ctx, inv); err != nil {
			return err
		}

		consumption, err = stock.NewSectionConsumption(req.SectionID, req.RawMaterialID,
			material.ToPack(req.Quantity), req.Quantity, orderID, req.ConsumedBy, req.Notes)
		if err != nil {
			return err
		}
		if err := repos.ConsumptionRepo().Create(ctx, consumption); err != nil {
			return err
		}

		return s.attributeMovements(ctx, repos, material, req, orderID)
	})
	if err != nil {
		return failOrError[ConsumptionResponse](err)
	}

	s.logger.Info("section consumption recorded",
		zap.String("section_id", req.SectionID.String()),
		zap.String("material_id", req.RawMaterialID.String()),
		zap.String("base_quantity", req.Quantity.String()),
		zap.String("order_id", orderID))

	return Ok(toConsumptionResponse(consumption)), nil
}

// attributeMovements picks FIFO lots for the consumed quantity and writes
// the matching OUT movements. In strict mode a selection failure fails the
// whole consumption; otherwise the gap is logged and the consumption stands
// without a ledger movement.
func (s *ConsumptionService) attributeMovements(ctx context.Context, repos TransactionalRepositories, material *catalog.RawMaterial, req ConsumeStockRequest, orderID string) error {
	entries, err := repos.EntryRepo().FindAllByMaterial(ctx, material.ID)
	if err != nil {
		return err
	}
	movements, err := repos.MovementRepo().FindAllByMaterial(ctx, material.ID)
	if err != nil {
		return err
	}

	lots := make([]stock.Lot, 0, len(entries))
	for i := range entries {
		lots = append(lots, stock.Lot{
			Entry:     entries[i],
			Remaining: stock.EntryUnconsumed(&entries[i], movements),
		})
	}

	allocations, err := stock.SelectFIFO(req.Quantity, lots)
	if err != nil {
		if s.strictMovements {
			return err
		}
		s.logger.Warn("consumption recorded without a ledger movement",
			zap.String("section_id", req.SectionID.String()),
			zap.String("material_id", material.ID.String()),
			zap.String("base_quantity", req.Quantity.String()),
			zap.Error(err))
		return nil
	}

	reason := req.Reason
	if reason == "" {
		reason = fmt.Sprintf("Section consumption: %s", material.DescribeQuantity(req.Quantity))
	}
	outs := make([]*stock.StockMovement, 0, len(allocations))
	for _, alloc := range allocations {
		m, err := stock.NewStockMovement(alloc.Entry.ID, material.ID, stock.MovementTypeOut,
			alloc.Quantity, &req.SectionID, nil, reason, req.ConsumedBy, orderID)
		if err != nil {
			return err
		}
		outs = append(outs, m)
	}
	return repos.MovementRepo().CreateBatch(ctx, outs)
}

// ConsumptionsBySection returns a section's consumption history
func (s *ConsumptionService) ConsumptionsBySection(ctx context.Context, sectionID uuid.UUID, filter shared.Filter) ([]ConsumptionResponse, error) {
	rows, err := s.consumptionRepo.FindBySection(ctx, sectionID, filter)
	if err != nil {
		return nil, err
	}
	return toConsumptionResponses(rows), nil
}

// ConsumptionsByMaterial returns a material's consumption history
func (s *ConsumptionService) ConsumptionsByMaterial(ctx context.Context, materialID uuid.UUID, filter shared.Filter) ([]ConsumptionResponse, error) {
	rows, err := s.consumptionRepo.FindByMaterial(ctx, materialID, filter)
	if err != nil {
		return nil, err
	}
	return toConsumptionResponses(rows), nil
}

// ConsumptionsByOrder returns every consumption tied to one order reference
func (s *ConsumptionService) ConsumptionsByOrder(ctx context.Context, orderID string) ([]ConsumptionResponse, error) {
	rows, err := s.consumptionRepo.FindByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return toConsumptionResponses(rows), nil
}

func toConsumptionResponses(rows []stock.SectionConsumption) []ConsumptionResponse {
	responses := make([]ConsumptionResponse, 0, len(rows))
	for i := range rows {
		responses = append(responses, *toConsumptionResponse(&rows[i]))
	}
	return responses
}
