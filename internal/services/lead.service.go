package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/xisxz/agente-vendas/internal/crm"
	"github.com/xisxz/agente-vendas/internal/model"
	"github.com/xisxz/agente-vendas/pkg/logger"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid status transition")
)

type LeadStore interface {
	Create(ctx context.Context, lead *model.Lead) (*model.Lead, error)
	Get(ctx context.Context, id int64) (*model.Lead, error)
	FindByContact(ctx context.Context, email, phone string) (*model.Lead, error)
	Update(ctx context.Context, lead *model.Lead) (*model.Lead, error)
	List(ctx context.Context, f model.LeadFilter) ([]*model.Lead, int64, error)
}

// CRMSyncer pushes lead mutations to the external CRM. Failures are
// advisory only.
type CRMSyncer interface {
	SyncLead(ctx context.Context, lead *model.Lead) crm.SyncResult
}

type LeadService struct {
	leads LeadStore
	crm   CRMSyncer
}

func NewLeadService(leads LeadStore, crmSyncer CRMSyncer) *LeadService {
	return &LeadService{
		leads: leads,
		crm:   crmSyncer,
	}
}

// LeadResult pairs a lead with the advisory outcome of its CRM sync.
type LeadResult struct {
	Lead    *model.Lead    `json:"lead"`
	CRMSync crm.SyncResult `json:"crm_sync"`
}

func (s *LeadService) Create(ctx context.Context, p model.LeadCreateRequest) (*LeadResult, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	lead := &model.Lead{
		Name:     p.Name,
		Email:    p.Email,
		Phone:    p.Phone,
		Company:  p.Company,
		Location: p.Location,
		Category: p.Category,
		Source:   p.Source,
		Status:   model.LeadStatusNew,
	}

	created, err := s.leads.Create(ctx, lead)
	if err != nil {
		return nil, fmt.Errorf("create lead: %w", err)
	}

	return &LeadResult{Lead: created, CRMSync: s.syncCRM(ctx, created)}, nil
}

func (s *LeadService) Get(ctx context.Context, id int64) (*model.Lead, error) {
	return s.leads.Get(ctx, id)
}

func (s *LeadService) List(ctx context.Context, f model.LeadFilter) ([]*model.Lead, int64, error) {
	return s.leads.List(ctx, f)
}

func (s *LeadService) Update(ctx context.Context, id int64, p model.LeadUpdateRequest) (*LeadResult, error) {
	lead, err := s.leads.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if p.Status != nil && *p.Status != lead.Status {
		if !lead.Status.CanTransitionTo(*p.Status) {
			return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, lead.Status, *p.Status)
		}
		lead.Status = *p.Status
	}
	if p.Name != nil {
		lead.Name = *p.Name
	}
	if p.Email != nil {
		lead.Email = *p.Email
	}
	if p.Phone != nil {
		lead.Phone = *p.Phone
	}
	if p.Company != nil {
		lead.Company = *p.Company
	}
	if p.Location != nil {
		lead.Location = *p.Location
	}
	if p.Category != nil {
		lead.Category = *p.Category
	}
	if p.QualificationScore != nil {
		if *p.QualificationScore < 0 || *p.QualificationScore > 10 {
			return nil, errors.New("qualification score must be between 0 and 10")
		}
		lead.QualificationScore = *p.QualificationScore
	}

	updated, err := s.leads.Update(ctx, lead)
	if err != nil {
		return nil, err
	}

	return &LeadResult{Lead: updated, CRMSync: s.syncCRM(ctx, updated)}, nil
}

// Delete soft-deletes a lead by flipping it to the deleted status.
func (s *LeadService) Delete(ctx context.Context, id int64) error {
	lead, err := s.leads.Get(ctx, id)
	if err != nil {
		return err
	}

	if !lead.Status.CanTransitionTo(model.LeadStatusDeleted) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, lead.Status, model.LeadStatusDeleted)
	}

	lead.Status = model.LeadStatusDeleted
	_, err = s.leads.Update(ctx, lead)
	return err
}

// syncCRM is best-effort: a CRM failure never fails the caller. A
// successful first sync stores the assigned CRM id.
func (s *LeadService) syncCRM(ctx context.Context, lead *model.Lead) crm.SyncResult {
	if s.crm == nil {
		return crm.SyncResult{}
	}

	result := s.crm.SyncLead(ctx, lead)
	if result.Synced && lead.CRMID == nil && result.CRMID != nil {
		lead.CRMID = result.CRMID
		if _, err := s.leads.Update(ctx, lead); err != nil {
			logger.Warn("failed to store crm id", "lead_id", lead.ID, "error", err)
		}
	}
	return result
}
