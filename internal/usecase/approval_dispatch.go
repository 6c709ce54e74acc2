package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/iho/gobooks/internal/domain"
)

// ResourceUpdater finalizes a business resource once its approval request
// reaches a terminal decision.
type ResourceUpdater interface {
	OnApproved(ctx context.Context, actor domain.Actor, resourceID string) error
	OnRejected(ctx context.Context, actor domain.Actor, resourceID, reason string) error
}

// ResourceInspector answers questions about the resource behind an approval
// request. ResourceDispatch implements it.
type ResourceInspector interface {
	// ResourceAmount returns the amount recorded on the resource. ok is
	// false when the resource type carries no amount of its own.
	ResourceAmount(ctx context.Context, actor domain.Actor, rt domain.ResourceType, resourceID string) (amount decimal.Decimal, ok bool, err error)
	// AuthorizeImplicit reports whether actor may finalize the resource
	// without an approval request.
	AuthorizeImplicit(actor domain.Actor, rt domain.ResourceType) error
}

// amountSource is implemented by updaters whose resources record an amount.
type amountSource interface {
	ResourceAmount(ctx context.Context, actor domain.Actor, resourceID string) (decimal.Decimal, error)
}

// implicitAuthorizer is implemented by updaters that restrict who may
// finalize a resource when no approval config applies.
type implicitAuthorizer interface {
	AuthorizeImplicit(actor domain.Actor) error
}

// ResourceDispatch routes approval outcomes to the updater for each
// resource type. A nil field means that type has no automatic follow-up.
type ResourceDispatch struct {
	Expense ResourceUpdater
	Revenue ResourceUpdater
	Journal ResourceUpdater
	Payroll ResourceUpdater
}

// Updater returns the updater registered for rt.
func (d ResourceDispatch) Updater(rt domain.ResourceType) (ResourceUpdater, error) {
	var u ResourceUpdater
	switch rt {
	case domain.ResourceTypeExpense:
		u = d.Expense
	case domain.ResourceTypeRevenue:
		u = d.Revenue
	case domain.ResourceTypeJournal:
		u = d.Journal
	case domain.ResourceTypePayroll:
		u = d.Payroll
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidResourceType, rt)
	}

	if u == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrNoResourceUpdater, rt)
	}
	return u, nil
}

// ResourceAmount returns the amount recorded on the resource when its
// updater knows one.
func (d ResourceDispatch) ResourceAmount(ctx context.Context, actor domain.Actor, rt domain.ResourceType, resourceID string) (decimal.Decimal, bool, error) {
	u, err := d.Updater(rt)
	if errors.Is(err, domain.ErrNoResourceUpdater) {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, err
	}

	src, ok := u.(amountSource)
	if !ok {
		return decimal.Zero, false, nil
	}
	amount, err := src.ResourceAmount(ctx, actor, resourceID)
	if err != nil {
		return decimal.Zero, false, err
	}
	return amount, true, nil
}

// AuthorizeImplicit checks the updater's own permission rule, if any.
func (d ResourceDispatch) AuthorizeImplicit(actor domain.Actor, rt domain.ResourceType) error {
	u, err := d.Updater(rt)
	if errors.Is(err, domain.ErrNoResourceUpdater) {
		return nil
	}
	if err != nil {
		return err
	}
	if a, ok := u.(implicitAuthorizer); ok {
		return a.AuthorizeImplicit(actor)
	}
	return nil
}

// Finalize applies a terminal request outcome to its resource. Requests
// still in flight and cancelled requests are no-ops. The decision carries
// the workflow's authority, so the deciding actor's role is not rechecked.
func (d ResourceDispatch) Finalize(ctx context.Context, actor domain.Actor, req *domain.ApprovalRequest) error {
	switch req.Status {
	case domain.ApprovalStatusApproved:
		u, err := d.Updater(req.ResourceType)
		if err != nil {
			return err
		}
		return u.OnApproved(ctx, actor, req.ResourceID)
	case domain.ApprovalStatusRejected:
		u, err := d.Updater(req.ResourceType)
		if err != nil {
			return err
		}
		return u.OnRejected(ctx, actor, req.ResourceID, req.Reason)
	}
	return nil
}

// Approved applies an implicit approval from Submit. The actor must pass
// the updater's own permission rule.
func (d ResourceDispatch) Approved(ctx context.Context, actor domain.Actor, rt domain.ResourceType, resourceID string) error {
	u, err := d.Updater(rt)
	if err != nil {
		return err
	}
	if a, ok := u.(implicitAuthorizer); ok {
		if err := a.AuthorizeImplicit(actor); err != nil {
			return err
		}
	}
	return u.OnApproved(ctx, actor, resourceID)
}

// journalFinalizer is the slice of LedgerUseCase the journal updater needs.
type journalFinalizer interface {
	PostDraft(ctx context.Context, actor domain.Actor, journalID string) (*domain.JournalEntry, error)
	VoidJournal(ctx context.Context, actor domain.Actor, journalID, reason string) (*domain.JournalEntry, error)
	GetJournal(ctx context.Context, companyID, id string) (*domain.JournalEntry, error)
}

// JournalApprovalUpdater posts an approved draft and voids a rejected one.
type JournalApprovalUpdater struct {
	ledger journalFinalizer
}

// NewJournalApprovalUpdater creates a JournalApprovalUpdater.
func NewJournalApprovalUpdater(ledger journalFinalizer) *JournalApprovalUpdater {
	return &JournalApprovalUpdater{ledger: ledger}
}

// ResourceAmount returns the draft's total debit. Only drafts can be
// routed for approval.
func (u *JournalApprovalUpdater) ResourceAmount(ctx context.Context, actor domain.Actor, journalID string) (decimal.Decimal, error) {
	entry, err := u.ledger.GetJournal(ctx, actor.CompanyID, journalID)
	if err != nil {
		return decimal.Zero, err
	}
	if entry.Status != domain.JournalStatusDraft {
		return decimal.Zero, fmt.Errorf("%w: journal %s is %s", domain.ErrInvalidTransition, entry.JournalNo, entry.Status)
	}
	return entry.TotalDebit, nil
}

// AuthorizeImplicit allows only ledger writers to post a draft that no
// approval config covers.
func (u *JournalApprovalUpdater) AuthorizeImplicit(actor domain.Actor) error {
	if !actor.Role.CanWriteLedger() {
		return fmt.Errorf("%w: %s cannot post journals", domain.ErrForbidden, actor.Role)
	}
	return nil
}

// OnApproved posts the draft journal.
func (u *JournalApprovalUpdater) OnApproved(ctx context.Context, actor domain.Actor, journalID string) error {
	_, err := u.ledger.PostDraft(ctx, actor, journalID)
	return err
}

// OnRejected voids the draft journal.
func (u *JournalApprovalUpdater) OnRejected(ctx context.Context, actor domain.Actor, journalID, reason string) error {
	if reason == "" {
		reason = "approval rejected"
	}
	_, err := u.ledger.VoidJournal(ctx, actor, journalID, reason)
	return err
}
