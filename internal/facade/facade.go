// Package facade is the single data-access entry point for the rest of the
// application. Each logical operation is routed to the local store or the
// remote store according to the operation class and the caller's session:
//
//   - campaign reads and writes go remote only for authenticated callers;
//   - contributor and payment reads likewise;
//   - contributor and payment writes go remote whenever remote mode is on,
//     session or not, so anonymous visitors can pledge and self-report
//     payments on a shared campaign;
//   - templates and settings always stay local.
//
// Every method returns errors classified by package apperr, and every
// remote call runs under an explicit timeout.
package facade

import (
	"context"
	"errors"
	"time"

	"github.com/ololeeye/ololeeye/internal/apperr"
	"github.com/ololeeye/ololeeye/internal/exchange"
	"github.com/ololeeye/ololeeye/internal/localstore"
	"github.com/ololeeye/ololeeye/internal/models"
	"github.com/ololeeye/ololeeye/internal/repository"
	"github.com/ololeeye/ololeeye/internal/session"
)

// RemoteCampaigns is the campaign surface of the remote store.
type RemoteCampaigns interface {
	GetAllByUser(ctx context.Context, userID string) ([]models.Campaign, error)
	GetByID(ctx context.Context, id, userID string) (*models.Campaign, error)
	Create(ctx context.Context, campaign *models.Campaign) error
	Update(ctx context.Context, campaign *models.Campaign) error
	Delete(ctx context.Context, id, userID string) error
}

// RemoteContributors is the contributor surface of the remote store.
type RemoteContributors interface {
	GetByCampaign(ctx context.Context, campaignID string) ([]models.Contributor, error)
	Create(ctx context.Context, contributor *models.Contributor) error
	Update(ctx context.Context, contributor *models.Contributor) error
	Delete(ctx context.Context, id string) error
}

// RemotePayments is the payment surface of the remote store.
type RemotePayments interface {
	GetByCampaign(ctx context.Context, campaignID string) ([]models.Payment, error)
	Create(ctx context.Context, payment *models.Payment) error
	Approve(ctx context.Context, id string) (*models.Payment, error)
	Reject(ctx context.Context, id string) (*models.Payment, error)
}

// Remote bundles the remote store surfaces.
type Remote struct {
	Campaigns    RemoteCampaigns
	Contributors RemoteContributors
	Payments     RemotePayments
}

// Facade routes data access between the local and remote stores.
type Facade struct {
	local     *localstore.Store
	remote    *Remote
	converter exchange.Converter
	timeout   time.Duration

	now func() time.Time
}

// New creates a facade. remote may be nil, in which case every operation
// runs against the local store.
func New(local *localstore.Store, remote *Remote, remoteTimeout time.Duration) *Facade {
	if remoteTimeout <= 0 {
		remoteTimeout = 10 * time.Second
	}
	return &Facade{local: local, remote: remote, timeout: remoteTimeout, now: time.Now}
}

// SetConverter enables display-currency conversion.
func (f *Facade) SetConverter(converter exchange.Converter) {
	f.converter = converter
}

// remoteForOwned reports whether an owner-scoped operation (campaigns, and
// all reads) goes remote: remote mode on and the caller signed in.
func (f *Facade) remoteForOwned(sess *session.Session) bool {
	return f.remote != nil && sess.Authenticated()
}

// remoteForPublicWrite reports whether an anonymous-allowed write
// (contributors, payments) goes remote: remote mode on, session or not.
func (f *Facade) remoteForPublicWrite() bool {
	return f.remote != nil
}

// withTimeout bounds one remote call.
func (f *Facade) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, f.timeout)
}

// classifyRemote converts a remote store error into the unified contract.
func classifyRemote(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return apperr.Wrap(apperr.KindNotFound, op, err)
	case errors.Is(err, repository.ErrNotPending):
		return apperr.Wrap(apperr.KindValidation, op, err)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return apperr.Wrap(apperr.KindNetwork, op, err)
	default:
		return apperr.Wrap(apperr.KindServer, op, err)
	}
}

// ListCampaigns returns the caller's campaigns.
func (f *Facade) ListCampaigns(ctx context.Context, sess *session.Session) ([]models.Campaign, error) {
	if f.remoteForOwned(sess) {
		ctx, cancel := f.withTimeout(ctx)
		defer cancel()
		campaigns, err := f.remote.Campaigns.GetAllByUser(ctx, sess.UserID)
		return campaigns, classifyRemote("list campaigns", err)
	}
	return f.local.Campaigns()
}

// GetCampaign returns one campaign.
func (f *Facade) GetCampaign(ctx context.Context, sess *session.Session, id string) (*models.Campaign, error) {
	if f.remoteForOwned(sess) {
		ctx, cancel := f.withTimeout(ctx)
		defer cancel()
		campaign, err := f.remote.Campaigns.GetByID(ctx, id, sess.UserID)
		return campaign, classifyRemote("get campaign", err)
	}
	return f.local.Campaign(id)
}

// SaveCampaign inserts or updates a campaign.
func (f *Facade) SaveCampaign(ctx context.Context, sess *session.Session, campaign models.Campaign) (*models.Campaign, error) {
	if campaign.Name == "" {
		return nil, apperr.New(apperr.KindValidation, "campaign name is required")
	}
	if campaign.Goal.IsNegative() {
		return nil, apperr.New(apperr.KindValidation, "campaign goal must be non-negative")
	}

	if f.remoteForOwned(sess) {
		ctx, cancel := f.withTimeout(ctx)
		defer cancel()
		campaign.UserID = sess.UserID
		var err error
		if campaign.ID == "" {
			err = f.remote.Campaigns.Create(ctx, &campaign)
		} else {
			err = f.remote.Campaigns.Update(ctx, &campaign)
		}
		if err != nil {
			return nil, classifyRemote("save campaign", err)
		}
		return &campaign, nil
	}
	return f.local.SaveCampaign(campaign)
}

// DeleteCampaign removes a campaign. Locally this cascades to its
// contributors but not its payments; remotely the schema enforces the
// same shape.
func (f *Facade) DeleteCampaign(ctx context.Context, sess *session.Session, id string) error {
	if f.remoteForOwned(sess) {
		ctx, cancel := f.withTimeout(ctx)
		defer cancel()
		return classifyRemote("delete campaign", f.remote.Campaigns.Delete(ctx, id, sess.UserID))
	}
	return f.local.DeleteCampaign(id)
}

// ListContributors returns contributors, optionally scoped to a campaign.
func (f *Facade) ListContributors(ctx context.Context, sess *session.Session, campaignID string) ([]models.Contributor, error) {
	if f.remoteForOwned(sess) {
		ctx, cancel := f.withTimeout(ctx)
		defer cancel()
		contributors, err := f.remote.Contributors.GetByCampaign(ctx, campaignID)
		return contributors, classifyRemote("list contributors", err)
	}
	return f.local.Contributors(campaignID)
}

// SaveContributor inserts or updates a contributor. This is a public
// write: in remote mode it goes to the remote store even without a
// session, so anonymous visitors can pledge.
func (f *Facade) SaveContributor(ctx context.Context, sess *session.Session, contributor models.Contributor) (*models.Contributor, error) {
	if contributor.CampaignID == "" {
		return nil, apperr.New(apperr.KindValidation, "contributor campaign is required")
	}
	if contributor.Name == "" {
		return nil, apperr.New(apperr.KindValidation, "contributor name is required")
	}
	if contributor.Amount.IsNegative() {
		return nil, apperr.New(apperr.KindValidation, "contributor amount must be non-negative")
	}

	if f.remoteForPublicWrite() {
		ctx, cancel := f.withTimeout(ctx)
		defer cancel()
		var err error
		if contributor.ID == "" {
			err = f.remote.Contributors.Create(ctx, &contributor)
		} else {
			err = f.remote.Contributors.Update(ctx, &contributor)
		}
		if err != nil {
			return nil, classifyRemote("save contributor", err)
		}
		return &contributor, nil
	}
	return f.local.SaveContributor(contributor)
}

// DeleteContributor removes a contributor.
func (f *Facade) DeleteContributor(ctx context.Context, sess *session.Session, id string) error {
	if f.remoteForPublicWrite() {
		ctx, cancel := f.withTimeout(ctx)
		defer cancel()
		return classifyRemote("delete contributor", f.remote.Contributors.Delete(ctx, id))
	}
	return f.local.DeleteContributor(id)
}

// ListPayments returns payments, optionally scoped to a campaign.
func (f *Facade) ListPayments(ctx context.Context, sess *session.Session, campaignID string) ([]models.Payment, error) {
	if f.remoteForOwned(sess) {
		ctx, cancel := f.withTimeout(ctx)
		defer cancel()
		payments, err := f.remote.Payments.GetByCampaign(ctx, campaignID)
		return payments, classifyRemote("list payments", err)
	}
	return f.local.Payments(campaignID)
}

// SavePayment records a self-reported payment. Like contributor writes,
// this goes remote without a session when remote mode is on.
func (f *Facade) SavePayment(ctx context.Context, sess *session.Session, payment models.Payment) (*models.Payment, error) {
	if payment.CampaignID == "" {
		return nil, apperr.New(apperr.KindValidation, "payment campaign is required")
	}
	if payment.ReporterName == "" {
		return nil, apperr.New(apperr.KindValidation, "payment reporter name is required")
	}

	if f.remoteForPublicWrite() {
		ctx, cancel := f.withTimeout(ctx)
		defer cancel()
		if err := f.remote.Payments.Create(ctx, &payment); err != nil {
			return nil, classifyRemote("save payment", err)
		}
		return &payment, nil
	}
	return f.local.SavePayment(payment)
}

// ApprovePayment approves a pending payment, creating the compensating
// paid contributor.
func (f *Facade) ApprovePayment(ctx context.Context, sess *session.Session, id string) (*models.Payment, error) {
	if f.remoteForPublicWrite() {
		ctx, cancel := f.withTimeout(ctx)
		defer cancel()
		payment, err := f.remote.Payments.Approve(ctx, id)
		return payment, classifyRemote("approve payment", err)
	}
	return f.local.ApprovePayment(id)
}

// RejectPayment rejects a pending payment.
func (f *Facade) RejectPayment(ctx context.Context, sess *session.Session, id string) (*models.Payment, error) {
	if f.remoteForPublicWrite() {
		ctx, cancel := f.withTimeout(ctx)
		defer cancel()
		payment, err := f.remote.Payments.Reject(ctx, id)
		return payment, classifyRemote("reject payment", err)
	}
	return f.local.RejectPayment(id)
}

// ApproveAllPayments approves every pending payment of the caller's
// campaigns, sequentially. Failing payments are skipped and the count of
// successful approvals is returned.
func (f *Facade) ApproveAllPayments(ctx context.Context, sess *session.Session) (int, error) {
	if !f.remoteForPublicWrite() {
		return f.local.ApproveAllPayments()
	}

	// Read the pending set from the same store the approvals go to; the
	// routed read would land locally for anonymous callers.
	lctx, cancel := f.withTimeout(ctx)
	payments, err := f.remote.Payments.GetByCampaign(lctx, "")
	cancel()
	if err != nil {
		return 0, classifyRemote("approve all payments", err)
	}

	approved := 0
	for _, p := range payments {
		if p.Status != models.PaymentStatusPending {
			continue
		}
		if _, err := f.ApprovePayment(ctx, sess, p.ID); err != nil {
			continue
		}
		approved++
	}
	return approved, nil
}

// ListTemplates returns the message templates. Templates always live
// locally.
func (f *Facade) ListTemplates(ctx context.Context, sess *session.Session) ([]models.Template, error) {
	return f.local.Templates()
}

// SaveTemplate inserts or updates a template.
func (f *Facade) SaveTemplate(ctx context.Context, sess *session.Session, template models.Template) (*models.Template, error) {
	return f.local.SaveTemplate(template)
}

// DeleteTemplate removes a template.
func (f *Facade) DeleteTemplate(ctx context.Context, sess *session.Session, id string) error {
	return f.local.DeleteTemplate(id)
}

// GetSettings returns the store-wide settings. Settings always live
// locally.
func (f *Facade) GetSettings(ctx context.Context, sess *session.Session) (models.Settings, error) {
	return f.local.Settings()
}

// SaveSettings replaces the store-wide settings.
func (f *Facade) SaveSettings(ctx context.Context, sess *session.Session, settings models.Settings) error {
	return f.local.SaveSettings(settings)
}

// ListLogs returns local audit log entries, newest first.
func (f *Facade) ListLogs(ctx context.Context, sess *session.Session, campaignID string) ([]models.LogEntry, error) {
	return f.local.Logs(campaignID)
}

// ExportAll snapshots the local store.
func (f *Facade) ExportAll(ctx context.Context, sess *session.Session) (*localstore.ExportPayload, error) {
	return f.local.ExportAll()
}

// ImportAll restores a local store snapshot.
func (f *Facade) ImportAll(ctx context.Context, sess *session.Session, payload *localstore.ExportPayload) error {
	return f.local.ImportAll(payload)
}
