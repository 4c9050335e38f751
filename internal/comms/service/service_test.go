package service

import (
	"context"
	"errors"
	"testing"

	"crm_backend/internal/comms/domain"
	"crm_backend/internal/comms/repository"
	"crm_backend/internal/comms/transport"
	"crm_backend/platform/apperr"
	"crm_backend/platform/logger"
)

type fakeRepo struct {
	created []repository.CreateLogParams
	err     error
}

func (f *fakeRepo) Create(_ context.Context, params repository.CreateLogParams) (repository.Log, error) {
	f.created = append(f.created, params)
	if f.err != nil {
		return repository.Log{}, f.err
	}
	return repository.Log{ID: int64(len(f.created)), Channel: params.Channel, Direction: params.Direction, Status: params.Status}, nil
}

func (f *fakeRepo) List(context.Context, repository.ListLogsParams) ([]repository.Log, error) {
	return nil, nil
}

type fakeSender struct {
	phone     string
	message   string
	messageID string
	err       error
}

func (f *fakeSender) SendSessionMessage(_ context.Context, phoneNumber, message string) (string, error) {
	f.phone = phoneNumber
	f.message = message
	if f.err != nil {
		return "", f.err
	}
	return f.messageID, nil
}

type fakeRefs struct {
	userOK  bool
	leadOK  bool
	orderOK bool
}

func (f *fakeRefs) UserExists(context.Context, int64) (bool, error)  { return f.userOK, nil }
func (f *fakeRefs) LeadExists(context.Context, int64) (bool, error)  { return f.leadOK, nil }
func (f *fakeRefs) OrderExists(context.Context, int64) (bool, error) { return f.orderOK, nil }

type fakeIntake struct {
	params *WatiLeadParams
	leadID int64
	err    error
}

func (f *fakeIntake) CreateFromWati(_ context.Context, params WatiLeadParams) (int64, error) {
	f.params = &params
	if f.err != nil {
		return 0, f.err
	}
	return f.leadID, nil
}

type fakeDeduper struct {
	first bool
	err   error
	key   string
}

func (f *fakeDeduper) Claim(_ context.Context, key string) (bool, error) {
	f.key = key
	return f.first, f.err
}

func newTestService(repo *fakeRepo, sender *fakeSender, refs *fakeRefs, intake *fakeIntake, dedup *fakeDeduper) *Service {
	return New(repo, sender, refs, intake, dedup, logger.New("test"))
}

func TestSendWhatsAppRecordsSentMessage(t *testing.T) {
	repo := &fakeRepo{}
	sender := &fakeSender{messageID: "wamid.123"}
	refs := &fakeRefs{userOK: true, leadOK: true}
	svc := newTestService(repo, sender, refs, &fakeIntake{}, &fakeDeduper{})

	leadID := int64(5)
	resp, err := svc.SendWhatsApp(context.Background(), 1, transport.SendWhatsAppRequest{
		LeadID:  &leadID,
		Phone:   "+919876543210",
		Message: "Your estimate is ready",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(repo.created) != 1 {
		t.Fatalf("expected one log entry, got %d", len(repo.created))
	}
	entry := repo.created[0]
	if entry.Status != domain.StatusSent {
		t.Fatalf("expected status Sent, got %q", entry.Status)
	}
	if entry.ExternalMessageID == nil || *entry.ExternalMessageID != "wamid.123" {
		t.Fatalf("expected external message id recorded, got %v", entry.ExternalMessageID)
	}
	if entry.Direction != domain.DirectionOutbound {
		t.Fatalf("expected outbound direction, got %q", entry.Direction)
	}
	if resp.Status != string(domain.StatusSent) {
		t.Fatalf("expected response status Sent, got %q", resp.Status)
	}
}

func TestSendWhatsAppGatewayFailureIsLoggedAsFailed(t *testing.T) {
	repo := &fakeRepo{}
	sender := &fakeSender{err: errors.New("gateway timeout")}
	refs := &fakeRefs{userOK: true}
	svc := newTestService(repo, sender, refs, &fakeIntake{}, &fakeDeduper{})

	_, err := svc.SendWhatsApp(context.Background(), 1, transport.SendWhatsAppRequest{
		Phone:   "+919876543210",
		Message: "hello",
	})

	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindInternal {
		t.Fatalf("expected internal error, got %v", err)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected the failed attempt to be logged, got %d entries", len(repo.created))
	}
	if repo.created[0].Status != domain.StatusFailed {
		t.Fatalf("expected status Failed, got %q", repo.created[0].Status)
	}
	if repo.created[0].ExternalMessageID != nil {
		t.Fatal("expected no external message id on a failed send")
	}
}

func TestSendWhatsAppRejectsUnknownSender(t *testing.T) {
	repo := &fakeRepo{}
	refs := &fakeRefs{userOK: false}
	svc := newTestService(repo, &fakeSender{}, refs, &fakeIntake{}, &fakeDeduper{})

	_, err := svc.SendWhatsApp(context.Background(), 99, transport.SendWhatsAppRequest{
		Phone:   "+919876543210",
		Message: "hello",
	})

	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
	if len(repo.created) != 0 {
		t.Fatal("expected no log entry for a rejected request")
	}
}

func TestWebhookDuplicateDeliveryIsAcknowledgedOnce(t *testing.T) {
	intake := &fakeIntake{leadID: 7}
	dedup := &fakeDeduper{first: false}
	svc := newTestService(&fakeRepo{}, &fakeSender{}, &fakeRefs{}, intake, dedup)

	resp, err := svc.HandleWatiWebhook(context.Background(), transport.WatiWebhookRequest{
		ContactID: "contact-1",
		Phone:     "+919876543210",
		Timestamp: "1700000000",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !resp.Duplicate {
		t.Fatal("expected duplicate delivery to be flagged")
	}
	if intake.params != nil {
		t.Fatal("expected no lead intake on a duplicate delivery")
	}
	if dedup.key != "wati:contact-1:1700000000" {
		t.Fatalf("unexpected dedup key %q", dedup.key)
	}
}

func TestWebhookCreatesLeadAndInboundLog(t *testing.T) {
	repo := &fakeRepo{}
	intake := &fakeIntake{leadID: 7}
	svc := newTestService(repo, &fakeSender{}, &fakeRefs{}, intake, &fakeDeduper{first: true})

	message := "Hi, looking for a gold ring"
	resp, err := svc.HandleWatiWebhook(context.Background(), transport.WatiWebhookRequest{
		ContactID: "contact-1",
		Phone:     "+919876543210",
		Message:   &message,
		Timestamp: "1700000000",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.Duplicate {
		t.Fatal("expected first delivery not to be a duplicate")
	}
	if resp.LeadID == nil || *resp.LeadID != 7 {
		t.Fatalf("expected lead id 7, got %v", resp.LeadID)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected one inbound log entry, got %d", len(repo.created))
	}
	entry := repo.created[0]
	if entry.Direction != domain.DirectionInbound || entry.Status != domain.StatusDelivered {
		t.Fatalf("expected inbound delivered entry, got %q %q", entry.Direction, entry.Status)
	}
}

func TestWebhookDedupOutageDoesNotDropLeads(t *testing.T) {
	intake := &fakeIntake{leadID: 7}
	dedup := &fakeDeduper{err: errors.New("redis down")}
	svc := newTestService(&fakeRepo{}, &fakeSender{}, &fakeRefs{}, intake, dedup)

	resp, err := svc.HandleWatiWebhook(context.Background(), transport.WatiWebhookRequest{
		ContactID: "contact-1",
		Phone:     "+919876543210",
		Timestamp: "1700000000",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.LeadID == nil || *resp.LeadID != 7 {
		t.Fatal("expected the lead to be created when dedup is unavailable")
	}
}
