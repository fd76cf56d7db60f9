package handlers

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/textproto"
	"testing"
	"time"

	"github.com/William2897/aoy-registration-form/internal/models"
	"github.com/William2897/aoy-registration-form/internal/pricing"
	"github.com/William2897/aoy-registration-form/internal/registration"
	"github.com/danielgtaylor/huma/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var testNow = time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)

type stubUploader struct {
	calls int
	url   string
}

func (u *stubUploader) Upload(ctx context.Context, filename string, data []byte) (string, error) {
	u.calls++
	return u.url, nil
}

type stubMailer struct {
	sent chan string
}

func (m *stubMailer) SendConfirmation(reg *models.Registration) error {
	m.sent <- reg.ID
	return nil
}

type stubNotifier struct {
	notified chan string
}

func (n *stubNotifier) NotifyRegistration(reg *models.Registration) error {
	n.notified <- reg.ID
	return nil
}

func testEngine(t *testing.T) *pricing.Engine {
	t.Helper()
	engine, err := pricing.NewEngine(pricing.Config{
		Rates: map[pricing.Category]float64{
			pricing.WorkingAdult:    240,
			pricing.Homemaker:       180,
			pricing.Student:         180,
			pricing.MinistrySalary:  240,
			pricing.MinistryStipend: 180,
			pricing.WalkInFull:      240,
			pricing.WalkInPartial:   100,
			pricing.Child5To12:      50,
			pricing.ChildBelow4:     0,
		},
		TshirtUnitPrice: 30,
		EarlyBirdAmount: 20,
		EarlyBirdEnd:    time.Date(2025, 3, 16, 23, 59, 59, 0, time.UTC),
		WalkInWindow: pricing.Window{
			Start: time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2025, 6, 8, 23, 59, 59, 0, time.UTC),
		},
		FamilyDiscountPercent: 5,
	})
	if err != nil {
		t.Fatalf("NewEngine returned error: %v", err)
	}
	return engine
}

func newTestHandler(t *testing.T) (*RegistrationHandler, *gorm.DB, *stubUploader, *stubMailer, *stubNotifier) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	db.AutoMigrate(&models.Registration{}, &models.FamilyMember{}, &models.TshirtOrder{})

	uploader := &stubUploader{url: "https://res.cloudinary.com/demo/paymentProofs/proof.jpg"}
	m := &stubMailer{sent: make(chan string, 1)}
	n := &stubNotifier{notified: make(chan string, 1)}

	builder := registration.NewBuilder(testEngine(t))
	handler := NewRegistrationHandler(db, builder, uploader, m, n)
	handler.now = func() time.Time { return testNow }

	return handler, db, uploader, m, n
}

func validFields() map[string]string {
	return map[string]string{
		"email":          "jane@example.com",
		"fullName":       "Jane Tan",
		"dateOfBirth":    "1990-04-12",
		"gender":         "female",
		"country":        "Malaysia",
		"phone":          "+60123456789",
		"occupationType": "working_adult",
		"conference":     "Peninsular Malaysia Mission",
		"church":         "Penang SDA Church",
		"riceType":       "white",
		"portionSize":    "small",
		"hasFamily":      "true",
		"familyDetails": `[
			{"fullName":"John Tan","dateOfBirth":"1988-09-01","occupationType":"student","riceType":"brown","portionSize":"big"},
			{"fullName":"Mia Tan","dateOfBirth":"2015-02-20","occupationType":"child_5_12"}
		]`,
		"paymentMethod": "bank",
		"termsAccepted": "true",
	}
}

// buildForm assembles a parsed multipart form the way the wizard submits
// it, optionally attaching a payment proof image.
func buildForm(t *testing.T, fields map[string]string, withProof bool) multipart.Form {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field %q: %v", k, err)
		}
	}
	if withProof {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", `form-data; name="paymentProof"; filename="proof.jpg"`)
		header.Set("Content-Type", "image/jpeg")
		part, err := w.CreatePart(header)
		if err != nil {
			t.Fatalf("create proof part: %v", err)
		}
		part.Write([]byte("fake-jpeg-bytes"))
	}
	w.Close()

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(32 << 20)
	if err != nil {
		t.Fatalf("parse multipart form: %v", err)
	}
	return *form
}

func TestHandleCreate(t *testing.T) {
	handler, db, uploader, m, n := newTestHandler(t)

	req := &CreateRegistrationRequest{RawBody: buildForm(t, validFields(), true)}
	resp, err := handler.HandleCreate(context.Background(), req)
	if err != nil {
		t.Fatalf("HandleCreate returned error: %v", err)
	}

	reg := resp.Body.Data
	if reg.ID == "" {
		t.Error("expected generated registration ID")
	}
	if reg.PaymentProofURL != uploader.url {
		t.Errorf("expected proof URL %q, got %q", uploader.url, reg.PaymentProofURL)
	}
	if uploader.calls != 1 {
		t.Errorf("expected 1 upload, got %d", uploader.calls)
	}

	// Server-side snapshot: 240 + 230 fees, RM60 early bird, 5% family
	// discount on 410.
	if reg.FinalTotal != 389.5 {
		t.Errorf("expected final total 389.50, got %v", reg.FinalTotal)
	}
	if !reg.IsEarlyBird {
		t.Error("expected early bird flag set")
	}

	var stored models.Registration
	if err := db.Preload("FamilyMembers").Preload("TshirtOrders").First(&stored, "id = ?", reg.ID).Error; err != nil {
		t.Fatalf("failed to load stored registration: %v", err)
	}
	if len(stored.FamilyMembers) != 2 {
		t.Errorf("expected 2 family members persisted, got %d", len(stored.FamilyMembers))
	}
	if stored.FinalTotal != 389.5 {
		t.Errorf("persisted snapshot mismatch: %v", stored.FinalTotal)
	}

	// Side effects fire after persistence.
	select {
	case id := <-m.sent:
		if id != reg.ID {
			t.Errorf("confirmation sent for wrong registration: %s", id)
		}
	case <-time.After(2 * time.Second):
		t.Error("confirmation email was never sent")
	}
	select {
	case <-n.notified:
	case <-time.After(2 * time.Second):
		t.Error("committee notification was never sent")
	}
}

func TestHandleCreateValidationErrors(t *testing.T) {
	handler, db, uploader, _, _ := newTestHandler(t)

	fields := validFields()
	fields["termsAccepted"] = "false"
	delete(fields, "email")

	req := &CreateRegistrationRequest{RawBody: buildForm(t, fields, true)}
	_, err := handler.HandleCreate(context.Background(), req)
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}

	se, ok := err.(huma.StatusError)
	if !ok {
		t.Fatalf("expected huma status error, got %T", err)
	}
	if se.GetStatus() != 422 {
		t.Errorf("expected status 422, got %d", se.GetStatus())
	}

	if uploader.calls != 0 {
		t.Errorf("proof must not be uploaded for invalid submissions, got %d uploads", uploader.calls)
	}
	var count int64
	db.Model(&models.Registration{}).Count(&count)
	if count != 0 {
		t.Errorf("expected no persisted registrations, got %d", count)
	}
}

func TestHandleCreateBankTransferRequiresProof(t *testing.T) {
	handler, _, _, _, _ := newTestHandler(t)

	req := &CreateRegistrationRequest{RawBody: buildForm(t, validFields(), false)}
	_, err := handler.HandleCreate(context.Background(), req)
	if err == nil {
		t.Fatal("expected validation error for missing proof, got nil")
	}
	if se, ok := err.(huma.StatusError); !ok || se.GetStatus() != 422 {
		t.Fatalf("expected 422, got %v", err)
	}
}

func TestHandleGet(t *testing.T) {
	handler, db, _, _, _ := newTestHandler(t)

	seed := models.Registration{
		Email:          "seed@example.com",
		FullName:       "Seed Person",
		OccupationType: pricing.Student,
		PaymentMethod:  "onsite",
		Status:         "pending",
		TshirtOrders:   []models.TshirtOrder{{Size: "M", Quantity: 1}},
	}
	if err := db.Create(&seed).Error; err != nil {
		t.Fatalf("failed to seed registration: %v", err)
	}

	resp, err := handler.HandleGet(context.Background(), &GetRegistrationRequest{ID: seed.ID})
	if err != nil {
		t.Fatalf("HandleGet returned error: %v", err)
	}
	if resp.Body.Email != "seed@example.com" {
		t.Errorf("unexpected email %q", resp.Body.Email)
	}
	if len(resp.Body.TshirtOrders) != 1 {
		t.Errorf("expected preloaded t-shirt order, got %d", len(resp.Body.TshirtOrders))
	}

	_, err = handler.HandleGet(context.Background(), &GetRegistrationRequest{ID: "missing"})
	if se, ok := err.(huma.StatusError); !ok || se.GetStatus() != 404 {
		t.Errorf("expected 404 for unknown id, got %v", err)
	}
}

func TestHandleUpdate(t *testing.T) {
	handler, db, _, _, _ := newTestHandler(t)

	seed := models.Registration{Email: "old@example.com", FullName: "Old Name", Status: "pending"}
	if err := db.Create(&seed).Error; err != nil {
		t.Fatalf("failed to seed registration: %v", err)
	}

	newPhone := "+60199999999"
	req := &UpdateRegistrationRequest{ID: seed.ID}
	req.Body.Phone = &newPhone

	resp, err := handler.HandleUpdate(context.Background(), req)
	if err != nil {
		t.Fatalf("HandleUpdate returned error: %v", err)
	}
	if resp.Body.Phone != newPhone {
		t.Errorf("expected updated phone, got %q", resp.Body.Phone)
	}
	if resp.Body.Email != "old@example.com" {
		t.Errorf("untouched fields must survive, got %q", resp.Body.Email)
	}
}

func TestHandleDelete(t *testing.T) {
	handler, db, _, _, _ := newTestHandler(t)

	seed := models.Registration{
		Email:         "gone@example.com",
		FamilyMembers: []models.FamilyMember{{FullName: "Child"}},
		TshirtOrders:  []models.TshirtOrder{{Size: "L", Quantity: 2}},
	}
	if err := db.Create(&seed).Error; err != nil {
		t.Fatalf("failed to seed registration: %v", err)
	}

	if _, err := handler.HandleDelete(context.Background(), &DeleteRegistrationRequest{ID: seed.ID}); err != nil {
		t.Fatalf("HandleDelete returned error: %v", err)
	}

	var regs, members, orders int64
	db.Model(&models.Registration{}).Count(&regs)
	db.Model(&models.FamilyMember{}).Count(&members)
	db.Model(&models.TshirtOrder{}).Count(&orders)
	if regs != 0 || members != 0 || orders != 0 {
		t.Errorf("expected cascade delete, got %d regs, %d members, %d orders", regs, members, orders)
	}

	_, err := handler.HandleDelete(context.Background(), &DeleteRegistrationRequest{ID: seed.ID})
	if se, ok := err.(huma.StatusError); !ok || se.GetStatus() != 404 {
		t.Errorf("expected 404 for deleted id, got %v", err)
	}
}

func TestHandleConfirm(t *testing.T) {
	handler, db, _, _, _ := newTestHandler(t)

	seed := models.Registration{Email: "c@example.com", Status: "pending"}
	if err := db.Create(&seed).Error; err != nil {
		t.Fatalf("failed to seed registration: %v", err)
	}

	resp, err := handler.HandleConfirm(context.Background(), &ConfirmRegistrationRequest{ID: seed.ID})
	if err != nil {
		t.Fatalf("HandleConfirm returned error: %v", err)
	}
	if !resp.Body.IsConfirmed || resp.Body.Status != "confirmed" {
		t.Errorf("expected confirmed registration, got confirmed=%v status=%q", resp.Body.IsConfirmed, resp.Body.Status)
	}
}
