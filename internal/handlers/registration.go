package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"mime/multipart"
	"strconv"
	"time"

	"github.com/William2897/aoy-registration-form/internal/mailer"
	"github.com/William2897/aoy-registration-form/internal/models"
	"github.com/William2897/aoy-registration-form/internal/notifier"
	"github.com/William2897/aoy-registration-form/internal/registration"
	"github.com/William2897/aoy-registration-form/internal/upload"
	"github.com/danielgtaylor/huma/v2"
	"gorm.io/gorm"
)

type RegistrationHandler struct {
	db       *gorm.DB
	builder  *registration.Builder
	uploader upload.Uploader
	mailer   mailer.Mailer
	notifier notifier.Notifier

	// now is swappable so tests can pin the clock.
	now func() time.Time
}

func NewRegistrationHandler(db *gorm.DB, builder *registration.Builder, uploader upload.Uploader, m mailer.Mailer, n notifier.Notifier) *RegistrationHandler {
	return &RegistrationHandler{
		db:       db,
		builder:  builder,
		uploader: uploader,
		mailer:   m,
		notifier: n,
		now:      time.Now,
	}
}

type CreateRegistrationRequest struct {
	RawBody multipart.Form
}

type RegistrationResponse struct {
	Body struct {
		Message string               `json:"message"`
		Data    *models.Registration `json:"data"`
	}
}

func (h *RegistrationHandler) HandleCreate(ctx context.Context, input *CreateRegistrationRequest) (*RegistrationResponse, error) {
	sub, proofData, err := decodeSubmission(&input.RawBody)
	if err != nil {
		return nil, huma.Error422UnprocessableEntity("Invalid form data", err)
	}

	reg, err := h.builder.Build(sub, h.now())
	if err != nil {
		var verrs registration.ValidationErrors
		if errors.As(err, &verrs) {
			details := make([]error, len(verrs))
			for i, fe := range verrs {
				details[i] = &huma.ErrorDetail{Location: "body." + fe.Field, Message: fe.Message}
			}
			return nil, huma.Error422UnprocessableEntity("Validation failed", details...)
		}
		// Anything else here is a broken rate table.
		return nil, huma.Error500InternalServerError("Failed to price registration: " + err.Error())
	}

	// Client-computed totals are advisory only; the snapshot above is
	// authoritative. Log discrepancies so tampering or drift is visible.
	if raw := formValue(&input.RawBody, "finalTotal"); raw != "" {
		if clientTotal, perr := strconv.ParseFloat(raw, 64); perr == nil {
			if math.Abs(clientTotal-reg.FinalTotal) >= 0.01 {
				log.Printf("Client pricing mismatch for %s: client %.2f, server %.2f",
					sub.Email, clientTotal, reg.FinalTotal)
			}
		}
	}

	if sub.PaymentProof != nil {
		url, err := h.uploader.Upload(ctx, sub.PaymentProof.Filename, proofData)
		if err != nil {
			return nil, huma.Error500InternalServerError("Failed to upload payment proof: " + err.Error())
		}
		reg.PaymentProofURL = url
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(reg).Error
	})
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to save registration: " + err.Error())
	}

	// Confirmation email and committee ping are fire-and-forget; neither
	// may fail the submission after persistence succeeded.
	if h.mailer != nil {
		go func(reg models.Registration) {
			if err := h.mailer.SendConfirmation(&reg); err != nil {
				log.Printf("Failed to send confirmation email for %s: %v", reg.ID, err)
			}
		}(*reg)
	}
	if h.notifier != nil {
		go func(reg models.Registration) {
			if err := h.notifier.NotifyRegistration(&reg); err != nil {
				log.Printf("Failed to notify registration %s: %v", reg.ID, err)
			}
		}(*reg)
	}

	res := &RegistrationResponse{}
	res.Body.Message = "Registration successful"
	res.Body.Data = reg
	return res, nil
}

type GetRegistrationRequest struct {
	ID string `path:"id" doc:"Registration ID"`
}

type GetRegistrationResponse struct {
	Body *models.Registration
}

func (h *RegistrationHandler) HandleGet(ctx context.Context, input *GetRegistrationRequest) (*GetRegistrationResponse, error) {
	var reg models.Registration
	err := h.db.WithContext(ctx).
		Preload("FamilyMembers").
		Preload("TshirtOrders").
		First(&reg, "id = ?", input.ID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, huma.Error404NotFound("Registration not found")
	}
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to fetch registration: " + err.Error())
	}
	return &GetRegistrationResponse{Body: &reg}, nil
}

type UpdateRegistrationRequest struct {
	ID   string `path:"id" doc:"Registration ID"`
	Body struct {
		Email         *string `json:"email,omitempty"`
		FullName      *string `json:"fullName,omitempty"`
		Phone         *string `json:"phone,omitempty"`
		Church        *string `json:"church,omitempty"`
		Conference    *string `json:"conference,omitempty"`
		PaymentMethod *string `json:"paymentMethod,omitempty"`
		Status        *string `json:"status,omitempty"`
	}
}

func (h *RegistrationHandler) HandleUpdate(ctx context.Context, input *UpdateRegistrationRequest) (*GetRegistrationResponse, error) {
	var reg models.Registration
	err := h.db.WithContext(ctx).First(&reg, "id = ?", input.ID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, huma.Error404NotFound("Registration not found")
	}
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to fetch registration: " + err.Error())
	}

	if input.Body.Email != nil {
		reg.Email = *input.Body.Email
	}
	if input.Body.FullName != nil {
		reg.FullName = *input.Body.FullName
	}
	if input.Body.Phone != nil {
		reg.Phone = *input.Body.Phone
	}
	if input.Body.Church != nil {
		reg.Church = *input.Body.Church
	}
	if input.Body.Conference != nil {
		reg.Conference = *input.Body.Conference
	}
	if input.Body.PaymentMethod != nil {
		reg.PaymentMethod = *input.Body.PaymentMethod
	}
	if input.Body.Status != nil {
		reg.Status = *input.Body.Status
	}

	if err := h.db.WithContext(ctx).Save(&reg).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to update registration: " + err.Error())
	}
	return &GetRegistrationResponse{Body: &reg}, nil
}

type DeleteRegistrationRequest struct {
	ID string `path:"id" doc:"Registration ID"`
}

func (h *RegistrationHandler) HandleDelete(ctx context.Context, input *DeleteRegistrationRequest) (*struct{}, error) {
	var reg models.Registration
	err := h.db.WithContext(ctx).First(&reg, "id = ?", input.ID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, huma.Error404NotFound("Registration not found")
	}
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to fetch registration: " + err.Error())
	}

	// Family members and orders are owned by the registration and go with it.
	err = h.db.WithContext(ctx).
		Select("FamilyMembers", "TshirtOrders").
		Delete(&reg).Error
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to delete registration: " + err.Error())
	}
	return nil, nil
}

type ConfirmRegistrationRequest struct {
	ID string `path:"id" doc:"Registration ID"`
}

func (h *RegistrationHandler) HandleConfirm(ctx context.Context, input *ConfirmRegistrationRequest) (*GetRegistrationResponse, error) {
	var reg models.Registration
	err := h.db.WithContext(ctx).First(&reg, "id = ?", input.ID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, huma.Error404NotFound("Registration not found")
	}
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to fetch registration: " + err.Error())
	}

	reg.IsConfirmed = true
	reg.Status = "confirmed"
	if err := h.db.WithContext(ctx).Save(&reg).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to confirm registration: " + err.Error())
	}
	return &GetRegistrationResponse{Body: &reg}, nil
}

// decodeSubmission maps the multipart wizard payload onto a Submission.
// Collection fields arrive JSON-encoded; the proof file is read fully so
// the handler can forward it to the uploader after validation.
func decodeSubmission(form *multipart.Form) (registration.Submission, []byte, error) {
	sub := registration.Submission{
		Email:            formValue(form, "email"),
		FullName:         formValue(form, "fullName"),
		DateOfBirth:      formValue(form, "dateOfBirth"),
		Gender:           formValue(form, "gender"),
		Country:          formValue(form, "country"),
		Phone:            formValue(form, "phone"),
		OccupationType:   formValue(form, "occupationType"),
		WalkInCategory:   formValue(form, "walkInCategory"),
		Conference:       formValue(form, "conference"),
		OtherConference:  formValue(form, "otherConference"),
		Church:           formValue(form, "church"),
		RiceType:         formValue(form, "riceType"),
		PortionSize:      formValue(form, "portionSize"),
		Volunteer:        formValue(form, "volunteer") == "true",
		HasFamily:        formValue(form, "hasFamily") == "true",
		OrderTshirt:      formValue(form, "orderTshirt") == "true",
		FoodAllergies:    formValue(form, "foodAllergies") == "true",
		AllergiesDetails: formValue(form, "allergiesDetails"),
		HealthIssues:     formValue(form, "healthIssues") == "true",
		HealthDetails:    formValue(form, "healthDetails"),
		PaymentMethod:    formValue(form, "paymentMethod"),
		TermsAccepted:    formValue(form, "termsAccepted") == "true",
	}

	if raw := formValue(form, "volunteerRoles"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &sub.VolunteerRoles); err != nil {
			return sub, nil, &huma.ErrorDetail{Location: "body.volunteerRoles", Message: "invalid JSON"}
		}
	}
	if raw := formValue(form, "familyDetails"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &sub.FamilyDetails); err != nil {
			return sub, nil, &huma.ErrorDetail{Location: "body.familyDetails", Message: "invalid JSON"}
		}
	}
	if raw := formValue(form, "tshirtOrders"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &sub.TshirtOrders); err != nil {
			return sub, nil, &huma.ErrorDetail{Location: "body.tshirtOrders", Message: "invalid JSON"}
		}
	}

	var proofData []byte
	if headers := form.File["paymentProof"]; len(headers) > 0 {
		fh := headers[0]
		file, err := fh.Open()
		if err != nil {
			return sub, nil, fmt.Errorf("open payment proof: %w", err)
		}
		defer file.Close()

		// Read one byte past the cap so the builder can reject oversizes.
		data, err := io.ReadAll(io.LimitReader(file, registration.MaxProofSize+1))
		if err != nil {
			return sub, nil, fmt.Errorf("read payment proof: %w", err)
		}
		proofData = data
		sub.PaymentProof = &registration.ProofFile{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
		}
	}

	return sub, proofData, nil
}

func formValue(form *multipart.Form, key string) string {
	if vals := form.Value[key]; len(vals) > 0 {
		return vals[0]
	}
	return ""
}
