package dto

import (
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/ZacIsrael/dev-camper-api/errs"
	"github.com/ZacIsrael/dev-camper-api/models"
	"github.com/ZacIsrael/dev-camper-api/validation"
)

// CreateBootcampDTO carries the client-writable bootcamp fields. Slug,
// location, photo and the averages are derived server-side.
type CreateBootcampDTO struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Website       string   `json:"website"`
	Phone         string   `json:"phone"`
	Email         string   `json:"email"`
	Address       string   `json:"address"`
	Careers       []string `json:"careers"`
	Housing       bool     `json:"housing"`
	JobAssistance bool     `json:"jobAssistance"`
	JobGuarantee  bool     `json:"jobGuarantee"`
	AcceptGi      bool     `json:"acceptGi"`
}

func (d CreateBootcampDTO) Model() (*models.Bootcamp, error) {
	b := &models.Bootcamp{
		Name:          strings.TrimSpace(d.Name),
		Description:   strings.TrimSpace(d.Description),
		Website:       strings.TrimSpace(d.Website),
		Phone:         strings.TrimSpace(d.Phone),
		Email:         strings.ToLower(strings.TrimSpace(d.Email)),
		Address:       strings.TrimSpace(d.Address),
		Careers:       trimAll(d.Careers),
		Housing:       d.Housing,
		JobAssistance: d.JobAssistance,
		JobGuarantee:  d.JobGuarantee,
		AcceptGi:      d.AcceptGi,
		Photo:         models.DefaultPhoto,
	}
	if err := validation.Struct(b); err != nil {
		return nil, err
	}
	return b, nil
}

// UpdateBootcampDTO — all fields are optional pointers
type UpdateBootcampDTO struct {
	Name          *string   `json:"name"`
	Description   *string   `json:"description"`
	Website       *string   `json:"website"`
	Phone         *string   `json:"phone"`
	Email         *string   `json:"email"`
	Address       *string   `json:"address"`
	Careers       *[]string `json:"careers"`
	Housing       *bool     `json:"housing"`
	JobAssistance *bool     `json:"jobAssistance"`
	JobGuarantee  *bool     `json:"jobGuarantee"`
	AcceptGi      *bool     `json:"acceptGi"`
}

// Apply writes the provided fields onto b, re-validates the result and
// returns the changed fields keyed by their stored names.
func (d UpdateBootcampDTO) Apply(b *models.Bootcamp) (bson.M, error) {
	set := bson.M{}
	if d.Name != nil {
		b.Name = strings.TrimSpace(*d.Name)
		set["name"] = b.Name
	}
	if d.Description != nil {
		b.Description = strings.TrimSpace(*d.Description)
		set["description"] = b.Description
	}
	if d.Website != nil {
		b.Website = strings.TrimSpace(*d.Website)
		set["website"] = b.Website
	}
	if d.Phone != nil {
		b.Phone = strings.TrimSpace(*d.Phone)
		set["phone"] = b.Phone
	}
	if d.Email != nil {
		b.Email = strings.ToLower(strings.TrimSpace(*d.Email))
		set["email"] = b.Email
	}
	if d.Address != nil {
		b.Address = strings.TrimSpace(*d.Address)
		set["address"] = b.Address
	}
	if d.Careers != nil {
		b.Careers = trimAll(*d.Careers)
		set["careers"] = b.Careers
	}
	if d.Housing != nil {
		b.Housing = *d.Housing
		set["housing"] = b.Housing
	}
	if d.JobAssistance != nil {
		b.JobAssistance = *d.JobAssistance
		set["jobAssistance"] = b.JobAssistance
	}
	if d.JobGuarantee != nil {
		b.JobGuarantee = *d.JobGuarantee
		set["jobGuarantee"] = b.JobGuarantee
	}
	if d.AcceptGi != nil {
		b.AcceptGi = *d.AcceptGi
		set["acceptGi"] = b.AcceptGi
	}

	if len(set) == 0 {
		return nil, errs.E(errs.ErrValidation, "no updates provided")
	}
	if err := validation.Struct(b); err != nil {
		return nil, err
	}
	return set, nil
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, strings.TrimSpace(s))
	}
	return out
}
